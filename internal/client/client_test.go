package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bazaar-realm/bazaar-client/internal/apierr"
	"github.com/bazaar-realm/bazaar-client/internal/cache"
	"github.com/bazaar-realm/bazaar-client/internal/codec"
	"github.com/bazaar-realm/bazaar-client/internal/logging"
	"github.com/bazaar-realm/bazaar-client/internal/model"
	"github.com/bazaar-realm/bazaar-client/internal/stubapi"
	"github.com/bazaar-realm/bazaar-client/internal/transport"
)

type env struct {
	stub  *stubapi.Server
	cache *cache.Coordinator
}

func newEnv(t *testing.T) *env {
	t.Helper()
	stub, err := stubapi.Start("127.0.0.1:0", logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = stub.Close() })

	coord, err := cache.NewCoordinator(t.TempDir(), cache.Options{MetadataMemoEntries: 64})
	require.NoError(t, err)
	t.Cleanup(coord.Close)
	return &env{stub: stub, cache: coord}
}

func (e *env) client(t *testing.T, baseURL, wire string) *Client {
	t.Helper()
	c, err := codec.Lookup(wire)
	require.NoError(t, err)
	tr := transport.New(transport.NewHTTPClient(2*time.Second), baseURL, "api-key-1", c, transport.Options{})
	return New(tr, e.cache, baseURL, Options{Version: "v1", ListLimit: 2})
}

func TestStatus(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.client(t, e.stub.URL(), "msgpack").Status(context.Background()))

	e.stub.Faults.FailNext(1, stubapi.Fault{Status: http.StatusServiceUnavailable, Title: "Service Unavailable"})
	err := e.client(t, e.stub.URL(), "msgpack").Status(context.Background())
	var serverErr *apierr.ServerError
	require.ErrorAs(t, err, &serverErr)
	require.Equal(t, http.StatusServiceUnavailable, serverErr.Status())

	err = e.client(t, "http://127.0.0.1:1", "msgpack").Status(context.Background())
	var netErr *apierr.NetworkError
	require.ErrorAs(t, err, &netErr)
}

func TestShopRoundTripAndOfflineRead(t *testing.T) {
	for _, wire := range codec.Names() {
		t.Run(wire, func(t *testing.T) {
			e := newEnv(t)
			ctx := context.Background()
			c := e.client(t, e.stub.URL(), wire)

			owner, err := c.CreateOwner(ctx, model.OwnerDraft{Name: "Belethor", ModVersion: 3})
			require.NoError(t, err)
			require.NotZero(t, owner.ID)

			shop, err := c.CreateShop(ctx, model.ShopDraft{Name: "Tools", Description: "hammers"})
			require.NoError(t, err)
			require.Equal(t, owner.ID, shop.OwnerID)

			got, err := c.GetShop(ctx, shop.ID)
			require.NoError(t, err)
			require.Equal(t, shop.Name, got.Name)
			require.True(t, shop.CreatedAt.Equal(got.CreatedAt))

			gold := int32(250)
			updated, err := c.UpdateShop(ctx, shop.ID, model.ShopDraft{Name: "Tools & Co", Description: "hammers", Gold: &gold})
			require.NoError(t, err)
			require.Equal(t, int32(250), updated.Gold)

			e.stub.Faults.FailNext(1, stubapi.Fault{Status: http.StatusInternalServerError, Title: "Internal Server Error"})
			offline, err := c.GetShop(ctx, shop.ID)
			require.NoError(t, err)
			require.Equal(t, "Tools & Co", offline.Name)
		})
	}
}

func TestCreateShopRejectsSavedRecordWithoutID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/shops" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"name":"Foo","description":"Bar"}`))
	}))
	defer srv.Close()

	e := newEnv(t)
	c := e.client(t, srv.URL, "json")

	shop, err := c.CreateShop(context.Background(), model.ShopDraft{Name: "Foo", Description: "Bar"})
	var netErr *apierr.NetworkError
	require.ErrorAs(t, err, &netErr)
	require.Contains(t, netErr.Error(), "with an ID")
	require.Zero(t, shop.ID)

	e.cache.Flush()
	_, err = e.cache.ReadBody(c.key("shop_%d", 0), model.ShopSchema, "json")
	require.ErrorIs(t, err, cache.ErrNotFound)
}

func TestListShopsUsesLimitAndFallsBack(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.client(t, e.stub.URL(), "msgpack")
	for _, name := range []string{"a", "b", "c"} {
		_, err := c.CreateShop(ctx, model.ShopDraft{Name: name})
		require.NoError(t, err)
	}

	shops, err := c.ListShops(ctx)
	require.NoError(t, err)
	require.Len(t, shops, 2)

	again, err := c.ListShops(ctx)
	require.NoError(t, err)
	require.Equal(t, shops[1].Name, again[1].Name)

	down := e.client(t, "http://127.0.0.1:1", "msgpack")
	_, err = down.ListShops(ctx)
	require.Error(t, err, "a different origin must not see this cache")
}

func TestMerchandiseListKeysServeBothReadPaths(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.client(t, e.stub.URL(), "cbor")

	shop, err := c.CreateShop(ctx, model.ShopDraft{Name: "Tools"})
	require.NoError(t, err)
	list, err := c.CreateMerchandiseList(ctx, model.MerchandiseListDraft{
		ShopID:   shop.ID,
		FormList: []model.Merchandise{{ModName: "Skyrim.esm", LocalFormID: 0x12EB7, Name: "Iron Sword", Quantity: 1, FormType: 41, Price: 25, Keywords: []string{"WeapTypeSword"}}},
	})
	require.NoError(t, err)

	e.stub.Faults.FailNext(2, stubapi.Fault{Status: http.StatusBadGateway, Title: "Bad Gateway"})
	byID, err := c.GetMerchandiseList(ctx, list.ID)
	require.NoError(t, err)
	byShop, err := c.GetMerchandiseListByShop(ctx, shop.ID)
	require.NoError(t, err)
	require.Equal(t, byID.FormList, byShop.FormList)
	require.Equal(t, []string{"WeapTypeSword"}, byShop.FormList[0].Keywords)

	updated, err := c.UpdateMerchandiseList(ctx, model.MerchandiseListDraft{ShopID: shop.ID})
	require.NoError(t, err)
	require.Equal(t, list.ID, updated.ID)
	require.Empty(t, updated.FormList)
}

func TestInteriorRefListWithShelves(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.client(t, e.stub.URL(), "json")

	shop, err := c.CreateShop(ctx, model.ShopDraft{Name: "Tools"})
	require.NoError(t, err)

	sortOn := "price"
	draft := model.InteriorRefListDraft{
		ShopID:  shop.ID,
		RefList: []model.InteriorRef{{BaseModName: "Skyrim.esm", BaseLocalFormID: 1, PositionX: 1.5, Scale: 100}},
		Shelves: []model.Shelf{{ShelfType: 1, Page: 1, SortOn: &sortOn, SortAsc: true}},
	}
	created, err := c.CreateInteriorRefList(ctx, draft)
	require.NoError(t, err)
	require.Len(t, created.Shelves, 1)

	byShop, err := c.GetInteriorRefListByShop(ctx, shop.ID)
	require.NoError(t, err)
	require.Equal(t, "price", *byShop.Shelves[0].SortOn)
	require.Nil(t, byShop.RefList[0].RefModName)

	draft.RefList = append(draft.RefList, model.InteriorRef{BaseModName: "Update.esm", BaseLocalFormID: 2})
	updated, err := c.UpdateInteriorRefList(ctx, draft)
	require.NoError(t, err)
	require.Len(t, updated.RefList, 2)

	byID, err := c.GetInteriorRefList(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, byID.RefList, 2)
}

func TestCreateTransactionNeverFallsBack(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.client(t, e.stub.URL(), "msgpack")
	shop, err := c.CreateShop(ctx, model.ShopDraft{Name: "Tools"})
	require.NoError(t, err)

	draft := model.TransactionDraft{ShopID: shop.ID, ModName: "Skyrim.esm", LocalFormID: 5, Name: "Apple", IsFood: true, Price: 3, Quantity: 2, Amount: 6}
	tx, err := c.CreateTransaction(ctx, draft)
	require.NoError(t, err)
	require.Equal(t, int32(6), tx.Amount)

	e.stub.Faults.FailNext(1, stubapi.Fault{Status: http.StatusInternalServerError, Title: "Internal Server Error", Detail: "ledger locked"})
	_, err = c.CreateTransaction(ctx, draft)
	var serverErr *apierr.ServerError
	require.ErrorAs(t, err, &serverErr)
	detail, ok := serverErr.Detail()
	require.True(t, ok)
	require.Equal(t, "ledger locked", detail)
}

func TestInvalidDraftsNeverReachServer(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.client(t, "http://127.0.0.1:1", "msgpack")

	_, err := c.CreateShop(ctx, model.ShopDraft{})
	var netErr *apierr.NetworkError
	require.ErrorAs(t, err, &netErr)
	require.Contains(t, netErr.Message(), "invalid shop")

	_, err = c.CreateTransaction(ctx, model.TransactionDraft{})
	require.ErrorAs(t, err, &netErr)
}

func TestNewClampsListLimit(t *testing.T) {
	e := newEnv(t)
	c, _ := codec.Lookup("msgpack")
	tr := transport.New(nil, e.stub.URL(), "k", c, transport.Options{})
	require.Equal(t, DefaultListLimit, New(tr, e.cache, e.stub.URL(), Options{}).listLimit)
	require.Equal(t, MaxListLimit, New(tr, e.cache, e.stub.URL(), Options{ListLimit: 5000}).listLimit)
}
