//go:build cgotest

package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazaar-realm/bazaar-client/internal/apierr"
	"github.com/bazaar-realm/bazaar-client/internal/codec"
	"github.com/bazaar-realm/bazaar-client/internal/config"
	"github.com/bazaar-realm/bazaar-client/internal/logging"
	"github.com/bazaar-realm/bazaar-client/internal/model"
	"github.com/bazaar-realm/bazaar-client/internal/stubapi"
	"github.com/bazaar-realm/bazaar-client/internal/version"
)

func startStub(t *testing.T) *stubapi.Server {
	t.Helper()
	srv, err := stubapi.Start("127.0.0.1:0", logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })
	return srv
}

func TestCreateShopOkAndServerError(t *testing.T) {
	installTestRuntime(t, nil)
	msgpack, err := codec.Lookup("msgpack")
	require.NoError(t, err)

	created := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/shops", r.URL.Path)

		var draft model.ShopDraft
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, msgpack.Unmarshal(body, &draft))
		assert.Equal(t, model.ShopDraft{Name: "Foo", Description: "Bar"}, draft)

		out, _ := msgpack.Marshal(model.Shop{ID: 1, Name: "Foo", Description: "Bar"})
		w.Header().Set("Content-Type", msgpack.ContentType())
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write(out)
	}))
	defer created.Close()

	shop, errView := hostCall{url: created.URL, key: "k"}.createShop("Foo", "Bar")
	require.Nil(t, errView)
	require.Equal(t, int32(1), shop.ID)
	require.Equal(t, "Foo", shop.Name)

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Internal Server Error"))
	}))
	defer failing.Close()

	_, errView = hostCall{url: failing.URL, key: "k"}.createShop("Foo", "Bar")
	require.NotNil(t, errView)
	require.Equal(t, uint8(apierr.KindServer), errView.Kind)
	require.Equal(t, uint16(500), errView.Status)
	require.Equal(t, "Internal Server Error", errView.Title)
	require.Nil(t, errView.Detail)
	require.NotEmpty(t, errView.Message)
}

func TestShopRoundTripAndOfflineFallback(t *testing.T) {
	installTestRuntime(t, nil)
	srv := startStub(t)
	h := hostCall{url: srv.URL(), key: generatedAPIKey()}

	ok, errView := h.statusCheck()
	require.Nil(t, errView)
	require.True(t, ok)

	owner, errView := h.createOwner("Belethor", 3)
	require.Nil(t, errView)
	owner, errView = h.updateOwner(owner.ID, "Belethor the Elder", 4)
	require.Nil(t, errView)
	require.Equal(t, "Belethor the Elder", owner.Name)
	require.Equal(t, int32(4), owner.ModVersion)

	created, errView := h.createShop("Belethor's General Goods", "Everything's for sale")
	require.Nil(t, errView)
	require.Equal(t, "general_store", created.ShopType)

	fetched, errView := h.getShop(created.ID)
	require.Nil(t, errView)
	require.Equal(t, created, fetched)

	updated, errView := h.updateShop(uint32(created.ID), "Goods", "cheap", 500, nil, []string{"VendorItemFood"}, true)
	require.Nil(t, errView)
	require.Equal(t, "general_store", updated.ShopType)
	require.Equal(t, int32(500), updated.Gold)
	require.Equal(t, []string{"VendorItemFood"}, updated.VendorKeywords)
	require.True(t, updated.VendorKeywordsExclude)

	shops, errView := h.listShops()
	require.Nil(t, errView)
	require.Equal(t, []model.Shop{updated}, shops)

	require.NoError(t, srv.Close())

	cached, errView := h.getShop(created.ID)
	require.Nil(t, errView)
	require.Equal(t, updated, cached)

	shops, errView = h.listShops()
	require.Nil(t, errView)
	require.Len(t, shops, 1)

	_, errView = h.createShop("offline", "never cached")
	require.NotNil(t, errView)
	require.Equal(t, uint8(apierr.KindNetwork), errView.Kind)
	require.Zero(t, errView.Status)
	require.Empty(t, errView.Title)
	require.NotEmpty(t, errView.Message)

	_, errView = h.statusCheck()
	require.NotNil(t, errView)
	require.Equal(t, uint8(apierr.KindNetwork), errView.Kind)
}

func TestUpdateShopRejectsOversizedID(t *testing.T) {
	installTestRuntime(t, nil)
	_, errView := hostCall{url: "http://127.0.0.1:1", key: "k"}.updateShop(1<<31, "x", "", 0, nil, nil, false)
	require.NotNil(t, errView)
	require.Equal(t, uint8(apierr.KindNetwork), errView.Kind)
	require.Contains(t, errView.Message, "invalid shop id")
}

func TestMerchandiseThroughExports(t *testing.T) {
	installTestRuntime(t, nil)
	srv := startStub(t)
	h := hostCall{url: srv.URL(), key: "k"}

	shop, errView := h.createShop("Arcadia's Cauldron", "potions")
	require.Nil(t, errView)

	items := []model.Merchandise{
		{ModName: "Skyrim.esm", LocalFormID: 0x3EADD, Name: "Potion of Healing", Quantity: 4, FormType: 46, Price: 36, Keywords: []string{"VendorItemPotion"}},
		{ModName: "Skyrim.esm", LocalFormID: 0x64B3F, Name: "Apple", Quantity: 10, FormType: 46, IsFood: true, Price: 3, Keywords: []string{"VendorItemFood"}},
	}
	saved, errView := h.putMerchandise(true, shop.ID, items)
	require.Nil(t, errView)
	require.Equal(t, items, saved)

	_, errView = h.putMerchandise(true, shop.ID, items)
	require.NotNil(t, errView)
	require.Equal(t, uint16(http.StatusConflict), errView.Status)

	items[0].Quantity = 1
	saved, errView = h.putMerchandise(false, shop.ID, items)
	require.Nil(t, errView)
	require.Equal(t, uint32(1), saved[0].Quantity)

	byShop, errView := h.getMerchandiseByShop(shop.ID)
	require.Nil(t, errView)
	require.Equal(t, items, byShop)

	_, errView = h.putMerchandise(true, 999, items)
	require.NotNil(t, errView)
	require.Equal(t, uint16(http.StatusUnprocessableEntity), errView.Status)

	errView = h.callMerchandiseWithNullPointer(shop.ID)
	require.NotNil(t, errView)
	require.Equal(t, uint8(apierr.KindNetwork), errView.Kind)
	require.Contains(t, errView.Message, "null pointer")

	require.NoError(t, srv.Close())
	cached, errView := h.getMerchandiseByShop(shop.ID)
	require.Nil(t, errView)
	require.Equal(t, items, cached)

	_, errView = h.getMerchandise(12345)
	require.NotNil(t, errView)
	require.Equal(t, uint8(apierr.KindNetwork), errView.Kind)
}

func TestInteriorRefListThroughExports(t *testing.T) {
	installTestRuntime(t, nil)
	srv := startStub(t)
	h := hostCall{url: srv.URL(), key: "k"}

	shop, errView := h.createShop("Warmaiden's", "arms")
	require.Nil(t, errView)

	refMod := "Dawnguard.esm"
	search := "iron"
	filter := uint32(26)
	refs := []model.InteriorRef{
		{BaseModName: "Skyrim.esm", BaseLocalFormID: 0x1F3, RefModName: &refMod, RefLocalFormID: 0x11, PositionX: 1.5, PositionY: -2, AngleZ: 90, Scale: 100},
		{BaseModName: "Skyrim.esm", BaseLocalFormID: 0x2A4, PositionZ: 10, Scale: 50},
	}
	shelves := []model.Shelf{
		{ShelfType: 1, PositionX: 3, Scale: 100, Page: 1, FilterFormType: &filter, Search: &search, SortAsc: true},
		{ShelfType: 2, Page: 2, FilterIsFood: true},
	}

	id, errView := h.putInterior(true, shop.ID, refs, shelves)
	require.Nil(t, errView)
	require.Positive(t, id)

	got, errView := h.getInterior(id)
	require.Nil(t, errView)
	require.Equal(t, refs, got.RefList)
	require.Equal(t, shelves, got.Shelves)
	require.Nil(t, got.RefList[1].RefModName)
	require.Nil(t, got.Shelves[1].FilterFormType)

	updatedID, errView := h.putInterior(false, shop.ID, refs[:1], nil)
	require.Nil(t, errView)
	require.Equal(t, id, updatedID)

	byShop, errView := h.getInteriorByShop(shop.ID)
	require.Nil(t, errView)
	require.Equal(t, refs[:1], byShop.RefList)
	require.Empty(t, byShop.Shelves)

	_, errView = h.putInterior(false, 999, refs, shelves)
	require.NotNil(t, errView)
	require.Equal(t, uint8(apierr.KindServer), errView.Kind)
}

func TestCreateTransactionNeverFallsBack(t *testing.T) {
	installTestRuntime(t, nil)
	srv := startStub(t)
	h := hostCall{url: srv.URL(), key: "k"}

	shop, errView := h.createShop("Riverwood Trader", "")
	require.Nil(t, errView)

	draft := model.TransactionDraft{
		ShopID:      shop.ID,
		ModName:     "Skyrim.esm",
		LocalFormID: 0x12E46,
		Name:        "Iron Sword",
		FormType:    41,
		Price:       25,
		IsSell:      true,
		Quantity:    2,
		Amount:      50,
		Keywords:    []string{"WeapMaterialIron"},
	}
	tx, errView := h.createTransaction(draft)
	require.Nil(t, errView)
	require.Positive(t, tx.ID)
	require.Equal(t, draft.Keywords, tx.Keywords)
	require.Equal(t, int32(50), tx.Amount)
	require.True(t, tx.IsSell)

	srv.Faults.FailNext(1, stubapi.Fault{Status: http.StatusInternalServerError, Title: "Internal Server Error", Detail: "ledger locked"})
	_, errView = h.createTransaction(draft)
	require.NotNil(t, errView)
	require.Equal(t, uint8(apierr.KindServer), errView.Kind)
	require.Equal(t, uint16(500), errView.Status)
	require.NotNil(t, errView.Detail)
	require.Equal(t, "ledger locked", *errView.Detail)

	draft.Quantity = 0
	_, errView = h.createTransaction(draft)
	require.NotNil(t, errView)
	require.Equal(t, uint8(apierr.KindNetwork), errView.Kind)
}

func TestReleaseFunctionsZeroPointers(t *testing.T) {
	search := "steel"
	filter := uint32(26)
	refMod := "Dawnguard.esm"
	dirty := releaseZeroesRecords(
		model.Shop{ID: 1, Name: "Foo", Description: "Bar", ShopType: "general_store", VendorKeywords: []string{"a", "b"}},
		model.InteriorRefList{
			RefList: []model.InteriorRef{{BaseModName: "Skyrim.esm", RefModName: &refMod}},
			Shelves: []model.Shelf{{ShelfType: 1, FilterFormType: &filter, Search: &search}},
		},
		[]model.Merchandise{{ModName: "Skyrim.esm", Name: "Apple", Keywords: []string{"VendorItemFood"}}},
		model.Transaction{ID: 1, ModName: "Skyrim.esm", Name: "Apple", Keywords: []string{"VendorItemFood"}},
		apierr.FromResponse(500, []byte(`{"title":"Internal Server Error","detail":"disk full","status":500}`)),
	)
	require.Empty(t, dirty)
}

func TestShelfSentinels(t *testing.T) {
	filter, searchNull, sortNull := rawShelfSentinels(model.Shelf{ShelfType: 1})
	require.Zero(t, filter)
	require.True(t, searchNull)
	require.True(t, sortNull)

	ft := uint32(46)
	sortOn := "price"
	filter, searchNull, sortNull = rawShelfSentinels(model.Shelf{FilterFormType: &ft, SortOn: &sortOn})
	require.Equal(t, uint32(46), filter)
	require.True(t, searchNull)
	require.False(t, sortNull)
}

func TestGenerateAPIKeyAndVersion(t *testing.T) {
	a, b := generatedAPIKey(), generatedAPIKey()
	_, err := uuid.Parse(a)
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	require.Contains(t, clientVersion(), version.Version)
}

func TestInitClientLoadsConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfigFile(t, `
LogLevel = "warn"
CacheDir = "`+dir+`"
WireFormat = "cbor"
ListLimit = 10
`)
	t.Cleanup(resetRuntime)
	require.True(t, initClientAt(path))

	cfg := activeConfig(t)
	require.Equal(t, dir, cfg.CacheDir)
	require.Equal(t, "cbor", cfg.WireFormat)
	require.Equal(t, 10, cfg.ListLimit)

	require.True(t, initClientAt(path))
}

func TestInitClientRejectsBadConfig(t *testing.T) {
	errBuf := useStdErrBuffer(t)
	path := writeConfigFile(t, `RequestTimeout = "boom"`)
	require.False(t, initClientAt(path))
	require.True(t, strings.Contains(errBuf.String(), "加载配置失败"))
}

func TestCallsWithoutInitUseDefaults(t *testing.T) {
	resetRuntime()
	t.Setenv(config.EnvConfigPath, "")
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Cleanup(resetRuntime)

	_, errView := hostCall{url: "not a url", key: "k"}.getShop(1)
	require.NotNil(t, errView)
	require.Equal(t, uint8(apierr.KindNetwork), errView.Kind)
	require.NotEmpty(t, activeConfig(t).CacheDir)
}
