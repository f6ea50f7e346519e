package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bazaar-realm/bazaar-client/internal/cache"
	"github.com/bazaar-realm/bazaar-client/internal/model"
	"github.com/bazaar-realm/bazaar-client/internal/synchronizer"
)

const shopResource = "shop"

func (c *Client) shopKeys(s model.Shop) []cache.Key {
	return []cache.Key{c.key("shop_%d", s.ID)}
}

func (c *Client) CreateShop(ctx context.Context, d model.ShopDraft) (model.Shop, error) {
	if err := d.Validate(); err != nil {
		return model.Shop{}, invalid(shopResource, err)
	}
	return synchronizer.Mutate(ctx, c.sync, synchronizer.MutateRequest[model.Shop]{
		Resource: shopResource,
		Method:   http.MethodPost,
		Path:     c.sync.Path("shops"),
		Draft:    d,
		Schema:   model.ShopSchema,
		Valid:    savedShop,
		Keys:     c.shopKeys,
	})
}

func (c *Client) UpdateShop(ctx context.Context, shopID int32, d model.ShopDraft) (model.Shop, error) {
	if err := d.Validate(); err != nil {
		return model.Shop{}, invalid(shopResource, err)
	}
	return synchronizer.Mutate(ctx, c.sync, synchronizer.MutateRequest[model.Shop]{
		Resource: shopResource,
		Method:   http.MethodPatch,
		Path:     c.sync.Path("shops", id(shopID)),
		Draft:    d,
		Schema:   model.ShopSchema,
		Valid:    savedShop,
		Keys:     c.shopKeys,
	})
}

func (c *Client) GetShop(ctx context.Context, shopID int32) (model.Shop, error) {
	return synchronizer.Fetch[model.Shop](ctx, c.sync, synchronizer.FetchRequest{
		Resource: shopResource,
		Path:     c.sync.Path("shops", id(shopID)),
		Key:      c.key("shop_%d", shopID),
		Schema:   model.ShopSchema,
	})
}

// ListShops 返回至多 ListLimit 个商店，整个列表作为一个缓存条目。
func (c *Client) ListShops(ctx context.Context) ([]model.Shop, error) {
	return synchronizer.Fetch[[]model.Shop](ctx, c.sync, synchronizer.FetchRequest{
		Resource: shopResource,
		Path:     c.sync.Path("shops"),
		Query:    url.Values{"limit": []string{strconv.Itoa(c.listLimit)}},
		Key:      c.key("shops"),
		Schema:   model.ShopSchema,
	})
}
