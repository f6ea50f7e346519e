package client

import (
	"context"
	"net/http"

	"github.com/bazaar-realm/bazaar-client/internal/cache"
	"github.com/bazaar-realm/bazaar-client/internal/model"
	"github.com/bazaar-realm/bazaar-client/internal/synchronizer"
)

const merchandiseResource = "merchandise_list"

// merchandiseKeys 同时写入按 id 与按商店两个键，之后任一读取路径都能回退。
func (c *Client) merchandiseKeys(l model.MerchandiseList) []cache.Key {
	return []cache.Key{
		c.key("merchandise_list_%d", l.ID),
		c.key("shop_%d_merchandise_list", l.ShopID),
	}
}

func (c *Client) CreateMerchandiseList(ctx context.Context, d model.MerchandiseListDraft) (model.MerchandiseList, error) {
	if err := d.Validate(); err != nil {
		return model.MerchandiseList{}, invalid(merchandiseResource, err)
	}
	return synchronizer.Mutate(ctx, c.sync, synchronizer.MutateRequest[model.MerchandiseList]{
		Resource: merchandiseResource,
		Method:   http.MethodPost,
		Path:     c.sync.Path("merchandise_lists"),
		Draft:    d,
		Schema:   model.MerchandiseListSchema,
		Valid:    savedMerchandiseList,
		Keys:     c.merchandiseKeys,
	})
}

func (c *Client) UpdateMerchandiseList(ctx context.Context, d model.MerchandiseListDraft) (model.MerchandiseList, error) {
	if err := d.Validate(); err != nil {
		return model.MerchandiseList{}, invalid(merchandiseResource, err)
	}
	return synchronizer.Mutate(ctx, c.sync, synchronizer.MutateRequest[model.MerchandiseList]{
		Resource: merchandiseResource,
		Method:   http.MethodPatch,
		Path:     c.sync.Path("shops", id(d.ShopID), "merchandise_list"),
		Draft:    d,
		Schema:   model.MerchandiseListSchema,
		Valid:    savedMerchandiseList,
		Keys:     c.merchandiseKeys,
	})
}

func (c *Client) GetMerchandiseList(ctx context.Context, listID int32) (model.MerchandiseList, error) {
	return synchronizer.Fetch[model.MerchandiseList](ctx, c.sync, synchronizer.FetchRequest{
		Resource: merchandiseResource,
		Path:     c.sync.Path("merchandise_lists", id(listID)),
		Key:      c.key("merchandise_list_%d", listID),
		Schema:   model.MerchandiseListSchema,
	})
}

func (c *Client) GetMerchandiseListByShop(ctx context.Context, shopID int32) (model.MerchandiseList, error) {
	return synchronizer.Fetch[model.MerchandiseList](ctx, c.sync, synchronizer.FetchRequest{
		Resource: merchandiseResource,
		Path:     c.sync.Path("shops", id(shopID), "merchandise_list"),
		Key:      c.key("shop_%d_merchandise_list", shopID),
		Schema:   model.MerchandiseListSchema,
	})
}
