package client

import (
	"context"
	"net/http"

	"github.com/bazaar-realm/bazaar-client/internal/cache"
	"github.com/bazaar-realm/bazaar-client/internal/model"
	"github.com/bazaar-realm/bazaar-client/internal/synchronizer"
)

const interiorResource = "interior_ref_list"

func (c *Client) interiorKeys(l model.InteriorRefList) []cache.Key {
	return []cache.Key{
		c.key("interior_ref_list_%d", l.ID),
		c.key("shop_%d_interior_ref_list", l.ShopID),
	}
}

func (c *Client) CreateInteriorRefList(ctx context.Context, d model.InteriorRefListDraft) (model.InteriorRefList, error) {
	if err := d.Validate(); err != nil {
		return model.InteriorRefList{}, invalid(interiorResource, err)
	}
	return synchronizer.Mutate(ctx, c.sync, synchronizer.MutateRequest[model.InteriorRefList]{
		Resource: interiorResource,
		Method:   http.MethodPost,
		Path:     c.sync.Path("interior_ref_lists"),
		Draft:    d,
		Schema:   model.InteriorRefListSchema,
		Valid:    savedInteriorRefList,
		Keys:     c.interiorKeys,
	})
}

func (c *Client) UpdateInteriorRefList(ctx context.Context, d model.InteriorRefListDraft) (model.InteriorRefList, error) {
	if err := d.Validate(); err != nil {
		return model.InteriorRefList{}, invalid(interiorResource, err)
	}
	return synchronizer.Mutate(ctx, c.sync, synchronizer.MutateRequest[model.InteriorRefList]{
		Resource: interiorResource,
		Method:   http.MethodPatch,
		Path:     c.sync.Path("shops", id(d.ShopID), "interior_ref_list"),
		Draft:    d,
		Schema:   model.InteriorRefListSchema,
		Valid:    savedInteriorRefList,
		Keys:     c.interiorKeys,
	})
}

func (c *Client) GetInteriorRefList(ctx context.Context, listID int32) (model.InteriorRefList, error) {
	return synchronizer.Fetch[model.InteriorRefList](ctx, c.sync, synchronizer.FetchRequest{
		Resource: interiorResource,
		Path:     c.sync.Path("interior_ref_lists", id(listID)),
		Key:      c.key("interior_ref_list_%d", listID),
		Schema:   model.InteriorRefListSchema,
	})
}

func (c *Client) GetInteriorRefListByShop(ctx context.Context, shopID int32) (model.InteriorRefList, error) {
	return synchronizer.Fetch[model.InteriorRefList](ctx, c.sync, synchronizer.FetchRequest{
		Resource: interiorResource,
		Path:     c.sync.Path("shops", id(shopID), "interior_ref_list"),
		Key:      c.key("shop_%d_interior_ref_list", shopID),
		Schema:   model.InteriorRefListSchema,
	})
}
