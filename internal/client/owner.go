package client

import (
	"context"
	"net/http"

	"github.com/bazaar-realm/bazaar-client/internal/cache"
	"github.com/bazaar-realm/bazaar-client/internal/model"
	"github.com/bazaar-realm/bazaar-client/internal/synchronizer"
)

const ownerResource = "owner"

func (c *Client) ownerKeys(o model.Owner) []cache.Key {
	return []cache.Key{c.key("owner_%d", o.ID)}
}

func (c *Client) CreateOwner(ctx context.Context, d model.OwnerDraft) (model.Owner, error) {
	if err := d.Validate(); err != nil {
		return model.Owner{}, invalid(ownerResource, err)
	}
	return synchronizer.Mutate(ctx, c.sync, synchronizer.MutateRequest[model.Owner]{
		Resource: ownerResource,
		Method:   http.MethodPost,
		Path:     c.sync.Path("owners"),
		Draft:    d,
		Schema:   model.OwnerSchema,
		Valid:    savedOwner,
		Keys:     c.ownerKeys,
	})
}

func (c *Client) UpdateOwner(ctx context.Context, ownerID int32, d model.OwnerDraft) (model.Owner, error) {
	if err := d.Validate(); err != nil {
		return model.Owner{}, invalid(ownerResource, err)
	}
	return synchronizer.Mutate(ctx, c.sync, synchronizer.MutateRequest[model.Owner]{
		Resource: ownerResource,
		Method:   http.MethodPatch,
		Path:     c.sync.Path("owners", id(ownerID)),
		Draft:    d,
		Schema:   model.OwnerSchema,
		Valid:    savedOwner,
		Keys:     c.ownerKeys,
	})
}
