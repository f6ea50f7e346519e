package client

import (
	"context"
	"net/http"

	"github.com/bazaar-realm/bazaar-client/internal/cache"
	"github.com/bazaar-realm/bazaar-client/internal/model"
	"github.com/bazaar-realm/bazaar-client/internal/synchronizer"
)

const transactionResource = "transaction"

func (c *Client) CreateTransaction(ctx context.Context, d model.TransactionDraft) (model.Transaction, error) {
	if err := d.Validate(); err != nil {
		return model.Transaction{}, invalid(transactionResource, err)
	}
	return synchronizer.Mutate(ctx, c.sync, synchronizer.MutateRequest[model.Transaction]{
		Resource: transactionResource,
		Method:   http.MethodPost,
		Path:     c.sync.Path("transactions"),
		Draft:    d,
		Schema:   model.TransactionSchema,
		Valid:    savedTransaction,
		Keys: func(tx model.Transaction) []cache.Key {
			return []cache.Key{c.key("transaction_%d", tx.ID)}
		},
	})
}
