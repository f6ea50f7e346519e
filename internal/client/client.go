// Package client exposes one method per remote operation. Reads go through
// synchronizer.Fetch and may be served from cache; writes go through
// synchronizer.Mutate and write the saved record through to every cache key
// that identifies it.
package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/bazaar-realm/bazaar-client/internal/apierr"
	"github.com/bazaar-realm/bazaar-client/internal/cache"
	"github.com/bazaar-realm/bazaar-client/internal/model"
	"github.com/bazaar-realm/bazaar-client/internal/synchronizer"
	"github.com/bazaar-realm/bazaar-client/internal/transport"
)

const (
	DefaultListLimit = 128
	MaxListLimit     = 1000
)

// Options 配置单个上游的客户端。
type Options struct {
	Version   string
	ListLimit int
	Logger    *logrus.Logger
}

// Client 针对一个 api_url/api_key 组合。
type Client struct {
	sync      *synchronizer.Synchronizer
	listLimit int
}

// New 基于 transport 与共享缓存协调器构造客户端；origin 取自 baseURL。
func New(t *transport.Client, c *cache.Coordinator, baseURL string, opts Options) *Client {
	limit := opts.ListLimit
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}
	return &Client{
		sync: synchronizer.New(t, c, synchronizer.Options{
			Origin:  baseURL,
			Version: opts.Version,
			Logger:  opts.Logger,
		}),
		listLimit: limit,
	}
}

// Status 检查上游是否可用；不经过缓存。
func (c *Client) Status(ctx context.Context) error {
	out := c.sync.Transport().Do(ctx, transport.Request{
		Method: http.MethodGet,
		Path:   c.sync.Path("status"),
	})
	switch out.Kind {
	case transport.Fresh:
		return nil
	case transport.TransportFailure:
		return apierr.FromTransport(out.Err)
	default:
		return apierr.FromResponse(out.Status, out.Body)
	}
}

func (c *Client) key(format string, args ...any) cache.Key {
	return c.sync.Key(fmt.Sprintf(format, args...))
}

func invalid(resource string, err error) error {
	return apierr.Newf("invalid %s: %v", resource, err)
}

func id(v int32) string {
	return fmt.Sprint(v)
}

// identified 拒绝缺少服务端标识的保存结果，避免写穿到 shop_0 之类的键。
func identified(resource string, v int32) error {
	if v <= 0 {
		return fmt.Errorf("API did not return a %s with an ID", resource)
	}
	return nil
}

func savedShop(s model.Shop) error {
	return identified(shopResource, s.ID)
}

func savedOwner(o model.Owner) error {
	return identified(ownerResource, o.ID)
}

func savedTransaction(tx model.Transaction) error {
	return identified(transactionResource, tx.ID)
}

// 列表同时按商店写穿，因此 shop_id 也必须由服务端给出。
func savedMerchandiseList(l model.MerchandiseList) error {
	if err := identified(merchandiseResource, l.ID); err != nil {
		return err
	}
	return identified("shop", l.ShopID)
}

func savedInteriorRefList(l model.InteriorRefList) error {
	if err := identified(interiorResource, l.ID); err != nil {
		return err
	}
	return identified("shop", l.ShopID)
}
