// Package synchronizer implements the cache-aside protocol shared by every
// resource: Fetch revalidates against the cached validator and serves the last
// known good body when the upstream is unreachable or failing; Mutate sends a
// draft, never falls back, and writes the saved record through to the cache.
package synchronizer

import (
	"net/http"
	"path"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/bazaar-realm/bazaar-client/internal/cache"
	"github.com/bazaar-realm/bazaar-client/internal/codec"
	"github.com/bazaar-realm/bazaar-client/internal/logging"
	"github.com/bazaar-realm/bazaar-client/internal/transport"
)

// Options 描述一个上游实例。
type Options struct {
	// Origin 为缓存目录使用的上游地址，通常与 transport 的 base URL 相同。
	Origin string
	// Version 为 API 版本前缀（如 "v1"），同时作为缓存子目录。
	Version string
	Logger  *logrus.Logger
}

// Synchronizer 绑定一个上游（transport）与一个缓存协调器。
type Synchronizer struct {
	transport *transport.Client
	cache     *cache.Coordinator
	codec     codec.Codec
	origin    string
	version   string
	logger    *logrus.Logger
}

// New 构造 Synchronizer；缓存协调器由调用方显式传入并可在多个实例间共享。
func New(t *transport.Client, c *cache.Coordinator, opts Options) *Synchronizer {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	version := strings.Trim(opts.Version, "/")
	if version == "" {
		version = "v1"
	}
	return &Synchronizer{
		transport: t,
		cache:     c,
		codec:     t.Codec(),
		origin:    opts.Origin,
		version:   version,
		logger:    logger,
	}
}

// Key 在当前 origin 与版本下构造缓存键。
func (s *Synchronizer) Key(name string) cache.Key {
	return cache.NewKey(s.origin, s.version, name)
}

// Path 拼接带版本前缀的相对路径，如 Path("shops", "1") → "v1/shops/1"。
func (s *Synchronizer) Path(elem ...string) string {
	return path.Join(append([]string{s.version}, elem...)...)
}

// Codec 返回当前协商的编解码器。
func (s *Synchronizer) Codec() codec.Codec {
	return s.codec
}

// Transport 暴露底层 transport，供不经过缓存的调用（如 status）使用。
func (s *Synchronizer) Transport() *transport.Client {
	return s.transport
}

func (s *Synchronizer) entry(out transport.Outcome, schema uint16) cache.Entry {
	header := out.Header
	if header == nil {
		header = http.Header{}
	}
	return cache.Entry{
		Body:   out.Body,
		Header: header,
		Schema: schema,
		Codec:  s.codec.Name(),
	}
}

func (s *Synchronizer) log(action, resource string, key cache.Key) *logrus.Entry {
	return s.logger.
		WithFields(logging.CallFields(action, resource, key.String())).
		WithFields(logging.OriginFields(s.origin, s.version))
}
