package synchronizer

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/bazaar-realm/bazaar-client/internal/apierr"
	"github.com/bazaar-realm/bazaar-client/internal/cache"
	"github.com/bazaar-realm/bazaar-client/internal/transport"
)

// FetchRequest 描述一次读取。
type FetchRequest struct {
	Resource string
	Path     string
	Query    url.Values
	Key      cache.Key
	Schema   uint16
}

// Fetch 执行 Requesting → Serving(fresh) | Serving(cache-via-304) |
// Revalidating(fallback) → Serving(cache) | Failed。
// 返回的错误总是 *apierr.ServerError 或 *apierr.NetworkError。
func Fetch[T any](ctx context.Context, s *Synchronizer, req FetchRequest) (T, error) {
	var zero T
	codecName := s.codec.Name()

	validator := s.cache.Validator(req.Key, req.Schema, codecName)
	s.log("fetch_requesting", req.Resource, req.Key).
		WithField("conditional", validator != "").
		Debug("fetch_requesting")

	out := s.transport.Do(ctx, transport.Request{
		Method:    http.MethodGet,
		Path:      req.Path,
		Query:     req.Query,
		Validator: validator,
	})

	var cause apierr.Classified
	switch out.Kind {
	case transport.Fresh:
		var value T
		if err := s.codec.Unmarshal(out.Body, &value); err != nil {
			cause = apierr.Decode(err)
			break
		}
		s.cache.Persist(req.Key, s.entry(out, req.Schema))
		s.log("fetch_serving_fresh", req.Resource, req.Key).
			WithField("status", out.Status).
			Info("fetch_serving_fresh")
		return value, nil

	case transport.NotModified:
		value, err := readCached[T](s, req)
		if err != nil {
			failed := apierr.NotModifiedWithoutCache(req.Key.Name)
			s.log("fetch_failed", req.Resource, req.Key).
				WithField("cache_error", err.Error()).
				WithError(failed).
				Error("fetch_failed")
			return zero, failed
		}
		s.log("fetch_serving_cache", req.Resource, req.Key).
			WithField("via", "not_modified").
			Info("fetch_serving_cache")
		return value, nil

	case transport.ServerFailure:
		cause = apierr.FromResponse(out.Status, out.Body)

	default:
		cause = apierr.FromTransport(out.Err)
	}

	s.log("fetch_revalidating", req.Resource, req.Key).
		WithError(cause).
		Debug("fetch_revalidating")

	value, err := readCached[T](s, req)
	if err != nil {
		entry := s.log("fetch_failed", req.Resource, req.Key).WithError(cause)
		if errors.Is(err, cache.ErrCorrupt) {
			entry = entry.WithField("cache_error", err.Error())
		}
		entry.Error("fetch_failed")
		return zero, cause
	}
	s.log("fetch_serving_cache", req.Resource, req.Key).
		WithField("via", "fallback").
		WithError(cause).
		Warn("fetch_serving_cache")
	return value, nil
}

// readCached 读取并解码缓存正文；无法解码的正文与缺失一样返回 ErrCorrupt/ErrNotFound。
func readCached[T any](s *Synchronizer, req FetchRequest) (T, error) {
	var value T
	body, err := s.cache.ReadBody(req.Key, req.Schema, s.codec.Name())
	if err != nil {
		return value, err
	}
	if err := s.codec.Unmarshal(body, &value); err != nil {
		var zero T
		return zero, errors.Join(cache.ErrCorrupt, err)
	}
	return value, nil
}
