package synchronizer

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/bazaar-realm/bazaar-client/internal/apierr"
	"github.com/bazaar-realm/bazaar-client/internal/cache"
	"github.com/bazaar-realm/bazaar-client/internal/transport"
)

// MutateRequest 描述一次创建或更新。Keys 根据服务端返回的记录给出需要写穿的缓存键；
// Valid 在写穿之前检查记录是否带有服务端分配的标识，失败时按解码错误处理。
type MutateRequest[T any] struct {
	Resource string
	Method   string
	Path     string
	Draft    any
	Schema   uint16
	Valid    func(saved T) error
	Keys     func(saved T) []cache.Key
}

// Mutate 从不发送条件请求头，失败时也从不回退到缓存：一次未确认成功的写入
// 不能用旧数据冒充。
func Mutate[T any](ctx context.Context, s *Synchronizer, req MutateRequest[T]) (T, error) {
	var zero T
	method := req.Method
	if method == "" {
		method = http.MethodPost
	}

	payload, err := s.codec.Marshal(req.Draft)
	if err != nil {
		cause := apierr.Encode(err)
		s.logger.WithFields(logrus.Fields{
			"action":   "mutate_failed",
			"resource": req.Resource,
			"method":   method,
		}).WithError(cause).Error("mutate_failed")
		return zero, cause
	}

	out := s.transport.Do(ctx, transport.Request{
		Method: method,
		Path:   req.Path,
		Body:   payload,
	})

	var cause apierr.Classified
	switch out.Kind {
	case transport.Fresh:
		var saved T
		if err := s.codec.Unmarshal(out.Body, &saved); err != nil {
			cause = apierr.Decode(err)
			break
		}
		if req.Valid != nil {
			if err := req.Valid(saved); err != nil {
				cause = apierr.Decode(err)
				break
			}
		}
		var keys []cache.Key
		if req.Keys != nil {
			keys = req.Keys(saved)
		}
		entry := s.entry(out, req.Schema)
		for _, key := range keys {
			s.cache.Persist(key, entry)
		}
		s.logger.WithFields(logrus.Fields{
			"action":   "mutate_ok",
			"resource": req.Resource,
			"method":   method,
			"status":   out.Status,
			"keys":     len(keys),
		}).Info("mutate_ok")
		return saved, nil
	case transport.NotModified, transport.ServerFailure:
		cause = apierr.FromResponse(out.Status, out.Body)
	default:
		cause = apierr.FromTransport(out.Err)
	}

	s.logger.WithFields(logrus.Fields{
		"action":   "mutate_failed",
		"resource": req.Resource,
		"method":   method,
		"status":   out.Status,
	}).WithError(cause).Error("mutate_failed")
	return zero, cause
}
