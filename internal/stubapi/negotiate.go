package stubapi

import (
	"github.com/gofiber/fiber/v3"

	"github.com/bazaar-realm/bazaar-client/internal/codec"
)

// responseCodec 根据 Accept 选择编码，未识别时使用 JSON。
func responseCodec(c fiber.Ctx) codec.Codec {
	if cc, ok := codec.ForContentType(c.Get(fiber.HeaderAccept)); ok {
		return cc
	}
	return codec.JSON{}
}

// requestError 描述一个无法处理的请求体。
type requestError struct {
	status int
	title  string
	detail string
}

func (e *requestError) Error() string { return e.title + ": " + e.detail }

func (e *requestError) render(c fiber.Ctx) error {
	return renderProblem(c, e.status, e.title, e.detail)
}

// decodeBody 按 Content-Type 解码请求体。
func decodeBody(c fiber.Ctx, v any) *requestError {
	ct := c.Get(fiber.HeaderContentType)
	cc, ok := codec.ForContentType(ct)
	if !ok {
		return &requestError{status: fiber.StatusUnsupportedMediaType, title: "Unsupported Media Type", detail: ct}
	}
	if err := cc.Unmarshal(c.Body(), v); err != nil {
		return &requestError{status: fiber.StatusBadRequest, title: "Bad Request", detail: err.Error()}
	}
	return nil
}

// respond 写出记录；etag 与 If-None-Match 相同时只返回 304。
func respond(c fiber.Ctx, status int, etag string, v any) error {
	if etag != "" {
		c.Set(fiber.HeaderETag, etag)
		if status == fiber.StatusOK && c.Get(fiber.HeaderIfNoneMatch) == etag {
			c.Status(fiber.StatusNotModified)
			return nil
		}
	}
	cc := responseCodec(c)
	raw, err := cc.Marshal(v)
	if err != nil {
		return renderProblem(c, fiber.StatusInternalServerError, "Internal Server Error", err.Error())
	}
	c.Set(fiber.HeaderContentType, cc.ContentType())
	return c.Status(status).Send(raw)
}
