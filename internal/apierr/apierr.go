package apierr

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/jmgilman/go/errors"
)

// Kind 区分错误类别，数值与 FFIError.kind 保持一致。
type Kind uint8

const (
	KindServer  Kind = 1
	KindNetwork Kind = 2
)

func (k Kind) String() string {
	switch k {
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// Classified 是两类错误的公共接口。
type Classified interface {
	error
	Kind() Kind
}

// ServerError 表示上游返回了非 2xx 响应。构造后不可修改。
type ServerError struct {
	status    int
	title     string
	detail    string
	hasDetail bool
	cause     errors.PlatformError
}

func newServerError(status int, title, detail string, hasDetail bool) *ServerError {
	return &ServerError{
		status:    status,
		title:     title,
		detail:    detail,
		hasDetail: hasDetail,
		cause:     errors.New(codeForStatus(status), title),
	}
}

func (e *ServerError) Kind() Kind    { return KindServer }
func (e *ServerError) Status() int   { return e.status }
func (e *ServerError) Title() string { return e.title }

// Detail 返回可选的 detail 字段；第二个返回值为 false 表示缺省。
func (e *ServerError) Detail() (string, bool) {
	return e.detail, e.hasDetail
}

func (e *ServerError) Error() string {
	if e.hasDetail {
		return fmt.Sprintf("Server %d %s: %s", e.status, e.title, e.detail)
	}
	return fmt.Sprintf("Server %d %s", e.status, e.title)
}

func (e *ServerError) Unwrap() error { return e.cause }

// NetworkError 表示请求未能到达上游或响应无法使用（含编解码失败）。
type NetworkError struct {
	message string
	cause   errors.PlatformError
}

func (e *NetworkError) Kind() Kind      { return KindNetwork }
func (e *NetworkError) Message() string { return e.message }
func (e *NetworkError) Error() string   { return e.message }
func (e *NetworkError) Unwrap() error   { return e.cause }

// problem mirrors the RFC 7807 body the API uses for failures.
type problem struct {
	Type   string  `json:"type"`
	Title  string  `json:"title"`
	Status int     `json:"status"`
	Detail *string `json:"detail"`
}

// FromResponse 将非 2xx 响应转为 ServerError：优先解析 problem JSON，
// 其次使用原始正文作为 title，正文为空或非 UTF-8 时回退到标准状态描述。
func FromResponse(status int, body []byte) *ServerError {
	var p problem
	if err := json.Unmarshal(body, &p); err == nil && p.Title != "" {
		if p.Detail != nil {
			return newServerError(status, p.Title, *p.Detail, true)
		}
		return newServerError(status, p.Title, "", false)
	}

	title := strings.TrimSpace(string(body))
	if title == "" || !utf8.Valid(body) {
		title = reasonPhrase(status)
	}
	return newServerError(status, title, "", false)
}

// NotModifiedWithoutCache 用于服务端回复 304、本地却没有可用缓存正文的情况。
func NotModifiedWithoutCache(key string) *ServerError {
	return newServerError(http.StatusNotModified, reasonPhrase(http.StatusNotModified),
		fmt.Sprintf("no cached body for %s", key), true)
}

// FromTransport 包装连接、DNS、超时或 URL 构造失败。
func FromTransport(err error) *NetworkError {
	if err == nil {
		return nil
	}
	code := errors.CodeNetwork
	if isTimeout(err) {
		code = errors.CodeTimeout
	}
	msg := err.Error()
	return &NetworkError{message: msg, cause: errors.Wrap(err, code, msg)}
}

// Decode 包装响应正文反序列化失败。
func Decode(err error) *NetworkError {
	return serialization("decode response", err)
}

// Encode 包装请求正文序列化失败。
func Encode(err error) *NetworkError {
	return serialization("encode request", err)
}

// Newf 构造一个不带底层原因的 NetworkError，用于宿主传入无法使用的参数等情况。
// 与其它 NetworkError 一样携带 CodeNetwork，IsRetryable 只按类别回答。
func Newf(format string, args ...any) *NetworkError {
	msg := fmt.Sprintf(format, args...)
	return &NetworkError{message: msg, cause: errors.New(errors.CodeNetwork, msg)}
}

func serialization(action string, err error) *NetworkError {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf("%s: %v", action, err)
	return &NetworkError{message: msg, cause: errors.Wrap(err, errors.CodeNetwork, msg)}
}

// Classify 将任意错误归入两类之一；已分类的错误原样返回。
func Classify(err error) Classified {
	if err == nil {
		return nil
	}
	var classified Classified
	if stderrors.As(err, &classified) {
		return classified
	}
	return FromTransport(err)
}

func reasonPhrase(status int) string {
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "unknown"
}

// codeForStatus 只返回 permanent 分类的错误码：服务端拒绝不重试，
// 429 与 5xx 也一样，由宿主自行决定是否再次调用。
func codeForStatus(status int) errors.ErrorCode {
	switch status {
	case http.StatusNotFound:
		return errors.CodeNotFound
	case http.StatusUnauthorized:
		return errors.CodeUnauthorized
	case http.StatusForbidden:
		return errors.CodeForbidden
	case http.StatusConflict:
		return errors.CodeConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusTooManyRequests:
		return errors.CodeInvalidInput
	default:
		return errors.CodeInternal
	}
}

func isTimeout(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}
