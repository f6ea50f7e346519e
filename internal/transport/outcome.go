package transport

import (
	"fmt"
	"net/http"
)

// OutcomeKind 标记一次请求的原始结果类别。
type OutcomeKind uint8

const (
	// Fresh 为 2xx 响应，Body 为新的表示。
	Fresh OutcomeKind = iota + 1
	// NotModified 为 304，缓存仍然有效。
	NotModified
	// ServerFailure 为其它任何状态码。
	ServerFailure
	// TransportFailure 表示请求无法构造、发送或读取。
	TransportFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case Fresh:
		return "fresh"
	case NotModified:
		return "not_modified"
	case ServerFailure:
		return "server_failure"
	case TransportFailure:
		return "transport_failure"
	default:
		return fmt.Sprintf("outcome(%d)", uint8(k))
	}
}

// Outcome 是 Transport 对一次请求的完整描述，Err 只在 TransportFailure 时非空。
type Outcome struct {
	Kind   OutcomeKind
	Status int
	Header http.Header
	Body   []byte
	Err    error
}

func classify(status int, header http.Header, body []byte) Outcome {
	switch {
	case status == http.StatusNotModified:
		return Outcome{Kind: NotModified, Status: status, Header: header}
	case status >= 200 && status < 300:
		return Outcome{Kind: Fresh, Status: status, Header: header, Body: body}
	default:
		return Outcome{Kind: ServerFailure, Status: status, Header: header, Body: body}
	}
}

func failure(err error) Outcome {
	return Outcome{Kind: TransportFailure, Err: err}
}
