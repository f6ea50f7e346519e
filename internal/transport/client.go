// Package transport issues exactly one HTTP request per call against the
// upstream API and reports the raw result as an Outcome. It never retries and
// never interprets failure bodies; classification happens in apierr.
package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bazaar-realm/bazaar-client/internal/codec"
	"github.com/bazaar-realm/bazaar-client/internal/version"
)

// DefaultMaxBodyBytes bounds how much of a response body is read.
const DefaultMaxBodyBytes int64 = 32 << 20

// Request 描述一次上游调用。Path 相对于 base URL（如 "v1/shops/1"）。
type Request struct {
	Method    string
	Path      string
	Query     url.Values
	Validator string
	Body      []byte
}

// Options 控制可选的客户端行为。
type Options struct {
	MaxBodyBytes int64
}

// Client 绑定某个上游 origin 与 api key。
type Client struct {
	http     *http.Client
	base     *url.URL
	baseErr  error
	apiKey   string
	codec    codec.Codec
	maxBytes int64
}

// New 构造 Client。base URL 无法解析时不立即失败，而是在每次 Do 时返回
// TransportFailure，与连接失败走同一路径。
func New(httpClient *http.Client, baseURL, apiKey string, c codec.Codec, opts Options) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(DefaultTimeout)
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	base, err := parseBase(baseURL)
	return &Client{
		http:     httpClient,
		base:     base,
		baseErr:  err,
		apiKey:   apiKey,
		codec:    c,
		maxBytes: opts.MaxBodyBytes,
	}
}

// Codec 返回协商使用的编解码器。
func (c *Client) Codec() codec.Codec {
	return c.codec
}

// Do 执行一次请求并返回 Outcome；不会返回 error，所有失败都编码在 Outcome 中。
func (c *Client) Do(ctx context.Context, r Request) Outcome {
	target, err := c.resolve(r.Path, r.Query)
	if err != nil {
		return failure(err)
	}

	var body io.Reader = http.NoBody
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, target, body)
	if err != nil {
		return failure(err)
	}

	req.Header.Set("Api-Key", c.apiKey)
	req.Header.Set("Accept", c.codec.ContentType())
	req.Header.Set("User-Agent", version.UserAgent())
	if r.Body != nil {
		req.Header.Set("Content-Type", c.codec.ContentType())
	}
	if r.Validator != "" {
		req.Header.Set("If-None-Match", r.Validator)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return failure(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return failure(fmt.Errorf("read response body: %w", err))
	}
	if int64(len(data)) > c.maxBytes {
		return failure(fmt.Errorf("response body too large: > %d bytes", c.maxBytes))
	}

	return classify(resp.StatusCode, resp.Header.Clone(), data)
}

func (c *Client) resolve(path string, query url.Values) (string, error) {
	if c.baseErr != nil {
		return "", c.baseErr
	}
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid request path %q: %w", path, err)
	}
	target := c.base.ResolveReference(ref)
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}
	return target.String(), nil
}

func parseBase(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("api url is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid api url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid api url %q: missing host", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
