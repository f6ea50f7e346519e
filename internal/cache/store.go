package cache

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrNotFound 表示缓存不存在（从未写入，或已被判定为不可用）。
var ErrNotFound = errors.New("cache entry not found")

// ErrCorrupt 表示文件存在但无法使用：帧损坏、schema 或编码不匹配。
// 它包装 ErrNotFound，调用方只需判断一类"缓存缺失"。
var ErrCorrupt = fmt.Errorf("cache entry corrupt: %w", ErrNotFound)

// Entry 是一次成功响应需要落盘的全部内容。
type Entry struct {
	Body   []byte
	Header http.Header
	Schema uint16
	Codec  string
}

// Metadata 与正文分开存放在 <name>_metadata.json 中。
type Metadata struct {
	SchemaVersion uint16    `json:"schema_version"`
	Codec         string    `json:"codec"`
	ETag          string    `json:"etag,omitempty"`
	LastModified  string    `json:"last_modified,omitempty"`
	StoredAt      time.Time `json:"stored_at"`
}

// Matches 判断元数据是否由相同 schema 与编码写入；不匹配的元数据不得产生条件请求头。
func (m Metadata) Matches(schema uint16, codec string) bool {
	return m.SchemaVersion == schema && m.Codec == codec
}

func metadataFor(e Entry, now time.Time) Metadata {
	meta := Metadata{
		SchemaVersion: e.Schema,
		Codec:         e.Codec,
		StoredAt:      now.UTC(),
	}
	if e.Header != nil {
		meta.ETag = e.Header.Get("ETag")
		meta.LastModified = e.Header.Get("Last-Modified")
	}
	return meta
}
