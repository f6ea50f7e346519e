package cache

import (
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Key 唯一定位一个缓存条目。
type Key struct {
	Origin  string
	Version string
	Name    string
}

// NewKey 构造缓存键，origin 末尾的 "/" 会被去掉，避免同一服务出现两个目录。
func NewKey(origin, version, name string) Key {
	return Key{
		Origin:  strings.TrimRight(strings.TrimSpace(origin), "/"),
		Version: version,
		Name:    name,
	}
}

// String 返回 "<dir>/<name>" 形式，用作内存索引键与日志字段。
func (k Key) String() string {
	return k.encodedOrigin() + "/" + k.Version + "/" + k.Name
}

// Validate 确保 version 与 name 都是单个安全的路径片段。
func (k Key) Validate() error {
	if k.Origin == "" {
		return errors.New("cache key: origin required")
	}
	if err := validateSegment("version", k.Version); err != nil {
		return err
	}
	return validateSegment("name", k.Name)
}

func (k Key) encodedOrigin() string {
	return base64.RawURLEncoding.EncodeToString([]byte(k.Origin))
}

func (k Key) dir(root string) string {
	return filepath.Join(root, k.encodedOrigin(), k.Version)
}

func (k Key) bodyPath(root string) string {
	return filepath.Join(k.dir(root), k.Name+".bin")
}

func (k Key) metadataPath(root string) string {
	return filepath.Join(k.dir(root), k.Name+"_metadata.json")
}

func validateSegment(field, value string) error {
	switch {
	case value == "":
		return fmt.Errorf("cache key: %s required", field)
	case value == "." || value == "..":
		return fmt.Errorf("cache key: invalid %s %q", field, value)
	case strings.ContainsAny(value, `/\`+"\x00"):
		return fmt.Errorf("cache key: %s %q must be a single path segment", field, value)
	}
	return nil
}
