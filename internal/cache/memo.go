package cache

import (
	"github.com/dgraph-io/ristretto"
)

// metadataMemo 缓存最近读取/写入的元数据，避免每次条件请求都读取磁盘。
// nil 接收者表示禁用。
type metadataMemo struct {
	c *ristretto.Cache
}

func newMetadataMemo(entries int64) (*metadataMemo, error) {
	if entries <= 0 {
		return nil, nil
	}
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: entries * 10,
		MaxCost:     entries,
		BufferItems: 64,
		// cost 按条目计数
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &metadataMemo{c: c}, nil
}

func (m *metadataMemo) get(key Key) (Metadata, bool) {
	if m == nil {
		return Metadata{}, false
	}
	v, ok := m.c.Get(key.String())
	if !ok {
		return Metadata{}, false
	}
	meta, ok := v.(Metadata)
	if !ok {
		m.c.Del(key.String())
		return Metadata{}, false
	}
	return meta, true
}

func (m *metadataMemo) set(key Key, meta Metadata) {
	if m == nil {
		return
	}
	m.c.Set(key.String(), meta, 1)
	m.c.Wait()
}

func (m *metadataMemo) del(key Key) {
	if m == nil {
		return
	}
	m.c.Del(key.String())
}

func (m *metadataMemo) close() {
	if m == nil {
		return
	}
	m.c.Close()
}
