package model

import (
	"errors"
	"time"
)

// ShopSchema 标记 Shop 的缓存布局版本。
const ShopSchema uint16 = 2

// Shop 是服务端保存的商店记录。
type Shop struct {
	ID                    int32     `json:"id" msgpack:"id"`
	OwnerID               int32     `json:"owner_id" msgpack:"owner_id"`
	Name                  string    `json:"name" msgpack:"name"`
	Description           string    `json:"description" msgpack:"description"`
	Gold                  int32     `json:"gold" msgpack:"gold"`
	ShopType              string    `json:"shop_type" msgpack:"shop_type"`
	VendorKeywords        []string  `json:"vendor_keywords" msgpack:"vendor_keywords"`
	VendorKeywordsExclude bool      `json:"vendor_keywords_exclude" msgpack:"vendor_keywords_exclude"`
	CreatedAt             time.Time `json:"created_at" msgpack:"created_at"`
	UpdatedAt             time.Time `json:"updated_at" msgpack:"updated_at"`
}

// ShopDraft 是创建/更新请求体。创建时只携带 name 与 description，
// 其余字段为 nil 时交给服务端默认值。
type ShopDraft struct {
	Name                  string    `json:"name" msgpack:"name"`
	Description           string    `json:"description" msgpack:"description"`
	Gold                  *int32    `json:"gold,omitempty" msgpack:"gold,omitempty"`
	ShopType              *string   `json:"shop_type,omitempty" msgpack:"shop_type,omitempty"`
	VendorKeywords        *[]string `json:"vendor_keywords,omitempty" msgpack:"vendor_keywords,omitempty"`
	VendorKeywordsExclude *bool     `json:"vendor_keywords_exclude,omitempty" msgpack:"vendor_keywords_exclude,omitempty"`
}

// Validate 检查宿主传入的商店字段。
func (d ShopDraft) Validate() error {
	if d.Name == "" {
		return errors.New("shop name required")
	}
	if d.Gold != nil && *d.Gold < 0 {
		return errors.New("shop gold must not be negative")
	}
	return nil
}
