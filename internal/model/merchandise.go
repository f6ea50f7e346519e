package model

import (
	"fmt"
	"time"
)

// MerchandiseListSchema 标记 MerchandiseList 的缓存布局版本。
const MerchandiseListSchema uint16 = 2

// Merchandise 是商店中的一件商品。
type Merchandise struct {
	ModName     string   `json:"mod_name" msgpack:"mod_name"`
	LocalFormID uint32   `json:"local_form_id" msgpack:"local_form_id"`
	Name        string   `json:"name" msgpack:"name"`
	Quantity    uint32   `json:"quantity" msgpack:"quantity"`
	FormType    uint32   `json:"form_type" msgpack:"form_type"`
	IsFood      bool     `json:"is_food" msgpack:"is_food"`
	Price       uint32   `json:"price" msgpack:"price"`
	Keywords    []string `json:"keywords" msgpack:"keywords"`
}

type MerchandiseList struct {
	ID        int32         `json:"id" msgpack:"id"`
	ShopID    int32         `json:"shop_id" msgpack:"shop_id"`
	OwnerID   int32         `json:"owner_id" msgpack:"owner_id"`
	FormList  []Merchandise `json:"form_list" msgpack:"form_list"`
	CreatedAt time.Time     `json:"created_at" msgpack:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" msgpack:"updated_at"`
}

type MerchandiseListDraft struct {
	ShopID   int32         `json:"shop_id" msgpack:"shop_id"`
	FormList []Merchandise `json:"form_list" msgpack:"form_list"`
}

func (d MerchandiseListDraft) Validate() error {
	if d.ShopID <= 0 {
		return fmt.Errorf("invalid shop id %d", d.ShopID)
	}
	for i, m := range d.FormList {
		if m.ModName == "" {
			return fmt.Errorf("merchandise %d: mod name required", i)
		}
	}
	return nil
}
