package model

import (
	"fmt"
	"time"
)

// InteriorRefListSchema 标记 InteriorRefList 的缓存布局版本；shelves 字段加入时升到 2。
const InteriorRefListSchema uint16 = 2

// InteriorRef 是商店内部摆放的一个对象引用。
type InteriorRef struct {
	BaseModName     string  `json:"base_mod_name" msgpack:"base_mod_name"`
	BaseLocalFormID uint32  `json:"base_local_form_id" msgpack:"base_local_form_id"`
	RefModName      *string `json:"ref_mod_name" msgpack:"ref_mod_name"`
	RefLocalFormID  uint32  `json:"ref_local_form_id" msgpack:"ref_local_form_id"`
	PositionX       float32 `json:"position_x" msgpack:"position_x"`
	PositionY       float32 `json:"position_y" msgpack:"position_y"`
	PositionZ       float32 `json:"position_z" msgpack:"position_z"`
	AngleX          float32 `json:"angle_x" msgpack:"angle_x"`
	AngleY          float32 `json:"angle_y" msgpack:"angle_y"`
	AngleZ          float32 `json:"angle_z" msgpack:"angle_z"`
	Scale           uint16  `json:"scale" msgpack:"scale"`
}

// Shelf 描述一个售货架及其筛选、排序状态。
type Shelf struct {
	ShelfType      uint32  `json:"shelf_type" msgpack:"shelf_type"`
	PositionX      float32 `json:"position_x" msgpack:"position_x"`
	PositionY      float32 `json:"position_y" msgpack:"position_y"`
	PositionZ      float32 `json:"position_z" msgpack:"position_z"`
	AngleX         float32 `json:"angle_x" msgpack:"angle_x"`
	AngleY         float32 `json:"angle_y" msgpack:"angle_y"`
	AngleZ         float32 `json:"angle_z" msgpack:"angle_z"`
	Scale          uint16  `json:"scale" msgpack:"scale"`
	Page           uint32  `json:"page" msgpack:"page"`
	FilterFormType *uint32 `json:"filter_form_type" msgpack:"filter_form_type"`
	FilterIsFood   bool    `json:"filter_is_food" msgpack:"filter_is_food"`
	Search         *string `json:"search" msgpack:"search"`
	SortOn         *string `json:"sort_on" msgpack:"sort_on"`
	SortAsc        bool    `json:"sort_asc" msgpack:"sort_asc"`
}

type InteriorRefList struct {
	ID        int32         `json:"id" msgpack:"id"`
	ShopID    int32         `json:"shop_id" msgpack:"shop_id"`
	OwnerID   int32         `json:"owner_id" msgpack:"owner_id"`
	RefList   []InteriorRef `json:"ref_list" msgpack:"ref_list"`
	Shelves   []Shelf       `json:"shelves" msgpack:"shelves"`
	CreatedAt time.Time     `json:"created_at" msgpack:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" msgpack:"updated_at"`
}

type InteriorRefListDraft struct {
	ShopID  int32         `json:"shop_id" msgpack:"shop_id"`
	RefList []InteriorRef `json:"ref_list" msgpack:"ref_list"`
	Shelves []Shelf       `json:"shelves" msgpack:"shelves"`
}

func (d InteriorRefListDraft) Validate() error {
	if d.ShopID <= 0 {
		return fmt.Errorf("invalid shop id %d", d.ShopID)
	}
	for i, ref := range d.RefList {
		if ref.BaseModName == "" {
			return fmt.Errorf("interior ref %d: base mod name required", i)
		}
	}
	return nil
}
