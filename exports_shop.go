package main

/*
#include "bazaar.h"
*/
import "C"

import (
	"context"
	"math"

	"github.com/bazaar-realm/bazaar-client/internal/apierr"
	"github.com/bazaar-realm/bazaar-client/internal/model"
)

//export create_shop
func create_shop(api_url, api_key, name, description *C.char) C.FFIResultRawShop {
	c, release, err := newClient(api_url, api_key)
	if err != nil {
		return shopResult(model.Shop{}, err)
	}
	defer release()
	return shopResult(c.CreateShop(context.Background(), model.ShopDraft{
		Name:        goOptionalString(name),
		Description: goOptionalString(description),
	}))
}

// update_shop 中 shop_type 为 NULL 时保持服务端原值；vendor_keywords 为 NULL
// 且长度为 0 时同样不修改关键字列表。
//
//export update_shop
func update_shop(api_url, api_key *C.char, id C.uint32_t, name, description *C.char,
	gold C.int32_t, shop_type *C.char, vendor_keywords **C.char, vendor_keywords_len C.uintptr_t,
	vendor_keywords_exclude C.bool) C.FFIResultRawShop {
	if uint32(id) > math.MaxInt32 {
		return shopResult(model.Shop{}, apierr.Newf("invalid shop id %d", uint32(id)))
	}
	draft := model.ShopDraft{
		Name:                  goOptionalString(name),
		Description:           goOptionalString(description),
		ShopType:              goStringPtr(shop_type),
		VendorKeywordsExclude: ptr(bool(vendor_keywords_exclude)),
		Gold:                  ptr(int32(gold)),
	}
	if vendor_keywords != nil || vendor_keywords_len > 0 {
		keywords, err := goStringList("vendor keywords", vendor_keywords, vendor_keywords_len)
		if err != nil {
			return shopResult(model.Shop{}, err)
		}
		if keywords == nil {
			keywords = []string{}
		}
		draft.VendorKeywords = &keywords
	}

	c, release, err := newClient(api_url, api_key)
	if err != nil {
		return shopResult(model.Shop{}, err)
	}
	defer release()
	return shopResult(c.UpdateShop(context.Background(), int32(id), draft))
}

//export get_shop
func get_shop(api_url, api_key *C.char, shop_id C.int32_t) C.FFIResultRawShop {
	c, release, err := newClient(api_url, api_key)
	if err != nil {
		return shopResult(model.Shop{}, err)
	}
	defer release()
	return shopResult(c.GetShop(context.Background(), int32(shop_id)))
}

//export list_shops
func list_shops(api_url, api_key *C.char) C.FFIResultRawShopVec {
	c, release, err := newClient(api_url, api_key)
	if err != nil {
		return shopVecResult(nil, err)
	}
	defer release()
	return shopVecResult(c.ListShops(context.Background()))
}

func ptr[T any](v T) *T {
	return &v
}
