package main

/*
#include "bazaar.h"
*/
import "C"

import (
	"context"

	"github.com/bazaar-realm/bazaar-client/internal/model"
)

func merchandiseDraft(shopID C.int32_t, p *C.RawMerchandise, n C.uintptr_t) (model.MerchandiseListDraft, error) {
	items, err := merchandiseFromRaw(p, n)
	if err != nil {
		return model.MerchandiseListDraft{}, err
	}
	return model.MerchandiseListDraft{ShopID: int32(shopID), FormList: items}, nil
}

//export create_merchandise_list
func create_merchandise_list(api_url, api_key *C.char, shop_id C.int32_t,
	raw_merchandise_ptr *C.RawMerchandise, raw_merchandise_len C.uintptr_t) C.FFIResultRawMerchandiseVec {
	draft, err := merchandiseDraft(shop_id, raw_merchandise_ptr, raw_merchandise_len)
	if err != nil {
		return merchandiseResult(model.MerchandiseList{}, err)
	}
	c, release, err := newClient(api_url, api_key)
	if err != nil {
		return merchandiseResult(model.MerchandiseList{}, err)
	}
	defer release()
	return merchandiseResult(c.CreateMerchandiseList(context.Background(), draft))
}

//export update_merchandise_list
func update_merchandise_list(api_url, api_key *C.char, shop_id C.int32_t,
	raw_merchandise_ptr *C.RawMerchandise, raw_merchandise_len C.uintptr_t) C.FFIResultRawMerchandiseVec {
	draft, err := merchandiseDraft(shop_id, raw_merchandise_ptr, raw_merchandise_len)
	if err != nil {
		return merchandiseResult(model.MerchandiseList{}, err)
	}
	c, release, err := newClient(api_url, api_key)
	if err != nil {
		return merchandiseResult(model.MerchandiseList{}, err)
	}
	defer release()
	return merchandiseResult(c.UpdateMerchandiseList(context.Background(), draft))
}

//export get_merchandise_list
func get_merchandise_list(api_url, api_key *C.char, merchandise_list_id C.int32_t) C.FFIResultRawMerchandiseVec {
	c, release, err := newClient(api_url, api_key)
	if err != nil {
		return merchandiseResult(model.MerchandiseList{}, err)
	}
	defer release()
	return merchandiseResult(c.GetMerchandiseList(context.Background(), int32(merchandise_list_id)))
}

//export get_merchandise_list_by_shop_id
func get_merchandise_list_by_shop_id(api_url, api_key *C.char, shop_id C.int32_t) C.FFIResultRawMerchandiseVec {
	c, release, err := newClient(api_url, api_key)
	if err != nil {
		return merchandiseResult(model.MerchandiseList{}, err)
	}
	defer release()
	return merchandiseResult(c.GetMerchandiseListByShop(context.Background(), int32(shop_id)))
}
