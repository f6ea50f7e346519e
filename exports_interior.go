package main

/*
#include "bazaar.h"
*/
import "C"

import (
	"context"

	"github.com/bazaar-realm/bazaar-client/internal/model"
)

func interiorDraft(shopID C.int32_t, refPtr *C.RawInteriorRef, refLen C.uintptr_t,
	shelfPtr *C.RawShelf, shelfLen C.uintptr_t) (model.InteriorRefListDraft, error) {
	refs, err := interiorRefsFromRaw(refPtr, refLen)
	if err != nil {
		return model.InteriorRefListDraft{}, err
	}
	shelves, err := shelvesFromRaw(shelfPtr, shelfLen)
	if err != nil {
		return model.InteriorRefListDraft{}, err
	}
	return model.InteriorRefListDraft{ShopID: int32(shopID), RefList: refs, Shelves: shelves}, nil
}

// create_interior_ref_list 只返回新列表的 id；完整内容通过 get_* 读取。
//
//export create_interior_ref_list
func create_interior_ref_list(api_url, api_key *C.char, shop_id C.int32_t,
	raw_interior_ref_ptr *C.RawInteriorRef, raw_interior_ref_len C.uintptr_t,
	raw_shelf_ptr *C.RawShelf, raw_shelf_len C.uintptr_t) C.FFIResultInt32 {
	draft, err := interiorDraft(shop_id, raw_interior_ref_ptr, raw_interior_ref_len, raw_shelf_ptr, raw_shelf_len)
	if err != nil {
		return errInt32(err)
	}
	c, release, err := newClient(api_url, api_key)
	if err != nil {
		return errInt32(err)
	}
	defer release()
	return interiorIDResult(c.CreateInteriorRefList(context.Background(), draft))
}

//export update_interior_ref_list
func update_interior_ref_list(api_url, api_key *C.char, shop_id C.int32_t,
	raw_interior_ref_ptr *C.RawInteriorRef, raw_interior_ref_len C.uintptr_t,
	raw_shelf_ptr *C.RawShelf, raw_shelf_len C.uintptr_t) C.FFIResultInt32 {
	draft, err := interiorDraft(shop_id, raw_interior_ref_ptr, raw_interior_ref_len, raw_shelf_ptr, raw_shelf_len)
	if err != nil {
		return errInt32(err)
	}
	c, release, err := newClient(api_url, api_key)
	if err != nil {
		return errInt32(err)
	}
	defer release()
	return interiorIDResult(c.UpdateInteriorRefList(context.Background(), draft))
}

//export get_interior_ref_list
func get_interior_ref_list(api_url, api_key *C.char, interior_ref_list_id C.int32_t) C.FFIResultRawInteriorRefData {
	c, release, err := newClient(api_url, api_key)
	if err != nil {
		return interiorResult(model.InteriorRefList{}, err)
	}
	defer release()
	return interiorResult(c.GetInteriorRefList(context.Background(), int32(interior_ref_list_id)))
}

//export get_interior_ref_list_by_shop_id
func get_interior_ref_list_by_shop_id(api_url, api_key *C.char, shop_id C.int32_t) C.FFIResultRawInteriorRefData {
	c, release, err := newClient(api_url, api_key)
	if err != nil {
		return interiorResult(model.InteriorRefList{}, err)
	}
	defer release()
	return interiorResult(c.GetInteriorRefListByShop(context.Background(), int32(shop_id)))
}
