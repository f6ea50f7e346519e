package main

/*
#include "bazaar.h"
*/
import "C"

// 每类由本库分配的内存各有一个释放函数。传入 NULL 是空操作；
// 接收记录指针的函数在释放后把记录内的指针与长度清零。

//export free_string
func free_string(ptr *C.char) {
	freeCString(&ptr)
}

//export free_string_list
func free_string_list(ptr **C.char, length C.uintptr_t) {
	freeCStringList(&ptr, &length)
}

//export free_error
func free_error(err *C.FFIError) {
	if err == nil {
		return
	}
	freeFFIError(err)
}

//export free_owner
func free_owner(owner *C.RawOwner) {
	if owner == nil {
		return
	}
	freeRawOwner(owner)
}

//export free_shop
func free_shop(shop *C.RawShop) {
	if shop == nil {
		return
	}
	freeRawShop(shop)
}

//export free_shop_vec
func free_shop_vec(vec *C.RawShopVec) {
	if vec == nil {
		return
	}
	freeRawShopVec(vec)
}

//export free_merchandise_vec
func free_merchandise_vec(vec *C.RawMerchandiseVec) {
	if vec == nil {
		return
	}
	freeRawMerchandiseVec(vec)
}

//export free_interior_ref_data
func free_interior_ref_data(data *C.RawInteriorRefData) {
	if data == nil {
		return
	}
	freeRawInteriorRefData(data)
}

//export free_transaction
func free_transaction(tx *C.RawTransaction) {
	if tx == nil {
		return
	}
	freeRawTransaction(tx)
}
