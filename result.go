package main

/*
#include "bazaar.h"
*/
import "C"

import (
	"github.com/bazaar-realm/bazaar-client/internal/apierr"
	"github.com/bazaar-realm/bazaar-client/internal/model"
)

// newFFIError 将任意错误归类后编码为 FFIError；message 总是非 NULL。
func newFFIError(err error) C.FFIError {
	classified := apierr.Classify(err)
	out := C.FFIError{
		kind:    C.uint8_t(classified.Kind()),
		message: newCString(classified.Error()),
	}
	if server, ok := classified.(*apierr.ServerError); ok {
		out.status = C.uint16_t(server.Status())
		out.title = newCString(server.Title())
		if detail, ok := server.Detail(); ok {
			out.detail = newCString(detail)
		}
	}
	return out
}

func freeFFIError(e *C.FFIError) {
	freeCString(&e.title)
	freeCString(&e.detail)
	freeCString(&e.message)
	*e = C.FFIError{}
}

func okBool(v bool) C.FFIResultBool {
	return C.FFIResultBool{tag: C.FFI_TAG_OK, ok: C.bool(v)}
}

func errBool(err error) C.FFIResultBool {
	return C.FFIResultBool{tag: C.FFI_TAG_ERR, err: newFFIError(err)}
}

func okInt32(v int32) C.FFIResultInt32 {
	return C.FFIResultInt32{tag: C.FFI_TAG_OK, ok: C.int32_t(v)}
}

func errInt32(err error) C.FFIResultInt32 {
	return C.FFIResultInt32{tag: C.FFI_TAG_ERR, err: newFFIError(err)}
}

func ownerResult(o model.Owner, err error) C.FFIResultRawOwner {
	if err != nil {
		return C.FFIResultRawOwner{tag: C.FFI_TAG_ERR, err: newFFIError(err)}
	}
	return C.FFIResultRawOwner{tag: C.FFI_TAG_OK, ok: newRawOwner(o)}
}

func shopResult(s model.Shop, err error) C.FFIResultRawShop {
	if err != nil {
		return C.FFIResultRawShop{tag: C.FFI_TAG_ERR, err: newFFIError(err)}
	}
	return C.FFIResultRawShop{tag: C.FFI_TAG_OK, ok: newRawShop(s)}
}

func shopVecResult(shops []model.Shop, err error) C.FFIResultRawShopVec {
	if err != nil {
		return C.FFIResultRawShopVec{tag: C.FFI_TAG_ERR, err: newFFIError(err)}
	}
	return C.FFIResultRawShopVec{tag: C.FFI_TAG_OK, ok: newRawShopVec(shops)}
}

func merchandiseResult(l model.MerchandiseList, err error) C.FFIResultRawMerchandiseVec {
	if err != nil {
		return C.FFIResultRawMerchandiseVec{tag: C.FFI_TAG_ERR, err: newFFIError(err)}
	}
	return C.FFIResultRawMerchandiseVec{tag: C.FFI_TAG_OK, ok: newRawMerchandiseVec(l.FormList)}
}

func interiorResult(l model.InteriorRefList, err error) C.FFIResultRawInteriorRefData {
	if err != nil {
		return C.FFIResultRawInteriorRefData{tag: C.FFI_TAG_ERR, err: newFFIError(err)}
	}
	return C.FFIResultRawInteriorRefData{tag: C.FFI_TAG_OK, ok: newRawInteriorRefData(l)}
}

// interiorIDResult 只返回保存后的列表 id。
func interiorIDResult(l model.InteriorRefList, err error) C.FFIResultInt32 {
	if err != nil {
		return errInt32(err)
	}
	return okInt32(l.ID)
}

func transactionResult(tx model.Transaction, err error) C.FFIResultRawTransaction {
	if err != nil {
		return C.FFIResultRawTransaction{tag: C.FFI_TAG_ERR, err: newFFIError(err)}
	}
	return C.FFIResultRawTransaction{tag: C.FFI_TAG_OK, ok: newRawTransaction(tx)}
}
