//go:build cgotest

// 本文件仅在 -tags cgotest 下编译：_test.go 不能 import "C"，这里替测试
// 调用导出函数并把 C 结构转成 Go 值，发布的动态库不包含这些代码。
//
//	go test -tags cgotest .

package main

/*
#include "bazaar.h"
*/
import "C"

import (
	"unsafe"

	"github.com/bazaar-realm/bazaar-client/internal/model"
)

// _test.go 文件不能使用 cgo，这里提供以 Go 类型调用导出函数的薄封装。
// 每个封装都负责释放自己分配的输入，并通过 free_* 释放返回的记录，
// 因此测试同时覆盖了所有权交接的两端。

// errorView 是 FFIError 的 Go 副本。
type errorView struct {
	Kind    uint8
	Status  uint16
	Title   string
	Detail  *string
	Message string
}

// hostCall 模拟宿主针对一个 api_url/api_key 发起调用。
type hostCall struct {
	url string
	key string
}

func (h hostCall) args() (*C.char, *C.char, func()) {
	url, key := newCString(h.url), newCString(h.key)
	return url, key, func() {
		freeCString(&url)
		freeCString(&key)
	}
}

func viewError(e *C.FFIError) *errorView {
	v := &errorView{
		Kind:    uint8(e.kind),
		Status:  uint16(e.status),
		Title:   goOptionalString(e.title),
		Detail:  goStringPtr(e.detail),
		Message: goOptionalString(e.message),
	}
	free_error(e)
	return v
}

func initClientAt(path string) bool {
	p := newCString(path)
	defer freeCString(&p)
	return bool(init_client(p))
}

func (h hostCall) statusCheck() (bool, *errorView) {
	url, _, done := h.args()
	defer done()
	res := status_check(url)
	if res.tag != C.FFI_TAG_OK {
		return false, viewError(&res.err)
	}
	return bool(res.ok), nil
}

func takeShop(res C.FFIResultRawShop) (model.Shop, *errorView) {
	if res.tag != C.FFI_TAG_OK {
		return model.Shop{}, viewError(&res.err)
	}
	s := viewShop(&res.ok)
	free_shop(&res.ok)
	return s, nil
}

func viewShop(r *C.RawShop) model.Shop {
	keywords, _ := goStringList("vendor keywords", r.vendor_keywords, r.vendor_keywords_len)
	return model.Shop{
		ID:                    int32(r.id),
		Name:                  goOptionalString(r.name),
		Description:           goOptionalString(r.description),
		Gold:                  int32(r.gold),
		ShopType:              goOptionalString(r.shop_type),
		VendorKeywords:        keywords,
		VendorKeywordsExclude: bool(r.vendor_keywords_exclude),
	}
}

func (h hostCall) createShop(name, description string) (model.Shop, *errorView) {
	url, key, done := h.args()
	defer done()
	n, d := newCString(name), newCString(description)
	defer freeCString(&n)
	defer freeCString(&d)
	return takeShop(create_shop(url, key, n, d))
}

// updateShop 中 shopType 为 nil 时传 NULL，keywords 为 nil 时传 NULL/0。
func (h hostCall) updateShop(id uint32, name, description string, gold int32, shopType *string,
	keywords []string, exclude bool) (model.Shop, *errorView) {
	url, key, done := h.args()
	defer done()
	n, d, st := newCString(name), newCString(description), optionalCString(shopType)
	defer freeCString(&n)
	defer freeCString(&d)
	defer freeCString(&st)
	kw, kwLen := newCStringList(keywords)
	defer freeCStringList(&kw, &kwLen)
	return takeShop(update_shop(url, key, C.uint32_t(id), n, d, C.int32_t(gold), st, kw, kwLen, C.bool(exclude)))
}

func (h hostCall) getShop(id int32) (model.Shop, *errorView) {
	url, key, done := h.args()
	defer done()
	return takeShop(get_shop(url, key, C.int32_t(id)))
}

func (h hostCall) listShops() ([]model.Shop, *errorView) {
	url, key, done := h.args()
	defer done()
	res := list_shops(url, key)
	if res.tag != C.FFI_TAG_OK {
		return nil, viewError(&res.err)
	}
	var out []model.Shop
	if res.ok.ptr != nil {
		items := unsafe.Slice(res.ok.ptr, int(res.ok.len))
		for i := range items {
			out = append(out, viewShop(&items[i]))
		}
	}
	free_shop_vec(&res.ok)
	return out, nil
}

func takeOwner(res C.FFIResultRawOwner) (model.Owner, *errorView) {
	if res.tag != C.FFI_TAG_OK {
		return model.Owner{}, viewError(&res.err)
	}
	o := model.Owner{
		ID:         int32(res.ok.id),
		Name:       goOptionalString(res.ok.name),
		ModVersion: int32(res.ok.mod_version),
	}
	free_owner(&res.ok)
	return o, nil
}

func (h hostCall) createOwner(name string, modVersion int32) (model.Owner, *errorView) {
	url, key, done := h.args()
	defer done()
	n := newCString(name)
	defer freeCString(&n)
	return takeOwner(create_owner(url, key, n, C.int32_t(modVersion)))
}

func (h hostCall) updateOwner(id int32, name string, modVersion int32) (model.Owner, *errorView) {
	url, key, done := h.args()
	defer done()
	n := newCString(name)
	defer freeCString(&n)
	return takeOwner(update_owner(url, key, C.int32_t(id), n, C.int32_t(modVersion)))
}

func takeMerchandise(res C.FFIResultRawMerchandiseVec) ([]model.Merchandise, *errorView) {
	if res.tag != C.FFI_TAG_OK {
		return nil, viewError(&res.err)
	}
	items, err := merchandiseFromRaw(res.ok.ptr, res.ok.len)
	free_merchandise_vec(&res.ok)
	if err != nil {
		return nil, &errorView{Kind: 2, Message: err.Error()}
	}
	return items, nil
}

func (h hostCall) putMerchandise(create bool, shopID int32, items []model.Merchandise) ([]model.Merchandise, *errorView) {
	url, key, done := h.args()
	defer done()
	vec := newRawMerchandiseVec(items)
	defer freeRawMerchandiseVec(&vec)
	if create {
		return takeMerchandise(create_merchandise_list(url, key, C.int32_t(shopID), vec.ptr, vec.len))
	}
	return takeMerchandise(update_merchandise_list(url, key, C.int32_t(shopID), vec.ptr, vec.len))
}

func (h hostCall) getMerchandise(listID int32) ([]model.Merchandise, *errorView) {
	url, key, done := h.args()
	defer done()
	return takeMerchandise(get_merchandise_list(url, key, C.int32_t(listID)))
}

func (h hostCall) getMerchandiseByShop(shopID int32) ([]model.Merchandise, *errorView) {
	url, key, done := h.args()
	defer done()
	return takeMerchandise(get_merchandise_list_by_shop_id(url, key, C.int32_t(shopID)))
}

// callMerchandiseWithNullPointer 传入 NULL 指针与非零长度。
func (h hostCall) callMerchandiseWithNullPointer(shopID int32) *errorView {
	url, key, done := h.args()
	defer done()
	_, e := takeMerchandise(create_merchandise_list(url, key, C.int32_t(shopID), nil, 3))
	return e
}

func takeInterior(res C.FFIResultRawInteriorRefData) (model.InteriorRefList, *errorView) {
	if res.tag != C.FFI_TAG_OK {
		return model.InteriorRefList{}, viewError(&res.err)
	}
	refs, _ := interiorRefsFromRaw(res.ok.interior_ref_vec.ptr, res.ok.interior_ref_vec.len)
	shelves, _ := shelvesFromRaw(res.ok.shelf_vec.ptr, res.ok.shelf_vec.len)
	free_interior_ref_data(&res.ok)
	return model.InteriorRefList{RefList: refs, Shelves: shelves}, nil
}

func takeInt32(res C.FFIResultInt32) (int32, *errorView) {
	if res.tag != C.FFI_TAG_OK {
		return 0, viewError(&res.err)
	}
	return int32(res.ok), nil
}

func (h hostCall) putInterior(create bool, shopID int32, refs []model.InteriorRef, shelves []model.Shelf) (int32, *errorView) {
	url, key, done := h.args()
	defer done()
	data := newRawInteriorRefData(model.InteriorRefList{RefList: refs, Shelves: shelves})
	defer freeRawInteriorRefData(&data)
	r, s := data.interior_ref_vec, data.shelf_vec
	if create {
		return takeInt32(create_interior_ref_list(url, key, C.int32_t(shopID), r.ptr, r.len, s.ptr, s.len))
	}
	return takeInt32(update_interior_ref_list(url, key, C.int32_t(shopID), r.ptr, r.len, s.ptr, s.len))
}

func (h hostCall) getInterior(listID int32) (model.InteriorRefList, *errorView) {
	url, key, done := h.args()
	defer done()
	return takeInterior(get_interior_ref_list(url, key, C.int32_t(listID)))
}

func (h hostCall) getInteriorByShop(shopID int32) (model.InteriorRefList, *errorView) {
	url, key, done := h.args()
	defer done()
	return takeInterior(get_interior_ref_list_by_shop_id(url, key, C.int32_t(shopID)))
}

func (h hostCall) createTransaction(d model.TransactionDraft) (model.Transaction, *errorView) {
	url, key, done := h.args()
	defer done()
	raw := newRawTransaction(model.Transaction{
		ShopID:      d.ShopID,
		ModName:     d.ModName,
		LocalFormID: d.LocalFormID,
		Name:        d.Name,
		FormType:    d.FormType,
		IsFood:      d.IsFood,
		Price:       d.Price,
		IsSell:      d.IsSell,
		Quantity:    d.Quantity,
		Amount:      d.Amount,
		Keywords:    d.Keywords,
	})
	defer freeRawTransaction(&raw)

	res := create_transaction(url, key, raw)
	if res.tag != C.FFI_TAG_OK {
		return model.Transaction{}, viewError(&res.err)
	}
	keywords, _ := goStringList("keywords", res.ok.keywords, res.ok.keywords_len)
	tx := model.Transaction{
		ID:          int32(res.ok.id),
		ShopID:      int32(res.ok.shop_id),
		ModName:     goOptionalString(res.ok.mod_name),
		LocalFormID: int32(res.ok.local_form_id),
		Name:        goOptionalString(res.ok.name),
		FormType:    int32(res.ok.form_type),
		IsFood:      bool(res.ok.is_food),
		Price:       int32(res.ok.price),
		IsSell:      bool(res.ok.is_sell),
		Quantity:    int32(res.ok.quantity),
		Amount:      int32(res.ok.amount),
		Keywords:    keywords,
	}
	free_transaction(&res.ok)
	return tx, nil
}

func generatedAPIKey() string {
	p := generate_api_key()
	defer free_string(p)
	return C.GoString(p)
}

func clientVersion() string {
	p := client_version()
	defer free_string(p)
	return C.GoString(p)
}

// releaseZeroesRecords 构造每类记录并通过对应的 free_* 释放，返回释放后
// 仍非空的字段名。
func releaseZeroesRecords(shop model.Shop, list model.InteriorRefList, items []model.Merchandise, tx model.Transaction, sample error) []string {
	var dirty []string
	check := func(name string, ok bool) {
		if !ok {
			dirty = append(dirty, name)
		}
	}

	owner := newRawOwner(model.Owner{ID: 1, Name: "Belethor"})
	free_owner(&owner)
	check("owner.name", owner.name == nil)

	s := newRawShop(shop)
	free_shop(&s)
	check("shop.name", s.name == nil)
	check("shop.description", s.description == nil)
	check("shop.shop_type", s.shop_type == nil)
	check("shop.vendor_keywords", s.vendor_keywords == nil && s.vendor_keywords_len == 0)
	free_shop(&s)

	vec := newRawShopVec([]model.Shop{shop, shop})
	free_shop_vec(&vec)
	check("shop_vec", vec.ptr == nil && vec.len == 0 && vec.cap == 0)

	mv := newRawMerchandiseVec(items)
	free_merchandise_vec(&mv)
	check("merchandise_vec", mv.ptr == nil && mv.len == 0 && mv.cap == 0)

	data := newRawInteriorRefData(list)
	free_interior_ref_data(&data)
	check("interior_ref_vec", data.interior_ref_vec.ptr == nil && data.interior_ref_vec.len == 0)
	check("shelf_vec", data.shelf_vec.ptr == nil && data.shelf_vec.len == 0)

	t := newRawTransaction(tx)
	free_transaction(&t)
	check("transaction.mod_name", t.mod_name == nil)
	check("transaction.keywords", t.keywords == nil && t.keywords_len == 0)

	e := newFFIError(sample)
	free_error(&e)
	check("error", e.title == nil && e.message == nil && e.detail == nil)

	free_owner(nil)
	free_shop(nil)
	free_shop_vec(nil)
	free_merchandise_vec(nil)
	free_interior_ref_data(nil)
	free_transaction(nil)
	free_error(nil)
	free_string(nil)
	free_string_list(nil, 0)
	return dirty
}

// rawShelfSentinels 返回 Shelf 经过 C 表示后的 filter_form_type 与 search 是否为 NULL。
func rawShelfSentinels(s model.Shelf) (uint32, bool, bool) {
	r := newRawShelf(s)
	defer freeRawShelf(&r)
	return uint32(r.filter_form_type), r.search == nil, r.sort_on == nil
}
