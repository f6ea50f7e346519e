package main

/*
#include "bazaar.h"
*/
import "C"

import (
	"unsafe"

	"github.com/bazaar-realm/bazaar-client/internal/apierr"
	"github.com/bazaar-realm/bazaar-client/internal/model"
)

// 本文件是唯一直接分配或释放 C 内存的地方。new* 的结果交给宿主后，
// Go 侧不再读取；free* 释放后把对应指针清零，重复释放是空操作。

// maxHostItems 限制宿主传入数组的长度，防止错误的 len 造成越界读取。
const maxHostItems = 1 << 20

func newCString(s string) *C.char {
	return C.CString(s)
}

// optionalCString 将缺省值编码为 NULL。
func optionalCString(s *string) *C.char {
	if s == nil {
		return nil
	}
	return C.CString(*s)
}

func freeCString(p **C.char) {
	if p == nil || *p == nil {
		return
	}
	C.free(unsafe.Pointer(*p))
	*p = nil
}

func goOptionalString(p *C.char) string {
	if p == nil {
		return ""
	}
	return C.GoString(p)
}

func goStringPtr(p *C.char) *string {
	if p == nil {
		return nil
	}
	s := C.GoString(p)
	return &s
}

func cAlloc(n int, size uintptr) unsafe.Pointer {
	return C.malloc(C.size_t(n) * C.size_t(size))
}

// cArray 分配 n 个连续的 T；n 为 0 时返回 nil。
func cArray[T any](n int) (*T, []T) {
	if n == 0 {
		return nil, nil
	}
	var zero T
	p := (*T)(cAlloc(n, unsafe.Sizeof(zero)))
	return p, unsafe.Slice(p, n)
}

// hostSlice 以只读方式查看宿主传入的数组。
func hostSlice[T any](what string, p *T, n uint64) ([]T, error) {
	switch {
	case n == 0:
		return nil, nil
	case p == nil:
		return nil, apierr.Newf("%s: null pointer with length %d", what, n)
	case n > maxHostItems:
		return nil, apierr.Newf("%s: length %d exceeds %d", what, n, maxHostItems)
	}
	return unsafe.Slice(p, int(n)), nil
}

func newCStringList(items []string) (**C.char, C.uintptr_t) {
	p, slots := cArray[*C.char](len(items))
	for i, s := range items {
		slots[i] = C.CString(s)
	}
	return p, C.uintptr_t(len(items))
}

func freeCStringList(p ***C.char, n *C.uintptr_t) {
	if p == nil || *p == nil {
		return
	}
	items := unsafe.Slice(*p, int(*n))
	for i := range items {
		freeCString(&items[i])
	}
	C.free(unsafe.Pointer(*p))
	*p = nil
	*n = 0
}

func goStringList(what string, p **C.char, n C.uintptr_t) ([]string, error) {
	items, err := hostSlice(what, p, uint64(n))
	if err != nil {
		return nil, err
	}
	out := make([]string, len(items))
	for i, s := range items {
		if s == nil {
			return nil, apierr.Newf("%s: null string at index %d", what, i)
		}
		out[i] = C.GoString(s)
	}
	return out, nil
}

func newRawOwner(o model.Owner) C.RawOwner {
	return C.RawOwner{
		id:          C.int32_t(o.ID),
		name:        newCString(o.Name),
		mod_version: C.int32_t(o.ModVersion),
	}
}

func freeRawOwner(r *C.RawOwner) {
	freeCString(&r.name)
}

func newRawShop(s model.Shop) C.RawShop {
	keywords, n := newCStringList(s.VendorKeywords)
	return C.RawShop{
		id:                      C.int32_t(s.ID),
		name:                    newCString(s.Name),
		description:             newCString(s.Description),
		gold:                    C.int32_t(s.Gold),
		shop_type:               newCString(s.ShopType),
		vendor_keywords:         keywords,
		vendor_keywords_len:     n,
		vendor_keywords_exclude: C.bool(s.VendorKeywordsExclude),
	}
}

func freeRawShop(r *C.RawShop) {
	freeCString(&r.name)
	freeCString(&r.description)
	freeCString(&r.shop_type)
	freeCStringList(&r.vendor_keywords, &r.vendor_keywords_len)
}

func newRawShopVec(shops []model.Shop) C.RawShopVec {
	p, items := cArray[C.RawShop](len(shops))
	for i, s := range shops {
		items[i] = newRawShop(s)
	}
	return C.RawShopVec{ptr: p, len: C.uintptr_t(len(shops)), cap: C.uintptr_t(len(shops))}
}

func freeRawShopVec(v *C.RawShopVec) {
	if v.ptr != nil {
		items := unsafe.Slice(v.ptr, int(v.len))
		for i := range items {
			freeRawShop(&items[i])
		}
		C.free(unsafe.Pointer(v.ptr))
	}
	*v = C.RawShopVec{}
}

func newRawMerchandise(m model.Merchandise) C.RawMerchandise {
	keywords, n := newCStringList(m.Keywords)
	return C.RawMerchandise{
		mod_name:      newCString(m.ModName),
		local_form_id: C.uint32_t(m.LocalFormID),
		name:          newCString(m.Name),
		quantity:      C.uint32_t(m.Quantity),
		form_type:     C.uint32_t(m.FormType),
		is_food:       C.bool(m.IsFood),
		price:         C.uint32_t(m.Price),
		keywords:      keywords,
		keywords_len:  n,
	}
}

func freeRawMerchandise(r *C.RawMerchandise) {
	freeCString(&r.mod_name)
	freeCString(&r.name)
	freeCStringList(&r.keywords, &r.keywords_len)
}

func newRawMerchandiseVec(list []model.Merchandise) C.RawMerchandiseVec {
	p, items := cArray[C.RawMerchandise](len(list))
	for i, m := range list {
		items[i] = newRawMerchandise(m)
	}
	return C.RawMerchandiseVec{ptr: p, len: C.uintptr_t(len(list)), cap: C.uintptr_t(len(list))}
}

func freeRawMerchandiseVec(v *C.RawMerchandiseVec) {
	if v.ptr != nil {
		items := unsafe.Slice(v.ptr, int(v.len))
		for i := range items {
			freeRawMerchandise(&items[i])
		}
		C.free(unsafe.Pointer(v.ptr))
	}
	*v = C.RawMerchandiseVec{}
}

func merchandiseFromRaw(p *C.RawMerchandise, n C.uintptr_t) ([]model.Merchandise, error) {
	items, err := hostSlice("merchandise", p, uint64(n))
	if err != nil {
		return nil, err
	}
	out := make([]model.Merchandise, 0, len(items))
	for _, r := range items {
		keywords, err := goStringList("merchandise keywords", r.keywords, r.keywords_len)
		if err != nil {
			return nil, err
		}
		out = append(out, model.Merchandise{
			ModName:     goOptionalString(r.mod_name),
			LocalFormID: uint32(r.local_form_id),
			Name:        goOptionalString(r.name),
			Quantity:    uint32(r.quantity),
			FormType:    uint32(r.form_type),
			IsFood:      bool(r.is_food),
			Price:       uint32(r.price),
			Keywords:    keywords,
		})
	}
	return out, nil
}

func newRawInteriorRef(ref model.InteriorRef) C.RawInteriorRef {
	return C.RawInteriorRef{
		base_mod_name:      newCString(ref.BaseModName),
		base_local_form_id: C.uint32_t(ref.BaseLocalFormID),
		ref_mod_name:       optionalCString(ref.RefModName),
		ref_local_form_id:  C.uint32_t(ref.RefLocalFormID),
		position_x:         C.float(ref.PositionX),
		position_y:         C.float(ref.PositionY),
		position_z:         C.float(ref.PositionZ),
		angle_x:            C.float(ref.AngleX),
		angle_y:            C.float(ref.AngleY),
		angle_z:            C.float(ref.AngleZ),
		scale:              C.uint16_t(ref.Scale),
	}
}

func freeRawInteriorRef(r *C.RawInteriorRef) {
	freeCString(&r.base_mod_name)
	freeCString(&r.ref_mod_name)
}

// newRawShelf 以 0 表示没有 filter_form_type。
func newRawShelf(s model.Shelf) C.RawShelf {
	var filter uint32
	if s.FilterFormType != nil {
		filter = *s.FilterFormType
	}
	return C.RawShelf{
		shelf_type:       C.uint32_t(s.ShelfType),
		position_x:       C.float(s.PositionX),
		position_y:       C.float(s.PositionY),
		position_z:       C.float(s.PositionZ),
		angle_x:          C.float(s.AngleX),
		angle_y:          C.float(s.AngleY),
		angle_z:          C.float(s.AngleZ),
		scale:            C.uint16_t(s.Scale),
		page:             C.uint32_t(s.Page),
		filter_form_type: C.uint32_t(filter),
		filter_is_food:   C.bool(s.FilterIsFood),
		search:           optionalCString(s.Search),
		sort_on:          optionalCString(s.SortOn),
		sort_asc:         C.bool(s.SortAsc),
	}
}

func freeRawShelf(r *C.RawShelf) {
	freeCString(&r.search)
	freeCString(&r.sort_on)
}

func newRawInteriorRefData(l model.InteriorRefList) C.RawInteriorRefData {
	refPtr, refs := cArray[C.RawInteriorRef](len(l.RefList))
	for i, ref := range l.RefList {
		refs[i] = newRawInteriorRef(ref)
	}
	shelfPtr, shelves := cArray[C.RawShelf](len(l.Shelves))
	for i, s := range l.Shelves {
		shelves[i] = newRawShelf(s)
	}
	return C.RawInteriorRefData{
		interior_ref_vec: C.RawInteriorRefVec{
			ptr: refPtr,
			len: C.uintptr_t(len(l.RefList)),
			cap: C.uintptr_t(len(l.RefList)),
		},
		shelf_vec: C.RawShelfVec{
			ptr: shelfPtr,
			len: C.uintptr_t(len(l.Shelves)),
			cap: C.uintptr_t(len(l.Shelves)),
		},
	}
}

func freeRawInteriorRefData(d *C.RawInteriorRefData) {
	if refs := d.interior_ref_vec; refs.ptr != nil {
		items := unsafe.Slice(refs.ptr, int(refs.len))
		for i := range items {
			freeRawInteriorRef(&items[i])
		}
		C.free(unsafe.Pointer(refs.ptr))
	}
	if shelves := d.shelf_vec; shelves.ptr != nil {
		items := unsafe.Slice(shelves.ptr, int(shelves.len))
		for i := range items {
			freeRawShelf(&items[i])
		}
		C.free(unsafe.Pointer(shelves.ptr))
	}
	*d = C.RawInteriorRefData{}
}

func interiorRefsFromRaw(p *C.RawInteriorRef, n C.uintptr_t) ([]model.InteriorRef, error) {
	items, err := hostSlice("interior refs", p, uint64(n))
	if err != nil {
		return nil, err
	}
	out := make([]model.InteriorRef, 0, len(items))
	for _, r := range items {
		out = append(out, model.InteriorRef{
			BaseModName:     goOptionalString(r.base_mod_name),
			BaseLocalFormID: uint32(r.base_local_form_id),
			RefModName:      goStringPtr(r.ref_mod_name),
			RefLocalFormID:  uint32(r.ref_local_form_id),
			PositionX:       float32(r.position_x),
			PositionY:       float32(r.position_y),
			PositionZ:       float32(r.position_z),
			AngleX:          float32(r.angle_x),
			AngleY:          float32(r.angle_y),
			AngleZ:          float32(r.angle_z),
			Scale:           uint16(r.scale),
		})
	}
	return out, nil
}

func shelvesFromRaw(p *C.RawShelf, n C.uintptr_t) ([]model.Shelf, error) {
	items, err := hostSlice("shelves", p, uint64(n))
	if err != nil {
		return nil, err
	}
	out := make([]model.Shelf, 0, len(items))
	for _, r := range items {
		var filter *uint32
		if r.filter_form_type != 0 {
			v := uint32(r.filter_form_type)
			filter = &v
		}
		out = append(out, model.Shelf{
			ShelfType:      uint32(r.shelf_type),
			PositionX:      float32(r.position_x),
			PositionY:      float32(r.position_y),
			PositionZ:      float32(r.position_z),
			AngleX:         float32(r.angle_x),
			AngleY:         float32(r.angle_y),
			AngleZ:         float32(r.angle_z),
			Scale:          uint16(r.scale),
			Page:           uint32(r.page),
			FilterFormType: filter,
			FilterIsFood:   bool(r.filter_is_food),
			Search:         goStringPtr(r.search),
			SortOn:         goStringPtr(r.sort_on),
			SortAsc:        bool(r.sort_asc),
		})
	}
	return out, nil
}

func newRawTransaction(tx model.Transaction) C.RawTransaction {
	keywords, n := newCStringList(tx.Keywords)
	return C.RawTransaction{
		id:            C.int32_t(tx.ID),
		shop_id:       C.int32_t(tx.ShopID),
		mod_name:      newCString(tx.ModName),
		local_form_id: C.int32_t(tx.LocalFormID),
		name:          newCString(tx.Name),
		form_type:     C.int32_t(tx.FormType),
		is_food:       C.bool(tx.IsFood),
		price:         C.int32_t(tx.Price),
		is_sell:       C.bool(tx.IsSell),
		quantity:      C.int32_t(tx.Quantity),
		amount:        C.int32_t(tx.Amount),
		keywords:      keywords,
		keywords_len:  n,
	}
}

func freeRawTransaction(r *C.RawTransaction) {
	freeCString(&r.mod_name)
	freeCString(&r.name)
	freeCStringList(&r.keywords, &r.keywords_len)
}

// transactionDraftFromRaw 忽略宿主传入的 id，由服务端分配。
func transactionDraftFromRaw(r C.RawTransaction) (model.TransactionDraft, error) {
	keywords, err := goStringList("transaction keywords", r.keywords, r.keywords_len)
	if err != nil {
		return model.TransactionDraft{}, err
	}
	return model.TransactionDraft{
		ShopID:      int32(r.shop_id),
		ModName:     goOptionalString(r.mod_name),
		LocalFormID: int32(r.local_form_id),
		Name:        goOptionalString(r.name),
		FormType:    int32(r.form_type),
		IsFood:      bool(r.is_food),
		Price:       int32(r.price),
		IsSell:      bool(r.is_sell),
		Quantity:    int32(r.quantity),
		Amount:      int32(r.amount),
		Keywords:    keywords,
	}, nil
}
