package stubapi

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bazaar-realm/bazaar-client/internal/model"
)

// Store 以内存 map 保存全部记录；rev 每次写入递增，用于生成 ETag。
type Store struct {
	mu  sync.Mutex
	now func() time.Time

	nextID int32
	rev    map[string]int

	owners       map[int32]model.Owner
	ownersByKey  map[string]int32
	shops        map[int32]model.Shop
	merchandise  map[int32]model.MerchandiseList
	interiors    map[int32]model.InteriorRefList
	transactions map[int32]model.Transaction
}

// NewStore 构造空的内存存储。
func NewStore() *Store {
	return &Store{
		now:          func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
		rev:          make(map[string]int),
		owners:       make(map[int32]model.Owner),
		ownersByKey:  make(map[string]int32),
		shops:        make(map[int32]model.Shop),
		merchandise:  make(map[int32]model.MerchandiseList),
		interiors:    make(map[int32]model.InteriorRefList),
		transactions: make(map[int32]model.Transaction),
	}
}

func (s *Store) id() int32 {
	s.nextID++
	return s.nextID
}

func (s *Store) bump(tag string) string {
	s.rev[tag]++
	return fmt.Sprintf(`"%s-r%d"`, tag, s.rev[tag])
}

func (s *Store) etag(tag string) string {
	return fmt.Sprintf(`"%s-r%d"`, tag, s.rev[tag])
}

func (s *Store) ownerFor(apiKey string) int32 {
	return s.ownersByKey[apiKey]
}

// CreateOwner 注册店主并把 apiKey 绑定到该店主。
func (s *Store) CreateOwner(apiKey string, d model.OwnerDraft) (model.Owner, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	o := model.Owner{ID: s.id(), Name: d.Name, ModVersion: d.ModVersion, CreatedAt: now, UpdatedAt: now}
	s.owners[o.ID] = o
	s.ownersByKey[apiKey] = o.ID
	return o, s.bump(ownerTag(o.ID))
}

func (s *Store) UpdateOwner(id int32, d model.OwnerDraft) (model.Owner, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.owners[id]
	if !ok {
		return model.Owner{}, "", false
	}
	o.Name = d.Name
	o.ModVersion = d.ModVersion
	o.UpdatedAt = s.now()
	s.owners[id] = o
	return o, s.bump(ownerTag(id)), true
}

func (s *Store) Owner(id int32) (model.Owner, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.owners[id]
	return o, s.etag(ownerTag(id)), ok
}

func (s *Store) CreateShop(apiKey string, d model.ShopDraft) (model.Shop, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	shop := model.Shop{
		ID:             s.id(),
		OwnerID:        s.ownerFor(apiKey),
		ShopType:       "general_store",
		VendorKeywords: []string{"VendorItemKey", "VendorNoSale"},
		CreatedAt:      now,
	}
	applyShopDraft(&shop, d)
	shop.UpdatedAt = now
	s.shops[shop.ID] = shop
	return shop, s.bump(shopTag(shop.ID))
}

func (s *Store) UpdateShop(id int32, d model.ShopDraft) (model.Shop, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	shop, ok := s.shops[id]
	if !ok {
		return model.Shop{}, "", false
	}
	applyShopDraft(&shop, d)
	shop.UpdatedAt = s.now()
	s.shops[id] = shop
	return shop, s.bump(shopTag(id)), true
}

func (s *Store) Shop(id int32) (model.Shop, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	shop, ok := s.shops[id]
	return shop, s.etag(shopTag(id)), ok
}

// Shops 按 id 升序返回至多 limit 条记录；ETag 随任意商店写入变化。
func (s *Store) Shops(limit int) ([]model.Shop, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int32, 0, len(s.shops))
	for id := range s.shops {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]model.Shop, 0, len(ids))
	revs := 0
	for _, id := range ids {
		out = append(out, s.shops[id])
		revs += s.rev[shopTag(id)]
	}
	return out, fmt.Sprintf(`"shops-%d-%d-%d"`, limit, len(s.shops), revs)
}

func applyShopDraft(shop *model.Shop, d model.ShopDraft) {
	shop.Name = d.Name
	shop.Description = d.Description
	if d.Gold != nil {
		shop.Gold = *d.Gold
	}
	if d.ShopType != nil {
		shop.ShopType = *d.ShopType
	}
	if d.VendorKeywords != nil {
		shop.VendorKeywords = append([]string(nil), (*d.VendorKeywords)...)
	}
	if d.VendorKeywordsExclude != nil {
		shop.VendorKeywordsExclude = *d.VendorKeywordsExclude
	}
}

// PutMerchandiseList 创建或替换某商店的商品列表；create 为 true 时要求该商店尚无列表。
func (s *Store) PutMerchandiseList(apiKey string, d model.MerchandiseListDraft, create bool) (model.MerchandiseList, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.shops[d.ShopID]; !ok {
		return model.MerchandiseList{}, "", errShopMissing
	}
	now := s.now()
	existing, found := s.merchandiseByShop(d.ShopID)
	switch {
	case create && found:
		return model.MerchandiseList{}, "", errConflict
	case !create && !found:
		return model.MerchandiseList{}, "", errNotFound
	}
	list := existing
	if !found {
		list = model.MerchandiseList{ID: s.id(), ShopID: d.ShopID, OwnerID: s.ownerFor(apiKey), CreatedAt: now}
	}
	list.FormList = d.FormList
	list.UpdatedAt = now
	s.merchandise[list.ID] = list
	s.bump(shopTag(d.ShopID) + "-merchandise")
	return list, s.bump(merchandiseTag(list.ID)), nil
}

func (s *Store) MerchandiseList(id int32) (model.MerchandiseList, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, ok := s.merchandise[id]
	return list, s.etag(merchandiseTag(id)), ok
}

func (s *Store) MerchandiseListByShop(shopID int32) (model.MerchandiseList, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, ok := s.merchandiseByShop(shopID)
	return list, s.etag(shopTag(shopID) + "-merchandise"), ok
}

func (s *Store) merchandiseByShop(shopID int32) (model.MerchandiseList, bool) {
	for _, list := range s.merchandise {
		if list.ShopID == shopID {
			return list, true
		}
	}
	return model.MerchandiseList{}, false
}

func (s *Store) PutInteriorRefList(apiKey string, d model.InteriorRefListDraft, create bool) (model.InteriorRefList, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.shops[d.ShopID]; !ok {
		return model.InteriorRefList{}, "", errShopMissing
	}
	now := s.now()
	existing, found := s.interiorByShop(d.ShopID)
	switch {
	case create && found:
		return model.InteriorRefList{}, "", errConflict
	case !create && !found:
		return model.InteriorRefList{}, "", errNotFound
	}
	list := existing
	if !found {
		list = model.InteriorRefList{ID: s.id(), ShopID: d.ShopID, OwnerID: s.ownerFor(apiKey), CreatedAt: now}
	}
	list.RefList = d.RefList
	list.Shelves = d.Shelves
	list.UpdatedAt = now
	s.interiors[list.ID] = list
	s.bump(shopTag(d.ShopID) + "-interior")
	return list, s.bump(interiorTag(list.ID)), nil
}

func (s *Store) InteriorRefList(id int32) (model.InteriorRefList, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, ok := s.interiors[id]
	return list, s.etag(interiorTag(id)), ok
}

func (s *Store) InteriorRefListByShop(shopID int32) (model.InteriorRefList, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, ok := s.interiorByShop(shopID)
	return list, s.etag(shopTag(shopID) + "-interior"), ok
}

func (s *Store) interiorByShop(shopID int32) (model.InteriorRefList, bool) {
	for _, list := range s.interiors {
		if list.ShopID == shopID {
			return list, true
		}
	}
	return model.InteriorRefList{}, false
}

func (s *Store) CreateTransaction(apiKey string, d model.TransactionDraft) (model.Transaction, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.shops[d.ShopID]; !ok {
		return model.Transaction{}, "", errShopMissing
	}
	tx := model.Transaction{
		ID:          s.id(),
		OwnerID:     s.ownerFor(apiKey),
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
		CreatedAt:   s.now(),
	}
	s.transactions[tx.ID] = tx
	return tx, s.bump(transactionTag(tx.ID)), nil
}

func (s *Store) Transaction(id int32) (model.Transaction, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.transactions[id]
	return tx, s.etag(transactionTag(id)), ok
}

func ownerTag(id int32) string       { return fmt.Sprintf("owner-%d", id) }
func shopTag(id int32) string        { return fmt.Sprintf("shop-%d", id) }
func merchandiseTag(id int32) string { return fmt.Sprintf("merchandise-%d", id) }
func interiorTag(id int32) string    { return fmt.Sprintf("interior-%d", id) }
func transactionTag(id int32) string { return fmt.Sprintf("transaction-%d", id) }
