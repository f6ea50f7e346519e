package model

import (
	"errors"
	"fmt"
	"time"
)

// TransactionSchema 标记 Transaction 的缓存布局版本。
const TransactionSchema uint16 = 1

// Transaction 记录一次买卖。
type Transaction struct {
	ID          int32     `json:"id" msgpack:"id"`
	OwnerID     int32     `json:"owner_id" msgpack:"owner_id"`
	ShopID      int32     `json:"shop_id" msgpack:"shop_id"`
	ModName     string    `json:"mod_name" msgpack:"mod_name"`
	LocalFormID int32     `json:"local_form_id" msgpack:"local_form_id"`
	Name        string    `json:"name" msgpack:"name"`
	FormType    int32     `json:"form_type" msgpack:"form_type"`
	IsFood      bool      `json:"is_food" msgpack:"is_food"`
	Price       int32     `json:"price" msgpack:"price"`
	IsSell      bool      `json:"is_sell" msgpack:"is_sell"`
	Quantity    int32     `json:"quantity" msgpack:"quantity"`
	Amount      int32     `json:"amount" msgpack:"amount"`
	Keywords    []string  `json:"keywords" msgpack:"keywords"`
	CreatedAt   time.Time `json:"created_at" msgpack:"created_at"`
}

type TransactionDraft struct {
	ShopID      int32    `json:"shop_id" msgpack:"shop_id"`
	ModName     string   `json:"mod_name" msgpack:"mod_name"`
	LocalFormID int32    `json:"local_form_id" msgpack:"local_form_id"`
	Name        string   `json:"name" msgpack:"name"`
	FormType    int32    `json:"form_type" msgpack:"form_type"`
	IsFood      bool     `json:"is_food" msgpack:"is_food"`
	Price       int32    `json:"price" msgpack:"price"`
	IsSell      bool     `json:"is_sell" msgpack:"is_sell"`
	Quantity    int32    `json:"quantity" msgpack:"quantity"`
	Amount      int32    `json:"amount" msgpack:"amount"`
	Keywords    []string `json:"keywords" msgpack:"keywords"`
}

func (d TransactionDraft) Validate() error {
	switch {
	case d.ShopID <= 0:
		return fmt.Errorf("invalid shop id %d", d.ShopID)
	case d.ModName == "":
		return errors.New("transaction mod name required")
	case d.Quantity <= 0:
		return fmt.Errorf("invalid quantity %d", d.Quantity)
	}
	return nil
}
