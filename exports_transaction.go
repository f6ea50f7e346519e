package main

/*
#include "bazaar.h"
*/
import "C"

import (
	"context"

	"github.com/bazaar-realm/bazaar-client/internal/model"
)

// create_transaction 按值接收记录；宿主仍拥有其中的字符串。
//
//export create_transaction
func create_transaction(api_url, api_key *C.char, raw_transaction C.RawTransaction) C.FFIResultRawTransaction {
	draft, err := transactionDraftFromRaw(raw_transaction)
	if err != nil {
		return transactionResult(model.Transaction{}, err)
	}
	c, release, err := newClient(api_url, api_key)
	if err != nil {
		return transactionResult(model.Transaction{}, err)
	}
	defer release()
	return transactionResult(c.CreateTransaction(context.Background(), draft))
}
