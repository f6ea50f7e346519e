package main

/*
#include "bazaar.h"
*/
import "C"

import (
	"context"

	"github.com/bazaar-realm/bazaar-client/internal/model"
)

//export create_owner
func create_owner(api_url, api_key, name *C.char, mod_version C.int32_t) C.FFIResultRawOwner {
	c, release, err := newClient(api_url, api_key)
	if err != nil {
		return ownerResult(model.Owner{}, err)
	}
	defer release()
	return ownerResult(c.CreateOwner(context.Background(), model.OwnerDraft{
		Name:       goOptionalString(name),
		ModVersion: int32(mod_version),
	}))
}

//export update_owner
func update_owner(api_url, api_key *C.char, id C.int32_t, name *C.char, mod_version C.int32_t) C.FFIResultRawOwner {
	c, release, err := newClient(api_url, api_key)
	if err != nil {
		return ownerResult(model.Owner{}, err)
	}
	defer release()
	return ownerResult(c.UpdateOwner(context.Background(), int32(id), model.OwnerDraft{
		Name:       goOptionalString(name),
		ModVersion: int32(mod_version),
	}))
}
