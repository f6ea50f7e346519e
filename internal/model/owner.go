package model

import (
	"errors"
	"time"
)

// OwnerSchema 标记 Owner 的缓存布局版本。
const OwnerSchema uint16 = 1

// Owner 是服务端保存的店主记录。
type Owner struct {
	ID         int32     `json:"id" msgpack:"id"`
	Name       string    `json:"name" msgpack:"name"`
	ModVersion int32     `json:"mod_version" msgpack:"mod_version"`
	CreatedAt  time.Time `json:"created_at" msgpack:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" msgpack:"updated_at"`
}

type OwnerDraft struct {
	Name       string `json:"name" msgpack:"name"`
	ModVersion int32  `json:"mod_version" msgpack:"mod_version"`
}

func (d OwnerDraft) Validate() error {
	if d.Name == "" {
		return errors.New("owner name required")
	}
	return nil
}
