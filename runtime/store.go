// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

import (
	dbm "github.com/33cn/paraxcm/common/db"
	"github.com/33cn/paraxcm/types"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

const storePrefix = "mavl-store-"

// Store events
const (
	EventValueStored    = "ValueStored"
	EventVaneTransfered = "VaneTransfered"
)

// ValueStored records a TestStoring call.
type ValueStored struct {
	Account types.AccountID
	Value   uint64
}

// VaneTransfered records a payment made by VaneTransfer.
type VaneTransfered struct {
	Payer  types.AccountID
	Payee  types.AccountID
	Asset  string
	Amount int64
}

// Store keeps one number per account.
type Store struct {
	db dbm.KV
}

// NewStore 创建 store pallet
func NewStore(db dbm.KV) *Store {
	return &Store{db: db}
}

func storeKey(who types.AccountID) []byte {
	return append([]byte(storePrefix), who[:]...)
}

// Get returns the value stored for who, zero when unset.
func (s *Store) Get(who types.AccountID) uint64 {
	b, err := s.db.Get(storeKey(who))
	if err != nil {
		return 0
	}
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		panic(errors.Wrapf(types.ErrFailedToDecode, "store value of %s", who))
	}
	return v
}

// Set stores v for who.
func (s *Store) Set(who types.AccountID, v uint64) error {
	return s.db.Set(storeKey(who), protowire.AppendVarint(nil, v))
}
