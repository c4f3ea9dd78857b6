// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"bytes"
	"strings"

	"github.com/33cn/paraxcm/common"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

// AccountIDLen is the width of a local account identifier.
const AccountIDLen = 32

// AccountID is an opaque local account identifier.
type AccountID [AccountIDLen]byte

// ZeroAccount is the all-zero account.
var ZeroAccount AccountID

// String encodes the account in base58.
func (a AccountID) String() string {
	return base58.Encode(a[:])
}

// Bytes returns a copy of the raw account bytes.
func (a AccountID) Bytes() []byte {
	return common.CopyBytes(a[:])
}

// IsZero reports whether a is the zero account.
func (a AccountID) IsZero() bool {
	return a == ZeroAccount
}

// Less orders accounts bytewise.
func (a AccountID) Less(o AccountID) bool {
	return bytes.Compare(a[:], o[:]) < 0
}

// AccountFromBytes copies a 32 byte slice into an AccountID.
func AccountFromBytes(b []byte) (AccountID, error) {
	var a AccountID
	if len(b) != AccountIDLen {
		return a, errors.Wrapf(ErrInvalidAccount, "length %d", len(b))
	}
	copy(a[:], b)
	return a, nil
}

// ParseAccountID accepts a base58 or 0x-hex account string.
func ParseAccountID(s string) (AccountID, error) {
	s = strings.TrimSpace(s)
	if common.HasHexPrefix(s) {
		b, err := common.FromHex(s)
		if err != nil {
			return ZeroAccount, errors.Wrap(ErrInvalidAccount, err.Error())
		}
		return AccountFromBytes(b)
	}
	b, err := base58.Decode(s)
	if err != nil {
		return ZeroAccount, errors.Wrap(ErrInvalidAccount, err.Error())
	}
	return AccountFromBytes(b)
}

// PresetAccount left-aligns tag into an account and zero pads the rest.
// Tags longer than an account are truncated.
func PresetAccount(tag []byte) AccountID {
	var a AccountID
	copy(a[:], tag)
	return a
}

// AccountFromSeed derives the account of the secp256k1 key generated from
// a development seed such as "Alice".
func AccountFromSeed(seed string) AccountID {
	secret := common.Blake2b256([]byte("//" + seed))
	_, pub := btcec.PrivKeyFromBytes(secret[:])
	return AccountID(common.Blake2b256(pub.SerializeCompressed()))
}
