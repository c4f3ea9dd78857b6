// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sovereign derives the local account that represents a location.
package sovereign

import (
	"encoding/binary"

	"github.com/33cn/paraxcm/common"
	"github.com/33cn/paraxcm/types"
	"github.com/33cn/paraxcm/xcm"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

// 预置账户前缀
var (
	parentPreset  = []byte("Parent")
	childPrefix   = []byte("para")
	siblingPrefix = []byte("sibl")
	hashPrefix    = []byte("multiloc")
)

// Conversion maps a location to an account, reporting whether it applies.
// Conversions are pure.
type Conversion func(l xcm.Location) (types.AccountID, bool)

// Converter tries its conversions in order and takes the first match.
// The list is fixed at construction.
type Converter struct {
	conversions []Conversion
	cache       *lru.Cache
}

// cacheSize 缓存的 location 个数
const cacheSize = 10240

// NewConverter builds a converter over the ordered conversions.
func NewConverter(conversions ...Conversion) *Converter {
	cache, err := lru.New(cacheSize)
	if err != nil {
		panic(err)
	}
	return &Converter{
		conversions: append([]Conversion(nil), conversions...),
		cache:       cache,
	}
}

// Convert derives the account of l.
func (c *Converter) Convert(l xcm.Location) (types.AccountID, error) {
	key := string(xcm.EncodeLocation(l))
	if v, ok := c.cache.Get(key); ok {
		return v.(types.AccountID), nil
	}
	for _, conv := range c.conversions {
		if acc, ok := conv(l); ok {
			c.cache.Add(key, acc)
			return acc, nil
		}
	}
	return types.ZeroAccount, errors.Wrapf(types.ErrAccountDerivationFailed, "location %s", l)
}

// ParentIsPreset maps Parent to the "Parent" preset account.
func ParentIsPreset() Conversion {
	parent := types.PresetAccount(parentPreset)
	return func(l xcm.Location) (types.AccountID, bool) {
		if l.Parents == 1 && len(l.Interior) == 0 {
			return parent, true
		}
		return types.ZeroAccount, false
	}
}

// ChildParachainConvertsVia maps a child parachain seen from the relay to
// "para" followed by its little endian id.
func ChildParachainConvertsVia() Conversion {
	return func(l xcm.Location) (types.AccountID, bool) {
		if l.Parents != 0 {
			return types.ZeroAccount, false
		}
		id, ok := l.ParachainID()
		if !ok {
			return types.ZeroAccount, false
		}
		return ChildAccount(id), true
	}
}

// SiblingParachainConvertsVia maps a sibling parachain to "sibl" followed
// by its little endian id.
func SiblingParachainConvertsVia() Conversion {
	return func(l xcm.Location) (types.AccountID, bool) {
		if l.Parents != 1 {
			return types.ZeroAccount, false
		}
		id, ok := l.ParachainID()
		if !ok {
			return types.ZeroAccount, false
		}
		return SiblingAccount(id), true
	}
}

// AccountID32Aliases maps a local 32 byte account junction to the account
// itself when its network is unset or equals network.
func AccountID32Aliases(network xcm.NetworkID) Conversion {
	return func(l xcm.Location) (types.AccountID, bool) {
		if l.Parents != 0 || len(l.Interior) != 1 {
			return types.ZeroAccount, false
		}
		j, ok := l.Interior[0].(xcm.AccountID32)
		if !ok || (j.Network != xcm.AnyNetwork && j.Network != network) {
			return types.ZeroAccount, false
		}
		return j.ID, true
	}
}

// HashedDescription matches every location, hashing its encoding.
func HashedDescription() Conversion {
	return func(l xcm.Location) (types.AccountID, bool) {
		return types.AccountID(common.Blake2b256(hashPrefix, xcm.EncodeLocation(l))), true
	}
}

// HashedLocalDescription is HashedDescription restricted to locations
// inside this chain.
func HashedLocalDescription() Conversion {
	hash := HashedDescription()
	return func(l xcm.Location) (types.AccountID, bool) {
		if l.Parents != 0 {
			return types.ZeroAccount, false
		}
		return hash(l)
	}
}

// ParentAccount is the account a parachain keeps for the relay.
func ParentAccount() types.AccountID {
	return types.PresetAccount(parentPreset)
}

// ChildAccount is the account the relay keeps for parachain id.
func ChildAccount(id uint32) types.AccountID {
	return prefixed(childPrefix, id)
}

// SiblingAccount is the account a parachain keeps for sibling id.
func SiblingAccount(id uint32) types.AccountID {
	return prefixed(siblingPrefix, id)
}

func prefixed(prefix []byte, id uint32) types.AccountID {
	var buf [8]byte
	copy(buf[:4], prefix)
	binary.LittleEndian.PutUint32(buf[4:], id)
	return types.PresetAccount(buf[:])
}

// RelayConverter is the relay chain's list: child parachains, local
// accounts of network, then a hash of other local locations. Nothing above
// the relay converts.
func RelayConverter(network xcm.NetworkID) *Converter {
	return NewConverter(
		ChildParachainConvertsVia(),
		AccountID32Aliases(network),
		HashedLocalDescription(),
	)
}

// ParachainConverter is a parachain's list: the parent, siblings, local
// accounts of network, then a hash of anything else.
func ParachainConverter(network xcm.NetworkID) *Converter {
	return NewConverter(
		ParentIsPreset(),
		SiblingParachainConvertsVia(),
		AccountID32Aliases(network),
		HashedDescription(),
	)
}
