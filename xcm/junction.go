// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xcm

import (
	"fmt"
	"strings"

	"github.com/33cn/paraxcm/common"
	"github.com/33cn/paraxcm/types"
)

// NetworkID names a global consensus network. AnyNetwork is "none".
type NetworkID uint8

// networks
const (
	AnyNetwork NetworkID = iota
	Polkadot
	Kusama
	Westend
	Rococo
)

var networkNames = map[NetworkID]string{
	AnyNetwork: "any",
	Polkadot:   "polkadot",
	Kusama:     "kusama",
	Westend:    "westend",
	Rococo:     "rococo",
}

func (n NetworkID) String() string {
	if s, ok := networkNames[n]; ok {
		return s
	}
	return fmt.Sprintf("network(%d)", uint8(n))
}

// ParseNetwork maps a config name to a NetworkID; empty means AnyNetwork.
func ParseNetwork(s string) (NetworkID, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return AnyNetwork, nil
	}
	for id, name := range networkNames {
		if name == s {
			return id, nil
		}
	}
	return AnyNetwork, fmt.Errorf("unknown network %q", s)
}

// Junction is one path segment of a Location.
// The set of junctions is closed: Parachain, AccountID32, AccountKey20,
// PalletInstance, GeneralIndex, GeneralKey and OnlyChild.
type Junction interface {
	fmt.Stringer
	junctionTag() uint8
}

// junction tags, also the wire tags
const (
	tagParachain uint8 = iota
	tagAccountID32
	tagAccountKey20
	tagPalletInstance
	tagGeneralIndex
	tagGeneralKey
	tagOnlyChild
)

// Parachain is a child chain of the relay.
type Parachain struct {
	ID uint32
}

// AccountID32 is a 32 byte account, optionally scoped to a network.
type AccountID32 struct {
	Network NetworkID
	ID      types.AccountID
}

// AccountKey20 is a 20 byte account key.
type AccountKey20 struct {
	Network NetworkID
	Key     [20]byte
}

// PalletInstance is a pallet index within a runtime.
type PalletInstance struct {
	Index uint8
}

// GeneralIndex is an index into a pallet's storage, usually an asset id.
type GeneralIndex struct {
	Index uint64
}

// GeneralKey is an opaque key of at most 32 bytes.
type GeneralKey struct {
	Length uint8
	Data   [32]byte
}

// OnlyChild is the sole child of a location.
type OnlyChild struct{}

func (Parachain) junctionTag() uint8      { return tagParachain }
func (AccountID32) junctionTag() uint8    { return tagAccountID32 }
func (AccountKey20) junctionTag() uint8   { return tagAccountKey20 }
func (PalletInstance) junctionTag() uint8 { return tagPalletInstance }
func (GeneralIndex) junctionTag() uint8   { return tagGeneralIndex }
func (GeneralKey) junctionTag() uint8     { return tagGeneralKey }
func (OnlyChild) junctionTag() uint8      { return tagOnlyChild }

func (j Parachain) String() string      { return fmt.Sprintf("para:%d", j.ID) }
func (j PalletInstance) String() string { return fmt.Sprintf("pallet:%d", j.Index) }
func (j GeneralIndex) String() string   { return fmt.Sprintf("index:%d", j.Index) }
func (OnlyChild) String() string        { return "child" }

func (j AccountID32) String() string {
	if j.Network == AnyNetwork {
		return "acc:" + j.ID.String()
	}
	return "acc:" + j.ID.String() + "@" + j.Network.String()
}

func (j AccountKey20) String() string {
	return "key20:" + common.ToHex(j.Key[:])
}

func (j GeneralKey) String() string {
	return "key:" + common.ToHex(j.Data[:j.Length])
}

// NewGeneralKey builds a GeneralKey from at most 32 bytes.
func NewGeneralKey(b []byte) (GeneralKey, error) {
	var k GeneralKey
	if len(b) > len(k.Data) {
		return k, types.ErrBadFormat
	}
	k.Length = uint8(len(b))
	copy(k.Data[:], b)
	return k, nil
}

// Junctions is the interior of a Location. Treat it as immutable.
type Junctions []Junction

// MaxJunctions bounds the interior of a Location.
const MaxJunctions = 8

// Equal compares two interiors element by element.
func (js Junctions) Equal(o Junctions) bool {
	if len(js) != len(o) {
		return false
	}
	for i := range js {
		if js[i] != o[i] {
			return false
		}
	}
	return true
}

func (js Junctions) String() string {
	parts := make([]string, len(js))
	for i, j := range js {
		parts[i] = j.String()
	}
	return strings.Join(parts, "/")
}
