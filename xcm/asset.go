// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xcm

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/33cn/paraxcm/common"
)

// AssetIDKind tells Concrete from Abstract asset ids.
type AssetIDKind uint8

// asset id kinds
const (
	ConcreteKind AssetIDKind = iota
	AbstractKind
)

// AssetID identifies an asset class: Concrete anchors it at a Location,
// Abstract names it with an opaque 32 byte key.
type AssetID struct {
	Kind     AssetIDKind
	Location Location
	Abstract [32]byte
}

// Concrete builds an asset id anchored at l.
func Concrete(l Location) AssetID {
	return AssetID{Kind: ConcreteKind, Location: l}
}

// Abstract builds an asset id from an opaque key of at most 32 bytes.
func Abstract(key []byte) AssetID {
	id := AssetID{Kind: AbstractKind}
	copy(id.Abstract[:], key)
	return id
}

// Equal compares two asset ids.
func (id AssetID) Equal(o AssetID) bool {
	if id.Kind != o.Kind {
		return false
	}
	if id.Kind == ConcreteKind {
		return id.Location.Equal(o.Location)
	}
	return id.Abstract == o.Abstract
}

// Key is a map key unique per asset id.
func (id AssetID) Key() string {
	e := &encoder{}
	e.assetID(id)
	return string(e.buf)
}

// Reanchored rewrites a concrete id for target.
func (id AssetID) Reanchored(target Location, context Junctions) (AssetID, error) {
	if id.Kind != ConcreteKind {
		return id, nil
	}
	l, err := id.Location.Reanchored(target, context)
	if err != nil {
		return id, err
	}
	return Concrete(l), nil
}

func (id AssetID) String() string {
	if id.Kind == ConcreteKind {
		return "Concrete(" + id.Location.String() + ")"
	}
	return "Abstract(" + common.ToHex(id.Abstract[:]) + ")"
}

// Fungibility is either a fungible amount or one non-fungible instance.
type Fungibility struct {
	NonFungible bool
	Amount      int64
	Instance    uint64
}

// Fungible builds a fungible quantity.
func Fungible(amount int64) Fungibility { return Fungibility{Amount: amount} }

// NonFungible builds a non-fungible instance marker.
func NonFungible(instance uint64) Fungibility {
	return Fungibility{NonFungible: true, Instance: instance}
}

func (f Fungibility) String() string {
	if f.NonFungible {
		return fmt.Sprintf("NonFungible(%d)", f.Instance)
	}
	return fmt.Sprintf("Fungible(%d)", f.Amount)
}

// Asset is an amount or instance of an asset class.
type Asset struct {
	ID  AssetID
	Fun Fungibility
}

// NewAsset builds a fungible asset.
func NewAsset(id AssetID, amount int64) Asset {
	return Asset{ID: id, Fun: Fungible(amount)}
}

// IsFungible reports whether a is a fungible quantity of id (any id when
// id is nil).
func (a Asset) IsFungible(id *AssetID) bool {
	return !a.Fun.NonFungible && (id == nil || a.ID.Equal(*id))
}

// Contains reports whether a covers o: same class and at least as much.
func (a Asset) Contains(o Asset) bool {
	if !a.ID.Equal(o.ID) || a.Fun.NonFungible != o.Fun.NonFungible {
		return false
	}
	if a.Fun.NonFungible {
		return a.Fun.Instance == o.Fun.Instance
	}
	return a.Fun.Amount >= o.Fun.Amount
}

// Reanchored rewrites a's id for target.
func (a Asset) Reanchored(target Location, context Junctions) (Asset, error) {
	id, err := a.ID.Reanchored(target, context)
	if err != nil {
		return a, err
	}
	return Asset{ID: id, Fun: a.Fun}, nil
}

func (a Asset) String() string {
	return a.ID.String() + ":" + a.Fun.String()
}

func compareAsset(a, b Asset) int {
	if c := bytes.Compare([]byte(a.ID.Key()), []byte(b.ID.Key())); c != 0 {
		return c
	}
	switch {
	case a.Fun.NonFungible != b.Fun.NonFungible:
		if !a.Fun.NonFungible {
			return -1
		}
		return 1
	case a.Fun.NonFungible && a.Fun.Instance != b.Fun.Instance:
		if a.Fun.Instance < b.Fun.Instance {
			return -1
		}
		return 1
	}
	return 0
}

// Assets is a list of assets. Lists built with NewAssets are sorted,
// fungibles of one class are merged and zero amounts dropped.
type Assets []Asset

// NewAssets builds a normalized list.
func NewAssets(list ...Asset) Assets {
	var out Assets
	for _, a := range list {
		out = out.Push(a)
	}
	return out
}

// Push adds a to a normalized list and returns the new list.
func (as Assets) Push(a Asset) Assets {
	if !a.Fun.NonFungible && a.Fun.Amount <= 0 {
		return as
	}
	i := sort.Search(len(as), func(i int) bool { return compareAsset(as[i], a) >= 0 })
	if i < len(as) && compareAsset(as[i], a) == 0 {
		if !a.Fun.NonFungible {
			out := append(Assets(nil), as...)
			out[i].Fun.Amount += a.Fun.Amount
			return out
		}
		return as
	}
	out := make(Assets, 0, len(as)+1)
	out = append(out, as[:i]...)
	out = append(out, a)
	return append(out, as[i:]...)
}

// Equal compares two lists element by element.
func (as Assets) Equal(o Assets) bool {
	if len(as) != len(o) {
		return false
	}
	for i := range as {
		if compareAsset(as[i], o[i]) != 0 || as[i].Fun != o[i].Fun {
			return false
		}
	}
	return true
}

// Reanchored rewrites every asset for target.
func (as Assets) Reanchored(target Location, context Junctions) (Assets, error) {
	out := make(Assets, 0, len(as))
	for _, a := range as {
		r, err := a.Reanchored(target, context)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return NewAssets(out...), nil
}

// WildKind selects the form of a wildcard filter.
type WildKind uint8

// wildcard kinds
const (
	WildAll WildKind = iota
	WildAllOf
	WildAllCounted
	WildAllOfCounted
)

// WildAsset matches assets in holding without naming amounts.
type WildAsset struct {
	Kind        WildKind
	ID          AssetID
	NonFungible bool
	Count       uint32
}

// AssetFilter selects assets from holding: a definite list or a wildcard.
type AssetFilter struct {
	Wild     *WildAsset
	Definite Assets
}

// Definite filters exactly the given assets.
func Definite(as Assets) AssetFilter { return AssetFilter{Definite: as} }

// All matches everything in holding.
func All() AssetFilter { return AssetFilter{Wild: &WildAsset{Kind: WildAll}} }

// AllCounted matches at most n distinct assets.
func AllCounted(n uint32) AssetFilter {
	return AssetFilter{Wild: &WildAsset{Kind: WildAllCounted, Count: n}}
}

// AllOf matches every asset of one class.
func AllOf(id AssetID, nonFungible bool) AssetFilter {
	return AssetFilter{Wild: &WildAsset{Kind: WildAllOf, ID: id, NonFungible: nonFungible}}
}

// AllOfCounted matches at most n assets of one class.
func AllOfCounted(id AssetID, nonFungible bool, n uint32) AssetFilter {
	return AssetFilter{Wild: &WildAsset{Kind: WildAllOfCounted, ID: id, NonFungible: nonFungible, Count: n}}
}

// IsWild reports whether f is a wildcard.
func (f AssetFilter) IsWild() bool { return f.Wild != nil }

// Limit is the number of distinct assets f can select.
func (f AssetFilter) Limit() uint32 {
	if f.Wild == nil {
		return uint32(len(f.Definite))
	}
	switch f.Wild.Kind {
	case WildAllCounted, WildAllOfCounted:
		return f.Wild.Count
	}
	return ^uint32(0)
}

// Reanchored rewrites f for target.
func (f AssetFilter) Reanchored(target Location, context Junctions) (AssetFilter, error) {
	if f.Wild == nil {
		as, err := f.Definite.Reanchored(target, context)
		if err != nil {
			return f, err
		}
		return Definite(as), nil
	}
	w := *f.Wild
	if w.Kind == WildAllOf || w.Kind == WildAllOfCounted {
		id, err := w.ID.Reanchored(target, context)
		if err != nil {
			return f, err
		}
		w.ID = id
	}
	return AssetFilter{Wild: &w}, nil
}

func (f AssetFilter) String() string {
	if f.Wild == nil {
		return fmt.Sprintf("Definite(%v)", []Asset(f.Definite))
	}
	switch f.Wild.Kind {
	case WildAllOf:
		return "AllOf(" + f.Wild.ID.String() + ")"
	case WildAllCounted:
		return fmt.Sprintf("AllCounted(%d)", f.Wild.Count)
	case WildAllOfCounted:
		return fmt.Sprintf("AllOfCounted(%s, %d)", f.Wild.ID, f.Wild.Count)
	}
	return "All"
}
