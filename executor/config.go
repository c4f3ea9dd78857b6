// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package executor interprets xcm programs against the ledgers of one chain.
package executor

import (
	"github.com/33cn/paraxcm/types"
	"github.com/33cn/paraxcm/xcm"
	log "github.com/inconshreveable/log15"
)

var elog = log.New("module", "executor")

// AccountConverter derives the local account of a location.
type AccountConverter interface {
	Convert(l xcm.Location) (types.AccountID, error)
}

// ReserveFilter reports whether origin is trusted as the reserve of asset.
type ReserveFilter func(asset xcm.Asset, origin xcm.Location) bool

// Aliaser reports whether origin may act as target.
type Aliaser func(origin, target xcm.Location) bool

// Config wires an executor to one chain.
type Config struct {
	// UniversalLocation is the interior of this chain below the global
	// consensus root, e.g. [Parachain(1)] for a parachain, empty for the relay.
	UniversalLocation xcm.Junctions

	Barrier           Barrier
	Weigher           Weigher
	Trader            func() Trader
	AssetTransactor   TransactAsset
	OriginConverter   OriginConverter
	LocationToAccount AccountConverter
	IsReserve         ReserveFilter
	Aliasers          []Aliaser
	Dispatcher        Dispatcher
	Router            Router
	Events            types.EventSink

	MaxAssetsIntoHolding uint32
}

func (c *Config) deposit(name string, data interface{}) {
	if c.Events == nil {
		return
	}
	c.Events.DepositEvent(types.Event{Pallet: PalletName, Name: name, Data: data})
}

func (c *Config) isReserve(a xcm.Asset, origin xcm.Location) bool {
	return c.IsReserve != nil && c.IsReserve(a, origin)
}

func (c *Config) canAlias(origin, target xcm.Location) bool {
	for _, a := range c.Aliasers {
		if a(origin, target) {
			return true
		}
	}
	return false
}

// NativeAsset trusts origin as the reserve of the assets anchored at it.
func NativeAsset() ReserveFilter {
	return func(a xcm.Asset, origin xcm.Location) bool {
		return a.ID.Kind == xcm.ConcreteKind && a.ID.Location.Equal(origin)
	}
}

// ReserveFrom trusts reserve for the given asset classes.
func ReserveFrom(reserve xcm.Location, ids ...xcm.AssetID) ReserveFilter {
	return func(a xcm.Asset, origin xcm.Location) bool {
		if !origin.Equal(reserve) {
			return false
		}
		for _, id := range ids {
			if a.ID.Equal(id) {
				return true
			}
		}
		return false
	}
}

// ReserveFilters accepts when any filter does.
func ReserveFilters(filters ...ReserveFilter) ReserveFilter {
	return func(a xcm.Asset, origin xcm.Location) bool {
		for _, f := range filters {
			if f(a, origin) {
				return true
			}
		}
		return false
	}
}

// AliasForeignAccountID32 lets prefix/AccountID32(x) act as the local
// AccountID32(x).
func AliasForeignAccountID32(prefix xcm.Location) Aliaser {
	return func(origin, target xcm.Location) bool {
		head, last, ok := origin.SplitLast()
		if !ok || !head.Equal(prefix) {
			return false
		}
		from, ok := last.(xcm.AccountID32)
		if !ok || target.Parents != 0 || len(target.Interior) != 1 {
			return false
		}
		to, ok := target.Interior[0].(xcm.AccountID32)
		return ok && to.ID == from.ID
	}
}

// AliasChildLocation lets a location act as any of its descendants.
func AliasChildLocation() Aliaser {
	return func(origin, target xcm.Location) bool {
		return target.StartsWith(origin) && !target.Equal(origin)
	}
}
