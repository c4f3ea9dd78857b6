// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"math"

	"github.com/33cn/paraxcm/types"
	"github.com/33cn/paraxcm/xcm"
	"github.com/pkg/errors"
)

type nftKey struct {
	class    string
	instance uint64
}

// Holding is the register of assets a program has taken off the ledgers
// and not yet put back. Balances never go negative.
type Holding struct {
	fungible    map[string]xcm.Asset
	nonFungible map[nftKey]xcm.Asset
}

// NewHolding returns an empty register.
func NewHolding() *Holding {
	return &Holding{
		fungible:    make(map[string]xcm.Asset),
		nonFungible: make(map[nftKey]xcm.Asset),
	}
}

// Len is the number of distinct assets held.
func (h *Holding) Len() int {
	return len(h.fungible) + len(h.nonFungible)
}

// IsEmpty reports whether nothing is held.
func (h *Holding) IsEmpty() bool { return h.Len() == 0 }

// Subsume adds a.
func (h *Holding) Subsume(a xcm.Asset) error {
	key := a.ID.Key()
	if a.Fun.NonFungible {
		h.nonFungible[nftKey{key, a.Fun.Instance}] = a
		return nil
	}
	if a.Fun.Amount <= 0 {
		return nil
	}
	cur, ok := h.fungible[key]
	if !ok {
		h.fungible[key] = a
		return nil
	}
	if cur.Fun.Amount > math.MaxInt64-a.Fun.Amount {
		return errors.Wrapf(types.ErrHoldingWouldOverflow, "amount of %s", a.ID)
	}
	cur.Fun.Amount += a.Fun.Amount
	h.fungible[key] = cur
	return nil
}

// SubsumeAssets adds every asset of as.
func (h *Holding) SubsumeAssets(as xcm.Assets) error {
	for _, a := range as {
		if err := h.Subsume(a); err != nil {
			return err
		}
	}
	return nil
}

// Assets lists the register in normalized order.
func (h *Holding) Assets() xcm.Assets {
	list := make([]xcm.Asset, 0, h.Len())
	for _, a := range h.fungible {
		list = append(list, a)
	}
	for _, a := range h.nonFungible {
		list = append(list, a)
	}
	return xcm.NewAssets(list...)
}

// Contains reports whether a can be taken in full.
func (h *Holding) Contains(a xcm.Asset) bool {
	key := a.ID.Key()
	if a.Fun.NonFungible {
		_, ok := h.nonFungible[nftKey{key, a.Fun.Instance}]
		return ok
	}
	cur, ok := h.fungible[key]
	return ok && cur.Fun.Amount >= a.Fun.Amount
}

// TryTake removes exactly the assets of a definite filter, or the matches
// of a wildcard. A definite filter not fully held changes nothing.
func (h *Holding) TryTake(f xcm.AssetFilter) (xcm.Assets, error) {
	if f.IsWild() {
		return h.SaturatingTake(f), nil
	}
	want := xcm.NewAssets(f.Definite...)
	for _, a := range want {
		if !h.Contains(a) {
			return nil, errors.Wrapf(types.ErrNotHoldingFees, "holding lacks %s", a)
		}
	}
	return h.take(want), nil
}

// SaturatingTake removes whatever of f is held.
func (h *Holding) SaturatingTake(f xcm.AssetFilter) xcm.Assets {
	if !f.IsWild() {
		var want xcm.Assets
		for _, a := range xcm.NewAssets(f.Definite...) {
			if a.Fun.NonFungible {
				if h.Contains(a) {
					want = want.Push(a)
				}
				continue
			}
			if cur, ok := h.fungible[a.ID.Key()]; ok {
				if cur.Fun.Amount < a.Fun.Amount {
					a.Fun.Amount = cur.Fun.Amount
				}
				want = want.Push(a)
			}
		}
		return h.take(want)
	}
	w := f.Wild
	limit := f.Limit()
	var want xcm.Assets
	for _, a := range h.Assets() {
		if uint32(len(want)) >= limit {
			break
		}
		switch w.Kind {
		case xcm.WildAllOf, xcm.WildAllOfCounted:
			if !a.ID.Equal(w.ID) || a.Fun.NonFungible != w.NonFungible {
				continue
			}
		}
		want = append(want, a)
	}
	return h.take(want)
}

func (h *Holding) take(as xcm.Assets) xcm.Assets {
	for _, a := range as {
		key := a.ID.Key()
		if a.Fun.NonFungible {
			delete(h.nonFungible, nftKey{key, a.Fun.Instance})
			continue
		}
		cur := h.fungible[key]
		cur.Fun.Amount -= a.Fun.Amount
		if cur.Fun.Amount <= 0 {
			delete(h.fungible, key)
		} else {
			h.fungible[key] = cur
		}
	}
	return as
}

// Clear empties the register and returns what was held.
func (h *Holding) Clear() xcm.Assets {
	all := h.Assets()
	h.fungible = make(map[string]xcm.Asset)
	h.nonFungible = make(map[nftKey]xcm.Asset)
	return all
}
