// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"math/big"

	"github.com/33cn/paraxcm/types"
	"github.com/33cn/paraxcm/xcm"
	"github.com/pkg/errors"
)

// Trader sells weight for assets. One trader lives for one execution.
type Trader interface {
	// BuyWeight pays for weight out of payment and returns the change.
	BuyWeight(weight types.Weight, payment xcm.Assets) (xcm.Assets, error)
	// RefundWeight gives back the price of up to weight already bought.
	RefundWeight(weight types.Weight) (xcm.Asset, bool)
}

// FixedRateOfFungible prices weight in one fungible asset at a fixed rate.
type FixedRateOfFungible struct {
	ID             xcm.AssetID
	UnitsPerSecond int64
	UnitsPerMB     int64

	weight types.Weight
	paid   int64
}

// NewFixedRateOfFungible returns a trader factory for Config.Trader.
func NewFixedRateOfFungible(id xcm.AssetID, unitsPerSecond, unitsPerMB int64) func() Trader {
	return func() Trader {
		return &FixedRateOfFungible{ID: id, UnitsPerSecond: unitsPerSecond, UnitsPerMB: unitsPerMB}
	}
}

func scale(units int64, n, per uint64) int64 {
	if units <= 0 || n == 0 {
		return 0
	}
	v := new(big.Int).Mul(big.NewInt(units), new(big.Int).SetUint64(n))
	v.Quo(v, new(big.Int).SetUint64(per))
	if !v.IsInt64() {
		return types.MaxCoin
	}
	return v.Int64()
}

func (t *FixedRateOfFungible) price(w types.Weight) int64 {
	return scale(t.UnitsPerSecond, w.RefTime, types.WeightRefTimePerSecond) +
		scale(t.UnitsPerMB, w.ProofSize, types.WeightProofSizePerMB)
}

// BuyWeight implements Trader.
func (t *FixedRateOfFungible) BuyWeight(weight types.Weight, payment xcm.Assets) (xcm.Assets, error) {
	amount := t.price(weight)
	if amount == 0 {
		return payment, nil
	}
	fee := xcm.NewAsset(t.ID, amount)
	var change xcm.Assets
	paid := false
	for _, a := range payment {
		if !paid && a.Contains(fee) {
			paid = true
			a.Fun.Amount -= amount
		}
		change = change.Push(a)
	}
	if !paid {
		return nil, errors.Wrapf(types.ErrTooExpensive, "need %s", fee)
	}
	t.weight = t.weight.Add(weight)
	t.paid += amount
	return change, nil
}

// RefundWeight implements Trader.
func (t *FixedRateOfFungible) RefundWeight(weight types.Weight) (xcm.Asset, bool) {
	weight = weight.Min(t.weight)
	amount := t.price(weight)
	if amount > t.paid {
		amount = t.paid
	}
	t.weight = t.weight.Sub(weight)
	t.paid -= amount
	if amount <= 0 {
		return xcm.Asset{}, false
	}
	return xcm.NewAsset(t.ID, amount), true
}
