// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"github.com/33cn/paraxcm/types"
	"github.com/33cn/paraxcm/xcm"
	"github.com/pkg/errors"
)

// Properties is the execution context a barrier may consume from.
type Properties struct {
	WeightCredit types.Weight
}

// Barrier decides once, before anything runs, whether a program executes.
type Barrier interface {
	ShouldExecute(origin xcm.Location, msg xcm.Xcm, maxWeight types.Weight, props *Properties) error
}

// BarrierFunc adapts a function to Barrier.
type BarrierFunc func(origin xcm.Location, msg xcm.Xcm, maxWeight types.Weight, props *Properties) error

// ShouldExecute implements Barrier.
func (f BarrierFunc) ShouldExecute(origin xcm.Location, msg xcm.Xcm, maxWeight types.Weight, props *Properties) error {
	return f(origin, msg, maxWeight, props)
}

// LocationFilter selects origins.
type LocationFilter func(l xcm.Location) bool

// Everything accepts every location.
func Everything() LocationFilter { return func(xcm.Location) bool { return true } }

// Equals accepts exactly the given locations.
func Equals(list ...xcm.Location) LocationFilter {
	return func(l xcm.Location) bool {
		for _, o := range list {
			if l.Equal(o) {
				return true
			}
		}
		return false
	}
}

// ParentOrSiblings accepts the parent and any sibling parachain.
func ParentOrSiblings() LocationFilter {
	return func(l xcm.Location) bool {
		if l.Equal(xcm.Parent()) {
			return true
		}
		_, ok := l.ParachainID()
		return ok && l.Parents == 1
	}
}

func rejected(format string, args ...interface{}) error {
	return errors.Wrapf(types.ErrBarrierRejected, format, args...)
}

// TakeWeightCredit passes programs the caller has already paid for, taking
// their weight from the credit.
func TakeWeightCredit() Barrier {
	return BarrierFunc(func(_ xcm.Location, _ xcm.Xcm, maxWeight types.Weight, props *Properties) error {
		if !maxWeight.AllLTE(props.WeightCredit) {
			return rejected("weight %s above credit %s", maxWeight, props.WeightCredit)
		}
		props.WeightCredit = props.WeightCredit.Sub(maxWeight)
		return nil
	})
}

// AllowUnpaidExecutionFrom passes every program from trusted origins.
func AllowUnpaidExecutionFrom(filter LocationFilter) Barrier {
	return BarrierFunc(func(origin xcm.Location, _ xcm.Xcm, _ types.Weight, _ *Properties) error {
		if !filter(origin) {
			return rejected("origin %s not trusted", origin)
		}
		return nil
	})
}

// AllowTopLevelPaidExecutionFrom passes programs that put assets in holding
// and then buy enough weight before doing anything else.
func AllowTopLevelPaidExecutionFrom(filter LocationFilter) Barrier {
	return BarrierFunc(func(origin xcm.Location, msg xcm.Xcm, maxWeight types.Weight, _ *Properties) error {
		if !filter(origin) {
			return rejected("origin %s not allowed", origin)
		}
		i := 0
		if i >= len(msg) {
			return rejected("empty program")
		}
		switch msg[i].(type) {
		case xcm.WithdrawAsset, xcm.ReserveAssetDeposited:
			i++
		default:
			return rejected("first instruction %s", msg[i].Name())
		}
		if i < len(msg) {
			if _, ok := msg[i].(xcm.ClearOrigin); ok {
				i++
			}
		}
		if i >= len(msg) {
			return rejected("no BuyExecution")
		}
		buy, ok := msg[i].(xcm.BuyExecution)
		if !ok {
			return rejected("expected BuyExecution got %s", msg[i].Name())
		}
		if !buy.WeightLimit.IsUnlimited() && !maxWeight.AllLTE(*buy.WeightLimit.Limit) {
			return rejected("bought %s below %s", buy.WeightLimit, maxWeight)
		}
		return nil
	})
}

// AllowExplicitUnpaidExecutionFrom passes programs from trusted origins
// that open with UnpaidExecution covering their weight.
func AllowExplicitUnpaidExecutionFrom(filter LocationFilter) Barrier {
	return BarrierFunc(func(origin xcm.Location, msg xcm.Xcm, maxWeight types.Weight, _ *Properties) error {
		if !filter(origin) {
			return rejected("origin %s not allowed", origin)
		}
		if len(msg) == 0 {
			return rejected("empty program")
		}
		unpaid, ok := msg[0].(xcm.UnpaidExecution)
		if !ok {
			return rejected("expected UnpaidExecution got %s", msg[0].Name())
		}
		if !unpaid.WeightLimit.IsUnlimited() && !maxWeight.AllLTE(*unpaid.WeightLimit.Limit) {
			return rejected("unpaid limit %s below %s", unpaid.WeightLimit, maxWeight)
		}
		return nil
	})
}

// Barriers passes when any of its members does.
type Barriers []Barrier

// ShouldExecute implements Barrier.
func (bs Barriers) ShouldExecute(origin xcm.Location, msg xcm.Xcm, maxWeight types.Weight, props *Properties) error {
	var last error = rejected("no barrier")
	for _, b := range bs {
		err := b.ShouldExecute(origin, msg, maxWeight, props)
		if err == nil {
			return nil
		}
		last = err
	}
	return last
}
