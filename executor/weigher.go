// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"github.com/33cn/paraxcm/types"
	"github.com/33cn/paraxcm/xcm"
	"github.com/pkg/errors"
)

// Weigher prices programs and instructions.
type Weigher interface {
	// Weight estimates a whole program, nested handlers included.
	Weight(msg xcm.Xcm) (types.Weight, error)
	// InstrWeight is what one instruction is charged before it runs.
	InstrWeight(in xcm.Instruction) types.Weight
}

// FixedWeightBounds charges UnitWeight per instruction, plus the declared
// weight of Transact calls.
type FixedWeightBounds struct {
	UnitWeight      types.Weight
	MaxInstructions uint32
}

// NewFixedWeightBounds builds the weigher from executor config.
func NewFixedWeightBounds(cfg *types.Executor) *FixedWeightBounds {
	return &FixedWeightBounds{
		UnitWeight:      types.NewWeight(cfg.UnitWeightRefTime, cfg.UnitWeightProofSize),
		MaxInstructions: cfg.MaxInstructions,
	}
}

// Weight implements Weigher.
func (w *FixedWeightBounds) Weight(msg xcm.Xcm) (types.Weight, error) {
	budget := w.MaxInstructions
	return w.weightWithLimit(msg, &budget)
}

func (w *FixedWeightBounds) weightWithLimit(msg xcm.Xcm, budget *uint32) (types.Weight, error) {
	total := types.ZeroWeight
	for _, in := range msg {
		if *budget == 0 {
			return total, errors.Wrapf(types.ErrExceedsMaxInstructions, "max %d", w.MaxInstructions)
		}
		*budget--
		total = total.Add(w.InstrWeight(in))
		var nested xcm.Xcm
		switch v := in.(type) {
		case xcm.SetErrorHandler:
			nested = v.Xcm
		case xcm.SetAppendix:
			nested = v.Xcm
		default:
			continue
		}
		nw, err := w.weightWithLimit(nested, budget)
		if err != nil {
			return total, err
		}
		total = total.Add(nw)
	}
	return total, nil
}

// InstrWeight implements Weigher.
func (w *FixedWeightBounds) InstrWeight(in xcm.Instruction) types.Weight {
	if t, ok := in.(xcm.Transact); ok {
		return w.UnitWeight.Add(t.RequireWeightAtMost)
	}
	return w.UnitWeight
}
