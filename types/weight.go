// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"fmt"
	"math"
)

// Weight is a two dimensional execution cost: time and proof size.
type Weight struct {
	RefTime   uint64
	ProofSize uint64
}

// ZeroWeight is the empty weight.
var ZeroWeight = Weight{}

// MaxWeight is the largest representable weight.
var MaxWeight = Weight{RefTime: math.MaxUint64, ProofSize: math.MaxUint64}

// NewWeight builds a weight from its parts.
func NewWeight(refTime, proofSize uint64) Weight {
	return Weight{RefTime: refTime, ProofSize: proofSize}
}

func saturatingAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}

func saturatingSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}

// Add returns w+o, saturating at MaxWeight.
func (w Weight) Add(o Weight) Weight {
	return Weight{RefTime: saturatingAdd(w.RefTime, o.RefTime), ProofSize: saturatingAdd(w.ProofSize, o.ProofSize)}
}

// Sub returns w-o, saturating at zero.
func (w Weight) Sub(o Weight) Weight {
	return Weight{RefTime: saturatingSub(w.RefTime, o.RefTime), ProofSize: saturatingSub(w.ProofSize, o.ProofSize)}
}

// Mul multiplies both components by n, saturating.
func (w Weight) Mul(n uint64) Weight {
	mul := func(a uint64) uint64 {
		if n != 0 && a > math.MaxUint64/n {
			return math.MaxUint64
		}
		return a * n
	}
	return Weight{RefTime: mul(w.RefTime), ProofSize: mul(w.ProofSize)}
}

// AllLTE reports whether both components of w are <= those of o.
func (w Weight) AllLTE(o Weight) bool {
	return w.RefTime <= o.RefTime && w.ProofSize <= o.ProofSize
}

// AnyGT reports whether any component of w is > that of o.
func (w Weight) AnyGT(o Weight) bool {
	return !w.AllLTE(o)
}

// Min returns the component-wise minimum.
func (w Weight) Min(o Weight) Weight {
	if o.RefTime < w.RefTime {
		w.RefTime = o.RefTime
	}
	if o.ProofSize < w.ProofSize {
		w.ProofSize = o.ProofSize
	}
	return w
}

// IsZero reports whether both components are zero.
func (w Weight) IsZero() bool {
	return w.RefTime == 0 && w.ProofSize == 0
}

func (w Weight) String() string {
	return fmt.Sprintf("Weight(%d, %d)", w.RefTime, w.ProofSize)
}

// WeightLimit bounds the weight bought or spent by a program.
// A nil Limit means unlimited.
type WeightLimit struct {
	Limit *Weight
}

// Unlimited is the WeightLimit without bound.
var Unlimited = WeightLimit{}

// Limited builds a bounded WeightLimit.
func Limited(w Weight) WeightLimit {
	return WeightLimit{Limit: &w}
}

// IsUnlimited reports whether the limit is unbounded.
func (l WeightLimit) IsUnlimited() bool {
	return l.Limit == nil
}

// Or returns the limit or def when unlimited.
func (l WeightLimit) Or(def Weight) Weight {
	if l.Limit == nil {
		return def
	}
	return *l.Limit
}

// Equal compares two limits.
func (l WeightLimit) Equal(o WeightLimit) bool {
	if l.Limit == nil || o.Limit == nil {
		return l.Limit == nil && o.Limit == nil
	}
	return *l.Limit == *o.Limit
}

func (l WeightLimit) String() string {
	if l.Limit == nil {
		return "Unlimited"
	}
	return "Limited(" + l.Limit.String() + ")"
}
