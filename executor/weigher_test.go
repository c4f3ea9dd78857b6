// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"testing"

	"github.com/33cn/paraxcm/types"
	"github.com/33cn/paraxcm/xcm"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedWeightBounds(t *testing.T) {
	w := NewFixedWeightBounds(&types.Executor{UnitWeightRefTime: 10, UnitWeightProofSize: 2, MaxInstructions: 5})

	got, err := w.Weight(xcm.Xcm{xcm.ClearOrigin{}, xcm.Noop{}})
	require.NoError(t, err)
	assert.Equal(t, types.NewWeight(20, 4), got)

	transact := xcm.Transact{RequireWeightAtMost: types.NewWeight(1000, 100)}
	assert.Equal(t, types.NewWeight(1010, 102), w.InstrWeight(transact))

	// 嵌套程序计入估算
	got, err = w.Weight(xcm.Xcm{xcm.SetAppendix{Xcm: xcm.Xcm{transact}}, xcm.Noop{}})
	require.NoError(t, err)
	assert.Equal(t, types.NewWeight(1030, 106), got)

	_, err = w.Weight(xcm.Xcm{xcm.Noop{}, xcm.Noop{}, xcm.Noop{}, xcm.Noop{}, xcm.Noop{}, xcm.Noop{}})
	assert.Equal(t, types.ErrExceedsMaxInstructions, errors.Cause(err))

	nested := xcm.Xcm{xcm.SetErrorHandler{Xcm: xcm.Xcm{xcm.Noop{}, xcm.Noop{}, xcm.Noop{}}}, xcm.Noop{}, xcm.Noop{}}
	_, err = w.Weight(nested)
	assert.Equal(t, types.ErrExceedsMaxInstructions, errors.Cause(err))

	got, err = w.Weight(nil)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestFixedRateOfFungible(t *testing.T) {
	// 1 unit per ref time unit, 1 unit per MB of proof
	trader := NewFixedRateOfFungible(dot, int64(types.WeightRefTimePerSecond), 1)()

	payment := xcm.NewAssets(xcm.NewAsset(dot, 100), xcm.NewAsset(vdot, 5))
	change, err := trader.BuyWeight(types.NewWeight(30, types.WeightProofSizePerMB*2), payment)
	require.NoError(t, err)
	assert.True(t, change.Equal(xcm.NewAssets(xcm.NewAsset(dot, 68), xcm.NewAsset(vdot, 5))))

	_, err = trader.BuyWeight(types.NewWeight(1000, 0), xcm.NewAssets(xcm.NewAsset(dot, 999)))
	assert.Equal(t, types.ErrTooExpensive, errors.Cause(err))
	_, err = trader.BuyWeight(types.NewWeight(10, 0), xcm.NewAssets(xcm.NewAsset(vdot, 999)))
	assert.Equal(t, types.ErrTooExpensive, errors.Cause(err))

	refund, ok := trader.RefundWeight(types.NewWeight(10, 0))
	require.True(t, ok)
	assert.Equal(t, xcm.NewAsset(dot, 10), refund)

	// never refunds more than was bought
	refund, ok = trader.RefundWeight(types.NewWeight(1000, types.WeightProofSizePerMB*10))
	require.True(t, ok)
	assert.Equal(t, xcm.NewAsset(dot, 22), refund)
	_, ok = trader.RefundWeight(types.NewWeight(1, 1))
	assert.False(t, ok)
}

func TestFreeTrader(t *testing.T) {
	trader := NewFixedRateOfFungible(dot, 0, 0)()
	payment := xcm.NewAssets(xcm.NewAsset(vdot, 1))
	change, err := trader.BuyWeight(types.NewWeight(1e6, 1e6), payment)
	require.NoError(t, err)
	assert.True(t, change.Equal(payment))
}
