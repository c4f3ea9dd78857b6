// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"math"
	"testing"

	"github.com/33cn/paraxcm/types"
	"github.com/33cn/paraxcm/xcm"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	dot  = xcm.Concrete(xcm.Here())
	vdot = xcm.Concrete(xcm.NewLocation(0, xcm.PalletInstance{Index: 10}, xcm.GeneralIndex{Index: 1}))
	nft  = xcm.Concrete(xcm.NewLocation(0, xcm.PalletInstance{Index: 50}))
)

func TestHoldingSubsume(t *testing.T) {
	h := NewHolding()
	require.True(t, h.IsEmpty())
	require.NoError(t, h.Subsume(xcm.NewAsset(dot, 10)))
	require.NoError(t, h.Subsume(xcm.NewAsset(dot, 5)))
	require.NoError(t, h.Subsume(xcm.NewAsset(vdot, 0)))
	require.NoError(t, h.Subsume(xcm.Asset{ID: nft, Fun: xcm.NonFungible(3)}))
	require.NoError(t, h.Subsume(xcm.Asset{ID: nft, Fun: xcm.NonFungible(3)}))
	assert.Equal(t, 2, h.Len())
	assert.True(t, h.Contains(xcm.NewAsset(dot, 15)))
	assert.False(t, h.Contains(xcm.NewAsset(dot, 16)))

	err := h.Subsume(xcm.NewAsset(dot, math.MaxInt64))
	assert.Equal(t, types.ErrHoldingWouldOverflow, errors.Cause(err))
	assert.True(t, h.Contains(xcm.NewAsset(dot, 15)))
}

func TestHoldingTryTakeDefinite(t *testing.T) {
	h := NewHolding()
	require.NoError(t, h.SubsumeAssets(xcm.NewAssets(xcm.NewAsset(dot, 100), xcm.NewAsset(vdot, 7))))

	_, err := h.TryTake(xcm.Definite(xcm.NewAssets(xcm.NewAsset(dot, 50), xcm.NewAsset(vdot, 8))))
	assert.Equal(t, types.ErrNotHoldingFees, errors.Cause(err))
	assert.True(t, h.Assets().Equal(xcm.NewAssets(xcm.NewAsset(dot, 100), xcm.NewAsset(vdot, 7))))

	// 重复项先合并
	got, err := h.TryTake(xcm.Definite(xcm.Assets{xcm.NewAsset(dot, 30), xcm.NewAsset(dot, 30)}))
	require.NoError(t, err)
	assert.True(t, got.Equal(xcm.NewAssets(xcm.NewAsset(dot, 60))))
	assert.True(t, h.Contains(xcm.NewAsset(dot, 40)))
	assert.False(t, h.Contains(xcm.NewAsset(dot, 41)))

	_, err = h.TryTake(xcm.Definite(xcm.NewAssets(xcm.NewAsset(dot, 41))))
	assert.Error(t, err)
}

func TestHoldingSaturatingTake(t *testing.T) {
	h := NewHolding()
	require.NoError(t, h.SubsumeAssets(xcm.NewAssets(
		xcm.NewAsset(dot, 100),
		xcm.NewAsset(vdot, 7),
		xcm.Asset{ID: nft, Fun: xcm.NonFungible(1)},
		xcm.Asset{ID: nft, Fun: xcm.NonFungible(2)},
	)))

	got := h.SaturatingTake(xcm.Definite(xcm.NewAssets(xcm.NewAsset(vdot, 100))))
	assert.True(t, got.Equal(xcm.NewAssets(xcm.NewAsset(vdot, 7))))

	got = h.SaturatingTake(xcm.AllOf(nft, true))
	assert.Len(t, got, 2)
	assert.Equal(t, 1, h.Len())

	got = h.SaturatingTake(xcm.AllOf(vdot, false))
	assert.Empty(t, got)

	got = h.SaturatingTake(xcm.AllCounted(0))
	assert.Empty(t, got)
	got = h.SaturatingTake(xcm.All())
	assert.True(t, got.Equal(xcm.NewAssets(xcm.NewAsset(dot, 100))))
	assert.True(t, h.IsEmpty())

	got, err := h.TryTake(xcm.All())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHoldingAllOfCounted(t *testing.T) {
	h := NewHolding()
	for i := uint64(1); i <= 3; i++ {
		require.NoError(t, h.Subsume(xcm.Asset{ID: nft, Fun: xcm.NonFungible(i)}))
	}
	got := h.SaturatingTake(xcm.AllOfCounted(nft, true, 2))
	assert.Len(t, got, 2)
	assert.Equal(t, 1, h.Len())
	assert.Len(t, h.Clear(), 1)
	assert.True(t, h.IsEmpty())
}
