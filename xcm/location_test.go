// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xcm

import (
	"testing"

	"github.com/33cn/paraxcm/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationBasics(t *testing.T) {
	assert.True(t, Here().IsHere())
	assert.False(t, Parent().IsHere())
	assert.True(t, SiblingLocation(2).Equal(NewLocation(1, Parachain{ID: 2})))
	assert.False(t, SiblingLocation(2).Equal(ParachainLocation(2)))

	id, ok := SiblingLocation(7).ParachainID()
	assert.True(t, ok)
	assert.Equal(t, uint32(7), id)
	_, ok = NewLocation(2, Parachain{ID: 7}).ParachainID()
	assert.False(t, ok)
}

func TestPushedDoesNotMutate(t *testing.T) {
	base := NewLocation(1, Parachain{ID: 1})
	l, err := base.Pushed(PalletInstance{Index: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, len(base.Interior))
	assert.Equal(t, "1/para:1/pallet:10", l.String())
	assert.True(t, l.StartsWith(base))
	assert.False(t, base.StartsWith(l))
}

func TestPushedOverflow(t *testing.T) {
	l := Here()
	var err error
	for i := 0; i < MaxJunctions; i++ {
		l, err = l.Pushed(GeneralIndex{Index: uint64(i)})
		require.NoError(t, err)
	}
	_, err = l.Pushed(OnlyChild{})
	assert.Equal(t, types.ErrLocationOverflow, errors.Cause(err))
	_, err = l.PushedFront(OnlyChild{})
	assert.Equal(t, types.ErrLocationOverflow, errors.Cause(err))
}

func TestAppendWith(t *testing.T) {
	base := NewLocation(0, Parachain{ID: 1}, PalletInstance{Index: 3})

	l, err := base.AppendWith(NewLocation(1, GeneralIndex{Index: 9}))
	require.NoError(t, err)
	assert.Equal(t, "0/para:1/index:9", l.String())

	l, err = base.AppendWith(NewLocation(3, Parachain{ID: 2}))
	require.NoError(t, err)
	assert.Equal(t, "1/para:2", l.String())

	l, err = Here().AppendWith(Here())
	require.NoError(t, err)
	assert.True(t, l.IsHere())
}

func TestAbsoluteAndReanchor(t *testing.T) {
	ctx := Junctions{Parachain{ID: 1}}

	abs, err := Parent().Absolute(ctx)
	require.NoError(t, err)
	assert.True(t, abs.IsHere())

	_, err = NewLocation(2).Absolute(ctx)
	assert.Equal(t, types.ErrLocationOverflow, errors.Cause(err))

	// relay token seen from para 1 is Parent; from the relay it is Here
	r, err := Parent().Reanchored(Parent(), ctx)
	require.NoError(t, err)
	assert.True(t, r.IsHere())

	// para 1 local asset seen from sibling 2
	local := NewLocation(0, PalletInstance{Index: 10}, GeneralIndex{Index: 1})
	r, err = local.Reanchored(SiblingLocation(2), ctx)
	require.NoError(t, err)
	assert.Equal(t, "1/para:1/pallet:10/index:1", r.String())

	// relay native token seen from para 1
	r, err = Here().Reanchored(ParachainLocation(1), nil)
	require.NoError(t, err)
	assert.Equal(t, "1", r.String())
}

func TestParseLocation(t *testing.T) {
	cases := []string{"0", "1", "1/para:2", "0/pallet:10/index:1", "0/child", "0/key:0x0102"}
	for _, c := range cases {
		l, err := ParseLocation(c)
		require.NoError(t, err, c)
		assert.Equal(t, c, l.String())
	}

	l, err := ParseLocation("0/acc:alice@kusama")
	require.NoError(t, err)
	j, _ := l.Last()
	assert.Equal(t, AccountID32{Network: Kusama, ID: types.Alice}, j)

	l2, err := ParseLocation(l.String())
	require.NoError(t, err)
	assert.True(t, l.Equal(l2))

	for _, bad := range []string{"x", "0/para:x", "0/foo:1", "0/pallet:300", "0/key20:0x01"} {
		_, err := ParseLocation(bad)
		assert.Error(t, err, bad)
	}
}

func TestAssetsNormalize(t *testing.T) {
	dot := Concrete(Parent())
	local := Concrete(NewLocation(0, PalletInstance{Index: 10}, GeneralIndex{Index: 1}))
	as := NewAssets(NewAsset(local, 5), NewAsset(dot, 10), NewAsset(dot, 15), NewAsset(dot, 0))
	require.Len(t, as, 2)

	total := int64(0)
	for _, a := range as {
		if a.ID.Equal(dot) {
			total = a.Fun.Amount
		}
	}
	assert.Equal(t, int64(25), total)
	assert.True(t, as.Equal(NewAssets(NewAsset(dot, 25), NewAsset(local, 5))))

	nft := Asset{ID: local, Fun: NonFungible(1)}
	as = as.Push(nft).Push(nft)
	assert.Len(t, as, 3)
}
