// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package account

import (
	"testing"

	"github.com/33cn/paraxcm/common/db"
	"github.com/33cn/paraxcm/types"
	"github.com/33cn/paraxcm/xcm"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"
)

var localAssetLoc = xcm.NewLocation(0, xcm.PalletInstance{Index: 10}, xcm.GeneralIndex{Index: 1})

type AssetsTestSuite struct {
	suite.Suite
	assets *AssetsDB
}

func (s *AssetsTestSuite) SetupTest() {
	stroedb, err := db.NewGoMemDB("gomemdb", "test", 128)
	s.Require().NoError(err)
	s.assets = NewAssetsDB(stroedb)

	_, err = s.assets.ForceCreate(1, localAssetLoc, types.Vane, 1)
	s.Require().NoError(err)
	_, err = s.assets.ForceCreate(0, xcm.Parent(), types.Vane, 1)
	s.Require().NoError(err)
	_, err = s.assets.GenesisInit(1, types.Vane, 100000)
	s.Require().NoError(err)
}

func TestAssets(t *testing.T) {
	suite.Run(t, new(AssetsTestSuite))
}

func (s *AssetsTestSuite) TestCreateDuplicate() {
	_, err := s.assets.ForceCreate(1, xcm.Here(), types.Vane, 1)
	s.Equal(types.ErrAssetExists, errors.Cause(err))
	_, err = s.assets.ForceCreate(2, localAssetLoc, types.Vane, 1)
	s.Equal(types.ErrAssetExists, errors.Cause(err))
	_, err = s.assets.ForceCreate(2, xcm.Here(), types.Vane, 0)
	s.Equal(types.ErrAmount, err)
}

func (s *AssetsTestSuite) TestLookup() {
	id, ok := s.assets.AssetIDOf(localAssetLoc)
	s.True(ok)
	s.Equal(uint32(1), id)
	id, ok = s.assets.AssetIDOf(xcm.Parent())
	s.True(ok)
	s.Equal(uint32(0), id)
	_, ok = s.assets.AssetIDOf(xcm.SiblingLocation(3))
	s.False(ok)

	d, err := s.assets.Details(1)
	s.Require().NoError(err)
	s.Equal(types.Vane, d.Owner)
	s.True(d.Location.Equal(localAssetLoc))

	_, err = s.assets.Details(9)
	s.Equal(types.ErrUnknownAsset, errors.Cause(err))

	classes, err := s.assets.Classes()
	s.Require().NoError(err)
	s.Len(classes, 2)
	s.Equal(uint32(0), classes[0].ID)
}

func (s *AssetsTestSuite) TestMetadata() {
	m, err := s.assets.Metadata(1)
	s.Require().NoError(err)
	s.Equal("", m.Symbol)

	_, err = s.assets.SetMetadata(1, "vDOT", "vDOT", 10)
	s.Require().NoError(err)
	m, err = s.assets.Metadata(1)
	s.Require().NoError(err)
	s.Equal(AssetMetadata{Name: "vDOT", Symbol: "vDOT", Decimals: 10}, *m)

	_, err = s.assets.SetMetadata(7, "x", "x", 1)
	s.Equal(types.ErrUnknownAsset, errors.Cause(err))
}

func (s *AssetsTestSuite) TestLocalTransferKeepsIssuance() {
	before, err := s.assets.TotalIssuance(1)
	s.Require().NoError(err)

	_, err = s.assets.Transfer(1, types.Vane, types.Alice, 1000)
	s.Require().NoError(err)
	s.Equal(int64(99000), s.assets.Balance(1, types.Vane))
	s.Equal(int64(1000), s.assets.Balance(1, types.Alice))

	after, err := s.assets.TotalIssuance(1)
	s.Require().NoError(err)
	s.Equal(before, after)
	supply, err := s.assets.TotalSupply(1)
	s.Require().NoError(err)
	s.Equal(after, supply)

	_, err = s.assets.Transfer(1, types.Alice, types.Bob, 1001)
	s.Equal(types.ErrNoBalance, errors.Cause(err))
	_, err = s.assets.Transfer(1, types.Alice, types.Alice, 1)
	s.Equal(types.ErrSendSameToRecv, err)
}

func (s *AssetsTestSuite) TestMintBurn() {
	_, err := s.assets.Mint(0, types.Bob, 500)
	s.Require().NoError(err)
	issued, _ := s.assets.TotalIssuance(0)
	s.Equal(int64(500), issued)

	_, err = s.assets.Burn(0, types.Bob, 200)
	s.Require().NoError(err)
	issued, _ = s.assets.TotalIssuance(0)
	s.Equal(int64(300), issued)
	supply, _ := s.assets.TotalSupply(0)
	s.Equal(int64(300), supply)

	_, err = s.assets.Burn(0, types.Bob, 301)
	s.Equal(types.ErrNoBalance, errors.Cause(err))
	_, err = s.assets.Mint(5, types.Bob, 1)
	s.Equal(types.ErrUnknownAsset, errors.Cause(err))
}

func (s *AssetsTestSuite) TestMinBalance() {
	_, err := s.assets.ForceCreate(2, xcm.SiblingLocation(2), types.Vane, 10)
	s.Require().NoError(err)
	_, err = s.assets.Mint(2, types.Bob, 5)
	s.Equal(types.ErrBelowMinBalance, errors.Cause(err))
	_, err = s.assets.Mint(2, types.Bob, 20)
	s.Require().NoError(err)
	_, err = s.assets.Transfer(2, types.Bob, types.Alice, 15)
	s.Equal(types.ErrBelowMinBalance, errors.Cause(err))
	_, err = s.assets.Transfer(2, types.Bob, types.Alice, 20)
	s.Require().NoError(err)
}

func (s *AssetsTestSuite) TestCustodyAndDerivative() {
	_, err := s.assets.LockAsset(1, types.Vane, 300)
	s.Require().NoError(err)
	s.Equal(int64(300), s.assets.Balance(1, CheckingAccount))
	_, err = s.assets.ReleaseAsset(1, types.Bob, 100)
	s.Require().NoError(err)
	s.Equal(int64(100), s.assets.Balance(1, types.Bob))

	_, err = s.assets.ParaAssetTransfer(0, types.Alice, 50)
	s.Require().NoError(err)
	_, err = s.assets.ParaAssetWithdraw(0, types.Alice, 50)
	s.Require().NoError(err)
	issued, _ := s.assets.TotalIssuance(0)
	s.Equal(int64(0), issued)
}
