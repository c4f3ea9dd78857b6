// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simulator

import (
	"testing"

	dbm "github.com/33cn/paraxcm/common/db"
	"github.com/33cn/paraxcm/executor"
	"github.com/33cn/paraxcm/runtime"
	"github.com/33cn/paraxcm/types"
	"github.com/33cn/paraxcm/xcm"
	"github.com/pkg/errors"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	vane   uint32 = 1
	dotID  uint32 = 0
	vdotID uint32 = 1
)

var vdot = xcm.NewLocation(0, xcm.PalletInstance{Index: 10}, xcm.GeneralIndex{Index: 1})

func beneficiary(who types.AccountID) xcm.Location {
	return xcm.AccountLocation(xcm.AnyNetwork, who)
}

func storeCall(who types.AccountID, v uint64) xcm.Instruction {
	return xcm.Transact{
		OriginKind:          xcm.OriginSovereignAccount,
		RequireWeightAtMost: types.NewWeight(1e9, 1<<16),
		Call:                runtime.EncodeCall(&runtime.TestStoring{Account: who, Value: v}),
	}
}

func lastOutcome(t *testing.T, c *runtime.Chain, name string) executor.Outcome {
	evs := c.System.Find(runtime.MsgQueuePallet, name)
	require.NotEmpty(t, evs, name)
	return *evs[len(evs)-1].Data.(*runtime.MessageEvent).Outcome
}

type MockNetSuite struct {
	suite.Suite
	net *MockNet
}

func TestMockNetSuite(t *testing.T) {
	suite.Run(t, new(MockNetSuite))
}

func (s *MockNetSuite) SetupTest() {
	net, err := New(types.DefaultConfig(), "")
	s.Require().NoError(err)
	s.net = net
}

func (s *MockNetSuite) TearDownTest() {
	s.net.Close()
}

func (s *MockNetSuite) relay() *runtime.Chain { return s.net.Relay().Chain() }
func (s *MockNetSuite) para() *runtime.Chain  { return s.net.Para(vane).Chain() }

func (s *MockNetSuite) reserveTransfer(amount int64) {
	s.net.Relay().ExecuteWith(func(c *runtime.Chain) {
		assets := xcm.NewAssets(xcm.NewAsset(xcm.Concrete(xcm.Here()), amount))
		_, err := c.Xcm.ReserveTransferAssets(executor.Signed(types.Alice), xcm.ParachainLocation(vane), beneficiary(types.Alice), assets, 0)
		s.Require().NoError(err)
	})
}

func (s *MockNetSuite) dotIssuance() int64 {
	total, err := s.para().Assets.TotalIssuance(dotID)
	s.Require().NoError(err)
	return total
}

func (s *MockNetSuite) TestReserveTransfer() {
	locked := s.relay().Balances.FreeBalance(ChildAccount(vane))
	issued := s.dotIssuance()

	s.reserveTransfer(100000)
	s.Equal(locked+100000, s.relay().Balances.FreeBalance(ChildAccount(vane)))
	s.Equal(int64(0), s.para().Assets.Balance(dotID, types.Alice))
	s.Equal(1, s.net.Pending())

	s.net.Para(vane).ExecuteWith(nil)
	s.Equal(int64(100000), s.para().Assets.Balance(dotID, types.Alice))
	s.Equal(issued+100000, s.dotIssuance())
	s.True(lastOutcome(s.T(), s.para(), runtime.EventExecutedDownward).IsComplete())
	s.Equal(0, s.net.Pending())
}

func (s *MockNetSuite) TestLocalAssetTransfer() {
	s.net.Para(vane).ExecuteWith(func(c *runtime.Chain) {
		s.Require().NoError(c.Apply(executor.Signed(types.Vane), &runtime.VaneTransfer{Payee: types.Mrisho, Asset: vdot, Amount: 1000}))
	})
	s.Equal(int64(99000), s.para().Assets.Balance(vdotID, types.Vane))
	s.Equal(int64(1000), s.para().Assets.Balance(vdotID, types.Mrisho))
	total, err := s.para().Assets.TotalIssuance(vdotID)
	s.Require().NoError(err)
	s.Equal(int64(100000), total)
	s.Equal(0, s.net.Pending())
}

func (s *MockNetSuite) TestRemoteTransact() {
	s.net.Relay().ExecuteWith(func(c *runtime.Chain) {
		_, err := c.Xcm.Send(executor.Signed(types.Alice), xcm.ParachainLocation(vane), xcm.Xcm{storeCall(types.Alice, 50)})
		s.Require().NoError(err)
	})
	s.Equal(uint64(0), s.para().Store.Get(types.Alice))
	s.net.Para(vane).ExecuteWith(nil)
	s.Equal(uint64(50), s.para().Store.Get(types.Alice))
	s.True(lastOutcome(s.T(), s.para(), runtime.EventExecutedDownward).IsComplete())
	s.Len(s.para().System.Find(executor.PalletName, executor.EventTransacted), 1)

	// malformed call bytes
	s.net.Relay().ExecuteWith(func(c *runtime.Chain) {
		bad := xcm.Transact{OriginKind: xcm.OriginSovereignAccount, RequireWeightAtMost: types.NewWeight(1e9, 1<<16), Call: []byte{9, 0, 1}}
		_, err := c.Xcm.Send(executor.Signed(types.Alice), xcm.ParachainLocation(vane), xcm.Xcm{bad})
		s.Require().NoError(err)
	})
	s.net.Para(vane).ExecuteWith(nil)
	s.Equal(uint64(50), s.para().Store.Get(types.Alice))
	failed := s.para().System.Find(executor.PalletName, executor.EventTransactFailed)
	s.Require().Len(failed, 1)
	s.Equal(types.ErrFailedToDecode, errors.Cause(failed[0].Data.(*executor.TransactFailed).Err))
}

func (s *MockNetSuite) TestReturnPath() {
	s.reserveTransfer(100000)
	s.net.Para(vane).ExecuteWith(nil)
	locked := s.relay().Balances.FreeBalance(ChildAccount(vane))
	issued := s.dotIssuance()
	bob := s.relay().Balances.FreeBalance(types.Bob)

	s.net.Para(vane).ExecuteWith(func(c *runtime.Chain) {
		back := xcm.NewAssets(xcm.NewAsset(xcm.Concrete(xcm.Parent()), 40000))
		_, err := c.Xcm.ReserveWithdrawAssets(executor.Signed(types.Alice), xcm.Parent(), beneficiary(types.Bob), back, 0)
		s.Require().NoError(err)
	})
	s.Equal(issued-40000, s.dotIssuance())
	s.Equal(locked, s.relay().Balances.FreeBalance(ChildAccount(vane)))

	s.net.Relay().ExecuteWith(nil)
	s.True(lastOutcome(s.T(), s.relay(), runtime.EventExecutedUpward).IsComplete())
	s.Equal(locked-40000, s.relay().Balances.FreeBalance(ChildAccount(vane)))
	s.Equal(bob+40000, s.relay().Balances.FreeBalance(types.Bob))
	s.Equal(int64(60000), s.para().Assets.Balance(dotID, types.Alice))
}

func (s *MockNetSuite) TestConservation() {
	base := s.relay().Balances.FreeBalance(ChildAccount(vane)) - s.dotIssuance()
	check := func() {
		s.Equal(base, s.relay().Balances.FreeBalance(ChildAccount(vane))-s.dotIssuance())
	}
	for _, amount := range []int64{30000, 20000} {
		s.reserveTransfer(amount)
		s.net.Para(vane).ExecuteWith(nil)
		check()
	}
	s.net.Para(vane).ExecuteWith(func(c *runtime.Chain) {
		back := xcm.NewAssets(xcm.NewAsset(xcm.Concrete(xcm.Parent()), 25000))
		_, err := c.Xcm.ReserveWithdrawAssets(executor.Signed(types.Alice), xcm.Parent(), beneficiary(types.Alice), back, 0)
		s.Require().NoError(err)
	})
	s.net.Relay().ExecuteWith(nil)
	check()
	s.Equal(int64(25000), s.para().Assets.Balance(dotID, types.Alice))
}

// The relay answers an upward message with a downward one; the answer is
// only handled in the following round.
func (s *MockNetSuite) TestRoundIsolation() {
	s.net.Para(vane).ExecuteWith(func(c *runtime.Chain) {
		msg := xcm.Xcm{
			xcm.WithdrawAsset{Assets: xcm.NewAssets(xcm.NewAsset(xcm.Concrete(xcm.Here()), 1000))},
			xcm.BuyExecution{Fees: xcm.NewAsset(xcm.Concrete(xcm.Here()), 1000), WeightLimit: types.Unlimited},
			xcm.DepositReserveAsset{
				Assets: xcm.All(),
				Dest:   xcm.ParachainLocation(vane),
				Xcm:    xcm.Xcm{xcm.DepositAsset{Assets: xcm.All(), Beneficiary: beneficiary(types.Alice)}},
			},
		}
		_, err := c.Xcm.SendXcm(nil, xcm.Parent(), msg)
		s.Require().NoError(err)
	})
	s.Equal(1, s.net.Pending())

	s.Equal(1, s.net.Round())
	s.True(lastOutcome(s.T(), s.relay(), runtime.EventExecutedUpward).IsComplete())
	s.Equal(int64(0), s.para().Assets.Balance(dotID, types.Alice))
	s.Equal(1, s.net.Pending())

	s.Equal(1, s.net.Round())
	s.Equal(int64(1000), s.para().Assets.Balance(dotID, types.Alice))
	s.Equal(0, s.net.Pending())
	s.Equal(0, s.net.Round())
}

func (s *MockNetSuite) TestOriginNarrowing() {
	s.net.Relay().ExecuteWith(func(c *runtime.Chain) {
		msg := xcm.Xcm{xcm.AliasOrigin{Location: xcm.Parent()}, storeCall(types.Alice, 7)}
		_, err := c.Xcm.Send(executor.Signed(types.Alice), xcm.ParachainLocation(vane), msg)
		s.Require().NoError(err)
	})
	s.net.Para(vane).ExecuteWith(nil)
	out := lastOutcome(s.T(), s.para(), runtime.EventExecutedDownward)
	s.Equal(executor.Incomplete, out.Kind)
	s.Equal(types.ErrNoPermissionAlias, errors.Cause(out.Err))
	s.Equal(uint64(0), s.para().Store.Get(types.Alice))

	// the foreign account may act as the local one
	s.net.Relay().ExecuteWith(func(c *runtime.Chain) {
		msg := xcm.Xcm{xcm.AliasOrigin{Location: beneficiary(types.Alice)}, storeCall(types.Alice, 7)}
		_, err := c.Xcm.Send(executor.Signed(types.Alice), xcm.ParachainLocation(vane), msg)
		s.Require().NoError(err)
	})
	s.net.Para(vane).ExecuteWith(nil)
	s.True(lastOutcome(s.T(), s.para(), runtime.EventExecutedDownward).IsComplete())
	s.Equal(uint64(7), s.para().Store.Get(types.Alice))
}

func (s *MockNetSuite) TestMetrics() {
	s.net.Relay().ExecuteWith(func(c *runtime.Chain) {
		_, err := c.Xcm.Send(executor.Root(), xcm.ParachainLocation(vane), xcm.Xcm{storeCall(types.Bob, 1)})
		s.Require().NoError(err)
	})
	s.Equal(int64(1), s.net.Metrics().Get(MetricQueuePending).(gometrics.Gauge).Value())
	s.net.Bus().Enqueue(s.net.Bus().Inbound(vane)[0], xcm.Parent(), []byte{0xff})
	s.net.Para(vane).ExecuteWith(nil)

	r := s.net.Metrics()
	s.Equal(int64(2), r.Get(MetricDelivered).(gometrics.Counter).Count())
	s.Equal(int64(1), r.Get(MetricExecutedComplete).(gometrics.Counter).Count())
	s.Equal(int64(1), r.Get(MetricDecodeFailed).(gometrics.Counter).Count())
	s.Equal(int64(0), r.Get(MetricQueuePending).(gometrics.Gauge).Value())
	s.Positive(r.Get(MetricWeightUsed).(gometrics.Meter).Count())
	s.Len(s.para().System.Find(runtime.MsgQueuePallet, runtime.EventInvalidFormat), 1)
}

func (s *MockNetSuite) TestReset() {
	s.reserveTransfer(100000)
	s.Require().NoError(s.net.Reset())
	s.Equal(int64(100000), s.relay().Balances.FreeBalance(types.Alice))
	s.Equal(0, s.net.Pending())
	s.Empty(s.relay().System.Events())
	s.Equal(int64(0), s.net.Metrics().Get(MetricDelivered).(gometrics.Counter).Count())
}

func (s *MockNetSuite) TestAccounts() {
	acc, err := s.net.ChildAccountAccount(vane, types.Alice)
	s.Require().NoError(err)
	s.NotEqual(types.Alice, acc)
	s.NotEqual(ChildAccount(vane), acc)

	acc, err = s.net.ParentAccountAccount(vane, types.Alice)
	s.Require().NoError(err)
	s.NotEqual(ParentAccount(), acc)

	_, err = s.net.ParentAccountAccount(7, types.Alice)
	s.Equal(types.ErrUnknownChain, errors.Cause(err))
	s.Nil(s.net.Para(7))
	s.Len(s.net.Chains(), 2)
}

const siblingsCfg = `
[relay]
network = "kusama"
symbol = "DOT"
decimals = 10
balances = [{account = "alice", amount = 100000}]

[[parachain]]
paraID = 1
name = "vane"
network = "kusama"
symbol = "VANE"
decimals = 12
allowUnpaid = true
compressHorizontal = true
balances = [{account = "alice", amount = 1000}]

[[parachain]]
paraID = 2
name = "mrisho"
network = "kusama"
symbol = "MRI"
decimals = 12
allowUnpaid = true
balances = [{account = "sibl:1", amount = 1000}]
`

func TestHorizontalChannel(t *testing.T) {
	cfg, err := types.InitCfgString(siblingsCfg)
	require.NoError(t, err)
	net, err := New(cfg, "")
	require.NoError(t, err)
	defer net.Close()

	send := func(c *runtime.Chain, to uint32, value uint64) {
		_, err := c.Xcm.SendXcm(nil, xcm.SiblingLocation(to), xcm.Xcm{storeCall(types.Alice, value)})
		require.NoError(t, err)
	}
	success := func(id uint32) int {
		return len(net.Para(id).Chain().System.Find(runtime.MsgQueuePallet, runtime.EventSuccess))
	}

	net.Para(1).ExecuteWith(func(c *runtime.Chain) { send(c, 2, 11) })
	assert.Equal(t, 1, net.Pending())
	assert.Equal(t, uint64(0), net.Para(2).Chain().Store.Get(types.Alice))

	// para 2 takes para 1's message before its own call runs
	net.Para(2).ExecuteWith(func(c *runtime.Chain) { send(c, 1, 12) })
	assert.Equal(t, uint64(11), net.Para(2).Chain().Store.Get(types.Alice))
	assert.Equal(t, 1, success(2))
	assert.Equal(t, 1, net.Pending())

	assert.Equal(t, 1, net.Round())
	assert.Equal(t, uint64(12), net.Para(1).Chain().Store.Get(types.Alice))
	assert.Equal(t, 1, success(1))
	assert.Equal(t, 0, net.Pending())

	// messages leaving during a round are handled in the next one
	send(net.Para(1).Chain(), 2, 21)
	send(net.Para(2).Chain(), 1, 22)
	assert.Equal(t, 0, net.Pending())
	assert.Equal(t, 0, net.Round())
	assert.Equal(t, 2, net.Pending())
	assert.Equal(t, uint64(12), net.Para(1).Chain().Store.Get(types.Alice))
	assert.Equal(t, 2, net.Round())
	assert.Equal(t, uint64(22), net.Para(1).Chain().Store.Get(types.Alice))
	assert.Equal(t, uint64(21), net.Para(2).Chain().Store.Get(types.Alice))
	for _, id := range []uint32{1, 2} {
		assert.Equal(t, 2, success(id), net.Para(id).Chain().Name())
	}
}

func TestPersistentBackends(t *testing.T) {
	for _, driver := range []string{dbm.GoLevelDBBackendStr, dbm.GoBadgerDBBackendStr} {
		cfg := types.DefaultConfig()
		cfg.Store.Driver = driver
		dir := t.TempDir()

		net, err := New(cfg, dir)
		require.NoError(t, err, driver)
		net.Relay().ExecuteWith(func(c *runtime.Chain) {
			assets := xcm.NewAssets(xcm.NewAsset(xcm.Concrete(xcm.Here()), 500))
			_, err := c.Xcm.ReserveTransferAssets(executor.Signed(types.Bob), xcm.ParachainLocation(vane), beneficiary(types.Bob), assets, 0)
			require.NoError(t, err, driver)
		})
		net.Para(vane).ExecuteWith(nil)
		assert.Equal(t, int64(500), net.Para(vane).Chain().Assets.Balance(dotID, types.Bob), driver)

		// genesis again on a wiped store
		require.NoError(t, net.Reset(), driver)
		assert.Equal(t, int64(100000), net.Relay().Chain().Balances.FreeBalance(types.Bob), driver)
		net.Close()
	}
}

func TestNewRejectsDuplicates(t *testing.T) {
	cfg := types.DefaultConfig()
	cfg.Parachains = append(cfg.Parachains, cfg.Parachains[0])
	_, err := New(cfg, "")
	assert.Equal(t, types.ErrUnknownChain, errors.Cause(err))

	_, err = New(nil, "")
	assert.Equal(t, types.ErrConfigNotFound, errors.Cause(err))
}
