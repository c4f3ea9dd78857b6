// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"testing"

	"github.com/33cn/paraxcm/account"
	"github.com/33cn/paraxcm/common/db"
	"github.com/33cn/paraxcm/sovereign"
	"github.com/33cn/paraxcm/types"
	"github.com/33cn/paraxcm/xcm"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type eventLog struct {
	events []types.Event
}

func (l *eventLog) DepositEvent(ev types.Event) {
	l.events = append(l.events, ev)
}

func (l *eventLog) named(name string) []types.Event {
	var out []types.Event
	for _, ev := range l.events {
		if ev.Name == name {
			out = append(out, ev)
		}
	}
	return out
}

type mockRouter struct {
	mock.Mock
}

func (m *mockRouter) SendXcm(dest xcm.Location, msg xcm.Xcm) ([32]byte, error) {
	args := m.Called(dest, msg)
	return args.Get(0).([32]byte), args.Error(1)
}

type testCall struct {
	name   string
	weight types.Weight
}

func (c testCall) String() string        { return c.name }
func (c testCall) Weight() types.Weight { return c.weight }

type mockDispatcher struct {
	mock.Mock
}

func (m *mockDispatcher) DecodeCall(data []byte) (Call, error) {
	args := m.Called(data)
	c, _ := args.Get(0).(Call)
	return c, args.Error(1)
}

func (m *mockDispatcher) Dispatch(call Call, origin DispatchOrigin) (types.Weight, error) {
	args := m.Called(call, origin)
	return args.Get(0).(types.Weight), args.Error(1)
}

// ExecutorTestSuite runs programs on a relay-like chain: one native
// currency, child parachain sovereign accounts, unit weight 1.
type ExecutorTestSuite struct {
	suite.Suite
	ledger     *account.DB
	events     *eventLog
	router     *mockRouter
	dispatcher *mockDispatcher
	cfg        *Config
	exec       *Executor
}

func TestExecutor(t *testing.T) {
	suite.Run(t, new(ExecutorTestSuite))
}

var (
	unit  = types.NewWeight(1, 1)
	limit = types.NewWeight(1000, 1000)
)

func (s *ExecutorTestSuite) SetupTest() {
	kv, err := db.NewGoMemDB("gomemdb", "test", 128)
	s.Require().NoError(err)
	s.ledger, err = account.NewAccountDB("DOT", kv)
	s.Require().NoError(err)
	_, err = s.ledger.GenesisInit(types.Alice, 1000)
	s.Require().NoError(err)
	_, err = s.ledger.GenesisInit(types.Bob, 500)
	s.Require().NoError(err)

	accounts := sovereign.RelayConverter(xcm.Polkadot)
	s.events = &eventLog{}
	s.router = new(mockRouter)
	s.dispatcher = new(mockDispatcher)
	s.cfg = &Config{
		Barrier:         Barriers{TakeWeightCredit(), AllowUnpaidExecutionFrom(Everything())},
		Weigher:         &FixedWeightBounds{UnitWeight: unit, MaxInstructions: 10},
		Trader:          NewFixedRateOfFungible(dot, int64(types.WeightRefTimePerSecond), 0),
		AssetTransactor: &CurrencyAdapter{Ledger: s.ledger, ID: dot, Accounts: accounts},
		OriginConverter: OriginConverters{
			SovereignSignedViaLocation(accounts),
			SignedAccountID32AsNative(xcm.Polkadot),
		},
		LocationToAccount:    accounts,
		Aliasers:             []Aliaser{AliasChildLocation()},
		Dispatcher:           s.dispatcher,
		Router:               s.router,
		Events:               s.events,
		MaxAssetsIntoHolding: 4,
	}
	s.exec = New(s.cfg)
}

func (s *ExecutorTestSuite) execute(origin xcm.Location, msg xcm.Xcm) Outcome {
	return s.exec.Execute(origin, msg, [32]byte{1}, limit)
}

func dots(n int64) xcm.Assets { return xcm.NewAssets(xcm.NewAsset(dot, n)) }

func (s *ExecutorTestSuite) balances() (int64, int64) {
	return s.ledger.FreeBalance(types.Alice), s.ledger.FreeBalance(types.Bob)
}

func (s *ExecutorTestSuite) TestWithdrawDeposit() {
	issuance := s.ledger.TotalIssuance()
	out := s.execute(loc(types.Alice), xcm.Xcm{
		xcm.WithdrawAsset{Assets: dots(100)},
		xcm.DepositAsset{Assets: xcm.All(), Beneficiary: loc(types.Bob)},
	})
	s.Equal(Complete, out.Kind, out.String())
	s.Equal(unit.Mul(2), out.Used)
	alice, bob := s.balances()
	s.Equal(int64(900), alice)
	s.Equal(int64(600), bob)
	s.Equal(issuance, s.ledger.TotalIssuance())
	s.Empty(s.events.named(EventAssetsTrapped))
}

func (s *ExecutorTestSuite) TestDepositMoreThanHeld() {
	out := s.execute(loc(types.Alice), xcm.Xcm{
		xcm.WithdrawAsset{Assets: dots(100)},
		xcm.DepositAsset{Assets: xcm.Definite(dots(200)), Beneficiary: loc(types.Bob)},
	})
	s.Equal(Incomplete, out.Kind)
	s.Equal(1, out.Index)
	s.Equal(types.ErrNotDepositable, errors.Cause(out.Err))
	alice, bob := s.balances()
	s.Equal(int64(900), alice)
	s.Equal(int64(500), bob)

	trapped := s.events.named(EventAssetsTrapped)
	s.Require().Len(trapped, 1)
	data := trapped[0].Data.(*AssetsTrapped)
	s.True(data.Assets.Equal(dots(100)))
	s.Equal([32]byte{1}, data.Hash)
}

func (s *ExecutorTestSuite) TestWildDepositOfNothing() {
	out := s.execute(loc(types.Alice), xcm.Xcm{
		xcm.DepositAsset{Assets: xcm.All(), Beneficiary: loc(types.Bob)},
	})
	s.Equal(Complete, out.Kind)
}

func (s *ExecutorTestSuite) TestWeightExceededKeepsEarlierEffects() {
	out := s.exec.Execute(loc(types.Alice), xcm.Xcm{
		xcm.WithdrawAsset{Assets: dots(100)},
		xcm.DepositAsset{Assets: xcm.All(), Beneficiary: loc(types.Bob)},
	}, [32]byte{}, unit)
	s.Equal(Incomplete, out.Kind)
	s.Equal(1, out.Index)
	s.Equal(types.ErrWeightExceeded, errors.Cause(out.Err))
	s.Equal(unit, out.Used)
	alice, bob := s.balances()
	s.Equal(int64(900), alice)
	s.Equal(int64(500), bob)
	s.Len(s.events.named(EventAssetsTrapped), 1)
}

func (s *ExecutorTestSuite) TestBarrierRejectsWithoutSideEffects() {
	s.cfg.Barrier = AllowTopLevelPaidExecutionFrom(Everything())
	out := s.execute(loc(types.Alice), xcm.Xcm{
		xcm.WithdrawAsset{Assets: dots(100)},
		xcm.DepositAsset{Assets: xcm.All(), Beneficiary: loc(types.Bob)},
	})
	s.Equal(Error, out.Kind)
	s.Equal(types.ErrBarrierRejected, errors.Cause(out.Err))
	s.True(out.Used.IsZero())
	alice, bob := s.balances()
	s.Equal(int64(1000), alice)
	s.Equal(int64(500), bob)
	s.Empty(s.events.events)
}

func (s *ExecutorTestSuite) TestExecuteWithCredit() {
	s.cfg.Barrier = TakeWeightCredit()
	msg := xcm.Xcm{xcm.Noop{}, xcm.Noop{}}
	out := s.exec.ExecuteWithCredit(xcm.Here(), msg, [32]byte{}, limit, unit)
	s.Equal(Error, out.Kind)
	out = s.exec.ExecuteWithCredit(xcm.Here(), msg, [32]byte{}, limit, unit.Mul(2))
	s.Equal(Complete, out.Kind)
}

func (s *ExecutorTestSuite) TestMaxInstructions() {
	noops := make(xcm.Xcm, 10)
	for i := range noops {
		noops[i] = xcm.Noop{}
	}
	out := s.execute(xcm.Here(), xcm.Xcm{xcm.SetAppendix{Xcm: noops}})
	s.Equal(Error, out.Kind)
	s.Equal(types.ErrExceedsMaxInstructions, errors.Cause(out.Err))
}

func (s *ExecutorTestSuite) TestTransferReserveAsset() {
	s.router.On("SendXcm", xcm.ParachainLocation(1), mock.Anything).Return([32]byte{9}, nil).Once()
	remote := xcm.Xcm{xcm.DepositAsset{Assets: xcm.All(), Beneficiary: loc(types.Bob)}}
	out := s.execute(loc(types.Alice), xcm.Xcm{
		xcm.TransferReserveAsset{Assets: dots(100), Dest: xcm.ParachainLocation(1), Xcm: remote},
	})
	s.Equal(Complete, out.Kind, out.String())
	s.Equal(int64(900), s.ledger.FreeBalance(types.Alice))
	s.Equal(int64(100), s.ledger.FreeBalance(sovereign.ChildAccount(1)))

	s.router.AssertExpectations(s.T())
	sent := s.router.Calls[0].Arguments.Get(1).(xcm.Xcm)
	s.Require().Len(sent, 3)
	deposited, ok := sent[0].(xcm.ReserveAssetDeposited)
	s.Require().True(ok)
	s.True(deposited.Assets.Equal(xcm.NewAssets(xcm.NewAsset(xcm.Concrete(xcm.Parent()), 100))))
	s.Equal(xcm.ClearOrigin{}, sent[1])
	s.Equal(remote[0], sent[2])
}

func (s *ExecutorTestSuite) TestUnroutable() {
	s.router.On("SendXcm", xcm.ParachainLocation(7), mock.Anything).
		Return([32]byte{}, errors.Wrap(types.ErrUnroutable, "no channel")).Once()
	out := s.execute(loc(types.Alice), xcm.Xcm{
		xcm.WithdrawAsset{Assets: dots(10)},
		xcm.InitiateReserveWithdraw{Assets: xcm.All(), Reserve: xcm.ParachainLocation(7)},
	})
	s.Equal(Incomplete, out.Kind)
	s.Equal(types.ErrUnroutable, errors.Cause(out.Err))
	// 发送失败的资产回到 holding 并被捕获
	trapped := s.events.named(EventAssetsTrapped)
	s.Require().Len(trapped, 1)
	s.True(trapped[0].Data.(*AssetsTrapped).Assets.Equal(dots(10)))
}

func (s *ExecutorTestSuite) TestTransactRefundsSurplus() {
	call := testCall{name: "store", weight: types.NewWeight(50, 50)}
	s.dispatcher.On("DecodeCall", []byte{1}).Return(call, nil).Once()
	s.dispatcher.On("Dispatch", call, Signed(sovereign.ChildAccount(1))).Return(types.NewWeight(40, 40), nil).Once()

	out := s.execute(xcm.ParachainLocation(1), xcm.Xcm{
		xcm.Transact{OriginKind: xcm.OriginSovereignAccount, RequireWeightAtMost: types.NewWeight(100, 100), Call: []byte{1}},
		xcm.ExpectTransactStatus{Status: xcm.Success},
	})
	s.Equal(Complete, out.Kind, out.String())
	s.Equal(types.NewWeight(42, 42), out.Used)
	s.dispatcher.AssertExpectations(s.T())
	s.Len(s.events.named(EventTransacted), 1)
}

func (s *ExecutorTestSuite) TestTransactFailureDoesNotAbort() {
	s.dispatcher.On("DecodeCall", []byte{9}).Return(nil, errors.New("bad call")).Once()

	out := s.execute(loc(types.Alice), xcm.Xcm{
		xcm.Transact{OriginKind: xcm.OriginNative, RequireWeightAtMost: types.NewWeight(100, 100), Call: []byte{9}},
		xcm.WithdrawAsset{Assets: dots(10)},
		xcm.DepositAsset{Assets: xcm.All(), Beneficiary: loc(types.Bob)},
	})
	s.Equal(Complete, out.Kind, out.String())
	s.Equal(unit.Mul(3), out.Used)
	s.Equal(int64(510), s.ledger.FreeBalance(types.Bob))

	failed := s.events.named(EventTransactFailed)
	s.Require().Len(failed, 1)
	s.Equal(types.ErrFailedToDecode, errors.Cause(failed[0].Data.(*TransactFailed).Err))
}

func (s *ExecutorTestSuite) TestExpectTransactStatus() {
	call := testCall{name: "transfer", weight: unit}
	s.dispatcher.On("DecodeCall", []byte{2}).Return(call, nil)
	s.dispatcher.On("Dispatch", call, Signed(types.Alice)).Return(unit, types.ErrNoBalance)

	transact := xcm.Transact{OriginKind: xcm.OriginNative, RequireWeightAtMost: unit, Call: []byte{2}}
	out := s.execute(loc(types.Alice), xcm.Xcm{
		transact,
		xcm.ExpectTransactStatus{Status: xcm.ErrorCode([]byte("ErrNoBalance"))},
		xcm.ClearTransactStatus{},
		xcm.ExpectTransactStatus{Status: xcm.Success},
		transact,
		xcm.ExpectTransactStatus{Status: xcm.Success},
	})
	s.Equal(Incomplete, out.Kind)
	s.Equal(5, out.Index)
	s.Equal(types.ErrExpectationFalse, errors.Cause(out.Err))
	s.Len(s.events.named(EventTransactFailed), 2)
}

func (s *ExecutorTestSuite) TestTransactBadOrigin() {
	out := s.execute(xcm.ParachainLocation(1), xcm.Xcm{
		xcm.Transact{OriginKind: xcm.OriginSuperuser, RequireWeightAtMost: unit, Call: []byte{1}},
	})
	s.Equal(Incomplete, out.Kind)
	s.Equal(types.ErrBadOrigin, errors.Cause(out.Err))
	s.dispatcher.AssertNotCalled(s.T(), "DecodeCall", mock.Anything)
}

func (s *ExecutorTestSuite) TestErrorHandler() {
	out := s.execute(xcm.Here(), xcm.Xcm{
		xcm.SetErrorHandler{Xcm: xcm.Xcm{xcm.ClearError{}}},
		xcm.Trap{Code: 7},
	})
	s.Equal(Complete, out.Kind, out.String())
	s.Equal(unit.Mul(3), out.Used)

	out = s.execute(xcm.Here(), xcm.Xcm{
		xcm.SetErrorHandler{Xcm: xcm.Xcm{xcm.Noop{}}},
		xcm.Trap{Code: 7},
	})
	s.Equal(Incomplete, out.Kind)
	s.Equal(1, out.Index)
	s.Equal(types.ErrTrap, errors.Cause(out.Err))

	// 没有失败时不运行
	out = s.execute(xcm.Here(), xcm.Xcm{
		xcm.SetErrorHandler{Xcm: xcm.Xcm{xcm.Trap{Code: 1}}},
		xcm.Noop{},
	})
	s.Equal(Complete, out.Kind)
	s.Equal(unit.Mul(2), out.Used)
}

func (s *ExecutorTestSuite) TestAppendixRunsWithFreshHolding() {
	out := s.execute(loc(types.Alice), xcm.Xcm{
		xcm.SetAppendix{Xcm: xcm.Xcm{
			xcm.WithdrawAsset{Assets: dots(10)},
			xcm.DepositAsset{Assets: xcm.All(), Beneficiary: loc(types.Bob)},
		}},
		xcm.WithdrawAsset{Assets: dots(100)},
		xcm.Trap{Code: 1},
	})
	s.Equal(Incomplete, out.Kind)
	s.Equal(types.ErrTrap, errors.Cause(out.Err))
	alice, bob := s.balances()
	s.Equal(int64(890), alice)
	s.Equal(int64(510), bob)

	trapped := s.events.named(EventAssetsTrapped)
	s.Require().Len(trapped, 1)
	s.True(trapped[0].Data.(*AssetsTrapped).Assets.Equal(dots(100)))
}

func (s *ExecutorTestSuite) TestAppendixResidueMergesBack() {
	out := s.execute(loc(types.Alice), xcm.Xcm{
		xcm.SetAppendix{Xcm: xcm.Xcm{xcm.WithdrawAsset{Assets: dots(10)}}},
		xcm.WithdrawAsset{Assets: dots(5)},
	})
	s.Equal(Complete, out.Kind)
	trapped := s.events.named(EventAssetsTrapped)
	s.Require().Len(trapped, 1)
	s.True(trapped[0].Data.(*AssetsTrapped).Assets.Equal(dots(15)))
}

func (s *ExecutorTestSuite) TestOriginNarrowing() {
	out := s.execute(loc(types.Alice), xcm.Xcm{
		xcm.ClearOrigin{},
		xcm.WithdrawAsset{Assets: dots(1)},
	})
	s.Equal(types.ErrBadOrigin, errors.Cause(out.Err))
	s.Equal(1, out.Index)

	out = s.execute(xcm.Here(), xcm.Xcm{
		xcm.DescendOrigin{Interior: xcm.Junctions{xcm.AccountID32{ID: types.Alice}}},
		xcm.WithdrawAsset{Assets: dots(10)},
		xcm.DepositAsset{Assets: xcm.All(), Beneficiary: loc(types.Bob)},
	})
	s.Equal(Complete, out.Kind, out.String())
	s.Equal(int64(990), s.ledger.FreeBalance(types.Alice))

	out = s.execute(loc(types.Alice), xcm.Xcm{xcm.AliasOrigin{Location: xcm.Here()}})
	s.Equal(types.ErrBadOrigin, errors.Cause(out.Err))

	out = s.execute(loc(types.Alice), xcm.Xcm{xcm.AliasOrigin{Location: loc(types.Bob)}})
	s.Equal(types.ErrNoPermissionAlias, errors.Cause(out.Err))

	out = s.execute(xcm.Here(), xcm.Xcm{
		xcm.AliasOrigin{Location: loc(types.Bob)},
		xcm.WithdrawAsset{Assets: dots(10)},
		xcm.DepositAsset{Assets: xcm.All(), Beneficiary: loc(types.Alice)},
	})
	s.Equal(Complete, out.Kind, out.String())
	s.Equal(int64(1000), s.ledger.FreeBalance(types.Alice))

	out = s.execute(xcm.Here(), xcm.Xcm{xcm.ClearOrigin{}, xcm.DescendOrigin{Interior: xcm.Junctions{xcm.OnlyChild{}}}})
	s.Equal(types.ErrBadOrigin, errors.Cause(out.Err))
}

func (s *ExecutorTestSuite) TestUnpaidExecutionCheckOrigin() {
	parent := xcm.ParachainLocation(1)
	out := s.execute(parent, xcm.Xcm{xcm.UnpaidExecution{WeightLimit: types.Unlimited, CheckOrigin: &parent}})
	s.Equal(Complete, out.Kind)
	out = s.execute(xcm.ParachainLocation(2), xcm.Xcm{xcm.UnpaidExecution{WeightLimit: types.Unlimited, CheckOrigin: &parent}})
	s.Equal(types.ErrBadOrigin, errors.Cause(out.Err))
}

func (s *ExecutorTestSuite) TestBuyExecutionAndRefund() {
	s.cfg.Barrier = AllowTopLevelPaidExecutionFrom(Everything())
	issuance := s.ledger.TotalIssuance()
	out := s.execute(loc(types.Alice), xcm.Xcm{
		xcm.WithdrawAsset{Assets: dots(100)},
		xcm.BuyExecution{Fees: xcm.NewAsset(dot, 100), WeightLimit: types.Limited(types.NewWeight(10, 10))},
		xcm.RefundSurplus{},
		xcm.DepositAsset{Assets: xcm.All(), Beneficiary: loc(types.Bob)},
	})
	s.Equal(Complete, out.Kind, out.String())
	// 购买 min(limit, 估算) = 4 个单位
	s.Equal(int64(596), s.ledger.FreeBalance(types.Bob))
	s.Equal(issuance-4, s.ledger.TotalIssuance())
}

func (s *ExecutorTestSuite) TestBuyExecutionTooExpensive() {
	out := s.execute(loc(types.Alice), xcm.Xcm{
		xcm.WithdrawAsset{Assets: dots(2)},
		xcm.BuyExecution{Fees: xcm.NewAsset(dot, 1), WeightLimit: types.Limited(limit)},
	})
	s.Equal(types.ErrTooExpensive, errors.Cause(out.Err))
	trapped := s.events.named(EventAssetsTrapped)
	s.Require().Len(trapped, 1)
	s.True(trapped[0].Data.(*AssetsTrapped).Assets.Equal(dots(2)))

	out = s.execute(loc(types.Alice), xcm.Xcm{
		xcm.BuyExecution{Fees: xcm.NewAsset(dot, 2), WeightLimit: types.Limited(limit)},
	})
	s.Equal(types.ErrNotHoldingFees, errors.Cause(out.Err))
}

func (s *ExecutorTestSuite) TestHoldingLimit() {
	s.cfg.MaxAssetsIntoHolding = 1
	other := xcm.NewAsset(xcm.Concrete(xcm.ParachainLocation(3)), 5)
	out := s.execute(loc(types.Alice), xcm.Xcm{
		xcm.WithdrawAsset{Assets: xcm.NewAssets(xcm.NewAsset(dot, 1), other)},
	})
	s.Equal(types.ErrHoldingWouldOverflow, errors.Cause(out.Err))
	s.Equal(int64(1000), s.ledger.FreeBalance(types.Alice))
}

func (s *ExecutorTestSuite) TestUntrustedReserve() {
	s.cfg.IsReserve = NativeAsset()
	out := s.execute(xcm.ParachainLocation(1), xcm.Xcm{
		xcm.ReserveAssetDeposited{Assets: dots(5)},
	})
	s.Equal(types.ErrUntrustedReserveLocation, errors.Cause(out.Err))
	s.Empty(s.events.named(EventAssetsTrapped))
}
