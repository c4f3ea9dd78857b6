// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"github.com/33cn/paraxcm/common"
	"github.com/33cn/paraxcm/types"
	"github.com/33cn/paraxcm/xcm"
	"github.com/pkg/errors"
)

// Executor runs xcm programs for one chain. A chain runs one program at a
// time, so Executor is not safe for concurrent use.
type Executor struct {
	cfg *Config
}

// New 创建执行器
func New(cfg *Config) *Executor {
	if cfg.MaxAssetsIntoHolding == 0 {
		cfg.MaxAssetsIntoHolding = types.DefaultMaxAssetsIntoHolding
	}
	return &Executor{cfg: cfg}
}

// Config returns the wiring of e.
func (e *Executor) Config() *Config {
	return e.cfg
}

// Execute runs msg for origin within weightLimit.
func (e *Executor) Execute(origin xcm.Location, msg xcm.Xcm, id [32]byte, weightLimit types.Weight) Outcome {
	return e.ExecuteWithCredit(origin, msg, id, weightLimit, types.ZeroWeight)
}

// ExecuteWithCredit is Execute for callers that have already paid for
// credit, which TakeWeightCredit may consume.
func (e *Executor) ExecuteWithCredit(origin xcm.Location, msg xcm.Xcm, id [32]byte, weightLimit, credit types.Weight) Outcome {
	hash := common.ToHex(id[:])
	estimate, err := e.cfg.Weigher.Weight(msg)
	if err != nil {
		elog.Error("Execute weigh", "id", hash, "origin", origin, "err", err)
		return Outcome{Kind: Error, Err: err}
	}
	props := &Properties{WeightCredit: credit}
	if err := e.cfg.Barrier.ShouldExecute(origin, msg, estimate, props); err != nil {
		if errors.Cause(err) != types.ErrBarrierRejected {
			err = errors.Wrap(types.ErrBarrierRejected, err.Error())
		}
		elog.Info("Execute barrier", "id", hash, "origin", origin, "err", err)
		return Outcome{Kind: Error, Err: err}
	}

	var trader Trader
	if e.cfg.Trader != nil {
		trader = e.cfg.Trader()
	}
	used := types.ZeroWeight
	o := origin
	v := &vm{
		cfg:       e.cfg,
		id:        id,
		entry:     origin,
		origin:    &o,
		holding:   NewHolding(),
		trader:    trader,
		limit:     weightLimit,
		used:      &used,
		msgWeight: estimate,
		surplus:   &surplus{},
		status:    xcm.Success,
	}
	failed := v.run(msg)
	v.post(failed)
	v.trap()

	if v.err != nil {
		elog.Info("Execute incomplete", "id", hash, "origin", origin, "used", used, "index", v.errIndex, "err", v.err)
		return Outcome{Kind: Incomplete, Used: used, Err: v.err, Index: v.errIndex}
	}
	elog.Info("Execute complete", "id", hash, "origin", origin, "used", used)
	return Outcome{Kind: Complete, Used: used}
}

type surplus struct {
	total    types.Weight
	refunded types.Weight
}

// vm is the state of one running program. Error handlers and appendices
// run in child vms that share the weight meter, trader and error with
// their parent but start with an empty holding.
type vm struct {
	cfg   *Config
	id    [32]byte
	entry xcm.Location
	// nil once cleared
	origin  *xcm.Location
	holding *Holding
	trader  Trader

	limit     types.Weight
	used      *types.Weight
	msgWeight types.Weight
	surplus   *surplus

	errorHandler xcm.Xcm
	appendix     xcm.Xcm
	err          error
	errIndex     int
	status       xcm.MaybeErrorCode
}

// run executes msg in order and reports whether an instruction failed.
func (v *vm) run(msg xcm.Xcm) bool {
	for i, in := range msg {
		w := v.cfg.Weigher.InstrWeight(in)
		next := v.used.Add(w)
		if next.AnyGT(v.limit) {
			v.err = errors.Wrapf(types.ErrWeightExceeded, "%s needs %s, used %s of %s", in.Name(), w, *v.used, v.limit)
			v.errIndex = i
			return true
		}
		*v.used = next
		if err := v.process(in); err != nil {
			elog.Debug("instruction failed", "index", i, "instruction", in.Name(), "err", err)
			v.err = err
			v.errIndex = i
			return true
		}
		elog.Debug("instruction", "index", i, "instruction", in.Name(), "used", *v.used)
	}
	return false
}

// post runs the error handler after a failure, then the appendix.
func (v *vm) post(failed bool) {
	if failed && len(v.errorHandler) > 0 {
		handler := v.errorHandler
		v.errorHandler = nil
		v.child(handler)
	}
	v.errorHandler = nil
	if len(v.appendix) > 0 {
		appendix := v.appendix
		v.appendix = nil
		v.child(appendix)
	}
}

func (v *vm) child(msg xcm.Xcm) {
	c := &vm{
		cfg:       v.cfg,
		id:        v.id,
		entry:     v.entry,
		holding:   NewHolding(),
		trader:    v.trader,
		limit:     v.limit,
		used:      v.used,
		msgWeight: v.msgWeight,
		surplus:   v.surplus,
		err:       v.err,
		errIndex:  v.errIndex,
		status:    v.status,
	}
	if v.origin != nil {
		o := *v.origin
		c.origin = &o
	}
	failed := c.run(msg)
	c.post(failed)
	v.err, v.errIndex, v.status = c.err, c.errIndex, c.status
	if err := v.holding.SubsumeAssets(c.holding.Clear()); err != nil {
		elog.Error("merge child holding", "err", err)
	}
}

// trap drops what is left in holding and records it.
func (v *vm) trap() {
	if v.holding.IsEmpty() {
		return
	}
	origin := v.entry
	if v.origin != nil {
		origin = *v.origin
	}
	assets := v.holding.Clear()
	elog.Info("assets trapped", "origin", origin, "assets", assets)
	v.cfg.deposit(EventAssetsTrapped, &AssetsTrapped{Hash: v.id, Origin: origin, Assets: assets})
}

func (v *vm) requireOrigin() (xcm.Location, error) {
	if v.origin == nil {
		return xcm.Location{}, errors.Wrap(types.ErrBadOrigin, "origin cleared")
	}
	return *v.origin, nil
}

func (v *vm) ensureCanSubsume(n int) error {
	if v.holding.Len()+n > int(v.cfg.MaxAssetsIntoHolding) {
		return errors.Wrapf(types.ErrHoldingWouldOverflow, "holding %d + %d above %d", v.holding.Len(), n, v.cfg.MaxAssetsIntoHolding)
	}
	return nil
}

func (v *vm) process(in xcm.Instruction) error {
	switch i := in.(type) {
	case xcm.WithdrawAsset:
		origin, err := v.requireOrigin()
		if err != nil {
			return err
		}
		if err := v.ensureCanSubsume(len(i.Assets)); err != nil {
			return err
		}
		for _, a := range i.Assets {
			if err := v.cfg.AssetTransactor.Withdraw(a, origin); err != nil {
				return err
			}
			if err := v.holding.Subsume(a); err != nil {
				return err
			}
		}
		return nil

	case xcm.ReserveAssetDeposited:
		origin, err := v.requireOrigin()
		if err != nil {
			return err
		}
		if err := v.ensureCanSubsume(len(i.Assets)); err != nil {
			return err
		}
		for _, a := range i.Assets {
			if !v.cfg.isReserve(a, origin) {
				return errors.Wrapf(types.ErrUntrustedReserveLocation, "%s from %s", a, origin)
			}
		}
		return v.holding.SubsumeAssets(i.Assets)

	case xcm.ClearOrigin:
		v.origin = nil
		return nil

	case xcm.DescendOrigin:
		origin, err := v.requireOrigin()
		if err != nil {
			return err
		}
		for _, j := range i.Interior {
			if origin, err = origin.Pushed(j); err != nil {
				return err
			}
		}
		v.origin = &origin
		return nil

	case xcm.TransferAsset:
		origin, err := v.requireOrigin()
		if err != nil {
			return err
		}
		for _, a := range i.Assets {
			if err := v.cfg.AssetTransactor.Transfer(a, origin, i.Beneficiary); err != nil {
				return err
			}
		}
		return nil

	case xcm.TransferReserveAsset:
		origin, err := v.requireOrigin()
		if err != nil {
			return err
		}
		reanchored, err := i.Assets.Reanchored(i.Dest, v.cfg.UniversalLocation)
		if err != nil {
			return err
		}
		for _, a := range i.Assets {
			if err := v.cfg.AssetTransactor.Transfer(a, origin, i.Dest); err != nil {
				return err
			}
		}
		return v.send(i.Dest, reserveNotice(xcm.ReserveAssetDeposited{Assets: reanchored}, i.Xcm))

	case xcm.DepositAsset:
		assets, err := v.takeForDeposit(i.Assets)
		if err != nil {
			return err
		}
		return v.depositAll(assets, i.Beneficiary)

	case xcm.DepositReserveAsset:
		assets, err := v.takeForDeposit(i.Assets)
		if err != nil {
			return err
		}
		reanchored, err := assets.Reanchored(i.Dest, v.cfg.UniversalLocation)
		if err != nil {
			v.putBack(assets)
			return err
		}
		if err := v.depositAll(assets, i.Dest); err != nil {
			return err
		}
		return v.send(i.Dest, reserveNotice(xcm.ReserveAssetDeposited{Assets: reanchored}, i.Xcm))

	case xcm.InitiateReserveWithdraw:
		assets := v.holding.SaturatingTake(i.Assets)
		reanchored, err := assets.Reanchored(i.Reserve, v.cfg.UniversalLocation)
		if err != nil {
			v.putBack(assets)
			return err
		}
		if err := v.send(i.Reserve, reserveNotice(xcm.WithdrawAsset{Assets: reanchored}, i.Xcm)); err != nil {
			v.putBack(assets)
			return err
		}
		return nil

	case xcm.Transact:
		return v.transact(i)

	case xcm.BuyExecution:
		return v.buyExecution(i)

	case xcm.RefundSurplus:
		return v.refundSurplus()

	case xcm.SetErrorHandler:
		v.errorHandler = i.Xcm
		return nil

	case xcm.SetAppendix:
		v.appendix = i.Xcm
		return nil

	case xcm.ClearError:
		v.err = nil
		v.errIndex = 0
		return nil

	case xcm.Trap:
		return errors.Wrapf(types.ErrTrap, "code %d", i.Code)

	case xcm.ExpectTransactStatus:
		if !v.status.Equal(i.Status) {
			return errors.Wrapf(types.ErrExpectationFalse, "transact status %+v", v.status)
		}
		return nil

	case xcm.ClearTransactStatus:
		v.status = xcm.Success
		return nil

	case xcm.UnpaidExecution:
		if i.CheckOrigin == nil {
			return nil
		}
		if v.origin == nil || !v.origin.Equal(*i.CheckOrigin) {
			return errors.Wrapf(types.ErrBadOrigin, "expected origin %s", *i.CheckOrigin)
		}
		return nil

	case xcm.AliasOrigin:
		origin, err := v.requireOrigin()
		if err != nil {
			return err
		}
		if v.entry.StartsWith(i.Location) && !v.entry.Equal(i.Location) {
			return errors.Wrapf(types.ErrBadOrigin, "%s is above %s", i.Location, v.entry)
		}
		if !v.cfg.canAlias(origin, i.Location) {
			return errors.Wrapf(types.ErrNoPermissionAlias, "%s as %s", origin, i.Location)
		}
		target := i.Location
		v.origin = &target
		return nil

	case xcm.Noop:
		return nil
	}
	return errors.Wrapf(types.ErrBadFormat, "instruction %s", in.Name())
}

func reserveNotice(head xcm.Instruction, rest xcm.Xcm) xcm.Xcm {
	msg := make(xcm.Xcm, 0, len(rest)+2)
	msg = append(msg, head, xcm.ClearOrigin{})
	return append(msg, rest...)
}

// takeForDeposit takes a definite filter in full or not at all; a wildcard
// takes whatever matches, possibly nothing.
func (v *vm) takeForDeposit(f xcm.AssetFilter) (xcm.Assets, error) {
	assets, err := v.holding.TryTake(f)
	if err != nil {
		return nil, errors.Wrapf(types.ErrNotDepositable, "%s: %v", f, err)
	}
	return assets, nil
}

// depositAll deposits assets to who; on failure the rest stays in holding.
func (v *vm) depositAll(assets xcm.Assets, who xcm.Location) error {
	for k, a := range assets {
		if err := v.cfg.AssetTransactor.Deposit(a, who); err != nil {
			v.putBack(assets[k:])
			return err
		}
	}
	return nil
}

func (v *vm) putBack(assets xcm.Assets) {
	if err := v.holding.SubsumeAssets(assets); err != nil {
		elog.Error("put back holding", "assets", assets, "err", err)
	}
}

func (v *vm) send(dest xcm.Location, msg xcm.Xcm) error {
	if v.cfg.Router == nil {
		return errors.Wrapf(types.ErrUnroutable, "no router for %s", dest)
	}
	hash, err := v.cfg.Router.SendXcm(dest, msg)
	if err != nil {
		return err
	}
	elog.Debug("sent", "dest", dest, "hash", common.ToHex(hash[:]), "msg", msg.Names())
	return nil
}

func (v *vm) refund(w types.Weight) {
	*v.used = v.used.Sub(w)
	v.surplus.total = v.surplus.total.Add(w)
}

func (v *vm) transact(t xcm.Transact) error {
	origin, err := v.requireOrigin()
	if err != nil {
		return err
	}
	if v.cfg.OriginConverter == nil {
		return errors.Wrap(types.ErrBadOrigin, "no origin converter")
	}
	dispatchOrigin, ok := v.cfg.OriginConverter.ConvertOrigin(origin, t.OriginKind)
	if !ok {
		return errors.Wrapf(types.ErrBadOrigin, "%s as %s", origin, t.OriginKind)
	}
	if v.cfg.Dispatcher == nil {
		v.transactFailed(origin, types.ErrDispatchFailed, errors.Wrap(types.ErrDispatchFailed, "no dispatcher"))
		v.refund(t.RequireWeightAtMost)
		return nil
	}
	call, err := v.cfg.Dispatcher.DecodeCall(t.Call)
	if err != nil {
		v.transactFailed(origin, types.ErrFailedToDecode, errors.Wrap(types.ErrFailedToDecode, err.Error()))
		v.refund(t.RequireWeightAtMost)
		return nil
	}
	if call.Weight().AnyGT(t.RequireWeightAtMost) {
		return errors.Wrapf(types.ErrWeightExceeded, "%s weighs %s above %s", call, call.Weight(), t.RequireWeightAtMost)
	}
	actual, err := v.cfg.Dispatcher.Dispatch(call, dispatchOrigin)
	v.refund(t.RequireWeightAtMost.Sub(actual.Min(t.RequireWeightAtMost)))
	if err != nil {
		cause := errors.Cause(err)
		if cause != types.ErrDispatchFailed {
			err = errors.Wrap(types.ErrDispatchFailed, err.Error())
		}
		v.transactFailed(origin, cause, err)
		return nil
	}
	v.status = xcm.Success
	v.cfg.deposit(EventTransacted, &Transacted{Call: call.String(), Origin: dispatchOrigin, Weight: actual})
	return nil
}

// transactFailed records the failure; the status code is the name of the
// underlying error, e.g. "ErrNoBalance".
func (v *vm) transactFailed(origin xcm.Location, cause, err error) {
	elog.Info("transact failed", "origin", origin, "err", err)
	v.status = xcm.ErrorCode([]byte(cause.Error()))
	v.cfg.deposit(EventTransactFailed, &TransactFailed{Origin: origin, Err: err})
}

func (v *vm) buyExecution(b xcm.BuyExecution) error {
	if b.WeightLimit.IsUnlimited() {
		return nil
	}
	weight := b.WeightLimit.Limit.Min(v.msgWeight)
	fees, err := v.holding.TryTake(xcm.Definite(xcm.NewAssets(b.Fees)))
	if err != nil {
		return err
	}
	if v.trader == nil {
		v.putBack(fees)
		return errors.Wrap(types.ErrTooExpensive, "no trader")
	}
	change, err := v.trader.BuyWeight(weight, fees)
	if err != nil {
		v.putBack(fees)
		return err
	}
	return v.holding.SubsumeAssets(change)
}

func (v *vm) refundSurplus() error {
	amount := v.surplus.total.Sub(v.surplus.refunded)
	if amount.IsZero() || v.trader == nil {
		return nil
	}
	v.surplus.refunded = v.surplus.refunded.Add(amount)
	a, ok := v.trader.RefundWeight(amount)
	if !ok {
		return nil
	}
	if err := v.ensureCanSubsume(1); err != nil {
		return err
	}
	return v.holding.Subsume(a)
}
