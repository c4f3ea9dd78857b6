// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

import (
	"github.com/33cn/paraxcm/executor"
	"github.com/33cn/paraxcm/types"
	"github.com/33cn/paraxcm/xcm"
	"github.com/pkg/errors"
)

// DecodeCall implements executor.Dispatcher.
func (c *Chain) DecodeCall(data []byte) (executor.Call, error) {
	return DecodeCall(data)
}

// Dispatch implements executor.Dispatcher. The weight used is the call's
// declared weight whether or not it succeeds.
func (c *Chain) Dispatch(call executor.Call, origin executor.DispatchOrigin) (types.Weight, error) {
	rc, ok := call.(Call)
	if !ok {
		return types.ZeroWeight, errors.Wrapf(types.ErrDispatchFailed, "unknown call %s", call)
	}
	return rc.Weight(), c.dispatch(rc, origin)
}

// Apply runs call as an extrinsic signed by origin and records the result
// in the System events.
func (c *Chain) Apply(origin executor.DispatchOrigin, call Call) error {
	err := c.dispatch(call, origin)
	if err != nil {
		rlog.Info("Apply", "chain", c.name, "call", call, "origin", origin, "err", err)
		c.System.deposit(SystemPallet, EventExtrinsicFailed, &ExtrinsicFailed{Call: call.String(), Err: err})
		return err
	}
	c.System.deposit(SystemPallet, EventExtrinsicSuccess, call.String())
	return nil
}

func ensureSigned(origin executor.DispatchOrigin) (types.AccountID, error) {
	if origin.Type != executor.OriginSigned {
		return types.ZeroAccount, errors.Wrapf(types.ErrBadOrigin, "%s is not signed", origin)
	}
	return origin.Account, nil
}

func ensureRoot(origin executor.DispatchOrigin) error {
	if origin.Type != executor.OriginRoot {
		return errors.Wrapf(types.ErrBadOrigin, "%s is not root", origin)
	}
	return nil
}

func (c *Chain) assetClass(l xcm.Location) (uint32, error) {
	if c.Assets == nil {
		return 0, errors.Wrapf(types.ErrUnknownAsset, "%s has no assets pallet", c.name)
	}
	id, ok := c.Assets.AssetIDOf(l)
	if !ok {
		return 0, errors.Wrapf(types.ErrUnknownAsset, "asset %s", l)
	}
	return id, nil
}

// ensureOwner passes for root and for the owner of the class at l.
func (c *Chain) ensureOwner(origin executor.DispatchOrigin, l xcm.Location) (uint32, error) {
	id, err := c.assetClass(l)
	if err != nil {
		return 0, err
	}
	if origin.Type == executor.OriginRoot {
		return id, nil
	}
	who, err := ensureSigned(origin)
	if err != nil {
		return 0, err
	}
	d, err := c.Assets.Details(id)
	if err != nil {
		return 0, err
	}
	if d.Owner != who {
		return 0, errors.Wrapf(types.ErrNoPermission, "%s does not own asset %d", who, id)
	}
	return id, nil
}

func (c *Chain) transferKeepAlive(from, to types.AccountID, value int64) error {
	if c.Balances.FreeBalance(from)-value < ExistentialDeposit {
		return errors.Wrapf(types.ErrNoBalance, "%s would fall below %d", from, ExistentialDeposit)
	}
	r, err := c.Balances.Transfer(from, to, value)
	if err != nil {
		return err
	}
	c.System.DepositReceipt(r)
	return nil
}

func (c *Chain) assetTransferKeepAlive(id uint32, from, to types.AccountID, amount int64) error {
	d, err := c.Assets.Details(id)
	if err != nil {
		return err
	}
	if c.Assets.Balance(id, from)-amount < d.MinBalance {
		return errors.Wrapf(types.ErrNoBalance, "%s would fall below %d of asset %d", from, d.MinBalance, id)
	}
	r, err := c.Assets.Transfer(id, from, to, amount)
	if err != nil {
		return err
	}
	c.System.DepositReceipt(r)
	return nil
}

func (c *Chain) dispatch(call Call, origin executor.DispatchOrigin) error {
	rlog.Debug("dispatch", "chain", c.name, "call", call, "origin", origin)
	switch call := call.(type) {
	case *TransferKeepAlive:
		who, err := ensureSigned(origin)
		if err != nil {
			return err
		}
		return c.transferKeepAlive(who, call.Dest, call.Value)

	case *ForceTransfer:
		if err := ensureRoot(origin); err != nil {
			return err
		}
		r, err := c.Balances.Transfer(call.Source, call.Dest, call.Value)
		if err != nil {
			return err
		}
		c.System.DepositReceipt(r)
		return nil

	case *AssetMint:
		id, err := c.ensureOwner(origin, call.Asset)
		if err != nil {
			return err
		}
		r, err := c.Assets.Mint(id, call.Beneficiary, call.Amount)
		if err != nil {
			return err
		}
		c.System.DepositReceipt(r)
		return nil

	case *AssetBurn:
		id, err := c.ensureOwner(origin, call.Asset)
		if err != nil {
			return err
		}
		r, err := c.Assets.Burn(id, call.Who, call.Amount)
		if err != nil {
			return err
		}
		c.System.DepositReceipt(r)
		return nil

	case *AssetTransferKeepAlive:
		who, err := ensureSigned(origin)
		if err != nil {
			return err
		}
		id, err := c.assetClass(call.Asset)
		if err != nil {
			return err
		}
		return c.assetTransferKeepAlive(id, who, call.Target, call.Amount)

	case *TestStoring:
		if origin.Type == executor.OriginNone {
			return errors.Wrap(types.ErrBadOrigin, "unsigned")
		}
		if err := c.Store.Set(call.Account, call.Value); err != nil {
			return err
		}
		c.System.deposit(StorePallet, EventValueStored, &ValueStored{Account: call.Account, Value: call.Value})
		return nil

	case *VaneTransfer:
		who, err := ensureSigned(origin)
		if err != nil {
			return err
		}
		if call.Asset.IsHere() {
			err = c.transferKeepAlive(who, call.Payee, call.Amount)
		} else {
			var id uint32
			if id, err = c.assetClass(call.Asset); err == nil {
				err = c.assetTransferKeepAlive(id, who, call.Payee, call.Amount)
			}
		}
		if err != nil {
			return err
		}
		c.System.deposit(StorePallet, EventVaneTransfered, &VaneTransfered{Payer: who, Payee: call.Payee, Asset: call.Asset.String(), Amount: call.Amount})
		return nil
	}
	return errors.Wrapf(types.ErrDispatchFailed, "unhandled call %s", call)
}
