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

// XcmPallet events
const (
	EventSent      = "Sent"
	EventAttempted = "Attempted"
)

// Sent records a message handed to the router.
type Sent struct {
	Origin  xcm.Location
	Dest    xcm.Location
	Hash    [32]byte
	Message []string
}

// Attempted records a local execution.
type Attempted struct {
	Origin  xcm.Location
	Outcome executor.Outcome
}

// XcmPallet is the user facing entry to cross chain messaging.
type XcmPallet struct {
	c *Chain
}

// originLocation is the location local programs of origin run as.
func originLocation(origin executor.DispatchOrigin) (xcm.Location, error) {
	switch origin.Type {
	case executor.OriginRoot:
		return xcm.Here(), nil
	case executor.OriginSigned:
		return xcm.AccountLocation(xcm.AnyNetwork, origin.Account), nil
	case executor.OriginXcm:
		return origin.Location, nil
	}
	return xcm.Location{}, errors.Wrapf(types.ErrBadOrigin, "%s", origin)
}

// Send delivers msg to dest. A signed origin is narrowed into the message
// with DescendOrigin so dest sees the account rather than this chain.
func (p *XcmPallet) Send(origin executor.DispatchOrigin, dest xcm.Location, msg xcm.Xcm) ([32]byte, error) {
	loc, err := originLocation(origin)
	if err != nil {
		return [32]byte{}, err
	}
	if loc.Parents != 0 {
		return [32]byte{}, errors.Wrapf(types.ErrBadOrigin, "cannot send as %s", loc)
	}
	return p.SendXcm(loc.Interior, dest, msg)
}

// SendXcm sends msg to dest as interior, a location inside this chain.
func (p *XcmPallet) SendXcm(interior xcm.Junctions, dest xcm.Location, msg xcm.Xcm) ([32]byte, error) {
	if len(interior) > 0 {
		msg = append(xcm.Xcm{xcm.DescendOrigin{Interior: interior}}, msg...)
	}
	hash, err := p.c.router.SendXcm(dest, msg)
	if err != nil {
		return hash, err
	}
	p.c.System.deposit(XcmPalletName, EventSent, &Sent{
		Origin:  xcm.Location{Interior: interior},
		Dest:    dest,
		Hash:    hash,
		Message: msg.Names(),
	})
	return hash, nil
}

// Execute runs msg locally as origin within maxWeight. The weight is
// credited so the TakeWeightCredit barrier admits it.
func (p *XcmPallet) Execute(origin executor.DispatchOrigin, msg xcm.Xcm, maxWeight types.Weight) (executor.Outcome, error) {
	loc, err := originLocation(origin)
	if err != nil {
		return executor.Outcome{Kind: executor.Error, Err: err}, err
	}
	return p.execute(loc, msg, maxWeight), nil
}

func (p *XcmPallet) execute(loc xcm.Location, msg xcm.Xcm, maxWeight types.Weight) executor.Outcome {
	id := xcm.NewVersionedXcm(msg).Hash()
	out := p.c.exec.ExecuteWithCredit(loc, msg, id, maxWeight, maxWeight)
	p.c.System.deposit(XcmPalletName, EventAttempted, &Attempted{Origin: loc, Outcome: out})
	return out
}

func checkFeeItem(assets xcm.Assets, feeItem uint32) error {
	if len(assets) == 0 {
		return errors.Wrap(types.ErrAmount, "no assets")
	}
	if int(feeItem) >= len(assets) {
		return errors.Wrapf(types.ErrAmount, "fee item %d of %d assets", feeItem, len(assets))
	}
	return nil
}

// remoteTail is the program the destination runs after receiving assets:
// pay with fees, then deposit everything to beneficiary.
func remoteTail(fees xcm.Asset, n int, beneficiary xcm.Location) xcm.Xcm {
	return xcm.Xcm{
		xcm.BuyExecution{Fees: fees, WeightLimit: types.Unlimited},
		xcm.DepositAsset{Assets: xcm.AllCounted(uint32(n)), Beneficiary: beneficiary},
	}
}

// ReserveTransferAssets moves assets from origin into dest's sovereign
// account here, this chain being their reserve, and has dest credit the
// derivatives to beneficiary.
func (p *XcmPallet) ReserveTransferAssets(origin executor.DispatchOrigin, dest, beneficiary xcm.Location, assets xcm.Assets, feeItem uint32) (executor.Outcome, error) {
	loc, err := originLocation(origin)
	if err != nil {
		return executor.Outcome{Kind: executor.Error, Err: err}, err
	}
	if err := checkFeeItem(assets, feeItem); err != nil {
		return executor.Outcome{Kind: executor.Error, Err: err}, err
	}
	fees, err := assets[feeItem].Reanchored(dest, p.c.universe)
	if err != nil {
		return executor.Outcome{Kind: executor.Error, Err: err}, err
	}
	msg := xcm.Xcm{xcm.TransferReserveAsset{
		Assets: assets,
		Dest:   dest,
		Xcm:    remoteTail(fees, len(assets), beneficiary),
	}}
	weight, err := p.c.exec.Config().Weigher.Weight(msg)
	if err != nil {
		return executor.Outcome{Kind: executor.Error, Err: err}, err
	}
	out := p.execute(loc, msg, weight)
	if err := out.Ensure(); err != nil {
		return out, errors.Wrap(err, "local execution incomplete")
	}
	return out, nil
}

// ReserveWithdrawAssets returns derivatives to their reserve dest. The
// derivatives are burned here first, then dest is asked to release the
// originals from this chain's sovereign account to beneficiary.
func (p *XcmPallet) ReserveWithdrawAssets(origin executor.DispatchOrigin, dest, beneficiary xcm.Location, assets xcm.Assets, feeItem uint32) ([32]byte, error) {
	who, err := ensureSigned(origin)
	if err != nil {
		return [32]byte{}, err
	}
	if err := checkFeeItem(assets, feeItem); err != nil {
		return [32]byte{}, err
	}
	if _, _, err := p.c.router.route(dest); err != nil {
		return [32]byte{}, err
	}
	cfg := p.c.exec.Config()
	ids := make([]uint32, len(assets))
	for i, a := range assets {
		if a.Fun.NonFungible || a.ID.Kind != xcm.ConcreteKind {
			return [32]byte{}, errors.Wrapf(types.ErrAssetNotFound, "%s", a)
		}
		if cfg.IsReserve == nil || !cfg.IsReserve(a, dest) {
			return [32]byte{}, errors.Wrapf(types.ErrUntrustedReserveLocation, "%s is not the reserve of %s", dest, a.ID)
		}
		if ids[i], err = p.c.assetClass(a.ID.Location); err != nil {
			return [32]byte{}, err
		}
		if p.c.Assets.Balance(ids[i], who) < a.Fun.Amount {
			return [32]byte{}, errors.Wrapf(types.ErrNotWithdrawable, "%s holds less than %s", who, a)
		}
	}
	fees, err := assets[feeItem].Reanchored(dest, p.c.universe)
	if err != nil {
		return [32]byte{}, err
	}
	reanchored, err := assets.Reanchored(dest, p.c.universe)
	if err != nil {
		return [32]byte{}, err
	}
	for i, a := range assets {
		r, err := p.c.Assets.ParaAssetWithdraw(ids[i], who, a.Fun.Amount)
		if err != nil {
			return [32]byte{}, errors.Wrapf(types.ErrNotWithdrawable, "%s: %v", a, err)
		}
		p.c.System.DepositReceipt(r)
	}
	msg := append(xcm.Xcm{xcm.WithdrawAsset{Assets: reanchored}, xcm.ClearOrigin{}}, remoteTail(fees, len(assets), beneficiary)...)
	return p.SendXcm(nil, dest, msg)
}
