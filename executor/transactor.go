// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"github.com/33cn/paraxcm/types"
	"github.com/33cn/paraxcm/xcm"
	"github.com/pkg/errors"
)

// TransactAsset moves assets between ledgers and holding.
type TransactAsset interface {
	Matches(what xcm.Asset) bool
	// Withdraw takes what out of who's account.
	Withdraw(what xcm.Asset, who xcm.Location) error
	// Deposit puts what into who's account.
	Deposit(what xcm.Asset, who xcm.Location) error
	// Transfer moves what between accounts without touching holding.
	Transfer(what xcm.Asset, from, to xcm.Location) error
}

// ReceiptSink receives the receipts of ledger mutations.
type ReceiptSink func(r *types.Receipt)

// NativeLedger is the native currency of a chain.
type NativeLedger interface {
	Transfer(from, to types.AccountID, amount int64) (*types.Receipt, error)
	Mint(who types.AccountID, amount int64) (*types.Receipt, error)
	Burn(who types.AccountID, amount int64) (*types.Receipt, error)
}

// AssetLedger is a multi-asset ledger indexed by class id.
type AssetLedger interface {
	AssetIDOf(location xcm.Location) (uint32, bool)
	Transfer(id uint32, from, to types.AccountID, amount int64) (*types.Receipt, error)
	Mint(id uint32, who types.AccountID, amount int64) (*types.Receipt, error)
	Burn(id uint32, who types.AccountID, amount int64) (*types.Receipt, error)
}

func emit(sink ReceiptSink, r *types.Receipt) {
	if sink != nil && r != nil {
		sink(r)
	}
}

func accountOf(accounts AccountConverter, l xcm.Location) (types.AccountID, error) {
	acc, err := accounts.Convert(l)
	if err != nil {
		return acc, errors.Wrapf(types.ErrAccountDerivationFailed, "%s: %v", l, err)
	}
	return acc, nil
}

// CurrencyAdapter transacts the native currency: withdraw burns, deposit
// mints, so value in holding is off the ledger.
type CurrencyAdapter struct {
	Ledger   NativeLedger
	ID       xcm.AssetID
	Accounts AccountConverter
	Receipts ReceiptSink
}

// Matches implements TransactAsset.
func (c *CurrencyAdapter) Matches(what xcm.Asset) bool {
	return what.IsFungible(&c.ID)
}

// Withdraw implements TransactAsset.
func (c *CurrencyAdapter) Withdraw(what xcm.Asset, who xcm.Location) error {
	acc, err := accountOf(c.Accounts, who)
	if err != nil {
		return err
	}
	r, err := c.Ledger.Burn(acc, what.Fun.Amount)
	if err != nil {
		return errors.Wrapf(types.ErrNotWithdrawable, "%s from %s: %v", what, who, err)
	}
	emit(c.Receipts, r)
	return nil
}

// Deposit implements TransactAsset.
func (c *CurrencyAdapter) Deposit(what xcm.Asset, who xcm.Location) error {
	acc, err := accountOf(c.Accounts, who)
	if err != nil {
		return err
	}
	r, err := c.Ledger.Mint(acc, what.Fun.Amount)
	if err != nil {
		return errors.Wrapf(types.ErrNotDepositable, "%s to %s: %v", what, who, err)
	}
	emit(c.Receipts, r)
	return nil
}

// Transfer implements TransactAsset.
func (c *CurrencyAdapter) Transfer(what xcm.Asset, from, to xcm.Location) error {
	src, err := accountOf(c.Accounts, from)
	if err != nil {
		return err
	}
	dst, err := accountOf(c.Accounts, to)
	if err != nil {
		return err
	}
	r, err := c.Ledger.Transfer(src, dst, what.Fun.Amount)
	if err != nil {
		return errors.Wrapf(types.ErrNotWithdrawable, "%s from %s to %s: %v", what, from, to, err)
	}
	emit(c.Receipts, r)
	return nil
}

// FungiblesAdapter transacts the classes of a multi-asset ledger. Classes
// anchored on another chain are derivatives: withdraw burns and deposit
// mints. Local classes are kept in custody by the checking account while
// in holding.
type FungiblesAdapter struct {
	Ledger          AssetLedger
	Accounts        AccountConverter
	CheckingAccount types.AccountID
	Receipts        ReceiptSink
}

func (f *FungiblesAdapter) class(what xcm.Asset) (uint32, bool) {
	if what.Fun.NonFungible || what.ID.Kind != xcm.ConcreteKind {
		return 0, false
	}
	return f.Ledger.AssetIDOf(what.ID.Location)
}

func isDerivative(what xcm.Asset) bool {
	return what.ID.Location.Parents > 0
}

// Matches implements TransactAsset.
func (f *FungiblesAdapter) Matches(what xcm.Asset) bool {
	_, ok := f.class(what)
	return ok
}

// Withdraw implements TransactAsset.
func (f *FungiblesAdapter) Withdraw(what xcm.Asset, who xcm.Location) error {
	id, ok := f.class(what)
	if !ok {
		return errors.Wrapf(types.ErrAssetNotFound, "%s", what.ID)
	}
	acc, err := accountOf(f.Accounts, who)
	if err != nil {
		return err
	}
	var r *types.Receipt
	if isDerivative(what) {
		r, err = f.Ledger.Burn(id, acc, what.Fun.Amount)
	} else {
		r, err = f.Ledger.Transfer(id, acc, f.CheckingAccount, what.Fun.Amount)
	}
	if err != nil {
		return errors.Wrapf(types.ErrNotWithdrawable, "%s from %s: %v", what, who, err)
	}
	emit(f.Receipts, r)
	return nil
}

// Deposit implements TransactAsset.
func (f *FungiblesAdapter) Deposit(what xcm.Asset, who xcm.Location) error {
	id, ok := f.class(what)
	if !ok {
		return errors.Wrapf(types.ErrAssetNotFound, "%s", what.ID)
	}
	acc, err := accountOf(f.Accounts, who)
	if err != nil {
		return err
	}
	var r *types.Receipt
	switch {
	case isDerivative(what):
		r, err = f.Ledger.Mint(id, acc, what.Fun.Amount)
	case acc == f.CheckingAccount:
		return nil
	default:
		r, err = f.Ledger.Transfer(id, f.CheckingAccount, acc, what.Fun.Amount)
	}
	if err != nil {
		return errors.Wrapf(types.ErrNotDepositable, "%s to %s: %v", what, who, err)
	}
	emit(f.Receipts, r)
	return nil
}

// Transfer implements TransactAsset.
func (f *FungiblesAdapter) Transfer(what xcm.Asset, from, to xcm.Location) error {
	id, ok := f.class(what)
	if !ok {
		return errors.Wrapf(types.ErrAssetNotFound, "%s", what.ID)
	}
	src, err := accountOf(f.Accounts, from)
	if err != nil {
		return err
	}
	dst, err := accountOf(f.Accounts, to)
	if err != nil {
		return err
	}
	r, err := f.Ledger.Transfer(id, src, dst, what.Fun.Amount)
	if err != nil {
		return errors.Wrapf(types.ErrNotWithdrawable, "%s from %s to %s: %v", what, from, to, err)
	}
	emit(f.Receipts, r)
	return nil
}

// Transactors routes each asset to the first member that matches it.
type Transactors []TransactAsset

func (ts Transactors) find(what xcm.Asset) (TransactAsset, error) {
	for _, t := range ts {
		if t.Matches(what) {
			return t, nil
		}
	}
	return nil, errors.Wrapf(types.ErrAssetNotFound, "no transactor for %s", what.ID)
}

// Matches implements TransactAsset.
func (ts Transactors) Matches(what xcm.Asset) bool {
	_, err := ts.find(what)
	return err == nil
}

// Withdraw implements TransactAsset.
func (ts Transactors) Withdraw(what xcm.Asset, who xcm.Location) error {
	t, err := ts.find(what)
	if err != nil {
		return err
	}
	return t.Withdraw(what, who)
}

// Deposit implements TransactAsset.
func (ts Transactors) Deposit(what xcm.Asset, who xcm.Location) error {
	t, err := ts.find(what)
	if err != nil {
		return err
	}
	return t.Deposit(what, who)
}

// Transfer implements TransactAsset.
func (ts Transactors) Transfer(what xcm.Asset, from, to xcm.Location) error {
	t, err := ts.find(what)
	if err != nil {
		return err
	}
	return t.Transfer(what, from, to)
}
