// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package account

import (
	"github.com/33cn/paraxcm/types"
)

// 跨链资产:
// 1. 本链为储备链的资产, 出入通过 checking 账户托管
// 2. 其它链为储备链的衍生资产, 入账铸造, 出账销毁

// CheckingAccount holds local assets while they are in flight.
var CheckingAccount = types.PresetAccount([]byte("checking"))

// ParaAssetTransfer credits a derivative: the reserve holds the original,
// so units are minted here.
func (a *AssetsDB) ParaAssetTransfer(id uint32, to types.AccountID, amount int64) (*types.Receipt, error) {
	receipt, err := a.Mint(id, to, amount)
	if err != nil {
		alog.Error("ParaAssetTransfer", "id", id, "to", to, "amount", amount, "err", err)
		return nil, err
	}
	return receipt, nil
}

// ParaAssetWithdraw debits a derivative by burning it.
func (a *AssetsDB) ParaAssetWithdraw(id uint32, from types.AccountID, amount int64) (*types.Receipt, error) {
	receipt, err := a.Burn(id, from, amount)
	if err != nil {
		alog.Error("ParaAssetWithdraw", "id", id, "from", from, "amount", amount, "err", err)
		return nil, err
	}
	return receipt, nil
}

// LockAsset moves a local asset from an account into custody.
func (a *AssetsDB) LockAsset(id uint32, from types.AccountID, amount int64) (*types.Receipt, error) {
	return a.Transfer(id, from, CheckingAccount, amount)
}

// ReleaseAsset moves a local asset out of custody.
func (a *AssetsDB) ReleaseAsset(id uint32, to types.AccountID, amount int64) (*types.Receipt, error) {
	if to == CheckingAccount {
		return &types.Receipt{Ty: types.ExecOk}, nil
	}
	return a.Transfer(id, CheckingAccount, to, amount)
}
