// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package account

import (
	"github.com/33cn/paraxcm/types"
)

func safeAdd(balance, amount int64) (int64, error) {
	if balance+amount < amount || balance+amount > types.MaxTokenBalance {
		return balance, types.ErrAmount
	}
	return balance + amount, nil
}

// GenesisInit 生成创世地址账户收据
func (acc *DB) GenesisInit(addr types.AccountID, amount int64) (receipt *types.Receipt, err error) {
	if amount == 0 {
		return &types.Receipt{Ty: types.ExecOk}, nil
	}
	if amount < 0 {
		return nil, types.ErrAmount
	}
	return acc.depositBalance(addr, amount, types.TyLogGenesis)
}

// GenesisInit 生成创世资产账户收据
func (a *AssetsDB) GenesisInit(id uint32, addr types.AccountID, amount int64) (*types.Receipt, error) {
	if amount == 0 {
		return &types.Receipt{Ty: types.ExecOk}, nil
	}
	receipt, err := a.Mint(id, addr, amount)
	if err != nil {
		return nil, err
	}
	for _, l := range receipt.Logs {
		if l.Ty == types.TyLogAssetMint {
			l.Ty = types.TyLogGenesis
		}
	}
	return receipt, nil
}
