// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
实现平行链原生资产的账户操作
*/
package account

//package for account manger
//1. load from db
//2. save to db
//3. KVSet
//4. Transfer
//5. Mint / Burn
//6. Account balance query

import (
	"encoding/binary"
	"fmt"
	"strings"

	dbm "github.com/33cn/paraxcm/common/db"
	"github.com/33cn/paraxcm/types"
	log "github.com/inconshreveable/log15"
	"github.com/shopspring/decimal"
)

var alog = log.New("module", "account")

// DB is the native currency ledger of one chain.
type DB struct {
	db               dbm.KV
	accountKeyPerfix []byte
	issuanceKey      []byte
	symbol           string
}

// NewAccountDB 创建原生资产账户数据库
func NewAccountDB(symbol string, db dbm.KV) (*DB, error) {
	//symbol 中存在 "-", 那么创建失败
	if symbol == "" || strings.ContainsRune(symbol, '-') {
		return nil, types.ErrSymbolNameNotAllow
	}
	acc := &DB{symbol: symbol}
	acc.accountKeyPerfix = []byte(SymbolPrefix(symbol))
	acc.issuanceKey = []byte(fmt.Sprintf("mavl-balances-%s-issuance", symbol))
	acc.SetDB(db)
	return acc, nil
}

// SetDB 设置状态数据库
func (acc *DB) SetDB(db dbm.KV) *DB {
	acc.db = db
	return acc
}

// Symbol of the currency.
func (acc *DB) Symbol() string {
	return acc.symbol
}

// LoadAccount 加载账户，不存在时返回零余额账户
func (acc *DB) LoadAccount(addr types.AccountID) *Account {
	value, err := acc.db.Get(acc.AccountKey(addr))
	if err != nil {
		return &Account{Addr: addr}
	}
	var acc1 Account
	err = DecodeAccount(value, &acc1)
	if err != nil {
		panic(err) //数据库已经损坏
	}
	return &acc1
}

// FreeBalance returns the spendable balance of addr.
func (acc *DB) FreeBalance(addr types.AccountID) int64 {
	return acc.LoadAccount(addr).Balance
}

// CheckTransfer 检查转账是否可以执行
func (acc *DB) CheckTransfer(from, to types.AccountID, amount int64) error {
	if !types.CheckAmount(amount) {
		return types.ErrAmount
	}
	if from == to {
		return types.ErrSendSameToRecv
	}
	if acc.LoadAccount(from).Balance-amount < 0 {
		return types.ErrNoBalance
	}
	return nil
}

// Transfer 转账
func (acc *DB) Transfer(from, to types.AccountID, amount int64) (*types.Receipt, error) {
	if err := acc.CheckTransfer(from, to, amount); err != nil {
		return nil, err
	}
	accFrom := acc.LoadAccount(from)
	accTo := acc.LoadAccount(to)
	copyfrom := *accFrom
	copyto := *accTo

	balance, err := safeAdd(accTo.Balance, amount)
	if err != nil {
		return nil, err
	}
	accFrom.Balance -= amount
	accTo.Balance = balance

	receiptBalanceFrom := &ReceiptAccountTransfer{Prev: &copyfrom, Current: accFrom}
	receiptBalanceTo := &ReceiptAccountTransfer{Prev: &copyto, Current: accTo}
	acc.SaveAccount(accFrom)
	acc.SaveAccount(accTo)
	alog.Debug("Transfer", "symbol", acc.symbol, "from", from, "to", to, "amount", amount)
	return acc.transferReceipt(accFrom, accTo, receiptBalanceFrom, receiptBalanceTo), nil
}

// Mint credits addr with newly issued units.
func (acc *DB) Mint(addr types.AccountID, amount int64) (*types.Receipt, error) {
	if !types.CheckAmount(amount) {
		return nil, types.ErrAmount
	}
	return acc.depositBalance(addr, amount, types.TyLogDeposit)
}

// Burn debits addr and retires the units.
func (acc *DB) Burn(addr types.AccountID, amount int64) (*types.Receipt, error) {
	if !types.CheckAmount(amount) {
		return nil, types.ErrAmount
	}
	acc1 := acc.LoadAccount(addr)
	if acc1.Balance-amount < 0 {
		return nil, types.ErrNoBalance
	}
	copyacc := *acc1
	acc1.Balance -= amount
	acc.SaveAccount(acc1)
	acc.setIssuance(acc.TotalIssuance() - amount)
	log1 := &types.ReceiptLog{
		Ty:  types.TyLogWithdraw,
		Log: &ReceiptAccountTransfer{Prev: &copyacc, Current: acc1},
	}
	return &types.Receipt{
		Ty:   types.ExecOk,
		KV:   append(acc.GetKVSet(acc1), acc.issuanceKV()),
		Logs: []*types.ReceiptLog{log1},
	}, nil
}

func (acc *DB) depositBalance(addr types.AccountID, amount int64, ty int32) (*types.Receipt, error) {
	acc1 := acc.LoadAccount(addr)
	copyacc := *acc1
	balance, err := safeAdd(acc1.Balance, amount)
	if err != nil {
		return nil, err
	}
	issuance, err := safeAdd(acc.TotalIssuance(), amount)
	if err != nil {
		return nil, err
	}
	acc1.Balance = balance
	acc.SaveAccount(acc1)
	acc.setIssuance(issuance)
	log1 := &types.ReceiptLog{
		Ty:  ty,
		Log: &ReceiptAccountTransfer{Prev: &copyacc, Current: acc1},
	}
	return &types.Receipt{
		Ty:   types.ExecOk,
		KV:   append(acc.GetKVSet(acc1), acc.issuanceKV()),
		Logs: []*types.ReceiptLog{log1},
	}, nil
}

func (acc *DB) transferReceipt(accFrom, accTo *Account, receiptFrom, receiptTo *ReceiptAccountTransfer) *types.Receipt {
	ty := int32(types.TyLogTransfer)
	log1 := &types.ReceiptLog{Ty: ty, Log: receiptFrom}
	log2 := &types.ReceiptLog{Ty: ty, Log: receiptTo}
	kv := acc.GetKVSet(accFrom)
	kv = append(kv, acc.GetKVSet(accTo)...)
	return &types.Receipt{
		Ty:   types.ExecOk,
		KV:   kv,
		Logs: []*types.ReceiptLog{log1, log2},
	}
}

// TotalIssuance returns the units in existence.
func (acc *DB) TotalIssuance() int64 {
	value, err := acc.db.Get(acc.issuanceKey)
	if err != nil || len(value) != 8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(value))
}

func (acc *DB) setIssuance(v int64) {
	kv := issuanceValue(acc.issuanceKey, v)
	if err := acc.db.Set(kv.Key, kv.Value); err != nil {
		alog.Error("setIssuance", "symbol", acc.symbol, "err", err)
	}
}

func (acc *DB) issuanceKV() *types.KeyValue {
	return issuanceValue(acc.issuanceKey, acc.TotalIssuance())
}

func issuanceValue(key []byte, v int64) *types.KeyValue {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	return &types.KeyValue{Key: key, Value: buf[:]}
}

// SaveAccount 保存账户
func (acc *DB) SaveAccount(acc1 *Account) {
	set := acc.GetKVSet(acc1)
	for i := 0; i < len(set); i++ {
		if err := acc.db.Set(set[i].Key, set[i].Value); err != nil {
			alog.Error("SaveAccount", "addr", acc1.Addr, "err", err)
		}
	}
}

// GetKVSet 账户对应的 kv
func (acc *DB) GetKVSet(acc1 *Account) (kvset []*types.KeyValue) {
	kvset = append(kvset, &types.KeyValue{
		Key:   acc.AccountKey(acc1.Addr),
		Value: EncodeAccount(acc1),
	})
	return kvset
}

// LoadAccounts 批量加载账户
func (acc *DB) LoadAccounts(addrs []types.AccountID) []*Account {
	accs := make([]*Account, 0, len(addrs))
	for i := 0; i < len(addrs); i++ {
		accs = append(accs, acc.LoadAccount(addrs[i]))
	}
	return accs
}

// Accounts lists every stored account in key order.
func (acc *DB) Accounts() ([]*Account, error) {
	_, values, err := acc.db.PrefixScan(acc.accountKeyPerfix)
	if err != nil {
		return nil, err
	}
	accs := make([]*Account, 0, len(values))
	for _, v := range values {
		var a Account
		if err := DecodeAccount(v, &a); err != nil {
			return nil, err
		}
		accs = append(accs, &a)
	}
	return accs, nil
}

// AccountKey return the key of address in DB
func (acc *DB) AccountKey(addr types.AccountID) (key []byte) {
	key = append(key, acc.accountKeyPerfix...)
	key = append(key, addr[:]...)
	return key
}

// SymbolPrefix 原生资产账户 key 前缀
func SymbolPrefix(symbol string) string {
	return fmt.Sprintf("mavl-balances-%s-acc-", symbol)
}

// FormatAmount renders amount in whole units of a currency with decimals.
func FormatAmount(amount int64, decimals uint8) string {
	return decimal.New(amount, -int32(decimals)).String()
}
