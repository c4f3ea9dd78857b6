// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package account

import (
	"encoding/binary"

	dbm "github.com/33cn/paraxcm/common/db"
	"github.com/33cn/paraxcm/types"
	"github.com/33cn/paraxcm/xcm"
	"github.com/pkg/errors"
)

// 多资产账本 key 前缀
const (
	assetDetailPrefix = "mavl-assets-detail-"
	assetMetaPrefix   = "mavl-assets-meta-"
	assetLocPrefix    = "mavl-assets-loc-"
	assetAccPrefix    = "mavl-assets-acc-"
)

// AssetsDB is an id indexed multi-asset ledger. Each class has an owner
// that is also its issuer and admin.
type AssetsDB struct {
	db dbm.KV
}

// NewAssetsDB 创建多资产账本
func NewAssetsDB(db dbm.KV) *AssetsDB {
	return &AssetsDB{db: db}
}

func idBytes(id uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], id)
	return b[:]
}

func detailKey(id uint32) []byte { return append([]byte(assetDetailPrefix), idBytes(id)...) }
func metaKey(id uint32) []byte   { return append([]byte(assetMetaPrefix), idBytes(id)...) }

func locKey(l xcm.Location) []byte {
	return append([]byte(assetLocPrefix), xcm.EncodeLocation(l)...)
}

func assetAccPrefixOf(id uint32) []byte {
	key := append([]byte(assetAccPrefix), idBytes(id)...)
	return append(key, '-')
}

// AssetAccountKey is the storage key of who's balance of class id.
func AssetAccountKey(id uint32, who types.AccountID) []byte {
	return append(assetAccPrefixOf(id), who[:]...)
}

func (a *AssetsDB) set(kv []*types.KeyValue) {
	for _, e := range kv {
		if err := a.db.Set(e.Key, e.Value); err != nil {
			alog.Error("AssetsDB set", "err", err)
		}
	}
}

// ForceCreate registers class id anchored at location.
func (a *AssetsDB) ForceCreate(id uint32, location xcm.Location, owner types.AccountID, minBalance int64) (*types.Receipt, error) {
	if minBalance <= 0 {
		return nil, types.ErrAmount
	}
	if _, err := a.db.Get(detailKey(id)); err == nil {
		return nil, errors.Wrapf(types.ErrAssetExists, "asset %d", id)
	}
	if _, ok := a.AssetIDOf(location); ok {
		return nil, errors.Wrapf(types.ErrAssetExists, "location %s", location)
	}
	d := &AssetDetails{ID: id, Location: location, Owner: owner, MinBalance: minBalance}
	kv := []*types.KeyValue{
		{Key: detailKey(id), Value: encodeDetails(d)},
		{Key: locKey(location), Value: idBytes(id)},
	}
	a.set(kv)
	alog.Info("ForceCreate", "id", id, "location", location, "owner", owner)
	return &types.Receipt{
		Ty:   types.ExecOk,
		KV:   kv,
		Logs: []*types.ReceiptLog{{Ty: types.TyLogAssetCreate, Log: &ReceiptAsset{Current: d}}},
	}, nil
}

// SetMetadata stores the display data of class id.
func (a *AssetsDB) SetMetadata(id uint32, name, symbol string, decimals uint8) (*types.Receipt, error) {
	if _, err := a.Details(id); err != nil {
		return nil, err
	}
	m := &AssetMetadata{Name: name, Symbol: symbol, Decimals: decimals}
	kv := []*types.KeyValue{{Key: metaKey(id), Value: encodeMetadata(m)}}
	a.set(kv)
	return &types.Receipt{
		Ty:   types.ExecOk,
		KV:   kv,
		Logs: []*types.ReceiptLog{{Ty: types.TyLogAssetMeta, Log: m}},
	}, nil
}

// Details returns the class record of id.
func (a *AssetsDB) Details(id uint32) (*AssetDetails, error) {
	value, err := a.db.Get(detailKey(id))
	if err != nil {
		return nil, errors.Wrapf(types.ErrUnknownAsset, "asset %d", id)
	}
	var d AssetDetails
	if err := decodeDetails(value, &d); err != nil {
		panic(err) //数据库已经损坏
	}
	return &d, nil
}

// Metadata returns the display data of id, empty when unset.
func (a *AssetsDB) Metadata(id uint32) (*AssetMetadata, error) {
	if _, err := a.Details(id); err != nil {
		return nil, err
	}
	var m AssetMetadata
	value, err := a.db.Get(metaKey(id))
	if err != nil {
		return &m, nil
	}
	if err := decodeMetadata(value, &m); err != nil {
		panic(err)
	}
	return &m, nil
}

// AssetIDOf looks up the class anchored at location.
func (a *AssetsDB) AssetIDOf(location xcm.Location) (uint32, bool) {
	value, err := a.db.Get(locKey(location))
	if err != nil || len(value) != 4 {
		return 0, false
	}
	return binary.BigEndian.Uint32(value), true
}

// Balance returns who's balance of class id.
func (a *AssetsDB) Balance(id uint32, who types.AccountID) int64 {
	return a.loadAccount(id, who).Balance
}

func (a *AssetsDB) loadAccount(id uint32, who types.AccountID) *Account {
	value, err := a.db.Get(AssetAccountKey(id, who))
	if err != nil {
		return &Account{Addr: who}
	}
	var acc Account
	if err := DecodeAccount(value, &acc); err != nil {
		panic(err) //数据库已经损坏
	}
	return &acc
}

func (a *AssetsDB) accountKV(id uint32, acc *Account) *types.KeyValue {
	return &types.KeyValue{Key: AssetAccountKey(id, acc.Addr), Value: EncodeAccount(acc)}
}

func checkBalance(d *AssetDetails, balance int64) error {
	if balance > 0 && balance < d.MinBalance {
		return errors.Wrapf(types.ErrBelowMinBalance, "asset %d balance %d", d.ID, balance)
	}
	return nil
}

// Mint issues amount of class id to who.
func (a *AssetsDB) Mint(id uint32, who types.AccountID, amount int64) (*types.Receipt, error) {
	if !types.CheckAmount(amount) {
		return nil, types.ErrAmount
	}
	d, err := a.Details(id)
	if err != nil {
		return nil, err
	}
	acc := a.loadAccount(id, who)
	prev := *acc
	if acc.Balance, err = safeAdd(acc.Balance, amount); err != nil {
		return nil, err
	}
	if err := checkBalance(d, acc.Balance); err != nil {
		return nil, err
	}
	prevD := *d
	if d.Supply, err = safeAdd(d.Supply, amount); err != nil {
		return nil, errors.Wrapf(types.ErrOverflow, "asset %d supply", id)
	}
	kv := []*types.KeyValue{a.accountKV(id, acc), {Key: detailKey(id), Value: encodeDetails(d)}}
	a.set(kv)
	return &types.Receipt{
		Ty: types.ExecOk,
		KV: kv,
		Logs: []*types.ReceiptLog{
			{Ty: types.TyLogAssetMint, Log: &ReceiptAssetTransfer{AssetID: id, Prev: &prev, Current: acc}},
			{Ty: types.TyLogAssetMint, Log: &ReceiptAsset{Prev: &prevD, Current: d}},
		},
	}, nil
}

// Burn destroys amount of class id held by who.
func (a *AssetsDB) Burn(id uint32, who types.AccountID, amount int64) (*types.Receipt, error) {
	if !types.CheckAmount(amount) {
		return nil, types.ErrAmount
	}
	d, err := a.Details(id)
	if err != nil {
		return nil, err
	}
	acc := a.loadAccount(id, who)
	if acc.Balance < amount {
		return nil, errors.Wrapf(types.ErrNoBalance, "asset %d balance %d burn %d", id, acc.Balance, amount)
	}
	prev := *acc
	acc.Balance -= amount
	if err := checkBalance(d, acc.Balance); err != nil {
		return nil, err
	}
	prevD := *d
	d.Supply -= amount
	kv := []*types.KeyValue{a.accountKV(id, acc), {Key: detailKey(id), Value: encodeDetails(d)}}
	a.set(kv)
	return &types.Receipt{
		Ty: types.ExecOk,
		KV: kv,
		Logs: []*types.ReceiptLog{
			{Ty: types.TyLogAssetBurn, Log: &ReceiptAssetTransfer{AssetID: id, Prev: &prev, Current: acc}},
			{Ty: types.TyLogAssetBurn, Log: &ReceiptAsset{Prev: &prevD, Current: d}},
		},
	}, nil
}

// Transfer moves amount of class id between accounts. Supply is unchanged.
func (a *AssetsDB) Transfer(id uint32, from, to types.AccountID, amount int64) (*types.Receipt, error) {
	if !types.CheckAmount(amount) {
		return nil, types.ErrAmount
	}
	if from == to {
		return nil, types.ErrSendSameToRecv
	}
	d, err := a.Details(id)
	if err != nil {
		return nil, err
	}
	accFrom := a.loadAccount(id, from)
	accTo := a.loadAccount(id, to)
	if accFrom.Balance < amount {
		return nil, errors.Wrapf(types.ErrNoBalance, "asset %d balance %d transfer %d", id, accFrom.Balance, amount)
	}
	prevFrom, prevTo := *accFrom, *accTo
	accFrom.Balance -= amount
	if accTo.Balance, err = safeAdd(accTo.Balance, amount); err != nil {
		return nil, err
	}
	if err := checkBalance(d, accFrom.Balance); err != nil {
		return nil, err
	}
	if err := checkBalance(d, accTo.Balance); err != nil {
		return nil, err
	}
	kv := []*types.KeyValue{a.accountKV(id, accFrom), a.accountKV(id, accTo)}
	a.set(kv)
	return &types.Receipt{
		Ty: types.ExecOk,
		KV: kv,
		Logs: []*types.ReceiptLog{
			{Ty: types.TyLogAssetMove, Log: &ReceiptAssetTransfer{AssetID: id, Prev: &prevFrom, Current: accFrom}},
			{Ty: types.TyLogAssetMove, Log: &ReceiptAssetTransfer{AssetID: id, Prev: &prevTo, Current: accTo}},
		},
	}, nil
}

// TotalIssuance is the recorded supply of class id.
func (a *AssetsDB) TotalIssuance(id uint32) (int64, error) {
	d, err := a.Details(id)
	if err != nil {
		return 0, err
	}
	return d.Supply, nil
}

// TotalSupply sums every stored balance of class id. It equals
// TotalIssuance while the ledger is consistent.
func (a *AssetsDB) TotalSupply(id uint32) (int64, error) {
	if _, err := a.Details(id); err != nil {
		return 0, err
	}
	_, values, err := a.db.PrefixScan(assetAccPrefixOf(id))
	if err != nil {
		return 0, err
	}
	total := int64(0)
	for _, v := range values {
		var acc Account
		if err := DecodeAccount(v, &acc); err != nil {
			return 0, err
		}
		total += acc.Balance
	}
	return total, nil
}

// Classes lists every registered class in id order.
func (a *AssetsDB) Classes() ([]*AssetDetails, error) {
	_, values, err := a.db.PrefixScan([]byte(assetDetailPrefix))
	if err != nil {
		return nil, err
	}
	out := make([]*AssetDetails, 0, len(values))
	for _, v := range values {
		var d AssetDetails
		if err := decodeDetails(v, &d); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, nil
}
