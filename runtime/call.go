// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

import (
	"fmt"

	"github.com/33cn/paraxcm/types"
	"github.com/33cn/paraxcm/xcm"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// 调用编码: pallet 序号, call 序号, 然后按字段顺序排列的 varint / bytes。
// 与 xcm 消息一样要求规范编码。

// pallet indices
const (
	PalletSystem   uint8 = 0
	PalletBalances uint8 = 1
	PalletMsgQueue uint8 = 2
	PalletXcm      uint8 = 3
	PalletStore    uint8 = 9
	PalletAssets   uint8 = 10
)

// call indices
const (
	callTransferKeepAlive uint8 = 3
	callForceTransfer     uint8 = 2

	callAssetMint             uint8 = 6
	callAssetBurn             uint8 = 7
	callAssetTransferKeepAlive uint8 = 9

	callTestStoring  uint8 = 0
	callVaneTransfer uint8 = 1
)

// call weights
var (
	transferWeight = types.NewWeight(50_000_000, 3_593)
	assetWeight    = types.NewWeight(40_000_000, 3_675)
	storeWeight    = types.NewWeight(10_000_000, 1_024)
)

// Call is a dispatchable call of a chain. The set is closed.
type Call interface {
	fmt.Stringer
	Weight() types.Weight
	index() (pallet, call uint8)
	encode(e *callEncoder)
}

// TransferKeepAlive moves native currency, keeping the sender alive.
type TransferKeepAlive struct {
	Dest  types.AccountID
	Value int64
}

// ForceTransfer moves native currency between any accounts. Root only.
type ForceTransfer struct {
	Source types.AccountID
	Dest   types.AccountID
	Value  int64
}

// AssetMint issues units of the class at Asset. Owner only.
type AssetMint struct {
	Asset       xcm.Location
	Beneficiary types.AccountID
	Amount      int64
}

// AssetBurn destroys units of the class at Asset held by Who. Owner only.
type AssetBurn struct {
	Asset  xcm.Location
	Who    types.AccountID
	Amount int64
}

// AssetTransferKeepAlive moves units of the class at Asset.
type AssetTransferKeepAlive struct {
	Asset  xcm.Location
	Target types.AccountID
	Amount int64
}

// TestStoring records Value for Account in the store pallet.
type TestStoring struct {
	Account types.AccountID
	Value   uint64
}

// VaneTransfer pays Amount of Asset from the caller to Payee. Asset is
// Here for the native currency.
type VaneTransfer struct {
	Payee  types.AccountID
	Asset  xcm.Location
	Amount int64
}

func (c *TransferKeepAlive) index() (uint8, uint8)      { return PalletBalances, callTransferKeepAlive }
func (c *ForceTransfer) index() (uint8, uint8)          { return PalletBalances, callForceTransfer }
func (c *AssetMint) index() (uint8, uint8)              { return PalletAssets, callAssetMint }
func (c *AssetBurn) index() (uint8, uint8)              { return PalletAssets, callAssetBurn }
func (c *AssetTransferKeepAlive) index() (uint8, uint8) { return PalletAssets, callAssetTransferKeepAlive }
func (c *TestStoring) index() (uint8, uint8)            { return PalletStore, callTestStoring }
func (c *VaneTransfer) index() (uint8, uint8)           { return PalletStore, callVaneTransfer }

// Weight implements executor.Call.
func (c *TransferKeepAlive) Weight() types.Weight      { return transferWeight }
func (c *ForceTransfer) Weight() types.Weight          { return transferWeight }
func (c *AssetMint) Weight() types.Weight              { return assetWeight }
func (c *AssetBurn) Weight() types.Weight              { return assetWeight }
func (c *AssetTransferKeepAlive) Weight() types.Weight { return assetWeight }
func (c *TestStoring) Weight() types.Weight            { return storeWeight }
func (c *VaneTransfer) Weight() types.Weight           { return transferWeight.Add(storeWeight) }

func (c *TransferKeepAlive) String() string {
	return fmt.Sprintf("Balances.transfer_keep_alive(%s, %d)", c.Dest, c.Value)
}

func (c *ForceTransfer) String() string {
	return fmt.Sprintf("Balances.force_transfer(%s, %s, %d)", c.Source, c.Dest, c.Value)
}

func (c *AssetMint) String() string {
	return fmt.Sprintf("Assets.mint(%s, %s, %d)", c.Asset, c.Beneficiary, c.Amount)
}

func (c *AssetBurn) String() string {
	return fmt.Sprintf("Assets.burn(%s, %s, %d)", c.Asset, c.Who, c.Amount)
}

func (c *AssetTransferKeepAlive) String() string {
	return fmt.Sprintf("Assets.transfer_keep_alive(%s, %s, %d)", c.Asset, c.Target, c.Amount)
}

func (c *TestStoring) String() string {
	return fmt.Sprintf("Store.test_storing(%s, %d)", c.Account, c.Value)
}

func (c *VaneTransfer) String() string {
	return fmt.Sprintf("Store.vane_transfer(%s, %s, %d)", c.Payee, c.Asset, c.Amount)
}

type callEncoder struct {
	buf []byte
}

func (e *callEncoder) uvarint(v uint64) { e.buf = protowire.AppendVarint(e.buf, v) }
func (e *callEncoder) amount(v int64)   { e.uvarint(protowire.EncodeZigZag(v)) }
func (e *callEncoder) bytes(b []byte)   { e.buf = protowire.AppendBytes(e.buf, b) }
func (e *callEncoder) account(a types.AccountID) {
	e.buf = append(e.buf, a[:]...)
}
func (e *callEncoder) location(l xcm.Location) { e.bytes(xcm.EncodeLocation(l)) }

func (c *TransferKeepAlive) encode(e *callEncoder) {
	e.account(c.Dest)
	e.amount(c.Value)
}

func (c *ForceTransfer) encode(e *callEncoder) {
	e.account(c.Source)
	e.account(c.Dest)
	e.amount(c.Value)
}

func (c *AssetMint) encode(e *callEncoder) {
	e.location(c.Asset)
	e.account(c.Beneficiary)
	e.amount(c.Amount)
}

func (c *AssetBurn) encode(e *callEncoder) {
	e.location(c.Asset)
	e.account(c.Who)
	e.amount(c.Amount)
}

func (c *AssetTransferKeepAlive) encode(e *callEncoder) {
	e.location(c.Asset)
	e.account(c.Target)
	e.amount(c.Amount)
}

func (c *TestStoring) encode(e *callEncoder) {
	e.account(c.Account)
	e.uvarint(c.Value)
}

func (c *VaneTransfer) encode(e *callEncoder) {
	e.account(c.Payee)
	e.location(c.Asset)
	e.amount(c.Amount)
}

// EncodeCall serializes a call for Transact.
func EncodeCall(c Call) []byte {
	e := &callEncoder{}
	pallet, call := c.index()
	e.uvarint(uint64(pallet))
	e.uvarint(uint64(call))
	c.encode(e)
	return e.buf
}

type callDecoder struct {
	buf []byte
	err error
}

func (d *callDecoder) fail(format string, args ...interface{}) {
	if d.err == nil {
		d.err = errors.Wrapf(types.ErrFailedToDecode, format, args...)
	}
	d.buf = nil
}

func (d *callDecoder) uvarint() uint64 {
	if d.err != nil {
		return 0
	}
	v, n := protowire.ConsumeVarint(d.buf)
	if n < 0 {
		d.fail("varint: %v", protowire.ParseError(n))
		return 0
	}
	if n != protowire.SizeVarint(v) {
		d.fail("non canonical varint")
		return 0
	}
	d.buf = d.buf[n:]
	return v
}

func (d *callDecoder) amount() int64 {
	return protowire.DecodeZigZag(d.uvarint())
}

func (d *callDecoder) account() types.AccountID {
	var a types.AccountID
	if d.err != nil {
		return a
	}
	if len(d.buf) < types.AccountIDLen {
		d.fail("short account")
		return a
	}
	copy(a[:], d.buf)
	d.buf = d.buf[types.AccountIDLen:]
	return a
}

func (d *callDecoder) location() xcm.Location {
	if d.err != nil {
		return xcm.Location{}
	}
	b, n := protowire.ConsumeBytes(d.buf)
	if n < 0 {
		d.fail("location: %v", protowire.ParseError(n))
		return xcm.Location{}
	}
	d.buf = d.buf[n:]
	l, err := xcm.DecodeLocation(b)
	if err != nil {
		d.fail("location: %v", err)
	}
	return l
}

// DecodeCall parses a call encoded by EncodeCall. Failures wrap
// ErrFailedToDecode.
func DecodeCall(b []byte) (Call, error) {
	d := &callDecoder{buf: b}
	pallet, index := d.uvarint(), d.uvarint()
	if d.err != nil {
		return nil, d.err
	}
	var c Call
	switch {
	case pallet == uint64(PalletBalances) && index == uint64(callTransferKeepAlive):
		c = &TransferKeepAlive{Dest: d.account(), Value: d.amount()}
	case pallet == uint64(PalletBalances) && index == uint64(callForceTransfer):
		c = &ForceTransfer{Source: d.account(), Dest: d.account(), Value: d.amount()}
	case pallet == uint64(PalletAssets) && index == uint64(callAssetMint):
		c = &AssetMint{Asset: d.location(), Beneficiary: d.account(), Amount: d.amount()}
	case pallet == uint64(PalletAssets) && index == uint64(callAssetBurn):
		c = &AssetBurn{Asset: d.location(), Who: d.account(), Amount: d.amount()}
	case pallet == uint64(PalletAssets) && index == uint64(callAssetTransferKeepAlive):
		c = &AssetTransferKeepAlive{Asset: d.location(), Target: d.account(), Amount: d.amount()}
	case pallet == uint64(PalletStore) && index == uint64(callTestStoring):
		c = &TestStoring{Account: d.account(), Value: d.uvarint()}
	case pallet == uint64(PalletStore) && index == uint64(callVaneTransfer):
		c = &VaneTransfer{Payee: d.account(), Asset: d.location(), Amount: d.amount()}
	default:
		return nil, errors.Wrapf(types.ErrFailedToDecode, "unknown call %d.%d", pallet, index)
	}
	if d.err == nil && len(d.buf) != 0 {
		d.fail("%d trailing bytes", len(d.buf))
	}
	if d.err != nil {
		return nil, d.err
	}
	return c, nil
}
