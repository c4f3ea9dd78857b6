// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xcm

import (
	"math"

	"github.com/33cn/paraxcm/common"
	"github.com/33cn/paraxcm/types"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// 编码格式: 按字段顺序排列的 varint / bytes，无字段号。
// 解码要求编码是规范的 (varint 最短, 无多余字节)，保证 Encode(Decode(b)) == b。

// MaxXcmDepth bounds the nesting of programs inside instructions.
const MaxXcmDepth = 8

// Encode serializes a versioned program.
func Encode(v VersionedXcm) []byte {
	e := &encoder{}
	e.uvarint(uint64(v.Version))
	e.xcm(v.Message)
	return e.buf
}

// Decode parses a versioned program. An unsupported version yields
// ErrBadVersion; any other malformation yields ErrBadFormat.
func Decode(b []byte) (VersionedXcm, error) {
	d := &decoder{buf: b}
	version := d.uvarint()
	if d.err != nil {
		return VersionedXcm{}, d.err
	}
	if version != uint64(CurrentVersion) {
		return VersionedXcm{}, errors.Wrapf(types.ErrBadVersion, "version %d", version)
	}
	x := d.xcm(0)
	if d.err == nil && len(d.buf) != 0 {
		d.fail("%d trailing bytes", len(d.buf))
	}
	if d.err != nil {
		return VersionedXcm{}, d.err
	}
	return VersionedXcm{Version: uint8(version), Message: x}, nil
}

// Hash is the blake2b-256 digest of the encoded program.
func (v VersionedXcm) Hash() [32]byte {
	return common.Blake2b256(Encode(v))
}

// EncodeLocation serializes a location.
func EncodeLocation(l Location) []byte {
	e := &encoder{}
	e.location(l)
	return e.buf
}

// DecodeLocation parses a location encoded by EncodeLocation.
func DecodeLocation(b []byte) (Location, error) {
	d := &decoder{buf: b}
	l := d.location()
	if d.err == nil && len(d.buf) != 0 {
		d.fail("%d trailing bytes", len(d.buf))
	}
	return l, d.err
}

type encoder struct {
	buf []byte
}

func (e *encoder) uvarint(v uint64) { e.buf = protowire.AppendVarint(e.buf, v) }
func (e *encoder) bytes(b []byte)   { e.buf = protowire.AppendBytes(e.buf, b) }
func (e *encoder) raw(b []byte)     { e.buf = append(e.buf, b...) }

func (e *encoder) bool(v bool) {
	if v {
		e.uvarint(1)
	} else {
		e.uvarint(0)
	}
}

func (e *encoder) junction(j Junction) {
	e.uvarint(uint64(j.junctionTag()))
	switch j := j.(type) {
	case Parachain:
		e.uvarint(uint64(j.ID))
	case AccountID32:
		e.uvarint(uint64(j.Network))
		e.raw(j.ID[:])
	case AccountKey20:
		e.uvarint(uint64(j.Network))
		e.raw(j.Key[:])
	case PalletInstance:
		e.uvarint(uint64(j.Index))
	case GeneralIndex:
		e.uvarint(j.Index)
	case GeneralKey:
		e.bytes(j.Data[:j.Length])
	case OnlyChild:
	}
}

func (e *encoder) location(l Location) {
	e.uvarint(uint64(l.Parents))
	e.uvarint(uint64(len(l.Interior)))
	for _, j := range l.Interior {
		e.junction(j)
	}
}

func (e *encoder) assetID(id AssetID) {
	e.uvarint(uint64(id.Kind))
	if id.Kind == ConcreteKind {
		e.location(id.Location)
	} else {
		e.raw(id.Abstract[:])
	}
}

func (e *encoder) asset(a Asset) {
	e.assetID(a.ID)
	e.bool(a.Fun.NonFungible)
	if a.Fun.NonFungible {
		e.uvarint(a.Fun.Instance)
	} else {
		e.uvarint(uint64(a.Fun.Amount))
	}
}

func (e *encoder) assets(as Assets) {
	e.uvarint(uint64(len(as)))
	for _, a := range as {
		e.asset(a)
	}
}

func (e *encoder) filter(f AssetFilter) {
	e.bool(f.Wild != nil)
	if f.Wild == nil {
		e.assets(f.Definite)
		return
	}
	w := f.Wild
	e.uvarint(uint64(w.Kind))
	switch w.Kind {
	case WildAllOf:
		e.assetID(w.ID)
		e.bool(w.NonFungible)
	case WildAllCounted:
		e.uvarint(uint64(w.Count))
	case WildAllOfCounted:
		e.assetID(w.ID)
		e.bool(w.NonFungible)
		e.uvarint(uint64(w.Count))
	}
}

func (e *encoder) weight(w types.Weight) {
	e.uvarint(w.RefTime)
	e.uvarint(w.ProofSize)
}

func (e *encoder) weightLimit(l types.WeightLimit) {
	e.bool(l.Limit != nil)
	if l.Limit != nil {
		e.weight(*l.Limit)
	}
}

func (e *encoder) xcm(x Xcm) {
	e.uvarint(uint64(len(x)))
	for _, in := range x {
		e.instruction(in)
	}
}

func (e *encoder) instruction(in Instruction) {
	e.uvarint(uint64(in.opcode()))
	switch in := in.(type) {
	case WithdrawAsset:
		e.assets(in.Assets)
	case ReserveAssetDeposited:
		e.assets(in.Assets)
	case DescendOrigin:
		e.location(Location{Interior: in.Interior})
	case TransferAsset:
		e.assets(in.Assets)
		e.location(in.Beneficiary)
	case TransferReserveAsset:
		e.assets(in.Assets)
		e.location(in.Dest)
		e.xcm(in.Xcm)
	case DepositAsset:
		e.filter(in.Assets)
		e.location(in.Beneficiary)
	case DepositReserveAsset:
		e.filter(in.Assets)
		e.location(in.Dest)
		e.xcm(in.Xcm)
	case InitiateReserveWithdraw:
		e.filter(in.Assets)
		e.location(in.Reserve)
		e.xcm(in.Xcm)
	case Transact:
		e.uvarint(uint64(in.OriginKind))
		e.weight(in.RequireWeightAtMost)
		e.bytes(in.Call)
	case BuyExecution:
		e.asset(in.Fees)
		e.weightLimit(in.WeightLimit)
	case SetErrorHandler:
		e.xcm(in.Xcm)
	case SetAppendix:
		e.xcm(in.Xcm)
	case Trap:
		e.uvarint(in.Code)
	case ExpectTransactStatus:
		e.bool(in.Status.Failed)
		if in.Status.Failed {
			e.bytes(in.Status.Code)
		}
	case UnpaidExecution:
		e.weightLimit(in.WeightLimit)
		e.bool(in.CheckOrigin != nil)
		if in.CheckOrigin != nil {
			e.location(*in.CheckOrigin)
		}
	case AliasOrigin:
		e.location(in.Location)
	case ClearOrigin, RefundSurplus, ClearError, ClearTransactStatus, Noop:
	}
}

type decoder struct {
	buf []byte
	err error
}

func (d *decoder) fail(format string, args ...interface{}) {
	if d.err == nil {
		d.err = errors.Wrapf(types.ErrBadFormat, format, args...)
	}
}

func (d *decoder) uvarint() uint64 {
	if d.err != nil {
		return 0
	}
	v, n := protowire.ConsumeVarint(d.buf)
	if n < 0 {
		d.fail("varint: %v", protowire.ParseError(n))
		return 0
	}
	if n != protowire.SizeVarint(v) {
		d.fail("non-minimal varint")
		return 0
	}
	d.buf = d.buf[n:]
	return v
}

func (d *decoder) bounded(max uint64, what string) uint64 {
	v := d.uvarint()
	if v > max {
		d.fail("%s %d out of range", what, v)
		return 0
	}
	return v
}

func (d *decoder) bool() bool {
	return d.bounded(1, "bool") == 1
}

func (d *decoder) bytes() []byte {
	if d.err != nil {
		return nil
	}
	v, n := protowire.ConsumeBytes(d.buf)
	if n < 0 {
		d.fail("bytes: %v", protowire.ParseError(n))
		return nil
	}
	if n != protowire.SizeBytes(len(v)) {
		d.fail("non-minimal length")
		return nil
	}
	d.buf = d.buf[n:]
	return common.CopyBytes(v)
}

func (d *decoder) raw(out []byte) {
	if d.err != nil {
		return
	}
	if len(d.buf) < len(out) {
		d.fail("short read")
		return
	}
	copy(out, d.buf)
	d.buf = d.buf[len(out):]
}

// count reads a list length; every element takes at least one byte.
func (d *decoder) count() int {
	return int(d.bounded(uint64(len(d.buf)), "count"))
}

func (d *decoder) junction() Junction {
	tag := d.bounded(uint64(tagOnlyChild), "junction tag")
	switch uint8(tag) {
	case tagParachain:
		return Parachain{ID: uint32(d.bounded(math.MaxUint32, "para id"))}
	case tagAccountID32:
		j := AccountID32{Network: NetworkID(d.bounded(math.MaxUint8, "network"))}
		d.raw(j.ID[:])
		return j
	case tagAccountKey20:
		j := AccountKey20{Network: NetworkID(d.bounded(math.MaxUint8, "network"))}
		d.raw(j.Key[:])
		return j
	case tagPalletInstance:
		return PalletInstance{Index: uint8(d.bounded(math.MaxUint8, "pallet"))}
	case tagGeneralIndex:
		return GeneralIndex{Index: d.uvarint()}
	case tagGeneralKey:
		b := d.bytes()
		k, err := NewGeneralKey(b)
		if err != nil {
			d.fail("general key of %d bytes", len(b))
		}
		return k
	}
	return OnlyChild{}
}

func (d *decoder) location() Location {
	l := Location{Parents: uint8(d.bounded(math.MaxUint8, "parents"))}
	n := int(d.bounded(MaxJunctions, "junctions"))
	if n > 0 {
		l.Interior = make(Junctions, 0, n)
	}
	for i := 0; i < n && d.err == nil; i++ {
		l.Interior = append(l.Interior, d.junction())
	}
	return l
}

func (d *decoder) assetID() AssetID {
	switch AssetIDKind(d.bounded(uint64(AbstractKind), "asset id kind")) {
	case ConcreteKind:
		return Concrete(d.location())
	default:
		id := AssetID{Kind: AbstractKind}
		d.raw(id.Abstract[:])
		return id
	}
}

func (d *decoder) asset() Asset {
	a := Asset{ID: d.assetID()}
	if d.bool() {
		a.Fun = NonFungible(d.uvarint())
	} else {
		a.Fun = Fungible(int64(d.bounded(math.MaxInt64, "amount")))
	}
	return a
}

func (d *decoder) assets() Assets {
	n := d.count()
	var as Assets
	for i := 0; i < n && d.err == nil; i++ {
		as = append(as, d.asset())
	}
	return as
}

func (d *decoder) filter() AssetFilter {
	if !d.bool() {
		return Definite(d.assets())
	}
	w := &WildAsset{Kind: WildKind(d.bounded(uint64(WildAllOfCounted), "wild kind"))}
	switch w.Kind {
	case WildAllOf:
		w.ID = d.assetID()
		w.NonFungible = d.bool()
	case WildAllCounted:
		w.Count = uint32(d.bounded(math.MaxUint32, "count"))
	case WildAllOfCounted:
		w.ID = d.assetID()
		w.NonFungible = d.bool()
		w.Count = uint32(d.bounded(math.MaxUint32, "count"))
	}
	return AssetFilter{Wild: w}
}

func (d *decoder) weight() types.Weight {
	return types.Weight{RefTime: d.uvarint(), ProofSize: d.uvarint()}
}

func (d *decoder) weightLimit() types.WeightLimit {
	if d.bool() {
		return types.Limited(d.weight())
	}
	return types.Unlimited
}

func (d *decoder) xcm(depth int) Xcm {
	if depth > MaxXcmDepth {
		d.fail("program nested deeper than %d", MaxXcmDepth)
		return nil
	}
	n := d.count()
	x := make(Xcm, 0, n)
	for i := 0; i < n && d.err == nil; i++ {
		x = append(x, d.instruction(depth))
	}
	return x
}

func (d *decoder) instruction(depth int) Instruction {
	op := d.bounded(uint64(opNoop), "opcode")
	if d.err != nil {
		return Noop{}
	}
	switch uint8(op) {
	case opWithdrawAsset:
		return WithdrawAsset{Assets: d.assets()}
	case opReserveAssetDeposited:
		return ReserveAssetDeposited{Assets: d.assets()}
	case opClearOrigin:
		return ClearOrigin{}
	case opDescendOrigin:
		l := d.location()
		if l.Parents != 0 {
			d.fail("descend origin with parents %d", l.Parents)
		}
		return DescendOrigin{Interior: l.Interior}
	case opTransferAsset:
		return TransferAsset{Assets: d.assets(), Beneficiary: d.location()}
	case opTransferReserveAsset:
		return TransferReserveAsset{Assets: d.assets(), Dest: d.location(), Xcm: d.xcm(depth + 1)}
	case opDepositAsset:
		return DepositAsset{Assets: d.filter(), Beneficiary: d.location()}
	case opDepositReserveAsset:
		return DepositReserveAsset{Assets: d.filter(), Dest: d.location(), Xcm: d.xcm(depth + 1)}
	case opInitiateReserveWithdraw:
		return InitiateReserveWithdraw{Assets: d.filter(), Reserve: d.location(), Xcm: d.xcm(depth + 1)}
	case opTransact:
		return Transact{
			OriginKind:          OriginKind(d.bounded(uint64(OriginXcm), "origin kind")),
			RequireWeightAtMost: d.weight(),
			Call:                d.bytes(),
		}
	case opBuyExecution:
		return BuyExecution{Fees: d.asset(), WeightLimit: d.weightLimit()}
	case opRefundSurplus:
		return RefundSurplus{}
	case opSetErrorHandler:
		return SetErrorHandler{Xcm: d.xcm(depth + 1)}
	case opSetAppendix:
		return SetAppendix{Xcm: d.xcm(depth + 1)}
	case opClearError:
		return ClearError{}
	case opTrap:
		return Trap{Code: d.uvarint()}
	case opExpectTransactStatus:
		if d.bool() {
			return ExpectTransactStatus{Status: ErrorCode(d.bytes())}
		}
		return ExpectTransactStatus{Status: Success}
	case opClearTransactStatus:
		return ClearTransactStatus{}
	case opUnpaidExecution:
		in := UnpaidExecution{WeightLimit: d.weightLimit()}
		if d.bool() {
			l := d.location()
			in.CheckOrigin = &l
		}
		return in
	case opAliasOrigin:
		return AliasOrigin{Location: d.location()}
	}
	return Noop{}
}
