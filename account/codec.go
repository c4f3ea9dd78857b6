// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package account

import (
	"github.com/33cn/paraxcm/types"
	"github.com/33cn/paraxcm/xcm"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// 账户记录使用 protobuf wire 格式存储

// Account is one balance record.
type Account struct {
	Addr    types.AccountID
	Balance int64
	Frozen  int64
}

// ReceiptAccountTransfer is the log of one balance change.
type ReceiptAccountTransfer struct {
	Prev    *Account
	Current *Account
}

// AssetDetails describes one class of the multi-asset ledger.
type AssetDetails struct {
	ID         uint32
	Location   xcm.Location
	Owner      types.AccountID
	Supply     int64
	MinBalance int64
}

// AssetMetadata is the display data of a class.
type AssetMetadata struct {
	Name     string
	Symbol   string
	Decimals uint8
}

// ReceiptAsset is the log of a class level change.
type ReceiptAsset struct {
	Prev    *AssetDetails
	Current *AssetDetails
}

// ReceiptAssetTransfer is the log of one asset balance change.
type ReceiptAssetTransfer struct {
	AssetID uint32
	Prev    *Account
	Current *Account
}

func appendBytesField(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendVarintField(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

// field walks the fields of a record, calling fn with each value.
func fields(b []byte, fn func(num protowire.Number, v uint64, bs []byte) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return errors.Wrap(protowire.ParseError(n), "tag")
		}
		b = b[n:]
		var (
			v  uint64
			bs []byte
		)
		switch typ {
		case protowire.VarintType:
			v, n = protowire.ConsumeVarint(b)
		case protowire.BytesType:
			bs, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return errors.Wrapf(protowire.ParseError(n), "field %d", num)
		}
		b = b[n:]
		if err := fn(num, v, bs); err != nil {
			return err
		}
	}
	return nil
}

// EncodeAccount 编码账户记录
func EncodeAccount(acc *Account) []byte {
	var b []byte
	b = appendBytesField(b, 1, acc.Addr[:])
	b = appendVarintField(b, 2, uint64(acc.Balance))
	b = appendVarintField(b, 3, uint64(acc.Frozen))
	return b
}

// DecodeAccount 解码账户记录
func DecodeAccount(b []byte, acc *Account) error {
	return fields(b, func(num protowire.Number, v uint64, bs []byte) error {
		switch num {
		case 1:
			a, err := types.AccountFromBytes(bs)
			if err != nil {
				return err
			}
			acc.Addr = a
		case 2:
			acc.Balance = int64(v)
		case 3:
			acc.Frozen = int64(v)
		}
		return nil
	})
}

func encodeDetails(d *AssetDetails) []byte {
	var b []byte
	b = appendVarintField(b, 1, uint64(d.ID))
	b = appendBytesField(b, 2, xcm.EncodeLocation(d.Location))
	b = appendBytesField(b, 3, d.Owner[:])
	b = appendVarintField(b, 4, uint64(d.Supply))
	b = appendVarintField(b, 5, uint64(d.MinBalance))
	return b
}

func decodeDetails(b []byte, d *AssetDetails) error {
	return fields(b, func(num protowire.Number, v uint64, bs []byte) (err error) {
		switch num {
		case 1:
			d.ID = uint32(v)
		case 2:
			d.Location, err = xcm.DecodeLocation(bs)
		case 3:
			d.Owner, err = types.AccountFromBytes(bs)
		case 4:
			d.Supply = int64(v)
		case 5:
			d.MinBalance = int64(v)
		}
		return err
	})
}

func encodeMetadata(m *AssetMetadata) []byte {
	var b []byte
	b = appendBytesField(b, 1, []byte(m.Name))
	b = appendBytesField(b, 2, []byte(m.Symbol))
	b = appendVarintField(b, 3, uint64(m.Decimals))
	return b
}

func decodeMetadata(b []byte, m *AssetMetadata) error {
	return fields(b, func(num protowire.Number, v uint64, bs []byte) error {
		switch num {
		case 1:
			m.Name = string(bs)
		case 2:
			m.Symbol = string(bs)
		case 3:
			m.Decimals = uint8(v)
		}
		return nil
	})
}
