// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"github.com/33cn/paraxcm/xcm"
)

// OriginConverter turns an xcm origin into a local dispatch origin.
type OriginConverter interface {
	ConvertOrigin(origin xcm.Location, kind xcm.OriginKind) (DispatchOrigin, bool)
}

// OriginConverterFunc adapts a function to OriginConverter.
type OriginConverterFunc func(origin xcm.Location, kind xcm.OriginKind) (DispatchOrigin, bool)

// ConvertOrigin implements OriginConverter.
func (f OriginConverterFunc) ConvertOrigin(origin xcm.Location, kind xcm.OriginKind) (DispatchOrigin, bool) {
	return f(origin, kind)
}

// OriginConverters tries its members in order.
type OriginConverters []OriginConverter

// ConvertOrigin implements OriginConverter.
func (cs OriginConverters) ConvertOrigin(origin xcm.Location, kind xcm.OriginKind) (DispatchOrigin, bool) {
	for _, c := range cs {
		if o, ok := c.ConvertOrigin(origin, kind); ok {
			return o, true
		}
	}
	return DispatchOrigin{}, false
}

// SovereignSignedViaLocation signs as the sovereign account of the origin.
func SovereignSignedViaLocation(accounts AccountConverter) OriginConverter {
	return OriginConverterFunc(func(origin xcm.Location, kind xcm.OriginKind) (DispatchOrigin, bool) {
		if kind != xcm.OriginSovereignAccount {
			return DispatchOrigin{}, false
		}
		acc, err := accounts.Convert(origin)
		if err != nil {
			return DispatchOrigin{}, false
		}
		return Signed(acc), true
	})
}

// SignedAccountID32AsNative signs as a local AccountID32 origin.
func SignedAccountID32AsNative(network xcm.NetworkID) OriginConverter {
	return OriginConverterFunc(func(origin xcm.Location, kind xcm.OriginKind) (DispatchOrigin, bool) {
		if kind != xcm.OriginNative || origin.Parents != 0 || len(origin.Interior) != 1 {
			return DispatchOrigin{}, false
		}
		j, ok := origin.Interior[0].(xcm.AccountID32)
		if !ok || (j.Network != xcm.AnyNetwork && j.Network != network) {
			return DispatchOrigin{}, false
		}
		return Signed(j.ID), true
	})
}

// ParentAsSuperuser gives the parent chain root.
func ParentAsSuperuser() OriginConverter {
	return OriginConverterFunc(func(origin xcm.Location, kind xcm.OriginKind) (DispatchOrigin, bool) {
		if kind != xcm.OriginSuperuser || !origin.Equal(xcm.Parent()) {
			return DispatchOrigin{}, false
		}
		return Root(), true
	})
}

// XcmPassthrough keeps the location itself as the origin.
func XcmPassthrough() OriginConverter {
	return OriginConverterFunc(func(origin xcm.Location, kind xcm.OriginKind) (DispatchOrigin, bool) {
		if kind != xcm.OriginXcm {
			return DispatchOrigin{}, false
		}
		return XcmOrigin(origin), true
	})
}
