// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"fmt"

	"github.com/33cn/paraxcm/types"
	"github.com/33cn/paraxcm/xcm"
)

// OriginType is the kind of a local dispatch origin.
type OriginType uint8

// dispatch origin kinds
const (
	OriginNone OriginType = iota
	OriginRoot
	OriginSigned
	OriginXcm
)

// DispatchOrigin is who a local call runs as.
type DispatchOrigin struct {
	Type     OriginType
	Account  types.AccountID
	Location xcm.Location
}

// Root is the superuser origin.
func Root() DispatchOrigin { return DispatchOrigin{Type: OriginRoot} }

// Signed is the origin of an account.
func Signed(acc types.AccountID) DispatchOrigin {
	return DispatchOrigin{Type: OriginSigned, Account: acc}
}

// XcmOrigin keeps the xcm location as the origin.
func XcmOrigin(l xcm.Location) DispatchOrigin {
	return DispatchOrigin{Type: OriginXcm, Location: l}
}

func (o DispatchOrigin) String() string {
	switch o.Type {
	case OriginRoot:
		return "Root"
	case OriginSigned:
		return "Signed(" + o.Account.String() + ")"
	case OriginXcm:
		return "Xcm(" + o.Location.String() + ")"
	}
	return "None"
}

// Call is a decoded local call.
type Call interface {
	fmt.Stringer
	Weight() types.Weight
}

// Dispatcher decodes and runs the calls carried by Transact.
type Dispatcher interface {
	DecodeCall(data []byte) (Call, error)
	// Dispatch runs call and returns the weight it actually used.
	Dispatch(call Call, origin DispatchOrigin) (types.Weight, error)
}

// Router hands a program to the transport toward dest.
type Router interface {
	SendXcm(dest xcm.Location, msg xcm.Xcm) ([32]byte, error)
}
