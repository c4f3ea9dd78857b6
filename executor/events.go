// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"github.com/33cn/paraxcm/types"
	"github.com/33cn/paraxcm/xcm"
)

// PalletName is the pallet of the events the executor deposits.
const PalletName = "XcmExecutor"

// event names
const (
	EventAssetsTrapped  = "AssetsTrapped"
	EventTransacted     = "Transacted"
	EventTransactFailed = "TransactFailed"
)

// AssetsTrapped records holding left over when a program ends.
type AssetsTrapped struct {
	Hash   [32]byte
	Origin xcm.Location
	Assets xcm.Assets
}

// Transacted records a dispatched Transact call.
type Transacted struct {
	Call   string
	Origin DispatchOrigin
	Weight types.Weight
}

// TransactFailed records a Transact whose call could not be decoded or
// failed to dispatch. Execution goes on.
type TransactFailed struct {
	Origin xcm.Location
	Err    error
}
