// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xcm

import (
	"bytes"

	"github.com/33cn/paraxcm/types"
)

// Xcm is an ordered instruction program.
type Xcm []Instruction

// Instruction is one step of a program. The set is closed: the executor
// switches over every type declared in this file.
type Instruction interface {
	// Name is the instruction's display name.
	Name() string
	opcode() uint8
}

// opcodes, also the wire tags
const (
	opWithdrawAsset uint8 = iota
	opReserveAssetDeposited
	opClearOrigin
	opDescendOrigin
	opTransferAsset
	opTransferReserveAsset
	opDepositAsset
	opDepositReserveAsset
	opInitiateReserveWithdraw
	opTransact
	opBuyExecution
	opRefundSurplus
	opSetErrorHandler
	opSetAppendix
	opClearError
	opTrap
	opExpectTransactStatus
	opClearTransactStatus
	opUnpaidExecution
	opAliasOrigin
	opNoop
)

// OriginKind selects how Transact turns the message origin into a
// dispatch origin.
type OriginKind uint8

// origin kinds
const (
	OriginNative OriginKind = iota
	OriginSovereignAccount
	OriginSuperuser
	OriginXcm
)

func (k OriginKind) String() string {
	switch k {
	case OriginNative:
		return "Native"
	case OriginSovereignAccount:
		return "SovereignAccount"
	case OriginSuperuser:
		return "Superuser"
	case OriginXcm:
		return "Xcm"
	}
	return "Unknown"
}

// MaybeErrorCode is the status of the last Transact: success or an error
// code returned by the dispatched call.
type MaybeErrorCode struct {
	Failed bool
	Code   []byte
}

// Success is the status of a successful dispatch.
var Success = MaybeErrorCode{}

// ErrorCode builds a failed status.
func ErrorCode(code []byte) MaybeErrorCode {
	return MaybeErrorCode{Failed: true, Code: code}
}

// Equal compares two statuses.
func (m MaybeErrorCode) Equal(o MaybeErrorCode) bool {
	return m.Failed == o.Failed && bytes.Equal(m.Code, o.Code)
}

// WithdrawAsset moves assets from the origin's account into holding.
type WithdrawAsset struct {
	Assets Assets
}

// ReserveAssetDeposited puts derivatives of assets held in reserve by the
// origin into holding.
type ReserveAssetDeposited struct {
	Assets Assets
}

// ClearOrigin drops the origin.
type ClearOrigin struct{}

// DescendOrigin narrows the origin by appending Interior.
type DescendOrigin struct {
	Interior Junctions
}

// TransferAsset moves assets from the origin to beneficiary directly.
type TransferAsset struct {
	Assets      Assets
	Beneficiary Location
}

// TransferReserveAsset moves assets from the origin into dest's sovereign
// account and notifies dest with ReserveAssetDeposited followed by Xcm.
type TransferReserveAsset struct {
	Assets Assets
	Dest   Location
	Xcm    Xcm
}

// DepositAsset credits the assets selected from holding to beneficiary.
type DepositAsset struct {
	Assets      AssetFilter
	Beneficiary Location
}

// DepositReserveAsset deposits the selected holding into dest's sovereign
// account and notifies dest with ReserveAssetDeposited followed by Xcm.
type DepositReserveAsset struct {
	Assets AssetFilter
	Dest   Location
	Xcm    Xcm
}

// InitiateReserveWithdraw removes the selected derivatives from holding
// and asks reserve to release the originals, followed by Xcm.
type InitiateReserveWithdraw struct {
	Assets  AssetFilter
	Reserve Location
	Xcm     Xcm
}

// Transact dispatches an encoded local call.
type Transact struct {
	OriginKind          OriginKind
	RequireWeightAtMost types.Weight
	Call                []byte
}

// BuyExecution pays for weight out of holding.
type BuyExecution struct {
	Fees        Asset
	WeightLimit types.WeightLimit
}

// RefundSurplus returns unused paid weight to holding.
type RefundSurplus struct{}

// SetErrorHandler installs a program run when execution fails.
type SetErrorHandler struct {
	Xcm Xcm
}

// SetAppendix installs a program run after execution, failed or not.
type SetAppendix struct {
	Xcm Xcm
}

// ClearError forgets the last error.
type ClearError struct{}

// Trap always fails with the given code.
type Trap struct {
	Code uint64
}

// ExpectTransactStatus fails unless the last Transact ended with Status.
type ExpectTransactStatus struct {
	Status MaybeErrorCode
}

// ClearTransactStatus resets the transact status to success.
type ClearTransactStatus struct{}

// UnpaidExecution declares a program that does not buy weight. When
// CheckOrigin is set the origin must equal it.
type UnpaidExecution struct {
	WeightLimit types.WeightLimit
	CheckOrigin *Location
}

// AliasOrigin replaces the origin with Location when an aliaser allows it.
type AliasOrigin struct {
	Location Location
}

// Noop does nothing.
type Noop struct{}

func (WithdrawAsset) Name() string           { return "WithdrawAsset" }
func (ReserveAssetDeposited) Name() string   { return "ReserveAssetDeposited" }
func (ClearOrigin) Name() string             { return "ClearOrigin" }
func (DescendOrigin) Name() string           { return "DescendOrigin" }
func (TransferAsset) Name() string           { return "TransferAsset" }
func (TransferReserveAsset) Name() string    { return "TransferReserveAsset" }
func (DepositAsset) Name() string            { return "DepositAsset" }
func (DepositReserveAsset) Name() string     { return "DepositReserveAsset" }
func (InitiateReserveWithdraw) Name() string { return "InitiateReserveWithdraw" }
func (Transact) Name() string                { return "Transact" }
func (BuyExecution) Name() string            { return "BuyExecution" }
func (RefundSurplus) Name() string           { return "RefundSurplus" }
func (SetErrorHandler) Name() string         { return "SetErrorHandler" }
func (SetAppendix) Name() string             { return "SetAppendix" }
func (ClearError) Name() string              { return "ClearError" }
func (Trap) Name() string                    { return "Trap" }
func (ExpectTransactStatus) Name() string    { return "ExpectTransactStatus" }
func (ClearTransactStatus) Name() string     { return "ClearTransactStatus" }
func (UnpaidExecution) Name() string         { return "UnpaidExecution" }
func (AliasOrigin) Name() string             { return "AliasOrigin" }
func (Noop) Name() string                    { return "Noop" }

func (WithdrawAsset) opcode() uint8           { return opWithdrawAsset }
func (ReserveAssetDeposited) opcode() uint8   { return opReserveAssetDeposited }
func (ClearOrigin) opcode() uint8             { return opClearOrigin }
func (DescendOrigin) opcode() uint8           { return opDescendOrigin }
func (TransferAsset) opcode() uint8           { return opTransferAsset }
func (TransferReserveAsset) opcode() uint8    { return opTransferReserveAsset }
func (DepositAsset) opcode() uint8            { return opDepositAsset }
func (DepositReserveAsset) opcode() uint8     { return opDepositReserveAsset }
func (InitiateReserveWithdraw) opcode() uint8 { return opInitiateReserveWithdraw }
func (Transact) opcode() uint8                { return opTransact }
func (BuyExecution) opcode() uint8            { return opBuyExecution }
func (RefundSurplus) opcode() uint8           { return opRefundSurplus }
func (SetErrorHandler) opcode() uint8         { return opSetErrorHandler }
func (SetAppendix) opcode() uint8             { return opSetAppendix }
func (ClearError) opcode() uint8              { return opClearError }
func (Trap) opcode() uint8                    { return opTrap }
func (ExpectTransactStatus) opcode() uint8    { return opExpectTransactStatus }
func (ClearTransactStatus) opcode() uint8     { return opClearTransactStatus }
func (UnpaidExecution) opcode() uint8         { return opUnpaidExecution }
func (AliasOrigin) opcode() uint8             { return opAliasOrigin }
func (Noop) opcode() uint8                    { return opNoop }

// Names lists the instruction names of a program, for logging.
func (x Xcm) Names() []string {
	out := make([]string, len(x))
	for i, in := range x {
		out[i] = in.Name()
	}
	return out
}

// CurrentVersion is the program version this package encodes.
const CurrentVersion uint8 = 3

// VersionedXcm is a program tagged with its wire version.
type VersionedXcm struct {
	Version uint8
	Message Xcm
}

// NewVersionedXcm wraps x at the current version.
func NewVersionedXcm(x Xcm) VersionedXcm {
	return VersionedXcm{Version: CurrentVersion, Message: x}
}
