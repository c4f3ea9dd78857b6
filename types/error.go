// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import "errors"

// ledger errors
var (
	ErrAmount             = errors.New("ErrAmount")
	ErrNoBalance          = errors.New("ErrNoBalance")
	ErrSendSameToRecv     = errors.New("ErrSendSameToRecv")
	ErrOverflow           = errors.New("ErrOverflow")
	ErrUnknownAsset       = errors.New("ErrUnknownAsset")
	ErrAssetExists        = errors.New("ErrAssetExists")
	ErrNoPermission       = errors.New("ErrNoPermission")
	ErrBelowMinBalance    = errors.New("ErrBelowMinBalance")
	ErrNotFound           = errors.New("ErrNotFound")
	ErrSymbolNameNotAllow = errors.New("ErrSymbolNameNotAllow")
)

// transport errors
var (
	ErrBadVersion = errors.New("ErrBadVersion")
	ErrBadFormat  = errors.New("ErrBadFormat")
	ErrUnroutable = errors.New("ErrUnroutable")
)

// location and account derivation errors
var (
	ErrLocationOverflow        = errors.New("ErrLocationOverflow")
	ErrAccountDerivationFailed = errors.New("ErrAccountDerivationFailed")
	ErrInvalidAccount          = errors.New("ErrInvalidAccount")
)

// executor errors
var (
	ErrBarrierRejected          = errors.New("ErrBarrierRejected")
	ErrNotWithdrawable          = errors.New("ErrNotWithdrawable")
	ErrNotDepositable           = errors.New("ErrNotDepositable")
	ErrBadOrigin                = errors.New("ErrBadOrigin")
	ErrWeightExceeded           = errors.New("ErrWeightExceeded")
	ErrDispatchFailed           = errors.New("ErrDispatchFailed")
	ErrFailedToDecode           = errors.New("ErrFailedToDecode")
	ErrAssetNotFound            = errors.New("ErrAssetNotFound")
	ErrUntrustedReserveLocation = errors.New("ErrUntrustedReserveLocation")
	ErrNotHoldingFees           = errors.New("ErrNotHoldingFees")
	ErrTooExpensive             = errors.New("ErrTooExpensive")
	ErrTrap                     = errors.New("ErrTrap")
	ErrExpectationFalse         = errors.New("ErrExpectationFalse")
	ErrHoldingWouldOverflow     = errors.New("ErrHoldingWouldOverflow")
	ErrExceedsMaxInstructions   = errors.New("ErrExceedsMaxInstructions")
	ErrNoPermissionAlias        = errors.New("ErrNoPermissionAlias")
)

// config errors
var (
	ErrConfigNotFound = errors.New("ErrConfigNotFound")
	ErrUnknownBackend = errors.New("ErrUnknownBackend")
	ErrUnknownChain   = errors.New("ErrUnknownChain")
	ErrEmitMode       = errors.New("ErrEmitMode")
)
