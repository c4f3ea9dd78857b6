// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

// amount limits
const (
	MaxCoin         int64 = 1e17
	MaxTokenBalance int64 = 900 * 1e8 * 1e8 //900亿
)

// executor defaults
const (
	DefaultMaxInstructions      = 100
	DefaultMaxAssetsIntoHolding = 64
	DefaultUnitWeightRefTime    = 1
	DefaultUnitWeightProofSize  = 1

	// WeightRefTimePerSecond is the ref time of one second of execution.
	WeightRefTimePerSecond uint64 = 1_000_000_000_000
	// WeightProofSizePerMB is the proof size of one megabyte.
	WeightProofSizePerMB uint64 = 1024 * 1024
)

// RelayParaID is the channel id used for the relay chain.
const RelayParaID uint32 = 0

// receipt log types
const (
	TyLogErr         = 1
	TyLogTransfer    = 2
	TyLogDeposit     = 3
	TyLogWithdraw    = 4
	TyLogGenesis     = 5
	TyLogAssetCreate = 10
	TyLogAssetMeta   = 11
	TyLogAssetMint   = 12
	TyLogAssetBurn   = 13
	TyLogAssetMove   = 14
)

// receipt types
const (
	ExecErr  = 0
	ExecPack = 1
	ExecOk   = 2
)

// CheckAmount 检查交易金额是否合法
func CheckAmount(amount int64) bool {
	if amount <= 0 || amount >= MaxCoin {
		return false
	}
	return true
}
