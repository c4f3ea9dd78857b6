// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

import (
	"sync"

	"github.com/33cn/paraxcm/account"
	"github.com/33cn/paraxcm/types"
)

// event pallets
const (
	SystemPallet   = "System"
	BalancesPallet = "Balances"
	AssetsPallet   = "Assets"
	StorePallet    = "Store"
	XcmPalletName  = "PolkadotXcm"
	MsgQueuePallet = "MsgQueue"
)

// System events
const (
	EventExtrinsicSuccess = "ExtrinsicSuccess"
	EventExtrinsicFailed  = "ExtrinsicFailed"
)

// ExtrinsicFailed records a call rejected by its pallet.
type ExtrinsicFailed struct {
	Call string
	Err  error
}

var logNames = map[int32]string{
	types.TyLogTransfer:    "Transfer",
	types.TyLogDeposit:     "Deposit",
	types.TyLogWithdraw:    "Withdraw",
	types.TyLogGenesis:     "Endowed",
	types.TyLogAssetCreate: "ForceCreated",
	types.TyLogAssetMeta:   "MetadataSet",
	types.TyLogAssetMint:   "Issued",
	types.TyLogAssetBurn:   "Burned",
	types.TyLogAssetMove:   "Transferred",
}

// System is the event log of a chain.
type System struct {
	mu     sync.Mutex
	events []types.Event
}

// DepositEvent implements types.EventSink.
func (s *System) DepositEvent(ev types.Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
	rlog.Debug("event", "event", ev)
}

func (s *System) deposit(pallet, name string, data interface{}) {
	s.DepositEvent(types.Event{Pallet: pallet, Name: name, Data: data})
}

// LedgerChanges is the data of a ledger event: the logs of one operation,
// e.g. the payer and payee of a transfer or the holder and class of a mint.
type LedgerChanges []interface{}

// DepositReceipt deposits one event per ledger operation of the receipt.
// Adjacent logs of the same type belong to one operation.
func (s *System) DepositReceipt(r *types.Receipt) {
	if r == nil {
		return
	}
	for i := 0; i < len(r.Logs); {
		ty := r.Logs[i].Ty
		j := i
		var changes LedgerChanges
		for ; j < len(r.Logs) && r.Logs[j].Ty == ty; j++ {
			changes = append(changes, r.Logs[j].Log)
		}
		first := r.Logs[i].Log
		i = j
		name, ok := logNames[ty]
		if !ok {
			continue
		}
		pallet := BalancesPallet
		switch first.(type) {
		case *account.ReceiptAssetTransfer, *account.ReceiptAsset, *account.AssetMetadata:
			pallet = AssetsPallet
		}
		s.deposit(pallet, name, changes)
	}
}

// Events returns a copy of the log.
func (s *System) Events() []types.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Event, len(s.events))
	copy(out, s.events)
	return out
}

// Find returns the events of pallet named name, in order.
func (s *System) Find(pallet, name string) []types.Event {
	var out []types.Event
	for _, ev := range s.Events() {
		if ev.Pallet == pallet && ev.Name == name {
			out = append(out, ev)
		}
	}
	return out
}

// Reset clears the log.
func (s *System) Reset() {
	s.mu.Lock()
	s.events = nil
	s.mu.Unlock()
}
