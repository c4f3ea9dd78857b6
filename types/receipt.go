// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import "fmt"

// KeyValue is one state write.
type KeyValue struct {
	Key   []byte
	Value []byte
}

// ReceiptLog is a typed log entry produced by a ledger mutation.
type ReceiptLog struct {
	Ty  int32
	Log interface{}
}

// Receipt collects the writes and logs of one state mutation.
type Receipt struct {
	Ty   int32
	KV   []*KeyValue
	Logs []*ReceiptLog
}

// MergeReceipt appends the kv and logs of r2 to r1.
func MergeReceipt(r1, r2 *Receipt) *Receipt {
	if r1 == nil {
		return r2
	}
	if r2 == nil {
		return r1
	}
	r1.KV = append(r1.KV, r2.KV...)
	r1.Logs = append(r1.Logs, r2.Logs...)
	return r1
}

// Event is an entry in a chain's event log.
type Event struct {
	Pallet string
	Name   string
	Data   interface{}
}

func (e Event) String() string {
	if e.Data == nil {
		return e.Pallet + "." + e.Name
	}
	return fmt.Sprintf("%s.%s(%+v)", e.Pallet, e.Name, e.Data)
}

// EventSink receives events emitted while executing on a chain.
type EventSink interface {
	DepositEvent(ev Event)
}
