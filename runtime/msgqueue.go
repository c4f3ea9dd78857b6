// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

import (
	"github.com/33cn/paraxcm/common"
	"github.com/33cn/paraxcm/executor"
	"github.com/33cn/paraxcm/queue"
	"github.com/33cn/paraxcm/types"
	"github.com/33cn/paraxcm/xcm"
	"github.com/pkg/errors"
)

// MsgQueue events
const (
	// downward
	EventInvalidFormat      = "InvalidFormat"
	EventUnsupportedVersion = "UnsupportedVersion"
	EventExecutedDownward   = "ExecutedDownward"
	// horizontal
	EventSuccess    = "Success"
	EventFail       = "Fail"
	EventBadVersion = "BadVersion"
	EventBadFormat  = "BadFormat"
	// upward
	EventExecutedUpward    = "ExecutedUpward"
	EventProcessingFailed = "ProcessingFailed"
)

// MaxMessageWeight is the weight limit of one inbound message.
var MaxMessageWeight = types.NewWeight(types.WeightRefTimePerSecond, types.WeightProofSizePerMB*5)

// MessageEvent is the data of every MsgQueue event.
type MessageEvent struct {
	Hash    [32]byte
	Sender  xcm.Location
	Outcome *executor.Outcome
	Err     error
}

// Observer is told about every message a chain takes off the bus.
type Observer interface {
	OnDelivered(key queue.ChannelKey)
	OnDecodeFailed(key queue.ChannelKey, err error)
	OnOutcome(key queue.ChannelKey, o executor.Outcome)
}

// MsgQueue executes the messages arriving on a chain's channels.
type MsgQueue struct {
	c        *Chain
	funcs    queue.FuncMap
	observer Observer
	dmp      []xcm.VersionedXcm
}

func newMsgQueue(c *Chain) *MsgQueue {
	m := &MsgQueue{c: c}
	m.funcs.Init()
	if c.IsRelay() {
		m.mustRegister(queue.Upward, m.handleUpward)
	} else {
		m.mustRegister(queue.Downward, m.handleDownward)
		m.mustRegister(queue.Horizontal, m.handleHorizontal)
	}
	return m
}

func (m *MsgQueue) mustRegister(kind queue.ChannelKind, fn queue.Handler) {
	if err := m.funcs.Register(kind, fn); err != nil {
		panic(err)
	}
}

// ReceivedDmp lists the downward messages executed so far.
func (m *MsgQueue) ReceivedDmp() []xcm.VersionedXcm {
	out := make([]xcm.VersionedXcm, len(m.dmp))
	copy(out, m.dmp)
	return out
}

func (m *MsgQueue) deposit(name string, ev *MessageEvent) {
	m.c.System.deposit(MsgQueuePallet, name, ev)
}

// decode unwraps and parses msg. The hash is that of the versioned
// encoding, the same the sender's router returned.
func (m *MsgQueue) decode(key queue.ChannelKey, msg *queue.Message) (xcm.VersionedXcm, [32]byte, error) {
	if m.observer != nil {
		m.observer.OnDelivered(key)
	}
	data := msg.Data
	if key.Kind == queue.Horizontal {
		var err error
		if data, err = decodeFrame(data); err != nil {
			return xcm.VersionedXcm{}, common.Blake2b256(msg.Data), err
		}
	}
	hash := common.Blake2b256(data)
	v, err := xcm.Decode(data)
	return v, hash, err
}

func (m *MsgQueue) decodeFailed(key queue.ChannelKey, msg *queue.Message, err error) {
	rlog.Error("decode message", "chain", m.c.name, "channel", key, "id", msg.ID, "err", err)
	if m.observer != nil {
		m.observer.OnDecodeFailed(key, err)
	}
}

func (m *MsgQueue) execute(key queue.ChannelKey, origin xcm.Location, v xcm.VersionedXcm, hash [32]byte) executor.Outcome {
	out := m.c.exec.Execute(origin, v.Message, hash, MaxMessageWeight)
	if m.observer != nil {
		m.observer.OnOutcome(key, out)
	}
	return out
}

func (m *MsgQueue) handleDownward(key queue.ChannelKey, msg *queue.Message) {
	v, hash, err := m.decode(key, msg)
	if err != nil {
		m.decodeFailed(key, msg, err)
		if errors.Cause(err) == types.ErrBadVersion {
			m.deposit(EventUnsupportedVersion, &MessageEvent{Hash: hash, Sender: msg.Sender, Err: err})
		} else {
			m.deposit(EventInvalidFormat, &MessageEvent{Hash: hash, Sender: msg.Sender, Err: err})
		}
		return
	}
	out := m.execute(key, xcm.Parent(), v, hash)
	m.dmp = append(m.dmp, v)
	m.deposit(EventExecutedDownward, &MessageEvent{Hash: hash, Sender: msg.Sender, Outcome: &out})
}

func (m *MsgQueue) handleHorizontal(key queue.ChannelKey, msg *queue.Message) {
	v, hash, err := m.decode(key, msg)
	if err != nil {
		m.decodeFailed(key, msg, err)
		if errors.Cause(err) == types.ErrBadVersion {
			m.deposit(EventBadVersion, &MessageEvent{Hash: hash, Sender: msg.Sender, Err: err})
		} else {
			m.deposit(EventBadFormat, &MessageEvent{Hash: hash, Sender: msg.Sender, Err: err})
		}
		return
	}
	out := m.execute(key, xcm.SiblingLocation(key.From), v, hash)
	if out.IsComplete() {
		m.deposit(EventSuccess, &MessageEvent{Hash: hash, Sender: msg.Sender, Outcome: &out})
		return
	}
	m.deposit(EventFail, &MessageEvent{Hash: hash, Sender: msg.Sender, Outcome: &out, Err: out.Err})
}

func (m *MsgQueue) handleUpward(key queue.ChannelKey, msg *queue.Message) {
	v, hash, err := m.decode(key, msg)
	if err != nil {
		m.decodeFailed(key, msg, err)
		m.deposit(EventProcessingFailed, &MessageEvent{Hash: hash, Sender: msg.Sender, Err: err})
		return
	}
	out := m.execute(key, xcm.ParachainLocation(key.From), v, hash)
	m.deposit(EventExecutedUpward, &MessageEvent{Hash: hash, Sender: msg.Sender, Outcome: &out})
}
