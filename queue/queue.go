// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package queue carries encoded messages between chains.
package queue

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/33cn/paraxcm/xcm"
	log "github.com/inconshreveable/log15"
)

//消息队列：
//每个通道 (kind, from, to) 一个 FIFO
//接收链每轮一次性取走通道内全部消息

var qlog = log.New("module", "queue")

var gid int64

// ChannelKind is the direction of a channel in the relay tree.
type ChannelKind uint8

// channel kinds, in processing order
const (
	Downward ChannelKind = iota
	Upward
	Horizontal
)

func (k ChannelKind) String() string {
	switch k {
	case Downward:
		return "downward"
	case Upward:
		return "upward"
	case Horizontal:
		return "horizontal"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ChannelKey names a channel. The relay is chain 0.
type ChannelKey struct {
	Kind ChannelKind
	From uint32
	To   uint32
}

func (k ChannelKey) String() string {
	return fmt.Sprintf("%s %d->%d", k.Kind, k.From, k.To)
}

// less orders keys by receiver, then kind, then sender.
func (k ChannelKey) less(o ChannelKey) bool {
	if k.To != o.To {
		return k.To < o.To
	}
	if k.Kind != o.Kind {
		return k.Kind < o.Kind
	}
	return k.From < o.From
}

// Message is one encoded message in flight.
type Message struct {
	ID     int64
	Sender xcm.Location
	Data   []byte
}

// Queue holds every channel of a network. It never blocks and never drops.
type Queue struct {
	name  string
	mu    sync.Mutex
	chans map[ChannelKey][]Message
}

// New 创建消息队列
func New(name string) *Queue {
	return &Queue{name: name, chans: make(map[ChannelKey][]Message)}
}

// Name of the queue.
func (q *Queue) Name() string {
	return q.name
}

// Enqueue appends data to the tail of channel key and returns its id.
func (q *Queue) Enqueue(key ChannelKey, sender xcm.Location, data []byte) int64 {
	msg := Message{ID: atomic.AddInt64(&gid, 1), Sender: sender, Data: data}
	q.mu.Lock()
	q.chans[key] = append(q.chans[key], msg)
	q.mu.Unlock()
	qlog.Debug("Enqueue", "queue", q.name, "channel", key, "id", msg.ID, "size", len(data))
	return msg.ID
}

// DrainAll removes and returns every message of channel key in arrival
// order.
func (q *Queue) DrainAll(key ChannelKey) []Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	msgs := q.chans[key]
	delete(q.chans, key)
	return msgs
}

// Pending returns the depth of channel key.
func (q *Queue) Pending(key ChannelKey) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.chans[key])
}

// Len returns the number of messages in all channels.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := 0
	for _, msgs := range q.chans {
		n += len(msgs)
	}
	return n
}

// Channels lists non-empty channels ordered by receiver, kind and sender.
func (q *Queue) Channels() []ChannelKey {
	q.mu.Lock()
	keys := make([]ChannelKey, 0, len(q.chans))
	for k, msgs := range q.chans {
		if len(msgs) > 0 {
			keys = append(keys, k)
		}
	}
	q.mu.Unlock()
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
	return keys
}

// Inbound lists the non-empty channels into chain to, in the order the
// chain processes them: downward, upward, then horizontal by sender id.
func (q *Queue) Inbound(to uint32) []ChannelKey {
	var keys []ChannelKey
	for _, k := range q.Channels() {
		if k.To == to {
			keys = append(keys, k)
		}
	}
	return keys
}

// Move drains every channel of src into q, preserving order.
func (q *Queue) Move(src *Queue) int {
	n := 0
	for _, k := range src.Channels() {
		msgs := src.DrainAll(k)
		q.mu.Lock()
		q.chans[k] = append(q.chans[k], msgs...)
		q.mu.Unlock()
		n += len(msgs)
	}
	return n
}
