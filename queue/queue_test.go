// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package queue

import (
	"testing"

	"github.com/33cn/paraxcm/xcm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFIFOAndDrainOnce(t *testing.T) {
	q := New("test")
	key := ChannelKey{Kind: Downward, From: 0, To: 1}
	id1 := q.Enqueue(key, xcm.Here(), []byte("a"))
	id2 := q.Enqueue(key, xcm.Here(), []byte("b"))
	assert.True(t, id2 > id1)
	assert.Equal(t, 2, q.Pending(key))
	assert.Equal(t, 2, q.Len())

	msgs := q.DrainAll(key)
	require.Len(t, msgs, 2)
	assert.Equal(t, []byte("a"), msgs[0].Data)
	assert.Equal(t, []byte("b"), msgs[1].Data)

	assert.Len(t, q.DrainAll(key), 0)
	assert.Equal(t, 0, q.Len())
}

func TestInboundOrder(t *testing.T) {
	q := New("test")
	h3 := ChannelKey{Kind: Horizontal, From: 3, To: 1}
	h2 := ChannelKey{Kind: Horizontal, From: 2, To: 1}
	down := ChannelKey{Kind: Downward, From: 0, To: 1}
	other := ChannelKey{Kind: Downward, From: 0, To: 2}
	for _, k := range []ChannelKey{h3, other, h2, down} {
		q.Enqueue(k, xcm.Parent(), nil)
	}
	assert.Equal(t, []ChannelKey{down, h2, h3}, q.Inbound(1))
	assert.Equal(t, []ChannelKey{down, h2, h3, other}, q.Channels())
}

func TestMove(t *testing.T) {
	bus, out := New("bus"), New("outbox")
	key := ChannelKey{Kind: Upward, From: 1, To: 0}
	bus.Enqueue(key, xcm.ParachainLocation(1), []byte("old"))
	out.Enqueue(key, xcm.ParachainLocation(1), []byte("new"))

	assert.Equal(t, 1, bus.Move(out))
	assert.Equal(t, 0, out.Len())
	msgs := bus.DrainAll(key)
	require.Len(t, msgs, 2)
	assert.Equal(t, []byte("old"), msgs[0].Data)
	assert.Equal(t, []byte("new"), msgs[1].Data)
}

func TestFuncMap(t *testing.T) {
	var fm FuncMap
	fm.Init()
	var got []string
	require.NoError(t, fm.Register(Downward, func(key ChannelKey, msg *Message) {
		got = append(got, "d:"+string(msg.Data))
	}))
	require.NoError(t, fm.Register(Horizontal, func(key ChannelKey, msg *Message) {
		got = append(got, "h:"+string(msg.Data))
	}))
	assert.Equal(t, ErrHandlerExisted, fm.Register(Downward, nil))

	q := New("test")
	q.Enqueue(ChannelKey{Kind: Horizontal, From: 2, To: 1}, xcm.SiblingLocation(2), []byte("x"))
	q.Enqueue(ChannelKey{Kind: Downward, To: 1}, xcm.Parent(), []byte("y"))
	q.Enqueue(ChannelKey{Kind: Upward, From: 1, To: 0}, xcm.ParachainLocation(1), []byte("z"))

	assert.Equal(t, 2, fm.ProcessInbound(q, 1))
	assert.Equal(t, []string{"d:y", "h:x"}, got)
	assert.Equal(t, 1, q.Len())

	fm.UnRegister(Horizontal)
	assert.False(t, fm.Process(ChannelKey{Kind: Horizontal}, &Message{}))
}
