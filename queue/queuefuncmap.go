// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package queue

import "errors"

// ErrHandlerExisted 通道类型已注册处理函数
var ErrHandlerExisted = errors.New("ErrHandlerExisted")

// Handler processes one drained message of a channel.
type Handler func(key ChannelKey, msg *Message)

// FuncMap 按通道类型管理消息处理函数
type FuncMap struct {
	funcmap map[ChannelKind]Handler
}

// Init 初始化
func (qfm *FuncMap) Init() {
	qfm.funcmap = make(map[ChannelKind]Handler)
}

// Register 注册处理函数
func (qfm *FuncMap) Register(kind ChannelKind, fn Handler) error {
	if _, ok := qfm.funcmap[kind]; ok {
		return ErrHandlerExisted
	}
	qfm.funcmap[kind] = fn
	return nil
}

// UnRegister 注销
func (qfm *FuncMap) UnRegister(kind ChannelKind) {
	delete(qfm.funcmap, kind)
}

// Process hands msg to the handler of its channel kind and reports
// whether one was registered.
func (qfm *FuncMap) Process(key ChannelKey, msg *Message) bool {
	fn, ok := qfm.funcmap[key.Kind]
	if !ok {
		qlog.Error("Process no handler", "channel", key, "id", msg.ID)
		return false
	}
	fn(key, msg)
	return true
}

// ProcessInbound drains every inbound channel of chain to, in order, and
// processes each message. It returns the number of messages handled.
func (qfm *FuncMap) ProcessInbound(q *Queue, to uint32) int {
	n := 0
	for _, key := range q.Inbound(to) {
		msgs := q.DrainAll(key)
		for i := range msgs {
			if qfm.Process(key, &msgs[i]) {
				n++
			}
		}
	}
	return n
}
