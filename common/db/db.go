// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db 提供链状态使用的 kv 存储后端
package db

import (
	"errors"
	"sync"

	"github.com/33cn/paraxcm/types"
	pkgerr "github.com/pkg/errors"
)

// ErrNotFoundInDb 数据库中不存在该 key
var ErrNotFoundInDb = errors.New("ErrNotFoundInDb")

// KV is the state store each chain keeps its ledgers in.
type KV interface {
	Get(key []byte) ([]byte, error)
	Set(key []byte, value []byte) error
	Delete(key []byte) error
	// PrefixScan returns keys and values under prefix in key order.
	PrefixScan(prefix []byte) (keys [][]byte, values [][]byte, err error)
	Close()
}

// backends
const (
	MemDBBackendStr      = "memdb"
	GoLevelDBBackendStr  = "leveldb"
	GoBadgerDBBackendStr = "gobadgerdb"
)

type dbCreator func(name string, dir string, cache int) (KV, error)

var (
	backendsMu sync.RWMutex
	backends   = map[string]dbCreator{}
)

// RegisterDBCreator 注册数据库后端
func RegisterDBCreator(backend string, creator dbCreator, force bool) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	_, ok := backends[backend]
	if !force && ok {
		return
	}
	backends[backend] = creator
}

func init() {
	RegisterDBCreator(MemDBBackendStr, func(name string, dir string, cache int) (KV, error) {
		return NewGoMemDB(name, dir, cache)
	}, false)
	RegisterDBCreator(GoLevelDBBackendStr, func(name string, dir string, cache int) (KV, error) {
		return NewGoLevelDB(name, dir, cache)
	}, false)
	RegisterDBCreator(GoBadgerDBBackendStr, func(name string, dir string, cache int) (KV, error) {
		return NewGoBadgerDB(name, dir, cache)
	}, false)
}

// NewDB opens a store with the named backend.
func NewDB(name string, backend string, dir string, cache int) (KV, error) {
	backendsMu.RLock()
	creator, ok := backends[backend]
	backendsMu.RUnlock()
	if !ok {
		return nil, pkgerr.Wrap(types.ErrUnknownBackend, backend)
	}
	return creator(name, dir, cache)
}

// CloneByte 拷贝 byte 数组，防止外部修改底层存储
func CloneByte(v []byte) []byte {
	if v == nil {
		return nil
	}
	value := make([]byte, len(v))
	copy(value, v)
	return value
}
