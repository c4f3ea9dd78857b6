// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package db

import (
	"sync"

	log "github.com/inconshreveable/log15"
	"github.com/syndtr/goleveldb/leveldb/comparer"
	"github.com/syndtr/goleveldb/leveldb/memdb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var mlog = log.New("module", "db.memdb")

// memdb 应该无需区分同步与异步操作

//GoMemDB db
type GoMemDB struct {
	mu sync.RWMutex
	db *memdb.DB
}

//NewGoMemDB new
func NewGoMemDB(name string, dir string, cache int) (*GoMemDB, error) {
	return &GoMemDB{
		db: memdb.New(comparer.DefaultComparer, cache),
	}, nil
}

//Get get
func (db *GoMemDB) Get(key []byte) ([]byte, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	v, err := db.db.Get(key)
	if err != nil {
		return nil, ErrNotFoundInDb
	}
	return CloneByte(v), nil
}

//Set set
func (db *GoMemDB) Set(key []byte, value []byte) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	err := db.db.Put(key, value)
	if err != nil {
		mlog.Error("Set", "error", err)
		return err
	}
	return nil
}

//Delete 删除
func (db *GoMemDB) Delete(key []byte) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	err := db.db.Delete(key)
	if err != nil && err != memdb.ErrNotFound {
		mlog.Error("Delete", "error", err)
		return err
	}
	return nil
}

//PrefixScan 前缀扫描
func (db *GoMemDB) PrefixScan(prefix []byte) ([][]byte, [][]byte, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	it := db.db.NewIterator(util.BytesPrefix(prefix))
	defer it.Release()
	var keys, values [][]byte
	for it.Next() {
		keys = append(keys, CloneByte(it.Key()))
		values = append(values, CloneByte(it.Value()))
	}
	return keys, values, it.Error()
}

//Close 关闭
func (db *GoMemDB) Close() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.db.Reset()
}
