// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package db

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/33cn/paraxcm/types"
	pkgerr "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKV(t *testing.T, db KV) {
	_, err := db.Get([]byte("missing"))
	assert.Equal(t, ErrNotFoundInDb, err)

	require.NoError(t, db.Set([]byte("acc-b"), []byte("2")))
	require.NoError(t, db.Set([]byte("acc-a"), []byte("1")))
	require.NoError(t, db.Set([]byte("asset-1"), []byte("x")))

	v, err := db.Get([]byte("acc-a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)

	keys, values, err := db.PrefixScan([]byte("acc-"))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("acc-a"), []byte("acc-b")}, keys)
	assert.Equal(t, [][]byte{[]byte("1"), []byte("2")}, values)

	require.NoError(t, db.Delete([]byte("acc-a")))
	_, err = db.Get([]byte("acc-a"))
	assert.Equal(t, ErrNotFoundInDb, err)

	keys, _, err = db.PrefixScan([]byte("acc-"))
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}

func TestGoMemDB(t *testing.T) {
	db, err := NewDB("test", MemDBBackendStr, "", 0)
	require.NoError(t, err)
	defer db.Close()
	testKV(t, db)
}

func TestGoMemDBCopiesValues(t *testing.T) {
	db, err := NewGoMemDB("test", "", 0)
	require.NoError(t, err)
	require.NoError(t, db.Set([]byte("k"), []byte("v")))
	v, err := db.Get([]byte("k"))
	require.NoError(t, err)
	v[0] = 'x'
	v2, err := db.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v2)
}

func TestGoLevelDB(t *testing.T) {
	dir, err := ioutil.TempDir("", "goleveldb")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	db, err := NewDB("test", GoLevelDBBackendStr, dir, 16)
	require.NoError(t, err)
	defer db.Close()
	testKV(t, db)
}

func TestGoBadgerDB(t *testing.T) {
	dir, err := ioutil.TempDir("", "gobadgerdb")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	db, err := NewDB("test", GoBadgerDBBackendStr, dir, 16)
	require.NoError(t, err)
	defer db.Close()
	testKV(t, db)
}

func TestUnknownBackend(t *testing.T) {
	_, err := NewDB("test", "ssdb", "", 0)
	assert.Equal(t, types.ErrUnknownBackend, pkgerr.Cause(err))
}
