// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package common 字节与哈希工具
package common

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// ToHex encodes b with a 0x prefix. Empty input gives "".
func ToHex(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return "0x" + hex.EncodeToString(b)
}

//HasHexPrefix 是否包含0x前缀
func HasHexPrefix(str string) bool {
	return len(str) >= 2 && str[0] == '0' && (str[1] == 'x' || str[1] == 'X')
}

// FromHex decodes s with or without the 0x prefix; an odd length is
// padded with a leading zero.
func FromHex(s string) ([]byte, error) {
	if HasHexPrefix(s) {
		s = s[2:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	return hex.DecodeString(s)
}

// CopyBytes returns a copy of b, nil for nil.
func CopyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Blake2b256 returns the 32 byte blake2b digest of the concatenated parts.
func Blake2b256(parts ...[]byte) (out [32]byte) {
	h, _ := blake2b.New256(nil)
	for _, p := range parts {
		h.Write(p)
	}
	copy(out[:], h.Sum(nil))
	return
}
