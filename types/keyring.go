// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import "strings"

// development accounts
var (
	Alice   = AccountFromSeed("Alice")
	Bob     = AccountFromSeed("Bob")
	Charlie = AccountFromSeed("Charlie")
	Dave    = AccountFromSeed("Dave")
	Eve     = AccountFromSeed("Eve")
	Mrisho  = AccountFromSeed("Mrisho")
	Haji    = AccountFromSeed("Haji")
	Vane    = AccountFromSeed("Vane")
)

var wellKnown = map[string]AccountID{
	"alice":   Alice,
	"bob":     Bob,
	"charlie": Charlie,
	"dave":    Dave,
	"eve":     Eve,
	"mrisho":  Mrisho,
	"haji":    Haji,
	"vane":    Vane,
}

// WellKnownAccount looks up a development account by case-insensitive name.
func WellKnownAccount(name string) (AccountID, bool) {
	a, ok := wellKnown[strings.ToLower(name)]
	return a, ok
}

// WellKnownNames lists the development account names in a stable order.
func WellKnownNames() []string {
	return []string{"alice", "bob", "charlie", "dave", "eve", "mrisho", "haji", "vane"}
}
