// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simulator

import (
	"github.com/33cn/paraxcm/sovereign"
	"github.com/33cn/paraxcm/types"
	"github.com/33cn/paraxcm/xcm"
)

// ParentAccount is the account each parachain keeps for the relay.
func ParentAccount() types.AccountID {
	return sovereign.ParentAccount()
}

// ChildAccount is the account the relay keeps for parachain id.
func ChildAccount(id uint32) types.AccountID {
	return sovereign.ChildAccount(id)
}

// SiblingAccount is the account a parachain keeps for sibling id.
func SiblingAccount(id uint32) types.AccountID {
	return sovereign.SiblingAccount(id)
}

// ChildAccountAccount is the relay account of who on parachain id.
func (n *MockNet) ChildAccountAccount(id uint32, who types.AccountID) (types.AccountID, error) {
	l := xcm.NewLocation(0, xcm.Parachain{ID: id}, xcm.AccountID32{Network: xcm.AnyNetwork, ID: who})
	return n.relay.chain.AccountOf(l)
}

// ParentAccountAccount is the account parachain id keeps for who on the
// relay.
func (n *MockNet) ParentAccountAccount(id uint32, who types.AccountID) (types.AccountID, error) {
	h := n.Para(id)
	if h == nil {
		return types.ZeroAccount, types.ErrUnknownChain
	}
	return h.chain.AccountOf(xcm.NewLocation(1, xcm.AccountID32{Network: xcm.AnyNetwork, ID: who}))
}
