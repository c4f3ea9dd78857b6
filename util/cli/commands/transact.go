// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"fmt"

	"github.com/33cn/paraxcm/executor"
	"github.com/33cn/paraxcm/runtime"
	"github.com/33cn/paraxcm/simulator"
	"github.com/33cn/paraxcm/types"
	"github.com/33cn/paraxcm/xcm"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// TransactCmd 远程调用目标链的存储方法
func TransactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transact",
		Short: "Store a value on a parachain through a remote Transact",
		Run:   transact,
	}
	addTransactFlags(cmd)
	return cmd
}

func addTransactFlags(cmd *cobra.Command) {
	cmd.Flags().Uint32("from", 0, "sending chain, 0 for the relay")
	cmd.Flags().Uint32P("para", "p", 0, "destination parachain id")
	cmd.MarkFlagRequired("para")
	cmd.Flags().String("account", "alice", "signer on the sending chain")
	cmd.Flags().Uint64P("value", "v", 0, "value stored")
	cmd.MarkFlagRequired("value")
	addEventsFlag(cmd)
}

func transact(cmd *cobra.Command, args []string) {
	from, _ := cmd.Flags().GetUint32("from")
	para, _ := cmd.Flags().GetUint32("para")
	acc, _ := cmd.Flags().GetString("account")
	value, _ := cmd.Flags().GetUint64("value")

	net, stop, err := openNet(cmd)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return
	}
	defer stop()
	stored, err := doTransact(net, from, para, acc, value)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "stored %d for %s\n", value, stored)
	if err := report(cmd, net); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
	}
}

// doTransact returns the account the value was stored under on para.
func doTransact(net *simulator.MockNet, from, para uint32, acc string, value uint64) (types.AccountID, error) {
	dst, err := paraHandle(net, para)
	if err != nil {
		return types.ZeroAccount, err
	}
	src, dest := net.Relay(), xcm.ParachainLocation(para)
	if from != 0 {
		if src, err = paraHandle(net, from); err != nil {
			return types.ZeroAccount, err
		}
		dest = xcm.SiblingLocation(para)
	}
	signer, err := resolve(acc)
	if err != nil {
		return types.ZeroAccount, err
	}
	// the value is stored under the signer's account as seen by para
	key := xcm.AccountID32{Network: xcm.AnyNetwork, ID: signer}
	origin := xcm.NewLocation(1, key)
	if from != 0 {
		origin = xcm.NewLocation(1, xcm.Parachain{ID: from}, key)
	}
	who, err := dst.Chain().AccountOf(origin)
	if err != nil {
		return types.ZeroAccount, err
	}

	msg := xcm.Xcm{xcm.Transact{
		OriginKind:          xcm.OriginSovereignAccount,
		RequireWeightAtMost: types.NewWeight(1e9, 1<<16),
		Call:                runtime.EncodeCall(&runtime.TestStoring{Account: who, Value: value}),
	}}
	src.ExecuteWith(func(c *runtime.Chain) {
		_, err = c.Xcm.Send(executor.Signed(signer), dest, msg)
	})
	if err != nil {
		return types.ZeroAccount, errors.Wrap(err, "send")
	}
	settle(net)
	return who, nil
}
