// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"fmt"
	"io"

	"github.com/33cn/paraxcm/simulator"
	"github.com/33cn/paraxcm/types"
	"github.com/spf13/cobra"
)

// AccountsCmd 显示开发账户和各链的主权账户
func AccountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List development and sovereign accounts of the network",
		Run:   listAccounts,
	}
	cmd.Flags().StringP("who", "w", "", "also derive the cross chain accounts of this account")
	cmd.Flags().Bool("balances", false, "print genesis balances")
	return cmd
}

func listAccounts(cmd *cobra.Command, args []string) {
	who, _ := cmd.Flags().GetString("who")
	balances, _ := cmd.Flags().GetBool("balances")

	net, stop, err := openNet(cmd)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return
	}
	defer stop()
	w := cmd.OutOrStdout()
	if err := writeAccounts(w, net, who); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return
	}
	if balances {
		if err := printBalances(w, net); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
		}
	}
}

func writeAccounts(w io.Writer, net *simulator.MockNet, who string) error {
	for _, name := range types.WellKnownNames() {
		id, _ := types.WellKnownAccount(name)
		fmt.Fprintf(w, "%-10s %s\n", name, id)
	}
	for _, h := range net.Chains()[1:] {
		id := h.Chain().ID()
		fmt.Fprintf(w, "%-10s %s\n", fmt.Sprintf("para:%d", id), simulator.ChildAccount(id))
		fmt.Fprintf(w, "%-10s %s\n", fmt.Sprintf("sibl:%d", id), simulator.SiblingAccount(id))
	}
	fmt.Fprintf(w, "%-10s %s\n", "parent", simulator.ParentAccount())
	if who == "" {
		return nil
	}

	acc, err := resolve(who)
	if err != nil {
		return err
	}
	for _, h := range net.Chains()[1:] {
		id := h.Chain().ID()
		onRelay, err := net.ChildAccountAccount(id, acc)
		if err != nil {
			return err
		}
		onPara, err := net.ParentAccountAccount(id, acc)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s of para %d on relay: %s\n", who, id, onRelay)
		fmt.Fprintf(w, "%s of relay on para %d: %s\n", who, id, onPara)
	}
	return nil
}
