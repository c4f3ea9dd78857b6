// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"fmt"

	"github.com/33cn/paraxcm/executor"
	"github.com/33cn/paraxcm/runtime"
	"github.com/33cn/paraxcm/simulator"
	"github.com/33cn/paraxcm/xcm"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// ReserveTransferCmd 把中继链原生币转到平行链
func ReserveTransferCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reserve-transfer",
		Short: "Reserve transfer relay native currency to a parachain",
		Run:   reserveTransfer,
	}
	addReserveTransferFlags(cmd)
	return cmd
}

func addReserveTransferFlags(cmd *cobra.Command) {
	cmd.Flags().Uint32P("para", "p", 0, "destination parachain id")
	cmd.MarkFlagRequired("para")
	cmd.Flags().Int64P("amount", "a", 0, "amount in plancks")
	cmd.MarkFlagRequired("amount")
	cmd.Flags().String("from", "alice", "relay account sending the funds")
	cmd.Flags().StringP("beneficiary", "b", "alice", "account credited on the parachain")
	addEventsFlag(cmd)
}

func reserveTransfer(cmd *cobra.Command, args []string) {
	para, _ := cmd.Flags().GetUint32("para")
	amount, _ := cmd.Flags().GetInt64("amount")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("beneficiary")

	net, stop, err := openNet(cmd)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return
	}
	defer stop()
	if err := doReserveTransfer(net, para, amount, from, to); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return
	}
	if err := report(cmd, net); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
	}
}

func doReserveTransfer(net *simulator.MockNet, para uint32, amount int64, from, to string) error {
	if _, err := paraHandle(net, para); err != nil {
		return err
	}
	sender, err := resolve(from)
	if err != nil {
		return err
	}
	who, err := resolve(to)
	if err != nil {
		return err
	}
	net.Relay().ExecuteWith(func(c *runtime.Chain) {
		assets := xcm.NewAssets(xcm.NewAsset(xcm.Concrete(xcm.Here()), amount))
		_, err = c.Xcm.ReserveTransferAssets(executor.Signed(sender), xcm.ParachainLocation(para),
			xcm.AccountLocation(xcm.AnyNetwork, who), assets, 0)
	})
	if err != nil {
		return errors.Wrap(err, "reserve transfer")
	}
	settle(net)
	return nil
}

// ReturnCmd 平行链上的中继币退回中继链
func ReturnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "return",
		Short: "Fund a parachain account then withdraw relay currency back to the relay",
		Run:   returnAssets,
	}
	addReturnFlags(cmd)
	return cmd
}

func addReturnFlags(cmd *cobra.Command) {
	cmd.Flags().Uint32P("para", "p", 0, "parachain id holding the derivative")
	cmd.MarkFlagRequired("para")
	cmd.Flags().Int64P("amount", "a", 0, "amount withdrawn back to the relay")
	cmd.MarkFlagRequired("amount")
	cmd.Flags().Int64("deposit", 0, "amount reserve transferred first, defaults to amount")
	cmd.Flags().String("from", "alice", "account on both chains")
	cmd.Flags().StringP("beneficiary", "b", "alice", "relay account credited")
	addEventsFlag(cmd)
}

func returnAssets(cmd *cobra.Command, args []string) {
	para, _ := cmd.Flags().GetUint32("para")
	amount, _ := cmd.Flags().GetInt64("amount")
	deposit, _ := cmd.Flags().GetInt64("deposit")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("beneficiary")
	if deposit == 0 {
		deposit = amount
	}

	net, stop, err := openNet(cmd)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return
	}
	defer stop()
	if err := doReserveTransfer(net, para, deposit, from, from); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return
	}
	if err := doReturn(net, para, amount, from, to); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return
	}
	if err := report(cmd, net); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
	}
}

func doReturn(net *simulator.MockNet, para uint32, amount int64, from, to string) error {
	h, err := paraHandle(net, para)
	if err != nil {
		return err
	}
	sender, err := resolve(from)
	if err != nil {
		return err
	}
	who, err := resolve(to)
	if err != nil {
		return err
	}
	h.ExecuteWith(func(c *runtime.Chain) {
		back := xcm.NewAssets(xcm.NewAsset(xcm.Concrete(xcm.Parent()), amount))
		_, err = c.Xcm.ReserveWithdrawAssets(executor.Signed(sender), xcm.Parent(),
			xcm.AccountLocation(xcm.AnyNetwork, who), back, 0)
	})
	if err != nil {
		return errors.Wrap(err, "reserve withdraw")
	}
	settle(net)
	return nil
}
