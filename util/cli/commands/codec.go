// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/33cn/paraxcm/types"
	"github.com/33cn/paraxcm/xcm"
	"github.com/spf13/cobra"
)

// EncodeCmd 打印跨链转账消息的编码
func EncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Print the wire encoding of the message a reserve transfer sends",
		Run:   encodeMsg,
	}
	cmd.Flags().Int64P("amount", "a", 100000, "amount deposited")
	cmd.Flags().StringP("beneficiary", "b", "alice", "account credited")
	return cmd
}

func encodeMsg(cmd *cobra.Command, args []string) {
	amount, _ := cmd.Flags().GetInt64("amount")
	to, _ := cmd.Flags().GetString("beneficiary")
	who, err := resolve(to)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return
	}
	fees := xcm.NewAsset(xcm.Concrete(xcm.Parent()), amount)
	v := xcm.NewVersionedXcm(xcm.Xcm{
		xcm.ReserveAssetDeposited{Assets: xcm.NewAssets(fees)},
		xcm.ClearOrigin{},
		xcm.BuyExecution{Fees: fees, WeightLimit: types.Unlimited},
		xcm.DepositAsset{Assets: xcm.All(), Beneficiary: xcm.AccountLocation(xcm.AnyNetwork, who)},
	})
	hash := v.Hash()
	fmt.Fprintf(cmd.OutOrStdout(), "data: %s\nhash: %s\n", hex.EncodeToString(xcm.Encode(v)), hex.EncodeToString(hash[:]))
}

// DecodeCmd 解码并打印消息
func DecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode a hex encoded versioned message",
		Run:   decodeMsg,
	}
	cmd.Flags().StringP("data", "d", "", "hex encoded message")
	cmd.MarkFlagRequired("data")
	return cmd
}

func decodeMsg(cmd *cobra.Command, args []string) {
	data, _ := cmd.Flags().GetString("data")
	b, err := hex.DecodeString(strings.TrimPrefix(data, "0x"))
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return
	}
	v, err := xcm.Decode(b)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "version: %d\n", v.Version)
	for i, ins := range v.Message {
		fmt.Fprintf(w, "%2d %s %+v\n", i, ins.Name(), ins)
	}
}
