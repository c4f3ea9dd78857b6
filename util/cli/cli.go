// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cli is the command line front end of the network simulator.
package cli

import (
	"fmt"
	"os"

	"github.com/33cn/paraxcm/common/log"
	"github.com/33cn/paraxcm/util/cli/commands"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "xcmsim",
	Short: "relay chain and parachain cross-consensus message simulator",
}

func init() {
	rootCmd.PersistentFlags().StringP("conf", "f", "", "network config file, empty for the built-in network")
	rootCmd.PersistentFlags().String("datadir", "datadir", "directory of persistent chain stores")
	rootCmd.PersistentFlags().String("log-level", "", "console log level, overrides the config")

	rootCmd.AddCommand(
		commands.AccountsCmd(),
		commands.ReserveTransferCmd(),
		commands.ReturnCmd(),
		commands.TransactCmd(),
		commands.EncodeCmd(),
		commands.DecodeCmd(),
	)
}

//Run :
func Run() {
	log.SetLogLevel("error")
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
