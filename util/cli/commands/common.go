// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package commands holds the simulator subcommands.
package commands

import (
	"fmt"
	"io"

	"github.com/33cn/paraxcm/account"
	"github.com/33cn/paraxcm/common/log"
	"github.com/33cn/paraxcm/metrics"
	"github.com/33cn/paraxcm/runtime"
	"github.com/33cn/paraxcm/simulator"
	"github.com/33cn/paraxcm/types"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// settling a scenario never needs more rounds than this
const maxRounds = 16

type namedAccount struct {
	name string
	id   types.AccountID
}

// loadConfig reads the persistent flags shared by every command.
func loadConfig(cmd *cobra.Command) (*types.Config, string, error) {
	conf, _ := cmd.Flags().GetString("conf")
	datadir, _ := cmd.Flags().GetString("datadir")
	level, _ := cmd.Flags().GetString("log-level")

	cfg := types.DefaultConfig()
	if conf != "" {
		var err error
		cfg, err = types.InitCfg(conf)
		if err != nil {
			return nil, "", err
		}
	}
	if level != "" {
		cfg.Log.LogConsoleLevel = level
	}
	log.SetFileLog(cfg.Log)
	return cfg, datadir, nil
}

// openNet builds the network and starts metric reporting. The returned
// func stops both.
func openNet(cmd *cobra.Command) (*simulator.MockNet, func(), error) {
	cfg, datadir, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	net, err := simulator.New(cfg, datadir)
	if err != nil {
		return nil, nil, err
	}
	stop, err := metrics.StartMetrics(cfg.Metrics, net.Metrics())
	if err != nil {
		net.Close()
		return nil, nil, err
	}
	return net, func() {
		if stop != nil {
			stop()
		}
		net.Close()
	}, nil
}

// settle runs rounds until the bus is empty.
func settle(net *simulator.MockNet) int {
	rounds := 0
	for net.Pending() > 0 && rounds < maxRounds {
		net.Round()
		rounds++
	}
	return rounds
}

func paraHandle(net *simulator.MockNet, id uint32) (*simulator.ChainHandle, error) {
	h := net.Para(id)
	if h == nil {
		return nil, errors.Wrapf(types.ErrUnknownChain, "para %d", id)
	}
	return h, nil
}

func resolve(s string) (types.AccountID, error) {
	return runtime.ResolveAccount(s)
}

// watched lists the accounts worth printing on c: the development keys
// and the sovereign accounts of its neighbours.
func watched(net *simulator.MockNet, c *runtime.Chain) []namedAccount {
	var out []namedAccount
	for _, name := range types.WellKnownNames() {
		id, _ := types.WellKnownAccount(name)
		out = append(out, namedAccount{name, id})
	}
	if c.IsRelay() {
		for _, h := range net.Chains()[1:] {
			id := h.Chain().ID()
			out = append(out, namedAccount{fmt.Sprintf("para:%d", id), simulator.ChildAccount(id)})
		}
		return out
	}
	out = append(out, namedAccount{"parent", simulator.ParentAccount()})
	for _, h := range net.Chains()[1:] {
		if id := h.Chain().ID(); id != c.ID() {
			out = append(out, namedAccount{fmt.Sprintf("sibl:%d", id), simulator.SiblingAccount(id)})
		}
	}
	return out
}

func printBalances(w io.Writer, net *simulator.MockNet) error {
	for _, h := range net.Chains() {
		c := h.Chain()
		fmt.Fprintf(w, "%s (para %d)\n", c.Name(), c.ID())
		who := watched(net, c)
		for _, a := range who {
			bal := c.Balances.FreeBalance(a.id)
			if bal == 0 {
				continue
			}
			fmt.Fprintf(w, "  %-10s %s %s\n", a.name, account.FormatAmount(bal, c.Decimals()), c.Symbol())
		}
		if c.Assets == nil {
			continue
		}
		classes, err := c.Assets.Classes()
		if err != nil {
			return err
		}
		for _, d := range classes {
			symbol, decimals := fmt.Sprintf("#%d", d.ID), uint8(0)
			if meta, err := c.Assets.Metadata(d.ID); err == nil && meta.Symbol != "" {
				symbol, decimals = meta.Symbol, meta.Decimals
			}
			for _, a := range who {
				bal := c.Assets.Balance(d.ID, a.id)
				if bal == 0 {
					continue
				}
				fmt.Fprintf(w, "  %-10s %s %s\n", a.name, account.FormatAmount(bal, decimals), symbol)
			}
		}
	}
	return nil
}

func printEvents(w io.Writer, net *simulator.MockNet) {
	for _, h := range net.Chains() {
		c := h.Chain()
		evs := c.System.Events()
		if len(evs) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s events\n", c.Name())
		for _, ev := range evs {
			fmt.Fprintf(w, "  %s\n", ev)
		}
	}
}

// report prints the state after a scenario.
func report(cmd *cobra.Command, net *simulator.MockNet) error {
	w := cmd.OutOrStdout()
	if err := printBalances(w, net); err != nil {
		return err
	}
	if verbose, _ := cmd.Flags().GetBool("events"); verbose {
		printEvents(w, net)
	}
	return nil
}

func addEventsFlag(cmd *cobra.Command) {
	cmd.Flags().BoolP("events", "e", false, "print the chain events")
}
