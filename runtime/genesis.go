// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

import (
	"strconv"
	"strings"

	"github.com/33cn/paraxcm/executor"
	"github.com/33cn/paraxcm/sovereign"
	"github.com/33cn/paraxcm/types"
	"github.com/33cn/paraxcm/xcm"
	"github.com/pkg/errors"
)

// ResolveAccount reads a config account: a well-known name, "parent",
// "para:<id>", "sibl:<id>", or a base58 / 0x hex id.
func ResolveAccount(s string) (types.AccountID, error) {
	s = strings.TrimSpace(s)
	if acc, ok := types.WellKnownAccount(s); ok {
		return acc, nil
	}
	if s == "parent" {
		return sovereign.ParentAccount(), nil
	}
	if kv := strings.SplitN(s, ":", 2); len(kv) == 2 && (kv[0] == "para" || kv[0] == "sibl") {
		id, err := strconv.ParseUint(kv[1], 10, 32)
		if err != nil {
			return types.ZeroAccount, errors.Wrapf(types.ErrInvalidAccount, "%q", s)
		}
		if kv[0] == "para" {
			return sovereign.ChildAccount(uint32(id)), nil
		}
		return sovereign.SiblingAccount(uint32(id)), nil
	}
	return types.ParseAccountID(s)
}

func (c *Chain) endow(balances []types.Balance) error {
	for _, b := range balances {
		who, err := ResolveAccount(b.Account)
		if err != nil {
			return err
		}
		if _, err := c.Balances.GenesisInit(who, b.Amount); err != nil {
			return errors.Wrapf(err, "%s genesis %s", c.name, b.Account)
		}
	}
	return nil
}

func (c *Chain) relayGenesis(r *types.Relay) error {
	return c.endow(r.Balances)
}

func (c *Chain) paraGenesis(p *types.Parachain) error {
	if err := c.endow(p.Balances); err != nil {
		return err
	}
	for _, a := range p.Assets {
		loc, err := xcm.ParseLocation(a.Location)
		if err != nil {
			return errors.Wrapf(err, "asset %d", a.ID)
		}
		owner, err := ResolveAccount(a.Owner)
		if err != nil {
			return errors.Wrapf(err, "asset %d owner", a.ID)
		}
		if _, err := c.Assets.ForceCreate(a.ID, loc, owner, a.MinBalance); err != nil {
			return err
		}
		if _, err := c.Assets.SetMetadata(a.ID, a.Name, a.Symbol, a.Decimals); err != nil {
			return err
		}
		for _, b := range a.Balances {
			who, err := ResolveAccount(b.Account)
			if err != nil {
				return err
			}
			if _, err := c.Assets.GenesisInit(a.ID, who, b.Amount); err != nil {
				return errors.Wrapf(err, "asset %d genesis %s", a.ID, b.Account)
			}
		}
	}
	return nil
}

// reserveLocation reads "local", "parent" or "sibling:<id>".
func reserveLocation(s string) (xcm.Location, bool, error) {
	switch {
	case s == "" || s == "local":
		return xcm.Location{}, false, nil
	case s == "parent":
		return xcm.Parent(), true, nil
	case strings.HasPrefix(s, "sibling:"):
		id, err := strconv.ParseUint(strings.TrimPrefix(s, "sibling:"), 10, 32)
		if err != nil {
			return xcm.Location{}, false, errors.Wrapf(types.ErrBadFormat, "reserve %q", s)
		}
		return xcm.SiblingLocation(uint32(id)), true, nil
	}
	return xcm.Location{}, false, errors.Wrapf(types.ErrBadFormat, "reserve %q", s)
}

// reserveFilter trusts each chain as the reserve of its own assets and of
// the classes the config assigns to it.
func reserveFilter(p *types.Parachain) (executor.ReserveFilter, error) {
	filters := []executor.ReserveFilter{executor.NativeAsset()}
	for _, a := range p.Assets {
		reserve, foreign, err := reserveLocation(a.Reserve)
		if err != nil {
			return nil, err
		}
		if !foreign {
			continue
		}
		loc, err := xcm.ParseLocation(a.Location)
		if err != nil {
			return nil, errors.Wrapf(err, "asset %d", a.ID)
		}
		filters = append(filters, executor.ReserveFrom(reserve, xcm.Concrete(loc)))
	}
	return executor.ReserveFilters(filters...), nil
}
