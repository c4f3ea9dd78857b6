// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runtime hosts the state of one simulated chain: its ledgers,
// pallets, message queue handlers and xcm executor.
package runtime

import (
	"github.com/33cn/paraxcm/account"
	dbm "github.com/33cn/paraxcm/common/db"
	"github.com/33cn/paraxcm/executor"
	"github.com/33cn/paraxcm/queue"
	"github.com/33cn/paraxcm/sovereign"
	"github.com/33cn/paraxcm/types"
	"github.com/33cn/paraxcm/xcm"
	log "github.com/inconshreveable/log15"
	"github.com/pkg/errors"
)

var rlog = log.New("module", "runtime")

// ExistentialDeposit is the least native balance a kept-alive account holds.
const ExistentialDeposit int64 = 1

// Chain is one relay chain or parachain.
type Chain struct {
	id       uint32
	name     string
	symbol   string
	decimals uint8
	network  xcm.NetworkID
	universe xcm.Junctions

	db       dbm.KV
	accounts *sovereign.Converter
	exec     *executor.Executor
	router   *Router
	outbox   *queue.Queue

	Balances *account.DB
	// Assets is nil on the relay chain.
	Assets   *account.AssetsDB
	Store    *Store
	System   *System
	Xcm      *XcmPallet
	MsgQueue *MsgQueue
}

func newChain(id uint32, name, symbol string, decimals uint8, network string, db dbm.KV) (*Chain, error) {
	nid, err := xcm.ParseNetwork(network)
	if err != nil {
		return nil, err
	}
	balances, err := account.NewAccountDB(symbol, db)
	if err != nil {
		return nil, errors.Wrapf(err, "chain %s symbol %q", name, symbol)
	}
	c := &Chain{
		id:       id,
		name:     name,
		symbol:   symbol,
		decimals: decimals,
		network:  nid,
		db:       db,
		outbox:   queue.New(name + "-outbox"),
		Balances: balances,
		Store:    NewStore(db),
		System:   &System{},
	}
	c.Xcm = &XcmPallet{c: c}
	return c, nil
}

// NewRelay builds the relay chain from cfg and applies its genesis.
func NewRelay(cfg *types.Config, db dbm.KV) (*Chain, error) {
	r := cfg.Relay
	c, err := newChain(types.RelayParaID, "relay", r.Symbol, r.Decimals, r.Network, db)
	if err != nil {
		return nil, err
	}
	c.accounts = sovereign.RelayConverter(c.network)
	c.router = &Router{id: c.id, outbox: c.outbox}

	native := xcm.Concrete(xcm.Here())
	c.exec = executor.New(&executor.Config{
		Barrier: executor.Barriers{
			executor.TakeWeightCredit(),
			executor.AllowTopLevelPaidExecutionFrom(executor.Everything()),
			executor.AllowExplicitUnpaidExecutionFrom(childParachains()),
		},
		Weigher:         executor.NewFixedWeightBounds(cfg.Executor),
		Trader:          executor.NewFixedRateOfFungible(native, 1, 1),
		AssetTransactor: &executor.CurrencyAdapter{Ledger: c.Balances, ID: native, Accounts: c.accounts, Receipts: c.System.DepositReceipt},
		OriginConverter: executor.OriginConverters{
			executor.SovereignSignedViaLocation(c.accounts),
			executor.SignedAccountID32AsNative(c.network),
			executor.XcmPassthrough(),
		},
		LocationToAccount:    c.accounts,
		IsReserve:            executor.NativeAsset(),
		Aliasers:             []executor.Aliaser{executor.AliasChildLocation()},
		Dispatcher:           c,
		Router:               c.router,
		Events:               c.System,
		MaxAssetsIntoHolding: cfg.Executor.MaxAssetsIntoHolding,
	})
	c.MsgQueue = newMsgQueue(c)
	if err := c.relayGenesis(r); err != nil {
		return nil, err
	}
	rlog.Info("NewRelay", "network", c.network, "symbol", c.symbol)
	return c, nil
}

// NewParachain builds parachain p from cfg and applies its genesis.
func NewParachain(cfg *types.Config, p *types.Parachain, db dbm.KV) (*Chain, error) {
	if p.ParaID == types.RelayParaID {
		return nil, errors.Wrap(types.ErrUnknownChain, "parachain id 0 is the relay")
	}
	c, err := newChain(p.ParaID, p.Name, p.Symbol, p.Decimals, p.Network, db)
	if err != nil {
		return nil, err
	}
	c.universe = xcm.Junctions{xcm.Parachain{ID: p.ParaID}}
	c.accounts = sovereign.ParachainConverter(c.network)
	c.router = &Router{id: c.id, outbox: c.outbox, compress: p.CompressHorizontal}
	c.Assets = account.NewAssetsDB(db)

	reserves, err := reserveFilter(p)
	if err != nil {
		return nil, err
	}
	barriers := executor.Barriers{
		executor.TakeWeightCredit(),
		executor.AllowTopLevelPaidExecutionFrom(executor.Everything()),
		executor.AllowExplicitUnpaidExecutionFrom(executor.ParentOrSiblings()),
	}
	if p.AllowUnpaid {
		barriers = append(barriers, executor.AllowUnpaidExecutionFrom(executor.Everything()))
	}
	origins := executor.OriginConverters{
		executor.SovereignSignedViaLocation(c.accounts),
		executor.SignedAccountID32AsNative(c.network),
	}
	if p.ParentSuperuser {
		origins = append(origins, executor.ParentAsSuperuser())
	}
	origins = append(origins, executor.XcmPassthrough())

	native := xcm.Concrete(xcm.Here())
	c.exec = executor.New(&executor.Config{
		UniversalLocation: c.universe,
		Barrier:           barriers,
		Weigher:           executor.NewFixedWeightBounds(cfg.Executor),
		Trader:            executor.NewFixedRateOfFungible(xcm.Concrete(xcm.Parent()), 1, 1),
		AssetTransactor: executor.Transactors{
			&executor.CurrencyAdapter{Ledger: c.Balances, ID: native, Accounts: c.accounts, Receipts: c.System.DepositReceipt},
			&executor.FungiblesAdapter{Ledger: c.Assets, Accounts: c.accounts, CheckingAccount: account.CheckingAccount, Receipts: c.System.DepositReceipt},
		},
		OriginConverter:      origins,
		LocationToAccount:    c.accounts,
		IsReserve:            reserves,
		Aliasers:             []executor.Aliaser{executor.AliasForeignAccountID32(xcm.Parent()), executor.AliasChildLocation()},
		Dispatcher:           c,
		Router:               c.router,
		Events:               c.System,
		MaxAssetsIntoHolding: cfg.Executor.MaxAssetsIntoHolding,
	})
	c.MsgQueue = newMsgQueue(c)
	if err := c.paraGenesis(p); err != nil {
		return nil, err
	}
	rlog.Info("NewParachain", "id", c.id, "name", c.name, "network", c.network, "assets", len(p.Assets))
	return c, nil
}

func childParachains() executor.LocationFilter {
	return func(l xcm.Location) bool {
		_, ok := l.ParachainID()
		return ok && l.Parents == 0
	}
}

// ID is the parachain id, 0 for the relay.
func (c *Chain) ID() uint32 { return c.id }

// Name of the chain.
func (c *Chain) Name() string { return c.name }

// IsRelay reports whether c is the relay chain.
func (c *Chain) IsRelay() bool { return c.id == types.RelayParaID }

// Symbol of the native currency.
func (c *Chain) Symbol() string { return c.symbol }

// Decimals of the native currency.
func (c *Chain) Decimals() uint8 { return c.decimals }

// Network is the consensus network of the chain.
func (c *Chain) Network() xcm.NetworkID { return c.network }

// UniversalLocation is the interior of the chain below the network root.
func (c *Chain) UniversalLocation() xcm.Junctions { return c.universe }

// Executor returns the xcm executor of c.
func (c *Chain) Executor() *executor.Executor { return c.exec }

// Outbox holds the messages sent by c and not yet delivered.
func (c *Chain) Outbox() *queue.Queue { return c.outbox }

// AccountOf derives the local account of location l.
func (c *Chain) AccountOf(l xcm.Location) (types.AccountID, error) {
	return c.accounts.Convert(l)
}

// ProcessInbound executes every message waiting for c on bus.
func (c *Chain) ProcessInbound(bus *queue.Queue) int {
	return c.MsgQueue.funcs.ProcessInbound(bus, c.id)
}

// SetObserver installs o to be told about every inbound message.
func (c *Chain) SetObserver(o Observer) {
	c.MsgQueue.observer = o
}

// Close releases the chain's store.
func (c *Chain) Close() {
	c.db.Close()
}
