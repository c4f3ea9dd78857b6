// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package simulator drives a relay chain and its parachains through
// explicit, caller stepped rounds of message delivery.
package simulator

import (
	"os"
	"path/filepath"
	"sort"

	dbm "github.com/33cn/paraxcm/common/db"
	"github.com/33cn/paraxcm/queue"
	"github.com/33cn/paraxcm/runtime"
	"github.com/33cn/paraxcm/types"
	log "github.com/inconshreveable/log15"
	"github.com/pkg/errors"
	gometrics "github.com/rcrowley/go-metrics"
)

var slog = log.New("module", "simulator")

// MockNet is a relay chain with its parachains and the bus between them.
// It is not safe for concurrent use: exactly one chain runs at a time.
type MockNet struct {
	cfg *types.Config
	dir string

	bus      *queue.Queue
	relay    *ChainHandle
	paras    map[uint32]*ChainHandle
	order    []uint32
	registry gometrics.Registry
	stats    *stats
}

// ChainHandle steps one chain of a MockNet.
type ChainHandle struct {
	net   *MockNet
	chain *runtime.Chain
}

// New builds the network of cfg and applies every genesis. Persistent
// store backends keep their files under dir.
func New(cfg *types.Config, dir string) (*MockNet, error) {
	if cfg == nil {
		return nil, errors.Wrap(types.ErrConfigNotFound, "nil config")
	}
	seen := make(map[uint32]bool)
	for _, p := range cfg.Parachains {
		if seen[p.ParaID] {
			return nil, errors.Wrapf(types.ErrUnknownChain, "duplicate parachain %d", p.ParaID)
		}
		seen[p.ParaID] = true
	}
	registry := gometrics.NewRegistry()
	n := &MockNet{
		cfg:      cfg,
		dir:      dir,
		registry: registry,
		stats:    newStats(registry),
	}
	if err := n.Reset(); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *MockNet) openDB(name string) (dbm.KV, error) {
	s := n.cfg.Store
	path := filepath.Join(n.dir, name)
	if s.Driver != dbm.MemDBBackendStr {
		// genesis is applied to an empty store
		if err := os.RemoveAll(path); err != nil {
			return nil, errors.Wrapf(err, "reset %s", path)
		}
		if err := os.MkdirAll(path, 0755); err != nil {
			return nil, errors.Wrapf(err, "create %s", path)
		}
	}
	return dbm.NewDB(name, s.Driver, path, int(s.DbCache))
}

// Reset drops every chain and the bus, then rebuilds them from genesis.
func (n *MockNet) Reset() error {
	n.Close()
	n.bus = queue.New("bus")
	n.stats.clear()

	kv, err := n.openDB("relay")
	if err != nil {
		return err
	}
	relay, err := runtime.NewRelay(n.cfg, kv)
	if err != nil {
		kv.Close()
		return err
	}
	n.relay = n.handle(relay)

	n.paras = make(map[uint32]*ChainHandle)
	n.order = n.order[:0]
	for _, p := range n.cfg.Parachains {
		kv, err := n.openDB(p.Name)
		if err != nil {
			n.Close()
			return err
		}
		c, err := runtime.NewParachain(n.cfg, p, kv)
		if err != nil {
			kv.Close()
			n.Close()
			return err
		}
		n.paras[p.ParaID] = n.handle(c)
		n.order = append(n.order, p.ParaID)
	}
	sort.Slice(n.order, func(i, j int) bool { return n.order[i] < n.order[j] })
	slog.Info("Reset", "parachains", n.order, "driver", n.cfg.Store.Driver)
	return nil
}

func (n *MockNet) handle(c *runtime.Chain) *ChainHandle {
	c.SetObserver(n.stats)
	return &ChainHandle{net: n, chain: c}
}

// Close releases every chain's store.
func (n *MockNet) Close() {
	if n.relay != nil {
		n.relay.chain.Close()
		n.relay = nil
	}
	for id, h := range n.paras {
		h.chain.Close()
		delete(n.paras, id)
	}
}

// Relay returns the relay chain.
func (n *MockNet) Relay() *ChainHandle {
	return n.relay
}

// Para returns parachain id, nil when the network has none.
func (n *MockNet) Para(id uint32) *ChainHandle {
	return n.paras[id]
}

// Chains lists the relay then the parachains by ascending id.
func (n *MockNet) Chains() []*ChainHandle {
	out := make([]*ChainHandle, 0, len(n.order)+1)
	out = append(out, n.relay)
	for _, id := range n.order {
		out = append(out, n.paras[id])
	}
	return out
}

// Round steps every chain once, relay first and then parachains by
// ascending id. Each chain handles only what was on the bus when the round
// began; what they send is delivered at the end. It returns the number of
// messages handled.
func (n *MockNet) Round() int {
	chains := n.Chains()
	inbound := make([]*queue.Queue, len(chains))
	for i, h := range chains {
		inbound[i] = n.take(h.chain.ID())
	}
	handled := 0
	for i, h := range chains {
		handled += h.chain.ProcessInbound(inbound[i])
	}
	for _, h := range chains {
		h.flush()
	}
	slog.Debug("Round", "handled", handled, "pending", n.Pending())
	return handled
}

// take moves the inbound channels of chain to off the bus.
func (n *MockNet) take(to uint32) *queue.Queue {
	q := queue.New("inbound")
	for _, key := range n.bus.Inbound(to) {
		for _, m := range n.bus.DrainAll(key) {
			q.Enqueue(key, m.Sender, m.Data)
		}
	}
	return q
}

// Pending is the number of messages on the bus.
func (n *MockNet) Pending() int {
	return n.bus.Len()
}

// Bus is the queue messages travel on between chains.
func (n *MockNet) Bus() *queue.Queue {
	return n.bus
}

// Metrics is the registry of the network's counters.
func (n *MockNet) Metrics() gometrics.Registry {
	return n.registry
}

// Config the network was built from.
func (n *MockNet) Config() *types.Config {
	return n.cfg
}

// Chain returns the chain behind h.
func (h *ChainHandle) Chain() *runtime.Chain {
	return h.chain
}

// ExecuteWith lets the chain handle what is waiting for it on the bus, runs
// fn against its state, then moves what the chain sent onto the bus. The
// peers see those messages on their next step.
func (h *ChainHandle) ExecuteWith(fn func(c *runtime.Chain)) {
	h.chain.ProcessInbound(h.net.take(h.chain.ID()))
	if fn != nil {
		fn(h.chain)
	}
	h.flush()
}

func (h *ChainHandle) flush() {
	if n := h.net.bus.Move(h.chain.Outbox()); n > 0 {
		slog.Debug("flush", "chain", h.chain.Name(), "messages", n)
	}
	h.net.stats.pending.Update(int64(h.net.bus.Len()))
}
