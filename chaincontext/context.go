// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

// Package chaincontext bundles the dependencies every component
// constructor below cmd/ needs, so that no package reaches for a process
// global to learn which network it's on, where to write data, or how to
// log. Exactly one Context is built per process, in cmd/nodecored, which
// passes its fields explicitly where they are needed: DataDir to
// chaindb.Open and Params to blockprocessor.New.
package chaincontext

import (
	"errors"
	"fmt"

	"github.com/grinpp-go/nodecore/chaincfg"
	flog "github.com/grinpp-go/nodecore/log"
)

// Context is the validated bundle spec §9's "Global mutable state" design
// note resolves into an explicit dependency, never a package-level
// variable: every constructor that needs to know the network, where to
// persist state, how many peers to track, or how to log takes a *Context
// (or the narrow pieces of it it actually needs) as a parameter.
type Context struct {
	// DataDir is the directory chaindb's LevelDB files live under.
	DataDir string

	// Network selects which of chaincfg's registered parameter sets this
	// node runs, and Params is that set, resolved once at startup so
	// every component reads the same immutable value.
	Network chaincfg.Network
	Params  *chaincfg.Params

	// Logger is the backend every package's per-package UseLogger call is
	// wired to. Left nil before validation defaults it to flog.Disabled,
	// the same "silent until told otherwise" default every package's own
	// log.go carries.
	Logger flog.Logger

	// MinPeers/MaxPeers bound the peer set a future networking component
	// would maintain. Carried here per spec §9 even though no package in
	// this module currently reads them (P2P gossip and peer discovery are
	// explicit Non-goals), so that networking code added later has a
	// place to read them from rather than inventing a second config path.
	MinPeers int
	MaxPeers int
}

// Default peer bounds, used when New is not given explicit values (zero
// means "unset" rather than "no peers").
const (
	DefaultMinPeers = 8
	DefaultMaxPeers = 64
)

// New validates and returns a Context for the given network and data
// directory, applying the documented peer-count defaults when minPeers/
// maxPeers are zero.
func New(dataDir string, network chaincfg.Network, minPeers, maxPeers int) (*Context, error) {
	if dataDir == "" {
		return nil, errors.New("chaincontext: DataDir must not be empty")
	}

	params := chaincfg.ParamsForNetwork(network)
	if params == nil {
		return nil, fmt.Errorf("chaincontext: unrecognized network %d", network)
	}

	if minPeers == 0 {
		minPeers = DefaultMinPeers
	}
	if maxPeers == 0 {
		maxPeers = DefaultMaxPeers
	}
	if minPeers < 0 || maxPeers < 0 {
		return nil, errors.New("chaincontext: peer counts must not be negative")
	}
	if minPeers > maxPeers {
		return nil, fmt.Errorf("chaincontext: MinPeers (%d) exceeds MaxPeers (%d)", minPeers, maxPeers)
	}

	return &Context{
		DataDir:  dataDir,
		Network:  network,
		Params:   params,
		Logger:   flog.Disabled,
		MinPeers: minPeers,
		MaxPeers: maxPeers,
	}, nil
}

// UseLogger replaces ctx's logger, returning ctx for chaining at
// construction time (`ctx, _ := chaincontext.New(...); ctx.UseLogger(backend)`).
func (c *Context) UseLogger(logger flog.Logger) *Context {
	if logger == nil {
		logger = flog.Disabled
	}
	c.Logger = logger
	return c
}
