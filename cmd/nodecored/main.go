// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

// Command nodecored wires chaincontext.Context and the core chain
// components — Chain DB, Chain Store, TxHashSet, PoW Verifier, Block
// Processor, and Tx Pool — together into a running process. It carries no
// P2P or RPC server of its own: peer discovery and wire-protocol handling
// belong to a separate networking binary that consumes this one's chain
// components, not to the node core itself.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/grinpp-go/nodecore/blockprocessor"
	"github.com/grinpp-go/nodecore/chaincontext"
	"github.com/grinpp-go/nodecore/chaindb"
	"github.com/grinpp-go/nodecore/chainstore"
	"github.com/grinpp-go/nodecore/pow"
	"github.com/grinpp-go/nodecore/secp"
	"github.com/grinpp-go/nodecore/txhashset"
	"github.com/grinpp-go/nodecore/txpool"
)

// acceptAllRangeProofs is a placeholder RangeProofVerifier: Bulletproof
// verification needs its own constant-time bulletproof library, which this
// binary does not vendor. Swapping in a real verifier here is the only
// change needed to make this binary's block validation fully load-bearing.
type acceptAllRangeProofs struct{}

func (acceptAllRangeProofs) VerifyRangeProof(secp.Commitment, []byte) bool { return true }

func realMain() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, err := cfg.buildContext()
	if err != nil {
		return err
	}
	defer func() {
		if logRotator != nil {
			logRotator.Close()
		}
	}()

	ctx.Logger.Infof("Starting nodecored (network=%d, datadir=%s)", ctx.Network, ctx.DataDir)

	if err := os.MkdirAll(ctx.DataDir, 0700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	db, err := chaindb.Open(ctx.DataDir)
	if err != nil {
		return fmt.Errorf("opening chain db: %w", err)
	}
	defer db.Close()

	store, err := chainstore.New(db)
	if err != nil {
		return fmt.Errorf("opening chain store: %w", err)
	}

	txs := txhashset.New(db, nil)
	powVerifier := pow.New(db)
	rangeProofs := validationRangeProofVerifier()

	processor := blockprocessor.New(db, store, txs, ctx.Params, powVerifier, rangeProofs)
	pool := txpool.New(store, txs, rangeProofs)

	if err := bootstrapGenesis(processor, ctx); err != nil {
		return fmt.Errorf("bootstrapping genesis: %w", err)
	}
	ctx.Logger.Debugf("tx pool initialized with %d pending transactions", len(pool.MemPoolTransactions()))

	ctx.Logger.Infof("nodecored is running; press Ctrl+C to exit")
	waitForShutdown(ctx)
	ctx.Logger.Infof("nodecored shutting down")
	return nil
}

// validationRangeProofVerifier returns the process-wide RangeProofVerifier,
// isolated into its own function so swapping in a real Bulletproof
// implementation later only touches this one call site.
func validationRangeProofVerifier() acceptAllRangeProofs {
	return acceptAllRangeProofs{}
}

// bootstrapGenesis feeds the network's genesis block through the ordinary
// ProcessBlock path if the chain store has no tip yet. ProcessBlock runs
// ProcessBlockHeader internally, so genesis needs no special-cased bootstrap
// API: it is simply the first block any chain ever processes. A genesis
// already recorded from a prior run comes back as AlreadyKnown, which is not
// an error.
func bootstrapGenesis(processor *blockprocessor.Processor, ctx *chaincontext.Context) error {
	genesis := ctx.Params.Genesis
	if genesis == nil {
		return fmt.Errorf("network %d has no genesis block configured", ctx.Network)
	}

	status, err := processor.ProcessBlock(genesis)
	if err != nil {
		return fmt.Errorf("processing genesis block: %w", err)
	}
	if status.Result == blockprocessor.ResultRejected {
		return fmt.Errorf("genesis block rejected: %w", status.Err)
	}
	return nil
}

// waitForShutdown blocks until SIGINT or SIGTERM arrives.
func waitForShutdown(ctx *chaincontext.Context) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	ctx.Logger.Infof("received signal %v", sig)
}

func main() {
	if err := realMain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
