// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

// Package txpool implements spec §4.7: the MemPool, StemPool, and JoinPool
// a node holds unconfirmed transactions in, and the Dandelion++ routing
// state machine (TO_STEM / TO_FLUFF / STEMMED / FLUFFED) that decides how
// each one is relayed. It depends on package validation for the body/
// kernel-sum checks a candidate must pass, and on package txhashset for
// the live UTXO set those checks run against; it never holds any lock
// belonging to either, matching spec §5's fixed lock order
// "TxPool → ChainStore → TxHashSet → ChainDB".
package txpool

import (
	"math/rand"
	"sync"
	"time"

	"github.com/grinpp-go/nodecore/chaincfg"
	"github.com/grinpp-go/nodecore/chainhash"
	"github.com/grinpp-go/nodecore/chainstore"
	"github.com/grinpp-go/nodecore/txhashset"
	"github.com/grinpp-go/nodecore/validation"
	"github.com/grinpp-go/nodecore/wire"
)

// TransactionPool is the Dandelion-aware orchestrator composing the three
// pools spec §4.7 describes.
type TransactionPool struct {
	mu sync.RWMutex

	memPool  *pool
	stemPool *pool
	joinPool *pool

	store  *chainstore.Store
	txs    *txhashset.TxHashSet
	proofs validation.RangeProofVerifier

	now  func() time.Time
	rand *rand.Rand
}

// New builds an empty TransactionPool over the given chain state.
func New(store *chainstore.Store, txs *txhashset.TxHashSet, proofs validation.RangeProofVerifier) *TransactionPool {
	return &TransactionPool{
		memPool:  newPool(),
		stemPool: newPool(),
		joinPool: newPool(),
		store:    store,
		txs:      txs,
		proofs:   proofs,
		now:      time.Now,
		rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Add validates tx and, if it passes, inserts it into poolType, per spec
// §4.7's add(tx, pool_type). A MemPool insertion is always FLUFFED. A
// StemPool insertion rolls chaincfg.DandelionStemProbability to decide
// between TO_STEM (private, peer-routed) and TO_FLUFF (ready to
// broadcast). A JoinPool insertion always starts TO_FLUFF, staged for
// later aggregation by FluffJoinPool.
func (p *TransactionPool) Add(tx *wire.Transaction, poolType PoolType) (AddStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	hash := tx.Hash()
	if p.memPool.contains(hash) || p.stemPool.contains(hash) || p.joinPool.contains(hash) {
		return DuplicateTx, nil
	}

	weight := validation.Weight(len(tx.Inputs), len(tx.Outputs), len(tx.Kernels))
	if tx.Fee() < chaincfg.MinRelayFeeBase*weight {
		return LowFee, errLowFee
	}

	tip, ok, err := p.store.Tip(chainstore.Candidate)
	if err != nil {
		return TxInvalid, err
	}
	if ok {
		for i := range tx.Kernels {
			if tx.Kernels[i].LockHeight > tip.Height+1 {
				return TxInvalid, errLockHeight
			}
		}
	}

	if err := validateAggregate(tx, p.txs, p.proofs); err != nil {
		return TxInvalid, err
	}

	now := p.now()
	switch poolType {
	case MemPoolType:
		p.memPool.add(tx, Fluffed, now)
	case JoinPoolType:
		p.joinPool.add(tx, ToFluff, now)
	default:
		status := ToFluff
		if p.rand.Intn(100) < int(chaincfg.DandelionStemProbability) {
			status = ToStem
		}
		p.stemPool.add(tx, status, now)
	}
	return Added, nil
}

// ReconcileBlock drops every pool entry that conflicts with a newly
// connected block, then re-validates the survivors against the new chain
// state, per spec §4.7's reconcile_block. MemPool is reconciled first,
// then StemPool and JoinPool against MemPool's aggregate, matching the
// original TransactionPoolImpl's ordering: a stem/join entry that only
// remains valid because of something already mined into MemPool's
// aggregate should be dropped too.
func (p *TransactionPool) ReconcileBlock(block *wire.FullBlock) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.memPool.reconcile(block)
	if err := p.revalidate(p.memPool, nil); err != nil {
		return err
	}

	memAgg, err := p.memPool.aggregate()
	if err != nil {
		return err
	}

	p.stemPool.reconcile(block)
	if err := p.revalidate(p.stemPool, memAgg); err != nil {
		return err
	}
	p.joinPool.reconcile(block)
	if err := p.revalidate(p.joinPool, memAgg); err != nil {
		return err
	}
	return nil
}

// revalidate replaces target's contents with the subset FindValidTransactions
// says is still jointly valid (against extra, typically another pool's
// current aggregate), preserving each survivor's Dandelion status and
// insertion time.
func (p *TransactionPool) revalidate(target *pool, extra *wire.Transaction) error {
	candidates := target.transactions()
	valid, err := FindValidTransactions(candidates, extra, p.txs, p.proofs)
	if err != nil {
		return err
	}

	validHashes := make(map[chainhash.Hash]bool, len(valid))
	for _, tx := range valid {
		validHashes[tx.Hash()] = true
	}
	for hash := range target.byTxHash {
		if !validHashes[hash] {
			target.remove(hash)
		}
	}
	return nil
}

// GetTransactionsByShortId resolves compact-block short IDs against every
// pool, per spec §4.7.
func (p *TransactionPool) GetTransactionsByShortId(blockHash chainhash.Hash, nonce uint64, ids []ShortID) []*wire.Transaction {
	p.mu.RLock()
	defer p.mu.RUnlock()

	missing := make(map[ShortID]bool, len(ids))
	for _, id := range ids {
		missing[id] = true
	}

	var found []*wire.Transaction
	for _, pl := range []*pool{p.memPool, p.stemPool, p.joinPool} {
		found = append(found, pl.getTransactionsByShortId(blockHash, nonce, missing)...)
	}
	return found
}

// Expired promotes every StemPool entry whose embargo timer (
// chaincfg.DandelionEmbargoSec plus a 0-30s jitter) has lapsed to
// TO_FLUFF, per spec §4.7's expired(), and returns the promoted
// transactions so the caller can broadcast them.
func (p *TransactionPool) Expired() []*wire.Transaction {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	var promoted []*wire.Transaction
	for _, e := range p.stemPool.entriesByStatus(ToStem) {
		jitter := time.Duration(p.rand.Intn(30)) * time.Second
		embargo := time.Duration(chaincfg.DandelionEmbargoSec)*time.Second + jitter
		if now.Sub(e.timestamp) >= embargo {
			e.status = ToFluff
			promoted = append(promoted, e.tx)
		}
	}
	return promoted
}

// FluffJoinPool aggregates every JoinPool transaction into one, stages it
// in StemPool as TO_FLUFF, and clears JoinPool — the terminal step of the
// aggregation pattern §4.7 describes for join-staged transactions.
func (p *TransactionPool) FluffJoinPool() (*wire.Transaction, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.joinPool.len() == 0 {
		return nil, nil
	}
	agg, err := p.joinPool.aggregate()
	if err != nil {
		return nil, err
	}

	p.stemPool.add(agg, ToFluff, p.now())
	p.joinPool = newPool()
	return agg, nil
}

// Contains reports whether any pool already holds a transaction with hash.
func (p *TransactionPool) Contains(hash chainhash.Hash) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.memPool.contains(hash) || p.stemPool.contains(hash) || p.joinPool.contains(hash)
}

// FindByKernelHash looks a transaction up by one of its kernel hashes,
// across every pool.
func (p *TransactionPool) FindByKernelHash(kernelHash chainhash.Hash) (*wire.Transaction, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, pl := range []*pool{p.memPool, p.stemPool, p.joinPool} {
		if tx, ok := pl.findByKernelHash(kernelHash); ok {
			return tx, true
		}
	}
	return nil, false
}

// MemPoolTransactions returns every FLUFFED transaction, the broadcastable
// candidate set for the next mined block.
func (p *TransactionPool) MemPoolTransactions() []*wire.Transaction {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.memPool.transactions()
}
