// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

package txpool

import (
	"time"

	"github.com/grinpp-go/nodecore/chainhash"
	"github.com/grinpp-go/nodecore/wire"
)

// pool is the per-pool primitive shared by MemPool, StemPool, and JoinPool
// (spec §4.7): an unordered set of (transaction, dandelion_status,
// insertion_time) entries, indexed by transaction hash and by kernel hash.
// It holds no lock of its own — TransactionPool serializes access to all
// three pools under a single lock, per spec §5's "Tx Pool: its own
// read-write lock."
type pool struct {
	byTxHash     map[chainhash.Hash]*entry
	byKernelHash map[chainhash.Hash]*entry
}

func newPool() *pool {
	return &pool{
		byTxHash:     make(map[chainhash.Hash]*entry),
		byKernelHash: make(map[chainhash.Hash]*entry),
	}
}

func (p *pool) add(tx *wire.Transaction, status DandelionStatus, now time.Time) *entry {
	e := newEntry(tx, status, now)
	p.byTxHash[e.hash] = e
	for i := range tx.Kernels {
		p.byKernelHash[tx.Kernels[i].Hash()] = e
	}
	return e
}

func (p *pool) contains(hash chainhash.Hash) bool {
	_, ok := p.byTxHash[hash]
	return ok
}

func (p *pool) remove(hash chainhash.Hash) {
	e, ok := p.byTxHash[hash]
	if !ok {
		return
	}
	delete(p.byTxHash, hash)
	for i := range e.tx.Kernels {
		delete(p.byKernelHash, e.tx.Kernels[i].Hash())
	}
}

func (p *pool) changeStatus(hash chainhash.Hash, status DandelionStatus) {
	if e, ok := p.byTxHash[hash]; ok {
		e.status = status
	}
}

func (p *pool) len() int { return len(p.byTxHash) }

// transactions returns every pooled transaction, in no particular order.
func (p *pool) transactions() []*wire.Transaction {
	out := make([]*wire.Transaction, 0, len(p.byTxHash))
	for _, e := range p.byTxHash {
		out = append(out, e.tx)
	}
	return out
}

// entriesByStatus returns every entry whose Dandelion status is status.
func (p *pool) entriesByStatus(status DandelionStatus) []*entry {
	var out []*entry
	for _, e := range p.byTxHash {
		if e.status == status {
			out = append(out, e)
		}
	}
	return out
}

// findByKernelHash returns the transaction a kernel hash belongs to, if
// pooled.
func (p *pool) findByKernelHash(kernelHash chainhash.Hash) (*wire.Transaction, bool) {
	e, ok := p.byKernelHash[kernelHash]
	if !ok {
		return nil, false
	}
	return e.tx, true
}

// getTransactionsByShortId returns every pooled transaction whose kernel's
// short ID (derived from blockHash/nonce) appears in missing, per spec
// §4.7's get_transactions_by_short_id.
func (p *pool) getTransactionsByShortId(blockHash chainhash.Hash, nonce uint64, missing map[ShortID]bool) []*wire.Transaction {
	var found []*wire.Transaction
	seen := make(map[chainhash.Hash]bool)
	for kernelHash, e := range p.byKernelHash {
		id := NewShortID(kernelHash, blockHash, nonce)
		if missing[id] && !seen[e.hash] {
			found = append(found, e.tx)
			seen[e.hash] = true
			if len(found) == len(missing) {
				break
			}
		}
	}
	return found
}

// shouldEvict reports whether e conflicts with a block that was just
// connected: any of its inputs spends a commitment the block's inputs
// also spent, or any of its kernels already appears in the block, per
// the original's ShouldEvict.
func shouldEvict(e *entry, block *wire.FullBlock) bool {
	for i := range block.Inputs {
		for j := range e.tx.Inputs {
			if block.Inputs[i].Commitment == e.tx.Inputs[j].Commitment {
				return true
			}
		}
	}
	for i := range block.Kernels {
		blockKernelHash := block.Kernels[i].Hash()
		for j := range e.tx.Kernels {
			if blockKernelHash == e.tx.Kernels[j].Hash() {
				return true
			}
		}
	}
	return false
}

// reconcile drops every entry that conflicts with block, per spec §4.7's
// reconcile_block.
func (p *pool) reconcile(block *wire.FullBlock) {
	for hash, e := range p.byTxHash {
		if shouldEvict(e, block) {
			p.remove(hash)
		}
	}
}

// aggregate combines every pooled transaction into one, or returns an
// empty transaction if the pool holds nothing.
func (p *pool) aggregate() (*wire.Transaction, error) {
	return Aggregate(p.transactions())
}
