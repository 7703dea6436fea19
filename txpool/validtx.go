// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

package txpool

import (
	"github.com/grinpp-go/nodecore/txhashset"
	"github.com/grinpp-go/nodecore/validation"
	"github.com/grinpp-go/nodecore/wire"
)

// FindValidTransactions returns a greedily built, ordered subset of candidates
// that remains jointly valid against the live chain state in txs, per
// spec §4.7's aggregate(txs) and the original ValidTransactionFinder it
// supplements: reconcile_block's drop-logic (evict anything conflicting
// with the new block) is necessarily conservative, since two surviving
// pool entries might still conflict with each other once aggregated. This
// is the keep-logic counterpart, re-deriving from scratch the subset that
// is jointly valid against the chain state a block just advanced to.
//
// Candidates are considered in order; a candidate is kept only if
// aggregating it with every previously-kept candidate (and extra, which
// may be nil) still passes full body validation and UTXO-set validity. A
// rejected candidate is not reconsidered, so the result is not necessarily
// the largest jointly valid subset.
func FindValidTransactions(candidates []*wire.Transaction, extra *wire.Transaction, txs *txhashset.TxHashSet, rangeProof validation.RangeProofVerifier) ([]*wire.Transaction, error) {
	var kept []*wire.Transaction
	for _, candidate := range candidates {
		trial := append(append([]*wire.Transaction{}, kept...), candidate)
		if extra != nil {
			trial = append(trial, extra)
		}

		ok, err := isValidTransaction(trial, txs, rangeProof)
		if err != nil {
			return nil, err
		}
		if ok {
			kept = append(kept, candidate)
		}
	}
	return kept, nil
}

// isValidTransaction aggregates txs into one transaction and checks it the
// same way add() does: body validation, the kernel-sum balance equation,
// and that every input is still a live UTXO and no output collides with
// one that already exists.
func isValidTransaction(txs []*wire.Transaction, hashset *txhashset.TxHashSet, rangeProof validation.RangeProofVerifier) (bool, error) {
	agg, err := Aggregate(txs)
	if err != nil {
		return false, err
	}
	return validateAggregate(agg, hashset, rangeProof) == nil, nil
}

// validateAggregate runs the full gate a transaction must clear to enter
// or remain in a pool, per spec §4.7's add(): body validation (no
// coinbase permitted), the kernel-sum balance equation, every input
// spending a live UTXO, and no output colliding with an already-existing
// one.
func validateAggregate(tx *wire.Transaction, hashset *txhashset.TxHashSet, rangeProof validation.RangeProofVerifier) error {
	if err := validation.VerifyBody(tx.Inputs, tx.Outputs, tx.Kernels, validation.BodyOptions{IsBlock: false}, rangeProof); err != nil {
		return err
	}
	if err := validation.VerifyTransactionKernelSum(tx.Inputs, tx.Outputs, tx.Kernels, tx.Offset); err != nil {
		return err
	}

	for i := range tx.Inputs {
		ok, err := hashset.ValidateUTXO(tx.Inputs[i].Commitment)
		if err != nil {
			return err
		}
		if !ok {
			return errUnknownInput
		}
	}
	for i := range tx.Outputs {
		ok, err := hashset.ValidateUTXO(tx.Outputs[i].Commitment)
		if err != nil {
			return err
		}
		if ok {
			return errDuplicateOutput
		}
	}
	return nil
}
