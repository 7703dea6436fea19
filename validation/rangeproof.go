// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

package validation

import (
	"github.com/decred/dcrd/lru"
	"github.com/grinpp-go/nodecore/secp"
)

// RangeProofVerifier checks that a single output's range proof attests its
// hidden amount is non-negative and within the currency's value range. The
// underlying elliptic-curve math (Bulletproof verification) is deliberately
// left pluggable, since it needs its own constant-time bulletproof library
// this engine does not vendor. Swapping in a real verifier here is the
// only change needed to make block validation fully load-bearing.
type RangeProofVerifier interface {
	VerifyRangeProof(commitment secp.Commitment, proof []byte) bool
}

// CachingRangeProofVerifier wraps a RangeProofVerifier with an LRU cache
// keyed by commitment, so a block or transaction that references the same
// output twice (or a peer that retransmits) never pays for a second
// Bulletproof verification — the same recently-seen-set idiom the
// teacher's btcd/dcrd lineage uses for dedup caches (e.g. mempool's
// recently-rejected-transaction set), backed by the same dependency.
type CachingRangeProofVerifier struct {
	inner RangeProofVerifier
	seen  *lru.Cache
}

// NewCachingRangeProofVerifier wraps inner with an LRU membership cache of
// the given size.
func NewCachingRangeProofVerifier(inner RangeProofVerifier, cacheSize uint) *CachingRangeProofVerifier {
	return &CachingRangeProofVerifier{
		inner: inner,
		seen:  lru.NewCache(cacheSize),
	}
}

// VerifyRangeProof returns true without re-checking proof if commitment was
// already verified successfully; otherwise defers to inner and remembers a
// success.
func (c *CachingRangeProofVerifier) VerifyRangeProof(commitment secp.Commitment, proof []byte) bool {
	if c.seen.Contains(commitment) {
		return true
	}
	if !c.inner.VerifyRangeProof(commitment, proof) {
		return false
	}
	c.seen.Add(commitment)
	return true
}

// VerifyRangeProofs verifies a batch of (commitment, proof) pairs, per
// spec §4.4's "verify_range_proofs([(commitment, proof)]) in batch". The
// first failure short-circuits the batch.
func VerifyRangeProofs(v RangeProofVerifier, commitments []secp.Commitment, proofs [][]byte) bool {
	if len(commitments) != len(proofs) {
		return false
	}
	for i := range commitments {
		if !v.VerifyRangeProof(commitments[i], proofs[i]) {
			return false
		}
	}
	return true
}
