// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

package txhashset

import (
	"github.com/grinpp-go/nodecore/chainhash"
	"github.com/grinpp-go/nodecore/mmr"
	"github.com/grinpp-go/nodecore/secp"
	"github.com/grinpp-go/nodecore/wire"
)

// Store is the persistence contract TxHashSet needs from the Chain DB: the
// BLOCK_SUMS, OUTPUT_POS, and SPENT_OUTPUTS column families described in
// spec §4.1. chaindb.DB implements this directly; tests use MemBackend.
type Store interface {
	GetBlockSums(hash chainhash.Hash) (BlockSums, bool, error)
	PutBlockSums(hash chainhash.Hash, sums BlockSums) error

	GetOutputLocation(c secp.Commitment) (OutputLocation, bool, error)
	PutOutputLocation(c secp.Commitment, loc OutputLocation) error
	DeleteOutputLocation(c secp.Commitment) error

	GetSpentOutputs(blockHash chainhash.Hash) ([]SpentOutput, bool, error)
	PutSpentOutputs(blockHash chainhash.Hash, spent []SpentOutput) error
}

// DataStore is the append-only leaf-payload storage backing the three MMRs:
// commitment+features for the output MMR, raw range proofs for the
// range-proof MMR, and full kernels for the kernel MMR, per spec §4.2's
// "data file" shape.
type DataStore interface {
	OutputHashes() mmr.HashStore
	RangeProofHashes() mmr.HashStore
	KernelHashes() mmr.HashStore

	PutOutputData(pos uint64, out wire.Output) error
	GetOutputData(pos uint64) (wire.Output, error)

	PutRangeProofData(pos uint64, proof []byte) error

	PutKernelData(pos uint64, k wire.Kernel) error
	GetKernelData(pos uint64) (wire.Kernel, error)
}

// Backend bundles the two storage contracts TxHashSet depends on.
type Backend interface {
	Store
	DataStore
}
