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

// MemBackend is an in-memory Backend, the txhashset equivalent of mmr's
// MemStore: a test double standing in for chaindb.DB, and a convenient
// backend for short-lived tooling.
type MemBackend struct {
	outputHashes     *mmr.MemStore
	rangeProofHashes *mmr.MemStore
	kernelHashes     *mmr.MemStore

	outputData     map[uint64]wire.Output
	rangeProofData map[uint64][]byte
	kernelData     map[uint64]wire.Kernel

	blockSums    map[chainhash.Hash]BlockSums
	outputLocs   map[secp.Commitment]OutputLocation
	spentOutputs map[chainhash.Hash][]SpentOutput
}

// NewMemBackend returns an empty MemBackend.
func NewMemBackend() *MemBackend {
	return &MemBackend{
		outputHashes:     mmr.NewMemStore(),
		rangeProofHashes: mmr.NewMemStore(),
		kernelHashes:     mmr.NewMemStore(),
		outputData:       make(map[uint64]wire.Output),
		rangeProofData:   make(map[uint64][]byte),
		kernelData:       make(map[uint64]wire.Kernel),
		blockSums:        make(map[chainhash.Hash]BlockSums),
		outputLocs:       make(map[secp.Commitment]OutputLocation),
		spentOutputs:     make(map[chainhash.Hash][]SpentOutput),
	}
}

func (m *MemBackend) OutputHashes() mmr.HashStore     { return m.outputHashes }
func (m *MemBackend) RangeProofHashes() mmr.HashStore { return m.rangeProofHashes }
func (m *MemBackend) KernelHashes() mmr.HashStore     { return m.kernelHashes }

func (m *MemBackend) PutOutputData(pos uint64, out wire.Output) error {
	m.outputData[pos] = out
	return nil
}

func (m *MemBackend) GetOutputData(pos uint64) (wire.Output, error) {
	out, ok := m.outputData[pos]
	if !ok {
		return wire.Output{}, ErrUnknownOutput
	}
	return out, nil
}

func (m *MemBackend) PutRangeProofData(pos uint64, proof []byte) error {
	m.rangeProofData[pos] = proof
	return nil
}

func (m *MemBackend) PutKernelData(pos uint64, k wire.Kernel) error {
	m.kernelData[pos] = k
	return nil
}

func (m *MemBackend) GetKernelData(pos uint64) (wire.Kernel, error) {
	k, ok := m.kernelData[pos]
	if !ok {
		return wire.Kernel{}, ErrUnknownOutput
	}
	return k, nil
}

func (m *MemBackend) GetBlockSums(hash chainhash.Hash) (BlockSums, bool, error) {
	s, ok := m.blockSums[hash]
	return s, ok, nil
}

func (m *MemBackend) PutBlockSums(hash chainhash.Hash, sums BlockSums) error {
	m.blockSums[hash] = sums
	return nil
}

func (m *MemBackend) GetOutputLocation(c secp.Commitment) (OutputLocation, bool, error) {
	loc, ok := m.outputLocs[c]
	return loc, ok, nil
}

func (m *MemBackend) PutOutputLocation(c secp.Commitment, loc OutputLocation) error {
	m.outputLocs[c] = loc
	return nil
}

func (m *MemBackend) DeleteOutputLocation(c secp.Commitment) error {
	delete(m.outputLocs, c)
	return nil
}

func (m *MemBackend) GetSpentOutputs(blockHash chainhash.Hash) ([]SpentOutput, bool, error) {
	s, ok := m.spentOutputs[blockHash]
	return s, ok, nil
}

func (m *MemBackend) PutSpentOutputs(blockHash chainhash.Hash, spent []SpentOutput) error {
	m.spentOutputs[blockHash] = spent
	return nil
}
