// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

package mmr

import "github.com/grinpp-go/nodecore/chainhash"

// MemStore is an in-memory HashStore, used by tests and by the txhashset
// package's in-memory validation scratch copies.
type MemStore struct {
	nodes []chainhash.Hash
}

// NewMemStore returns an empty in-memory HashStore.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Get implements HashStore.
func (m *MemStore) Get(pos uint64) (chainhash.Hash, error) {
	if pos == 0 || pos > uint64(len(m.nodes)) {
		return chainhash.Hash{}, ErrPositionOutOfRange
	}
	return m.nodes[pos-1], nil
}

// Append implements HashStore.
func (m *MemStore) Append(h chainhash.Hash) (uint64, error) {
	m.nodes = append(m.nodes, h)
	return uint64(len(m.nodes)), nil
}

// Size implements HashStore.
func (m *MemStore) Size() uint64 {
	return uint64(len(m.nodes))
}

// Truncate implements HashStore.
func (m *MemStore) Truncate(size uint64) error {
	if size > uint64(len(m.nodes)) {
		return ErrPositionOutOfRange
	}
	m.nodes = m.nodes[:size]
	return nil
}
