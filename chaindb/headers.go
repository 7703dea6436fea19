// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

package chaindb

import (
	"bytes"

	"github.com/grinpp-go/nodecore/chainhash"
	"github.com/grinpp-go/nodecore/wire"
)

// PutHeader stores a block header, HEADER CF, per spec §4.1.
func (db *DB) PutHeader(h *wire.BlockHeader) error {
	return putHeader(db, h)
}

// GetHeader fetches a block header by hash, or ok=false if absent.
func (db *DB) GetHeader(hash chainhash.Hash) (*wire.BlockHeader, bool, error) {
	return getHeader(db, hash)
}

// PutHeader on a Batch, visible to reads on the same Batch once written.
func (b *Batch) PutHeader(h *wire.BlockHeader) error {
	return putHeader(b, h)
}

// GetHeader on a Batch, seeing any pending write made earlier in the batch.
func (b *Batch) GetHeader(hash chainhash.Hash) (*wire.BlockHeader, bool, error) {
	return getHeader(b, hash)
}

func putHeader(store kv, h *wire.BlockHeader) error {
	var buf bytes.Buffer
	if err := h.Serialize(&buf); err != nil {
		return corruptionErr("serialize header", err)
	}
	hash := h.Hash()
	return store.put(headerKey(hash[:]), buf.Bytes())
}

func getHeader(store kv, hash chainhash.Hash) (*wire.BlockHeader, bool, error) {
	raw, ok, err := store.get(headerKey(hash[:]))
	if err != nil || !ok {
		return nil, ok, err
	}
	h, err := wire.DeserializeHeader(bytes.NewReader(raw))
	if err != nil {
		return nil, false, corruptionErr("deserialize header", err)
	}
	return h, true, nil
}

// PutBlock stores a full block, BLOCK CF.
func (db *DB) PutBlock(b *wire.FullBlock) error { return putBlock(db, b) }

// GetBlock fetches a full block by hash. A block past the cut-through
// horizon may have been pruned (§4.1: "may be pruned past horizon"), in
// which case ok is false without error.
func (db *DB) GetBlock(hash chainhash.Hash) (*wire.FullBlock, bool, error) {
	return getBlock(db, hash)
}

// DeleteBlock prunes a block body, keeping its header.
func (db *DB) DeleteBlock(hash chainhash.Hash) error {
	return db.del(blockKey(hash[:]))
}

func (bt *Batch) PutBlock(b *wire.FullBlock) error { return putBlock(bt, b) }
func (bt *Batch) GetBlock(hash chainhash.Hash) (*wire.FullBlock, bool, error) {
	return getBlock(bt, hash)
}
func (bt *Batch) DeleteBlock(hash chainhash.Hash) error {
	return bt.del(blockKey(hash[:]))
}

func putBlock(store kv, b *wire.FullBlock) error {
	var buf bytes.Buffer
	if err := b.Serialize(&buf); err != nil {
		return corruptionErr("serialize block", err)
	}
	hash := b.Header.Hash()
	return store.put(blockKey(hash[:]), buf.Bytes())
}

func getBlock(store kv, hash chainhash.Hash) (*wire.FullBlock, bool, error) {
	raw, ok, err := store.get(blockKey(hash[:]))
	if err != nil || !ok {
		return nil, ok, err
	}
	b, err := wire.DeserializeFullBlock(bytes.NewReader(raw))
	if err != nil {
		return nil, false, corruptionErr("deserialize block", err)
	}
	return b, true, nil
}

// SchemaVersion returns the on-disk schema version stamped at Open.
func (db *DB) SchemaVersion() (uint8, error) {
	raw, ok, err := db.get(defaultKey(keyVersion))
	if err != nil {
		return 0, err
	}
	if !ok || len(raw) != 1 {
		return 0, corruptionErr("missing or malformed schema version", nil)
	}
	return raw[0], nil
}

// TipCandidate/TipConfirmed track the DEFAULT CF's "TIP_CANDIDATE"/
// "TIP_CONFIRMED" pointers the Chain Store (§4.5) maintains: the best
// known header chain versus the best chain with a fully-applied TxHashSet.
func (db *DB) TipCandidate() (chainhash.Hash, bool, error) { return getTip(db, keyTipCandidate) }
func (db *DB) TipConfirmed() (chainhash.Hash, bool, error) { return getTip(db, keyTipConfirmed) }
func (db *DB) SetTipCandidate(hash chainhash.Hash) error   { return db.put(defaultKey(keyTipCandidate), hash[:]) }
func (db *DB) SetTipConfirmed(hash chainhash.Hash) error   { return db.put(defaultKey(keyTipConfirmed), hash[:]) }

func (b *Batch) TipCandidate() (chainhash.Hash, bool, error) { return getTip(b, keyTipCandidate) }
func (b *Batch) TipConfirmed() (chainhash.Hash, bool, error) { return getTip(b, keyTipConfirmed) }
func (b *Batch) SetTipCandidate(hash chainhash.Hash) error   { return b.put(defaultKey(keyTipCandidate), hash[:]) }
func (b *Batch) SetTipConfirmed(hash chainhash.Hash) error   { return b.put(defaultKey(keyTipConfirmed), hash[:]) }

func getTip(store kv, name string) (chainhash.Hash, bool, error) {
	raw, ok, err := store.get(defaultKey(name))
	if err != nil || !ok {
		return chainhash.Hash{}, ok, err
	}
	if len(raw) != chainhash.HashSize {
		return chainhash.Hash{}, false, corruptionErr("malformed tip pointer", nil)
	}
	var h chainhash.Hash
	copy(h[:], raw)
	return h, true, nil
}
