// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

package chaindb

import (
	"bytes"

	"github.com/syndtr/goleveldb/leveldb"
)

// Batch is an in-flight write transaction across every column family, per
// spec §4.1: "a batch is all-or-nothing across column families" and "reads
// inside a batch see pending writes; reads outside do not." pending/tombstone
// hold the overlay a read checks before falling through to the underlying
// DB; lb is the goleveldb.Batch committed atomically on Commit.
type Batch struct {
	db        *DB
	lb        *leveldb.Batch
	pending   map[string][]byte
	tombstone map[string]bool
}

func newBatch(db *DB) *Batch {
	return &Batch{
		db:        db,
		lb:        new(leveldb.Batch),
		pending:   make(map[string][]byte),
		tombstone: make(map[string]bool),
	}
}

func (b *Batch) get(key []byte) ([]byte, bool, error) {
	k := string(key)
	if v, ok := b.pending[k]; ok {
		return v, true, nil
	}
	if b.tombstone[k] {
		return nil, false, nil
	}
	return b.db.get(key)
}

func (b *Batch) put(key, value []byte) error {
	k := string(key)
	b.pending[k] = append([]byte(nil), value...)
	delete(b.tombstone, k)
	b.lb.Put(key, value)
	return nil
}

func (b *Batch) del(key []byte) error {
	k := string(key)
	delete(b.pending, k)
	b.tombstone[k] = true
	b.lb.Delete(key)
	return nil
}

// deleteAll removes every key sharing prefix, among both the committed DB
// and this batch's own pending writes.
func (b *Batch) deleteAll(prefix []byte) error {
	seen := make(map[string]bool)

	for k := range b.pending {
		if bytes.HasPrefix([]byte(k), prefix) {
			seen[k] = true
		}
	}
	err := b.db.scan(prefix, func(key, _ []byte) bool {
		seen[string(key)] = true
		return true
	})
	if err != nil {
		return err
	}

	for k := range seen {
		if err := b.del([]byte(k)); err != nil {
			return err
		}
	}
	return nil
}

// scan walks prefix across the merged view (DB rows not shadowed by this
// batch, plus this batch's own pending writes), in no particular combined
// order beyond what DB itself provides for its own rows.
func (b *Batch) scan(prefix []byte, fn func(key, value []byte) bool) error {
	visited := make(map[string]bool)

	stop := false
	err := b.db.scan(prefix, func(key, value []byte) bool {
		k := string(key)
		visited[k] = true
		if b.tombstone[k] {
			return true
		}
		if v, ok := b.pending[k]; ok {
			value = v
		}
		if !fn(key, value) {
			stop = true
			return false
		}
		return true
	})
	if err != nil {
		return err
	}
	if stop {
		return nil
	}

	for k, v := range b.pending {
		if visited[k] {
			continue
		}
		if !bytes.HasPrefix([]byte(k), prefix) {
			continue
		}
		if !fn([]byte(k), v) {
			break
		}
	}
	return nil
}

// Commit atomically applies every pending write in the batch to the Chain
// DB. After Commit, the Batch must not be reused.
func (b *Batch) Commit() error {
	if err := b.db.ldb.Write(b.lb, nil); err != nil {
		return ioErr("commit batch", err)
	}
	return nil
}

// Rollback discards every pending write in the batch without touching the
// underlying Chain DB.
func (b *Batch) Rollback() {
	b.lb = new(leveldb.Batch)
	b.pending = make(map[string][]byte)
	b.tombstone = make(map[string]bool)
}
