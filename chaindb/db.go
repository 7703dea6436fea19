// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

// Package chaindb wraps an embedded ordered KV store (goleveldb) with a
// column-family schema, atomic batch/rollback, and typed record access for
// headers, blocks, and running kernel/output sums. goleveldb gives range
// scans over a byte-ordered keyspace without running a separate database
// process, which is what namespacing column families by key prefix needs.
package chaindb

import (
	"errors"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// DB is a Chain DB: one goleveldb.DB namespaced into column families by a
// single-byte key prefix (schema.go). Reads and single-key writes made
// directly against DB (outside a Batch) take effect immediately; a Batch
// groups a set of writes so they commit or roll back together.
type DB struct {
	ldb *leveldb.DB
}

// Open opens (creating if necessary) the Chain DB at path and stamps the
// schema version the first time it is created.
func Open(path string) (*DB, error) {
	ldb, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, ioErr("open chain db", err)
	}
	db := &DB{ldb: ldb}

	if _, ok, err := db.get(defaultKey(keyVersion)); err != nil {
		db.Close()
		return nil, err
	} else if !ok {
		log.Infof("Initializing chain db at %s with schema version %d", path, schemaVersion)
		if err := db.put(defaultKey(keyVersion), []byte{schemaVersion}); err != nil {
			db.Close()
			return nil, err
		}
	} else {
		log.Debugf("Opened chain db at %s", path)
	}
	return db, nil
}

// schemaVersion is the on-disk layout version this package writes and
// expects, per spec §4.1's 'DEFAULT: "VERSION" -> u8 schema version'.
const schemaVersion = 1

// Close releases the underlying goleveldb handle.
func (db *DB) Close() error {
	if err := db.ldb.Close(); err != nil {
		return ioErr("close chain db", err)
	}
	return nil
}

func (db *DB) get(key []byte) ([]byte, bool, error) {
	v, err := db.ldb.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, ioErr("get", err)
	}
	return v, true, nil
}

func (db *DB) put(key, value []byte) error {
	if err := db.ldb.Put(key, value, nil); err != nil {
		return ioErr("put", err)
	}
	return nil
}

func (db *DB) del(key []byte) error {
	if err := db.ldb.Delete(key, nil); err != nil {
		return ioErr("delete", err)
	}
	return nil
}

func (db *DB) deleteAll(prefix []byte) error {
	it := db.ldb.NewIterator(util.BytesPrefix(prefix), nil)
	defer it.Release()

	batch := new(leveldb.Batch)
	for it.Next() {
		key := make([]byte, len(it.Key()))
		copy(key, it.Key())
		batch.Delete(key)
	}
	if err := it.Error(); err != nil {
		return ioErr("scan for delete_all", err)
	}
	if err := db.ldb.Write(batch, nil); err != nil {
		return ioErr("delete_all", err)
	}
	return nil
}

func (db *DB) scan(prefix []byte, fn func(key, value []byte) bool) error {
	it := db.ldb.NewIterator(util.BytesPrefix(prefix), nil)
	defer it.Release()

	for it.Next() {
		if !fn(it.Key(), it.Value()) {
			break
		}
	}
	if err := it.Error(); err != nil {
		return ioErr("prefix_scan", err)
	}
	return nil
}

// NewBatch opens an explicit transactional mode, per spec §4.1's
// "OnInitWrite(batch: bool)". Writes made through the returned Batch are
// invisible to other readers (and to reads made directly against DB) until
// Commit; Rollback discards them.
func (db *DB) NewBatch() *Batch {
	return newBatch(db)
}
