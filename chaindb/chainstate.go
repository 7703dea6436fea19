// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

package chaindb

import (
	"bytes"

	"github.com/grinpp-go/nodecore/chainhash"
	"github.com/grinpp-go/nodecore/secp"
	"github.com/grinpp-go/nodecore/txhashset"
)

// GetBlockSums/PutBlockSums/GetOutputLocation/PutOutputLocation/
// DeleteOutputLocation/GetSpentOutputs/PutSpentOutputs implement
// txhashset.Store on both DB and Batch, the BLOCK_SUMS/OUTPUT_POS/
// SPENT_OUTPUTS column families of spec §4.1.

func (db *DB) GetBlockSums(hash chainhash.Hash) (txhashset.BlockSums, bool, error) {
	return getBlockSums(db, hash)
}
func (db *DB) PutBlockSums(hash chainhash.Hash, sums txhashset.BlockSums) error {
	return putBlockSums(db, hash, sums)
}
func (db *DB) GetOutputLocation(c secp.Commitment) (txhashset.OutputLocation, bool, error) {
	return getOutputLocation(db, c)
}
func (db *DB) PutOutputLocation(c secp.Commitment, loc txhashset.OutputLocation) error {
	return putOutputLocation(db, c, loc)
}
func (db *DB) DeleteOutputLocation(c secp.Commitment) error {
	return db.del(outputPosKey(c[:]))
}
func (db *DB) GetSpentOutputs(hash chainhash.Hash) ([]txhashset.SpentOutput, bool, error) {
	return getSpentOutputs(db, hash)
}
func (db *DB) PutSpentOutputs(hash chainhash.Hash, spent []txhashset.SpentOutput) error {
	return putSpentOutputs(db, hash, spent)
}

func (b *Batch) GetBlockSums(hash chainhash.Hash) (txhashset.BlockSums, bool, error) {
	return getBlockSums(b, hash)
}
func (b *Batch) PutBlockSums(hash chainhash.Hash, sums txhashset.BlockSums) error {
	return putBlockSums(b, hash, sums)
}
func (b *Batch) GetOutputLocation(c secp.Commitment) (txhashset.OutputLocation, bool, error) {
	return getOutputLocation(b, c)
}
func (b *Batch) PutOutputLocation(c secp.Commitment, loc txhashset.OutputLocation) error {
	return putOutputLocation(b, c, loc)
}
func (b *Batch) DeleteOutputLocation(c secp.Commitment) error {
	return b.del(outputPosKey(c[:]))
}
func (b *Batch) GetSpentOutputs(hash chainhash.Hash) ([]txhashset.SpentOutput, bool, error) {
	return getSpentOutputs(b, hash)
}
func (b *Batch) PutSpentOutputs(hash chainhash.Hash, spent []txhashset.SpentOutput) error {
	return putSpentOutputs(b, hash, spent)
}

func getBlockSums(store kv, hash chainhash.Hash) (txhashset.BlockSums, bool, error) {
	raw, ok, err := store.get(blockSumsKey(hash[:]))
	if err != nil || !ok {
		return txhashset.BlockSums{}, ok, err
	}
	sums, err := txhashset.DeserializeBlockSums(bytes.NewReader(raw))
	if err != nil {
		return txhashset.BlockSums{}, false, corruptionErr("deserialize block sums", err)
	}
	return sums, true, nil
}

func putBlockSums(store kv, hash chainhash.Hash, sums txhashset.BlockSums) error {
	var buf bytes.Buffer
	if err := sums.Serialize(&buf); err != nil {
		return corruptionErr("serialize block sums", err)
	}
	return store.put(blockSumsKey(hash[:]), buf.Bytes())
}

func getOutputLocation(store kv, c secp.Commitment) (txhashset.OutputLocation, bool, error) {
	raw, ok, err := store.get(outputPosKey(c[:]))
	if err != nil || !ok {
		return txhashset.OutputLocation{}, ok, err
	}
	loc, err := txhashset.DeserializeOutputLocation(bytes.NewReader(raw))
	if err != nil {
		return txhashset.OutputLocation{}, false, corruptionErr("deserialize output location", err)
	}
	return loc, true, nil
}

func putOutputLocation(store kv, c secp.Commitment, loc txhashset.OutputLocation) error {
	var buf bytes.Buffer
	if err := loc.Serialize(&buf); err != nil {
		return corruptionErr("serialize output location", err)
	}
	return store.put(outputPosKey(c[:]), buf.Bytes())
}

func getSpentOutputs(store kv, hash chainhash.Hash) ([]txhashset.SpentOutput, bool, error) {
	raw, ok, err := store.get(spentOutputsKey(hash[:]))
	if err != nil || !ok {
		return nil, ok, err
	}
	spent, err := txhashset.DeserializeSpentOutputs(raw)
	if err != nil {
		return nil, false, corruptionErr("deserialize spent outputs", err)
	}
	return spent, true, nil
}

func putSpentOutputs(store kv, hash chainhash.Hash, spent []txhashset.SpentOutput) error {
	raw, err := txhashset.SerializeSpentOutputs(spent)
	if err != nil {
		return corruptionErr("serialize spent outputs", err)
	}
	return store.put(spentOutputsKey(hash[:]), raw)
}
