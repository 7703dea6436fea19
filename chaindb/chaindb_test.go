// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

package chaindb

import (
	"path/filepath"
	"testing"

	"github.com/grinpp-go/nodecore/chainhash"
	"github.com/grinpp-go/nodecore/secp"
	"github.com/grinpp-go/nodecore/txhashset"
	"github.com/grinpp-go/nodecore/wire"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "chain.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func mustCommit(t *testing.T, value uint64, blindByte byte) secp.Commitment {
	t.Helper()
	var blind secp.BlindingFactor
	blind[0] = blindByte
	c, err := secp.Commit(value, blind)
	require.NoError(t, err)
	return c
}

func TestOpenStampsSchemaVersion(t *testing.T) {
	db := openTestDB(t)
	v, err := db.SchemaVersion()
	require.NoError(t, err)
	require.Equal(t, uint8(schemaVersion), v)
}

func TestHeaderRoundTrip(t *testing.T) {
	db := openTestDB(t)
	h := &wire.BlockHeader{Height: 7}
	require.NoError(t, db.PutHeader(h))

	got, ok, err := db.GetHeader(h.Hash())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, h.Hash(), got.Hash())

	_, ok, err = db.GetHeader(chainhash.Hash{0xff})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestBatchReadsSeeOwnPendingWrites(t *testing.T) {
	db := openTestDB(t)
	h := &wire.BlockHeader{Height: 3}

	b := db.NewBatch()
	require.NoError(t, b.PutHeader(h))

	got, ok, err := b.GetHeader(h.Hash())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, h.Hash(), got.Hash())

	// Not yet visible outside the batch.
	_, ok, err = db.GetHeader(h.Hash())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestBatchCommitAppliesAtomically(t *testing.T) {
	db := openTestDB(t)
	h := &wire.BlockHeader{Height: 9}

	b := db.NewBatch()
	require.NoError(t, b.PutHeader(h))
	require.NoError(t, b.Commit())

	got, ok, err := db.GetHeader(h.Hash())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, h.Hash(), got.Hash())
}

func TestBatchRollbackDiscardsWrites(t *testing.T) {
	db := openTestDB(t)
	h := &wire.BlockHeader{Height: 11}

	b := db.NewBatch()
	require.NoError(t, b.PutHeader(h))
	b.Rollback()

	_, ok, err := db.GetHeader(h.Hash())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTipPointersRoundTrip(t *testing.T) {
	db := openTestDB(t)
	candidate := chainhash.Hash{0x01}
	confirmed := chainhash.Hash{0x02}

	require.NoError(t, db.SetTipCandidate(candidate))
	require.NoError(t, db.SetTipConfirmed(confirmed))

	gotCandidate, ok, err := db.TipCandidate()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, candidate, gotCandidate)

	gotConfirmed, ok, err := db.TipConfirmed()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, confirmed, gotConfirmed)
}

func TestPrefixScanOnlyVisitsItsColumnFamily(t *testing.T) {
	db := openTestDB(t)
	h := &wire.BlockHeader{Height: 1}
	require.NoError(t, db.PutHeader(h))
	require.NoError(t, db.SetTipCandidate(h.Hash()))

	var headerKeys int
	err := db.scan([]byte{cfHeader}, func(key, _ []byte) bool {
		headerKeys++
		require.Equal(t, cfHeader, key[0])
		return true
	})
	require.NoError(t, err)
	require.Equal(t, 1, headerKeys)
}

func TestDeleteAllRemovesOnlyMatchingPrefix(t *testing.T) {
	db := openTestDB(t)
	h1 := &wire.BlockHeader{Height: 1}
	h2 := &wire.BlockHeader{Height: 2}
	require.NoError(t, db.PutHeader(h1))
	require.NoError(t, db.PutHeader(h2))
	require.NoError(t, db.SetTipCandidate(h1.Hash()))

	require.NoError(t, db.deleteAll([]byte{cfHeader}))

	_, ok, err := db.GetHeader(h1.Hash())
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = db.TipCandidate()
	require.NoError(t, err)
	require.True(t, ok)
}

func TestDBImplementsTxHashSetBackend(t *testing.T) {
	db := openTestDB(t)
	ths := txhashset.New(db, nil)

	commit := mustCommit(t, 60_000_000_000, 0x01)
	excess := mustCommit(t, 0, 0x02)
	block := &wire.FullBlock{
		Header: wire.BlockHeader{Height: 1},
		Outputs: []wire.Output{
			{Features: wire.OutputCoinbase, Commitment: commit, RangeProof: []byte{0x01, 0x02}},
		},
		Kernels: []wire.Kernel{
			{Features: wire.KernelCoinbase, Excess: excess},
		},
	}

	require.NoError(t, ths.ApplyBlock(block, txhashset.BlockSums{}))

	outSize, kernSize := ths.Sizes()
	require.Equal(t, uint64(1), outSize)
	require.Equal(t, uint64(1), kernSize)

	valid, err := ths.ValidateUTXO(commit)
	require.NoError(t, err)
	require.True(t, valid)

	// MMR positions are 1-based; the first leaf in an empty tree lands at 1.
	out, err := db.GetOutputData(1)
	require.NoError(t, err)
	require.Equal(t, commit, out.Commitment)

	k, err := db.GetKernelData(1)
	require.NoError(t, err)
	require.Equal(t, excess, k.Excess)
}
