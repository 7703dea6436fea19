// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

package txpool

import (
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	secp256k1 "github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/schnorr"
	"github.com/stretchr/testify/require"

	"github.com/grinpp-go/nodecore/chaincfg"
	"github.com/grinpp-go/nodecore/chaindb"
	"github.com/grinpp-go/nodecore/chainhash"
	"github.com/grinpp-go/nodecore/chainstore"
	"github.com/grinpp-go/nodecore/secp"
	"github.com/grinpp-go/nodecore/txhashset"
	"github.com/grinpp-go/nodecore/wire"
)

type acceptAllRangeProofs struct{}

func (acceptAllRangeProofs) VerifyRangeProof(secp.Commitment, []byte) bool { return true }

func mustBlind(b byte) secp.BlindingFactor {
	var blind secp.BlindingFactor
	blind[0] = b
	return blind
}

func mustCommit(t *testing.T, value uint64, blindByte byte) secp.Commitment {
	t.Helper()
	c, err := secp.Commit(value, mustBlind(blindByte))
	require.NoError(t, err)
	return c
}

// signKernel produces a valid Schnorr signature over msg using blind as the
// kernel's private key: since excess = commit(0, blind) = blind*G, blind is
// exactly the discrete log an honest kernel signer would hold for that
// excess.
func signKernel(t *testing.T, blind secp.BlindingFactor, msg [32]byte) secp.Signature {
	t.Helper()
	priv := secp256k1.PrivKeyFromBytes(blind[:])
	sig, err := schnorr.Sign(priv, msg[:])
	require.NoError(t, err)
	var out secp.Signature
	copy(out[:], sig.Serialize())
	return out
}

// coinbaseBlock builds a single-coinbase-output block minting value,
// applying it to hashset so its output becomes a spendable UTXO.
func coinbaseBlock(t *testing.T, hashset *txhashset.TxHashSet, height uint64, value uint64, blindByte byte) *wire.FullBlock {
	t.Helper()
	commit := mustCommit(t, value, blindByte)
	excess := mustCommit(t, 0, blindByte+1)
	block := &wire.FullBlock{
		Header: wire.BlockHeader{Height: height},
		Outputs: []wire.Output{
			{Features: wire.OutputCoinbase, Commitment: commit, RangeProof: []byte{byte(height)}},
		},
		Kernels: []wire.Kernel{
			{Features: wire.KernelCoinbase, Excess: excess},
		},
	}
	require.NoError(t, hashset.ApplyBlock(block, txhashset.BlockSums{}))
	return block
}

// spendTx builds a standalone, fully-balanced transaction spending in
// (blinded by spendBlind, worth inValue) into a single output worth
// inValue-fee, with a plain kernel paying fee. The kernel offset is left
// zero and folded entirely into the output's blind, the simplest balance
// to construct: inValue = outValue + fee, and outBlind - inBlind = excess's
// discrete log.
func spendTx(t *testing.T, in wire.Input, inValue uint64, spendBlind byte, outBlind byte, fee uint64, lockHeight uint64) *wire.Transaction {
	t.Helper()
	outValue := inValue - fee
	outCommit := mustCommit(t, outValue, outBlind)

	var excessBlind secp.BlindingFactor
	excessBlind[0] = outBlind - spendBlind
	excess := mustCommit(t, 0, excessBlind)

	kernel := wire.Kernel{Fee: fee, LockHeight: lockHeight, Excess: excess}
	kernel.ExcessSig = signKernel(t, excessBlind, kernel.SignedMessage())

	tx := &wire.Transaction{
		Inputs:  []wire.Input{in},
		Outputs: []wire.Output{{Commitment: outCommit, RangeProof: []byte{outBlind}}},
		Kernels: []wire.Kernel{kernel},
	}
	tx.SortBody()
	return tx
}

func openTestDB(t *testing.T) *chaindb.DB {
	t.Helper()
	db, err := chaindb.Open(filepath.Join(t.TempDir(), "chain.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestPool(t *testing.T) (*TransactionPool, *txhashset.TxHashSet, *chainstore.Store) {
	t.Helper()
	db := openTestDB(t)
	store, err := chainstore.New(db)
	require.NoError(t, err)
	hashset := txhashset.New(txhashset.NewMemBackend(), nil)

	p := New(store, hashset, acceptAllRangeProofs{})
	p.rand = rand.New(rand.NewSource(1))
	return p, hashset, store
}

const testFee = chaincfg.MinRelayFeeBase * (chaincfg.InputWeight + chaincfg.OutputWeight + chaincfg.KernelWeight)

func TestAddAcceptsValidTransactionIntoMemPool(t *testing.T) {
	p, hashset, _ := newTestPool(t)
	cb := coinbaseBlock(t, hashset, 1, 60_000_000_000, 0x01)

	tx := spendTx(t, wire.Input{Features: wire.OutputCoinbase, Commitment: cb.Outputs[0].Commitment}, 60_000_000_000, 0x01, 0x02, testFee, 0)

	status, err := p.Add(tx, MemPoolType)
	require.NoError(t, err)
	require.Equal(t, Added, status)

	got := p.MemPoolTransactions()
	require.Len(t, got, 1)
	require.Equal(t, tx.Hash(), got[0].Hash())
}

func TestAddRejectsDuplicateTransaction(t *testing.T) {
	p, hashset, _ := newTestPool(t)
	cb := coinbaseBlock(t, hashset, 1, 60_000_000_000, 0x01)
	tx := spendTx(t, wire.Input{Features: wire.OutputCoinbase, Commitment: cb.Outputs[0].Commitment}, 60_000_000_000, 0x01, 0x02, testFee, 0)

	status, err := p.Add(tx, MemPoolType)
	require.NoError(t, err)
	require.Equal(t, Added, status)

	status, err = p.Add(tx, MemPoolType)
	require.NoError(t, err)
	require.Equal(t, DuplicateTx, status)
}

func TestAddRejectsFeeBelowMinRelayFee(t *testing.T) {
	p, hashset, _ := newTestPool(t)
	cb := coinbaseBlock(t, hashset, 1, 60_000_000_000, 0x01)
	tx := spendTx(t, wire.Input{Features: wire.OutputCoinbase, Commitment: cb.Outputs[0].Commitment}, 60_000_000_000, 0x01, 0x02, 1, 0)

	status, err := p.Add(tx, MemPoolType)
	require.ErrorIs(t, err, errLowFee)
	require.Equal(t, LowFee, status)
}

func TestAddRejectsLockHeightAheadOfTip(t *testing.T) {
	p, hashset, store := newTestPool(t)
	cb := coinbaseBlock(t, hashset, 0, 60_000_000_000, 0x01)
	_, err := store.AddHeader(&wire.BlockHeader{Height: 0})
	require.NoError(t, err)

	tx := spendTx(t, wire.Input{Features: wire.OutputCoinbase, Commitment: cb.Outputs[0].Commitment}, 60_000_000_000, 0x01, 0x02, testFee, 5)

	status, err := p.Add(tx, MemPoolType)
	require.ErrorIs(t, err, errLockHeight)
	require.Equal(t, TxInvalid, status)
}

func TestAddRejectsUnknownInput(t *testing.T) {
	p, _, _ := newTestPool(t)
	unknown := mustCommit(t, 60_000_000_000, 0x99)
	tx := spendTx(t, wire.Input{Commitment: unknown}, 60_000_000_000, 0x01, 0x02, testFee, 0)

	status, err := p.Add(tx, MemPoolType)
	require.Error(t, err)
	require.Equal(t, TxInvalid, status)
}

func TestAddToStemPoolRollsDandelionStatus(t *testing.T) {
	p, hashset, _ := newTestPool(t)
	cb := coinbaseBlock(t, hashset, 1, 60_000_000_000, 0x01)
	tx := spendTx(t, wire.Input{Features: wire.OutputCoinbase, Commitment: cb.Outputs[0].Commitment}, 60_000_000_000, 0x01, 0x02, testFee, 0)

	status, err := p.Add(tx, StemPoolType)
	require.NoError(t, err)
	require.Equal(t, Added, status)

	e, ok := p.stemPool.byTxHash[tx.Hash()]
	require.True(t, ok)
	require.True(t, e.status == ToStem || e.status == ToFluff)
}

func TestReconcileBlockEvictsConflictingEntry(t *testing.T) {
	p, hashset, _ := newTestPool(t)
	cb := coinbaseBlock(t, hashset, 1, 60_000_000_000, 0x01)
	in := wire.Input{Features: wire.OutputCoinbase, Commitment: cb.Outputs[0].Commitment}
	tx := spendTx(t, in, 60_000_000_000, 0x01, 0x02, testFee, 0)

	_, err := p.Add(tx, MemPoolType)
	require.NoError(t, err)
	require.True(t, p.Contains(tx.Hash()))

	minedBlock := &wire.FullBlock{
		Header:  wire.BlockHeader{Height: 2},
		Inputs:  []wire.Input{in},
		Outputs: tx.Outputs,
		Kernels: tx.Kernels,
	}
	require.NoError(t, p.ReconcileBlock(minedBlock))
	require.False(t, p.Contains(tx.Hash()))
}

func TestReconcileBlockKeepsUnrelatedEntry(t *testing.T) {
	p, hashset, _ := newTestPool(t)
	cbA := coinbaseBlock(t, hashset, 1, 60_000_000_000, 0x01)
	cbB := coinbaseBlock(t, hashset, 2, 60_000_000_000, 0x03)

	txA := spendTx(t, wire.Input{Features: wire.OutputCoinbase, Commitment: cbA.Outputs[0].Commitment}, 60_000_000_000, 0x01, 0x02, testFee, 0)
	txB := spendTx(t, wire.Input{Features: wire.OutputCoinbase, Commitment: cbB.Outputs[0].Commitment}, 60_000_000_000, 0x03, 0x04, testFee, 0)

	_, err := p.Add(txA, MemPoolType)
	require.NoError(t, err)
	_, err = p.Add(txB, MemPoolType)
	require.NoError(t, err)

	minedBlock := &wire.FullBlock{
		Header:  wire.BlockHeader{Height: 3},
		Inputs:  txA.Inputs,
		Outputs: txA.Outputs,
		Kernels: txA.Kernels,
	}
	require.NoError(t, hashset.ApplyBlock(minedBlock, txhashset.BlockSums{}))
	require.NoError(t, p.ReconcileBlock(minedBlock))

	require.False(t, p.Contains(txA.Hash()))
	require.True(t, p.Contains(txB.Hash()))
}

func TestExpiredPromotesStaleStemEntries(t *testing.T) {
	p, hashset, _ := newTestPool(t)
	cb := coinbaseBlock(t, hashset, 1, 60_000_000_000, 0x01)
	tx := spendTx(t, wire.Input{Features: wire.OutputCoinbase, Commitment: cb.Outputs[0].Commitment}, 60_000_000_000, 0x01, 0x02, testFee, 0)

	start := time.Unix(1_000_000, 0)
	p.now = func() time.Time { return start }
	p.stemPool.add(tx, ToStem, start)

	p.now = func() time.Time { return start.Add(5 * time.Minute) }
	promoted := p.Expired()
	require.Len(t, promoted, 1)
	require.Equal(t, tx.Hash(), promoted[0].Hash())

	e, ok := p.stemPool.byTxHash[tx.Hash()]
	require.True(t, ok)
	require.Equal(t, ToFluff, e.status)
}

func TestExpiredLeavesFreshStemEntryAlone(t *testing.T) {
	p, hashset, _ := newTestPool(t)
	cb := coinbaseBlock(t, hashset, 1, 60_000_000_000, 0x01)
	tx := spendTx(t, wire.Input{Features: wire.OutputCoinbase, Commitment: cb.Outputs[0].Commitment}, 60_000_000_000, 0x01, 0x02, testFee, 0)

	start := time.Unix(1_000_000, 0)
	p.now = func() time.Time { return start }
	p.stemPool.add(tx, ToStem, start)

	promoted := p.Expired()
	require.Empty(t, promoted)
}

func TestFluffJoinPoolAggregatesAndClears(t *testing.T) {
	p, hashset, _ := newTestPool(t)
	cbA := coinbaseBlock(t, hashset, 1, 60_000_000_000, 0x01)
	cbB := coinbaseBlock(t, hashset, 2, 60_000_000_000, 0x03)

	txA := spendTx(t, wire.Input{Features: wire.OutputCoinbase, Commitment: cbA.Outputs[0].Commitment}, 60_000_000_000, 0x01, 0x02, testFee, 0)
	txB := spendTx(t, wire.Input{Features: wire.OutputCoinbase, Commitment: cbB.Outputs[0].Commitment}, 60_000_000_000, 0x03, 0x04, testFee, 0)

	_, err := p.Add(txA, JoinPoolType)
	require.NoError(t, err)
	_, err = p.Add(txB, JoinPoolType)
	require.NoError(t, err)

	agg, err := p.FluffJoinPool()
	require.NoError(t, err)
	require.NotNil(t, agg)
	require.Len(t, agg.Inputs, 2)
	require.Len(t, agg.Outputs, 2)
	require.Len(t, agg.Kernels, 2)

	require.Equal(t, 0, p.joinPool.len())
	e, ok := p.stemPool.byTxHash[agg.Hash()]
	require.True(t, ok)
	require.Equal(t, ToFluff, e.status)
}

func TestAggregateCutsThroughMatchingPair(t *testing.T) {
	middle := mustCommit(t, 1_000, 0x10)

	tx1 := &wire.Transaction{
		Outputs: []wire.Output{{Commitment: middle}},
	}
	tx2 := &wire.Transaction{
		Inputs: []wire.Input{{Commitment: middle}},
	}

	agg, err := Aggregate([]*wire.Transaction{tx1, tx2})
	require.NoError(t, err)
	require.Empty(t, agg.Inputs)
	require.Empty(t, agg.Outputs)
}

func TestAggregateEmptyReturnsZeroTransaction(t *testing.T) {
	agg, err := Aggregate(nil)
	require.NoError(t, err)
	require.Empty(t, agg.Inputs)
	require.Empty(t, agg.Outputs)
	require.Empty(t, agg.Kernels)
}

func TestGetTransactionsByShortId(t *testing.T) {
	p, hashset, _ := newTestPool(t)
	cb := coinbaseBlock(t, hashset, 1, 60_000_000_000, 0x01)
	tx := spendTx(t, wire.Input{Features: wire.OutputCoinbase, Commitment: cb.Outputs[0].Commitment}, 60_000_000_000, 0x01, 0x02, testFee, 0)

	_, err := p.Add(tx, MemPoolType)
	require.NoError(t, err)

	var blockHash chainhash.Hash
	id := NewShortID(tx.Kernels[0].Hash(), blockHash, 42)

	found := p.GetTransactionsByShortId(blockHash, 42, []ShortID{id})
	require.Len(t, found, 1)
	require.Equal(t, tx.Hash(), found[0].Hash())

	var missingID ShortID
	missingID[0] = 0xff
	noneFound := p.GetTransactionsByShortId(blockHash, 42, []ShortID{missingID})
	require.Empty(t, noneFound)
}
