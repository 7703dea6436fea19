// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

package chainstore

import (
	"path/filepath"
	"testing"

	"github.com/grinpp-go/nodecore/chaindb"
	"github.com/grinpp-go/nodecore/chainhash"
	"github.com/grinpp-go/nodecore/wire"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *chaindb.DB {
	t.Helper()
	db, err := chaindb.Open(filepath.Join(t.TempDir(), "chain.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func chain(t *testing.T, n int) []*wire.BlockHeader {
	t.Helper()
	headers := make([]*wire.BlockHeader, n)
	var prev chainhash.Hash
	for i := 0; i < n; i++ {
		h := &wire.BlockHeader{
			Height:          uint64(i),
			TotalDifficulty: uint64(i + 1),
			Timestamp:       int64(i),
		}
		if i > 0 {
			h.PrevHash = prev
		}
		headers[i] = h
		prev = h.Hash()
	}
	return headers
}

func TestAddHeaderBuildsLinearCandidateChain(t *testing.T) {
	db := openTestDB(t)
	s, err := New(db)
	require.NoError(t, err)

	headers := chain(t, 5)
	for _, h := range headers {
		status, err := s.AddHeader(h)
		require.NoError(t, err)
		require.Equal(t, Accepted, status)
	}

	tip, ok, err := s.Tip(Candidate)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, headers[4].Hash(), tip.Hash())

	got, ok, err := s.HeaderByHeight(Candidate, 2)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, headers[2].Hash(), got.Hash())
}

func TestAddHeaderAlreadyKnown(t *testing.T) {
	db := openTestDB(t)
	s, err := New(db)
	require.NoError(t, err)

	headers := chain(t, 1)
	status, err := s.AddHeader(headers[0])
	require.NoError(t, err)
	require.Equal(t, Accepted, status)

	status, err = s.AddHeader(headers[0])
	require.NoError(t, err)
	require.Equal(t, AlreadyKnown, status)
}

func TestAddHeaderOrphanWithoutKnownParent(t *testing.T) {
	db := openTestDB(t)
	s, err := New(db)
	require.NoError(t, err)

	headers := chain(t, 2)
	status, err := s.AddHeader(headers[1])
	require.NoError(t, err)
	require.Equal(t, Orphan, status)
}

func TestAddHeaderSideBranchDoesNotMoveTip(t *testing.T) {
	db := openTestDB(t)
	s, err := New(db)
	require.NoError(t, err)

	main := chain(t, 3)
	for _, h := range main {
		_, err := s.AddHeader(h)
		require.NoError(t, err)
	}

	fork := &wire.BlockHeader{Height: 1, PrevHash: main[0].Hash(), TotalDifficulty: 1}
	status, err := s.AddHeader(fork)
	require.NoError(t, err)
	require.Equal(t, Accepted, status)

	tip, _, err := s.Tip(Candidate)
	require.NoError(t, err)
	require.Equal(t, main[2].Hash(), tip.Hash())

	got, ok, err := s.HeaderByHash(fork.Hash())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, fork.Hash(), got.Hash())
}

func TestAddHeaderPromotesHeavierSideBranch(t *testing.T) {
	db := openTestDB(t)
	s, err := New(db)
	require.NoError(t, err)

	main := chain(t, 3)
	for _, h := range main {
		_, err := s.AddHeader(h)
		require.NoError(t, err)
	}

	// Two headers branching off main[0]: the first is lighter than main's
	// tip on its own, and the second carries the branch past it.
	fork1 := &wire.BlockHeader{Height: 1, PrevHash: main[0].Hash(), TotalDifficulty: 2}
	_, err = s.AddHeader(fork1)
	require.NoError(t, err)

	tip, _, err := s.Tip(Candidate)
	require.NoError(t, err)
	require.Equal(t, main[2].Hash(), tip.Hash(), "fork1 alone does not yet outweigh main's tip")

	fork2 := &wire.BlockHeader{Height: 2, PrevHash: fork1.Hash(), TotalDifficulty: 10}
	status, err := s.AddHeader(fork2)
	require.NoError(t, err)
	require.Equal(t, Accepted, status)

	tip, _, err = s.Tip(Candidate)
	require.NoError(t, err)
	require.Equal(t, fork2.Hash(), tip.Hash(), "fork2 outweighs main and should become the new candidate tip")

	got, ok, err := s.HeaderByHeight(Candidate, 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, fork1.Hash(), got.Hash())

	got, ok, err = s.HeaderByHeight(Candidate, 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, main[0].Hash(), got.Hash())
}

func TestAddBlockAdvancesConfirmed(t *testing.T) {
	db := openTestDB(t)
	s, err := New(db)
	require.NoError(t, err)

	headers := chain(t, 3)
	for _, h := range headers {
		_, err := s.AddHeader(h)
		require.NoError(t, err)
	}

	require.NoError(t, s.AddBlock(headers[0]))
	require.NoError(t, s.AddBlock(headers[1]))

	tip, ok, err := s.Tip(Confirmed)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, headers[1].Hash(), tip.Hash())

	err = s.AddBlock(headers[2])
	require.NoError(t, err)

	err = s.AddBlock(headers[1])
	require.Error(t, err)
}

func TestFindCommonAncestor(t *testing.T) {
	db := openTestDB(t)
	s, err := New(db)
	require.NoError(t, err)

	main := chain(t, 4)
	for _, h := range main {
		_, err := s.AddHeader(h)
		require.NoError(t, err)
	}

	fork2 := &wire.BlockHeader{Height: 2, PrevHash: main[1].Hash(), TotalDifficulty: 1}
	_, err = s.AddHeader(fork2)
	require.NoError(t, err)
	fork3 := &wire.BlockHeader{Height: 3, PrevHash: fork2.Hash(), TotalDifficulty: 1}
	_, err = s.AddHeader(fork3)
	require.NoError(t, err)

	ancestor, err := s.FindCommonAncestor(main[3].Hash(), fork3.Hash())
	require.NoError(t, err)
	require.Equal(t, main[1].Hash(), ancestor)
}

func TestHashesBetween(t *testing.T) {
	db := openTestDB(t)
	s, err := New(db)
	require.NoError(t, err)

	headers := chain(t, 4)
	for _, h := range headers {
		_, err := s.AddHeader(h)
		require.NoError(t, err)
	}

	got, err := s.HashesBetween(headers[0].Hash(), headers[3].Hash())
	require.NoError(t, err)
	require.Equal(t, []chainhash.Hash{headers[1].Hash(), headers[2].Hash(), headers[3].Hash()}, got)
}

func TestStoreRebuildsFromDB(t *testing.T) {
	db := openTestDB(t)
	s, err := New(db)
	require.NoError(t, err)

	headers := chain(t, 3)
	for _, h := range headers {
		_, err := s.AddHeader(h)
		require.NoError(t, err)
	}
	require.NoError(t, s.AddBlock(headers[0]))
	require.NoError(t, s.AddBlock(headers[1]))

	s2, err := New(db)
	require.NoError(t, err)

	tip, ok, err := s2.Tip(Candidate)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, headers[2].Hash(), tip.Hash())

	tip, ok, err = s2.Tip(Confirmed)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, headers[1].Hash(), tip.Hash())
}
