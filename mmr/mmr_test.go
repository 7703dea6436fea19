// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

package mmr

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/grinpp-go/nodecore/chainhash"
)

func leafHash(n byte) chainhash.Hash {
	var h chainhash.Hash
	h[0] = n
	return chainhash.HashH(h[:])
}

func TestAppendSizes(t *testing.T) {
	tree := New(NewMemStore())

	wantSizes := []uint64{1, 3, 4, 7, 8, 10, 11, 15, 16, 18}
	for i, want := range wantSizes {
		_, err := tree.Append(leafHash(byte(i)))
		require.NoError(t, err)
		require.Equal(t, want, tree.Size(), "after leaf %d", i)
	}
}

func TestLeafCountRoundTrip(t *testing.T) {
	tree := New(NewMemStore())
	for i := 0; i < 20; i++ {
		_, err := tree.Append(leafHash(byte(i)))
		require.NoError(t, err)
		require.Equal(t, uint64(i+1), tree.LeafCount())
	}
}

func TestRootChangesOnAppend(t *testing.T) {
	tree := New(NewMemStore())
	_, err := tree.Append(leafHash(1))
	require.NoError(t, err)
	r1, err := tree.Root()
	require.NoError(t, err)

	_, err = tree.Append(leafHash(2))
	require.NoError(t, err)
	r2, err := tree.Root()
	require.NoError(t, err)

	require.NotEqual(t, r1, r2)
}

func TestProveVerifyRoundTrip(t *testing.T) {
	tree := New(NewMemStore())
	const leaves = 37
	positions := make([]uint64, 0, leaves)
	hashes := make([]chainhash.Hash, 0, leaves)
	for i := 0; i < leaves; i++ {
		h := leafHash(byte(i))
		pos, err := tree.Append(h)
		require.NoError(t, err)
		positions = append(positions, pos)
		hashes = append(hashes, h)
	}

	root, err := tree.Root()
	require.NoError(t, err)

	for i, pos := range positions {
		proof, err := tree.Prove(pos)
		require.NoError(t, err)
		require.True(t, Verify(root, hashes[i], proof), "leaf %d failed to verify", i)
	}
}

func TestVerifyRejectsWrongLeaf(t *testing.T) {
	tree := New(NewMemStore())
	var positions []uint64
	for i := 0; i < 9; i++ {
		pos, err := tree.Append(leafHash(byte(i)))
		require.NoError(t, err)
		positions = append(positions, pos)
	}
	root, err := tree.Root()
	require.NoError(t, err)

	proof, err := tree.Prove(positions[3])
	require.NoError(t, err)
	require.False(t, Verify(root, leafHash(99), proof))
}

func TestRewindTruncatesRange(t *testing.T) {
	tree := New(NewMemStore())
	for i := 0; i < 5; i++ {
		_, err := tree.Append(leafHash(byte(i)))
		require.NoError(t, err)
	}
	midSize := tree.Size()
	midRoot, err := tree.Root()
	require.NoError(t, err)

	for i := 5; i < 9; i++ {
		_, err := tree.Append(leafHash(byte(i)))
		require.NoError(t, err)
	}
	require.NotEqual(t, midSize, tree.Size())

	require.NoError(t, tree.Rewind(midSize))
	require.Equal(t, midSize, tree.Size())
	rewoundRoot, err := tree.Root()
	require.NoError(t, err)
	require.Equal(t, midRoot, rewoundRoot)
}

func TestRewindRejectsInvalidSize(t *testing.T) {
	tree := New(NewMemStore())
	for i := 0; i < 4; i++ {
		_, err := tree.Append(leafHash(byte(i)))
		require.NoError(t, err)
	}
	require.ErrorIs(t, tree.Rewind(2), ErrInvalidSize)
}

func TestLeafPosMatchesAppendPositions(t *testing.T) {
	tree := New(NewMemStore())
	for i := uint64(0); i < 64; i++ {
		pos, err := tree.Append(leafHash(byte(i)))
		require.NoError(t, err)
		require.Equal(t, LeafPos(i), pos)
	}
}

func TestFirstMMRSizeIsAValidRangeSize(t *testing.T) {
	for i := uint64(0); i < 40; i++ {
		size := firstMMRSize(i)
		require.True(t, size >= i+1)
		require.LessOrEqual(t, posHeight(size+1), posHeight(size))
	}
}
