// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

package pow

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/grinpp-go/nodecore/chaincfg"
	"github.com/grinpp-go/nodecore/chainhash"
	"github.com/grinpp-go/nodecore/wire"
)

// memHeaders is a minimal in-memory HeaderReader for difficulty-retarget
// tests, keyed by hash.
type memHeaders map[chainhash.Hash]*wire.BlockHeader

func (m memHeaders) GetHeader(hash chainhash.Hash) (*wire.BlockHeader, bool, error) {
	h, ok := m[hash]
	return h, ok, nil
}

// buildChain synthesizes length headers at BlockTimeSec spacing and
// constant difficulty step, genesis (height 0) first, returning the
// headers oldest-first and the HeaderReader they're indexed in.
func buildChain(length int, diffStep uint64) ([]*wire.BlockHeader, memHeaders) {
	headers := make(memHeaders)
	chain := make([]*wire.BlockHeader, 0, length)

	var prevHash chainhash.Hash
	var totalDiff uint64
	for i := 0; i < length; i++ {
		h := &wire.BlockHeader{
			Version:          1,
			Height:           uint64(i),
			Timestamp:        int64(i) * chaincfg.BlockTimeSec,
			PrevHash:         prevHash,
			TotalDifficulty:  totalDiff,
			SecondaryScaling: 1,
			ProofOfWork:      wire.ProofOfWork{EdgeBits: 31},
		}
		if i > 0 {
			totalDiff += diffStep
			h.TotalDifficulty = totalDiff
		}
		hash := h.Hash()
		headers[hash] = h
		chain = append(chain, h)
		prevHash = hash
	}
	return chain, headers
}

func TestDampMovesTowardGoal(t *testing.T) {
	// Actual exactly at goal should be undisturbed by damping.
	require.Equal(t, uint64(100), damp(100, 100, chaincfg.DMADampFactor))

	// A low actual is pulled up toward the goal, never past it.
	damped := damp(0, 300, 3)
	require.Equal(t, uint64(200), damped)
}

func TestClampBoundsToFactor(t *testing.T) {
	require.Equal(t, uint64(200), clamp(1000, 100, 2))
	require.Equal(t, uint64(50), clamp(1, 100, 2))
	require.Equal(t, uint64(100), clamp(100, 100, 2))
}

func TestSecondaryPOWRatioDecaysOverTime(t *testing.T) {
	require.Equal(t, uint64(90), secondaryPOWRatio(0))
	require.True(t, secondaryPOWRatio(chaincfg.YearHeight) < 90)
	require.Equal(t, uint64(0), secondaryPOWRatio(100*chaincfg.YearHeight))
}

func TestPadDifficultyDataFillsShortAncestry(t *testing.T) {
	need := int(chaincfg.DifficultyAdjustWindow) + 1
	data := []headerInfo{{timestamp: 1000, difficulty: 42}}

	padded := padDifficultyData(data, need)
	require.Len(t, padded, need)
	// Oldest-first: the single real sample ends up last.
	require.Equal(t, int64(1000), padded[len(padded)-1].timestamp)
	require.Equal(t, uint64(42), padded[0].difficulty)
}

func TestNextDMAMatchesConstantStepChain(t *testing.T) {
	const step = uint64(1000)
	length := int(chaincfg.DifficultyAdjustWindow) + 5
	chain, headers := buildChain(length, step)

	next := chain[len(chain)-1]
	candidate := &wire.BlockHeader{
		Version:  1,
		Height:   next.Height + 1,
		PrevHash: next.Hash(),
	}

	info, err := nextDifficulty(headers, candidate)
	require.NoError(t, err)
	// A perfectly on-schedule, constant-difficulty chain should retarget
	// back to roughly the same per-block step.
	require.InDelta(t, float64(step), float64(info.difficulty), float64(step)/10)
}

func TestNextWTEMAUsesLastInterval(t *testing.T) {
	chain, headers := buildChain(5, 1000)
	next := chain[len(chain)-1]
	candidate := &wire.BlockHeader{
		Version:  5,
		Height:   next.Height + 1,
		PrevHash: next.Hash(),
	}

	info, err := nextDifficulty(headers, candidate)
	require.NoError(t, err)
	require.GreaterOrEqual(t, info.difficulty, minWTEMAGraphWeight())
}

func TestMaximumDifficultyOfProofClampsOnOverflow(t *testing.T) {
	header := &wire.BlockHeader{
		ProofOfWork:      wire.ProofOfWork{EdgeBits: 31},
		SecondaryScaling: 1,
	}
	// A zero proof hash forces hash64BE to floor at 1, making the divisor
	// the smallest possible and the quotient the largest possible.
	var zero [32]byte
	result := maximumDifficultyOfProof(header, zero)
	require.Equal(t, ^uint64(0), result)
}
