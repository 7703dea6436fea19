// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

package pow

import (
	"fmt"

	"github.com/grinpp-go/nodecore/chaincfg"
	"github.com/grinpp-go/nodecore/chainhash"
	"github.com/grinpp-go/nodecore/wire"
)

// HeaderReader is the narrow header-lookup dependency package pow needs:
// chaindb.DB satisfies it structurally. Kept separate from chaindb itself
// so pow can be built and tested without pulling in goleveldb, the same
// pattern blockprocessor's PoWVerifier/validation.RangeProofVerifier use.
type HeaderReader interface {
	GetHeader(hash chainhash.Hash) (*wire.BlockHeader, bool, error)
}

// headerInfo is one window sample the DMA/WTEMA retarget reasons over,
// mirroring the reference's HeaderInfo: a per-block difficulty delta
// (total_difficulty - parent.total_difficulty) rather than the absolute
// total_difficulty the header stores.
type headerInfo struct {
	timestamp        int64
	difficulty       uint64
	secondaryScaling uint32
	secondary        bool
}

// nextDifficulty computes the (difficulty, secondary_scaling) the next
// block after header's parent must carry, per spec §4.8: DMA below header
// version 5, WTEMA from version 5 on.
func nextDifficulty(headers HeaderReader, header *wire.BlockHeader) (headerInfo, error) {
	if header.Version < 5 {
		return nextDMA(headers, header)
	}
	return nextWTEMA(headers, header)
}

// nextWTEMA ports DifficultyCalculator::NextWTEMA: a single-sample
// exponential moving average keyed off the immediately preceding block
// interval, floored at the smallest permitted graph weight so a very fast
// block can't stall the retarget via dampening.
func nextWTEMA(headers HeaderReader, header *wire.BlockHeader) (headerInfo, error) {
	last, ok, err := headers.GetHeader(header.PrevHash)
	if err != nil {
		return headerInfo{}, err
	}
	if !ok {
		return headerInfo{}, fmt.Errorf("pow: parent header %s not found", header.PrevHash)
	}
	if last.Height == 0 {
		return headerInfo{difficulty: minWTEMAGraphWeight()}, nil
	}
	prev, ok, err := headers.GetHeader(last.PrevHash)
	if err != nil {
		return headerInfo{}, err
	}
	if !ok {
		return headerInfo{}, fmt.Errorf("pow: grandparent header %s not found", last.PrevHash)
	}

	lastBlockTime := uint64(last.Timestamp - prev.Timestamp)
	lastDiff := last.TotalDifficulty - prev.TotalDifficulty

	nextDiff := lastDiff * chaincfg.WTEMAHalfLife / (chaincfg.WTEMAHalfLife - chaincfg.BlockTimeSec + lastBlockTime)
	difficulty := max64(minWTEMAGraphWeight(), nextDiff)
	return headerInfo{difficulty: difficulty}, nil
}

// minWTEMAGraphWeight is the WTEMA floor: the reference picks
// C32_GRAPH_WEIGHT on mainnet, or the secondary graph's weight elsewhere
// (test networks never reach the Cuckatoo32-only regime). This engine has
// no live mainnet to special-case, so it always uses the portable form.
func minWTEMAGraphWeight() uint64 {
	return chaincfg.GraphWeight(0, chaincfg.SecondPowEdgeBits)
}

// nextDMA ports DifficultyCalculator::NextDMA: a damped, clamped moving
// average of both primary difficulty and the secondary (AR) PoW's scaling
// factor over the last DifficultyAdjustWindow headers.
func nextDMA(headers HeaderReader, header *wire.BlockHeader) (headerInfo, error) {
	window, err := loadDifficultyData(headers, header)
	if err != nil {
		return headerInfo{}, err
	}

	// window is oldest-first, length DifficultyAdjustWindow+1; skip the
	// first (bounding) sample for the sums below, as the reference does.
	rest := window[1:]

	secScaling := secondaryPOWScaling(header.Height, rest)

	tsDelta := uint64(window[len(window)-1].timestamp - window[0].timestamp)

	var diffSum uint64
	for _, hi := range rest {
		diffSum += hi.difficulty
	}

	actual := damp(tsDelta, chaincfg.BlockTimeWindow, chaincfg.DMADampFactor)
	adjTS := clamp(actual, chaincfg.BlockTimeWindow, chaincfg.ClampFactor)

	difficulty := max64(chaincfg.MinDMADifficulty, diffSum*chaincfg.BlockTimeSec/adjTS)
	return headerInfo{difficulty: difficulty, secondaryScaling: secScaling}, nil
}

// loadDifficultyData ports DifficultyLoader::LoadDifficultyData/
// PadDifficultyData: walk header's ancestry back DifficultyAdjustWindow+1
// headers, converting absolute total_difficulty into per-block deltas,
// then pad the front with simulated pre-genesis samples (at the earliest
// real sample's own difficulty and spacing) if the chain isn't deep enough
// yet. Returned oldest-first.
func loadDifficultyData(headers HeaderReader, header *wire.BlockHeader) ([]headerInfo, error) {
	const need = chaincfg.DifficultyAdjustWindow + 1

	// newest-first as loaded, converted to one-shorter-than-visited per
	// the reference's "consume current, peek previous for the delta"
	// walk.
	var data []headerInfo
	cur, ok, err := headers.GetHeader(header.PrevHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("pow: parent header %s not found", header.PrevHash)
	}

	for len(data) < need {
		prev, ok, err := headers.GetHeader(cur.PrevHash)
		if err != nil {
			return nil, err
		}
		secondary := cur.ProofOfWork.EdgeBits == chaincfg.SecondPowEdgeBits
		if !ok {
			data = append(data, headerInfo{
				timestamp:        cur.Timestamp,
				difficulty:       cur.TotalDifficulty,
				secondaryScaling: cur.SecondaryScaling,
				secondary:        secondary,
			})
			break
		}
		data = append(data, headerInfo{
			timestamp:        cur.Timestamp,
			difficulty:       cur.TotalDifficulty - prev.TotalDifficulty,
			secondaryScaling: cur.SecondaryScaling,
			secondary:        secondary,
		})
		cur = prev
	}

	return padDifficultyData(data, need), nil
}

// padDifficultyData fills data out to need entries with simulated
// pre-genesis samples (constant spacing/difficulty equal to the earliest
// real sample), then reverses to oldest-first, per PadDifficultyData.
func padDifficultyData(data []headerInfo, need int) []headerInfo {
	if len(data) < need {
		lastTSDelta := uint64(chaincfg.BlockTimeSec)
		if len(data) > 1 {
			lastTSDelta = uint64(data[0].timestamp - data[1].timestamp)
		}
		lastDiff := data[0].difficulty

		lastTS := uint64(data[len(data)-1].timestamp)
		for len(data) < need {
			if lastTS < lastTSDelta {
				lastTS = 0
			} else {
				lastTS -= lastTSDelta
			}
			data = append(data, headerInfo{timestamp: int64(lastTS), difficulty: lastDiff})
		}
	}

	reversed := make([]headerInfo, len(data))
	for i, hi := range data {
		reversed[len(data)-1-i] = hi
	}
	return reversed
}

// secondaryPOWScaling ports DifficultyCalculator::SecondaryPOWScaling:
// damps/clamps the window's average AR scaling factor toward the ideal
// secondary-PoW ratio at this height.
func secondaryPOWScaling(height uint64, window []headerInfo) uint32 {
	var scaleSum uint64
	for _, hi := range window {
		scaleSum += uint64(hi.secondaryScaling)
	}

	targetPct := secondaryPOWRatio(height)
	targetCount := uint64(chaincfg.DifficultyAdjustWindow) * targetPct

	var arCount uint64
	for _, hi := range window {
		if hi.secondary {
			arCount += 100
		}
	}

	actual := damp(arCount, targetCount, chaincfg.ARScaleDampFactor)
	adjCount := clamp(actual, targetCount, chaincfg.ClampFactor)
	scale := scaleSum * targetPct / max64(1, adjCount)

	return uint32(max64(chaincfg.MinARScale, scale))
}

// secondaryPOWRatio ports Consensus::SecondaryPOWRatio: the secondary
// PoW's target share of blocks, starting at 90% and losing about a
// percent a week.
func secondaryPOWRatio(height uint64) uint64 {
	decay := height / (2 * chaincfg.YearHeight / 90)
	return 90 - min64(90, decay)
}

// damp moves actual linearly toward goal, dampened by dampFactor.
func damp(actual, goal, dampFactor uint64) uint64 {
	return (actual + (dampFactor-1)*goal) / dampFactor
}

// clamp bounds actual to within clampFactor of goal.
func clamp(actual, goal, clampFactor uint64) uint64 {
	return max64(goal/clampFactor, min64(actual, goal*clampFactor))
}

func max64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
