// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

package chainstore

import (
	"time"

	"github.com/grinpp-go/nodecore/chainhash"
)

// maxTrackedStats bounds Stats' memory cost the same way maxSideBranches
// bounds the side-branch set: a finite cap rather than an ever-growing
// history, since Stats exists for a live status() query, not an archive.
const maxTrackedStats = 1024

// Stats is a lightweight per-block record of size/weight/fee counters and
// how long the Block Processor took to apply the block, adapted from the
// teacher's blockchain/stats package (BlockStats) to Mimblewimble's
// input/output/kernel shape in place of Bitcoin's transaction list.
type Stats struct {
	Height          uint64
	Hash            chainhash.Hash
	InputCount      int
	OutputCount     int
	KernelCount     int
	Weight          uint64
	TotalFees       uint64
	ProcessDuration time.Duration
}

// RecordStats remembers stats for later retrieval by StatsByHash, evicting the
// oldest tracked entry once the cap is hit.
func (s *Store) RecordStats(stats Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stats == nil {
		s.stats = make(map[chainhash.Hash]Stats)
	}
	if _, ok := s.stats[stats.Hash]; !ok {
		if len(s.statsList) >= maxTrackedStats {
			oldest := s.statsList[0]
			s.statsList = s.statsList[1:]
			delete(s.stats, oldest)
		}
		s.statsList = append(s.statsList, stats.Hash)
	}
	s.stats[stats.Hash] = stats
}

// StatsByHash returns the tracked Stats for hash, if any is still retained.
func (s *Store) StatsByHash(hash chainhash.Hash) (Stats, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stats[hash]
	return st, ok
}
