// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

package txpool

import (
	"time"

	"github.com/grinpp-go/nodecore/chainhash"
	"github.com/grinpp-go/nodecore/wire"
)

// DandelionStatus is the Dandelion++ routing state of a pooled
// transaction, per spec §4.7.
type DandelionStatus int

const (
	// ToStem means the transaction is being routed privately, peer to
	// peer, along the current stem path.
	ToStem DandelionStatus = iota
	// ToFluff means the transaction is ready for ordinary epidemic
	// broadcast.
	ToFluff
	// Stemmed means the transaction has already been forwarded once along
	// the stem path and should not be stemmed again.
	Stemmed
	// Fluffed means the transaction lives in the MemPool: it has already
	// been broadcast and is an ordinary, fully public candidate for the
	// next block.
	Fluffed
)

func (s DandelionStatus) String() string {
	switch s {
	case ToStem:
		return "TO_STEM"
	case ToFluff:
		return "TO_FLUFF"
	case Stemmed:
		return "STEMMED"
	case Fluffed:
		return "FLUFFED"
	default:
		return "UNKNOWN"
	}
}

// PoolType selects which of the three pools (§4.7) an operation targets.
type PoolType int

const (
	MemPoolType PoolType = iota
	StemPoolType
	JoinPoolType
)

// entry is the shared shape every pool stores: (transaction,
// dandelion_status, insertion_time), per spec §4.7.
type entry struct {
	tx        *wire.Transaction
	hash      chainhash.Hash
	status    DandelionStatus
	timestamp time.Time
}

func newEntry(tx *wire.Transaction, status DandelionStatus, now time.Time) *entry {
	return &entry{tx: tx, hash: tx.Hash(), status: status, timestamp: now}
}
