// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

package txpool

import (
	"encoding/binary"

	"github.com/grinpp-go/nodecore/chainhash"
)

// shortIDSize is the number of leading bytes of the hash kept as a
// transaction's short ID, per spec §4.7.
const shortIDSize = 6

// ShortID is a compact-block reconstruction hint: the first 6 bytes of
// Hash(kernel_hash || block_hash || nonce), unique enough, for a single
// block, to look a kernel up against a peer's mempool without sending the
// full kernel hash.
type ShortID [shortIDSize]byte

// NewShortID derives the short ID a kernel takes within blockHash, salted
// with nonce so the mapping can't be pre-computed across blocks.
func NewShortID(kernelHash, blockHash chainhash.Hash, nonce uint64) ShortID {
	buf := make([]byte, chainhash.HashSize*2+8)
	copy(buf, kernelHash[:])
	copy(buf[chainhash.HashSize:], blockHash[:])
	binary.BigEndian.PutUint64(buf[chainhash.HashSize*2:], nonce)
	full := chainhash.HashH(buf)

	var id ShortID
	copy(id[:], full[:shortIDSize])
	return id
}
