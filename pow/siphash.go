// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

package pow

import (
	"encoding/binary"
	"math/bits"
)

// sipKeys are the four 64-bit keys a header's pre-proof-of-work hash
// expands into, per spec §4.8: "Hash preProofOfWork(header) with Blake2b
// to sipkeys."
type sipKeys struct {
	k0, k1, k2, k3 uint64
}

func newSipKeys(seed [32]byte) sipKeys {
	return sipKeys{
		k0: binary.LittleEndian.Uint64(seed[0:8]),
		k1: binary.LittleEndian.Uint64(seed[8:16]),
		k2: binary.LittleEndian.Uint64(seed[16:24]),
		k3: binary.LittleEndian.Uint64(seed[24:32]),
	}
}

// defaultRotE is the SipRound rotation Cuckatoo, Cuckaroo, Cuckaroom, and
// Cuckarooz all use for v3's rotation in the mix step. Cuckarood alone
// substitutes 25, the one place the four 29-bit variants' graph generation
// actually differs beneath the endpoint-derivation logic.
const defaultRotE = 21
const cuckaroodRotE = 25

// sipRound is one SipHash mixing round, parameterized on rotE the way the
// reference's templated siphash_state<rotE> is.
func sipRound(v0, v1, v2, v3 uint64, rotE uint) (uint64, uint64, uint64, uint64) {
	v0 += v1
	v1 = bits.RotateLeft64(v1, 13)
	v1 ^= v0
	v0 = bits.RotateLeft64(v0, 32)
	v2 += v3
	v3 = bits.RotateLeft64(v3, 16)
	v3 ^= v2
	v0 += v3
	v3 = bits.RotateLeft64(v3, int(rotE))
	v3 ^= v0
	v2 += v1
	v1 = bits.RotateLeft64(v1, 17)
	v1 ^= v2
	v2 = bits.RotateLeft64(v2, 32)
	return v0, v1, v2, v3
}

// hash24 is the reference's siphash_state::hash24: two compression rounds
// followed by four finalization rounds over a single 64-bit message word,
// folding the result into v0..v3 in place (the caller decides whether to
// read it back out via xorLanes or keep mixing, which is exactly what
// sipBlock below needs).
func hash24(v0, v1, v2, v3, nonce uint64, rotE uint) (uint64, uint64, uint64, uint64) {
	v3 ^= nonce
	v0, v1, v2, v3 = sipRound(v0, v1, v2, v3, rotE)
	v0, v1, v2, v3 = sipRound(v0, v1, v2, v3, rotE)
	v0 ^= nonce
	v2 ^= 0xff
	v0, v1, v2, v3 = sipRound(v0, v1, v2, v3, rotE)
	v0, v1, v2, v3 = sipRound(v0, v1, v2, v3, rotE)
	v0, v1, v2, v3 = sipRound(v0, v1, v2, v3, rotE)
	v0, v1, v2, v3 = sipRound(v0, v1, v2, v3, rotE)
	return v0, v1, v2, v3
}

func xorLanes(v0, v1, v2, v3 uint64) uint64 {
	return v0 ^ v1 ^ v2 ^ v3
}

// sipNode generates one Cuckatoo graph endpoint: hash24 over a single
// nonce derived from (edge, uorv), no block batching, per the reference's
// sipnode.
func sipNode(keys sipKeys, edge uint64, uorv uint64, edgeMask uint64) uint64 {
	v0, v1, v2, v3 := hash24(keys.k0, keys.k1, keys.k2, keys.k3, 2*edge+uorv, defaultRotE)
	return xorLanes(v0, v1, v2, v3) & edgeMask
}

const edgeBlockBits = 6
const edgeBlockSize = 1 << edgeBlockBits
const edgeBlockMask = edgeBlockSize - 1

// sipBlock reproduces the reference's sipblock: a single siphash state is
// carried across the 64-edge block containing edge (hash24 is applied
// repeatedly without re-keying in between), and every slot but the last is
// XOR-corrected against the last slot before the value at edge's position
// is returned. This folding is part of the Cuckaroo family's graph
// definition, not merely a mining-side speed trick, so verification must
// reproduce it bit for bit.
func sipBlock(keys sipKeys, edge uint64, rotE uint) uint64 {
	v0, v1, v2, v3 := keys.k0, keys.k1, keys.k2, keys.k3
	edge0 := edge &^ uint64(edgeBlockMask)

	var buf [edgeBlockSize]uint64
	for i := uint64(0); i < edgeBlockSize; i++ {
		v0, v1, v2, v3 = hash24(v0, v1, v2, v3, edge0+i, rotE)
		buf[i] = xorLanes(v0, v1, v2, v3)
	}

	last := buf[edgeBlockMask]
	for i := 0; i < edgeBlockMask; i++ {
		buf[i] ^= last
	}
	return buf[edge&edgeBlockMask]
}
