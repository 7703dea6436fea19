// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

package pow

import (
	"github.com/grinpp-go/nodecore/chaincfg"
	"github.com/grinpp-go/nodecore/wire"
)

const proofSize = chaincfg.ProofSize

// cycleResult is the typed outcome of one cycle-verification attempt,
// mirroring the reference's verify_code enum (Cuckaroo.cpp/Cuckatoo.cpp).
type cycleResult int

const (
	cycleOK cycleResult = iota
	cycleTooBig
	cycleTooSmall
	cycleNonMatching
	cycleBranch
	cycleDeadEnd
	cycleShortCycle
	cycleUnbalanced
)

func (r cycleResult) String() string {
	switch r {
	case cycleOK:
		return "OK"
	case cycleTooBig:
		return "edge too big"
	case cycleTooSmall:
		return "edges not ascending"
	case cycleNonMatching:
		return "endpoints don't match up"
	case cycleBranch:
		return "branch in cycle"
	case cycleDeadEnd:
		return "cycle dead ends"
	case cycleShortCycle:
		return "cycle too short"
	case cycleUnbalanced:
		return "edges not balanced"
	default:
		return "unknown"
	}
}

// verifyCycle walks header's 42 proof nonces against the Cuckoo graph keys
// derives from its pre-proof-of-work hash, dispatching to the variant
// (edge_bits, header.Version) selects, per spec §4.8: Cuckatoo for
// edge_bits >= 31, Cuckaroo/Cuckarood/Cuckaroom/Cuckarooz (by version) for
// edge_bits == 29.
func verifyCycle(header *wire.BlockHeader) cycleResult {
	seed := header.PreProofOfWorkHash()
	keys := newSipKeys(seed)
	edges := header.ProofOfWork.Nonces
	edgeBits := header.ProofOfWork.EdgeBits

	if edgeBits == chaincfg.SecondPowEdgeBits {
		switch header.Version {
		case 1:
			return verifyCuckaroo(edges, keys, edgeBits)
		case 2:
			return verifyCuckarood(edges, keys)
		case 3:
			return verifyCuckaroom(edges, keys)
		default:
			return verifyCuckarooz(edges, keys)
		}
	}
	return verifyCuckatoo(edges, keys, edgeBits)
}

// verifyCuckatoo ports Cuckatoo.cpp's verify_cuckatoo: sipnode-derived
// endpoints, (u,v) pairs matched by halves (the partition bit is masked
// out of the match but must differ, hence the extra uvs[j]==uvs[i] check).
func verifyCuckatoo(edges [proofSize]uint64, keys sipKeys, edgeBits uint8) cycleResult {
	var uvs [2 * proofSize]uint64
	xor0 := uint64(proofSize/2) & 1
	xor1 := xor0

	numEdges := uint64(1) << edgeBits
	edgeMask := numEdges - 1

	for n := 0; n < proofSize; n++ {
		if edges[n] > edgeMask {
			return cycleTooBig
		}
		if n > 0 && edges[n] <= edges[n-1] {
			return cycleTooSmall
		}
		uvs[2*n] = sipNode(keys, edges[n], 0, edgeMask)
		xor0 ^= uvs[2*n]
		uvs[2*n+1] = sipNode(keys, edges[n], 1, edgeMask)
		xor1 ^= uvs[2*n+1]
	}
	if xor0|xor1 != 0 {
		return cycleNonMatching
	}

	n, i := 0, 0
	for {
		j := i
		for k := i; ; {
			k = (k + 2) % (2 * proofSize)
			if k == i {
				break
			}
			if uvs[k]>>1 == uvs[i]>>1 {
				if j != i {
					return cycleBranch
				}
				j = k
			}
		}
		if j == i || uvs[j] == uvs[i] {
			return cycleDeadEnd
		}
		i = j ^ 1
		n++
		if i == 0 {
			break
		}
	}
	if n != proofSize {
		return cycleShortCycle
	}
	return cycleOK
}

// verifyCuckaroo ports Cuckaroo.cpp's verify_cuckaroo: sipblock-derived
// endpoints (the block-folded hash, not sipnode), matched pairwise at
// stride 2 around the 2*PROOFSIZE ring.
func verifyCuckaroo(edges [proofSize]uint64, keys sipKeys, edgeBits uint8) cycleResult {
	var uvs [2 * proofSize]uint64
	var xor0, xor1 uint64

	numEdges := uint64(1) << edgeBits
	edgeMask := numEdges - 1

	for n := 0; n < proofSize; n++ {
		if edges[n] > edgeMask {
			return cycleTooBig
		}
		if n > 0 && edges[n] <= edges[n-1] {
			return cycleTooSmall
		}
		edge := sipBlock(keys, edges[n], defaultRotE)
		uvs[2*n] = edge & edgeMask
		xor0 ^= uvs[2*n]
		uvs[2*n+1] = (edge >> 32) & edgeMask
		xor1 ^= uvs[2*n+1]
	}
	if xor0|xor1 != 0 {
		return cycleNonMatching
	}

	n, i := 0, 0
	for {
		j := i
		for k := i; ; {
			k = (k + 2) % (2 * proofSize)
			if k == i {
				break
			}
			if uvs[k] == uvs[i] {
				if j != i {
					return cycleBranch
				}
				j = k
			}
		}
		if j == i {
			return cycleDeadEnd
		}
		i = j ^ 1
		n++
		if i == 0 {
			break
		}
	}
	if n != proofSize {
		return cycleShortCycle
	}
	return cycleOK
}

// verifyCuckarood ports Cuckarood.cpp's verify_cuckarood: a directed
// variant at fixed edge_bits=29, where each edge's direction bit (its low
// bit) sorts it into one of two equal-sized halves before matching.
func verifyCuckarood(edges [proofSize]uint64, keys sipKeys) cycleResult {
	const edgeBits = chaincfg.SecondPowEdgeBits
	numEdges2 := uint64(1) << edgeBits
	nodeMask := (numEdges2 / 2) - 1

	var uvs [2 * proofSize]uint64
	var xor0, xor1 uint64
	var ndir [2]int

	for n := 0; n < proofSize; n++ {
		dir := int(edges[n] & 1)
		if ndir[dir] >= proofSize/2 {
			return cycleUnbalanced
		}
		if edges[n] >= numEdges2 {
			return cycleTooBig
		}
		if n > 0 && edges[n] <= edges[n-1] {
			return cycleTooSmall
		}
		edge := sipBlock(keys, edges[n], cuckaroodRotE)
		slot := 4*ndir[dir] + 2*dir
		uvs[slot] = edge & nodeMask
		xor0 ^= uvs[slot]
		uvs[slot+1] = (edge >> 32) & nodeMask
		xor1 ^= uvs[slot+1]
		ndir[dir]++
	}
	if xor0|xor1 != 0 {
		return cycleNonMatching
	}

	n, i := 0, 0
	for {
		j := i
		for k := ((i) % 4) ^ 2; k < 2*proofSize; k += 4 {
			if uvs[k] == uvs[i] {
				if j != i {
					return cycleBranch
				}
				j = k
			}
		}
		if j == i {
			return cycleDeadEnd
		}
		i = j ^ 1
		n++
		if i == 0 {
			break
		}
	}
	if n != proofSize {
		return cycleShortCycle
	}
	return cycleOK
}

// verifyCuckaroom ports Cuckaroom.cpp's verify_cuckaroom: each edge
// contributes a (from, to) pair (undivided by a partition bit), and the
// cycle is followed by matching an edge's "to" endpoint against the next
// edge's "from" endpoint, visiting each edge index at most once.
func verifyCuckaroom(edges [proofSize]uint64, keys sipKeys) cycleResult {
	const edgeBits = chaincfg.SecondPowEdgeBits
	edgeMask := (uint64(1) << edgeBits) - 1

	var from, to [proofSize]uint64
	var visited [proofSize]bool
	var xorFrom, xorTo uint64

	for n := 0; n < proofSize; n++ {
		if edges[n] > edgeMask {
			return cycleTooBig
		}
		if n > 0 && edges[n] <= edges[n-1] {
			return cycleTooSmall
		}
		edge := sipBlock(keys, edges[n], defaultRotE)
		from[n] = edge & edgeMask
		xorFrom ^= from[n]
		to[n] = (edge >> 32) & edgeMask
		xorTo ^= to[n]
	}
	if xorFrom != xorTo {
		return cycleNonMatching
	}

	n, i := 0, 0
	for {
		if visited[i] {
			return cycleBranch
		}
		visited[i] = true

		nexti := 0
		for from[nexti] != to[i] {
			nexti++
			if nexti == proofSize {
				return cycleDeadEnd
			}
		}
		i = nexti
		n++
		if i == 0 {
			break
		}
	}
	if n != proofSize {
		return cycleShortCycle
	}
	return cycleOK
}

// verifyCuckarooz ports Cuckarooz.cpp's verify_cuckarooz: like Cuckaroo,
// but over a doubled node space (NNODES = 2*NEDGES) and a stride-1 ring
// walk instead of stride-2.
func verifyCuckarooz(edges [proofSize]uint64, keys sipKeys) cycleResult {
	const edgeBits = chaincfg.SecondPowEdgeBits
	numEdges := uint64(1) << edgeBits
	edgeMask := numEdges - 1
	nodeMask := (2 * numEdges) - 1

	var uv [2 * proofSize]uint64
	var xorUV uint64

	for n := 0; n < proofSize; n++ {
		if edges[n] > edgeMask {
			return cycleTooBig
		}
		if n > 0 && edges[n] <= edges[n-1] {
			return cycleTooSmall
		}
		edge := sipBlock(keys, edges[n], defaultRotE)
		uv[2*n] = edge & nodeMask
		xorUV ^= uv[2*n]
		uv[2*n+1] = (edge >> 32) & nodeMask
		xorUV ^= uv[2*n+1]
	}
	if xorUV != 0 {
		return cycleNonMatching
	}

	n, i := 0, 0
	for {
		j := i
		for k := i; ; {
			k = (k + 1) % (2 * proofSize)
			if k == i {
				break
			}
			if uv[k] == uv[i] {
				if j != i {
					return cycleBranch
				}
				j = k
			}
		}
		if j == i {
			return cycleDeadEnd
		}
		i = j ^ 1
		n++
		if i == 0 {
			break
		}
	}
	if n != proofSize {
		return cycleShortCycle
	}
	return cycleOK
}
