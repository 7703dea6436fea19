// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

package txhashset

import "math/bits"

// Leafset is a bitmap over output-MMR leaf indices: bit set means the leaf's
// output is unspent. Spending an output clears its bit rather than removing
// the MMR leaf, so the output's hash stays available for proof
// reconstruction.
//
// Other Mimblewimble nodes back this with a roaring bitmap to stay compact
// under sparse spend patterns across a large UTXO set. A plain word-packed
// bitset is simpler to reason about and to checkpoint, and a node's leafset
// is small enough relative to main memory that roaring's sparsity win isn't
// worth the added complexity here.
type Leafset struct {
	words []uint64
}

// NewLeafset returns an empty leafset.
func NewLeafset() *Leafset {
	return &Leafset{}
}

func wordIndex(leaf uint64) (word int, bit uint) {
	return int(leaf / 64), uint(leaf % 64)
}

func (s *Leafset) grow(word int) {
	if word < len(s.words) {
		return
	}
	grown := make([]uint64, word+1)
	copy(grown, s.words)
	s.words = grown
}

// Set marks leaf as unspent.
func (s *Leafset) Set(leaf uint64) {
	w, b := wordIndex(leaf)
	s.grow(w)
	s.words[w] |= 1 << b
}

// Clear marks leaf as spent.
func (s *Leafset) Clear(leaf uint64) {
	w, b := wordIndex(leaf)
	if w >= len(s.words) {
		return
	}
	s.words[w] &^= 1 << b
}

// IsSet reports whether leaf is currently unspent.
func (s *Leafset) IsSet(leaf uint64) bool {
	w, b := wordIndex(leaf)
	if w >= len(s.words) {
		return false
	}
	return s.words[w]&(1<<b) != 0
}

// Count returns the number of unspent leaves.
func (s *Leafset) Count() uint64 {
	var n uint64
	for _, w := range s.words {
		n += uint64(bits.OnesCount64(w))
	}
	return n
}

// Clone returns an independent copy, used to snapshot state before a
// speculative apply (e.g. PendingRoots) that must be undone.
func (s *Leafset) Clone() *Leafset {
	words := make([]uint64, len(s.words))
	copy(words, s.words)
	return &Leafset{words: words}
}

// Bytes returns the little-endian word-packed serialization of the bitmap,
// for persistence alongside the MMR hash files.
func (s *Leafset) Bytes() []byte {
	out := make([]byte, len(s.words)*8)
	for i, w := range s.words {
		for j := 0; j < 8; j++ {
			out[i*8+j] = byte(w >> (8 * j))
		}
	}
	return out
}

// LeafsetFromBytes reconstructs a bitmap from its Bytes() encoding.
func LeafsetFromBytes(b []byte) *Leafset {
	words := make([]uint64, (len(b)+7)/8)
	for i := range words {
		var w uint64
		for j := 0; j < 8 && i*8+j < len(b); j++ {
			w |= uint64(b[i*8+j]) << (8 * j)
		}
		words[i] = w
	}
	return &Leafset{words: words}
}
