// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

package mmr

import (
	"encoding/binary"
	"errors"

	"github.com/grinpp-go/nodecore/chainhash"
)

// ErrInvalidSize is returned when a rewind or proof request targets an MMR
// size that does not correspond to the end of a committed subtree.
var ErrInvalidSize = errors.New("mmr: size does not correspond to a valid mountain range")

// ErrPositionOutOfRange is returned when a requested position has not been
// appended (or has been pruned and is no longer available to HashStore).
var ErrPositionOutOfRange = errors.New("mmr: position out of range")

// HashStore is the storage contract the MMR engine is built on: a flat,
// 0-indexed append log of every node hash (leaves and internal parents
// alike), addressed by 1-based MMR position. TxHashSet supplies one
// HashStore per backing MMR (kernel/output/rangeproof), each one a thin
// view over the Chain DB's append-only column families.
type HashStore interface {
	// Get returns the hash stored at the given 1-based position.
	Get(pos uint64) (chainhash.Hash, error)
	// Append adds a new node hash at the next position and returns that
	// position.
	Append(h chainhash.Hash) (uint64, error)
	// Size returns the number of positions currently stored (i.e. the
	// current MMR size).
	Size() uint64
	// Truncate discards every position beyond size, used by Rewind.
	Truncate(size uint64) error
}

// Tree is an append-only Merkle Mountain Range over chainhash.Hash leaves,
// §4.2's MMR Engine. Parent hashes are salted with their own 1-based
// position so that a node's hash depends on where it sits in the range, the
// same construction grin and the forestrie log both use to defeat rearranged
// subtree attacks.
type Tree struct {
	store HashStore
}

// New wraps store as an MMR engine. store's current Size() becomes the
// tree's initial size; store must already hold a valid MMR (i.e. one whose
// size is returned by some sequence of Appends, including zero).
func New(store HashStore) *Tree {
	return &Tree{store: store}
}

// Size returns the current number of positions in the range (leaves and
// internal nodes together).
func (t *Tree) Size() uint64 {
	return t.store.Size()
}

// LeafCount returns the number of leaves committed to by the range's
// current size.
func (t *Tree) LeafCount() uint64 {
	return leafCount(t.store.Size())
}

// hashParent salts a parent node's hash with its own 1-based position,
// matching §4.2: "Hash(position || left || right)".
func hashParent(pos uint64, left, right chainhash.Hash) chainhash.Hash {
	var buf [8 + 32 + 32]byte
	binary.BigEndian.PutUint64(buf[0:8], pos)
	copy(buf[8:40], left[:])
	copy(buf[40:72], right[:])
	return chainhash.HashH(buf[:])
}

// Append adds a new leaf to the range, back-filling any parent nodes that
// the new leaf completes, and returns the leaf's 1-based position.
//
// The back-fill loop is the classic MMR append: each time the newly written
// node completes a perfect subtree (i.e. it has a left sibling already
// present at the same height), a parent node combining the two is written
// immediately, and the loop repeats one level up.
func (t *Tree) Append(leaf chainhash.Hash) (uint64, error) {
	pos, err := t.store.Append(leaf)
	if err != nil {
		return 0, err
	}

	cur := pos
	curHash := leaf
	for isRightChild(cur) {
		_, siblingPos := family(cur)
		siblingHash, err := t.store.Get(siblingPos)
		if err != nil {
			return 0, err
		}
		parentPos := cur + 1
		parentHash := hashParent(parentPos, siblingHash, curHash)
		newPos, err := t.store.Append(parentHash)
		if err != nil {
			return 0, err
		}
		cur = newPos
		curHash = parentHash
	}
	return pos, nil
}

// Root bags the current peaks into a single root hash per §4.2: "fold all
// peak hashes right-to-left with a salted hash." An empty range's root is
// the zero hash.
func (t *Tree) Root() (chainhash.Hash, error) {
	size := t.store.Size()
	peakPositions := peaks(size)
	if len(peakPositions) == 0 {
		return chainhash.Hash{}, nil
	}

	peakHashes := make([]chainhash.Hash, len(peakPositions))
	for i, p := range peakPositions {
		h, err := t.store.Get(p)
		if err != nil {
			return chainhash.Hash{}, err
		}
		peakHashes[i] = h
	}

	root := peakHashes[len(peakHashes)-1]
	for i := len(peakHashes) - 2; i >= 0; i-- {
		root = bagPeaks(size, peakHashes[i], root)
	}
	return root, nil
}

// bagPeaks folds two adjacent peak hashes into one, salting with the range
// size the way grin's bag_mmr_hash salts peak folds with the overall size
// rather than a node position (peaks have no single position of their own
// once folded).
func bagPeaks(size uint64, left, right chainhash.Hash) chainhash.Hash {
	var buf [8 + 32 + 32]byte
	binary.BigEndian.PutUint64(buf[0:8], size)
	copy(buf[8:40], left[:])
	copy(buf[40:72], right[:])
	return chainhash.HashH(buf[:])
}

// GetHash returns the hash stored at the given 1-based position.
func (t *Tree) GetHash(pos uint64) (chainhash.Hash, error) {
	if pos == 0 || pos > t.store.Size() {
		return chainhash.Hash{}, ErrPositionOutOfRange
	}
	return t.store.Get(pos)
}

// LeafPos maps a zero-based leaf index to its 1-based MMR position.
func LeafPos(leafIndex uint64) uint64 { return leafToPos(leafIndex) }

// Rewind truncates the range back to size, discarding every position
// appended after it. size must be a valid MMR size (the end of some prior
// Append sequence); the txhashset layer is responsible for picking a valid
// rewind target (typically the output of firstMMRSize for some leaf index).
func (t *Tree) Rewind(size uint64) error {
	if size != 0 && posHeight(size+1) > posHeight(size) {
		return ErrInvalidSize
	}
	log.Debugf("Rewinding MMR to size %d", size)
	return t.store.Truncate(size)
}

// Proof is an inclusion proof for one leaf against the range's root at the
// time the proof was generated: the sibling hashes needed to walk from the
// leaf up to its containing peak, plus the hashes of the other peaks needed
// to bag the final root.
type Proof struct {
	// LeafPos is the 1-based position of the proven leaf.
	LeafPos uint64
	// MMRSize is the range size the proof was generated against.
	MMRSize uint64
	// Path holds the sibling hash at each level from the leaf up to its
	// peak, ordered leaf-to-peak.
	Path []chainhash.Hash
	// Peaks holds every peak hash other than the one the leaf belongs to,
	// left-to-right in mountain order.
	Peaks []chainhash.Hash
}

// Prove builds an inclusion proof for the leaf at the given 1-based
// position against the range's current size.
func (t *Tree) Prove(leafPos uint64) (*Proof, error) {
	size := t.store.Size()
	if leafPos == 0 || leafPos > size {
		return nil, ErrPositionOutOfRange
	}

	proof := &Proof{LeafPos: leafPos, MMRSize: size}

	cur := leafPos
	for !isPeak(size, cur) {
		parentPos, siblingPos := family(cur)
		h, err := t.store.Get(siblingPos)
		if err != nil {
			return nil, err
		}
		proof.Path = append(proof.Path, h)
		cur = parentPos
	}

	for _, p := range peaks(size) {
		if p == cur {
			continue
		}
		h, err := t.store.Get(p)
		if err != nil {
			return nil, err
		}
		proof.Peaks = append(proof.Peaks, h)
	}

	return proof, nil
}

// Verify checks that leaf, combined with proof's sibling path and peak set,
// folds up to root.
func Verify(root chainhash.Hash, leaf chainhash.Hash, proof *Proof) bool {
	size := proof.MMRSize
	cur := proof.LeafPos
	curHash := leaf

	for _, sibling := range proof.Path {
		parentPos, _ := family(cur)
		var left, right chainhash.Hash
		if isRightChild(cur) {
			// cur's sibling precedes it.
			left, right = sibling, curHash
		} else {
			left, right = curHash, sibling
		}
		curHash = hashParent(parentPos, left, right)
		cur = parentPos
	}

	peakPositions := peaks(size)
	if len(peakPositions) == 0 {
		return false
	}

	ordered := make([]chainhash.Hash, 0, len(peakPositions))
	j := 0
	for _, p := range peakPositions {
		if p == cur {
			ordered = append(ordered, curHash)
			continue
		}
		if j >= len(proof.Peaks) {
			return false
		}
		ordered = append(ordered, proof.Peaks[j])
		j++
	}
	if j != len(proof.Peaks) {
		return false
	}

	bagged := ordered[len(ordered)-1]
	for i := len(ordered) - 2; i >= 0; i-- {
		bagged = bagPeaks(size, ordered[i], bagged)
	}
	return bagged == root
}
