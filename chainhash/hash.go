// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainhash provides the content hash type used throughout the
// chain-state engine.  Mimblewimble chains hash everything with Blake2b-256
// rather than double-SHA256, so this package mirrors the shape of btcsuite's
// chainhash.Hash but swaps the underlying digest.
package chainhash

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// HashSize is the number of bytes in a content hash.
const HashSize = 32

// MaxHashStringSize is the maximum length of a Hash hash string.
const MaxHashStringSize = HashSize * 2

// ErrHashStrSize describes an error that indicates the caller specified a
// hash string that does not have the right number of characters.
var ErrHashStrSize = fmt.Errorf("max hash string length is %v bytes", MaxHashStringSize)

// Hash is a 32-byte Blake2b-256 content hash.
type Hash [HashSize]byte

// String returns the Hash as the hexadecimal string of the byte-reversed
// hash, matching the conventional "block explorer" display order used
// throughout the btcsuite family.
func (h Hash) String() string {
	var hexBytes [HashSize * 2]byte
	hex.Encode(hexBytes[:], reversed(h)[:])
	return string(hexBytes[:])
}

func reversed(h Hash) Hash {
	var out Hash
	for i := 0; i < HashSize/2; i++ {
		out[i], out[HashSize-1-i] = h[HashSize-1-i], h[i]
	}
	return out
}

// CloneBytes returns a copy of the bytes which represent the hash as a byte
// slice.
func (h *Hash) CloneBytes() []byte {
	newHash := make([]byte, HashSize)
	copy(newHash, h[:])
	return newHash
}

// SetBytes sets the bytes which represent the hash.  An error is returned if
// the number of bytes passed in is not HashSize.
func (h *Hash) SetBytes(newHash []byte) error {
	if len(newHash) != HashSize {
		return fmt.Errorf("invalid hash length of %v, want %v", len(newHash), HashSize)
	}
	copy(h[:], newHash)
	return nil
}

// IsEqual returns true if target is the same as h.
func (h *Hash) IsEqual(target *Hash) bool {
	if h == nil && target == nil {
		return true
	}
	if h == nil || target == nil {
		return false
	}
	return *h == *target
}

// NewHash returns a new Hash from a byte slice.
func NewHash(newHash []byte) (*Hash, error) {
	var sh Hash
	if err := sh.SetBytes(newHash); err != nil {
		return nil, err
	}
	return &sh, nil
}

// NewHashFromStr creates a Hash from a hash string.  The string should be
// the hexadecimal string of a byte-reversed hash, but any missing characters
// result in zero padding at the end of the Hash.
func NewHashFromStr(hash string) (*Hash, error) {
	ret := new(Hash)
	if err := Decode(ret, hash); err != nil {
		return nil, err
	}
	return ret, nil
}

// Decode decodes the byte-reversed hexadecimal string encoding of a Hash to a
// destination.
func Decode(dst *Hash, src string) error {
	if len(src) > MaxHashStringSize {
		return ErrHashStrSize
	}

	var srcBytes []byte
	if len(src)%2 == 0 {
		srcBytes = []byte(src)
	} else {
		srcBytes = make([]byte, 1+len(src))
		srcBytes[0] = '0'
		copy(srcBytes[1:], src)
	}

	var reversedHash Hash
	_, err := hex.Decode(reversedHash[HashSize-hex.DecodedLen(len(srcBytes)):], srcBytes)
	if err != nil {
		return err
	}

	*dst = reversed(reversedHash)
	return nil
}

// HashB calculates the Blake2b-256 hash of the given byte slice.
func HashB(b []byte) []byte {
	h := blake2b.Sum256(b)
	return h[:]
}

// HashH calculates the Blake2b-256 hash of the given byte slice and returns
// it as a Hash.
func HashH(b []byte) Hash {
	return Hash(blake2b.Sum256(b))
}

// Hasher accumulates data and produces a Hash, mirroring hash.Hash but
// specialized to avoid an interface hop on the hot append path in the MMR
// engine.
type Hasher struct {
	h []byte
}

// NewHasher returns an empty Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// Write appends data to the hasher's pending buffer.
func (h *Hasher) Write(p []byte) (int, error) {
	h.h = append(h.h, p...)
	return len(p), nil
}

// Reset clears the hasher's pending buffer so it may be reused.
func (h *Hasher) Reset() {
	h.h = h.h[:0]
}

// Sum returns the Blake2b-256 digest of everything written since the last
// Reset, appended to b.
func (h *Hasher) Sum(b []byte) []byte {
	sum := blake2b.Sum256(h.h)
	return append(b, sum[:]...)
}
