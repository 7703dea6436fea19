// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

package wire

import (
	"bytes"
	"fmt"
	"io"

	"github.com/kkdai/bstream"

	"github.com/grinpp-go/nodecore/chainhash"
)

// Hash returns the hash identifying this proof of work (edge_bits plus its
// bit-packed nonces), the `hash64_be(proof)` spec §4.8's maximum-difficulty
// formula reads its leading bytes from.
func (p ProofOfWork) Hash() chainhash.Hash {
	var buf bytes.Buffer
	writeProofOfWork(&buf, p)
	return chainhash.HashH(buf.Bytes())
}

// packedNonceLen returns the number of whole bytes needed to bit-pack
// len(ProofOfWork.Nonces) values of edgeBits bits each, the compact
// on-wire layout spec §4.8 describes (as opposed to a fixed 8 bytes per
// nonce, which wastes most of the bits once edge_bits settles below 64).
func packedNonceLen(edgeBits uint8) int {
	var pow ProofOfWork
	bits := len(pow.Nonces) * int(edgeBits)
	return (bits + 7) / 8
}

// writeProofOfWork bit-packs pow at edge_bits bits per nonce via
// kkdai/bstream, zero-padding the final byte.
func writeProofOfWork(buf *bytes.Buffer, pow ProofOfWork) {
	writeUint8(buf, pow.EdgeBits)
	bw := &bstream.BStream{}
	for _, n := range pow.Nonces {
		bw.WriteBits(n, int(pow.EdgeBits))
	}
	packed := bw.Bytes()
	if full := packedNonceLen(pow.EdgeBits); len(packed) < full {
		packed = append(packed, make([]byte, full-len(packed))...)
	}
	buf.Write(packed)
}

// readProofOfWork is writeProofOfWork's inverse.
func readProofOfWork(r io.Reader) (ProofOfWork, error) {
	var pow ProofOfWork
	edgeBits, err := readUint8(r)
	if err != nil {
		return pow, err
	}
	pow.EdgeBits = edgeBits

	packed := make([]byte, packedNonceLen(edgeBits))
	if _, err := io.ReadFull(r, packed); err != nil {
		return pow, fmt.Errorf("wire: reading proof-of-work nonces: %w", err)
	}
	br := bstream.NewBReader(packed)
	for i := range pow.Nonces {
		v, err := br.ReadBits(int(edgeBits))
		if err != nil {
			return pow, fmt.Errorf("wire: unpacking nonce %d: %w", i, err)
		}
		pow.Nonces[i] = v
	}
	return pow, nil
}
