// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

package txhashset

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/grinpp-go/nodecore/secp"
)

// BlockSums is the running total of output and kernel excess commitments
// after applying a block, per spec §4.1/§4.2. Verifying a block only needs
// BlockSums(parent) plus the block's own body, not a full chain scan.
type BlockSums struct {
	OutputSum secp.Commitment
	KernelSum secp.Commitment
}

// Serialize writes the fixed-size wire encoding of s.
func (s BlockSums) Serialize(w io.Writer) error {
	if _, err := w.Write(s.OutputSum[:]); err != nil {
		return err
	}
	_, err := w.Write(s.KernelSum[:])
	return err
}

// DeserializeBlockSums reads the encoding written by Serialize.
func DeserializeBlockSums(r io.Reader) (BlockSums, error) {
	var s BlockSums
	if _, err := io.ReadFull(r, s.OutputSum[:]); err != nil {
		return BlockSums{}, err
	}
	if _, err := io.ReadFull(r, s.KernelSum[:]); err != nil {
		return BlockSums{}, err
	}
	return s, nil
}

// OutputLocation records where in the output MMR a commitment currently
// lives, so a spend can find (and clear) its leafset bit in O(1).
type OutputLocation struct {
	MMRIndex    uint64
	BlockHeight uint64
}

// Serialize writes the fixed-size wire encoding of l.
func (l OutputLocation) Serialize(w io.Writer) error {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[0:8], l.MMRIndex)
	binary.BigEndian.PutUint64(buf[8:16], l.BlockHeight)
	_, err := w.Write(buf[:])
	return err
}

// DeserializeOutputLocation reads the encoding written by Serialize.
func DeserializeOutputLocation(r io.Reader) (OutputLocation, error) {
	var buf [16]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return OutputLocation{}, err
	}
	return OutputLocation{
		MMRIndex:    binary.BigEndian.Uint64(buf[0:8]),
		BlockHeight: binary.BigEndian.Uint64(buf[8:16]),
	}, nil
}

// SpentOutput pairs a commitment with the location it occupied, recorded
// per block so rewind can restore leafset bits without a chain scan.
type SpentOutput struct {
	Commitment secp.Commitment
	Location   OutputLocation
}

// SerializeSpentOutputs writes the list spent as a length-prefixed sequence
// of (commitment || location) records.
func SerializeSpentOutputs(spent []SpentOutput) ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.BigEndian, uint32(len(spent))); err != nil {
		return nil, err
	}
	for _, s := range spent {
		if _, err := buf.Write(s.Commitment[:]); err != nil {
			return nil, err
		}
		if err := s.Location.Serialize(&buf); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// DeserializeSpentOutputs reads the encoding written by SerializeSpentOutputs.
func DeserializeSpentOutputs(data []byte) ([]SpentOutput, error) {
	r := bytes.NewReader(data)
	var count uint32
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return nil, err
	}
	out := make([]SpentOutput, count)
	for i := range out {
		if _, err := io.ReadFull(r, out[i].Commitment[:]); err != nil {
			return nil, err
		}
		loc, err := DeserializeOutputLocation(r)
		if err != nil {
			return nil, err
		}
		out[i].Location = loc
	}
	return out, nil
}
