// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wire defines the Mimblewimble block/header/transaction-body wire
// format described in spec §3 and §6: fixed-layout headers, and
// varint-counted, hash-sorted bodies of inputs/outputs/kernels.
package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/grinpp-go/nodecore/chainhash"
	"github.com/grinpp-go/nodecore/secp"
)

// BlockHeader is the fixed-layout consensus header described in spec §3.
type BlockHeader struct {
	Version           uint16
	Height            uint64
	Timestamp         int64
	PrevHash          chainhash.Hash
	PrevRoot          chainhash.Hash
	OutputRoot        chainhash.Hash
	RangeproofRoot    chainhash.Hash
	KernelRoot        chainhash.Hash
	TotalKernelOffset secp.BlindingFactor
	OutputMMRSize     uint64
	KernelMMRSize     uint64
	TotalDifficulty   uint64
	SecondaryScaling  uint32
	Nonce             uint64
	ProofOfWork       ProofOfWork
}

// ProofOfWork is the Cuckoo-cycle proof committed to by a header: the graph
// size (edge_bits) and the 42 cycle nonces.
type ProofOfWork struct {
	EdgeBits uint8
	Nonces   [42]uint64
}

// Hash returns the Blake2b-256 hash identifying this header, computed over
// its full serialized form (including the embedded proof of work) per spec
// §3's BlockHeader definition.
func (h *BlockHeader) Hash() chainhash.Hash {
	var buf bytes.Buffer
	// Errors are impossible: bytes.Buffer.Write never fails.
	_ = h.Serialize(&buf)
	return chainhash.HashH(buf.Bytes())
}

// PreProofOfWorkHash returns the hash of every header field EXCEPT the proof
// of work itself; §4.8 hashes this value to derive the Cuckoo sipkeys.
func (h *BlockHeader) PreProofOfWorkHash() chainhash.Hash {
	var buf bytes.Buffer
	writeUint16(&buf, h.Version)
	writeUint64(&buf, h.Height)
	writeInt64(&buf, h.Timestamp)
	buf.Write(h.PrevHash[:])
	buf.Write(h.PrevRoot[:])
	buf.Write(h.OutputRoot[:])
	buf.Write(h.RangeproofRoot[:])
	buf.Write(h.KernelRoot[:])
	buf.Write(h.TotalKernelOffset[:])
	writeUint64(&buf, h.OutputMMRSize)
	writeUint64(&buf, h.KernelMMRSize)
	writeUint64(&buf, h.TotalDifficulty)
	writeUint32(&buf, h.SecondaryScaling)
	writeUint64(&buf, h.Nonce)
	return chainhash.HashH(buf.Bytes())
}

// Serialize writes the canonical binary encoding of the header to w, per
// spec §6: fixed layout of big-endian integers and 32-byte hashes.
func (h *BlockHeader) Serialize(w io.Writer) error {
	var buf bytes.Buffer
	writeUint16(&buf, h.Version)
	writeUint64(&buf, h.Height)
	writeInt64(&buf, h.Timestamp)
	buf.Write(h.PrevHash[:])
	buf.Write(h.PrevRoot[:])
	buf.Write(h.OutputRoot[:])
	buf.Write(h.RangeproofRoot[:])
	buf.Write(h.KernelRoot[:])
	buf.Write(h.TotalKernelOffset[:])
	writeUint64(&buf, h.OutputMMRSize)
	writeUint64(&buf, h.KernelMMRSize)
	writeUint64(&buf, h.TotalDifficulty)
	writeUint32(&buf, h.SecondaryScaling)
	writeUint64(&buf, h.Nonce)
	writeProofOfWork(&buf, h.ProofOfWork)
	_, err := w.Write(buf.Bytes())
	return err
}

// DeserializeHeader reads a header previously written by Serialize.
func DeserializeHeader(r io.Reader) (*BlockHeader, error) {
	h := &BlockHeader{}
	var err error
	if h.Version, err = readUint16(r); err != nil {
		return nil, err
	}
	if h.Height, err = readUint64(r); err != nil {
		return nil, err
	}
	if h.Timestamp, err = readInt64(r); err != nil {
		return nil, err
	}
	for _, hh := range []*chainhash.Hash{&h.PrevHash, &h.PrevRoot, &h.OutputRoot, &h.RangeproofRoot, &h.KernelRoot} {
		if _, err := io.ReadFull(r, hh[:]); err != nil {
			return nil, err
		}
	}
	if _, err := io.ReadFull(r, h.TotalKernelOffset[:]); err != nil {
		return nil, err
	}
	if h.OutputMMRSize, err = readUint64(r); err != nil {
		return nil, err
	}
	if h.KernelMMRSize, err = readUint64(r); err != nil {
		return nil, err
	}
	if h.TotalDifficulty, err = readUint64(r); err != nil {
		return nil, err
	}
	if h.SecondaryScaling, err = readUint32(r); err != nil {
		return nil, err
	}
	if h.Nonce, err = readUint64(r); err != nil {
		return nil, err
	}
	if h.ProofOfWork, err = readProofOfWork(r); err != nil {
		return nil, err
	}
	return h, nil
}

// OutputFeatures is a bit-flag describing an output's role.
type OutputFeatures uint8

// Output feature bits.
const (
	OutputPlain    OutputFeatures = 0
	OutputCoinbase OutputFeatures = 1 << 0
)

// KernelFeatures is a bit-flag describing a kernel's role.
type KernelFeatures uint8

// Kernel feature bits.
const (
	KernelPlain    KernelFeatures = 0
	KernelCoinbase KernelFeatures = 1 << 0
)

// Input references a previously-unspent output by commitment.
type Input struct {
	Features   OutputFeatures
	Commitment secp.Commitment
}

// Output is a new unspent coin: a commitment, hidden amount, and a range
// proof attesting the hidden amount is non-negative and fits the currency's
// value range.
type Output struct {
	Features   OutputFeatures
	Commitment secp.Commitment
	RangeProof []byte
}

// Kernel is a transaction's public signature, fee, and feature record.
type Kernel struct {
	Features  KernelFeatures
	Fee       uint64
	LockHeight uint64
	Excess    secp.Commitment
	ExcessSig secp.Signature
}

// SignedMessage returns the message a kernel's excess signature signs: per
// §4.4, Hash(features || fee || lock_height).
func (k *Kernel) SignedMessage() [32]byte {
	var buf bytes.Buffer
	writeUint8(&buf, uint8(k.Features))
	writeUint64(&buf, k.Fee)
	writeUint64(&buf, k.LockHeight)
	return chainhash.HashH(buf.Bytes())
}

// Hash returns the content hash of a kernel, used both for ordering and as
// an MMR leaf hash input.
func (k *Kernel) Hash() chainhash.Hash {
	var buf bytes.Buffer
	_ = k.serialize(&buf)
	return chainhash.HashH(buf.Bytes())
}

func (k *Kernel) serialize(w io.Writer) error {
	var buf bytes.Buffer
	writeUint8(&buf, uint8(k.Features))
	writeUint64(&buf, k.Fee)
	writeUint64(&buf, k.LockHeight)
	buf.Write(k.Excess[:])
	buf.Write(k.ExcessSig[:])
	_, err := w.Write(buf.Bytes())
	return err
}

// Serialize writes a kernel standalone, the same layout FullBlock.Serialize
// uses inline. Used by chaindb's kernel-MMR data file.
func (k *Kernel) Serialize(w io.Writer) error {
	return k.serialize(w)
}

// DeserializeKernel reads a kernel previously written by Serialize.
func DeserializeKernel(r io.Reader) (*Kernel, error) {
	f, err := readUint8(r)
	if err != nil {
		return nil, err
	}
	k := &Kernel{Features: KernelFeatures(f)}
	if k.Fee, err = readUint64(r); err != nil {
		return nil, err
	}
	if k.LockHeight, err = readUint64(r); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(r, k.Excess[:]); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(r, k.ExcessSig[:]); err != nil {
		return nil, err
	}
	return k, nil
}

// Hash returns the content hash of an input: its commitment identifies the
// output it spends.
func (in *Input) Hash() chainhash.Hash {
	return chainhash.HashH(in.Commitment[:])
}

// Hash returns the content hash of an output: Hash(features || commitment),
// matching the output-MMR leaf hash in §4.3.
func (o *Output) Hash() chainhash.Hash {
	var buf bytes.Buffer
	writeUint8(&buf, uint8(o.Features))
	buf.Write(o.Commitment[:])
	return chainhash.HashH(buf.Bytes())
}

// RangeProofHash returns Hash(range_proof), the range-proof MMR's leaf hash.
func (o *Output) RangeProofHash() chainhash.Hash {
	return chainhash.HashH(o.RangeProof)
}

// Serialize writes an output standalone: features || commitment ||
// varint(len(range_proof)) || range_proof. Used by chaindb's output-MMR
// data file, which stores one output per leaf position.
func (o *Output) Serialize(w io.Writer) error {
	if err := writeUint8Err(w, uint8(o.Features)); err != nil {
		return err
	}
	if _, err := w.Write(o.Commitment[:]); err != nil {
		return err
	}
	if err := writeVarInt(w, uint64(len(o.RangeProof))); err != nil {
		return err
	}
	_, err := w.Write(o.RangeProof)
	return err
}

// DeserializeOutput reads an output previously written by Serialize.
func DeserializeOutput(r io.Reader) (*Output, error) {
	f, err := readUint8(r)
	if err != nil {
		return nil, err
	}
	o := &Output{Features: OutputFeatures(f)}
	if _, err := io.ReadFull(r, o.Commitment[:]); err != nil {
		return nil, err
	}
	proofLen, err := readVarInt(r)
	if err != nil {
		return nil, err
	}
	if proofLen > maxRangeProofSize {
		return nil, fmt.Errorf("wire: range proof too large (%d)", proofLen)
	}
	o.RangeProof = make([]byte, proofLen)
	if _, err := io.ReadFull(r, o.RangeProof); err != nil {
		return nil, err
	}
	return o, nil
}

// FullBlock is a header plus its transaction body, per spec §3. Offset is
// the block's own kernel blinding-factor offset (distinct from the
// header's cumulative TotalKernelOffset): the scalar that, added to the
// sum of this body's kernel excesses, balances against the body's
// output/input commitment sum.
type FullBlock struct {
	Header  BlockHeader
	Offset  secp.BlindingFactor
	Inputs  []Input
	Outputs []Output
	Kernels []Kernel
}

// SortBody sorts inputs ascending by commitment bytes and outputs/kernels
// ascending by hash, the deterministic ordering spec §3 calls
// consensus-critical. Inputs are not ordered by their hash.
func (b *FullBlock) SortBody() {
	sort.Slice(b.Inputs, func(i, j int) bool {
		return bytes.Compare(b.Inputs[i].Commitment[:], b.Inputs[j].Commitment[:]) < 0
	})
	sort.Slice(b.Outputs, func(i, j int) bool {
		hi, hj := b.Outputs[i].Hash(), b.Outputs[j].Hash()
		return bytes.Compare(hi[:], hj[:]) < 0
	})
	sort.Slice(b.Kernels, func(i, j int) bool {
		hi, hj := b.Kernels[i].Hash(), b.Kernels[j].Hash()
		return bytes.Compare(hi[:], hj[:]) < 0
	})
}

// Serialize writes the canonical binary encoding described in spec §6:
// header || varint(input_count) || inputs || varint(output_count) ||
// outputs || varint(kernel_count) || kernels.
func (b *FullBlock) Serialize(w io.Writer) error {
	if err := b.Header.Serialize(w); err != nil {
		return err
	}
	if _, err := w.Write(b.Offset[:]); err != nil {
		return err
	}
	if err := writeVarInt(w, uint64(len(b.Inputs))); err != nil {
		return err
	}
	for i := range b.Inputs {
		in := &b.Inputs[i]
		if err := writeUint8Err(w, uint8(in.Features)); err != nil {
			return err
		}
		if _, err := w.Write(in.Commitment[:]); err != nil {
			return err
		}
	}
	if err := writeVarInt(w, uint64(len(b.Outputs))); err != nil {
		return err
	}
	for i := range b.Outputs {
		o := &b.Outputs[i]
		if err := writeUint8Err(w, uint8(o.Features)); err != nil {
			return err
		}
		if _, err := w.Write(o.Commitment[:]); err != nil {
			return err
		}
		if err := writeVarInt(w, uint64(len(o.RangeProof))); err != nil {
			return err
		}
		if _, err := w.Write(o.RangeProof); err != nil {
			return err
		}
	}
	if err := writeVarInt(w, uint64(len(b.Kernels))); err != nil {
		return err
	}
	for i := range b.Kernels {
		if err := b.Kernels[i].serialize(w); err != nil {
			return err
		}
	}
	return nil
}

// DeserializeFullBlock reads a block previously written by Serialize.
func DeserializeFullBlock(r io.Reader) (*FullBlock, error) {
	b := &FullBlock{}
	header, err := DeserializeHeader(r)
	if err != nil {
		return nil, err
	}
	b.Header = *header

	if _, err := io.ReadFull(r, b.Offset[:]); err != nil {
		return nil, err
	}

	nInputs, err := readVarInt(r)
	if err != nil {
		return nil, err
	}
	if nInputs > maxBodyCount {
		return nil, fmt.Errorf("wire: block declares too many inputs (%d)", nInputs)
	}
	b.Inputs = make([]Input, nInputs)
	for i := range b.Inputs {
		f, err := readUint8(r)
		if err != nil {
			return nil, err
		}
		b.Inputs[i].Features = OutputFeatures(f)
		if _, err := io.ReadFull(r, b.Inputs[i].Commitment[:]); err != nil {
			return nil, err
		}
	}

	nOutputs, err := readVarInt(r)
	if err != nil {
		return nil, err
	}
	if nOutputs > maxBodyCount {
		return nil, fmt.Errorf("wire: block declares too many outputs (%d)", nOutputs)
	}
	b.Outputs = make([]Output, nOutputs)
	for i := range b.Outputs {
		f, err := readUint8(r)
		if err != nil {
			return nil, err
		}
		b.Outputs[i].Features = OutputFeatures(f)
		if _, err := io.ReadFull(r, b.Outputs[i].Commitment[:]); err != nil {
			return nil, err
		}
		proofLen, err := readVarInt(r)
		if err != nil {
			return nil, err
		}
		if proofLen > maxRangeProofSize {
			return nil, fmt.Errorf("wire: range proof too large (%d)", proofLen)
		}
		b.Outputs[i].RangeProof = make([]byte, proofLen)
		if _, err := io.ReadFull(r, b.Outputs[i].RangeProof); err != nil {
			return nil, err
		}
	}

	nKernels, err := readVarInt(r)
	if err != nil {
		return nil, err
	}
	if nKernels > maxBodyCount {
		return nil, fmt.Errorf("wire: block declares too many kernels (%d)", nKernels)
	}
	b.Kernels = make([]Kernel, nKernels)
	for i := range b.Kernels {
		f, err := readUint8(r)
		if err != nil {
			return nil, err
		}
		b.Kernels[i].Features = KernelFeatures(f)
		if b.Kernels[i].Fee, err = readUint64(r); err != nil {
			return nil, err
		}
		if b.Kernels[i].LockHeight, err = readUint64(r); err != nil {
			return nil, err
		}
		if _, err := io.ReadFull(r, b.Kernels[i].Excess[:]); err != nil {
			return nil, err
		}
		if _, err := io.ReadFull(r, b.Kernels[i].ExcessSig[:]); err != nil {
			return nil, err
		}
	}

	return b, nil
}

const (
	maxBodyCount      = 1_000_000
	maxRangeProofSize = 1 << 16
)

func writeUint8(buf *bytes.Buffer, v uint8)   { buf.WriteByte(v) }
func writeUint16(buf *bytes.Buffer, v uint16) { var b [2]byte; binary.BigEndian.PutUint16(b[:], v); buf.Write(b[:]) }
func writeUint32(buf *bytes.Buffer, v uint32) { var b [4]byte; binary.BigEndian.PutUint32(b[:], v); buf.Write(b[:]) }
func writeUint64(buf *bytes.Buffer, v uint64) { var b [8]byte; binary.BigEndian.PutUint64(b[:], v); buf.Write(b[:]) }
func writeInt64(buf *bytes.Buffer, v int64)   { writeUint64(buf, uint64(v)) }

func writeUint8Err(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	return err
}

func readUint8(r io.Reader) (uint8, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func readUint16(r io.Reader) (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b[:]), nil
}

func readUint32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

func readUint64(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b[:]), nil
}

func readInt64(r io.Reader) (int64, error) {
	v, err := readUint64(r)
	return int64(v), err
}

// writeVarInt writes the "varint" fields of the wire format (counts and the
// range-proof length) as a fixed 8-byte big-endian integer; the encoding is
// not variable-length. readVarInt reads it back.
func writeVarInt(w io.Writer, v uint64) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func readVarInt(r io.Reader) (uint64, error) {
	return readUint64(r)
}
