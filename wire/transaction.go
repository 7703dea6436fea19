// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/grinpp-go/nodecore/chainhash"
	"github.com/grinpp-go/nodecore/secp"
)

// Transaction is a headerless body: the unit the transaction pool (§4.7)
// stores, validates, and aggregates before its contents ever reach a mined
// FullBlock. It carries its own kernel blinding-factor offset, same as
// FullBlock, but no header fields at all.
type Transaction struct {
	Offset  secp.BlindingFactor
	Inputs  []Input
	Outputs []Output
	Kernels []Kernel
}

// SortBody sorts inputs ascending by commitment bytes and outputs/kernels
// ascending by hash, the same deterministic ordering FullBlock.SortBody
// applies.
func (tx *Transaction) SortBody() {
	sort.Slice(tx.Inputs, func(i, j int) bool {
		return bytes.Compare(tx.Inputs[i].Commitment[:], tx.Inputs[j].Commitment[:]) < 0
	})
	sort.Slice(tx.Outputs, func(i, j int) bool {
		hi, hj := tx.Outputs[i].Hash(), tx.Outputs[j].Hash()
		return bytes.Compare(hi[:], hj[:]) < 0
	})
	sort.Slice(tx.Kernels, func(i, j int) bool {
		hi, hj := tx.Kernels[i].Hash(), tx.Kernels[j].Hash()
		return bytes.Compare(hi[:], hj[:]) < 0
	})
}

// Hash returns the content hash identifying this transaction: the hash of
// its serialized form, including the offset.
func (tx *Transaction) Hash() chainhash.Hash {
	var buf bytes.Buffer
	// Errors are impossible: bytes.Buffer.Write never fails.
	_ = tx.Serialize(&buf)
	return chainhash.HashH(buf.Bytes())
}

// Fee returns the sum of every kernel's fee, the amount this transaction
// pays to be mined.
func (tx *Transaction) Fee() uint64 {
	var fee uint64
	for i := range tx.Kernels {
		fee += tx.Kernels[i].Fee
	}
	return fee
}

// Weight returns the transaction's consensus weight, per §4.2's
// Weight(inputs, outputs, kernels).
func (tx *Transaction) Weight(inputWeight, outputWeight, kernelWeight uint64) uint64 {
	return uint64(len(tx.Inputs))*inputWeight + uint64(len(tx.Outputs))*outputWeight + uint64(len(tx.Kernels))*kernelWeight
}

// Serialize writes the canonical binary encoding: offset ||
// varint(input_count) || inputs || varint(output_count) || outputs ||
// varint(kernel_count) || kernels. Matches FullBlock.Serialize's body
// encoding, minus the header.
func (tx *Transaction) Serialize(w io.Writer) error {
	if _, err := w.Write(tx.Offset[:]); err != nil {
		return err
	}
	if err := writeVarInt(w, uint64(len(tx.Inputs))); err != nil {
		return err
	}
	for i := range tx.Inputs {
		in := &tx.Inputs[i]
		if err := writeUint8Err(w, uint8(in.Features)); err != nil {
			return err
		}
		if _, err := w.Write(in.Commitment[:]); err != nil {
			return err
		}
	}
	if err := writeVarInt(w, uint64(len(tx.Outputs))); err != nil {
		return err
	}
	for i := range tx.Outputs {
		if err := tx.Outputs[i].Serialize(w); err != nil {
			return err
		}
	}
	if err := writeVarInt(w, uint64(len(tx.Kernels))); err != nil {
		return err
	}
	for i := range tx.Kernels {
		if err := tx.Kernels[i].serialize(w); err != nil {
			return err
		}
	}
	return nil
}

// DeserializeTransaction reads a transaction previously written by
// Serialize.
func DeserializeTransaction(r io.Reader) (*Transaction, error) {
	tx := &Transaction{}
	if _, err := io.ReadFull(r, tx.Offset[:]); err != nil {
		return nil, err
	}

	nInputs, err := readVarInt(r)
	if err != nil {
		return nil, err
	}
	if nInputs > maxBodyCount {
		return nil, fmt.Errorf("wire: transaction declares too many inputs (%d)", nInputs)
	}
	tx.Inputs = make([]Input, nInputs)
	for i := range tx.Inputs {
		f, err := readUint8(r)
		if err != nil {
			return nil, err
		}
		tx.Inputs[i].Features = OutputFeatures(f)
		if _, err := io.ReadFull(r, tx.Inputs[i].Commitment[:]); err != nil {
			return nil, err
		}
	}

	nOutputs, err := readVarInt(r)
	if err != nil {
		return nil, err
	}
	if nOutputs > maxBodyCount {
		return nil, fmt.Errorf("wire: transaction declares too many outputs (%d)", nOutputs)
	}
	tx.Outputs = make([]Output, nOutputs)
	for i := range tx.Outputs {
		o, err := DeserializeOutput(r)
		if err != nil {
			return nil, err
		}
		tx.Outputs[i] = *o
	}

	nKernels, err := readVarInt(r)
	if err != nil {
		return nil, err
	}
	if nKernels > maxBodyCount {
		return nil, fmt.Errorf("wire: transaction declares too many kernels (%d)", nKernels)
	}
	tx.Kernels = make([]Kernel, nKernels)
	for i := range tx.Kernels {
		k, err := DeserializeKernel(r)
		if err != nil {
			return nil, err
		}
		tx.Kernels[i] = *k
	}

	return tx, nil
}
