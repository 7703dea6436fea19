// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

package txpool

import (
	"github.com/grinpp-go/nodecore/secp"
	"github.com/grinpp-go/nodecore/wire"
)

// Aggregate combines a set of independent transactions into a single
// transaction, per spec §4.7's aggregate(txs): concatenate every input,
// output, and kernel, cut through matched input/output pairs, sum the
// kernel offsets, and emit one transaction balancing the same way the sum
// of the originals did.
//
// An empty txs returns a zero-offset, empty transaction. A single-element
// txs is returned unchanged: aggregation of one transaction is a no-op.
func Aggregate(txs []*wire.Transaction) (*wire.Transaction, error) {
	if len(txs) == 0 {
		return &wire.Transaction{}, nil
	}
	if len(txs) == 1 {
		return txs[0], nil
	}

	var inputs []wire.Input
	var outputs []wire.Output
	var kernels []wire.Kernel
	offsets := make([]secp.BlindingFactor, 0, len(txs))
	for _, tx := range txs {
		inputs = append(inputs, tx.Inputs...)
		outputs = append(outputs, tx.Outputs...)
		kernels = append(kernels, tx.Kernels...)
		offsets = append(offsets, tx.Offset)
	}

	inputs, outputs = performCutThrough(inputs, outputs)

	offset, err := secp.AddBlindingFactors(offsets...)
	if err != nil {
		return nil, err
	}

	agg := &wire.Transaction{Offset: offset, Inputs: inputs, Outputs: outputs, Kernels: kernels}
	agg.SortBody()
	return agg, nil
}

// performCutThrough drops any input/output pair that share a commitment:
// an output one aggregated transaction created and a later one immediately
// spends nets out to nothing and need not appear in the aggregate at all.
// This is distinct from deduplication — both the input AND the matching
// output are removed, not just one copy of a duplicate.
func performCutThrough(inputs []wire.Input, outputs []wire.Output) ([]wire.Input, []wire.Output) {
	cutInputs := make(map[secp.Commitment]bool)
	for i := range outputs {
		for j := range inputs {
			if outputs[i].Commitment == inputs[j].Commitment {
				cutInputs[inputs[j].Commitment] = true
			}
		}
	}
	if len(cutInputs) == 0 {
		return inputs, outputs
	}

	keptInputs := inputs[:0:0]
	for i := range inputs {
		if !cutInputs[inputs[i].Commitment] {
			keptInputs = append(keptInputs, inputs[i])
		}
	}
	keptOutputs := outputs[:0:0]
	for i := range outputs {
		if !cutInputs[outputs[i].Commitment] {
			keptOutputs = append(keptOutputs, outputs[i])
		}
	}
	return keptInputs, keptOutputs
}
