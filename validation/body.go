// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

package validation

import (
	"bytes"

	"github.com/grinpp-go/nodecore/chaincfg"
	"github.com/grinpp-go/nodecore/secp"
	"github.com/grinpp-go/nodecore/wire"
)

// BodyOptions configures VerifyBody for the two contexts spec §4.4
// distinguishes: a standalone transaction (no coinbase allowed) versus a
// block body (coinbase required). Both are held to the same
// MAX_BLOCK_WEIGHT; no weight is reserved for a block's coinbase.
type BodyOptions struct {
	// IsBlock allows (and later, in VerifyBlock, requires) exactly one
	// coinbase output and kernel. A bare transaction must carry none.
	IsBlock bool
}

// Weight returns a body's consensus weight: inputs*1 + outputs*21 +
// kernels*3, per spec §4.4.
func Weight(inputs, outputs, kernels int) uint64 {
	return uint64(inputs)*chaincfg.InputWeight +
		uint64(outputs)*chaincfg.OutputWeight +
		uint64(kernels)*chaincfg.KernelWeight
}

// VerifyBody runs every spec §4.4 "transaction body validation" check
// against a block's or transaction's input/output/kernel lists, using
// rangeProofs to check range proofs and verifying kernel signatures
// directly via secp.
func VerifyBody(inputs []wire.Input, outputs []wire.Output, kernels []wire.Kernel, opts BodyOptions, rangeProofs RangeProofVerifier) error {
	if Weight(len(inputs), len(outputs), len(kernels)) > chaincfg.MaxBlockWeight {
		return newErr(TooHeavy, "body weight exceeds MAX_BLOCK_WEIGHT")
	}

	if err := checkSorted(inputs, outputs, kernels); err != nil {
		return err
	}

	if err := checkNoSelfSpend(inputs, outputs); err != nil {
		return err
	}

	if !opts.IsBlock {
		for i := range outputs {
			if outputs[i].Features&wire.OutputCoinbase != 0 {
				return newErr(InvalidFeatures, "transaction body must not contain a coinbase output")
			}
		}
		for i := range kernels {
			if kernels[i].Features&wire.KernelCoinbase != 0 {
				return newErr(InvalidFeatures, "transaction body must not contain a coinbase kernel")
			}
		}
	}

	if err := verifyOutputs(outputs, rangeProofs); err != nil {
		return err
	}
	if err := verifyKernels(kernels); err != nil {
		return err
	}

	return nil
}

func checkSorted(inputs []wire.Input, outputs []wire.Output, kernels []wire.Kernel) error {
	for i := 1; i < len(inputs); i++ {
		if bytes.Compare(inputs[i-1].Commitment[:], inputs[i].Commitment[:]) >= 0 {
			return newErr(Unsorted, "inputs are not strictly ascending by commitment")
		}
	}
	for i := 1; i < len(outputs); i++ {
		prev, cur := outputs[i-1].Hash(), outputs[i].Hash()
		if bytes.Compare(prev[:], cur[:]) >= 0 {
			return newErr(Unsorted, "outputs are not strictly ascending by hash")
		}
	}
	for i := 1; i < len(kernels); i++ {
		prev, cur := kernels[i-1].Hash(), kernels[i].Hash()
		if bytes.Compare(prev[:], cur[:]) >= 0 {
			return newErr(Unsorted, "kernels are not strictly ascending by hash")
		}
	}
	return nil
}

func checkNoSelfSpend(inputs []wire.Input, outputs []wire.Output) error {
	for i := range inputs {
		for j := range outputs {
			if inputs[i].Commitment == outputs[j].Commitment {
				return newErr(SelfSpend, "input commitment equals an output commitment in the same body")
			}
		}
	}
	return nil
}

func verifyOutputs(outputs []wire.Output, rangeProofs RangeProofVerifier) error {
	for i := range outputs {
		if !rangeProofs.VerifyRangeProof(outputs[i].Commitment, outputs[i].RangeProof) {
			return newErr(BadRangeProof, "output failed range-proof verification")
		}
	}
	return nil
}

func verifyKernels(kernels []wire.Kernel) error {
	for i := range kernels {
		k := &kernels[i]
		if !secp.VerifyKernelSignature(k.Excess, k.ExcessSig, k.SignedMessage()) {
			return newErr(BadKernelSig, "kernel excess signature failed verification")
		}
	}
	return nil
}
