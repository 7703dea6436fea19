// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

package validation

import (
	"github.com/grinpp-go/nodecore/secp"
	"github.com/grinpp-go/nodecore/wire"
)

// sumFees adds up every kernel's fee.
func sumFees(kernels []wire.Kernel) uint64 {
	var fees uint64
	for i := range kernels {
		fees += kernels[i].Fee
	}
	return fees
}

// verifyKernelSum checks the Mimblewimble balance equation:
//
//	utxo_sum   = Σ output_commits − Σ input_commits + commit(overage, 0)
//	kernel_sum = Σ kernel.excess + commit(0, offset)
//	utxo_sum == kernel_sum
//
// overage may be negative (a block whose reward exceeds its fees), in
// which case commit(−overage, 0) is folded into the negative side instead,
// since secp.Commit only takes an unsigned value.
func verifyKernelSum(inputs []wire.Input, outputs []wire.Output, kernels []wire.Kernel, offset secp.BlindingFactor, overage int64) error {
	outPos := collectOutputCommitments(outputs)
	outNeg := collectInputCommitments(inputs)

	switch {
	case overage > 0:
		c, err := secp.Commit(uint64(overage), secp.BlindingFactor{})
		if err != nil {
			return err
		}
		outPos = append(outPos, c)
	case overage < 0:
		c, err := secp.Commit(uint64(-overage), secp.BlindingFactor{})
		if err != nil {
			return err
		}
		outNeg = append(outNeg, c)
	}

	utxoSum, err := secp.CommitSum(outPos, outNeg)
	if err != nil {
		return err
	}

	kernelPos := collectKernelExcesses(kernels)
	if offset != (secp.BlindingFactor{}) {
		offsetCommit, err := secp.Commit(0, offset)
		if err != nil {
			return err
		}
		kernelPos = append(kernelPos, offsetCommit)
	}
	kernelSum, err := secp.CommitSum(kernelPos, nil)
	if err != nil {
		return err
	}

	if utxoSum != kernelSum {
		return newErr(KernelSumMismatch, "utxo commitment sum does not match kernel excess sum")
	}
	return nil
}

// VerifyTransactionKernelSum checks a standalone transaction's balance:
// outside of a block, there is no reward to net against, so overage is
// simply the sum of kernel fees — the value the sender gives up beyond
// what the outputs carry forward.
func VerifyTransactionKernelSum(inputs []wire.Input, outputs []wire.Output, kernels []wire.Kernel, offset secp.BlindingFactor) error {
	return verifyKernelSum(inputs, outputs, kernels, offset, int64(sumFees(kernels)))
}

// VerifyBlockKernelSum checks a full block's balance: overage is simply
// −reward, with no fee term. Each regular kernel's own balance equation
// already nets out its fee against the value its inputs/outputs move, and
// the coinbase output recaptures exactly those fees on top of the reward
// (coinbase_output.value = reward + Σfees), so summing the per-kernel
// identities over the whole block cancels every Σfee term and leaves only
// the reward as new value entering the UTXO set.
func VerifyBlockKernelSum(inputs []wire.Input, outputs []wire.Output, kernels []wire.Kernel, offset secp.BlindingFactor, reward uint64) error {
	overage := -int64(reward)
	return verifyKernelSum(inputs, outputs, kernels, offset, overage)
}

func collectInputCommitments(inputs []wire.Input) []secp.Commitment {
	out := make([]secp.Commitment, len(inputs))
	for i := range inputs {
		out[i] = inputs[i].Commitment
	}
	return out
}

func collectOutputCommitments(outputs []wire.Output) []secp.Commitment {
	out := make([]secp.Commitment, len(outputs))
	for i := range outputs {
		out[i] = outputs[i].Commitment
	}
	return out
}

func collectKernelExcesses(kernels []wire.Kernel) []secp.Commitment {
	out := make([]secp.Commitment, len(kernels))
	for i := range kernels {
		out[i] = kernels[i].Excess
	}
	return out
}
