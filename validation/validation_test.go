// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

package validation

import (
	"bytes"
	"errors"
	"testing"

	"github.com/grinpp-go/nodecore/secp"
	"github.com/grinpp-go/nodecore/wire"
	"github.com/stretchr/testify/require"
)

// acceptAllRangeProofs treats every output as if its range proof were
// valid, standing in for the pluggable Bulletproof verifier this package
// does not implement (see RangeProofVerifier's doc comment).
type acceptAllRangeProofs struct{}

func (acceptAllRangeProofs) VerifyRangeProof(secp.Commitment, []byte) bool { return true }

func mustCommit(t *testing.T, value uint64, blindByte byte) secp.Commitment {
	t.Helper()
	var blind secp.BlindingFactor
	blind[0] = blindByte
	c, err := secp.Commit(value, blind)
	require.NoError(t, err)
	return c
}

func mustBlind(blindByte byte) secp.BlindingFactor {
	var b secp.BlindingFactor
	b[0] = blindByte
	return b
}

func TestWeightExceedsLimitRejected(t *testing.T) {
	// 40000/21 = 1904.76..., so 2000 outputs alone already exceed budget.
	err := VerifyBody(nil, make([]wire.Output, 2000), nil, BodyOptions{}, acceptAllRangeProofs{})
	var vErr *Error
	require.True(t, errors.As(err, &vErr))
	require.Equal(t, TooHeavy, vErr.Kind)
}

func TestUnsortedInputsRejected(t *testing.T) {
	a := mustCommit(t, 1, 0x01)
	b := mustCommit(t, 1, 0xFF)
	// Order them strictly descending, whichever of a/b that turns out to
	// be, so the test is deterministic regardless of the actual encoded
	// byte values.
	first, second := a, b
	if bytes.Compare(first[:], second[:]) < 0 {
		first, second = second, first
	}
	inputs := []wire.Input{{Commitment: first}, {Commitment: second}}
	err := VerifyBody(inputs, nil, nil, BodyOptions{}, acceptAllRangeProofs{})
	require.ErrorIs(t, err, ErrKind(Unsorted))
}

func TestSelfSpendRejected(t *testing.T) {
	c := mustCommit(t, 5, 0x09)
	inputs := []wire.Input{{Commitment: c}}
	outputs := []wire.Output{{Commitment: c}}
	err := VerifyBody(inputs, outputs, nil, BodyOptions{}, acceptAllRangeProofs{})
	require.ErrorIs(t, err, ErrKind(SelfSpend))
}

func TestTransactionRejectsCoinbaseFeatures(t *testing.T) {
	outputs := []wire.Output{{Features: wire.OutputCoinbase, Commitment: mustCommit(t, 1, 0x01)}}
	err := VerifyBody(nil, outputs, nil, BodyOptions{IsBlock: false}, acceptAllRangeProofs{})
	require.ErrorIs(t, err, ErrKind(InvalidFeatures))
}

// balancedKernelExcess builds commit(0, outputBlind) - commit(0, inputBlind)
// via CommitSum's own negation, so the test never needs to negate a scalar
// itself: this is exactly the excess a real transaction signer would
// produce for an input blinded by inputBlind and an output blinded by
// outputBlind.
func balancedKernelExcess(t *testing.T, outputBlind, inputBlind secp.BlindingFactor) secp.Commitment {
	t.Helper()
	outZero, err := secp.Commit(0, outputBlind)
	require.NoError(t, err)
	inZero, err := secp.Commit(0, inputBlind)
	require.NoError(t, err)
	excess, err := secp.CommitSum([]secp.Commitment{outZero}, []secp.Commitment{inZero})
	require.NoError(t, err)
	return excess
}

func TestVerifyTransactionKernelSumBalances(t *testing.T) {
	inputBlind := mustBlind(0x11)
	outputBlind := mustBlind(0x22)

	input := wire.Input{Commitment: mustCommit(t, 100, 0x11)}
	output := wire.Output{Commitment: mustCommit(t, 90, 0x22)}
	kernel := wire.Kernel{Fee: 10, Excess: balancedKernelExcess(t, outputBlind, inputBlind)}

	err := VerifyTransactionKernelSum([]wire.Input{input}, []wire.Output{output}, []wire.Kernel{kernel}, secp.BlindingFactor{})
	require.NoError(t, err)
}

func TestVerifyTransactionKernelSumRejectsWrongFee(t *testing.T) {
	inputBlind := mustBlind(0x11)
	outputBlind := mustBlind(0x22)

	input := wire.Input{Commitment: mustCommit(t, 100, 0x11)}
	output := wire.Output{Commitment: mustCommit(t, 90, 0x22)}
	kernel := wire.Kernel{Fee: 11, Excess: balancedKernelExcess(t, outputBlind, inputBlind)}

	err := VerifyTransactionKernelSum([]wire.Input{input}, []wire.Output{output}, []wire.Kernel{kernel}, secp.BlindingFactor{})
	require.ErrorIs(t, err, ErrKind(KernelSumMismatch))
}

func TestVerifyBlockKernelSumAccountsForReward(t *testing.T) {
	// A coinbase-only block: one output of value REWARD+fees(=0 here),
	// one coinbase kernel with fee 0, no inputs.
	outputBlind := mustBlind(0x33)
	reward := uint64(60_000_000_000)

	output := wire.Output{Features: wire.OutputCoinbase, Commitment: mustCommit(t, reward, 0x33)}
	excess, err := secp.Commit(0, outputBlind)
	require.NoError(t, err)
	kernel := wire.Kernel{Features: wire.KernelCoinbase, Excess: excess}

	err = VerifyBlockKernelSum(nil, []wire.Output{output}, []wire.Kernel{kernel}, secp.BlindingFactor{}, reward)
	require.NoError(t, err)
}

func TestVerifyBlockKernelSumIgnoresFeesWithFeePayingTransaction(t *testing.T) {
	// A block with a fee-paying transaction (input 100, output 90, fee 10)
	// alongside a coinbase that recaptures reward+fees: overage must be
	// exactly -reward, not -reward+fees, or this rejects a perfectly valid
	// block.
	inputBlind := mustBlind(0x11)
	outputBlind := mustBlind(0x22)
	coinbaseBlind := mustBlind(0x33)
	reward := uint64(60_000_000_000)
	fee := uint64(10)

	input := wire.Input{Commitment: mustCommit(t, 100, 0x11)}
	output := wire.Output{Commitment: mustCommit(t, 90, 0x22)}
	kernel := wire.Kernel{Fee: fee, Excess: balancedKernelExcess(t, outputBlind, inputBlind)}

	coinbaseOutput := wire.Output{
		Features:   wire.OutputCoinbase,
		Commitment: mustCommit(t, reward+fee, 0x33),
	}
	coinbaseExcess, err := secp.Commit(0, coinbaseBlind)
	require.NoError(t, err)
	coinbaseKernel := wire.Kernel{Features: wire.KernelCoinbase, Excess: coinbaseExcess}

	err = VerifyBlockKernelSum(
		[]wire.Input{input},
		[]wire.Output{output, coinbaseOutput},
		[]wire.Kernel{kernel, coinbaseKernel},
		secp.BlindingFactor{},
		reward,
	)
	require.NoError(t, err)
}

func TestCheckExactlyOneCoinbaseRejectsZeroOrMany(t *testing.T) {
	err := checkExactlyOneCoinbase(nil, nil)
	require.ErrorIs(t, err, ErrKind(InvalidFeatures))

	outputs := []wire.Output{
		{Features: wire.OutputCoinbase},
		{Features: wire.OutputCoinbase},
	}
	kernels := []wire.Kernel{{Features: wire.KernelCoinbase}}
	err = checkExactlyOneCoinbase(outputs, kernels)
	require.ErrorIs(t, err, ErrKind(InvalidFeatures))
}
