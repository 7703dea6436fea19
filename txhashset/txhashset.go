// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

// Package txhashset implements spec §4.3: the bundle of three Merkle
// Mountain Ranges (output, range-proof, kernel) plus the leafset bitmap that
// together represent the chain's current UTXO set and transaction history.
package txhashset

import (
	"errors"
	"fmt"

	"github.com/grinpp-go/nodecore/chainhash"
	"github.com/grinpp-go/nodecore/mmr"
	"github.com/grinpp-go/nodecore/secp"
	"github.com/grinpp-go/nodecore/wire"
)

// ErrSpentOutput is returned when an input references a commitment whose
// leafset bit is already clear (double spend).
var ErrSpentOutput = errors.New("txhashset: input commitment is not a live unspent output")

// ErrUnknownOutput is returned when an input references a commitment with no
// OutputLocation on record at all.
var ErrUnknownOutput = errors.New("txhashset: input commitment has no output location")

// TxHashSet is the live, mutable UTXO/history state: three MMRs kept in
// lock-step plus the leafset bitmap gating which output leaves are spendable.
type TxHashSet struct {
	backend Backend

	outputs     *mmr.Tree
	rangeproofs *mmr.Tree
	kernels     *mmr.Tree
	leafset     *Leafset
}

// New wraps backend's three HashStores in MMR trees and loads the leafset.
func New(backend Backend, leafset *Leafset) *TxHashSet {
	if leafset == nil {
		leafset = NewLeafset()
	}
	return &TxHashSet{
		backend:     backend,
		outputs:     mmr.New(backend.OutputHashes()),
		rangeproofs: mmr.New(backend.RangeProofHashes()),
		kernels:     mmr.New(backend.KernelHashes()),
		leafset:     leafset,
	}
}

// Roots reports the current root hash of each of the three MMRs.
func (t *TxHashSet) Roots() (outputRoot, rangeproofRoot, kernelRoot chainhash.Hash, err error) {
	if outputRoot, err = t.outputs.Root(); err != nil {
		return
	}
	if rangeproofRoot, err = t.rangeproofs.Root(); err != nil {
		return
	}
	kernelRoot, err = t.kernels.Root()
	return
}

// Sizes reports the current size of the output and kernel MMRs, the values
// persisted into BlockHeader.OutputMMRSize/KernelMMRSize.
func (t *TxHashSet) Sizes() (outputMMRSize, kernelMMRSize uint64) {
	return t.outputs.Size(), t.kernels.Size()
}

// ValidateUTXO reports whether commit currently refers to a live, unspent
// output: it has a recorded OutputLocation AND that leaf's bit is set.
func (t *TxHashSet) ValidateUTXO(commit secp.Commitment) (bool, error) {
	loc, ok, err := t.backend.GetOutputLocation(commit)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return t.leafset.IsSet(loc.MMRIndex), nil
}

// ApplyBlock applies block's body to the current state: clears the leafset
// bit of every spent input, appends every output/range-proof/kernel, and
// records BlockSums/SPENT_OUTPUTS/OUTPUT_POS for the block. The block's own
// height (block.Header.Height) is stored in each new OutputLocation.
//
// Per spec §4.3, this assumes block has already passed Validator's body
// checks (sorted, weight, kernel-sum arithmetic); ApplyBlock only mutates
// state, it does not re-derive consensus validity.
func (t *TxHashSet) ApplyBlock(block *wire.FullBlock, parentSums BlockSums) error {
	log.Debugf("Applying block with %d inputs, %d outputs, %d kernels",
		len(block.Inputs), len(block.Outputs), len(block.Kernels))
	spent := make([]SpentOutput, 0, len(block.Inputs))

	for i := range block.Inputs {
		in := &block.Inputs[i]
		loc, ok, err := t.backend.GetOutputLocation(in.Commitment)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %x", ErrUnknownOutput, in.Commitment)
		}
		if !t.leafset.IsSet(loc.MMRIndex) {
			return fmt.Errorf("%w: %x", ErrSpentOutput, in.Commitment)
		}
		t.leafset.Clear(loc.MMRIndex)
		spent = append(spent, SpentOutput{Commitment: in.Commitment, Location: loc})
	}

	for i := range block.Outputs {
		out := &block.Outputs[i]
		leafIndex := t.outputs.LeafCount()

		outPos, err := t.outputs.Append(out.Hash())
		if err != nil {
			return err
		}
		if _, err := t.rangeproofs.Append(out.RangeProofHash()); err != nil {
			return err
		}
		if err := t.backend.PutOutputData(outPos, *out); err != nil {
			return err
		}
		if err := t.backend.PutRangeProofData(outPos, out.RangeProof); err != nil {
			return err
		}

		t.leafset.Set(leafIndex)
		loc := OutputLocation{MMRIndex: leafIndex, BlockHeight: block.Header.Height}
		if err := t.backend.PutOutputLocation(out.Commitment, loc); err != nil {
			return err
		}
	}

	outputSum, err := combineCommitSum(parentSums.OutputSum, collectOutputCommitments(block.Outputs), collectInputCommitments(block.Inputs))
	if err != nil {
		return err
	}

	for i := range block.Kernels {
		k := &block.Kernels[i]
		kernelPos, err := t.kernels.Append(k.Hash())
		if err != nil {
			return err
		}
		if err := t.backend.PutKernelData(kernelPos, *k); err != nil {
			return err
		}
	}
	kernelSum, err := combineCommitSum(parentSums.KernelSum, collectKernelExcesses(block.Kernels), nil)
	if err != nil {
		return err
	}

	blockHash := block.Header.Hash()
	if err := t.backend.PutSpentOutputs(blockHash, spent); err != nil {
		return err
	}
	sums := BlockSums{OutputSum: outputSum, KernelSum: kernelSum}
	if err := t.backend.PutBlockSums(blockHash, sums); err != nil {
		return err
	}

	return nil
}

// Rewind undoes every block in undoBlocks (given newest-first, matching the
// order a chain walk from the current tip back to target would produce),
// re-setting their spent outputs' leafset bits, then truncates all three
// MMRs down to targetOutputMMRSize/targetKernelMMRSize (the sizes recorded
// in the target header). The range-proof MMR is kept at the same size as
// the output MMR, per spec §4.3.
func (t *TxHashSet) Rewind(undoBlocks []chainhash.Hash, targetOutputMMRSize, targetKernelMMRSize uint64) error {
	log.Debugf("Rewinding txhashset across %d blocks to output size %d, kernel size %d",
		len(undoBlocks), targetOutputMMRSize, targetKernelMMRSize)
	for _, blockHash := range undoBlocks {
		spent, ok, err := t.backend.GetSpentOutputs(blockHash)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		for _, s := range spent {
			t.leafset.Set(s.Location.MMRIndex)
		}
	}

	if err := t.outputs.Rewind(targetOutputMMRSize); err != nil {
		return err
	}
	if err := t.rangeproofs.Rewind(targetOutputMMRSize); err != nil {
		return err
	}
	if err := t.kernels.Rewind(targetKernelMMRSize); err != nil {
		return err
	}
	return nil
}

// Snapshot captures the MMR sizes and a leafset copy, so PendingRoots can run a
// speculative apply and then restore exactly this state.
type Snapshot struct {
	outputMMRSize, kernelMMRSize uint64
	leafset                     *Leafset
}

// Snapshot returns the current state, to be passed to Restore afterward.
func (t *TxHashSet) Snapshot() Snapshot {
	outSize, kernSize := t.Sizes()
	return Snapshot{outputMMRSize: outSize, kernelMMRSize: kernSize, leafset: t.leafset.Clone()}
}

// Restore reverts the MMR sizes and the leafset to a previously captured
// Snapshot, used by PendingRoots after a simulated block apply. Records that
// ApplyBlock wrote to the backend are not removed.
func (t *TxHashSet) Restore(snap Snapshot) error {
	if err := t.outputs.Rewind(snap.outputMMRSize); err != nil {
		return err
	}
	if err := t.rangeproofs.Rewind(snap.outputMMRSize); err != nil {
		return err
	}
	if err := t.kernels.Rewind(snap.kernelMMRSize); err != nil {
		return err
	}
	t.leafset = snap.leafset
	return nil
}

// PendingRoots applies body over the current state, returns the roots the
// result has, then restores the MMR sizes and the leafset to their pre-apply
// state. Per spec §4.3's roots(db, pending_body). What ApplyBlock wrote to the
// backend stays stored: the block's BlockSums and SpentOutputs, the new
// outputs' OutputLocations, and their output, range-proof and kernel data.
func (t *TxHashSet) PendingRoots(block *wire.FullBlock, parentSums BlockSums) (outputRoot, rangeproofRoot, kernelRoot chainhash.Hash, err error) {
	snap := t.Snapshot()
	defer func() {
		if restoreErr := t.Restore(snap); restoreErr != nil && err == nil {
			err = restoreErr
		}
	}()

	if err = t.ApplyBlock(block, parentSums); err != nil {
		return chainhash.Hash{}, chainhash.Hash{}, chainhash.Hash{}, err
	}
	outputRoot, rangeproofRoot, kernelRoot, err = t.Roots()
	return outputRoot, rangeproofRoot, kernelRoot, err
}

// combineCommitSum folds pos/neg into existing, treating the zero
// Commitment as "no running sum yet" (the BlockSums{} sentinel genesis
// blocks start from) rather than a real curve point, since the all-zero
// byte string is not a valid compressed point and would otherwise make
// secp.CommitSum reject every chain's very first block.
func combineCommitSum(existing secp.Commitment, pos []secp.Commitment, neg []secp.Commitment) (secp.Commitment, error) {
	if existing != (secp.Commitment{}) {
		pos = append([]secp.Commitment{existing}, pos...)
	}
	return secp.CommitSum(pos, neg)
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
