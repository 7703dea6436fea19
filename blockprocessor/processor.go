// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

// Package blockprocessor implements spec §4.6: the orchestrator that wires
// header/body validation (package validation), the live UTXO/history state
// (package txhashset), and the chain indices (package chainstore) into the
// two public operations a network layer actually calls —
// process_block_header and process_block — plus the reorg algorithm and
// orphan handling both describe.
package blockprocessor

import (
	"errors"
	"fmt"
	"sort"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/grinpp-go/nodecore/chaincfg"
	"github.com/grinpp-go/nodecore/chaindb"
	"github.com/grinpp-go/nodecore/chainhash"
	"github.com/grinpp-go/nodecore/chainstore"
	"github.com/grinpp-go/nodecore/txhashset"
	"github.com/grinpp-go/nodecore/validation"
	"github.com/grinpp-go/nodecore/wire"
)

// defaultOrphanCacheSize is the orphan cache's bounded capacity, per spec
// §4.6: "Orphans are cached by parent hash (bounded LRU, default 128)."
const defaultOrphanCacheSize = 128

// Result is the outcome category of a process_block_header/process_block
// call, per spec §4.6's `Status ∈ {Accepted, AlreadyKnown, Orphan,
// Rejected(err)}`.
type Result int

const (
	ResultAccepted Result = iota
	ResultAlreadyKnown
	ResultOrphan
	ResultRejected
)

func (r Result) String() string {
	switch r {
	case ResultAccepted:
		return "Accepted"
	case ResultAlreadyKnown:
		return "AlreadyKnown"
	case ResultOrphan:
		return "Orphan"
	case ResultRejected:
		return "Rejected"
	default:
		return "Unknown"
	}
}

// Status is the typed outcome of a process_block_header/process_block call.
type Status struct {
	Result Result
	Err    error // set iff Result == ResultRejected
}

func accepted() Status     { return Status{Result: ResultAccepted} }
func alreadyKnown() Status { return Status{Result: ResultAlreadyKnown} }
func orphan() Status       { return Status{Result: ResultOrphan} }
func rejected(err error) Status {
	log.Warnf("rejecting: %v", err)
	return Status{Result: ResultRejected, Err: err}
}

// PoWVerifier checks a header's committed Cuckoo-cycle proof against the
// difficulty its PreProofOfWorkHash implies, per spec §4.8. Left pluggable
// the same way validation.RangeProofVerifier is: the Processor depends on
// the narrow interface, not on package pow directly, so header/body
// orchestration can be built and tested independently of cycle verification.
type PoWVerifier interface {
	VerifyPoW(header *wire.BlockHeader) bool
}

// Processor is the Block Processor: the orchestrator spec §4.6 describes.
// Apart from its in-memory orphan cache, it owns no state beyond what
// db/store/txs already persist; rebuilding a Processor loses only the
// cached orphans.
type Processor struct {
	db     *chaindb.DB
	store  *chainstore.Store
	txs    *txhashset.TxHashSet
	params *chaincfg.Params
	pow    PoWVerifier
	proofs validation.RangeProofVerifier

	orphans *lru.Cache

	now func() time.Time
}

// New builds a Processor over the given Chain DB, Chain Store, and
// TxHashSet, validating headers/blocks against params's consensus rules.
func New(db *chaindb.DB, store *chainstore.Store, txs *txhashset.TxHashSet, params *chaincfg.Params, pow PoWVerifier, proofs validation.RangeProofVerifier) *Processor {
	orphans, _ := lru.New(defaultOrphanCacheSize)
	return &Processor{
		db:      db,
		store:   store,
		txs:     txs,
		params:  params,
		pow:     pow,
		proofs:  proofs,
		orphans: orphans,
		now:     time.Now,
	}
}

// ProcessBlockHeader runs spec §4.6's process_block_header contract: parent
// existence, version, timestamp bounds, and proof of work, then persists
// the header and advances CANDIDATE via chainstore if it is the new best.
func (p *Processor) ProcessBlockHeader(header *wire.BlockHeader) (Status, error) {
	hash := header.Hash()
	if _, ok, err := p.db.GetHeader(hash); err != nil {
		return Status{}, err
	} else if ok {
		return alreadyKnown(), nil
	}

	var parent *wire.BlockHeader
	if header.Height > 0 {
		h, ok, err := p.db.GetHeader(header.PrevHash)
		if err != nil {
			return Status{}, err
		}
		if !ok {
			return orphan(), nil
		}
		parent = h
	}

	wantVersion := chaincfg.HeaderVersion(p.params.Net, header.Height)
	if header.Version != wantVersion {
		return rejected(fmt.Errorf("header version %d at height %d, want %d", header.Version, header.Height, wantVersion)), nil
	}

	if header.Timestamp > p.now().Unix()+chaincfg.FutureTimeLimitSec {
		return rejected(errors.New("header timestamp too far in the future")), nil
	}
	if parent != nil {
		mtp, err := p.medianTimePast(parent)
		if err != nil {
			return Status{}, err
		}
		if header.Timestamp <= mtp {
			return rejected(errors.New("header timestamp at or before median time past")), nil
		}
	}

	if !p.pow.VerifyPoW(header) {
		return rejected(errors.New("proof of work invalid")), nil
	}

	storeStatus, err := p.store.AddHeader(header)
	if err != nil {
		return Status{}, err
	}

	var result Status
	switch storeStatus {
	case chainstore.AlreadyKnown:
		result = alreadyKnown()
	case chainstore.Orphan:
		result = orphan()
	default:
		result = accepted()
	}
	return result, nil
}

// medianTimePast computes the median of the last chaincfg.MedianTimeWindow
// headers' timestamps ending at parent, the MTP bound a new header's
// timestamp must exceed, grounded on the teacher's CalcPastMedianTime
// (blockchain/validate.go) over the same 11-header window.
func (p *Processor) medianTimePast(parent *wire.BlockHeader) (int64, error) {
	timestamps := make([]int64, 0, chaincfg.MedianTimeWindow)
	h := parent
	for i := 0; i < chaincfg.MedianTimeWindow; i++ {
		timestamps = append(timestamps, h.Timestamp)
		if h.Height == 0 {
			break
		}
		next, ok, err := p.db.GetHeader(h.PrevHash)
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		h = next
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i] < timestamps[j] })
	return timestamps[len(timestamps)/2], nil
}

// ProcessBlock runs spec §4.6's process_block contract: header validation,
// body validation, then one of the fast path, already-known short-circuit,
// or reorg path, depending on where block's parent currently sits. After a
// successful apply, any cached orphans whose parent was just accepted are
// popped and recursively processed.
func (p *Processor) ProcessBlock(block *wire.FullBlock) (Status, error) {
	status, err := p.processBlock(block)
	if err != nil {
		return Status{}, err
	}
	if status.Result == ResultAccepted {
		p.processOrphans(block.Header.Hash())
	}
	return status, nil
}

func (p *Processor) processBlock(block *wire.FullBlock) (Status, error) {
	headerStatus, err := p.ProcessBlockHeader(&block.Header)
	if err != nil {
		return Status{}, err
	}
	if headerStatus.Result == ResultOrphan {
		p.cacheOrphan(block)
		return orphan(), nil
	}
	if headerStatus.Result == ResultRejected {
		return headerStatus, nil
	}

	parentHash := block.Header.PrevHash
	var parentOffset wire.BlockHeader
	if block.Header.Height > 0 {
		parent, ok, err := p.db.GetHeader(parentHash)
		if err != nil {
			return Status{}, err
		}
		if !ok {
			p.cacheOrphan(block)
			return orphan(), nil
		}
		parentOffset = *parent
	}

	if err := validation.VerifyBlock(block, parentOffset.TotalKernelOffset, uint64(chaincfg.Reward), p.proofs); err != nil {
		return rejected(err), nil
	}

	confirmedTip, haveConfirmed := p.tip(chainstore.Confirmed)

	switch {
	case !haveConfirmed && block.Header.Height == 0, haveConfirmed && parentHash == confirmedTip:
		return p.applyFastPath(block, parentHash)
	case haveConfirmed:
		ancestor, err := p.store.FindCommonAncestor(confirmedTip, parentHash)
		if err != nil {
			// parentHash shares no recorded ancestry with CONFIRMED at all:
			// treat as an orphan rather than a hard failure.
			p.cacheOrphan(block)
			return orphan(), nil
		}
		if ancestor == parentHash {
			// parentHash is strictly behind CONFIRMED: this block (or an
			// equivalent one at this height) is already on chain. Still
			// persist its body — CANDIDATE may already reflect this branch
			// (chainstore.AddHeader promotes on total difficulty, not on
			// confirmation), and a later heavier descendant's reorg replay
			// depends on finding this block's body in the Chain DB.
			if err := p.db.PutBlock(block); err != nil {
				return Status{}, err
			}
			return alreadyKnown(), nil
		}
		return p.reorg(block, ancestor)
	default:
		p.cacheOrphan(block)
		return orphan(), nil
	}
}

// applyFastPath implements spec §4.6's FAST PATH: apply block directly atop
// the current TxHashSet state, check the resulting roots/kernel-sum
// transition against the header, and on success persist and advance
// CONFIRMED.
func (p *Processor) applyFastPath(block *wire.FullBlock, parentHash chainhash.Hash) (Status, error) {
	start := p.now()

	parentSums, ok, err := p.db.GetBlockSums(parentHash)
	if err != nil {
		return Status{}, err
	}
	if !ok {
		parentSums = txhashset.BlockSums{}
	}

	snap := p.txs.Snapshot()
	if err := p.txs.ApplyBlock(block, parentSums); err != nil {
		if restoreErr := p.txs.Restore(snap); restoreErr != nil {
			return Status{}, restoreErr
		}
		return rejected(err), nil
	}

	if err := p.checkAppliedState(block, parentSums); err != nil {
		if restoreErr := p.txs.Restore(snap); restoreErr != nil {
			return Status{}, restoreErr
		}
		return rejected(err), nil
	}

	if err := p.db.PutBlock(block); err != nil {
		return Status{}, err
	}
	if err := p.store.AddBlock(&block.Header); err != nil {
		return Status{}, err
	}
	p.store.RecordStats(blockStats(block, p.now().Sub(start)))
	return accepted(), nil
}

// checkAppliedState asserts the header's roots/MMR sizes and the running
// BlockSums match what applying block atop parentSums actually produced,
// per spec §4.6's "check roots against header, check kernel sums against
// BlockSums(parent)+body."
func (p *Processor) checkAppliedState(block *wire.FullBlock, parentSums txhashset.BlockSums) error {
	outRoot, rpRoot, kernRoot, err := p.txs.Roots()
	if err != nil {
		return err
	}
	if outRoot != block.Header.OutputRoot || rpRoot != block.Header.RangeproofRoot || kernRoot != block.Header.KernelRoot {
		return errors.New("applied txhashset roots do not match header")
	}

	outSize, kernSize := p.txs.Sizes()
	if outSize != block.Header.OutputMMRSize || kernSize != block.Header.KernelMMRSize {
		return errors.New("applied txhashset sizes do not match header")
	}

	vParentSums := validation.BlockSums{OutputSum: parentSums.OutputSum, KernelSum: parentSums.KernelSum}
	thisSums, ok, err := p.db.GetBlockSums(block.Header.Hash())
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("BlockSums missing after apply")
	}
	vThisSums := validation.BlockSums{OutputSum: thisSums.OutputSum, KernelSum: thisSums.KernelSum}
	return validation.VerifyBlockSumsTransition(vParentSums, vThisSums, block)
}

// reorg implements spec §4.6's REORG PATH: rewind TxHashSet to forkPoint,
// replay every block from forkPoint up to (and including) new_block, and
// roll everything back on any failure.
func (p *Processor) reorg(newBlock *wire.FullBlock, forkPoint chainhash.Hash) (Status, error) {
	confirmedTip, _ := p.tip(chainstore.Confirmed)

	if newBlock.Header.TotalDifficulty <= mustHeader(p.db, confirmedTip).TotalDifficulty {
		// Not enough work to beat the current chain: store off-chain,
		// as spec §4.6 step 3 directs, and leave CONFIRMED untouched.
		if err := p.db.PutBlock(newBlock); err != nil {
			return Status{}, err
		}
		return accepted(), nil
	}

	undoHashes, err := p.store.HashesBetween(forkPoint, confirmedTip)
	if err != nil {
		return Status{}, err
	}
	// HashesBetween is ascending from fork point to tip; Rewind wants
	// newest-first.
	undoBlocks := make([]chainhash.Hash, len(undoHashes))
	for i, h := range undoHashes {
		undoBlocks[len(undoHashes)-1-i] = h
	}

	forkHeader, ok, err := p.db.GetHeader(forkPoint)
	if err != nil {
		return Status{}, err
	}
	if !ok {
		return Status{}, fmt.Errorf("blockprocessor: fork point header %x missing", forkPoint)
	}

	snap := p.txs.Snapshot()
	rollback := func(cause error) (Status, error) {
		if restoreErr := p.txs.Restore(snap); restoreErr != nil {
			return Status{}, restoreErr
		}
		return rejected(cause), nil
	}

	if err := p.txs.Rewind(undoBlocks, forkHeader.OutputMMRSize, forkHeader.KernelMMRSize); err != nil {
		return rollback(err)
	}

	replayHashes, err := p.store.HashesBetween(forkPoint, newBlock.Header.PrevHash)
	if err != nil {
		return rollback(err)
	}

	parentSums, ok, err := p.db.GetBlockSums(forkPoint)
	if err != nil {
		return Status{}, err
	}
	if !ok {
		parentSums = txhashset.BlockSums{}
	}
	parentOffset := forkHeader.TotalKernelOffset

	replayStats := make([]chainstore.Stats, 0, len(replayHashes))
	for _, h := range replayHashes {
		replayStart := p.now()
		b, ok, err := p.db.GetBlock(h)
		if err != nil {
			return Status{}, err
		}
		if !ok {
			return rollback(fmt.Errorf("blockprocessor: block body %x pruned past reorg depth", h))
		}
		if err := validation.VerifyBlock(b, parentOffset, uint64(chaincfg.Reward), p.proofs); err != nil {
			return rollback(err)
		}
		if err := p.txs.ApplyBlock(b, parentSums); err != nil {
			return rollback(err)
		}
		sums, ok, err := p.db.GetBlockSums(h)
		if err != nil {
			return Status{}, err
		}
		if !ok {
			return rollback(fmt.Errorf("blockprocessor: BlockSums missing for %x after replay", h))
		}
		parentSums = sums
		parentOffset = b.Header.TotalKernelOffset
		replayStats = append(replayStats, blockStats(b, p.now().Sub(replayStart)))
	}

	newBlockStart := p.now()
	if err := validation.VerifyBlock(newBlock, parentOffset, uint64(chaincfg.Reward), p.proofs); err != nil {
		return rollback(err)
	}
	if err := p.txs.ApplyBlock(newBlock, parentSums); err != nil {
		return rollback(err)
	}
	if err := p.checkAppliedState(newBlock, parentSums); err != nil {
		return rollback(err)
	}

	if err := p.db.PutBlock(newBlock); err != nil {
		return Status{}, err
	}

	// Advance CONFIRMED forward across the whole replayed range, then the
	// new block itself.
	for i, h := range replayHashes {
		header, ok, err := p.db.GetHeader(h)
		if err != nil {
			return Status{}, err
		}
		if !ok {
			return Status{}, fmt.Errorf("blockprocessor: header %x missing during confirm", h)
		}
		if err := p.store.AddBlock(header); err != nil {
			return Status{}, err
		}
		p.store.RecordStats(replayStats[i])
	}
	if err := p.store.AddBlock(&newBlock.Header); err != nil {
		return Status{}, err
	}
	p.store.RecordStats(blockStats(newBlock, p.now().Sub(newBlockStart)))

	return accepted(), nil
}

// blockStats summarizes block's size/weight/fee counters and how long it
// took to validate and apply, for chainstore.Store.RecordStats. Kernel fees
// are summed directly from the block body rather than through validation's
// unexported sumFees, since that helper exists to feed the kernel-sum
// balance check, not a reporting path.
func blockStats(block *wire.FullBlock, dur time.Duration) chainstore.Stats {
	var fees uint64
	for i := range block.Kernels {
		fees += block.Kernels[i].Fee
	}
	return chainstore.Stats{
		Height:          block.Header.Height,
		Hash:            block.Header.Hash(),
		InputCount:      len(block.Inputs),
		OutputCount:     len(block.Outputs),
		KernelCount:     len(block.Kernels),
		Weight:          validation.Weight(len(block.Inputs), len(block.Outputs), len(block.Kernels)),
		TotalFees:       fees,
		ProcessDuration: dur,
	}
}

func (p *Processor) tip(chain chainstore.Chain) (chainhash.Hash, bool) {
	h, ok, err := p.store.Tip(chain)
	if err != nil || !ok {
		return chainhash.Hash{}, false
	}
	hash := h.Hash()
	return hash, true
}

func mustHeader(db *chaindb.DB, hash chainhash.Hash) *wire.BlockHeader {
	h, _, _ := db.GetHeader(hash)
	if h == nil {
		return &wire.BlockHeader{}
	}
	return h
}

// cacheOrphan records block under its parent hash, evicting the
// least-recently-used parent bucket once the cache is full, per spec
// §4.6's bounded orphan LRU.
func (p *Processor) cacheOrphan(block *wire.FullBlock) {
	parent := block.Header.PrevHash
	existing, _ := p.orphans.Get(parent)
	blocks, _ := existing.([]*wire.FullBlock)
	blocks = append(blocks, block)
	p.orphans.Add(parent, blocks)
}

// processOrphans pops and recursively processes any blocks cached under
// parentHash, after parentHash itself was just accepted, per spec §4.6:
// "After every successful block, the processor pops any orphans whose
// parent was just accepted and recursively processes them; each surfaces
// an independent Status."
func (p *Processor) processOrphans(parentHash chainhash.Hash) {
	v, ok := p.orphans.Get(parentHash)
	if !ok {
		return
	}
	p.orphans.Remove(parentHash)
	blocks, _ := v.([]*wire.FullBlock)
	for _, b := range blocks {
		if _, err := p.ProcessBlock(b); err != nil {
			log.Errorf("reprocessing orphan %x: %v", b.Header.Hash(), err)
		}
	}
}
