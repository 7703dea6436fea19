// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

// Package chainstore holds the two linked chain indices spec §4.5
// describes: CANDIDATE (the best known header chain) and CONFIRMED (the
// best chain whose TxHashSet has actually been applied), plus the
// ancestry queries a Block Processor needs to find a reorg's fork point.
package chainstore

import (
	"fmt"
	"sync"

	"github.com/grinpp-go/nodecore/chainhash"
	"github.com/grinpp-go/nodecore/wire"
)

// Chain names one of the two indices a Store tracks.
type Chain int

const (
	Candidate Chain = iota
	Confirmed
)

// Status is the result of adding a header, mirroring process_block_header's
// contract in spec §4.6 (AddHeader itself returns Accepted, AlreadyKnown or
// Orphan — the PoW/timestamp-driven rejections are the Block Processor's
// responsibility layered on top).
type Status int

const (
	Accepted Status = iota
	AlreadyKnown
	Orphan
)

func (s Status) String() string {
	switch s {
	case Accepted:
		return "Accepted"
	case AlreadyKnown:
		return "AlreadyKnown"
	case Orphan:
		return "Orphan"
	default:
		return "Unknown"
	}
}

// HeaderStore is the Chain DB slice chainstore needs: persisted headers plus
// the DEFAULT CF's tip pointers. *chaindb.DB satisfies this directly.
type HeaderStore interface {
	GetHeader(hash chainhash.Hash) (*wire.BlockHeader, bool, error)
	PutHeader(h *wire.BlockHeader) error
	TipCandidate() (chainhash.Hash, bool, error)
	TipConfirmed() (chainhash.Hash, bool, error)
	SetTipCandidate(hash chainhash.Hash) error
	SetTipConfirmed(hash chainhash.Hash) error
}

// maxSideBranches bounds the side-branch set's memory cost, per spec §4.5's
// "memory cost is bounded by a finite orphan cap."
const maxSideBranches = 1024

// Store is the in-memory height index over both chains, backed by db for
// header content and tip persistence. Indices are rebuilt from db at
// startup by walking each tip back to genesis (New). The side-branch set
// and the recorded block stats are kept in memory only and start empty.
type Store struct {
	mu sync.Mutex

	db HeaderStore

	candidateIndex map[uint64]chainhash.Hash
	candidateTip   chainhash.Hash
	confirmedIndex map[uint64]chainhash.Hash
	confirmedTip   chainhash.Hash

	// sideBranches records headers accepted but not part of either chain
	// index, in insertion order so the oldest can be evicted once the cap
	// is hit. Side branches are still fully queryable via db.GetHeader;
	// this set exists only to bound how many chainstore tracks as "not
	// (yet) part of the best chain" for diagnostics.
	sideBranches   map[chainhash.Hash]bool
	sideBranchList []chainhash.Hash

	// stats holds the most recently recorded per-block Stats, bounded the
	// same way sideBranches is: a finite recent window for status()
	// queries, not a full archive. See stats.go.
	stats     map[chainhash.Hash]Stats
	statsList []chainhash.Hash
}

// New builds a Store over db, rebuilding both chain indices by walking the
// persisted CANDIDATE/CONFIRMED tips back to genesis. An empty db (no tip
// pointers yet) yields an empty Store ready for a genesis AddHeader/AddBlock.
func New(db HeaderStore) (*Store, error) {
	s := &Store{
		db:             db,
		candidateIndex: make(map[uint64]chainhash.Hash),
		confirmedIndex: make(map[uint64]chainhash.Hash),
		sideBranches:   make(map[chainhash.Hash]bool),
	}

	if tip, ok, err := db.TipCandidate(); err != nil {
		return nil, err
	} else if ok {
		if err := rebuildIndex(db, tip, s.candidateIndex); err != nil {
			return nil, fmt.Errorf("rebuild candidate index: %w", err)
		}
		s.candidateTip = tip
	}

	if tip, ok, err := db.TipConfirmed(); err != nil {
		return nil, err
	} else if ok {
		if err := rebuildIndex(db, tip, s.confirmedIndex); err != nil {
			return nil, fmt.Errorf("rebuild confirmed index: %w", err)
		}
		s.confirmedTip = tip
	}

	return s, nil
}

func rebuildIndex(db HeaderStore, tip chainhash.Hash, index map[uint64]chainhash.Hash) error {
	hash := tip
	for {
		h, ok, err := db.GetHeader(hash)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("chainstore: header %x referenced by index is missing", hash)
		}
		index[h.Height] = hash
		if h.Height == 0 {
			return nil
		}
		hash = h.PrevHash
	}
}

// AddHeader persists h (HEADER CF) and, if its total difficulty beats the
// current CANDIDATE tip, promotes CANDIDATE to h — reparenting the height
// index back to wherever h's ancestry reconnects with the existing
// CANDIDATE chain, which may be its immediate parent (the common
// single-header-at-a-time case) or several heights further back (a
// heavier side branch overtaking the tip). Otherwise h is recorded as a
// side branch. Reparenting has to walk back to the reconnection point
// rather than only ever accepting a parent that is already CANDIDATE,
// because a heavier side branch's headers were themselves recorded as
// side branches right up until the moment their total difficulty
// overtook the tip — gating strictly on "parent is CANDIDATE" would make
// that overtake impossible to ever complete. Parent existence is the
// caller's (process_block_header's) responsibility to check before
// calling AddHeader; if it is missing here, AddHeader reports Orphan
// without persisting.
func (s *Store) AddHeader(h *wire.BlockHeader) (Status, error) {
	hash := h.Hash()

	if _, ok, err := s.db.GetHeader(hash); err != nil {
		return Orphan, err
	} else if ok {
		return AlreadyKnown, nil
	}

	if h.Height > 0 {
		if _, ok, err := s.db.GetHeader(h.PrevHash); err != nil {
			return Orphan, err
		} else if !ok {
			return Orphan, nil
		}
	}

	if err := s.db.PutHeader(h); err != nil {
		return Orphan, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var tipDifficulty uint64
	if tipHeader, ok, err := s.db.GetHeader(s.candidateTip); err != nil {
		return Orphan, err
	} else if ok {
		tipDifficulty = tipHeader.TotalDifficulty
	}

	if h.Height == 0 || h.TotalDifficulty > tipDifficulty {
		if err := s.promoteCandidate(h, hash); err != nil {
			return Orphan, err
		}
		log.Debugf("New candidate tip at height %d, total difficulty %d", h.Height, h.TotalDifficulty)
	} else {
		s.recordSideBranch(hash)
		log.Debugf("Recorded side branch header at height %d", h.Height)
	}

	return Accepted, nil
}

// promoteCandidate makes hash (header h) the new CANDIDATE tip, walking h's
// ancestry backward until it reconnects with the existing candidateIndex
// (or reaches genesis) and overwriting every height along that stretch.
// Heights beyond the reconnection point that belonged to the old chain are
// left stale in candidateIndex only if h's chain is shorter there — the
// overwrite loop below always replaces every height it visited, which is
// exactly the heights that differ between the two chains.
func (s *Store) promoteCandidate(h *wire.BlockHeader, hash chainhash.Hash) error {
	type step struct {
		height uint64
		hash   chainhash.Hash
	}
	var path []step

	cur, curHash := h, hash
	for {
		if s.candidateIndex[cur.Height] == curHash {
			break
		}
		path = append(path, step{cur.Height, curHash})
		if cur.Height == 0 {
			break
		}
		curHash = cur.PrevHash
		next, ok, err := s.db.GetHeader(curHash)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("chainstore: ancestor %x missing while promoting candidate", curHash)
		}
		cur = next
	}

	for _, st := range path {
		s.candidateIndex[st.height] = st.hash
	}
	s.candidateTip = hash
	return s.db.SetTipCandidate(hash)
}

func (s *Store) recordSideBranch(hash chainhash.Hash) {
	if s.sideBranches[hash] {
		return
	}
	if len(s.sideBranchList) >= maxSideBranches {
		oldest := s.sideBranchList[0]
		s.sideBranchList = s.sideBranchList[1:]
		delete(s.sideBranches, oldest)
	}
	s.sideBranches[hash] = true
	s.sideBranchList = append(s.sideBranchList, hash)
}

// AddBlock advances CONFIRMED to hash, iff hash both sits on the CANDIDATE
// index at its own height and directly extends the current CONFIRMED tip,
// per spec §4.5: "update CONFIRMED iff block.header is an ancestor of
// CANDIDATE tip AND extends CONFIRMED tip." The Block Processor calls this
// only after TxHashSet.ApplyBlock has succeeded for hash; chainstore itself
// does no body validation.
func (s *Store) AddBlock(h *wire.BlockHeader) error {
	hash := h.Hash()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.candidateIndex[h.Height] != hash {
		return fmt.Errorf("chainstore: %x is not on the candidate chain at height %d", hash, h.Height)
	}
	if h.Height > 0 && h.PrevHash != s.confirmedTip {
		return fmt.Errorf("chainstore: %x does not extend the confirmed tip", hash)
	}

	s.confirmedIndex[h.Height] = hash
	s.confirmedTip = hash
	return s.db.SetTipConfirmed(hash)
}

// HeaderByHash looks up a header regardless of which (if any) chain it
// belongs to.
func (s *Store) HeaderByHash(hash chainhash.Hash) (*wire.BlockHeader, bool, error) {
	return s.db.GetHeader(hash)
}

// HeaderByHeight looks up the header at height on chain.
func (s *Store) HeaderByHeight(chain Chain, height uint64) (*wire.BlockHeader, bool, error) {
	s.mu.Lock()
	hash, ok := s.indexFor(chain)[height]
	s.mu.Unlock()
	if !ok {
		return nil, false, nil
	}
	return s.db.GetHeader(hash)
}

// Tip returns the current tip header of chain.
func (s *Store) Tip(chain Chain) (*wire.BlockHeader, bool, error) {
	s.mu.Lock()
	hash := s.tipFor(chain)
	s.mu.Unlock()
	if hash == (chainhash.Hash{}) {
		return nil, false, nil
	}
	return s.db.GetHeader(hash)
}

func (s *Store) indexFor(chain Chain) map[uint64]chainhash.Hash {
	if chain == Confirmed {
		return s.confirmedIndex
	}
	return s.candidateIndex
}

func (s *Store) tipFor(chain Chain) chainhash.Hash {
	if chain == Confirmed {
		return s.confirmedTip
	}
	return s.candidateTip
}

// FindCommonAncestor walks both h1 and h2 back by height until they meet,
// per spec §4.5.
func (s *Store) FindCommonAncestor(h1, h2 chainhash.Hash) (chainhash.Hash, error) {
	header1, ok, err := s.db.GetHeader(h1)
	if err != nil {
		return chainhash.Hash{}, err
	}
	if !ok {
		return chainhash.Hash{}, fmt.Errorf("chainstore: unknown header %x", h1)
	}
	header2, ok, err := s.db.GetHeader(h2)
	if err != nil {
		return chainhash.Hash{}, err
	}
	if !ok {
		return chainhash.Hash{}, fmt.Errorf("chainstore: unknown header %x", h2)
	}

	for header1.Height > header2.Height {
		h1 = header1.PrevHash
		header1, err = s.mustHeader(h1)
		if err != nil {
			return chainhash.Hash{}, err
		}
	}
	for header2.Height > header1.Height {
		h2 = header2.PrevHash
		header2, err = s.mustHeader(h2)
		if err != nil {
			return chainhash.Hash{}, err
		}
	}

	for h1 != h2 {
		if header1.Height == 0 {
			return chainhash.Hash{}, fmt.Errorf("chainstore: no common ancestor between %x and %x", h1, h2)
		}
		h1 = header1.PrevHash
		h2 = header2.PrevHash
		header1, err = s.mustHeader(h1)
		if err != nil {
			return chainhash.Hash{}, err
		}
		header2, err = s.mustHeader(h2)
		if err != nil {
			return chainhash.Hash{}, err
		}
	}
	return h1, nil
}

func (s *Store) mustHeader(hash chainhash.Hash) (*wire.BlockHeader, error) {
	h, ok, err := s.db.GetHeader(hash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("chainstore: unknown header %x", hash)
	}
	return h, nil
}

// HashesBetween returns the hashes from fromHash to toHash, inclusive of
// toHash and exclusive of fromHash, in ascending height order, per spec
// §4.5. toHash must be a descendant of fromHash.
func (s *Store) HashesBetween(fromHash, toHash chainhash.Hash) ([]chainhash.Hash, error) {
	fromHeader, err := s.mustHeader(fromHash)
	if err != nil {
		return nil, err
	}
	toHeader, err := s.mustHeader(toHash)
	if err != nil {
		return nil, err
	}
	if toHeader.Height < fromHeader.Height {
		return nil, fmt.Errorf("chainstore: toHash is not a descendant of fromHash")
	}

	hashes := make([]chainhash.Hash, 0, toHeader.Height-fromHeader.Height)
	hash, header := toHash, toHeader
	for hash != fromHash {
		hashes = append(hashes, hash)
		if header.Height == fromHeader.Height {
			return nil, fmt.Errorf("chainstore: toHash is not a descendant of fromHash")
		}
		hash = header.PrevHash
		header, err = s.mustHeader(hash)
		if err != nil {
			return nil, err
		}
	}

	for i, j := 0, len(hashes)-1; i < j; i, j = i+1, j-1 {
		hashes[i], hashes[j] = hashes[j], hashes[i]
	}
	return hashes, nil
}
