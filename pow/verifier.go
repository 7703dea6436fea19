// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

package pow

import (
	"fmt"
	"math/bits"

	"github.com/grinpp-go/nodecore/chaincfg"
	"github.com/grinpp-go/nodecore/wire"
)

// Verifier is the PoW Verifier spec §4.8 describes: it checks a header's
// claimed total_difficulty and secondary_scaling against the retarget its
// ancestry implies, then checks the committed Cuckoo-cycle proof both
// satisfies the graph's consensus rules and clears the claimed difficulty.
type Verifier struct {
	headers HeaderReader
}

// New returns a Verifier reading header ancestry from headers.
func New(headers HeaderReader) *Verifier {
	return &Verifier{headers: headers}
}

// Validate runs the full PoW check on header, mirroring
// PoWValidator::IsPoWValid: total_difficulty monotonicity, the proof's
// maximum-difficulty bound, the next-difficulty match, the
// secondary-scaling match, and finally cycle validity. Genesis carries no real proof and has no ancestry to retarget
// against, so it is accepted unconditionally, the way the reference never
// validates a chain's genesis header against itself.
func (v *Verifier) Validate(header *wire.BlockHeader) error {
	if header.Height == 0 {
		return nil
	}

	parent, ok, err := v.headers.GetHeader(header.PrevHash)
	if err != nil {
		return fmt.Errorf("pow: looking up parent header: %w", err)
	}
	if !ok {
		return fmt.Errorf("pow: parent header %s not found", header.PrevHash)
	}
	if header.TotalDifficulty <= parent.TotalDifficulty {
		return newErr(WrongDifficulty, "total difficulty did not increase")
	}

	targetDiff := header.TotalDifficulty - parent.TotalDifficulty
	maxDiff := maximumDifficultyOfProof(header, header.ProofOfWork.Hash())
	if maxDiff < targetDiff {
		return newErr(WrongDifficulty, "target difficulty too high for proof")
	}

	expected, err := nextDifficulty(v.headers, header)
	if err != nil {
		return fmt.Errorf("pow: computing next difficulty: %w", err)
	}
	if targetDiff != expected.difficulty {
		return newErr(WrongDifficulty, "difficulty does not match retarget")
	}
	if header.SecondaryScaling != expected.secondaryScaling {
		return newErr(WrongScaling, "secondary scaling does not match retarget")
	}

	if result := verifyCycle(header); result != cycleOK {
		return newErr(BadProof, result.String())
	}
	return nil
}

// VerifyPoW satisfies blockprocessor.PoWVerifier, collapsing Validate's
// richer error into the bool the Block Processor's header pipeline wants.
func (v *Verifier) VerifyPoW(header *wire.BlockHeader) bool {
	return v.Validate(header) == nil
}

// maximumDifficultyOfProof ports PoWValidator::GetMaximumDifficultyOfProof:
// the largest difficulty header's proof could support: scaling<<64 /
// max(1, hash64_be(proof)), where scaling is the header's own secondary
// scaling for secondary (29-bit) proofs, or the fixed ScalingDifficulty of
// its graph size otherwise. Computed via bits.Div64 rather than math/big,
// since the dividend's high word is always exactly scaling with a zero low
// word; the overflow bits.Div64 would otherwise panic on is clamped to
// math.MaxUint64, matching the reference's UINT64_MAX clamp.
func maximumDifficultyOfProof(header *wire.BlockHeader, proofHash [32]byte) uint64 {
	var scaling uint64
	if header.ProofOfWork.EdgeBits == chaincfg.SecondPowEdgeBits {
		scaling = uint64(header.SecondaryScaling)
	} else {
		scaling = chaincfg.ScalingDifficulty(header.ProofOfWork.EdgeBits)
	}

	hash64 := hash64BE(proofHash)
	if hash64 == 0 {
		hash64 = 1
	}
	if scaling >= hash64 {
		return ^uint64(0)
	}
	q, _ := bits.Div64(scaling, 0, hash64)
	return q
}

// hash64BE reads the proof hash's leading 8 bytes as a big-endian integer,
// per the reference's big-endian reinterpretation of the proof's hash.
func hash64BE(h [32]byte) uint64 {
	var v uint64
	for _, b := range h[:8] {
		v = (v << 8) | uint64(b)
	}
	return v
}
