// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chaincfg holds network parameters and consensus constants for the
// chain-state engine: which network a node is running (MAINNET, FLOONET,
// AUTOMATED_TESTING), the hard-fork schedule that picks a header version at
// a given height, and the genesis block each network starts from. This
// mirrors the shape of the teacher's own chaincfg.Params (one struct per
// network, a package-level registry), generalized from Bitcoin-style
// checkpoints/magic-bytes to Mimblewimble's consensus knobs.
package chaincfg

import "github.com/grinpp-go/nodecore/chainutil"

// Network identifies which Mimblewimble network a node is participating in.
type Network uint8

// Supported networks: the public mainnet, its floonet testnet counterpart,
// and an automated-testing network sized for fast local chains in CI.
const (
	Mainnet Network = iota
	Floonet
	AutomatedTesting
)

// String returns the human-readable network name.
func (n Network) String() string {
	switch n {
	case Mainnet:
		return "mainnet"
	case Floonet:
		return "floonet"
	case AutomatedTesting:
		return "automated_testing"
	default:
		return "unknown"
	}
}

// Consensus constants shared by every network, ported from the reference
// implementation's Consensus.h.
const (
	// BlockTimeSec is the target seconds-per-block the difficulty retarget
	// tunes toward.
	BlockTimeSec = 60

	// HourHeight, DayHeight, WeekHeight, YearHeight are nominal block
	// counts for the named real-time interval at BlockTimeSec.
	HourHeight = 3600 / BlockTimeSec
	DayHeight  = 24 * HourHeight
	WeekHeight = 7 * DayHeight
	YearHeight = 52 * WeekHeight

	// CoinbaseMaturity is the number of blocks before a coinbase output
	// may be spent.
	CoinbaseMaturity = (24 * 60 * 60) / BlockTimeSec

	// CutThroughHorizon is how many blocks back cross-block cut-through
	// (and therefore full pruning) may reach.
	CutThroughHorizon = WeekHeight

	// StateSyncThreshold bounds how far back a txhashset snapshot sync may
	// target.
	StateSyncThreshold = 2 * DayHeight

	// MedianTimeWindow is the number of headers used to compute the
	// median-time-past bound on a new header's timestamp.
	MedianTimeWindow = 11

	// DifficultyAdjustWindow is the number of headers the DMA retarget
	// looks back over.
	DifficultyAdjustWindow = HourHeight

	// BlockTimeWindow is the span, in seconds, DifficultyAdjustWindow
	// headers are expected to cover.
	BlockTimeWindow = DifficultyAdjustWindow * BlockTimeSec

	// UpperTimeBound / LowerTimeBound clamp the observed window span
	// before it feeds the DMA formula.
	UpperTimeBound = BlockTimeWindow * 2
	LowerTimeBound = BlockTimeWindow / 2

	// FutureTimeLimitSec is how far into the future (relative to the
	// receiving node's clock) a header's timestamp may be.
	FutureTimeLimitSec = 5 * BlockTimeSec

	// WTEMAHalfLife is the post-hard-fork-4 difficulty half-life, in
	// seconds.
	WTEMAHalfLife = 4 * 3600

	// ProofSize is the Cuckoo-cycle proof length (number of edges).
	ProofSize = 42

	// DefaultMinEdgeBits is the primary PoW's minimum Cuckatoo graph size.
	DefaultMinEdgeBits = 31

	// SecondPowEdgeBits is the secondary (AR, ASIC-resistant) PoW's graph
	// size.
	SecondPowEdgeBits = 29

	// BaseEdgeBits is the reference edge_bits used to compute graph-weight
	// difficulty factors for larger graphs.
	BaseEdgeBits = 24

	// ClampFactor bounds a retargeted difficulty to within this factor of
	// the window's goal.
	ClampFactor = 2

	// DMADampFactor dampens the DMA retarget toward the target window.
	DMADampFactor = 3

	// MinDMADifficulty is the floor enforced under DMA retargeting.
	MinDMADifficulty = DMADampFactor

	// ARScaleDampFactor dampens the secondary-PoW scaling retarget toward
	// its target window count.
	ARScaleDampFactor = 13

	// MinARScale is the floor enforced on the secondary-PoW scaling
	// factor, avoiding a dampening-induced stall when increasing it.
	MinARScale = ARScaleDampFactor

	// HardForkInterval is the nominal height spacing between scheduled
	// hard forks (six months).
	HardForkInterval = YearHeight / 2

	// Reward is the coinbase subsidy per block: one grin per second on
	// average.
	Reward = chainutil.Amount(BlockTimeSec * chainutil.NanogrinPerGrin)

	// MaxBlockWeight is the maximum total body weight
	// (inputs*1+outputs*21+kernels*3) a block may carry.
	MaxBlockWeight = 40000

	// InputWeight, OutputWeight, KernelWeight are the per-element weight
	// units MaxBlockWeight is measured in.
	InputWeight  = 1
	OutputWeight = 21
	KernelWeight = 3
)

// Transaction-pool constants. MinRelayFeeBase mirrors the reference
// implementation's TransactionPoolImpl fee-base constant; the Dandelion
// defaults are ported from the reference's DandelionConfig.
const (
	// MinRelayFeeBase is the per-weight-unit fee floor a transaction must
	// clear to be relayed: a transaction's required minimum fee is
	// MinRelayFeeBase * Weight(inputs, outputs, kernels).
	MinRelayFeeBase = 1_000_000

	// DandelionEmbargoSec is the number of seconds a stem-phase transaction
	// waits before, if it hasn't already been relayed onward, the pool
	// assumes the stem failed and promotes it to TO_FLUFF for ordinary
	// broadcast. A random 0-30s jitter is added on top per entry.
	DandelionEmbargoSec = 180

	// DandelionStemProbability is the percent chance (0-100) that a
	// transaction entering the stem/dandelion path is itself routed onward
	// as TO_STEM rather than immediately marked TO_FLUFF.
	DandelionStemProbability = 90
)

// Floonet-only hard-fork heights.
const (
	FloonetFirstHardFork  = 185_040
	FloonetSecondHardFork = 298_080
	FloonetThirdHardFork  = 552_960
	FloonetFourthHardFork = 642_240
)

// HeaderVersion returns the header version required at height on the given
// network, per the reference hard-fork schedule (a new version every
// HardForkInterval blocks on mainnet/automated-testing, at network-specific
// heights on floonet).
func HeaderVersion(net Network, height uint64) uint16 {
	if net == Floonet {
		switch {
		case height < FloonetFirstHardFork:
			return 1
		case height < FloonetSecondHardFork:
			return 2
		case height < FloonetThirdHardFork:
			return 3
		case height < FloonetFourthHardFork:
			return 4
		default:
			return 5
		}
	}

	switch {
	case height < HardForkInterval:
		return 1
	case height < 2*HardForkInterval:
		return 2
	case height < 3*HardForkInterval:
		return 3
	case height < 4*HardForkInterval:
		return 4
	default:
		return 5
	}
}

// GraphWeight computes the relative weight of a Cuckoo graph of the given
// edge_bits at the given height, phasing out Cuckatoo31 a week at a time
// starting one year after launch.
func GraphWeight(height uint64, edgeBits uint8) uint64 {
	xprEdgeBits := uint64(edgeBits)
	if edgeBits == 31 && height >= YearHeight {
		decay := uint64(1) + (height-YearHeight)/WeekHeight
		if decay > xprEdgeBits {
			xprEdgeBits = 0
		} else {
			xprEdgeBits -= decay
		}
	}
	return (uint64(2) << (uint64(edgeBits) - BaseEdgeBits)) * xprEdgeBits
}

// ScalingDifficulty returns the secondary-PoW scaling factor a Cuckoo
// graph of the given edge_bits contributes, with no height-based decay
// (unlike GraphWeight, which phases out Cuckatoo31 over time). It is the
// divisor pow.Verifier scales a non-secondary proof's difficulty by when
// checking a header's claimed total_difficulty against the maximum this
// proof could support.
func ScalingDifficulty(edgeBits uint8) uint64 {
	return (uint64(2) << (uint64(edgeBits) - BaseEdgeBits)) * uint64(edgeBits)
}

// Params bundles the per-network values that differ from the shared
// consensus constants above: today, only the network identity and genesis
// block. Kept as its own struct (rather than inlining into Network) so
// cmd/nodecored can hold `*Params` the way the teacher holds
// `*chaincfg.Params`.
type Params struct {
	Net     Network
	Name    string
	Genesis *GenesisBlock
}

// MainnetParams are the parameters for the production network.
var MainnetParams = Params{
	Net:     Mainnet,
	Name:    "mainnet",
	Genesis: &mainnetGenesis,
}

// FloonetParams are the parameters for the public test network.
var FloonetParams = Params{
	Net:     Floonet,
	Name:    "floonet",
	Genesis: &floonetGenesis,
}

// AutomatedTestingParams are the parameters used by test harnesses: a
// trivial genesis. Coinbase maturity is the shared CoinbaseMaturity
// constant; this network does not relax it.
var AutomatedTestingParams = Params{
	Net:     AutomatedTesting,
	Name:    "automated_testing",
	Genesis: &testingGenesis,
}

// ParamsForNetwork returns the registered Params for net.
func ParamsForNetwork(net Network) *Params {
	switch net {
	case Mainnet:
		return &MainnetParams
	case Floonet:
		return &FloonetParams
	case AutomatedTesting:
		return &AutomatedTestingParams
	default:
		return nil
	}
}
