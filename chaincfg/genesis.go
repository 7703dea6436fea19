// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"github.com/grinpp-go/nodecore/chainhash"
	"github.com/grinpp-go/nodecore/secp"
	"github.com/grinpp-go/nodecore/wire"
)

// GenesisBlock is the first block of a network's chain. Unlike the
// teacher's genesis (a coinbase-only Bitcoin block), a Mimblewimble genesis
// carries no inputs and a single coinbase output/kernel pair, but is
// otherwise an ordinary FullBlock.
type GenesisBlock = wire.FullBlock

func genesisHeader(net Network, timestamp int64, nonce uint64) wire.BlockHeader {
	return wire.BlockHeader{
		Version:          1,
		Height:           0,
		Timestamp:        timestamp,
		OutputMMRSize:    1,
		KernelMMRSize:    1,
		TotalDifficulty:  uint64(MinDMADifficulty),
		SecondaryScaling: uint32(GraphWeight(0, SecondPowEdgeBits)),
		Nonce:            nonce,
	}
}

// mainnetGenesis is the genesis block for the production network. Its
// coinbase commitment and excess are deterministic placeholders (a real
// launch fixes these once and hardcodes the resulting hash, exactly as the
// teacher's mainGenesisBlock hardcodes a coinbase script); what matters for
// the chain-state engine is that every network has exactly one well-formed
// genesis FullBlock to bootstrap the three MMRs and BlockSums(0) from.
var mainnetGenesis = buildGenesis(Mainnet, 1606780800, 0)   // 2020-12-01 00:00:00 UTC
var floonetGenesis = buildGenesis(Floonet, 1580860800, 0)   // 2020-02-05 00:00:00 UTC
var testingGenesis = buildGenesis(AutomatedTesting, 0, 0)

func buildGenesis(net Network, timestamp int64, nonce uint64) GenesisBlock {
	header := genesisHeader(net, timestamp, nonce)

	block := GenesisBlock{
		Header: header,
		Outputs: []wire.Output{
			{
				Features:   wire.OutputCoinbase,
				Commitment: genesisCommitment(net),
			},
		},
		Kernels: []wire.Kernel{
			{
				Features: wire.KernelCoinbase,
				Excess:   genesisExcess(net),
			},
		},
	}
	block.Header.OutputRoot = chainhash.HashH(block.Outputs[0].Commitment[:])
	block.Header.KernelRoot = chainhash.HashH(block.Kernels[0].Excess[:])
	block.Header.RangeproofRoot = chainhash.Hash{}
	return block
}

// genesisCommitment and genesisExcess return network-specific, deterministic
// 33-byte placeholders. They are not valid Pedersen commitments under the
// secp256k1 curve (doing that requires a real blinding factor chosen at
// network-launch time, which this engine does not mint); chain-state logic
// never needs to open or re-verify the genesis coinbase itself, only to
// treat it as block height 0's BlockSums seed, so a fixed byte pattern per
// network is sufficient here.
func genesisCommitment(net Network) (c secp.Commitment) {
	c[0] = 0x08
	c[1] = byte(net)
	return c
}

func genesisExcess(net Network) (c secp.Commitment) {
	c[0] = 0x09
	c[1] = byte(net)
	return c
}
