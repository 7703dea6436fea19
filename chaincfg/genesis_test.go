// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"bytes"
	"testing"

	"github.com/grinpp-go/nodecore/wire"
	"github.com/stretchr/testify/require"
)

func TestGenesisBlockSerializeRoundTrip(t *testing.T) {
	for _, p := range []*Params{&MainnetParams, &FloonetParams, &AutomatedTestingParams} {
		var buf bytes.Buffer
		require.NoError(t, p.Genesis.Serialize(&buf))

		got, err := wire.DeserializeFullBlock(&buf)
		require.NoError(t, err)
		require.Equal(t, p.Genesis.Header.Hash(), got.Header.Hash())
		require.Equal(t, p.Genesis.Outputs, got.Outputs)
		require.Equal(t, p.Genesis.Kernels, got.Kernels)
	}
}

func TestGenesisBlockHasOneCoinbaseOutputAndKernel(t *testing.T) {
	for _, p := range []*Params{&MainnetParams, &FloonetParams, &AutomatedTestingParams} {
		require.Len(t, p.Genesis.Outputs, 1)
		require.Len(t, p.Genesis.Kernels, 1)
		require.Equal(t, uint64(0), p.Genesis.Header.Height)
		require.Equal(t, wire.OutputCoinbase, p.Genesis.Outputs[0].Features)
		require.Equal(t, wire.KernelCoinbase, p.Genesis.Kernels[0].Features)
	}
}

func TestGenesisBlocksAreDistinctPerNetwork(t *testing.T) {
	require.NotEqual(t, MainnetParams.Genesis.Header.Hash(), FloonetParams.Genesis.Header.Hash())
	require.NotEqual(t, MainnetParams.Genesis.Header.Hash(), AutomatedTestingParams.Genesis.Header.Hash())
}

func TestParamsForNetwork(t *testing.T) {
	require.Same(t, &MainnetParams, ParamsForNetwork(Mainnet))
	require.Same(t, &FloonetParams, ParamsForNetwork(Floonet))
	require.Same(t, &AutomatedTestingParams, ParamsForNetwork(AutomatedTesting))
	require.Nil(t, ParamsForNetwork(Network(99)))
}

func TestHeaderVersionSchedule(t *testing.T) {
	require.Equal(t, uint16(1), HeaderVersion(Mainnet, 0))
	require.Equal(t, uint16(2), HeaderVersion(Mainnet, HardForkInterval))
	require.Equal(t, uint16(5), HeaderVersion(Mainnet, 4*HardForkInterval))

	require.Equal(t, uint16(1), HeaderVersion(Floonet, 0))
	require.Equal(t, uint16(5), HeaderVersion(Floonet, FloonetFourthHardFork))
}

func TestGraphWeightPhasesOutCuckatoo31AfterOneYear(t *testing.T) {
	before := GraphWeight(YearHeight-1, 31)
	atYear := GraphWeight(YearHeight, 31)
	require.Greater(t, before, atYear)

	farAfter := GraphWeight(YearHeight+31*WeekHeight, 31)
	require.Equal(t, uint64(0), farAfter)
}
