// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

package chaincontext

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/grinpp-go/nodecore/chaincfg"
)

func TestNewRejectsEmptyDataDir(t *testing.T) {
	_, err := New("", chaincfg.Mainnet, 0, 0)
	require.Error(t, err)
}

func TestNewRejectsUnrecognizedNetwork(t *testing.T) {
	_, err := New("/tmp/data", chaincfg.Network(255), 0, 0)
	require.Error(t, err)
}

func TestNewAppliesDefaultPeerBounds(t *testing.T) {
	ctx, err := New("/tmp/data", chaincfg.Mainnet, 0, 0)
	require.NoError(t, err)
	require.Equal(t, DefaultMinPeers, ctx.MinPeers)
	require.Equal(t, DefaultMaxPeers, ctx.MaxPeers)
	require.Same(t, &chaincfg.MainnetParams, ctx.Params)
}

func TestNewRejectsNegativePeerBounds(t *testing.T) {
	_, err := New("/tmp/data", chaincfg.Mainnet, -1, 10)
	require.Error(t, err)

	_, err = New("/tmp/data", chaincfg.Mainnet, 1, -1)
	require.Error(t, err)
}

func TestNewRejectsInvertedPeerBounds(t *testing.T) {
	_, err := New("/tmp/data", chaincfg.Mainnet, 20, 10)
	require.Error(t, err)
}

func TestNewHonorsExplicitPeerBounds(t *testing.T) {
	ctx, err := New("/tmp/data", chaincfg.AutomatedTesting, 2, 5)
	require.NoError(t, err)
	require.Equal(t, 2, ctx.MinPeers)
	require.Equal(t, 5, ctx.MaxPeers)
}

func TestUseLoggerNilKeepsLogger(t *testing.T) {
	ctx, err := New("/tmp/data", chaincfg.Mainnet, 0, 0)
	require.NoError(t, err)
	require.NotNil(t, ctx.Logger)

	ctx.UseLogger(nil)
	require.NotNil(t, ctx.Logger)
}
