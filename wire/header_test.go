package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleHeader() BlockHeader {
	h := BlockHeader{
		Version:          1,
		Height:           42,
		Timestamp:        1_700_000_000,
		OutputMMRSize:    10,
		KernelMMRSize:    5,
		TotalDifficulty:  1000,
		SecondaryScaling: 100,
		Nonce:            7,
	}
	h.ProofOfWork.EdgeBits = 29
	for i := range h.ProofOfWork.Nonces {
		h.ProofOfWork.Nonces[i] = uint64(i)
	}
	return h
}

func TestHeaderRoundTrip(t *testing.T) {
	h := sampleHeader()
	var buf bytes.Buffer
	require.NoError(t, h.Serialize(&buf))

	got, err := DeserializeHeader(&buf)
	require.NoError(t, err)
	require.Equal(t, h, *got)
}

func TestHeaderHashStable(t *testing.T) {
	h := sampleHeader()
	h2 := h
	require.Equal(t, h.Hash(), h2.Hash())

	h2.Nonce++
	require.NotEqual(t, h.Hash(), h2.Hash())
}

func TestFullBlockRoundTrip(t *testing.T) {
	b := &FullBlock{Header: sampleHeader()}
	b.Inputs = []Input{{Features: OutputPlain}}
	b.Inputs[0].Commitment[0] = 0x02
	b.Outputs = []Output{{Features: OutputCoinbase, RangeProof: []byte{1, 2, 3}}}
	b.Outputs[0].Commitment[0] = 0x03
	b.Kernels = []Kernel{{Features: KernelCoinbase, Fee: 10, LockHeight: 0}}

	var buf bytes.Buffer
	require.NoError(t, b.Serialize(&buf))

	got, err := DeserializeFullBlock(&buf)
	require.NoError(t, err)
	require.Equal(t, b.Header, got.Header)
	require.Equal(t, b.Inputs, got.Inputs)
	require.Equal(t, b.Outputs, got.Outputs)
	require.Equal(t, b.Kernels, got.Kernels)
}

func TestSortBody(t *testing.T) {
	b := &FullBlock{}
	var c1, c2 Input
	c1.Commitment[0] = 0x03
	c2.Commitment[0] = 0x02
	b.Inputs = []Input{c1, c2}
	b.SortBody()
	require.True(t, bytes.Compare(b.Inputs[0].Commitment[:], b.Inputs[1].Commitment[:]) < 0)
}
