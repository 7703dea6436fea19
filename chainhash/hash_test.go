package chainhash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashFuncs(t *testing.T) {
	data := []byte("mimblewimble")
	h1 := HashH(data)
	h2 := HashB(data)
	require.Equal(t, h1[:], h2)
}

func TestHashStringRoundTrip(t *testing.T) {
	h := HashH([]byte("grin"))
	parsed, err := NewHashFromStr(h.String())
	require.NoError(t, err)
	require.True(t, h.IsEqual(parsed))
}

func TestHashSetBytesBadLength(t *testing.T) {
	var h Hash
	err := h.SetBytes([]byte{1, 2, 3})
	require.Error(t, err)
}
