package compress

import (
	"bytes"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	compressible := bytes.Repeat([]byte("bernoulli "), 1000)
	random := make([]byte, 4096)
	r := rand.New(rand.NewPCG(1, 2))
	for i := range random {
		random[i] = byte(r.Uint32())
	}

	for _, typ := range []Type{None, LZ4, ZSTD} {
		for name, data := range map[string][]byte{
			"empty":        {},
			"compressible": compressible,
			"random":       random,
		} {
			t.Run(typ.String()+"/"+name, func(t *testing.T) {
				block, err := Compress(data, typ)
				require.NoError(t, err)

				got, err := Decompress(block, typ)
				require.NoError(t, err)
				assert.Equal(t, len(data), len(got))
				assert.True(t, bytes.Equal(data, got))
			})
		}
	}
}

func TestCompressShrinks(t *testing.T) {
	data := bytes.Repeat([]byte("abcd"), 4096)
	for _, typ := range []Type{LZ4, ZSTD} {
		block, err := Compress(data, typ)
		require.NoError(t, err)
		assert.Less(t, len(block), len(data)/4, typ.String())
	}

	block, err := Compress(data, None)
	require.NoError(t, err)
	assert.Len(t, block, len(data)+headerSize)
}

func TestDecompressCorrupt(t *testing.T) {
	_, err := Decompress([]byte{1, 2, 3}, LZ4)
	require.ErrorIs(t, err, ErrCorrupt)

	block, err := Compress(bytes.Repeat([]byte("x"), 1000), ZSTD)
	require.NoError(t, err)
	_, err = Decompress(block[:len(block)-1], ZSTD)
	require.ErrorIs(t, err, ErrCorrupt)

	block[headerSize+2] ^= 0xff
	_, err = Decompress(block, ZSTD)
	require.ErrorIs(t, err, ErrCorrupt)

	_, err = Compress(nil, Type(9))
	require.ErrorIs(t, err, ErrUnknownType)
	assert.Equal(t, "compress.Type(9)", Type(9).String())
}

func TestDecompressRejectsImplausibleSize(t *testing.T) {
	block := []byte{
		0xff, 0xff, 0xff, 0xff, // uncompressed size
		0x00, 0x00, 0x00, 0x04, // compressed size
		0x01, 0x02, 0x03, 0x04,
	}
	for _, typ := range []Type{LZ4, ZSTD} {
		_, err := Decompress(block, typ)
		require.ErrorIs(t, err, ErrCorrupt, typ.String())
	}
}

func TestHighlyCompressibleRoundTrip(t *testing.T) {
	data := make([]byte, 1<<20)
	for _, typ := range []Type{LZ4, ZSTD} {
		block, err := Compress(data, typ)
		require.NoError(t, err)

		got, err := Decompress(block, typ)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(data, got), typ.String())
	}
}
