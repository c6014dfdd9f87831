package packed

import (
	"bytes"
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/bernoulli/binio"
)

func mustCodec(t *testing.T, w int) UintCodec {
	t.Helper()
	c, err := NewUintCodec(w)
	require.NoError(t, err)
	return c
}

func TestUintCodec(t *testing.T) {
	for _, w := range []int{0, 65, -1} {
		_, err := NewUintCodec(w)
		require.ErrorIs(t, err, ErrInvalidArgument, "width %d", w)
	}

	c := mustCodec(t, 3)
	assert.Equal(t, uint64(7), c.Max())
	_, err := c.Encode(8)
	require.ErrorIs(t, err, ErrInvalidArgument)
	code, err := c.Encode(5)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), c.Decode(code))

	full := mustCodec(t, 64)
	_, err = full.Encode(^uint64(0))
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = c.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x03, 'c', 'n', 'n', 0x01, 0x03}, buf.Bytes())

	got, err := ReadUintCodec(&buf)
	require.NoError(t, err)
	assert.Equal(t, 3, got.BitWidth())
}

func TestReadUintCodecRejectsBadWidth(t *testing.T) {
	_, err := ReadUintCodec(bytes.NewReader([]byte{0x03, 'c', 'n', 'n', 0x01, 0x00}))
	require.ErrorIs(t, err, binio.ErrFormat)
}

func TestArrayGetSet(t *testing.T) {
	a, err := New(5, Codec[uint64](mustCodec(t, 4)))
	require.NoError(t, err)
	assert.Equal(t, 5, a.Len())
	assert.Equal(t, 3, a.SizeBytes())

	require.NoError(t, a.Set(0, 0xf))
	require.NoError(t, a.Set(3, 0x9))

	v, err := a.Get(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xf), v)
	v, err = a.Get(3)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x9), v)
	v, err = a.Get(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)

	assert.Equal(t, "11110000 00001001 0000", a.Bits().String())

	require.ErrorIs(t, a.Set(3, 16), ErrInvalidArgument)
	v, _ = a.Get(3)
	assert.Equal(t, uint64(0x9), v, "failed Set must not write")

	_, err = a.Get(5)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
	require.ErrorIs(t, a.Set(-1, 0), ErrIndexOutOfRange)
}

func TestFromSliceAndSeq(t *testing.T) {
	c := Codec[uint64](mustCodec(t, 7))
	values := []uint64{1, 127, 64, 0, 33}

	a, err := FromSlice(values, c)
	require.NoError(t, err)

	var got []uint64
	for _, v := range a.All() {
		got = append(got, v)
	}
	assert.Equal(t, values, got)

	b, err := FromSeq(slices.Values(values), c)
	require.NoError(t, err)
	assert.True(t, a.Equal(b))

	_, err = FromSlice([]uint64{1, 128}, c)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestArrayBinary(t *testing.T) {
	a, err := FromSlice([]uint64{3, 1, 2}, Codec[uint64](mustCodec(t, 2)))
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := a.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, []byte{
		0x02, 'p', 'a', 0x01,
		0x03, 'c', 'n', 'n', 0x01, 0x02,
		0x02, 'b', 'a', 0x01, 0x06, 0b1101_1000,
	}, buf.Bytes())

	got, err := Read(&buf, ReadUintCodec)
	require.NoError(t, err)
	assert.True(t, a.Equal(got))
	assert.Equal(t, 3, got.Len())
}

func TestReadRejectsRaggedBits(t *testing.T) {
	data := []byte{
		0x02, 'p', 'a', 0x01,
		0x03, 'c', 'n', 'n', 0x01, 0x02,
		0x02, 'b', 'a', 0x01, 0x05, 0b1101_1000,
	}
	_, err := Read(bytes.NewReader(data), ReadUintCodec)
	require.ErrorIs(t, err, binio.ErrFormat)

	_, err = Read(bytes.NewReader([]byte{0x02, 'p', 'b', 0x01}), ReadUintCodec)
	require.ErrorIs(t, err, binio.ErrUnexpectedHeader)
}

func TestArrayRoundTripProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("packed array round trip", prop.ForAll(
		func(width int, raw []uint64) bool {
			c, err := NewUintCodec(width)
			if err != nil {
				return false
			}
			values := make([]uint64, len(raw))
			for i, v := range raw {
				values[i] = v & c.Max()
			}
			a, err := FromSlice(values, Codec[uint64](c))
			if err != nil {
				return false
			}
			var buf bytes.Buffer
			if _, err := a.WriteTo(&buf); err != nil {
				return false
			}
			got, err := Read(&buf, ReadUintCodec)
			if err != nil || !got.Equal(a) {
				return false
			}
			for i, want := range values {
				v, err := got.Get(i)
				if err != nil || v != want {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 64), gen.SliceOf(gen.UInt64()),
	))

	properties.TestingRun(t)
}
