package binio

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegersBigEndian(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.U8(0xab)
	w.U16(0x0102)
	w.U32(0x03040506)
	w.U64(0x0708090a0b0c0d0e)
	require.NoError(t, w.Err())
	assert.Equal(t, int64(15), w.N())
	assert.Equal(t, []byte{
		0xab,
		0x01, 0x02,
		0x03, 0x04, 0x05, 0x06,
		0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e,
	}, buf.Bytes())

	r := NewReader(&buf)
	assert.Equal(t, uint8(0xab), r.U8())
	assert.Equal(t, uint16(0x0102), r.U16())
	assert.Equal(t, uint32(0x03040506), r.U32())
	assert.Equal(t, uint64(0x0708090a0b0c0d0e), r.U64())
	require.NoError(t, r.Err())
	assert.Equal(t, int64(15), r.N())
}

func TestVarU32(t *testing.T) {
	tests := []struct {
		value   uint32
		encoded []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{300, []byte{0xac, 0x02}},
		{math.MaxUint32, []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		w := NewWriter(&buf)
		w.VarU32(tt.value)
		require.NoError(t, w.Err())
		assert.Equal(t, tt.encoded, buf.Bytes(), "value %d", tt.value)

		r := NewReader(&buf)
		assert.Equal(t, tt.value, r.VarU32())
		require.NoError(t, r.Err())
	}
}

func TestVarU32Overflow(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0xff, 0xff, 0xff, 0xff, 0x1f}))
	r.VarU32()
	require.ErrorIs(t, r.Err(), ErrVarintOverflow)
	require.ErrorIs(t, r.Err(), ErrFormat)
}

func TestStr(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Str("ba")
	w.Str("")
	require.NoError(t, w.Err())
	assert.Equal(t, []byte{0x02, 'b', 'a', 0x00}, buf.Bytes())

	r := NewReader(&buf)
	assert.Equal(t, "ba", r.Str())
	assert.Equal(t, "", r.Str())
	require.NoError(t, r.Err())
}

func TestTruncatedInput(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x01, 0x02}))
	r.U32()
	require.ErrorIs(t, r.Err(), io.ErrUnexpectedEOF)

	// sticky
	assert.Equal(t, uint8(0), r.U8())
	require.ErrorIs(t, r.Err(), io.ErrUnexpectedEOF)

	r = NewReader(bytes.NewReader(nil))
	r.U8()
	require.ErrorIs(t, r.Err(), io.ErrUnexpectedEOF)
}

func TestBytes(t *testing.T) {
	large := bytes.Repeat([]byte{0xab}, MaxStringLen+10)
	r := NewReader(bytes.NewReader(append([]byte{0x01, 0x02}, large...)))
	assert.Equal(t, []byte{0x01, 0x02}, r.Bytes(2))
	assert.Equal(t, large, r.Bytes(len(large)))
	require.NoError(t, r.Err())
	assert.Equal(t, int64(len(large)+2), r.N())

	r = NewReader(bytes.NewReader([]byte{0x01, 0x02, 0x03}))
	assert.Nil(t, r.Bytes(1<<30))
	require.ErrorIs(t, r.Err(), io.ErrUnexpectedEOF)
	assert.Equal(t, int64(3), r.N())

	r = NewReader(bytes.NewReader([]byte{0x01}))
	assert.Nil(t, r.Bytes(4))
	require.ErrorIs(t, r.Err(), io.ErrUnexpectedEOF)

	r = NewReader(bytes.NewReader(nil))
	assert.Nil(t, r.Bytes(-1))
	require.ErrorIs(t, r.Err(), ErrFormat)
}

func TestHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Header("ba", 1)
	require.NoError(t, w.Err())
	data := buf.Bytes()

	t.Run("match", func(t *testing.T) {
		r := NewReader(bytes.NewReader(data))
		r.ExpectHeader("ba", 1)
		require.NoError(t, r.Err())
	})

	t.Run("wrong magic", func(t *testing.T) {
		r := NewReader(bytes.NewReader(data))
		r.ExpectHeader("cnn", 1)
		err := r.Err()
		require.ErrorIs(t, err, ErrUnexpectedHeader)
		require.ErrorIs(t, err, ErrFormat)

		var fe *FormatError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, "cnn", fe.Want)
		assert.Equal(t, "ba", fe.Got)
	})

	t.Run("wrong version", func(t *testing.T) {
		r := NewReader(bytes.NewReader(data))
		r.ExpectHeader("ba", 2)
		require.ErrorIs(t, r.Err(), ErrUnexpectedVersion)
		require.ErrorIs(t, r.Err(), ErrFormat)
	})
}

func TestPack754MatchesHardware(t *testing.T) {
	values := []float64{
		0, 1, -1, 0.5, 0.1, 2.0 / 3.0, math.Pi, -math.E, 1e-300, 1e300,
		math.SmallestNonzeroFloat64, math.MaxFloat64, math.Inf(1), math.Inf(-1),
		math.Copysign(0, -1), 5e-324 * 7,
	}
	for _, v := range values {
		assert.Equal(t, math.Float64bits(v), Pack754(v, 64, 11), "float64 %g", v)
		assert.Equal(t, uint64(math.Float32bits(float32(v))), Pack754(float64(float32(v)), 32, 8), "float32 %g", v)
	}
}

func TestUnpack754RoundTrip(t *testing.T) {
	values := []float64{0, 1, -1, 0.3, 1.0 / 256, -123456.789, 1e-310, math.Inf(-1)}
	for _, v := range values {
		assert.Equal(t, v, Unpack754(Pack754(v, 64, 11), 64, 11))

		f := float64(float32(v))
		assert.Equal(t, f, Unpack754(Pack754(f, 32, 8), 32, 8))
	}
	assert.True(t, math.IsNaN(Unpack754(Pack754(math.NaN(), 64, 11), 64, 11)))
	assert.True(t, math.Signbit(Unpack754(Pack754(math.Copysign(0, -1), 64, 11), 64, 11)))
}

func TestFloats(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Float32(0.15625)
	w.Float64(0.00390625)
	require.NoError(t, w.Err())
	assert.Equal(t, []byte{0x3e, 0x20, 0x00, 0x00}, buf.Bytes()[:4])

	r := NewReader(&buf)
	assert.Equal(t, float32(0.15625), r.Float32())
	assert.Equal(t, 0.00390625, r.Float64())
	require.NoError(t, r.Err())
}
