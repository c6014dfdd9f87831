package codec

import (
	"errors"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type color int

func (c color) String() string {
	return [...]string{"red", "green", "blue"}[c]
}

var errBoom = errors.New("boom")

type badMarshaler struct{}

func (badMarshaler) MarshalBinary() ([]byte, error) { return nil, errBoom }

func encode[T any](t *testing.T, fn KeyFunc[T], v T) []byte {
	t.Helper()
	k, err := fn(v)
	require.NoError(t, err)
	return k
}

func TestScalarKeys(t *testing.T) {
	assert.Equal(t, []byte("abc"), encode(t, String(), "abc"))
	assert.Equal(t, []byte{1, 2}, encode(t, Bytes(), []byte{1, 2}))
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 1, 2}, encode(t, Uint64(), 258))
	assert.Equal(t, []byte{0, 0, 1, 2}, encode(t, Uint32(), 258))
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, encode(t, Int64(), -1))
	assert.Equal(t, encode(t, Int64(), -7), encode(t, Int(), -7))
}

func TestStringerAndBinary(t *testing.T) {
	assert.Equal(t, []byte("green"), encode(t, Stringer[color](), 1))

	addr := netip.MustParseAddr("10.0.0.1")
	assert.Equal(t, []byte{10, 0, 0, 1}, encode(t, Binary[netip.Addr](), addr))
}

func TestBinaryError(t *testing.T) {
	k, err := Binary[badMarshaler]()(badMarshaler{})
	assert.ErrorIs(t, err, errBoom)
	assert.Nil(t, k)

	_, err = Prefixed("p:", Binary[badMarshaler]())(badMarshaler{})
	assert.ErrorIs(t, err, errBoom)
}

func TestJSON(t *testing.T) {
	type point struct {
		X, Y int
	}
	key := JSON[point]()
	assert.Equal(t, []byte(`{"X":1,"Y":2}`), encode(t, key, point{1, 2}))

	m := JSON[map[string]int]()
	assert.Equal(t, []byte(`{"a":1,"b":2}`), encode(t, m, map[string]int{"b": 2, "a": 1}))

	_, err := JSON[chan int]()(make(chan int))
	assert.Error(t, err)
}

func TestPrefixed(t *testing.T) {
	key := Prefixed("user:", String())
	assert.Equal(t, []byte("user:bob"), encode(t, key, "bob"))
	assert.NotEqual(t, encode(t, key, "bob"), encode(t, Prefixed("group:", String()), "bob"))
}

func TestFunc(t *testing.T) {
	key := Func(func(b bool) []byte {
		if b {
			return []byte{1}
		}
		return []byte{0}
	})
	assert.Equal(t, []byte{1}, encode(t, key, true))
}
