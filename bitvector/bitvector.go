// Package bitvector implements a resizable, byte-packed bit vector.
//
// Bit i lives in byte i/8 under mask 0x80>>(i%8): index 0 is the most
// significant bit of the first byte. Padding bits past Len are always zero
// after a whole-vector mutation, so Bytes, Hex, Count and Equal never observe
// them.
//
// "Left" shifts move bits towards index 0 and "right" shifts towards Len-1.
// Bits shifted past either end are discarded; vacated positions read zero.
package bitvector

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

var (
	// ErrIndexOutOfRange is returned for a bit index outside [0, Len).
	ErrIndexOutOfRange = errors.New("bitvector: index out of range")
	// ErrSizeMismatch is returned when two vectors of different length are combined.
	ErrSizeMismatch = errors.New("bitvector: size mismatch")
	// ErrInvalidLength is returned for a negative length.
	ErrInvalidLength = errors.New("bitvector: invalid length")
	// ErrInvalidWidth is returned for a field width outside [0, 64].
	ErrInvalidWidth = errors.New("bitvector: invalid field width")
)

// BitVector is a fixed-length sequence of bits.
//
// The zero value is an empty vector. A BitVector is not safe for concurrent
// mutation; concurrent reads are safe.
type BitVector struct {
	data []byte
	n    int
}

func byteLen(n int) int { return (n + 7) / 8 }

func mask(i int) byte { return 0x80 >> (i % 8) }

// New returns a vector of n zero bits.
func New(n int) (*BitVector, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}
	return &BitVector{data: make([]byte, byteLen(n)), n: n}, nil
}

// FromBytes returns an n-bit vector initialized from a copy of data.
// Padding bits in the last byte are cleared.
func FromBytes(data []byte, n int) (*BitVector, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}
	if len(data) < byteLen(n) {
		return nil, fmt.Errorf("%w: %d bits need %d bytes, got %d", ErrSizeMismatch, n, byteLen(n), len(data))
	}
	v := &BitVector{data: make([]byte, byteLen(n)), n: n}
	copy(v.data, data)
	v.clearPadding()
	return v, nil
}

// Len returns the number of bits.
func (v *BitVector) Len() int { return v.n }

// ByteLen returns the number of bytes backing the vector.
func (v *BitVector) ByteLen() int { return len(v.data) }

func (v *BitVector) check(i int) error {
	if i < 0 || i >= v.n {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, v.n)
	}
	return nil
}

// Get returns bit i.
func (v *BitVector) Get(i int) (bool, error) {
	if err := v.check(i); err != nil {
		return false, err
	}
	return v.data[i/8]&mask(i) != 0, nil
}

// Test returns bit i and false for any index out of range.
func (v *BitVector) Test(i int) bool {
	if i < 0 || i >= v.n {
		return false
	}
	return v.data[i/8]&mask(i) != 0
}

// Set assigns bit i.
func (v *BitVector) Set(i int, b bool) error {
	if err := v.check(i); err != nil {
		return err
	}
	if b {
		v.data[i/8] |= mask(i)
	} else {
		v.data[i/8] &^= mask(i)
	}
	return nil
}

// Negate flips bit i.
func (v *BitVector) Negate(i int) error {
	if err := v.check(i); err != nil {
		return err
	}
	v.data[i/8] ^= mask(i)
	return nil
}

// SetAll sets every bit.
func (v *BitVector) SetAll() {
	for i := range v.data {
		v.data[i] = 0xff
	}
	v.clearPadding()
}

// ClearAll clears every bit.
func (v *BitVector) ClearAll() {
	clear(v.data)
}

// NegateAll flips every bit.
func (v *BitVector) NegateAll() {
	for i := range v.data {
		v.data[i] = ^v.data[i]
	}
	v.clearPadding()
}

// And sets v to v AND o.
func (v *BitVector) And(o *BitVector) error {
	if err := v.sameLen(o); err != nil {
		return err
	}
	for i := range v.data {
		v.data[i] &= o.data[i]
	}
	return nil
}

// Or sets v to v OR o.
func (v *BitVector) Or(o *BitVector) error {
	if err := v.sameLen(o); err != nil {
		return err
	}
	for i := range v.data {
		v.data[i] |= o.data[i]
	}
	return nil
}

// Xor sets v to v XOR o.
func (v *BitVector) Xor(o *BitVector) error {
	if err := v.sameLen(o); err != nil {
		return err
	}
	for i := range v.data {
		v.data[i] ^= o.data[i]
	}
	return nil
}

func (v *BitVector) sameLen(o *BitVector) error {
	if v.n != o.n {
		return fmt.Errorf("%w: %d != %d", ErrSizeMismatch, v.n, o.n)
	}
	return nil
}

// ShiftLeft moves every bit s positions towards index 0.
// A negative s shifts right by -s.
func (v *BitVector) ShiftLeft(s int) {
	switch {
	case s < 0:
		v.ShiftRight(-s)
		return
	case s == 0:
		return
	case s >= v.n:
		v.ClearAll()
		return
	}

	nb := len(v.data)
	if whole := s / 8; whole > 0 {
		copy(v.data, v.data[whole:])
		clear(v.data[nb-whole:])
	}

	if r := uint(s % 8); r > 0 {
		for j := 0; j < nb-1; j++ {
			v.data[j] = v.data[j]<<r | v.data[j+1]>>(8-r)
		}
		v.data[nb-1] <<= r
	}
}

// ShiftRight moves every bit s positions towards Len-1.
// A negative s shifts left by -s.
func (v *BitVector) ShiftRight(s int) {
	switch {
	case s < 0:
		v.ShiftLeft(-s)
		return
	case s == 0:
		return
	case s >= v.n:
		v.ClearAll()
		return
	}

	nb := len(v.data)
	if whole := s / 8; whole > 0 {
		copy(v.data[whole:], v.data[:nb-whole])
		clear(v.data[:whole])
	}

	if r := uint(s % 8); r > 0 {
		for j := nb - 1; j > 0; j-- {
			v.data[j] = v.data[j]>>r | v.data[j-1]<<(8-r)
		}
		v.data[0] >>= r
	}
	v.clearPadding()
}

// Resize changes the length to n. Bits below min(Len, n) are kept and new
// bits are zero.
func (v *BitVector) Resize(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}
	nb := byteLen(n)
	if nb <= cap(v.data) {
		old := len(v.data)
		v.data = v.data[:nb]
		if nb > old {
			clear(v.data[old:])
		}
	} else {
		data := make([]byte, nb)
		copy(data, v.data)
		v.data = data
	}
	v.n = n
	v.clearPadding()
	return nil
}

// Uint reads the width-bit field starting at bit i, most significant bit
// first.
func (v *BitVector) Uint(i, width int) (uint64, error) {
	if err := v.checkField(i, width); err != nil {
		return 0, err
	}
	var x uint64
	for width > 0 {
		off := i % 8
		take := min(8-off, width)
		b := v.data[i/8] << off >> (8 - take)
		x = x<<take | uint64(b)
		i += take
		width -= take
	}
	return x, nil
}

// PutUint writes the low width bits of x into the field starting at bit i,
// most significant bit first.
func (v *BitVector) PutUint(i, width int, x uint64) error {
	if err := v.checkField(i, width); err != nil {
		return err
	}
	for width > 0 {
		off := i % 8
		take := min(8-off, width)
		shift := 8 - off - take
		m := byte(0xff>>(8-take)) << shift
		b := byte(x>>(width-take)) << shift
		v.data[i/8] = v.data[i/8]&^m | b&m
		i += take
		width -= take
	}
	return nil
}

func (v *BitVector) checkField(i, width int) error {
	if width < 0 || width > 64 {
		return fmt.Errorf("%w: %d", ErrInvalidWidth, width)
	}
	if i < 0 || i > v.n-width {
		return fmt.Errorf("%w: field [%d, %d) not in [0, %d)", ErrIndexOutOfRange, i, i+width, v.n)
	}
	return nil
}

// Count returns the number of set bits.
func (v *BitVector) Count() int {
	c := 0
	for _, b := range v.data {
		c += bits.OnesCount8(b)
	}
	return c
}

// Equal reports whether v and o have the same length and bits.
func (v *BitVector) Equal(o *BitVector) bool {
	if v == o {
		return true
	}
	if v == nil || o == nil || v.n != o.n {
		return false
	}
	for i := range v.data {
		if v.data[i] != o.data[i] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of v.
func (v *BitVector) Clone() *BitVector {
	data := make([]byte, len(v.data))
	copy(data, v.data)
	return &BitVector{data: data, n: v.n}
}

// Bytes returns a copy of the backing bytes.
func (v *BitVector) Bytes() []byte {
	data := make([]byte, len(v.data))
	copy(data, v.data)
	return data
}

// String renders the bits as 0/1 in groups of eight separated by spaces.
func (v *BitVector) String() string {
	var sb strings.Builder
	sb.Grow(v.n + v.n/8)
	for i := 0; i < v.n; i++ {
		if i > 0 && i%8 == 0 {
			sb.WriteByte(' ')
		}
		if v.data[i/8]&mask(i) != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Hex renders the backing bytes as space separated two-digit hex.
func (v *BitVector) Hex() string {
	var sb strings.Builder
	for i, b := range v.data {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02x", b)
	}
	return sb.String()
}

func (v *BitVector) clearPadding() {
	if r := v.n % 8; r != 0 {
		v.data[len(v.data)-1] &= byte(0xff << (8 - r))
	}
}
