// Package packed implements fixed-width packed arrays.
//
// An Array stores n elements as n codes of Codec.BitWidth bits each,
// concatenated in a bitvector: element i occupies bits [i*w, (i+1)*w), most
// significant code bit first.
package packed

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"math"

	"github.com/hupe1980/bernoulli/binio"
	"github.com/hupe1980/bernoulli/bitvector"
)

var (
	// ErrIndexOutOfRange is returned for an element index outside [0, Len).
	ErrIndexOutOfRange = errors.New("packed: index out of range")
	// ErrInvalidArgument is returned for values or sizes a codec cannot represent.
	ErrInvalidArgument = errors.New("packed: invalid argument")
)

const (
	magic   = "pa"
	version = 1
)

// Array is a packed array of T.
type Array[T any] struct {
	bits  *bitvector.BitVector
	codec Codec[T]
	n     int
}

// New returns an array of n zero codes.
func New[T any](n int, codec Codec[T]) (*Array[T], error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: length %d", ErrInvalidArgument, n)
	}
	w := codec.BitWidth()
	if uint64(n)*uint64(w) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d elements of %d bits", ErrInvalidArgument, n, w)
	}
	bits, err := bitvector.New(n * w)
	if err != nil {
		return nil, err
	}
	return &Array[T]{bits: bits, codec: codec, n: n}, nil
}

// FromSlice returns an array holding values. Nothing is built if any value
// cannot be encoded.
func FromSlice[T any](values []T, codec Codec[T]) (*Array[T], error) {
	codes := make([]uint64, len(values))
	for i, v := range values {
		c, err := codec.Encode(v)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		codes[i] = c
	}
	return fromCodes(codes, codec)
}

// FromSeq returns an array holding the values yielded by seq.
func FromSeq[T any](seq iter.Seq[T], codec Codec[T]) (*Array[T], error) {
	var codes []uint64
	i := 0
	for v := range seq {
		c, err := codec.Encode(v)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		codes = append(codes, c)
		i++
	}
	return fromCodes(codes, codec)
}

func fromCodes[T any](codes []uint64, codec Codec[T]) (*Array[T], error) {
	a, err := New(len(codes), codec)
	if err != nil {
		return nil, err
	}
	w := codec.BitWidth()
	for i, c := range codes {
		if err := a.bits.PutUint(i*w, w, c); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Len returns the number of elements.
func (a *Array[T]) Len() int { return a.n }

// Codec returns the element codec.
func (a *Array[T]) Codec() Codec[T] { return a.codec }

// Bits returns a copy of the underlying bit vector.
func (a *Array[T]) Bits() *bitvector.BitVector { return a.bits.Clone() }

// SizeBytes returns the number of bytes used by the packed codes.
func (a *Array[T]) SizeBytes() int { return a.bits.ByteLen() }

func (a *Array[T]) check(i int) error {
	if i < 0 || i >= a.n {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, a.n)
	}
	return nil
}

// Code returns the raw code stored at i.
func (a *Array[T]) Code(i int) (uint64, error) {
	if err := a.check(i); err != nil {
		return 0, err
	}
	w := a.codec.BitWidth()
	return a.bits.Uint(i*w, w)
}

// Get returns the element at i.
func (a *Array[T]) Get(i int) (T, error) {
	c, err := a.Code(i)
	if err != nil {
		var zero T
		return zero, err
	}
	return a.codec.Decode(c), nil
}

// Set stores v at i. The array is unchanged if v cannot be encoded.
func (a *Array[T]) Set(i int, v T) error {
	if err := a.check(i); err != nil {
		return err
	}
	c, err := a.codec.Encode(v)
	if err != nil {
		return err
	}
	w := a.codec.BitWidth()
	return a.bits.PutUint(i*w, w, c)
}

// All iterates over index/element pairs in order.
func (a *Array[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		w := a.codec.BitWidth()
		for i := 0; i < a.n; i++ {
			c, _ := a.bits.Uint(i*w, w)
			if !yield(i, a.codec.Decode(c)) {
				return
			}
		}
	}
}

// Equal reports whether a and o have the same length, code width and codes.
// Codecs of equal width are assumed to be interchangeable.
func (a *Array[T]) Equal(o *Array[T]) bool {
	if a == o {
		return true
	}
	if a == nil || o == nil {
		return false
	}
	return a.n == o.n &&
		a.codec.BitWidth() == o.codec.BitWidth() &&
		a.bits.Equal(o.bits)
}

// WriteTo writes the array as: header "pa", version 1, codec descriptor, bit
// vector.
func (a *Array[T]) WriteTo(w io.Writer) (int64, error) {
	bw := binio.NewWriter(w)
	bw.Header(magic, version)
	if _, err := a.codec.WriteTo(bw); err != nil {
		return bw.N(), err
	}
	if _, err := a.bits.WriteTo(bw); err != nil {
		return bw.N(), err
	}
	return bw.N(), bw.Err()
}

// Read decodes an array. readCodec reconstructs the codec from its
// descriptor before the codes are read.
func Read[T any](r io.Reader, readCodec ReadCodecFunc[T]) (*Array[T], error) {
	br := binio.NewReader(r)
	br.ExpectHeader(magic, version)
	if err := br.Err(); err != nil {
		return nil, fmt.Errorf("packed: %w", err)
	}

	codec, err := readCodec(br)
	if err != nil {
		return nil, err
	}

	bits, err := bitvector.Read(br)
	if err != nil {
		return nil, err
	}

	w := codec.BitWidth()
	if w <= 0 || bits.Len()%w != 0 {
		return nil, fmt.Errorf("%w: packed: %d bits is not a multiple of width %d", binio.ErrFormat, bits.Len(), w)
	}
	return &Array[T]{bits: bits, codec: codec, n: bits.Len() / w}, nil
}
