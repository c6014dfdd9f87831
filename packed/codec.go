package packed

import (
	"fmt"
	"io"

	"github.com/hupe1980/bernoulli/binio"
)

// Codec maps values of T to fixed-width codes.
//
// Encode must reject values that cannot be represented in BitWidth bits;
// Decode(Encode(v)) must return v. WriteTo writes a self-describing
// descriptor so the codec can be reconstructed before the codes are read.
type Codec[T any] interface {
	BitWidth() int
	Encode(v T) (uint64, error)
	Decode(code uint64) T
	WriteTo(w io.Writer) (int64, error)
}

// ReadCodecFunc reconstructs a codec from its descriptor.
type ReadCodecFunc[T any] func(r io.Reader) (Codec[T], error)

const (
	uintCodecMagic   = "cnn"
	uintCodecVersion = 1
)

// UintCodec stores natural numbers below 2^width verbatim.
type UintCodec struct {
	width int
}

var _ Codec[uint64] = UintCodec{}

// NewUintCodec returns a codec for values in [0, 2^width). width must be in
// [1, 64].
func NewUintCodec(width int) (UintCodec, error) {
	if width < 1 || width > 64 {
		return UintCodec{}, fmt.Errorf("%w: codec width %d not in [1, 64]", ErrInvalidArgument, width)
	}
	return UintCodec{width: width}, nil
}

// BitWidth returns the code width in bits.
func (c UintCodec) BitWidth() int { return c.width }

// Max returns the largest encodable value.
func (c UintCodec) Max() uint64 {
	if c.width == 64 {
		return ^uint64(0)
	}
	return 1<<c.width - 1
}

// Encode returns v or ErrInvalidArgument if v needs more than BitWidth bits.
func (c UintCodec) Encode(v uint64) (uint64, error) {
	if v > c.Max() {
		return 0, fmt.Errorf("%w: %d exceeds %d-bit codec", ErrInvalidArgument, v, c.width)
	}
	return v, nil
}

// Decode returns code.
func (c UintCodec) Decode(code uint64) uint64 { return code }

// WriteTo writes the descriptor: header "cnn", version 1, u8 width.
func (c UintCodec) WriteTo(w io.Writer) (int64, error) {
	bw := binio.NewWriter(w)
	bw.Header(uintCodecMagic, uintCodecVersion)
	bw.U8(uint8(c.width))
	return bw.N(), bw.Err()
}

func (c UintCodec) String() string {
	return fmt.Sprintf("uint%d", c.width)
}

// ReadUintCodec reads a UintCodec descriptor.
func ReadUintCodec(r io.Reader) (Codec[uint64], error) {
	br := binio.NewReader(r)
	br.ExpectHeader(uintCodecMagic, uintCodecVersion)
	width := br.U8()
	if err := br.Err(); err != nil {
		return nil, fmt.Errorf("packed: codec: %w", err)
	}
	c, err := NewUintCodec(int(width))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", binio.ErrFormat, err)
	}
	return c, nil
}
