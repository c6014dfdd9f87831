package bitvector

import (
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/bernoulli/binio"
)

const (
	magic   = "ba"
	version = 1
)

// WriteTo writes v as: header "ba", version 1, varint bit length, raw bytes.
func (v *BitVector) WriteTo(w io.Writer) (int64, error) {
	if uint64(v.n) > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %d bits do not fit the format", ErrInvalidLength, v.n)
	}
	bw := binio.NewWriter(w)
	bw.Header(magic, version)
	bw.VarU32(uint32(v.n))
	bw.Raw(v.data)
	return bw.N(), bw.Err()
}

// ReadFrom replaces v with a vector decoded from r. It consumes exactly the
// encoded bytes.
func (v *BitVector) ReadFrom(r io.Reader) (int64, error) {
	br := binio.NewReader(r)
	br.ExpectHeader(magic, version)
	n := int(br.VarU32())
	if err := br.Err(); err != nil {
		return br.N(), fmt.Errorf("bitvector: %w", err)
	}
	data := br.Bytes(byteLen(n))
	if err := br.Err(); err != nil {
		return br.N(), fmt.Errorf("bitvector: %w", err)
	}
	v.data, v.n = data, n
	v.clearPadding()
	return br.N(), nil
}

// Read decodes a vector from r.
func Read(r io.Reader) (*BitVector, error) {
	v := new(BitVector)
	if _, err := v.ReadFrom(r); err != nil {
		return nil, err
	}
	return v, nil
}
