// Package bloomset adapts a Bloom filter to the approximate set interface.
//
// A Bloom filter has no false negatives; its false positive rate depends on
// the bits per key and the number of hash functions, and is estimated as
// (1 - e^(-kn/m))^k.
package bloomset

import (
	"fmt"
	"io"
	"math"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/hupe1980/bernoulli"
	"github.com/hupe1980/bernoulli/binio"
	"github.com/hupe1980/bernoulli/codec"
	"github.com/hupe1980/bernoulli/interval"
)

const (
	magic   = "bls"
	version = 1
)

// Set is a Bloom filter over values of type T.
type Set[T any] struct {
	f   *bloom.BloomFilter
	key codec.KeyFunc[T]
	n   uint32
}

var _ bernoulli.Set[string] = (*Set[string])(nil)

// New builds a Bloom filter over keys sized for the target false positive
// rate.
func New[T any](keys []T, key codec.KeyFunc[T], fpr float64) (*Set[T], error) {
	if key == nil {
		return nil, fmt.Errorf("%w: nil key function", bernoulli.ErrInvalidArgument)
	}
	if !(fpr > 0 && fpr < 1) {
		return nil, fmt.Errorf("%w: false positive rate %g not in (0, 1)", bernoulli.ErrInvalidArgument, fpr)
	}

	encoded := make([][]byte, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, x := range keys {
		k, err := key(x)
		if err != nil {
			return nil, fmt.Errorf("%w: bloomset: encode key: %w", bernoulli.ErrInvalidArgument, err)
		}
		if _, dup := seen[string(k)]; dup {
			continue
		}
		seen[string(k)] = struct{}{}
		encoded = append(encoded, k)
	}
	if uint64(len(encoded)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d keys", bernoulli.ErrInvalidArgument, len(encoded))
	}

	f := bloom.NewWithEstimates(uint(max(len(encoded), 1)), fpr)
	for _, k := range encoded {
		f.Add(k)
	}
	return &Set[T]{f: f, key: key, n: uint32(len(encoded))}, nil
}

// Contains reports whether x is probably a member. A value that fails to
// encode is never a member.
func (s *Set[T]) Contains(x T) bool {
	k, err := s.key(x)
	if err != nil {
		return false
	}
	return s.f.Test(k)
}

// Cardinality returns the number of distinct keys.
func (s *Set[T]) Cardinality() (float64, bool) {
	return float64(s.n), true
}

// FalsePositiveRate returns (1 - e^(-kn/m))^k.
func (s *Set[T]) FalsePositiveRate() interval.Interval {
	m, k := float64(s.f.Cap()), float64(s.f.K())
	return interval.Point(math.Pow(1-math.Exp(-k*float64(s.n)/m), k))
}

// FalseNegativeRate returns [0, 0].
func (s *Set[T]) FalseNegativeRate() interval.Interval { return interval.Zero }

// FillRatio returns the fraction of set bits.
func (s *Set[T]) FillRatio() float64 {
	return float64(s.f.BitSet().Count()) / float64(s.f.Cap())
}

// Equal reports whether other is a Bloom set with identical bits.
func (s *Set[T]) Equal(other bernoulli.Set[T]) bool {
	o, ok := other.(*Set[T])
	if !ok {
		return false
	}
	return s.n == o.n && s.f.Equal(o.f)
}

func (s *Set[T]) String() string {
	return fmt.Sprintf("bloom(n=%d, m=%d, k=%d)", s.n, s.f.Cap(), s.f.K())
}

// WriteTo writes the set as: header "bls", version 1, varint key count,
// Bloom filter.
func (s *Set[T]) WriteTo(w io.Writer) (int64, error) {
	bw := binio.NewWriter(w)
	bw.Header(magic, version)
	bw.VarU32(s.n)
	if err := bw.Err(); err != nil {
		return bw.N(), err
	}
	if _, err := s.f.WriteTo(bw); err != nil {
		return bw.N(), err
	}
	return bw.N(), bw.Err()
}

// Read decodes a set written by WriteTo.
func Read[T any](r io.Reader, key codec.KeyFunc[T]) (*Set[T], error) {
	if key == nil {
		return nil, fmt.Errorf("%w: nil key function", bernoulli.ErrInvalidArgument)
	}

	br := binio.NewReader(r)
	br.ExpectHeader(magic, version)
	n := br.VarU32()
	if err := br.Err(); err != nil {
		return nil, fmt.Errorf("bloomset: %w", err)
	}

	f := new(bloom.BloomFilter)
	if _, err := f.ReadFrom(br); err != nil {
		return nil, fmt.Errorf("%w: bloomset: %w", binio.ErrFormat, err)
	}
	if f.Cap() == 0 || f.K() == 0 {
		return nil, fmt.Errorf("%w: bloomset: empty filter", binio.ErrFormat)
	}
	return &Set[T]{f: f, key: key, n: n}, nil
}
