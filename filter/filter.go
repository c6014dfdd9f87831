// Package filter implements the rate-distorted filter, an approximate set
// built from a perfect hash and a packed array of truncated hash codes.
//
// Building maps every key to its own slot with a perfect hash and stores the
// low k bits of the key's hash there. A query hashes the candidate, looks up
// its slot and compares codes:
//
//   - a non-member matches with probability 2^-k (false positive);
//   - a member is missed only if the perfect hash gave its slot to another
//     key (false negative, bounded by the handle's error rate).
//
// Filters are immutable after Build and safe for concurrent readers.
package filter

import (
	"fmt"
	"io"
	"iter"
	"math"
	"slices"
	"time"

	"github.com/hupe1980/bernoulli"
	"github.com/hupe1980/bernoulli/binio"
	"github.com/hupe1980/bernoulli/codec"
	"github.com/hupe1980/bernoulli/interval"
	"github.com/hupe1980/bernoulli/packed"
	"github.com/hupe1980/bernoulli/perfecthash"
)

const (
	magic   = "rdf"
	version = 1
)

// Filter is a rate-distorted filter over values of type T.
type Filter[T any] struct {
	handle perfecthash.Handle
	codes  *packed.Array[uint64]
	key    codec.KeyFunc[T]
	hash   HashFunc
	bits   int
}

var _ bernoulli.Set[string] = (*Filter[string])(nil)

// New builds a filter over keys.
func New[T any](keys []T, key codec.KeyFunc[T], optFns ...Option) (*Filter[T], error) {
	return Build(slices.Values(keys), key, optFns...)
}

// Build builds a filter over the values yielded by seq.
func Build[T any](seq iter.Seq[T], key codec.KeyFunc[T], optFns ...Option) (*Filter[T], error) {
	if key == nil {
		return nil, fmt.Errorf("%w: nil key function", bernoulli.ErrInvalidArgument)
	}
	opts, err := applyOptions(optFns)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	f, err := build(seq, key, opts)
	took := time.Since(start)

	keys := 0
	var slots uint32
	var rate float64
	if f != nil {
		keys, slots, rate = f.handle.Keys(), f.handle.Range(), f.handle.ErrorRate()
	}
	opts.logger.LogBuild(keys, slots, opts.bits, rate, took, err)
	opts.metrics.RecordBuild(keys, took, err)

	return f, err
}

func build[T any](seq iter.Seq[T], key codec.KeyFunc[T], opts options) (*Filter[T], error) {
	var encoded [][]byte
	for x := range seq {
		k, err := key(x)
		if err != nil {
			return nil, fmt.Errorf("%w: filter: encode key: %w", bernoulli.ErrInvalidArgument, err)
		}
		encoded = append(encoded, k)
	}

	handle, err := opts.provider.Build(encoded)
	if err != nil {
		return nil, fmt.Errorf("filter: perfect hash: %w", err)
	}

	uc, err := packed.NewUintCodec(opts.bits)
	if err != nil {
		return nil, err
	}
	codes, err := packed.New(int(handle.Range()), packed.Codec[uint64](uc))
	if err != nil {
		return nil, err
	}

	mask := truncMask(opts.bits)
	if handle.Range() > 0 {
		for _, k := range encoded {
			if err := codes.Set(int(handle.Slot(k)), opts.hash(k)&mask); err != nil {
				return nil, err
			}
		}
	}

	return &Filter[T]{
		handle: handle,
		codes:  codes,
		key:    key,
		hash:   opts.hash,
		bits:   opts.bits,
	}, nil
}

func truncMask(bits int) uint64 {
	if bits >= 64 {
		return math.MaxUint64
	}
	return 1<<uint(bits) - 1
}

// Contains reports whether x is probably a member. A value that fails to
// encode is never a member.
func (f *Filter[T]) Contains(x T) bool {
	if f.handle.Range() == 0 {
		return false
	}
	k, err := f.key(x)
	if err != nil {
		return false
	}
	code, err := f.codes.Code(int(f.handle.Slot(k)))
	if err != nil {
		return false
	}
	return code == f.hash(k)&truncMask(f.bits)
}

// Cardinality returns the number of distinct keys the filter was built from.
func (f *Filter[T]) Cardinality() (float64, bool) {
	return float64(f.handle.Keys()), true
}

// FalsePositiveRate returns 2^-bits.
func (f *Filter[T]) FalsePositiveRate() interval.Interval {
	return interval.Point(f.fpr())
}

// FalseNegativeRate returns the handle's collision rate, discounted by the
// chance that a colliding key still matches the stored code.
func (f *Filter[T]) FalseNegativeRate() interval.Interval {
	return interval.Point(f.handle.ErrorRate() * (1 - f.fpr()))
}

func (f *Filter[T]) fpr() float64 {
	return math.Exp2(-float64(f.bits))
}

// Bits returns the truncated hash width.
func (f *Filter[T]) Bits() int { return f.bits }

// Handle returns the perfect hash handle.
func (f *Filter[T]) Handle() perfecthash.Handle { return f.handle }

// SizeBytes returns the serialized size of the filter.
func (f *Filter[T]) SizeBytes() int {
	n, _ := f.WriteTo(io.Discard)
	return int(n)
}

// Equal reports whether other is a filter with the same width, an equal
// handle and the same codes.
func (f *Filter[T]) Equal(other bernoulli.Set[T]) bool {
	o, ok := other.(*Filter[T])
	if !ok {
		return false
	}
	if f == o {
		return true
	}
	return f.bits == o.bits && f.handle.Equal(o.handle) && f.codes.Equal(o.codes)
}

func (f *Filter[T]) String() string {
	return fmt.Sprintf("filter(n=%d, m=%d, k=%d)", f.handle.Keys(), f.handle.Range(), f.bits)
}

// WriteTo writes the filter as: header "rdf", version 1, perfect hash
// handle, packed codes. The key and hash functions are not written.
func (f *Filter[T]) WriteTo(w io.Writer) (int64, error) {
	bw := binio.NewWriter(w)
	bw.Header(magic, version)
	if _, err := f.handle.WriteTo(bw); err != nil {
		return bw.N(), err
	}
	if _, err := f.codes.WriteTo(bw); err != nil {
		return bw.N(), err
	}
	return bw.N(), bw.Err()
}

// Read decodes a filter. The handle is decoded by the configured provider;
// key and hash function must match the ones used to build the filter.
func Read[T any](r io.Reader, key codec.KeyFunc[T], optFns ...Option) (*Filter[T], error) {
	if key == nil {
		return nil, fmt.Errorf("%w: nil key function", bernoulli.ErrInvalidArgument)
	}
	opts, err := applyOptions(optFns)
	if err != nil {
		return nil, err
	}

	br := binio.NewReader(r)
	br.ExpectHeader(magic, version)
	if err := br.Err(); err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}

	handle, err := opts.provider.ReadHandle(br)
	if err != nil {
		return nil, err
	}
	codes, err := packed.Read(br, packed.ReadUintCodec)
	if err != nil {
		return nil, err
	}

	if uint64(codes.Len()) != uint64(handle.Range()) {
		return nil, fmt.Errorf("%w: filter: %d codes for %d slots", binio.ErrFormat, codes.Len(), handle.Range())
	}

	return &Filter[T]{
		handle: handle,
		codes:  codes,
		key:    key,
		hash:   opts.hash,
		bits:   codes.Codec().BitWidth(),
	}, nil
}
