package bernoulli

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/spaolacci/murmur3"

	"github.com/hupe1980/bernoulli/codec"
	"github.com/hupe1980/bernoulli/interval"
)

// RandomSet is an exact member list that answers queries with configured
// error rates: a member is reported absent with probability fnr, a
// non-member present with probability fpr.
//
// Each query's coin is derived from a salt drawn at construction and the
// key, so repeated queries for the same value agree and concurrent readers
// need no locking. Use it to model an ideal filter in tests and simulations.
type RandomSet[T any] struct {
	members map[string]struct{}
	keys    [][]byte
	key     codec.KeyFunc[T]
	fpr     float64
	fnr     float64
	salt    uint32
}

// NewRandomSet builds a RandomSet over members. rng supplies the salt.
func NewRandomSet[T any](members []T, key codec.KeyFunc[T], fpr, fnr float64, rng *rand.Rand) (*RandomSet[T], error) {
	if key == nil || rng == nil {
		return nil, fmt.Errorf("%w: key function and random source are required", ErrInvalidArgument)
	}
	if !validRate(fpr) || !validRate(fnr) {
		return nil, fmt.Errorf("%w: rates must lie in [0, 1], got fpr=%g fnr=%g", ErrInvalidArgument, fpr, fnr)
	}

	s := &RandomSet[T]{
		members: make(map[string]struct{}, len(members)),
		key:     key,
		fpr:     fpr,
		fnr:     fnr,
		salt:    rng.Uint32(),
	}
	for _, m := range members {
		k, err := key(m)
		if err != nil {
			return nil, fmt.Errorf("%w: encode key: %w", ErrInvalidArgument, err)
		}
		if _, dup := s.members[string(k)]; dup {
			continue
		}
		s.members[string(k)] = struct{}{}
		s.keys = append(s.keys, k)
	}
	slices.SortFunc(s.keys, func(a, b []byte) int { return slices.Compare(a, b) })
	return s, nil
}

func validRate(p float64) bool {
	return !math.IsNaN(p) && p >= 0 && p <= 1
}

// Contains flips the coin for x. A value that fails to encode is reported
// absent.
func (s *RandomSet[T]) Contains(x T) bool {
	k, err := s.key(x)
	if err != nil {
		return false
	}
	u := float64(murmur3.Sum64WithSeed(k, s.salt)>>11) / (1 << 53)
	if _, ok := s.members[string(k)]; ok {
		return u >= s.fnr
	}
	return u < s.fpr
}

// Cardinality returns the number of distinct members.
func (s *RandomSet[T]) Cardinality() (float64, bool) {
	return float64(len(s.keys)), true
}

// FalsePositiveRate returns the configured fpr.
func (s *RandomSet[T]) FalsePositiveRate() interval.Interval { return interval.Point(s.fpr) }

// FalseNegativeRate returns the configured fnr.
func (s *RandomSet[T]) FalseNegativeRate() interval.Interval { return interval.Point(s.fnr) }

// Equal reports whether other has the same members, rates and salt.
func (s *RandomSet[T]) Equal(other Set[T]) bool {
	o, ok := other.(*RandomSet[T])
	if !ok {
		return false
	}
	if s.fpr != o.fpr || s.fnr != o.fnr || s.salt != o.salt {
		return false
	}
	return slices.EqualFunc(s.keys, o.keys, func(a, b []byte) bool { return string(a) == string(b) })
}

func (s *RandomSet[T]) String() string {
	return fmt.Sprintf("random(n=%d, fpr=%g, fnr=%g)", len(s.keys), s.fpr, s.fnr)
}
