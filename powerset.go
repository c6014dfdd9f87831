package bernoulli

import (
	"fmt"
	"math"

	"github.com/hupe1980/bernoulli/interval"
)

// PowerSet is the set of all subsets of A. A candidate subset is given as a
// slice of elements.
//
// Like CartesianProduct it reports [0, 0] error rates.
type PowerSet[T any] struct {
	base Set[T]
}

// NewPowerSet returns the power set node of a.
func NewPowerSet[T any](a Set[T]) *PowerSet[T] {
	return &PowerSet[T]{base: a}
}

// Base returns A.
func (p *PowerSet[T]) Base() Set[T] { return p.base }

// Contains reports whether every element of s is in A. The empty slice is
// always contained.
func (p *PowerSet[T]) Contains(s []T) bool {
	for _, x := range s {
		if !p.base.Contains(x) {
			return false
		}
	}
	return true
}

// Cardinality returns 2^|A| when |A| is known.
func (p *PowerSet[T]) Cardinality() (float64, bool) {
	n, ok := p.base.Cardinality()
	if !ok {
		return 0, false
	}
	return math.Exp2(n), true
}

// FalsePositiveRate returns [0, 0].
func (p *PowerSet[T]) FalsePositiveRate() interval.Interval { return interval.Zero }

// FalseNegativeRate returns [0, 0].
func (p *PowerSet[T]) FalseNegativeRate() interval.Interval { return interval.Zero }

// Equal reports structural equality.
func (p *PowerSet[T]) Equal(other Set[[]T]) bool {
	o, ok := other.(*PowerSet[T])
	if !ok {
		return false
	}
	return p.base.Equal(o.base)
}

func (p *PowerSet[T]) String() string {
	return fmt.Sprintf("P(%s)", setString(p.base))
}
