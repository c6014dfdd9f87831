package bernoulli

import "github.com/hupe1980/bernoulli/interval"

// EmptySet contains nothing. It is the identity of union.
type EmptySet[T any] struct{}

// Contains always returns false.
func (EmptySet[T]) Contains(T) bool { return false }

// Cardinality returns 0.
func (EmptySet[T]) Cardinality() (float64, bool) { return 0, true }

// FalsePositiveRate returns [0, 0].
func (EmptySet[T]) FalsePositiveRate() interval.Interval { return interval.Zero }

// FalseNegativeRate returns [0, 0].
func (EmptySet[T]) FalseNegativeRate() interval.Interval { return interval.Zero }

// Equal reports whether other is an EmptySet.
func (EmptySet[T]) Equal(other Set[T]) bool {
	_, ok := other.(EmptySet[T])
	return ok
}

func (EmptySet[T]) String() string { return "∅" }

// UniversalSet contains every value. It is the identity of intersection.
type UniversalSet[T any] struct{}

// Contains always returns true.
func (UniversalSet[T]) Contains(T) bool { return true }

// Cardinality is undefined.
func (UniversalSet[T]) Cardinality() (float64, bool) { return 0, false }

// FalsePositiveRate returns [0, 0].
func (UniversalSet[T]) FalsePositiveRate() interval.Interval { return interval.Zero }

// FalseNegativeRate returns [0, 0].
func (UniversalSet[T]) FalseNegativeRate() interval.Interval { return interval.Zero }

// Equal reports whether other is a UniversalSet.
func (UniversalSet[T]) Equal(other Set[T]) bool {
	_, ok := other.(UniversalSet[T])
	return ok
}

func (UniversalSet[T]) String() string { return "U" }
