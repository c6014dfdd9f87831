package bernoulli

import (
	"fmt"

	"github.com/hupe1980/bernoulli/interval"
)

// Set is an approximate set over values of type T.
//
// Implementations are immutable once constructed and safe for concurrent use.
type Set[T any] interface {
	// Contains reports whether x is (probably) a member.
	Contains(x T) bool

	// Cardinality returns the number of members. ok is false when the
	// cardinality is not tracked or not defined.
	Cardinality() (n float64, ok bool)

	// FalsePositiveRate bounds the probability that a non-member is reported present.
	FalsePositiveRate() interval.Interval

	// FalseNegativeRate bounds the probability that a member is reported absent.
	FalseNegativeRate() interval.Interval

	// Equal reports structural equality.
	Equal(other Set[T]) bool
}

// TruePositiveRate returns 1 - FalseNegativeRate.
func TruePositiveRate[T any](s Set[T]) interval.Interval {
	return s.FalseNegativeRate().Complement()
}

// TrueNegativeRate returns 1 - FalsePositiveRate.
func TrueNegativeRate[T any](s Set[T]) interval.Interval {
	return s.FalsePositiveRate().Complement()
}

// Either holds a value of type A or a value of type B.
type Either[A, B any] struct {
	left    A
	right   B
	isRight bool
}

// Left wraps a as the left alternative.
func Left[A, B any](a A) Either[A, B] {
	return Either[A, B]{left: a}
}

// Right wraps b as the right alternative.
func Right[A, B any](b B) Either[A, B] {
	return Either[A, B]{right: b, isRight: true}
}

// IsLeft reports whether e holds an A.
func (e Either[A, B]) IsLeft() bool { return !e.isRight }

// Left returns the A value and whether e holds one.
func (e Either[A, B]) Left() (A, bool) { return e.left, !e.isRight }

// Right returns the B value and whether e holds one.
func (e Either[A, B]) Right() (B, bool) { return e.right, e.isRight }

func (e Either[A, B]) String() string {
	if e.isRight {
		return fmt.Sprintf("Right(%v)", e.right)
	}
	return fmt.Sprintf("Left(%v)", e.left)
}

// Pair is an ordered pair.
type Pair[A, B any] struct {
	First  A
	Second B
}

// MakePair returns the pair (a, b).
func MakePair[A, B any](a A, b B) Pair[A, B] {
	return Pair[A, B]{First: a, Second: b}
}

// Swap returns (Second, First).
func (p Pair[A, B]) Swap() Pair[B, A] {
	return Pair[B, A]{First: p.Second, Second: p.First}
}

func (p Pair[A, B]) String() string {
	return fmt.Sprintf("(%v, %v)", p.First, p.Second)
}

func setString(s any) string {
	if st, ok := s.(fmt.Stringer); ok {
		return st.String()
	}
	return fmt.Sprintf("%T", s)
}
