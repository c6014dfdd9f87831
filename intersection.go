package bernoulli

import (
	"fmt"

	"github.com/hupe1980/bernoulli/interval"
)

// Intersection is the approximate set A ∩ B.
type Intersection[T any] struct {
	a, b Set[T]
}

// NewIntersection returns the intersection node of a and b without
// simplification. Use MakeIntersection to apply the identities of ∅ and U.
func NewIntersection[T any](a, b Set[T]) *Intersection[T] {
	return &Intersection[T]{a: a, b: b}
}

// Operands returns A and B.
func (s *Intersection[T]) Operands() (Set[T], Set[T]) { return s.a, s.b }

// Contains reports whether x is in both A and B.
func (s *Intersection[T]) Contains(x T) bool {
	return s.a.Contains(x) && s.b.Contains(x)
}

// Cardinality is not tracked for intersections.
func (s *Intersection[T]) Cardinality() (float64, bool) { return 0, false }

// FalsePositiveRate encloses fprA·fprB (a non-member of both passes both
// operands) and fprA·(1-fnrB), fprB·(1-fnrA) (a member of one operand passes
// the other by error). It never exceeds max(fprA, fprB).
func (s *Intersection[T]) FalsePositiveRate() interval.Interval {
	fpA, fpB := s.a.FalsePositiveRate(), s.b.FalsePositiveRate()
	fnA, fnB := s.a.FalseNegativeRate(), s.b.FalseNegativeRate()
	return interval.Span(
		fpA.Mul(fpB),
		interval.Span(fpA.Mul(fnB.Complement()), fpB.Mul(fnA.Complement())),
	)
}

// FalseNegativeRate returns 1 - (1-fnrA)(1-fnrB): a member is lost when
// either operand misses it.
func (s *Intersection[T]) FalseNegativeRate() interval.Interval {
	fa, fb := s.a.FalseNegativeRate(), s.b.FalseNegativeRate()
	return fa.Complement().Mul(fb.Complement()).Complement()
}

// Equal reports whether other is an intersection of equal operands in the
// same order.
func (s *Intersection[T]) Equal(other Set[T]) bool {
	o, ok := other.(*Intersection[T])
	if !ok {
		return false
	}
	return s.a.Equal(o.a) && s.b.Equal(o.b)
}

func (s *Intersection[T]) String() string {
	return fmt.Sprintf("(%s ∩ %s)", setString(s.a), setString(s.b))
}
