package bernoulli

import (
	"fmt"

	"github.com/hupe1980/bernoulli/interval"
)

// Union is the approximate set A ∪ B.
type Union[T any] struct {
	a, b Set[T]
}

// NewUnion returns the union node of a and b without simplification.
// Use MakeUnion to apply the identities of ∅ and U.
func NewUnion[T any](a, b Set[T]) *Union[T] {
	return &Union[T]{a: a, b: b}
}

// Operands returns A and B.
func (u *Union[T]) Operands() (Set[T], Set[T]) { return u.a, u.b }

// Contains reports whether x is in A or in B.
func (u *Union[T]) Contains(x T) bool {
	return u.a.Contains(x) || u.b.Contains(x)
}

// Cardinality is not tracked for unions.
func (u *Union[T]) Cardinality() (float64, bool) { return 0, false }

// FalsePositiveRate returns 1 - (1-fprA)(1-fprB).
func (u *Union[T]) FalsePositiveRate() interval.Interval {
	fa, fb := u.a.FalsePositiveRate(), u.b.FalsePositiveRate()
	return fa.Complement().Mul(fb.Complement()).Complement()
}

// FalseNegativeRate encloses fnrA·fnrB (independent errors) and
// fnrA·(1-fprB), fnrB·(1-fprA) (one operand's miss masked by the other's hit).
func (u *Union[T]) FalseNegativeRate() interval.Interval {
	fpA, fpB := u.a.FalsePositiveRate(), u.b.FalsePositiveRate()
	fnA, fnB := u.a.FalseNegativeRate(), u.b.FalseNegativeRate()
	return interval.Span(
		fnA.Mul(fnB),
		interval.Span(fnA.Mul(fpB.Complement()), fnB.Mul(fpA.Complement())),
	)
}

// Equal reports whether other is a union of equal operands in the same order.
func (u *Union[T]) Equal(other Set[T]) bool {
	o, ok := other.(*Union[T])
	if !ok {
		return false
	}
	return u.a.Equal(o.a) && u.b.Equal(o.b)
}

func (u *Union[T]) String() string {
	return fmt.Sprintf("(%s ∪ %s)", setString(u.a), setString(u.b))
}
