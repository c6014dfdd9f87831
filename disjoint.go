package bernoulli

import (
	"fmt"

	"github.com/hupe1980/bernoulli/interval"
)

// DisjointUnion is the tagged union A ⊔ B over Either[A, B].
type DisjointUnion[A, B any] struct {
	left  Set[A]
	right Set[B]
}

// NewDisjointUnion returns the disjoint union node of a and b.
func NewDisjointUnion[A, B any](a Set[A], b Set[B]) *DisjointUnion[A, B] {
	return &DisjointUnion[A, B]{left: a, right: b}
}

// Operands returns A and B.
func (d *DisjointUnion[A, B]) Operands() (Set[A], Set[B]) { return d.left, d.right }

// Contains delegates to A for left values and to B for right values.
func (d *DisjointUnion[A, B]) Contains(x Either[A, B]) bool {
	if v, ok := x.Left(); ok {
		return d.left.Contains(v)
	}
	v, _ := x.Right()
	return d.right.Contains(v)
}

// Cardinality returns |A| + |B| when both are known.
func (d *DisjointUnion[A, B]) Cardinality() (float64, bool) {
	na, okA := d.left.Cardinality()
	nb, okB := d.right.Cardinality()
	if !okA || !okB {
		return 0, false
	}
	return na + nb, true
}

// FalsePositiveRate returns the span of both operands' rates.
func (d *DisjointUnion[A, B]) FalsePositiveRate() interval.Interval {
	return interval.Span(d.left.FalsePositiveRate(), d.right.FalsePositiveRate())
}

// FalseNegativeRate returns the span of both operands' rates.
func (d *DisjointUnion[A, B]) FalseNegativeRate() interval.Interval {
	return interval.Span(d.left.FalseNegativeRate(), d.right.FalseNegativeRate())
}

// Equal reports structural equality.
func (d *DisjointUnion[A, B]) Equal(other Set[Either[A, B]]) bool {
	o, ok := other.(*DisjointUnion[A, B])
	if !ok {
		return false
	}
	return d.left.Equal(o.left) && d.right.Equal(o.right)
}

func (d *DisjointUnion[A, B]) String() string {
	return fmt.Sprintf("(%s ⊔ %s)", setString(d.left), setString(d.right))
}
