package bernoulli

import (
	"fmt"

	"github.com/hupe1980/bernoulli/interval"
)

// CartesianProduct is the approximate set A × B over Pair[A, B].
//
// Its error rates are reported as [0, 0]: the product adds no error of its
// own, and the error of the operands is not propagated.
type CartesianProduct[A, B any] struct {
	left  Set[A]
	right Set[B]
}

// NewCartesianProduct returns the product node of a and b.
func NewCartesianProduct[A, B any](a Set[A], b Set[B]) *CartesianProduct[A, B] {
	return &CartesianProduct[A, B]{left: a, right: b}
}

// Contains reports whether p.First is in A and p.Second is in B.
func (c *CartesianProduct[A, B]) Contains(p Pair[A, B]) bool {
	return c.left.Contains(p.First) && c.right.Contains(p.Second)
}

// Cardinality returns |A|·|B| when both are known.
func (c *CartesianProduct[A, B]) Cardinality() (float64, bool) {
	na, okA := c.left.Cardinality()
	nb, okB := c.right.Cardinality()
	if !okA || !okB {
		return 0, false
	}
	return na * nb, true
}

// FalsePositiveRate returns [0, 0].
func (c *CartesianProduct[A, B]) FalsePositiveRate() interval.Interval { return interval.Zero }

// FalseNegativeRate returns [0, 0].
func (c *CartesianProduct[A, B]) FalseNegativeRate() interval.Interval { return interval.Zero }

// LeftProject returns A.
func (c *CartesianProduct[A, B]) LeftProject() Set[A] { return c.left }

// RightProject returns B.
func (c *CartesianProduct[A, B]) RightProject() Set[B] { return c.right }

// Converse returns B × A.
func (c *CartesianProduct[A, B]) Converse() *CartesianProduct[B, A] {
	return &CartesianProduct[B, A]{left: c.right, right: c.left}
}

// Equal reports structural equality.
func (c *CartesianProduct[A, B]) Equal(other Set[Pair[A, B]]) bool {
	o, ok := other.(*CartesianProduct[A, B])
	if !ok {
		return false
	}
	return c.left.Equal(o.left) && c.right.Equal(o.right)
}

func (c *CartesianProduct[A, B]) String() string {
	return fmt.Sprintf("(%s × %s)", setString(c.left), setString(c.right))
}
