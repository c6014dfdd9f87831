// Package interval implements closed probability intervals.
//
// Error rates of composed approximate sets are rarely known exactly; they are
// tracked as an enclosing interval [Lo, Hi] instead. All arithmetic results are
// clamped into [0, 1].
package interval

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalid is returned by New when the bounds do not describe a
// sub-interval of [0, 1].
var ErrInvalid = errors.New("interval: invalid bounds")

// Interval is a closed interval [Lo, Hi].
type Interval struct {
	Lo float64
	Hi float64
}

var (
	// Zero is the degenerate interval [0, 0].
	Zero = Interval{0, 0}
	// One is the degenerate interval [1, 1].
	One = Interval{1, 1}
)

// New returns [lo, hi] or ErrInvalid unless 0 <= lo <= hi <= 1.
func New(lo, hi float64) (Interval, error) {
	if math.IsNaN(lo) || math.IsNaN(hi) || lo < 0 || hi > 1 || lo > hi {
		return Interval{}, fmt.Errorf("%w: [%g, %g]", ErrInvalid, lo, hi)
	}
	return Interval{Lo: lo, Hi: hi}, nil
}

// Point returns the degenerate interval [p, p] clamped into [0, 1].
func Point(p float64) Interval {
	p = clamp(p)
	return Interval{Lo: p, Hi: p}
}

// Span returns the smallest interval enclosing both a and b.
func Span(a, b Interval) Interval {
	return Interval{Lo: math.Min(a.Lo, b.Lo), Hi: math.Max(a.Hi, b.Hi)}
}

// Add returns a + b.
func (a Interval) Add(b Interval) Interval {
	return mk(a.Lo+b.Lo, a.Hi+b.Hi)
}

// Sub returns a - b.
func (a Interval) Sub(b Interval) Interval {
	return mk(a.Lo-b.Hi, a.Hi-b.Lo)
}

// Mul returns a * b.
func (a Interval) Mul(b Interval) Interval {
	p1, p2, p3, p4 := a.Lo*b.Lo, a.Lo*b.Hi, a.Hi*b.Lo, a.Hi*b.Hi
	return mk(min(p1, p2, p3, p4), max(p1, p2, p3, p4))
}

// Complement returns 1 - a.
func (a Interval) Complement() Interval {
	return One.Sub(a)
}

// Contains reports whether p lies in a.
func (a Interval) Contains(p float64) bool {
	return a.Lo <= p && p <= a.Hi
}

// Width returns Hi - Lo.
func (a Interval) Width() float64 { return a.Hi - a.Lo }

// Mid returns the midpoint of a.
func (a Interval) Mid() float64 { return a.Lo + (a.Hi-a.Lo)/2 }

// IsPoint reports whether a is degenerate.
func (a Interval) IsPoint() bool { return a.Lo == a.Hi }

// Equal reports whether a and b have identical bounds.
func (a Interval) Equal(b Interval) bool {
	return a.Lo == b.Lo && a.Hi == b.Hi
}

// ApproxEqual reports whether both bounds differ by at most eps.
func (a Interval) ApproxEqual(b Interval, eps float64) bool {
	return math.Abs(a.Lo-b.Lo) <= eps && math.Abs(a.Hi-b.Hi) <= eps
}

func (a Interval) String() string {
	return fmt.Sprintf("[%g, %g]", a.Lo, a.Hi)
}

func mk(lo, hi float64) Interval {
	lo, hi = clamp(lo), clamp(hi)
	if lo > hi {
		lo, hi = hi, lo
	}
	return Interval{Lo: lo, Hi: hi}
}

func clamp(p float64) float64 {
	switch {
	case math.IsNaN(p):
		return 0
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}
