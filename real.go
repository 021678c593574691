package reals

import (
	"math/big"
)

// Real is a constructive real number in the sense of Bishop and Bridges. A
// Real is not a value but a procedure: given a positive precision n, it
// produces a Rational within 1/n of the number it represents. It follows that
// for any n and m,
//
//	|x.Approx(n) - x.Approx(m)| <= 1/n + 1/m.
//
// Operations on Reals build new procedures from the procedures of their
// operands, sampling each operand at whatever precision guarantees that the
// result still meets its own bound. Nothing is cached: every call to Approx
// re-evaluates the whole composition, so deep expressions at high precision
// can be very expensive.
//
// Reals are immutable and safe for concurrent use as long as every function
// passed to FromFunc is.
type Real struct {
	f func(n *big.Int) Rational
}

// NewReal creates a Real whose every approximation is exactly r.
func NewReal(r Rational) *Real {
	return &Real{f: func(*big.Int) Rational { return r }}
}

// FromFunc creates a Real from an approximation function. For every positive
// n, f(n) must lie within 1/n of the number f represents; FromFunc cannot
// check this, and operations on a Real that breaks the promise give
// meaningless results. f must not modify n.
func FromFunc(f func(n *big.Int) Rational) *Real {
	return &Real{f: f}
}

var (
	// Zero is the real number 0.
	Zero = NewReal(Int(0))
	// One is the real number 1.
	One = NewReal(Int(1))
	// E is Euler's number, exp(1).
	E = Exp(One)
	// Pi is the ratio of a circle's circumference to its diameter, computed
	// as 4 arctan(1).
	Pi = Arctan(One).Mul(NewReal(Int(4)))
)

// Approx returns a rational within 1/n of x. Panics if n is not positive.
func (x *Real) Approx(n int64) Rational {
	if n <= 0 {
		panic("reals: non-positive precision")
	}
	return x.f(big.NewInt(n))
}

// ApproxBig returns a rational within 1/n of x. Panics if n is not positive.
func (x *Real) ApproxBig(n *big.Int) Rational {
	if n.Sign() <= 0 {
		panic("reals: non-positive precision " + n.String())
	}
	return x.f(n)
}

// DecimalApprox approximates x to within 10^-digits and formats the result
// with digits+1 digits after the decimal point.
func (x *Real) DecimalApprox(digits int) string {
	if digits < 0 {
		digits = 0
	}
	n := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	return x.f(n).DecimalString(digits + 1)
}

// scaled returns k·n as a new integer.
func scaled(n *big.Int, k *big.Int) *big.Int {
	return new(big.Int).Mul(n, k)
}

// Neg returns -x. Negation does not change the size of the error, so x is
// sampled at the requested precision.
func (x *Real) Neg() *Real {
	return FromFunc(func(n *big.Int) Rational {
		return x.f(n).Neg()
	})
}

// Add returns x+y. Each operand is sampled at 2n so that their errors sum to
// at most 1/n.
func (x *Real) Add(y *Real) *Real {
	return FromFunc(func(n *big.Int) Rational {
		m := scaled(n, bigTwo)
		return x.f(m).Add(y.f(m))
	})
}

// Sub returns x-y.
func (x *Real) Sub(y *Real) *Real {
	return x.Add(y.Neg())
}

// bound returns ceil(|x(1)|) + 2, an integer strictly greater than |x| + 1.
func (x *Real) bound() *big.Int {
	k := x.f(bigOne).Abs().Ceil()
	return k.Add(k, bigTwo)
}

// Mul returns x·y. With K bounding both magnitudes, the operands are sampled
// at 2Kn: the product error |x||y-y'| + |y'||x-x'| is then below
// (K-1)/(2Kn) + K/(2Kn) < 1/n.
//
// Mul evaluates both operands once at precision 1 to find K.
func (x *Real) Mul(y *Real) *Real {
	k := x.bound()
	if ky := y.bound(); ky.Cmp(k) > 0 {
		k = ky
	}
	twoK := k.Mul(k, bigTwo)
	return FromFunc(func(n *big.Int) Rational {
		m := scaled(n, twoK)
		return x.f(m).Mul(y.f(m))
	})
}

// Quo returns x/y. See Inverse for the requirements on y.
func (x *Real) Quo(y *Real) *Real {
	return x.Mul(y.Inverse())
}
