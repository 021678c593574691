package reals

import "math/big"

var (
	bigFour = big.NewInt(4)
	half    = MustRational(1, 2)
	fifth   = MustRational(1, 5)
	inv239  = MustRational(1, 239)
)

// rounded returns the multiple of 1/(2n) at or below s. The rounding costs
// less than 1/(2n), leaving the other half of a 1/n budget to the caller.
func rounded(s Rational, n *big.Int) Rational {
	return mk(s.Normalize(n), scaled(n, bigTwo)).LowestTerms()
}

// Sqrt returns the square root of max(x, 0).
//
// The square root of a sample a is found to within 1/(2n) as isqrt(4n²a)/(2n).
// Where x is at least 1/4, sampling x at 4n is enough for the rest of the
// budget. Near zero the square root only halves the exponent of the sample
// error, so x is sampled at 4n² instead.
func Sqrt(x *Real) *Real {
	return FromFunc(func(n *big.Int) Rational {
		a := x.f(scaled(n, bigFour))
		if a.Cmp(half) < 0 {
			nn := new(big.Int).Mul(n, n)
			a = x.f(nn.Mul(nn, bigFour))
		}
		if a.Sign() <= 0 {
			return Rational{}
		}
		nn := new(big.Int).Mul(n, n)
		s := isqrt(a.Normalize(nn.Mul(nn, bigTwo)))
		return mk(s, scaled(n, bigTwo)).LowestTerms()
	})
}

// isqrt returns floor(sqrt(v)) for non-negative v.
func isqrt(v *big.Int) *big.Int {
	return new(big.Int).Sqrt(v)
}

// Cos returns the cosine of x. Cosine is 1-Lipschitz, so a sample at 4n and a
// series truncated within 1/(4n) leave 1/(2n) for rounding.
func Cos(x *Real) *Real {
	return FromFunc(func(n *big.Int) Rational {
		m := scaled(n, bigFour)
		return rounded(cosSeries(x.f(m), recip(m)), n)
	})
}

// cosSeries sums the Taylor series of cos(a), stopping before the first term
// no larger than eps. That term bounds the remainder for any a.
func cosSeries(a, eps Rational) Rational {
	a2 := a.Mul(a)
	sum, term := Int(1), Int(1)
	for k := int64(1); ; k++ {
		term = term.Mul(a2).Mul(MustRational(1, (2*k-1)*(2*k)))
		if term.Cmp(eps) <= 0 {
			return sum
		}
		if k%2 == 1 {
			sum = sum.Sub(term)
		} else {
			sum = sum.Add(term)
		}
	}
}

// Sin returns the sine of x as cos(x - π/2).
func Sin(x *Real) *Real {
	return Cos(x.Sub(Pi.Mul(NewReal(half))))
}

// Arctan returns the arctangent of x. Like cosine, arctangent is
// 1-Lipschitz, so x is sampled at 4n and the rational arctangent is found to
// within 1/(4n).
func Arctan(x *Real) *Real {
	return FromFunc(func(n *big.Int) Rational {
		m := scaled(n, bigFour)
		return rounded(atan(x.f(m), recip(m)), n)
	})
}

// atan returns arctan(a) to within eps. Arguments above 1/2 are reduced so
// that the series always converges at least as fast as powers of 1/4.
func atan(a, eps Rational) Rational {
	switch {
	case a.Sign() < 0:
		return atan(a.Neg(), eps).Neg()
	case a.Cmp(half) <= 0:
		return atanSeries(a, eps)
	case a.Cmp(Int(2)) <= 0:
		// arctan a = π/4 + arctan((a-1)/(a+1)), and |(a-1)/(a+1)| <= 1/3.
		e := eps.Mul(half)
		t, _ := a.Sub(Int(1)).Quo(a.Add(Int(1)))
		return quarterPi(e).Add(atan(t, e))
	default:
		// arctan a = π/2 - arctan(1/a).
		e := eps.Mul(MustRational(1, 3))
		t, _ := a.Inverse()
		return quarterPi(e).Mul(Int(2)).Sub(atanSeries(t, e))
	}
}

// atanSeries sums the alternating series of arctan(a) for |a| < 1, stopping
// before the first term no larger than eps.
func atanSeries(a, eps Rational) Rational {
	a2 := a.Mul(a)
	var sum Rational
	pow := a
	for k := int64(0); ; k++ {
		term := pow.Mul(MustRational(1, 2*k+1))
		if term.Abs().Cmp(eps) <= 0 {
			return sum
		}
		if k%2 == 0 {
			sum = sum.Add(term)
		} else {
			sum = sum.Sub(term)
		}
		pow = pow.Mul(a2)
	}
}

// quarterPi returns π/4 to within eps using Machin's formula,
// π/4 = 4 arctan(1/5) - arctan(1/239).
func quarterPi(eps Rational) Rational {
	e := eps.Mul(fifth)
	return atanSeries(fifth, e).Mul(Int(4)).Sub(atanSeries(inv239, e))
}

// Exp returns e^x.
//
// With B = ceil(|x(1)|) + 1 >= |x|, every sample a used here has |a| <= B+1
// and e^|a| < 3^(B+1) = c. Sampling at m = 4nc bounds the propagated error by
// c/m = 1/(4n), and stopping the series at a term below 1/m bounds the
// remainder e^|a|·|term| by the same.
func Exp(x *Real) *Real {
	b := x.f(bigOne).Abs().Ceil()
	b.Add(b, bigTwo)
	c := new(big.Int).Exp(big.NewInt(3), b, nil)
	c.Mul(c, bigFour)
	return FromFunc(func(n *big.Int) Rational {
		m := scaled(n, c)
		return rounded(expSeries(x.f(m), recip(m)), n)
	})
}

// expSeries sums the Taylor series of e^a, stopping before the first term no
// larger than eps in magnitude.
func expSeries(a, eps Rational) Rational {
	sum, term := Int(1), Int(1)
	for k := int64(1); ; k++ {
		term = term.Mul(a).Mul(MustRational(1, k))
		if term.Abs().Cmp(eps) <= 0 {
			return sum
		}
		sum = sum.Add(term)
	}
}
