package reals

import (
	"errors"
	"math/big"
	"strconv"
)

// ErrZeroDenominator is returned when constructing, inverting, or dividing by
// a rational would require a zero denominator.
var ErrZeroDenominator = errors.New("reals: zero denominator")

// Rational is an exact fraction of two arbitrary-precision integers. The
// denominator is always positive, so the sign lives in the numerator.
//
// Rationals are immutable and have value semantics. The zero value is valid
// and equal to 0/1. Arithmetic results are in lowest terms, but values from
// NewRational keep the terms they were given until reduced with LowestTerms;
// comparison does not depend on reduction.
type Rational struct {
	num *big.Int
	den *big.Int
}

var (
	bigZero = big.NewInt(0)
	bigOne  = big.NewInt(1)
	bigTwo  = big.NewInt(2)
)

// n and d return the numerator and denominator. Neither result may be
// modified.
func (x Rational) n() *big.Int {
	if x.num == nil {
		return bigZero
	}
	return x.num
}

func (x Rational) d() *big.Int {
	if x.den == nil {
		return bigOne
	}
	return x.den
}

// mk builds a rational from integers it takes ownership of, moving the sign
// to the numerator. d must be nonzero.
func mk(n, d *big.Int) Rational {
	if d.Sign() < 0 {
		n.Neg(n)
		d.Neg(d)
	}
	return Rational{num: n, den: d}
}

// NewRational creates num/den. The result is ErrZeroDenominator if den is 0.
func NewRational(num, den int64) (Rational, error) {
	if den == 0 {
		return Rational{}, ErrZeroDenominator
	}
	return mk(big.NewInt(num), big.NewInt(den)), nil
}

// NewRationalBig creates num/den from big integers, which are copied. The
// result is ErrZeroDenominator if den is 0.
func NewRationalBig(num, den *big.Int) (Rational, error) {
	if den.Sign() == 0 {
		return Rational{}, ErrZeroDenominator
	}
	return mk(new(big.Int).Set(num), new(big.Int).Set(den)), nil
}

// MustRational is like NewRational but panics if den is 0.
func MustRational(num, den int64) Rational {
	r, err := NewRational(num, den)
	if err != nil {
		panic(err)
	}
	return r
}

// Int returns the rational n/1.
func Int(n int64) Rational {
	return Rational{num: big.NewInt(n), den: big.NewInt(1)}
}

// FromRat converts a big.Rat, which is copied.
func FromRat(r *big.Rat) Rational {
	return Rational{num: new(big.Int).Set(r.Num()), den: new(big.Int).Set(r.Denom())}
}

// ParseRational parses a fraction "a/b", a decimal such as "-1.25", or a
// number with an exponent such as "3e-2". The result is in lowest terms.
func ParseRational(s string) (Rational, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return Rational{}, &NumberError{Text: s}
	}
	return FromRat(r), nil
}

// NumberError is an error parsing the text of a rational number.
type NumberError struct {
	// Text is the text that could not be parsed.
	Text string
}

func (err *NumberError) Error() string {
	return "reals: invalid rational " + strconv.Quote(err.Text)
}

// Num returns a copy of the numerator. It carries the sign of x.
func (x Rational) Num() *big.Int {
	return new(big.Int).Set(x.n())
}

// Denom returns a copy of the denominator, which is always positive.
func (x Rational) Denom() *big.Int {
	return new(big.Int).Set(x.d())
}

// Rat returns x as a new big.Rat.
func (x Rational) Rat() *big.Rat {
	return new(big.Rat).SetFrac(x.n(), x.d())
}

// Sign returns -1, 0, or +1 according to the sign of x.
func (x Rational) Sign() int {
	return x.n().Sign()
}

// LowestTerms divides the numerator and denominator by their greatest common
// divisor. Zero reduces to 0/1.
func (x Rational) LowestTerms() Rational {
	n, d := x.n(), x.d()
	if n.Sign() == 0 {
		return Rational{num: big.NewInt(0), den: big.NewInt(1)}
	}
	g := new(big.Int).GCD(nil, nil, new(big.Int).Abs(n), d)
	if g.Cmp(bigOne) == 0 {
		return x
	}
	return Rational{num: new(big.Int).Quo(n, g), den: new(big.Int).Quo(d, g)}
}

// Add returns x+y in lowest terms.
func (x Rational) Add(y Rational) Rational {
	n := new(big.Int).Mul(x.n(), y.d())
	n.Add(n, new(big.Int).Mul(y.n(), x.d()))
	d := new(big.Int).Mul(x.d(), y.d())
	return mk(n, d).LowestTerms()
}

// Sub returns x-y in lowest terms.
func (x Rational) Sub(y Rational) Rational {
	n := new(big.Int).Mul(x.n(), y.d())
	n.Sub(n, new(big.Int).Mul(y.n(), x.d()))
	d := new(big.Int).Mul(x.d(), y.d())
	return mk(n, d).LowestTerms()
}

// Mul returns x*y in lowest terms.
func (x Rational) Mul(y Rational) Rational {
	n := new(big.Int).Mul(x.n(), y.n())
	d := new(big.Int).Mul(x.d(), y.d())
	return mk(n, d).LowestTerms()
}

// Neg returns -x.
func (x Rational) Neg() Rational {
	return Rational{num: new(big.Int).Neg(x.n()), den: x.d()}
}

// Abs returns |x|.
func (x Rational) Abs() Rational {
	if x.Sign() >= 0 {
		return x
	}
	return x.Neg()
}

// Inverse returns 1/x. The result is ErrZeroDenominator if x is zero.
func (x Rational) Inverse() (Rational, error) {
	return NewRationalBig(x.d(), x.n())
}

// Quo returns x/y in lowest terms. The result is ErrZeroDenominator if y is
// zero.
func (x Rational) Quo(y Rational) (Rational, error) {
	inv, err := y.Inverse()
	if err != nil {
		return Rational{}, err
	}
	return x.Mul(inv), nil
}

// Floor returns the greatest integer not greater than x.
func (x Rational) Floor() *big.Int {
	// Euclidean division with a positive divisor rounds toward -inf.
	return new(big.Int).Div(x.n(), x.d())
}

// Ceil returns the smallest integer not less than x.
func (x Rational) Ceil() *big.Int {
	q, m := new(big.Int).DivMod(x.n(), x.d(), new(big.Int))
	if m.Sign() != 0 {
		q.Add(q, bigOne)
	}
	return q
}

// Cmp compares x and y, returning -1 if x < y, 0 if x == y, and +1 if x > y.
func (x Rational) Cmp(y Rational) int {
	l := new(big.Int).Mul(x.n(), y.d())
	r := new(big.Int).Mul(y.n(), x.d())
	return l.Cmp(r)
}

// Equal reports whether x and y are the same value, regardless of whether
// either is in lowest terms.
func (x Rational) Equal(y Rational) bool {
	return x.Cmp(y) == 0
}

// Normalize returns floor(2·x·n), the numerator a for which a/(2n) is the
// nearest multiple of 1/(2n) not greater than x.
func (x Rational) Normalize(n *big.Int) *big.Int {
	a := new(big.Int).Mul(x.n(), bigTwo)
	a.Mul(a, n)
	return a.Div(a, x.d())
}

// DecimalString formats x with scale digits after the decimal point. The
// last digit is rounded half up, with ties going away from zero.
func (x Rational) DecimalString(scale int) string {
	if scale < 0 {
		scale = 0
	}
	return x.Rat().FloatString(scale)
}

// String formats x as "(num / den)".
func (x Rational) String() string {
	return "(" + x.n().String() + " / " + x.d().String() + ")"
}
