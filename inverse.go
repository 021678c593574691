package reals

import (
	"errors"
	"math/big"
)

// ErrNotSeparated is returned by InverseLimit when no approximation within
// the search limit shows the operand to be apart from zero.
var ErrNotSeparated = errors.New("reals: cannot separate operand from zero")

// Inverse returns 1/x.
//
// Inverse searches k = 1, 2, 3, ... for the first k with |x(k)| > 1/k, which
// proves x is apart from zero. The search runs when Inverse is called and has
// no bound: if x is zero, or if its approximations break the 1/n contract,
// Inverse may never return. Use InverseLimit when x might be zero.
func (x *Real) Inverse() *Real {
	r, _ := x.inverse(0)
	return r
}

// InverseLimit is like Inverse, but gives up with ErrNotSeparated after
// limit candidate precisions.
func (x *Real) InverseLimit(limit int) (*Real, error) {
	if limit <= 0 {
		return nil, ErrNotSeparated
	}
	return x.inverse(limit)
}

// inverse implements Inverse and InverseLimit. A limit of 0 means no limit.
func (x *Real) inverse(limit int) (*Real, error) {
	N, err := x.separation(limit)
	if err != nil {
		return nil, err
	}
	// With |x| >= 2/N, every sample at m >= N has |x(m)| >= 1/N, so
	// |1/x(m) - 1/x| <= N²/(2m).
	sq := new(big.Int).Mul(N, N)
	cube := new(big.Int).Mul(sq, N)
	return FromFunc(func(i *big.Int) Rational {
		m := cube
		if i.Cmp(N) >= 0 {
			m = scaled(i, sq)
		}
		r, err := x.f(m).Inverse()
		if err != nil {
			panic("reals: zero approximation of a real apart from zero")
		}
		return r
	}), nil
}

// separation finds the smallest k up to limit with |x(k)| > 1/k and returns
// N = ceil(2/(|x(k)| - 1/k)), so that |x| >= 2/N. A limit of 0 means no
// limit.
func (x *Real) separation(limit int) (*big.Int, error) {
	for i := 1; limit <= 0 || i <= limit; i++ {
		k := big.NewInt(int64(i))
		a := x.f(k).Abs()
		r := recip(k)
		if a.Cmp(r) <= 0 {
			continue
		}
		q, err := Int(2).Quo(a.Sub(r))
		if err != nil {
			panic(err)
		}
		return q.Ceil(), nil
	}
	return nil, ErrNotSeparated
}

// recip returns 1/n for positive n.
func recip(n *big.Int) Rational {
	return Rational{num: big.NewInt(1), den: new(big.Int).Set(n)}
}
