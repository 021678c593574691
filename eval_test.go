package reals_test

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/reals"
)

func TestEval(t *testing.T) {
	type vv struct {
		n string
		v int64
	}
	type vc struct {
		vars []vv
		r    *reals.Real
	}
	cases := []struct {
		name string
		src  string
		r    []vc
	}{
		{"num", "1", []vc{{nil, reals.One}}},
		{"decimal", "1.25", []vc{{nil, constant(5, 4)}}},
		{"ident", "x", []vc{
			{[]vv{{"x", 4}}, constant(4, 1)},
			{[]vv{{"x", 5}}, constant(5, 1)},
			{[]vv{{"x", 6}}, constant(6, 1)},
		}},
		{"plus", "+x", []vc{
			{[]vv{{"x", 4}}, constant(4, 1)},
			{[]vv{{"x", 5}}, constant(5, 1)},
		}},
		{"neg", "-x", []vc{
			{[]vv{{"x", 4}}, constant(-4, 1)},
			{[]vv{{"x", 5}}, constant(-5, 1)},
		}},
		{"add", "4+5+6", []vc{{nil, constant(15, 1)}}},
		{"sub", "4-5-6", []vc{{nil, constant(-7, 1)}}},
		{"mul", "4*5*6", []vc{{nil, constant(120, 1)}}},
		{"div", "4/5/6", []vc{{nil, constant(2, 15)}}},
		{"div-alt", "4÷5", []vc{{nil, constant(4, 5)}}},
		{"terms", "1.5 x", []vc{
			{[]vv{{"x", 2}}, constant(3, 1)},
			{[]vv{{"x", -4}}, constant(-6, 1)},
		}},
		{"pow", "2^10", []vc{{nil, constant(1024, 1)}}},
		{"pow-zero", "x^0", []vc{{[]vv{{"x", 7}}, reals.One}}},
		{"pow-neg", "2^-2", []vc{{nil, constant(1, 4)}}},
		{"pow-negbase", "-2^2", []vc{{nil, constant(-4, 1)}}},
		{"pow-frac", "(1/2)^3", []vc{{nil, constant(1, 8)}}},
		{"pi", "pi", []vc{{nil, reals.Pi}}},
		{"atan", "4 atan 1", []vc{{nil, reals.Pi}}},
		{"pi-paren", "pi(2)^2", []vc{{nil, reals.Pi.Mul(constant(4, 1))}}},
		{"pi-paren-base", "2^3(pi)", []vc{{nil, reals.Pi.Mul(constant(8, 1))}}},
		{"e", "e", []vc{{nil, reals.E}}},
		{"exp", "exp 1", []vc{{nil, reals.E}}},
		{"exp0", "exp 0", []vc{{nil, reals.One}}},
		{"cos0", "cos 0", []vc{{nil, reals.One}}},
		{"sin", "sin(pi/6)", []vc{{nil, constant(1, 2)}}},
		{"sqrt", "sqrt 16", []vc{{nil, constant(4, 1)}}},
		{"sqrt-sq", "sqrt(x)^2", []vc{{[]vv{{"x", 2}}, constant(2, 1)}}},
	}
	ctx := reals.NewContext(reals.SearchLimit(64))
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := reals.ParseString(c.src)
			require.NoError(t, err, c.src)
			for _, v := range c.r {
				ctx := ctx.Clone()
				for _, x := range v.vars {
					ctx.Set(x.n, reals.NewReal(reals.Int(x.v)))
				}
				r := ctx.Eval(a)
				require.NoError(t, ctx.Err())
				require.NotNil(t, r)
				assert.Same(t, r, ctx.Result())
				checkZero(t, r.Sub(v.r), 40)
			}
		})
	}
}

func TestEvalUndefNames(t *testing.T) {
	cases := []struct {
		name string
		src  string
		r    []string
	}{
		{"x", "x", []string{"x"}},
		{"plus", "+x", []string{"x"}},
		{"neg", "-x", []string{"x"}},
		{"add-lhs", "x+1", []string{"x"}},
		{"add-rhs", "1+x", []string{"x"}},
		{"sub-lhs", "x-1", []string{"x"}},
		{"sub-rhs", "1-x", []string{"x"}},
		{"mul-lhs", "x*1", []string{"x"}},
		{"mul-rhs", "1*x", []string{"x"}},
		{"div-lhs", "x/1", []string{"x"}},
		{"div-rhs", "1/x", []string{"x"}},
		{"pow-lhs", "x^1", []string{"x"}},
		{"call", "exp(x)", []string{"x"}},
	}
	ure := regexp.MustCompile(`(?i)\bundef`)
	vre := regexp.MustCompile(`(?i)\bvar`)
	ctx := reals.NewContext()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := reals.ParseString(c.src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			if v := a.Vars(); !reflect.DeepEqual(c.r, v) {
				t.Errorf("%q gave wrong variables: want %q, got %q", c.src, c.r, v)
			}
			if r := ctx.Eval(a); r != nil {
				t.Errorf("evaluating %q gave non-nil result %v", c.src, r.Approx(1))
			}
			err = ctx.Err()
			if err == nil {
				t.Fatalf("evaluating %q gave no error", c.src)
			}
			var u *reals.NameError
			if !errors.As(err, &u) {
				t.Fatalf("error was %#v, not NameError", err)
			}
			msg := err.Error()
			if !ure.MatchString(msg) {
				t.Errorf(`%q doesn't mention "undef"`, msg)
			}
			if !vre.MatchString(msg) {
				t.Errorf(`%q doesn't mention "var"`, msg)
			}
			for _, v := range c.r {
				if v == u.Name {
					xre := regexp.MustCompile(`\b` + v + `\b`)
					if !xre.MatchString(msg) {
						t.Errorf(`%q doesn't mention %q`, msg, v)
					}
					return
				}
			}
			t.Errorf("NameError on %q, not in %q", u.Name, c.r)
		})
	}
}

func TestEvalDomainError(t *testing.T) {
	cases := []struct {
		name string
		src  string
		fn   string
		sep  bool
	}{
		{"div-zero", "1/0", "/", true},
		{"div-zerozero", "0/0", "/", true},
		{"div-alt-zero", "0÷0", "/", true},
		{"div-cancel", "1/(x-x)", "/", true},
		{"pow-zero-neg", "0^-1", "^", true},
		{"pow-frac", "2^0.5", "^", false},
		{"pow-expr", "2^(1/2)", "^", false},
		{"pow-var", "2^x", "^", false},
		{"pow-huge", "2^1000000000", "^", false},
		{"pow-huge-neg", "2^-5000", "^", false},
	}
	ctx := reals.NewContext(reals.SearchLimit(64), reals.SetVar("x", reals.One))
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctx := ctx.Clone()
			a, err := reals.ParseString(c.src)
			require.NoError(t, err, c.src)
			assert.Nil(t, ctx.Eval(a))
			err = ctx.Err()
			require.Error(t, err)
			var d *reals.DomainError
			require.True(t, errors.As(err, &d), "%#v is not *reals.DomainError", err)
			assert.Equal(t, c.fn, d.Func)
			assert.Equal(t, c.sep, errors.Is(err, reals.ErrNotSeparated))
			assert.Contains(t, err.Error(), "domain")
		})
	}
}

func TestEvalExponentRange(t *testing.T) {
	r, err := reals.EvalString("2^4096")
	require.NoError(t, err)
	assert.Equal(t, 4097, r.Approx(1).Num().BitLen())

	_, err = reals.EvalString("1^4097")
	assert.ErrorIs(t, err, reals.ErrExponentRange)
	_, err = reals.EvalString("1^-4097")
	assert.ErrorIs(t, err, reals.ErrExponentRange)
}

func TestEvalSearchLimit(t *testing.T) {
	// 1/1000 needs precision 1000 or more to be told apart from zero.
	a, err := reals.ParseString("1/(x/1000)")
	require.NoError(t, err)
	x := reals.SetVar("x", reals.One)

	ctx := reals.NewContext(x, reals.SearchLimit(100))
	assert.Nil(t, ctx.Eval(a))
	assert.ErrorIs(t, ctx.Err(), reals.ErrNotSeparated)

	ctx = ctx.Clone(reals.SearchLimit(4000))
	r := ctx.Eval(a)
	require.NoError(t, ctx.Err())
	checkNear(t, r, reals.Int(1000), reals.Rational{}, 20)
}

func TestEvalReuse(t *testing.T) {
	ctx := reals.NewContext()
	a, err := reals.ParseString("1/0")
	require.NoError(t, err)
	b, err := reals.ParseString("2+2")
	require.NoError(t, err)
	ctx = ctx.Clone(reals.SearchLimit(8))
	assert.Nil(t, ctx.Eval(a))
	assert.Error(t, ctx.Err())
	r := ctx.Eval(b)
	require.NoError(t, ctx.Err())
	assert.Equal(t, "(4 / 1)", r.Approx(10).String())
	r = ctx.Eval(b)
	require.NoError(t, ctx.Err())
	assert.Same(t, r, ctx.Result())
}

func TestEvalShortcuts(t *testing.T) {
	r, err := reals.EvalString("x y", reals.SetVars(map[string]*reals.Real{
		"x": constant(3, 1),
		"y": constant(5, 1),
	}))
	require.NoError(t, err)
	assert.Equal(t, "(15 / 1)", r.Approx(100).String())

	r, err = reals.Eval(strings.NewReader("1 +"))
	assert.Nil(t, r)
	var e *reals.EmptyExpressionError
	assert.ErrorAs(t, err, &e)
}

func TestContextVars(t *testing.T) {
	zero := reals.Zero
	one := reals.One
	ctx := reals.NewContext(reals.SetVar("x", zero))
	if x := ctx.Lookup("x"); x != zero {
		t.Errorf("x should be %p but is %p", zero, x)
	}
	if y := ctx.Lookup("y"); y != nil {
		t.Errorf("context has y: %p", y)
	}
	ctx.Set("y", one)
	if x := ctx.Lookup("x"); x != zero {
		t.Errorf("x should be %p but is %p", zero, x)
	}
	if y := ctx.Lookup("y"); y != one {
		t.Errorf("y should be %p but is %p", one, y)
	}
	ctx.Set("x", one)
	if x := ctx.Lookup("x"); x != one {
		t.Errorf("x should be %p but is %p", one, x)
	}
	c := ctx.Clone(reals.SetVar("x", zero))
	if x := c.Lookup("x"); x != zero {
		t.Errorf("clone's x should be %p but is %p", zero, x)
	}
	if x := ctx.Lookup("x"); x != one {
		t.Errorf("cloning changed x to %p", x)
	}
}

func TestVars(t *testing.T) {
	cases := []struct {
		name string
		src  string
		vars []string
	}{
		{"none", "1+2+3", nil},
		{"one", "1+2+x", []string{"x"}},
		{"sort", "z+y+x+w+v+u+t+s+r+q+p+o+n+m+l+k+j+i+h+g+f+e+d+c+b+a", strings.Fields("a b c d e f g h i j k l m n o p q r s t u v w x y z")},
		{"reuse", "a+b+c+b+a", []string{"a", "b", "c"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := reals.ParseString(c.src, reals.DisableDefaultFuncs())
			if err != nil {
				t.Fatalf("%q didn't parse: %v", c.src, err)
			}
			vars := a.Vars()
			if len(vars) == 0 && len(c.vars) == 0 {
				return
			}
			if !reflect.DeepEqual(vars, c.vars) {
				t.Errorf("%q gave wrong variable names:\n\twant %q\n\tgot  %q", c.src, c.vars, vars)
			}
		})
	}
}

func BenchmarkEval(b *testing.B) {
	vars := map[string]*reals.Real{
		"x": constant(2, 1),
		"y": constant(3, 1),
		"z": constant(4, 1),
	}
	b.Run("nums", func(b *testing.B) {
		b.ReportAllocs()
		ctx := reals.NewContext()
		a, err := reals.ParseString("2+3+4")
		if err != nil {
			b.Fatal(err)
		}
		for i := 0; i < b.N; i++ {
			ctx.Clone().Eval(a).Approx(1e6)
		}
	})
	b.Run("vars", func(b *testing.B) {
		b.ReportAllocs()
		ctx := reals.NewContext(reals.SetVars(vars))
		a, err := reals.ParseString("x+y+z")
		if err != nil {
			b.Fatal(err)
		}
		for i := 0; i < b.N; i++ {
			ctx.Clone().Eval(a).Approx(1e6)
		}
	})
	b.Run("pi", func(b *testing.B) {
		b.ReportAllocs()
		ctx := reals.NewContext()
		a, err := reals.ParseString("4 atan 1")
		if err != nil {
			b.Fatal(err)
		}
		for i := 0; i < b.N; i++ {
			ctx.Clone().Eval(a).Approx(1e12)
		}
	})
}

func Example() {
	ctx := reals.NewContext()
	a, _ := reals.ParseString("x^3/2 - x")
	b, _ := reals.ParseString("3 x^2/2 - 1")
	c, _ := reals.ParseString("3 x")

	for i := int64(0); i < 4; i++ {
		ctx := ctx.Set("x", reals.NewReal(reals.Int(i)))
		y := ctx.Clone().Eval(a)
		yp := ctx.Clone().Eval(b)
		ypp := ctx.Clone().Eval(c)
		fmt.Printf("x = %d   y = %s   y' = %s   y'' = %s\n", i, y.DecimalApprox(2), yp.DecimalApprox(2), ypp.DecimalApprox(2))
	}

	// Output:
	// x = 0   y = 0.000   y' = -1.000   y'' = 0.000
	// x = 1   y = -0.500   y' = 0.500   y'' = 3.000
	// x = 2   y = 2.000   y' = 5.000   y'' = 6.000
	// x = 3   y = 10.500   y' = 12.500   y'' = 9.000
}
