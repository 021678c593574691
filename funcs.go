package reals

// Func is a function from reals to reals that expressions can call.
type Func interface {
	// Call builds the result of the function applied to args. args has a
	// length for which CanCall returned true. Call may look up variables in
	// ctx but generally should not.
	Call(ctx *Context, args []*Real) (*Real, error)

	// CanCall returns whether the function can be called with n arguments.
	// This controls how the parser handles names of functions:
	//
	// 	1.	If a bracketed list of n > 0 expressions follows a function, the
	//		parser treats it as an argument list if CanCall(n). (If n is 1 and
	//		!CanCall(1) and CanCall(0), then the list is a multiplication;
	//		otherwise, it is rejected.)
	//
	// 	2.	If a bare term follows a function and CanCall(1), then the parser
	//		treats the term as an argument to the function. E.g., "exp x" is
	//		parsed as "exp(x)". (If !CanCall(1), then it is a multiplication.)
	CanCall(n int) bool
}

var globalfuncs = map[string]Func{
	"exp":    Monadic(Exp),
	"sqrt":   Monadic(Sqrt),
	"cos":    Monadic(Cos),
	"sin":    Monadic(Sin),
	"atan":   Monadic(Arctan),
	"arctan": Monadic(Arctan),

	// constants
	"pi": Niladic(func() *Real { return Pi }),
	"e":  Niladic(func() *Real { return E }),
}

type monadic struct {
	f func(*Real) *Real
}

func (m monadic) Call(ctx *Context, args []*Real) (*Real, error) {
	return m.f(args[0]), nil
}

func (m monadic) CanCall(n int) bool {
	return n == 1
}

// Monadic wraps a function of one real into a Func.
func Monadic(f func(x *Real) *Real) Func {
	return monadic{f}
}

type niladic struct {
	f func() *Real
}

func (n niladic) Call(ctx *Context, args []*Real) (*Real, error) {
	return n.f(), nil
}

func (n niladic) CanCall(k int) bool {
	return k == 0
}

// Niladic wraps a function of no arguments, generally one returning a
// constant, into a Func.
func Niladic(f func() *Real) Func {
	return niladic{f}
}
