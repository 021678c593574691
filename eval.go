package reals

import (
	"errors"
	"io"
	"strconv"
	"strings"
)

// DefaultSearchLimit is the number of precisions a context tries when
// separating a divisor from zero, unless SearchLimit sets another.
const DefaultSearchLimit = 1 << 12

// MaxExponent is the largest magnitude of an exponent in an expression. Each
// doubling of the exponent adds a squaring to the composition, and the
// numbers it approximates grow with the exponent itself.
const MaxExponent = 1 << 12

// ErrExponentRange is wrapped by the DomainError for an exponent whose
// magnitude exceeds MaxExponent.
var ErrExponentRange = errors.New("reals: exponent out of range")

// Context is a context for evaluating expressions. Evaluating an expression
// builds the Real it denotes from the variables in the context; the Real is
// approximated afterward, as often and as precisely as the caller needs. It is
// not safe to use a Context concurrently.
type Context struct {
	stack []*Real
	names map[string]*Real
	limit int
	err   error
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type (
	varopt struct {
		name string
		val  *Real
	}
	varsopt  map[string]*Real
	limitopt int
)

func (varopt) ctxOption()   {}
func (varsopt) ctxOption()  {}
func (limitopt) ctxOption() {}

// SetVar sets the value of a variable in the context.
func SetVar(name string, val *Real) ContextOption {
	return varopt{name, val}
}

// SetVars sets the values of any number of variables in the context.
func SetVars(vars map[string]*Real) ContextOption {
	return varsopt(vars)
}

// SearchLimit sets the number of precisions to try when proving that a
// divisor is apart from zero. Divisions that exhaust the limit fail with a
// DomainError wrapping ErrNotSeparated.
func SearchLimit(n int) ContextOption {
	return limitopt(n)
}

// NewContext creates a new evaluation context. If no search limit is given,
// the default is DefaultSearchLimit.
func NewContext(opts ...ContextOption) *Context {
	ctx := Context{limit: DefaultSearchLimit}
	return ctx.Clone(opts...)
}

// Eval evaluates an expression and returns the result. If an error occurs,
// e.g. a missing variable definition or a divisor that cannot be separated
// from zero, then the result is nil and ctx.Err returns the error.
func (ctx *Context) Eval(e *Expr) *Real {
	switch len(ctx.stack) {
	case 0: // do nothing
	case 1:
		ctx.stack[0] = nil
		ctx.stack = ctx.stack[:0]
	default:
		panic("reals: Eval during Eval")
	}
	err := e.n.eval(ctx)
	ctx.err = err
	if err != nil {
		ctx.stack = ctx.stack[:0]
		return nil
	}
	return ctx.Result()
}

// Result returns the result obtained after evaluating an expression. Panics if
// ctx has not been used to evaluate an expression. Returns nil if an error
// occurred during evaluation.
func (ctx *Context) Result() *Real {
	if ctx.err != nil {
		return nil
	}
	switch len(ctx.stack) {
	case 0:
		panic("reals: Context.Result called before evaluating any expression")
	case 1:
		return ctx.stack[0]
	default:
		panic("reals: inconsistent stack: " + strconv.Itoa(len(ctx.stack)) + " items (bad AST?)")
	}
}

// Err returns the error from the last expression evaluated with ctx, if any.
func (ctx *Context) Err() error {
	return ctx.err
}

// Set sets the value of a variable. Returns ctx for chaining. Calling Set
// while the context is being used to evaluate an expression panics.
func (ctx *Context) Set(name string, value *Real) *Context {
	if len(ctx.stack) > 1 {
		panic("reals: Set on in-use context")
	}
	if ctx.names == nil {
		ctx.names = make(map[string]*Real)
	}
	ctx.names[name] = value
	return ctx
}

// Lookup returns the value of a variable. If there is no such variable in the
// context, then the result is nil.
func (ctx *Context) Lookup(name string) *Real {
	return ctx.names[name]
}

// Clone creates a copy of a context and applies options to it. The returned
// context has no Result and is safe to use to evaluate an expression. Reals
// are immutable, so the copy shares variable values with ctx.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	n := Context{
		stack: make([]*Real, 0, cap(ctx.stack)),
		names: make(map[string]*Real, len(ctx.names)),
		limit: ctx.limit,
	}
	for name, val := range ctx.names {
		n.names[name] = val
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case varopt:
			n.names[opt.name] = opt.val
		case varsopt:
			for k, v := range opt {
				n.names[k] = v
			}
		case limitopt:
			n.limit = int(opt)
		default:
			panic("reals: unknown option type")
		}
	}
	return &n
}

func (ctx *Context) push(x *Real) {
	ctx.stack = append(ctx.stack, x)
}

// pop removes the top from the stack and returns it.
func (ctx *Context) pop() *Real {
	r := ctx.stack[len(ctx.stack)-1]
	ctx.stack[len(ctx.stack)-1] = nil
	ctx.stack = ctx.stack[:len(ctx.stack)-1]
	return r
}

// binary evaluates both operands of n and pushes op of them.
func (n *node) binary(ctx *Context, op func(x, y *Real) (*Real, error)) error {
	if err := n.left.eval(ctx); err != nil {
		return err
	}
	if err := n.right.eval(ctx); err != nil {
		return err
	}
	r := ctx.pop()
	l := ctx.pop()
	v, err := op(l, r)
	if err != nil {
		return err
	}
	ctx.push(v)
	return nil
}

// eval pushes the Real the node denotes to the context's stack.
func (n *node) eval(ctx *Context) error {
	switch n.kind {
	case nodeNum:
		ctx.push(NewReal(n.val))
	case nodeName:
		v := ctx.names[n.name]
		if v == nil {
			return &NameError{Name: n.name}
		}
		ctx.push(v)
	case nodeCall:
		k := len(ctx.stack)
		for a := n.right; a != nil; a = a.right {
			if err := a.left.eval(ctx); err != nil {
				return err
			}
		}
		args := ctx.stack[k:len(ctx.stack):len(ctx.stack)]
		r, err := n.fn.Call(ctx, args)
		if err != nil {
			return err
		}
		for i := range args {
			args[i] = nil
		}
		ctx.stack = append(ctx.stack[:k], r)
	case nodeArg:
		panic("reals: eval on nodeArg")
	case nodeNeg:
		if err := n.left.eval(ctx); err != nil {
			return err
		}
		ctx.push(ctx.pop().Neg())
	case nodeNop:
		return n.left.eval(ctx)
	case nodeAdd:
		return n.binary(ctx, func(x, y *Real) (*Real, error) { return x.Add(y), nil })
	case nodeSub:
		return n.binary(ctx, func(x, y *Real) (*Real, error) { return x.Sub(y), nil })
	case nodeMul:
		return n.binary(ctx, func(x, y *Real) (*Real, error) { return x.Mul(y), nil })
	case nodeDiv:
		return n.binary(ctx, func(x, y *Real) (*Real, error) {
			inv, err := y.InverseLimit(ctx.limit)
			if err != nil {
				return nil, &DomainError{Arg: n.right.String(), Func: "/", Err: err}
			}
			return x.Mul(inv), nil
		})
	case nodePow:
		k, ok := n.right.integer()
		if !ok {
			return &DomainError{Arg: n.right.String(), Func: "^"}
		}
		if k > MaxExponent || k < -MaxExponent {
			return &DomainError{Arg: n.right.String(), Func: "^", Err: ErrExponentRange}
		}
		if err := n.left.eval(ctx); err != nil {
			return err
		}
		x := ctx.pop()
		if k < 0 {
			inv, err := x.InverseLimit(ctx.limit)
			if err != nil {
				return &DomainError{Arg: n.left.String(), Func: "^", Err: err}
			}
			x, k = inv, -k
		}
		ctx.push(pow(x, k))
	default:
		panic("reals: invalid AST node " + n.kind.String())
	}
	return nil
}

// integer returns the value of a constant integer exponent. Only literals,
// optionally signed, are constant.
func (n *node) integer() (int64, bool) {
	switch n.kind {
	case nodeNum:
		v := n.val.LowestTerms()
		if v.d().Cmp(bigOne) != 0 || !v.n().IsInt64() {
			return 0, false
		}
		return v.n().Int64(), true
	case nodeNeg:
		k, ok := n.left.integer()
		return -k, ok
	case nodeNop:
		return n.left.integer()
	default:
		return 0, false
	}
}

// pow raises x to the non-negative power k by repeated squaring.
func pow(x *Real, k int64) *Real {
	r := One
	for first := true; k > 0; k >>= 1 {
		if k&1 != 0 {
			if first {
				r, first = x, false
			} else {
				r = r.Mul(x)
			}
		}
		if k > 1 {
			x = x.Mul(x)
		}
	}
	return r
}

// Eval is a shortcut to parse an expression and build its result using the
// default functions.
func Eval(src io.RuneScanner, opts ...ContextOption) (*Real, error) {
	ctx := NewContext(opts...)
	a, err := Parse(src)
	if err != nil {
		return nil, err
	}
	ctx.Eval(a)
	return ctx.Result(), ctx.Err()
}

// EvalString is a shortcut to parse and evaluate a string expression.
func EvalString(src string, opts ...ContextOption) (*Real, error) {
	return Eval(strings.NewReader(src), opts...)
}
