package reals

import (
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Expr = Sum
// Sum = Term { ('+' | '-') Term }
// Term = Unary { ('*' | '×' | '/' | '÷') Unary | Power }
// Unary = ('+' | '-') Unary | Power
// Power = Atom [ '^' Unary ]
// Atom = num | name | Call | '(' Expr ')' | '[' Expr ']' | '{' Expr '}'
// Call = funcname | funcname Power | funcname '(' Expr { ',' Expr } ')'

// Expr is a parsed expression that can be evaluated with a context.
type Expr struct {
	// n is the root node of the expression.
	n *node
	// names is the sorted list of variable names used in the expression.
	names []string
}

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(*parser)
}

type (
	funcopt struct {
		name string
		fn   Func
	}
	funcsopt map[string]Func
	eofopt   struct {
		comma bool
		ws    string
	}
)

// ParseFunc sets a function for parsing. To parse name as a variable
// instead, pass nil for fn.
func ParseFunc(name string, fn Func) ParseOption {
	return funcopt{name, fn}
}

func (o funcopt) parseOption(p *parser) {
	p.setfunc(o.name, o.fn)
}

// ParseFuncs sets a group of functions for parsing. Names mapped to nil are
// parsed as variables.
func ParseFuncs(fns map[string]Func) ParseOption {
	return funcsopt(fns)
}

func (o funcsopt) parseOption(p *parser) {
	for k, v := range o {
		p.setfunc(k, v)
	}
}

// DisableDefaultFuncs disables all default functions during parsing. Their
// names are parsed as variables instead.
func DisableDefaultFuncs() ParseOption {
	m := make(funcsopt, len(globalfuncs))
	for k := range globalfuncs {
		m[k] = nil
	}
	return m
}

// StopOn tells the parser to treat a list of characters as ending the
// expression. Each rune must be a comma or whitespace. Whitespace does not
// end an expression where a term is expected, e.g. at the beginning of an
// expression or following an operator. Commas do not end expressions inside
// function argument lists. StopOn overrides any previous StopOn.
func StopOn(chars ...rune) ParseOption {
	var o eofopt
	var ws []rune
	for _, r := range chars {
		switch {
		case r == ',':
			o.comma = true
		case unicode.IsSpace(r):
			if !strings.ContainsRune(string(ws), r) {
				ws = append(ws, r)
			}
		default:
			panic("reals: cannot stop on " + strconv.QuoteRune(r))
		}
	}
	o.ws = string(ws)
	return o
}

func (o eofopt) parseOption(p *parser) {
	p.ceof = o.comma
	p.wseof = o.ws
}

// parser holds the state of a single parse.
type parser struct {
	scan *lexer
	// names is the set of variable names seen so far.
	names map[string]bool
	// funcs maps names to the functions they call. It is globalfuncs until an
	// option changes it.
	funcs map[string]Func
	owned bool
	// wseof holds the whitespace runes that end the expression after a
	// complete term, and ceof whether a comma does.
	wseof string
	ceof  bool
	// depth counts open argument lists, inside which commas separate.
	depth int
	// pending is a bracketed term that followed a niladic call. The term
	// multiplies the call by it the way it would any juxtaposed power.
	pending *node
}

func (p *parser) setfunc(name string, fn Func) {
	if !p.owned {
		m := make(map[string]Func, len(p.funcs)+1)
		for k, v := range p.funcs {
			m[k] = v
		}
		p.funcs, p.owned = m, true
	}
	p.funcs[name] = fn
}

// Parse parses an expression so it can be evaluated with a context. The given
// options are applied in order.
func Parse(src io.RuneScanner, opts ...ParseOption) (*Expr, error) {
	p := parser{
		scan:  lex(src),
		names: make(map[string]bool),
		funcs: globalfuncs,
	}
	for _, opt := range opts {
		opt.parseOption(&p)
	}
	n, err := p.expr()
	if err != nil {
		return nil, err
	}
	tok, err := p.scan.next(p.wseof)
	if err != nil {
		return nil, err
	}
	switch {
	case tok.kind == tokenEOF:
	case tok.kind == tokenSep && p.ceof:
	default:
		return nil, p.unexpected(tok, "")
	}
	ex := Expr{n: n, names: make([]string, 0, len(p.names))}
	for k := range p.names {
		ex.names = append(ex.names, k)
	}
	sort.Strings(ex.names)
	return &ex, nil
}

// ParseString is a shortcut to parse an expression from a string.
func ParseString(src string, opts ...ParseOption) (*Expr, error) {
	return Parse(strings.NewReader(src), opts...)
}

// expr parses a sum, the loosest binding level.
func (p *parser) expr() (*node, error) {
	n, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.scan.next(p.wseof)
		if err != nil {
			return nil, err
		}
		if tok.kind != tokenOp || (tok.text != "+" && tok.text != "-") {
			p.scan.push(tok)
			return n, nil
		}
		rhs, err := p.term()
		if err != nil {
			return nil, err
		}
		kind := nodeAdd
		if tok.text == "-" {
			kind = nodeSub
		}
		n = &node{kind: kind, left: n, right: rhs}
	}
}

// term parses a product of unary terms, including implicit multiplication of
// juxtaposed terms: 2 x (y) is 2*x*y.
func (p *parser) term() (*node, error) {
	n, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		if p.pending != nil {
			rhs, err := p.power()
			if err != nil {
				return nil, err
			}
			n = &node{kind: nodeMul, left: n, right: rhs}
			continue
		}
		tok, err := p.scan.next(p.wseof)
		if err != nil {
			return nil, err
		}
		var kind nodeKind
		var rhs *node
		switch tok.kind {
		case tokenOp:
			switch tok.text {
			case "*", "×":
				kind = nodeMul
			case "/", "÷":
				kind = nodeDiv
			case "+", "-":
				p.scan.push(tok)
				return n, nil
			default:
				return nil, &OperatorError{Col: tok.pos, Operator: tok.text}
			}
			rhs, err = p.unary()
		case tokenNum, tokenIdent, tokenOpen:
			p.scan.push(tok)
			kind = nodeMul
			rhs, err = p.power()
		default:
			p.scan.push(tok)
			return n, nil
		}
		if err != nil {
			return nil, err
		}
		n = &node{kind: kind, left: n, right: rhs}
	}
}

// unary parses prefix signs. -x^2 is -(x^2).
func (p *parser) unary() (*node, error) {
	tok, err := p.scan.next("")
	if err != nil {
		return nil, err
	}
	if tok.kind != tokenOp {
		p.scan.push(tok)
		return p.power()
	}
	var kind nodeKind
	switch tok.text {
	case "-":
		kind = nodeNeg
	case "+":
		kind = nodeNop
	default:
		return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: true}
	}
	n, err := p.unary()
	if err != nil {
		return nil, err
	}
	return &node{kind: kind, left: n}, nil
}

// power parses an atom with an optional right-associative exponent.
func (p *parser) power() (*node, error) {
	n, err := p.atom()
	if err != nil {
		return nil, err
	}
	if p.pending != nil {
		// n is a niladic call; the exponent belongs to the term after it.
		return n, nil
	}
	tok, err := p.scan.next(p.wseof)
	if err != nil {
		return nil, err
	}
	if tok.kind != tokenOp || tok.text != "^" {
		p.scan.push(tok)
		return n, nil
	}
	rhs, err := p.unary()
	if err != nil {
		return nil, err
	}
	return &node{kind: nodePow, left: n, right: rhs}, nil
}

// atom parses a number, a name, a call, or a bracketed subexpression.
func (p *parser) atom() (*node, error) {
	if n := p.pending; n != nil {
		p.pending = nil
		return n, nil
	}
	tok, err := p.scan.next("")
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokenNum:
		return &node{kind: nodeNum, name: tok.text, val: tok.val}, nil
	case tokenIdent:
		fn := p.funcs[tok.text]
		if fn == nil {
			p.names[tok.text] = true
			return &node{kind: nodeName, name: tok.text}, nil
		}
		return p.call(tok.text, fn)
	case tokenOpen:
		return p.group(tok)
	case tokenOp:
		return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: true}
	case tokenClose:
		return nil, &EmptyExpressionError{Col: tok.pos, End: tok.text}
	case tokenSep:
		if p.depth > 0 {
			return nil, &EmptyExpressionError{Col: tok.pos, End: tok.text}
		}
		return nil, &SeparatorError{Col: tok.pos, Sep: tok.text}
	case tokenEOF:
		return nil, &EmptyExpressionError{Col: tok.pos}
	default:
		panic("reals: unknown token " + tok.String())
	}
}

// group parses the rest of a bracketed subexpression.
func (p *parser) group(open lexToken) (*node, error) {
	// Separators and stop runes mean nothing inside brackets.
	defer func(d int, ws string, c bool) { p.depth, p.wseof, p.ceof = d, ws, c }(p.depth, p.wseof, p.ceof)
	p.depth, p.wseof, p.ceof = 0, "", false
	n, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := p.close(open); err != nil {
		return nil, err
	}
	return n, nil
}

// close consumes the bracket matching open.
func (p *parser) close(open lexToken) error {
	tok, err := p.scan.next("")
	if err != nil {
		return err
	}
	if tok.kind != tokenClose || !matches(open.text, tok.text) {
		return p.unexpected(tok, open.text)
	}
	return nil
}

// call parses the arguments of a call to fn. A bracketed list is an argument
// list when fn accepts that many arguments. A single bracketed term after a
// niladic function is left pending for term to multiply, so pi(2)^2 is
// pi*(2^2). A bare term is the argument of a monadic function.
func (p *parser) call(name string, fn Func) (*node, error) {
	n := &node{kind: nodeCall, name: name, fn: fn}
	tok, err := p.scan.peek(p.wseof)
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokenOpen:
		p.scan.next("")
		args, k, err := p.arglist(tok)
		if err != nil {
			return nil, err
		}
		switch {
		case fn.CanCall(k):
			n.right = args
		case k == 1 && fn.CanCall(0):
			p.pending = args.left
		default:
			return nil, &CallError{Col: tok.pos, Func: name, Len: k}
		}
	case tokenNum, tokenIdent:
		switch {
		case fn.CanCall(1):
			arg, err := p.power()
			if err != nil {
				return nil, err
			}
			n.right = &node{kind: nodeArg, left: arg}
		case !fn.CanCall(0):
			return nil, &CallError{Col: tok.pos, Func: name, Len: 1}
		}
	case tokenOp:
		if !fn.CanCall(0) && fn.CanCall(1) && (tok.text == "-" || tok.text == "+") {
			arg, err := p.unary()
			if err != nil {
				return nil, err
			}
			n.right = &node{kind: nodeArg, left: arg}
		} else if !fn.CanCall(0) {
			return nil, &CallError{Col: tok.pos, Func: name}
		}
	default:
		if !fn.CanCall(0) {
			return nil, &CallError{Col: tok.pos, Func: name}
		}
	}
	return n, nil
}

// arglist parses a bracketed, comma-separated list of zero or more
// arguments after its opening bracket.
func (p *parser) arglist(open lexToken) (*node, int, error) {
	defer func(ws string, c bool) { p.wseof, p.ceof = ws, c }(p.wseof, p.ceof)
	p.wseof, p.ceof = "", false
	p.depth++
	defer func() { p.depth-- }()
	tok, err := p.scan.peek("")
	if err != nil {
		return nil, 0, err
	}
	if tok.kind == tokenClose {
		// Niladic call with brackets, f().
		return nil, 0, p.close(open)
	}
	var head node
	l := &head
	k := 0
	for {
		arg, err := p.expr()
		if err != nil {
			return nil, 0, err
		}
		l.right = &node{kind: nodeArg, left: arg}
		l = l.right
		k++
		tok, err := p.scan.next("")
		if err != nil {
			return nil, 0, err
		}
		if tok.kind != tokenSep {
			p.scan.push(tok)
			return head.right, k, p.close(open)
		}
	}
}

// matches reports whether close closes open.
func matches(open, close string) bool {
	i := strings.Index(OpenBrackets, open)
	return i >= 0 && strings.Index(CloseBrackets, close) == i
}

// unexpected creates an error for a token that cannot continue the
// expression. open is the bracket the expression should have closed, if any.
func (p *parser) unexpected(tok lexToken, open string) error {
	switch tok.kind {
	case tokenEOF:
		return &BracketError{Col: tok.pos, Left: open}
	case tokenClose:
		return &BracketError{Col: tok.pos, Left: open, Right: tok.text}
	case tokenSep:
		return &SeparatorError{Col: tok.pos, Sep: tok.text}
	default:
		panic("reals: unexpected token " + tok.String() + " after complete expression")
	}
}

// Vars returns the variable names used when evaluating the expression.
func (e *Expr) Vars() []string {
	return append(([]string)(nil), e.names...)
}

// String creates a string representation of the parsed expression, with
// alternating round and square brackets grouping each term.
func (e *Expr) String() string {
	var b strings.Builder
	e.n.fmt(&b, false, true)
	return b.String()
}
