package reals

import "strings"

// node is a node in the abstract syntax tree of an expression. Evaluating a
// node builds the Real it denotes; approximating that Real walks the
// composition again at every call.
type node struct {
	kind nodeKind

	name string
	val  Rational
	fn   Func

	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum  // val
	nodeName // lookup(name)

	nodeCall // name is Func to call, right is link to nodeArg unless niladic
	nodeArg  // left is the argument, right is link to next arg

	nodeNeg // -left
	nodeAdd // left + right
	nodeSub // left - right
	nodeMul // left * right
	nodeDiv // left / right
	nodePow // left ^ right, right an integer constant
	nodeNop // +left
)

//go:generate go mod edit -require=golang.org/x/tools@v0.1.0
//go:generate go mod download
//go:generate go run golang.org/x/tools/cmd/stringer -type=nodeKind -trimprefix=node
//go:generate go mod tidy

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b, false, false)
	return b.String()
}

// fmt writes the node, grouping every term in brackets that alternate between
// round and square. With alt, multiplication and division use × and ÷.
func (n *node) fmt(b *strings.Builder, square, alt bool) {
	var l, r byte = '(', ')'
	if square {
		l, r = '[', ']'
	}
	b.WriteByte(l)
	defer b.WriteByte(r)
	bin := func(op, altop string) {
		n.left.fmt(b, !square, alt)
		if alt && altop != "" {
			op = altop
		}
		b.WriteString(" " + op + " ")
		n.right.fmt(b, !square, alt)
	}
	switch n.kind {
	case nodeNum, nodeName:
		b.WriteString(n.name)
	case nodeCall:
		b.WriteString(n.name)
		n.fmtargs(b, !square, alt)
	case nodeNeg:
		b.WriteByte('-')
		n.left.fmt(b, !square, alt)
	case nodeNop:
		b.WriteByte('+')
		n.left.fmt(b, !square, alt)
	case nodeAdd:
		bin("+", "")
	case nodeSub:
		bin("-", "")
	case nodeMul:
		bin("*", "×")
	case nodeDiv:
		bin("/", "÷")
	case nodePow:
		bin("^", "")
	default:
		panic("reals: cannot format node kind " + n.kind.String() + " after " + b.String())
	}
}

func (n *node) fmtargs(b *strings.Builder, square, alt bool) {
	var l, r byte = '(', ')'
	if square {
		l, r = '[', ']'
	}
	b.WriteByte(l)
	defer b.WriteByte(r)
	for a := n.right; a != nil; a = a.right {
		if a != n.right {
			b.WriteString(", ")
		}
		a.left.fmt(b, !square, alt)
	}
}
