package reals

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
	// val is the value of a tokenNum.
	val Rational
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is an integer or decimal literal.
	tokenNum
	// tokenIdent is a variable or function name.
	tokenIdent
	// tokenOp is an operator.
	tokenOp
	// tokenOpen is an open bracket, e.g. (.
	tokenOpen
	// tokenClose is a close bracket, e.g. ).
	tokenClose
	// tokenSep separates function arguments.
	tokenSep
)

//go:generate go mod edit -require=golang.org/x/tools@v0.1.0
//go:generate go mod download
//go:generate go run golang.org/x/tools/cmd/stringer -type=tokenKind -trimprefix=token
//go:generate go mod tidy

// Operators contains the runes which are considered to be operators.
const Operators = "+-*/^×÷"

// OpenBrackets and CloseBrackets contain the runes which group expressions.
// A bracket at rune index k in OpenBrackets is closed by the bracket at rune
// index k in CloseBrackets.
const (
	OpenBrackets  = "([{"
	CloseBrackets = ")]}"
)

type lexer struct {
	src  io.RuneScanner
	buf  strings.Builder
	rune int
	p    lexToken
	eof  bool
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{
		src:  src,
		rune: 1,
	}
}

// push unreads a token so that it is the next token returned from next. Panics
// if there is already a pushed token.
func (l *lexer) push(tok lexToken) {
	if l.p.kind != tokenNone {
		panic("reals: double push of " + tok.String())
	}
	l.p = tok
}

// peek returns the next token without consuming it.
func (l *lexer) peek(wseof string) (lexToken, error) {
	tok, err := l.next(wseof)
	if err != nil {
		return tok, err
	}
	l.push(tok)
	return tok, nil
}

func (l *lexer) readRune() (rune, error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
	}
	return r, err
}

// unreadRune unreads a rune from the source. Panics if the source refuses.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.rune--
}

// next scans the next token. Whitespace runes in wseof end the input as if
// they were EOF. Once EOF has been returned, later calls return io.EOF unless
// the EOF token was pushed back.
func (l *lexer) next(wseof string) (lexToken, error) {
	if l.p.kind != tokenNone {
		tok := l.p
		l.p = lexToken{}
		return tok, nil
	}
	if l.eof {
		return lexToken{}, io.EOF
	}
	defer l.buf.Reset()
	tok := lexToken{pos: l.rune}
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				tok.kind = tokenEOF
				l.eof = true
				return tok, nil
			}
			return tok, err
		}
		switch {
		case unicode.IsSpace(r):
			if strings.ContainsRune(wseof, r) {
				tok.kind = tokenEOF
				l.eof = true
				return tok, nil
			}
			tok.pos++
		case '0' <= r && r <= '9', r == '.':
			l.unreadRune()
			if err := l.scanNum(); err != nil {
				return tok, err
			}
			v, err := ParseRational(l.buf.String())
			if err != nil {
				return tok, l.error("number")
			}
			tok.text, tok.kind, tok.val = l.buf.String(), tokenNum, v
			return tok, nil
		case r == '_', unicode.IsLetter(r):
			l.unreadRune()
			if err := l.scanIdent(); err != nil {
				return tok, err
			}
			tok.text, tok.kind = l.buf.String(), tokenIdent
			return tok, nil
		case r == ',':
			tok.text, tok.kind = ",", tokenSep
			return tok, nil
		case strings.ContainsRune(Operators, r):
			tok.text, tok.kind = string(r), tokenOp
			return tok, nil
		case strings.ContainsRune(OpenBrackets, r):
			tok.text, tok.kind = string(r), tokenOpen
			return tok, nil
		case strings.ContainsRune(CloseBrackets, r):
			tok.text, tok.kind = string(r), tokenClose
			return tok, nil
		default:
			l.buf.WriteRune(r)
			return tok, l.error("")
		}
	}
}

// scanNum collects the runes of a number literal: digits, at most one point,
// and an optional exponent with an optional sign. ParseRational has the
// final say on validity.
func (l *lexer) scanNum() error {
	var e, sign bool
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		switch {
		case '0' <= r && r <= '9', r == '.':
			sign = false
		case (r == 'e' || r == 'E') && !e:
			e, sign = true, true
		case (r == '+' || r == '-') && sign:
			// Only directly after the exponent marker; anywhere else a sign is
			// an operator.
			sign = false
		case unicode.IsLetter(r) || r == '_':
			l.buf.WriteRune(r)
			return l.error("number")
		default:
			l.unreadRune()
			return nil
		}
		l.buf.WriteRune(r)
	}
}

func (l *lexer) scanIdent() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// next unread the first rune, so the identifier is not empty.
				return nil
			}
			return err
		}
		if r != '_' && r != '.' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			l.unreadRune()
			return nil
		}
		l.buf.WriteRune(r)
	}
}

func (l *lexer) error(kind string) error {
	return &LexError{
		Text: l.buf.String(),
		Kind: kind,
		Col:  l.rune,
	}
}
