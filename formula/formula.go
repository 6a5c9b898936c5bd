// Package formula parses boolean condition formulas such as
// "A and (B or C)".
//
// Operands are single uppercase letters, each naming one condition. The
// operators are the lowercase words "and" and "or"; "and" binds tighter
// than "or" when a formula is evaluated. Whitespace between tokens is
// ignored, but an operator word must be delimited from its neighbours by
// whitespace or a parenthesis:
//
//	A and(B or C)    valid
//	(A and B)and C   valid
//	A andB           invalid
//	AandB            invalid
//
// Parse returns a new immutable *Formula for every call, so a Formula may be
// shared between goroutines.
package formula

import (
	"fmt"
)

// Formula is a successfully parsed condition formula.
type Formula struct {
	source   string
	root     Node
	operands []string
}

// Parse parses src. Malformed input yields a *SyntaxError.
func Parse(src string) (*Formula, error) {
	p := &formulaParser{lex: NewLexer(src), src: src, seen: make(map[string]bool)}
	p.next()

	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.tok.Kind != TokenEOF {
		return nil, p.errorf("expected \"and\" or \"or\", got %q", p.tok.Literal)
	}

	return &Formula{source: src, root: root, operands: p.operands}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(src string) *Formula {
	f, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return f
}

// Valid reports whether src is a syntactically valid formula.
func Valid(src string) bool {
	_, err := Parse(src)
	return err == nil
}

func (f *Formula) Source() string { return f.source }

func (f *Formula) Root() Node { return f.root }

// Operands returns the distinct operands in order of first occurrence.
func (f *Formula) Operands() []string {
	return append([]string(nil), f.operands...)
}

// Uses reports whether id occurs in the formula.
func (f *Formula) Uses(id string) bool {
	for _, op := range f.operands {
		if op == id {
			return true
		}
	}
	return false
}

// String renders the formula with single spaces around operators.
func (f *Formula) String() string {
	return f.root.String()
}

// Evaluate computes the formula for the given operand values. Every operand
// must have a value.
func (f *Formula) Evaluate(values map[string]bool) (bool, error) {
	for _, op := range f.operands {
		if _, ok := values[op]; !ok {
			return false, fmt.Errorf("evaluate %q: no value for operand %s", f.source, op)
		}
	}
	return f.root.eval(values), nil
}

type formulaParser struct {
	lex      *Lexer
	src      string
	tok      Token
	seen     map[string]bool
	operands []string
}

func (p *formulaParser) next() {
	p.tok = p.lex.NextToken()
}

func (p *formulaParser) errorf(format string, args ...any) error {
	return &SyntaxError{
		Formula: p.src,
		Offset:  p.tok.Offset,
		Message: fmt.Sprintf(format, args...),
	}
}

// parseOr parses: and-term { "or" and-term }
func (p *formulaParser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.tok.Kind == TokenOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: OpOr, Left: left, Right: right}
	}
	return left, nil
}

// parseAnd parses: term { "and" term }
func (p *formulaParser) parseAnd() (Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.tok.Kind == TokenAnd {
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: OpAnd, Left: left, Right: right}
	}
	return left, nil
}

// parseTerm parses: operand | "(" formula ")"
func (p *formulaParser) parseTerm() (Node, error) {
	tok := p.tok
	switch tok.Kind {
	case TokenOperand:
		p.next()
		if !p.seen[tok.Literal] {
			p.seen[tok.Literal] = true
			p.operands = append(p.operands, tok.Literal)
		}
		return &Operand{Name: tok.Literal, Offset: tok.Offset}, nil
	case TokenLParen:
		p.next()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.tok.Kind != TokenRParen {
			if p.tok.Kind == TokenEOF {
				return nil, p.errorf("missing closing parenthesis for \"(\" at offset %d", tok.Offset)
			}
			return nil, p.errorf("expected \")\", got %q", p.tok.Literal)
		}
		p.next()
		return &Group{Inner: inner, Offset: tok.Offset}, nil
	case TokenEOF:
		return nil, p.errorf("unexpected end of formula")
	case TokenAnd, TokenOr:
		return nil, p.errorf("unexpected operator %q", tok.Literal)
	case TokenRParen:
		return nil, p.errorf("unexpected \")\"")
	}
	return nil, p.errorf("invalid token %q", tok.Literal)
}
