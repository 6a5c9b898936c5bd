// Package expression tokenizes trigger expressions such as
// "{$LOAD.MAX} > 5 and {#IFNAME} <> 0" using the primitives from package
// parser.
package expression

import (
	"fmt"
	"strings"

	"github.com/dhamidi/formulint/parser"
	"github.com/dhamidi/formulint/scanner"
)

// DefaultOperators are the operators of a trigger expression.
var DefaultOperators = []string{
	"=", "<>", "<", ">", "<=", ">=",
	"+", "-", "*", "/",
	"and", "or", "not",
}

const unitSuffixes = "smhdwKMGT"

// Tokenizer splits expressions into tokens. A Tokenizer holds no state
// between calls and may be shared.
type Tokenizer struct {
	operators *parser.SetParser
	userMacro *parser.MacroParser
	lldMacro  *parser.MacroParser
}

// NewTokenizer returns a tokenizer for the given operators, or for
// DefaultOperators when none are given.
func NewTokenizer(operators ...string) *Tokenizer {
	if len(operators) == 0 {
		operators = DefaultOperators
	}
	return &Tokenizer{
		operators: parser.NewSetParser(operators...),
		userMacro: parser.NewMacroParser('$'),
		lldMacro:  parser.NewMacroParser('#'),
	}
}

var defaultTokenizer = NewTokenizer()

// Tokenize splits expr with the default operators.
func Tokenize(expr string) ([]Token, error) {
	return defaultTokenizer.Tokenize(expr)
}

func (t *Tokenizer) Tokenize(expr string) ([]Token, error) {
	var tokens []Token
	pos := 0
	for pos < len(expr) {
		tok, err := t.next(expr, pos)
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		pos += len(tok.Literal)
	}
	return tokens, nil
}

func (t *Tokenizer) next(expr string, pos int) (Token, error) {
	cur := scanner.NewCursor(expr, pos)
	ch := cur.Peek()

	switch {
	case scanner.IsSpace(ch):
		cur.Consume(scanner.IsSpace)
		return Token{Kind: TokenSpace, Literal: cur.Slice(pos), Offset: pos}, nil
	case ch == '(':
		return Token{Kind: TokenLParen, Literal: "(", Offset: pos}, nil
	case ch == ')':
		return Token{Kind: TokenRParen, Literal: ")", Offset: pos}, nil
	case ch == '{':
		if r, outcome := t.userMacro.Parse(expr, pos); outcome.Ok() {
			return Token{Kind: TokenUserMacro, Literal: r.Match, Offset: pos}, nil
		}
		if r, outcome := t.lldMacro.Parse(expr, pos); outcome.Ok() {
			return Token{Kind: TokenLLDMacro, Literal: r.Match, Offset: pos}, nil
		}
		return Token{}, syntaxError(expr, pos, "invalid macro")
	case scanner.IsDigit(ch):
		return t.number(cur, expr, pos)
	}

	r, outcome := t.operators.Parse(expr, pos)
	if !outcome.Ok() {
		return Token{}, syntaxError(expr, pos, fmt.Sprintf("unexpected character %q", ch))
	}
	if isWord(r.Match) && r.End() < len(expr) && isWordChar(expr[r.End()]) {
		return Token{}, syntaxError(expr, pos, "operator must be followed by a delimiter")
	}
	return Token{Kind: TokenOperator, Literal: r.Match, Offset: pos}, nil
}

func (t *Tokenizer) number(cur *scanner.Cursor, expr string, pos int) (Token, error) {
	cur.Consume(scanner.IsDigit)
	if cur.Peek() == '.' && scanner.IsDigit(cur.PeekAt(1)) {
		cur.Advance()
		cur.Consume(scanner.IsDigit)
	}
	if ch := cur.Peek(); ch != 0 && strings.IndexByte(unitSuffixes, ch) >= 0 {
		cur.Advance()
	}
	if isWordChar(cur.Peek()) || cur.Peek() == '.' {
		return Token{}, syntaxError(expr, cur.Pos(), "invalid number")
	}
	return Token{Kind: TokenNumber, Literal: cur.Slice(pos), Offset: pos}, nil
}

// Macros returns the names of the user macros in expr in order of first
// occurrence.
func Macros(expr string) ([]string, error) {
	tokens, err := Tokenize(expr)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var names []string
	for _, tok := range tokens {
		if tok.Kind != TokenUserMacro {
			continue
		}
		name := tok.MacroName()
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names, nil
}

// CheckParens reports the first unbalanced parenthesis in tokens.
func CheckParens(expr string, tokens []Token) error {
	var open []int
	for _, tok := range tokens {
		switch tok.Kind {
		case TokenLParen:
			open = append(open, tok.Offset)
		case TokenRParen:
			if len(open) == 0 {
				return syntaxError(expr, tok.Offset, "unmatched \")\"")
			}
			open = open[:len(open)-1]
		}
	}
	if len(open) > 0 {
		return syntaxError(expr, open[len(open)-1], "unmatched \"(\"")
	}
	return nil
}

func syntaxError(expr string, offset int, msg string) error {
	return &SyntaxError{Expression: expr, Offset: offset, Message: msg}
}

func isWord(s string) bool {
	for i := 0; i < len(s); i++ {
		if !scanner.IsLetter(s[i]) {
			return false
		}
	}
	return s != ""
}

func isWordChar(ch byte) bool {
	return scanner.IsLetter(ch) || scanner.IsDigit(ch) || ch == '_'
}
