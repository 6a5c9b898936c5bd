package grammar

import (
	"fmt"
	"io"

	"golang.org/x/exp/ebnf"
)

// Position represents a location in the input.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a lexical token with the name of the production it matched.
type Token struct {
	Kind     string
	Literal  string
	Position Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s %s %q", t.Position, t.Kind, t.Literal)
}

type memoKey struct {
	name   string
	offset int
}

// Lexer tokenizes input by trying each token production at the current
// offset and keeping the longest match.
type Lexer struct {
	grammar  ebnf.Grammar
	tokens   []string
	input    []byte
	pos      int
	line     int
	column   int
	memo     map[memoKey]int // match length, -1 for no match
	visiting map[memoKey]bool
}

// NewLexer creates a lexer emitting the given token productions. On equal
// match lengths the production listed first wins.
func NewLexer(g ebnf.Grammar, input []byte, tokens ...string) *Lexer {
	return &Lexer{
		grammar:  g,
		tokens:   tokens,
		input:    input,
		line:     1,
		column:   1,
		memo:     make(map[memoKey]int),
		visiting: make(map[memoKey]bool),
	}
}

func (l *Lexer) Position() Position {
	return Position{Offset: l.pos, Line: l.line, Column: l.column}
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

// NextToken returns the next token. Input no production matches comes back
// one byte at a time as "ERROR" tokens. At end of input it returns an
// "EOF" token and io.EOF.
func (l *Lexer) NextToken() (Token, error) {
	if l.pos >= len(l.input) {
		return Token{Kind: "EOF", Position: l.Position()}, io.EOF
	}

	start := l.Position()
	offset := l.pos
	l.memo = make(map[memoKey]int)

	var bestKind string
	var bestLen int
	for _, name := range l.tokens {
		prod, ok := l.grammar[name]
		if !ok || prod.Expr == nil {
			continue
		}
		l.visiting = make(map[memoKey]bool)
		if n := l.match(prod.Expr, offset); n > bestLen {
			bestLen = n
			bestKind = name
		}
	}

	if bestLen == 0 {
		ch := l.advance()
		return Token{Kind: "ERROR", Literal: string(ch), Position: start}, nil
	}

	for i := 0; i < bestLen; i++ {
		l.advance()
	}
	return Token{Kind: bestKind, Literal: string(l.input[offset : offset+bestLen]), Position: start}, nil
}

// Tokenize reads all tokens, including the trailing EOF token.
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok, err := l.NextToken()
		tokens = append(tokens, tok)
		if err != nil {
			return tokens
		}
	}
}

// match returns the length of the longest match of expr at offset, or 0.
func (l *Lexer) match(expr ebnf.Expression, offset int) int {
	switch e := expr.(type) {
	case *ebnf.Token:
		s := e.String
		if offset+len(s) <= len(l.input) && string(l.input[offset:offset+len(s)]) == s {
			return len(s)
		}
		return 0

	case *ebnf.Range:
		if offset >= len(l.input) || len(e.Begin.String) != 1 || len(e.End.String) != 1 {
			return 0
		}
		ch := l.input[offset]
		if ch >= e.Begin.String[0] && ch <= e.End.String[0] {
			return 1
		}
		return 0

	case ebnf.Sequence:
		total := 0
		for _, item := range e {
			n := l.match(item, offset+total)
			if n == 0 {
				return 0
			}
			total += n
		}
		return total

	case ebnf.Alternative:
		best := 0
		for _, alt := range e {
			if n := l.match(alt, offset); n > best {
				best = n
			}
		}
		return best

	case *ebnf.Repetition:
		total := 0
		for {
			n := l.match(e.Body, offset+total)
			if n == 0 {
				return total
			}
			total += n
		}

	case *ebnf.Option:
		return l.match(e.Body, offset)

	case *ebnf.Group:
		return l.match(e.Body, offset)

	case *ebnf.Name:
		return l.matchName(e.String, offset)
	}
	return 0
}

// matchName matches a named production, memoized per offset. A production
// already being matched at the same offset is left recursive and fails.
func (l *Lexer) matchName(name string, offset int) int {
	key := memoKey{name: name, offset: offset}
	if n, ok := l.memo[key]; ok {
		if n < 0 {
			return 0
		}
		return n
	}
	if l.visiting[key] {
		return 0
	}

	prod, ok := l.grammar[name]
	if !ok || prod.Expr == nil {
		l.memo[key] = -1
		return 0
	}

	l.visiting[key] = true
	n := l.match(prod.Expr, offset)
	delete(l.visiting, key)

	if n == 0 {
		l.memo[key] = -1
	} else {
		l.memo[key] = n
	}
	return n
}

// Significant drops space tokens.
func Significant(tokens []Token) []Token {
	out := tokens[:0:0]
	for _, tok := range tokens {
		if tok.Kind == "space" {
			continue
		}
		out = append(out, tok)
	}
	return out
}
