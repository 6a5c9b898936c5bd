package formula

import "github.com/dhamidi/formulint/scanner"

// Lexer splits a formula into tokens, skipping whitespace. Malformed input
// produces TokenError tokens rather than failing.
type Lexer struct {
	cur *scanner.Cursor
}

func NewLexer(src string) *Lexer {
	return &Lexer{cur: scanner.NewCursor(src, 0)}
}

func (l *Lexer) Offset() int {
	return l.cur.Pos()
}

func (l *Lexer) NextToken() Token {
	l.cur.Consume(scanner.IsSpace)

	start := l.cur.Pos()
	if l.cur.EOF() {
		return Token{Kind: TokenEOF, Offset: start}
	}

	ch := l.cur.Peek()
	switch {
	case ch == '(':
		l.cur.Advance()
		return Token{Kind: TokenLParen, Literal: "(", Offset: start}
	case ch == ')':
		l.cur.Advance()
		return Token{Kind: TokenRParen, Literal: ")", Offset: start}
	case scanner.IsUpper(ch):
		l.cur.Advance()
		// An operand must be followed by a word boundary.
		if scanner.IsLetter(l.cur.Peek()) {
			l.cur.Consume(scanner.IsLetter)
			return Token{Kind: TokenError, Literal: l.cur.Slice(start), Offset: start}
		}
		return Token{Kind: TokenOperand, Literal: l.cur.Slice(start), Offset: start}
	case scanner.IsLower(ch):
		l.cur.Consume(scanner.IsLetter)
		word := l.cur.Slice(start)
		return Token{Kind: LookupOperator(word), Literal: word, Offset: start}
	}

	l.cur.Advance()
	return Token{Kind: TokenError, Literal: l.cur.Slice(start), Offset: start}
}

// Tokenize returns all tokens of src, ending with TokenEOF.
func Tokenize(src string) []Token {
	l := NewLexer(src)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens
		}
	}
}
