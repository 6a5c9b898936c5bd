package formula

import "fmt"

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenOperand
	TokenAnd
	TokenOr
	TokenLParen
	TokenRParen
)

var tokenNames = map[TokenKind]string{
	TokenEOF:     "EOF",
	TokenError:   "Error",
	TokenOperand: "Operand",
	TokenAnd:     "and",
	TokenOr:      "or",
	TokenLParen:  "(",
	TokenRParen:  ")",
}

func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return "Unknown"
}

type Token struct {
	Kind    TokenKind
	Literal string
	Offset  int
}

func (t Token) End() int {
	return t.Offset + len(t.Literal)
}

func (t Token) String() string {
	return fmt.Sprintf("%d %s %q", t.Offset, t.Kind, t.Literal)
}

// LookupOperator returns TokenAnd or TokenOr for the operator words and
// TokenError for anything else.
func LookupOperator(word string) TokenKind {
	switch word {
	case "and":
		return TokenAnd
	case "or":
		return TokenOr
	}
	return TokenError
}
