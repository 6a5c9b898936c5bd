package expression

import "fmt"

type TokenKind int

const (
	TokenSpace TokenKind = iota
	TokenNumber
	TokenOperator
	TokenUserMacro
	TokenLLDMacro
	TokenLParen
	TokenRParen
)

var tokenNames = [...]string{
	TokenSpace:     "Space",
	TokenNumber:    "Number",
	TokenOperator:  "Operator",
	TokenUserMacro: "UserMacro",
	TokenLLDMacro:  "LLDMacro",
	TokenLParen:    "LParen",
	TokenRParen:    "RParen",
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(tokenNames) {
		return "Unknown"
	}
	return tokenNames[k]
}

type Token struct {
	Kind    TokenKind
	Literal string
	Offset  int
}

func (t Token) String() string {
	return fmt.Sprintf("%d %s %q", t.Offset, t.Kind, t.Literal)
}

// MacroName returns the name of a user or LLD macro token, e.g. "LIMIT"
// for "{$LIMIT}".
func (t Token) MacroName() string {
	if t.Kind != TokenUserMacro && t.Kind != TokenLLDMacro {
		return ""
	}
	return t.Literal[2 : len(t.Literal)-1]
}

// SyntaxError reports the first position the tokenizer could not handle.
type SyntaxError struct {
	Expression string
	Offset     int
	Message    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("incorrect expression %q: %s at offset %d", e.Expression, e.Message, e.Offset)
}
