// Package grammar holds the EBNF description of the condition formula
// language and a lexer driven by it.
package grammar

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"golang.org/x/exp/ebnf"
)

// Start is the start production of the formula grammar.
const Start = "Formula"

// Source is the formula grammar in EBNF.
//
//go:embed formula.ebnf
var Source []byte

// TokenProductions are the productions the formula lexer emits, in
// tie-break order.
var TokenProductions = []string{"operand", "and", "or", "lparen", "rparen", "space"}

// Load parses and verifies the embedded grammar.
func Load() (ebnf.Grammar, error) {
	return Parse("formula.ebnf", Source, Start)
}

// LoadFile parses a grammar file. When start is not empty the grammar is
// verified from that production.
func LoadFile(filename, start string) (ebnf.Grammar, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	return Parse(filename, data, start)
}

// Parse parses src and, when start is not empty, verifies it.
func Parse(filename string, src []byte, start string) (ebnf.Grammar, error) {
	g, err := ebnf.Parse(filename, bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	if start == "" {
		return g, nil
	}
	if err := ebnf.Verify(g, start); err != nil {
		return nil, fmt.Errorf("verify grammar: %w", err)
	}
	return g, nil
}
