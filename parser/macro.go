package parser

import "github.com/dhamidi/formulint/scanner"

// MacroParser matches tokens of the form {<prefix><NAME>} where NAME is one
// or more of A-Z, 0-9, '.' and '_'.
type MacroParser struct {
	prefix byte
}

// NewMacroParser returns a parser for macros introduced by prefix, for
// example '$' for user macros or '#' for discovery macros.
func NewMacroParser(prefix byte) *MacroParser {
	return &MacroParser{prefix: prefix}
}

func (p *MacroParser) Prefix() byte { return p.prefix }

// Parse panics if pos is outside [0, len(source)].
func (p *MacroParser) Parse(source string, pos int) (Result, Outcome) {
	cur := scanner.NewCursor(source, pos)
	if !cur.Accept('{') {
		return Result{}, Fail
	}
	if !cur.Accept(p.prefix) {
		return Result{}, Fail
	}
	if cur.Consume(scanner.IsMacroNameChar) == 0 {
		return Result{}, Fail
	}
	if !cur.Accept('}') {
		return Result{}, Fail
	}
	return newResult(source, pos, cur.Pos())
}

// Name returns the macro name inside a match produced by a MacroParser.
func Name(r Result) string {
	if r.Length < 3 {
		return ""
	}
	return r.Match[2 : r.Length-1]
}
