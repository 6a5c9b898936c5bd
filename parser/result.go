// Package parser contains the token primitives used to scan trigger
// expressions: a greedy set parser and a macro token parser.
//
// Every primitive reports one of three outcomes. Fail carries no result.
// Success means the match ends at the end of the input; SuccessContinue
// means more input follows the match.
package parser

import "fmt"

type Outcome int

const (
	Fail Outcome = iota
	Success
	SuccessContinue
)

func (o Outcome) String() string {
	switch o {
	case Fail:
		return "Fail"
	case Success:
		return "Success"
	case SuccessContinue:
		return "SuccessContinue"
	}
	return "Unknown"
}

// Ok reports whether the outcome carries a match.
func (o Outcome) Ok() bool {
	return o == Success || o == SuccessContinue
}

// Result describes a match inside Source. Pos+Length never exceeds
// len(Source).
type Result struct {
	Source string
	Pos    int
	Length int
	Match  string
}

func (r Result) End() int {
	return r.Pos + r.Length
}

func (r Result) String() string {
	return fmt.Sprintf("%d:%d %q", r.Pos, r.End(), r.Match)
}

// Parser matches a single token at a position.
type Parser interface {
	Parse(source string, pos int) (Result, Outcome)
}

func newResult(source string, pos, end int) (Result, Outcome) {
	r := Result{
		Source: source,
		Pos:    pos,
		Length: end - pos,
		Match:  source[pos:end],
	}
	if end < len(source) {
		return r, SuccessContinue
	}
	return r, Success
}
