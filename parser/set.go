package parser

import "github.com/dhamidi/formulint/scanner"

// SetParser finds the longest of a fixed list of literal candidates.
type SetParser struct {
	candidates []string
	known      map[string]struct{}
	chars      scanner.CharSet
}

func NewSetParser(candidates ...string) *SetParser {
	known := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		known[c] = struct{}{}
	}
	return &SetParser{
		candidates: append([]string(nil), candidates...),
		known:      known,
		chars:      scanner.NewCharSet(candidates...),
	}
}

// Candidates returns the candidate list in construction order.
func (p *SetParser) Candidates() []string {
	return append([]string(nil), p.candidates...)
}

// Parse accumulates characters that belong to any candidate, starting at pos,
// and returns the longest accumulated prefix that equals a candidate. Scanning
// stops at the first character no candidate contains; characters read after
// the longest match are not consumed.
//
// Parse panics if pos is outside [0, len(source)].
func (p *SetParser) Parse(source string, pos int) (Result, Outcome) {
	cur := scanner.NewCursor(source, pos)
	end := -1
	for !cur.EOF() && p.chars.Contains(cur.Peek()) {
		cur.Advance()
		if _, ok := p.known[cur.Slice(pos)]; ok {
			end = cur.Pos()
		}
	}
	if end < 0 {
		return Result{}, Fail
	}
	return newResult(source, pos, end)
}
