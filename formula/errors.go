package formula

import "fmt"

// SyntaxError reports a malformed formula. Offset is the byte offset of the
// offending token.
type SyntaxError struct {
	Formula string
	Offset  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("incorrect formula %q: %s at offset %d", e.Formula, e.Message, e.Offset)
}
