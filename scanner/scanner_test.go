package scanner

import "testing"

func TestCursor(t *testing.T) {
	c := NewCursor("ab  CD", 0)

	if c.Peek() != 'a' {
		t.Errorf("Peek = %q, want %q", c.Peek(), 'a')
	}
	if n := c.Consume(IsLower); n != 2 {
		t.Errorf("Consume(IsLower) = %d, want 2", n)
	}
	if n := c.Consume(IsSpace); n != 2 {
		t.Errorf("Consume(IsSpace) = %d, want 2", n)
	}
	if !c.Accept('C') {
		t.Error("Accept('C') = false")
	}
	if c.Accept('C') {
		t.Error("Accept('C') twice = true")
	}
	if got := c.Slice(0); got != "ab  C" {
		t.Errorf("Slice(0) = %q", got)
	}
	c.Advance()
	if !c.EOF() {
		t.Error("EOF = false at end of input")
	}
	if c.Advance() != 0 || c.Peek() != 0 {
		t.Error("reading past end should return 0")
	}
}

func TestCursorNeverMovesBeforeStart(t *testing.T) {
	c := NewCursor("xyz", 1)
	c.Reset(0)
	if c.Pos() != 1 {
		t.Errorf("Pos = %d after Reset(0), want 1", c.Pos())
	}
	if c.PeekAt(-1) != 0 {
		t.Errorf("PeekAt(-1) = %q, want 0", c.PeekAt(-1))
	}
	if got := c.Slice(0); got != "" {
		t.Errorf("Slice(0) = %q, want empty", got)
	}
}

func TestNewCursorPanics(t *testing.T) {
	for _, pos := range []int{-1, 4} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("NewCursor(%d) did not panic", pos)
				}
			}()
			NewCursor("abc", pos)
		}()
	}
}

func TestIsMacroNameChar(t *testing.T) {
	for _, ch := range []byte("AZ09._") {
		if !IsMacroNameChar(ch) {
			t.Errorf("IsMacroNameChar(%q) = false", ch)
		}
	}
	for _, ch := range []byte("az{}$# -:") {
		if IsMacroNameChar(ch) {
			t.Errorf("IsMacroNameChar(%q) = true", ch)
		}
	}
}

func TestCharSet(t *testing.T) {
	cs := NewCharSet("<>", "and", "or")
	for _, ch := range []byte("<>andor") {
		if !cs.Contains(ch) {
			t.Errorf("Contains(%q) = false", ch)
		}
	}
	for _, ch := range []byte("=bx ") {
		if cs.Contains(ch) {
			t.Errorf("Contains(%q) = true", ch)
		}
	}
}
