// Package scanner provides a byte cursor and the character classes shared by
// the expression and formula parsers.
package scanner

// Cursor walks a string one byte at a time. It never moves before the
// position it was created at.
type Cursor struct {
	src   string
	start int
	pos   int
}

// NewCursor returns a cursor over src positioned at pos. It panics when pos
// lies outside [0, len(src)].
func NewCursor(src string, pos int) *Cursor {
	if pos < 0 || pos > len(src) {
		panic("scanner: position out of range")
	}
	return &Cursor{src: src, start: pos, pos: pos}
}

func (c *Cursor) Source() string { return c.src }

func (c *Cursor) Start() int { return c.start }

func (c *Cursor) Pos() int { return c.pos }

func (c *Cursor) EOF() bool { return c.pos >= len(c.src) }

// Peek returns the current byte, or 0 at end of input.
func (c *Cursor) Peek() byte {
	if c.pos >= len(c.src) {
		return 0
	}
	return c.src[c.pos]
}

// PeekAt returns the byte n positions ahead, or 0 past the end of input.
func (c *Cursor) PeekAt(n int) byte {
	if c.pos+n >= len(c.src) || c.pos+n < c.start {
		return 0
	}
	return c.src[c.pos+n]
}

func (c *Cursor) Advance() byte {
	if c.pos >= len(c.src) {
		return 0
	}
	ch := c.src[c.pos]
	c.pos++
	return ch
}

// Accept advances past ch if it is the current byte.
func (c *Cursor) Accept(ch byte) bool {
	if c.EOF() || c.src[c.pos] != ch {
		return false
	}
	c.pos++
	return true
}

// Consume advances while pred holds and returns the number of bytes consumed.
func (c *Cursor) Consume(pred func(byte) bool) int {
	from := c.pos
	for c.pos < len(c.src) && pred(c.src[c.pos]) {
		c.pos++
	}
	return c.pos - from
}

// Slice returns the text between from and the current position.
func (c *Cursor) Slice(from int) string {
	if from < c.start {
		from = c.start
	}
	return c.src[from:c.pos]
}

// Reset moves the cursor back to pos, which must not precede the start.
func (c *Cursor) Reset(pos int) {
	if pos < c.start {
		pos = c.start
	}
	if pos > len(c.src) {
		pos = len(c.src)
	}
	c.pos = pos
}

func IsUpper(ch byte) bool { return ch >= 'A' && ch <= 'Z' }

func IsLower(ch byte) bool { return ch >= 'a' && ch <= 'z' }

func IsLetter(ch byte) bool { return IsUpper(ch) || IsLower(ch) }

func IsDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func IsSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

// IsMacroNameChar reports whether ch may appear in a macro name. Lowercase
// letters are not allowed.
func IsMacroNameChar(ch byte) bool {
	return IsUpper(ch) || IsDigit(ch) || ch == '.' || ch == '_'
}

// CharSet is an immutable set of bytes.
type CharSet struct {
	bits [256]bool
}

// NewCharSet returns the union of the bytes of all given strings.
func NewCharSet(members ...string) CharSet {
	var cs CharSet
	for _, m := range members {
		for i := 0; i < len(m); i++ {
			cs.bits[m[i]] = true
		}
	}
	return cs
}

func (cs CharSet) Contains(ch byte) bool {
	return cs.bits[ch]
}
