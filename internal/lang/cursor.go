package lang

import "fortio.org/safecast"

// Cursor walks the bytes of a single line. Positions are byte columns
// relative to the line start, which is exactly what token.Token records.
type Cursor struct {
	line []byte
	pos  int
}

func NewCursor(line []byte) Cursor {
	return Cursor{line: line}
}

// Peek returns the byte at the cursor, or 0 at end of line.
func (c *Cursor) Peek() byte {
	if c.pos < len(c.line) {
		return c.line[c.pos]
	}
	return 0
}

// Peek2 returns the byte after the cursor, or 0 if none.
func (c *Cursor) Peek2() byte {
	if c.pos+1 < len(c.line) {
		return c.line[c.pos+1]
	}
	return 0
}

// Bump advances past one byte.
func (c *Cursor) Bump() {
	if c.pos < len(c.line) {
		c.pos++
	}
}

// Eat advances past b if it is next, reporting whether it did.
func (c *Cursor) Eat(b byte) bool {
	if c.Peek() == b {
		c.pos++
		return true
	}
	return false
}

// EatWhile advances while pred holds, returning how many bytes it ate.
func (c *Cursor) EatWhile(pred func(byte) bool) int {
	n := 0
	for c.pos < len(c.line) && pred(c.line[c.pos]) {
		c.pos++
		n++
	}
	return n
}

// Mark returns the current column for a later Since.
func (c *Cursor) Mark() uint32 {
	return safecast.MustConvert[uint32](c.pos)
}

// Since returns the span length from mark to the current position.
func (c *Cursor) Since(mark uint32) uint32 {
	return safecast.MustConvert[uint32](c.pos) - mark
}

// Col returns the current byte column.
func (c *Cursor) Col() uint32 {
	return safecast.MustConvert[uint32](c.pos)
}

// SetCol moves the cursor to an absolute column.
func (c *Cursor) SetCol(col uint32) {
	c.pos = int(col)
	if c.pos > len(c.line) {
		c.pos = len(c.line)
	}
}

// LineSlice returns the line bytes between two columns.
func (c *Cursor) LineSlice(from, to uint32) []byte {
	return c.line[from:to]
}

// AtEnd reports whether the whole line has been consumed.
func (c *Cursor) AtEnd() bool {
	return c.pos >= len(c.line)
}

// Rest returns the unconsumed tail of the line.
func (c *Cursor) Rest() []byte {
	return c.line[c.pos:]
}

// Len returns the full line length.
func (c *Cursor) Len() uint32 {
	return safecast.MustConvert[uint32](len(c.line))
}
