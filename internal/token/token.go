package token

// Token is a single classified span on one physical line.
type Token struct {
	Type   Type
	Line   uint32 // 0-based
	Col    uint32 // 0-based byte column within the line
	Length uint32 // in bytes, always > 0
}

// Before reports whether t starts strictly before other in document order.
func (t Token) Before(other Token) bool {
	if t.Line != other.Line {
		return t.Line < other.Line
	}
	return t.Col < other.Col
}

// End returns the column one past the last byte of the token.
func (t Token) End() uint32 {
	return t.Col + t.Length
}
