package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"prism/internal/source"
	"prism/internal/token"
)

// CheckTokenInvariants runs the token stream invariants against src:
// 1) tokens are ordered by (line, col) with no overlap on a line
// 2) every token has positive length
// 3) every token lies within its physical line
func CheckTokenInvariants(src []byte, toks []token.Token) error {
	lineStarts := source.BuildLineStarts(src)
	lineCount := safecast.MustConvert[uint32](len(lineStarts))
	srcLen := safecast.MustConvert[uint32](len(src))

	var prev token.Token
	for i, t := range toks {
		if t.Length == 0 {
			return fmt.Errorf("token %d has zero length at %d:%d", i, t.Line, t.Col)
		}
		if i > 0 {
			if t.Line < prev.Line {
				return fmt.Errorf("token %d out of order: line %d after %d", i, t.Line, prev.Line)
			}
			if t.Line == prev.Line && t.Col < prev.End() {
				return fmt.Errorf("token %d overlaps previous: col %d < %d on line %d", i, t.Col, prev.End(), t.Line)
			}
		}
		if t.Line >= lineCount {
			return fmt.Errorf("token %d on line %d beyond document (%d lines)", i, t.Line, lineCount)
		}
		start := lineStarts[t.Line]
		end := srcLen
		if t.Line+1 < lineCount {
			end = lineStarts[t.Line+1] - 1
		}
		if start+t.End() > end {
			return fmt.Errorf("token %d runs past end of line %d: col %d len %d, line is %d bytes",
				i, t.Line, t.Col, t.Length, end-start)
		}
		prev = t
	}
	return nil
}
