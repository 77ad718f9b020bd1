// Package semtok encodes token streams into the semantic tokens wire
// format: five unsigned integers per token, with line and start column
// delta-compressed against the previous token.
package semtok

import (
	"errors"

	"prism/internal/token"
)

// stride is the number of integers encoding one token.
const stride = 5

var errBadLength = errors.New("semtok: data length is not a multiple of five")

// Encode converts an ordered token stream into delta form. Each token
// becomes deltaLine, deltaStart, length, type index, modifier bitset.
// deltaStart is relative to the previous token's start when both sit on
// the same line, absolute otherwise. Modifiers are always zero.
func Encode(toks []token.Token) []uint32 {
	data := make([]uint32, 0, len(toks)*stride)
	prevLine := uint32(0)
	prevCol := uint32(0)
	for _, t := range toks {
		deltaLine := t.Line - prevLine
		deltaStart := t.Col
		if deltaLine == 0 {
			deltaStart = t.Col - prevCol
		}
		data = append(data, deltaLine, deltaStart, t.Length, uint32(t.Type), 0)
		prevLine = t.Line
		prevCol = t.Col
	}
	return data
}

// Decode reverses Encode. It fails only on a truncated stream; token
// type indices outside the legend pass through untouched so a newer
// producer does not break an older consumer.
func Decode(data []uint32) ([]token.Token, error) {
	if len(data)%stride != 0 {
		return nil, errBadLength
	}
	toks := make([]token.Token, 0, len(data)/stride)
	line := uint32(0)
	col := uint32(0)
	for i := 0; i < len(data); i += stride {
		deltaLine := data[i]
		if deltaLine > 0 {
			line += deltaLine
			col = 0
		}
		col += data[i+1]
		toks = append(toks, token.Token{
			Type:   token.Type(data[i+3]),
			Line:   line,
			Col:    col,
			Length: data[i+2],
		})
	}
	return toks, nil
}

// Legend returns the published token type names, indexed by the type
// values used in the encoded stream.
func Legend() []string {
	return token.Types()
}
