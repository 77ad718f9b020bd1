package engine

import (
	"context"

	"prism/internal/token"
)

// TokenizeRange returns tokens for lines startLine..endLine inclusive.
//
// Under RangeExact the whole document is tokenized (parallel when large
// enough) and the output filtered, so the result is exactly the full
// token stream restricted to the range. Under RangeLocal the installed
// LocalRangeFunc re-derives classification from bounded context instead.
func (e *Engine[S]) TokenizeRange(ctx context.Context, src []byte, startLine, endLine uint32) []token.Token {
	if endLine < startLine {
		return nil
	}
	if e.local != nil {
		return e.local(src, startLine, endLine)
	}
	return filterRange(e.Tokenize(ctx, src, nil), startLine, endLine)
}

func filterRange(toks []token.Token, startLine, endLine uint32) []token.Token {
	out := make([]token.Token, 0, len(toks))
	for _, t := range toks {
		if t.Line < startLine {
			continue
		}
		if t.Line > endLine {
			break
		}
		out = append(out, t)
	}
	return out
}
