package lang

import "prism/internal/token"

// Sink collects tokens during a scan. A nil *Sink is valid and drops
// everything, which is how prescans reuse the scanning walk without
// paying for token construction.
type Sink struct {
	toks []token.Token
}

func NewSink() *Sink {
	return &Sink{}
}

// Emit records one token. Zero-length emissions are dropped so scanners
// do not need to guard every empty match.
func (s *Sink) Emit(typ token.Type, line, col, length uint32) {
	if s == nil || length == 0 {
		return
	}
	s.toks = append(s.toks, token.Token{
		Type:   typ,
		Line:   line,
		Col:    col,
		Length: length,
	})
}

// EmitLine records a token covering an entire line.
func (s *Sink) EmitLine(typ token.Type, line uint32, lineLen uint32) {
	s.Emit(typ, line, 0, lineLen)
}

// Tokens returns everything emitted so far.
func (s *Sink) Tokens() []token.Token {
	if s == nil {
		return nil
	}
	return s.toks
}
