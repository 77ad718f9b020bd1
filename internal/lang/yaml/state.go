// Package yaml tokenizes YAML documents.
//
// The only construct that crosses physical lines is the block scalar
// (| and > with their chomping and indentation indicators). Flow
// strings are treated as single-line: YAML permits folding a quoted
// scalar across lines, but modeling that would not pay for itself in a
// highlighter and the truncated rendering degrades gracefully.
//
// YAML is the one language served by the local range strategy: a range
// request rescans from the first requested line with fresh state
// instead of tokenizing the whole document. Inside a block scalar body
// that rescan can diverge from full tokenization, which is the
// documented trade-off of the strategy.
package yaml

// Kind enumerates the line-boundary states.
type Kind uint8

const (
	Normal Kind = iota
	InBlockScalar
)

// State is the YAML boundary state.
type State struct {
	Kind Kind
	// Indent is the detected content indentation of the block scalar
	// body, or -1 until the first non-blank body line fixes it.
	Indent int16
	// Parent is the indentation of the node that introduced the scalar.
	// Any non-blank line indented at or below Parent ends the body.
	Parent int16
	// Folded distinguishes > from |. It does not change tokenization,
	// only the state identity that prescans must reproduce.
	Folded bool
}
