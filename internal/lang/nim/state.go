// Package nim tokenizes Nim source.
//
// Two constructs cross physical lines: triple-quoted raw strings and
// block comments. Block comments nest, so the state carries the open
// nesting depth; the depth is bounded only by the document, which is
// why Depth is a counter rather than a flag.
package nim

// Kind enumerates the line-boundary states.
type Kind uint8

const (
	Normal Kind = iota
	InBlockComment
	InTripleString
)

// State is the Nim boundary state.
type State struct {
	Kind Kind
	// Depth is the block comment nesting depth, >= 1 for InBlockComment.
	Depth uint16
}
