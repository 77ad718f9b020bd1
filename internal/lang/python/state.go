// Package python tokenizes Python source.
//
// Triple-quoted strings are the only construct that crosses physical
// lines. A single-quoted string left open at end of line is an error,
// not a continuation: the truncated token covers what was scanned and
// the scanner reports it, mirroring how CPython rejects the line.
package python

// Kind enumerates the line-boundary states.
type Kind uint8

const (
	Normal Kind = iota
	InTripleString
)

// State is the Python boundary state.
type State struct {
	Kind Kind
	// Quote is the delimiter byte (' or ") of the open triple string.
	Quote byte
	// Raw marks r-prefixed strings, where backslashes do not escape.
	Raw bool
}
