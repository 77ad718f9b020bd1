// Package shell tokenizes POSIX-style shell scripts.
//
// The boundary state tracks the three constructs that cross physical
// lines: single-quoted strings, double-quoted strings, and heredoc
// bodies. A heredoc opened mid-line takes effect only once the line
// ends, so pending heredocs live inside the line walk, never in State.
package shell

// Kind enumerates the line-boundary states.
type Kind uint8

const (
	Normal Kind = iota
	InSingle
	InDouble
	InHeredoc
)

// State is the shell boundary state. It is comparable so the parallel
// prescan chain can be checked against a full scan state for state.
type State struct {
	Kind Kind
	// Delim is the heredoc terminator word, set only for InHeredoc.
	Delim string
	// StripTabs marks the <<- form, which ignores leading tabs on the
	// terminator line.
	StripTabs bool
}

func (k Kind) String() string {
	switch k {
	case Normal:
		return "normal"
	case InSingle:
		return "single"
	case InDouble:
		return "double"
	case InHeredoc:
		return "heredoc"
	}
	return "unknown"
}
