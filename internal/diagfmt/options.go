// Package diagfmt renders diagnostics and token streams for the CLI.
package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute path automatically.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color    bool
	Context  int8
	PathMode PathMode
}

// TokenFormat selects how token streams are rendered.
type TokenFormat uint8

const (
	// TokensPretty is the aligned human-readable listing.
	TokensPretty TokenFormat = iota
	// TokensJSON emits one object per token.
	TokensJSON
	// TokensMsgpack emits the binary dump format.
	TokensMsgpack
	// TokensData emits the delta-encoded integer stream.
	TokensData
)

// ParseTokenFormat maps a CLI flag value to a TokenFormat.
func ParseTokenFormat(name string) (TokenFormat, bool) {
	switch name {
	case "pretty", "":
		return TokensPretty, true
	case "json":
		return TokensJSON, true
	case "msgpack":
		return TokensMsgpack, true
	case "data":
		return TokensData, true
	}
	return TokensPretty, false
}
