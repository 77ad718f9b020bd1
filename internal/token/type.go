package token

// Type classifies a highlighted span. The numeric value of each Type is
// its index in the legend returned by Types.
type Type uint8

const (
	// Comment covers line and block comments, including doc comments.
	Comment Type = iota
	// Keyword covers language keywords and flow-control words.
	Keyword
	// String covers string literal spans, heredoc and block-scalar bodies.
	String
	// Number covers numeric literals.
	Number
	// Operator covers operators, punctuation, and structural markers.
	Operator
	// Variable covers variable references such as shell $expansions and
	// yaml anchors/aliases.
	Variable
	// Function covers function and class-like definition names and decorators.
	Function
	// Property covers mapping keys.
	Property
	// Constant covers builtin constants, booleans, null-likes, heredoc
	// delimiters, and char literals.
	Constant
	// TypeName covers type annotations, yaml tags, and class names.
	TypeName

	typeCount
)

var typeNames = [typeCount]string{
	Comment:  "comment",
	Keyword:  "keyword",
	String:   "string",
	Number:   "number",
	Operator: "operator",
	Variable: "variable",
	Function: "function",
	Property: "property",
	Constant: "constant",
	TypeName: "type",
}

func (t Type) String() string {
	if t < typeCount {
		return typeNames[t]
	}
	return "unknown"
}

// Types returns the published token-type legend. The slice is freshly
// allocated; callers may keep it.
func Types() []string {
	out := make([]string, typeCount)
	copy(out, typeNames[:])
	return out
}
