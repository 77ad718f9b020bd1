package nim

// routineKeywords introduce a named routine; the following identifier
// is highlighted as a definition.
var routineKeywords = map[string]bool{
	"proc":      true,
	"func":      true,
	"method":    true,
	"iterator":  true,
	"template":  true,
	"macro":     true,
	"converter": true,
}

var keywords = map[string]bool{
	"addr":      true,
	"and":       true,
	"as":        true,
	"asm":       true,
	"bind":      true,
	"block":     true,
	"break":     true,
	"case":      true,
	"cast":      true,
	"concept":   true,
	"const":     true,
	"continue":  true,
	"defer":     true,
	"discard":   true,
	"distinct":  true,
	"div":       true,
	"do":        true,
	"elif":      true,
	"else":      true,
	"end":       true,
	"enum":      true,
	"except":    true,
	"export":    true,
	"finally":   true,
	"for":       true,
	"from":      true,
	"if":        true,
	"import":    true,
	"in":        true,
	"include":   true,
	"interface": true,
	"is":        true,
	"isnot":     true,
	"let":       true,
	"mixin":     true,
	"mod":       true,
	"not":       true,
	"notin":     true,
	"object":    true,
	"of":        true,
	"or":        true,
	"out":       true,
	"ptr":       true,
	"raise":     true,
	"ref":       true,
	"return":    true,
	"shl":       true,
	"shr":       true,
	"static":    true,
	"try":       true,
	"tuple":     true,
	"type":      true,
	"using":     true,
	"var":       true,
	"when":      true,
	"while":     true,
	"xor":       true,
	"yield":     true,
}

var constants = map[string]bool{
	"true":  true,
	"false": true,
	"nil":   true,
	"on":    true,
	"off":   true,
}
