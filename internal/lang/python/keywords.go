package python

var keywords = map[string]bool{
	"and":      true,
	"as":       true,
	"assert":   true,
	"async":    true,
	"await":    true,
	"break":    true,
	"continue": true,
	"del":      true,
	"elif":     true,
	"else":     true,
	"except":   true,
	"finally":  true,
	"for":      true,
	"from":     true,
	"global":   true,
	"if":       true,
	"import":   true,
	"in":       true,
	"is":       true,
	"lambda":   true,
	"nonlocal": true,
	"not":      true,
	"or":       true,
	"pass":     true,
	"raise":    true,
	"return":   true,
	"try":      true,
	"while":    true,
	"with":     true,
	"yield":    true,
	"match":    true,
	"case":     true,
}

var constants = map[string]bool{
	"True":           true,
	"False":          true,
	"None":           true,
	"Ellipsis":       true,
	"NotImplemented": true,
}

// isStringPrefix recognizes the legal literal prefixes: combinations of
// r/R, b/B, f/F, u/U up to two characters.
func isStringPrefix(word string) bool {
	if len(word) == 0 || len(word) > 2 {
		return false
	}
	for i := 0; i < len(word); i++ {
		switch word[i] {
		case 'r', 'R', 'b', 'B', 'f', 'F', 'u', 'U':
		default:
			return false
		}
	}
	return true
}
