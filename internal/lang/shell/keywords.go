package shell

var keywords = map[string]bool{
	"if":       true,
	"then":     true,
	"else":     true,
	"elif":     true,
	"fi":       true,
	"for":      true,
	"while":    true,
	"until":    true,
	"do":       true,
	"done":     true,
	"case":     true,
	"esac":     true,
	"in":       true,
	"select":   true,
	"function": true,
	"time":     true,
	"return":   true,
	"break":    true,
	"continue": true,
	"local":    true,
	"export":   true,
	"readonly": true,
	"declare":  true,
	"unset":    true,
	"shift":    true,
	"trap":     true,
	"exec":     true,
	"eval":     true,
	"source":   true,
}

var constants = map[string]bool{
	"true":  true,
	"false": true,
}
