package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical (recovered during scanning)
	LexInfo Code = 1000
	// LexUnterminatedString: a string literal unclosed at end of line,
	// end of input, or end of section. The token is truncated at the cutoff.
	LexUnterminatedString Code = 1001
	// LexUnterminatedComment: a block comment unclosed at end of input.
	LexUnterminatedComment Code = 1002
	// LexUnterminatedHeredoc: a heredoc body whose delimiter line never appears.
	LexUnterminatedHeredoc Code = 1003
	// LexUnterminatedBlockScalar: a block scalar still open at end of input.
	// Informational only: an open block scalar at EOF is valid yaml, the
	// code exists so tooling can see where highlighting stopped resuming.
	LexUnterminatedBlockScalar Code = 1004
	// LexUnexpectedChar: a character no rule accepts. Skipped, no token.
	LexUnexpectedChar Code = 1005
	// LexStructuralMismatch: an unmatched closing bracket or similar;
	// scanning continues.
	LexStructuralMismatch Code = 1006

	// I/O
	IOLoadFileError Code = 4001
)

var codeDescription = map[Code]string{
	UnknownCode:                "Unknown error",
	LexInfo:                    "Lexical information",
	LexUnterminatedString:      "Unterminated string literal",
	LexUnterminatedComment:     "Unterminated block comment",
	LexUnterminatedHeredoc:     "Unterminated heredoc",
	LexUnterminatedBlockScalar: "Block scalar open at end of input",
	LexUnexpectedChar:          "Unexpected character",
	LexStructuralMismatch:      "Unmatched delimiter",
	IOLoadFileError:            "I/O load file error",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
