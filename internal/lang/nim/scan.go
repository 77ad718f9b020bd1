package nim

import (
	"fortio.org/safecast"

	"prism/internal/diag"
	"prism/internal/engine"
	"prism/internal/lang"
	"prism/internal/source"
	"prism/internal/token"
)

// Strategy implements engine.Strategy[State] for Nim.
type Strategy struct{}

// New builds the Nim tokenizer.
func New(opts engine.Options) *engine.Engine[State] {
	return engine.New[State]("nim", Strategy{}, opts)
}

func (Strategy) Initial() State {
	return State{}
}

func (Strategy) Scan(src []byte, startLine uint32, st State, rep diag.Reporter) ([]token.Token, State) {
	sink := lang.NewSink()
	lang.EachLine(src, func(rel, off uint32, line []byte) {
		st = scanLine(line, startLine+rel, st, sink)
	})
	if rep != nil && st.Kind != Normal {
		end := safecast.MustConvert[uint32](len(src))
		at := source.Span{Start: end, End: end}
		switch st.Kind {
		case InBlockComment:
			diag.Report(rep, diag.LexUnterminatedComment, diag.SevError, at,
				"block comment is never closed")
		case InTripleString:
			diag.Report(rep, diag.LexUnterminatedString, diag.SevError, at,
				"unterminated triple-quoted string at end of file")
		}
	}
	return sink.Tokens(), st
}

func (Strategy) ScanState(src []byte, st State) State {
	lang.EachLine(src, func(rel, off uint32, line []byte) {
		st = scanLine(line, rel, st, nil)
	})
	return st
}

func scanLine(line []byte, lineIdx uint32, st State, sink *lang.Sink) State {
	cur := lang.NewCursor(line)
	switch st.Kind {
	case InBlockComment:
		depth, closed := resumeBlockComment(&cur, lineIdx, st.Depth, sink)
		if !closed {
			return State{Kind: InBlockComment, Depth: depth}
		}
	case InTripleString:
		if !resumeTriple(&cur, lineIdx, sink) {
			return st
		}
	}
	return scanNormal(&cur, lineIdx, sink)
}

// resumeBlockComment consumes the continuation of an open block
// comment, tracking nesting, and reports whether it fully closed.
func resumeBlockComment(cur *lang.Cursor, lineIdx uint32, depth uint16, sink *lang.Sink) (uint16, bool) {
	for !cur.AtEnd() {
		switch {
		case cur.Peek() == '#' && cur.Peek2() == '[':
			cur.Bump()
			cur.Bump()
			depth++
		case cur.Peek() == ']' && cur.Peek2() == '#':
			cur.Bump()
			cur.Bump()
			depth--
			if depth == 0 {
				sink.Emit(token.Comment, lineIdx, 0, cur.Col())
				return 0, true
			}
		default:
			cur.Bump()
		}
	}
	sink.Emit(token.Comment, lineIdx, 0, cur.Col())
	return depth, false
}

// resumeTriple consumes the continuation of an open triple-quoted
// string, reporting whether the line has content after the close.
func resumeTriple(cur *lang.Cursor, lineIdx uint32, sink *lang.Sink) bool {
	for !cur.AtEnd() {
		if cur.Peek() == '"' && cur.Peek2() == '"' {
			rest := cur.Rest()
			if len(rest) >= 3 && rest[2] == '"' {
				cur.Bump()
				cur.Bump()
				cur.Bump()
				// Extra closing quotes belong to the literal.
				cur.EatWhile(func(b byte) bool { return b == '"' })
				sink.Emit(token.String, lineIdx, 0, cur.Col())
				return true
			}
		}
		cur.Bump()
	}
	sink.Emit(token.String, lineIdx, 0, cur.Col())
	return false
}

func scanNormal(cur *lang.Cursor, lineIdx uint32, sink *lang.Sink) State {
	defCtx := false
	for !cur.AtEnd() {
		b := cur.Peek()
		switch {
		case lang.IsSpace(b):
			cur.Bump()
		case b == '#' && cur.Peek2() == '[':
			mark := cur.Mark()
			cur.Bump()
			cur.Bump()
			depth, closed := resumeBlockCommentTail(cur, lineIdx, mark, sink)
			if !closed {
				return State{Kind: InBlockComment, Depth: depth}
			}
		case b == '#':
			sink.Emit(token.Comment, lineIdx, cur.Col(), cur.Len()-cur.Col())
			cur.SetCol(cur.Len())
		case b == '"':
			mark := cur.Mark()
			if st := scanString(cur, lineIdx, mark, false, sink); st.Kind != Normal {
				return st
			}
		case b == '\'':
			scanChar(cur, lineIdx, sink)
		case lang.IsDec(b):
			scanNumber(cur, lineIdx, sink)
		case lang.IsIdentStart(b):
			mark := cur.Mark()
			cur.EatWhile(lang.IsIdentCont)
			word := string(cur.LineSlice(mark, cur.Col()))
			// r"..." and R"..." are raw string literals.
			if (word == "r" || word == "R") && cur.Peek() == '"' {
				if st := scanString(cur, lineIdx, mark, true, sink); st.Kind != Normal {
					return st
				}
				continue
			}
			n := cur.Since(mark)
			switch {
			case defCtx:
				sink.Emit(token.Function, lineIdx, mark, n)
				defCtx = false
			case routineKeywords[word]:
				sink.Emit(token.Keyword, lineIdx, mark, n)
				defCtx = true
			case keywords[word]:
				sink.Emit(token.Keyword, lineIdx, mark, n)
			case constants[word]:
				sink.Emit(token.Constant, lineIdx, mark, n)
			case lang.IsAlpha(word[0]) && word[0] >= 'A' && word[0] <= 'Z':
				sink.Emit(token.TypeName, lineIdx, mark, n)
			case cur.Peek() == '(':
				sink.Emit(token.Function, lineIdx, mark, n)
			}
		case isOperatorByte(b):
			mark := cur.Mark()
			cur.EatWhile(isOperatorByte)
			sink.Emit(token.Operator, lineIdx, mark, cur.Since(mark))
		default:
			cur.Bump()
		}
	}
	return State{}
}

// resumeBlockCommentTail scans a block comment opened on this line,
// starting at depth one past the opening #[.
func resumeBlockCommentTail(cur *lang.Cursor, lineIdx, mark uint32, sink *lang.Sink) (uint16, bool) {
	depth := uint16(1)
	for !cur.AtEnd() {
		switch {
		case cur.Peek() == '#' && cur.Peek2() == '[':
			cur.Bump()
			cur.Bump()
			depth++
		case cur.Peek() == ']' && cur.Peek2() == '#':
			cur.Bump()
			cur.Bump()
			depth--
			if depth == 0 {
				sink.Emit(token.Comment, lineIdx, mark, cur.Since(mark))
				return 0, true
			}
		default:
			cur.Bump()
		}
	}
	sink.Emit(token.Comment, lineIdx, mark, cur.Since(mark))
	return depth, false
}

// scanString handles a string opened at the current quote. mark points
// at the literal start, before any r prefix.
func scanString(cur *lang.Cursor, lineIdx, mark uint32, raw bool, sink *lang.Sink) State {
	cur.Bump()
	if cur.Peek() == '"' && cur.Peek2() == '"' {
		cur.Bump()
		cur.Bump()
		if !resumeTripleTail(cur, lineIdx, mark, sink) {
			return State{Kind: InTripleString}
		}
		return State{}
	}
	for !cur.AtEnd() {
		b := cur.Peek()
		if b == '\\' && !raw {
			cur.Bump()
			cur.Bump()
			continue
		}
		cur.Bump()
		if b == '"' {
			// In raw strings "" is an escaped quote.
			if raw && cur.Peek() == '"' {
				cur.Bump()
				continue
			}
			break
		}
	}
	sink.Emit(token.String, lineIdx, mark, cur.Since(mark))
	return State{}
}

func resumeTripleTail(cur *lang.Cursor, lineIdx, mark uint32, sink *lang.Sink) bool {
	for !cur.AtEnd() {
		if cur.Peek() == '"' && cur.Peek2() == '"' {
			rest := cur.Rest()
			if len(rest) >= 3 && rest[2] == '"' {
				cur.Bump()
				cur.Bump()
				cur.Bump()
				cur.EatWhile(func(b byte) bool { return b == '"' })
				sink.Emit(token.String, lineIdx, mark, cur.Since(mark))
				return true
			}
		}
		cur.Bump()
	}
	sink.Emit(token.String, lineIdx, mark, cur.Since(mark))
	return false
}

// scanChar handles a character literal such as 'a' or '\n'.
func scanChar(cur *lang.Cursor, lineIdx uint32, sink *lang.Sink) {
	mark := cur.Mark()
	cur.Bump()
	if cur.Peek() == '\\' {
		cur.Bump()
		cur.Bump()
	} else if !cur.AtEnd() {
		cur.Bump()
	}
	if cur.Eat('\'') {
		sink.Emit(token.Constant, lineIdx, mark, cur.Since(mark))
		return
	}
	// Not a char literal after all; treat the quote as an operator.
	cur.SetCol(mark + 1)
	sink.Emit(token.Operator, lineIdx, mark, 1)
}

func scanNumber(cur *lang.Cursor, lineIdx uint32, sink *lang.Sink) {
	mark := cur.Mark()
	cur.EatWhile(func(b byte) bool {
		return lang.IsHex(b) || b == '.' || b == '_' || b == 'x' || b == 'X' ||
			b == 'o' || b == 'i' || b == 'u' || b == '\''
	})
	sink.Emit(token.Number, lineIdx, mark, cur.Since(mark))
}

func isOperatorByte(b byte) bool {
	switch b {
	case '+', '-', '*', '/', '%', '=', '<', '>', '!', '&', '|', '^', '~',
		'(', ')', '[', ']', '{', '}', ',', ':', ';', '.', '@', '$', '?':
		return true
	}
	return false
}
