package python

import (
	"fortio.org/safecast"

	"prism/internal/diag"
	"prism/internal/engine"
	"prism/internal/lang"
	"prism/internal/source"
	"prism/internal/token"
)

// Strategy implements engine.Strategy[State] for Python.
type Strategy struct{}

// New builds the Python tokenizer.
func New(opts engine.Options) *engine.Engine[State] {
	return engine.New[State]("python", Strategy{}, opts)
}

func (Strategy) Initial() State {
	return State{}
}

func (Strategy) Scan(src []byte, startLine uint32, st State, rep diag.Reporter) ([]token.Token, State) {
	sink := lang.NewSink()
	lang.EachLine(src, func(rel, off uint32, line []byte) {
		st = scanLine(line, startLine+rel, off, st, sink, rep)
	})
	if rep != nil && st.Kind == InTripleString {
		end := safecast.MustConvert[uint32](len(src))
		diag.Report(rep, diag.LexUnterminatedString, diag.SevError,
			source.Span{Start: end, End: end},
			"unterminated triple-quoted string at end of file")
	}
	return sink.Tokens(), st
}

func (Strategy) ScanState(src []byte, st State) State {
	lang.EachLine(src, func(rel, off uint32, line []byte) {
		st = scanLine(line, rel, off, st, nil, nil)
	})
	return st
}

func scanLine(line []byte, lineIdx, off uint32, st State, sink *lang.Sink, rep diag.Reporter) State {
	cur := lang.NewCursor(line)
	if st.Kind == InTripleString {
		if !resumeTriple(&cur, lineIdx, st, sink) {
			return st
		}
	}
	return scanNormal(&cur, lineIdx, off, sink, rep)
}

// resumeTriple consumes the continuation of an open triple-quoted
// string, reporting whether the line has more content after the close.
func resumeTriple(cur *lang.Cursor, lineIdx uint32, st State, sink *lang.Sink) bool {
	for !cur.AtEnd() {
		b := cur.Peek()
		if b == '\\' && !st.Raw {
			cur.Bump()
			cur.Bump()
			continue
		}
		if b == st.Quote && cur.Peek2() == st.Quote {
			rest := cur.Rest()
			if len(rest) >= 3 && rest[2] == st.Quote {
				cur.Bump()
				cur.Bump()
				cur.Bump()
				sink.Emit(token.String, lineIdx, 0, cur.Col())
				return true
			}
		}
		cur.Bump()
	}
	sink.Emit(token.String, lineIdx, 0, cur.Col())
	return false
}

func scanNormal(cur *lang.Cursor, lineIdx, off uint32, sink *lang.Sink, rep diag.Reporter) State {
	// Definition context: the word after def or class on this line.
	defCtx := token.Type(0)
	haveDefCtx := false
	for !cur.AtEnd() {
		b := cur.Peek()
		switch {
		case lang.IsSpace(b):
			cur.Bump()
		case b == '#':
			sink.Emit(token.Comment, lineIdx, cur.Col(), cur.Len()-cur.Col())
			cur.SetCol(cur.Len())
		case b == '@' && lang.IsIdentStart(cur.Peek2()):
			mark := cur.Mark()
			cur.Bump()
			cur.EatWhile(func(b byte) bool { return lang.IsIdentCont(b) || b == '.' })
			sink.Emit(token.Function, lineIdx, mark, cur.Since(mark))
		case b == '\'' || b == '"':
			st := scanString(cur, lineIdx, off, cur.Mark(), false, sink, rep)
			if st.Kind != Normal {
				return st
			}
		case lang.IsDec(b):
			scanNumber(cur, lineIdx, sink)
		case lang.IsIdentStart(b):
			mark := cur.Mark()
			cur.EatWhile(lang.IsIdentCont)
			word := string(cur.LineSlice(mark, cur.Col()))
			// String prefixes glue onto an immediately following quote.
			if isStringPrefix(word) && (cur.Peek() == '\'' || cur.Peek() == '"') {
				raw := false
				for i := 0; i < len(word); i++ {
					if word[i] == 'r' || word[i] == 'R' {
						raw = true
					}
				}
				st := scanString(cur, lineIdx, off, mark, raw, sink, rep)
				if st.Kind != Normal {
					return st
				}
				continue
			}
			n := cur.Since(mark)
			switch {
			case haveDefCtx:
				sink.Emit(defCtx, lineIdx, mark, n)
				haveDefCtx = false
			case word == "def":
				sink.Emit(token.Keyword, lineIdx, mark, n)
				defCtx, haveDefCtx = token.Function, true
			case word == "class":
				sink.Emit(token.Keyword, lineIdx, mark, n)
				defCtx, haveDefCtx = token.TypeName, true
			case keywords[word]:
				sink.Emit(token.Keyword, lineIdx, mark, n)
			case constants[word]:
				sink.Emit(token.Constant, lineIdx, mark, n)
			case word == "self" || word == "cls":
				sink.Emit(token.Variable, lineIdx, mark, n)
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

// scanString handles a string opened at the current quote, with mark
// pointing at the prefix start. Returns the state the next line starts
// in: Normal unless a triple quote was left open.
func scanString(cur *lang.Cursor, lineIdx, off, mark uint32, raw bool, sink *lang.Sink, rep diag.Reporter) State {
	quote := cur.Peek()
	cur.Bump()
	if cur.Peek() == quote && cur.Peek2() == quote {
		cur.Bump()
		cur.Bump()
		st := State{Kind: InTripleString, Quote: quote, Raw: raw}
		if !resumeTripleTail(cur, lineIdx, mark, st, sink) {
			return st
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
		if b == quote {
			sink.Emit(token.String, lineIdx, mark, cur.Since(mark))
			return State{}
		}
	}
	sink.Emit(token.String, lineIdx, mark, cur.Since(mark))
	diag.Report(rep, diag.LexUnterminatedString, diag.SevError,
		source.Span{Start: off + mark, End: off + cur.Col()},
		"string literal is not closed before end of line")
	return State{}
}

// resumeTripleTail scans the remainder of a line after a triple quote
// opened on it, reporting whether the string closed on this line.
func resumeTripleTail(cur *lang.Cursor, lineIdx, mark uint32, st State, sink *lang.Sink) bool {
	for !cur.AtEnd() {
		b := cur.Peek()
		if b == '\\' && !st.Raw {
			cur.Bump()
			cur.Bump()
			continue
		}
		if b == st.Quote && cur.Peek2() == st.Quote {
			rest := cur.Rest()
			if len(rest) >= 3 && rest[2] == st.Quote {
				cur.Bump()
				cur.Bump()
				cur.Bump()
				sink.Emit(token.String, lineIdx, mark, cur.Since(mark))
				return true
			}
		}
		cur.Bump()
	}
	sink.Emit(token.String, lineIdx, mark, cur.Since(mark))
	return false
}

func scanNumber(cur *lang.Cursor, lineIdx uint32, sink *lang.Sink) {
	mark := cur.Mark()
	cur.EatWhile(func(b byte) bool {
		return lang.IsHex(b) || b == '.' || b == '_' || b == 'x' || b == 'X' ||
			b == 'o' || b == 'O' || b == 'j' || b == 'J'
	})
	sink.Emit(token.Number, lineIdx, mark, cur.Since(mark))
}

func isOperatorByte(b byte) bool {
	switch b {
	case '+', '-', '*', '/', '%', '=', '<', '>', '!', '&', '|', '^', '~',
		'(', ')', '[', ']', '{', '}', ',', ':', ';', '.':
		return true
	}
	return false
}
