package yaml

import (
	"fortio.org/safecast"

	"prism/internal/diag"
	"prism/internal/engine"
	"prism/internal/lang"
	"prism/internal/source"
	"prism/internal/token"
)

// Strategy implements engine.Strategy[State] for YAML.
type Strategy struct{}

// New builds the YAML tokenizer with the local range strategy.
func New(opts engine.Options) *engine.Engine[State] {
	return engine.New[State]("yaml", Strategy{}, opts).WithLocalRange(localRange)
}

func (Strategy) Initial() State {
	return State{Indent: -1}
}

func (Strategy) Scan(src []byte, startLine uint32, st State, rep diag.Reporter) ([]token.Token, State) {
	sink := lang.NewSink()
	lang.EachLine(src, func(rel, off uint32, line []byte) {
		st = scanLine(line, startLine+rel, st, sink)
	})
	if rep != nil && st.Kind == InBlockScalar {
		end := safecast.MustConvert[uint32](len(src))
		diag.Report(rep, diag.LexUnterminatedBlockScalar, diag.SevInfo,
			source.Span{Start: end, End: end},
			"block scalar runs to end of file")
	}
	return sink.Tokens(), st
}

func (Strategy) ScanState(src []byte, st State) State {
	lang.EachLine(src, func(rel, off uint32, line []byte) {
		st = scanLine(line, rel, st, nil)
	})
	return st
}

// localRange rescans from the first requested line with fresh state.
// Cost is proportional to the range, not the document.
func localRange(src []byte, startLine, endLine uint32) []token.Token {
	lineStarts := source.BuildLineStarts(src)
	count := safecast.MustConvert[uint32](len(lineStarts))
	if len(src) == 0 || src[len(src)-1] == '\n' {
		count--
	}
	if startLine >= count {
		return nil
	}
	if endLine >= count {
		endLine = count - 1
	}
	start := lineStarts[startLine]
	end := safecast.MustConvert[uint32](len(src))
	if endLine+1 < count {
		end = lineStarts[endLine+1]
	}
	toks, _ := Strategy{}.Scan(src[start:end], startLine, Strategy{}.Initial(), nil)
	return toks
}

func scanLine(line []byte, lineIdx uint32, st State, sink *lang.Sink) State {
	if st.Kind == InBlockScalar {
		next, done := scanScalarLine(line, lineIdx, st, sink)
		if !done {
			return next
		}
		st = next
	}
	return scanNormal(line, lineIdx, sink)
}

// scanScalarLine handles one block scalar body line. done means the
// line ended the scalar and must be rescanned as a normal line.
func scanScalarLine(line []byte, lineIdx uint32, st State, sink *lang.Sink) (State, bool) {
	indent := int16(0)
	for int(indent) < len(line) && line[indent] == ' ' {
		indent++
	}
	if int(indent) == len(line) {
		// Blank lines belong to the body regardless of indentation.
		return st, false
	}
	if st.Indent < 0 {
		if indent <= st.Parent {
			return State{Indent: -1}, true
		}
		st.Indent = indent
	} else if indent < st.Indent {
		return State{Indent: -1}, true
	}
	col := safecast.MustConvert[uint32](indent)
	sink.Emit(token.String, lineIdx, col, safecast.MustConvert[uint32](len(line))-col)
	return st, false
}

func scanNormal(line []byte, lineIdx uint32, sink *lang.Sink) State {
	cur := lang.NewCursor(line)
	indent := int16(cur.EatWhile(func(b byte) bool { return b == ' ' }))

	if marker := docMarker(line); marker {
		sink.Emit(token.Operator, lineIdx, 0, 3)
		cur.SetCol(3)
	}

	for !cur.AtEnd() {
		b := cur.Peek()
		switch {
		case lang.IsSpace(b):
			cur.Bump()
		case b == '#' && (cur.Col() == 0 || lang.IsSpace(line[cur.Col()-1])):
			sink.Emit(token.Comment, lineIdx, cur.Col(), cur.Len()-cur.Col())
			cur.SetCol(cur.Len())
		case b == '-' && (cur.Peek2() == ' ' || cur.Peek2() == 0):
			// Sequence entry marker deepens the node indentation.
			sink.Emit(token.Operator, lineIdx, cur.Col(), 1)
			cur.Bump()
			indent = safecast.MustConvert[int16](cur.Col())
			indent += int16(cur.EatWhile(func(b byte) bool { return b == ' ' }))
		case b == '\'':
			scanSingle(&cur, lineIdx, sink)
		case b == '"':
			scanDouble(&cur, lineIdx, sink)
		case b == '&' || b == '*':
			mark := cur.Mark()
			cur.Bump()
			if cur.EatWhile(lang.IsIdentCont) > 0 {
				sink.Emit(token.Variable, lineIdx, mark, cur.Since(mark))
			} else {
				sink.Emit(token.Operator, lineIdx, mark, 1)
			}
		case b == '!':
			mark := cur.Mark()
			cur.EatWhile(func(b byte) bool { return !lang.IsSpace(b) })
			sink.Emit(token.TypeName, lineIdx, mark, cur.Since(mark))
		case b == '|' || b == '>':
			mark := cur.Mark()
			folded := b == '>'
			cur.Bump()
			extra := int16(0)
			for !cur.AtEnd() {
				ind := cur.Peek()
				if ind == '+' || ind == '-' {
					cur.Bump()
					continue
				}
				if lang.IsDec(ind) {
					extra = int16(ind - '0')
					cur.Bump()
					continue
				}
				break
			}
			sink.Emit(token.Operator, lineIdx, mark, cur.Since(mark))
			rest := cur.Rest()
			trailingOK := true
			for i := 0; i < len(rest); i++ {
				if rest[i] == '#' {
					break
				}
				if !lang.IsSpace(rest[i]) {
					trailingOK = false
					break
				}
			}
			if trailingOK {
				st := State{Kind: InBlockScalar, Indent: -1, Parent: indent, Folded: folded}
				if extra > 0 {
					st.Indent = indent + extra
				}
				// Trailing comment after the indicator is still legal.
				scanTrailingComment(&cur, lineIdx, sink)
				return st
			}
		case b == ':' || b == '?' || b == ',' || b == '[' || b == ']' || b == '{' || b == '}':
			sink.Emit(token.Operator, lineIdx, cur.Col(), 1)
			cur.Bump()
		case lang.IsDec(b) || (b == '-' && lang.IsDec(cur.Peek2())):
			mark := cur.Mark()
			cur.Bump()
			cur.EatWhile(func(b byte) bool {
				return lang.IsDec(b) || b == '.' || b == 'e' || b == 'E' || b == '+' || b == '-' || b == 'x' || lang.IsHex(b) || b == '_' || b == ':'
			})
			if cur.AtEnd() || !lang.IsIdentCont(cur.Peek()) {
				sink.Emit(token.Number, lineIdx, mark, cur.Since(mark))
			} else {
				cur.EatWhile(func(b byte) bool { return !lang.IsSpace(b) && b != ':' })
			}
		case b == '~':
			sink.Emit(token.Constant, lineIdx, cur.Col(), 1)
			cur.Bump()
		case lang.IsIdentStart(b):
			scanScalarWord(&cur, lineIdx, sink)
		default:
			cur.Bump()
		}
	}
	return State{Indent: -1}
}

// scanScalarWord classifies a plain scalar word: a mapping key when a
// colon follows, a known constant otherwise.
func scanScalarWord(cur *lang.Cursor, lineIdx uint32, sink *lang.Sink) {
	mark := cur.Mark()
	cur.EatWhile(func(b byte) bool {
		return lang.IsIdentCont(b) || b == '.' || b == '-' || b == '/'
	})
	n := cur.Since(mark)
	if cur.Peek() == ':' && (cur.Peek2() == ' ' || cur.Peek2() == 0) {
		sink.Emit(token.Property, lineIdx, mark, n)
		return
	}
	switch string(cur.LineSlice(mark, cur.Col())) {
	case "true", "false", "True", "False", "null", "Null", "yes", "no", "on", "off":
		sink.Emit(token.Constant, lineIdx, mark, n)
	}
}

func scanSingle(cur *lang.Cursor, lineIdx uint32, sink *lang.Sink) {
	mark := cur.Mark()
	cur.Bump()
	for !cur.AtEnd() {
		if cur.Peek() == '\'' {
			cur.Bump()
			// '' is an escaped quote inside a single-quoted scalar.
			if cur.Peek() == '\'' {
				cur.Bump()
				continue
			}
			break
		}
		cur.Bump()
	}
	sink.Emit(token.String, lineIdx, mark, cur.Since(mark))
}

func scanDouble(cur *lang.Cursor, lineIdx uint32, sink *lang.Sink) {
	mark := cur.Mark()
	cur.Bump()
	for !cur.AtEnd() {
		switch cur.Peek() {
		case '\\':
			cur.Bump()
			cur.Bump()
		case '"':
			cur.Bump()
			sink.Emit(token.String, lineIdx, mark, cur.Since(mark))
			return
		default:
			cur.Bump()
		}
	}
	sink.Emit(token.String, lineIdx, mark, cur.Since(mark))
}

func scanTrailingComment(cur *lang.Cursor, lineIdx uint32, sink *lang.Sink) {
	cur.EatWhile(lang.IsSpace)
	if cur.Peek() == '#' {
		sink.Emit(token.Comment, lineIdx, cur.Col(), cur.Len()-cur.Col())
		cur.SetCol(cur.Len())
	}
}

// docMarker reports a --- or ... document boundary at column zero.
func docMarker(line []byte) bool {
	if len(line) < 3 {
		return false
	}
	if string(line[:3]) != "---" && string(line[:3]) != "..." {
		return false
	}
	return len(line) == 3 || line[3] == ' '
}
