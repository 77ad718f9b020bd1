package shell

import (
	"bytes"

	"fortio.org/safecast"

	"prism/internal/diag"
	"prism/internal/engine"
	"prism/internal/lang"
	"prism/internal/source"
	"prism/internal/token"
)

// Strategy implements engine.Strategy[State] for shell scripts.
type Strategy struct{}

// New builds the shell tokenizer.
func New(opts engine.Options) *engine.Engine[State] {
	return engine.New[State]("shell", Strategy{}, opts)
}

func (Strategy) Initial() State {
	return State{}
}

func (Strategy) Scan(src []byte, startLine uint32, st State, rep diag.Reporter) ([]token.Token, State) {
	sink := lang.NewSink()
	lang.EachLine(src, func(rel, off uint32, line []byte) {
		st = scanLine(line, startLine+rel, off, st, sink, rep)
	})
	reportOpen(rep, st, src)
	return sink.Tokens(), st
}

func (Strategy) ScanState(src []byte, st State) State {
	lang.EachLine(src, func(rel, off uint32, line []byte) {
		st = scanLine(line, rel, off, st, nil, nil)
	})
	return st
}

func reportOpen(rep diag.Reporter, st State, src []byte) {
	if rep == nil || st.Kind == Normal {
		return
	}
	end := safecast.MustConvert[uint32](len(src))
	at := source.Span{Start: end, End: end}
	switch st.Kind {
	case InSingle, InDouble:
		diag.Report(rep, diag.LexUnterminatedString, diag.SevError, at,
			"unterminated string literal at end of file")
	case InHeredoc:
		diag.Report(rep, diag.LexUnterminatedHeredoc, diag.SevError, at,
			"heredoc delimited by "+st.Delim+" is never closed")
	}
}

// scanLine walks one physical line, emitting tokens into sink (nil for
// prescans) and returning the state the next line starts in. The state
// transitions must not depend on sink or rep being present.
func scanLine(line []byte, lineIdx, off uint32, st State, sink *lang.Sink, rep diag.Reporter) State {
	switch st.Kind {
	case InHeredoc:
		return scanHeredocLine(line, lineIdx, st, sink)
	case InSingle:
		cur := lang.NewCursor(line)
		if !resumeSingle(&cur, lineIdx, sink) {
			return st
		}
		return scanNormal(&cur, lineIdx, off, sink, rep)
	case InDouble:
		cur := lang.NewCursor(line)
		if !resumeDouble(&cur, lineIdx, sink) {
			return st
		}
		return scanNormal(&cur, lineIdx, off, sink, rep)
	}
	cur := lang.NewCursor(line)
	return scanNormal(&cur, lineIdx, off, sink, rep)
}

// scanHeredocLine checks a heredoc body line against the terminator.
// The terminator must be the entire line, modulo leading tabs for <<-.
func scanHeredocLine(line []byte, lineIdx uint32, st State, sink *lang.Sink) State {
	body := line
	if st.StripTabs {
		body = bytes.TrimLeft(line, "\t")
	}
	if string(body) == st.Delim {
		col := safecast.MustConvert[uint32](len(line) - len(body))
		sink.Emit(token.Constant, lineIdx, col, safecast.MustConvert[uint32](len(body)))
		return State{}
	}
	sink.EmitLine(token.String, lineIdx, safecast.MustConvert[uint32](len(line)))
	return st
}

// resumeSingle consumes the continuation of a single-quoted string,
// reporting whether the line has more content to scan.
func resumeSingle(cur *lang.Cursor, lineIdx uint32, sink *lang.Sink) bool {
	for !cur.AtEnd() {
		if cur.Peek() == '\'' {
			cur.Bump()
			sink.Emit(token.String, lineIdx, 0, cur.Col())
			return true
		}
		cur.Bump()
	}
	sink.Emit(token.String, lineIdx, 0, cur.Col())
	return false
}

// resumeDouble consumes the continuation of a double-quoted string.
// Backslash escapes the next byte; a backslash at end of line escapes
// the newline and keeps the string open.
func resumeDouble(cur *lang.Cursor, lineIdx uint32, sink *lang.Sink) bool {
	for !cur.AtEnd() {
		switch cur.Peek() {
		case '\\':
			cur.Bump()
			cur.Bump()
		case '"':
			cur.Bump()
			sink.Emit(token.String, lineIdx, 0, cur.Col())
			return true
		default:
			cur.Bump()
		}
	}
	sink.Emit(token.String, lineIdx, 0, cur.Col())
	return false
}

// pendingHeredoc records a heredoc operator seen on the current line.
// Its body starts on the following line.
type pendingHeredoc struct {
	delim     string
	stripTabs bool
	set       bool
}

func scanNormal(cur *lang.Cursor, lineIdx, off uint32, sink *lang.Sink, rep diag.Reporter) State {
	var pending pendingHeredoc
	atWordStart := true
	for !cur.AtEnd() {
		b := cur.Peek()
		switch {
		case lang.IsSpace(b):
			cur.Bump()
			atWordStart = true
			continue
		case b == '#' && atWordStart:
			sink.Emit(token.Comment, lineIdx, cur.Col(), cur.Len()-cur.Col())
			cur.SetCol(cur.Len())
		case b == '\'':
			if !scanSingle(cur, lineIdx, sink) {
				return State{Kind: InSingle}
			}
		case b == '"':
			if !scanDouble(cur, lineIdx, sink) {
				return State{Kind: InDouble}
			}
		case b == '$':
			scanExpansion(cur, lineIdx, sink)
		case b == '<' && cur.Peek2() == '<':
			scanHeredocOp(cur, lineIdx, &pending, sink)
		case lang.IsDec(b):
			mark := cur.Mark()
			cur.EatWhile(func(b byte) bool { return lang.IsDec(b) || b == '.' || b == 'x' || lang.IsHex(b) })
			if cur.AtEnd() || !lang.IsIdentCont(cur.Peek()) {
				sink.Emit(token.Number, lineIdx, mark, cur.Since(mark))
			} else {
				cur.EatWhile(lang.IsIdentCont)
			}
		case lang.IsIdentStart(b):
			scanWord(cur, lineIdx, sink)
		case isOperatorByte(b):
			mark := cur.Mark()
			cur.EatWhile(isOperatorByte)
			sink.Emit(token.Operator, lineIdx, mark, cur.Since(mark))
		default:
			cur.Bump()
		}
		atWordStart = false
	}
	if pending.set {
		return State{Kind: InHeredoc, Delim: pending.delim, StripTabs: pending.stripTabs}
	}
	return State{}
}

// scanSingle handles a single-quoted string opened on this line.
func scanSingle(cur *lang.Cursor, lineIdx uint32, sink *lang.Sink) bool {
	mark := cur.Mark()
	cur.Bump()
	for !cur.AtEnd() {
		if cur.Peek() == '\'' {
			cur.Bump()
			sink.Emit(token.String, lineIdx, mark, cur.Since(mark))
			return true
		}
		cur.Bump()
	}
	sink.Emit(token.String, lineIdx, mark, cur.Since(mark))
	return false
}

// scanDouble handles a double-quoted string opened on this line.
func scanDouble(cur *lang.Cursor, lineIdx uint32, sink *lang.Sink) bool {
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
			return true
		default:
			cur.Bump()
		}
	}
	sink.Emit(token.String, lineIdx, mark, cur.Since(mark))
	return false
}

// scanExpansion handles $name, ${...} and $(...) heads. Only the head
// is highlighted; parenthesized bodies rescan as ordinary text.
func scanExpansion(cur *lang.Cursor, lineIdx uint32, sink *lang.Sink) {
	mark := cur.Mark()
	cur.Bump()
	switch {
	case cur.Peek() == '{':
		cur.Bump()
		cur.EatWhile(func(b byte) bool { return b != '}' })
		cur.Eat('}')
		sink.Emit(token.Variable, lineIdx, mark, cur.Since(mark))
	case lang.IsIdentStart(cur.Peek()) || lang.IsDec(cur.Peek()):
		cur.EatWhile(lang.IsIdentCont)
		sink.Emit(token.Variable, lineIdx, mark, cur.Since(mark))
	case cur.Peek() == '?' || cur.Peek() == '#' || cur.Peek() == '@' || cur.Peek() == '*' || cur.Peek() == '$' || cur.Peek() == '!':
		cur.Bump()
		sink.Emit(token.Variable, lineIdx, mark, cur.Since(mark))
	default:
		sink.Emit(token.Operator, lineIdx, mark, cur.Since(mark))
	}
}

// scanHeredocOp handles << and <<- operators plus the delimiter word.
// <<< is a herestring, not a heredoc. Only the first heredoc on a line
// opens a body; tracking a queue would break the closed state set.
func scanHeredocOp(cur *lang.Cursor, lineIdx uint32, pending *pendingHeredoc, sink *lang.Sink) {
	mark := cur.Mark()
	cur.Bump()
	cur.Bump()
	if cur.Eat('<') {
		sink.Emit(token.Operator, lineIdx, mark, cur.Since(mark))
		return
	}
	stripTabs := cur.Eat('-')
	sink.Emit(token.Operator, lineIdx, mark, cur.Since(mark))
	cur.EatWhile(lang.IsSpace)

	// Quoting the delimiter disables expansion in the body, which the
	// highlighter does not model; the quotes just wrap the word here.
	quote := byte(0)
	if cur.Peek() == '\'' || cur.Peek() == '"' {
		quote = cur.Peek()
		cur.Bump()
	}
	wordMark := cur.Mark()
	cur.EatWhile(func(b byte) bool {
		return lang.IsIdentCont(b) || b == '.' || b == '-'
	})
	delim := ""
	if n := cur.Since(wordMark); n > 0 {
		delim = string(cur.LineSlice(wordMark, cur.Col()))
		sink.Emit(token.Constant, lineIdx, wordMark, n)
	}
	if quote != 0 {
		cur.Eat(quote)
	}
	if delim != "" && !pending.set {
		pending.delim = delim
		pending.stripTabs = stripTabs
		pending.set = true
	}
}

// scanWord classifies an identifier-shaped word.
func scanWord(cur *lang.Cursor, lineIdx uint32, sink *lang.Sink) {
	mark := cur.Mark()
	cur.EatWhile(lang.IsIdentCont)
	word := cur.LineSlice(mark, cur.Col())
	n := cur.Since(mark)
	switch {
	case cur.Peek() == '=' && cur.Peek2() != '=':
		sink.Emit(token.Variable, lineIdx, mark, n)
	case cur.Peek() == '(' && cur.Peek2() == ')':
		sink.Emit(token.Function, lineIdx, mark, n)
	case keywords[string(word)]:
		sink.Emit(token.Keyword, lineIdx, mark, n)
	case constants[string(word)]:
		sink.Emit(token.Constant, lineIdx, mark, n)
	}
}

func isOperatorByte(b byte) bool {
	switch b {
	case '|', '&', ';', '<', '>', '(', ')', '{', '}', '=', '!', '[', ']', '`', '~', '*', '?', '+', '-', '/', '%', '^':
		return true
	}
	return false
}
