package engine

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"

	"fortio.org/safecast"

	"prism/internal/diag"
	"prism/internal/token"
)

// blockStrategy is a minimal language for exercising the engine: a
// line reading "begin" opens a block, "end" closes it. Lines inside a
// block become String tokens, lines outside become Keyword tokens, and
// a line reading "boom" panics the scanner.
type blockStrategy struct{}

type blockState struct {
	InBlock bool
}

func (blockStrategy) Initial() blockState {
	return blockState{}
}

func (blockStrategy) Scan(src []byte, startLine uint32, st blockState, rep diag.Reporter) ([]token.Token, blockState) {
	var toks []token.Token
	line := startLine
	for _, raw := range splitLines(src) {
		switch string(raw) {
		case "boom":
			panic("scanner blew up")
		case "begin":
			st.InBlock = true
		case "end":
			st.InBlock = false
		default:
			if len(raw) > 0 {
				typ := token.Keyword
				if st.InBlock {
					typ = token.String
				}
				toks = append(toks, token.Token{
					Type:   typ,
					Line:   line,
					Length: safecast.MustConvert[uint32](len(raw)),
				})
			}
		}
		line++
	}
	return toks, st
}

func (s blockStrategy) ScanState(src []byte, st blockState) blockState {
	for _, raw := range splitLines(src) {
		switch string(raw) {
		case "begin":
			st.InBlock = true
		case "end":
			st.InBlock = false
		}
	}
	return st
}

func splitLines(src []byte) [][]byte {
	var lines [][]byte
	start := 0
	for start < len(src) {
		end := bytes.IndexByte(src[start:], '\n')
		if end < 0 {
			lines = append(lines, src[start:])
			break
		}
		lines = append(lines, src[start:start+end])
		start += end + 1
	}
	return lines
}

func testEngine(threshold, workers int) *Engine[blockState] {
	return New[blockState]("block", blockStrategy{}, Options{
		LineThreshold: threshold,
		MaxWorkers:    workers,
	})
}

// buildDoc produces a document of n lines that toggles blocks every
// few lines, so boundary state matters at almost any split point.
func buildDoc(n int) []byte {
	var b strings.Builder
	for i := range n {
		switch i % 7 {
		case 0:
			b.WriteString("begin\n")
		case 4:
			b.WriteString("end\n")
		default:
			b.WriteString("payload line\n")
		}
	}
	return []byte(b.String())
}

func TestCountLines(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want int
	}{
		{"empty", "", 0},
		{"one line no newline", "a", 1},
		{"one line with newline", "a\n", 1},
		{"two lines", "a\nb", 2},
		{"trailing newline", "a\nb\n", 2},
		{"blank lines", "\n\n", 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := countLines([]byte(tc.src)); got != tc.want {
				t.Errorf("countLines(%q) = %d, want %d", tc.src, got, tc.want)
			}
		})
	}
}

func TestThresholdBoundary(t *testing.T) {
	// 3999 lines stays under the default threshold, 4000 reaches it.
	under := buildDoc(DefaultLineThreshold - 1)
	if got := countLines(under); got != DefaultLineThreshold-1 {
		t.Fatalf("under-threshold doc has %d lines, want %d", got, DefaultLineThreshold-1)
	}
	over := buildDoc(DefaultLineThreshold + 1)
	if got := countLines(over); got != DefaultLineThreshold+1 {
		t.Fatalf("over-threshold doc has %d lines, want %d", got, DefaultLineThreshold+1)
	}

	// Either way the output must be the same as a sequential scan.
	e := New[blockState]("block", blockStrategy{}, Options{})
	for _, src := range [][]byte{under, over} {
		seq := e.TokenizeSequential(src, nil)
		got := e.Tokenize(context.Background(), src, nil)
		if !reflect.DeepEqual(got, seq) {
			t.Fatalf("Tokenize diverged from sequential on %d-line doc", countLines(src))
		}
	}
}

func TestParallelTransparency(t *testing.T) {
	src := buildDoc(100)
	e := testEngine(10, 4)
	want := e.TokenizeSequential(src, nil)

	for workers := 1; workers <= 4; workers++ {
		got := e.TokenizeParallel(context.Background(), src, workers)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("workers=%d: parallel output diverged from sequential (%d vs %d tokens)",
				workers, len(got), len(want))
		}
	}
}

func TestParallelTransparencyNoTrailingNewline(t *testing.T) {
	src := bytes.TrimSuffix(buildDoc(64), []byte("\n"))
	e := testEngine(8, 4)
	want := e.TokenizeSequential(src, nil)
	got := e.TokenizeParallel(context.Background(), src, 4)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("parallel output diverged on doc without trailing newline")
	}
}

func TestTokenizeIdempotent(t *testing.T) {
	src := buildDoc(50)
	e := testEngine(10, 3)
	first := e.Tokenize(context.Background(), src, nil)
	second := e.Tokenize(context.Background(), src, nil)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("repeated tokenization produced different output")
	}
}

func TestPartitionLineAligned(t *testing.T) {
	src := buildDoc(23)
	sections := partition(src, 23, 4)
	if len(sections) != 4 {
		t.Fatalf("got %d sections, want 4", len(sections))
	}
	var rejoined []byte
	wantLine := uint32(0)
	for i, sec := range sections {
		if sec.startLine != wantLine {
			t.Errorf("section %d starts at line %d, want %d", i, sec.startLine, wantLine)
		}
		// Only the last section may end without a newline.
		if i < len(sections)-1 && (len(sec.src) == 0 || sec.src[len(sec.src)-1] != '\n') {
			t.Errorf("section %d boundary not line aligned", i)
		}
		wantLine += safecast.MustConvert[uint32](countLines(sec.src))
		rejoined = append(rejoined, sec.src...)
	}
	if !bytes.Equal(rejoined, src) {
		t.Fatal("sections do not reassemble into the document")
	}
}

func TestWorkerPanicDegradesToEmptySection(t *testing.T) {
	var b strings.Builder
	for i := range 40 {
		if i == 25 {
			b.WriteString("boom\n")
		} else {
			b.WriteString("payload\n")
		}
	}
	src := []byte(b.String())
	e := testEngine(8, 4)

	got := e.TokenizeParallel(context.Background(), src, 4)
	// The failing section's tokens vanish, everything else survives.
	want := e.TokenizeSequential(bytes.ReplaceAll(src, []byte("boom\n"), []byte("payload\n")), nil)
	if len(got) >= len(want) {
		t.Fatalf("expected missing section tokens: got %d, full doc would give %d", len(got), len(want))
	}
	if len(got) == 0 {
		t.Fatal("all sections lost, expected only the panicking one")
	}
	for i := 1; i < len(got); i++ {
		if got[i].Line < got[i-1].Line {
			t.Fatalf("tokens out of order after merge: %d before %d", got[i-1].Line, got[i].Line)
		}
	}
}

func TestTokenizeRangeMatchesFiltered(t *testing.T) {
	src := buildDoc(60)
	e := testEngine(8, 4)
	full := e.Tokenize(context.Background(), src, nil)

	var want []token.Token
	for _, tok := range full {
		if tok.Line >= 10 && tok.Line <= 20 {
			want = append(want, tok)
		}
	}
	got := e.TokenizeRange(context.Background(), src, 10, 20)
	if !reflect.DeepEqual(got, append([]token.Token{}, want...)) {
		if len(got) != len(want) {
			t.Fatalf("range returned %d tokens, filtered full scan gives %d", len(got), len(want))
		}
		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("range token %d = %+v, want %+v", i, got[i], want[i])
			}
		}
	}
}

func TestTokenizeRangeEmptyForInvertedRange(t *testing.T) {
	e := testEngine(8, 4)
	if got := e.TokenizeRange(context.Background(), buildDoc(10), 5, 2); got != nil {
		t.Fatalf("inverted range returned %d tokens, want none", len(got))
	}
}

func TestRangeStrategyReporting(t *testing.T) {
	e := testEngine(8, 4)
	if got := e.RangeStrategy(); got != RangeExact {
		t.Fatalf("RangeStrategy() = %v, want exact", got)
	}
	e = e.WithLocalRange(func(src []byte, startLine, endLine uint32) []token.Token {
		return nil
	})
	if got := e.RangeStrategy(); got != RangeLocal {
		t.Fatalf("RangeStrategy() = %v, want local after WithLocalRange", got)
	}
}

func BenchmarkTokenizeSequential(b *testing.B) {
	src := buildDoc(5000)
	e := testEngine(0, 1)
	for b.Loop() {
		e.TokenizeSequential(src, nil)
	}
}

func BenchmarkTokenizeParallel(b *testing.B) {
	src := buildDoc(5000)
	e := testEngine(0, 4)
	for b.Loop() {
		e.TokenizeParallel(context.Background(), src, 4)
	}
}
