package nim

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"prism/internal/diag"
	"prism/internal/engine"
	"prism/internal/testkit"
	"prism/internal/token"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	toks, _ := Strategy{}.Scan([]byte(src), 0, Strategy{}.Initial(), nil)
	if err := testkit.CheckTokenInvariants([]byte(src), toks); err != nil {
		t.Fatalf("invariant violation: %v", err)
	}
	return toks
}

func TestScanBasics(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []token.Token
	}{
		{
			name: "let binding",
			src:  "let x = 5\n",
			want: []token.Token{
				{Type: token.Keyword, Line: 0, Col: 0, Length: 3},
				{Type: token.Operator, Line: 0, Col: 6, Length: 1},
				{Type: token.Number, Line: 0, Col: 8, Length: 1},
			},
		},
		{
			name: "proc definition names the routine",
			src:  "proc add(a: int): int =\n",
			want: []token.Token{
				{Type: token.Keyword, Line: 0, Col: 0, Length: 4},
				{Type: token.Function, Line: 0, Col: 5, Length: 3},
				{Type: token.Operator, Line: 0, Col: 8, Length: 1},
				{Type: token.Operator, Line: 0, Col: 10, Length: 1},
				{Type: token.Operator, Line: 0, Col: 15, Length: 2},
				{Type: token.Operator, Line: 0, Col: 22, Length: 1},
			},
		},
		{
			name: "capitalized word is a type",
			src:  "var p: Point\n",
			want: []token.Token{
				{Type: token.Keyword, Line: 0, Col: 0, Length: 3},
				{Type: token.Operator, Line: 0, Col: 5, Length: 1},
				{Type: token.TypeName, Line: 0, Col: 7, Length: 5},
			},
		},
		{
			name: "call site",
			src:  "echo render(x)\n",
			want: []token.Token{
				{Type: token.Function, Line: 0, Col: 5, Length: 6},
				{Type: token.Operator, Line: 0, Col: 11, Length: 1},
				{Type: token.Operator, Line: 0, Col: 13, Length: 1},
			},
		},
		{
			name: "line comment",
			src:  "discard # note\n",
			want: []token.Token{
				{Type: token.Keyword, Line: 0, Col: 0, Length: 7},
				{Type: token.Comment, Line: 0, Col: 8, Length: 6},
			},
		},
		{
			name: "char literal with escape",
			src:  "c = '\\n'\n",
			want: []token.Token{
				{Type: token.Operator, Line: 0, Col: 2, Length: 1},
				{Type: token.Constant, Line: 0, Col: 4, Length: 4},
			},
		},
		{
			name: "plain string",
			src:  "msg = \"hello\"\n",
			want: []token.Token{
				{Type: token.Operator, Line: 0, Col: 4, Length: 1},
				{Type: token.String, Line: 0, Col: 6, Length: 7},
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := scanAll(t, tc.src)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("tokens = %+v\nwant %+v", got, tc.want)
			}
		})
	}
}

func TestNestedBlockComment(t *testing.T) {
	src := "#[ outer\n#[ inner ]#\nstill ]#\necho \"done\"\n"
	got := scanAll(t, src)
	want := []token.Token{
		{Type: token.Comment, Line: 0, Col: 0, Length: 8},
		{Type: token.Comment, Line: 1, Col: 0, Length: 11},
		{Type: token.Comment, Line: 2, Col: 0, Length: 8},
		{Type: token.String, Line: 3, Col: 5, Length: 6},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokens = %+v\nwant %+v", got, want)
	}
}

func TestBlockCommentDepthSurvivesLines(t *testing.T) {
	_, st := Strategy{}.Scan([]byte("#[ one #[ two #[ three\n]#\n"), 0, Strategy{}.Initial(), nil)
	if st.Kind != InBlockComment || st.Depth != 2 {
		t.Fatalf("state = %+v, want depth 2 still open", st)
	}
}

func TestTripleQuotedString(t *testing.T) {
	src := "a = \"\"\"first\nsecond\"\"\" rest\n"
	got := scanAll(t, src)
	want := []token.Token{
		{Type: token.Operator, Line: 0, Col: 2, Length: 1},
		{Type: token.String, Line: 0, Col: 4, Length: 8},
		{Type: token.String, Line: 1, Col: 0, Length: 9},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokens = %+v\nwant %+v", got, want)
	}
}

func TestTripleQuoteEatsExtraClosingQuotes(t *testing.T) {
	toks, st := Strategy{}.Scan([]byte("x = \"\"\"a\"\"\"\"\n"), 0, Strategy{}.Initial(), nil)
	if st.Kind != Normal {
		t.Fatalf("extra closing quote reopened the string: %+v", st)
	}
	want := token.Token{Type: token.String, Line: 0, Col: 4, Length: 8}
	if len(toks) != 2 || toks[1] != want {
		t.Fatalf("tokens = %+v, want trailing %+v", toks, want)
	}
}

func TestRawString(t *testing.T) {
	got := scanAll(t, "path = r\"C:\\nim\"\n")
	want := []token.Token{
		{Type: token.Operator, Line: 0, Col: 5, Length: 1},
		{Type: token.String, Line: 0, Col: 7, Length: 9},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokens = %+v\nwant %+v", got, want)
	}
}

func TestUnterminatedCommentDiagnostic(t *testing.T) {
	bag := diag.NewBag(4)
	Strategy{}.Scan([]byte("#[ never closed\n"), 0, Strategy{}.Initial(), diag.BagReporter{Bag: bag})
	if !bag.HasErrors() {
		t.Fatal("expected an unterminated comment error")
	}
	if got := bag.Items()[0].Code; got != diag.LexUnterminatedComment {
		t.Errorf("code = %v", got)
	}
}

func TestUnterminatedTripleStringDiagnostic(t *testing.T) {
	bag := diag.NewBag(4)
	Strategy{}.Scan([]byte("s = \"\"\"open\n"), 0, Strategy{}.Initial(), diag.BagReporter{Bag: bag})
	if !bag.HasErrors() {
		t.Fatal("expected an unterminated string error")
	}
	if got := bag.Items()[0].Code; got != diag.LexUnterminatedString {
		t.Errorf("code = %v", got)
	}
}

func TestPrescanMatchesScan(t *testing.T) {
	cases := []string{
		"let x = 1\n",
		"#[ open\n",
		"#[ a #[ b ]# c\n",
		"#[ a ]# let y = 2\n",
		"s = \"\"\"open\n",
		"s = \"\"\"closed\"\"\" & tail\n",
		"# line comment with #[ inside\n",
		"q = \"quoted #[ text\"\n",
	}
	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			_, scanned := Strategy{}.Scan([]byte(src), 0, Strategy{}.Initial(), nil)
			prescanned := Strategy{}.ScanState([]byte(src), Strategy{}.Initial())
			if scanned != prescanned {
				t.Errorf("prescan state %+v diverged from scan state %+v", prescanned, scanned)
			}
		})
	}
}

func TestParallelTransparency(t *testing.T) {
	var b strings.Builder
	for i := range 80 {
		switch i % 8 {
		case 0:
			b.WriteString("#[ block start\n")
		case 1:
			b.WriteString("nested #[ deeper ]# still\n")
		case 2:
			b.WriteString("done ]#\n")
		case 3:
			b.WriteString("proc run() =\n")
		case 4:
			b.WriteString("  let s = \"\"\"raw\n")
		case 5:
			b.WriteString("body line\n")
		case 6:
			b.WriteString("\"\"\"\n")
		default:
			b.WriteString("# comment\n")
		}
	}
	src := []byte(b.String())

	eng := engine.New[State]("nim", Strategy{}, engine.Options{LineThreshold: 8, MaxWorkers: 4})
	want := eng.TokenizeSequential(src, nil)
	for workers := 1; workers <= 4; workers++ {
		got := eng.TokenizeParallel(context.Background(), src, workers)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("workers=%d diverged: %d tokens vs %d", workers, len(got), len(want))
		}
	}
}
