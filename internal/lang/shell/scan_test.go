package shell

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
			name: "comment",
			src:  "# hello\n",
			want: []token.Token{{Type: token.Comment, Line: 0, Col: 0, Length: 7}},
		},
		{
			name: "hash inside word is not a comment",
			src:  "foo#bar\n",
			want: nil,
		},
		{
			name: "keyword and variable",
			src:  "if $x\n",
			want: []token.Token{
				{Type: token.Keyword, Line: 0, Col: 0, Length: 2},
				{Type: token.Variable, Line: 0, Col: 3, Length: 2},
			},
		},
		{
			name: "assignment",
			src:  "COUNT=3\n",
			want: []token.Token{
				{Type: token.Variable, Line: 0, Col: 0, Length: 5},
				{Type: token.Operator, Line: 0, Col: 5, Length: 1},
				{Type: token.Number, Line: 0, Col: 6, Length: 1},
			},
		},
		{
			name: "function definition",
			src:  "greet() {\n",
			want: []token.Token{
				{Type: token.Function, Line: 0, Col: 0, Length: 5},
				{Type: token.Operator, Line: 0, Col: 5, Length: 2},
				{Type: token.Operator, Line: 0, Col: 8, Length: 1},
			},
		},
		{
			name: "single quoted string",
			src:  "echo 'hi there'\n",
			want: []token.Token{{Type: token.String, Line: 0, Col: 5, Length: 10}},
		},
		{
			name: "braced expansion",
			src:  "echo ${HOME}\n",
			want: []token.Token{{Type: token.Variable, Line: 0, Col: 5, Length: 7}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := scanAll(t, tc.src)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("tokens = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestHeredoc(t *testing.T) {
	src := "run <<EOF\nline one\nline two\nEOF\n"
	got := scanAll(t, src)
	want := []token.Token{
		{Type: token.Operator, Line: 0, Col: 4, Length: 2},
		{Type: token.Constant, Line: 0, Col: 6, Length: 3},
		{Type: token.String, Line: 1, Col: 0, Length: 8},
		{Type: token.String, Line: 2, Col: 0, Length: 8},
		{Type: token.Constant, Line: 3, Col: 0, Length: 3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokens = %+v\nwant %+v", got, want)
	}
}

func TestHeredocStripTabs(t *testing.T) {
	src := "cat <<-END\n\tbody\n\tEND\nafter=1\n"
	got := scanAll(t, src)
	// The terminator may be tab-indented with <<-; body lines stay String.
	if got[2].Type != token.String || got[2].Line != 1 {
		t.Fatalf("body token = %+v", got[2])
	}
	if got[3].Type != token.Constant || got[3].Line != 2 || got[3].Col != 1 {
		t.Fatalf("terminator token = %+v", got[3])
	}
	if got[4].Type != token.Variable || got[4].Line != 3 {
		t.Fatalf("scan did not resume after heredoc: %+v", got[4])
	}
}

func TestHerestringIsNotHeredoc(t *testing.T) {
	_, st := Strategy{}.Scan([]byte("cat <<<word\n"), 0, Strategy{}.Initial(), nil)
	if st.Kind != Normal {
		t.Fatalf("herestring opened a heredoc: %+v", st)
	}
}

func TestMultilineStrings(t *testing.T) {
	src := "msg='first\nsecond'\ndone\n"
	got := scanAll(t, src)
	want := []token.Token{
		{Type: token.Variable, Line: 0, Col: 0, Length: 3},
		{Type: token.Operator, Line: 0, Col: 3, Length: 1},
		{Type: token.String, Line: 0, Col: 4, Length: 6},
		{Type: token.String, Line: 1, Col: 0, Length: 7},
		{Type: token.Keyword, Line: 2, Col: 0, Length: 4},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokens = %+v\nwant %+v", got, want)
	}
}

func TestUnterminatedStringDiagnostic(t *testing.T) {
	bag := diag.NewBag(4)
	Strategy{}.Scan([]byte("echo \"oops\n"), 0, Strategy{}.Initial(), diag.BagReporter{Bag: bag})
	if !bag.HasErrors() {
		t.Fatal("expected an unterminated string error")
	}
	if got := bag.Items()[0].Code; got != diag.LexUnterminatedString {
		t.Errorf("code = %v", got)
	}
}

func TestUnterminatedHeredocDiagnostic(t *testing.T) {
	bag := diag.NewBag(4)
	Strategy{}.Scan([]byte("cat <<EOF\nnever closed\n"), 0, Strategy{}.Initial(), diag.BagReporter{Bag: bag})
	if !bag.HasErrors() {
		t.Fatal("expected an unterminated heredoc error")
	}
	if got := bag.Items()[0].Code; got != diag.LexUnterminatedHeredoc {
		t.Errorf("code = %v", got)
	}
}

func TestPrescanMatchesScan(t *testing.T) {
	cases := []string{
		"plain line\n",
		"run <<EOF\nbody\n",
		"run <<-MARK\n",
		"a='open\n",
		"b=\"open\n",
		"a='open\nclosed' rest\n",
		"# comment with <<EOF inside\n",
		"echo 'quoted <<EOF'\n",
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
	for i := range 60 {
		switch i % 6 {
		case 0:
			b.WriteString("deploy <<EOF\n")
		case 1, 2:
			b.WriteString("payload $HOME line\n")
		case 3:
			b.WriteString("EOF\n")
		case 4:
			b.WriteString("if true; then echo 'ok'; fi\n")
		default:
			b.WriteString("# trailing comment\n")
		}
	}
	src := []byte(b.String())

	eng := engine.New[State]("shell", Strategy{}, engine.Options{LineThreshold: 8, MaxWorkers: 4})
	want := eng.TokenizeSequential(src, nil)
	for workers := 1; workers <= 4; workers++ {
		got := eng.TokenizeParallel(context.Background(), src, workers)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("workers=%d diverged: %d tokens vs %d", workers, len(got), len(want))
		}
	}
}

func TestHeredocAcrossSectionBoundaries(t *testing.T) {
	// A heredoc spanning every section boundary of a three way split.
	src := []byte("run <<EOF\nline one\nline two\nEOF\n" + strings.Repeat("x=1\n", 8))
	eng := engine.New[State]("shell", Strategy{}, engine.Options{LineThreshold: 3, MaxWorkers: 3})
	want := eng.TokenizeSequential(src, nil)
	got := eng.TokenizeParallel(context.Background(), src, 3)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("heredoc broken by partitioning:\ngot  %+v\nwant %+v", got, want)
	}
}
