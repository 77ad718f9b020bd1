package diagfmt

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"prism/internal/semtok"
	"prism/internal/token"
)

var sampleTokens = []token.Token{
	{Type: token.Keyword, Line: 0, Col: 0, Length: 2},
	{Type: token.Variable, Line: 0, Col: 3, Length: 2},
	{Type: token.Comment, Line: 2, Col: 0, Length: 9},
}

func TestParseTokenFormat(t *testing.T) {
	cases := []struct {
		name string
		want TokenFormat
		ok   bool
	}{
		{"", TokensPretty, true},
		{"pretty", TokensPretty, true},
		{"json", TokensJSON, true},
		{"msgpack", TokensMsgpack, true},
		{"data", TokensData, true},
		{"xml", TokensPretty, false},
	}
	for _, tc := range cases {
		got, ok := ParseTokenFormat(tc.name)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseTokenFormat(%q) = %v, %v", tc.name, got, ok)
		}
	}
}

func TestFormatTokensData(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatTokens(&buf, sampleTokens, "shell", TokensData); err != nil {
		t.Fatalf("FormatTokens: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("output = %q", buf.String())
	}
	if lines[1] != "0 3 2 5 0" {
		t.Errorf("second token line = %q", lines[1])
	}
	if lines[2] != "2 0 9 0 0" {
		t.Errorf("third token line = %q", lines[2])
	}
}

func TestFormatTokensJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatTokens(&buf, sampleTokens, "shell", TokensJSON); err != nil {
		t.Fatalf("FormatTokens: %v", err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []TokenOutput{
		{Type: "keyword", Line: 0, Col: 0, Length: 2},
		{Type: "variable", Line: 0, Col: 3, Length: 2},
		{Type: "comment", Line: 2, Col: 0, Length: 9},
	}
	if !reflect.DeepEqual(out, want) {
		t.Errorf("out = %+v\nwant %+v", out, want)
	}
}

func TestFormatTokensMsgpack(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatTokens(&buf, sampleTokens, "nim", TokensMsgpack); err != nil {
		t.Fatalf("FormatTokens: %v", err)
	}
	var dump TokenDump
	if err := msgpack.NewDecoder(&buf).Decode(&dump); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dump.Language != "nim" {
		t.Errorf("language = %q", dump.Language)
	}
	if !reflect.DeepEqual(dump.Legend, semtok.Legend()) {
		t.Errorf("legend = %v", dump.Legend)
	}
	back, err := semtok.Decode(dump.Data)
	if err != nil {
		t.Fatalf("semtok.Decode: %v", err)
	}
	if !reflect.DeepEqual(back, sampleTokens) {
		t.Errorf("round trip = %+v", back)
	}
}

func TestFormatTokensPretty(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatTokens(&buf, sampleTokens[:1], "shell", TokensPretty); err != nil {
		t.Fatalf("FormatTokens: %v", err)
	}
	// Positions display 1-based.
	if got := buf.String(); got != "   1: keyword    at 1:1 len 2\n" {
		t.Errorf("output = %q", got)
	}
}
