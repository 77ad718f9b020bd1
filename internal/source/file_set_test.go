package source

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestBuildLineStarts(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []uint32
	}{
		{"empty", "", []uint32{0}},
		{"single line", "abc", []uint32{0}},
		{"trailing newline", "abc\n", []uint32{0, 4}},
		{"two lines", "a\nbc", []uint32{0, 2}},
		{"blank lines", "\n\n", []uint32{0, 1, 2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := BuildLineStarts([]byte(tc.src))
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("BuildLineStarts(%q) = %v, want %v", tc.src, got, tc.want)
			}
		})
	}
}

func TestToLineCol(t *testing.T) {
	src := []byte("ab\ncde\n\nf")
	starts := BuildLineStarts(src)
	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{1, LineCol{Line: 1, Col: 2}},
		{3, LineCol{Line: 2, Col: 1}},
		{5, LineCol{Line: 2, Col: 3}},
		{7, LineCol{Line: 3, Col: 1}},
		{8, LineCol{Line: 4, Col: 1}},
	}
	for _, tc := range cases {
		if got := ToLineCol(starts, tc.off); got != tc.want {
			t.Errorf("ToLineCol(%d) = %+v, want %+v", tc.off, got, tc.want)
		}
	}
}

func TestAddVirtualNormalizesContent(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test://doc", []byte("\xEF\xBB\xBFa\r\nb\r\n"))
	file := fs.Get(id)
	if file == nil {
		t.Fatal("virtual file not found")
	}
	if string(file.Content) != "a\nb\n" {
		t.Errorf("content = %q, want %q", file.Content, "a\nb\n")
	}
	if file.Flags&FileHadBOM == 0 {
		t.Error("expected FileHadBOM flag")
	}
	if file.Flags&FileNormalizedCRLF == 0 {
		t.Error("expected FileNormalizedCRLF flag")
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("expected FileVirtual flag")
	}
}

func TestLoadAndLineAccess(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.sh")
	if err := os.WriteFile(path, []byte("echo hi\nexit 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	file := fs.Get(id)
	if file.LineCount() != 3 {
		t.Fatalf("LineCount() = %d, want 3 (two lines plus trailing empty)", file.LineCount())
	}
	if got := string(file.Line(0)); got != "echo hi" {
		t.Errorf("Line(0) = %q", got)
	}
	if got := string(file.Line(1)); got != "exit 0" {
		t.Errorf("Line(1) = %q", got)
	}
	if got := string(file.Line(2)); got != "" {
		t.Errorf("Line(2) = %q, want empty", got)
	}

	start, end := file.LineSpan(1)
	if start != 8 || end != 14 {
		t.Errorf("LineSpan(1) = %d..%d, want 8..14", start, end)
	}
}

func TestGetByPath(t *testing.T) {
	fs := NewFileSet()
	id := fs.Add("some/dir/../file.py", []byte("x = 1\n"), 0)
	file, ok := fs.GetByPath("some/file.py")
	if !ok {
		t.Fatal("GetByPath failed to resolve cleaned path")
	}
	if file.ID != id {
		t.Errorf("GetByPath returned file %d, want %d", file.ID, id)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 6, End: 12}
	got := a.Cover(b)
	if got.Start != 4 || got.End != 12 {
		t.Errorf("Cover = %v", got)
	}
}
