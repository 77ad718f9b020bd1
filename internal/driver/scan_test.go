package driver

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.py", "pass\n")
	writeFile(t, dir, "a.sh", "echo hi\n")
	writeFile(t, dir, "notes.txt", "ignored\n")
	sub := filepath.Join(dir, "sub")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, sub, "c.yaml", "key: 1\n")

	r := NewRegistry(Config{})
	files, err := r.ListFiles(dir)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.sh"),
		filepath.Join(dir, "b.py"),
		filepath.Join(sub, "c.yaml"),
	}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("files = %v\nwant %v", files, want)
	}
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "run.sh", "if true; then\nfi\n")
	writeFile(t, dir, "app.py", "x = \"oops\n")
	writeFile(t, dir, "ci.yml", "jobs:\n  - build\n")

	r := NewRegistry(Config{})
	var events []ScanEvent
	fileSet, results, err := r.ScanDir(context.Background(), dir, 10, 1, func(ev ScanEvent) {
		events = append(events, ev)
	})
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}
	if fileSet == nil {
		t.Fatal("nil file set")
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}

	byLang := make(map[string]ScanDirResult, len(results))
	for _, res := range results {
		byLang[res.Language] = res
		if len(res.Tokens) == 0 {
			t.Errorf("%s produced no tokens", res.Path)
		}
	}
	if !byLang["python"].Bag.HasErrors() {
		t.Error("python file should carry an unterminated string diagnostic")
	}
	if byLang["shell"].Bag.HasErrors() {
		t.Errorf("shell file diagnostics = %+v", byLang["shell"].Bag.Items())
	}

	if len(events) != 3 {
		t.Fatalf("events = %d, want 3", len(events))
	}
	for _, ev := range events {
		if ev.Total != 3 {
			t.Errorf("event total = %d", ev.Total)
		}
	}
}

func TestScanDirEmpty(t *testing.T) {
	r := NewRegistry(Config{})
	fileSet, results, err := r.ScanDir(context.Background(), t.TempDir(), 10, 0, nil)
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}
	if fileSet == nil || len(results) != 0 {
		t.Errorf("results = %v", results)
	}
}
