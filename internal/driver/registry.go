// Package driver wires the language engines into file-level and
// directory-level operations shared by the CLI and the language server.
package driver

import (
	"path/filepath"
	"sort"
	"strings"

	"prism/internal/engine"
	"prism/internal/lang/nim"
	"prism/internal/lang/python"
	"prism/internal/lang/shell"
	"prism/internal/lang/yaml"
)

// Registry maps language identifiers and file extensions to engines.
type Registry struct {
	engines map[string]engine.Tokenizer
	exts    map[string]string
}

// NewRegistry builds the registry of supported languages from cfg.
func NewRegistry(cfg Config) *Registry {
	opts := cfg.EngineOptions()

	y := engine.Tokenizer(yaml.New(opts))
	if cfg.rangeOverride("yaml") == "exact" {
		y = engine.New[yaml.State]("yaml", yaml.Strategy{}, opts)
	}

	r := &Registry{
		engines: map[string]engine.Tokenizer{
			"shell":  shell.New(opts),
			"yaml":   y,
			"python": python.New(opts),
			"nim":    nim.New(opts),
		},
		exts: map[string]string{
			".sh":   "shell",
			".bash": "shell",
			".zsh":  "shell",
			".yaml": "yaml",
			".yml":  "yaml",
			".py":   "python",
			".pyi":  "python",
			".nim":  "nim",
			".nims": "nim",
		},
	}
	return r
}

// ForLanguage returns the engine registered under id.
func (r *Registry) ForLanguage(id string) (engine.Tokenizer, bool) {
	t, ok := r.engines[id]
	return t, ok
}

// ForPath resolves a file path to its engine by extension.
func (r *Registry) ForPath(path string) (engine.Tokenizer, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	id, ok := r.exts[ext]
	if !ok {
		return nil, false
	}
	return r.ForLanguage(id)
}

// Languages returns the registered language identifiers, sorted.
func (r *Registry) Languages() []string {
	ids := make([]string, 0, len(r.engines))
	for id := range r.engines {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Extensions returns the recognized file extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.exts))
	for ext := range r.exts {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
