package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"prism/internal/engine"
)

// ConfigFileName is searched upward from the working directory.
const ConfigFileName = "prism.toml"

// Config is the on-disk configuration. Everything is optional; the
// zero Config yields the built-in defaults.
type Config struct {
	Engine    EngineConfig              `toml:"engine"`
	Languages map[string]LanguageConfig `toml:"languages"`
}

type EngineConfig struct {
	LineThreshold int `toml:"line_threshold"`
	MaxWorkers    int `toml:"max_workers"`
}

type LanguageConfig struct {
	// Range overrides the language's range strategy: "exact" or "local".
	Range string `toml:"range"`
}

// EngineOptions converts the config into engine options.
func (c Config) EngineOptions() engine.Options {
	return engine.Options{
		LineThreshold: c.Engine.LineThreshold,
		MaxWorkers:    c.Engine.MaxWorkers,
	}
}

func (c Config) rangeOverride(id string) string {
	lc, ok := c.Languages[id]
	if !ok {
		return ""
	}
	return lc.Range
}

func findConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadConfig walks up from startDir looking for prism.toml. A missing
// file is not an error: the zero Config is returned with found=false.
func LoadConfig(startDir string) (Config, bool, error) {
	path, ok, err := findConfig(startDir)
	if err != nil || !ok {
		return Config{}, ok, err
	}
	cfg, err := parseConfig(path)
	if err != nil {
		return Config{}, true, err
	}
	return cfg, true, nil
}

func parseConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	for id, lc := range cfg.Languages {
		if lc.Range != "" && lc.Range != "exact" && lc.Range != "local" {
			return Config{}, fmt.Errorf("%s: [languages.%s].range must be \"exact\" or \"local\"", path, id)
		}
	}
	if cfg.Engine.LineThreshold < 0 || cfg.Engine.MaxWorkers < 0 {
		return Config{}, fmt.Errorf("%s: [engine] values must be non-negative", path)
	}
	if und := meta.Undecoded(); len(und) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, und[0].String())
	}
	return cfg, nil
}
