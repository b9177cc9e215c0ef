// Package config loads per-project compiler defaults from an optional
// jsasta.yaml file (SPEC_FULL.md §10.3). It deliberately carries no
// dependency graph — that is a documented Non-goal — only the handful of
// knobs the CLI otherwise takes as flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SourceFileExt is the recognized source file extension. The LSP never
// consults this: it dispatches on the client-advertised languageId
// (spec.md §6), so this constant only matters to the CLI, which strips it
// when deriving a default output path.
const SourceFileExt = ".jst"

// SinkFormat selects how the compiler CLI renders diagnostics.
type SinkFormat string

const (
	SinkText SinkFormat = "text"
	SinkJSON SinkFormat = "json"
)

// Config holds the defaults a jsasta.yaml project file may override. CLI
// flags always win over whatever is loaded here (SPEC_FULL.md §10.3).
type Config struct {
	OptimizationLevel int        `yaml:"optimizationLevel"`
	DebugInfo         bool       `yaml:"debugInfo"`
	DiagnosticSink    SinkFormat `yaml:"diagnosticSink"`
	SourceExt         string     `yaml:"sourceExt"`
}

// Default returns the built-in defaults used when no project file exists.
func Default() *Config {
	return &Config{
		OptimizationLevel: 0,
		DebugInfo:         false,
		DiagnosticSink:    SinkText,
		SourceExt:         SourceFileExt,
	}
}

// Load reads jsasta.yaml from path (an explicit --config value) or, if path
// is empty, from "jsasta.yaml" in the current directory. A missing file at
// the default location is not an error: Load returns Default() unchanged.
// An explicit --config path that does not exist is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if path == "" {
		path = "jsasta.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if cfg.SourceExt == "" {
		cfg.SourceExt = SourceFileExt
	}
	if cfg.DiagnosticSink == "" {
		cfg.DiagnosticSink = SinkText
	}
	return cfg, nil
}

// TrimSourceExt removes cfg's recognized source extension from name, if
// present.
func (c *Config) TrimSourceExt(name string) string {
	ext := c.SourceExt
	if ext == "" {
		ext = SourceFileExt
	}
	if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
		return name[:len(name)-len(ext)]
	}
	return name
}

// CacheDir returns the directory the build ledger lives in:
// $XDG_CACHE_HOME/jsasta, else $HOME/.cache/jsasta, else jsasta under the
// OS temp dir (SPEC_FULL.md §10.6).
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "jsasta")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".cache", "jsasta")
	}
	return filepath.Join(os.TempDir(), "jsasta")
}
