// Package config loads formatter settings from .quill.toml, discovered by
// walking up from the target directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the config file the loader looks for.
const ManifestName = ".quill.toml"

// Config holds all formatter settings. Zero value means defaults.
type Config struct {
	Format FormatConfig `toml:"format"`
	Diag   DiagConfig   `toml:"diagnostics"`
}

// FormatConfig controls how files are rewritten.
type FormatConfig struct {
	// SortImports orders imports within each blank-line separated group.
	SortImports *bool `toml:"sort_imports"`
	// KeepComments preserves lone `#` comment lines.
	KeepComments *bool `toml:"keep_comments"`
	// Exclude lists glob patterns of paths the directory walker skips.
	Exclude []string `toml:"exclude"`
}

// DiagConfig controls diagnostic output.
type DiagConfig struct {
	// MaxErrors caps reported errors per file. 0 falls back to the
	// built-in default.
	MaxErrors uint `toml:"max_errors"`
}

// Default returns the settings used when no .quill.toml exists.
func Default() Config {
	return Config{
		Diag: DiagConfig{MaxErrors: 20},
	}
}

// SortImports resolves the tri-state flag against the default (true).
func (c Config) SortImports() bool {
	if c.Format.SortImports == nil {
		return true
	}
	return *c.Format.SortImports
}

// KeepComments resolves the tri-state flag against the default (true).
func (c Config) KeepComments() bool {
	if c.Format.KeepComments == nil {
		return true
	}
	return *c.Format.KeepComments
}

// Excluded reports whether path matches any exclude pattern. Patterns are
// matched against the slash-normalized path and against its base name.
func (c Config) Excluded(path string) bool {
	norm := filepath.ToSlash(path)
	base := filepath.Base(path)
	for _, pat := range c.Format.Exclude {
		if ok, err := filepath.Match(pat, norm); err == nil && ok {
			return true
		}
		if ok, err := filepath.Match(pat, base); err == nil && ok {
			return true
		}
	}
	return false
}

// FindManifest walks up from startDir to locate .quill.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
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

// Load decodes the manifest at path.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Discover finds and loads the nearest manifest above startDir. When none
// exists it returns defaults with ok=false.
func Discover(startDir string) (cfg Config, ok bool, err error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return Default(), ok, err
	}
	cfg, err = Load(path)
	if err != nil {
		return Default(), true, err
	}
	return cfg, true, nil
}
