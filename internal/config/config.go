package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	FormatTable = "table"
	FormatYAML  = "yaml"
)

type Config struct {
	Database string `koanf:"database"` // database file; empty means the XDG data dir
	Format   string `koanf:"format"`   // "table" or "yaml"

	// Default input files for `tunedb load`
	Sources SourcesConfig `koanf:"sources"`

	Popularity PopularityConfig `koanf:"popularity"`
}

// SourcesConfig holds the paths of the three input listings.
type SourcesConfig struct {
	Tracks string `koanf:"tracks"`
	Genres string `koanf:"genres"`
	Albums string `koanf:"albums"`
}

// PopularityConfig holds popularity tracking settings.
type PopularityConfig struct {
	TrackHits string `koanf:"track_hits"` // "literal" (default) or "artist"
}

// Load reads the default config files and then extra, if set. Unlike the
// default locations, extra must exist.
func Load(extra string) (*Config, error) {
	paths := []string{}
	for _, p := range getConfigPaths() {
		if _, err := os.Stat(p); err == nil {
			paths = append(paths, p)
		}
	}
	if extra != "" {
		paths = append(paths, expandPath(extra))
	}
	return loadFiles(paths)
}

func loadFiles(paths []string) (*Config, error) {
	k := koanf.New(".")

	// Last file wins
	for _, path := range paths {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.Database = expandPath(cfg.Database)
	cfg.Sources.Tracks = expandPath(cfg.Sources.Tracks)
	cfg.Sources.Genres = expandPath(cfg.Sources.Genres)
	cfg.Sources.Albums = expandPath(cfg.Sources.Albums)

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/tunedb/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "tunedb", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetFormat returns the output format with the default applied.
func (c *Config) GetFormat() string {
	if c.Format == "" {
		return FormatTable
	}
	return c.Format
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	switch c.GetFormat() {
	case FormatTable, FormatYAML:
	default:
		return fmt.Errorf("unknown format %q (want %q or %q)", c.Format, FormatTable, FormatYAML)
	}
	return nil
}
