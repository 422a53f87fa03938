//nolint:goconst // test cases intentionally repeat strings for readability
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "tilde expands to home",
			input:    "~/music",
			expected: filepath.Join(home, "music"),
		},
		{
			name:     "tilde with nested path",
			input:    "~/data/tunedb/catalog.db",
			expected: filepath.Join(home, "data", "tunedb", "catalog.db"),
		},
		{
			name:     "absolute path unchanged",
			input:    "/var/lib/tunedb.db",
			expected: "/var/lib/tunedb.db",
		},
		{
			name:     "relative path unchanged",
			input:    "data/albums.txt",
			expected: "data/albums.txt",
		},
		{
			name:     "empty string unchanged",
			input:    "",
			expected: "",
		},
		{
			name:     "tilde only",
			input:    "~",
			expected: home,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			if result != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()

	if len(paths) == 0 {
		t.Fatal("getConfigPaths() returned empty slice")
	}

	// Last path should be local config.toml
	lastPath := paths[len(paths)-1]
	if lastPath != "config.toml" {
		t.Errorf("last config path = %q, want %q", lastPath, "config.toml")
	}

	if home, err := os.UserHomeDir(); err == nil {
		expectedFirst := filepath.Join(home, ".config", "tunedb", "config.toml")
		if paths[0] != expectedFirst {
			t.Errorf("first config path = %q, want %q", paths[0], expectedFirst)
		}
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFiles(t *testing.T) {
	path := writeConfig(t, `
database = "/tmp/catalog.db"
format = "yaml"

[sources]
tracks = "/data/tracks.txt"
genres = "/data/genres.txt"
albums = "/data/albums.txt"

[popularity]
track_hits = "artist"
`)

	cfg, err := loadFiles([]string{path})
	require.NoError(t, err)

	assert.Equal(t, "/tmp/catalog.db", cfg.Database)
	assert.Equal(t, FormatYAML, cfg.GetFormat())
	assert.Equal(t, SourcesConfig{
		Tracks: "/data/tracks.txt",
		Genres: "/data/genres.txt",
		Albums: "/data/albums.txt",
	}, cfg.Sources)
	assert.Equal(t, "artist", cfg.Popularity.TrackHits)
}

func TestLoadFiles_LastWins(t *testing.T) {
	first := writeConfig(t, "database = \"/first.db\"\nformat = \"yaml\"\n")
	second := writeConfig(t, "database = \"/second.db\"\n")

	cfg, err := loadFiles([]string{first, second})
	require.NoError(t, err)

	assert.Equal(t, "/second.db", cfg.Database)
	assert.Equal(t, FormatYAML, cfg.Format, "keys absent from later files are kept")
}

func TestLoadFiles_Empty(t *testing.T) {
	cfg, err := loadFiles(nil)
	require.NoError(t, err)

	assert.Empty(t, cfg.Database)
	assert.Equal(t, FormatTable, cfg.GetFormat())
	assert.Empty(t, cfg.Popularity.TrackHits)
}

func TestLoadFiles_Malformed(t *testing.T) {
	path := writeConfig(t, "database = \n")
	_, err := loadFiles([]string{path})
	assert.Error(t, err)
}

func TestLoad_ExplicitMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoadFiles_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	path := writeConfig(t, "database = \"~/tunedb.db\"\n[sources]\nalbums = \"~/albums.txt\"\n")
	cfg, err := loadFiles([]string{path})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "tunedb.db"), cfg.Database)
	assert.Equal(t, filepath.Join(home, "albums.txt"), cfg.Sources.Albums)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantErr bool
	}{
		{"default", "", false},
		{"table", "table", false},
		{"yaml", "yaml", false},
		{"unknown", "xml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Format: tt.format}
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
