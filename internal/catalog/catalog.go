// Package catalog loads track, genre and album listings into SQLite and
// answers catalog and popularity questions over them.
//
// Several queries keep the exact behavior of the system they replace even
// where the name suggests otherwise: Albums does not deduplicate,
// MultipleAlbums does not filter, ArtistCatalog returns comma-joined titles
// and TrackInfo records its popularity hit against a literal string unless
// HitArtist is selected. The corrected forms are separate methods
// (ArtistsWithMultipleAlbums, ArtistTrackLists) or options (WithHitMode).
package catalog

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// Track is one row of the Tracks table.
type Track struct {
	Title   string `yaml:"title"`
	AlbumID int64  `yaml:"album_id"`
	Seconds int64  `yaml:"seconds"`
}

// Genre is one row of the Genres table.
type Genre struct {
	Artist string `yaml:"artist"`
	Genres string `yaml:"genres"`
}

// Album is one row of the Albums table.
type Album struct {
	ID     int64  `yaml:"id"`
	Artist string `yaml:"artist"`
	Title  string `yaml:"album"`
}

// Popularity is one row of the Popularity table.
type Popularity struct {
	Artist string `yaml:"artist"`
	Hits   int64  `yaml:"hits"`
}

// TrackInfo is a track joined with the album sharing its ID.
type TrackInfo struct {
	Track Track `yaml:"track"`
	Album Album `yaml:"album"`
}

// AlbumLength is the summed track time of an album title.
type AlbumLength struct {
	Artist  string `yaml:"artist"`
	Album   string `yaml:"album"`
	Seconds int64  `yaml:"seconds"`
}

// ArtistAlbum pairs an artist with one of its album titles.
type ArtistAlbum struct {
	Artist string `yaml:"artist"`
	Album  string `yaml:"album"`
}

// AlbumCount is the number of distinct album titles of an artist.
type AlbumCount struct {
	Artist string `yaml:"artist"`
	Albums int64  `yaml:"albums"`
}

// TrackCount is the number of tracks credited to an artist.
type TrackCount struct {
	Artist string `yaml:"artist"`
	Tracks int64  `yaml:"tracks"`
}

// HitMode selects how TrackInfo records a popularity hit.
type HitMode int

const (
	// HitLiteral passes the artist-lookup statement text as the artist name.
	// No real artist matches it, so no counter moves.
	HitLiteral HitMode = iota
	// HitArtist increments the counters of the artists owning the track.
	HitArtist
)

func (m HitMode) String() string {
	switch m {
	case HitLiteral:
		return "literal"
	case HitArtist:
		return "artist"
	}
	return fmt.Sprintf("HitMode(%d)", int(m))
}

// ParseHitMode converts a configuration value into a HitMode.
// An empty string selects HitLiteral.
func ParseHitMode(s string) (HitMode, error) {
	switch s {
	case "", "literal", "parity":
		return HitLiteral, nil
	case "artist":
		return HitArtist, nil
	}
	return HitLiteral, fmt.Errorf("unknown hit mode %q (want \"literal\" or \"artist\")", s)
}

// Catalog runs loaders and queries against one database handle.
type Catalog struct {
	db      *sql.DB
	log     *zap.Logger
	hitMode HitMode
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger used for load and update events.
func WithLogger(l *zap.Logger) Option {
	return func(c *Catalog) {
		if l != nil {
			c.log = l
		}
	}
}

// WithHitMode sets how TrackInfo records popularity hits.
func WithHitMode(m HitMode) Option {
	return func(c *Catalog) { c.hitMode = m }
}

func New(db *sql.DB, opts ...Option) *Catalog {
	c := &Catalog{db: db, log: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
