package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	dbutil "github.com/llehouerou/tunedb/internal/db"
)

type tableLoader struct {
	name   string
	create string
	insert string
	fields int
	parse  func(rec []string) ([]any, error)
}

var tracksLoader = tableLoader{
	name:   "Tracks",
	create: `CREATE TABLE Tracks (title TEXT, ID INTEGER, time INTEGER)`,
	insert: `INSERT INTO Tracks VALUES (?, ?, ?)`,
	fields: 3,
	parse: func(rec []string) ([]any, error) {
		id, err := parseID(rec[1])
		if err != nil {
			return nil, err
		}
		secs, err := parseDuration(rec[2])
		if err != nil {
			return nil, err
		}
		return []any{rec[0], id, secs}, nil
	},
}

var genresLoader = tableLoader{
	name:   "Genres",
	create: `CREATE TABLE Genres (artist TEXT, genres TEXT)`,
	insert: `INSERT INTO Genres VALUES (?, ?)`,
	fields: 2,
	parse: func(rec []string) ([]any, error) {
		return []any{rec[0], rec[1]}, nil
	},
}

var albumsLoader = tableLoader{
	name:   "Albums",
	create: `CREATE TABLE Albums (ID INTEGER, artist TEXT, album TEXT)`,
	insert: `INSERT INTO Albums VALUES (?, ?, ?)`,
	fields: 3,
	parse: func(rec []string) ([]any, error) {
		id, err := parseID(rec[0])
		if err != nil {
			return nil, err
		}
		return []any{id, rec[1], rec[2]}, nil
	},
}

// SetupTracks creates the Tracks table and fills it from r
// (header, then "title,ID,M:SS" lines).
func (c *Catalog) SetupTracks(ctx context.Context, r io.Reader) error {
	return c.load(ctx, tracksLoader, r)
}

// SetupGenres creates the Genres table and fills it from r
// (header, then "artist,genres" lines).
func (c *Catalog) SetupGenres(ctx context.Context, r io.Reader) error {
	return c.load(ctx, genresLoader, r)
}

// SetupAlbums creates the Albums table and fills it from r
// (header, then "ID,artist,album" lines).
func (c *Catalog) SetupAlbums(ctx context.Context, r io.Reader) error {
	return c.load(ctx, albumsLoader, r)
}

// load creates the table and inserts every line in one transaction.
// Any failure leaves neither the table nor any of its rows behind.
func (c *Catalog) load(ctx context.Context, tl tableLoader, r io.Reader) error {
	var n int
	err := dbutil.WithTx(ctx, c.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, tl.create); err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, tl.insert)
		if err != nil {
			return err
		}
		defer stmt.Close()

		return readRecords(r, tl.name, tl.fields, func(line int, rec []string) error {
			args, err := tl.parse(rec)
			if err != nil {
				return &LineError{Table: tl.name, Line: line, Err: err}
			}
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				return err
			}
			n++
			return nil
		})
	})
	if err != nil {
		return err
	}

	c.log.Debug("table loaded", zap.String("table", tl.name), zap.Int("rows", n))
	return nil
}

// SetupPopularity derives the Popularity table from Albums: one row per
// album row (artists are not deduplicated) with a Hits counter at 0.
// Albums must already be loaded.
func (c *Catalog) SetupPopularity(ctx context.Context) error {
	err := dbutil.WithTx(ctx, c.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `CREATE TABLE Popularity AS SELECT artist FROM Albums`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `ALTER TABLE Popularity ADD Hits INT NOT NULL DEFAULT 0`)
		return err
	})
	if err != nil {
		return err
	}

	c.log.Debug("table loaded", zap.String("table", "Popularity"))
	return nil
}

// Sources names the three input files of a full load.
type Sources struct {
	Tracks string
	Genres string
	Albums string
}

var ErrMissingSource = errors.New("source file not set")

// LoadAll loads tracks, genres and albums from files and then derives the
// Popularity table. It stops at the first failure; tables loaded before
// it stay committed.
func (c *Catalog) LoadAll(ctx context.Context, src Sources) error {
	steps := []struct {
		path string
		kind string
		load func(context.Context, io.Reader) error
	}{
		{src.Tracks, "tracks", c.SetupTracks},
		{src.Genres, "genres", c.SetupGenres},
		{src.Albums, "albums", c.SetupAlbums},
	}
	for _, s := range steps {
		if s.path == "" {
			return fmt.Errorf("%s: %w", s.kind, ErrMissingSource)
		}
	}

	for _, s := range steps {
		if err := loadFile(ctx, s.path, s.load); err != nil {
			return fmt.Errorf("load %s: %w", s.kind, err)
		}
		c.log.Info("source loaded", zap.String("kind", s.kind), zap.String("path", s.path))
	}
	return c.SetupPopularity(ctx)
}

func loadFile(ctx context.Context, path string, load func(context.Context, io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return load(ctx, f)
}
