package catalog

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	dbutil "github.com/llehouerou/tunedb/internal/db"
)

const (
	updatePopularitySQL = `UPDATE Popularity SET Hits = Hits + 1 WHERE Popularity.artist = ?`

	// trackArtistSQL finds the artist of a track title. In HitLiteral mode
	// this text itself is what gets recorded as the artist.
	trackArtistSQL = `SELECT artist FROM Albums JOIN Tracks ON Albums.ID = Tracks.ID WHERE title = ?`

	updateTrackArtistSQL = `
		UPDATE Popularity SET Hits = Hits + 1
		WHERE Popularity.artist IN (` + trackArtistSQL + `)`
)

// UpdatePopularity adds one hit to every Popularity row whose artist is
// exactly artist. Unknown artists are not an error.
func (c *Catalog) UpdatePopularity(ctx context.Context, artist string) error {
	return dbutil.Exec(ctx, c.db, updatePopularitySQL, artist)
}

// Albums returns the Albums rows of artist. Rows are not deduplicated.
func (c *Catalog) Albums(ctx context.Context, artist string) ([]Album, error) {
	return dbutil.Query(ctx, c.db, scanAlbum, `
		SELECT ID, artist, album FROM Albums WHERE artist = ?
	`, artist)
}

// Greatest returns each artist with an album title containing "Greatest",
// once. Matching uses SQLite LIKE, so it is a substring match and
// case-insensitive for ASCII letters.
func (c *Catalog) Greatest(ctx context.Context) ([]string, error) {
	return dbutil.Query(ctx, c.db, scanString, `
		SELECT DISTINCT artist FROM Albums WHERE album LIKE '%Greatest%'
	`)
}

// Genres returns the genre rows of every artist having an album titled
// album. The same pair appears once per matching album row.
func (c *Catalog) Genres(ctx context.Context, album string) ([]Genre, error) {
	return dbutil.Query(ctx, c.db, func(rows *sql.Rows) (Genre, error) {
		var g Genre
		err := rows.Scan(&g.Artist, &g.Genres)
		return g, err
	}, `
		SELECT Genres.artist, Genres.genres
		FROM Genres JOIN Albums ON Genres.artist = Albums.artist
		WHERE album = ?
	`, album)
}

// TrackInfo returns the tracks titled title joined with their albums and
// records a popularity hit according to the catalog's HitMode.
func (c *Catalog) TrackInfo(ctx context.Context, title string) ([]TrackInfo, error) {
	switch c.hitMode {
	case HitArtist:
		if err := dbutil.Exec(ctx, c.db, updateTrackArtistSQL, title); err != nil {
			return nil, err
		}
	default:
		if err := c.UpdatePopularity(ctx, trackArtistSQL); err != nil {
			return nil, err
		}
	}
	c.log.Debug("track hit recorded", zap.String("title", title), zap.Stringer("mode", c.hitMode))

	return dbutil.Query(ctx, c.db, func(rows *sql.Rows) (TrackInfo, error) {
		var ti TrackInfo
		err := rows.Scan(&ti.Track.Title, &ti.Track.AlbumID, &ti.Track.Seconds,
			&ti.Album.ID, &ti.Album.Artist, &ti.Album.Title)
		return ti, err
	}, `
		SELECT Tracks.title, Tracks.ID, Tracks.time, Albums.ID, Albums.artist, Albums.album
		FROM Tracks JOIN Albums ON Tracks.ID = Albums.ID
		WHERE title = ?
	`, title)
}

// AlbumLengths returns the total track time per album title. Albums are
// grouped by title only, so same-named albums of different artists are
// summed together under one of those artists.
func (c *Catalog) AlbumLengths(ctx context.Context) ([]AlbumLength, error) {
	return dbutil.Query(ctx, c.db, func(rows *sql.Rows) (AlbumLength, error) {
		var a AlbumLength
		err := rows.Scan(&a.Artist, &a.Album, &a.Seconds)
		return a, err
	}, `
		SELECT DISTINCT artist, album, SUM(time)
		FROM Albums JOIN Tracks ON Tracks.ID = Albums.ID
		GROUP BY Albums.album
	`)
}

// MultipleAlbums returns every (artist, album) row of Albums, including
// artists with a single album. See ArtistsWithMultipleAlbums for the
// filtered form.
func (c *Catalog) MultipleAlbums(ctx context.Context) ([]ArtistAlbum, error) {
	return dbutil.Query(ctx, c.db, scanArtistAlbum, `SELECT artist, album FROM Albums`)
}

// ArtistsWithMultipleAlbums returns the artists having more than one
// distinct album title, ordered by artist.
func (c *Catalog) ArtistsWithMultipleAlbums(ctx context.Context) ([]AlbumCount, error) {
	return dbutil.Query(ctx, c.db, func(rows *sql.Rows) (AlbumCount, error) {
		var a AlbumCount
		err := rows.Scan(&a.Artist, &a.Albums)
		return a, err
	}, `
		SELECT artist, COUNT(DISTINCT album)
		FROM Albums
		GROUP BY artist
		HAVING COUNT(DISTINCT album) > 1
		ORDER BY artist
	`)
}

// ArtistCatalog maps each artist to its album titles, and each album to
// the comma-joined titles of its tracks (SQLite GROUP_CONCAT). Artists
// without albums map to an empty map.
func (c *Catalog) ArtistCatalog(ctx context.Context, artists []string) (map[string]map[string]string, error) {
	result := make(map[string]map[string]string, len(artists))
	for _, artist := range artists {
		pairs, err := dbutil.Query(ctx, c.db, scanPair, `
			SELECT album, GROUP_CONCAT(title)
			FROM Albums JOIN Tracks ON Albums.ID = Tracks.ID
			WHERE artist = ?
			GROUP BY album
		`, artist)
		if err != nil {
			return nil, err
		}

		albums := make(map[string]string, len(pairs))
		for _, p := range pairs {
			albums[p[0]] = p[1]
		}
		result[artist] = albums
	}
	return result, nil
}

// ArtistTrackLists is ArtistCatalog with track titles kept as a list in
// load order instead of one joined string.
func (c *Catalog) ArtistTrackLists(ctx context.Context, artists []string) (map[string]map[string][]string, error) {
	result := make(map[string]map[string][]string, len(artists))
	for _, artist := range artists {
		pairs, err := dbutil.Query(ctx, c.db, scanPair, `
			SELECT Albums.album, Tracks.title
			FROM Albums JOIN Tracks ON Albums.ID = Tracks.ID
			WHERE Albums.artist = ?
			ORDER BY Albums.album, Tracks.rowid
		`, artist)
		if err != nil {
			return nil, err
		}

		albums := make(map[string][]string)
		for _, p := range pairs {
			albums[p[0]] = append(albums[p[0]], p[1])
		}
		result[artist] = albums
	}
	return result, nil
}

// TrackCounts returns the number of tracks per artist.
func (c *Catalog) TrackCounts(ctx context.Context) ([]TrackCount, error) {
	return dbutil.Query(ctx, c.db, func(rows *sql.Rows) (TrackCount, error) {
		var tc TrackCount
		err := rows.Scan(&tc.Artist, &tc.Tracks)
		return tc, err
	}, `
		SELECT DISTINCT artist, COUNT(title)
		FROM Albums JOIN Tracks ON Tracks.ID = Albums.ID
		GROUP BY Albums.artist
	`)
}

// Popularity returns every (artist, Hits) row.
func (c *Catalog) Popularity(ctx context.Context) ([]Popularity, error) {
	return dbutil.Query(ctx, c.db, func(rows *sql.Rows) (Popularity, error) {
		var p Popularity
		err := rows.Scan(&p.Artist, &p.Hits)
		return p, err
	}, `SELECT artist, Hits FROM Popularity`)
}

func scanAlbum(rows *sql.Rows) (Album, error) {
	var a Album
	err := rows.Scan(&a.ID, &a.Artist, &a.Title)
	return a, err
}

func scanArtistAlbum(rows *sql.Rows) (ArtistAlbum, error) {
	var a ArtistAlbum
	err := rows.Scan(&a.Artist, &a.Album)
	return a, err
}

func scanPair(rows *sql.Rows) ([2]string, error) {
	var p [2]string
	err := rows.Scan(&p[0], &p[1])
	return p, err
}

func scanString(rows *sql.Rows) (string, error) {
	var s string
	err := rows.Scan(&s)
	return s, err
}
