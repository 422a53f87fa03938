package catalog

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	dbutil "github.com/llehouerou/tunedb/internal/db"
)

const (
	testTracks = `title,ID,time
Come Together,1,4:20
Something,1,3:03
Taxman,2,2:39
Money,3,6:22
Time,3,7:05
Hit Song,4,3:45
`
	testGenres = `artist,genres
The Beatles,rock
Pink Floyd,progressive rock
Queen,rock
`
	testAlbums = `ID,artist,album
1,The Beatles,Abbey Road
2,The Beatles,Revolver
3,Pink Floyd,The Dark Side of the Moon
4,Queen,Greatest Hits
5,Queen,Greatest Hits II
6,P.T. Barnum,The Greatest Show
7,Someone,Hits
`
)

// setupTestDB opens an empty database file in a per-test directory.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := dbutil.Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// setupTestCatalog returns a catalog with all four tables loaded from the
// test fixtures.
func setupTestCatalog(t *testing.T, opts ...Option) (*Catalog, *sql.DB) {
	t.Helper()

	db := setupTestDB(t)
	c := New(db, opts...)
	ctx := context.Background()

	require.NoError(t, c.SetupTracks(ctx, strings.NewReader(testTracks)))
	require.NoError(t, c.SetupGenres(ctx, strings.NewReader(testGenres)))
	require.NoError(t, c.SetupAlbums(ctx, strings.NewReader(testAlbums)))
	require.NoError(t, c.SetupPopularity(ctx))
	return c, db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()

	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}
