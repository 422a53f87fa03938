// Test program to load a small sample catalog and print what the queries see
package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/llehouerou/tunedb/internal/catalog"
	"github.com/llehouerou/tunedb/internal/db"
)

const (
	sampleTracks = `title,ID,time
Come Together,1,4:20
Something,1,3:03
Help!,2,2:18
Money,3,6:22
Bohemian Rhapsody,4,5:55
`
	sampleGenres = `artist,genres
The Beatles,rock
Pink Floyd,progressive rock
Queen,rock
`
	sampleAlbums = `ID,artist,album
1,The Beatles,Abbey Road
2,The Beatles,Help!
3,Pink Floyd,The Dark Side of the Moon
4,Queen,Greatest Hits
`
)

func main() {
	dir, err := os.MkdirTemp("", "tunedb-seed-")
	if err != nil {
		log.Fatalf("Failed to create work directory: %v", err)
	}
	defer os.RemoveAll(dir)

	src := catalog.Sources{
		Tracks: writeSample(dir, "tracks.txt", sampleTracks),
		Genres: writeSample(dir, "genres.txt", sampleGenres),
		Albums: writeSample(dir, "albums.txt", sampleAlbums),
	}

	conn, err := db.Open(filepath.Join(dir, "seed.db"))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	cat := catalog.New(conn, catalog.WithHitMode(catalog.HitArtist))

	log.Println("Loading sample catalog...")
	if err := cat.LoadAll(ctx, src); err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	info, err := cat.TrackInfo(ctx, "Come Together")
	if err != nil {
		log.Fatalf("Failed to look up track: %v", err)
	}
	for _, ti := range info {
		log.Printf("Track: %s (%ds) on %s by %s", ti.Track.Title, ti.Track.Seconds, ti.Album.Title, ti.Album.Artist)
	}

	lengths, err := cat.AlbumLengths(ctx)
	if err != nil {
		log.Fatalf("Failed to compute album lengths: %v", err)
	}
	for _, l := range lengths {
		log.Printf("  %s - %s: %ds", l.Artist, l.Album, l.Seconds)
	}

	pop, err := cat.Popularity(ctx)
	if err != nil {
		log.Fatalf("Failed to read popularity: %v", err)
	}
	log.Println("Popularity:")
	for _, p := range pop {
		log.Printf("  %s: %d", p.Artist, p.Hits)
	}
}

func writeSample(dir, name, content string) string {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}
