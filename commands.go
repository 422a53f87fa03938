package main

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/llehouerou/tunedb/internal/catalog"
	dbutil "github.com/llehouerou/tunedb/internal/db"
	"github.com/llehouerou/tunedb/internal/errmsg"
	"github.com/llehouerou/tunedb/internal/report"
)

var (
	loadTracks string
	loadGenres string
	loadAlbums string

	multipleStrict bool
	artistsLists   bool
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Create and fill all tables from the three listings",
	Long: `Loads tracks, genres and albums (each file: one header line, then
comma-separated rows) and derives the Popularity table from Albums.
Paths default to the [sources] section of the config file.`,
	Args: cobra.NoArgs,
	RunE: runLoad,
}

var setupCmd = &cobra.Command{
	Use:   "setup {tracks|genres|albums} FILE | setup popularity",
	Short: "Create and fill a single table",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runSetup,
}

var albumsCmd = &cobra.Command{
	Use:   "albums ARTIST",
	Short: "List the album rows of an artist",
	Args:  cobra.ExactArgs(1),
	RunE:  runAlbums,
}

var greatestCmd = &cobra.Command{
	Use:   "greatest",
	Short: `List artists with an album title containing "Greatest"`,
	Args:  cobra.NoArgs,
	RunE:  runGreatest,
}

var genresCmd = &cobra.Command{
	Use:   "genres ALBUM",
	Short: "List the genres of the artists behind an album title",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenres,
}

var trackCmd = &cobra.Command{
	Use:   "track TITLE",
	Short: "Show a track with its album and record a popularity hit",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrack,
}

var lengthsCmd = &cobra.Command{
	Use:   "lengths",
	Short: "Total running time per album title",
	Args:  cobra.NoArgs,
	RunE:  runLengths,
}

var multipleCmd = &cobra.Command{
	Use:   "multiple",
	Short: "List artist/album pairs (--strict: only artists with several albums)",
	Args:  cobra.NoArgs,
	RunE:  runMultiple,
}

var artistsCmd = &cobra.Command{
	Use:   "artists ARTIST...",
	Short: "Show the albums and track titles of each artist",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runArtists,
}

var countsCmd = &cobra.Command{
	Use:   "counts",
	Short: "Number of tracks per artist",
	Args:  cobra.NoArgs,
	RunE:  runCounts,
}

var popularityCmd = &cobra.Command{
	Use:   "popularity",
	Short: "Show the hit counters",
	Args:  cobra.NoArgs,
	RunE:  runPopularity,
}

var hitCmd = &cobra.Command{
	Use:   "hit ARTIST",
	Short: "Add one hit to an artist",
	Args:  cobra.ExactArgs(1),
	RunE:  runHit,
}

var queryCmd = &cobra.Command{
	Use:   "query SQL [ARG...]",
	Short: "Run a read-only statement with positional arguments",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runQuery,
}

func init() {
	loadCmd.Flags().StringVar(&loadTracks, "tracks", "", "Tracks listing (title,ID,M:SS)")
	loadCmd.Flags().StringVar(&loadGenres, "genres", "", "Genres listing (artist,genres)")
	loadCmd.Flags().StringVar(&loadAlbums, "albums", "", "Albums listing (ID,artist,album)")

	multipleCmd.Flags().BoolVar(&multipleStrict, "strict", false, "Only artists with more than one distinct album")
	artistsCmd.Flags().BoolVar(&artistsLists, "lists", false, "Keep track titles as lists instead of one joined string")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func runLoad(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, s *session) error {
		src := catalog.Sources{
			Tracks: firstNonEmpty(loadTracks, cfg.Sources.Tracks),
			Genres: firstNonEmpty(loadGenres, cfg.Sources.Genres),
			Albums: firstNonEmpty(loadAlbums, cfg.Sources.Albums),
		}
		if err := s.cat.LoadAll(ctx, src); err != nil {
			return &cmdError{op: errmsg.OpLoadCatalog, err: err}
		}
		return s.out.Message("catalog loaded")
	})
}

func runSetup(cmd *cobra.Command, args []string) error {
	kind := args[0]
	if kind == "popularity" {
		if len(args) != 1 {
			return fmt.Errorf("setup popularity takes no file")
		}
		return withSession(cmd, func(ctx context.Context, s *session) error {
			if err := s.cat.SetupPopularity(ctx); err != nil {
				return &cmdError{op: errmsg.OpInitPopularity, err: err}
			}
			return s.out.Message("Popularity created")
		})
	}

	if len(args) != 2 {
		return fmt.Errorf("setup %s needs a FILE argument", kind)
	}
	var op errmsg.Op
	var load func(c *catalog.Catalog, ctx context.Context, r io.Reader) error
	switch kind {
	case "tracks":
		op, load = errmsg.OpLoadTracks, (*catalog.Catalog).SetupTracks
	case "genres":
		op, load = errmsg.OpLoadGenres, (*catalog.Catalog).SetupGenres
	case "albums":
		op, load = errmsg.OpLoadAlbums, (*catalog.Catalog).SetupAlbums
	default:
		return fmt.Errorf("unknown table %q (want tracks, genres, albums or popularity)", kind)
	}

	path := args[1]
	return withSession(cmd, func(ctx context.Context, s *session) error {
		f, err := os.Open(path)
		if err != nil {
			return &cmdError{op: op, context: path, err: err}
		}
		defer f.Close()

		if err := load(s.cat, ctx, f); err != nil {
			return &cmdError{op: op, context: path, err: err}
		}
		return s.out.Message("%s loaded from %s", kind, path)
	})
}

func runAlbums(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, s *session) error {
		albums, err := s.cat.Albums(ctx, args[0])
		if err != nil {
			return &cmdError{op: errmsg.OpQueryAlbums, context: args[0], err: err}
		}
		rows := make([][]string, len(albums))
		for i, a := range albums {
			rows[i] = []string{strconv.FormatInt(a.ID, 10), a.Artist, a.Title}
		}
		return s.out.Print(albums, []string{"ID", "Artist", "Album"}, rows)
	})
}

func runGreatest(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, s *session) error {
		artists, err := s.cat.Greatest(ctx)
		if err != nil {
			return &cmdError{op: errmsg.OpQueryGreatest, err: err}
		}
		rows := make([][]string, len(artists))
		for i, a := range artists {
			rows[i] = []string{a}
		}
		return s.out.Print(artists, []string{"Artist"}, rows)
	})
}

func runGenres(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, s *session) error {
		genres, err := s.cat.Genres(ctx, args[0])
		if err != nil {
			return &cmdError{op: errmsg.OpQueryGenres, context: args[0], err: err}
		}
		rows := make([][]string, len(genres))
		for i, g := range genres {
			rows[i] = []string{g.Artist, g.Genres}
		}
		return s.out.Print(genres, []string{"Artist", "Genres"}, rows)
	})
}

func runTrack(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, s *session) error {
		info, err := s.cat.TrackInfo(ctx, args[0])
		if err != nil {
			return &cmdError{op: errmsg.OpQueryTrack, context: args[0], err: err}
		}
		rows := make([][]string, len(info))
		for i, ti := range info {
			rows[i] = []string{
				ti.Track.Title,
				strconv.FormatInt(ti.Track.AlbumID, 10),
				report.Duration(ti.Track.Seconds),
				ti.Album.Artist,
				ti.Album.Title,
			}
		}
		return s.out.Print(info, []string{"Title", "ID", "Time", "Artist", "Album"}, rows)
	})
}

func runLengths(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, s *session) error {
		lengths, err := s.cat.AlbumLengths(ctx)
		if err != nil {
			return &cmdError{op: errmsg.OpQueryLengths, err: err}
		}
		rows := make([][]string, len(lengths))
		for i, l := range lengths {
			rows[i] = []string{l.Artist, l.Album, report.Duration(l.Seconds)}
		}
		return s.out.Print(lengths, []string{"Artist", "Album", "Length"}, rows)
	})
}

func runMultiple(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, s *session) error {
		if multipleStrict {
			counts, err := s.cat.ArtistsWithMultipleAlbums(ctx)
			if err != nil {
				return &cmdError{op: errmsg.OpQueryMultiple, err: err}
			}
			rows := make([][]string, len(counts))
			for i, c := range counts {
				rows[i] = []string{c.Artist, report.Count(c.Albums)}
			}
			return s.out.Print(counts, []string{"Artist", "Albums"}, rows)
		}

		pairs, err := s.cat.MultipleAlbums(ctx)
		if err != nil {
			return &cmdError{op: errmsg.OpQueryMultiple, err: err}
		}
		rows := make([][]string, len(pairs))
		for i, p := range pairs {
			rows[i] = []string{p.Artist, p.Album}
		}
		return s.out.Print(pairs, []string{"Artist", "Album"}, rows)
	})
}

func runArtists(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, s *session) error {
		headers := []string{"Artist", "Album", "Tracks"}
		var rows [][]string

		if artistsLists {
			lists, err := s.cat.ArtistTrackLists(ctx, args)
			if err != nil {
				return &cmdError{op: errmsg.OpQueryArtists, err: err}
			}
			for _, artist := range args {
				for _, album := range slices.Sorted(maps.Keys(lists[artist])) {
					rows = append(rows, []string{artist, album, strings.Join(lists[artist][album], " / ")})
				}
			}
			return s.out.Print(lists, headers, rows)
		}

		byArtist, err := s.cat.ArtistCatalog(ctx, args)
		if err != nil {
			return &cmdError{op: errmsg.OpQueryArtists, err: err}
		}
		for _, artist := range args {
			for _, album := range slices.Sorted(maps.Keys(byArtist[artist])) {
				rows = append(rows, []string{artist, album, byArtist[artist][album]})
			}
		}
		return s.out.Print(byArtist, headers, rows)
	})
}

func runCounts(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, s *session) error {
		counts, err := s.cat.TrackCounts(ctx)
		if err != nil {
			return &cmdError{op: errmsg.OpQueryTrackCount, err: err}
		}
		rows := make([][]string, len(counts))
		for i, c := range counts {
			rows[i] = []string{c.Artist, report.Count(c.Tracks)}
		}
		return s.out.Print(counts, []string{"Artist", "Tracks"}, rows)
	})
}

func runPopularity(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, s *session) error {
		pop, err := s.cat.Popularity(ctx)
		if err != nil {
			return &cmdError{op: errmsg.OpPopularityLoad, err: err}
		}
		rows := make([][]string, len(pop))
		for i, p := range pop {
			rows[i] = []string{p.Artist, report.Count(p.Hits)}
		}
		return s.out.Print(pop, []string{"Artist", "Hits"}, rows)
	})
}

func runHit(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, s *session) error {
		if err := s.cat.UpdatePopularity(ctx, args[0]); err != nil {
			return &cmdError{op: errmsg.OpPopularityUpdate, context: args[0], err: err}
		}
		return s.out.Message("hit recorded for %s", args[0])
	})
}

func runQuery(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, s *session) error {
		qargs := make([]any, len(args)-1)
		for i, a := range args[1:] {
			qargs[i] = a
		}
		result, err := dbutil.QueryRows(ctx, s.db, args[0], qargs...)
		if err != nil {
			return &cmdError{op: errmsg.OpQueryRaw, err: err}
		}

		rows := make([][]string, len(result))
		width := 0
		for i, r := range result {
			rows[i] = make([]string, len(r))
			for j, v := range r {
				rows[i][j] = formatValue(v)
			}
			width = max(width, len(r))
		}
		headers := make([]string, width)
		for i := range headers {
			headers[i] = strconv.Itoa(i + 1)
		}
		return s.out.Print(rows, headers, rows)
	})
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	}
	return fmt.Sprint(v)
}
