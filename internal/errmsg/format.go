// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Loading
	OpLoadTracks     Op = "load tracks"
	OpLoadGenres     Op = "load genres"
	OpLoadAlbums     Op = "load albums"
	OpLoadCatalog    Op = "load catalog"
	OpInitPopularity Op = "initialize popularity"

	// Queries
	OpQueryAlbums     Op = "look up albums"
	OpQueryGreatest   Op = "list greatest-hits artists"
	OpQueryGenres     Op = "look up genres"
	OpQueryTrack      Op = "look up track"
	OpQueryLengths    Op = "compute album lengths"
	OpQueryMultiple   Op = "list artist albums"
	OpQueryArtists    Op = "build artist catalog"
	OpQueryTrackCount Op = "count tracks"
	OpQueryRaw        Op = "run query"

	// Popularity
	OpPopularityUpdate Op = "update popularity"
	OpPopularityLoad   Op = "load popularity"

	// Initialization
	OpOpenDatabase Op = "open database"
	OpLoadConfig   Op = "load configuration"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
