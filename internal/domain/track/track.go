// Package track provides the Track domain entity and listening time windows.
package track

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrInvalidTimeRange is returned when a time range token is not one of the
// three windows understood by the catalog.
var ErrInvalidTimeRange = errors.New("invalid time range")

// TimeRange is a trailing listening-history window.
type TimeRange string

const (
	ShortTerm  TimeRange = "short_term"  // roughly 4 weeks
	MediumTerm TimeRange = "medium_term" // roughly 6 months
	LongTerm   TimeRange = "long_term"   // several years
)

// TimeRanges lists all windows, shortest first.
var TimeRanges = []TimeRange{ShortTerm, MediumTerm, LongTerm}

// ParseTimeRange parses a time range token.
// An empty string yields fallback.
func ParseTimeRange(s string, fallback TimeRange) (TimeRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback, nil
	}
	for _, tr := range TimeRanges {
		if string(tr) == s {
			return tr, nil
		}
	}
	return "", errors.Wrapf(ErrInvalidTimeRange, "%q (want one of short_term, medium_term, long_term)", s)
}

// Image is an image descriptor as returned by the catalog.
type Image struct {
	URL    string
	Width  int
	Height int
}

// ArtistRef is a credited artist on a track or album.
type ArtistRef struct {
	ID   string // Spotify Artist ID
	Name string // Display name
}

// Album is the album a track belongs to.
type Album struct {
	Name        string
	Images      []Image
	ReleaseDate string // "YYYY", "YYYY-MM" or "YYYY-MM-DD"
	Artists     []ArtistRef
}

// Track represents a Spotify track entity.
// Contains only information retrieved from Spotify API.
type Track struct {
	ID         string      // Spotify Track ID
	Name       string      // Track name
	Artists    []ArtistRef // Credited artists
	Album      Album       // Album info
	Popularity int         // Popularity score (0-100)
	DurationMs int         // Track duration in milliseconds
}

// ArtistNames joins the credited track artists with ", ".
func (t *Track) ArtistNames() string {
	return joinNames(t.Artists)
}

// ArtistNames joins the album artists with ", ".
func (a *Album) ArtistNames() string {
	return joinNames(a.Artists)
}

func joinNames(refs []ArtistRef) string {
	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = r.Name
	}
	return strings.Join(names, ", ")
}
