// Package report computes listening-taste reports from the user's top pages.
//
// Every report is a single pass over one fetched page (or a small, bounded
// number of pages): fetch, project, group or set-combine, sort, truncate.
// Reports share no mutable state and can be called concurrently.
package report

import (
	"context"

	"github.com/osa030/tastebox/internal/domain/artist"
	"github.com/osa030/tastebox/internal/domain/playlist"
	"github.com/osa030/tastebox/internal/domain/track"
)

const (
	// PageLimit is the page size used for tracks, artists and playlists.
	PageLimit = 50
	// PlaylistItemsLimit is the page size used for playlist items.
	PlaylistItemsLimit = 100
	// TopN caps every "top" list.
	TopN = 10

	defaultGenreConcurrency = 4
)

// Catalog is the listening API the reports are computed from.
type Catalog interface {
	CurrentUserID(ctx context.Context) (string, error)
	TopTracks(ctx context.Context, timeRange track.TimeRange, limit int) ([]track.Track, error)
	TopArtists(ctx context.Context, timeRange track.TimeRange, limit int) ([]artist.Artist, error)
	Playlists(ctx context.Context, limit int) ([]playlist.Playlist, error)
	PlaylistItems(ctx context.Context, playlistID string, limit int) ([]playlist.Item, error)
	ArtistGenres(ctx context.Context, artistID string) ([]string, error)
}

// Aggregator produces reports from a Catalog.
type Aggregator struct {
	catalog          Catalog
	genreConcurrency int
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithGenreConcurrency bounds the number of artist genre lookups in flight.
// Values below 1 are ignored.
func WithGenreConcurrency(n int) Option {
	return func(a *Aggregator) {
		if n >= 1 {
			a.genreConcurrency = n
		}
	}
}

// New creates an Aggregator.
func New(catalog Catalog, opts ...Option) *Aggregator {
	a := &Aggregator{
		catalog:          catalog,
		genreConcurrency: defaultGenreConcurrency,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// TrackSummary is the projection of one top track.
type TrackSummary struct {
	Name       string `json:"song_name"`
	Artists    string `json:"artists"`
	AlbumImage string `json:"album_image,omitempty"`
	Popularity int    `json:"popularity"`
	DurationMs int    `json:"duration_ms"`
}

// AlbumSummary is one album of the top-albums report.
type AlbumSummary struct {
	Name       string `json:"album_name"`
	TrackCount int    `json:"track_count"`
	Image      string `json:"album_image,omitempty"`
	Artists    string `json:"artists"`
}

// ArtistSummary is the projection of one artist.
type ArtistSummary struct {
	Name   string   `json:"artist_name"`
	Image  string   `json:"artist_image,omitempty"`
	Genres []string `json:"genres"`
}

// PlaylistScore is one playlist of the playlist-affinity report.
type PlaylistScore struct {
	Name          string `json:"playlist_name"`
	TopSongsCount int    `json:"top_songs_count"`
}

func summarizeTrack(t track.Track) TrackSummary {
	img, _ := SelectImage(t.Album.Images)
	return TrackSummary{
		Name:       t.Name,
		Artists:    t.ArtistNames(),
		AlbumImage: img,
		Popularity: t.Popularity,
		DurationMs: t.DurationMs,
	}
}

func summarizeArtist(a artist.Artist) ArtistSummary {
	img, _ := SelectImage(a.Images)
	genres := a.Genres
	if genres == nil {
		genres = []string{}
	}
	return ArtistSummary{
		Name:   a.Name,
		Image:  img,
		Genres: genres,
	}
}
