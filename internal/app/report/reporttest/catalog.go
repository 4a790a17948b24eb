// Package reporttest provides an in-memory report.Catalog for transport tests.
package reporttest

import (
	"context"
	"sync"

	"github.com/osa030/tastebox/internal/domain/artist"
	"github.com/osa030/tastebox/internal/domain/playlist"
	"github.com/osa030/tastebox/internal/domain/track"
)

// Catalog serves fixed pages and records the windows it was asked for.
type Catalog struct {
	UserID        string
	Tracks        map[track.TimeRange][]track.Track
	Artists       map[track.TimeRange][]artist.Artist
	UserPlaylists []playlist.Playlist
	Items         map[string][]playlist.Item
	Genres        map[string][]string
	// Err, when set, is returned by every call.
	Err error

	mu     sync.Mutex
	ranges []track.TimeRange
}

// Ranges returns the time windows requested so far, in call order.
func (c *Catalog) Ranges() []track.TimeRange {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]track.TimeRange(nil), c.ranges...)
}

func (c *Catalog) record(tr track.TimeRange) {
	c.mu.Lock()
	c.ranges = append(c.ranges, tr)
	c.mu.Unlock()
}

func (c *Catalog) CurrentUserID(ctx context.Context) (string, error) {
	return c.UserID, c.Err
}

func (c *Catalog) TopTracks(ctx context.Context, tr track.TimeRange, limit int) ([]track.Track, error) {
	c.record(tr)
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Tracks[tr], nil
}

func (c *Catalog) TopArtists(ctx context.Context, tr track.TimeRange, limit int) ([]artist.Artist, error) {
	c.record(tr)
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Artists[tr], nil
}

func (c *Catalog) Playlists(ctx context.Context, limit int) ([]playlist.Playlist, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	return c.UserPlaylists, nil
}

func (c *Catalog) PlaylistItems(ctx context.Context, playlistID string, limit int) ([]playlist.Item, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Items[playlistID], nil
}

func (c *Catalog) ArtistGenres(ctx context.Context, artistID string) ([]string, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Genres[artistID], nil
}

// Track builds a top-track fixture with a single credited artist.
func Track(id, name, album, releaseDate, artistID, artistName string, popularity int) track.Track {
	ref := track.ArtistRef{ID: artistID, Name: artistName}
	return track.Track{
		ID:      id,
		Name:    name,
		Artists: []track.ArtistRef{ref},
		Album: track.Album{
			Name:        album,
			ReleaseDate: releaseDate,
			Artists:     []track.ArtistRef{ref},
			Images:      []track.Image{{URL: "https://img/" + album, Width: 300, Height: 300}},
		},
		Popularity: popularity,
		DurationMs: 200000,
	}
}
