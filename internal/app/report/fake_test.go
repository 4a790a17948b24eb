package report

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/osa030/tastebox/internal/domain/artist"
	"github.com/osa030/tastebox/internal/domain/playlist"
	"github.com/osa030/tastebox/internal/domain/track"
)

var errUpstream = errors.New("upstream unavailable")

// fakeCatalog is an in-memory Catalog.
type fakeCatalog struct {
	userID        string
	tracks        map[track.TimeRange][]track.Track
	artists       map[track.TimeRange][]artist.Artist
	playlists     []playlist.Playlist
	items         map[string][]playlist.Item
	genres        map[string][]string
	genreFailures map[string]bool
	tracksErr     error
	artistsErr    error

	mu           sync.Mutex
	genreCalls   []string
	trackLimits  []int
	itemRequests []string
}

func (f *fakeCatalog) CurrentUserID(ctx context.Context) (string, error) {
	return f.userID, nil
}

func (f *fakeCatalog) TopTracks(ctx context.Context, tr track.TimeRange, limit int) ([]track.Track, error) {
	f.mu.Lock()
	f.trackLimits = append(f.trackLimits, limit)
	f.mu.Unlock()
	if f.tracksErr != nil {
		return nil, f.tracksErr
	}
	return f.tracks[tr], nil
}

func (f *fakeCatalog) TopArtists(ctx context.Context, tr track.TimeRange, limit int) ([]artist.Artist, error) {
	if f.artistsErr != nil {
		return nil, f.artistsErr
	}
	return f.artists[tr], nil
}

func (f *fakeCatalog) Playlists(ctx context.Context, limit int) ([]playlist.Playlist, error) {
	return f.playlists, nil
}

func (f *fakeCatalog) PlaylistItems(ctx context.Context, playlistID string, limit int) ([]playlist.Item, error) {
	f.mu.Lock()
	f.itemRequests = append(f.itemRequests, playlistID)
	f.mu.Unlock()
	return f.items[playlistID], nil
}

func (f *fakeCatalog) ArtistGenres(ctx context.Context, artistID string) ([]string, error) {
	f.mu.Lock()
	f.genreCalls = append(f.genreCalls, artistID)
	f.mu.Unlock()
	if f.genreFailures[artistID] {
		return nil, errUpstream
	}
	return f.genres[artistID], nil
}

func newTrack(id, name, albumName, releaseDate string, popularity int, artists ...track.ArtistRef) track.Track {
	return track.Track{
		ID:         id,
		Name:       name,
		Artists:    artists,
		Popularity: popularity,
		DurationMs: 180000,
		Album: track.Album{
			Name:        albumName,
			ReleaseDate: releaseDate,
			Artists:     artists,
			Images: []track.Image{
				{URL: "https://img/" + albumName + "/640", Width: 640, Height: 640},
				{URL: "https://img/" + albumName + "/300", Width: 300, Height: 300},
			},
		},
	}
}

func ref(id, name string) track.ArtistRef {
	return track.ArtistRef{ID: id, Name: name}
}

func namedArtists(names ...string) []artist.Artist {
	out := make([]artist.Artist, len(names))
	for i, n := range names {
		out[i] = artist.Artist{ID: "id-" + n, Name: n, Genres: []string{"genre-" + n}}
	}
	return out
}
