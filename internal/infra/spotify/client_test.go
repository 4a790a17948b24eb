package spotify

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zmb3/spotify/v2"

	"github.com/osa030/tastebox/internal/app/report"
	"github.com/osa030/tastebox/internal/domain/playlist"
	"github.com/osa030/tastebox/internal/domain/track"
)

var _ report.Catalog = (*Client)(nil)

// newTestClient returns a Client talking to a mock server.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewWithHTTPClient(server.Client(), "JP", spotify.WithBaseURL(server.URL+"/"))
}

func TestNew_RequiresCredentials(t *testing.T) {
	_, err := New(context.Background(), Config{ClientID: "id", ClientSecret: "secret"})
	assert.Error(t, err)
}

func TestClient_TopTracks(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/top/tracks", r.URL.Path)
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		assert.Equal(t, "short_term", r.URL.Query().Get("time_range"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"items": [{
				"id": "t1",
				"name": "Song",
				"popularity": 42,
				"duration_ms": 200000,
				"artists": [{"id": "a1", "name": "Artist A"}, {"id": "a2", "name": "Artist B"}],
				"album": {
					"name": "Album",
					"release_date": "2020-01-15",
					"images": [
						{"url": "https://img/640", "width": 640, "height": 640},
						{"url": "https://img/300", "width": 300, "height": 300}
					],
					"artists": [{"id": "a1", "name": "Artist A"}]
				}
			}],
			"limit": 50,
			"total": 1
		}`)
	})

	tracks, err := client.TopTracks(context.Background(), track.ShortTerm, 50)
	require.NoError(t, err)
	require.Len(t, tracks, 1)

	got := tracks[0]
	assert.Equal(t, "t1", got.ID)
	assert.Equal(t, "Song", got.Name)
	assert.Equal(t, 42, got.Popularity)
	assert.Equal(t, 200000, got.DurationMs)
	assert.Equal(t, "Artist A, Artist B", got.ArtistNames())
	assert.Equal(t, "Album", got.Album.Name)
	assert.Equal(t, "2020-01-15", got.Album.ReleaseDate)
	assert.Equal(t, "Artist A", got.Album.ArtistNames())
	assert.Equal(t, []track.Image{
		{URL: "https://img/640", Width: 640, Height: 640},
		{URL: "https://img/300", Width: 300, Height: 300},
	}, got.Album.Images)
}

func TestClient_TopArtists(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/top/artists", r.URL.Path)
		assert.Equal(t, "long_term", r.URL.Query().Get("time_range"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"items": [
				{"id": "a1", "name": "Artist A", "genres": ["rock", "pop"], "images": [{"url": "https://img/a1", "width": 300, "height": 300}]},
				{"id": "a2", "name": "Artist B", "images": []}
			]
		}`)
	})

	artists, err := client.TopArtists(context.Background(), track.LongTerm, 50)
	require.NoError(t, err)
	require.Len(t, artists, 2)

	assert.Equal(t, "a1", artists[0].ID)
	assert.Equal(t, []string{"rock", "pop"}, artists[0].Genres)
	assert.Equal(t, "https://img/a1", artists[0].Images[0].URL)
	assert.NotNil(t, artists[1].Genres)
	assert.Empty(t, artists[1].Genres)
}

func TestClient_CurrentUserAndPlaylists(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/me":
			fmt.Fprint(w, `{"id": "user-1", "display_name": "User"}`)
		case "/me/playlists":
			assert.Equal(t, "50", r.URL.Query().Get("limit"))
			fmt.Fprint(w, `{"items": [
				{"id": "p1", "name": "Mine", "owner": {"id": "user-1"}},
				{"id": "p2", "name": "Followed", "owner": {"id": "user-2"}}
			]}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	id, err := client.CurrentUserID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)

	playlists, err := client.Playlists(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, []playlist.Playlist{
		{ID: "p1", Name: "Mine", OwnerID: "user-1"},
		{ID: "p2", Name: "Followed", OwnerID: "user-2"},
	}, playlists)
}

func TestClient_PlaylistItems(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/playlists/p1/")
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		assert.Equal(t, playlistItemFields, r.URL.Query().Get("fields"))
		assert.Equal(t, "JP", r.URL.Query().Get("market"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items": [
			{"track": {"id": "t1", "type": "track", "track": true, "episode": false}},
			{"track": null},
			{"track": {"id": "t2", "type": "track", "track": true, "episode": false}}
		]}`)
	})

	items, err := client.PlaylistItems(context.Background(), "p1", 100)
	require.NoError(t, err)
	assert.Equal(t, []playlist.Item{{TrackID: "t1"}, {TrackID: ""}, {TrackID: "t2"}}, items)
}

func TestClient_ArtistGenres(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/artists/missing" {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error": {"status": 404, "message": "non existing id"}}`)
			return
		}
		assert.Equal(t, "/artists/a1", r.URL.Path)
		fmt.Fprint(w, `{"id": "a1", "name": "Artist A", "genres": ["shoegaze"]}`)
	})

	genres, err := client.ArtistGenres(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, []string{"shoegaze"}, genres)

	_, err = client.ArtistGenres(context.Background(), "missing")
	assert.Error(t, err)
}

func TestClient_LogsAsSpotifyComponent(t *testing.T) {
	var buf bytes.Buffer
	prev := zlog.Logger
	zlog.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)
	t.Cleanup(func() { zlog.Logger = prev })

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items": [], "limit": 50, "total": 0}`)
	})

	_, err := client.TopArtists(context.Background(), track.LongTerm, 50)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"component":"spotify"`)
	assert.Contains(t, buf.String(), "fetched top artists: time_range=long_term count=0")
}
