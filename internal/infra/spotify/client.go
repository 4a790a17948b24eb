// Package spotify provides a client for the Spotify API.
package spotify

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"github.com/osa030/tastebox/internal/domain/artist"
	"github.com/osa030/tastebox/internal/domain/playlist"
	"github.com/osa030/tastebox/internal/domain/track"
	"github.com/osa030/tastebox/internal/infra/logger"
)

// playlistItemFields limits playlist item responses to what is needed to
// recognise tracks.
const playlistItemFields = "items(track(id,type,track,episode))"

// Scopes are the OAuth scopes the reports need.
var Scopes = []string{
	spotifyauth.ScopeUserTopRead,
	spotifyauth.ScopePlaylistReadPrivate,
	spotifyauth.ScopePlaylistReadCollaborative,
}

// Client is a Spotify API client.
type Client struct {
	client *spotify.Client
	market string
	log    zerolog.Logger
}

// Config represents Spotify client configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	Market       string
}

// New creates a new Spotify client.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RefreshToken == "" {
		return nil, errors.New("spotify credentials are required")
	}

	auth := spotifyauth.New(
		spotifyauth.WithClientID(cfg.ClientID),
		spotifyauth.WithClientSecret(cfg.ClientSecret),
		spotifyauth.WithScopes(Scopes...),
	)

	// Create token from refresh token
	token := &oauth2.Token{
		RefreshToken: cfg.RefreshToken,
	}

	// Get HTTP client with auto-refresh capability
	httpClient := auth.Client(ctx, token)
	return NewWithHTTPClient(httpClient, cfg.Market), nil
}

// NewWithHTTPClient creates a client on top of an already authorized HTTP
// client. Extra options are passed to the Spotify SDK.
func NewWithHTTPClient(httpClient *http.Client, market string, opts ...spotify.ClientOption) *Client {
	opts = append([]spotify.ClientOption{spotify.WithRetry(true)}, opts...)
	return &Client{
		client: spotify.New(httpClient, opts...),
		market: market,
		log:    logger.Component("spotify"),
	}
}

// CurrentUserID returns the Spotify ID of the authorized user.
func (c *Client) CurrentUserID(ctx context.Context) (string, error) {
	user, err := c.client.CurrentUser(ctx)
	if err != nil {
		return "", errors.Wrap(err, "failed to get current user")
	}
	return user.ID, nil
}

// TopTracks returns one page of the user's top tracks for the window.
func (c *Client) TopTracks(ctx context.Context, timeRange track.TimeRange, limit int) ([]track.Track, error) {
	page, err := c.client.CurrentUsersTopTracks(ctx,
		spotify.Limit(limit),
		spotify.Timerange(spotify.Range(timeRange)),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get top tracks")
	}

	tracks := make([]track.Track, 0, len(page.Tracks))
	for i := range page.Tracks {
		tracks = append(tracks, convertTrack(&page.Tracks[i]))
	}
	c.log.Debug().Msgf("fetched top tracks: time_range=%s count=%d", timeRange, len(tracks))
	return tracks, nil
}

// TopArtists returns one page of the user's top artists for the window.
func (c *Client) TopArtists(ctx context.Context, timeRange track.TimeRange, limit int) ([]artist.Artist, error) {
	page, err := c.client.CurrentUsersTopArtists(ctx,
		spotify.Limit(limit),
		spotify.Timerange(spotify.Range(timeRange)),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get top artists")
	}

	artists := make([]artist.Artist, 0, len(page.Artists))
	for i := range page.Artists {
		artists = append(artists, convertArtist(&page.Artists[i]))
	}
	c.log.Debug().Msgf("fetched top artists: time_range=%s count=%d", timeRange, len(artists))
	return artists, nil
}

// Playlists returns one page of the playlists the user owns or follows.
func (c *Client) Playlists(ctx context.Context, limit int) ([]playlist.Playlist, error) {
	page, err := c.client.CurrentUsersPlaylists(ctx, spotify.Limit(limit))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get playlists")
	}

	playlists := make([]playlist.Playlist, 0, len(page.Playlists))
	for _, p := range page.Playlists {
		playlists = append(playlists, playlist.Playlist{
			ID:      string(p.ID),
			Name:    p.Name,
			OwnerID: p.Owner.ID,
		})
	}
	return playlists, nil
}

// PlaylistItems returns one page of playlist entries. Entries without a
// track (unavailable content, episodes) have an empty TrackID.
func (c *Client) PlaylistItems(ctx context.Context, playlistID string, limit int) ([]playlist.Item, error) {
	opts := []spotify.RequestOption{
		spotify.Limit(limit),
		spotify.Fields(playlistItemFields),
	}
	if c.market != "" {
		opts = append(opts, spotify.Market(c.market))
	}

	page, err := c.client.GetPlaylistItems(ctx, spotify.ID(playlistID), opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get playlist items: %s", playlistID)
	}

	items := make([]playlist.Item, 0, len(page.Items))
	for _, item := range page.Items {
		var id string
		// Only tracks count (episodes are skipped)
		if item.Track.Track != nil {
			id = string(item.Track.Track.ID)
		}
		items = append(items, playlist.Item{TrackID: id})
	}
	return items, nil
}

// ArtistGenres returns the genre tags of an artist.
func (c *Client) ArtistGenres(ctx context.Context, artistID string) ([]string, error) {
	a, err := c.client.GetArtist(ctx, spotify.ID(artistID))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get artist: %s", artistID)
	}
	return a.Genres, nil
}

// convertTrack converts a Spotify FullTrack to domain Track.
func convertTrack(t *spotify.FullTrack) track.Track {
	return track.Track{
		ID:      string(t.ID),
		Name:    t.Name,
		Artists: convertArtistRefs(t.Artists),
		Album: track.Album{
			Name:        t.Album.Name,
			Images:      convertImages(t.Album.Images),
			ReleaseDate: t.Album.ReleaseDate,
			Artists:     convertArtistRefs(t.Album.Artists),
		},
		Popularity: int(t.Popularity),
		DurationMs: int(t.Duration),
	}
}

// convertArtist converts a Spotify FullArtist to domain Artist.
func convertArtist(a *spotify.FullArtist) artist.Artist {
	genres := a.Genres
	if genres == nil {
		genres = []string{}
	}
	return artist.Artist{
		ID:     string(a.ID),
		Name:   a.Name,
		Images: convertImages(a.Images),
		Genres: genres,
	}
}

func convertArtistRefs(artists []spotify.SimpleArtist) []track.ArtistRef {
	refs := make([]track.ArtistRef, len(artists))
	for i, a := range artists {
		refs[i] = track.ArtistRef{ID: string(a.ID), Name: a.Name}
	}
	return refs
}

func convertImages(images []spotify.Image) []track.Image {
	out := make([]track.Image, len(images))
	for i, img := range images {
		out[i] = track.Image{
			URL:    img.URL,
			Width:  int(img.Width),
			Height: int(img.Height),
		}
	}
	return out
}
