package report

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/osa030/tastebox/internal/domain/track"
)

func (a *Aggregator) topTracks(ctx context.Context, timeRange track.TimeRange) ([]track.Track, error) {
	tracks, err := a.catalog.TopTracks(ctx, timeRange, PageLimit)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get top tracks (%s)", timeRange)
	}
	return tracks, nil
}

// TopSongs returns the top tracks of the window in upstream order.
func (a *Aggregator) TopSongs(ctx context.Context, timeRange track.TimeRange) ([]TrackSummary, error) {
	tracks, err := a.topTracks(ctx, timeRange)
	if err != nil {
		return nil, err
	}
	return summarizeTracks(tracks), nil
}

// HiddenGems returns the top tracks of the window, least popular first.
// Tracks with equal popularity keep their upstream order.
func (a *Aggregator) HiddenGems(ctx context.Context, timeRange track.TimeRange) ([]TrackSummary, error) {
	tracks, err := a.topTracks(ctx, timeRange)
	if err != nil {
		return nil, err
	}
	gems := summarizeTracks(tracks)
	sort.SliceStable(gems, func(i, j int) bool {
		return gems[i].Popularity < gems[j].Popularity
	})
	return gems, nil
}

// TopAlbums groups the top tracks of the window by album name and returns
// the ten albums with the most tracks. Image and artists come from the first
// track seen for each album. Albums sharing a name are merged.
func (a *Aggregator) TopAlbums(ctx context.Context, timeRange track.TimeRange) ([]AlbumSummary, error) {
	tracks, err := a.topTracks(ctx, timeRange)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	albums := make([]AlbumSummary, 0)
	for _, t := range tracks {
		if i, ok := index[t.Album.Name]; ok {
			albums[i].TrackCount++
			continue
		}
		img, _ := SelectImage(t.Album.Images)
		index[t.Album.Name] = len(albums)
		albums = append(albums, AlbumSummary{
			Name:       t.Album.Name,
			TrackCount: 1,
			Image:      img,
			Artists:    t.Album.ArtistNames(),
		})
	}

	sort.SliceStable(albums, func(i, j int) bool {
		return albums[i].TrackCount > albums[j].TrackCount
	})
	return truncate(albums, TopN), nil
}

func summarizeTracks(tracks []track.Track) []TrackSummary {
	out := make([]TrackSummary, len(tracks))
	for i, t := range tracks {
		out[i] = summarizeTrack(t)
	}
	return out
}

func truncate[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func init() {
	Register(Definition{
		Name:        "top_songs",
		Description: "Top tracks of the window in ranking order",
		TimeRanged:  true,
		Run: func(ctx context.Context, a *Aggregator, tr track.TimeRange) (any, error) {
			return a.TopSongs(ctx, tr)
		},
	})
	Register(Definition{
		Name:        "hidden_gems",
		Description: "Top tracks of the window, least popular first",
		TimeRanged:  true,
		Run: func(ctx context.Context, a *Aggregator, tr track.TimeRange) (any, error) {
			return a.HiddenGems(ctx, tr)
		},
	})
	Register(Definition{
		Name:        "top_albums",
		Description: "Ten albums with the most top tracks in the window",
		TimeRanged:  true,
		Run: func(ctx context.Context, a *Aggregator, tr track.TimeRange) (any, error) {
			return a.TopAlbums(ctx, tr)
		},
	})
}
