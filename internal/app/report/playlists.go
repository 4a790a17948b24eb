package report

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/tastebox/internal/domain/playlist"
	"github.com/osa030/tastebox/internal/domain/track"
)

// PlaylistAffinity scores the current user's own playlists by how many of
// their tracks are in the user's short-term top tracks, and returns the ten
// best. Playlists without any overlap score 0 and are kept.
func (a *Aggregator) PlaylistAffinity(ctx context.Context) ([]PlaylistScore, error) {
	userID, err := a.catalog.CurrentUserID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get current user")
	}

	playlists, err := a.catalog.Playlists(ctx, PageLimit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get playlists")
	}

	top, err := a.topTracks(ctx, track.ShortTerm)
	if err != nil {
		return nil, err
	}
	topIDs := make(map[string]struct{}, len(top))
	for _, t := range top {
		if t.ID != "" {
			topIDs[t.ID] = struct{}{}
		}
	}

	scores := make([]PlaylistScore, 0)
	for _, p := range playlists {
		if !p.OwnedBy(userID) {
			continue
		}
		items, err := a.catalog.PlaylistItems(ctx, p.ID, PlaylistItemsLimit)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to get items of playlist %s", p.ID)
		}
		count := 0
		for _, id := range playlist.TrackIDs(items) {
			if _, ok := topIDs[id]; ok {
				count++
			}
		}
		zlog.Debug().Msgf("playlist affinity: playlist=%s items=%d top_songs=%d", p.ID, len(items), count)
		scores = append(scores, PlaylistScore{Name: p.Name, TopSongsCount: count})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].TopSongsCount > scores[j].TopSongsCount
	})
	return truncate(scores, TopN), nil
}

func init() {
	Register(Definition{
		Name:        "top_playlists",
		Description: "Own playlists holding the most short-term top tracks",
		Run: func(ctx context.Context, a *Aggregator, _ track.TimeRange) (any, error) {
			return a.PlaylistAffinity(ctx)
		},
	})
}
