package report

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/tastebox/internal/domain/playlist"
	"github.com/osa030/tastebox/internal/domain/track"
)

func TestAggregator_PlaylistAffinity(t *testing.T) {
	catalog := &fakeCatalog{
		userID: "me",
		tracks: map[track.TimeRange][]track.Track{
			track.ShortTerm: {
				newTrack("top-1", "One", "Album", "2020", 10, ref("a", "A")),
				newTrack("top-2", "Two", "Album", "2020", 10, ref("a", "A")),
				newTrack("top-3", "Three", "Album", "2020", 10, ref("a", "A")),
			},
			track.LongTerm: {
				newTrack("long-only", "Old", "Album", "2020", 10, ref("a", "A")),
			},
		},
		playlists: []playlist.Playlist{
			{ID: "p-none", Name: "No Overlap", OwnerID: "me"},
			{ID: "p-foreign", Name: "Followed", OwnerID: "someone-else"},
			{ID: "p-two", Name: "Two Hits", OwnerID: "me"},
			{ID: "p-one", Name: "One Hit", OwnerID: "me"},
		},
		items: map[string][]playlist.Item{
			"p-none":    {{TrackID: "long-only"}, {TrackID: "x"}},
			"p-foreign": {{TrackID: "top-1"}, {TrackID: "top-2"}, {TrackID: "top-3"}},
			"p-two":     {{TrackID: "top-1"}, {}, {TrackID: "top-3"}, {}},
			"p-one":     {{}, {TrackID: "top-2"}},
		},
	}

	scores, err := New(catalog).PlaylistAffinity(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []PlaylistScore{
		{Name: "Two Hits", TopSongsCount: 2},
		{Name: "One Hit", TopSongsCount: 1},
		{Name: "No Overlap", TopSongsCount: 0},
	}, scores)
	assert.NotContains(t, catalog.itemRequests, "p-foreign", "playlists owned by others are never fetched")
}

func TestAggregator_PlaylistAffinity_NullEntriesNeverMatch(t *testing.T) {
	top := newTrack("", "Local File", "Album", "2020", 0, ref("", "Someone"))
	catalog := &fakeCatalog{
		userID:    "me",
		tracks:    map[track.TimeRange][]track.Track{track.ShortTerm: {top}},
		playlists: []playlist.Playlist{{ID: "p", Name: "Nulls", OwnerID: "me"}},
		items:     map[string][]playlist.Item{"p": {{}, {}, {}}},
	}

	scores, err := New(catalog).PlaylistAffinity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []PlaylistScore{{Name: "Nulls", TopSongsCount: 0}}, scores)
}

func TestAggregator_PlaylistAffinity_TopTen(t *testing.T) {
	catalog := &fakeCatalog{
		userID: "me",
		tracks: map[track.TimeRange][]track.Track{
			track.ShortTerm: {newTrack("hit", "Hit", "Album", "2020", 10, ref("a", "A"))},
		},
		items: map[string][]playlist.Item{},
	}
	for i := 0; i < 12; i++ {
		id := fmt.Sprintf("p%d", i)
		catalog.playlists = append(catalog.playlists, playlist.Playlist{ID: id, Name: id, OwnerID: "me"})
	}
	catalog.items["p11"] = []playlist.Item{{TrackID: "hit"}}

	scores, err := New(catalog).PlaylistAffinity(context.Background())
	require.NoError(t, err)
	require.Len(t, scores, TopN)
	assert.Equal(t, PlaylistScore{Name: "p11", TopSongsCount: 1}, scores[0])
	assert.Equal(t, "p0", scores[1].Name)
	assert.Len(t, catalog.itemRequests, 12)
}
