package report

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/tastebox/internal/domain/track"
)

func TestAggregator_SeasonalGenres(t *testing.T) {
	catalog := &fakeCatalog{
		tracks: map[track.TimeRange][]track.Track{
			track.MediumTerm: {
				newTrack("t1", "Jan", "A1", "2020-01-15", 10, ref("a1", "One"), ref("a2", "Two")),
				newTrack("t2", "YearOnly", "A2", "2020", 10, ref("a9", "Nine")),
				newTrack("t3", "Apr", "A3", "2019-04-02", 10, ref("a1", "One")),
				newTrack("t4", "Dec", "A4", "2018-12", 10, ref("a3", "Broken")),
				newTrack("t5", "Jul", "A5", "2018-07-01", 10, ref("a2", "Two")),
			},
		},
		genres: map[string][]string{
			"a1": {"rock", "indie"},
			"a2": {"pop", "rock"},
			"a9": {"never"},
		},
		genreFailures: map[string]bool{"a3": true},
	}

	for _, concurrency := range []int{1, 4} {
		t.Run(fmt.Sprintf("concurrency %d", concurrency), func(t *testing.T) {
			catalog.genreCalls = nil
			report, err := New(catalog, WithGenreConcurrency(concurrency)).SeasonalGenres(context.Background(), track.MediumTerm)
			require.NoError(t, err)

			assert.Nil(t, report.Error)
			assert.False(t, report.NoData())
			assert.Equal(t, []GenreCount{{"rock", 2}, {"indie", 1}, {"pop", 1}}, report.SeasonalData["Winter"])
			assert.Equal(t, []GenreCount{{"rock", 1}, {"indie", 1}}, report.SeasonalData["Spring"])
			assert.Equal(t, []GenreCount{{"pop", 1}, {"rock", 1}}, report.SeasonalData["Summer"])
			assert.Empty(t, report.SeasonalData["Fall"])
			assert.Contains(t, report.SeasonalData, "Fall")
			assert.Equal(t, 8, report.TotalGenres)
			assert.Equal(t, []string{"Winter", "Spring", "Summer"}, report.SeasonsWithData)

			assert.ElementsMatch(t, []string{"a1", "a2", "a3"}, catalog.genreCalls,
				"year-only tracks are never looked up")
		})
	}
}

func TestAggregator_SeasonalGenres_TopTenPerSeason(t *testing.T) {
	var genres []string
	for i := 0; i < 12; i++ {
		genres = append(genres, fmt.Sprintf("g%02d", i))
	}
	catalog := &fakeCatalog{
		tracks: map[track.TimeRange][]track.Track{
			track.LongTerm: {
				newTrack("t1", "Song", "Album", "2001-10-01", 10, ref("a", "A")),
				newTrack("t2", "Song", "Album", "2002-11-01", 10, ref("b", "B")),
			},
		},
		genres: map[string][]string{
			"a": genres,
			"b": {"g11"},
		},
	}

	report, err := New(catalog).SeasonalGenres(context.Background(), track.LongTerm)
	require.NoError(t, err)

	fall := report.SeasonalData["Fall"]
	require.Len(t, fall, TopN)
	assert.Equal(t, GenreCount{Genre: "g11", Count: 2}, fall[0])
	assert.Equal(t, GenreCount{Genre: "g00", Count: 1}, fall[1], "ties keep first-seen order")
	assert.Equal(t, GenreCount{Genre: "g08", Count: 1}, fall[9])
	assert.Equal(t, 11, report.TotalGenres)
	assert.Equal(t, []string{"Fall"}, report.SeasonsWithData)
}

func TestAggregator_SeasonalGenres_EmptyPage(t *testing.T) {
	catalog := &fakeCatalog{tracks: map[track.TimeRange][]track.Track{}}

	report, err := New(catalog).SeasonalGenres(context.Background(), track.ShortTerm)
	require.NoError(t, err)
	require.NotNil(t, report.Error)
	assert.True(t, report.NoData())
	assert.Equal(t, "No top tracks found for time_range='short_term'.", *report.Error)
	assert.Empty(t, report.SeasonalData)
	assert.Empty(t, report.SeasonsWithData)
	assert.Empty(t, catalog.genreCalls)
}

func TestAggregator_SeasonalGenres_CanceledContext(t *testing.T) {
	catalog := &fakeCatalog{
		tracks: map[track.TimeRange][]track.Track{
			track.ShortTerm: {newTrack("t1", "Song", "Album", "2020-05-01", 10, ref("a", "A"))},
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(catalog).SeasonalGenres(ctx, track.ShortTerm)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReleaseMonth(t *testing.T) {
	tests := []struct {
		date      string
		wantMonth int
		wantOK    bool
	}{
		{date: "2020-01-15", wantMonth: 1, wantOK: true},
		{date: "2020-12", wantMonth: 12, wantOK: true},
		{date: "2020", wantOK: false},
		{date: "", wantOK: false},
		{date: "2020-xx-01", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			month, ok := releaseMonth(tt.date)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantMonth, month)
		})
	}
}

func TestSeasonIndex(t *testing.T) {
	want := map[int]string{
		1: "Winter", 2: "Winter", 12: "Winter",
		3: "Spring", 5: "Spring",
		6: "Summer", 8: "Summer",
		9: "Fall", 11: "Fall",
	}
	for month, season := range want {
		i, ok := seasonIndex(month)
		require.True(t, ok, "month %d", month)
		assert.Equal(t, season, Seasons[i].Name, "month %d", month)
	}

	_, ok := seasonIndex(13)
	assert.False(t, ok)
	_, ok = seasonIndex(0)
	assert.False(t, ok)
}
