package report

import (
	"context"
	"fmt"
	"sort"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/tastebox/internal/domain/track"
)

// Season is a named set of release months.
type Season struct {
	Name   string
	Months []int
}

// Seasons in assignment order. A month belongs to the first season listing it.
var Seasons = []Season{
	{Name: "Winter", Months: []int{12, 1, 2}},
	{Name: "Spring", Months: []int{3, 4, 5}},
	{Name: "Summer", Months: []int{6, 7, 8}},
	{Name: "Fall", Months: []int{9, 10, 11}},
}

// GenreCount is a genre and how often it was counted.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// SeasonalGenreReport is the genre distribution of top tracks per release
// season. Error is set, and the rest left empty, when there was nothing to
// analyse.
type SeasonalGenreReport struct {
	Error           *string                 `json:"error"`
	SeasonalData    map[string][]GenreCount `json:"seasonal_data"`
	TotalGenres     int                     `json:"total_genres"`
	SeasonsWithData []string                `json:"seasons_with_data"`
}

// NoData reports whether the report carries the data-absent marker.
func (r *SeasonalGenreReport) NoData() bool {
	return r.Error != nil
}

// SeasonalGenres assigns each top track of the window to the season of its
// album's release month and counts the genres of the track's artists per
// season. Tracks whose release date has no month are ignored. An artist whose
// genres cannot be fetched contributes nothing.
func (a *Aggregator) SeasonalGenres(ctx context.Context, timeRange track.TimeRange) (*SeasonalGenreReport, error) {
	tracks, err := a.topTracks(ctx, timeRange)
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		msg := fmt.Sprintf("No top tracks found for time_range='%s'.", timeRange)
		return &SeasonalGenreReport{
			Error:           &msg,
			SeasonalData:    map[string][]GenreCount{},
			SeasonsWithData: []string{},
		}, nil
	}

	type assignment struct {
		season  int
		artists []track.ArtistRef
	}
	var assigned []assignment
	var artistIDs []string
	for _, t := range tracks {
		month, ok := releaseMonth(t.Album.ReleaseDate)
		if !ok {
			continue
		}
		season, ok := seasonIndex(month)
		if !ok {
			continue
		}
		assigned = append(assigned, assignment{season: season, artists: t.Artists})
		for _, ar := range t.Artists {
			artistIDs = append(artistIDs, ar.ID)
		}
	}

	lookups, err := a.resolveGenres(ctx, artistIDs)
	if err != nil {
		return nil, err
	}

	perSeason := make([][]string, len(Seasons))
	for _, as := range assigned {
		for _, ar := range as.artists {
			res := lookups[ar.ID]
			if res.err != nil {
				// a failed lookup contributes no genres
				zlog.Debug().Msgf("skipping genres of artist %q: %v", ar.Name, res.err)
				continue
			}
			perSeason[as.season] = append(perSeason[as.season], res.genres...)
		}
	}

	report := &SeasonalGenreReport{
		SeasonalData:    make(map[string][]GenreCount, len(Seasons)),
		SeasonsWithData: []string{},
	}
	for i, s := range Seasons {
		top := truncate(tallyGenres(perSeason[i]), TopN)
		report.SeasonalData[s.Name] = top
		for _, gc := range top {
			report.TotalGenres += gc.Count
		}
		if len(top) > 0 {
			report.SeasonsWithData = append(report.SeasonsWithData, s.Name)
		}
	}
	return report, nil
}

// tallyGenres counts genres and orders them by count, descending. Genres with
// equal counts keep the order they were first seen in.
func tallyGenres(genres []string) []GenreCount {
	index := make(map[string]int)
	counts := make([]GenreCount, 0)
	for _, g := range genres {
		if i, ok := index[g]; ok {
			counts[i].Count++
			continue
		}
		index[g] = len(counts)
		counts = append(counts, GenreCount{Genre: g, Count: 1})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// releaseMonth parses the month of a "YYYY-MM[-DD]" release date.
func releaseMonth(date string) (int, bool) {
	if len(date) < 7 {
		return 0, false
	}
	d1, d2 := date[5], date[6]
	if !isDigit(d1) || !isDigit(d2) {
		return 0, false
	}
	return int(d1-'0')*10 + int(d2-'0'), true
}

func seasonIndex(month int) (int, bool) {
	for i, s := range Seasons {
		for _, m := range s.Months {
			if m == month {
				return i, true
			}
		}
	}
	return 0, false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func init() {
	Register(Definition{
		Name:        "music_variety_by_season",
		Description: "Artist genres of top tracks per album release season",
		TimeRanged:  true,
		Run: func(ctx context.Context, a *Aggregator, tr track.TimeRange) (any, error) {
			return a.SeasonalGenres(ctx, tr)
		},
	})
}
