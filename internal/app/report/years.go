package report

import (
	"context"
	"sort"

	"github.com/osa030/tastebox/internal/domain/track"
)

const noReleaseYearData = "No release year data available."

// YearCount is a release year and the number of top tracks released in it.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// YearRange is the span of observed release years.
type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// ReleaseYearReport is the release-year distribution of the top tracks.
// Error is set when no track carried a usable year.
type ReleaseYearReport struct {
	Error       *string     `json:"error"`
	Data        []YearCount `json:"data"`
	TotalTracks int         `json:"total_tracks,omitempty"`
	YearRange   *YearRange  `json:"year_range,omitempty"`
	PeakYear    *YearCount  `json:"peak_year,omitempty"`
}

// NoData reports whether the report carries the data-absent marker.
func (r *ReleaseYearReport) NoData() bool {
	return r.Error != nil
}

// ReleaseYearTrends counts the top tracks of the window per album release
// year. Tracks whose release date does not start with four digits are
// ignored. The peak year is the year with the most tracks; on a tie the year
// seen first in the page wins.
func (a *Aggregator) ReleaseYearTrends(ctx context.Context, timeRange track.TimeRange) (*ReleaseYearReport, error) {
	tracks, err := a.topTracks(ctx, timeRange)
	if err != nil {
		return nil, err
	}

	index := make(map[int]int)
	counts := make([]YearCount, 0)
	total := 0
	for _, t := range tracks {
		year, ok := releaseYear(t.Album.ReleaseDate)
		if !ok {
			continue
		}
		total++
		if i, ok := index[year]; ok {
			counts[i].Count++
			continue
		}
		index[year] = len(counts)
		counts = append(counts, YearCount{Year: year, Count: 1})
	}

	if total == 0 {
		msg := noReleaseYearData
		return &ReleaseYearReport{Error: &msg, Data: []YearCount{}}, nil
	}

	// counts is still in first-seen order here
	peak := counts[0]
	for _, c := range counts[1:] {
		if c.Count > peak.Count {
			peak = c
		}
	}

	sort.Slice(counts, func(i, j int) bool {
		return counts[i].Year < counts[j].Year
	})

	return &ReleaseYearReport{
		Data:        counts,
		TotalTracks: total,
		YearRange:   &YearRange{Min: counts[0].Year, Max: counts[len(counts)-1].Year},
		PeakYear:    &peak,
	}, nil
}

// releaseYear parses the leading four-digit year of a release date.
func releaseYear(date string) (int, bool) {
	if len(date) < 4 {
		return 0, false
	}
	year := 0
	for i := 0; i < 4; i++ {
		if !isDigit(date[i]) {
			return 0, false
		}
		year = year*10 + int(date[i]-'0')
	}
	return year, true
}

func init() {
	Register(Definition{
		Name:        "release_year_trends",
		Description: "Album release years of top tracks",
		TimeRanged:  true,
		Run: func(ctx context.Context, a *Aggregator, tr track.TimeRange) (any, error) {
			return a.ReleaseYearTrends(ctx, tr)
		},
	})
}
