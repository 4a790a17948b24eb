package report

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/osa030/tastebox/internal/domain/artist"
	"github.com/osa030/tastebox/internal/domain/track"
)

// TopArtists returns the top artists of the window in upstream order.
func (a *Aggregator) TopArtists(ctx context.Context, timeRange track.TimeRange) ([]ArtistSummary, error) {
	artists, err := a.catalog.TopArtists(ctx, timeRange, PageLimit)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get top artists (%s)", timeRange)
	}
	out := make([]ArtistSummary, len(artists))
	for i, ar := range artists {
		out[i] = summarizeArtist(ar)
	}
	return out, nil
}

// FallenOff returns artists that appear in the long-term top artists but in
// neither the medium-term nor the short-term list, sorted by name.
func (a *Aggregator) FallenOff(ctx context.Context) ([]ArtistSummary, error) {
	w, err := a.artistWindows(ctx)
	if err != nil {
		return nil, err
	}
	return w.collect(func(name string) bool {
		return w.in(track.LongTerm, name) && !w.in(track.MediumTerm, name) && !w.in(track.ShortTerm, name)
	}), nil
}

// StoodTheTestOfTime returns artists present in all three windows, sorted
// by name.
func (a *Aggregator) StoodTheTestOfTime(ctx context.Context) ([]ArtistSummary, error) {
	w, err := a.artistWindows(ctx)
	if err != nil {
		return nil, err
	}
	return w.collect(func(name string) bool {
		return w.in(track.LongTerm, name) && w.in(track.MediumTerm, name) && w.in(track.ShortTerm, name)
	}), nil
}

// artistWindows holds name sets per window plus the first-seen details of
// every name. Artists are identified by display name.
type artistWindows struct {
	names   map[track.TimeRange]map[string]struct{}
	details map[string]ArtistSummary
}

// windowOrder is the order details are captured in; the first window that
// lists a name provides its image and genres.
var windowOrder = []track.TimeRange{track.LongTerm, track.MediumTerm, track.ShortTerm}

func (a *Aggregator) artistWindows(ctx context.Context) (*artistWindows, error) {
	w := &artistWindows{
		names:   make(map[track.TimeRange]map[string]struct{}, len(windowOrder)),
		details: make(map[string]ArtistSummary),
	}
	for _, tr := range windowOrder {
		artists, err := a.catalog.TopArtists(ctx, tr, PageLimit)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to get top artists (%s)", tr)
		}
		w.add(tr, artists)
	}
	return w, nil
}

func (w *artistWindows) add(tr track.TimeRange, artists []artist.Artist) {
	set := make(map[string]struct{}, len(artists))
	for _, ar := range artists {
		set[ar.Name] = struct{}{}
		if _, ok := w.details[ar.Name]; !ok {
			w.details[ar.Name] = summarizeArtist(ar)
		}
	}
	w.names[tr] = set
}

func (w *artistWindows) in(tr track.TimeRange, name string) bool {
	_, ok := w.names[tr][name]
	return ok
}

func (w *artistWindows) collect(keep func(name string) bool) []ArtistSummary {
	out := make([]ArtistSummary, 0)
	for name, summary := range w.details {
		if keep(name) {
			out = append(out, summary)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

func init() {
	Register(Definition{
		Name:        "top_artists",
		Description: "Top artists of the window in ranking order",
		TimeRanged:  true,
		Run: func(ctx context.Context, a *Aggregator, tr track.TimeRange) (any, error) {
			return a.TopArtists(ctx, tr)
		},
	})
	Register(Definition{
		Name:        "artists_falling_off",
		Description: "Long-term top artists missing from the medium and short term lists",
		Run: func(ctx context.Context, a *Aggregator, _ track.TimeRange) (any, error) {
			return a.FallenOff(ctx)
		},
	})
	Register(Definition{
		Name:        "artists_standing_test_of_time",
		Description: "Artists in the short, medium and long term lists",
		Run: func(ctx context.Context, a *Aggregator, _ track.TimeRange) (any, error) {
			return a.StoodTheTestOfTime(ctx)
		},
	})
}
