package report

import (
	"context"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
)

// genreLookup is the outcome of one artist genre lookup.
type genreLookup struct {
	genres []string
	err    error
}

// errNoArtistID marks artists that cannot be looked up (local files).
var errNoArtistID = errors.New("artist has no id")

// resolveGenres looks up the genres of every distinct artist ID with at most
// a.genreConcurrency lookups in flight. Failed lookups are recorded, not
// returned: callers decide what a failure contributes. Only cancellation of
// ctx is reported as an error.
func (a *Aggregator) resolveGenres(ctx context.Context, artistIDs []string) (map[string]genreLookup, error) {
	unique := make([]string, 0, len(artistIDs))
	seen := make(map[string]struct{}, len(artistIDs))
	for _, id := range artistIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	results := make([]genreLookup, len(unique))
	var g errgroup.Group
	g.SetLimit(a.genreConcurrency)
	for i, id := range unique {
		if id == "" {
			results[i] = genreLookup{err: errNoArtistID}
			continue
		}
		i, id := i, id
		g.Go(func() error {
			genres, err := a.catalog.ArtistGenres(ctx, id)
			results[i] = genreLookup{genres: genres, err: err}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make(map[string]genreLookup, len(unique))
	for i, id := range unique {
		out[id] = results[i]
	}
	return out, nil
}
