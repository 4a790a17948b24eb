package report

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/osa030/tastebox/internal/domain/track"
)

// ErrUnknownReport is returned when no report is registered under a name.
var ErrUnknownReport = errors.New("unknown report")

// Definition describes a named report.
type Definition struct {
	// Name is the report name used by the HTTP routes and the RPC.
	Name string `json:"name"`
	// Description is a human-readable description.
	Description string `json:"description"`
	// TimeRanged is true when the report reads a single time window.
	TimeRanged bool `json:"time_ranged"`
	// Run computes the report. timeRange is ignored unless TimeRanged.
	Run func(ctx context.Context, a *Aggregator, timeRange track.TimeRange) (any, error) `json:"-"`
}

// registry holds registered report definitions.
var registry = make(map[string]Definition)

// Register registers a report definition.
func Register(def Definition) {
	registry[def.Name] = def
}

// Lookup returns the definition registered under name.
func Lookup(name string) (Definition, bool) {
	def, ok := registry[name]
	return def, ok
}

// Registered returns all registered definitions sorted by name.
func Registered() []Definition {
	defs := make([]Definition, 0, len(registry))
	for _, def := range registry {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool {
		return defs[i].Name < defs[j].Name
	})
	return defs
}

// Run computes the named report.
func (a *Aggregator) Run(ctx context.Context, name string, timeRange track.TimeRange) (any, error) {
	def, ok := Lookup(name)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownReport, "%q", name)
	}
	return def.Run(ctx, a, timeRange)
}
