// Package sources provides the data adapters behind dashboard indicators:
// IPEAData and BrasilAPI over HTTP, simulated placeholder values, static
// published figures and in-memory fixtures.
package sources

import (
	"github.com/rs/zerolog"

	dashboard "github.com/goliatone/go-statboard/components/dashboard"
)

// Config selects the remote endpoints and the placeholder seed.
type Config struct {
	Fetcher         dashboard.JSONFetcher
	IPEABaseURL     string
	BrasilAPIBaseURL string
	PlaceholderSeed uint64
	Logger          zerolog.Logger
}

// NewSourceSet wires every built-in adapter under the names the default
// indicators use.
func NewSourceSet(cfg Config) (dashboard.SourceSet, error) {
	ipea, err := NewIPEA(IPEAConfig{BaseURL: cfg.IPEABaseURL, Fetcher: cfg.Fetcher, Logger: cfg.Logger})
	if err != nil {
		return dashboard.SourceSet{}, err
	}
	brasil, err := NewBrasilAPI(BrasilAPIConfig{BaseURL: cfg.BrasilAPIBaseURL, Fetcher: cfg.Fetcher, Logger: cfg.Logger})
	if err != nil {
		return dashboard.SourceSet{}, err
	}
	placeholder := NewPlaceholder(cfg.PlaceholderSeed)
	return dashboard.SourceSet{
		Series: map[string]dashboard.SeriesSource{
			dashboard.SourceIPEA:        ipea,
			dashboard.SourcePlaceholder: placeholder,
		},
		Categories: map[string]dashboard.CategorySource{
			dashboard.SourcePlaceholder: placeholder,
			dashboard.SourceStatic:      Static{},
		},
		States: map[string]dashboard.StateStatsSource{
			dashboard.SourcePlaceholder: placeholder,
			dashboard.SourceBrasilAPI:   brasil,
		},
	}, nil
}

// FixtureSourceSet serves fixtures under the remote source names and keeps
// the placeholder and static adapters, for offline renders and tests.
func FixtureSourceSet(fixtures *Fixtures, seed uint64) dashboard.SourceSet {
	placeholder := NewPlaceholder(seed)
	return dashboard.SourceSet{
		Series: map[string]dashboard.SeriesSource{
			dashboard.SourceIPEA:        fixtures,
			dashboard.SourcePlaceholder: placeholder,
		},
		Categories: map[string]dashboard.CategorySource{
			dashboard.SourcePlaceholder: placeholder,
			dashboard.SourceStatic:      Static{},
		},
		States: map[string]dashboard.StateStatsSource{
			dashboard.SourcePlaceholder: placeholder,
			dashboard.SourceBrasilAPI:   fixtures,
		},
	}
}
