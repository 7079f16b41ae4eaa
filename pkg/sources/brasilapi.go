package sources

import (
	"cmp"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog"

	dashboard "github.com/goliatone/go-statboard/components/dashboard"
)

// DefaultBrasilAPIBaseURL is the public BrasilAPI root.
const DefaultBrasilAPIBaseURL = "https://brasilapi.com.br/api"

// BrasilAPIConfig configures the BrasilAPI adapter.
type BrasilAPIConfig struct {
	BaseURL string
	Fetcher dashboard.JSONFetcher
	Logger  zerolog.Logger
}

// BrasilAPI reads public security statistics per state. Monthly records
// are summed into yearly totals.
type BrasilAPI struct {
	baseURL string
	fetcher dashboard.JSONFetcher
	logger  zerolog.Logger
}

// NewBrasilAPI builds the adapter. A fetcher is required.
func NewBrasilAPI(cfg BrasilAPIConfig) (*BrasilAPI, error) {
	if cfg.Fetcher == nil {
		return nil, fmt.Errorf("sources: brasilapi fetcher is required")
	}
	return &BrasilAPI{
		baseURL: strings.TrimRight(cmp.Or(cfg.BaseURL, DefaultBrasilAPIBaseURL), "/"),
		fetcher: cfg.Fetcher,
		logger:  cfg.Logger,
	}, nil
}

var _ dashboard.StateStatsSource = (*BrasilAPI)(nil)

// FetchStateStats sums the requested metrics over the records whose "ano"
// matches the requested year. A state without such records is reported as
// unavailable.
func (s *BrasilAPI) FetchStateStats(ctx context.Context, q dashboard.StateStatsQuery) (dashboard.StateStats, bool) {
	state := strings.ToUpper(strings.TrimSpace(q.State))
	data, ok := s.fetcher.FetchJSON(ctx, dashboard.FetchRequest{
		URL:         s.baseURL + "/seguranca-publica/v1/" + url.PathEscape(state),
		Query:       map[string]string{"ano": strconv.Itoa(q.Year)},
		SourceLabel: cmp.Or(q.SourceLabel, "BrasilAPI-"+state),
	})
	if !ok {
		return dashboard.StateStats{}, false
	}
	var records []map[string]any
	if err := mapstructure.Decode(data, &records); err != nil {
		s.logger.Warn().Err(err).Str("state", state).Msg("unexpected brasilapi payload")
		return dashboard.StateStats{}, false
	}
	values := make(map[string]float64, len(q.Metrics))
	matched := 0
	for _, record := range records {
		if year, ok := dashboard.ParseSeriesValue(record["ano"]); !ok || int(year) != q.Year {
			continue
		}
		matched++
		for _, metric := range q.Metrics {
			if v, ok := dashboard.ParseSeriesValue(record[metric]); ok {
				values[metric] += v
			}
		}
	}
	if matched == 0 {
		s.logger.Debug().Str("state", state).Int("year", q.Year).Int("records", len(records)).Msg("no brasilapi records for year")
		return dashboard.StateStats{}, false
	}
	return dashboard.StateStats{State: state, Year: q.Year, Values: values}, true
}
