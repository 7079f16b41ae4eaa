package sources

import (
	"cmp"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog"

	dashboard "github.com/goliatone/go-statboard/components/dashboard"
)

const (
	// DefaultIPEABaseURL is the IPEAData OData v4 endpoint.
	DefaultIPEABaseURL = "http://www.ipeadata.gov.br/api/odata4"

	ipeaDateField  = "VALDATA"
	ipeaValueField = "VALVALOR"
)

// IPEAConfig configures the IPEAData adapter.
type IPEAConfig struct {
	BaseURL string
	Fetcher dashboard.JSONFetcher
	Logger  zerolog.Logger
}

// IPEA reads time series from the IPEAData OData API.
type IPEA struct {
	baseURL string
	fetcher dashboard.JSONFetcher
	logger  zerolog.Logger
}

// NewIPEA builds the adapter. A fetcher is required.
func NewIPEA(cfg IPEAConfig) (*IPEA, error) {
	if cfg.Fetcher == nil {
		return nil, fmt.Errorf("sources: ipea fetcher is required")
	}
	return &IPEA{
		baseURL: strings.TrimRight(cmp.Or(cfg.BaseURL, DefaultIPEABaseURL), "/"),
		fetcher: cfg.Fetcher,
		logger:  cfg.Logger,
	}, nil
}

var _ dashboard.SeriesSource = (*IPEA)(nil)

type odataResponse struct {
	Value []map[string]any `mapstructure:"value"`
}

// FetchSeries requests one series. A response without a value array is
// reported as an empty series so the caller can show it as unavailable.
func (s *IPEA) FetchSeries(ctx context.Context, q dashboard.SeriesQuery) (dashboard.RawSeries, bool) {
	req := dashboard.FetchRequest{
		URL:         s.SeriesURL(q.Code),
		Query:       ipeaQuery(q),
		RegionID:    q.RegionID,
		SourceLabel: cmp.Or(q.SourceLabel, "IPEAData-"+q.Code),
	}
	data, ok := s.fetcher.FetchJSON(ctx, req)
	if !ok {
		return dashboard.RawSeries{}, false
	}
	var resp odataResponse
	if err := mapstructure.Decode(data, &resp); err != nil {
		s.logger.Warn().Err(err).Str("series", q.Code).Msg("unexpected ipea payload")
		return dashboard.RawSeries{DateField: ipeaDateField, ValueField: ipeaValueField}, true
	}
	points := make([]dashboard.RawSeriesPoint, len(resp.Value))
	for i, record := range resp.Value {
		points[i] = dashboard.RawSeriesPoint(record)
	}
	return dashboard.RawSeries{
		Points:     points,
		DateField:  ipeaDateField,
		ValueField: ipeaValueField,
	}, true
}

// SeriesURL is the OData resource for one series code.
func (s *IPEA) SeriesURL(code string) string {
	return fmt.Sprintf("%s/ValoresSerie(SERCODIGO='%s')", s.baseURL, strings.ReplaceAll(code, "'", "''"))
}

func ipeaQuery(q dashboard.SeriesQuery) map[string]string {
	query := map[string]string{"$select": ipeaDateField + "," + ipeaValueField}
	switch q.Order {
	case dashboard.OrderAsc:
		query["$orderby"] = ipeaDateField + " asc"
	case dashboard.OrderDesc:
		query["$orderby"] = ipeaDateField + " desc"
	}
	if q.Top > 0 {
		query["$top"] = strconv.Itoa(q.Top)
	}
	return query
}
