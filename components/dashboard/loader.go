package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog"
)

// Loader fetches the data for one indicator and draws it into the
// indicator's region. Recoverable data problems are shown in the region and
// return nil; a returned error marks the whole indicator as failed.
type Loader interface {
	Load(ctx context.Context, lc LoadContext) error
}

// LoaderFunc adapts a function into a Loader.
type LoaderFunc func(ctx context.Context, lc LoadContext) error

// Load implements Loader.
func (fn LoaderFunc) Load(ctx context.Context, lc LoadContext) error {
	return fn(ctx, lc)
}

// LoadContext is everything a loader needs for one run.
type LoadContext struct {
	Definition IndicatorDefinition
	Sources    SourceSet
	Charts     *ChartRenderer
	Board      *RegionBoard
	Formatter  DateFormatter
	Messages   *Messages
	Locale     string
	Location   *time.Location
	Logger     zerolog.Logger
	Now        func() time.Time
}

// RegionID is the region the indicator draws into.
func (lc LoadContext) RegionID() string {
	return lc.Definition.RegionID()
}

// Title is the indicator title with placeholders expanded.
func (lc LoadContext) Title() string {
	return lc.Expand(lc.Definition.TitleFor(lc.Locale))
}

// ReferenceYear is the last complete calendar year.
func (lc LoadContext) ReferenceYear() int {
	return lc.now().Year() - 1
}

// Expand replaces {ref_year} and {year} in s.
func (lc LoadContext) Expand(s string) string {
	if !strings.Contains(s, "{") {
		return s
	}
	replacer := strings.NewReplacer(
		"{ref_year}", strconv.Itoa(lc.ReferenceYear()),
		"{year}", strconv.Itoa(lc.now().Year()),
	)
	return replacer.Replace(s)
}

// Unavailable shows the series-unavailable notice in the region.
func (lc LoadContext) Unavailable(ctx context.Context, codes ...string) {
	lc.Charts.Fail(ctx, lc.RegionID(), MsgSeriesUnavailable, lc.Title(), strings.Join(codes, ", "))
}

// DecodeOptions decodes the definition options into target.
func (lc LoadContext) DecodeOptions(target any) error {
	return decodeOptions(lc.Definition.Options, target)
}

func (lc LoadContext) now() time.Time {
	if lc.Now == nil {
		return time.Now()
	}
	return lc.Now()
}

func (lc LoadContext) logger() *zerolog.Logger {
	logger := lc.Logger.With().
		Str("indicator", lc.Definition.Code).
		Str("region", lc.RegionID()).
		Logger()
	return &logger
}

func decodeOptions(options map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return fmt.Errorf("dashboard: options decoder: %w", err)
	}
	if options == nil {
		options = map[string]any{}
	}
	if err := decoder.Decode(options); err != nil {
		return fmt.Errorf("dashboard: decode options: %w", err)
	}
	return nil
}

func defaultLoaders() map[IndicatorKind]Loader {
	return map[IndicatorKind]Loader{
		KindSeriesChart:   LoaderFunc(loadSeriesChart),
		KindAlignedChart:  LoaderFunc(loadAlignedChart),
		KindCategoryChart: LoaderFunc(loadCategoryChart),
		KindLatestTable:   LoaderFunc(loadLatestTable),
		KindStateTable:    LoaderFunc(loadStateTable),
	}
}
