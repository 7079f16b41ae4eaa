package dashboard

import (
	"strings"

	"github.com/ettle/strcase"
)

// IndicatorKind selects the loader that turns an indicator into a region.
type IndicatorKind string

const (
	KindSeriesChart   IndicatorKind = "series_chart"
	KindAlignedChart  IndicatorKind = "aligned_chart"
	KindCategoryChart IndicatorKind = "category_chart"
	KindLatestTable   IndicatorKind = "latest_table"
	KindStateTable    IndicatorKind = "state_table"
)

// IndicatorDefinition describes one dashboard indicator: where its data
// comes from, which loader draws it and the region it lands in.
type IndicatorDefinition struct {
	Code           string            `json:"code" yaml:"code"`
	Region         string            `json:"region,omitempty" yaml:"region,omitempty"`
	Section        string            `json:"section,omitempty" yaml:"section,omitempty"`
	Kind           IndicatorKind     `json:"kind" yaml:"kind"`
	Source         string            `json:"source" yaml:"source"`
	Title          string            `json:"title" yaml:"title"`
	TitleLocalized map[string]string `json:"title_localized,omitempty" yaml:"title_localized,omitempty"`
	Notes          string            `json:"notes,omitempty" yaml:"notes,omitempty"`
	Options        map[string]any    `json:"options,omitempty" yaml:"options,omitempty"`
}

// RegionID returns the region the indicator renders into. It defaults to the
// kebab-cased code.
func (d IndicatorDefinition) RegionID() string {
	if region := strings.TrimSpace(d.Region); region != "" {
		return region
	}
	return strcase.ToKebab(strings.ReplaceAll(d.Code, ".", "_"))
}

// RegionKind maps the indicator kind to the region behaviour.
func (d IndicatorDefinition) RegionKind() RegionKind {
	switch d.Kind {
	case KindLatestTable, KindStateTable:
		return RegionTable
	default:
		return RegionChart
	}
}

// TitleFor resolves the title for locale.
func (d IndicatorDefinition) TitleFor(locale string) string {
	return ResolveLocalizedValue(d.TitleLocalized, locale, d.Title)
}

// SectionDefinition groups indicators on the page.
type SectionDefinition struct {
	Code           string            `json:"code" yaml:"code"`
	Title          string            `json:"title" yaml:"title"`
	TitleLocalized map[string]string `json:"title_localized,omitempty" yaml:"title_localized,omitempty"`
	Description    string            `json:"description,omitempty" yaml:"description,omitempty"`
}

// TitleFor resolves the title for locale.
func (s SectionDefinition) TitleFor(locale string) string {
	return ResolveLocalizedValue(s.TitleLocalized, locale, s.Title)
}

// ViewerContext captures the locale a page is rendered for.
type ViewerContext struct {
	UserID string
	Locale string
}
