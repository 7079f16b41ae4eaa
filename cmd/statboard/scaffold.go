package main

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ettle/strcase"

	"github.com/goliatone/go-statboard/components/dashboard"
)

type scaffoldCmd struct {
	Code         string   `required:"" help:"Indicator code (e.g. PNADC_TX_DESOCUP)."`
	Title        string   `required:"" help:"Indicator title; {ref_year} expands to the reference year."`
	Kind         string   `required:"" enum:"series_chart,aligned_chart,category_chart,latest_table,state_table" help:"Loader kind."`
	Source       string   `help:"Data source name (defaults per kind)."`
	Section      string   `help:"Section code the indicator belongs to."`
	SectionTitle string   `name:"section-title" help:"Title for a section that does not exist yet."`
	Region       string   `help:"Region id (defaults to the kebab-cased code)."`
	Series       []string `help:"Series codes for aligned charts and latest tables."`
	Notes        string   `help:"Markdown note rendered under the indicator."`
	ManifestPath string   `name:"manifest" required:"" help:"Manifest YAML file to create or update."`
	Defaults     bool     `help:"Start a new manifest from the built-in catalogue."`
	Overwrite    bool     `help:"Replace an existing indicator with the same code."`
}

func (cmd *scaffoldCmd) Run() error {
	path, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("statboard: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(path, cmd.Defaults)
	if err != nil {
		return err
	}
	def, err := cmd.apply(doc)
	if err != nil {
		return err
	}
	if err := writeManifest(path, doc); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Added %s (%s, region %s) to %s\n", def.Code, def.Kind, def.RegionID(), path)
	return nil
}

// apply adds the indicator described by cmd to doc and validates the
// result.
func (cmd *scaffoldCmd) apply(doc *dashboard.IndicatorManifestDocument) (dashboard.IndicatorDefinition, error) {
	def, err := cmd.definition()
	if err != nil {
		return def, err
	}
	idx := slices.IndexFunc(doc.Indicators, func(d dashboard.IndicatorDefinition) bool { return d.Code == def.Code })
	switch {
	case idx >= 0 && !cmd.Overwrite:
		return def, fmt.Errorf("statboard: manifest already defines indicator %s (use --overwrite to replace)", def.Code)
	case idx >= 0:
		doc.Indicators[idx] = def
	default:
		doc.Indicators = append(doc.Indicators, def)
	}
	if def.Section != "" && !slices.ContainsFunc(doc.Sections, func(s dashboard.SectionDefinition) bool { return s.Code == def.Section }) {
		doc.Sections = append(doc.Sections, dashboard.SectionDefinition{
			Code:  def.Section,
			Title: cmp.Or(cmd.SectionTitle, strcase.ToCase(def.Section, strcase.TitleCase, ' ')),
		})
	}
	if err := doc.Validate(); err != nil {
		return def, err
	}
	if err := dashboard.NewJSONSchemaValidator().Validate(def); err != nil {
		return def, err
	}
	return def, nil
}

func (cmd *scaffoldCmd) definition() (dashboard.IndicatorDefinition, error) {
	code := strings.TrimSpace(cmd.Code)
	if code == "" {
		return dashboard.IndicatorDefinition{}, errors.New("statboard: indicator code is required")
	}
	kind := dashboard.IndicatorKind(cmd.Kind)
	options, err := starterOptions(kind, code, cmd.Series)
	if err != nil {
		return dashboard.IndicatorDefinition{}, err
	}
	return dashboard.IndicatorDefinition{
		Code:    code,
		Region:  cmp.Or(cmd.Region, strcase.ToKebab(strings.ReplaceAll(code, ".", "_"))),
		Section: cmd.Section,
		Kind:    kind,
		Source:  cmp.Or(cmd.Source, defaultSource(kind)),
		Title:   cmd.Title,
		Notes:   cmd.Notes,
		Options: options,
	}, nil
}

func defaultSource(kind dashboard.IndicatorKind) string {
	switch kind {
	case dashboard.KindCategoryChart:
		return dashboard.SourceStatic
	case dashboard.KindStateTable:
		return dashboard.SourcePlaceholder
	default:
		return dashboard.SourceIPEA
	}
}

// starterOptions returns options that pass validation and show where the
// real values go.
func starterOptions(kind dashboard.IndicatorKind, code string, series []string) (map[string]any, error) {
	switch kind {
	case dashboard.KindSeriesChart:
		return map[string]any{
			"chart":        string(dashboard.ChartLine),
			"series_code":  cmp.Or(firstOf(series), code),
			"date_pattern": string(dashboard.PatternYearOnly),
			"x_axis_label": "Ano",
		}, nil
	case dashboard.KindAlignedChart:
		if len(series) < 2 {
			return nil, errors.New("statboard: aligned charts need at least two --series")
		}
		items := make([]any, len(series))
		for i, s := range series {
			items[i] = map[string]any{"code": s, "label": s}
		}
		return map[string]any{
			"chart":  string(dashboard.ChartLine),
			"bucket": "year",
			"legend": string(dashboard.LegendBottom),
			"series": items,
		}, nil
	case dashboard.KindCategoryChart:
		return map[string]any{
			"chart":      string(dashboard.ChartBar),
			"categories": []any{map[string]any{"label": "Exemplo", "value": 1}},
		}, nil
	case dashboard.KindLatestTable:
		if len(series) == 0 {
			return nil, errors.New("statboard: latest tables need at least one --series")
		}
		rows := make([]any, len(series))
		for i, s := range series {
			rows[i] = map[string]any{"label": s, "code": s}
		}
		return map[string]any{"rows": rows}, nil
	case dashboard.KindStateTable:
		return map[string]any{
			"states": []any{"SP"},
			"metrics": []any{
				map[string]any{"field": "homicidio_doloso", "label": "Homicídio Doloso", "min": 0, "max": 100},
			},
		}, nil
	default:
		return nil, fmt.Errorf("statboard: unknown indicator kind %q", kind)
	}
}

func firstOf(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func loadOrInitManifest(path string, defaults bool) (*dashboard.IndicatorManifestDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if defaults {
				doc := dashboard.DefaultManifest()
				doc.Source = path
				return doc, nil
			}
			return &dashboard.IndicatorManifestDocument{
				Version: dashboard.ManifestVersion,
				Source:  path,
			}, nil
		}
		return nil, fmt.Errorf("statboard: stat manifest: %w", err)
	}
	return dashboard.ReadManifest(path)
}

func writeManifest(path string, doc *dashboard.IndicatorManifestDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("statboard: mkdir %s: %w", filepath.Dir(path), err)
	}
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("statboard: create manifest %s: %w", path, err)
	}
	defer file.Close()
	return encodeManifest(file, doc)
}

func encodeManifest(w io.Writer, doc *dashboard.IndicatorManifestDocument) error {
	out := *doc
	out.Source = ""
	return dashboard.EncodeManifest(w, &out)
}
