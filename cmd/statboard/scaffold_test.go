package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-statboard/components/dashboard"
)

func TestScaffoldCreatesManifest(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config", "indicators.yaml")
	cmd := &scaffoldCmd{
		Code:         "PNADC_TX_PARTICIP",
		Title:        "Taxa de Participação",
		Kind:         string(dashboard.KindSeriesChart),
		Section:      "mercado-de-trabalho",
		ManifestPath: path,
	}
	require.NoError(t, cmd.Run())

	doc, err := dashboard.ReadManifest(path)
	require.NoError(t, err)
	require.Len(t, doc.Indicators, 1)
	def := doc.Indicators[0]
	assert.Equal(t, "pnadc-tx-particip", def.Region)
	assert.Equal(t, dashboard.SourceIPEA, def.Source)
	assert.Equal(t, "PNADC_TX_PARTICIP", def.Options["series_code"])
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, "Mercado De Trabalho", doc.Sections[0].Title)
}

func TestScaffoldRejectsDuplicatesUnlessOverwrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "indicators.yaml")
	cmd := &scaffoldCmd{
		Code:         "idhm",
		Title:        "IDHM",
		Kind:         string(dashboard.KindCategoryChart),
		ManifestPath: path,
	}
	require.NoError(t, cmd.Run())
	require.Error(t, cmd.Run())

	cmd.Overwrite = true
	cmd.Title = "IDHM (2010)"
	require.NoError(t, cmd.Run())

	doc, err := dashboard.ReadManifest(path)
	require.NoError(t, err)
	require.Len(t, doc.Indicators, 1)
	assert.Equal(t, "IDHM (2010)", doc.Indicators[0].Title)
	assert.Equal(t, dashboard.SourceStatic, doc.Indicators[0].Source)
}

func TestScaffoldStartsFromDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "indicators.yaml")
	cmd := &scaffoldCmd{
		Code:         "pobreza_extrema",
		Title:        "Pobreza Extrema",
		Kind:         string(dashboard.KindLatestTable),
		Series:       []string{"PNADC12_EXTPOBREZA"},
		Section:      dashboard.SectionSocial,
		ManifestPath: path,
		Defaults:     true,
	}
	require.NoError(t, cmd.Run())

	doc, err := dashboard.ReadManifest(path)
	require.NoError(t, err)
	assert.Len(t, doc.Indicators, len(dashboard.DefaultIndicatorDefinitions())+1)
	assert.Len(t, doc.Sections, len(dashboard.DefaultSectionDefinitions()))
}

func TestStarterOptionsValidate(t *testing.T) {
	t.Parallel()

	validator := dashboard.NewJSONSchemaValidator()
	kinds := map[dashboard.IndicatorKind][]string{
		dashboard.KindSeriesChart:   nil,
		dashboard.KindAlignedChart:  {"SNIS_AGUAATEND", "SNIS_ESGOTOATEND"},
		dashboard.KindCategoryChart: nil,
		dashboard.KindLatestTable:   {"PNADC12_RDPCAP"},
		dashboard.KindStateTable:    nil,
	}
	for kind, series := range kinds {
		options, err := starterOptions(kind, "X", series)
		require.NoError(t, err, kind)
		assert.NoError(t, validator.Validate(dashboard.IndicatorDefinition{Code: "X", Kind: kind, Options: options}), kind)
	}

	_, err := starterOptions(dashboard.KindAlignedChart, "X", []string{"ONLY"})
	assert.Error(t, err)
	_, err = starterOptions(dashboard.KindLatestTable, "X", nil)
	assert.Error(t, err)
	_, err = starterOptions("radar", "X", nil)
	assert.Error(t, err)
}
