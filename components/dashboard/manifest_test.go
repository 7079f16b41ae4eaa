package dashboard

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `
version: "1"
name: regional-pack
sections:
  - code: economia
    title: Economia
    title_localized:
      en: Economy
indicators:
  - code: PNADC_TX_DESOCUP
    region: desocupacao-nordeste
    section: economia
    kind: series_chart
    source: ipea
    title: Desocupação ({ref_year})
    notes: Fonte IPEAData
    options:
      chart: bar
      date_pattern: year-only
  - code: idhm
    kind: category_chart
    source: static
    title: IDHM
    options:
      categories:
        - label: Norte
          value: 0.667
`

func TestDecodeManifest(t *testing.T) {
	t.Parallel()

	doc, err := DecodeManifest(strings.NewReader(sampleManifest))
	require.NoError(t, err)
	require.Len(t, doc.Sections, 1)
	require.Len(t, doc.Indicators, 2)

	first := doc.Indicators[0]
	assert.Equal(t, "desocupacao-nordeste", first.RegionID())
	assert.Equal(t, KindSeriesChart, first.Kind)
	assert.Equal(t, "bar", first.Options["chart"])
	assert.Equal(t, "Economy", doc.Sections[0].TitleFor("en"))
	assert.Equal(t, "idhm", doc.Indicators[1].RegionID())
}

func TestDecodeManifestRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	_, err := DecodeManifest(strings.NewReader(`
indicators:
  - code: x
    kind: series_chart
    source: ipea
    title: X
    widget: true
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "widget")
}

func TestManifestValidation(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		payload string
		want    string
	}{
		"duplicate code": {
			payload: `
indicators:
  - {code: dup, kind: series_chart, source: ipea, title: A}
  - {code: dup, kind: series_chart, source: ipea, title: B, region: other}
`,
			want: "duplicates indicator code dup",
		},
		"shared region": {
			payload: `
indicators:
  - {code: a, region: same, kind: series_chart, source: ipea, title: A}
  - {code: b, region: same, kind: series_chart, source: ipea, title: B}
`,
			want: "share region same",
		},
		"missing source": {
			payload: `
indicators:
  - {code: a, kind: series_chart, title: A}
`,
			want: "missing source",
		},
		"unknown section": {
			payload: `
sections:
  - {code: one, title: One}
indicators:
  - {code: a, section: two, kind: series_chart, source: ipea, title: A}
`,
			want: "unknown section two",
		},
		"bad version": {
			payload: `
version: "2"
indicators: []
`,
			want: "unsupported manifest version",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := DecodeManifest(strings.NewReader(tc.payload))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestDecodeManifestEmpty(t *testing.T) {
	t.Parallel()

	_, err := DecodeManifest(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "manifest is empty")
}

func TestRegistryLoadManifestFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "pack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleManifest), 0o600))

	reg := NewRegistry()
	doc, err := reg.LoadManifestFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Source)

	def, ok := reg.Definition("PNADC_TX_DESOCUP")
	require.True(t, ok)
	assert.Equal(t, "economia", def.Section)
	byRegion, ok := reg.DefinitionByRegion("desocupacao-nordeste")
	require.True(t, ok)
	assert.Equal(t, def.Code, byRegion.Code)
	assert.Len(t, reg.Sections(), 1)
}

func TestDefaultManifestEncodes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, EncodeManifest(&buf, DefaultManifest()))

	doc, err := DecodeManifest(&buf)
	require.NoError(t, err)
	assert.Len(t, doc.Indicators, len(DefaultIndicatorDefinitions()))
	assert.Len(t, doc.Sections, len(DefaultSectionDefinitions()))
	validator := NewJSONSchemaValidator()
	for _, def := range doc.Indicators {
		assert.NoErrorf(t, validator.Validate(def), "indicator %s", def.Code)
	}
}
