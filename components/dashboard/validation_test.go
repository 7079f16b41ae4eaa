package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONSchemaValidatorIndicatorOptions(t *testing.T) {
	t.Parallel()

	validator := NewJSONSchemaValidator()
	cases := map[string]struct {
		def   IndicatorDefinition
		valid bool
	}{
		"series defaults": {
			def:   IndicatorDefinition{Code: "s", Kind: KindSeriesChart},
			valid: true,
		},
		"unknown chart kind": {
			def:   IndicatorDefinition{Code: "s", Kind: KindSeriesChart, Options: map[string]any{"chart": "doughnut"}},
			valid: false,
		},
		"aligned without series": {
			def:   IndicatorDefinition{Code: "a", Kind: KindAlignedChart},
			valid: false,
		},
		"aligned series missing code": {
			def: IndicatorDefinition{Code: "a", Kind: KindAlignedChart, Options: map[string]any{
				"series": []any{map[string]any{"label": "x"}},
			}},
			valid: false,
		},
		"latest digits out of range": {
			def: IndicatorDefinition{Code: "l", Kind: KindLatestTable, Options: map[string]any{
				"rows": []any{map[string]any{"label": "x", "code": "Y", "digits": 9}},
			}},
			valid: false,
		},
		"state table": {
			def: IndicatorDefinition{Code: "st", Kind: KindStateTable, Options: map[string]any{
				"states":  []string{"SP"},
				"metrics": []any{map[string]any{"field": "f", "label": "F"}},
			}},
			valid: true,
		},
		"category value must be numeric": {
			def: IndicatorDefinition{Code: "c", Kind: KindCategoryChart, Options: map[string]any{
				"categories": []any{map[string]any{"label": "Sul", "value": "alto"}},
			}},
			valid: false,
		},
		"kind without schema": {
			def:   IndicatorDefinition{Code: "x", Kind: "custom", Options: map[string]any{"anything": 1}},
			valid: true,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			err := validator.Validate(tc.def)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestJSONSchemaValidatorDefaultsAreValid(t *testing.T) {
	t.Parallel()

	validator := NewJSONSchemaValidator()
	for _, def := range DefaultIndicatorDefinitions() {
		assert.NoErrorf(t, validator.Validate(def), "indicator %s", def.Code)
	}
}

func TestJSONSchemaValidatorCachesCompiledSchemas(t *testing.T) {
	t.Parallel()

	validator := NewJSONSchemaValidator()
	def := IndicatorDefinition{Code: "s", Kind: KindSeriesChart}
	require.NoError(t, validator.Validate(def))
	require.NoError(t, validator.Validate(def))
	assert.Len(t, validator.compiled, 1)

	validator.RegisterSchema(KindSeriesChart, map[string]any{
		"type":     "object",
		"required": []string{"series_code"},
	})
	assert.Empty(t, validator.compiled)
	assert.Error(t, validator.Validate(def))
}
