package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ConfigValidator validates indicator options before a loader sees them.
type ConfigValidator interface {
	Validate(def IndicatorDefinition) error
}

// JSONSchemaValidator compiles one schema per indicator kind and validates
// the options of each definition against it.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	schemas  map[IndicatorKind]map[string]any
	compiled map[IndicatorKind]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5 using the
// built-in option schemas.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		schemas:  IndicatorOptionSchemas(),
		compiled: make(map[IndicatorKind]*jsonschema.Schema),
	}
}

// RegisterSchema sets (or replaces) the options schema for kind.
func (v *JSONSchemaValidator) RegisterSchema(kind IndicatorKind, schema map[string]any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.schemas[kind] = schema
	delete(v.compiled, kind)
}

// Validate ensures the definition options satisfy the schema of its kind.
// Kinds without a schema accept any options.
func (v *JSONSchemaValidator) Validate(def IndicatorDefinition) error {
	schema, err := v.schemaFor(def.Kind)
	if err != nil || schema == nil {
		return err
	}
	var payload map[string]any
	if def.Options == nil {
		payload = map[string]any{}
	} else {
		data, err := json.Marshal(def.Options)
		if err != nil {
			return fmt.Errorf("dashboard: marshal options for %s: %w", def.Code, err)
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("dashboard: normalize options for %s: %w", def.Code, err)
		}
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("dashboard: options for %s failed validation: %w", def.Code, err)
	}
	return nil
}

func (v *JSONSchemaValidator) schemaFor(kind IndicatorKind) (*jsonschema.Schema, error) {
	v.mu.RLock()
	schema, ok := v.compiled[kind]
	raw, known := v.schemas[kind]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	if !known || len(raw) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("dashboard: marshal schema %s: %w", kind, err)
	}
	compiler := jsonschema.NewCompiler()
	name := string(kind) + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("dashboard: load schema %s: %w", kind, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("dashboard: compile schema %s: %w", kind, err)
	}
	v.mu.Lock()
	v.compiled[kind] = compiled
	v.mu.Unlock()
	return compiled, nil
}

type noopConfigValidator struct{}

func (noopConfigValidator) Validate(IndicatorDefinition) error { return nil }

// IndicatorOptionSchemas returns the built-in JSON schemas for indicator
// options, keyed by kind.
func IndicatorOptionSchemas() map[IndicatorKind]map[string]any {
	return map[IndicatorKind]map[string]any{
		KindSeriesChart: {
			"type": "object",
			"properties": mergeProperties(chartOptionProperties(), map[string]any{
				"series_code":   map[string]any{"type": "string", "minLength": 1},
				"dataset_label": map[string]any{"type": "string"},
				"date_pattern":  datePatternSchema(),
				"color":         map[string]any{"type": "string"},
				"fill":          map[string]any{"type": "boolean"},
				"dedupe":        map[string]any{"type": "string", "enum": []string{"keep", "last", "last_wins"}},
			}),
		},
		KindAlignedChart: {
			"type":     "object",
			"required": []string{"series"},
			"properties": mergeProperties(chartOptionProperties(), map[string]any{
				"bucket": map[string]any{"type": "string", "enum": []string{"year", "month"}},
				"series": map[string]any{
					"type":     "array",
					"minItems": 1,
					"items": map[string]any{
						"type":     "object",
						"required": []string{"code"},
						"properties": map[string]any{
							"code":  map[string]any{"type": "string", "minLength": 1},
							"label": map[string]any{"type": "string"},
							"color": map[string]any{"type": "string"},
							"fill":  map[string]any{"type": "boolean"},
						},
					},
				},
			}),
		},
		KindCategoryChart: {
			"type": "object",
			"properties": mergeProperties(chartOptionProperties(), map[string]any{
				"dataset_label": map[string]any{"type": "string"},
				"color":         map[string]any{"type": "string"},
				"colors":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"categories": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":     "object",
						"required": []string{"label"},
						"properties": map[string]any{
							"label": map[string]any{"type": "string", "minLength": 1},
							"value": map[string]any{"type": "number"},
							"min":   map[string]any{"type": "number"},
							"max":   map[string]any{"type": "number"},
						},
					},
				},
			}),
		},
		KindLatestTable: {
			"type":     "object",
			"required": []string{"rows"},
			"properties": map[string]any{
				"columns": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"rows": map[string]any{
					"type":     "array",
					"minItems": 1,
					"items": map[string]any{
						"type":     "object",
						"required": []string{"label", "code"},
						"properties": map[string]any{
							"label":  map[string]any{"type": "string"},
							"code":   map[string]any{"type": "string", "minLength": 1},
							"digits": map[string]any{"type": "integer", "minimum": 0, "maximum": 6},
						},
					},
				},
			},
		},
		KindStateTable: {
			"type":     "object",
			"required": []string{"states", "metrics"},
			"properties": map[string]any{
				"states":       map[string]any{"type": "array", "minItems": 1, "items": map[string]any{"type": "string", "minLength": 2}},
				"year":         map[string]any{"type": "integer", "minimum": 1900},
				"source_label": map[string]any{"type": "string"},
				"metrics": map[string]any{
					"type":     "array",
					"minItems": 1,
					"items": map[string]any{
						"type":     "object",
						"required": []string{"field", "label"},
						"properties": map[string]any{
							"field": map[string]any{"type": "string", "minLength": 1},
							"label": map[string]any{"type": "string"},
							"min":   map[string]any{"type": "number"},
							"max":   map[string]any{"type": "number"},
						},
					},
				},
			},
		},
	}
}

func chartOptionProperties() map[string]any {
	return map[string]any{
		"chart":         map[string]any{"type": "string", "enum": []string{string(ChartBar), string(ChartLine), string(ChartPie)}},
		"horizontal":    map[string]any{"type": "boolean"},
		"begin_at_zero": map[string]any{"type": "boolean"},
		"min":           map[string]any{"type": "number"},
		"max":           map[string]any{"type": "number"},
		"x_axis_label":  map[string]any{"type": "string"},
		"y_axis_label":  map[string]any{"type": "string"},
		"legend":        map[string]any{"type": "string", "enum": []string{"", string(LegendTop), string(LegendBottom), string(LegendHidden)}},
		"theme":         map[string]any{"type": "string"},
		"height":        map[string]any{"type": "string"},
		"source_label":  map[string]any{"type": "string"},
	}
}

func datePatternSchema() map[string]any {
	return map[string]any{
		"type": "string",
		"enum": []string{
			string(PatternDayMonthYear),
			string(PatternMonthYear),
			string(PatternYearOnly),
			string(PatternHourMinute),
		},
	}
}

func mergeProperties(base, extra map[string]any) map[string]any {
	for k, v := range extra {
		base[k] = v
	}
	return base
}
