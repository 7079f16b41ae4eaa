package dashboard

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// IndicatorManifestDocument models a YAML/JSON manifest describing sections
// and indicators.
type IndicatorManifestDocument struct {
	Version    string                `json:"version" yaml:"version"`
	Name       string                `json:"name,omitempty" yaml:"name,omitempty"`
	Title      string                `json:"title,omitempty" yaml:"title,omitempty"`
	Sections   []SectionDefinition   `json:"sections,omitempty" yaml:"sections,omitempty"`
	Indicators []IndicatorDefinition `json:"indicators" yaml:"indicators"`
	Source     string                `json:"-" yaml:"-"`
}

// LoadManifestFile reads a manifest from disk, registers it against the registry, and returns the document.
func (r *Registry) LoadManifestFile(path string) (*IndicatorManifestDocument, error) {
	doc, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	if err := r.LoadManifestDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadManifestDocument registers sections and indicators from a decoded manifest.
func (r *Registry) LoadManifestDocument(doc *IndicatorManifestDocument) error {
	if doc == nil {
		return fmt.Errorf("dashboard: manifest document is nil")
	}
	for _, section := range doc.Sections {
		if err := r.RegisterSection(section); err != nil {
			return fmt.Errorf("dashboard: register section %s from %s: %w", section.Code, doc.Source, err)
		}
	}
	for _, def := range doc.Indicators {
		if err := r.RegisterDefinition(def); err != nil {
			return fmt.Errorf("dashboard: register indicator %s from %s: %w", def.Code, doc.Source, err)
		}
	}
	return nil
}

// ReadManifest loads a manifest file from disk without registering it.
func ReadManifest(path string) (*IndicatorManifestDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("dashboard: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("dashboard: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader.
func DecodeManifest(r io.Reader) (*IndicatorManifestDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc IndicatorManifestDocument
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("dashboard: manifest is empty")
		}
		return nil, fmt.Errorf("dashboard: parse manifest: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// EncodeManifest writes doc as YAML.
func EncodeManifest(w io.Writer, doc *IndicatorManifestDocument) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("dashboard: encode manifest: %w", err)
	}
	return encoder.Close()
}

// DefaultManifest returns the built-in catalogue as a manifest document.
func DefaultManifest() *IndicatorManifestDocument {
	return &IndicatorManifestDocument{
		Version:    manifestVersionV1,
		Name:       "statboard",
		Title:      defaultTitle,
		Sections:   DefaultSectionDefinitions(),
		Indicators: DefaultIndicatorDefinitions(),
	}
}

// Validate ensures the manifest satisfies required fields.
func (doc *IndicatorManifestDocument) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("dashboard: unsupported manifest version %q", doc.Version)
	}
	sections := make(map[string]struct{}, len(doc.Sections))
	for idx, section := range doc.Sections {
		if section.Code == "" {
			return fmt.Errorf("dashboard: manifest section at index %d is missing code", idx)
		}
		if _, exists := sections[section.Code]; exists {
			return fmt.Errorf("dashboard: manifest duplicates section code %s", section.Code)
		}
		sections[section.Code] = struct{}{}
	}
	seen := make(map[string]struct{}, len(doc.Indicators))
	regions := make(map[string]string, len(doc.Indicators))
	for idx, def := range doc.Indicators {
		if def.Code == "" {
			return fmt.Errorf("dashboard: manifest indicator at index %d is missing code", idx)
		}
		if def.Kind == "" {
			return fmt.Errorf("dashboard: manifest indicator %s missing kind", def.Code)
		}
		if def.Source == "" {
			return fmt.Errorf("dashboard: manifest indicator %s missing source", def.Code)
		}
		if def.Title == "" {
			return fmt.Errorf("dashboard: manifest indicator %s missing title", def.Code)
		}
		if _, exists := seen[def.Code]; exists {
			return fmt.Errorf("dashboard: manifest duplicates indicator code %s", def.Code)
		}
		seen[def.Code] = struct{}{}
		if other, exists := regions[def.RegionID()]; exists {
			return fmt.Errorf("dashboard: manifest indicators %s and %s share region %s", other, def.Code, def.RegionID())
		}
		regions[def.RegionID()] = def.Code
		if def.Section != "" && len(doc.Sections) > 0 {
			if _, ok := sections[def.Section]; !ok {
				return fmt.Errorf("dashboard: manifest indicator %s references unknown section %s", def.Code, def.Section)
			}
		}
	}
	return nil
}

func (doc *IndicatorManifestDocument) applyDefaults() {
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
}
