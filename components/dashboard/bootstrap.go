package dashboard

import (
	"errors"
	"fmt"
)

// RegisterDefaults adds the built-in sections and indicators to registry.
func RegisterDefaults(registry *Registry) error {
	if registry == nil {
		return errors.New("dashboard: registry is required to register defaults")
	}
	for _, section := range DefaultSectionDefinitions() {
		if err := registry.RegisterSection(section); err != nil {
			return fmt.Errorf("register section %s: %w", section.Code, err)
		}
	}
	var registerErr error
	for _, def := range DefaultIndicatorDefinitions() {
		if err := registry.RegisterDefinition(def); err != nil {
			registerErr = errors.Join(registerErr, fmt.Errorf("register indicator %s: %w", def.Code, err))
		}
	}
	return registerErr
}

// ValidateDefinitions checks every registered indicator against validator,
// the loaders in registry and the sources in sources.
func ValidateDefinitions(registry *Registry, validator ConfigValidator, sources SourceSet) error {
	if registry == nil {
		return errors.New("dashboard: registry is required")
	}
	if validator == nil {
		validator = noopConfigValidator{}
	}
	var errs []error
	for _, def := range registry.Definitions() {
		if err := validateDefinition(registry, validator, sources, def); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func validateDefinition(registry *Registry, validator ConfigValidator, sources SourceSet, def IndicatorDefinition) error {
	if _, ok := registry.Loader(def.Kind); !ok {
		return fmt.Errorf("dashboard: indicator %s: no loader for kind %q", def.Code, def.Kind)
	}
	if !sources.Has(def.Kind, def.Source) {
		return fmt.Errorf("dashboard: indicator %s: source %q not configured for kind %q", def.Code, def.Source, def.Kind)
	}
	return validator.Validate(def)
}
