package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Path    string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// HasErrors returns true if there are validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates gateway configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{
		errors: make(ValidationErrors, 0),
	}
}

// ValidateConfig validates a gateway configuration.
func ValidateConfig(config *GatewayConfig) error {
	return NewValidator().Validate(config)
}

// Validate validates the configuration and returns any errors.
// Pattern-level validation (regex compilation, capture reference
// checks) is the rule compiler's job; this validator covers the
// structural constraints the compiler assumes.
func (v *Validator) Validate(config *GatewayConfig) error {
	v.errors = make(ValidationErrors, 0)

	if config == nil {
		v.addError("", "configuration is nil")
		return v.errors
	}

	v.validateListener(&config.Listener)
	v.validateBackends(config.Backends)
	v.validateRules(config)
	v.validateObservability(&config.Observability)

	if v.errors.HasErrors() {
		return v.errors
	}
	return nil
}

func (v *Validator) addError(path, message string) {
	v.errors = append(v.errors, ValidationError{Path: path, Message: message})
}

func (v *Validator) validateListener(l *Listener) {
	if l.Port <= 0 || l.Port > 65535 {
		v.addError("listener.port", fmt.Sprintf("invalid port %d", l.Port))
	}
}

func (v *Validator) validateBackends(backends []Backend) {
	if len(backends) == 0 {
		v.addError("backends", "at least one backend is required")
	}

	seen := make(map[string]bool, len(backends))
	for i, b := range backends {
		path := fmt.Sprintf("backends[%d]", i)

		if b.Name == "" {
			v.addError(path+".name", "backend name is required")
		} else if seen[b.Name] {
			v.addError(path+".name", fmt.Sprintf("duplicate backend name %q", b.Name))
		}
		seen[b.Name] = true

		if b.Host == "" {
			v.addError(path+".host", "backend host is required")
		}
		if b.Port <= 0 || b.Port > 65535 {
			v.addError(path+".port", fmt.Sprintf("invalid port %d", b.Port))
		}
	}
}

func (v *Validator) validateRules(config *GatewayConfig) {
	if len(config.Rules) == 0 {
		v.addError("rules", "at least one routing rule is required")
	}

	seen := make(map[string]bool, len(config.Rules))
	for i, r := range config.Rules {
		path := fmt.Sprintf("rules[%d]", i)

		if r.Name == "" {
			v.addError(path+".name", "rule name is required")
		} else if seen[r.Name] {
			v.addError(path+".name", fmt.Sprintf("duplicate rule name %q", r.Name))
		}
		seen[r.Name] = true

		if r.Pattern == "" {
			v.addError(path+".pattern", "pattern is required")
		}

		switch r.Kind {
		case "", PatternKindLiteral, PatternKindRegex:
		default:
			v.addError(path+".kind", fmt.Sprintf("unknown pattern kind %q", r.Kind))
		}

		if r.Rewrite != "" && !r.IsRegex() {
			v.addError(path+".rewrite", "rewrite templates require a regex pattern")
		}

		if r.Backend == "" {
			v.addError(path+".backend", "backend reference is required")
		} else if _, ok := config.FindBackend(r.Backend); !ok {
			v.addError(path+".backend", fmt.Sprintf("unknown backend %q", r.Backend))
		}
	}
}

func (v *Validator) validateObservability(o *ObservabilityConfig) {
	if o.MetricsPort < 0 || o.MetricsPort > 65535 {
		v.addError("observability.metricsPort", fmt.Sprintf("invalid port %d", o.MetricsPort))
	}
	if o.HealthPort < 0 || o.HealthPort > 65535 {
		v.addError("observability.healthPort", fmt.Sprintf("invalid port %d", o.HealthPort))
	}
	if o.Tracing != nil && o.Tracing.Enabled && o.Tracing.OTLPEndpoint == "" {
		v.addError("observability.tracing.otlpEndpoint", "endpoint is required when tracing is enabled")
	}
}
