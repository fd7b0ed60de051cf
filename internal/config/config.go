package config

import "time"

// Pattern kinds for routing rules.
const (
	// PatternKindLiteral marks a rule whose pattern is a literal path
	// prefix matched at segment boundaries.
	PatternKindLiteral = "literal"

	// PatternKindRegex marks a rule whose pattern is a regular
	// expression with positional capture groups.
	PatternKindRegex = "regex"
)

// Default listener timeouts.
const (
	DefaultReadTimeout       = 30 * time.Second
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultWriteTimeout      = 30 * time.Second
	DefaultIdleTimeout       = 120 * time.Second
	DefaultShutdownTimeout   = 30 * time.Second
)

// GatewayConfig is the root configuration for the edge gateway.
type GatewayConfig struct {
	Listener       Listener              `yaml:"listener" json:"listener"`
	Backends       []Backend             `yaml:"backends" json:"backends"`
	Rules          []RuleSpec            `yaml:"rules" json:"rules"`
	Observability  ObservabilityConfig   `yaml:"observability,omitempty" json:"observability,omitempty"`
	RateLimit      *RateLimitConfig      `yaml:"rateLimit,omitempty" json:"rateLimit,omitempty"`
	CircuitBreaker *CircuitBreakerConfig `yaml:"circuitBreaker,omitempty" json:"circuitBreaker,omitempty"`
}

// Listener represents the network listener configuration.
type Listener struct {
	Bind     string            `yaml:"bind,omitempty" json:"bind,omitempty"`
	Port     int               `yaml:"port" json:"port"`
	Timeouts *ListenerTimeouts `yaml:"timeouts,omitempty" json:"timeouts,omitempty"`
}

// ListenerTimeouts contains timeout configuration for the HTTP listener.
type ListenerTimeouts struct {
	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body.
	ReadTimeout Duration `yaml:"readTimeout,omitempty" json:"readTimeout,omitempty"`

	// ReadHeaderTimeout is the maximum duration for reading request headers.
	ReadHeaderTimeout Duration `yaml:"readHeaderTimeout,omitempty" json:"readHeaderTimeout,omitempty"`

	// WriteTimeout is the maximum duration before timing out writes of
	// the response.
	WriteTimeout Duration `yaml:"writeTimeout,omitempty" json:"writeTimeout,omitempty"`

	// IdleTimeout is the maximum duration to wait for the next request
	// when keep-alives are enabled.
	IdleTimeout Duration `yaml:"idleTimeout,omitempty" json:"idleTimeout,omitempty"`

	// ShutdownTimeout is the maximum duration to wait for in-flight
	// requests to drain during graceful shutdown.
	ShutdownTimeout Duration `yaml:"shutdownTimeout,omitempty" json:"shutdownTimeout,omitempty"`
}

// GetEffectiveReadTimeout returns the effective read timeout.
func (t *ListenerTimeouts) GetEffectiveReadTimeout() time.Duration {
	if t == nil || t.ReadTimeout == 0 {
		return DefaultReadTimeout
	}
	return t.ReadTimeout.Duration()
}

// GetEffectiveReadHeaderTimeout returns the effective read header timeout.
func (t *ListenerTimeouts) GetEffectiveReadHeaderTimeout() time.Duration {
	if t == nil || t.ReadHeaderTimeout == 0 {
		return DefaultReadHeaderTimeout
	}
	return t.ReadHeaderTimeout.Duration()
}

// GetEffectiveWriteTimeout returns the effective write timeout.
func (t *ListenerTimeouts) GetEffectiveWriteTimeout() time.Duration {
	if t == nil || t.WriteTimeout == 0 {
		return DefaultWriteTimeout
	}
	return t.WriteTimeout.Duration()
}

// GetEffectiveIdleTimeout returns the effective idle timeout.
func (t *ListenerTimeouts) GetEffectiveIdleTimeout() time.Duration {
	if t == nil || t.IdleTimeout == 0 {
		return DefaultIdleTimeout
	}
	return t.IdleTimeout.Duration()
}

// GetEffectiveShutdownTimeout returns the effective shutdown timeout.
func (t *ListenerTimeouts) GetEffectiveShutdownTimeout() time.Duration {
	if t == nil || t.ShutdownTimeout == 0 {
		return DefaultShutdownTimeout
	}
	return t.ShutdownTimeout.Duration()
}

// Backend represents a backend service the gateway forwards to. The
// gateway treats backends as opaque network endpoints: no health
// probing or load balancing happens here.
type Backend struct {
	Name string `yaml:"name" json:"name"`
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
}

// RuleSpec is the declarative form of a routing rule. At startup and
// on reload the rule compiler turns the full rule list into an
// immutable, precedence-ordered rule set.
type RuleSpec struct {
	// Name identifies the rule in logs and metrics.
	Name string `yaml:"name" json:"name"`

	// Kind selects the pattern kind: "literal" (default) or "regex".
	Kind string `yaml:"kind,omitempty" json:"kind,omitempty"`

	// Pattern is a path prefix for literal rules or a regular
	// expression with capture groups for regex rules.
	Pattern string `yaml:"pattern" json:"pattern"`

	// Rewrite is an optional template with positional capture
	// references ($1, $2, ...). Absent means the matched path is
	// forwarded unmodified.
	Rewrite string `yaml:"rewrite,omitempty" json:"rewrite,omitempty"`

	// Backend names the backend this rule forwards to.
	Backend string `yaml:"backend" json:"backend"`
}

// IsRegex reports whether the rule uses a regex pattern.
func (r *RuleSpec) IsRegex() bool {
	return r.Kind == PatternKindRegex
}

// ObservabilityConfig groups logging, metrics, tracing, and health
// endpoint configuration.
type ObservabilityConfig struct {
	LogLevel    string         `yaml:"logLevel,omitempty" json:"logLevel,omitempty"`
	LogFormat   string         `yaml:"logFormat,omitempty" json:"logFormat,omitempty"`
	MetricsPort int            `yaml:"metricsPort,omitempty" json:"metricsPort,omitempty"`
	MetricsPath string         `yaml:"metricsPath,omitempty" json:"metricsPath,omitempty"`
	HealthPort  int            `yaml:"healthPort,omitempty" json:"healthPort,omitempty"`
	Tracing     *TracingConfig `yaml:"tracing,omitempty" json:"tracing,omitempty"`
}

// TracingConfig configures OpenTelemetry tracing.
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	OTLPEndpoint string  `yaml:"otlpEndpoint,omitempty" json:"otlpEndpoint,omitempty"`
	SampleRate   float64 `yaml:"sampleRate,omitempty" json:"sampleRate,omitempty"`
	ServiceName  string  `yaml:"serviceName,omitempty" json:"serviceName,omitempty"`
}

// RateLimitConfig configures gateway-level rate limiting.
type RateLimitConfig struct {
	Enabled   bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	RPS       int  `yaml:"rps,omitempty" json:"rps,omitempty"`
	Burst     int  `yaml:"burst,omitempty" json:"burst,omitempty"`
	PerClient bool `yaml:"perClient,omitempty" json:"perClient,omitempty"`
}

// CircuitBreakerConfig configures the circuit breaker on the
// forwarding path.
type CircuitBreakerConfig struct {
	Enabled   bool     `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	Threshold int      `yaml:"threshold,omitempty" json:"threshold,omitempty"`
	Timeout   Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// GetMetricsPath returns the metrics endpoint path, defaulting to
// "/metrics".
func (o *ObservabilityConfig) GetMetricsPath() string {
	if o == nil || o.MetricsPath == "" {
		return "/metrics"
	}
	return o.MetricsPath
}

// FindBackend returns the backend with the given name.
func (c *GatewayConfig) FindBackend(name string) (Backend, bool) {
	for _, b := range c.Backends {
		if b.Name == name {
			return b, true
		}
	}
	return Backend{}, false
}
