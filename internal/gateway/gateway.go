package gateway

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/Denyme24/edgegw/internal/config"
	"github.com/Denyme24/edgegw/internal/middleware"
	"github.com/Denyme24/edgegw/internal/observability"
	"github.com/Denyme24/edgegw/internal/proxy"
	"github.com/Denyme24/edgegw/internal/router"
)

// State represents the gateway state.
type State int32

const (
	// StateStopped indicates the gateway is stopped.
	StateStopped State = iota
	// StateStarting indicates the gateway is starting.
	StateStarting
	// StateRunning indicates the gateway is running.
	StateRunning
	// StateStopping indicates the gateway is stopping.
	StateStopping
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// Gateway is the main gateway instance. It owns the HTTP listener and
// the routing table whose rule set is swapped on reload.
type Gateway struct {
	config  *config.GatewayConfig
	logger  observability.Logger
	metrics *observability.Metrics
	tracer  *observability.Tracer
	table   *router.Table

	server      *http.Server
	rateLimiter *middleware.RateLimiter
	state       atomic.Int32
	startTime   time.Time

	shutdownTimeout time.Duration
}

// Option is a functional option for configuring the gateway.
type Option func(*Gateway)

// WithLogger sets the logger for the gateway.
func WithLogger(logger observability.Logger) Option {
	return func(g *Gateway) {
		g.logger = logger
	}
}

// WithMetrics sets the metrics collector for the gateway.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(g *Gateway) {
		g.metrics = metrics
	}
}

// WithTracer sets the tracer for the gateway.
func WithTracer(tracer *observability.Tracer) Option {
	return func(g *Gateway) {
		g.tracer = tracer
	}
}

// WithShutdownTimeout sets the shutdown timeout.
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(g *Gateway) {
		g.shutdownTimeout = timeout
	}
}

// New creates a new Gateway instance. The initial rule set is
// compiled from cfg; a configuration that fails to compile never
// produces a gateway.
func New(cfg *config.GatewayConfig, opts ...Option) (*Gateway, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}

	g := &Gateway{
		config:          cfg,
		logger:          observability.NopLogger(),
		shutdownTimeout: cfg.Listener.Timeouts.GetEffectiveShutdownTimeout(),
	}

	for _, opt := range opts {
		opt(g)
	}

	ruleSet, err := router.CompileConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to compile routing rules: %w", err)
	}

	tableOpts := []router.TableOption{}
	if g.metrics != nil {
		routerMetrics := router.NewMetrics("")
		for _, c := range routerMetrics.Collectors() {
			if err := g.metrics.RegisterCollector(c); err != nil {
				return nil, fmt.Errorf("failed to register router metrics: %w", err)
			}
		}
		tableOpts = append(tableOpts, router.WithTableMetrics(routerMetrics))
	}
	g.table = router.NewTable(ruleSet, tableOpts...)

	g.state.Store(int32(StateStopped))

	return g, nil
}

// Table returns the routing table. Reload workers swap new rule sets
// through it.
func (g *Gateway) Table() *router.Table {
	return g.table
}

// State returns the current gateway state.
func (g *Gateway) State() State {
	return State(g.state.Load())
}

// buildHandler assembles the middleware chain around the reverse
// proxy. The execution order (outermost executes first):
// Recovery -> RequestID -> Logging -> Tracing -> Metrics ->
// CircuitBreaker -> RateLimit -> [proxy]
func (g *Gateway) buildHandler() http.Handler {
	p := proxy.NewReverseProxy(g.table, proxy.WithProxyLogger(g.logger))

	var h http.Handler = p

	rateLimitMiddleware, rateLimiter := middleware.RateLimitFromConfig(g.config.RateLimit, g.logger)
	g.rateLimiter = rateLimiter
	h = rateLimitMiddleware(h)

	var cbOpts []middleware.CircuitBreakerOption
	if g.metrics != nil {
		cbOpts = append(cbOpts, middleware.WithCircuitBreakerStateCallback(
			func(name string, state int) {
				g.metrics.SetCircuitBreakerState(name, state)
			},
		))
	}
	cbMiddleware, _ := middleware.CircuitBreakerFromConfig(g.config.CircuitBreaker, g.logger, cbOpts...)
	h = cbMiddleware(h)

	if g.metrics != nil {
		h = observability.MetricsMiddleware(g.metrics)(h)
	}
	if g.tracer != nil {
		h = observability.TracingMiddleware(g.tracer)(h)
	}
	h = middleware.Logging(g.logger)(h)
	h = middleware.RequestID()(h)
	h = middleware.Recovery(g.logger)(h)

	return h
}

// Start starts the gateway listener. It returns once the listener is
// accepting connections; serve errors are reported on the returned
// channel.
func (g *Gateway) Start(ctx context.Context) (<-chan error, error) {
	if !g.state.CompareAndSwap(int32(StateStopped), int32(StateStarting)) {
		return nil, fmt.Errorf("gateway is not in stopped state")
	}

	addr := fmt.Sprintf("%s:%d", g.config.Listener.Bind, g.config.Listener.Port)
	timeouts := g.config.Listener.Timeouts

	g.server = &http.Server{
		Addr:              addr,
		Handler:           g.buildHandler(),
		ReadTimeout:       timeouts.GetEffectiveReadTimeout(),
		ReadHeaderTimeout: timeouts.GetEffectiveReadHeaderTimeout(),
		WriteTimeout:      timeouts.GetEffectiveWriteTimeout(),
		IdleTimeout:       timeouts.GetEffectiveIdleTimeout(),
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)

	go func() {
		if err := g.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("gateway listener: %w", err)
		}
		close(errCh)
	}()

	g.startTime = time.Now()
	g.state.Store(int32(StateRunning))

	g.logger.Info("gateway started",
		observability.String("addr", addr),
		observability.Int("rules", g.table.Load().Len()),
	)

	return errCh, nil
}

// Stop stops the gateway gracefully, waiting for in-flight requests
// up to the shutdown timeout.
func (g *Gateway) Stop(ctx context.Context) error {
	if !g.state.CompareAndSwap(int32(StateRunning), int32(StateStopping)) {
		return fmt.Errorf("gateway is not running")
	}

	g.logger.Info("stopping gateway")

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.shutdownTimeout)
		defer cancel()
	}

	var err error
	if g.server != nil {
		err = g.server.Shutdown(ctx)
	}

	if g.rateLimiter != nil {
		g.rateLimiter.Stop()
	}

	g.state.Store(int32(StateStopped))
	g.logger.Info("gateway stopped")

	return err
}

// Reload compiles the rules from cfg and swaps them into the routing
// table. On compile failure the active rule set stays in place and
// the error is returned.
func (g *Gateway) Reload(cfg *config.GatewayConfig) error {
	ruleSet, err := router.CompileConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to compile routing rules: %w", err)
	}

	previous := g.table.Load().Len()
	g.table.Swap(ruleSet)

	g.logger.Info("routing rules reloaded",
		observability.Int("rules", ruleSet.Len()),
		observability.Int("previous_rules", previous),
	)

	return nil
}

// Uptime returns how long the gateway has been running.
func (g *Gateway) Uptime() time.Duration {
	if g.startTime.IsZero() {
		return 0
	}
	return time.Since(g.startTime)
}
