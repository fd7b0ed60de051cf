package middleware

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Denyme24/edgegw/internal/config"
	"github.com/Denyme24/edgegw/internal/observability"
	"github.com/Denyme24/edgegw/internal/util"
)

// CircuitBreakerStateFunc is called when the circuit breaker changes
// state. State values: 0=closed, 1=half-open, 2=open.
type CircuitBreakerStateFunc func(name string, state int)

// CircuitBreaker wraps gobreaker.CircuitBreaker for the forwarding
// path: backend 5xx responses count as failures, and an open circuit
// short-circuits requests with 503.
type CircuitBreaker struct {
	cb            *gobreaker.CircuitBreaker
	logger        observability.Logger
	stateCallback CircuitBreakerStateFunc
}

// CircuitBreakerOption is a functional option for configuring the
// circuit breaker.
type CircuitBreakerOption func(*CircuitBreaker)

// WithCircuitBreakerLogger sets the logger for the circuit breaker.
func WithCircuitBreakerLogger(logger observability.Logger) CircuitBreakerOption {
	return func(cb *CircuitBreaker) {
		cb.logger = logger
	}
}

// WithCircuitBreakerStateCallback sets a callback for circuit breaker
// state changes.
func WithCircuitBreakerStateCallback(fn CircuitBreakerStateFunc) CircuitBreakerOption {
	return func(cb *CircuitBreaker) {
		cb.stateCallback = fn
	}
}

// NewCircuitBreaker creates a new circuit breaker.
func NewCircuitBreaker(
	name string,
	threshold int,
	timeout time.Duration,
	opts ...CircuitBreakerOption,
) *CircuitBreaker {
	cb := &CircuitBreaker{
		logger: observability.NopLogger(),
	}

	for _, opt := range opts {
		opt(cb)
	}

	thresholdU32 := safeIntToUint32(threshold)

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: thresholdU32,
		Interval:    timeout,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= thresholdU32 && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			cb.logger.Info("circuit breaker state change",
				observability.String("name", name),
				observability.String("from", from.String()),
				observability.String("to", to.String()),
			)

			GetMiddlewareMetrics().circuitBreakerTransitions.WithLabelValues(
				name, from.String(), to.String(),
			).Inc()

			if cb.stateCallback != nil {
				cb.stateCallback(name, int(to))
			}
		},
	}

	cb.cb = gobreaker.NewCircuitBreaker(settings)
	return cb
}

// safeIntToUint32 safely converts int to uint32.
func safeIntToUint32(n int) uint32 {
	if n < 0 {
		return 0
	}
	if n > int(^uint32(0)) {
		return ^uint32(0)
	}
	return uint32(n) //nolint:gosec // bounds checked above
}

// Execute executes a function with circuit breaker protection.
func (cb *CircuitBreaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	return cb.cb.Execute(fn)
}

// State returns the current state of the circuit breaker.
func (cb *CircuitBreaker) State() gobreaker.State {
	return cb.cb.State()
}

// CircuitBreakerMiddleware returns a middleware that runs the handler
// through the circuit breaker, treating 5xx responses as failures.
func CircuitBreakerMiddleware(cb *CircuitBreaker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mm := GetMiddlewareMetrics()
			cbState := cb.State().String()

			rw := util.NewStatusCapturingResponseWriter(w)

			_, err := cb.Execute(func() (interface{}, error) {
				mm.circuitBreakerRequests.WithLabelValues(
					"gateway", cbState,
				).Inc()

				next.ServeHTTP(rw, r)

				if rw.StatusCode >= 500 {
					return nil, util.NewServerError(rw.StatusCode)
				}
				return nil, nil
			})

			if err != nil {
				if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
					mm.circuitBreakerRequests.WithLabelValues(
						"gateway", "open",
					).Inc()

					cb.logger.Warn("circuit breaker rejected request",
						observability.String("path", r.URL.Path),
						observability.String("state", cb.State().String()),
					)

					if !rw.HeaderWritten {
						w.Header().Set(HeaderContentType, ContentTypeJSON)
						w.WriteHeader(http.StatusServiceUnavailable)
						_, _ = io.WriteString(w, ErrServiceUnavailable)
					}
					return
				}
				// Server errors were already written by the handler.
			}
		})
	}
}

// CircuitBreakerFromConfig creates circuit breaker middleware from
// gateway config. A nil or disabled config yields a pass-through
// middleware and a nil breaker.
func CircuitBreakerFromConfig(
	cfg *config.CircuitBreakerConfig,
	logger observability.Logger,
	opts ...CircuitBreakerOption,
) (func(http.Handler) http.Handler, *CircuitBreaker) {
	if cfg == nil || !cfg.Enabled {
		return func(next http.Handler) http.Handler {
			return next
		}, nil
	}

	allOpts := append([]CircuitBreakerOption{WithCircuitBreakerLogger(logger)}, opts...)
	cb := NewCircuitBreaker("gateway", cfg.Threshold, cfg.Timeout.Duration(), allOpts...)

	return CircuitBreakerMiddleware(cb), cb
}
