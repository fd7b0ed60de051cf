package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Denyme24/edgegw/internal/config"
	"github.com/Denyme24/edgegw/internal/observability"
)

func TestCircuitBreaker_SuccessKeepsClosed(t *testing.T) {
	t.Parallel()

	cb := NewCircuitBreaker("test-success", 3, time.Minute)

	handler := CircuitBreakerMiddleware(cb)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 10; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestCircuitBreaker_OpensOnServerErrors(t *testing.T) {
	t.Parallel()

	cb := NewCircuitBreaker("test-open", 2, time.Minute)

	handler := CircuitBreakerMiddleware(cb)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	// Enough consecutive 5xx responses trip the breaker.
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	}

	assert.Equal(t, gobreaker.StateOpen, cb.State())

	// An open circuit short-circuits before the handler runs.
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, ErrServiceUnavailable, w.Body.String())
}

func TestCircuitBreaker_ClientErrorsDoNotTrip(t *testing.T) {
	t.Parallel()

	cb := NewCircuitBreaker("test-4xx", 2, time.Minute)

	handler := CircuitBreakerMiddleware(cb)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	for i := 0; i < 10; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusNotFound, w.Code)
	}

	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestCircuitBreaker_StateCallback(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var transitions []int

	cb := NewCircuitBreaker("test-callback", 2, time.Minute,
		WithCircuitBreakerLogger(observability.NopLogger()),
		WithCircuitBreakerStateCallback(func(name string, state int) {
			mu.Lock()
			transitions = append(transitions, state)
			mu.Unlock()
		}),
	)

	handler := CircuitBreakerMiddleware(cb)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	}

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, transitions)
	assert.Equal(t, int(gobreaker.StateOpen), transitions[len(transitions)-1])
}

func TestCircuitBreakerFromConfig_Disabled(t *testing.T) {
	t.Parallel()

	mw, cb := CircuitBreakerFromConfig(nil, observability.NopLogger())
	assert.Nil(t, cb)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	// Pass-through: no breaker ever opens.
	for i := 0; i < 20; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusInternalServerError, w.Code)
	}
}

func TestCircuitBreakerFromConfig_Enabled(t *testing.T) {
	t.Parallel()

	cfg := &config.CircuitBreakerConfig{
		Enabled:   true,
		Threshold: 5,
		Timeout:   config.Duration(30 * time.Second),
	}

	mw, cb := CircuitBreakerFromConfig(cfg, observability.NopLogger())
	require.NotNil(t, cb)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestSafeIntToUint32(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint32(0), safeIntToUint32(-5))
	assert.Equal(t, uint32(10), safeIntToUint32(10))
	assert.Equal(t, ^uint32(0), safeIntToUint32(1<<40))
}
