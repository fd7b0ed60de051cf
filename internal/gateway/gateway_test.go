package gateway

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Denyme24/edgegw/internal/config"
	"github.com/Denyme24/edgegw/internal/observability"
)

// backendFromURL converts an httptest server URL into a backend entry.
func backendFromURL(t *testing.T, name, rawURL string) config.Backend {
	t.Helper()

	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	host, portStr, err := net.SplitHostPort(u.Host)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	return config.Backend{Name: name, Host: host, Port: port}
}

func testConfig(backends ...config.Backend) *config.GatewayConfig {
	return &config.GatewayConfig{
		Listener: config.Listener{Bind: "127.0.0.1", Port: 0},
		Backends: backends,
		Rules: []config.RuleSpec{
			{
				Name:    "api",
				Kind:    config.PatternKindRegex,
				Pattern: `/api(/|$)(.*)`,
				Rewrite: "/$2",
				Backend: backends[0].Name,
			},
			{
				Name:    "frontend",
				Pattern: "/",
				Backend: backends[len(backends)-1].Name,
			},
		},
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	cfg := testConfig(config.Backend{Name: "api", Host: "api", Port: 8000})

	gw, err := New(cfg, WithLogger(observability.NopLogger()))
	require.NoError(t, err)
	require.NotNil(t, gw)

	assert.Equal(t, StateStopped, gw.State())
	assert.Equal(t, 2, gw.Table().Load().Len())
	assert.Zero(t, gw.Uptime())
}

func TestNew_NilConfig(t *testing.T) {
	t.Parallel()

	_, err := New(nil)
	require.Error(t, err)
}

func TestNew_InvalidRules(t *testing.T) {
	t.Parallel()

	cfg := &config.GatewayConfig{
		Listener: config.Listener{Port: 0},
		Backends: []config.Backend{{Name: "api", Host: "api", Port: 8000}},
		Rules: []config.RuleSpec{
			{
				Name:    "broken",
				Kind:    config.PatternKindRegex,
				Pattern: "/api([",
				Backend: "api",
			},
		},
	}

	_, err := New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to compile routing rules")
}

func TestGateway_Handler(t *testing.T) {
	t.Parallel()

	var gotPath string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("upstream"))
	}))
	defer backend.Close()

	cfg := testConfig(backendFromURL(t, "api", backend.URL))

	gw, err := New(cfg,
		WithLogger(observability.NopLogger()),
		WithMetrics(observability.NewMetrics("testgw")),
	)
	require.NoError(t, err)

	front := httptest.NewServer(gw.buildHandler())
	defer front.Close()

	resp, err := http.Get(front.URL + "/api/todos")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/todos", gotPath)
}

func TestGateway_StartStop(t *testing.T) {
	t.Parallel()

	cfg := testConfig(config.Backend{Name: "api", Host: "api", Port: 8000})

	gw, err := New(cfg,
		WithLogger(observability.NopLogger()),
		WithShutdownTimeout(2*time.Second),
	)
	require.NoError(t, err)

	errCh, err := gw.Start(context.Background())
	require.NoError(t, err)
	require.NotNil(t, errCh)
	assert.Equal(t, StateRunning, gw.State())

	// Starting twice is rejected.
	_, err = gw.Start(context.Background())
	require.Error(t, err)

	require.NoError(t, gw.Stop(context.Background()))
	assert.Equal(t, StateStopped, gw.State())

	// The serve goroutine exits after shutdown.
	select {
	case err, ok := <-errCh:
		if ok {
			t.Fatalf("unexpected serve error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("serve goroutine did not exit")
	}
}

func TestGateway_StopWhenNotRunning(t *testing.T) {
	t.Parallel()

	cfg := testConfig(config.Backend{Name: "api", Host: "api", Port: 8000})

	gw, err := New(cfg, WithLogger(observability.NopLogger()))
	require.NoError(t, err)

	require.Error(t, gw.Stop(context.Background()))
}

func TestGateway_Reload(t *testing.T) {
	t.Parallel()

	cfg := testConfig(config.Backend{Name: "api", Host: "api", Port: 8000})

	gw, err := New(cfg, WithLogger(observability.NopLogger()))
	require.NoError(t, err)
	require.Equal(t, 2, gw.Table().Load().Len())

	newCfg := &config.GatewayConfig{
		Listener: cfg.Listener,
		Backends: cfg.Backends,
		Rules:    cfg.Rules[:1],
	}
	require.NoError(t, gw.Reload(newCfg))
	assert.Equal(t, 1, gw.Table().Load().Len())
}

func TestGateway_ReloadFailureKeepsActiveRules(t *testing.T) {
	t.Parallel()

	cfg := testConfig(config.Backend{Name: "api", Host: "api", Port: 8000})

	gw, err := New(cfg, WithLogger(observability.NopLogger()))
	require.NoError(t, err)

	badCfg := &config.GatewayConfig{
		Listener: cfg.Listener,
		Backends: cfg.Backends,
		Rules: []config.RuleSpec{
			{Name: "bad", Kind: config.PatternKindRegex, Pattern: "([", Backend: "api"},
		},
	}

	require.Error(t, gw.Reload(badCfg))
	assert.Equal(t, 2, gw.Table().Load().Len())
}

func TestState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "stopped", StateStopped.String())
	assert.Equal(t, "starting", StateStarting.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "stopping", StateStopping.String())
	assert.Equal(t, "unknown", State(99).String())
}
