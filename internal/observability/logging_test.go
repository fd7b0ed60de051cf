package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     LogConfig
		wantErr bool
	}{
		{name: "default config", cfg: DefaultLogConfig()},
		{name: "debug level", cfg: LogConfig{Level: "debug", Format: "json", Output: "stdout"}},
		{name: "console format", cfg: LogConfig{Level: "info", Format: "console", Output: "stderr"}},
		{name: "warn level", cfg: LogConfig{Level: "warn", Format: "json", Output: "stdout"}},
		{name: "invalid level", cfg: LogConfig{Level: "loud", Format: "json", Output: "stdout"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, logger)

			// Smoke the level methods; output goes to stdout/stderr.
			logger.Debug("debug message", String("key", "value"))
			logger.Info("info message", Int("count", 1))
			logger.Warn("warn message")
			logger.Error("error message", Bool("flag", true))
		})
	}
}

func TestNopLogger(t *testing.T) {
	t.Parallel()

	logger := NopLogger()
	require.NotNil(t, logger)

	logger.Info("discarded")
	assert.NoError(t, logger.Sync())
}

func TestLogger_With(t *testing.T) {
	t.Parallel()

	base := NopLogger()
	child := base.With(String("component", "router"))
	require.NotNil(t, child)
	assert.NotSame(t, base, child)
}

func TestLogger_WithContext(t *testing.T) {
	t.Parallel()

	logger := NopLogger()

	// No request ID in context returns the same logger.
	assert.Same(t, logger, logger.WithContext(context.Background()))

	ctx := ContextWithRequestID(context.Background(), "req-123")
	assert.NotSame(t, logger, logger.WithContext(ctx))
}

func TestRequestIDContext(t *testing.T) {
	t.Parallel()

	assert.Empty(t, RequestIDFromContext(context.Background()))

	ctx := ContextWithRequestID(context.Background(), "req-abc")
	assert.Equal(t, "req-abc", RequestIDFromContext(ctx))
}

func TestGlobalLogger(t *testing.T) {
	original := GetGlobalLogger()
	defer SetGlobalLogger(original)

	// Unset global falls back to a nop logger.
	SetGlobalLogger(nil)
	require.NotNil(t, GetGlobalLogger())

	logger := NopLogger()
	SetGlobalLogger(logger)
	assert.Same(t, logger, GetGlobalLogger())
	assert.Same(t, logger, L())
}
