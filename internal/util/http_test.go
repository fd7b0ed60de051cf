package util

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCapturingResponseWriter_Defaults(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	w := NewStatusCapturingResponseWriter(rec)

	assert.Equal(t, 200, w.StatusCode)
	assert.False(t, w.HeaderWritten)
}

func TestStatusCapturingResponseWriter_CapturesStatus(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	w := NewStatusCapturingResponseWriter(rec)

	w.WriteHeader(502)
	assert.Equal(t, 502, w.StatusCode)
	assert.True(t, w.HeaderWritten)
	assert.Equal(t, 502, rec.Code)

	// A second WriteHeader is ignored.
	w.WriteHeader(200)
	assert.Equal(t, 502, w.StatusCode)
	assert.Equal(t, 502, rec.Code)
}

func TestStatusCapturingResponseWriter_WriteMarksHeader(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	w := NewStatusCapturingResponseWriter(rec)

	n, err := w.Write([]byte("ok"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, w.HeaderWritten)
	assert.Equal(t, 200, w.StatusCode)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestServerError(t *testing.T) {
	t.Parallel()

	err := NewServerError(503)
	assert.Equal(t, "server error: status 503", err.Error())
	assert.Equal(t, 503, err.StatusCode)
}
