package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Denyme24/edgegw/internal/observability"
)

func TestRecovery_PassesThrough(t *testing.T) {
	t.Parallel()

	handler := Recovery(observability.NopLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestRecovery_RecoversPanic(t *testing.T) {
	t.Parallel()

	handler := Recovery(observability.NopLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, ContentTypeJSON, w.Header().Get(HeaderContentType))
	assert.JSONEq(t, ErrInternalServer, w.Body.String())
}
