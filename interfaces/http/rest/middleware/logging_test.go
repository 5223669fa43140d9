package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func performRequest(t *testing.T, handler http.Handler, path string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestLogger_LevelsFollowStatus(t *testing.T) {
	// Arrange
	core, logs := observer.New(zap.InfoLevel)
	logged := Logger(zap.New(core))

	status := http.StatusOK
	handler := logged(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))

	// Act
	performRequest(t, handler, "/api/v1/complexes")
	status = http.StatusNotFound
	performRequest(t, handler, "/api/v1/complexes")
	status = http.StatusInternalServerError
	performRequest(t, handler, "/api/v1/complexes")

	// Assert: one entry per request, leveled by response class
	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.Equal(t, zap.ErrorLevel, entries[2].Level)

	fields := entries[2].ContextMap()
	assert.Equal(t, int64(http.StatusInternalServerError), fields["status"])
	assert.Equal(t, "/api/v1/complexes", fields["path"])
}

func TestLogger_SkipsHealthProbes(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := Logger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	performRequest(t, handler, "/health")
	performRequest(t, handler, "/ready")

	assert.Equal(t, 0, logs.Len())
}
