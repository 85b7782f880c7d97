package handlers

import (
	"context"
	"encoding/json"
	stdliberrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveHealth(t *testing.T, h *HealthHandler, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	r := gin.New()
	h.RegisterRoutes(r)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func okCheck(name string) HealthChecker {
	return NewCheck(name, func(context.Context) error { return nil })
}

func failCheck(name string) HealthChecker {
	return NewCheck(name, func(context.Context) error { return stdliberrors.New("connection refused") })
}

func TestHealthHandler_Liveness(t *testing.T) {
	t.Parallel()
	h := NewHealthHandler("1.2.3", func() bool { return false }, failCheck("redis"))

	w, body := serveHealth(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alive", body["status"])
	assert.Equal(t, "1.2.3", body["version"])
}

func TestHealthHandler_Readiness(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name     string
		ready    func() bool
		checkers []HealthChecker
		status   int
		want     string
	}{
		{"no checks", nil, nil, http.StatusOK, "ready"},
		{"all healthy", func() bool { return true }, []HealthChecker{okCheck("redis"), okCheck("postgres")}, http.StatusOK, "ready"},
		{"snapshot missing", func() bool { return false }, []HealthChecker{okCheck("redis")}, http.StatusServiceUnavailable, "not_ready"},
		{"dependency down", func() bool { return true }, []HealthChecker{okCheck("redis"), failCheck("minio")}, http.StatusServiceUnavailable, "not_ready"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			w, body := serveHealth(t, NewHealthHandler("dev", tc.ready, tc.checkers...), "/readyz")
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.want, body["status"])
		})
	}
}

func TestHealthHandler_DetailedReportsComponents(t *testing.T) {
	t.Parallel()
	h := NewHealthHandler("dev", func() bool { return true }, okCheck("redis"), failCheck("minio"))

	w, body := serveHealth(t, h, "/healthz/detail")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "degraded", body["status"])

	components := body["components"].(map[string]interface{})
	require.Len(t, components, 3)
	minio := components["minio"].(map[string]interface{})
	assert.Equal(t, "unhealthy", minio["status"])
	assert.Equal(t, "connection refused", minio["error"])
	assert.Equal(t, "healthy", components["snapshot"].(map[string]interface{})["status"])
}

//Personal.AI order the ending
