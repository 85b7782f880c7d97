package http

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/JurisCompare/internal/application/comparative"
	"github.com/turtacn/JurisCompare/internal/config"
	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/JurisCompare/internal/testutil"
	"github.com/turtacn/JurisCompare/internal/testutil/mocks"
)

func newTestRouter(svc comparative.Service) *gin.Engine {
	return NewRouter(RouterConfig{
		Service: svc,
		Logger:  testutil.NewMockLogger(),
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "juris_http_requests_total 1\n")
		}),
		Mode:        gin.TestMode,
		MaxBodySize: 1 << 10,
	})
}

func TestRouter_ProbesAndMetrics(t *testing.T) {
	svc := new(mocks.ComparativeService)
	svc.On("Ready").Return(true)
	r := newTestRouter(svc)

	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRouter_NotReadyBeforeFirstSnapshot(t *testing.T) {
	svc := new(mocks.ComparativeService)
	svc.On("Ready").Return(false)

	w := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouter_APIRoutesCarryRequestID(t *testing.T) {
	svc := new(mocks.ComparativeService)
	svc.On("Topics").Return([]comparative.TopicInfo{})

	w := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/topics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	svc.AssertExpectations(t)
}

func TestRouter_UnknownRoute(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter(new(mocks.ComparativeService)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"error":{"code":"COMMON_003","message":"route not found"}}`, w.Body.String())
}

func TestServer_StartStop(t *testing.T) {
	svc := new(mocks.ComparativeService)
	svc.On("Topics").Return([]comparative.TopicInfo{})
	svc.On("Ready").Return(true).Maybe()

	srv := NewServer(config.ServerConfig{HTTPPort: 0, ShutdownTimeout: time.Second}, newTestRouter(svc), logging.NewNopLogger())
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/api/v1/topics")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, srv.Stop(context.Background()))
	assert.NoError(t, <-done)
	svc.AssertCalled(t, "Topics")
}

//Personal.AI order the ending
