// Package http exposes the decision engine over a gin JSON API.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/JurisCompare/internal/application/comparative"
	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/JurisCompare/internal/interfaces/http/handlers"
	"github.com/turtacn/JurisCompare/internal/interfaces/http/middleware"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

// RouterConfig aggregates the dependencies of the route tree.
type RouterConfig struct {
	Service       comparative.Service
	HealthHandler *handlers.HealthHandler

	Logger         logging.Logger
	Metrics        *prometheus.AppMetrics
	MetricsHandler http.Handler
	MetricsPath    string

	// Mode is the gin mode: debug, release or test.
	Mode        string
	MaxBodySize int64
	Logging     middleware.LoggingConfig
}

// NewRouter builds the gin engine: probes and metrics at the root, the API
// under /api/v1.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = prometheus.NewNoopAppMetrics()
	}
	logCfg := cfg.Logging
	if logCfg.SkipPaths == nil {
		logCfg = middleware.DefaultLoggingConfig()
	}

	r := gin.New()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogging(logger, logCfg))
	r.Use(middleware.Metrics(metrics))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handlers.Envelope{Error: &handlers.ErrorBody{
			Code:    string(errors.ErrCodeNotFound),
			Message: "route not found",
		}})
	})

	health := cfg.HealthHandler
	if health == nil {
		health = handlers.NewHealthHandler("", readyFunc(cfg.Service))
	}
	health.RegisterRoutes(r)

	if cfg.MetricsHandler != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(cfg.MetricsHandler))
	}

	api := r.Group("/api/v1")
	api.Use(middleware.BodyLimit(cfg.MaxBodySize))
	if cfg.Service != nil {
		handlers.NewComparativeHandler(cfg.Service, logger).RegisterRoutes(api)
		handlers.NewCaseLawHandler(cfg.Service, logger).RegisterRoutes(api)
		handlers.NewAdminHandler(cfg.Service, logger).RegisterRoutes(api)
	}

	return r
}

func readyFunc(svc comparative.Service) func() bool {
	if svc == nil {
		return nil
	}
	return svc.Ready
}

//Personal.AI order the ending
