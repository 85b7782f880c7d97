package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/logging"
)

// LoggingConfig configures RequestLogging.
type LoggingConfig struct {
	// SkipPaths are never logged.
	SkipPaths []string
	// SlowThreshold promotes successful requests to warn level.
	SlowThreshold time.Duration
}

// DefaultLoggingConfig returns the probe-silent default.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		SkipPaths:     []string{"/healthz", "/readyz", "/metrics"},
		SlowThreshold: 3 * time.Second,
	}
}

// RequestLogging logs one line per completed request.  5xx responses are
// logged at error level, 4xx and slow requests at warn.
func RequestLogging(logger logging.Logger, cfg LoggingConfig) gin.HandlerFunc {
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()
		fields := []logging.Field{
			logging.String("method", c.Request.Method),
			logging.String("path", path),
			logging.Int("status", status),
			logging.Duration("duration", elapsed),
			logging.Int("bytes", c.Writer.Size()),
			logging.String("client_ip", c.ClientIP()),
			logging.String("request_id", GetRequestID(c)),
		}
		if ua := c.Request.UserAgent(); ua != "" {
			fields = append(fields, logging.String("user_agent", ua))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, logging.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			logger.Error("HTTP request completed with server error", fields...)
		case status >= 400:
			logger.Warn("HTTP request completed with client error", fields...)
		case cfg.SlowThreshold > 0 && elapsed >= cfg.SlowThreshold:
			logger.Warn("HTTP request completed (slow)", fields...)
		default:
			logger.Info("HTTP request completed", fields...)
		}
	}
}

//Personal.AI order the ending
