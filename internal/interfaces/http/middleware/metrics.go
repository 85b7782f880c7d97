package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/prometheus"
)

// Metrics records request count and latency per route template.  Unmatched
// routes are folded into a single "unmatched" label.
func Metrics(m *prometheus.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		prometheus.RecordHTTPRequest(m, c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

//Personal.AI order the ending
