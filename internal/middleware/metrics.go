package middleware

import (
	"blog_system/internal/metrics" // Prometheus collectors
	"strconv"                      // Status formatting
	"time"                         // Request duration

	"github.com/gin-gonic/gin" // Gin web framework
)

// MetricsMiddleware records in-flight requests, request counts and durations
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		m.HTTPInFlight.Inc()
		start := time.Now()
		c.Next()
		m.HTTPInFlight.Dec()

		route := c.FullPath() // Route template keeps label cardinality bounded
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
