package middleware

import (
	"strconv"
	"time"

	"github.com/ErlanBelekov/travel-buddy/internal/metrics"
	"github.com/gin-gonic/gin"
)

// Requests that match no route share one label so probing does not
// create a series per path.
const unmatchedRoute = "unmatched"

// Metrics records latency and count per route template and status.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		status := strconv.Itoa(c.Writer.Status())

		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
	}
}
