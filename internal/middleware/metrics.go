package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/yearbook-api/internal/service"
)

const unmatchedRoute = "unmatched"

// Metrics records method, route template, status and latency of every request. Requests that
// match no route share one label so scanners cannot blow up series cardinality.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
