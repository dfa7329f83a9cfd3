package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bimaplus/bima-api/internal/service"
)

// Metrics records duration and status for every request. The route template
// is preferred as the path label; unmatched requests fall back to the raw
// URL path so 404 traffic stays visible.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	if metricsSvc == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(started))
	}
}
