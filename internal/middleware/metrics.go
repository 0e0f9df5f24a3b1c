package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/udgtools/horarios-api/internal/service"
)

// Metrics records per-request duration and count. Uses the route template
// (e.g. /api/v1/secciones/:id) as the path label to keep cardinality bounded.
func Metrics(m *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		m.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
