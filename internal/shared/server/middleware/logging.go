package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"placement-readiness/internal/shared/metrics"
	"placement-readiness/internal/shared/telemetry"
)

// ReportIDKey is the context key handlers set so request logs carry the report id.
const ReportIDKey = "reportId"

const metricsPath = "/metrics"

// Logging emits one structured line per request and records request metrics.
// Preflights and metric scrapes are not logged.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || c.Request.URL.Path == metricsPath {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		durationMs := float64(time.Since(start).Microseconds()) / 1000.0
		status := c.Writer.Status()

		metrics.ObserveRequest(c.FullPath(), c.Request.Method, status, durationMs)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      status,
			"duration_ms": durationMs,
			"bytes":       c.Writer.Size(),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if reportID := c.GetString(ReportIDKey); reportID != "" {
			fields["report_id"] = reportID
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}
		telemetry.Info("request.complete", fields)
	}
}
