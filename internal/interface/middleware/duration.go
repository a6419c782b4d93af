package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// DurationRecorder aggregates request latency per method and route.
type DurationRecorder interface {
	ObserveDuration(method, endpoint string, d time.Duration)
}

// RequestDuration times each request. Unmatched paths share one endpoint
// label so arbitrary URLs cannot grow the aggregate.
func RequestDuration(rec DurationRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		rec.ObserveDuration(c.Request.Method, endpoint, time.Since(start))
	}
}
