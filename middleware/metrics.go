package middleware

import (
	"context"
	"strconv"
	"time"

	awspkg "price-manager-service/pkg/aws"

	"github.com/gin-gonic/gin"
)

// metricsFlushTimeout bounds the background CloudWatch calls of one request.
const metricsFlushTimeout = 5 * time.Second

// Metrics records request count and latency per route template, plus a 4xx or
// 5xx counter. Unmatched routes are reported as "unmatched".
func Metrics(client *awspkg.MetricsClient, serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !client.IsEnabled() {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		class, errMetric := statusClass(c.Writer.Status())
		dims := map[string]string{
			"Service": serviceName,
			"Method":  c.Request.Method,
			"Route":   route,
			"Status":  class,
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), metricsFlushTimeout)
			defer cancel()
			_ = client.RecordCount(ctx, awspkg.MetricHTTPRequests, 1, dims)
			_ = client.RecordLatency(ctx, awspkg.MetricHTTPLatency, elapsed, dims)
			if errMetric != "" {
				_ = client.RecordCount(ctx, errMetric, 1, dims)
			}
		}()
	}
}

// statusClass returns the "Nxx" dimension for status and the error counter
// it feeds, if any.
func statusClass(status int) (string, string) {
	if status < 100 || status > 599 {
		return "unknown", ""
	}
	class := strconv.Itoa(status/100) + "xx"
	switch {
	case status >= 500:
		return class, awspkg.MetricHTTP5xx
	case status >= 400:
		return class, awspkg.MetricHTTP4xx
	default:
		return class, ""
	}
}
