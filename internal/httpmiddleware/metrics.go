package httpmiddleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campus_http_requests_total",
			Help: "HTTP requests by app, method, route and status.",
		},
		[]string{"app", "method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "campus_http_request_duration_seconds",
			Help:    "HTTP request latency by app, method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"app", "method", "route"},
	)
)

// Metrics records request counts and latency. Routes are labelled by their
// registered pattern so ids do not blow up cardinality.
func Metrics(app string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(app, c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(app, c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
