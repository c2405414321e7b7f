// Package metrics provides Prometheus metrics for the file browser server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fileweb_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fileweb_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fileweb_operations_total",
			Help: "Filesystem operations by outcome",
		},
		[]string{"op", "result"},
	)

	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fileweb_operation_duration_seconds",
			Help:    "Filesystem operation duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"op"},
	)

	listingSkippedEntries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fileweb_listing_skipped_entries_total",
			Help: "Directory children dropped from listings because their metadata could not be read",
		},
	)

	changeNotifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fileweb_change_notifications_total",
			Help: "Change notifications emitted by operation",
		},
		[]string{"op"},
	)

	wsConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fileweb_ws_connections_active",
			Help: "Number of connected live-update clients",
		},
	)
)

// RecordOperation records the outcome and duration of one filesystem operation.
// result is "ok" or the error kind.
func RecordOperation(op, result string, duration time.Duration) {
	operationsTotal.WithLabelValues(op, result).Inc()
	operationDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordSkippedEntry counts a child dropped from a listing.
func RecordSkippedEntry() {
	listingSkippedEntries.Inc()
}

// RecordChangeNotification counts an emitted change notification.
func RecordChangeNotification(op string) {
	changeNotifications.WithLabelValues(op).Inc()
}

// SetWSConnectionsActive sets the live-update client gauge.
func SetWSConnectionsActive(n int) {
	wsConnectionsActive.Set(float64(n))
}

// Middleware records request count and latency per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
