// Package metrics exposes Prometheus collectors for the API.
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

const namespace = "bitnap"

var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Latency of HTTP requests by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	BuddyTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "buddy_transitions_total",
		Help:      "Buddy relationship changes by kind.",
	}, []string{"transition"})

	JournalEntriesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "journal_entries_created_total",
		Help:      "Journal entries created by visibility.",
	}, []string{"visibility"})

	FeedItemsServed = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "feed_items_served",
		Help:      "Number of entries returned per feed request.",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
	})

	DraftOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "draft_operations_total",
		Help:      "Draft save, flush, load and clear calls.",
	}, []string{"op"})

	ProbeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "connectivity_probe_failures_total",
		Help:      "Failed connectivity probes, each one answered with maintenance mode.",
	})
)

// Middleware records request latency. Unmatched routes are grouped together.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
