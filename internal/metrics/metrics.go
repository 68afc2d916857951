// Package metrics exposes the Prometheus collectors used by the API.
//
// HTTP metrics:
//   - http_requests_total{method,route,status}
//   - http_request_duration_seconds{method,route}
//
// Cache metrics:
//   - resource_cache_requests_total{resource,result} where result is hit, miss or error
//   - resource_cache_invalidations_total{resource}
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
	}, []string{"method", "route"})

	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "resource_cache_requests_total",
		Help: "Read-through cache lookups by resource type and result.",
	}, []string{"resource", "result"})

	CacheInvalidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "resource_cache_invalidations_total",
		Help: "Cache prefix invalidations by resource type.",
	}, []string{"resource"})
)

// RecordHTTPRequest observes one finished request.
func RecordHTTPRequest(method, route string, status int, d time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func CacheHit(resource string)   { CacheRequests.WithLabelValues(resource, "hit").Inc() }
func CacheMiss(resource string)  { CacheRequests.WithLabelValues(resource, "miss").Inc() }
func CacheError(resource string) { CacheRequests.WithLabelValues(resource, "error").Inc() }

func CacheInvalidated(resource string) { CacheInvalidations.WithLabelValues(resource).Inc() }
