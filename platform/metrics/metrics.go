// Package metrics holds the Prometheus collectors of the service.
// This is part of the platform layer and contains no business logic.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "clientregistry"

var (
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// SearchRequestsTotal counts searches by mode and outcome
	// (ok, short_query, rate_limited, store_error).
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Total number of client searches",
		},
		[]string{"mode", "outcome"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Client search duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"mode"},
	)

	SearchCandidates = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_candidates_scored",
			Help:      "Number of candidate records scored per search",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	RateLimitRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_rejections_total",
			Help:      "Requests rejected by a rate limiter",
		},
		[]string{"limiter"}, // "caller" / "ip"
	)
)

// Search outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeShortQuery  = "short_query"
	OutcomeRateLimited = "rate_limited"
	OutcomeStoreError  = "store_error"
)

var registerOnce sync.Once

// Register adds every collector to reg. Only the first call has an effect.
func Register(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		reg.MustRegister(
			httpRequestDuration,
			httpRequestsTotal,
			SearchRequestsTotal,
			SearchDuration,
			SearchCandidates,
			RateLimitRejectionsTotal,
		)
	})
}

// ObserveSearch records one finished search.
func ObserveSearch(mode, outcome string, elapsed time.Duration, candidates int) {
	SearchRequestsTotal.WithLabelValues(mode, outcome).Inc()
	if outcome != OutcomeOK {
		return
	}
	SearchDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
	SearchCandidates.Observe(float64(candidates))
}

// Middleware records HTTP request duration and count, labelled by route pattern.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}
		status := strconv.Itoa(c.Writer.Status())

		httpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}
