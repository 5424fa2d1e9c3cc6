package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	brandgateVerificationRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brandgate_verification_runs_total",
		Help: "Total domain verification runs by aggregate result.",
	}, []string{"result"})

	brandgateVerificationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "brandgate_verification_duration_seconds",
		Help:    "Wall-clock duration of one full verification run (all three checks).",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})

	brandgateRecheckSweepsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brandgate_recheck_sweeps_total",
		Help: "Total scheduled re-verification sweeps completed.",
	})

	brandgateConfiguredDomains = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "brandgate_configured_domains",
		Help: "Custom domains currently configured, as of the last sweep.",
	})

	brandgateRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brandgate_requests_total",
		Help: "Total HTTP requests by method, path, and response status.",
	}, []string{"method", "path", "status"})

	brandgateRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "brandgate_request_duration_seconds",
		Help:    "Request duration in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// RecordVerificationRun records the outcome and duration of one run.
// Wired into the domain service as its metrics callback.
func RecordVerificationRun(overall bool, elapsed time.Duration) {
	result := "failed"
	if overall {
		result = "verified"
	}
	brandgateVerificationRunsTotal.WithLabelValues(result).Inc()
	brandgateVerificationDuration.Observe(elapsed.Seconds())
}

// RecordRecheckSweep records one completed background sweep over the given
// number of configured domains.
func RecordRecheckSweep(domains int) {
	brandgateRecheckSweepsTotal.Inc()
	brandgateConfiguredDomains.Set(float64(domains))
}

// PrometheusMiddleware returns a Gin middleware that records per-request metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		brandgateRequestsTotal.WithLabelValues(
			c.Request.Method, path, strconv.Itoa(c.Writer.Status()),
		).Inc()
		brandgateRequestDuration.WithLabelValues(
			c.Request.Method, path,
		).Observe(time.Since(start).Seconds())
	}
}

// MetricsHandler exposes the Prometheus registry.
func MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
