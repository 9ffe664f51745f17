package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "payments"

var Payments = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "jobs",
	Name:      "payments_total",
	Help:      "Job payment attempts by outcome.",
}, []string{"outcome"})

var Deposits = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "balances",
	Name:      "deposits_total",
	Help:      "Deposit attempts by outcome.",
}, []string{"outcome"})

var RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency by route and status.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route", "status"})

// Outcome labels an operation result. Errors matching one of the known
// sentinels are labelled with its name, anything else is "error".
func Outcome(err error, known map[string]error) string {
	if err == nil {
		return "ok"
	}
	for label, target := range known {
		if errors.Is(err, target) {
			return label
		}
	}
	return "error"
}

// Middleware records RequestDuration. Unmatched routes share one label so
// scanners cannot blow up cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		RequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
