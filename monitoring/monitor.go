package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// OutcomeWriteFailures counts question outcome writes that were logged
	// and skipped during answer submission. Non-zero values mean a quiz was
	// scored with fewer persisted outcomes than answers received.
	OutcomeWriteFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_outcome_write_failures_total",
			Help: "Total number of skipped question outcome writes",
		},
	)

	// TopicFallbacks counts topic labels that matched no mapping rule and
	// were reported under the fallback topic instead.
	TopicFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_topic_fallbacks_total",
			Help: "Total number of topic labels mapped to the fallback topic",
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(OutcomeWriteFailures)
	prometheus.MustRegister(TopicFallbacks)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
