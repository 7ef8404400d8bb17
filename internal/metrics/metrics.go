package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the application's Prometheus collectors.
type Metrics struct {
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPActiveConnections *prometheus.GaugeVec

	UploadsTotal              *prometheus.CounterVec
	NotificationsCreatedTotal *prometheus.CounterVec
	RateLimitExceededTotal    *prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Get returns the singleton metrics instance, registering collectors on
// first use.
func Get() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "bbyte_http_requests_total",
				Help: "Total HTTP requests by method, path and status.",
			}, []string{"method", "path", "status"}),

			HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "bbyte_http_request_duration_seconds",
				Help:    "HTTP request latency by method, path and status.",
				Buckets: prometheus.DefBuckets,
			}, []string{"method", "path", "status"}),

			HTTPActiveConnections: promauto.NewGaugeVec(prometheus.GaugeOpts{
				Name: "bbyte_http_active_connections",
				Help: "In-flight HTTP requests by method and path.",
			}, []string{"method", "path"}),

			UploadsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "bbyte_uploads_total",
				Help: "Object storage uploads by kind and outcome.",
			}, []string{"kind", "outcome"}),

			NotificationsCreatedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "bbyte_notifications_created_total",
				Help: "Notification rows persisted by type.",
			}, []string{"type"}),

			RateLimitExceededTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "bbyte_rate_limit_exceeded_total",
				Help: "Requests rejected by the rate limiter.",
			}, []string{"endpoint", "method"}),
		}
	})
	return instance
}
