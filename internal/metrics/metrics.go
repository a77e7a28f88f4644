package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ClientMetrics records backend calls made by the SDK client.
// It implements sdk.RequestObserver.
type ClientMetrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	AuthFailures    prometheus.Counter
}

// NewClientMetrics registers client metrics on reg. A nil reg falls back to
// the default registerer.
func NewClientMetrics(namespace string, reg prometheus.Registerer) *ClientMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &ClientMetrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Backend requests by operation and HTTP status (0 when no response arrived)",
		}, []string{"operation", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Time taken by backend requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		AuthFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "init_data_failures_total",
			Help:      "Requests sent without init data because the identity provider failed",
		}),
	}
}

// ObserveRequest implements sdk.RequestObserver.
func (m *ClientMetrics) ObserveRequest(op string, statusCode int, elapsed time.Duration) {
	m.Requests.WithLabelValues(op, strconv.Itoa(statusCode)).Inc()
	m.RequestDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// ObserveAuthDecorationFailure implements sdk.RequestObserver.
func (m *ClientMetrics) ObserveAuthDecorationFailure() {
	m.AuthFailures.Inc()
}

// ProxyMetrics records traffic through the dev proxy.
type ProxyMetrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	UpstreamErrors  prometheus.Counter
}

// NewProxyMetrics registers proxy metrics on reg.
func NewProxyMetrics(namespace string, reg prometheus.Registerer) *ProxyMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &ProxyMetrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "proxy",
			Name:      "requests_total",
			Help:      "Proxied requests by method and status",
		}, []string{"method", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "proxy",
			Name:      "request_duration_seconds",
			Help:      "Round-trip time of proxied requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		UpstreamErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "proxy",
			Name:      "upstream_errors_total",
			Help:      "Requests that failed to reach the backend",
		}),
	}
}

// Observe records one proxied request.
func (m *ProxyMetrics) Observe(method string, status int, elapsed time.Duration) {
	m.Requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}
