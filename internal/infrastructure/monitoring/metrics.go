package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Upstream fetch metrics
	UpstreamFetches  *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
	UpstreamErrors   *prometheus.CounterVec

	// Proxy pipeline metrics
	RewriteDuration prometheus.Histogram
	BlockedTotal    *prometheus.CounterVec

	// Session metrics
	CookieJars prometheus.Gauge

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),

		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "proxy_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "proxy_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ResponseSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "proxy_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),

		UpstreamFetches: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "proxy_upstream_fetches_total",
				Help: "Total number of upstream fetches",
			},
			[]string{"class", "status"},
		),
		UpstreamDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "proxy_upstream_duration_seconds",
				Help:    "Upstream fetch duration in seconds",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 15, 25},
			},
			[]string{"class"},
		),
		UpstreamErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "proxy_upstream_errors_total",
				Help: "Total number of upstream fetch errors",
			},
			[]string{"class", "kind"},
		),

		RewriteDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "proxy_rewrite_duration_seconds",
				Help:    "HTML rewrite duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
		),
		BlockedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "proxy_blocked_total",
				Help: "Total number of requests refused by the policy gate",
			},
			[]string{"reason"},
		),

		CookieJars: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "proxy_cookie_jars",
				Help: "Number of active session cookie jars",
			},
		),

		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "proxy_uptime_seconds",
				Help: "Proxy uptime in seconds",
			},
		),
	}

	go m.updateUptime()

	return m
}

// updateUptime continuously updates the uptime metric
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))
}

// RecordUpstreamFetch records a completed upstream fetch
func (m *Metrics) RecordUpstreamFetch(class, status string, duration time.Duration) {
	m.UpstreamFetches.WithLabelValues(class, status).Inc()
	m.UpstreamDuration.WithLabelValues(class).Observe(duration.Seconds())
}

// RecordUpstreamError records a failed upstream fetch
func (m *Metrics) RecordUpstreamError(class, kind string) {
	m.UpstreamErrors.WithLabelValues(class, kind).Inc()
}

// RecordRewrite records an HTML rewrite pass
func (m *Metrics) RecordRewrite(duration time.Duration) {
	m.RewriteDuration.Observe(duration.Seconds())
}

// RecordBlocked records a request refused by the policy gate
func (m *Metrics) RecordBlocked(reason string) {
	m.BlockedTotal.WithLabelValues(reason).Inc()
}

// SetCookieJars sets the number of active cookie jars
func (m *Metrics) SetCookieJars(count int) {
	m.CookieJars.Set(float64(count))
}
