package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the portal.
// Every helper method is safe to call on a nil registry.
type MetricsRegistry struct {
	Registry *prometheus.Registry

	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Business Metrics
	LoginAttemptsTotal     *prometheus.CounterVec
	EquipmentRequestsTotal *prometheus.CounterVec
	MemberDecisionsTotal   *prometheus.CounterVec
	NotificationsTotal     *prometheus.CounterVec
	JobDuration            *prometheus.HistogramVec
}

// NewMetricsRegistry builds the metrics on a private registry so tests can
// create as many as they like. The Go and process collectors are included.
func NewMetricsRegistry() *MetricsRegistry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &MetricsRegistry{
		Registry: reg,

		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clubhouse_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "clubhouse_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "clubhouse_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Cache Metrics
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clubhouse_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clubhouse_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		// Business Metrics
		LoginAttemptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clubhouse_login_attempts_total",
				Help: "Login attempts by result",
			},
			[]string{"result"},
		),
		EquipmentRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clubhouse_equipment_requests_total",
				Help: "Equipment request transitions by outcome",
			},
			[]string{"outcome"},
		),
		MemberDecisionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clubhouse_member_decisions_total",
				Help: "Registration queue decisions by outcome",
			},
			[]string{"outcome"},
		),
		NotificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clubhouse_notifications_created_total",
				Help: "Notifications written by type",
			},
			[]string{"type"},
		),
		JobDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "clubhouse_job_duration_seconds",
				Help:    "Background job execution time in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
			},
			[]string{"job_name"},
		),
	}
}

func (m *MetricsRegistry) CacheHit(pattern string) {
	if m == nil {
		return
	}
	m.CacheHitsTotal.WithLabelValues(pattern).Inc()
}

func (m *MetricsRegistry) CacheMiss(pattern string) {
	if m == nil {
		return
	}
	m.CacheMissesTotal.WithLabelValues(pattern).Inc()
}

func (m *MetricsRegistry) LoginAttempt(result string) {
	if m == nil {
		return
	}
	m.LoginAttemptsTotal.WithLabelValues(result).Inc()
}

func (m *MetricsRegistry) EquipmentRequest(outcome string) {
	if m == nil {
		return
	}
	m.EquipmentRequestsTotal.WithLabelValues(outcome).Inc()
}

func (m *MetricsRegistry) MemberDecision(outcome string) {
	if m == nil {
		return
	}
	m.MemberDecisionsTotal.WithLabelValues(outcome).Inc()
}

func (m *MetricsRegistry) NotificationsCreated(kind string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.NotificationsTotal.WithLabelValues(kind).Add(float64(n))
}

func (m *MetricsRegistry) ObserveJob(name string, seconds float64) {
	if m == nil {
		return
	}
	m.JobDuration.WithLabelValues(name).Observe(seconds)
}
