package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	registry        *prometheus.Registry
	requestCount    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errorCount      *prometheus.CounterVec
	reportDuration  *prometheus.HistogramVec
	cacheResults    *prometheus.CounterVec
	dataWarnings    *prometheus.CounterVec
	compliancePct   *prometheus.GaugeVec
}

// NewMetrics registers collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sla_http_requests_total",
			Help: "HTTP requests by route, method and status",
		}, []string{"path", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sla_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"}),
		errorCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sla_http_errors_total",
			Help: "HTTP errors by route, method and error code",
		}, []string{"path", "method", "code"}),
		reportDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sla_report_duration_seconds",
			Help:    "Time to load tickets and compute a report",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		}, []string{"report"}),
		cacheResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sla_report_cache_total",
			Help: "Report cache lookups by result",
		}, []string{"result"}),
		dataWarnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sla_data_warnings_total",
			Help: "Tickets excluded or coerced during aggregation, by kind",
		}, []string{"kind"}),
		compliancePct: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sla_compliance_percent",
			Help: "Compliance of the most recently computed report, by sector",
		}, []string{"sector"}),
	}
	m.registry.MustRegister(
		m.requestCount,
		m.requestDuration,
		m.errorCount,
		m.reportDuration,
		m.cacheResults,
		m.dataWarnings,
		m.compliancePct,
	)
	return m
}

// Registry exposes the registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestCount.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errorCount.WithLabelValues(path, method, code).Inc()
}

// RecordReport observes how long a report took to build.
func (m *Metrics) RecordReport(report string, duration time.Duration) {
	if m == nil {
		return
	}
	m.reportDuration.WithLabelValues(report).Observe(duration.Seconds())
}

// RecordCache counts a cache hit or miss.
func (m *Metrics) RecordCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheResults.WithLabelValues(result).Inc()
}

// RecordDataWarning counts one data-quality warning.
func (m *Metrics) RecordDataWarning(kind string) {
	if m == nil {
		return
	}
	m.dataWarnings.WithLabelValues(kind).Inc()
}

// SetCompliance publishes the latest compliance percentage for a sector.
func (m *Metrics) SetCompliance(sector string, pct float64) {
	if m == nil {
		return
	}
	m.compliancePct.WithLabelValues(sector).Set(pct)
}
