package metrics

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const divisor = 100

// Metrics holds every Prometheus collector the service exposes.
type Metrics struct {
	registry *prometheus.Registry

	// RED for HTTP
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestsInFlight prometheus.Gauge
	HTTPRequestDuration  *prometheus.HistogramVec

	// Business
	SubscriptionsCreated   *prometheus.CounterVec // by frequency
	SubscriptionsConfirmed prometheus.Counter
	SubscriptionsCanceled  prometheus.Counter

	// Dispatch
	CronRuns        *prometheus.CounterVec // by frequency
	CronRunDuration *prometheus.HistogramVec

	// Outbound
	WeatherRequests *prometheus.CounterVec // by result
	EmailsSent      *prometheus.CounterVec // by transport, result
	CacheRequests   *prometheus.CounterVec // by operation, result

	ServiceUptime prometheus.Gauge

	BusinessErrors  *prometheus.CounterVec
	TechnicalErrors *prometheus.CounterVec
}

// NewMetrics creates the collectors on a private registry.
func NewMetrics(namespace string) *Metrics {
	errorLabels := []string{"error_type", "severity"}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests total",
			},
			[]string{"method", "endpoint", "status_class"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "In-flight HTTP requests",
			},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		SubscriptionsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "subscriptions_created_total",
				Help:      "Total subscriptions created",
			},
			[]string{"frequency"},
		),
		SubscriptionsConfirmed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "subscriptions_confirmed_total",
				Help:      "Total subscriptions confirmed",
			},
		),
		SubscriptionsCanceled: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "subscriptions_canceled_total",
				Help:      "Total subscriptions removed",
			},
		),
		CronRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dispatch_runs_total",
				Help:      "Weather dispatch runs",
			},
			[]string{"frequency"},
		),
		CronRunDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "dispatch_run_duration_seconds",
				Help:      "Duration of weather dispatch runs",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"frequency"},
		),
		WeatherRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "weather_upstream_requests_total",
				Help:      "Calls to the weather provider",
			},
			[]string{"result"},
		),
		EmailsSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "emails_total",
				Help:      "Outbound emails by transport and result",
			},
			[]string{"transport", "result"},
		),
		CacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_requests_total",
				Help:      "Weather cache operations by result",
			},
			[]string{"operation", "result"},
		),
		ServiceUptime: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "service_start_time_seconds",
				Help:      "Unix time the service started",
			},
		),
		BusinessErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "business_errors_total",
				Help:      "Total business errors",
			},
			errorLabels,
		),
		TechnicalErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "technical_errors_total",
				Help:      "Total technical errors",
			},
			errorLabels,
		),
	}

	m.registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestsInFlight,
		m.HTTPRequestDuration,
		m.SubscriptionsCreated,
		m.SubscriptionsConfirmed,
		m.SubscriptionsCanceled,
		m.CronRuns,
		m.CronRunDuration,
		m.WeatherRequests,
		m.EmailsSent,
		m.CacheRequests,
		m.ServiceUptime,
		m.BusinessErrors,
		m.TechnicalErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m.ServiceUptime.SetToCurrentTime()

	return m
}

// RegisterDB exports connection pool statistics of db.
func (m *Metrics) RegisterDB(db *sql.DB, dbName string) {
	m.registry.MustRegister(collectors.NewDBStatsCollector(db, dbName))
}

// Handler serves the private registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// HTTPMiddleware instruments Gin handlers for RED metrics.
func (m *Metrics) HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.HTTPRequestsInFlight.Inc()
		c.Next()
		m.HTTPRequestsInFlight.Dec()

		status := c.Writer.Status()
		statusClass := fmt.Sprintf("%dxx", status/divisor)
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, endpoint, statusClass).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// CronJob wraps a dispatch run with run count and duration.
func (m *Metrics) CronJob(frequency string, job func()) {
	start := time.Now()
	m.CronRuns.WithLabelValues(frequency).Inc()
	job()
	m.CronRunDuration.WithLabelValues(frequency).Observe(time.Since(start).Seconds())
}

// RecordEmail counts a delivery attempt, result is "ok" or "error".
func (m *Metrics) RecordEmail(transport string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.EmailsSent.WithLabelValues(transport, result).Inc()
}

// RecordCache counts a cache operation, result is e.g. "hit", "miss", "error".
func (m *Metrics) RecordCache(operation, result string) {
	m.CacheRequests.WithLabelValues(operation, result).Inc()
}
