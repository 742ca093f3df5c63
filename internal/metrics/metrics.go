package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "campus_events"

// Metrics — метрики сервиса в собственном реестре.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	directions     *prometheus.CounterVec
	directionsDur  prometheus.Histogram
	activeSessions prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route pattern, method and status",
	}, []string{"route", "method", "status"})
	m.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route pattern",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
	m.directions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "directions_requests_total",
		Help:      "Walking directions requests by outcome",
	}, []string{"outcome"})
	m.directionsDur = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "directions_request_duration_seconds",
		Help:      "Walking directions upstream latency",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
	})
	m.activeSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "map_sessions_active",
		Help:      "Open map sessions",
	})

	m.registry.MustRegister(
		m.httpRequests, m.httpDuration,
		m.directions, m.directionsDur,
		m.activeSessions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveRequest учитывает один обработанный HTTP-запрос.
func (m *Metrics) ObserveRequest(route, method string, status int, took time.Duration) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(took.Seconds())
}

func (m *Metrics) ObserveDirections(outcome string, took time.Duration) {
	m.directions.WithLabelValues(outcome).Inc()
	m.directionsDur.Observe(took.Seconds())
}

func (m *Metrics) SessionOpened() { m.activeSessions.Inc() }
func (m *Metrics) SessionClosed() { m.activeSessions.Dec() }

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler отдаёт метрики в формате Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
