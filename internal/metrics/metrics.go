package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics держит все коллекторы приложения в собственном реестре,
// чтобы тесты могли создавать независимые экземпляры.
type Metrics struct {
	registry *prometheus.Registry

	RequestCounter    *prometheus.CounterVec
	ResponseTime      *prometheus.HistogramVec
	APICallCounter    *prometheus.CounterVec
	APIResponseTime   *prometheus.HistogramVec
	SearchEventsTotal *prometheus.CounterVec
}

// New создаёт и регистрирует все метрики.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "photorelay_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		ResponseTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "photorelay_http_response_time_seconds",
			Help:    "HTTP response time in seconds.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "route"}),
		APICallCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "photorelay_api_calls_total",
			Help: "Outbound provider API calls.",
		}, []string{"api", "status"}),
		APIResponseTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "photorelay_api_response_time_seconds",
			Help:    "Outbound provider API response time in seconds.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 15, 20, 30},
		}, []string{"api"}),
		SearchEventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "photorelay_search_events_total",
			Help: "Search events consumed from the queue.",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		m.RequestCounter,
		m.ResponseTime,
		m.APICallCounter,
		m.APIResponseTime,
		m.SearchEventsTotal,
	)
	return m
}

// Registry возвращает реестр, в котором зарегистрированы коллекторы.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler отдаёт метрики в формате Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRequest записывает входящий HTTP-запрос.
func (m *Metrics) RecordRequest(method, route string, status int, duration time.Duration) {
	m.RequestCounter.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.ResponseTime.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordAPICall записывает обращение к внешнему API.
// statusCode == 0 означает транспортную ошибку.
func (m *Metrics) RecordAPICall(api string, statusCode int, duration time.Duration) {
	status := "success"
	if statusCode < 200 || statusCode >= 400 {
		status = "error"
	}
	m.APICallCounter.WithLabelValues(api, status).Inc()
	m.APIResponseTime.WithLabelValues(api).Observe(duration.Seconds())
}

// RecordSearchEvent считает событие, прочитанное воркером.
func (m *Metrics) RecordSearchEvent(outcome string) {
	m.SearchEventsTotal.WithLabelValues(outcome).Inc()
}
