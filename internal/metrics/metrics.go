// Package metrics exposes Prometheus counters for the lexicon service.
//
// Each Metrics owns its registry, so tests and multiple servers in one
// process never collide on registration.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Query kinds recorded by QueriesTotal.
const (
	QueryStructured      = "structured"
	QueryNaturalLanguage = "natural_language"
)

// Metrics groups the collectors updated by the HTTP layer.
type Metrics struct {
	registry *prometheus.Registry

	StringsCreated prometheus.Counter
	StringsDeleted prometheus.Counter
	StringsStored  prometheus.Gauge
	QueriesTotal   *prometheus.CounterVec
	RequestsTotal  *prometheus.CounterVec
}

// New builds and registers every collector, including the Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		StringsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lexicon_strings_created_total",
			Help: "Strings successfully inserted.",
		}),
		StringsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lexicon_strings_deleted_total",
			Help: "Strings successfully deleted.",
		}),
		StringsStored: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lexicon_strings_stored",
			Help: "Strings currently stored.",
		}),
		QueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lexicon_queries_total",
			Help: "Filter queries served, by kind.",
		}, []string{"kind"}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lexicon_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "code"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.StringsCreated,
		m.StringsDeleted,
		m.StringsStored,
		m.QueriesTotal,
		m.RequestsTotal,
	)
	return m
}

// Registry returns the registry backing m.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
