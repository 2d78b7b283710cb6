// Package metrics defines the Prometheus collectors for the checker and exposes an HTTP
// handler for scraping. A nil *Metrics records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wordcheck"

// Metrics holds all Prometheus collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	BlocksChecked   prometheus.Counter
	TokensChecked   prometheus.Counter
	FindingsTotal   prometheus.Counter
	ExceptionsSize  prometheus.Gauge
	DictionaryWords prometheus.Gauge
}

// New creates all collectors on a fresh registry, together with the Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total IPC requests by action and status.",
			},
			[]string{"action", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "IPC request latency in seconds.",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"action"},
		),
		BlocksChecked: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "blocks_checked_total",
				Help:      "Total text blocks checked.",
			},
		),
		TokensChecked: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tokens_checked_total",
				Help:      "Total tokens checked.",
			},
		),
		FindingsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "findings_total",
				Help:      "Total spelling findings reported.",
			},
		),
		ExceptionsSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "exceptions",
				Help:      "Number of words in the session exception set.",
			},
		),
		DictionaryWords: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "dictionary_words",
				Help:      "Number of distinct words in the loaded dictionary.",
			},
		),
	}

	m.registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.BlocksChecked,
		m.TokensChecked,
		m.FindingsTotal,
		m.ExceptionsSize,
		m.DictionaryWords,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// WatchCache exports suggestion cache counters read from stats on every scrape.
func (m *Metrics) WatchCache(stats func() map[string]int) {
	if m == nil {
		return
	}
	read := func(key string) func() float64 {
		return func() float64 { return float64(stats()[key]) }
	}
	m.registry.MustRegister(
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suggest_cache_hits_total",
			Help:      "Total suggestion cache hits.",
		}, read("cacheHits")),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suggest_cache_misses_total",
			Help:      "Total suggestion cache misses.",
		}, read("cacheMisses")),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "suggest_cache_entries",
			Help:      "Suggestion lists currently cached.",
		}, read("cacheSize")),
	)
}

// ObserveRequest records one IPC request.
func (m *Metrics) ObserveRequest(action, status string, took time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(action, status).Inc()
	m.RequestDuration.WithLabelValues(action).Observe(took.Seconds())
}

// ObserveCheck records one checked block.
func (m *Metrics) ObserveCheck(tokens, findings int) {
	if m == nil {
		return
	}
	m.BlocksChecked.Inc()
	m.TokensChecked.Add(float64(tokens))
	m.FindingsTotal.Add(float64(findings))
}

func (m *Metrics) SetExceptions(n int) {
	if m == nil {
		return
	}
	m.ExceptionsSize.Set(float64(n))
}

func (m *Metrics) SetDictionaryWords(n int) {
	if m == nil {
		return
	}
	m.DictionaryWords.Set(float64(n))
}

// Registry exposes the registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus scrape HTTP handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
