package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "hockey_analytics"

// Metrics records query outcomes on a private registry.
type Metrics struct {
	registry      *prometheus.Registry
	queries       *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
	timeouts      prometheus.Counter
	fetchedEvents prometheus.Histogram
	breakerState  *prometheus.GaugeVec
	breakerTrips  *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	auto := promauto.With(registry)

	return &Metrics{
		registry: registry,
		queries: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "queries_total",
			Help:      "Statistic queries by statistic and result status.",
		}, []string{"stat", "status"}),
		queryDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "query_duration_seconds",
			Help:      "Wall time of one statistic query, fetch included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stat"}),
		timeouts: auto.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "fetch_timeouts_total",
			Help:      "Queries that failed because an event store read hit its deadline.",
		}),
		fetchedEvents: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "store_fetch_events",
			Help:      "Rows returned by one event store fetch.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		breakerState: auto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "circuit_breaker_state",
			Help:      "Current breaker state: 0 closed, 1 half-open, 2 open.",
		}, []string{"breaker"}),
		breakerTrips: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "circuit_breaker_transitions_total",
			Help:      "Breaker state transitions by target state.",
		}, []string{"breaker", "to"}),
		cacheLookups: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_events_total",
			Help:      "Read cache hits, misses and evictions.",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) ObserveQuery(statKind, status string, elapsed time.Duration) {
	m.queries.WithLabelValues(statKind, status).Inc()
	m.queryDuration.WithLabelValues(statKind).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveFetch(rows int) {
	m.fetchedEvents.Observe(float64(rows))
}

func (m *Metrics) IncTimeout() {
	m.timeouts.Inc()
}

// ObserveBreaker records a circuit breaker transition.
func (m *Metrics) ObserveBreaker(name, _, to string) {
	m.breakerTrips.WithLabelValues(name, to).Inc()
	switch to {
	case "open":
		m.breakerState.WithLabelValues(name).Set(2)
	case "half-open":
		m.breakerState.WithLabelValues(name).Set(1)
	default:
		m.breakerState.WithLabelValues(name).Set(0)
	}
}

func (m *Metrics) ObserveCache(outcome string) {
	m.cacheLookups.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
