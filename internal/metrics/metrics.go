package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "coinlings"

type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec

	born      prometheus.Counter
	retired   prometheus.Counter
	staged    prometheus.Counter
	merges    prometheus.Counter
	ledgerOps *prometheus.CounterVec
}

// New builds the collectors on a private registry, together with the Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		born: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "creatures_born_total",
			Help:      "Creatures created by population reconciliation.",
		}),
		retired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "creatures_retired_total",
			Help:      "Creatures retired by reconciliation or by hand.",
		}),
		staged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "containers_created_total",
			Help:      "Containers created by the allocator or by hand.",
		}),
		merges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "container_merges_total",
			Help:      "Successful container merges.",
		}),
		ledgerOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_recorded_total",
			Help:      "Recorded ledger transactions by kind.",
		}, []string{"kind"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.duration, m.born, m.retired, m.staged, m.merges, m.ledgerOps,
	)

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRequest(route, method, status string, seconds float64) {
	m.requests.WithLabelValues(route, method, status).Inc()
	m.duration.WithLabelValues(route, method).Observe(seconds)
}

func (m *Metrics) CreaturesBorn(n int) {
	m.born.Add(float64(n))
}

func (m *Metrics) CreaturesRetired(n int) {
	m.retired.Add(float64(n))
}

func (m *Metrics) ContainersCreated(n int) {
	m.staged.Add(float64(n))
}

func (m *Metrics) ContainerMerged() {
	m.merges.Inc()
}

func (m *Metrics) TransactionRecorded(kind string) {
	m.ledgerOps.WithLabelValues(kind).Inc()
}
