// Package metrics constructs the prometheus metrics the node exposes on the
// debug host.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "powledger"

// Ledger represents the read access the metrics need into the ledger.
type Ledger interface {
	QueryChainLength() uint64
	QueryMempoolLength() int
}

// Metrics holds the set of metrics the node records.
type Metrics struct {
	registry *prometheus.Registry

	requests       prometheus.Counter
	errors         prometheus.Counter
	panics         prometheus.Counter
	blocksMined    prometheus.Counter
	miningDuration prometheus.Histogram
}

// New constructs the metrics and registers them, along with the go runtime
// and process collectors, on a registry of their own.
func New(ledger Ledger) *Metrics {
	m := Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of requests handled.",
		}),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "errors_total",
			Help:      "Total number of requests that returned an error.",
		}),
		panics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "panics_total",
			Help:      "Total number of panics recovered while handling requests.",
		}),
		blocksMined: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mining",
			Name:      "blocks_total",
			Help:      "Total number of blocks mined by this node.",
		}),
		miningDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "mining",
			Name:      "duration_seconds",
			Help:      "Time taken by a mining cycle, search and commit.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}

	m.registry.MustRegister(
		m.requests,
		m.errors,
		m.panics,
		m.blocksMined,
		m.miningDuration,
		newLedgerCollector(ledger),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &m
}

// Handler returns the handler serving the metrics in the prometheus
// exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// AddRequest increments the request counter.
func (m *Metrics) AddRequest() {
	m.requests.Inc()
}

// AddError increments the error counter.
func (m *Metrics) AddError() {
	m.errors.Inc()
}

// AddPanic increments the panic counter.
func (m *Metrics) AddPanic() {
	m.panics.Inc()
}

// ObserveMining records a successful mining cycle.
func (m *Metrics) ObserveMining(duration time.Duration) {
	m.blocksMined.Inc()
	m.miningDuration.Observe(duration.Seconds())
}

// =============================================================================

// ledgerCollector reads the chain and mempool lengths at scrape time.
type ledgerCollector struct {
	ledger        Ledger
	chainLength   *prometheus.Desc
	mempoolLength *prometheus.Desc
}

func newLedgerCollector(ledger Ledger) *ledgerCollector {
	return &ledgerCollector{
		ledger: ledger,
		chainLength: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "ledger", "chain_length"),
			"Number of blocks in the chain, genesis included.",
			nil,
			nil,
		),
		mempoolLength: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "ledger", "mempool_length"),
			"Number of transactions waiting for the next block.",
			nil,
			nil,
		),
	}
}

// Describe implements the prometheus.Collector interface.
func (c *ledgerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.chainLength
	ch <- c.mempoolLength
}

// Collect implements the prometheus.Collector interface.
func (c *ledgerCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.chainLength, prometheus.GaugeValue, float64(c.ledger.QueryChainLength()))
	ch <- prometheus.MustNewConstMetric(c.mempoolLength, prometheus.GaugeValue, float64(c.ledger.QueryMempoolLength()))
}
