package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upstream call outcomes.
const (
	OutcomeOK        = "ok"
	OutcomeStatus    = "status"
	OutcomeTimeout   = "timeout"
	OutcomeTransport = "transport"
)

// Collector owns a private registry with the upstream and aggregation
// metrics. All methods are safe on a nil receiver.
type Collector struct {
	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	retries          prometheus.Counter
	itemsDropped     *prometheus.CounterVec
	aggregates       *prometheus.CounterVec

	registry *prometheus.Registry
}

func New() *Collector {
	c := &Collector{
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pokedex",
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Upstream GET requests by outcome.",
		}, []string{"outcome"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pokedex",
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Latency of single upstream GET requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pokedex",
			Subsystem: "upstream",
			Name:      "retries_total",
			Help:      "Upstream calls re-issued after a failed attempt.",
		}),
		itemsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pokedex",
			Subsystem: "aggregate",
			Name:      "items_dropped_total",
			Help:      "Items left out of an aggregate because enrichment failed.",
		}, []string{"op"}),
		aggregates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pokedex",
			Subsystem: "aggregate",
			Name:      "calls_total",
			Help:      "Aggregation calls by operation and result.",
		}, []string{"op", "result"}),
		registry: prometheus.NewRegistry(),
	}

	c.registry.MustRegister(
		c.upstreamRequests,
		c.upstreamDuration,
		c.retries,
		c.itemsDropped,
		c.aggregates,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// ObserveUpstream records one finished upstream call.
func (c *Collector) ObserveUpstream(outcome string, d time.Duration) {
	if c == nil {
		return
	}
	c.upstreamRequests.WithLabelValues(outcome).Inc()
	c.upstreamDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

func (c *Collector) Retry() {
	if c == nil {
		return
	}
	c.retries.Inc()
}

// Dropped adds n failed items for op.
func (c *Collector) Dropped(op string, n int) {
	if c == nil || n <= 0 {
		return
	}
	c.itemsDropped.WithLabelValues(op).Add(float64(n))
}

// Aggregate counts a finished aggregation; failed marks a fatal error.
func (c *Collector) Aggregate(op string, failed bool) {
	if c == nil {
		return
	}
	result := "ok"
	if failed {
		result = "error"
	}
	c.aggregates.WithLabelValues(op, result).Inc()
}

func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
