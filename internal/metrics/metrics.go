// Package metrics exposes Prometheus metrics for the settlement engine and the RPC layer.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "splitchamp"

// Metrics owns a private registry so tests and multiple servers do not collide
// on the global one.
type Metrics struct {
	registry *prometheus.Registry

	recomputes       prometheus.Counter
	recomputeSeconds prometheus.Histogram
	transfers        prometheus.Histogram
	rpcs             *prometheus.CounterVec
	rpcSeconds       *prometheus.HistogramVec
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		recomputes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recomputes_total",
			Help:      "Number of balance and transfer recomputations.",
		}),
		recomputeSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recompute_duration_seconds",
			Help:      "Time spent recomputing balances and transfers.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		transfers: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transfers_per_settlement",
			Help:      "Number of transfers produced by a recomputation.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		}),
		rpcs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		rpcSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.recomputes,
		m.recomputeSeconds,
		m.transfers,
		m.rpcs,
		m.rpcSeconds,
	)
	return m
}

// ObserveRecompute records one recomputation of a session.
func (m *Metrics) ObserveRecompute(elapsed time.Duration, transfers int) {
	m.recomputes.Inc()
	m.recomputeSeconds.Observe(elapsed.Seconds())
	m.transfers.Observe(float64(transfers))
}

// ObserveRPC records one finished RPC. code is "ok" or a Connect error code.
func (m *Metrics) ObserveRPC(procedure, code string, elapsed time.Duration) {
	m.rpcs.WithLabelValues(procedure, code).Inc()
	m.rpcSeconds.WithLabelValues(procedure).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
