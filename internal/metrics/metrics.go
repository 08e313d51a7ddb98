// Package metrics exposes Prometheus instrumentation for the ledger.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors used across the service. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	debtsComputed       prometheus.Counter
	settlementsRecorded prometheus.Counter
	engineDuration      *prometheus.HistogramVec
	ratesLookups        *prometheus.CounterVec
	rpcRequests         *prometheus.CounterVec
	rpcDuration         *prometheus.HistogramVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		debtsComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "splitty",
			Name:      "debts_computed_total",
			Help:      "Number of debts emitted by the debt matcher.",
		}),
		settlementsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "splitty",
			Name:      "settlements_recorded_total",
			Help:      "Number of settlement expenses appended to ledgers.",
		}),
		engineDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "splitty",
			Name:      "engine_duration_seconds",
			Help:      "Time spent computing balances and debts.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"op"}),
		ratesLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "splitty",
			Name:      "rates_cache_total",
			Help:      "Exchange rate cache lookups by result.",
		}, []string{"result"}),
		rpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "splitty",
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "splitty",
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.debtsComputed,
		m.settlementsRecorded,
		m.engineDuration,
		m.ratesLookups,
		m.rpcRequests,
		m.rpcDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveEngine records how long an engine operation ("balances", "debts") took.
func (m *Metrics) ObserveEngine(op string, start time.Time) {
	if m == nil {
		return
	}
	m.engineDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (m *Metrics) AddDebts(n int) {
	if m == nil {
		return
	}
	m.debtsComputed.Add(float64(n))
}

func (m *Metrics) IncSettlements() {
	if m == nil {
		return
	}
	m.settlementsRecorded.Inc()
}

// RatesLookup counts a rates cache lookup; result is "hit", "miss" or "error".
func (m *Metrics) RatesLookup(result string) {
	if m == nil {
		return
	}
	m.ratesLookups.WithLabelValues(result).Inc()
}

// ObserveRPC records one RPC call; code is "ok" or a Connect error code.
func (m *Metrics) ObserveRPC(procedure, code string, start time.Time) {
	if m == nil {
		return
	}
	m.rpcRequests.WithLabelValues(procedure, code).Inc()
	m.rpcDuration.WithLabelValues(procedure).Observe(time.Since(start).Seconds())
}
