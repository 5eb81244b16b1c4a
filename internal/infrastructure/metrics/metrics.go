// Package metrics exposes Prometheus instrumentation for evaluations.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mealguard-dev/mealguard/internal/application/ports"
)

var _ ports.Metrics = (*Metrics)(nil)

// Metrics holds the service collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	// Evaluation outcomes by order verdict
	Evaluations *prometheus.CounterVec

	// Evaluation latency including cache and audit
	EvaluateLatency prometheus.Histogram

	// Lines per evaluated order
	OrderLines prometheus.Histogram

	// Findings by kind
	Findings *prometheus.CounterVec

	// Result cache lookups by outcome: hit, miss, error
	Cache *prometheus.CounterVec

	// Rule set reloads by outcome: changed, unchanged, error
	RuleSetReloads *prometheus.CounterVec
}

// New creates a Metrics instance with all collectors registered on a fresh
// registry, together with the Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mealguard_evaluations_total",
			Help: "Total order evaluations by verdict",
		}, []string{"verdict"}),

		EvaluateLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "mealguard_evaluate_duration_seconds",
			Help:    "Duration of order evaluation",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),

		OrderLines: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "mealguard_order_lines",
			Help:    "Number of lines per evaluated order",
			Buckets: []float64{1, 2, 4, 8, 16, 32},
		}),

		Findings: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mealguard_findings_total",
			Help: "Total findings raised by kind",
		}, []string{"kind"}),

		Cache: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mealguard_result_cache_total",
			Help: "Result cache lookups by outcome",
		}, []string{"outcome"}),

		RuleSetReloads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mealguard_ruleset_reloads_total",
			Help: "Rule set reload attempts by outcome",
		}, []string{"outcome"}),
	}
}

// ObserveEvaluation records one evaluated order.
func (m *Metrics) ObserveEvaluation(verdict string, lines int, d time.Duration) {
	if m != nil {
		m.Evaluations.WithLabelValues(verdict).Inc()
		m.EvaluateLatency.Observe(d.Seconds())
		m.OrderLines.Observe(float64(lines))
	}
}

// IncrementFinding records a finding of the given kind.
func (m *Metrics) IncrementFinding(kind string) {
	if m != nil {
		m.Findings.WithLabelValues(kind).Inc()
	}
}

// IncrementCache records a cache lookup outcome.
func (m *Metrics) IncrementCache(outcome string) {
	if m != nil {
		m.Cache.WithLabelValues(outcome).Inc()
	}
}

// IncrementRuleSetReload records a reload outcome.
func (m *Metrics) IncrementRuleSetReload(outcome string) {
	if m != nil {
		m.RuleSetReloads.WithLabelValues(outcome).Inc()
	}
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
