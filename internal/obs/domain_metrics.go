package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// EvaluationsTotal counts cart evaluations by outcome
	// (applied, no_discount, rejected).
	EvaluationsTotal *prometheus.CounterVec
	// AppliedRulesTotal counts applied discounts by rule kind.
	AppliedRulesTotal *prometheus.CounterVec
	// EvaluationDuration records evaluation latency in milliseconds.
	EvaluationDuration prometheus.Histogram
	// CatalogWritesTotal counts catalog mutations by operation and result.
	CatalogWritesTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		EvaluationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discount_evaluations_total",
			Help:      "Count of cart discount evaluations by outcome.",
		}, []string{"outcome"})
		AppliedRulesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discount_applied_total",
			Help:      "Count of applied discounts by rule kind.",
		}, []string{"kind"})
		EvaluationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "discount_evaluation_duration_ms",
			Help:      "Latency of cart discount evaluations in milliseconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
		})
		CatalogWritesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discount_catalog_writes_total",
			Help:      "Count of catalog write operations by result.",
		}, []string{"op", "result"})

		mustRegisterCollector(reg, EvaluationsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				EvaluationsTotal = v
			}
		})
		mustRegisterCollector(reg, AppliedRulesTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				AppliedRulesTotal = v
			}
		})
		mustRegisterCollector(reg, EvaluationDuration, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				EvaluationDuration = v
			}
		})
		mustRegisterCollector(reg, CatalogWritesTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CatalogWritesTotal = v
			}
		})
	})
}
