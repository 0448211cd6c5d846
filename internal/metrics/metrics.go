// Package metrics exposes Prometheus collectors for the ledger engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BalanceComputations counts balance computations by split mode.
	BalanceComputations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "splitfair_balance_computations_total",
			Help: "Total number of balance computations by split mode",
		},
		[]string{"mode"}, // splitwise, tricount
	)

	// SettlementsCreated counts settlements successfully recorded.
	SettlementsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "splitfair_settlements_created_total",
			Help: "Total number of settlements recorded",
		},
	)

	// SettlementConflicts counts settle requests rejected because nothing
	// was owed in the requested direction.
	SettlementConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "splitfair_settlement_conflicts_total",
			Help: "Total number of settlement requests with nothing left to settle",
		},
	)

	// IntegrityWarnings counts group views whose net balance deviated
	// from zero beyond epsilon.
	IntegrityWarnings = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "splitfair_integrity_warnings_total",
			Help: "Total number of nonzero net balance detections",
		},
	)

	// ExpensesCreated counts expenses recorded.
	ExpensesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "splitfair_expenses_created_total",
			Help: "Total number of expenses recorded",
		},
	)

	// RequestDuration observes HTTP request latency by route pattern.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "splitfair_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)
