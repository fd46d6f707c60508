package optimizer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OptimizationsTotal tracks optimization runs.
	OptimizationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "intraday_exec_optimizations_total",
		Help: "Total number of target position optimization runs",
	})

	// OptimizationFallbacksTotal tracks runs that fell back to holding
	// current positions after a solver failure.
	OptimizationFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "intraday_exec_optimization_fallbacks_total",
		Help: "Total number of optimization runs resolved by the hold-current fallback",
	})

	// OptimizationDurationSeconds tracks solver latency.
	OptimizationDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "intraday_exec_optimization_duration_seconds",
		Help:    "Duration of one target position optimization run",
		Buckets: prometheus.DefBuckets,
	})
)
