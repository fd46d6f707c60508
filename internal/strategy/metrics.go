package strategy

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BarsProcessedTotal tracks bars fed through the strategy.
	BarsProcessedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "intraday_exec_bars_processed_total",
		Help: "Total number of bars processed by the strategy",
	})

	// WavesTotal tracks once-per-minute optimization waves.
	WavesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "intraday_exec_waves_total",
		Help: "Total number of optimization waves executed",
	})

	// TradesFilteredTotal tracks wave entries dropped before submission.
	TradesFilteredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "intraday_exec_trades_filtered_total",
		Help: "Total number of wave trades filtered out before submission",
	}, []string{"reason"})
)
