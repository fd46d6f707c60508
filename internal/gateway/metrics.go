package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OrdersFilledTotal tracks simulated fills by order type.
	OrdersFilledTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "intraday_exec_paper_orders_filled_total",
		Help: "Total number of paper orders filled",
	}, []string{"order_type"})

	// OrdersRejectedTotal counts orders rejected by the circuit breaker.
	OrdersRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "intraday_exec_paper_orders_rejected_total",
		Help: "Total number of paper orders rejected while halted",
	})

	// FillNotionalUSD tracks the dollar size of simulated fills.
	FillNotionalUSD = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "intraday_exec_paper_fill_notional_usd",
		Help:    "Notional value of paper fills in USD",
		Buckets: prometheus.ExponentialBuckets(10, 10, 7),
	})
)
