package portfolio

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FillsAppliedTotal tracks fills booked into the paper book.
	FillsAppliedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "intraday_exec_fills_applied_total",
		Help: "Total number of fills applied to the portfolio book",
	})

	// PortfolioValueUSD exposes the latest computed portfolio value.
	PortfolioValueUSD = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "intraday_exec_portfolio_value_usd",
		Help: "Portfolio value in USD (cash plus marked positions)",
	})
)
