package circuitbreaker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BreakerState is 1 when trading is enabled, 0 when tripped.
	BreakerState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "intraday_exec_circuit_breaker_enabled",
		Help: "Circuit breaker state (1 enabled, 0 tripped)",
	})

	// BreakerTripsTotal counts transitions into the tripped state.
	BreakerTripsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "intraday_exec_circuit_breaker_trips_total",
		Help: "Total number of circuit breaker trips",
	})
)

func init() {
	BreakerState.Set(1)
}
