package execution

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SchedulesCreatedTotal tracks parent schedules created by SubmitTarget.
	SchedulesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "intraday_exec_schedules_created_total",
		Help: "Total number of execution schedules created",
	})

	// SchedulesFinishedTotal tracks schedule terminations by final status.
	SchedulesFinishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intraday_exec_schedules_finished_total",
			Help: "Total number of execution schedules finished",
		},
		[]string{"status"},
	)

	// ActiveSchedules tracks the number of schedules currently in flight.
	ActiveSchedules = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "intraday_exec_active_schedules",
		Help: "Number of currently active execution schedules",
	})

	// SlicesSubmittedTotal tracks child orders submitted by algo and urgency.
	SlicesSubmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intraday_exec_slices_submitted_total",
			Help: "Total number of child order slices submitted",
		},
		[]string{"algo", "urgency"},
	)

	// SliceQuantity tracks submitted slice sizes in shares.
	SliceQuantity = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "intraday_exec_slice_quantity_shares",
		Help:    "Child order slice quantity in shares",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10), // 1, 4, 16, ..., ~262k
	})

	// OrderSubmitErrorsTotal tracks gateway submission failures.
	OrderSubmitErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "intraday_exec_order_submit_errors_total",
		Help: "Total number of order gateway submission errors",
	})
)
