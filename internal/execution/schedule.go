package execution

import (
	"math"

	"github.com/mselser95/intraday-exec/pkg/types"
)

// Status is the lifecycle state of an execution schedule.
type Status string

const (
	// StatusActive means the schedule is live and receiving bars.
	StatusActive Status = "ACTIVE"
	// StatusCompleted means remaining quantity reached zero.
	StatusCompleted Status = "COMPLETED"
	// StatusExpired means the time horizon was reached with quantity outstanding.
	StatusExpired Status = "EXPIRED"
	// StatusCancelled means the schedule was superseded by a later rebalance.
	StatusCancelled Status = "CANCELLED"
)

// Schedule tracks one in-flight parent order: its residual signed quantity
// and time window. Schedules are owned exclusively by the Scheduler's
// registry and mutated only by the algorithm currently assigned to them,
// during a single OnBar call.
type Schedule struct {
	InstrumentID string
	RemainingQty float64 // signed: positive = residual buy, negative = residual sell
	StartTS      int64   // nanoseconds since epoch
	EndTS        int64   // exclusive horizon; 0 means unbounded
	Status       Status

	side types.Side // fixed at creation, never re-derived per bar
}

func newSchedule(instrumentID string, deltaQty float64, startTS, endTS int64) *Schedule {
	return &Schedule{
		InstrumentID: instrumentID,
		RemainingQty: deltaQty,
		StartTS:      startTS,
		EndTS:        endTS,
		Status:       StatusActive,
		side:         types.SideForQty(deltaQty),
	}
}

// Side returns the fixed direction of the parent order.
func (s *Schedule) Side() types.Side {
	return s.side
}

// AbsRemaining returns the unsigned residual quantity.
func (s *Schedule) AbsRemaining() float64 {
	return math.Abs(s.RemainingQty)
}

// reduce moves the residual toward zero by the given positive slice
// magnitude. Callers cap the slice to AbsRemaining first, so the sign
// never flips.
func (s *Schedule) reduce(slice float64) {
	if s.RemainingQty > 0 {
		s.RemainingQty -= slice
	} else {
		s.RemainingQty += slice
	}
}

// expired reports whether the schedule's horizon has been reached.
// Unbounded schedules (EndTS == 0) never expire.
func (s *Schedule) expired(now int64) bool {
	return s.EndTS != 0 && now >= s.EndTS
}

// Snapshot is a read-only copy of a schedule for reporting surfaces.
type Snapshot struct {
	InstrumentID string  `json:"instrument_id"`
	Side         string  `json:"side"`
	RemainingQty float64 `json:"remaining_qty"`
	StartTS      int64   `json:"start_ts"`
	EndTS        int64   `json:"end_ts"`
	Status       string  `json:"status"`
}

func (s *Schedule) snapshot() Snapshot {
	return Snapshot{
		InstrumentID: s.InstrumentID,
		Side:         string(s.side),
		RemainingQty: s.RemainingQty,
		StartTS:      s.StartTS,
		EndTS:        s.EndTS,
		Status:       string(s.Status),
	}
}
