package execution

import (
	"fmt"

	"github.com/mselser95/intraday-exec/pkg/types"
	"go.uber.org/zap"
)

// OrderGateway is the external order submission interface. Submission is
// fire-and-forget from the scheduler's perspective: fill reporting and PnL
// bookkeeping happen outside this core.
type OrderGateway interface {
	SubmitMarketOrder(instrumentID string, side types.Side, quantity float64) error
	SubmitLimitOrder(instrumentID string, side types.Side, quantity float64, price float64) error
}

// TickProvider supplies per-instrument price increments for passive pricing.
type TickProvider interface {
	PriceIncrement(instrumentID string) (float64, error)
}

// Scheduler owns the set of active execution schedules, keyed by instrument,
// and drives each of them through the configured algorithm as bars arrive.
// It is single-threaded by design: OnBar and SubmitTarget are invoked
// synchronously from whatever delivers market data.
type Scheduler struct {
	cfg       Config
	algo      Algorithm
	gateway   OrderGateway
	ticks     TickProvider
	logger    *zap.Logger
	schedules map[string][]*Schedule
}

// NewScheduler builds a scheduler with the algorithm selected once from
// configuration. An unrecognized algorithm is a fatal construction error.
func NewScheduler(cfg Config, gateway OrderGateway, ticks TickProvider) (*Scheduler, error) {
	algo, err := newAlgorithm(cfg)
	if err != nil {
		return nil, fmt.Errorf("new algorithm: %w", err)
	}

	cfg.Logger.Info("scheduler-initialized",
		zap.String("algo", cfg.Algo),
		zap.Bool("passive", cfg.Passive),
		zap.Int("horizon-minutes", cfg.HorizonMinutes),
		zap.Float64("participation-rate", cfg.ParticipationRate))

	return &Scheduler{
		cfg:       cfg,
		algo:      algo,
		gateway:   gateway,
		ticks:     ticks,
		logger:    cfg.Logger,
		schedules: make(map[string][]*Schedule),
	}, nil
}

// SubmitTarget creates a new schedule for the signed share delta. A no-op
// for zero deltas. Any schedule still active for the instrument is
// superseded: it is cancelled first so schedules never accumulate per
// instrument.
func (s *Scheduler) SubmitTarget(instrumentID string, deltaQty float64, tsEvent int64) {
	if deltaQty == 0 {
		return
	}

	for _, sched := range append([]*Schedule(nil), s.schedules[instrumentID]...) {
		if sched.Status != StatusActive {
			continue
		}

		s.logger.Info("schedule-superseded",
			zap.String("instrument-id", instrumentID),
			zap.Float64("abandoned-qty", sched.RemainingQty))
		s.FinishSchedule(sched, StatusCancelled)
	}

	sched := newSchedule(instrumentID, deltaQty, tsEvent, s.scheduleEnd(tsEvent))
	s.schedules[instrumentID] = append(s.schedules[instrumentID], sched)

	SchedulesCreatedTotal.Inc()
	ActiveSchedules.Inc()

	s.logger.Info("schedule-created",
		zap.String("instrument-id", instrumentID),
		zap.String("side", string(sched.Side())),
		zap.Float64("qty", deltaQty),
		zap.Int64("start-ts", sched.StartTS),
		zap.Int64("end-ts", sched.EndTS))
}

// scheduleEnd derives the horizon for a schedule created at tsEvent:
// market orders are single-shot (no horizon), pov runs unbounded, and
// twap/vwap get the configured horizon.
func (s *Scheduler) scheduleEnd(tsEvent int64) int64 {
	switch s.cfg.Algo {
	case "market":
		return tsEvent
	case "pov":
		return 0
	default:
		return tsEvent + int64(s.cfg.HorizonMinutes)*nanosPerMinute
	}
}

// OnBar advances every active schedule for the bar's instrument through the
// configured algorithm. Completed schedules are removed after the call.
// Schedules for other instruments are untouched.
func (s *Scheduler) OnBar(bar *types.Bar) {
	scheds := s.schedules[bar.InstrumentID]
	if len(scheds) == 0 {
		return
	}

	// Iterate over a copy: algorithms may finish (remove) schedules mid-loop.
	for _, sched := range append([]*Schedule(nil), scheds...) {
		if sched.Status != StatusActive {
			continue
		}

		s.algo.OnBar(bar, sched, s)

		if sched.Status == StatusActive && sched.RemainingQty == 0 {
			s.FinishSchedule(sched, StatusCompleted)
		}
	}
}

// FinishSchedule removes a schedule from the registry regardless of its
// residual quantity. Any unfilled remainder is abandoned, not
// force-executed.
func (s *Scheduler) FinishSchedule(sched *Schedule, status Status) {
	if sched.Status != StatusActive {
		return
	}

	sched.Status = status
	SchedulesFinishedTotal.WithLabelValues(string(status)).Inc()
	ActiveSchedules.Dec()

	scheds := s.schedules[sched.InstrumentID]
	for i, candidate := range scheds {
		if candidate == sched {
			s.schedules[sched.InstrumentID] = append(scheds[:i], scheds[i+1:]...)
			break
		}
	}
	if len(s.schedules[sched.InstrumentID]) == 0 {
		delete(s.schedules, sched.InstrumentID)
	}

	s.logger.Info("schedule-finished",
		zap.String("instrument-id", sched.InstrumentID),
		zap.String("status", string(status)),
		zap.Float64("abandoned-qty", sched.RemainingQty))
}

// SubmitMarketOrder forwards an aggressive child order to the gateway.
func (s *Scheduler) SubmitMarketOrder(instrumentID string, side types.Side, quantity float64) {
	s.submit(&types.ChildOrderIntent{
		InstrumentID: instrumentID,
		Side:         side,
		Quantity:     quantity,
		Urgency:      types.UrgencyAggressive,
	})
}

// SubmitLimitOrder forwards a passive child order to the gateway.
func (s *Scheduler) SubmitLimitOrder(instrumentID string, side types.Side, quantity float64, price float64) {
	s.submit(&types.ChildOrderIntent{
		InstrumentID: instrumentID,
		Side:         side,
		Quantity:     quantity,
		LimitPrice:   price,
		Urgency:      types.UrgencyPassive,
	})
}

// submit dispatches an intent to the gateway on its urgency. Gateway
// errors are logged and counted, never propagated: the scheduler does
// not wait for fills before continuing.
func (s *Scheduler) submit(intent *types.ChildOrderIntent) {
	SlicesSubmittedTotal.WithLabelValues(s.cfg.Algo, string(intent.Urgency)).Inc()
	SliceQuantity.Observe(intent.Quantity)

	var err error
	if intent.Urgency == types.UrgencyPassive {
		err = s.gateway.SubmitLimitOrder(intent.InstrumentID, intent.Side, intent.Quantity, intent.LimitPrice)
	} else {
		err = s.gateway.SubmitMarketOrder(intent.InstrumentID, intent.Side, intent.Quantity)
	}
	if err != nil {
		OrderSubmitErrorsTotal.Inc()
		s.logger.Error("order-submit-failed",
			zap.String("instrument-id", intent.InstrumentID),
			zap.String("side", string(intent.Side)),
			zap.String("urgency", string(intent.Urgency)),
			zap.Float64("quantity", intent.Quantity),
			zap.Float64("price", intent.LimitPrice),
			zap.Error(err))
	}
}

// ComputePassivePrice improves on the bar close by the configured number of
// ticks on the resting side of the book.
func (s *Scheduler) ComputePassivePrice(bar *types.Bar, side types.Side, offsetTicks int) (float64, error) {
	tick, err := s.ticks.PriceIncrement(bar.InstrumentID)
	if err != nil {
		return 0, fmt.Errorf("price increment for %s: %w", bar.InstrumentID, err)
	}

	if side == types.SideBuy {
		return bar.Close - tick*float64(offsetTicks), nil
	}

	return bar.Close + tick*float64(offsetTicks), nil
}

// ActiveSnapshots returns read-only copies of every active schedule, for
// the HTTP reporting surface.
func (s *Scheduler) ActiveSnapshots() []Snapshot {
	out := make([]Snapshot, 0, len(s.schedules))
	for _, scheds := range s.schedules {
		for _, sched := range scheds {
			out = append(out, sched.snapshot())
		}
	}

	return out
}
