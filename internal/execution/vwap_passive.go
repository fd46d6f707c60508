package execution

import (
	"github.com/mselser95/intraday-exec/pkg/types"
	"go.uber.org/zap"
)

// passiveVWAPAlgo slices like vwapAlgo but rests limit orders away from the
// market for price improvement. Once fewer than MaxCrossSpreadMinutes remain
// before the horizon it escalates to market orders. The escalation only
// changes order type: slice size stays volume-bounded, so a full fill by the
// deadline is not guaranteed and any expiry remainder is still abandoned.
type passiveVWAPAlgo struct {
	cfg Config
}

func (a *passiveVWAPAlgo) OnBar(bar *types.Bar, schedule *Schedule, scheduler *Scheduler) {
	if schedule.RemainingQty == 0 {
		scheduler.FinishSchedule(schedule, StatusCompleted)
		return
	}

	if schedule.expired(bar.TsEvent) {
		scheduler.FinishSchedule(schedule, StatusExpired)
		return
	}

	aggressive := remainingMinutes(schedule.EndTS, bar.TsEvent) <= int64(a.cfg.MaxCrossSpreadMinutes)

	slice := volumeSlice(bar.Volume, a.cfg.ParticipationRate, a.cfg.MinSliceQty, schedule.AbsRemaining())
	if slice <= 0 {
		return
	}

	if aggressive {
		scheduler.SubmitMarketOrder(schedule.InstrumentID, schedule.Side(), slice)
	} else {
		price, err := scheduler.ComputePassivePrice(bar, schedule.Side(), a.cfg.PriceOffsetTicks)
		if err != nil {
			a.cfg.Logger.Warn("passive-price-unavailable",
				zap.String("instrument-id", schedule.InstrumentID),
				zap.Error(err))
			return
		}

		scheduler.SubmitLimitOrder(schedule.InstrumentID, schedule.Side(), slice, price)
	}

	schedule.reduce(slice)
}
