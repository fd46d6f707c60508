package execution

import "github.com/mselser95/intraday-exec/pkg/types"

// twapAlgo paces the residual evenly over the minutes left in the horizon:
// each bar it submits |remaining| / remaining_minutes as a market order.
//
// When the horizon is reached with quantity still outstanding, the schedule
// is finished and the remainder is abandoned, not force-executed.
type twapAlgo struct {
	cfg Config
}

func (a *twapAlgo) OnBar(bar *types.Bar, schedule *Schedule, scheduler *Scheduler) {
	now := bar.TsEvent

	if schedule.RemainingQty == 0 {
		scheduler.FinishSchedule(schedule, StatusCompleted)
		return
	}

	if schedule.expired(now) {
		scheduler.FinishSchedule(schedule, StatusExpired)
		return
	}

	minutes := remainingMinutes(schedule.EndTS, now)

	slice := boundSlice(schedule.AbsRemaining()/float64(minutes), a.cfg.MinSliceQty, schedule.AbsRemaining())
	if slice <= 0 {
		return
	}

	scheduler.SubmitMarketOrder(schedule.InstrumentID, schedule.Side(), slice)
	schedule.reduce(slice)
}
