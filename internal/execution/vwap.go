package execution

import "github.com/mselser95/intraday-exec/pkg/types"

// vwapAlgo uses the same volume-based slicing as POV but scoped to a fixed
// horizon. When the horizon is reached with quantity still outstanding, the
// schedule is finished and the remainder is abandoned, not force-executed.
type vwapAlgo struct {
	cfg Config
}

func (a *vwapAlgo) OnBar(bar *types.Bar, schedule *Schedule, scheduler *Scheduler) {
	if schedule.RemainingQty == 0 {
		scheduler.FinishSchedule(schedule, StatusCompleted)
		return
	}

	if schedule.expired(bar.TsEvent) {
		scheduler.FinishSchedule(schedule, StatusExpired)
		return
	}

	slice := volumeSlice(bar.Volume, a.cfg.ParticipationRate, a.cfg.MinSliceQty, schedule.AbsRemaining())
	if slice <= 0 {
		return
	}

	scheduler.SubmitMarketOrder(schedule.InstrumentID, schedule.Side(), slice)
	schedule.reduce(slice)
}
