package execution

import "github.com/mselser95/intraday-exec/pkg/types"

// povAlgo participates in observed volume: each bar it submits
// bar_volume * participation_rate as a market order. There is no fixed
// horizon; the schedule runs until filled or superseded.
type povAlgo struct {
	cfg Config
}

func (a *povAlgo) OnBar(bar *types.Bar, schedule *Schedule, scheduler *Scheduler) {
	if schedule.RemainingQty == 0 {
		scheduler.FinishSchedule(schedule, StatusCompleted)
		return
	}

	slice := volumeSlice(bar.Volume, a.cfg.ParticipationRate, a.cfg.MinSliceQty, schedule.AbsRemaining())
	if slice <= 0 {
		return
	}

	scheduler.SubmitMarketOrder(schedule.InstrumentID, schedule.Side(), slice)
	schedule.reduce(slice)
}
