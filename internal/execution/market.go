package execution

import "github.com/mselser95/intraday-exec/pkg/types"

// marketAlgo submits the entire residual as one market order on the first
// bar and finishes the schedule immediately. Single-shot, no horizon.
type marketAlgo struct {
	cfg Config
}

func (a *marketAlgo) OnBar(bar *types.Bar, schedule *Schedule, scheduler *Scheduler) {
	scheduler.SubmitMarketOrder(schedule.InstrumentID, schedule.Side(), schedule.AbsRemaining())

	schedule.reduce(schedule.AbsRemaining())
	scheduler.FinishSchedule(schedule, StatusCompleted)
}
