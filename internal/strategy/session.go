package strategy

import "time"

// SessionFunc reports whether the strategy may submit new targets at t.
// Execution of already-active schedules is never gated.
type SessionFunc func(t time.Time) bool

// WeekdaySession trades Monday through Friday.
func WeekdaySession(t time.Time) bool {
	wd := t.UTC().Weekday()
	return wd != time.Saturday && wd != time.Sunday
}
