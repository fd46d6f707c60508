package feed

import (
	"math/rand"
	"sync"
	"time"
)

// backoff produces reconnect delays growing by a multiplier up to a
// cap, with up to 20% jitter so a fleet of clients does not thunder
// back in lockstep.
type backoff struct {
	initial time.Duration
	max     time.Duration
	mult    float64

	mu      sync.Mutex
	current time.Duration
}

const jitterPercent = 0.2

func newBackoff(initial, max time.Duration, mult float64) *backoff {
	return &backoff{
		initial: initial,
		max:     max,
		mult:    mult,
		current: initial,
	}
}

// next returns the delay to wait before the next attempt and advances
// the schedule.
func (b *backoff) next() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	jittered := float64(b.current) * (1.0 + rand.Float64()*jitterPercent)

	advanced := time.Duration(float64(b.current) * b.mult)
	if advanced > b.max {
		advanced = b.max
	}
	b.current = advanced

	return time.Duration(jittered)
}

// reset returns the schedule to the initial delay after a successful
// connection.
func (b *backoff) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = b.initial
}
