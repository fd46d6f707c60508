package execution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vwapScheduler(t *testing.T, gw *recordingGateway) *Scheduler {
	t.Helper()
	return newTestScheduler(t, Config{Algo: "vwap", HorizonMinutes: 30, ParticipationRate: 0.1, MinSliceQty: 1}, gw)
}

func TestVWAPVolumeSlicing(t *testing.T) {
	gw := &recordingGateway{}
	s := vwapScheduler(t, gw)

	s.SubmitTarget("AAPL.XNAS", 5_000, 0)
	s.OnBar(bar("AAPL.XNAS", nanosPerMinute, 100.0, 8_000))

	require.Len(t, gw.orders, 1)
	assert.InDelta(t, 800, gw.orders[0].Quantity, 1e-9)

	snaps := s.ActiveSnapshots()
	require.Len(t, snaps, 1)
	assert.InDelta(t, 4_200, snaps[0].RemainingQty, 1e-9)
}

func TestVWAPZeroVolumeSkips(t *testing.T) {
	gw := &recordingGateway{}
	s := vwapScheduler(t, gw)

	s.SubmitTarget("AAPL.XNAS", 5_000, 0)
	s.OnBar(bar("AAPL.XNAS", nanosPerMinute, 100.0, 0))

	assert.Empty(t, gw.orders)
	require.Len(t, s.ActiveSnapshots(), 1)
	assert.InDelta(t, 5_000, s.ActiveSnapshots()[0].RemainingQty, 1e-9)
}

// Same abandonment contract as TWAP: the horizon ends the schedule with the
// residual untraded.
func TestVWAPExpiryAbandonsRemainder(t *testing.T) {
	gw := &recordingGateway{}
	s := vwapScheduler(t, gw)

	s.SubmitTarget("AAPL.XNAS", 5_000, 0)
	s.OnBar(bar("AAPL.XNAS", nanosPerMinute, 100.0, 8_000))
	require.Len(t, gw.orders, 1)

	s.OnBar(bar("AAPL.XNAS", 30*nanosPerMinute, 100.0, 8_000))

	assert.Len(t, gw.orders, 1, "no order at expiry")
	assert.Empty(t, s.ActiveSnapshots())
}

func TestVWAPCompletesBeforeHorizon(t *testing.T) {
	gw := &recordingGateway{}
	s := vwapScheduler(t, gw)

	s.SubmitTarget("AAPL.XNAS", 500, 0)
	s.OnBar(bar("AAPL.XNAS", nanosPerMinute, 100.0, 100_000))

	require.Len(t, gw.orders, 1)
	assert.InDelta(t, 500, gw.orders[0].Quantity, 1e-9)
	assert.Empty(t, s.ActiveSnapshots())
}
