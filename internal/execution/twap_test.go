package execution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twapScheduler(t *testing.T, gw *recordingGateway, horizonMinutes int) *Scheduler {
	t.Helper()
	return newTestScheduler(t, Config{Algo: "twap", HorizonMinutes: horizonMinutes, MinSliceQty: 1}, gw)
}

func TestTWAPFirstSlice(t *testing.T) {
	gw := &recordingGateway{}
	s := twapScheduler(t, gw, 9)

	s.SubmitTarget("AAPL.XNAS", 1_000, 0)

	// First bar arrives at the start: 9 whole minutes remain.
	s.OnBar(bar("AAPL.XNAS", 0, 100.0, 5_000))

	require.Len(t, gw.orders, 1)
	assert.InDelta(t, 111, gw.orders[0].Quantity, 1e-9, "1000/9 floored")
	assert.Equal(t, "BUY", string(gw.orders[0].Side))

	snaps := s.ActiveSnapshots()
	require.Len(t, snaps, 1)
	assert.InDelta(t, 889, snaps[0].RemainingQty, 1e-9)
}

func TestTWAPSellDirection(t *testing.T) {
	gw := &recordingGateway{}
	s := twapScheduler(t, gw, 10)

	s.SubmitTarget("AAPL.XNAS", -600, 0)
	s.OnBar(bar("AAPL.XNAS", 0, 100.0, 5_000))

	require.Len(t, gw.orders, 1)
	assert.Equal(t, "SELL", string(gw.orders[0].Side))
	assert.InDelta(t, 60, gw.orders[0].Quantity, 1e-9)

	snaps := s.ActiveSnapshots()
	require.Len(t, snaps, 1)
	assert.InDelta(t, -540, snaps[0].RemainingQty, 1e-9, "residual sign never flips")
}

func TestTWAPMinSliceFloorAndCap(t *testing.T) {
	gw := &recordingGateway{}
	s := newTestScheduler(t, Config{Algo: "twap", HorizonMinutes: 30, MinSliceQty: 50}, gw)

	// 90 shares over 30 minutes computes to 3 per slice; the floor lifts it
	// to 50, and the final slice is capped at the 40 still outstanding.
	s.SubmitTarget("AAPL.XNAS", 90, 0)

	s.OnBar(bar("AAPL.XNAS", 0, 100.0, 1_000))
	s.OnBar(bar("AAPL.XNAS", nanosPerMinute, 100.0, 1_000))

	require.Len(t, gw.orders, 2)
	assert.InDelta(t, 50, gw.orders[0].Quantity, 1e-9)
	assert.InDelta(t, 40, gw.orders[1].Quantity, 1e-9, "cap takes precedence over floor")
	assert.Empty(t, s.ActiveSnapshots(), "schedule completed")
}

// Reaching the horizon abandons the remainder rather than forcing a final
// order. Deliberate behavior: a late forced order would trade at an
// unknown price for the whole residual.
func TestTWAPExpiryAbandonsRemainder(t *testing.T) {
	gw := &recordingGateway{}
	s := twapScheduler(t, gw, 9)

	s.SubmitTarget("AAPL.XNAS", 1_000, 0)
	s.OnBar(bar("AAPL.XNAS", 0, 100.0, 5_000))
	require.Len(t, gw.orders, 1)

	// Bar at the horizon: no order, schedule expired.
	s.OnBar(bar("AAPL.XNAS", 9*nanosPerMinute, 100.0, 5_000))

	assert.Len(t, gw.orders, 1, "no final order for the remainder")
	assert.Empty(t, s.ActiveSnapshots())
}

func TestTWAPLastMinuteSlicesWholeRemainder(t *testing.T) {
	gw := &recordingGateway{}
	s := twapScheduler(t, gw, 9)

	s.SubmitTarget("AAPL.XNAS", 1_000, 0)

	// 30 seconds before the horizon remainingMinutes clamps to 1, so the
	// whole residual goes out in one slice.
	s.OnBar(bar("AAPL.XNAS", 9*nanosPerMinute-30_000_000_000, 100.0, 5_000))

	require.Len(t, gw.orders, 1)
	assert.InDelta(t, 1_000, gw.orders[0].Quantity, 1e-9)
	assert.Empty(t, s.ActiveSnapshots())
}
