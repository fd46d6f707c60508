package execution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passiveScheduler(t *testing.T, gw *recordingGateway) *Scheduler {
	t.Helper()
	return newTestScheduler(t, Config{
		Algo:                  "vwap",
		Passive:               true,
		HorizonMinutes:        30,
		ParticipationRate:     0.1,
		MinSliceQty:           1,
		MaxCrossSpreadMinutes: 5,
		PriceOffsetTicks:      1,
	}, gw)
}

func TestPassiveVWAPRestsLimitOrders(t *testing.T) {
	gw := &recordingGateway{}
	s := passiveScheduler(t, gw)

	s.SubmitTarget("AAPL.XNAS", 5_000, 0)

	// 29 minutes remain, well above the cross-spread threshold.
	s.OnBar(bar("AAPL.XNAS", nanosPerMinute, 100.00, 8_000))

	require.Len(t, gw.orders, 1)
	assert.True(t, gw.orders[0].Limit)
	assert.InDelta(t, 800, gw.orders[0].Quantity, 1e-9)
	assert.InDelta(t, 99.99, gw.orders[0].Price, 1e-9, "buy improves one tick below close")
}

func TestPassiveVWAPSellImprovesAboveClose(t *testing.T) {
	gw := &recordingGateway{}
	s := passiveScheduler(t, gw)

	s.SubmitTarget("AAPL.XNAS", -5_000, 0)
	s.OnBar(bar("AAPL.XNAS", nanosPerMinute, 100.00, 8_000))

	require.Len(t, gw.orders, 1)
	assert.True(t, gw.orders[0].Limit)
	assert.Equal(t, "SELL", string(gw.orders[0].Side))
	assert.InDelta(t, 100.01, gw.orders[0].Price, 1e-9)
}

func TestPassiveVWAPTurnsAggressiveNearDeadline(t *testing.T) {
	gw := &recordingGateway{}
	s := passiveScheduler(t, gw)

	s.SubmitTarget("AAPL.XNAS", 5_000, 0)

	// 4 minutes remain, at or below the 5 minute cross-spread threshold.
	s.OnBar(bar("AAPL.XNAS", 26*nanosPerMinute, 100.00, 8_000))

	require.Len(t, gw.orders, 1)
	assert.False(t, gw.orders[0].Limit, "escalates to a market order")
	assert.InDelta(t, 800, gw.orders[0].Quantity, 1e-9, "slice size stays volume-bounded")
}

func TestPassiveVWAPZeroVolumeSkips(t *testing.T) {
	gw := &recordingGateway{}
	s := passiveScheduler(t, gw)

	s.SubmitTarget("AAPL.XNAS", 5_000, 0)
	s.OnBar(bar("AAPL.XNAS", nanosPerMinute, 100.00, 0))

	assert.Empty(t, gw.orders)
	require.Len(t, s.ActiveSnapshots(), 1)
	assert.InDelta(t, 5_000, s.ActiveSnapshots()[0].RemainingQty, 1e-9)
}

func TestPassiveVWAPExpiryAbandonsRemainder(t *testing.T) {
	gw := &recordingGateway{}
	s := passiveScheduler(t, gw)

	s.SubmitTarget("AAPL.XNAS", 5_000, 0)
	s.OnBar(bar("AAPL.XNAS", 30*nanosPerMinute, 100.00, 8_000))

	assert.Empty(t, gw.orders)
	assert.Empty(t, s.ActiveSnapshots())
}
