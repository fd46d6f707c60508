package execution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketAlgoSingleShot(t *testing.T) {
	gw := &recordingGateway{}
	s := newTestScheduler(t, Config{Algo: "market"}, gw)

	s.SubmitTarget("AAPL.XNAS", -750, 0)

	s.OnBar(bar("AAPL.XNAS", nanosPerMinute, 100.0, 5_000))

	require.Len(t, gw.orders, 1)
	assert.Equal(t, "SELL", string(gw.orders[0].Side))
	assert.InDelta(t, 750, gw.orders[0].Quantity, 1e-9)
	assert.Empty(t, s.ActiveSnapshots(), "finishes on the first bar")

	// Later bars find nothing to do.
	s.OnBar(bar("AAPL.XNAS", 2*nanosPerMinute, 100.0, 5_000))
	assert.Len(t, gw.orders, 1)
}
