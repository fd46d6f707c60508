package execution

import (
	"fmt"
	"testing"

	"github.com/mselser95/intraday-exec/pkg/types"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// submittedOrder records one child order forwarded to the gateway.
type submittedOrder struct {
	InstrumentID string
	Side         types.Side
	Quantity     float64
	Price        float64
	Limit        bool
}

// recordingGateway captures every submission for assertions.
type recordingGateway struct {
	orders  []submittedOrder
	failAll bool
}

func (g *recordingGateway) SubmitMarketOrder(instrumentID string, side types.Side, quantity float64) error {
	if g.failAll {
		return fmt.Errorf("gateway down")
	}

	g.orders = append(g.orders, submittedOrder{
		InstrumentID: instrumentID,
		Side:         side,
		Quantity:     quantity,
	})

	return nil
}

func (g *recordingGateway) SubmitLimitOrder(instrumentID string, side types.Side, quantity float64, price float64) error {
	if g.failAll {
		return fmt.Errorf("gateway down")
	}

	g.orders = append(g.orders, submittedOrder{
		InstrumentID: instrumentID,
		Side:         side,
		Quantity:     quantity,
		Price:        price,
		Limit:        true,
	})

	return nil
}

func (g *recordingGateway) totalQuantity() float64 {
	var sum float64
	for _, o := range g.orders {
		sum += o.Quantity
	}
	return sum
}

// staticTicks returns a fixed price increment for every instrument.
type staticTicks struct {
	tick float64
}

func (s *staticTicks) PriceIncrement(string) (float64, error) {
	if s.tick <= 0 {
		return 0, fmt.Errorf("no reference data")
	}
	return s.tick, nil
}

func newTestScheduler(t *testing.T, cfg Config, gw *recordingGateway) *Scheduler {
	t.Helper()

	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	sched, err := NewScheduler(cfg, gw, &staticTicks{tick: 0.01})
	require.NoError(t, err)

	return sched
}

func bar(instrumentID string, ts int64, close, volume float64) *types.Bar {
	return &types.Bar{
		InstrumentID: instrumentID,
		TsEvent:      ts,
		Open:         close,
		High:         close,
		Low:          close,
		Close:        close,
		Volume:       volume,
	}
}
