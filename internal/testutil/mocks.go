package testutil

import (
	"sync"

	"github.com/mselser95/intraday-exec/pkg/types"
)

// SubmittedOrder records one order received by the mock gateway.
type SubmittedOrder struct {
	InstrumentID string
	Side         types.Side
	Quantity     float64
	Price        float64 // 0 for market orders
}

// MockGateway records submitted orders and can be configured to fail.
type MockGateway struct {
	mu     sync.Mutex
	Orders []SubmittedOrder
	Err    error // returned from every submission when set
}

// SubmitMarketOrder records a market order.
func (g *MockGateway) SubmitMarketOrder(instrumentID string, side types.Side, quantity float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Err != nil {
		return g.Err
	}

	g.Orders = append(g.Orders, SubmittedOrder{
		InstrumentID: instrumentID,
		Side:         side,
		Quantity:     quantity,
	})
	return nil
}

// SubmitLimitOrder records a limit order.
func (g *MockGateway) SubmitLimitOrder(instrumentID string, side types.Side, quantity float64, price float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Err != nil {
		return g.Err
	}

	g.Orders = append(g.Orders, SubmittedOrder{
		InstrumentID: instrumentID,
		Side:         side,
		Quantity:     quantity,
		Price:        price,
	})
	return nil
}

// Submitted returns a copy of the recorded orders.
func (g *MockGateway) Submitted() []SubmittedOrder {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]SubmittedOrder, len(g.Orders))
	copy(out, g.Orders)
	return out
}
