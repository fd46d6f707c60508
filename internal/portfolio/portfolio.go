// Package portfolio tracks positions, cash and mark prices for the
// strategy. The paper book is the authoritative position source in
// paper trading mode; a live deployment would implement Provider on
// top of broker position feeds instead.
package portfolio

import (
	"sync"

	"go.uber.org/zap"
)

// Provider exposes the portfolio state the optimizer and circuit
// breaker consume.
type Provider interface {
	// Positions returns signed position quantities in shares keyed by
	// instrument ID. The returned map is a copy.
	Positions() map[string]float64

	// PositionsUSD returns signed position values in dollars at the
	// latest mark prices. Instruments without a mark price are valued
	// at zero.
	PositionsUSD() map[string]float64

	// PortfolioValue returns cash plus the marked value of all
	// positions, in dollars.
	PortfolioValue() float64
}

// PaperBook is an in-memory portfolio. Fills and mark prices mutate it
// under a single mutex so readers always see a consistent book.
type PaperBook struct {
	mu        sync.RWMutex
	cash      float64
	positions map[string]float64
	lastPrice map[string]float64
	logger    *zap.Logger
}

// NewPaperBook creates a book seeded with the given cash balance.
func NewPaperBook(initialCash float64, logger *zap.Logger) *PaperBook {
	return &PaperBook{
		cash:      initialCash,
		positions: make(map[string]float64),
		lastPrice: make(map[string]float64),
		logger:    logger,
	}
}

// MarkPrice records the latest price for an instrument. Called on
// every bar so valuations track the market.
func (b *PaperBook) MarkPrice(instrumentID string, price float64) {
	if price <= 0 {
		return
	}

	b.mu.Lock()
	b.lastPrice[instrumentID] = price
	b.mu.Unlock()
}

// ApplyFill books a signed fill quantity at the given price. Buys
// consume cash, sells release it.
func (b *PaperBook) ApplyFill(instrumentID string, qty, price float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.positions[instrumentID] += qty
	b.cash -= qty * price
	b.lastPrice[instrumentID] = price

	FillsAppliedTotal.Inc()

	b.logger.Debug("fill-applied",
		zap.String("instrument_id", instrumentID),
		zap.Float64("qty", qty),
		zap.Float64("price", price),
		zap.Float64("position", b.positions[instrumentID]),
		zap.Float64("cash", b.cash))
}

// Positions implements Provider.
func (b *PaperBook) Positions() map[string]float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make(map[string]float64, len(b.positions))
	for id, qty := range b.positions {
		out[id] = qty
	}
	return out
}

// PositionsUSD implements Provider.
func (b *PaperBook) PositionsUSD() map[string]float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make(map[string]float64, len(b.positions))
	for id, qty := range b.positions {
		out[id] = qty * b.lastPrice[id]
	}
	return out
}

// PortfolioValue implements Provider.
func (b *PaperBook) PortfolioValue() float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	value := b.cash
	for id, qty := range b.positions {
		value += qty * b.lastPrice[id]
	}
	return value
}

// Cash returns the current cash balance.
func (b *PaperBook) Cash() float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cash
}

// LastPrice returns the latest mark price for an instrument, or zero
// when none has been observed yet.
func (b *PaperBook) LastPrice(instrumentID string) float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastPrice[instrumentID]
}
