// Package gateway submits child orders to a venue. The paper gateway
// fills every accepted order immediately against the latest mark price,
// which keeps replay and paper trading deterministic.
package gateway

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mselser95/intraday-exec/internal/portfolio"
	"github.com/mselser95/intraday-exec/internal/storage"
	"github.com/mselser95/intraday-exec/pkg/types"
)

// Breaker gates order flow. The gateway only needs the enabled check
// and the notional feed.
type Breaker interface {
	IsEnabled() bool
	RecordOrder(notionalUSD float64)
}

// PaperGateway simulates a venue: accepted orders fill in full at the
// market (last mark) or at the limit price, and fills are booked
// straight into the paper book.
type PaperGateway struct {
	book    *portfolio.PaperBook
	breaker Breaker
	store   storage.Storage
	algo    string // execution algorithm the child orders belong to
	logger  *zap.Logger
}

// NewPaperGateway creates a paper gateway. The breaker and store may be
// nil when the caller does not need gating or persistence.
func NewPaperGateway(book *portfolio.PaperBook, breaker Breaker, store storage.Storage, algo string, logger *zap.Logger) *PaperGateway {
	return &PaperGateway{
		book:    book,
		breaker: breaker,
		store:   store,
		algo:    algo,
		logger:  logger,
	}
}

// SubmitMarketOrder fills immediately at the last mark price.
func (g *PaperGateway) SubmitMarketOrder(instrumentID string, side types.Side, qty float64) error {
	price := g.book.LastPrice(instrumentID)
	if price <= 0 {
		return &types.OrderError{
			Code:         types.ErrUnknownInstrument,
			Message:      "no mark price observed",
			InstrumentID: instrumentID,
		}
	}

	return g.execute(instrumentID, side, qty, price, "MARKET")
}

// SubmitLimitOrder fills immediately at the limit price. A real venue
// would rest the order; the paper fill model assumes passive slices
// are small enough to trade through within the bar.
func (g *PaperGateway) SubmitLimitOrder(instrumentID string, side types.Side, qty, price float64) error {
	if price <= 0 {
		return &types.OrderError{
			Code:         types.ErrInvalidQuantity,
			Message:      "limit price must be positive",
			InstrumentID: instrumentID,
		}
	}

	return g.execute(instrumentID, side, qty, price, "LIMIT")
}

func (g *PaperGateway) execute(instrumentID string, side types.Side, qty, price float64, orderType string) error {
	if qty <= 0 {
		return &types.OrderError{
			Code:         types.ErrInvalidQuantity,
			Message:      "quantity must be positive",
			InstrumentID: instrumentID,
		}
	}

	orderID := uuid.New().String()

	if g.breaker != nil && !g.breaker.IsEnabled() {
		OrdersRejectedTotal.Inc()
		return &types.OrderError{
			Code:         types.ErrGatewayHalted,
			Message:      "circuit breaker tripped",
			OrderID:      orderID,
			InstrumentID: instrumentID,
		}
	}

	signedQty := qty
	if side == types.SideSell {
		signedQty = -qty
	}

	g.book.ApplyFill(instrumentID, signedQty, price)

	if g.breaker != nil {
		g.breaker.RecordOrder(qty * price)
	}

	OrdersFilledTotal.WithLabelValues(orderType).Inc()
	FillNotionalUSD.Observe(qty * price)

	g.logger.Info("paper-fill",
		zap.String("order_id", orderID),
		zap.String("instrument_id", instrumentID),
		zap.String("side", string(side)),
		zap.String("order_type", orderType),
		zap.Float64("qty", qty),
		zap.Float64("price", price))

	if g.store != nil {
		err := g.store.StoreOrder(context.Background(), &storage.OrderRecord{
			OrderID:      orderID,
			TsEvent:      time.Now().UTC(),
			InstrumentID: instrumentID,
			Side:         string(side),
			OrderType:    orderType,
			Quantity:     qty,
			Price:        price,
			Algo:         g.algo,
		})
		if err != nil {
			// Persistence is best effort: a storage outage must not
			// halt execution.
			g.logger.Warn("order-store-failed", zap.Error(err))
		}
	}

	return nil
}
