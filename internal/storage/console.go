package storage

import (
	"context"

	"go.uber.org/zap"
)

// ConsoleStorage implements Storage by logging records. Useful for
// paper trading and local replay where no database is running.
type ConsoleStorage struct {
	logger *zap.Logger
}

// NewConsoleStorage creates a new console storage.
func NewConsoleStorage(logger *zap.Logger) *ConsoleStorage {
	logger.Info("console-storage-initialized")
	return &ConsoleStorage{
		logger: logger,
	}
}

// StoreDecision logs one optimizer decision row.
func (c *ConsoleStorage) StoreDecision(ctx context.Context, rec *DecisionRecord) error {
	c.logger.Info("decision",
		zap.String("run_id", rec.RunID),
		zap.Time("ts_event", rec.TsEvent),
		zap.String("instrument_id", rec.InstrumentID),
		zap.Float64("alpha_usd", rec.AlphaUSD),
		zap.Float64("current_position_usd", rec.CurrentPositionUSD),
		zap.Float64("target_position_usd", rec.TargetPositionUSD),
		zap.Bool("solved", rec.Solved),
		zap.String("fallback_reason", rec.FallbackReason))
	return nil
}

// StoreOrder logs one submitted order row.
func (c *ConsoleStorage) StoreOrder(ctx context.Context, rec *OrderRecord) error {
	c.logger.Info("order",
		zap.String("order_id", rec.OrderID),
		zap.Time("ts_event", rec.TsEvent),
		zap.String("instrument_id", rec.InstrumentID),
		zap.String("side", rec.Side),
		zap.String("order_type", rec.OrderType),
		zap.Float64("quantity", rec.Quantity),
		zap.Float64("price", rec.Price),
		zap.String("algo", rec.Algo))
	return nil
}

// Close is a no-op for console storage.
func (c *ConsoleStorage) Close() error {
	c.logger.Info("closing-console-storage")
	return nil
}
