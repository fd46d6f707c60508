// Package storage persists optimization decisions and submitted orders.
package storage

import (
	"context"
	"time"
)

// DecisionRecord captures one optimizer run for a single instrument.
type DecisionRecord struct {
	RunID              string
	TsEvent            time.Time
	InstrumentID       string
	AlphaUSD           float64
	CurrentPositionUSD float64
	TargetPositionUSD  float64
	Solved             bool
	FallbackReason     string
}

// OrderRecord captures one submitted child order.
type OrderRecord struct {
	OrderID      string
	TsEvent      time.Time
	InstrumentID string
	Side         string
	OrderType    string
	Quantity     float64
	Price        float64
	Algo         string
}

// Storage is the sink for decisions and orders.
type Storage interface {
	// StoreDecision persists one optimizer decision row.
	StoreDecision(ctx context.Context, rec *DecisionRecord) error

	// StoreOrder persists one submitted order row.
	StoreOrder(ctx context.Context, rec *OrderRecord) error

	// Close closes the storage connection.
	Close() error
}
