// Package circuitbreaker halts order submission when portfolio equity
// drops below a floor derived from recent order activity. The breaker
// re-enables with hysteresis so trading does not flap around the floor.
package circuitbreaker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/mselser95/intraday-exec/internal/portfolio"
)

// windowSize is the number of recent order notionals used to derive the
// equity floor.
const windowSize = 20

// EquityCircuitBreaker disables trading when equity can no longer cover
// a multiple of the average recent order notional.
type EquityCircuitBreaker struct {
	provider portfolio.Provider
	logger   *zap.Logger

	checkInterval   time.Duration
	orderMultiplier float64
	minEquityUSD    float64
	hysteresisRatio float64

	enabled atomic.Bool

	mu            sync.Mutex
	recentOrders  []float64
	lastEquityUSD float64
}

// New creates an enabled breaker around the given portfolio provider.
func New(
	provider portfolio.Provider,
	checkInterval time.Duration,
	orderMultiplier float64,
	minEquityUSD float64,
	hysteresisRatio float64,
	logger *zap.Logger,
) *EquityCircuitBreaker {
	b := &EquityCircuitBreaker{
		provider:        provider,
		logger:          logger,
		checkInterval:   checkInterval,
		orderMultiplier: orderMultiplier,
		minEquityUSD:    minEquityUSD,
		hysteresisRatio: hysteresisRatio,
		recentOrders:    make([]float64, 0, windowSize),
	}
	b.enabled.Store(true)
	return b
}

// Start runs the periodic equity check until the context is cancelled.
func (b *EquityCircuitBreaker) Start(ctx context.Context) {
	go b.monitorLoop(ctx)
}

func (b *EquityCircuitBreaker) monitorLoop(ctx context.Context) {
	ticker := time.NewTicker(b.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.Check()
		}
	}
}

// RecordOrder feeds an absolute order notional into the rolling window.
func (b *EquityCircuitBreaker) RecordOrder(notionalUSD float64) {
	if notionalUSD <= 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.recentOrders = append(b.recentOrders, notionalUSD)
	if len(b.recentOrders) > windowSize {
		b.recentOrders = b.recentOrders[1:]
	}
}

// Check evaluates equity against the floor once and flips the breaker
// state if a threshold is crossed.
func (b *EquityCircuitBreaker) Check() {
	equity := b.provider.PortfolioValue()
	floor := b.disableThreshold()

	b.mu.Lock()
	b.lastEquityUSD = equity
	b.mu.Unlock()

	if b.enabled.Load() {
		if equity < floor {
			b.enabled.Store(false)
			BreakerState.Set(0)
			BreakerTripsTotal.Inc()
			b.logger.Warn("circuit-breaker-tripped",
				zap.Float64("equity_usd", equity),
				zap.Float64("floor_usd", floor))
		}
		return
	}

	if equity >= floor*b.hysteresisRatio {
		b.enabled.Store(true)
		BreakerState.Set(1)
		b.logger.Info("circuit-breaker-reset",
			zap.Float64("equity_usd", equity),
			zap.Float64("floor_usd", floor))
	}
}

// disableThreshold is the larger of the configured minimum equity and a
// multiple of the average recent order notional.
func (b *EquityCircuitBreaker) disableThreshold() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.recentOrders) == 0 {
		return b.minEquityUSD
	}

	var sum float64
	for _, n := range b.recentOrders {
		sum += n
	}
	avg := sum / float64(len(b.recentOrders))

	floor := avg * b.orderMultiplier
	if floor < b.minEquityUSD {
		floor = b.minEquityUSD
	}
	return floor
}

// IsEnabled reports whether order submission is currently allowed.
func (b *EquityCircuitBreaker) IsEnabled() bool {
	return b.enabled.Load()
}

// Status is a point-in-time view for the health endpoint.
type Status struct {
	Enabled       bool    `json:"enabled"`
	EquityUSD     float64 `json:"equity_usd"`
	FloorUSD      float64 `json:"floor_usd"`
	WindowedCount int     `json:"windowed_order_count"`
}

// GetStatus returns the breaker state for reporting.
func (b *EquityCircuitBreaker) GetStatus() Status {
	floor := b.disableThreshold()

	b.mu.Lock()
	defer b.mu.Unlock()

	return Status{
		Enabled:       b.enabled.Load(),
		EquityUSD:     b.lastEquityUSD,
		FloorUSD:      floor,
		WindowedCount: len(b.recentOrders),
	}
}
