// Package instruments resolves per-instrument reference data such as
// price increments. The static provider serves the configured universe;
// the cached wrapper fronts any provider with a TTL cache so lookups on
// the hot execution path stay cheap.
package instruments

import (
	"time"

	"go.uber.org/zap"

	"github.com/mselser95/intraday-exec/pkg/cache"
	"github.com/mselser95/intraday-exec/pkg/types"
)

// Reference is the per-instrument reference record.
type Reference struct {
	InstrumentID string
	TickSize     float64
	Currency     string
}

// Provider resolves reference data for an instrument.
type Provider interface {
	// PriceIncrement returns the minimum price increment.
	PriceIncrement(instrumentID string) (float64, error)

	// Reference returns the full reference record.
	Reference(instrumentID string) (*Reference, error)
}

// StaticProvider serves reference data from configuration: a default
// tick size with per-instrument overrides.
type StaticProvider struct {
	defaultTick float64
	overrides   map[string]float64
	currency    string
}

// NewStaticProvider creates a provider from configured tick sizes.
func NewStaticProvider(defaultTick float64, overrides map[string]float64) *StaticProvider {
	return &StaticProvider{
		defaultTick: defaultTick,
		overrides:   overrides,
		currency:    "USD",
	}
}

// PriceIncrement implements Provider.
func (p *StaticProvider) PriceIncrement(instrumentID string) (float64, error) {
	ref, err := p.Reference(instrumentID)
	if err != nil {
		return 0, err
	}
	return ref.TickSize, nil
}

// Reference implements Provider.
func (p *StaticProvider) Reference(instrumentID string) (*Reference, error) {
	tick, ok := p.overrides[instrumentID]
	if !ok {
		tick = p.defaultTick
	}

	if tick <= 0 {
		return nil, &types.OrderError{
			Code:         types.ErrUnknownInstrument,
			Message:      "no price increment configured",
			InstrumentID: instrumentID,
		}
	}

	return &Reference{
		InstrumentID: instrumentID,
		TickSize:     tick,
		Currency:     p.currency,
	}, nil
}

// CachedProvider fronts a Provider with a TTL cache.
type CachedProvider struct {
	inner  Provider
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedProvider wraps a provider with the given cache.
func NewCachedProvider(inner Provider, c cache.Cache, ttl time.Duration, logger *zap.Logger) *CachedProvider {
	return &CachedProvider{
		inner:  inner,
		cache:  c,
		ttl:    ttl,
		logger: logger,
	}
}

// PriceIncrement implements Provider.
func (p *CachedProvider) PriceIncrement(instrumentID string) (float64, error) {
	ref, err := p.Reference(instrumentID)
	if err != nil {
		return 0, err
	}
	return ref.TickSize, nil
}

// Reference implements Provider.
func (p *CachedProvider) Reference(instrumentID string) (*Reference, error) {
	if v, ok := p.cache.Get("ref:" + instrumentID); ok {
		if ref, ok := v.(*Reference); ok {
			return ref, nil
		}
	}

	ref, err := p.inner.Reference(instrumentID)
	if err != nil {
		return nil, err
	}

	p.cache.Set("ref:"+instrumentID, ref, p.ttl)

	return ref, nil
}
