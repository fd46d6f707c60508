// Package strategy runs the intraday decision loop: once per minute it
// optimizes target dollar positions from the alpha model and hands the
// resulting share deltas to the execution scheduler as a wave.
package strategy

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mselser95/intraday-exec/internal/optimizer"
	"github.com/mselser95/intraday-exec/internal/portfolio"
	"github.com/mselser95/intraday-exec/internal/storage"
	"github.com/mselser95/intraday-exec/pkg/types"
)

const minuteNanos = int64(time.Minute)

// Config holds the strategy parameters.
type Config struct {
	Instruments       []string
	TradingCost       float64
	RiskLambda        float64
	MaxPositionWeight float64
	MaxTradeWeight    float64
	MaxDeltaUSD       float64
	MaxFactorExposure float64
	MaxLeverage       float64
	MinTradeQty       float64
	FactorLoadings    map[string]float64
	Logger            *zap.Logger
}

// TargetSubmitter is the execution surface the strategy drives.
type TargetSubmitter interface {
	OnBar(bar *types.Bar)
	SubmitTarget(instrumentID string, deltaQty float64, tsEvent int64)
}

// Book is the portfolio state the strategy reads and marks.
type Book interface {
	portfolio.Provider
	MarkPrice(instrumentID string, price float64)
}

// Strategy wires bars through execution, indicators and the once-per-
// minute optimization wave. It is single-threaded: OnBar must be called
// from one goroutine.
type Strategy struct {
	cfg       Config
	logger    *zap.Logger
	optimizer *optimizer.Optimizer
	scheduler TargetSubmitter
	book      Book
	store     storage.Storage
	alpha     Model
	session   SessionFunc

	vwaps      map[string]*VWAP
	lastClose  map[string]float64
	lastMinute int64
}

// New creates a strategy. The store may be nil to skip persistence.
func New(
	cfg Config,
	opt *optimizer.Optimizer,
	scheduler TargetSubmitter,
	book Book,
	store storage.Storage,
	alpha Model,
	session SessionFunc,
) *Strategy {
	return &Strategy{
		cfg:        cfg,
		logger:     cfg.Logger,
		optimizer:  opt,
		scheduler:  scheduler,
		book:       book,
		store:      store,
		alpha:      alpha,
		session:    session,
		vwaps:      make(map[string]*VWAP),
		lastClose:  make(map[string]float64),
		lastMinute: -1,
	}
}

// OnBar processes one bar. Execution of active schedules happens before
// the decision gate so a wave decided on this bar never trades against
// the same bar twice.
func (s *Strategy) OnBar(bar *types.Bar) error {
	BarsProcessedTotal.Inc()

	s.scheduler.OnBar(bar)

	s.book.MarkPrice(bar.InstrumentID, bar.Close)
	s.vwapFor(bar.InstrumentID).Update(bar)
	if bar.Close > 0 {
		s.lastClose[bar.InstrumentID] = bar.Close
	}

	if s.session != nil && !s.session(bar.Time()) {
		return nil
	}

	minute := bar.TsEvent / minuteNanos
	if minute == s.lastMinute {
		return nil
	}
	s.lastMinute = minute

	return s.onMinute(bar.TsEvent)
}

// onMinute runs one optimization wave across the whole universe.
func (s *Strategy) onMinute(tsEvent int64) error {
	if len(s.cfg.Instruments) == 0 {
		return nil
	}

	value := s.book.PortfolioValue()
	portfolio.PortfolioValueUSD.Set(value)

	in, err := s.buildInput(value)
	if err != nil {
		return fmt.Errorf("build optimizer input: %w", err)
	}

	res, err := s.optimizer.Optimize(in)
	if err != nil {
		return fmt.Errorf("optimize: %w", err)
	}

	WavesTotal.Inc()
	if !res.Solved {
		s.logger.Warn("wave-held-current-positions",
			zap.String("reason", res.FallbackReason))
	}

	s.storeDecisions(tsEvent, in, res)
	s.executeWave(tsEvent, in, res)

	return nil
}

func (s *Strategy) buildInput(portfolioValue float64) (*optimizer.Input, error) {
	positions := s.book.Positions()

	alpha := make(map[string]float64, len(s.cfg.Instruments))
	current := make(map[string]float64, len(s.cfg.Instruments))
	cost := make(map[string]float64, len(s.cfg.Instruments))
	lambda := make(map[string]float64, len(s.cfg.Instruments))
	posCap := make(map[string]float64, len(s.cfg.Instruments))
	trdCap := make(map[string]float64, len(s.cfg.Instruments))

	for _, id := range s.cfg.Instruments {
		close := s.lastClose[id]
		alpha[id] = s.alpha.Alpha(id, close, s.vwapFor(id).Value())
		current[id] = positions[id] * close
		cost[id] = s.cfg.TradingCost
		lambda[id] = s.cfg.RiskLambda
		posCap[id] = s.cfg.MaxPositionWeight * portfolioValue
		trdCap[id] = s.cfg.MaxTradeWeight * portfolioValue
	}

	series := map[string]map[string]float64{
		"alpha":                alpha,
		"current_position_usd": current,
		"trading_cost":         cost,
		"risk_lambda":          lambda,
		"position_cap_usd":     posCap,
		"trade_cap_usd":        trdCap,
	}

	if len(s.cfg.FactorLoadings) > 0 {
		loadings := make(map[string]float64, len(s.cfg.Instruments))
		for _, id := range s.cfg.Instruments {
			loadings[id] = s.cfg.FactorLoadings[id]
		}
		series["factor_loading"] = loadings
	}

	in, err := optimizer.BuildInput(s.cfg.Instruments, series)
	if err != nil {
		return nil, err
	}

	in.MaxNetDeltaUSD = s.cfg.MaxDeltaUSD
	in.MaxFactorExposure = s.cfg.MaxFactorExposure
	in.MaxGrossUSD = s.cfg.MaxLeverage * portfolioValue

	return in, nil
}

// storeDecisions persists the wave, best effort.
func (s *Strategy) storeDecisions(tsEvent int64, in *optimizer.Input, res *optimizer.Result) {
	if s.store == nil {
		return
	}

	runID := uuid.New().String()
	ts := time.Unix(0, tsEvent).UTC()

	for i, id := range res.InstrumentIDs {
		err := s.store.StoreDecision(context.Background(), &storage.DecisionRecord{
			RunID:              runID,
			TsEvent:            ts,
			InstrumentID:       id,
			AlphaUSD:           in.Alpha[i],
			CurrentPositionUSD: in.CurrentPositionUSD[i],
			TargetPositionUSD:  res.TargetPositionUSD[i],
			Solved:             res.Solved,
			FallbackReason:     res.FallbackReason,
		})
		if err != nil {
			s.logger.Warn("decision-store-failed",
				zap.String("instrument_id", id),
				zap.Error(err))
			return
		}
	}
}

// executeWave converts dollar deltas into share targets and submits
// them. Instruments without a price or below the minimum trade size are
// skipped, leaving their positions untouched.
func (s *Strategy) executeWave(tsEvent int64, in *optimizer.Input, res *optimizer.Result) {
	for i, id := range res.InstrumentIDs {
		deltaUSD := res.TargetPositionUSD[i] - in.CurrentPositionUSD[i]
		if deltaUSD == 0 {
			continue
		}

		price := s.lastClose[id]
		if price <= 0 {
			TradesFilteredTotal.WithLabelValues("no_price").Inc()
			s.logger.Warn("wave-skip-no-price", zap.String("instrument_id", id))
			continue
		}

		deltaShares := deltaUSD / price
		if math.Abs(deltaShares) < s.cfg.MinTradeQty {
			TradesFilteredTotal.WithLabelValues("below_min_qty").Inc()
			continue
		}

		s.scheduler.SubmitTarget(id, deltaShares, tsEvent)
	}
}

func (s *Strategy) vwapFor(instrumentID string) *VWAP {
	v, ok := s.vwaps[instrumentID]
	if !ok {
		v = &VWAP{}
		s.vwaps[instrumentID] = v
	}
	return v
}
