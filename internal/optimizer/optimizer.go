package optimizer

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
)

// Result carries the target dollar positions for one optimization run.
// When Solved is false the targets are the deterministic fallback (carry
// forward current positions) and FallbackReason says why.
type Result struct {
	InstrumentIDs     []string
	TargetPositionUSD []float64
	Solved            bool
	FallbackReason    string
}

// Optimizer computes target dollar positions from alpha, cost and risk
// inputs, subject to position, trade, net-delta, factor-exposure and gross
// caps. The solver is a narrow dependency so any conforming QP solver can
// be substituted without touching scheduling logic.
type Optimizer struct {
	solver Solver
	logger *zap.Logger
}

// New creates an optimizer around the given solver.
func New(solver Solver, logger *zap.Logger) *Optimizer {
	return &Optimizer{
		solver: solver,
		logger: logger,
	}
}

// Optimize runs one constrained optimization. The only error it returns is
// a caller contract violation (misaligned or invalid input vectors); solver
// failures are recovered locally by holding current positions and are
// surfaced through the result, never as an error.
func (o *Optimizer) Optimize(in *Input) (*Result, error) {
	err := in.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate input: %w", err)
	}

	start := time.Now()
	defer func() {
		OptimizationDurationSeconds.Observe(time.Since(start).Seconds())
	}()
	OptimizationsTotal.Inc()

	n := len(in.InstrumentIDs)
	lower := make([]float64, n)
	upper := make([]float64, n)
	for i := 0; i < n; i++ {
		lower[i] = math.Max(-in.PositionCapUSD[i], in.CurrentPositionUSD[i]-in.TradeCapUSD[i])
		upper[i] = math.Min(in.PositionCapUSD[i], in.CurrentPositionUSD[i]+in.TradeCapUSD[i])
	}

	x, err := o.solver.Solve(&Problem{
		Alpha:             in.Alpha,
		Current:           in.CurrentPositionUSD,
		Cost:              in.TradingCost,
		Lambda:            in.RiskLambda,
		Lower:             lower,
		Upper:             upper,
		FactorLoading:     in.FactorLoading,
		MaxFactorExposure: in.MaxFactorExposure,
		MaxNetDeltaUSD:    in.MaxNetDeltaUSD,
		MaxGrossUSD:       in.MaxGrossUSD,
	})
	if err != nil {
		return o.fallback(in, err), nil
	}

	return &Result{
		InstrumentIDs:     in.InstrumentIDs,
		TargetPositionUSD: x,
		Solved:            true,
	}, nil
}

// fallback holds current positions so a solver failure never introduces
// unvetted trades.
func (o *Optimizer) fallback(in *Input, cause error) *Result {
	OptimizationFallbacksTotal.Inc()

	o.logger.Warn("optimization-fallback",
		zap.Int("instruments", len(in.InstrumentIDs)),
		zap.Error(cause))

	target := make([]float64, len(in.CurrentPositionUSD))
	copy(target, in.CurrentPositionUSD)

	return &Result{
		InstrumentIDs:     in.InstrumentIDs,
		TargetPositionUSD: target,
		Solved:            false,
		FallbackReason:    cause.Error(),
	}
}
