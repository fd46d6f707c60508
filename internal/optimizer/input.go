package optimizer

import (
	"fmt"
	"math"
)

// Input holds the per-instrument vectors consumed by one optimization run.
// All vectors share the index defined by InstrumentIDs, in order. Alignment
// is a caller contract: an instrument present in one series but absent in
// another indicates an upstream data integrity bug and fails validation.
type Input struct {
	InstrumentIDs      []string
	Alpha              []float64 // expected return, USD-scaled
	CurrentPositionUSD []float64
	TradingCost        []float64 // cost coefficient per USD traded
	RiskLambda         []float64 // risk-aversion coefficient
	PositionCapUSD     []float64
	TradeCapUSD        []float64

	// Optional coupling constraints. A nil FactorLoading disables the
	// factor-exposure constraint; non-positive scalars disable the others.
	FactorLoading     []float64
	MaxFactorExposure float64
	MaxNetDeltaUSD    float64
	MaxGrossUSD       float64
}

// BuildInput assembles an aligned Input from per-instrument series keyed by
// instrument ID. Every series must contain every instrument.
func BuildInput(instrumentIDs []string, series map[string]map[string]float64) (*Input, error) {
	in := &Input{InstrumentIDs: instrumentIDs}

	pick := func(name string) ([]float64, error) {
		m, ok := series[name]
		if !ok {
			return nil, fmt.Errorf("missing series %q", name)
		}

		out := make([]float64, len(instrumentIDs))
		for i, id := range instrumentIDs {
			v, ok := m[id]
			if !ok {
				return nil, fmt.Errorf("series %q missing instrument %q", name, id)
			}
			out[i] = v
		}

		return out, nil
	}

	var err error
	if in.Alpha, err = pick("alpha"); err != nil {
		return nil, err
	}
	if in.CurrentPositionUSD, err = pick("current_position_usd"); err != nil {
		return nil, err
	}
	if in.TradingCost, err = pick("trading_cost"); err != nil {
		return nil, err
	}
	if in.RiskLambda, err = pick("risk_lambda"); err != nil {
		return nil, err
	}
	if in.PositionCapUSD, err = pick("position_cap_usd"); err != nil {
		return nil, err
	}
	if in.TradeCapUSD, err = pick("trade_cap_usd"); err != nil {
		return nil, err
	}

	if _, ok := series["factor_loading"]; ok {
		if in.FactorLoading, err = pick("factor_loading"); err != nil {
			return nil, err
		}
	}

	return in, nil
}

// Validate checks vector alignment and numeric sanity. Violations are fatal
// to the caller, never silently defaulted.
func (in *Input) Validate() error {
	n := len(in.InstrumentIDs)
	if n == 0 {
		return fmt.Errorf("empty instrument index")
	}

	vectors := []struct {
		name string
		vec  []float64
	}{
		{"alpha", in.Alpha},
		{"current_position_usd", in.CurrentPositionUSD},
		{"trading_cost", in.TradingCost},
		{"risk_lambda", in.RiskLambda},
		{"position_cap_usd", in.PositionCapUSD},
		{"trade_cap_usd", in.TradeCapUSD},
	}

	for _, v := range vectors {
		if len(v.vec) != n {
			return fmt.Errorf("misaligned input: %s has %d entries, index has %d", v.name, len(v.vec), n)
		}

		for i, x := range v.vec {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return fmt.Errorf("invalid %s for %s: %f", v.name, in.InstrumentIDs[i], x)
			}
		}
	}

	if in.FactorLoading != nil && len(in.FactorLoading) != n {
		return fmt.Errorf("misaligned input: factor_loading has %d entries, index has %d", len(in.FactorLoading), n)
	}

	for i := 0; i < n; i++ {
		if in.PositionCapUSD[i] < 0 {
			return fmt.Errorf("negative position cap for %s", in.InstrumentIDs[i])
		}
		if in.TradeCapUSD[i] < 0 {
			return fmt.Errorf("negative trade cap for %s", in.InstrumentIDs[i])
		}
		if in.RiskLambda[i] < 0 {
			return fmt.Errorf("negative risk lambda for %s", in.InstrumentIDs[i])
		}
	}

	return nil
}
