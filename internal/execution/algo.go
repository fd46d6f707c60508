package execution

import (
	"fmt"
	"math"

	"github.com/mselser95/intraday-exec/pkg/types"
	"go.uber.org/zap"
)

const nanosPerMinute = int64(60_000_000_000)

// Config holds execution configuration for the scheduler and its algorithm.
type Config struct {
	Algo                  string // market, twap, pov or vwap
	HorizonMinutes        int    // execution horizon for twap/vwap
	ParticipationRate     float64
	MinSliceQty           float64
	Passive               bool // selects the passive variant of vwap
	MaxCrossSpreadMinutes int  // below this, passive vwap turns aggressive
	PriceOffsetTicks      int
	Logger                *zap.Logger
}

// Algorithm decides the next child-order slice for one schedule on each
// incoming bar. Implementations mutate the schedule through the transient
// reference they receive and must not retain it past the call.
type Algorithm interface {
	OnBar(bar *types.Bar, schedule *Schedule, scheduler *Scheduler)
}

// newAlgorithm selects the algorithm once from configuration. Unknown
// identifiers are a construction-time error, never a per-tick one.
func newAlgorithm(cfg Config) (Algorithm, error) {
	switch {
	case cfg.Algo == "vwap" && cfg.Passive:
		return &passiveVWAPAlgo{cfg: cfg}, nil
	case cfg.Algo == "vwap":
		return &vwapAlgo{cfg: cfg}, nil
	case cfg.Algo == "twap":
		return &twapAlgo{cfg: cfg}, nil
	case cfg.Algo == "pov":
		return &povAlgo{cfg: cfg}, nil
	case cfg.Algo == "market":
		return &marketAlgo{cfg: cfg}, nil
	default:
		return nil, fmt.Errorf("unknown execution algo: %q", cfg.Algo)
	}
}

// remainingMinutes returns the whole minutes left before the schedule's
// horizon, never less than one.
func remainingMinutes(endTS, now int64) int64 {
	m := (endTS - now) / nanosPerMinute
	if m < 1 {
		return 1
	}
	return m
}

// boundSlice applies the min-slice floor and the remaining-quantity cap to
// a computed slice. The floor only applies when a non-zero slice was
// computed, and the cap takes precedence over the floor so a slice never
// overshoots the residual.
func boundSlice(computed, minSlice, absRemaining float64) float64 {
	if computed <= 0 {
		return 0
	}

	slice := math.Max(math.Floor(computed), minSlice)

	return math.Min(slice, absRemaining)
}

// volumeSlice sizes a slice as a fraction of the observed bar volume.
// Zero or negative volume yields no slice.
func volumeSlice(barVolume, participationRate, minSlice, absRemaining float64) float64 {
	if barVolume <= 0 {
		return 0
	}

	return boundSlice(barVolume*participationRate, minSlice, absRemaining)
}
