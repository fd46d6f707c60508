package strategy

import "github.com/mselser95/intraday-exec/pkg/types"

const dayNanos = int64(24) * 60 * 60 * 1_000_000_000

// VWAP accumulates a volume-weighted average price over one trading day
// and resets when the UTC day changes.
type VWAP struct {
	day    int64
	cumPV  float64
	cumVol float64
}

// Update folds one bar into the running average. Zero-volume bars carry
// no price information and are ignored.
func (v *VWAP) Update(bar *types.Bar) {
	day := bar.TsEvent / dayNanos
	if day != v.day {
		v.day = day
		v.cumPV = 0
		v.cumVol = 0
	}

	if bar.Volume <= 0 {
		return
	}

	typical := (bar.High + bar.Low + bar.Close) / 3
	v.cumPV += typical * bar.Volume
	v.cumVol += bar.Volume
}

// Value returns the day's VWAP, or zero before any volume has traded.
func (v *VWAP) Value() float64 {
	if v.cumVol == 0 {
		return 0
	}
	return v.cumPV / v.cumVol
}
