package strategy

// Model produces the expected-return coefficient the optimizer consumes,
// per dollar of position.
type Model interface {
	Alpha(instrumentID string, close, vwap float64) float64
}

// VWAPReversionModel expects price to revert toward the session VWAP:
// trading below VWAP is a positive signal, above a negative one.
type VWAPReversionModel struct {
	Scale float64
}

// Alpha implements Model.
func (m VWAPReversionModel) Alpha(_ string, close, vwap float64) float64 {
	if close <= 0 || vwap <= 0 {
		return 0
	}
	return m.Scale * (vwap - close) / close
}
