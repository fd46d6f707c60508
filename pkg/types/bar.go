package types

import "time"

// Bar represents one aggregated OHLCV data point for a single instrument
// over a fixed time interval, as delivered by the market data feed.
type Bar struct {
	InstrumentID string  `json:"instrument_id"`
	TsEvent      int64   `json:"ts_event"` // nanoseconds since epoch
	Open         float64 `json:"open"`
	High         float64 `json:"high"`
	Low          float64 `json:"low"`
	Close        float64 `json:"close"`
	Volume       float64 `json:"volume"`
}

// Time returns the bar's event timestamp as a time.Time in UTC.
func (b *Bar) Time() time.Time {
	return time.Unix(0, b.TsEvent).UTC()
}
