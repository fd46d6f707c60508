// Package testutil provides shared fixtures and mocks for tests.
package testutil

import (
	"time"

	"github.com/mselser95/intraday-exec/pkg/types"
)

// CreateTestBar creates a bar with High/Low straddling the close.
func CreateTestBar(instrumentID string, tsEvent int64, close, volume float64) *types.Bar {
	return &types.Bar{
		InstrumentID: instrumentID,
		TsEvent:      tsEvent,
		Open:         close,
		High:         close * 1.001,
		Low:          close * 0.999,
		Close:        close,
		Volume:       volume,
	}
}

// CreateBarSeries creates one bar per minute starting at start, all at
// the same price and volume.
func CreateBarSeries(instrumentID string, start time.Time, count int, close, volume float64) []*types.Bar {
	bars := make([]*types.Bar, count)
	for i := 0; i < count; i++ {
		bars[i] = CreateTestBar(instrumentID, start.Add(time.Duration(i)*time.Minute).UnixNano(), close, volume)
	}
	return bars
}
