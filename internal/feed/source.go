// Package feed delivers market data bars to the strategy loop, either
// from a live websocket stream or from a CSV replay file.
package feed

import "github.com/mselser95/intraday-exec/pkg/types"

// Source is a stream of bars. Start begins delivery; the Bars channel
// is closed after Close returns or the source is exhausted.
type Source interface {
	Start() error
	Bars() <-chan *types.Bar
	Close() error
}
