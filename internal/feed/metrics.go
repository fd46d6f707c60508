package feed

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BarsReceivedTotal tracks bars delivered by any source.
	BarsReceivedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "intraday_exec_feed_bars_received_total",
		Help: "Total number of bars received from the feed",
	})

	// BarsDroppedTotal tracks bars dropped because the consumer lagged.
	BarsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "intraday_exec_feed_bars_dropped_total",
		Help: "Total number of bars dropped due to a full channel",
	})

	// FeedConnected is 1 while the websocket feed is connected.
	FeedConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "intraday_exec_feed_connected",
		Help: "Feed connection state (1 connected, 0 disconnected)",
	})

	// ReconnectAttemptsTotal tracks feed reconnection attempts.
	ReconnectAttemptsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "intraday_exec_feed_reconnect_attempts_total",
		Help: "Total number of feed reconnection attempts",
	})
)
