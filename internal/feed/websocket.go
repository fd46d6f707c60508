package feed

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/mselser95/intraday-exec/pkg/types"
)

// WSConfig holds websocket feed configuration.
type WSConfig struct {
	URL                   string
	Instruments           []string
	DialTimeout           time.Duration
	PongTimeout           time.Duration
	PingInterval          time.Duration
	ReconnectInitialDelay time.Duration
	ReconnectMaxDelay     time.Duration
	ReconnectBackoffMult  float64
	BufferSize            int
	Logger                *zap.Logger
}

// WSSource streams bars from a websocket feed. It reconnects with
// exponential backoff and resubscribes the configured universe after
// every reconnect.
type WSSource struct {
	cfg     WSConfig
	logger  *zap.Logger
	backoff *backoff

	conn      *websocket.Conn
	mu        sync.RWMutex
	barChan   chan *types.Bar
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	connected atomic.Bool
}

// NewWSSource creates a websocket bar source.
func NewWSSource(cfg WSConfig) *WSSource {
	ctx, cancel := context.WithCancel(context.Background())

	return &WSSource{
		cfg:     cfg,
		logger:  cfg.Logger,
		backoff: newBackoff(cfg.ReconnectInitialDelay, cfg.ReconnectMaxDelay, cfg.ReconnectBackoffMult),
		barChan: make(chan *types.Bar, cfg.BufferSize),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start connects and begins streaming bars.
func (s *WSSource) Start() error {
	s.logger.Info("feed-starting", zap.String("url", s.cfg.URL))

	err := s.connect(s.ctx)
	if err != nil {
		return fmt.Errorf("initial connection: %w", err)
	}

	s.wg.Add(3)
	go s.readLoop()
	go s.pingLoop()
	go s.reconnectLoop()

	return nil
}

// Bars implements Source.
func (s *WSSource) Bars() <-chan *types.Bar {
	return s.barChan
}

func (s *WSSource) connect(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: s.cfg.DialTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, s.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(s.cfg.PongTimeout))
	})

	err = conn.WriteJSON(map[string]interface{}{
		"type":           "subscribe",
		"channel":        "bars",
		"instrument_ids": s.cfg.Instruments,
	})
	if err != nil {
		conn.Close()
		return fmt.Errorf("write subscribe message: %w", err)
	}

	s.mu.Lock()
	if s.conn != nil {
		// Drop the failed connection so reconnects never leak sockets.
		_ = s.conn.Close()
	}
	s.conn = conn
	s.mu.Unlock()

	s.connected.Store(true)
	FeedConnected.Set(1)

	s.logger.Info("feed-connected",
		zap.Int("instrument-count", len(s.cfg.Instruments)))

	return nil
}

func (s *WSSource) readLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		s.mu.RLock()
		conn := s.conn
		s.mu.RUnlock()

		if conn == nil {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			s.logger.Warn("feed-read-error", zap.Error(err))
			s.connected.Store(false)
			FeedConnected.Set(0)
			_ = conn.Close()
			return
		}

		var bar types.Bar
		err = json.Unmarshal(message, &bar)
		if err != nil || bar.InstrumentID == "" {
			// Heartbeats and control messages carry no instrument ID.
			s.logger.Debug("feed-non-bar-message", zap.Int("bytes", len(message)))
			continue
		}

		BarsReceivedTotal.Inc()

		select {
		case s.barChan <- &bar:
		default:
			s.logger.Warn("bar-channel-full", zap.String("instrument-id", bar.InstrumentID))
			BarsDroppedTotal.Inc()
		}
	}
}

func (s *WSSource) pingLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			if !s.connected.Load() {
				continue
			}

			s.mu.RLock()
			conn := s.conn
			s.mu.RUnlock()

			if conn == nil {
				continue
			}

			err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(time.Second))
			if err != nil {
				s.logger.Warn("feed-ping-error", zap.Error(err))
			}
		}
	}
}

func (s *WSSource) reconnectLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		if s.connected.Load() {
			time.Sleep(time.Second)
			continue
		}

		delay := s.backoff.next()
		s.logger.Warn("feed-reconnecting", zap.Duration("backoff", delay))
		ReconnectAttemptsTotal.Inc()

		select {
		case <-time.After(delay):
		case <-s.ctx.Done():
			return
		}

		err := s.connect(s.ctx)
		if err != nil {
			s.logger.Warn("feed-reconnect-failed", zap.Error(err))
			continue
		}

		s.backoff.reset()

		s.wg.Add(1)
		go s.readLoop()
	}
}

// Close stops the feed and closes the bar channel.
func (s *WSSource) Close() error {
	s.logger.Info("closing-feed")

	s.cancel()

	s.mu.RLock()
	if s.conn != nil {
		s.conn.Close()
	}
	s.mu.RUnlock()

	s.wg.Wait()
	close(s.barChan)

	FeedConnected.Set(0)

	return nil
}
