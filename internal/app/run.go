package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Run starts the application and blocks until shutdown.
func (a *App) Run() error {
	a.logger.Info("application-starting",
		zap.String("gateway-mode", a.cfg.GatewayMode),
		zap.String("exec-algo", a.cfg.ExecAlgo),
		zap.Strings("instruments", a.cfg.Instruments),
		zap.String("log-level", a.cfg.LogLevel))

	err := a.startComponents()
	if err != nil {
		return err
	}

	a.healthChecker.SetReady(true)

	a.logger.Info("application-ready",
		zap.String("http-addr", ":"+a.cfg.HTTPPort))

	return a.waitForShutdown()
}

func (a *App) startComponents() error {
	// Start HTTP server
	a.wg.Add(1)
	go a.runHTTPServer()

	// Give HTTP server a moment to start
	time.Sleep(100 * time.Millisecond)

	// Start equity monitoring
	a.breaker.Start(a.ctx)

	// Start the bar source
	err := a.source.Start()
	if err != nil {
		return fmt.Errorf("start feed: %w", err)
	}

	// Start the single strategy loop
	a.wg.Add(1)
	go a.runStrategyLoop()

	return nil
}

func (a *App) runHTTPServer() {
	defer a.wg.Done()
	err := a.httpServer.Start()
	if err != nil {
		a.logger.Error("http-server-error", zap.Error(err))
	}
}

// runStrategyLoop consumes bars and drives the strategy synchronously.
// All decision and execution state is owned by this one goroutine.
func (a *App) runStrategyLoop() {
	defer a.wg.Done()

	for {
		select {
		case <-a.ctx.Done():
			return
		case bar, ok := <-a.source.Bars():
			if !ok {
				a.logger.Info("feed-exhausted")
				a.cancel()
				return
			}

			err := a.strategy.OnBar(bar)
			if err != nil {
				a.logger.Error("strategy-bar-error",
					zap.String("instrument-id", bar.InstrumentID),
					zap.Error(err))
			}
		}
	}
}

func (a *App) waitForShutdown() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		a.logger.Info("shutdown-signal-received", zap.String("signal", sig.String()))
	case <-a.ctx.Done():
		a.logger.Info("context-cancelled")
	}

	return a.Shutdown()
}
