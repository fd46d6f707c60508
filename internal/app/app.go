// Package app wires configuration, feed, strategy, execution and the
// reporting surfaces into one runnable application.
package app

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/mselser95/intraday-exec/internal/circuitbreaker"
	"github.com/mselser95/intraday-exec/internal/execution"
	"github.com/mselser95/intraday-exec/internal/feed"
	"github.com/mselser95/intraday-exec/internal/portfolio"
	"github.com/mselser95/intraday-exec/internal/storage"
	"github.com/mselser95/intraday-exec/internal/strategy"
	"github.com/mselser95/intraday-exec/pkg/config"
	"github.com/mselser95/intraday-exec/pkg/healthprobe"
	"github.com/mselser95/intraday-exec/pkg/httpserver"
)

// App is the main application orchestrator.
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
	httpServer    *httpserver.Server
	source        feed.Source
	scheduler     *execution.Scheduler
	strategy      *strategy.Strategy
	book          *portfolio.PaperBook
	breaker       *circuitbreaker.EquityCircuitBreaker
	storage       storage.Storage
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}

// Options holds application options.
type Options struct {
	ReplayFile string // when set, replay bars from this CSV instead of the live feed
}
