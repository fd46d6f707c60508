package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mselser95/intraday-exec/internal/circuitbreaker"
	"github.com/mselser95/intraday-exec/internal/execution"
	"github.com/mselser95/intraday-exec/internal/feed"
	"github.com/mselser95/intraday-exec/internal/gateway"
	"github.com/mselser95/intraday-exec/internal/instruments"
	"github.com/mselser95/intraday-exec/internal/optimizer"
	"github.com/mselser95/intraday-exec/internal/portfolio"
	"github.com/mselser95/intraday-exec/internal/storage"
	"github.com/mselser95/intraday-exec/internal/strategy"
	"github.com/mselser95/intraday-exec/pkg/cache"
	"github.com/mselser95/intraday-exec/pkg/config"
	"github.com/mselser95/intraday-exec/pkg/healthprobe"
	"github.com/mselser95/intraday-exec/pkg/httpserver"
)

// New creates a new application instance.
func New(cfg *config.Config, logger *zap.Logger, opts *Options) (*App, error) {
	if opts == nil {
		opts = &Options{}
	}

	ctx, cancel := context.WithCancel(context.Background())

	healthChecker := healthprobe.New()

	refCache, err := setupCache(logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup cache: %w", err)
	}

	ticks := setupInstruments(cfg, refCache, logger)

	store, err := setupStorage(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup storage: %w", err)
	}

	book := portfolio.NewPaperBook(cfg.PaperInitialCash, logger)
	breaker := setupBreaker(cfg, book, logger)

	gw, err := setupGateway(cfg, book, breaker, store, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup gateway: %w", err)
	}

	scheduler, err := setupScheduler(cfg, gw, ticks, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup scheduler: %w", err)
	}

	strat := setupStrategy(cfg, scheduler, book, store, logger)

	source := setupFeed(cfg, opts, logger)

	httpServer := setupHTTPServer(cfg, logger, healthChecker, scheduler, breaker)

	return &App{
		cfg:           cfg,
		logger:        logger,
		healthChecker: healthChecker,
		httpServer:    httpServer,
		source:        source,
		scheduler:     scheduler,
		strategy:      strat,
		book:          book,
		breaker:       breaker,
		storage:       store,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

func setupCache(logger *zap.Logger) (cache.Cache, error) {
	return cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: 10000,
		MaxCost:     1000,
		BufferItems: 64,
		Logger:      logger,
	})
}

func setupInstruments(cfg *config.Config, refCache cache.Cache, logger *zap.Logger) instruments.Provider {
	static := instruments.NewStaticProvider(cfg.DefaultTickSize, cfg.TickSizes)
	return instruments.NewCachedProvider(static, refCache, 0, logger)
}

func setupStorage(cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	if cfg.StorageMode == "postgres" {
		pgStorage, err := storage.NewPostgresStorage(&storage.PostgresConfig{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPass,
			Database: cfg.PostgresDB,
			SSLMode:  cfg.PostgresSSL,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create postgres storage: %w", err)
		}
		return pgStorage, nil
	}

	return storage.NewConsoleStorage(logger), nil
}

func setupBreaker(cfg *config.Config, book *portfolio.PaperBook, logger *zap.Logger) *circuitbreaker.EquityCircuitBreaker {
	return circuitbreaker.New(
		book,
		cfg.CBCheckInterval,
		cfg.CBOrderMultiplier,
		cfg.CBMinEquityUSD,
		cfg.CBHysteresisRatio,
		logger,
	)
}

func setupGateway(
	cfg *config.Config,
	book *portfolio.PaperBook,
	breaker *circuitbreaker.EquityCircuitBreaker,
	store storage.Storage,
	logger *zap.Logger,
) (execution.OrderGateway, error) {
	if cfg.GatewayMode == "live" {
		// Live venue connectivity ships separately from this build.
		return nil, fmt.Errorf("live gateway is not available, use GATEWAY_MODE=paper")
	}

	return gateway.NewPaperGateway(book, breaker, store, cfg.ExecAlgo, logger), nil
}

func setupScheduler(
	cfg *config.Config,
	gw execution.OrderGateway,
	ticks execution.TickProvider,
	logger *zap.Logger,
) (*execution.Scheduler, error) {
	return execution.NewScheduler(execution.Config{
		Algo:                  cfg.ExecAlgo,
		HorizonMinutes:        cfg.ExecHorizonMinutes,
		ParticipationRate:     cfg.ExecParticipationRate,
		MinSliceQty:           cfg.ExecMinSliceQty,
		Passive:               cfg.ExecPassive,
		MaxCrossSpreadMinutes: cfg.ExecMaxCrossSpreadMinutes,
		PriceOffsetTicks:      cfg.ExecPriceOffsetTicks,
		Logger:                logger,
	}, gw, ticks)
}

func setupStrategy(
	cfg *config.Config,
	scheduler *execution.Scheduler,
	book *portfolio.PaperBook,
	store storage.Storage,
	logger *zap.Logger,
) *strategy.Strategy {
	opt := optimizer.New(optimizer.NewPenaltySolver(cfg.SolverMaxIter, cfg.SolverTolerance), logger)

	return strategy.New(
		strategy.Config{
			Instruments:       cfg.Instruments,
			TradingCost:       cfg.TradingCost,
			RiskLambda:        cfg.RiskLambda,
			MaxPositionWeight: cfg.MaxPositionWeight,
			MaxTradeWeight:    cfg.MaxTradeWeight,
			MaxDeltaUSD:       cfg.MaxDelta,
			MaxFactorExposure: cfg.MaxFactorExposure,
			MaxLeverage:       cfg.MaxLeverage,
			MinTradeQty:       cfg.MinTradeQty,
			FactorLoadings:    cfg.FactorLoadings,
			Logger:            logger,
		},
		opt,
		scheduler,
		book,
		store,
		strategy.VWAPReversionModel{Scale: cfg.AlphaScale},
		strategy.WeekdaySession,
	)
}

func setupFeed(cfg *config.Config, opts *Options, logger *zap.Logger) feed.Source {
	if opts.ReplayFile != "" {
		return feed.NewReplaySource(opts.ReplayFile, cfg.FeedBufferSize, logger)
	}

	return feed.NewWSSource(feed.WSConfig{
		URL:                   cfg.FeedURL,
		Instruments:           cfg.Instruments,
		DialTimeout:           cfg.FeedDialTimeout,
		PongTimeout:           cfg.FeedPongTimeout,
		PingInterval:          cfg.FeedPingInterval,
		ReconnectInitialDelay: cfg.FeedReconnectInitialDelay,
		ReconnectMaxDelay:     cfg.FeedReconnectMaxDelay,
		ReconnectBackoffMult:  cfg.FeedReconnectBackoffMult,
		BufferSize:            cfg.FeedBufferSize,
		Logger:                logger,
	})
}

func setupHTTPServer(
	cfg *config.Config,
	logger *zap.Logger,
	healthChecker *healthprobe.HealthChecker,
	scheduler *execution.Scheduler,
	breaker *circuitbreaker.EquityCircuitBreaker,
) *httpserver.Server {
	return httpserver.New(&httpserver.Config{
		Port:          cfg.HTTPPort,
		Logger:        logger,
		HealthChecker: healthChecker,
		Schedules:     scheduler,
		Breaker:       breaker,
	})
}
