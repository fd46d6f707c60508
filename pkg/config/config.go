package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Execution algorithm identifiers recognized by EXEC_ALGO.
const (
	AlgoMarket = "market"
	AlgoTWAP   = "twap"
	AlgoPOV    = "pov"
	AlgoVWAP   = "vwap"
)

// Config holds all application configuration.
type Config struct {
	// Application
	LogLevel string
	HTTPPort string

	// Universe
	Instruments []string
	Venue       string

	// Market data feed
	FeedURL                   string
	FeedDialTimeout           time.Duration
	FeedPongTimeout           time.Duration
	FeedPingInterval          time.Duration
	FeedReconnectInitialDelay time.Duration
	FeedReconnectMaxDelay     time.Duration
	FeedReconnectBackoffMult  float64
	FeedBufferSize            int

	// Execution
	ExecAlgo                  string
	ExecHorizonMinutes        int
	ExecParticipationRate     float64
	ExecMinSliceQty           float64
	ExecPassive               bool
	ExecMaxCrossSpreadMinutes int
	ExecPriceOffsetTicks      int

	// Alpha model
	AlphaScale     float64
	FactorLoadings map[string]float64 // per-instrument factor betas

	// Optimizer limits
	MaxLeverage       float64
	MaxPositionWeight float64
	MaxTradeWeight    float64
	MaxDelta          float64
	MaxFactorExposure float64
	MinTradeQty       float64
	TradingCost       float64
	RiskLambda        float64
	SolverMaxIter     int
	SolverTolerance   float64

	// Instrument reference
	DefaultTickSize float64
	TickSizes       map[string]float64 // per-instrument overrides

	// Gateway
	GatewayMode      string  // "paper" or "live"
	PaperInitialCash float64 // starting cash for the paper book

	// Circuit breaker
	CBCheckInterval   time.Duration
	CBOrderMultiplier float64
	CBMinEquityUSD    float64
	CBHysteresisRatio float64

	// Storage
	StorageMode  string // "postgres" or "console"
	PostgresHost string
	PostgresPort string
	PostgresUser string
	PostgresPass string
	PostgresDB   string
	PostgresSSL  string
}

// LoadFromEnv loads configuration from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		// Application defaults
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		HTTPPort: getEnvOrDefault("HTTP_PORT", "8080"),

		// Universe defaults
		Instruments: splitAndTrim(os.Getenv("INSTRUMENTS")),
		Venue:       getEnvOrDefault("VENUE", "XNYS"),

		// Feed defaults
		FeedURL:                   getEnvOrDefault("FEED_WS_URL", "ws://localhost:9001/bars"),
		FeedDialTimeout:           getDurationOrDefault("FEED_DIAL_TIMEOUT", 10*time.Second),
		FeedPongTimeout:           getDurationOrDefault("FEED_PONG_TIMEOUT", 15*time.Second),
		FeedPingInterval:          getDurationOrDefault("FEED_PING_INTERVAL", 10*time.Second),
		FeedReconnectInitialDelay: getDurationOrDefault("FEED_RECONNECT_INITIAL_DELAY", 1*time.Second),
		FeedReconnectMaxDelay:     getDurationOrDefault("FEED_RECONNECT_MAX_DELAY", 30*time.Second),
		FeedReconnectBackoffMult:  getFloat64OrDefault("FEED_RECONNECT_BACKOFF_MULTIPLIER", 2.0),
		FeedBufferSize:            getIntOrDefault("FEED_BUFFER_SIZE", 1000),

		// Execution defaults
		ExecAlgo:                  getEnvOrDefault("EXEC_ALGO", AlgoVWAP),
		ExecHorizonMinutes:        getIntOrDefault("EXEC_HORIZON_MINUTES", 30),
		ExecParticipationRate:     getFloat64OrDefault("EXEC_PARTICIPATION_RATE", 0.1),
		ExecMinSliceQty:           getFloat64OrDefault("EXEC_MIN_SLICE_QTY", 1),
		ExecPassive:               getBoolOrDefault("EXEC_PASSIVE", false),
		ExecMaxCrossSpreadMinutes: getIntOrDefault("EXEC_MAX_CROSS_SPREAD_MINUTES", 5),
		ExecPriceOffsetTicks:      getIntOrDefault("EXEC_PRICE_OFFSET_TICKS", 1),

		// Alpha model defaults
		AlphaScale:     getFloat64OrDefault("ALPHA_SCALE", 1.0),
		FactorLoadings: parseFloatMap(os.Getenv("FACTOR_LOADINGS")),

		// Optimizer defaults
		MaxLeverage:       getFloat64OrDefault("OPT_MAX_LEVERAGE", 1.5),
		MaxPositionWeight: getFloat64OrDefault("OPT_MAX_POSITION_WEIGHT", 0.05),
		MaxTradeWeight:    getFloat64OrDefault("OPT_MAX_TRADE_WEIGHT", 0.05),
		MaxDelta:          getFloat64OrDefault("OPT_MAX_DELTA", 1_000_000.0),
		MaxFactorExposure: getFloat64OrDefault("OPT_MAX_FACTOR_EXPOSURE", 1_000_000.0),
		MinTradeQty:       getFloat64OrDefault("OPT_MIN_TRADE_QTY", 1.0),
		TradingCost:       getFloat64OrDefault("OPT_TRADING_COST", 0.005),
		RiskLambda:        getFloat64OrDefault("OPT_RISK_LAMBDA", 0.001),
		SolverMaxIter:     getIntOrDefault("OPT_SOLVER_MAX_ITER", 500),
		SolverTolerance:   getFloat64OrDefault("OPT_SOLVER_TOLERANCE", 1e-8),

		// Instrument reference defaults
		DefaultTickSize: getFloat64OrDefault("TICK_SIZE_DEFAULT", 0.01),
		TickSizes:       parseTickSizes(os.Getenv("TICK_SIZES")),

		// Gateway defaults
		GatewayMode:      getEnvOrDefault("GATEWAY_MODE", "paper"),
		PaperInitialCash: getFloat64OrDefault("PAPER_INITIAL_CASH", 1_000_000),

		// Circuit breaker defaults
		CBCheckInterval:   getDurationOrDefault("CB_CHECK_INTERVAL", 30*time.Second),
		CBOrderMultiplier: getFloat64OrDefault("CB_ORDER_MULTIPLIER", 3.0),
		CBMinEquityUSD:    getFloat64OrDefault("CB_MIN_EQUITY_USD", 10_000),
		CBHysteresisRatio: getFloat64OrDefault("CB_HYSTERESIS_RATIO", 1.5),

		// Storage defaults
		StorageMode:  getEnvOrDefault("STORAGE_MODE", "console"),
		PostgresHost: getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresPort: getEnvOrDefault("POSTGRES_PORT", "5432"),
		PostgresUser: getEnvOrDefault("POSTGRES_USER", "intraday"),
		PostgresPass: getEnvOrDefault("POSTGRES_PASSWORD", "intraday123"),
		PostgresDB:   getEnvOrDefault("POSTGRES_DB", "intraday_exec"),
		PostgresSSL:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
	}

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are valid. Invalid execution
// configuration is fatal here: the scheduler must refuse to start rather
// than fail per-tick.
func (c *Config) Validate() error {
	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT cannot be empty")
	}

	switch c.ExecAlgo {
	case AlgoMarket, AlgoTWAP, AlgoPOV, AlgoVWAP:
	default:
		return fmt.Errorf("EXEC_ALGO must be one of market, twap, pov, vwap, got %q", c.ExecAlgo)
	}

	if (c.ExecAlgo == AlgoTWAP || c.ExecAlgo == AlgoVWAP) && c.ExecHorizonMinutes <= 0 {
		return fmt.Errorf("EXEC_HORIZON_MINUTES must be positive for %s, got %d", c.ExecAlgo, c.ExecHorizonMinutes)
	}

	if c.ExecAlgo == AlgoPOV || c.ExecAlgo == AlgoVWAP {
		if c.ExecParticipationRate <= 0 || c.ExecParticipationRate > 1.0 {
			return fmt.Errorf("EXEC_PARTICIPATION_RATE must be in (0, 1.0], got %f", c.ExecParticipationRate)
		}
	}

	if c.ExecMinSliceQty < 0 {
		return fmt.Errorf("EXEC_MIN_SLICE_QTY cannot be negative, got %f", c.ExecMinSliceQty)
	}

	if c.ExecPassive && c.ExecAlgo != AlgoVWAP {
		return fmt.Errorf("EXEC_PASSIVE is only valid with EXEC_ALGO=vwap, got %q", c.ExecAlgo)
	}

	if c.MaxPositionWeight <= 0 {
		return fmt.Errorf("OPT_MAX_POSITION_WEIGHT must be positive, got %f", c.MaxPositionWeight)
	}

	if c.MaxTradeWeight <= 0 {
		return fmt.Errorf("OPT_MAX_TRADE_WEIGHT must be positive, got %f", c.MaxTradeWeight)
	}

	if c.GatewayMode != "paper" && c.GatewayMode != "live" {
		return fmt.Errorf("GATEWAY_MODE must be 'paper' or 'live', got %q", c.GatewayMode)
	}

	if c.CBHysteresisRatio < 1.0 {
		return fmt.Errorf("CB_HYSTERESIS_RATIO must be at least 1.0, got %f", c.CBHysteresisRatio)
	}

	if c.StorageMode != "postgres" && c.StorageMode != "console" {
		return fmt.Errorf("STORAGE_MODE must be 'postgres' or 'console', got %q", c.StorageMode)
	}

	return nil
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

// parseTickSizes parses "AAPL.XNAS=0.01,ES.XCME=0.25" into a map.
// Malformed or non-positive entries are dropped.
func parseTickSizes(s string) map[string]float64 {
	out := make(map[string]float64)
	for k, v := range parseFloatMap(s) {
		if v > 0 {
			out[k] = v
		}
	}

	return out
}

// parseFloatMap parses "KEY=1.2,OTHER=-0.8" into a map. Malformed
// entries are dropped; negative values are allowed.
func parseFloatMap(s string) map[string]float64 {
	out := make(map[string]float64)
	if s == "" {
		return out
	}

	for _, entry := range strings.Split(s, ",") {
		kv := strings.SplitN(strings.TrimSpace(entry), "=", 2)
		if len(kv) != 2 {
			continue
		}

		val, err := strconv.ParseFloat(kv[1], 64)
		if err != nil {
			continue
		}

		out[kv[0]] = val
	}

	return out
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getFloat64OrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	floatVal, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}

	return floatVal
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolVal
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}
