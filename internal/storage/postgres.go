package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// PostgresStorage implements Storage using PostgreSQL.
type PostgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

// PostgresConfig holds PostgreSQL configuration.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
	Logger   *zap.Logger
}

// NewPostgresStorage creates a new PostgreSQL storage.
func NewPostgresStorage(cfg *PostgresConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	cfg.Logger.Info("postgres-storage-connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	return &PostgresStorage{
		db:     db,
		logger: cfg.Logger,
	}, nil
}

// newPostgresStorageWithDB wires an existing handle, for tests.
func newPostgresStorageWithDB(db *sql.DB, logger *zap.Logger) *PostgresStorage {
	return &PostgresStorage{db: db, logger: logger}
}

// StoreDecision inserts one optimizer decision row.
func (p *PostgresStorage) StoreDecision(ctx context.Context, rec *DecisionRecord) error {
	query := `
		INSERT INTO decisions (
			run_id, ts_event, instrument_id, alpha_usd,
			current_position_usd, target_position_usd, solved, fallback_reason
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := p.db.ExecContext(ctx, query,
		rec.RunID,
		rec.TsEvent,
		rec.InstrumentID,
		rec.AlphaUSD,
		rec.CurrentPositionUSD,
		rec.TargetPositionUSD,
		rec.Solved,
		rec.FallbackReason,
	)
	if err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}

	p.logger.Debug("decision-stored",
		zap.String("run-id", rec.RunID),
		zap.String("instrument-id", rec.InstrumentID))

	return nil
}

// StoreOrder inserts one submitted order row.
func (p *PostgresStorage) StoreOrder(ctx context.Context, rec *OrderRecord) error {
	query := `
		INSERT INTO orders (
			order_id, ts_event, instrument_id, side,
			order_type, quantity, price, algo
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := p.db.ExecContext(ctx, query,
		rec.OrderID,
		rec.TsEvent,
		rec.InstrumentID,
		rec.Side,
		rec.OrderType,
		rec.Quantity,
		rec.Price,
		rec.Algo,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	p.logger.Debug("order-stored",
		zap.String("order-id", rec.OrderID),
		zap.String("instrument-id", rec.InstrumentID))

	return nil
}

// Close closes the database connection.
func (p *PostgresStorage) Close() error {
	p.logger.Info("closing-postgres-storage")
	return p.db.Close()
}
