package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/mohamedkhairy/stock-analyst/internal/config"
	"github.com/mohamedkhairy/stock-analyst/internal/models"
	"github.com/mohamedkhairy/stock-analyst/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	barArchiveOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bar_archive_operations_total",
			Help: "Total number of bar archive operations",
		},
		[]string{"operation", "status"},
	)

	barArchiveLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bar_archive_latency_seconds",
			Help:    "Bar archive operation latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		},
		[]string{"operation"},
	)
)

const createDailyBarsTable = `
	CREATE TABLE IF NOT EXISTS daily_bars (
		ticker TEXT NOT NULL,
		date   DATE NOT NULL,
		open   DOUBLE PRECISION NOT NULL,
		high   DOUBLE PRECISION NOT NULL,
		low    DOUBLE PRECISION NOT NULL,
		close  DOUBLE PRECISION NOT NULL,
		volume BIGINT NOT NULL,
		PRIMARY KEY (ticker, date)
	)
`

// PostgresBarStore implements BarStorage on PostgreSQL
type PostgresBarStore struct {
	db *sql.DB
}

// ConnString builds a lib/pq connection string
func ConnString(cfg config.DatabaseConfig) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Database,
		cfg.SSLMode,
	)
}

// NewPostgresBarStore opens the database and makes sure the table exists
func NewPostgresBarStore(cfg config.DatabaseConfig) (*PostgresBarStore, error) {
	db, err := sql.Open("postgres", ConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := NewPostgresBarStoreFromDB(db)
	if err := store.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Connected to bar archive",
		logger.String("host", cfg.Host),
		logger.Int("port", cfg.Port),
		logger.String("database", cfg.Database),
	)

	return store, nil
}

// NewPostgresBarStoreFromDB wraps an open database handle
func NewPostgresBarStoreFromDB(db *sql.DB) *PostgresBarStore {
	return &PostgresBarStore{db: db}
}

// EnsureSchema creates the daily_bars table when missing
func (p *PostgresBarStore) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, createDailyBarsTable); err != nil {
		return fmt.Errorf("failed to create daily_bars table: %w", err)
	}
	return nil
}

// WriteBars upserts bars in a single transaction. Invalid bars are skipped.
func (p *PostgresBarStore) WriteBars(ctx context.Context, ticker string, bars []models.Bar) error {
	if len(bars) == 0 {
		return nil
	}
	ticker = models.NormalizeTicker(ticker)
	if ticker == "" {
		return models.ErrInvalidSymbol
	}

	start := time.Now()
	defer func() {
		barArchiveLatency.WithLabelValues("write").Observe(time.Since(start).Seconds())
	}()

	if err := p.insertBars(ctx, ticker, bars); err != nil {
		barArchiveOpsTotal.WithLabelValues("write", "error").Inc()
		return err
	}
	barArchiveOpsTotal.WithLabelValues("write", "success").Inc()

	logger.Debug("Archived daily bars",
		logger.String("ticker", ticker),
		logger.Int("count", len(bars)),
		logger.Duration("latency", time.Since(start)),
	)
	return nil
}

func (p *PostgresBarStore) insertBars(ctx context.Context, ticker string, bars []models.Bar) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO daily_bars (ticker, date, open, high, low, close, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (ticker, date) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			volume = EXCLUDED.volume
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i := range bars {
		bar := &bars[i]
		if err := bar.Validate(); err != nil {
			logger.Warn("Invalid bar, skipping",
				logger.ErrorField(err),
				logger.String("ticker", ticker),
				logger.Time("date", bar.Date),
			)
			continue
		}
		if _, err := stmt.ExecContext(ctx,
			ticker,
			bar.Date.UTC(),
			bar.Open,
			bar.High,
			bar.Low,
			bar.Close,
			bar.Volume,
		); err != nil {
			return fmt.Errorf("failed to insert bar: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetBars retrieves bars for a ticker within a date range
func (p *PostgresBarStore) GetBars(ctx context.Context, ticker string, start, end time.Time) ([]models.Bar, error) {
	query := `
		SELECT date, open, high, low, close, volume
		FROM daily_bars
		WHERE ticker = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`

	began := time.Now()
	defer func() {
		barArchiveLatency.WithLabelValues("read").Observe(time.Since(began).Seconds())
	}()

	rows, err := p.db.QueryContext(ctx, query, models.NormalizeTicker(ticker), start.UTC(), end.UTC())
	if err != nil {
		barArchiveOpsTotal.WithLabelValues("read", "error").Inc()
		return nil, fmt.Errorf("failed to query bars: %w", err)
	}
	defer rows.Close()

	var bars []models.Bar
	for rows.Next() {
		var bar models.Bar
		if err := rows.Scan(
			&bar.Date,
			&bar.Open,
			&bar.High,
			&bar.Low,
			&bar.Close,
			&bar.Volume,
		); err != nil {
			barArchiveOpsTotal.WithLabelValues("read", "error").Inc()
			return nil, fmt.Errorf("failed to scan bar: %w", err)
		}
		bar.Date = bar.Date.UTC()
		bars = append(bars, bar)
	}

	if err := rows.Err(); err != nil {
		barArchiveOpsTotal.WithLabelValues("read", "error").Inc()
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	barArchiveOpsTotal.WithLabelValues("read", "success").Inc()
	return bars, nil
}

// Close closes the database connection
func (p *PostgresBarStore) Close() error {
	return p.db.Close()
}

// Ping checks database connectivity
func (p *PostgresBarStore) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}
