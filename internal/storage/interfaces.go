package storage

import (
	"context"
	"errors"
	"time"

	"github.com/mohamedkhairy/stock-analyst/internal/models"
)

// ErrKeyNotFound is returned by KVStore.GetJSON when the key does not exist
var ErrKeyNotFound = errors.New("key not found")

// BarStorage defines the interface for the daily bar archive
type BarStorage interface {
	// WriteBars upserts daily bars for a ticker
	WriteBars(ctx context.Context, ticker string, bars []models.Bar) error

	// GetBars retrieves bars for a ticker within a date range (inclusive), oldest first
	GetBars(ctx context.Context, ticker string, start, end time.Time) ([]models.Bar, error)

	// Close closes the storage connection
	Close() error
}

// KVStore defines the key-value operations used by the session cache
type KVStore interface {
	// Set stores value as JSON under key with the given ttl (0 means no expiry)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// GetJSON decodes the value stored under key into dest
	GetJSON(ctx context.Context, key string, dest interface{}) error

	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Ping(ctx context.Context) error

	// Close closes the connection
	Close() error
}
