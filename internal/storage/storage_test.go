package storage

import (
	"context"
	"testing"
	"time"

	"github.com/mohamedkhairy/stock-analyst/internal/config"
	"github.com/mohamedkhairy/stock-analyst/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnString(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host:     "db",
		Port:     5433,
		User:     "analyst",
		Password: "secret",
		Database: "bars",
		SSLMode:  "disable",
	}
	assert.Equal(t, "host=db port=5433 user=analyst password=secret dbname=bars sslmode=disable", ConnString(cfg))
}

func TestMockBarStorage_UpsertAndRange(t *testing.T) {
	ctx := context.Background()
	store := NewMockBarStorage()
	d := func(n int) time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n) }

	require.NoError(t, store.WriteBars(ctx, "aapl", []models.Bar{
		{Date: d(2), Close: 12},
		{Date: d(0), Close: 10},
	}))
	require.NoError(t, store.WriteBars(ctx, "AAPL", []models.Bar{
		{Date: d(1), Close: 11},
		{Date: d(2), Close: 13}, // overwrites
	}))

	bars, err := store.GetBars(ctx, "AAPL", d(0), d(2))
	require.NoError(t, err)
	require.Len(t, bars, 3)
	assert.Equal(t, []float64{10, 11, 13}, []float64{bars[0].Close, bars[1].Close, bars[2].Close})

	bars, err = store.GetBars(ctx, "AAPL", d(1), d(1))
	require.NoError(t, err)
	assert.Len(t, bars, 1)
}

func TestMockKVStore_JSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := NewMockKVStore()

	type payload struct {
		Tickers []string `json:"tickers"`
	}

	require.NoError(t, kv.Set(ctx, "session:1", payload{Tickers: []string{"AAPL", "MSFT"}}, time.Hour))
	assert.Equal(t, time.Hour, kv.TTLs["session:1"])

	var got payload
	require.NoError(t, kv.GetJSON(ctx, "session:1", &got))
	assert.Equal(t, []string{"AAPL", "MSFT"}, got.Tickers)

	require.NoError(t, kv.Delete(ctx, "session:1"))
	assert.ErrorIs(t, kv.GetJSON(ctx, "session:1", &got), ErrKeyNotFound)

	exists, err := kv.Exists(ctx, "session:1")
	require.NoError(t, err)
	assert.False(t, exists)
}
