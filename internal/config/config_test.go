package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.Model)
	assert.Equal(t, "yahoo", cfg.MarketData.Provider)
	assert.Equal(t, 5, cfg.MarketData.NewsCount)
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.Equal(t, []string{"SMA-20"}, cfg.Analysis.DefaultIndicators)
	assert.Equal(t, 365*24*time.Hour, cfg.Analysis.DefaultLookback)
	assert.Equal(t, []string{"AAPL", "MSFT", "GOOG"}, cfg.MarketData.DefaultTickers)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "google-key")
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("ANALYSIS_DEFAULT_INDICATORS", "SMA-20, VWAP ,")
	t.Setenv("LLM_TEMPERATURE", "0.7")
	t.Setenv("API_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "google-key", cfg.LLM.APIKey, "GOOGLE_API_KEY is the fallback key")
	assert.Equal(t, "redis", cfg.Session.Store)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, []string{"SMA-20", "VWAP"}, cfg.Analysis.DefaultIndicators)
	assert.InDelta(t, 0.7, cfg.LLM.Temperature, 1e-6)
	assert.Equal(t, 8090, cfg.API.Port, "invalid ints fall back to the default")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			LLM:        LLMConfig{Model: "m"},
			MarketData: MarketDataConfig{Provider: "yahoo"},
			Session:    SessionConfig{Store: "memory", TTL: time.Hour},
			Analysis:   AnalysisConfig{PriceActionBars: 5},
		}
	}

	require.NoError(t, base().Validate())

	cfg := base()
	cfg.MarketData.Provider = "bloomberg"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Session.Store = "disk"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Session.Store = "redis"
	assert.Error(t, cfg.Validate(), "redis store needs a host")

	cfg = base()
	cfg.MarketData.ArchiveBars = true
	assert.Error(t, cfg.Validate(), "archive needs a database host")

	cfg = base()
	cfg.Session.TTL = 0
	assert.Error(t, cfg.Validate())
}
