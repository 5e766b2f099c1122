package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Common
	Environment string
	LogLevel    string

	LLM        LLMConfig
	MarketData MarketDataConfig
	Redis      RedisConfig
	Database   DatabaseConfig
	Session    SessionConfig
	Analysis   AnalysisConfig
	API        APIConfig
}

// LLMConfig holds configuration for the text-generation backend
type LLMConfig struct {
	APIKey      string
	BaseURL     string // OpenAI-compatible endpoint
	Model       string
	Temperature float32
	MaxTokens   int
	RolesPath   string // optional YAML override for agent roles
}

// MarketDataConfig holds market data provider configuration
type MarketDataConfig struct {
	Provider       string // "yahoo" or "mock"
	BaseURL        string
	SearchURL      string
	ProxyURL       string
	Timeout        time.Duration
	NewsCount      int
	ArchiveBars    bool     // write fetched bars to Postgres and fall back to them
	DefaultTickers []string // used by the CLI when no tickers are given
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// DatabaseConfig holds PostgreSQL configuration for the bar archive
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxConnections  int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// SessionConfig holds dashboard session cache configuration
type SessionConfig struct {
	Store string // "memory" or "redis"
	TTL   time.Duration
}

// AnalysisConfig holds defaults for the two dashboards
type AnalysisConfig struct {
	DefaultIndicators []string
	DefaultLookback   time.Duration // technical dashboard date range
	ReportLookback    time.Duration // fundamental report performance window
	PriceActionBars   int           // recent bars serialized into the classifier prompt
}

// APIConfig holds REST API configuration
type APIConfig struct {
	Port         int
	JWTSecret    string
	RateLimitRPS int
	WriteTimeout time.Duration
}

// Load loads configuration from environment variables
// It automatically loads .env file if it exists in the current directory
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LLM: LLMConfig{
			APIKey:      getEnv("LLM_API_KEY", getEnv("GOOGLE_API_KEY", "")),
			BaseURL:     getEnv("LLM_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai/"),
			Model:       getEnv("LLM_MODEL", "gemini-2.0-flash"),
			Temperature: float32(getEnvAsFloat("LLM_TEMPERATURE", 0.2)),
			MaxTokens:   getEnvAsInt("LLM_MAX_TOKENS", 2048),
			RolesPath:   getEnv("AGENT_ROLES_PATH", ""),
		},
		MarketData: MarketDataConfig{
			Provider:       getEnv("MARKET_DATA_PROVIDER", "yahoo"),
			BaseURL:        getEnv("MARKET_DATA_BASE_URL", "https://query1.finance.yahoo.com"),
			SearchURL:      getEnv("MARKET_DATA_SEARCH_URL", "https://query2.finance.yahoo.com"),
			ProxyURL:       getEnv("MARKET_DATA_PROXY_URL", ""),
			Timeout:        getEnvAsDuration("MARKET_DATA_TIMEOUT", 30*time.Second),
			NewsCount:      getEnvAsInt("MARKET_DATA_NEWS_COUNT", 5),
			ArchiveBars:    getEnvAsBool("MARKET_DATA_ARCHIVE_BARS", false),
			DefaultTickers: getEnvAsStringSlice("MARKET_DATA_DEFAULT_TICKERS", []string{"AAPL", "MSFT", "GOOG"}),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnvAsInt("REDIS_PORT", 6379),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Database:        getEnv("DB_NAME", "stock_analyst"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 10),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Session: SessionConfig{
			Store: getEnv("SESSION_STORE", "memory"),
			TTL:   getEnvAsDuration("SESSION_TTL", 2*time.Hour),
		},
		Analysis: AnalysisConfig{
			DefaultIndicators: getEnvAsStringSlice("ANALYSIS_DEFAULT_INDICATORS", []string{"SMA-20"}),
			DefaultLookback:   getEnvAsDuration("ANALYSIS_DEFAULT_LOOKBACK", 365*24*time.Hour),
			ReportLookback:    getEnvAsDuration("REPORT_LOOKBACK", 182*24*time.Hour),
			PriceActionBars:   getEnvAsInt("ANALYSIS_PRICE_ACTION_BARS", 10),
		},
		API: APIConfig{
			Port:         getEnvAsInt("API_PORT", 8090),
			JWTSecret:    getEnv("API_JWT_SECRET", ""),
			RateLimitRPS: getEnvAsInt("API_RATE_LIMIT_RPS", 20),
			WriteTimeout: getEnvAsDuration("API_WRITE_TIMEOUT", 5*time.Minute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.MarketData.Provider {
	case "yahoo", "mock":
	default:
		return fmt.Errorf("MARKET_DATA_PROVIDER must be \"yahoo\" or \"mock\", got %q", c.MarketData.Provider)
	}
	switch c.Session.Store {
	case "memory":
	case "redis":
		if c.Redis.Host == "" {
			return fmt.Errorf("REDIS_HOST is required when SESSION_STORE=redis")
		}
	default:
		return fmt.Errorf("SESSION_STORE must be \"memory\" or \"redis\", got %q", c.Session.Store)
	}
	if c.MarketData.ArchiveBars && c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required when MARKET_DATA_ARCHIVE_BARS is enabled")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("LLM_MODEL is required")
	}
	if c.Analysis.PriceActionBars < 1 {
		return fmt.Errorf("ANALYSIS_PRICE_ACTION_BARS must be at least 1")
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return floatValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
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

func getEnvAsStringSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
