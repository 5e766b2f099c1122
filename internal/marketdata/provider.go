package marketdata

import (
	"context"
	"time"

	"github.com/mohamedkhairy/stock-analyst/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var fetchTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "marketdata_fetch_total",
		Help: "Total number of market data fetches",
	},
	[]string{"source", "operation", "status"},
)

// Provider supplies daily bars and company information for tickers
type Provider interface {
	// DailyBars returns the daily series for ticker within [start, end].
	// A ticker with no bars in range yields models.ErrNoData.
	DailyBars(ctx context.Context, ticker string, start, end time.Time) (*models.PriceSeries, error)

	// Profile returns basic company information; missing fields are "N/A"
	Profile(ctx context.Context, ticker string) (*models.CompanyProfile, error)

	// News returns up to limit recent headlines for ticker
	News(ctx context.Context, ticker string, limit int) ([]models.NewsItem, error)
}

// Name returns a short label for p used in logs and metrics
func Name(p Provider) string {
	if n, ok := p.(interface{ Name() string }); ok {
		return n.Name()
	}
	return "unknown"
}

func recordFetch(source, operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	fetchTotal.WithLabelValues(source, operation, status).Inc()
}

// truncateDay returns midnight UTC of t's calendar date
func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
