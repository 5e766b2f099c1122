package marketdata

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mohamedkhairy/stock-analyst/internal/models"
)

// MockProvider serves canned data for tests and offline runs
type MockProvider struct {
	mu       sync.Mutex
	Series   map[string]*models.PriceSeries
	Profiles map[string]*models.CompanyProfile
	NewsData map[string][]models.NewsItem
	Errors   map[string]error
	Calls    []string
}

// NewMockProvider creates an empty MockProvider
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Series:   make(map[string]*models.PriceSeries),
		Profiles: make(map[string]*models.CompanyProfile),
		NewsData: make(map[string][]models.NewsItem),
		Errors:   make(map[string]error),
	}
}

func (m *MockProvider) Name() string { return "mock" }

// AddSeries registers series under its ticker
func (m *MockProvider) AddSeries(series *models.PriceSeries) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Series[models.NormalizeTicker(series.Ticker)] = series
}

func (m *MockProvider) DailyBars(ctx context.Context, ticker string, start, end time.Time) (*models.PriceSeries, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ticker = models.NormalizeTicker(ticker)
	m.Calls = append(m.Calls, "bars:"+ticker)

	if err := m.Errors[ticker]; err != nil {
		return nil, err
	}
	series, ok := m.Series[ticker]
	if !ok {
		return nil, fmt.Errorf("%s: %w", ticker, models.ErrNoData)
	}
	if start.IsZero() && end.IsZero() {
		return series, nil
	}
	window := series.Between(truncateDay(start), truncateDay(end))
	if window.IsEmpty() {
		return nil, fmt.Errorf("%s: %w", ticker, models.ErrNoData)
	}
	return window, nil
}

func (m *MockProvider) Profile(ctx context.Context, ticker string) (*models.CompanyProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ticker = models.NormalizeTicker(ticker)
	m.Calls = append(m.Calls, "profile:"+ticker)

	if err := m.Errors[ticker]; err != nil {
		return nil, err
	}
	p := models.CompanyProfile{Symbol: ticker}
	if stored, ok := m.Profiles[ticker]; ok {
		p = *stored
	}
	p.FillDefaults()
	return &p, nil
}

func (m *MockProvider) News(ctx context.Context, ticker string, limit int) ([]models.NewsItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ticker = models.NormalizeTicker(ticker)
	m.Calls = append(m.Calls, "news:"+ticker)

	if err := m.Errors[ticker]; err != nil {
		return nil, err
	}
	items := m.NewsData[ticker]
	if limit >= 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
