package marketdata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mohamedkhairy/stock-analyst/internal/config"
	"github.com/mohamedkhairy/stock-analyst/internal/models"
	"github.com/mohamedkhairy/stock-analyst/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Timestamps are 14:30 UTC (09:30 New York) on 2024-03-04..07
const chartResponse = `{
  "chart": {
    "result": [{
      "meta": {"symbol": "AAPL", "gmtoffset": -18000},
      "timestamp": [1709562600, 1709649000, 1709735400, 1709821800, 1709821800],
      "indicators": {"quote": [{
        "open":   [175.0, 176.0, null, 178.0, 178.5],
        "high":   [177.0, 178.0, null, 180.0, 181.0],
        "low":    [174.0, 175.0, null, 177.0, 177.5],
        "close":  [176.0, 177.0, null, 179.0, 180.0],
        "volume": [1000,  2000,  null, 3000,  3500]
      }]}
    }],
    "error": null
  }
}`

const searchResponse = `{
  "quotes": [
    {"symbol": "AAPL34.SA", "shortname": "Apple BDR"},
    {"symbol": "AAPL", "shortname": "Apple Inc.", "longname": "Apple Inc.", "sector": "Technology", "industry": "Consumer Electronics"}
  ],
  "news": [
    {"title": "Apple ships", "publisher": "Wire", "link": "https://example.com/1", "providerPublishTime": 1709821800},
    {"title": "Apple again", "publisher": "Wire", "link": "https://example.com/2", "providerPublishTime": 1709821900},
    {"title": "Apple thrice", "publisher": "Wire", "link": "https://example.com/3", "providerPublishTime": 1709822000}
  ]
}`

func newTestYahoo(t *testing.T, handler http.HandlerFunc) *YahooProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewYahooProvider(config.MarketDataConfig{
		BaseURL:   server.URL,
		SearchURL: server.URL,
		Timeout:   5 * time.Second,
	})
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestYahooProvider_DailyBars(t *testing.T) {
	var gotQuery string
	p := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/v8/finance/chart/AAPL"))
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(chartResponse))
	})

	series, err := p.DailyBars(context.Background(), " aapl", day(2024, 3, 1), day(2024, 3, 8))
	require.NoError(t, err)

	assert.Contains(t, gotQuery, "interval=1d")
	assert.Contains(t, gotQuery, "period1=")
	assert.Contains(t, gotQuery, "period2=1709942400", "end day is inclusive: period2 is the following midnight")
	assert.Equal(t, "AAPL", series.Ticker)
	require.Equal(t, 3, series.Len(), "null bar skipped, duplicate date collapsed")
	assert.Equal(t, []time.Time{day(2024, 3, 4), day(2024, 3, 5), day(2024, 3, 7)}, series.Dates())

	last, _ := series.Last()
	assert.Equal(t, 180.0, last.Close, "later duplicate wins")
	assert.Equal(t, int64(3500), last.Volume)
}

func TestYahooProvider_DailyBars_FiltersRange(t *testing.T) {
	p := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chartResponse))
	})

	series, err := p.DailyBars(context.Background(), "AAPL", day(2024, 3, 5), day(2024, 3, 5))
	require.NoError(t, err)
	assert.Equal(t, []float64{177}, series.Closes(), "a bar dated on the end day is kept")

	_, err = p.DailyBars(context.Background(), "AAPL", day(2024, 4, 1), day(2024, 4, 2))
	assert.ErrorIs(t, err, models.ErrNoData)
}

func TestYahooProvider_DailyBars_Errors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		p := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
		})
		_, err := p.DailyBars(context.Background(), "ZZZZ", day(2024, 1, 1), day(2024, 2, 1))
		assert.ErrorIs(t, err, models.ErrNoData)
	})

	t.Run("server error", func(t *testing.T) {
		p := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		_, err := p.DailyBars(context.Background(), "AAPL", day(2024, 1, 1), day(2024, 2, 1))
		require.Error(t, err)
		assert.NotErrorIs(t, err, models.ErrNoData)
	})

	t.Run("bad input", func(t *testing.T) {
		p := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("no request expected")
		})
		_, err := p.DailyBars(context.Background(), " ", day(2024, 1, 1), day(2024, 2, 1))
		assert.ErrorIs(t, err, models.ErrInvalidSymbol)
		_, err = p.DailyBars(context.Background(), "AAPL", day(2024, 2, 1), day(2024, 1, 1))
		assert.ErrorIs(t, err, models.ErrInvalidDateRange)
	})
}

func TestYahooProvider_ProfileAndNews(t *testing.T) {
	p := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/finance/search", r.URL.Path)
		assert.Equal(t, "AAPL", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(searchResponse))
	})

	profile, err := p.Profile(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", profile.Name)
	assert.Equal(t, "Technology", profile.Sector)
	assert.Equal(t, models.NotAvailable, profile.MarketCap)
	assert.Equal(t, models.NotAvailable, profile.Summary)

	news, err := p.News(context.Background(), "AAPL", 2)
	require.NoError(t, err)
	require.Len(t, news, 2)
	assert.Equal(t, "Apple ships", news[0].Title)
	assert.Equal(t, time.Unix(1709821800, 0).UTC(), news[0].PublishedAt)

	none, err := p.News(context.Background(), "AAPL", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func testSeries(ticker string, start time.Time, closes ...float64) *models.PriceSeries {
	ps := &models.PriceSeries{Ticker: ticker}
	for i, c := range closes {
		ps.Bars = append(ps.Bars, models.Bar{Date: start.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 10})
	}
	return ps
}

func TestArchivingProvider(t *testing.T) {
	ctx := context.Background()
	upstream := NewMockProvider()
	upstream.AddSeries(testSeries("AAPL", day(2024, 1, 1), 1, 2, 3))
	archive := storage.NewMockBarStorage()
	p := NewArchivingProvider(upstream, archive)

	series, err := p.DailyBars(ctx, "AAPL", day(2024, 1, 1), day(2024, 1, 3))
	require.NoError(t, err)
	assert.Equal(t, 3, series.Len())
	assert.Equal(t, 1, archive.Writes)

	upstream.Errors["AAPL"] = errors.New("rate limited")
	series, err = p.DailyBars(ctx, "AAPL", day(2024, 1, 2), day(2024, 1, 3))
	require.NoError(t, err, "archive serves the range")
	assert.Equal(t, []float64{2, 3}, series.Closes())

	_, err = p.DailyBars(ctx, "AAPL", day(2025, 1, 1), day(2025, 1, 3))
	assert.EqualError(t, err, "rate limited", "upstream error surfaces when archive is empty")

	assert.Equal(t, "mock+archive", Name(p))
}

func TestArchivingProvider_WriteFailureIsNotFatal(t *testing.T) {
	upstream := NewMockProvider()
	upstream.AddSeries(testSeries("MSFT", day(2024, 1, 1), 5))
	archive := storage.NewMockBarStorage()
	archive.WriteErr = errors.New("db down")

	series, err := NewArchivingProvider(upstream, archive).DailyBars(context.Background(), "MSFT", day(2024, 1, 1), day(2024, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, series.Len())
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(config.MarketDataConfig{Provider: "yahoo"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "yahoo", Name(p))

	p, err = NewProvider(config.MarketDataConfig{Provider: "mock"}, storage.NewMockBarStorage())
	require.NoError(t, err)
	assert.Equal(t, "mock+archive", Name(p))

	_, err = NewProvider(config.MarketDataConfig{Provider: "csv"}, nil)
	assert.Error(t, err)
}
