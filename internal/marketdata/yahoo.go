package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mohamedkhairy/stock-analyst/internal/config"
	"github.com/mohamedkhairy/stock-analyst/internal/models"
	"github.com/mohamedkhairy/stock-analyst/pkg/logger"
)

// YahooProvider implements Provider using the public Yahoo Finance endpoints
type YahooProvider struct {
	client    *http.Client
	baseURL   string // chart API host
	searchURL string // search API host
}

// NewYahooProvider creates a Yahoo Finance provider
func NewYahooProvider(cfg config.MarketDataConfig) *YahooProvider {
	transport := &http.Transport{}
	if cfg.ProxyURL != "" {
		if u, err := url.Parse(cfg.ProxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &YahooProvider{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		searchURL: strings.TrimRight(cfg.SearchURL, "/"),
	}
}

func (y *YahooProvider) Name() string { return "yahoo" }

// yahooChart is the response structure from the chart API.
// Quote values are pointers because Yahoo sends null for missing sessions.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol    string `json:"symbol"`
				GMTOffset int64  `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type yahooSearch struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortname"`
		LongName  string `json:"longname"`
		Sector    string `json:"sector"`
		Industry  string `json:"industry"`
		MarketCap *int64 `json:"marketCap"`
	} `json:"quotes"`
	News []struct {
		Title               string `json:"title"`
		Publisher           string `json:"publisher"`
		Link                string `json:"link"`
		ProviderPublishTime int64  `json:"providerPublishTime"`
	} `json:"news"`
}

func (y *YahooProvider) getJSON(ctx context.Context, u string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := y.client.Do(req)
	if err != nil {
		return fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return models.ErrNoData
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, truncate(string(body), 256))
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("yahoo decode: %w", err)
	}
	return nil
}

// DailyBars fetches daily bars from the chart API
func (y *YahooProvider) DailyBars(ctx context.Context, ticker string, start, end time.Time) (series *models.PriceSeries, err error) {
	defer func() { recordFetch("yahoo", "bars", err) }()

	ticker = models.NormalizeTicker(ticker)
	if ticker == "" {
		return nil, models.ErrInvalidSymbol
	}
	start, end = truncateDay(start), truncateDay(end)
	if end.Before(start) {
		return nil, models.ErrInvalidDateRange
	}

	q := url.Values{}
	q.Set("interval", "1d")
	q.Set("period1", strconv.FormatInt(start.Unix(), 10))
	q.Set("period2", strconv.FormatInt(end.AddDate(0, 0, 1).Unix(), 10))
	q.Set("events", "history")
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", y.baseURL, url.PathEscape(ticker), q.Encode())

	var chart yahooChart
	if err := y.getJSON(ctx, u, &chart); err != nil {
		return nil, fmt.Errorf("%s: %w", ticker, err)
	}
	if chart.Chart.Error != nil {
		if strings.EqualFold(chart.Chart.Error.Code, "Not Found") {
			return nil, fmt.Errorf("%s: %w", ticker, models.ErrNoData)
		}
		return nil, fmt.Errorf("yahoo api error for %s: %s", ticker, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%s: %w", ticker, models.ErrNoData)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	byDate := make(map[time.Time]models.Bar, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o, h, l, c := at(quote.Open, i), at(quote.High, i), at(quote.Low, i), at(quote.Close, i)
		if o == nil || h == nil || l == nil || c == nil {
			continue // skip null bars (holidays etc.)
		}
		var volume int64
		if v := at(quote.Volume, i); v != nil {
			volume = int64(*v)
		}
		// Yahoo stamps daily bars at the session open; shift to exchange time before taking the date
		date := truncateDay(time.Unix(ts+result.Meta.GMTOffset, 0).UTC())
		if date.Before(start) || date.After(end) {
			continue
		}
		byDate[date] = models.Bar{
			Date:   date,
			Open:   *o,
			High:   *h,
			Low:    *l,
			Close:  *c,
			Volume: volume,
		}
	}

	bars := make([]models.Bar, 0, len(byDate))
	for _, bar := range byDate {
		bars = append(bars, bar)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	if len(bars) == 0 {
		return nil, fmt.Errorf("%s: %w", ticker, models.ErrNoData)
	}

	series, err = models.NewPriceSeries(ticker, bars)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ticker, err)
	}

	logger.Debug("Fetched daily bars",
		logger.String("ticker", ticker),
		logger.Int("bars", len(bars)),
	)
	return series, nil
}

func (y *YahooProvider) search(ctx context.Context, ticker string, newsCount int) (*yahooSearch, error) {
	q := url.Values{}
	q.Set("q", ticker)
	q.Set("quotesCount", "5")
	q.Set("newsCount", strconv.Itoa(newsCount))
	u := fmt.Sprintf("%s/v1/finance/search?%s", y.searchURL, q.Encode())

	var out yahooSearch
	if err := y.getJSON(ctx, u, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", ticker, err)
	}
	return &out, nil
}

// Profile looks the ticker up through the search API
func (y *YahooProvider) Profile(ctx context.Context, ticker string) (profile *models.CompanyProfile, err error) {
	defer func() { recordFetch("yahoo", "profile", err) }()

	ticker = models.NormalizeTicker(ticker)
	if ticker == "" {
		return nil, models.ErrInvalidSymbol
	}

	res, err := y.search(ctx, ticker, 0)
	if err != nil {
		return nil, err
	}

	profile = &models.CompanyProfile{Symbol: ticker}
	for _, q := range res.Quotes {
		if !strings.EqualFold(q.Symbol, ticker) {
			continue
		}
		profile.Name = q.LongName
		if profile.Name == "" {
			profile.Name = q.ShortName
		}
		profile.Sector = q.Sector
		profile.Industry = q.Industry
		if q.MarketCap != nil {
			profile.MarketCap = strconv.FormatInt(*q.MarketCap, 10)
		}
		break
	}
	profile.FillDefaults()
	return profile, nil
}

// News returns the latest headlines from the search API
func (y *YahooProvider) News(ctx context.Context, ticker string, limit int) (items []models.NewsItem, err error) {
	defer func() { recordFetch("yahoo", "news", err) }()

	ticker = models.NormalizeTicker(ticker)
	if ticker == "" {
		return nil, models.ErrInvalidSymbol
	}
	if limit <= 0 {
		return nil, nil
	}

	res, err := y.search(ctx, ticker, limit)
	if err != nil {
		return nil, err
	}

	items = make([]models.NewsItem, 0, len(res.News))
	for _, n := range res.News {
		if len(items) == limit {
			break
		}
		item := models.NewsItem{
			Title:     n.Title,
			Publisher: n.Publisher,
			Link:      n.Link,
		}
		if n.ProviderPublishTime > 0 {
			item.PublishedAt = time.Unix(n.ProviderPublishTime, 0).UTC()
		}
		items = append(items, item)
	}
	return items, nil
}

func at(values []*float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	return values[i]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
