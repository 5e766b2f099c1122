package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mohamedkhairy/stock-analyst/internal/agents"
	"github.com/mohamedkhairy/stock-analyst/internal/marketdata"
	"github.com/mohamedkhairy/stock-analyst/internal/models"
	"github.com/mohamedkhairy/stock-analyst/pkg/logger"
)

const (
	// NoDataText is the market analysis when no symbol has data
	NoDataText = "No valid stock data found for the given symbols."

	// Disclaimer accompanies every report
	Disclaimer = "This report blends historical performance, fundamentals & news. " +
		"Use it as a starting point, not financial advice."

	DefaultLookback  = 182 * 24 * time.Hour
	DefaultNewsLimit = 5
)

// Config holds pipeline defaults
type Config struct {
	Lookback  time.Duration
	NewsLimit int
}

// Pipeline produces an investment report through four typed stages
type Pipeline struct {
	provider marketdata.Provider
	team     *agents.Team
	cfg      Config
	now      func() time.Time
}

// NewPipeline creates a report pipeline
func NewPipeline(provider marketdata.Provider, team *agents.Team, cfg Config) *Pipeline {
	if cfg.Lookback <= 0 {
		cfg.Lookback = DefaultLookback
	}
	if cfg.NewsLimit <= 0 {
		cfg.NewsLimit = DefaultNewsLimit
	}
	return &Pipeline{provider: provider, team: team, cfg: cfg, now: time.Now}
}

// Result is the full report response
type Result struct {
	Report     *models.InvestmentReport `json:"report"`
	Chart      *models.ChartSpec        `json:"chart"`
	Warnings   []string                 `json:"warnings,omitempty"`
	Disclaimer string                   `json:"disclaimer"`
}

// Generate runs every stage for symbols
func (p *Pipeline) Generate(ctx context.Context, symbols []string) (*Result, error) {
	symbols = models.NormalizeTickers(symbols)
	if len(symbols) == 0 {
		return nil, models.ErrNoTickers
	}

	series, warnings := p.LoadHistory(ctx, symbols)

	market, err := p.MarketAnalysis(ctx, ComparePerformance(series))
	if err != nil {
		return nil, err
	}

	companies := make([]models.CompanyAnalysis, 0, len(symbols))
	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		companies = append(companies, p.CompanyAnalysis(ctx, symbol))
	}

	strategy, err := p.Strategy(ctx, market, companies)
	if err != nil {
		return nil, err
	}

	final, err := p.FinalReport(ctx, market, companies, strategy)
	if err != nil {
		return nil, err
	}

	report := &models.InvestmentReport{
		Symbols:     symbols,
		Market:      market,
		Companies:   companies,
		Strategy:    strategy,
		Markdown:    final,
		GeneratedAt: p.now().UTC(),
	}

	logger.Info("Generated investment report",
		logger.Strings("symbols", symbols),
		logger.Int("with_data", len(series)),
	)

	return &Result{
		Report:     report,
		Chart:      PriceChart(series),
		Warnings:   warnings,
		Disclaimer: Disclaimer,
	}, nil
}

// LoadHistory fetches the lookback window for each symbol, skipping those without data
func (p *Pipeline) LoadHistory(ctx context.Context, symbols []string) ([]*models.PriceSeries, []string) {
	end := p.now()
	start := end.Add(-p.cfg.Lookback)

	var (
		series   []*models.PriceSeries
		warnings []string
	)
	for _, symbol := range symbols {
		s, err := p.provider.DailyBars(ctx, symbol, start, end)
		if err != nil {
			logger.Warn("No price history, skipping",
				logger.String("symbol", symbol),
				logger.ErrorField(err),
			)
			if errors.Is(err, models.ErrNoData) {
				warnings = append(warnings, fmt.Sprintf("No data found for %s, skipping it.", symbol))
			} else {
				warnings = append(warnings, fmt.Sprintf("Could not retrieve data for %s: %v", symbol, err))
			}
			continue
		}
		series = append(series, s)
	}
	return series, warnings
}

// MarketAnalysis asks the market analyst to compare performance.
// With no performance data the model is not called.
func (p *Pipeline) MarketAnalysis(ctx context.Context, perf []models.Performance) (models.MarketAnalysis, error) {
	analysis := models.MarketAnalysis{Performance: perf}
	if len(perf) == 0 {
		analysis.Text = NoDataText
		return analysis, nil
	}

	var b strings.Builder
	b.WriteString("Compare these stock performances (sum of daily percentage changes over six months):\n")
	for _, pf := range Rank(perf) {
		fmt.Fprintf(&b, "- %s: %+.2f%% over %d trading days\n", pf.Symbol, pf.Change*100, pf.Bars)
	}

	text, err := p.team.MarketAnalyst.Run(ctx, b.String())
	if err != nil {
		return analysis, err
	}
	analysis.Text = text
	return analysis, nil
}

// CompanyAnalysis researches one symbol. Lookup failures fall back to
// "N/A" fields; a generator failure is recorded on the result.
func (p *Pipeline) CompanyAnalysis(ctx context.Context, symbol string) models.CompanyAnalysis {
	profile, err := p.provider.Profile(ctx, symbol)
	if err != nil {
		logger.Warn("Company profile unavailable",
			logger.String("symbol", symbol),
			logger.ErrorField(err),
		)
		profile = &models.CompanyProfile{Symbol: symbol}
	}
	profile.FillDefaults()

	news, err := p.provider.News(ctx, symbol, p.cfg.NewsLimit)
	if err != nil {
		logger.Warn("Company news unavailable",
			logger.String("symbol", symbol),
			logger.ErrorField(err),
		)
		news = nil
	}

	analysis := models.CompanyAnalysis{Profile: *profile, News: news}

	var b strings.Builder
	fmt.Fprintf(&b, "Provide an analysis for %s (%s) in the %s sector.\n", profile.Name, profile.Symbol, profile.Sector)
	fmt.Fprintf(&b, "Industry: %s\n", profile.Industry)
	fmt.Fprintf(&b, "Market Cap: %s\n", profile.MarketCap)
	fmt.Fprintf(&b, "Summary: %s\n", profile.Summary)
	b.WriteString("Latest News:\n")
	if len(news) == 0 {
		b.WriteString("- none\n")
	}
	for _, n := range news {
		fmt.Fprintf(&b, "- %s (%s)\n", n.Title, n.Publisher)
	}

	text, err := p.team.CompanyResearcher.Run(ctx, b.String())
	if err != nil {
		logger.Warn("Company analysis failed",
			logger.String("symbol", symbol),
			logger.ErrorField(err),
		)
		analysis.Error = err.Error()
		return analysis
	}
	analysis.Text = text
	return analysis
}

// Strategy asks the strategist for recommendations from the prior stages
func (p *Pipeline) Strategy(ctx context.Context, market models.MarketAnalysis, companies []models.CompanyAnalysis) (models.Strategy, error) {
	var b strings.Builder
	b.WriteString("Market analysis:\n")
	b.WriteString(market.Text)
	b.WriteString("\n\nCompany research:\n")
	writeCompanies(&b, companies)
	b.WriteString("\nWhich stocks would you recommend for investment?")

	text, err := p.team.Strategist.Run(ctx, b.String())
	if err != nil {
		return models.Strategy{}, err
	}
	return models.Strategy{Text: text}, nil
}

// FinalReport asks the team lead for the ranked markdown report
func (p *Pipeline) FinalReport(ctx context.Context, market models.MarketAnalysis, companies []models.CompanyAnalysis, strategy models.Strategy) (string, error) {
	var b strings.Builder
	b.WriteString("Market Analysis:\n")
	b.WriteString(market.Text)
	b.WriteString("\n\nCompany Analyses:\n")
	writeCompanies(&b, companies)
	b.WriteString("\nStock Recommendations:\n")
	b.WriteString(strategy.Text)
	b.WriteString("\n\nGenerate a final ranked list in ascending order on which should I buy.")

	return p.team.TeamLead.Run(ctx, b.String())
}

func writeCompanies(b *strings.Builder, companies []models.CompanyAnalysis) {
	for _, c := range companies {
		fmt.Fprintf(b, "### %s (%s)\n", c.Profile.Name, c.Profile.Symbol)
		if c.Text != "" {
			b.WriteString(c.Text)
		} else {
			b.WriteString("No analysis available.")
		}
		b.WriteString("\n")
	}
}
