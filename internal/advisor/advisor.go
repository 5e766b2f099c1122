package advisor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mohamedkhairy/stock-analyst/internal/classifier"
	"github.com/mohamedkhairy/stock-analyst/internal/marketdata"
	"github.com/mohamedkhairy/stock-analyst/internal/models"
	"github.com/mohamedkhairy/stock-analyst/internal/session"
	"github.com/mohamedkhairy/stock-analyst/pkg/indicator"
	"github.com/mohamedkhairy/stock-analyst/pkg/logger"
)

// DefaultLookback is the date range used when the caller gives none
const DefaultLookback = 365 * 24 * time.Hour

// Config holds advisor defaults
type Config struct {
	DefaultIndicators []models.IndicatorID
	Lookback          time.Duration
}

// Advisor runs the technical dashboard flow: load series into a session,
// then compute indicators and ask for a recommendation per ticker
type Advisor struct {
	provider   marketdata.Provider
	engine     *indicator.Engine
	classifier *classifier.Classifier
	cache      session.Cache
	cfg        Config
	now        func() time.Time
}

// New creates an Advisor. classifier may be nil when text generation is not configured.
func New(provider marketdata.Provider, engine *indicator.Engine, cls *classifier.Classifier, cache session.Cache, cfg Config) *Advisor {
	if engine == nil {
		engine = indicator.NewEngine(nil)
	}
	if len(cfg.DefaultIndicators) == 0 {
		cfg.DefaultIndicators = []models.IndicatorID{models.IndicatorSMA20}
	}
	if cfg.Lookback <= 0 {
		cfg.Lookback = DefaultLookback
	}
	return &Advisor{
		provider:   provider,
		engine:     engine,
		classifier: cls,
		cache:      cache,
		cfg:        cfg,
		now:        time.Now,
	}
}

// FetchRequest asks for daily data for a set of tickers
type FetchRequest struct {
	SessionID string    `json:"session_id,omitempty"`
	UserID    string    `json:"-"`
	Tickers   []string  `json:"tickers"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
}

// FetchResult reports what was loaded into the session
type FetchResult struct {
	SessionID string    `json:"session_id"`
	Loaded    []string  `json:"loaded"`
	Warnings  []string  `json:"warnings,omitempty"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
}

// TickerAnalysis is the per-ticker output of an analysis run
type TickerAnalysis struct {
	Ticker         string                                         `json:"ticker"`
	Chart          *models.ChartSpec                              `json:"chart,omitempty"`
	Indicators     map[models.IndicatorID]*models.IndicatorSeries `json:"indicators,omitempty"`
	Recommendation *models.Recommendation                         `json:"recommendation,omitempty"`
	Action         string                                         `json:"action"`
	Justification  string                                         `json:"justification"`
	Error          string                                         `json:"error,omitempty"`
	Err            error                                          `json:"-"`
}

// Report is the output of Analyze
type Report struct {
	SessionID  string               `json:"session_id"`
	Indicators []models.IndicatorID `json:"indicators"`
	Summary    []models.SummaryRow  `json:"summary"`
	Analyses   []TickerAnalysis     `json:"analyses"`
}

// Fetch loads daily bars for every ticker into a session. Tickers without
// data produce a warning and are skipped.
func (a *Advisor) Fetch(ctx context.Context, req FetchRequest) (*FetchResult, error) {
	tickers := models.NormalizeTickers(req.Tickers)
	if len(tickers) == 0 {
		return nil, models.ErrNoTickers
	}

	start, end := a.dateRange(req.Start, req.End)
	if end.Before(start) {
		return nil, models.ErrInvalidDateRange
	}

	sess, err := a.sessionFor(ctx, req.SessionID, req.UserID)
	if err != nil {
		return nil, err
	}

	result := &FetchResult{SessionID: sess.ID, Start: start, End: end}
	loaded := make([]*models.PriceSeries, 0, len(tickers))

	for _, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		series, err := a.provider.DailyBars(ctx, ticker, start, end)
		if err != nil {
			warning := fmt.Sprintf("No data found for %s.", ticker)
			if !errors.Is(err, models.ErrNoData) {
				warning = fmt.Sprintf("Could not load %s: %v", ticker, err)
			}
			logger.Warn("Skipping ticker",
				logger.String("ticker", ticker),
				logger.ErrorField(err),
			)
			result.Warnings = append(result.Warnings, warning)
			continue
		}
		loaded = append(loaded, series)
		result.Loaded = append(result.Loaded, series.Ticker)
	}

	sess = sess.Reloaded(loaded, start, end)
	if err := a.cache.Put(ctx, sess); err != nil {
		return nil, err
	}

	logger.Info("Loaded stock data",
		logger.String("session_id", sess.ID),
		logger.Strings("tickers", result.Loaded),
		logger.Int("warnings", len(result.Warnings)),
	)
	return result, nil
}

// AnalyzeRequest selects a session and the indicators to compute
type AnalyzeRequest struct {
	SessionID  string               `json:"session_id"`
	UserID     string               `json:"-"`
	Indicators []models.IndicatorID `json:"indicators"`
}

// Analyze runs the indicator engine and classifier for every ticker in the
// session, in load order. An empty indicator list uses the defaults.
func (a *Advisor) Analyze(ctx context.Context, req AnalyzeRequest) (*Report, error) {
	report := &Report{SessionID: req.SessionID}
	err := a.AnalyzeStream(ctx, req, func(ta TickerAnalysis) error {
		report.Analyses = append(report.Analyses, ta)
		return nil
	})
	if err != nil {
		return nil, err
	}
	report.Indicators = a.resolveIndicators(req.Indicators)
	report.Summary = Summary(report.Analyses)
	return report, nil
}

// AnalyzeStream is Analyze with fn called as soon as each ticker completes.
// A non-nil error from fn stops the run.
func (a *Advisor) AnalyzeStream(ctx context.Context, req AnalyzeRequest, fn func(TickerAnalysis) error) error {
	sess, err := a.loadSession(ctx, req.SessionID, req.UserID)
	if err != nil {
		return err
	}
	if sess.IsEmpty() {
		return models.ErrNoData
	}

	ids := a.resolveIndicators(req.Indicators)
	for _, series := range sess.Ordered() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(a.AnalyzeSeries(ctx, series, ids)); err != nil {
			return err
		}
	}
	return nil
}

// AnalyzeSeries analyzes a single series. Failures are attached to the result.
func (a *Advisor) AnalyzeSeries(ctx context.Context, series *models.PriceSeries, ids []models.IndicatorID) TickerAnalysis {
	ta := TickerAnalysis{
		Ticker:        series.Ticker,
		Action:        models.PlaceholderAction,
		Justification: models.PlaceholderJustification,
	}

	res, err := a.engine.Compute(series, ids)
	if err != nil {
		return ta.fail(err)
	}
	ta.Chart = res.Chart
	ta.Indicators = res.Series

	if a.classifier == nil {
		return ta.fail(models.ErrGeneratorDisabled)
	}

	rec, err := a.classifier.Classify(ctx, series, res.Series)
	if err != nil {
		return ta.fail(err)
	}
	ta.Recommendation = rec
	ta.Action = rec.DisplayAction()
	ta.Justification = rec.DisplayJustification()
	return ta
}

func (ta TickerAnalysis) fail(err error) TickerAnalysis {
	logger.Warn("Ticker analysis failed",
		logger.String("ticker", ta.Ticker),
		logger.ErrorField(err),
	)
	ta.Err = err
	ta.Error = err.Error()
	return ta
}

// Summary builds the overall recommendations table in analysis order
func Summary(analyses []TickerAnalysis) []models.SummaryRow {
	rows := make([]models.SummaryRow, 0, len(analyses))
	for _, ta := range analyses {
		rows = append(rows, models.SummaryRow{Stock: ta.Ticker, Recommendation: ta.Action})
	}
	return rows
}

// Close drops a session owned by userID
func (a *Advisor) Close(ctx context.Context, sessionID, userID string) error {
	if _, err := a.loadSession(ctx, sessionID, userID); err != nil {
		return err
	}
	return a.cache.Delete(ctx, sessionID)
}

func (a *Advisor) resolveIndicators(ids []models.IndicatorID) []models.IndicatorID {
	ids = models.NormalizeRequest(ids)
	if len(ids) == 0 {
		return models.NormalizeRequest(a.cfg.DefaultIndicators)
	}
	return ids
}

func (a *Advisor) dateRange(start, end time.Time) (time.Time, time.Time) {
	if end.IsZero() {
		end = a.now()
	}
	if start.IsZero() {
		start = end.Add(-a.cfg.Lookback)
	}
	return truncateDay(start), truncateDay(end)
}

func (a *Advisor) sessionFor(ctx context.Context, id, userID string) (*session.Session, error) {
	if id == "" {
		return session.New(userID), nil
	}
	return a.loadSession(ctx, id, userID)
}

// loadSession returns the session only to the user that created it
func (a *Advisor) loadSession(ctx context.Context, id, userID string) (*session.Session, error) {
	sess, err := a.cache.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.UserID != userID {
		return nil, models.ErrSessionNotFound
	}
	return sess, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
