package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mohamedkhairy/stock-analyst/internal/advisor"
	"github.com/mohamedkhairy/stock-analyst/internal/agents"
	"github.com/mohamedkhairy/stock-analyst/internal/classifier"
	"github.com/mohamedkhairy/stock-analyst/internal/config"
	"github.com/mohamedkhairy/stock-analyst/internal/llm"
	"github.com/mohamedkhairy/stock-analyst/internal/marketdata"
	"github.com/mohamedkhairy/stock-analyst/internal/models"
	"github.com/mohamedkhairy/stock-analyst/internal/report"
	"github.com/mohamedkhairy/stock-analyst/internal/session"
	"github.com/mohamedkhairy/stock-analyst/internal/storage"
	"github.com/mohamedkhairy/stock-analyst/pkg/indicator"
	"github.com/mohamedkhairy/stock-analyst/pkg/logger"
)

const sweepInterval = 5 * time.Minute

// App holds the wired services shared by the API server and the CLI
type App struct {
	Config   *config.Config
	Provider marketdata.Provider
	Advisor  *advisor.Advisor
	// Pipeline is nil when no LLM API key is configured
	Pipeline *report.Pipeline
	Cache    session.Cache
	// Checks are readiness probes for external dependencies
	Checks map[string]func(ctx context.Context) error

	closers []func() error
	cancel  context.CancelFunc
}

// Build wires every service from cfg. A missing LLM API key is not fatal:
// indicators still work and recommendations report the generator as disabled.
func Build(cfg *config.Config) (*App, error) {
	a := &App{
		Config: cfg,
		Checks: make(map[string]func(ctx context.Context) error),
	}

	ok := false
	defer func() {
		if !ok {
			a.Close()
		}
	}()

	var archive storage.BarStorage
	if cfg.MarketData.ArchiveBars {
		store, err := storage.NewPostgresBarStore(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("bar archive: %w", err)
		}
		archive = store
		a.closers = append(a.closers, store.Close)
		a.Checks["postgres"] = store.Ping
	}

	provider, err := marketdata.NewProvider(cfg.MarketData, archive)
	if err != nil {
		return nil, err
	}
	a.Provider = provider

	cache, err := a.buildCache(cfg)
	if err != nil {
		return nil, err
	}
	a.Cache = cache

	defaults, err := models.ParseIndicatorRequest(cfg.Analysis.DefaultIndicators)
	if err != nil {
		return nil, fmt.Errorf("default indicators: %w", err)
	}

	var (
		cls      *classifier.Classifier
		pipeline *report.Pipeline
	)
	gen, err := llm.NewOpenAIClient(cfg.LLM)
	switch {
	case errors.Is(err, models.ErrGeneratorDisabled):
		logger.Warn("LLM_API_KEY not set; recommendations and reports are disabled")
	case err != nil:
		return nil, err
	default:
		roles, err := agents.LoadRoles(cfg.LLM.RolesPath)
		if err != nil {
			return nil, err
		}
		team, err := agents.NewTeam(roles, gen)
		if err != nil {
			return nil, err
		}
		cls = classifier.New(gen, cfg.Analysis.PriceActionBars)
		pipeline = report.NewPipeline(provider, team, report.Config{
			Lookback:  cfg.Analysis.ReportLookback,
			NewsLimit: cfg.MarketData.NewsCount,
		})
	}

	a.Advisor = advisor.New(provider, indicator.NewEngine(nil), cls, cache, advisor.Config{
		DefaultIndicators: defaults,
		Lookback:          cfg.Analysis.DefaultLookback,
	})
	a.Pipeline = pipeline

	logger.Info("Services ready",
		logger.String("provider", marketdata.Name(provider)),
		logger.String("session_store", cfg.Session.Store),
		logger.Bool("llm_enabled", cls != nil),
		logger.String("model", cfg.LLM.Model),
	)

	ok = true
	return a, nil
}

func (a *App) buildCache(cfg *config.Config) (session.Cache, error) {
	if cfg.Session.Store == "redis" {
		kv, err := storage.NewRedisKV(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("session store: %w", err)
		}
		a.closers = append(a.closers, kv.Close)
		a.Checks["redis"] = kv.Ping
		return session.NewRedisCache(kv, cfg.Session.TTL), nil
	}

	mem := session.NewMemoryCache(cfg.Session.TTL)
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := mem.Sweep(); n > 0 {
					logger.Debug("Expired sessions removed", logger.Int("count", n))
				}
			}
		}
	}()
	return mem, nil
}

// Close releases every connection opened by Build
func (a *App) Close() error {
	if a.cancel != nil {
		a.cancel()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
