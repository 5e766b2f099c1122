package marketdata

import (
	"context"
	"time"

	"github.com/mohamedkhairy/stock-analyst/internal/models"
	"github.com/mohamedkhairy/stock-analyst/internal/storage"
	"github.com/mohamedkhairy/stock-analyst/pkg/logger"
)

// ArchivingProvider writes fetched bars to a BarStorage and serves the
// archived bars when the upstream provider fails
type ArchivingProvider struct {
	upstream Provider
	archive  storage.BarStorage
}

// NewArchivingProvider wraps upstream with a bar archive
func NewArchivingProvider(upstream Provider, archive storage.BarStorage) *ArchivingProvider {
	return &ArchivingProvider{upstream: upstream, archive: archive}
}

func (a *ArchivingProvider) Name() string { return Name(a.upstream) + "+archive" }

func (a *ArchivingProvider) DailyBars(ctx context.Context, ticker string, start, end time.Time) (*models.PriceSeries, error) {
	series, err := a.upstream.DailyBars(ctx, ticker, start, end)
	if err == nil {
		if werr := a.archive.WriteBars(ctx, series.Ticker, series.Bars); werr != nil {
			logger.Warn("Failed to archive daily bars",
				logger.ErrorField(werr),
				logger.String("ticker", series.Ticker),
			)
		}
		return series, nil
	}

	bars, aerr := a.archive.GetBars(ctx, ticker, truncateDay(start), truncateDay(end))
	if aerr != nil || len(bars) == 0 {
		recordFetch("archive", "bars", models.ErrNoData)
		return nil, err
	}

	archived, verr := models.NewPriceSeries(ticker, bars)
	if verr != nil {
		recordFetch("archive", "bars", verr)
		return nil, err
	}

	recordFetch("archive", "bars", nil)
	logger.Warn("Upstream fetch failed, serving archived bars",
		logger.ErrorField(err),
		logger.String("ticker", archived.Ticker),
		logger.Int("bars", len(bars)),
	)
	return archived, nil
}

func (a *ArchivingProvider) Profile(ctx context.Context, ticker string) (*models.CompanyProfile, error) {
	return a.upstream.Profile(ctx, ticker)
}

func (a *ArchivingProvider) News(ctx context.Context, ticker string, limit int) ([]models.NewsItem, error) {
	return a.upstream.News(ctx, ticker, limit)
}
