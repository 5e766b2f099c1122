package classifier

import (
	"context"
	"fmt"
	"time"

	"github.com/mohamedkhairy/stock-analyst/internal/llm"
	"github.com/mohamedkhairy/stock-analyst/internal/models"
	"github.com/mohamedkhairy/stock-analyst/pkg/logger"
)

// DefaultRecentBars is the number of trailing bars serialized into the prompt
const DefaultRecentBars = 10

// Classifier asks a text generator for a Buy/Hold/Sell call per ticker
type Classifier struct {
	gen        llm.Generator
	recentBars int
	now        func() time.Time
}

// New creates a classifier. recentBars < 1 uses DefaultRecentBars.
func New(gen llm.Generator, recentBars int) *Classifier {
	if recentBars < 1 {
		recentBars = DefaultRecentBars
	}
	return &Classifier{gen: gen, recentBars: recentBars, now: time.Now}
}

// Classify builds the prompt for one ticker, calls the generator once and
// parses the answer. Generator errors are returned as is; an unusable
// answer is not an error and comes back as an unparseable classification.
func (c *Classifier) Classify(ctx context.Context, series *models.PriceSeries, seriesMap map[models.IndicatorID]*models.IndicatorSeries) (*models.Recommendation, error) {
	snap := BuildSnapshot(series, seriesMap, c.recentBars)
	raw, err := c.gen.Generate(ctx, BuildPrompt(snap))
	if err != nil {
		return nil, fmt.Errorf("classify %s: %w", series.Ticker, err)
	}

	cls := Parse(raw)
	if !cls.Parsed() {
		logger.Warn("Unparseable recommendation response",
			logger.String("ticker", series.Ticker),
			logger.String("reason", cls.Reason),
		)
	}

	return &models.Recommendation{
		Ticker:         series.Ticker,
		Classification: cls,
		CreatedAt:      c.now().UTC(),
	}, nil
}
