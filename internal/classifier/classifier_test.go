package classifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mohamedkhairy/stock-analyst/internal/llm"
	"github.com/mohamedkhairy/stock-analyst/internal/models"
	"github.com/mohamedkhairy/stock-analyst/pkg/indicator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func risingSeries(ticker string, n int) *models.PriceSeries {
	ps := &models.PriceSeries{Ticker: ticker}
	for i := 0; i < n; i++ {
		c := 100 + float64(i)
		if i%4 == 3 {
			c -= 1.5
		}
		ps.Bars = append(ps.Bars, models.Bar{
			Date:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Open:   c - 0.5,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000 + int64(i),
		})
	}
	return ps
}

func TestParse(t *testing.T) {
	tests := []struct {
		name          string
		raw           string
		status        models.ClassificationStatus
		action        models.Action
		justification string
	}{
		{
			name:          "plain json",
			raw:           `{"action": "Buy", "justification": "Price above SMA"}`,
			status:        models.ClassificationParsed,
			action:        models.ActionBuy,
			justification: "Price above SMA",
		},
		{
			name:          "fenced json with prose",
			raw:           "Here you go:\n```json\n{\"action\": \"Sell\", \"justification\": \"Broke lower band\"}\n```\nGood luck",
			status:        models.ClassificationParsed,
			action:        models.ActionSell,
			justification: "Broke lower band",
		},
		{
			name:   "key case ignored",
			raw:    `{"Action": "Hold"}`,
			status: models.ClassificationParsed,
			action: models.ActionHold,
		},
		{
			name:          "non-standard action kept verbatim",
			raw:           `{"action": "Strong Buy", "justification": "x"}`,
			status:        models.ClassificationParsed,
			action:        "Strong Buy",
			justification: "x",
		},
		{
			name:          "action lines",
			raw:           "**Action:** Hold\nJustification: sideways market",
			status:        models.ClassificationParsed,
			action:        models.ActionHold,
			justification: "sideways market",
		},
		{
			name:   "missing action",
			raw:    `{"justification": "unclear"}`,
			status: models.ClassificationUnparseable,
		},
		{
			name:   "null action",
			raw:    `{"action": null}`,
			status: models.ClassificationUnparseable,
		},
		{
			name:   "free text",
			raw:    "I think it looks fine.",
			status: models.ClassificationUnparseable,
		},
		{
			name:   "empty",
			raw:    "   ",
			status: models.ClassificationUnparseable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.action, got.Action)
			assert.Equal(t, tt.justification, got.Justification)
			assert.Equal(t, tt.raw, got.Raw)
			if tt.status == models.ClassificationUnparseable {
				assert.NotEmpty(t, got.Reason)
			}
		})
	}
}

func TestParse_HoldIsDistinctFromUnparseable(t *testing.T) {
	hold := Parse(`{"action":"Hold"}`)
	broken := Parse(`{"act":"Hold"}`)

	assert.True(t, hold.Parsed())
	assert.False(t, broken.Parsed())

	rec := models.Recommendation{Classification: broken}
	assert.Equal(t, models.PlaceholderAction, rec.DisplayAction())
}

func TestBuildSnapshot(t *testing.T) {
	series := risingSeries("AAPL", 40)
	res, err := indicator.Compute(series, models.AllIndicators())
	require.NoError(t, err)

	snap := BuildSnapshot(series, res.Series, 5)
	assert.Equal(t, "AAPL", snap.Ticker)
	assert.Len(t, snap.Recent, 5)
	assert.Equal(t, series.Bars[39].Close, snap.LastClose)
	require.NotNil(t, snap.RSI)
	assert.Greater(t, *snap.RSI, 50.0)

	require.Len(t, snap.Indicators, 4)
	assert.Equal(t, models.IndicatorSMA20, snap.Indicators[0].ID)
	assert.Equal(t, SlopeRising, snap.Indicators[0].Slope)
	assert.Equal(t, PositionAbove, snap.Indicators[0].Position)

	bb := snap.Indicators[2]
	assert.Equal(t, models.IndicatorBollinger20, bb.ID)
	require.NotNil(t, bb.Upper)
	require.NotNil(t, bb.Lower)
	assert.Greater(t, *bb.Upper, *bb.Lower)
}

func TestBuildSnapshot_ShortSeries(t *testing.T) {
	series := risingSeries("MSFT", 5)
	res, err := indicator.Compute(series, models.AllIndicators())
	require.NoError(t, err)

	snap := BuildSnapshot(series, res.Series, 10)
	assert.Nil(t, snap.RSI, "RSI needs more than 14 bars")
	assert.Len(t, snap.Recent, 5)
	for _, ind := range snap.Indicators {
		assert.NotEqual(t, models.IndicatorSMA20, ind.ID)
		assert.NotEqual(t, models.IndicatorBollinger20, ind.ID)
	}
}

func TestSlopeAndPosition(t *testing.T) {
	pts := func(vals ...float64) []models.Point {
		out := make([]models.Point, len(vals))
		for i, v := range vals {
			out[i] = models.Point{Value: v}
		}
		return out
	}
	assert.Equal(t, SlopeFlat, slopeOf(pts(1)))
	assert.Equal(t, SlopeFalling, slopeOf(pts(5, 4, 3)))
	assert.Equal(t, SlopeFlat, slopeOf(pts(2, 2, 2, 2, 2, 2, 2)))

	assert.Equal(t, PositionAt, linePosition(10, 10))
	assert.Equal(t, PositionBelow, linePosition(9, 10))
	assert.Equal(t, PositionAboveUpper, bandPosition(12, 11, 9))
	assert.Equal(t, PositionBelowLower, bandPosition(8, 11, 9))
	assert.Equal(t, PositionInside, bandPosition(10, 11, 9))
}

func TestBuildPrompt(t *testing.T) {
	series := risingSeries("GOOG", 30)
	res, err := indicator.Compute(series, []models.IndicatorID{models.IndicatorBollinger20})
	require.NoError(t, err)

	prompt := BuildPrompt(BuildSnapshot(series, res.Series, 3))
	assert.True(t, prompt.JSON)
	assert.Equal(t, "classifier", prompt.Role)
	assert.Contains(t, prompt.System, `"action"`)
	assert.Contains(t, prompt.User, "Ticker: GOOG")
	assert.Contains(t, prompt.User, "20-Day Bollinger Bands")
	assert.Contains(t, prompt.User, "upper")
	assert.Contains(t, prompt.User, "RSI(14)")
}

func TestClassifier_Classify(t *testing.T) {
	gen := llm.NewMockGenerator(`{"action":"Buy","justification":"Uptrend"}`)
	c := New(gen, 0)

	series := risingSeries("AAPL", 25)
	res, err := indicator.Compute(series, []models.IndicatorID{models.IndicatorSMA20})
	require.NoError(t, err)

	rec, err := c.Classify(context.Background(), series, res.Series)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", rec.Ticker)
	assert.Equal(t, models.ActionBuy, rec.Classification.Action)
	assert.Equal(t, "Uptrend", rec.DisplayJustification())
	assert.False(t, rec.CreatedAt.IsZero())
	assert.Equal(t, 1, gen.Calls(), "exactly one call, no retries")
}

func TestClassifier_GeneratorError(t *testing.T) {
	gen := &llm.MockGenerator{Err: errors.New("quota exceeded")}
	c := New(gen, 5)

	_, err := c.Classify(context.Background(), risingSeries("AAPL", 3), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AAPL")
	assert.Equal(t, 1, gen.Calls())
}

func TestClassifier_UnparseableIsNotAnError(t *testing.T) {
	c := New(llm.NewMockGenerator("no idea"), 5)

	rec, err := c.Classify(context.Background(), risingSeries("AAPL", 3), nil)
	require.NoError(t, err)
	assert.False(t, rec.Classification.Parsed())
	assert.Equal(t, "N/A", rec.DisplayAction())
	assert.Equal(t, "No justification provided.", rec.DisplayJustification())
}
