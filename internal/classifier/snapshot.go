package classifier

import (
	"math"
	"time"

	"github.com/mohamedkhairy/stock-analyst/internal/models"
	"github.com/mohamedkhairy/stock-analyst/pkg/indicator"
)

// Slope is the direction of an indicator over the last few points
type Slope string

const (
	SlopeRising  Slope = "rising"
	SlopeFalling Slope = "falling"
	SlopeFlat    Slope = "flat"
)

// Position is where the last close sits relative to an indicator
type Position string

const (
	PositionAbove      Position = "above"
	PositionBelow      Position = "below"
	PositionAt         Position = "at"
	PositionAboveUpper Position = "above upper band"
	PositionBelowLower Position = "below lower band"
	PositionInside     Position = "inside bands"
)

const (
	slopeLookback = 5
	rsiPeriod     = 14
	flatTolerance = 1e-9
)

// IndicatorSnapshot summarizes one indicator at the latest bar
type IndicatorSnapshot struct {
	ID       models.IndicatorID `json:"id"`
	Date     time.Time          `json:"date"`
	Value    float64            `json:"value"`
	Upper    *float64           `json:"upper,omitempty"`
	Lower    *float64           `json:"lower,omitempty"`
	Slope    Slope              `json:"slope"`
	Position Position           `json:"position"`
}

// Snapshot is the numeric context handed to the text generator
type Snapshot struct {
	Ticker     string              `json:"ticker"`
	LastDate   time.Time           `json:"last_date"`
	LastClose  float64             `json:"last_close"`
	Change     float64             `json:"change"` // fractional close change over the recent bars
	RSI        *float64            `json:"rsi_14,omitempty"`
	Indicators []IndicatorSnapshot `json:"indicators"`
	Recent     []models.Bar        `json:"recent"`
}

// BuildSnapshot summarizes series and its computed indicators.
// recentBars bounds the price action included.
func BuildSnapshot(series *models.PriceSeries, seriesMap map[models.IndicatorID]*models.IndicatorSeries, recentBars int) Snapshot {
	snap := Snapshot{Ticker: series.Ticker}

	last, ok := series.Last()
	if !ok {
		return snap
	}
	snap.LastDate = last.Date
	snap.LastClose = last.Close

	snap.Recent = series.Tail(recentBars)
	if len(snap.Recent) > 1 && snap.Recent[0].Close != 0 {
		snap.Change = last.Close/snap.Recent[0].Close - 1
	}

	snap.RSI = relativeStrength(series)

	for _, id := range models.AllIndicators() {
		ind, ok := seriesMap[id]
		if !ok || ind.Len() == 0 {
			continue
		}
		latest, _ := ind.Latest()
		is := IndicatorSnapshot{
			ID:    id,
			Date:  latest.Date,
			Value: latest.Value,
			Slope: slopeOf(ind.Values),
		}

		if len(ind.Upper) > 0 && len(ind.Lower) > 0 {
			upper := ind.Upper[len(ind.Upper)-1].Value
			lower := ind.Lower[len(ind.Lower)-1].Value
			is.Upper, is.Lower = &upper, &lower
			is.Position = bandPosition(last.Close, upper, lower)
		} else {
			is.Position = linePosition(last.Close, latest.Value)
		}
		snap.Indicators = append(snap.Indicators, is)
	}

	return snap
}

func slopeOf(points []models.Point) Slope {
	if len(points) < 2 {
		return SlopeFlat
	}
	back := slopeLookback
	if back > len(points)-1 {
		back = len(points) - 1
	}
	latest := points[len(points)-1].Value
	prior := points[len(points)-1-back].Value
	diff := latest - prior
	if math.Abs(diff) <= flatTolerance*math.Max(1, math.Abs(prior)) {
		return SlopeFlat
	}
	if diff > 0 {
		return SlopeRising
	}
	return SlopeFalling
}

func linePosition(close, value float64) Position {
	diff := close - value
	if math.Abs(diff) <= flatTolerance*math.Max(1, math.Abs(value)) {
		return PositionAt
	}
	if diff > 0 {
		return PositionAbove
	}
	return PositionBelow
}

func bandPosition(close, upper, lower float64) Position {
	switch {
	case close > upper:
		return PositionAboveUpper
	case close < lower:
		return PositionBelowLower
	default:
		return PositionInside
	}
}

// relativeStrength runs a 14-period RSI over the series; nil when too short
func relativeStrength(series *models.PriceSeries) *float64 {
	calc, err := indicator.NewTechanRSI(rsiPeriod)
	if err != nil {
		return nil
	}
	for i := range series.Bars {
		bar := series.Bars[i]
		if _, err := calc.Update(&bar); err != nil {
			return nil
		}
	}
	if !calc.IsReady() {
		return nil
	}
	value, err := calc.Value()
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil
	}
	return &value
}
