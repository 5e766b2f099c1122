package indicator

import (
	"fmt"
	"math"
	"time"

	"github.com/mohamedkhairy/stock-analyst/internal/models"
	"github.com/sdcoffey/big"
	"github.com/sdcoffey/techan"
)

// TechanCalculator wraps a Techan indicator to implement Calculator interface.
// The wrapped indicator is built on the calculator's own TimeSeries so that
// every Update is visible to it.
type TechanCalculator struct {
	name      string
	series    *techan.TimeSeries
	indicator techan.Indicator
	period    int
	ready     bool
}

// NewTechanCalculator creates a new Techan-based calculator.
// build is called once with the calculator's series.
func NewTechanCalculator(name string, period int, build func(*techan.TimeSeries) techan.Indicator) *TechanCalculator {
	series := techan.NewTimeSeries()
	return &TechanCalculator{
		name:      name,
		series:    series,
		indicator: build(series),
		period:    period,
	}
}

// NewTechanRSI creates an RSI calculator backed by Techan
func NewTechanRSI(period int) (*TechanCalculator, error) {
	if period < 1 {
		return nil, fmt.Errorf("RSI period must be at least 1, got %d", period)
	}
	return NewTechanCalculator(fmt.Sprintf("rsi_%d", period), period, func(series *techan.TimeSeries) techan.Indicator {
		return techan.NewRelativeStrengthIndexIndicator(techan.NewClosePriceIndicator(series), period)
	}), nil
}

func (t *TechanCalculator) Name() string {
	return t.name
}

func (t *TechanCalculator) Update(bar *models.Bar) (float64, error) {
	if bar == nil {
		return 0, fmt.Errorf("bar cannot be nil")
	}

	candle := techan.NewCandle(techan.NewTimePeriod(bar.Date, 24*time.Hour))
	candle.OpenPrice = big.NewDecimal(bar.Open)
	candle.MaxPrice = big.NewDecimal(bar.High)
	candle.MinPrice = big.NewDecimal(bar.Low)
	candle.ClosePrice = big.NewDecimal(bar.Close)
	candle.Volume = big.NewDecimal(float64(bar.Volume))

	if !t.series.AddCandle(candle) {
		return 0, fmt.Errorf("bar %s is not after the previous bar", bar.Date.Format("2006-01-02"))
	}

	// Techan returns values before the lookback is filled; gate on period+1
	// bars so the first value has a full window of changes behind it.
	lastIndex := t.series.LastIndex()
	if lastIndex < t.period {
		return 0, nil
	}

	value := t.indicator.Calculate(lastIndex).Float()
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, nil
	}
	t.ready = true
	return value, nil
}

func (t *TechanCalculator) Value() (float64, error) {
	if !t.ready {
		return 0, fmt.Errorf("indicator not ready: need at least %d bars", t.period+1)
	}
	return t.indicator.Calculate(t.series.LastIndex()).Float(), nil
}

func (t *TechanCalculator) IsReady() bool {
	return t.ready
}
