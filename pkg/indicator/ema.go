package indicator

import (
	"fmt"
	"math"

	"github.com/mohamedkhairy/stock-analyst/internal/models"
)

// EMA calculates the Exponential Moving Average of the close price
// EMA = (Price - Previous EMA) * Multiplier + Previous EMA
// Multiplier = 2 / (Period + 1), seeded with the first close
type EMA struct {
	period     int
	name       string
	multiplier float64
	value      float64
	ready      bool
}

// NewEMA creates a new EMA calculator with the specified period
func NewEMA(period int) (*EMA, error) {
	if period < 1 {
		return nil, fmt.Errorf("EMA period must be at least 1, got %d", period)
	}

	return &EMA{
		period:     period,
		name:       fmt.Sprintf("ema_%d", period),
		multiplier: 2.0 / float64(period+1),
	}, nil
}

// Name returns the indicator name
func (e *EMA) Name() string {
	return e.name
}

// Update processes a new bar and updates the EMA calculation
func (e *EMA) Update(bar *models.Bar) (float64, error) {
	if bar == nil {
		return 0, fmt.Errorf("bar cannot be nil")
	}

	price := bar.Close

	// For the first bar, EMA = price
	if !e.ready {
		e.value = price
		e.ready = true
		return e.value, nil
	}

	e.value = (price-e.value)*e.multiplier + e.value

	if math.IsNaN(e.value) || math.IsInf(e.value, 0) {
		e.value = price
	}

	return e.value, nil
}

// Value returns the current EMA value
func (e *EMA) Value() (float64, error) {
	if !e.ready {
		return 0, fmt.Errorf("EMA not ready: need at least 1 bar")
	}
	return e.value, nil
}

// IsReady returns true if the EMA has enough data
func (e *EMA) IsReady() bool {
	return e.ready
}
