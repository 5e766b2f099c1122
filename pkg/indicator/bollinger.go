package indicator

import (
	"fmt"

	"github.com/mohamedkhairy/stock-analyst/internal/models"
)

// Bollinger calculates Bollinger Bands over the close price.
// Middle = SMA(period); Upper/Lower = Middle ± multiplier * StdDev(period)
// StdDev is the sample standard deviation of the window.
type Bollinger struct {
	period     int
	multiplier float64
	name       string
	prices     []float64
	ready      bool
}

// NewBollinger creates a new Bollinger Bands calculator
func NewBollinger(period int, multiplier float64) (*Bollinger, error) {
	if period < 2 {
		return nil, fmt.Errorf("Bollinger period must be at least 2, got %d", period)
	}
	if multiplier <= 0 {
		return nil, fmt.Errorf("Bollinger multiplier must be positive, got %v", multiplier)
	}

	return &Bollinger{
		period:     period,
		multiplier: multiplier,
		name:       fmt.Sprintf("bb_%d_%.1f", period, multiplier),
		prices:     make([]float64, 0, period),
	}, nil
}

// Name returns the indicator name
func (b *Bollinger) Name() string {
	return b.name
}

// Update processes a new bar and returns the middle band
func (b *Bollinger) Update(bar *models.Bar) (float64, error) {
	if bar == nil {
		return 0, fmt.Errorf("bar cannot be nil")
	}

	b.prices = pushWindow(b.prices, bar.Close, b.period)

	if len(b.prices) >= b.period {
		b.ready = true
		return mean(b.prices), nil
	}
	return 0, nil
}

// Value returns the current middle band
func (b *Bollinger) Value() (float64, error) {
	if !b.ready {
		return 0, fmt.Errorf("Bollinger not ready: need at least %d bars", b.period)
	}
	return mean(b.prices), nil
}

// Bands returns the current upper and lower band
func (b *Bollinger) Bands() (float64, float64, error) {
	if !b.ready {
		return 0, 0, fmt.Errorf("Bollinger not ready: need at least %d bars", b.period)
	}
	middle := mean(b.prices)
	width := b.multiplier * sampleStdDev(b.prices)
	return middle + width, middle - width, nil
}

// StdDev returns the current rolling standard deviation
func (b *Bollinger) StdDev() (float64, error) {
	if !b.ready {
		return 0, fmt.Errorf("Bollinger not ready: need at least %d bars", b.period)
	}
	return sampleStdDev(b.prices), nil
}

// IsReady returns true if the bands are defined
func (b *Bollinger) IsReady() bool {
	return b.ready
}
