package indicator

import (
	"fmt"

	"github.com/mohamedkhairy/stock-analyst/internal/models"
)

// SMA calculates the Simple Moving Average of the close price
// SMA = Sum of closes over period / period
type SMA struct {
	period int
	name   string
	prices []float64 // Rolling window of closes
	ready  bool
}

// NewSMA creates a new SMA calculator with the specified period
func NewSMA(period int) (*SMA, error) {
	if period < 1 {
		return nil, fmt.Errorf("SMA period must be at least 1, got %d", period)
	}

	return &SMA{
		period: period,
		name:   fmt.Sprintf("sma_%d", period),
		prices: make([]float64, 0, period),
	}, nil
}

// Name returns the indicator name
func (s *SMA) Name() string {
	return s.name
}

// Update processes a new bar and updates the SMA calculation
func (s *SMA) Update(bar *models.Bar) (float64, error) {
	if bar == nil {
		return 0, fmt.Errorf("bar cannot be nil")
	}

	s.prices = pushWindow(s.prices, bar.Close, s.period)

	if len(s.prices) >= s.period {
		s.ready = true
		return mean(s.prices), nil
	}

	return 0, nil
}

// Value returns the current SMA value
func (s *SMA) Value() (float64, error) {
	if !s.ready {
		return 0, fmt.Errorf("SMA not ready: need at least %d bars", s.period)
	}
	return mean(s.prices), nil
}

// IsReady returns true if the SMA has enough data
func (s *SMA) IsReady() bool {
	return s.ready
}
