package indicator

import (
	"github.com/mohamedkhairy/stock-analyst/internal/models"
)

// Calculator is the interface for computing technical indicators bar by bar.
// Each indicator type implements this interface.
type Calculator interface {
	// Name returns the unique name of this indicator (e.g., "sma_20", "vwap")
	Name() string

	// Update processes the next bar and returns the indicator value.
	// The value is only meaningful once IsReady returns true.
	Update(bar *models.Bar) (float64, error)

	// Value returns the current indicator value
	// Returns 0 and error if not enough data has been processed
	Value() (float64, error)

	// IsReady returns true if the indicator has enough data to produce a valid value
	IsReady() bool
}

// BandCalculator is implemented by indicators that produce an envelope
// around a middle line (e.g. Bollinger Bands)
type BandCalculator interface {
	Calculator

	// Bands returns the current upper and lower band values
	Bands() (upper, lower float64, err error)
}
