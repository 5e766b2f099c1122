package indicator

import (
	"fmt"

	"github.com/mohamedkhairy/stock-analyst/internal/models"
)

// VWAP calculates the cumulative Volume Weighted Average Price from the
// first bar of the supplied series. There is no session reset: inputs are
// daily bars.
// VWAP = Sum(TypicalPrice * Volume) / Sum(Volume)
type VWAP struct {
	name             string
	totalPriceVolume float64
	totalVolume      int64
}

// NewVWAP creates a new cumulative VWAP calculator
func NewVWAP() *VWAP {
	return &VWAP{name: "vwap"}
}

// Name returns the indicator name
func (v *VWAP) Name() string {
	return v.name
}

// Update processes a new bar and updates the VWAP calculation
func (v *VWAP) Update(bar *models.Bar) (float64, error) {
	if bar == nil {
		return 0, fmt.Errorf("bar cannot be nil")
	}

	v.totalPriceVolume += bar.TypicalPrice() * float64(bar.Volume)
	v.totalVolume += bar.Volume

	if v.totalVolume == 0 {
		return 0, nil
	}
	return v.calculateVWAP(), nil
}

func (v *VWAP) calculateVWAP() float64 {
	return v.totalPriceVolume / float64(v.totalVolume)
}

// Value returns the current VWAP value
func (v *VWAP) Value() (float64, error) {
	if !v.IsReady() {
		return 0, fmt.Errorf("VWAP not ready: no volume traded yet")
	}
	return v.calculateVWAP(), nil
}

// CumulativeVolume returns the running volume denominator
func (v *VWAP) CumulativeVolume() int64 {
	return v.totalVolume
}

// IsReady returns true once any volume has been seen
func (v *VWAP) IsReady() bool {
	return v.totalVolume > 0
}
