package indicator

import (
	"math"
	"testing"

	"github.com/mohamedkhairy/stock-analyst/internal/models"
)

func TestVWAP_SingleBar(t *testing.T) {
	vwap := NewVWAP()
	if vwap.Name() != "vwap" {
		t.Errorf("Expected name 'vwap', got '%s'", vwap.Name())
	}

	bar := models.Bar{Date: baseDate, Open: 100, High: 105, Low: 99, Close: 103, Volume: 1000}
	val, err := vwap.Update(&bar)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !vwap.IsReady() {
		t.Error("VWAP should be ready after first bar with volume")
	}

	expected := (105.0 + 99.0 + 103.0) / 3.0
	if math.Abs(val-expected) > 1e-9 {
		t.Errorf("Expected VWAP %f, got %f", expected, val)
	}
}

func TestVWAP_Cumulative(t *testing.T) {
	vwap := NewVWAP()

	bars := []models.Bar{
		{Date: baseDate, High: 11, Low: 9, Close: 10, Volume: 100},                 // typical 10
		{Date: baseDate.AddDate(0, 0, 1), High: 21, Low: 19, Close: 20, Volume: 300}, // typical 20
	}
	var val float64
	for i := range bars {
		val, _ = vwap.Update(&bars[i])
	}

	// (10*100 + 20*300) / 400 = 17.5
	if math.Abs(val-17.5) > 1e-9 {
		t.Errorf("Expected VWAP 17.5, got %f", val)
	}
	if vwap.CumulativeVolume() != 400 {
		t.Errorf("Expected cumulative volume 400, got %d", vwap.CumulativeVolume())
	}
}

func TestVWAP_DenominatorNonDecreasing(t *testing.T) {
	vwap := NewVWAP()
	series := wavySeries(40)

	var prev int64
	for i := range series.Bars {
		_, _ = vwap.Update(&series.Bars[i])
		if vwap.CumulativeVolume() < prev {
			t.Fatalf("cumulative volume decreased at bar %d", i+1)
		}
		prev = vwap.CumulativeVolume()
	}
}

func TestVWAP_ZeroVolume(t *testing.T) {
	vwap := NewVWAP()

	bar := models.Bar{Date: baseDate, High: 11, Low: 9, Close: 10, Volume: 0}
	_, _ = vwap.Update(&bar)

	if vwap.IsReady() {
		t.Error("VWAP should not be ready without volume")
	}
	if _, err := vwap.Value(); err == nil {
		t.Error("Expected error for VWAP without volume")
	}
}
