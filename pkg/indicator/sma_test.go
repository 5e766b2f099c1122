package indicator

import (
	"testing"
)

func TestSMA_NewSMA(t *testing.T) {
	sma, err := NewSMA(20)
	if err != nil {
		t.Fatalf("Failed to create SMA: %v", err)
	}
	if sma.Name() != "sma_20" {
		t.Errorf("Expected name 'sma_20', got '%s'", sma.Name())
	}

	_, err = NewSMA(0)
	if err == nil {
		t.Error("Expected error for period < 1")
	}
}

func TestSMA_Update(t *testing.T) {
	sma, _ := NewSMA(5)

	for i := 0; i < 4; i++ {
		bar := dailyBar(i, 100.0+float64(i), 1000)
		val, err := sma.Update(&bar)
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if sma.IsReady() {
			t.Errorf("SMA should not be ready after %d bars", i+1)
		}
		if val != 0 {
			t.Errorf("Expected 0 for incomplete SMA, got %f", val)
		}
	}

	bar5 := dailyBar(4, 104.0, 1000)
	val, err := sma.Update(&bar5)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !sma.IsReady() {
		t.Error("SMA should be ready after 5 bars")
	}
	expected := (100.0 + 101.0 + 102.0 + 103.0 + 104.0) / 5.0
	if val != expected {
		t.Errorf("Expected SMA %f, got %f", expected, val)
	}
}

func TestSMA_RollingWindow(t *testing.T) {
	sma, _ := NewSMA(5)

	for i := 0; i < 10; i++ {
		bar := dailyBar(i, 100.0+float64(i), 1000)
		_, _ = sma.Update(&bar)
	}

	// Average of the last 5 closes: 105..109
	val, _ := sma.Value()
	expected := (105.0 + 106.0 + 107.0 + 108.0 + 109.0) / 5.0
	if val != expected {
		t.Errorf("Expected SMA %f, got %f", expected, val)
	}
}

func TestSMA_NilBar(t *testing.T) {
	sma, _ := NewSMA(5)
	if _, err := sma.Update(nil); err == nil {
		t.Error("Expected error for nil bar")
	}
}
