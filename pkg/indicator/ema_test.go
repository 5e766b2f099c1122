package indicator

import (
	"math"
	"testing"
)

func TestEMA_NewEMA(t *testing.T) {
	ema, err := NewEMA(20)
	if err != nil {
		t.Fatalf("Failed to create EMA: %v", err)
	}
	if ema.Name() != "ema_20" {
		t.Errorf("Expected name 'ema_20', got '%s'", ema.Name())
	}

	_, err = NewEMA(0)
	if err == nil {
		t.Error("Expected error for period < 1")
	}
}

func TestEMA_SeededWithFirstClose(t *testing.T) {
	ema, _ := NewEMA(20)

	bar1 := dailyBar(0, 100.0, 1000)
	val, err := ema.Update(&bar1)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if val != 100.0 {
		t.Errorf("Expected 100.0 for first bar, got %f", val)
	}
	if !ema.IsReady() {
		t.Error("EMA should be ready after first bar")
	}

	bar2 := dailyBar(1, 121.0, 1000)
	val, _ = ema.Update(&bar2)

	// alpha = 2/21 → 100 + 21*2/21 = 102
	if math.Abs(val-102.0) > 1e-9 {
		t.Errorf("Expected EMA 102.0, got %f", val)
	}
}

func TestEMA_ConstantPrice(t *testing.T) {
	ema, _ := NewEMA(20)

	price := 100.0
	for i := 0; i < 60; i++ {
		bar := dailyBar(i, price, 1000)
		val, _ := ema.Update(&bar)
		if val != price {
			t.Fatalf("EMA of a constant series must equal the price at bar %d, got %f", i+1, val)
		}
	}
}

func TestEMA_IncreasingPrice(t *testing.T) {
	ema, _ := NewEMA(20)

	prev := 0.0
	for i := 0; i < 50; i++ {
		bar := dailyBar(i, 100.0+float64(i), 1000)
		val, _ := ema.Update(&bar)
		if i > 0 && val < prev {
			t.Errorf("EMA should be increasing, got %f < %f", val, prev)
		}
		if val > bar.Close {
			t.Errorf("EMA should lag a rising price, got %f > %f", val, bar.Close)
		}
		prev = val
	}
}
