package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIndicatorID(t *testing.T) {
	tests := []struct {
		input string
		want  IndicatorID
	}{
		{"SMA-20", IndicatorSMA20},
		{"20-Day SMA", IndicatorSMA20},
		{"sma20", IndicatorSMA20},
		{"ema_20", IndicatorEMA20},
		{"20-Day Bollinger Bands", IndicatorBollinger20},
		{"BB20", IndicatorBollinger20},
		{" vwap ", IndicatorVWAP},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseIndicatorID(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseIndicatorID("rsi_14")
	assert.ErrorIs(t, err, ErrUnknownIndicator)
}

func TestParseIndicatorRequest_CollapsesDuplicates(t *testing.T) {
	ids, err := ParseIndicatorRequest([]string{"VWAP", "sma20", "SMA-20", "20-Day SMA"})
	require.NoError(t, err)
	assert.Equal(t, []IndicatorID{IndicatorSMA20, IndicatorVWAP}, ids)
}

func TestNormalizeRequest_CanonicalOrder(t *testing.T) {
	ids := NormalizeRequest([]IndicatorID{IndicatorVWAP, IndicatorBollinger20, "bogus", IndicatorEMA20})
	assert.Equal(t, []IndicatorID{IndicatorEMA20, IndicatorBollinger20, IndicatorVWAP}, ids)
}

func TestIndicatorID_Window(t *testing.T) {
	assert.Equal(t, 20, IndicatorSMA20.Window())
	assert.Equal(t, 20, IndicatorBollinger20.Window())
	assert.Equal(t, 1, IndicatorEMA20.Window())
	assert.Equal(t, 1, IndicatorVWAP.Window())
	assert.Equal(t, "20-Day Bollinger Bands", IndicatorBollinger20.Label())
}
