package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTechanRSI_ReadyAfterPeriodPlusOne(t *testing.T) {
	rsi, err := NewTechanRSI(14)
	require.NoError(t, err)
	assert.Equal(t, "rsi_14", rsi.Name())

	series := wavySeries(30)
	for i := range series.Bars {
		_, err := rsi.Update(&series.Bars[i])
		require.NoError(t, err)
		if i < 14 {
			assert.False(t, rsi.IsReady(), "bar %d", i+1)
		}
	}
	assert.True(t, rsi.IsReady())

	val, err := rsi.Value()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, val, 0.0)
	assert.LessOrEqual(t, val, 100.0)
}

func TestTechanRSI_RisingSeriesIsOverbought(t *testing.T) {
	rsi, _ := NewTechanRSI(14)
	for i := 0; i < 40; i++ {
		// mostly rising with a small dip every fourth bar
		close := 100 + float64(i)*2
		if i%4 == 0 {
			close -= 3
		}
		bar := dailyBar(i, close, 1000)
		_, _ = rsi.Update(&bar)
	}
	val, err := rsi.Value()
	require.NoError(t, err)
	assert.Greater(t, val, 70.0)
}

func TestTechanRSI_RejectsOutOfOrderBars(t *testing.T) {
	rsi, _ := NewTechanRSI(3)
	second := dailyBar(1, 10, 1)
	first := dailyBar(0, 10, 1)

	_, err := rsi.Update(&second)
	require.NoError(t, err)
	_, err = rsi.Update(&first)
	assert.Error(t, err)
}

func TestTechanRSI_InvalidPeriod(t *testing.T) {
	_, err := NewTechanRSI(0)
	assert.Error(t, err)
}
