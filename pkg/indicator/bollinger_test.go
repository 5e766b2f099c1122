package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBollinger_Validation(t *testing.T) {
	_, err := NewBollinger(1, 2)
	assert.Error(t, err)

	_, err = NewBollinger(20, 0)
	assert.Error(t, err)

	bb, err := NewBollinger(20, 2)
	require.NoError(t, err)
	assert.Equal(t, "bb_20_2.0", bb.Name())
}

func TestBollinger_BandsAroundSMA(t *testing.T) {
	bb, _ := NewBollinger(5, 2)
	closes := []float64{10, 12, 11, 13, 14}

	for i, c := range closes {
		bar := dailyBar(i, c, 100)
		_, err := bb.Update(&bar)
		require.NoError(t, err)
		if i < 4 {
			assert.False(t, bb.IsReady())
		}
	}
	require.True(t, bb.IsReady())

	middle, err := bb.Value()
	require.NoError(t, err)
	assert.InDelta(t, 12.0, middle, 1e-12)

	// sample variance of {10,12,11,13,14} around 12 = (4+0+1+1+4)/4 = 2.5
	sd, err := bb.StdDev()
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(2.5), sd, 1e-12)

	upper, lower, err := bb.Bands()
	require.NoError(t, err)
	assert.InDelta(t, middle+2*sd, upper, 1e-12)
	assert.InDelta(t, middle-2*sd, lower, 1e-12)
	assert.InDelta(t, 4*sd, upper-lower, 1e-12)
}

func TestBollinger_ConstantPriceCollapses(t *testing.T) {
	bb, _ := NewBollinger(20, 2)
	for i := 0; i < 25; i++ {
		bar := dailyBar(i, 50, 100)
		_, _ = bb.Update(&bar)
	}
	upper, lower, err := bb.Bands()
	require.NoError(t, err)
	assert.Equal(t, 50.0, upper)
	assert.Equal(t, 50.0, lower)
}

func TestBollinger_NotReady(t *testing.T) {
	bb, _ := NewBollinger(20, 2)
	_, _, err := bb.Bands()
	assert.Error(t, err)

	bar := dailyBar(0, 10, 1)
	_, _ = bb.Update(&bar)
	assert.False(t, bb.IsReady())
	_, err = bb.StdDev()
	assert.Error(t, err)
}
