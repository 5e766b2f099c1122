package indicator

import (
	"time"

	"github.com/mohamedkhairy/stock-analyst/internal/models"
)

var baseDate = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

// dailyBar builds a bar on the i-th calendar day after baseDate
func dailyBar(i int, close float64, volume int64) models.Bar {
	return models.Bar{
		Date:   baseDate.AddDate(0, 0, i),
		Open:   close,
		High:   close + 1,
		Low:    close - 1,
		Close:  close,
		Volume: volume,
	}
}

// seriesFromCloses builds a series whose closes follow the given values
func seriesFromCloses(ticker string, closes []float64) *models.PriceSeries {
	s := &models.PriceSeries{Ticker: ticker}
	for i, c := range closes {
		s.Bars = append(s.Bars, dailyBar(i, c, int64(1000+i*10)))
	}
	return s
}

// wavySeries produces n closes with a deterministic non-trivial shape
func wavySeries(n int) *models.PriceSeries {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + float64(i%7)*1.5 - float64(i%3)*2.25 + float64(i)*0.1
	}
	return seriesFromCloses("TEST", closes)
}
