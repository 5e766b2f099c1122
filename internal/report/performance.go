package report

import (
	"sort"
	"time"

	"github.com/mohamedkhairy/stock-analyst/internal/models"
)

// ComparePerformance sums the daily close-to-close fractional changes of each
// series. Empty series are skipped; the result keeps input order.
func ComparePerformance(series []*models.PriceSeries) []models.Performance {
	out := make([]models.Performance, 0, len(series))
	for _, s := range series {
		if s.IsEmpty() {
			continue
		}
		var change float64
		for i := 1; i < len(s.Bars); i++ {
			prev := s.Bars[i-1].Close
			if prev == 0 {
				continue
			}
			change += s.Bars[i].Close/prev - 1
		}
		out = append(out, models.Performance{
			Symbol: s.Ticker,
			Change: change,
			Bars:   s.Len(),
		})
	}
	return out
}

// Rank returns a copy of perf sorted best first
func Rank(perf []models.Performance) []models.Performance {
	ranked := make([]models.Performance, len(perf))
	copy(ranked, perf)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Change > ranked[j].Change })
	return ranked
}

// PriceChart plots one close-price line per series over the union of their dates
func PriceChart(series []*models.PriceSeries) *models.ChartSpec {
	chart := &models.ChartSpec{Title: "Price History"}

	seen := make(map[time.Time]bool)
	for _, s := range series {
		if s.IsEmpty() {
			continue
		}
		points := make([]models.Point, len(s.Bars))
		for i, bar := range s.Bars {
			points[i] = models.Point{Date: bar.Date, Value: bar.Close}
			if !seen[bar.Date] {
				seen[bar.Date] = true
				chart.Dates = append(chart.Dates, bar.Date)
			}
		}
		chart.Series = append(chart.Series, models.ChartSeries{
			Name:   s.Ticker,
			Kind:   models.SeriesKindLine,
			Points: points,
		})
	}

	sort.Slice(chart.Dates, func(i, j int) bool { return chart.Dates[i].Before(chart.Dates[j]) })
	return chart
}
