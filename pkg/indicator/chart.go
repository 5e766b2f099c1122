package indicator

import (
	"fmt"
	"time"

	"github.com/mohamedkhairy/stock-analyst/internal/models"
)

// CloseSeriesName is the name of the base close-price line
const CloseSeriesName = "Close"

// BuildChart lays indicator overlays over the close-price line.
// Overlays follow the canonical indicator order.
func BuildChart(series *models.PriceSeries, seriesMap map[models.IndicatorID]*models.IndicatorSeries) *models.ChartSpec {
	chart := &models.ChartSpec{
		Title: series.Ticker,
		Dates: series.Dates(),
	}

	closePoints := make([]models.Point, len(series.Bars))
	for i, bar := range series.Bars {
		closePoints[i] = models.Point{Date: bar.Date, Value: bar.Close}
	}
	chart.Series = append(chart.Series, models.ChartSeries{
		Name:   CloseSeriesName,
		Kind:   models.SeriesKindLine,
		Points: closePoints,
	})

	for _, id := range models.AllIndicators() {
		ind, ok := seriesMap[id]
		if !ok {
			continue
		}

		if id == models.IndicatorBollinger20 {
			group := string(id)
			chart.Series = append(chart.Series,
				models.ChartSeries{Name: group + " Middle", Kind: models.SeriesKindLine, Group: group, Points: ind.Values},
				models.ChartSeries{Name: group + " Upper", Kind: models.SeriesKindBand, Group: group, Points: ind.Upper},
				models.ChartSeries{Name: group + " Lower", Kind: models.SeriesKindBand, Group: group, Points: ind.Lower},
			)
			continue
		}

		chart.Series = append(chart.Series, models.ChartSeries{
			Name:   string(id),
			Kind:   models.SeriesKindLine,
			Points: ind.Values,
		})
	}

	return chart
}

// CheckAxis verifies that every plotted point lies on the chart's date axis
func CheckAxis(chart *models.ChartSpec) error {
	axis := make(map[time.Time]bool, len(chart.Dates))
	for _, d := range chart.Dates {
		axis[d.UTC()] = true
	}
	for _, s := range chart.Series {
		for _, p := range s.Points {
			if !axis[p.Date.UTC()] {
				return fmt.Errorf("series %q has point at %s outside the date axis", s.Name, p.Date.Format(time.RFC3339))
			}
		}
	}
	return nil
}
