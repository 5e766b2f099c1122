package indicator

import (
	"fmt"

	"github.com/mohamedkhairy/stock-analyst/internal/models"
)

// Engine turns a price series and an indicator request into indicator series
// and a chart overlay. It holds no per-call state: Compute is a pure function
// of its inputs and never mutates the series.
type Engine struct {
	registry *Registry
}

// NewEngine creates an engine backed by registry (DefaultRegistry when nil)
func NewEngine(registry *Registry) *Engine {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Engine{registry: registry}
}

// Result is the output of one Compute call
type Result struct {
	Chart  *models.ChartSpec
	Series map[models.IndicatorID]*models.IndicatorSeries
}

// Compute calculates every requested indicator over series.
// Indicators the series is too short for are omitted from the result.
func (e *Engine) Compute(series *models.PriceSeries, requested []models.IndicatorID) (*Result, error) {
	seriesMap := make(map[models.IndicatorID]*models.IndicatorSeries)
	ids := models.NormalizeRequest(requested)

	for _, id := range ids {
		if series.Len() < id.Window() {
			continue
		}

		out, err := e.computeOne(series, id)
		if err != nil {
			return nil, fmt.Errorf("compute %s for %s: %w", id, series.Ticker, err)
		}
		if out.Len() == 0 {
			continue
		}
		seriesMap[id] = out
	}

	return &Result{
		Chart:  BuildChart(series, seriesMap),
		Series: seriesMap,
	}, nil
}

func (e *Engine) computeOne(series *models.PriceSeries, id models.IndicatorID) (*models.IndicatorSeries, error) {
	calc, err := e.registry.Create(id)
	if err != nil {
		return nil, err
	}

	band, isBand := calc.(BandCalculator)
	out := &models.IndicatorSeries{
		ID:     id,
		Values: make([]models.Point, 0, series.Len()),
	}

	for i := range series.Bars {
		bar := series.Bars[i] // copy; calculators never see the caller's memory
		value, err := calc.Update(&bar)
		if err != nil {
			return nil, err
		}
		if !calc.IsReady() {
			continue
		}

		out.Values = append(out.Values, models.Point{Date: bar.Date, Value: value})
		if isBand {
			upper, lower, err := band.Bands()
			if err != nil {
				return nil, err
			}
			out.Upper = append(out.Upper, models.Point{Date: bar.Date, Value: upper})
			out.Lower = append(out.Lower, models.Point{Date: bar.Date, Value: lower})
		}
	}

	return out, nil
}

// Compute runs the default engine
func Compute(series *models.PriceSeries, requested []models.IndicatorID) (*Result, error) {
	return NewEngine(nil).Compute(series, requested)
}
