package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// IndicatorID identifies one indicator from the fixed vocabulary
type IndicatorID string

const (
	IndicatorSMA20       IndicatorID = "SMA-20"
	IndicatorEMA20       IndicatorID = "EMA-20"
	IndicatorBollinger20 IndicatorID = "Bollinger-20"
	IndicatorVWAP        IndicatorID = "VWAP"
)

// DefaultWindow is the lookback used by the windowed indicators
const DefaultWindow = 20

// indicatorOrder is the canonical order used for chart overlays and prompts
var indicatorOrder = []IndicatorID{
	IndicatorSMA20,
	IndicatorEMA20,
	IndicatorBollinger20,
	IndicatorVWAP,
}

// indicatorLabels maps the dashboard labels to ids
var indicatorLabels = map[IndicatorID]string{
	IndicatorSMA20:       "20-Day SMA",
	IndicatorEMA20:       "20-Day EMA",
	IndicatorBollinger20: "20-Day Bollinger Bands",
	IndicatorVWAP:        "VWAP",
}

var indicatorAliases = map[string]IndicatorID{
	"sma-20":                 IndicatorSMA20,
	"sma20":                  IndicatorSMA20,
	"sma_20":                 IndicatorSMA20,
	"20-day sma":             IndicatorSMA20,
	"ema-20":                 IndicatorEMA20,
	"ema20":                  IndicatorEMA20,
	"ema_20":                 IndicatorEMA20,
	"20-day ema":             IndicatorEMA20,
	"bollinger-20":           IndicatorBollinger20,
	"bollinger20":            IndicatorBollinger20,
	"bb20":                   IndicatorBollinger20,
	"bb_20":                  IndicatorBollinger20,
	"20-day bollinger bands": IndicatorBollinger20,
	"vwap":                   IndicatorVWAP,
}

// AllIndicators returns the vocabulary in canonical order
func AllIndicators() []IndicatorID {
	out := make([]IndicatorID, len(indicatorOrder))
	copy(out, indicatorOrder)
	return out
}

// Label returns the human readable dashboard label
func (id IndicatorID) Label() string {
	if label, ok := indicatorLabels[id]; ok {
		return label
	}
	return string(id)
}

// Valid reports whether id belongs to the vocabulary
func (id IndicatorID) Valid() bool {
	_, ok := indicatorLabels[id]
	return ok
}

// Window returns the warm-up window of the indicator (1 means no warm-up)
func (id IndicatorID) Window() int {
	switch id {
	case IndicatorSMA20, IndicatorBollinger20:
		return DefaultWindow
	default:
		return 1
	}
}

func (id IndicatorID) rank() int {
	for i, v := range indicatorOrder {
		if v == id {
			return i
		}
	}
	return len(indicatorOrder)
}

// ParseIndicatorID parses canonical ids, dashboard labels and compact aliases
func ParseIndicatorID(name string) (IndicatorID, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if id, ok := indicatorAliases[key]; ok {
		return id, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownIndicator, name)
}

// ParseIndicatorRequest parses a list of names into a request set.
// Duplicates collapse and the result is in canonical order.
func ParseIndicatorRequest(names []string) ([]IndicatorID, error) {
	ids := make([]IndicatorID, 0, len(names))
	for _, name := range names {
		id, err := ParseIndicatorID(name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return NormalizeRequest(ids), nil
}

// NormalizeRequest collapses duplicates, drops unknown ids and sorts canonically
func NormalizeRequest(ids []IndicatorID) []IndicatorID {
	seen := make(map[IndicatorID]bool, len(ids))
	out := make([]IndicatorID, 0, len(ids))
	for _, id := range ids {
		if !id.Valid() || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].rank() < out[j].rank() })
	return out
}

// Point is a single (date, value) pair on the shared date axis
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// IndicatorSeries holds the defined points of one indicator.
// Upper and Lower are only populated for band indicators.
type IndicatorSeries struct {
	ID     IndicatorID `json:"id"`
	Values []Point     `json:"values"`
	Upper  []Point     `json:"upper,omitempty"`
	Lower  []Point     `json:"lower,omitempty"`
}

// Len returns the number of defined points
func (s *IndicatorSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Values)
}

// Latest returns the most recent defined value
func (s *IndicatorSeries) Latest() (Point, bool) {
	if s.Len() == 0 {
		return Point{}, false
	}
	return s.Values[len(s.Values)-1], true
}

// SeriesKind describes how a chart series is drawn
type SeriesKind string

const (
	SeriesKindLine SeriesKind = "line"
	SeriesKindBand SeriesKind = "band"
)

// ChartSeries is one named plotted series
type ChartSeries struct {
	Name   string     `json:"name"`
	Kind   SeriesKind `json:"kind"`
	Group  string     `json:"group,omitempty"`
	Points []Point    `json:"points"`
}

// ChartSpec is an ordered set of named series keyed by date.
// Dates is the base axis; every plotted point lies on it.
type ChartSpec struct {
	Title  string        `json:"title"`
	Dates  []time.Time   `json:"dates"`
	Series []ChartSeries `json:"series"`
}

// Find returns the series with the given name
func (c *ChartSpec) Find(name string) (*ChartSeries, bool) {
	for i := range c.Series {
		if c.Series[i].Name == name {
			return &c.Series[i], true
		}
	}
	return nil, false
}
