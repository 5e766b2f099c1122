package models

import (
	"math"
	"strings"
	"time"
)

// Bar represents a single daily OHLCV bar
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Validate validates a Bar
func (b *Bar) Validate() error {
	if b.Date.IsZero() {
		return ErrInvalidTimestamp
	}
	for _, p := range [...]float64{b.Open, b.High, b.Low, b.Close} {
		if p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			return ErrInvalidPrice
		}
	}
	if b.High < b.Low {
		return ErrInvalidBar
	}
	if b.Volume < 0 {
		return ErrInvalidVolume
	}
	return nil
}

// TypicalPrice returns (high + low + close) / 3
func (b *Bar) TypicalPrice() float64 {
	return (b.High + b.Low + b.Close) / 3.0
}

// PriceSeries is an ordered sequence of daily bars for one ticker.
// Dates are strictly increasing; gaps (non-trading days) are allowed.
type PriceSeries struct {
	Ticker string `json:"ticker"`
	Bars   []Bar  `json:"bars"`
}

// NewPriceSeries creates a validated price series
func NewPriceSeries(ticker string, bars []Bar) (*PriceSeries, error) {
	s := &PriceSeries{
		Ticker: NormalizeTicker(ticker),
		Bars:   bars,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate validates the series ordering and every bar
func (s *PriceSeries) Validate() error {
	if s.Ticker == "" {
		return ErrInvalidSymbol
	}
	for i := range s.Bars {
		if err := s.Bars[i].Validate(); err != nil {
			return err
		}
		if i > 0 && !s.Bars[i].Date.After(s.Bars[i-1].Date) {
			return ErrUnsortedSeries
		}
	}
	return nil
}

// Len returns the number of bars
func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Bars)
}

// IsEmpty reports whether the series has no bars
func (s *PriceSeries) IsEmpty() bool {
	return s.Len() == 0
}

// Dates returns the date axis of the series
func (s *PriceSeries) Dates() []time.Time {
	dates := make([]time.Time, len(s.Bars))
	for i, bar := range s.Bars {
		dates[i] = bar.Date
	}
	return dates
}

// Closes returns the close prices in series order
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, bar := range s.Bars {
		closes[i] = bar.Close
	}
	return closes
}

// Last returns the most recent bar
func (s *PriceSeries) Last() (Bar, bool) {
	if s.IsEmpty() {
		return Bar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}

// Tail returns the last n bars (or fewer if the series is shorter)
func (s *PriceSeries) Tail(n int) []Bar {
	if n <= 0 || s.IsEmpty() {
		return nil
	}
	if n > len(s.Bars) {
		n = len(s.Bars)
	}
	return s.Bars[len(s.Bars)-n:]
}

// Between returns a new series restricted to bars within [start, end]
func (s *PriceSeries) Between(start, end time.Time) *PriceSeries {
	out := &PriceSeries{Ticker: s.Ticker, Bars: make([]Bar, 0, len(s.Bars))}
	for _, bar := range s.Bars {
		if !start.IsZero() && bar.Date.Before(start) {
			continue
		}
		if !end.IsZero() && bar.Date.After(end) {
			continue
		}
		out.Bars = append(out.Bars, bar)
	}
	return out
}

// NormalizeTicker trims and upper-cases a ticker symbol
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// ParseTickers splits comma-separated input into normalized tickers.
// Empty entries are dropped and duplicates keep their first position.
func ParseTickers(input string) []string {
	parts := strings.Split(input, ",")
	return NormalizeTickers(parts)
}

// NormalizeTickers normalizes a list of tickers, preserving input order
func NormalizeTickers(tickers []string) []string {
	seen := make(map[string]bool, len(tickers))
	result := make([]string, 0, len(tickers))
	for _, raw := range tickers {
		ticker := NormalizeTicker(raw)
		if ticker == "" || seen[ticker] {
			continue
		}
		seen[ticker] = true
		result = append(result, ticker)
	}
	return result
}
