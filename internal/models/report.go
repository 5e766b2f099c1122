package models

import (
	"fmt"
	"time"
)

// NotAvailable is the value used for missing company profile fields
const NotAvailable = "N/A"

// CompanyProfile holds basic company information
type CompanyProfile struct {
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
	Sector    string `json:"sector"`
	Industry  string `json:"industry"`
	MarketCap string `json:"market_cap"`
	Summary   string `json:"summary"`
}

// FillDefaults replaces empty fields with "N/A"
func (p *CompanyProfile) FillDefaults() {
	for _, field := range []*string{&p.Name, &p.Sector, &p.Industry, &p.MarketCap, &p.Summary} {
		if *field == "" {
			*field = NotAvailable
		}
	}
}

// NewsItem is a single news headline for a company
type NewsItem struct {
	Title       string    `json:"title"`
	Publisher   string    `json:"publisher"`
	Link        string    `json:"link"`
	PublishedAt time.Time `json:"published_at"`
}

// Performance is the relative performance of one symbol over the lookback period
type Performance struct {
	Symbol string  `json:"symbol"`
	Change float64 `json:"change"` // sum of daily fractional close-to-close changes
	Bars   int     `json:"bars"`
}

// String formats the performance for prompts
func (p Performance) String() string {
	return fmt.Sprintf("%s: %.4f (%d bars)", p.Symbol, p.Change, p.Bars)
}

// MarketAnalysis is the market analyst stage output
type MarketAnalysis struct {
	Performance []Performance `json:"performance"`
	Text        string        `json:"text"`
}

// CompanyAnalysis is the company researcher stage output for one symbol
type CompanyAnalysis struct {
	Profile CompanyProfile `json:"profile"`
	News    []NewsItem     `json:"news"`
	Text    string         `json:"text"`
	Error   string         `json:"error,omitempty"`
}

// Strategy is the securities strategist stage output
type Strategy struct {
	Text string `json:"text"`
}

// InvestmentReport is the final output of the fundamental pipeline
type InvestmentReport struct {
	Symbols     []string          `json:"symbols"`
	Market      MarketAnalysis    `json:"market"`
	Companies   []CompanyAnalysis `json:"companies"`
	Strategy    Strategy          `json:"strategy"`
	Markdown    string            `json:"markdown"`
	GeneratedAt time.Time         `json:"generated_at"`
}
