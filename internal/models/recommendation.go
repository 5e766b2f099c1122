package models

import "time"

// Action is the trading action suggested by the model.
// Any string returned by the model is kept verbatim.
type Action string

const (
	ActionBuy  Action = "Buy"
	ActionHold Action = "Hold"
	ActionSell Action = "Sell"
)

// PlaceholderAction and PlaceholderJustification are shown when a response could not be parsed
const (
	PlaceholderAction        = "N/A"
	PlaceholderJustification = "No justification provided."
)

// IsStandard reports whether the action is one of Buy, Hold or Sell
func (a Action) IsStandard() bool {
	return a == ActionBuy || a == ActionHold || a == ActionSell
}

// ClassificationStatus tells parsed responses apart from unparseable ones
type ClassificationStatus string

const (
	ClassificationParsed      ClassificationStatus = "parsed"
	ClassificationUnparseable ClassificationStatus = "unparseable"
)

// Classification is the strict result of interpreting a model response
type Classification struct {
	Status        ClassificationStatus `json:"status"`
	Action        Action               `json:"action,omitempty"`
	Justification string               `json:"justification,omitempty"`
	Raw           string               `json:"raw,omitempty"`
	Reason        string               `json:"reason,omitempty"`
}

// Parsed reports whether the response carried an action
func (c Classification) Parsed() bool {
	return c.Status == ClassificationParsed
}

// Recommendation is produced once per ticker per analysis run
type Recommendation struct {
	Ticker         string         `json:"ticker"`
	Classification Classification `json:"classification"`
	CreatedAt      time.Time      `json:"created_at"`
}

// DisplayAction returns the action for display, "N/A" when unparseable
func (r *Recommendation) DisplayAction() string {
	if !r.Classification.Parsed() || r.Classification.Action == "" {
		return PlaceholderAction
	}
	return string(r.Classification.Action)
}

// DisplayJustification returns the justification for display
func (r *Recommendation) DisplayJustification() string {
	if r.Classification.Justification == "" {
		return PlaceholderJustification
	}
	return r.Classification.Justification
}

// SummaryRow is one row of the overall recommendations table
type SummaryRow struct {
	Stock          string `json:"Stock"`
	Recommendation string `json:"Recommendation"`
}
