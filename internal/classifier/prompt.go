package classifier

import (
	"fmt"
	"strings"

	"github.com/mohamedkhairy/stock-analyst/internal/llm"
)

const systemPrompt = `You are a stock trader specializing in technical analysis at a top financial institution.
Review the indicator snapshot and recent price action for one stock and give a trading recommendation.
Respond with a JSON object only, with exactly two fields:
  "action": one of "Buy", "Hold" or "Sell"
  "justification": a short paragraph explaining the call from the indicators`

// BuildPrompt serializes a snapshot into a generation request
func BuildPrompt(snap Snapshot) llm.Prompt {
	var b strings.Builder

	fmt.Fprintf(&b, "Ticker: %s\n", snap.Ticker)
	if !snap.LastDate.IsZero() {
		fmt.Fprintf(&b, "Last close: %.2f on %s\n", snap.LastClose, snap.LastDate.Format("2006-01-02"))
	}
	if len(snap.Recent) > 1 {
		fmt.Fprintf(&b, "Change over last %d bars: %+.2f%%\n", len(snap.Recent), snap.Change*100)
	}
	if snap.RSI != nil {
		fmt.Fprintf(&b, "RSI(14): %.2f\n", *snap.RSI)
	}

	b.WriteString("\nIndicators:\n")
	if len(snap.Indicators) == 0 {
		b.WriteString("- none available for this date range\n")
	}
	for _, ind := range snap.Indicators {
		fmt.Fprintf(&b, "- %s: %.2f, %s, close is %s", ind.ID.Label(), ind.Value, ind.Slope, ind.Position)
		if ind.Upper != nil && ind.Lower != nil {
			fmt.Fprintf(&b, " (upper %.2f, lower %.2f)", *ind.Upper, *ind.Lower)
		}
		b.WriteString("\n")
	}

	if len(snap.Recent) > 0 {
		b.WriteString("\nRecent price action (date, open, high, low, close, volume):\n")
		for _, bar := range snap.Recent {
			fmt.Fprintf(&b, "%s, %.2f, %.2f, %.2f, %.2f, %d\n",
				bar.Date.Format("2006-01-02"), bar.Open, bar.High, bar.Low, bar.Close, bar.Volume)
		}
	}

	return llm.Prompt{
		Role:   "classifier",
		System: systemPrompt,
		User:   b.String(),
		JSON:   true,
	}
}
