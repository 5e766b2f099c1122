package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mohamedkhairy/stock-analyst/internal/advisor"
	"github.com/mohamedkhairy/stock-analyst/internal/models"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd(opts *options) *cobra.Command {
	var (
		start      string
		end        string
		indicators []string
	)

	cmd := &cobra.Command{
		Use:   "analyze [ticker]...",
		Short: "Compute indicators and a buy/hold/sell recommendation per ticker",
		Long:  "Compute indicators and a buy/hold/sell recommendation per ticker.\nWith no tickers, MARKET_DATA_DEFAULT_TICKERS is used.",
		Example: `  analyst analyze AAPL MSFT GOOG
  analyst analyze "aapl, msft" --indicators SMA-20,VWAP --start 2024-01-01`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel, err := commandContext(opts)
			if err != nil {
				return err
			}
			defer cancel()

			startDate, err := parseDay(start)
			if err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			endDate, err := parseDay(end)
			if err != nil {
				return fmt.Errorf("--end: %w", err)
			}
			ids, err := models.ParseIndicatorRequest(indicators)
			if err != nil {
				return err
			}

			services, err := setup()
			if err != nil {
				return err
			}
			defer services.Close()

			fetched, err := services.Advisor.Fetch(ctx, advisor.FetchRequest{
				UserID:  cliUser,
				Tickers: tickersOrDefault(args, services.Config.MarketData.DefaultTickers),
				Start:   startDate,
				End:     endDate,
			})
			if err != nil {
				return err
			}
			defer services.Advisor.Close(context.Background(), fetched.SessionID, cliUser)

			rep, err := services.Advisor.Analyze(ctx, advisor.AnalyzeRequest{
				SessionID:  fetched.SessionID,
				UserID:     cliUser,
				Indicators: ids,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return writeJSON(out, map[string]interface{}{
					"warnings": fetched.Warnings,
					"report":   rep,
				})
			}
			for _, w := range fetched.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
			}
			return renderAnalysis(out, rep)
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "first day (YYYY-MM-DD), defaults to one year ago")
	cmd.Flags().StringVar(&end, "end", "", "last day (YYYY-MM-DD), defaults to today")
	cmd.Flags().StringSliceVar(&indicators, "indicators", nil, "indicators to compute (SMA-20, EMA-20, Bollinger-20, VWAP)")
	return cmd
}

// renderAnalysis prints each ticker's latest indicator values and
// recommendation, then the summary table
func renderAnalysis(w io.Writer, rep *advisor.Report) error {
	for _, ta := range rep.Analyses {
		fmt.Fprintf(w, "== %s ==\n", ta.Ticker)
		for _, id := range rep.Indicators {
			ind, ok := ta.Indicators[id]
			if !ok {
				continue
			}
			if p, ok := ind.Latest(); ok {
				fmt.Fprintf(w, "  %-24s %10.2f  (%s)\n", id.Label(), p.Value, p.Date.Format(dayLayout))
			} else {
				fmt.Fprintf(w, "  %-24s %10s\n", id.Label(), "n/a")
			}
		}
		fmt.Fprintf(w, "  Action: %s\n", ta.Action)
		fmt.Fprintf(w, "  Justification: %s\n", ta.Justification)
		if ta.Error != "" {
			fmt.Fprintf(w, "  Error: %s\n", ta.Error)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Overall Structured Recommendations")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Stock\tRecommendation")
	for _, row := range rep.Summary {
		fmt.Fprintf(tw, "%s\t%s\n", row.Stock, row.Recommendation)
	}
	return tw.Flush()
}

const dayLayout = "2006-01-02"

func parseDay(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(dayLayout, value, time.UTC)
}

// splitTickers accepts both separate arguments and comma-separated lists
func splitTickers(args []string) []string {
	return models.ParseTickers(strings.Join(args, ","))
}

// tickersOrDefault falls back to defaults when args name no ticker
func tickersOrDefault(args, defaults []string) []string {
	if tickers := splitTickers(args); len(tickers) > 0 {
		return tickers
	}
	return splitTickers(defaults)
}

func commandContext(opts *options) (context.Context, context.CancelFunc, error) {
	timeout, err := time.ParseDuration(opts.timeout)
	if err != nil {
		return nil, nil, fmt.Errorf("--timeout: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	return ctx, cancel, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
