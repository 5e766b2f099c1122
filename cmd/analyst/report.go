package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mohamedkhairy/stock-analyst/internal/models"
	"github.com/mohamedkhairy/stock-analyst/internal/report"
	"github.com/spf13/cobra"
)

func newReportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "report <symbol>...",
		Short:   "Generate a multi-agent investment report",
		Example: `  analyst report AAPL TSLA GOOG`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel, err := commandContext(opts)
			if err != nil {
				return err
			}
			defer cancel()

			services, err := setup()
			if err != nil {
				return err
			}
			defer services.Close()

			if services.Pipeline == nil {
				return fmt.Errorf("%w: set LLM_API_KEY or GOOGLE_API_KEY", models.ErrGeneratorDisabled)
			}

			result, err := services.Pipeline.Generate(ctx, splitTickers(args))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return writeJSON(out, result)
			}
			for _, w := range result.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
			}
			return renderReport(out, result)
		},
	}
}

func renderReport(w io.Writer, result *report.Result) error {
	if perf := result.Report.Market.Performance; len(perf) > 0 {
		fmt.Fprintln(w, "Six-month performance")
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "Symbol\tChange\tDays")
		for _, p := range report.Rank(perf) {
			fmt.Fprintf(tw, "%s\t%+.2f%%\t%d\n", p.Symbol, p.Change*100, p.Bars)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, result.Report.Markdown)
	fmt.Fprintln(w)
	fmt.Fprintln(w, result.Disclaimer)
	return nil
}
