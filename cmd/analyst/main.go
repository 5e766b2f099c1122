package main

import (
	"fmt"
	"os"

	"github.com/mohamedkhairy/stock-analyst/internal/app"
	"github.com/mohamedkhairy/stock-analyst/internal/config"
	"github.com/mohamedkhairy/stock-analyst/pkg/logger"
	"github.com/spf13/cobra"
)

// cliUser owns the sessions created by the command line
const cliUser = "cli"

type options struct {
	jsonOutput bool
	timeout    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "analyst",
		Short:         "Technical indicators and LLM-assisted stock analysis",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "print results as JSON")
	root.PersistentFlags().StringVar(&opts.timeout, "timeout", "5m", "overall deadline for the command")

	root.AddCommand(newAnalyzeCmd(opts))
	root.AddCommand(newReportCmd(opts))
	return root
}

// setup loads config, initializes logging and wires the services
func setup() (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.LogLevel, cfg.Environment); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return app.Build(cfg)
}
