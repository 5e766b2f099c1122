package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mohamedkhairy/stock-analyst/internal/api"
	"github.com/mohamedkhairy/stock-analyst/internal/app"
	"github.com/mohamedkhairy/stock-analyst/internal/config"
	"github.com/mohamedkhairy/stock-analyst/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.LogLevel, cfg.Environment); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting stock analyst API",
		logger.Int("port", cfg.API.Port),
		logger.Int("rate_limit_rps", cfg.API.RateLimitRPS),
		logger.Bool("auth_enabled", cfg.API.JWTSecret != ""),
	)

	services, err := app.Build(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services",
			logger.ErrorField(err),
		)
	}
	defer services.Close()

	checks := make(map[string]api.Check, len(services.Checks))
	for name, check := range services.Checks {
		checks[name] = check
	}

	handler := api.NewRouter(api.Handlers{
		Technical: api.NewTechnicalHandler(services.Advisor, cfg.Analysis.DefaultIndicators),
		Report:    api.NewReportHandler(services.Pipeline),
		Stream:    api.NewStreamHandler(services.Advisor),
		Health:    api.NewHealthHandler(checks),
	}, api.NewAuthManager(cfg.API.JWTSecret), cfg.API.RateLimitRPS)

	// Report generation runs several model calls, so the write timeout is long
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.API.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.API.WriteTimeout,
	}

	go func() {
		logger.Info("Starting HTTP server",
			logger.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start HTTP server",
				logger.ErrorField(err),
			)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	logger.Info("Shutting down stock analyst API")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Error shutting down HTTP server",
			logger.ErrorField(err),
		)
	}

	logger.Info("Stock analyst API stopped")
}
