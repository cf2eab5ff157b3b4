package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/karim-nassar/invoice-extractor/internal/common"
	"github.com/karim-nassar/invoice-extractor/internal/pipeline"
	"github.com/karim-nassar/invoice-extractor/internal/repository"
	"github.com/karim-nassar/invoice-extractor/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load environment variables; a missing .env file is fine in production.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("could not load .env file", "error", err)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Store is optional: without DB_URL the service processes documents
	// but persists nothing.
	var store repository.InvoiceStore
	if cfg.Database.DSN != "" {
		pg, err := repository.Open(ctx, cfg.Database, logger)
		if err != nil {
			logger.Error("opening database", "error", err)
			os.Exit(1)
		}
		defer pg.Close()

		if err := pg.HealthCheck(ctx, cfg.Database.DialTimeout); err != nil {
			logger.Error("database health check failed", "error", err)
			os.Exit(1)
		}
		logger.Info("database health OK")
		store = pg
	} else {
		logger.Info("no DB_URL set, running store-less")
	}

	processor := pipeline.NewProcessor(logger, cfg.Pipeline, store)
	srv := server.New(logger, processor, store)

	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
	logger.Info("stopped")
}
