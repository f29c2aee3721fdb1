// Package main wires together the listing-ingestion service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jobradar/jobradar-crawler/internal/api"
	"github.com/jobradar/jobradar-crawler/internal/clock/system"
	"github.com/jobradar/jobradar-crawler/internal/config"
	"github.com/jobradar/jobradar-crawler/internal/extractor"
	collyfetcher "github.com/jobradar/jobradar-crawler/internal/fetcher/colly"
	"github.com/jobradar/jobradar-crawler/internal/ingest"
	"github.com/jobradar/jobradar-crawler/internal/logging"
	"github.com/jobradar/jobradar-crawler/internal/metrics"
	"github.com/jobradar/jobradar-crawler/internal/storage/postgres"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.Init()

	store, err := postgres.NewStore(ctx, postgres.Config{
		DSN:      cfg.DB.DSN,
		MaxConns: cfg.DB.MaxConns,
		MinConns: cfg.DB.MinConns,
	})
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}

	source, err := ingest.NewSource(cfg.Source.BaseURL)
	if err != nil {
		logger.Fatal("source init failed", zap.Error(err))
	}

	fetcher := collyfetcher.New(collyfetcher.Config{
		UserAgent:      cfg.Source.UserAgent,
		Timeout:        cfg.FetchTimeout(),
		MaxRetries:     uint64(cfg.HTTP.MaxRetries),
		BackoffInitial: time.Duration(cfg.HTTP.BackoffInitialMs) * time.Millisecond,
		BackoffMax:     time.Duration(cfg.HTTP.BackoffMaxMs) * time.Millisecond,
	}, logger.Named("fetcher"))

	persister := ingest.NewPersister(store, logger.Named("persister"), cfg.PersistTimeout())
	orchestrator := ingest.NewOrchestrator(
		source,
		fetcher,
		extractor.NewJobs(logger.Named("extractor")),
		extractor.NewSalaries(logger.Named("extractor")),
		persister,
		system.New(),
		logger.Named("orchestrator"),
	)

	apiServer := api.NewServer(orchestrator, store, cfg, logger.Named("api"))
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	// Drain in-flight record writes before the pool goes away so rows
	// persisted fire-and-forget are not lost on exit.
	if err := persister.Drain(shutdownCtx); err != nil {
		logger.Error("persister drain incomplete", zap.Error(err))
	}
	store.Close()
	logger.Info("shutdown complete")
}
