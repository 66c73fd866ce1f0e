package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurant-dashboard/internal/config"
	"restaurant-dashboard/internal/database"
	"restaurant-dashboard/internal/dataset"
	"restaurant-dashboard/internal/handler"
	"restaurant-dashboard/internal/repository"
	"restaurant-dashboard/internal/router"
	"restaurant-dashboard/internal/scheduler"
	"restaurant-dashboard/internal/service"
	"restaurant-dashboard/internal/source"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Str("data_source", cfg.Data.Source).Msg("starting restaurant dashboard API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src, closeSource, err := newSource(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize data source: %w", err)
	}
	defer closeSource()

	// Initialize dataset provider, cached unless disabled
	loader := dataset.NewLoader(src, logger)
	var (
		provider  dataset.Provider = loader
		refresher handler.Refresher
	)

	if cfg.Cache.Enabled {
		cache := dataset.NewCachedProvider(loader, logger)
		provider = cache
		refresher = cache

		// Warm the cache so configuration problems surface at startup
		if _, err := cache.Tables(ctx); err != nil {
			logger.Warn().Err(err).Msg("initial dataset load failed, will retry on first request")
		}

		if cfg.Cache.RefreshSchedule != "" {
			sched := scheduler.NewScheduler(cfg.Cache.RefreshSchedule, cache, logger)
			if err := sched.Start(); err != nil {
				return fmt.Errorf("failed to start refresh scheduler: %w", err)
			}
			defer sched.Stop()
		}
	} else {
		logger.Info().Msg("dataset caching disabled, every request reads the source")
	}

	// Initialize services
	metricsService := service.NewMetricsService(provider, logger)

	// Initialize HTTP handlers
	metricsHandler := handler.NewMetricsHandler(metricsService, logger)
	adminHandler := handler.NewAdminHandler(refresher, logger)

	// Initialize router
	mux := router.New(metricsHandler, adminHandler, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newSource builds the table source selected by DATA_SOURCE. The returned
// func releases whatever the source holds open.
func newSource(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (source.Source, func(), error) {
	noop := func() {}
	local := source.NewFileSource(cfg.Data.Dir, logger)

	switch cfg.Data.Source {
	case config.SourceFile:
		logger.Info().Str("dir", cfg.Data.Dir).Msg("reading datasets from local files")
		return local, noop, nil

	case config.SourceS3:
		remote, err := source.NewS3Source(ctx, source.S3Options{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Prefix:    cfg.S3.Prefix,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		}, logger)
		if err != nil {
			if !cfg.S3.FallbackLocal {
				return nil, nil, err
			}
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 source, falling back to local file system only")
			return local, noop, nil
		}
		return source.NewFallbackSource(remote, local, cfg.S3.FallbackLocal, logger), noop, nil

	case config.SourceSheets:
		sheets, err := source.NewSheetsSource(ctx, cfg.Sheets.CredentialsPath, cfg.Sheets.SpreadsheetID, logger)
		if err != nil {
			return nil, nil, err
		}
		return sheets, noop, nil

	case config.SourcePostgres:
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return repository.NewTableRepository(pool, logger), pool.Close, nil
	}

	return nil, nil, fmt.Errorf("unsupported data source %q", cfg.Data.Source)
}
