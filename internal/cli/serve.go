package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eshaffer321/ration-form/internal/api"
	"github.com/eshaffer321/ration-form/internal/application/service"
	"github.com/eshaffer321/ration-form/internal/domain/expense"
	"github.com/eshaffer321/ration-form/internal/infrastructure/config"
	"github.com/eshaffer321/ration-form/internal/infrastructure/logging"
	"github.com/eshaffer321/ration-form/internal/infrastructure/storage"
	"github.com/eshaffer321/ration-form/internal/observability/metrics"
)

const (
	shutdownTimeout = 30 * time.Second
	cleanupInterval = time.Hour
)

// RunServe runs the expense form API server.
func RunServe(cfg *config.Config, flags *ServeFlags) error {
	// Set up logging
	loggingCfg := cfg.Observability.Logging
	if flags.Verbose {
		loggingCfg.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(loggingCfg, "api")

	// Initialize storage
	store, err := storage.NewStorage(cfg.Storage.DatabasePath, storage.WithLogger(logger))
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var m *metrics.Metrics
	if cfg.Observability.Metrics.Enabled {
		m = metrics.New()
	}

	appender, err := NewAppender(context.Background(), cfg.Spreadsheet, logger)
	if err != nil {
		return err
	}

	forms := service.NewExpenseService(service.Deps{
		Machine:    expense.NewMachine(),
		Recognizer: NewRecognizer(cfg.OCR, m, logger),
		Appender:   appender,
		Storage:    store,
		Metrics:    m,
		Logger:     logger,
	})
	forms.StartBackgroundCleanup(cleanupInterval, service.DefaultSessionIdleTimeout)
	defer forms.StopBackgroundCleanup()

	apiCfg := api.Config{
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}
	if flags.Port != 0 {
		apiCfg.Port = flags.Port
	}

	PrintHeader(os.Stdout, "expense-form", apiCfg.Port)
	PrintConfiguration(os.Stdout, cfg)

	server := api.NewServer(apiCfg, forms, store, m, logger)

	return serveUntilSignal(logger, server.Start, server.Shutdown)
}

// serveUntilSignal runs start until SIGINT/SIGTERM, then shuts down.
func serveUntilSignal(logger *slog.Logger, start func() error, shutdown func(context.Context) error) error {
	// Handle graceful shutdown
	done := make(chan struct{})
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	go func() {
		<-quit
		logger.Info("received shutdown signal")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := shutdown(ctx); err != nil {
			logger.Error("server shutdown error", slog.Any("error", err))
		}
		close(done)
	}()

	// Start server (blocks until shutdown)
	if err := start(); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	<-done
	logger.Info("server stopped")
	return nil
}
