package cli

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/ration-form/internal/api/history"
	"github.com/eshaffer321/ration-form/internal/infrastructure/config"
	"github.com/eshaffer321/ration-form/internal/infrastructure/logging"
	"github.com/eshaffer321/ration-form/internal/infrastructure/storage"
)

// RunHistory runs the read-only submission history server.
func RunHistory(cfg *config.Config, flags *ServeFlags) error {
	loggingCfg := cfg.Observability.Logging
	if flags.Verbose {
		loggingCfg.Level = "debug"
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	logger := logging.NewLoggerWithSystem(loggingCfg, "history")

	store, err := storage.NewStorage(cfg.Storage.DatabasePath, storage.WithLogger(logger))
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	port := cfg.Server.HistoryPort
	if flags.Port != 0 {
		port = flags.Port
	}
	PrintHeader(os.Stdout, "history-api", port)

	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", port),
		Handler:     history.NewServer(store, logger).Router(cfg.Server.AllowedOrigins),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	start := func() error {
		logger.Info("starting history server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
	return serveUntilSignal(logger, start, srv.Shutdown)
}
