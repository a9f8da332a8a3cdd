package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/mkravets/estate-docs/internal/adapters/http"
	"github.com/mkravets/estate-docs/internal/bootstrap"
	"github.com/mkravets/estate-docs/internal/config"
	"github.com/mkravets/estate-docs/internal/observability/logging"
	"github.com/mkravets/estate-docs/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger("estate-docs-api", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("bootstrap.failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	router := httpadapter.NewRouter(httpadapter.RouterConfig{
		Ingestor:  app.Ingestor,
		Inspector: app.Inspector,
		Repo:      app.Repo,
		Exporter:  app.Exporter,
		Metrics:   metrics.NewHTTPServerMetrics("estate-docs-api"),
		Logger:    logger,

		UploadRateLimitRPS:   cfg.UploadRateLimitRPS,
		UploadRateLimitBurst: cfg.UploadRateLimitBurst,
	})

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http.server.start", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http.server.failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("http.server.stopping")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http.server.shutdown.failed", "error", err)
	}
	logger.Info("http.server.stopped")
}
