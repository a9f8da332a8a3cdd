package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mkravets/estate-docs/internal/bootstrap"
	"github.com/mkravets/estate-docs/internal/config"
	"github.com/mkravets/estate-docs/internal/observability/logging"
	"github.com/mkravets/estate-docs/internal/observability/metrics"
)

const processTimeout = 5 * time.Minute

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger("estate-docs-worker", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("bootstrap.failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics("estate-docs-worker")
	metricsServer := serveMetrics(cfg.WorkerMetricsPort, workerMetrics, logger, stop)

	err = app.Queue.SubscribeDocumentUploaded(ctx, func(msgCtx context.Context, documentID string) error {
		processCtx, cancel := context.WithTimeout(msgCtx, processTimeout)
		defer cancel()

		workerMetrics.StartDocument()
		start := time.Now()
		err := app.Processor.ProcessByID(processCtx, documentID)
		workerMetrics.FinishDocument("estate-docs-worker", time.Since(start), err)

		if err != nil {
			logger.Error("document.process.failed", "document_id", documentID, "error", err)
			return err
		}

		observeDocument(processCtx, app, workerMetrics, start, documentID)
		logger.Info("document.process.ok", "document_id", documentID, "duration", time.Since(start))
		return nil
	})
	if err != nil {
		logger.Error("queue.subscribe.failed", "error", err)
		os.Exit(1)
	}

	logger.Info("worker.started", "subject", cfg.NATSSubject)
	<-ctx.Done()
	logger.Info("worker.stopping")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics.server.shutdown.failed", "error", err)
	}
	logger.Info("worker.stopped")
}

// observeDocument reads the stored document back to record queue lag and the
// OCR confidence the pipeline persisted.
func observeDocument(ctx context.Context, app *bootstrap.App, m *metrics.WorkerMetrics, start time.Time, documentID string) {
	doc, err := app.Repo.GetByID(ctx, documentID)
	if err != nil {
		return
	}
	m.ObserveQueueLag("estate-docs-worker", start.Sub(doc.UploadedAt))
	m.ObserveOCRConfidence("estate-docs-worker", app.Config.OCRBackend, doc.OCRConfidence)
}

func serveMetrics(port string, m *metrics.WorkerMetrics, logger *slog.Logger, stop context.CancelFunc) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	server := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}
	go func() {
		logger.Info("metrics.server.start", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics.server.failed", "error", err)
			stop()
		}
	}()
	return server
}
