// Package bootstrap wires infrastructure to the core use cases for both
// binaries.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mkravets/estate-docs/internal/config"
	"github.com/mkravets/estate-docs/internal/core/analyzer"
	"github.com/mkravets/estate-docs/internal/core/ports"
	"github.com/mkravets/estate-docs/internal/core/usecase"
	"github.com/mkravets/estate-docs/internal/export"
	"github.com/mkravets/estate-docs/internal/infrastructure/ocr/localsim"
	"github.com/mkravets/estate-docs/internal/infrastructure/ocr/remote"
	"github.com/mkravets/estate-docs/internal/infrastructure/queue/nats"
	"github.com/mkravets/estate-docs/internal/infrastructure/repository/postgres"
	"github.com/mkravets/estate-docs/internal/infrastructure/resilience"
	"github.com/mkravets/estate-docs/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Queue     ports.MessageQueue
	Repo      ports.DocumentRepository
	Ingestor  ports.DocumentIngestor
	Processor ports.DocumentProcessor
	Inspector ports.DocumentInspector
	Exporter  *export.Service

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultPolicy(), logger)

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
		Logger:             logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	recognizer, err := newRecognizer(cfg, storage, executor, logger)
	if err != nil {
		return nil, err
	}

	engine := analyzer.NewEngine(logger)

	ingestor := usecase.NewIngestDocumentUseCase(repo, storage, queue, cfg.MaxUploadBytes)
	processor := usecase.NewProcessDocumentUseCase(repo, recognizer, engine)
	inspector := usecase.NewInspectDocumentUseCase(repo, storage, recognizer, engine, logger)
	exporter := export.NewService(repo, logger)

	return &App{
		Config: cfg,
		Logger: logger,

		Queue:     queue,
		Repo:      repo,
		Ingestor:  ingestor,
		Processor: processor,
		Inspector: inspector,
		Exporter:  exporter,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func newRecognizer(cfg config.Config, storage *localfs.Storage, executor *resilience.Executor, logger *slog.Logger) (ports.TextRecognizer, error) {
	switch cfg.OCRBackend {
	case config.OCRBackendLocal:
		return localsim.New(storage, logger), nil
	case config.OCRBackendRemote:
		return remote.New(cfg.OCRRemoteEndpoint, cfg.OCRRemoteAPIKey, storage, executor), nil
	default:
		return nil, fmt.Errorf("unknown ocr backend %q", cfg.OCRBackend)
	}
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
