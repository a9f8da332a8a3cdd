package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mkravets/estate-docs/internal/core/domain"
	"github.com/mkravets/estate-docs/internal/core/ports"
)

// allowedExtensions lists the upload formats OCR backends can handle.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".tiff": true,
}

type IngestDocumentUseCase struct {
	repo           ports.DocumentRepository
	storage        ports.ObjectStorage
	queue          ports.MessageQueue
	maxUploadBytes int64
}

func NewIngestDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
	maxUploadBytes int64,
) *IngestDocumentUseCase {
	return &IngestDocumentUseCase{
		repo:           repo,
		storage:        storage,
		queue:          queue,
		maxUploadBytes: maxUploadBytes,
	}
}

func (uc *IngestDocumentUseCase) Upload(
	ctx context.Context,
	filename, mimeType string,
	size int64,
	body io.Reader,
) (*domain.Document, error) {
	if err := uc.validate(filename, size); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(filename))
	now := time.Now().UTC()

	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	doc := &domain.Document{
		ID:          id,
		Filename:    filename,
		MimeType:    mimeType,
		StoragePath: storageKey,
		Status:      domain.StatusUploaded,
		UploadedAt:  now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document metadata: %w", err)
	}

	if err := uc.queue.PublishDocumentUploaded(ctx, doc.ID); err != nil {
		return nil, fmt.Errorf("publish upload event: %w", err)
	}

	return doc, nil
}

func (uc *IngestDocumentUseCase) validate(filename string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return domain.WrapError(
			domain.ErrUnsupportedFormat,
			"validate upload",
			fmt.Errorf("file type %q not supported", ext),
		)
	}
	if uc.maxUploadBytes > 0 && size > uc.maxUploadBytes {
		return domain.WrapError(
			domain.ErrInvalidInput,
			"validate upload",
			fmt.Errorf("file size %d exceeds limit %d", size, uc.maxUploadBytes),
		)
	}
	return nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "document.bin"
	}
	return base
}
