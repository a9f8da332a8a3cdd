package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mkravets/estate-docs/internal/core/domain"
	"github.com/mkravets/estate-docs/internal/core/ports"
)

// InspectDocumentUseCase serves synchronous analysis requests that bypass the
// upload pipeline, plus field search over stored documents.
type InspectDocumentUseCase struct {
	repo       ports.DocumentRepository
	storage    ports.ObjectStorage
	recognizer ports.TextRecognizer
	analyzer   ports.DocumentAnalyzer
	logger     *slog.Logger
}

func NewInspectDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	recognizer ports.TextRecognizer,
	analyzer ports.DocumentAnalyzer,
	logger *slog.Logger,
) *InspectDocumentUseCase {
	return &InspectDocumentUseCase{
		repo:       repo,
		storage:    storage,
		recognizer: recognizer,
		analyzer:   analyzer,
		logger:     logger,
	}
}

func (uc *InspectDocumentUseCase) AnalyzeText(_ context.Context, text string) (domain.AnalysisResult, error) {
	if text == "" {
		return domain.AnalysisResult{}, domain.WrapError(domain.ErrInvalidInput, "analyze text", fmt.Errorf("empty text"))
	}
	return uc.analyzer.Analyze(text), nil
}

// AnalyzeFile runs OCR plus analysis on an uploaded file without persisting a
// document record. The file is staged under tmp/ and always cleaned up.
func (uc *InspectDocumentUseCase) AnalyzeFile(ctx context.Context, filename string, body io.Reader) (domain.AnalysisResult, error) {
	key := fmt.Sprintf("tmp/%s_%s", uuid.NewString(), sanitizeFilename(filename))

	if err := uc.storage.Save(ctx, key, body); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("stage file: %w", err)
	}
	defer func() {
		if err := uc.storage.Delete(ctx, key); err != nil {
			uc.logger.Warn("failed to remove staged file", "key", key, "error", err)
		}
	}()

	ocr, err := uc.recognizer.Recognize(ctx, key)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("recognize text: %w", err)
	}
	return uc.analyzer.Analyze(ocr.Text), nil
}

// SearchFields matches the query against every extracted field of a stored,
// completed document.
func (uc *InspectDocumentUseCase) SearchFields(ctx context.Context, documentID, query string) ([]domain.FieldMatch, error) {
	if query == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "search fields", fmt.Errorf("empty query"))
	}

	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}
	if doc.Extracted == nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "search fields", fmt.Errorf("document %s has no analysis", documentID))
	}

	return doc.Extracted.SearchFields(query), nil
}
