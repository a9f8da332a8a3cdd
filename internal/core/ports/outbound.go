package ports

import (
	"context"
	"io"

	"github.com/mkravets/estate-docs/internal/core/domain"
)

// DocumentRepository persists and reads document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	List(ctx context.Context, status domain.DocumentStatus, offset, limit int) ([]domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveAnalysis(ctx context.Context, id string, result domain.AnalysisResult, confidence float64, ocr domain.OCRResult) error
	CountByStatus(ctx context.Context) (domain.StatusCounts, error)
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// MessageQueue publishes/consumes upload events.
type MessageQueue interface {
	PublishDocumentUploaded(ctx context.Context, documentID string) error
	SubscribeDocumentUploaded(ctx context.Context, handler func(context.Context, string) error) error
}

// TextRecognizer converts a stored document into plain text plus OCR metadata.
type TextRecognizer interface {
	Recognize(ctx context.Context, storageKey string) (domain.OCRResult, error)
}

// DocumentAnalyzer turns raw text into the structured analysis record.
// Implementations never fail: unusable text yields the empty zero-confidence
// record instead of an error.
type DocumentAnalyzer interface {
	Analyze(text string) domain.AnalysisResult
}
