package ports

import (
	"context"
	"io"

	"github.com/mkravets/estate-docs/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, size int64, body io.Reader) (*domain.Document, error)
}

// DocumentProcessor is the inbound contract for asynchronous document processing.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}

// DocumentInspector is the inbound contract for synchronous, non-persisting
// analysis and for searching a stored document's extracted fields.
type DocumentInspector interface {
	AnalyzeText(ctx context.Context, text string) (domain.AnalysisResult, error)
	AnalyzeFile(ctx context.Context, filename string, body io.Reader) (domain.AnalysisResult, error)
	SearchFields(ctx context.Context, documentID, query string) ([]domain.FieldMatch, error)
}
