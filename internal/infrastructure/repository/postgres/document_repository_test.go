package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/mkravets/estate-docs/internal/core/domain"
)

func newRepoWithMock(t *testing.T) (*DocumentRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &DocumentRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestGetByIDReturnsDomainNotFound(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, filename, mime_type, storage_path").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByIDDecodesAnalysisColumn(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	tenant := "Sarah Jane Wilson"
	result := domain.EmptyAnalysisResult()
	result.TenantName = &tenant
	result.ConfidenceScore = 0.84
	extracted, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "filename", "mime_type", "storage_path", "status", "extracted_data",
		"confidence", "pages", "word_count", "ocr_confidence", "error_message",
		"uploaded_at", "processed_at", "created_at", "updated_at",
	}).AddRow(
		"doc-1", "lease.pdf", "application/pdf", "doc-1_lease.pdf", "completed", extracted,
		0.79, 2, 340, 0.95, "", now, now, now, now,
	)
	mock.ExpectQuery("SELECT id, filename, mime_type, storage_path").
		WithArgs("doc-1").
		WillReturnRows(rows)

	doc, err := repo.GetByID(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if doc.Status != domain.StatusCompleted {
		t.Fatalf("status = %s, want completed", doc.Status)
	}
	if doc.Extracted == nil || doc.Extracted.TenantName == nil || *doc.Extracted.TenantName != tenant {
		t.Fatalf("extracted analysis not decoded: %+v", doc.Extracted)
	}
	if doc.ProcessedAt == nil {
		t.Fatalf("processed_at not decoded")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpdateStatusReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE documents").
		WithArgs("missing", string(domain.StatusProcessing), "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", domain.StatusProcessing, "")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveAnalysisReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE documents").
		WithArgs("missing", sqlmock.AnyArg(), 0.58, 1, 3, 0.9, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SaveAnalysis(context.Background(), "missing", domain.EmptyAnalysisResult(), 0.58,
		domain.OCRResult{Confidence: 0.9, Pages: 1, WordCount: 3})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListFiltersByStatus(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "filename", "mime_type", "storage_path", "status", "extracted_data",
		"confidence", "pages", "word_count", "ocr_confidence", "error_message",
		"uploaded_at", "processed_at", "created_at", "updated_at",
	}).AddRow(
		"doc-1", "lease.pdf", "application/pdf", "doc-1_lease.pdf", "completed", nil,
		0.79, 2, 340, 0.95, "", now, nil, now, now,
	)
	mock.ExpectQuery("SELECT id, filename, mime_type, storage_path").
		WithArgs("completed", 0, 10).
		WillReturnRows(rows)

	docs, err := repo.List(context.Background(), domain.StatusCompleted, 0, 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "doc-1" {
		t.Fatalf("docs = %+v, want single doc-1", docs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCountByStatusAggregates(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	rows := sqlmock.NewRows([]string{"status", "count"}).
		AddRow("completed", 7).
		AddRow("uploaded", 1).
		AddRow("processing", 2).
		AddRow("failed", 1)
	mock.ExpectQuery("SELECT status, COUNT").WillReturnRows(rows)

	counts, err := repo.CountByStatus(context.Background())
	if err != nil {
		t.Fatalf("CountByStatus() error = %v", err)
	}
	want := domain.StatusCounts{Total: 11, Completed: 7, Processing: 3, Failed: 1}
	if counts != want {
		t.Fatalf("counts = %+v, want %+v", counts, want)
	}
	if got := counts.SuccessRate(); got < 63.6 || got > 63.7 {
		t.Fatalf("SuccessRate() = %v, want ~63.64", got)
	}
}
