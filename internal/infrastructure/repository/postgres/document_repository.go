package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mkravets/estate-docs/internal/core/domain"
)

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *DocumentRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082801)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	mime_type TEXT NOT NULL,
	storage_path TEXT NOT NULL,
	status TEXT NOT NULL,
	extracted_data JSONB,
	confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
	pages INTEGER NOT NULL DEFAULT 0,
	word_count INTEGER NOT NULL DEFAULT 0,
	ocr_confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
	error_message TEXT NOT NULL DEFAULT '',
	uploaded_at TIMESTAMPTZ NOT NULL,
	processed_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);
CREATE INDEX IF NOT EXISTS idx_documents_uploaded_at ON documents(uploaded_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO documents (
	id, filename, mime_type, storage_path, status, confidence, pages, word_count, ocr_confidence, error_message, uploaded_at, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
`,
		doc.ID, doc.Filename, doc.MimeType, doc.StoragePath, string(doc.Status), doc.Confidence,
		doc.Pages, doc.WordCount, doc.OCRConfidence, doc.Error, doc.UploadedAt, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

const selectColumns = `id, filename, mime_type, storage_path, status, extracted_data, confidence, pages, word_count, ocr_confidence, error_message, uploaded_at, processed_at, created_at, updated_at`

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+selectColumns+`
FROM documents
WHERE id = $1
`, id)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", fmt.Errorf("id %s", id))
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}
	return doc, nil
}

func (r *DocumentRepository) List(ctx context.Context, status domain.DocumentStatus, offset, limit int) ([]domain.Document, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
SELECT ` + selectColumns + `
FROM documents
`
	args := []any{}
	if status != "" {
		query += "WHERE status = $1\n"
		args = append(args, string(status))
	}
	query += fmt.Sprintf("ORDER BY uploaded_at DESC\nOFFSET $%d LIMIT $%d", len(args)+1, len(args)+2)
	args = append(args, offset, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

func (r *DocumentRepository) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	return requireRowAffected(res, "update document status", id)
}

func (r *DocumentRepository) SaveAnalysis(ctx context.Context, id string, result domain.AnalysisResult, confidence float64, ocr domain.OCRResult) error {
	extracted, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET extracted_data = $2, confidence = $3, pages = $4, word_count = $5, ocr_confidence = $6, processed_at = $7, updated_at = $7
WHERE id = $1
`, id, extracted, confidence, ocr.Pages, ocr.WordCount, ocr.Confidence, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}
	return requireRowAffected(res, "save analysis", id)
}

func (r *DocumentRepository) CountByStatus(ctx context.Context) (domain.StatusCounts, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT status, COUNT(*)
FROM documents
GROUP BY status
`)
	if err != nil {
		return domain.StatusCounts{}, fmt.Errorf("count documents: %w", err)
	}
	defer rows.Close()

	var counts domain.StatusCounts
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return domain.StatusCounts{}, fmt.Errorf("scan status count: %w", err)
		}
		counts.Total += n
		switch domain.DocumentStatus(status) {
		case domain.StatusCompleted:
			counts.Completed = n
		case domain.StatusProcessing, domain.StatusUploaded:
			counts.Processing += n
		case domain.StatusFailed:
			counts.Failed = n
		}
	}
	if err := rows.Err(); err != nil {
		return domain.StatusCounts{}, fmt.Errorf("iterate status counts: %w", err)
	}
	return counts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var status string
	var extractedRaw []byte
	var processedAt sql.NullTime

	err := row.Scan(
		&doc.ID, &doc.Filename, &doc.MimeType, &doc.StoragePath, &status, &extractedRaw,
		&doc.Confidence, &doc.Pages, &doc.WordCount, &doc.OCRConfidence, &doc.Error,
		&doc.UploadedAt, &processedAt, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(extractedRaw) > 0 {
		var result domain.AnalysisResult
		if err := json.Unmarshal(extractedRaw, &result); err != nil {
			return nil, fmt.Errorf("unmarshal analysis: %w", err)
		}
		doc.Extracted = &result
	}
	if processedAt.Valid {
		t := processedAt.Time
		doc.ProcessedAt = &t
	}
	doc.Status = domain.DocumentStatus(status)
	return &doc, nil
}

func requireRowAffected(res sql.Result, operation, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", operation, err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrDocumentNotFound, operation, fmt.Errorf("id %s", id))
	}
	return nil
}
