// Package export produces XLSX workbooks of analyzed documents for
// bookkeeping handoff.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mkravets/estate-docs/internal/core/domain"
	"github.com/mkravets/estate-docs/internal/core/ports"
)

type Service struct {
	repo   ports.DocumentRepository
	logger *slog.Logger
}

func NewService(repo ports.DocumentRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

const exportPageSize = 500

// ExportDocumentsXLSX renders completed documents into a single-sheet
// workbook, one row per document with the extracted headline fields.
func (s *Service) ExportDocumentsXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	docs := []domain.Document{}
	for offset := 0; ; offset += exportPageSize {
		page, err := s.repo.List(ctx, domain.StatusCompleted, offset, exportPageSize)
		if err != nil {
			return nil, fmt.Errorf("list completed documents: %w", err)
		}
		docs = append(docs, page...)
		if len(page) < exportPageSize {
			break
		}
	}

	f := excelize.NewFile()
	const sheet = "Documents"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	defaultSheet, _ := f.GetSheetIndex("Sheet1")
	if defaultSheet != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"Uploaded",
		"Filename",
		"Document Type",
		"Counterparty",
		"Total / Rent",
		"Payment Status",
		"Confidence",
		"Phone Numbers",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for i := range docs {
		doc := &docs[i]
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, doc.UploadedAt.Format("2006-01-02"))
		write(2, doc.Filename)
		write(3, stringOrDash(extractedField(doc, func(r *domain.AnalysisResult) *string { return r.DocumentType })))
		write(4, stringOrDash(counterparty(doc)))
		write(5, stringOrDash(headlineAmount(doc)))
		write(6, stringOrDash(extractedField(doc, func(r *domain.AnalysisResult) *string { return r.PaymentStatus })))
		write(7, doc.Confidence)
		if doc.Extracted != nil {
			write(8, strings.Join(doc.Extracted.PhoneNumbers, ", "))
		} else {
			write(8, "")
		}
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 12)
	_ = f.SetColWidth(sheet, "B", "B", 32)
	_ = f.SetColWidth(sheet, "C", "C", 18)
	_ = f.SetColWidth(sheet, "D", "D", 26)
	_ = f.SetColWidth(sheet, "E", "F", 14)
	_ = f.SetColWidth(sheet, "H", "H", 34)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(docs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func extractedField(doc *domain.Document, pick func(*domain.AnalysisResult) *string) *string {
	if doc.Extracted == nil {
		return nil
	}
	return pick(doc.Extracted)
}

// counterparty is the other party on the document: the billed customer for
// invoices, the tenant for rental agreements.
func counterparty(doc *domain.Document) *string {
	if doc.Extracted == nil {
		return nil
	}
	if doc.Extracted.BillToName != nil {
		return doc.Extracted.BillToName
	}
	return doc.Extracted.TenantName
}

func headlineAmount(doc *domain.Document) *string {
	if doc.Extracted == nil {
		return nil
	}
	if doc.Extracted.TotalAmount != nil {
		return doc.Extracted.TotalAmount
	}
	return doc.Extracted.MonthlyRent
}

func stringOrDash(s *string) string {
	if s == nil || *s == "" {
		return "—"
	}
	return *s
}
