// Package localsim is the no-dependency OCR backend: PDFs are read through
// their embedded text layer, image formats return a canned lease so the
// pipeline stays exercisable without a recognition service.
package localsim

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/mkravets/estate-docs/internal/core/domain"
	"github.com/mkravets/estate-docs/internal/infrastructure/storage/localfs"
)

const (
	pdfConfidence   = 0.95
	imageConfidence = 0.92
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".tiff": true,
}

type Recognizer struct {
	storage *localfs.Storage
	logger  *slog.Logger
}

func New(storage *localfs.Storage, logger *slog.Logger) *Recognizer {
	return &Recognizer{storage: storage, logger: logger}
}

func (r *Recognizer) Recognize(_ context.Context, storageKey string) (domain.OCRResult, error) {
	ext := strings.ToLower(filepath.Ext(storageKey))
	switch {
	case ext == ".pdf":
		return r.recognizePDF(storageKey)
	case imageExtensions[ext]:
		r.logger.Debug("simulating image recognition", "key", storageKey)
		return domain.OCRResult{
			Text:       sampleLeaseText,
			Confidence: imageConfidence,
			Pages:      1,
			WordCount:  len(strings.Fields(sampleLeaseText)),
		}, nil
	default:
		return domain.OCRResult{}, domain.WrapError(
			domain.ErrUnsupportedFormat,
			"recognize",
			fmt.Errorf("extension %q", ext),
		)
	}
}

func (r *Recognizer) recognizePDF(storageKey string) (domain.OCRResult, error) {
	f, reader, err := pdf.Open(r.storage.Path(storageKey))
	if err != nil {
		return domain.OCRResult{}, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			r.logger.Warn("skipping unreadable pdf page", "key", storageKey, "page", i, "error", err)
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	text := sb.String()
	return domain.OCRResult{
		Text:       text,
		Confidence: pdfConfidence,
		Pages:      pages,
		WordCount:  len(strings.Fields(text)),
	}, nil
}

// sampleLeaseText stands in for image OCR output.
const sampleLeaseText = `REAL ESTATE LEASE AGREEMENT

This lease agreement is made between:
Landlord: Robert James Miller
Tenant: Emily Anne Carter
Property Address: 1427 Maple Street, Unit 3A, Portland, OR 97205
Lease Start Date: March 1, 2024
Lease End Date: February 28, 2025
Monthly Rent: $2,200.00
Security Deposit: $3,300.00
Contact: (503) 555-0142
No pets allowed without prior written consent.`
