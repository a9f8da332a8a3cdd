package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/mkravets/estate-docs/internal/core/domain"
	"github.com/mkravets/estate-docs/internal/core/ports"
)

type ProcessDocumentUseCase struct {
	repo       ports.DocumentRepository
	recognizer ports.TextRecognizer
	analyzer   ports.DocumentAnalyzer
}

func NewProcessDocumentUseCase(
	repo ports.DocumentRepository,
	recognizer ports.TextRecognizer,
	analyzer ports.DocumentAnalyzer,
) *ProcessDocumentUseCase {
	return &ProcessDocumentUseCase{
		repo:       repo,
		recognizer: recognizer,
		analyzer:   analyzer,
	}
}

func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) error {
	if err := uc.markStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	result, confidence, ocr, err := uc.processPipeline(ctx, documentID)
	if err != nil {
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.SaveAnalysis(ctx, documentID, result, confidence, ocr); err != nil {
		saveErr := fmt.Errorf("save analysis: %w", err)
		if failErr := uc.markFailed(ctx, documentID, saveErr); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", saveErr, failErr)
		}
		return saveErr
	}

	if err := uc.markStatus(ctx, documentID, domain.StatusCompleted, ""); err != nil {
		return fmt.Errorf("set status=completed: %w", err)
	}

	return nil
}

func (uc *ProcessDocumentUseCase) processPipeline(ctx context.Context, documentID string) (domain.AnalysisResult, float64, domain.OCRResult, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return domain.AnalysisResult{}, 0, domain.OCRResult{}, fmt.Errorf("fetch document by id: %w", err)
	}

	ocr, err := uc.recognize(ctx, doc)
	if err != nil {
		return domain.AnalysisResult{}, 0, domain.OCRResult{}, err
	}

	result := uc.analyzer.Analyze(ocr.Text)
	confidence := blendConfidence(ocr.Confidence, &result)

	return result, confidence, ocr, nil
}

func (uc *ProcessDocumentUseCase) recognize(ctx context.Context, doc *domain.Document) (domain.OCRResult, error) {
	ocr, err := uc.recognizer.Recognize(ctx, doc.StoragePath)
	if err != nil {
		return domain.OCRResult{}, fmt.Errorf("recognize text: %w", err)
	}
	if ocr.Text == "" {
		return domain.OCRResult{}, domain.WrapError(domain.ErrInvalidInput, "recognize text", errors.New("empty recognized text"))
	}
	return ocr, nil
}

// blendConfidence combines OCR certainty, analysis confidence, and field
// completeness into the document-level score, weighted 30/50/20.
func blendConfidence(ocrConfidence float64, result *domain.AnalysisResult) float64 {
	fieldRatio := float64(result.PopulatedFieldCount()) / domain.NominalFieldCount
	blended := 0.3*ocrConfidence + 0.5*result.ConfidenceScore + 0.2*fieldRatio
	return math.Round(blended*100) / 100
}

func (uc *ProcessDocumentUseCase) markStatus(ctx context.Context, documentID string, status domain.DocumentStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, documentID, status, errMessage)
}

func (uc *ProcessDocumentUseCase) markFailed(ctx context.Context, documentID string, processErr error) error {
	if processErr == nil {
		return nil
	}
	return uc.markStatus(ctx, documentID, domain.StatusFailed, processErr.Error())
}
