package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/mkravets/estate-docs/internal/core/domain"
)

type statusCall struct {
	status domain.DocumentStatus
	errMsg string
}

type repoFake struct {
	doc         *domain.Document
	getErr      error
	createErr   error
	saveErr     error
	statusErr   error
	statusCalls []statusCall
	created     *domain.Document
	savedID     string
	savedResult domain.AnalysisResult
	savedScore  float64
	savedOCR    domain.OCRResult
	listDocs    []domain.Document
	counts      domain.StatusCounts
}

func (f *repoFake) Create(_ context.Context, doc *domain.Document) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = doc
	return nil
}

func (f *repoFake) GetByID(context.Context, string) (*domain.Document, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copyDoc := *f.doc
	return &copyDoc, nil
}

func (f *repoFake) List(context.Context, domain.DocumentStatus, int, int) ([]domain.Document, error) {
	return f.listDocs, nil
}

func (f *repoFake) UpdateStatus(_ context.Context, _ string, status domain.DocumentStatus, errMessage string) error {
	f.statusCalls = append(f.statusCalls, statusCall{status: status, errMsg: errMessage})
	if f.statusErr != nil && status != domain.StatusFailed {
		return f.statusErr
	}
	return nil
}

func (f *repoFake) SaveAnalysis(_ context.Context, id string, result domain.AnalysisResult, confidence float64, ocr domain.OCRResult) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.savedID = id
	f.savedResult = result
	f.savedScore = confidence
	f.savedOCR = ocr
	return nil
}

func (f *repoFake) CountByStatus(context.Context) (domain.StatusCounts, error) {
	return f.counts, nil
}

type recognizerFake struct {
	ocr domain.OCRResult
	err error
}

func (f *recognizerFake) Recognize(context.Context, string) (domain.OCRResult, error) {
	if f.err != nil {
		return domain.OCRResult{}, f.err
	}
	return f.ocr, nil
}

type analyzerFake struct {
	result domain.AnalysisResult
}

func (f *analyzerFake) Analyze(string) domain.AnalysisResult { return f.result }

func analyzedResult(confidence float64, docType string) domain.AnalysisResult {
	res := domain.EmptyAnalysisResult()
	res.DocumentType = &docType
	res.ConfidenceScore = confidence
	return res
}

func TestProcessByIDSuccess(t *testing.T) {
	repo := &repoFake{doc: &domain.Document{ID: "doc-1", StoragePath: "doc-1_a.pdf"}}
	uc := NewProcessDocumentUseCase(
		repo,
		&recognizerFake{ocr: domain.OCRResult{Text: "Invoice number: 9", Confidence: 0.9, Pages: 1, WordCount: 3}},
		&analyzerFake{result: analyzedResult(0.6, "invoice")},
	)

	if err := uc.ProcessByID(context.Background(), "doc-1"); err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}
	if len(repo.statusCalls) != 2 {
		t.Fatalf("expected 2 status calls, got %d", len(repo.statusCalls))
	}
	if repo.statusCalls[0].status != domain.StatusProcessing || repo.statusCalls[1].status != domain.StatusCompleted {
		t.Fatalf("unexpected status sequence: %+v", repo.statusCalls)
	}
	if repo.savedID != "doc-1" {
		t.Fatalf("expected analysis save for doc-1, got %q", repo.savedID)
	}
	// 0.3*0.9 + 0.5*0.6 + 0.2*(1/20) = 0.58
	if repo.savedScore != 0.58 {
		t.Fatalf("blended confidence = %v, want 0.58", repo.savedScore)
	}
	if repo.savedOCR.WordCount != 3 {
		t.Fatalf("saved OCR metadata = %+v", repo.savedOCR)
	}
}

func TestProcessByIDMarksFailedOnRecognizeError(t *testing.T) {
	repo := &repoFake{doc: &domain.Document{ID: "doc-1"}}
	uc := NewProcessDocumentUseCase(
		repo,
		&recognizerFake{err: errors.New("ocr backend down")},
		&analyzerFake{},
	)

	if err := uc.ProcessByID(context.Background(), "doc-1"); err == nil {
		t.Fatalf("expected error")
	}
	if len(repo.statusCalls) != 2 || repo.statusCalls[1].status != domain.StatusFailed {
		t.Fatalf("expected processing + failed status updates, got %+v", repo.statusCalls)
	}
	if repo.statusCalls[1].errMsg == "" {
		t.Fatalf("failed status should carry the error message")
	}
}

func TestProcessByIDMarksFailedOnEmptyText(t *testing.T) {
	repo := &repoFake{doc: &domain.Document{ID: "doc-1"}}
	uc := NewProcessDocumentUseCase(
		repo,
		&recognizerFake{ocr: domain.OCRResult{Text: "", Confidence: 0.9}},
		&analyzerFake{},
	)

	err := uc.ProcessByID(context.Background(), "doc-1")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("ProcessByID() error = %v, want ErrInvalidInput", err)
	}
	if repo.statusCalls[len(repo.statusCalls)-1].status != domain.StatusFailed {
		t.Fatalf("expected failed status, got %+v", repo.statusCalls)
	}
}

func TestProcessByIDMarksFailedOnSaveError(t *testing.T) {
	repo := &repoFake{
		doc:     &domain.Document{ID: "doc-1"},
		saveErr: errors.New("db down"),
	}
	uc := NewProcessDocumentUseCase(
		repo,
		&recognizerFake{ocr: domain.OCRResult{Text: "some text", Confidence: 0.9}},
		&analyzerFake{result: analyzedResult(0.5, "invoice")},
	)

	if err := uc.ProcessByID(context.Background(), "doc-1"); err == nil {
		t.Fatalf("expected error")
	}
	if repo.statusCalls[len(repo.statusCalls)-1].status != domain.StatusFailed {
		t.Fatalf("expected failed status, got %+v", repo.statusCalls)
	}
}

func TestBlendConfidenceRounds(t *testing.T) {
	res := analyzedResult(0.715, "invoice")
	// 0.3*0.92 + 0.5*0.715 + 0.2*0.05 = 0.6435 -> 0.64
	if got := blendConfidence(0.92, &res); got != 0.64 {
		t.Fatalf("blendConfidence() = %v, want 0.64", got)
	}
}
