package domain

import "time"

type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusCompleted  DocumentStatus = "completed"
	StatusFailed     DocumentStatus = "failed"
)

type Document struct {
	ID          string         `json:"id"`
	Filename    string         `json:"filename"`
	MimeType    string         `json:"mime_type"`
	StoragePath string         `json:"storage_path"`
	Status      DocumentStatus `json:"status"`

	Extracted  *AnalysisResult `json:"extracted_data,omitempty"`
	Confidence float64         `json:"confidence_score"`

	Pages         int     `json:"pages,omitempty"`
	WordCount     int     `json:"word_count,omitempty"`
	OCRConfidence float64 `json:"ocr_confidence,omitempty"`

	Error       string     `json:"error,omitempty"`
	UploadedAt  time.Time  `json:"uploaded_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// OCRResult is what a text-recognition backend reports for one document.
type OCRResult struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Pages      int     `json:"pages"`
	WordCount  int     `json:"word_count"`
}

// FieldMatch is one hit from a search over a document's extracted fields.
type FieldMatch struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// StatusCounts aggregates documents by processing status.
type StatusCounts struct {
	Total      int `json:"total_documents"`
	Completed  int `json:"completed_documents"`
	Processing int `json:"processing_documents"`
	Failed     int `json:"failed_documents"`
}

// SuccessRate returns the percentage of completed documents, 0 when empty.
func (c StatusCounts) SuccessRate() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Completed) / float64(c.Total) * 100
}
