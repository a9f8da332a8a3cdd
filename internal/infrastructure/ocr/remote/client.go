// Package remote calls an external OCR service over HTTP. Requests run
// through the resilience executor so transient service failures are retried
// and sustained outages trip the circuit breaker.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/mkravets/estate-docs/internal/core/domain"
	"github.com/mkravets/estate-docs/internal/core/ports"
	"github.com/mkravets/estate-docs/internal/infrastructure/resilience"
)

type Client struct {
	endpoint   string
	apiKey     string
	storage    ports.ObjectStorage
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(endpoint, apiKey string, storage ports.ObjectStorage, executor *resilience.Executor) *Client {
	return &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiKey:     apiKey,
		storage:    storage,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		executor:   executor,
	}
}

type recognitionResponse struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Pages      int     `json:"pages"`
	WordCount  int     `json:"word_count"`
}

func (c *Client) Recognize(ctx context.Context, storageKey string) (domain.OCRResult, error) {
	body, contentType, err := c.buildRequestBody(ctx, storageKey)
	if err != nil {
		return domain.OCRResult{}, err
	}

	var response recognitionResponse
	call := func(callCtx context.Context) error {
		return c.post(callCtx, body, contentType, &response)
	}

	if c.executor != nil {
		err = c.executor.Do(ctx, "ocr.recognize", call, classifyOCRError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return domain.OCRResult{}, wrapTemporaryIfNeeded("recognize text", err)
	}

	result := domain.OCRResult{
		Text:       response.Text,
		Confidence: response.Confidence,
		Pages:      response.Pages,
		WordCount:  response.WordCount,
	}
	if result.WordCount == 0 {
		result.WordCount = len(strings.Fields(result.Text))
	}
	return result, nil
}

func (c *Client) buildRequestBody(ctx context.Context, storageKey string) ([]byte, string, error) {
	rc, err := c.storage.Open(ctx, storageKey)
	if err != nil {
		return nil, "", fmt.Errorf("open stored file: %w", err)
	}
	defer rc.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(storageKey))
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, rc); err != nil {
		return nil, "", fmt.Errorf("copy file into form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize form: %w", err)
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}

func (c *Client) post(ctx context.Context, body []byte, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v1/recognize", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create recognize request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ocr recognize request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &HTTPStatusError{
			Operation:  "recognize",
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(raw),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode recognize response: %w", err)
	}
	return nil
}
