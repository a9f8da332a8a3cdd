// Package httpadapter exposes the document-analysis API over HTTP.
package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/mkravets/estate-docs/internal/core/domain"
	"github.com/mkravets/estate-docs/internal/core/ports"
	"github.com/mkravets/estate-docs/internal/export"
	"github.com/mkravets/estate-docs/internal/observability/metrics"
)

const serviceName = "estate-docs-api"

type Router struct {
	ingestor  ports.DocumentIngestor
	inspector ports.DocumentInspector
	repo      ports.DocumentRepository
	exporter  *export.Service
	metrics   *metrics.HTTPServerMetrics
	logger    *slog.Logger
	limiter   *uploadRateLimiter
}

type RouterConfig struct {
	Ingestor  ports.DocumentIngestor
	Inspector ports.DocumentInspector
	Repo      ports.DocumentRepository
	Exporter  *export.Service
	Metrics   *metrics.HTTPServerMetrics
	Logger    *slog.Logger

	UploadRateLimitRPS   float64
	UploadRateLimitBurst int
}

func NewRouter(cfg RouterConfig) *Router {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		ingestor:  cfg.Ingestor,
		inspector: cfg.Inspector,
		repo:      cfg.Repo,
		exporter:  cfg.Exporter,
		metrics:   cfg.Metrics,
		logger:    logger,
		limiter:   newUploadRateLimiter(cfg.UploadRateLimitRPS, cfg.UploadRateLimitBurst),
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/documents", rt.documents)
	mux.HandleFunc("/v1/documents/", rt.documentSubtree)
	mux.HandleFunc("/v1/analytics/summary", rt.analyticsSummary)
	mux.HandleFunc("/v1/analyze", rt.limiter.wrap(rt.analyzeFile))
	mux.HandleFunc("/v1/analyze-text", rt.analyzeText)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(rt.logger, handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) documents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		rt.limiter.wrap(rt.uploadDocument)(w, r)
	case http.MethodGet:
		rt.listDocuments(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	doc, err := rt.ingestor.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		file,
	)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordUpload(serviceName, doc.MimeType)
	}
	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) listDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	skip := parseIntParam(q.Get("skip"), 0)
	limit := parseIntParam(q.Get("limit"), 50)
	if limit > 200 {
		limit = 200
	}

	status := domain.DocumentStatus(q.Get("status"))
	if status != "" && !validStatus(status) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown status filter"})
		return
	}

	docs, err := rt.repo.List(r.Context(), status, skip, limit)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"documents": docs,
		"skip":      skip,
		"limit":     limit,
	})
}

func (rt *Router) documentSubtree(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	switch {
	case rest == "export":
		rt.exportDocuments(w, r)
	case strings.HasSuffix(rest, "/search"):
		rt.searchDocumentFields(w, r, strings.TrimSuffix(rest, "/search"))
	default:
		rt.getDocumentByID(w, r, rest)
	}
}

func (rt *Router) getDocumentByID(w http.ResponseWriter, r *http.Request, id string) {
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	doc, err := rt.repo.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) searchDocumentFields(w http.ResponseWriter, r *http.Request, id string) {
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}
	query := r.URL.Query().Get("q")

	matches, err := rt.inspector.SearchFields(r.Context(), id, query)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordSearchHits(serviceName, len(matches))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"document_id": id,
		"query":       query,
		"matches":     matches,
	})
}

func (rt *Router) exportDocuments(w http.ResponseWriter, r *http.Request) {
	raw, err := rt.exporter.ExportDocumentsXLSX(r.Context())
	if rt.metrics != nil {
		rt.metrics.RecordExport(serviceName, err)
	}
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="documents.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

func (rt *Router) analyticsSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	counts, err := rt.repo.CountByStatus(r.Context())
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{
		StatusCounts: counts,
		SuccessRate:  counts.SuccessRate(),
	})
}

type summaryResponse struct {
	domain.StatusCounts
	SuccessRate float64 `json:"success_rate"`
}

func (rt *Router) analyzeFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	result, err := rt.inspector.AnalyzeFile(r.Context(), fileHeader.Filename, file)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	rt.recordAnalysis("analyze", &result)
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) analyzeText(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	result, err := rt.inspector.AnalyzeText(r.Context(), req.Text)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	rt.recordAnalysis("analyze-text", &result)
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) recordAnalysis(endpoint string, result *domain.AnalysisResult) {
	if rt.metrics == nil {
		return
	}
	docType := ""
	if result.DocumentType != nil {
		docType = *result.DocumentType
	}
	rt.metrics.RecordAnalysis(serviceName, endpoint, docType, result.ConfidenceScore)
}

func validStatus(status domain.DocumentStatus) bool {
	switch status {
	case domain.StatusUploaded, domain.StatusProcessing, domain.StatusCompleted, domain.StatusFailed:
		return true
	default:
		return false
	}
}

func parseIntParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
