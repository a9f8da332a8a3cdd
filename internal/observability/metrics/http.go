package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPServerMetrics holds the API-side registry: request plumbing plus the
// document-analysis business counters.
type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	uploadsTotal       *prometheus.CounterVec
	analysisTotal      *prometheus.CounterVec
	analysisConfidence *prometheus.HistogramVec
	searchHits         *prometheus.HistogramVec
	exportsTotal       *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "estate",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "estate",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "estate",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	uploadsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "estate",
			Subsystem: "documents",
			Name:      "uploads_total",
			Help:      "Total accepted document uploads.",
		},
		[]string{"service", "mime_type"},
	)
	analysisTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "estate",
			Subsystem: "analysis",
			Name:      "total",
			Help:      "Total synchronous analyses by classified document type.",
		},
		[]string{"service", "endpoint", "document_type"},
	)
	analysisConfidence := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "estate",
			Subsystem: "analysis",
			Name:      "confidence",
			Help:      "Distribution of analysis confidence scores.",
			Buckets:   []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		},
		[]string{"service", "endpoint"},
	)
	searchHits := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "estate",
			Subsystem: "search",
			Name:      "hits",
			Help:      "Distribution of field matches per search request.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"service"},
	)
	exportsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "estate",
			Subsystem: "exports",
			Name:      "total",
			Help:      "Total generated XLSX exports by status.",
		},
		[]string{"service", "status"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		uploadsTotal,
		analysisTotal,
		analysisConfidence,
		searchHits,
		exportsTotal,
	)

	return &HTTPServerMetrics{
		registry:           registry,
		requestTotal:       requestTotal,
		requestDuration:    requestDuration,
		requestInFlight:    requestInFlight,
		uploadsTotal:       uploadsTotal,
		analysisTotal:      analysisTotal,
		analysisConfidence: analysisConfidence,
		searchHits:         searchHits,
		exportsTotal:       exportsTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// normalizePath collapses identifier segments so metrics cardinality stays
// bounded.
func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/documents/") && strings.HasSuffix(path, "/search"):
		return "/v1/documents/{document_id}/search"
	case strings.HasPrefix(path, "/v1/documents/") && path != "/v1/documents/export":
		return "/v1/documents/{document_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordUpload(service, mimeType string) {
	if mimeType == "" {
		mimeType = "unknown"
	}
	m.uploadsTotal.WithLabelValues(service, mimeType).Inc()
}

func (m *HTTPServerMetrics) RecordAnalysis(service, endpoint, documentType string, confidence float64) {
	if documentType == "" {
		documentType = "unclassified"
	}
	m.analysisTotal.WithLabelValues(service, endpoint, documentType).Inc()
	m.analysisConfidence.WithLabelValues(service, endpoint).Observe(confidence)
}

func (m *HTTPServerMetrics) RecordSearchHits(service string, hits int) {
	m.searchHits.WithLabelValues(service).Observe(float64(hits))
}

func (m *HTTPServerMetrics) RecordExport(service string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.exportsTotal.WithLabelValues(service, status).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
