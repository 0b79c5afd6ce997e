// Package server exposes the scan pipeline over HTTP.
package server

import (
	"context"
	"net/http"

	"github.com/MeKo-Tech/idscan/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// scanPipeline defines the methods the server needs from a pipeline.
type scanPipeline interface {
	ProcessImage(ctx context.Context, data []byte) (*pipeline.ScanResult, error)
	ProcessBatch(ctx context.Context, items []pipeline.BatchItem, cfg pipeline.ParallelConfig) ([]pipeline.BatchResult, error)
	BarcodeAvailable() bool
	RecognitionAvailable() bool
}

// Server holds the HTTP server state and dependencies.
type Server struct {
	pipeline     scanPipeline
	corsOrigin   string
	maxUploadMB  int64
	timeoutSec   int
	batchWorkers int
	rateLimiter  *RateLimiter
}

// Config holds server configuration.
type Config struct {
	Host            string
	Port            int
	CORSOrigin      string
	MaxUploadMB     int64
	TimeoutSec      int
	RateLimitPerMin int
	BatchWorkers    int
	PipelineConfig  pipeline.Config
}

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version,omitempty"`
	Time        string `json:"time"`
	Barcode     bool   `json:"barcode_available"`
	Recognition bool   `json:"recognition_available"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// NewServer creates a new scan server instance.
func NewServer(ctx context.Context, config Config) (*Server, error) {
	pl, err := pipeline.NewBuilder().
		WithConfig(config.PipelineConfig).
		Build(ctx)
	if err != nil {
		return nil, err
	}

	var limiter *RateLimiter
	if config.RateLimitPerMin > 0 {
		limiter = NewRateLimiter(config.RateLimitPerMin, 0)
	}

	return &Server{
		pipeline:     pl,
		corsOrigin:   config.CORSOrigin,
		maxUploadMB:  config.MaxUploadMB,
		timeoutSec:   config.TimeoutSec,
		batchWorkers: config.BatchWorkers,
		rateLimiter:  limiter,
	}, nil
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/scan/image", s.corsMiddleware(s.rateLimitMiddleware(s.scanImageHandler)))
	mux.HandleFunc("/scan/batch", s.corsMiddleware(s.rateLimitMiddleware(s.scanBatchHandler)))
	mux.HandleFunc("/debug/decoder", s.corsMiddleware(s.debugDecoderHandler))
	mux.HandleFunc("/scan/ws", s.scanWebSocketHandler)
	mux.Handle("/metrics", promhttp.Handler())
}
