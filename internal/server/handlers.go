package server

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/MeKo-Tech/idscan/internal/pipeline"
	"github.com/MeKo-Tech/idscan/internal/utils"
	"github.com/MeKo-Tech/idscan/internal/version"
)

const formatText = "text"

// healthHandler returns server health status and channel availability.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:      "healthy",
		Version:     version.Version,
		Time:        time.Now().UTC().Format(time.RFC3339),
		Barcode:     s.pipeline.BarcodeAvailable(),
		Recognition: s.pipeline.RecognitionAvailable(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding health response: %v\n", err)
	}
}

// scanImageHandler processes single-image scan requests.
func (s *Server) scanImageHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, _, ok := s.readUpload(w, r, "image")
	if !ok {
		return
	}
	uploadSizeBytes.Observe(float64(len(data)))

	start := time.Now()
	res, err := s.pipeline.ProcessImage(r.Context(), data)
	if err != nil {
		scanRequestsTotal.WithLabelValues("image", "error").Inc()
		s.writeErrorResponse(w, fmt.Sprintf("Scan failed: %v", err), http.StatusBadRequest)
		return
	}
	scanRequestsTotal.WithLabelValues("image", "success").Inc()
	scanProcessingDuration.WithLabelValues("image").Observe(time.Since(start).Seconds())
	barcodeSymbolsDecoded.Observe(float64(len(res.Barcode.Symbols)))

	format := r.FormValue("format")
	if format == "" {
		format = r.URL.Query().Get("format")
	}
	if format == formatText {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		out, err := pipeline.ToSummary(res)
		if err != nil {
			http.Error(w, fmt.Sprintf("formatting failed: %v", err), http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(out))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding scan response: %v\n", err)
	}
}

// scanBatchHandler processes multi-image scan requests. Failures are isolated
// per file; the response carries an error entry in place of each failed item.
func (s *Server) scanBatchHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB*1024*1024)
	if err := r.ParseMultipartForm(s.maxUploadMB * 1024 * 1024); err != nil {
		s.writeParseError(w, err)
		return
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		s.writeErrorResponse(w, "No image files provided", http.StatusBadRequest)
		return
	}

	items := make([]pipeline.BatchItem, 0, len(files))
	for _, header := range files {
		data, err := readMultipartFile(header)
		if err != nil {
			s.writeErrorResponse(w, fmt.Sprintf("Failed to read %s", header.Filename), http.StatusBadRequest)
			return
		}
		uploadSizeBytes.Observe(float64(len(data)))
		items = append(items, pipeline.BatchItem{Filename: header.Filename, Data: data})
	}

	start := time.Now()
	results, err := s.pipeline.ProcessBatch(r.Context(), items,
		pipeline.ParallelConfig{MaxWorkers: s.batchWorkers})
	if err != nil {
		scanRequestsTotal.WithLabelValues("batch", "error").Inc()
		s.writeErrorResponse(w, fmt.Sprintf("Batch scan failed: %v", err), http.StatusInternalServerError)
		return
	}
	scanRequestsTotal.WithLabelValues("batch", "success").Inc()
	scanProcessingDuration.WithLabelValues("batch").Observe(time.Since(start).Seconds())

	out, err := pipeline.ToJSONBatch(results)
	if err != nil {
		s.writeErrorResponse(w, "Failed to encode batch results", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(out))
}

// DebugDecoderResponse reports decoder state and what an image looks like to
// the decode search.
type DebugDecoderResponse struct {
	BarcodeAvailable     bool                 `json:"barcode_available"`
	RecognitionAvailable bool                 `json:"recognition_available"`
	Image                *utils.ImageMetadata `json:"image,omitempty"`
	Detected             bool                 `json:"detected"`
	Symbols              []pipeline.Symbol    `json:"symbols,omitempty"`
}

// debugDecoderHandler reports channel availability; given an image upload it
// also runs the decode search and reports what was found.
func (s *Server) debugDecoderHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := DebugDecoderResponse{
		BarcodeAvailable:     s.pipeline.BarcodeAvailable(),
		RecognitionAvailable: s.pipeline.RecognitionAvailable(),
	}

	if r.Method == http.MethodPost {
		data, _, ok := s.readUpload(w, r, "image")
		if !ok {
			return
		}
		res, err := s.pipeline.ProcessImage(r.Context(), data)
		if err != nil {
			s.writeErrorResponse(w, fmt.Sprintf("Scan failed: %v", err), http.StatusBadRequest)
			return
		}
		response.Image = &res.Image
		response.Detected = res.Barcode.Detected
		response.Symbols = res.Barcode.Symbols
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding debug response: %v\n", err)
	}
}

// readUpload reads one multipart file field, enforcing the upload limit.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request, field string) ([]byte, string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB*1024*1024)
	if err := r.ParseMultipartForm(s.maxUploadMB * 1024 * 1024); err != nil {
		s.writeParseError(w, err)
		return nil, "", false
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		s.writeErrorResponse(w, "No image file provided", http.StatusBadRequest)
		return nil, "", false
	}
	defer func() { _ = file.Close() }()

	if header.Size > s.maxUploadMB*1024*1024 {
		s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		return nil, "", false
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeErrorResponse(w, "Failed to read image data", http.StatusInternalServerError)
		return nil, "", false
	}
	return data, header.Filename, true
}

func readMultipartFile(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()
	return io.ReadAll(file)
}

// writeParseError distinguishes body-too-large from generic parse errors.
func (s *Server) writeParseError(w http.ResponseWriter, err error) {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "body too large") || strings.Contains(msg, "request body too large") {
		s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		return
	}
	s.writeErrorResponse(w, "Failed to parse form data", http.StatusBadRequest)
}

// writeErrorResponse writes a JSON error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(ErrorResponse{Success: false, Error: message}); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing error response: %v\n", err)
	}
}
