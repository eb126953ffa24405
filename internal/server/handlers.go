package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/docwarp/docwarp/internal/enhance"
	"github.com/docwarp/docwarp/internal/scan"
	"github.com/docwarp/docwarp/internal/utils"
	"github.com/docwarp/docwarp/internal/version"
)

// detectionTips are remediation hints returned when no document is found.
var detectionTips = []string{
	"Ensure the document has clear, visible edges",
	"Try better lighting conditions",
	"Make sure the document is the largest object in the image",
	"Avoid heavy shadows or reflections",
	"Place the document on a contrasting background",
}

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ver, _, _ := version.Info()
	response := HealthResponse{
		Status:  "healthy",
		Version: ver,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding health response: %v\n", err)
	}
}

// modesHandler returns the supported enhancement modes.
func (s *Server) modesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	modes := enhance.Modes()
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = string(m)
	}

	response := ModesResponse{Modes: names, Default: string(s.defaultMode)}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding modes response: %v\n", err)
	}
}

// scanHandler processes document scan requests.
func (s *Server) scanHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB*1024*1024)

	if err := r.ParseMultipartForm(s.maxUploadMB * 1024 * 1024); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "too large") {
			s.writeErrorResponse(w, "File too large", "file_too_large", http.StatusRequestEntityTooLarge)
		} else {
			s.writeErrorResponse(w, "Failed to parse form data", "bad_request", http.StatusBadRequest)
		}
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeErrorResponse(w, "No file provided", "no_file", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > s.maxUploadMB*1024*1024 {
		s.writeErrorResponse(w, "File too large", "file_too_large", http.StatusRequestEntityTooLarge)
		return
	}

	imageData, err := io.ReadAll(file)
	if err != nil {
		s.writeErrorResponse(w, "Failed to read image data", "read_error", http.StatusInternalServerError)
		return
	}
	uploadSizeBytes.Observe(float64(len(imageData)))

	// Unknown modes fall back to the default rather than failing the request.
	mode := s.defaultMode
	if requested := r.FormValue("enhance_mode"); requested != "" {
		if parsed, err := enhance.ParseMode(requested); err == nil {
			mode = parsed
		}
	}

	start := time.Now()
	res, err := s.pipeline.ScanBytes(imageData, mode)
	scanProcessingDuration.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())
	if err != nil {
		scanRequestsTotal.WithLabelValues(string(mode), scanErrorStatus(err)).Inc()
		s.writeScanError(w, err)
		return
	}
	scanRequestsTotal.WithLabelValues(string(res.Mode), "ok").Inc()

	format := r.FormValue("format")
	if format == "" {
		format = r.URL.Query().Get("format")
	}
	if format == "png" {
		var buf bytes.Buffer
		if err := utils.EncodeImage(&buf, res.Image, "png"); err != nil {
			s.writeErrorResponse(w, "Failed to encode result", "encode_error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(buf.Bytes())
		return
	}

	var buf bytes.Buffer
	if err := utils.EncodeImage(&buf, res.Image, "png"); err != nil {
		s.writeErrorResponse(w, "Failed to encode result", "encode_error", http.StatusInternalServerError)
		return
	}

	response := ScanResponse{
		Success:          true,
		Message:          "Document scanned successfully",
		EnhanceMode:      string(res.Mode),
		Original:         &Dimensions{Width: res.InputWidth, Height: res.InputHeight},
		Scanned:          &Dimensions{Width: res.OutputWidth, Height: res.OutputHeight},
		ProcessingTimeMs: time.Since(start).Milliseconds(),
		ImageBase64:      base64.StdEncoding.EncodeToString(buf.Bytes()),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding scan response: %v\n", err)
	}
}

// scanErrorStatus buckets pipeline errors for metrics labels.
func scanErrorStatus(err error) string {
	var detErr *scan.DetectionError
	var quadErr *scan.DegenerateQuadError
	if errors.As(err, &detErr) || errors.As(err, &quadErr) {
		return "detection_failed"
	}
	return "error"
}

// writeScanError maps pipeline errors to HTTP responses. Detection misses
// are not server errors: they come back as 200 with success=false and
// remediation tips.
func (s *Server) writeScanError(w http.ResponseWriter, err error) {
	var loadErr *scan.LoadError
	var detErr *scan.DetectionError
	var quadErr *scan.DegenerateQuadError
	var enhErr *scan.EnhancementError

	w.Header().Set("Content-Type", "application/json")

	var response ScanResponse
	switch {
	case errors.As(err, &loadErr):
		w.WriteHeader(http.StatusBadRequest)
		response = ScanResponse{Success: false, Message: "Invalid image format", ErrorType: "load_error"}
	case errors.As(err, &detErr):
		w.WriteHeader(http.StatusOK)
		response = ScanResponse{
			Success:   false,
			Message:   "Could not detect document edges",
			ErrorType: "detection_failed",
			Tips:      detectionTips,
		}
	case errors.As(err, &quadErr):
		w.WriteHeader(http.StatusOK)
		response = ScanResponse{
			Success:   false,
			Message:   "Detected boundary is degenerate",
			ErrorType: "detection_failed",
			Tips:      detectionTips,
		}
	case errors.As(err, &enhErr):
		w.WriteHeader(http.StatusBadRequest)
		response = ScanResponse{Success: false, Message: enhErr.Error(), ErrorType: "enhancement_error"}
	default:
		w.WriteHeader(http.StatusInternalServerError)
		response = ScanResponse{Success: false, Message: "Processing failed", ErrorType: "internal_error"}
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing error response: %v\n", err)
	}
}

// writeErrorResponse writes a JSON error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, message, errorType string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ScanResponse{
		Success:   false,
		Message:   message,
		ErrorType: errorType,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing error response: %v\n", err)
	}
}
