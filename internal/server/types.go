// Package server exposes the document scanning pipeline over HTTP.
package server

import (
	"image"
	"net/http"

	"github.com/docwarp/docwarp/internal/enhance"
	"github.com/docwarp/docwarp/internal/scan"
)

// scannerInterface defines the methods the server needs from a pipeline.
type scannerInterface interface {
	Scan(img image.Image, mode enhance.Mode) (*scan.Result, error)
	ScanBytes(data []byte, mode enhance.Mode) (*scan.Result, error)
}

// Server holds the HTTP server state and dependencies.
type Server struct {
	pipeline    scannerInterface
	corsOrigin  string
	maxUploadMB int64
	timeoutSec  int
	defaultMode enhance.Mode
}

// Config holds server configuration.
type Config struct {
	Host           string
	Port           int
	CORSOrigin     string
	MaxUploadMB    int64
	TimeoutSec     int
	PipelineConfig scan.Config
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

// Dimensions describes image width and height in pixels.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ScanResponse is the JSON body for the scan endpoint.
type ScanResponse struct {
	Success          bool        `json:"success"`
	Message          string      `json:"message,omitempty"`
	ErrorType        string      `json:"error_type,omitempty"`
	Tips             []string    `json:"tips,omitempty"`
	EnhanceMode      string      `json:"enhance_mode,omitempty"`
	Original         *Dimensions `json:"original,omitempty"`
	Scanned          *Dimensions `json:"scanned,omitempty"`
	ProcessingTimeMs int64       `json:"processing_time_ms,omitempty"`
	ImageBase64      string      `json:"image_base64,omitempty"`
}

// ModesResponse lists the supported enhancement modes.
type ModesResponse struct {
	Modes   []string `json:"modes"`
	Default string   `json:"default"`
}

// NewServer creates a scan server instance, building the pipeline from the
// provided config.
func NewServer(config Config) (*Server, error) {
	pl, err := scan.NewBuilder().
		WithDetectorConfig(config.PipelineConfig.Detector).
		WithEnhanceParams(config.PipelineConfig.Enhance).
		WithWarpOptions(config.PipelineConfig.Warp).
		WithDefaultMode(config.PipelineConfig.DefaultMode).
		Build()
	if err != nil {
		return nil, err
	}

	return &Server{
		pipeline:    pl,
		corsOrigin:  config.CORSOrigin,
		maxUploadMB: config.MaxUploadMB,
		timeoutSec:  config.TimeoutSec,
		defaultMode: pl.Config().DefaultMode,
	}, nil
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/modes", s.corsMiddleware(s.modesHandler))
	mux.HandleFunc("/scan", s.corsMiddleware(s.scanHandler))
}
