// Package scan wires detection, rectification and enhancement into the
// document scanning pipeline and owns its error taxonomy.
package scan

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/docwarp/docwarp/internal/detector"
	"github.com/docwarp/docwarp/internal/enhance"
	"github.com/docwarp/docwarp/internal/rectify"
	"github.com/docwarp/docwarp/internal/utils"
)

// Config holds configuration for the scan pipeline and its components.
type Config struct {
	Detector detector.Config
	Warp     rectify.WarpOptions
	Enhance  enhance.Params
	// DefaultMode is applied when Scan is called with an empty mode.
	DefaultMode enhance.Mode
}

// DefaultConfig returns a pipeline config with component defaults.
func DefaultConfig() Config {
	return Config{
		Detector:    detector.DefaultConfig(),
		Warp:        rectify.DefaultWarpOptions(),
		Enhance:     enhance.DefaultParams(),
		DefaultMode: enhance.DefaultMode,
	}
}

// Builder constructs a Pipeline with fluent configuration.
type Builder struct {
	cfg Config
}

// NewBuilder creates a pipeline builder with defaults.
func NewBuilder() *Builder { return &Builder{cfg: DefaultConfig()} }

// WithDetectorConfig replaces the full detector configuration.
func (b *Builder) WithDetectorConfig(cfg detector.Config) *Builder {
	b.cfg.Detector = cfg
	return b
}

// WithWorkingWidth sets the detection working resolution (if >0).
func (b *Builder) WithWorkingWidth(w int) *Builder {
	if w > 0 {
		b.cfg.Detector.WorkingWidth = w
	}
	return b
}

// WithCannyThresholds sets the edge hysteresis thresholds.
func (b *Builder) WithCannyThresholds(low, high float64) *Builder {
	if low > 0 {
		b.cfg.Detector.CannyLow = low
	}
	if high > 0 {
		b.cfg.Detector.CannyHigh = high
	}
	return b
}

// WithMinAreaRatio sets the minimum quad area relative to the working frame.
func (b *Builder) WithMinAreaRatio(r float64) *Builder {
	if r > 0 {
		b.cfg.Detector.MinAreaRatio = r
	}
	return b
}

// WithFullImageFallback makes detection misses rectify the whole frame
// instead of failing.
func (b *Builder) WithFullImageFallback(enabled bool) *Builder {
	b.cfg.Detector.FallbackFullImage = enabled
	return b
}

// WithDefaultMode sets the enhancement mode used when none is requested.
func (b *Builder) WithDefaultMode(m enhance.Mode) *Builder {
	if m != "" {
		b.cfg.DefaultMode = m
	}
	return b
}

// WithParallelWarp toggles row-parallel perspective warping.
func (b *Builder) WithParallelWarp(enabled bool) *Builder {
	b.cfg.Warp.Parallel = enabled
	return b
}

// WithWarpOptions replaces the full warp configuration.
func (b *Builder) WithWarpOptions(opts rectify.WarpOptions) *Builder {
	b.cfg.Warp = opts
	return b
}

// WithEnhanceParams replaces the enhancement tuning parameters.
func (b *Builder) WithEnhanceParams(p enhance.Params) *Builder {
	b.cfg.Enhance = p
	return b
}

// Config returns a copy of the current config.
func (b *Builder) Config() Config { return b.cfg }

// Build initializes the scan pipeline components.
func (b *Builder) Build() (*Pipeline, error) {
	det, err := detector.New(b.cfg.Detector)
	if err != nil {
		return nil, fmt.Errorf("init detector: %w", err)
	}
	if _, err := enhance.ParseMode(string(b.cfg.DefaultMode)); err != nil {
		return nil, fmt.Errorf("init pipeline: %w", err)
	}
	if err := b.cfg.Enhance.Validate(); err != nil {
		return nil, fmt.Errorf("init pipeline: %w", err)
	}
	return &Pipeline{cfg: b.cfg, detector: det}, nil
}

// Pipeline runs detection, rectification and enhancement on input images.
// It is safe for concurrent use.
type Pipeline struct {
	cfg      Config
	detector *detector.Detector
}

// Timings records per-stage durations of a scan.
type Timings struct {
	Detect  time.Duration
	Rectify time.Duration
	Enhance time.Duration
	Total   time.Duration
}

// Result is the outcome of a successful scan.
type Result struct {
	// Image is the rectified, enhanced document.
	Image image.Image
	// Mode is the enhancement mode that was applied.
	Mode enhance.Mode
	// Corners are the detected document corners in original-image
	// coordinates, ordered TL, TR, BR, BL.
	Corners []utils.Point
	// InputWidth and InputHeight are the original image dimensions.
	InputWidth  int
	InputHeight int
	// OutputWidth and OutputHeight are the rectified image dimensions.
	OutputWidth  int
	OutputHeight int
	Timings      Timings
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// Scan detects the document in img, warps it to an axis-aligned rectangle
// and applies the enhancement mode. An empty mode selects the configured
// default. Errors are typed: DetectionError when no boundary is found,
// DegenerateQuadError for collapsed corners, EnhancementError for the
// enhancement stage.
func (p *Pipeline) Scan(img image.Image, mode enhance.Mode) (*Result, error) {
	start := time.Now()

	if mode == "" {
		mode = p.cfg.DefaultMode
	}
	parsed, err := enhance.ParseMode(string(mode))
	if err != nil {
		return nil, &EnhancementError{Mode: string(mode), Err: err}
	}

	detectStart := time.Now()
	det, err := p.detector.Detect(img)
	if err != nil {
		return nil, &DetectionError{Err: err}
	}
	detectDur := time.Since(detectStart)

	rectifyStart := time.Now()
	corners, err := rectify.OrderCorners(det.Quad)
	if err != nil {
		return nil, &DegenerateQuadError{Err: err}
	}
	// Corner ordering happens at working resolution; the warp samples the
	// full-resolution original.
	corners = corners.Scale(det.Scale)

	warped, err := rectify.Warp(img, corners, p.cfg.Warp)
	if err != nil {
		return nil, &DegenerateQuadError{Err: err}
	}
	rectifyDur := time.Since(rectifyStart)

	enhanceStart := time.Now()
	enhanced, err := enhance.Apply(warped, parsed, p.cfg.Enhance)
	if err != nil {
		return nil, &EnhancementError{Mode: string(parsed), Err: err}
	}
	enhanceDur := time.Since(enhanceStart)

	bounds := img.Bounds()
	out := enhanced.Bounds()
	result := &Result{
		Image:        enhanced,
		Mode:         parsed,
		Corners:      corners.Points(),
		InputWidth:   bounds.Dx(),
		InputHeight:  bounds.Dy(),
		OutputWidth:  out.Dx(),
		OutputHeight: out.Dy(),
		Timings: Timings{
			Detect:  detectDur,
			Rectify: rectifyDur,
			Enhance: enhanceDur,
			Total:   time.Since(start),
		},
	}

	slog.Debug("scan complete",
		"mode", parsed,
		"input", fmt.Sprintf("%dx%d", result.InputWidth, result.InputHeight),
		"output", fmt.Sprintf("%dx%d", result.OutputWidth, result.OutputHeight),
		"total_ms", result.Timings.Total.Milliseconds())

	return result, nil
}

// ScanBytes decodes raw image bytes and scans them. Decode failures are
// reported as LoadError.
func (p *Pipeline) ScanBytes(data []byte, mode enhance.Mode) (*Result, error) {
	img, _, err := utils.DecodeImage(data)
	if err != nil {
		return nil, &LoadError{Err: err}
	}
	return p.Scan(img, mode)
}
