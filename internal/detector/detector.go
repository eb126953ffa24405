// Package detector locates the dominant document quadrilateral in a
// photograph. It downscales the input to a working resolution, derives a
// binary edge map and simplifies the largest closed boundary to a 4-point
// convex polygon.
package detector

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/docwarp/docwarp/internal/utils"
)

// ErrNoDocument is returned when no contour qualifies as a document boundary.
var ErrNoDocument = errors.New("no document boundary found")

// Detection is the result of boundary detection: an unordered quadrilateral
// in working-resolution coordinates plus the scale factor back to the
// original image.
type Detection struct {
	// Quad holds 4 convex, unordered corner points in working coordinates.
	Quad []utils.Point
	// Scale maps working coordinates to original-image coordinates.
	Scale float64
	// WorkingWidth and WorkingHeight are the detection-resolution dimensions.
	WorkingWidth  int
	WorkingHeight int
}

// Detector finds document boundaries. It is stateless apart from its
// configuration and safe for concurrent use.
type Detector struct {
	cfg Config
}

// New creates a Detector with the given configuration.
func New(cfg Config) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("detector config: %w", err)
	}
	return &Detector{cfg: cfg}, nil
}

// Config returns the detector configuration.
func (d *Detector) Config() Config { return d.cfg }

// Detect runs preprocessing, edge detection and quadrilateral extraction.
// When no qualifying quadrilateral exists it returns ErrNoDocument, unless
// the full-image fallback policy is enabled.
func (d *Detector) Detect(img image.Image) (*Detection, error) {
	if img == nil {
		return nil, errors.New("input image is nil")
	}

	working := d.preprocess(img)
	slog.Debug("preprocessed image",
		"working_width", working.Width, "working_height", working.Height, "scale", working.Scale)

	mask := d.edgeMap(working.Gray, working.Width, working.Height)

	quad, ok := d.findQuad(mask, working.Width, working.Height)
	if !ok {
		if !d.cfg.FallbackFullImage {
			return nil, ErrNoDocument
		}
		slog.Debug("no boundary found, falling back to full image")
		quad = fullImageQuad(working.Width, working.Height)
	}

	return &Detection{
		Quad:          quad,
		Scale:         working.Scale,
		WorkingWidth:  working.Width,
		WorkingHeight: working.Height,
	}, nil
}
