package detector

import (
	"errors"
	"fmt"
)

// Config holds boundary detection settings. All values are read-only after
// construction; a Detector never mutates its config.
type Config struct {
	// WorkingWidth caps the detection resolution. Images wider than this are
	// downscaled before detection and all detected coordinates are scaled
	// back up.
	WorkingWidth int

	// BlurSigma is the Gaussian blur applied to the luminance image before
	// edge detection.
	BlurSigma float64

	// CannyLow and CannyHigh are the hysteresis thresholds on a 0-255
	// gradient magnitude scale.
	CannyLow  float64
	CannyHigh float64

	// CloseKernel and CloseIterations configure the morphological closing
	// that bridges small gaps in the document boundary.
	CloseKernel     int
	CloseIterations int

	// MaxCandidates bounds how many of the largest contours are considered
	// for polygon simplification.
	MaxCandidates int

	// EpsilonSchedule is the monotonically increasing sequence of
	// Douglas-Peucker tolerances, expressed as fractions of a contour's
	// perimeter, tried until a 4-vertex convex polygon emerges.
	EpsilonSchedule []float64

	// MinAreaRatio and MaxAreaRatio gate accepted quadrilaterals by their
	// area relative to the working image.
	MinAreaRatio float64
	MaxAreaRatio float64

	// FallbackFullImage treats the whole image as the document when no
	// qualifying quadrilateral is found, instead of failing.
	FallbackFullImage bool
}

// DefaultConfig returns detection defaults. The thresholds and kernel sizes
// follow the values that work well for photographed paper documents on
// contrasting backgrounds.
func DefaultConfig() Config {
	return Config{
		WorkingWidth:      800,
		BlurSigma:         2.0,
		CannyLow:          50,
		CannyHigh:         150,
		CloseKernel:       5,
		CloseIterations:   2,
		MaxCandidates:     5,
		EpsilonSchedule:   []float64{0.02, 0.03, 0.05, 0.08},
		MinAreaRatio:      0.20,
		MaxAreaRatio:      0.95,
		FallbackFullImage: false,
	}
}

// Validate checks the configuration for internally consistent values.
func (c Config) Validate() error {
	if c.WorkingWidth < 32 {
		return fmt.Errorf("working width must be >= 32, got %d", c.WorkingWidth)
	}
	if c.BlurSigma < 0 {
		return errors.New("blur sigma must be non-negative")
	}
	if c.CannyLow <= 0 || c.CannyHigh <= 0 || c.CannyLow >= c.CannyHigh {
		return fmt.Errorf("canny thresholds must satisfy 0 < low < high, got %v/%v", c.CannyLow, c.CannyHigh)
	}
	if c.CloseKernel < 0 || c.CloseIterations < 0 {
		return errors.New("closing kernel and iterations must be non-negative")
	}
	if c.MaxCandidates < 1 {
		return errors.New("max candidates must be >= 1")
	}
	if len(c.EpsilonSchedule) == 0 {
		return errors.New("epsilon schedule must not be empty")
	}
	prev := 0.0
	for i, eps := range c.EpsilonSchedule {
		if eps <= prev {
			return fmt.Errorf("epsilon schedule must be strictly increasing and positive, got %v at index %d", eps, i)
		}
		prev = eps
	}
	if c.MinAreaRatio <= 0 || c.MinAreaRatio >= 1 {
		return fmt.Errorf("min area ratio must be in (0,1), got %v", c.MinAreaRatio)
	}
	if c.MaxAreaRatio <= c.MinAreaRatio || c.MaxAreaRatio > 1 {
		return fmt.Errorf("max area ratio must be in (min,1], got %v", c.MaxAreaRatio)
	}
	return nil
}
