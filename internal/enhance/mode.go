// Package enhance post-processes a rectified document image. Modes cover
// binarization for text documents, local contrast equalization, edge
// sharpening and a pass-through.
package enhance

import "fmt"

// Mode selects the enhancement applied to a rectified image.
type Mode string

const (
	// ModeAdaptive applies Gaussian-weighted adaptive thresholding,
	// producing a strictly binary image.
	ModeAdaptive Mode = "adaptive"
	// ModeCLAHE applies contrast-limited adaptive histogram equalization.
	ModeCLAHE Mode = "clahe"
	// ModeSharpen convolves with a sharpening kernel, preserving color.
	ModeSharpen Mode = "sharpen"
	// ModeOriginal returns the rectified image unchanged.
	ModeOriginal Mode = "original"
)

// DefaultMode is used when no mode is requested.
const DefaultMode = ModeAdaptive

// Modes lists all supported enhancement modes.
func Modes() []Mode {
	return []Mode{ModeAdaptive, ModeCLAHE, ModeSharpen, ModeOriginal}
}

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAdaptive, ModeCLAHE, ModeSharpen, ModeOriginal:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown enhancement mode %q", s)
}

// String implements fmt.Stringer.
func (m Mode) String() string { return string(m) }
