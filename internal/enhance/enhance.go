package enhance

import (
	"fmt"
	"image"
	"image/color"
)

// Params holds the tunable constants of the enhancement modes.
type Params struct {
	// AdaptiveBlockSize is the Gaussian neighborhood side length for the
	// adaptive mode, odd and >= 3.
	AdaptiveBlockSize int
	// AdaptiveBias is subtracted from the local weighted mean.
	AdaptiveBias float64
	// CLAHEClipLimit bounds per-bin histogram height relative to a flat
	// distribution.
	CLAHEClipLimit float64
	// CLAHETiles is the CLAHE tile grid side length.
	CLAHETiles int
}

// DefaultParams returns the stock enhancement constants.
func DefaultParams() Params {
	return Params{
		AdaptiveBlockSize: DefaultAdaptiveBlockSize,
		AdaptiveBias:      DefaultAdaptiveBias,
		CLAHEClipLimit:    DefaultCLAHEClipLimit,
		CLAHETiles:        DefaultCLAHETiles,
	}
}

// Validate checks the parameters for usable values.
func (p Params) Validate() error {
	if p.AdaptiveBlockSize < 3 || p.AdaptiveBlockSize%2 == 0 {
		return fmt.Errorf("adaptive block size must be odd and >= 3, got %d", p.AdaptiveBlockSize)
	}
	if p.CLAHEClipLimit <= 0 {
		return fmt.Errorf("clahe clip limit must be positive, got %v", p.CLAHEClipLimit)
	}
	if p.CLAHETiles < 1 {
		return fmt.Errorf("clahe tiles must be >= 1, got %d", p.CLAHETiles)
	}
	return nil
}

// Apply runs the selected enhancement mode on the rectified image.
func Apply(img image.Image, mode Mode, params Params) (image.Image, error) {
	if img == nil {
		return nil, fmt.Errorf("enhance %s: image is nil", mode)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	switch mode {
	case ModeAdaptive:
		return AdaptiveThreshold(toGray(img), params.AdaptiveBlockSize, params.AdaptiveBias), nil
	case ModeCLAHE:
		return CLAHE(toGray(img), params.CLAHEClipLimit, params.CLAHETiles), nil
	case ModeSharpen:
		return Sharpen(img), nil
	case ModeOriginal:
		return img, nil
	}
	return nil, fmt.Errorf("unknown enhancement mode %q", mode)
}

// toGray converts to 8-bit grayscale using the standard luma weights.
func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			gray.SetGray(x-b.Min.X, y-b.Min.Y, c)
		}
	}
	return gray
}
