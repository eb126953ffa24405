package enhance

import (
	"image"

	"github.com/anthonynsimon/bild/convolution"
)

// Sharpen convolves the image with a 3x3 sharpening kernel. Channel values
// are clamped to [0, 255]; color is preserved.
func Sharpen(img image.Image) *image.RGBA {
	k := convolution.Kernel{
		Matrix: []float64{
			-1, -1, -1,
			-1, 9, -1,
			-1, -1, -1,
		},
		Width:  3,
		Height: 3,
	}
	return convolution.Convolve(img, &k, &convolution.Options{Bias: 0, Wrap: false, KeepAlpha: true})
}
