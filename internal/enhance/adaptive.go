package enhance

import (
	"image"
	"math"
)

const (
	// DefaultAdaptiveBlockSize is the Gaussian neighborhood side length.
	DefaultAdaptiveBlockSize = 11
	// DefaultAdaptiveBias is subtracted from the local weighted mean.
	DefaultAdaptiveBias = 2.0
)

// AdaptiveThreshold binarizes a grayscale image against a Gaussian-weighted
// local mean. A pixel becomes white when it exceeds the weighted mean of its
// blockSize neighborhood minus bias, black otherwise. The output contains
// only the values 0 and 255.
func AdaptiveThreshold(gray *image.Gray, blockSize int, bias float64) *image.Gray {
	if blockSize < 3 {
		blockSize = DefaultAdaptiveBlockSize
	}
	if blockSize%2 == 0 {
		blockSize++
	}

	w := gray.Rect.Dx()
	h := gray.Rect.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return out
	}

	kernel := gaussianKernel(blockSize)
	radius := blockSize / 2

	// Separable Gaussian blur with replicated borders gives the local
	// weighted mean at every pixel.
	tmp := make([]float64, w*h)
	mean := make([]float64, w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for k := -radius; k <= radius; k++ {
				sx := clampInt(x+k, 0, w-1)
				sum += kernel[k+radius] * float64(gray.GrayAt(sx, y).Y)
			}
			tmp[y*w+x] = sum
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for k := -radius; k <= radius; k++ {
				sy := clampInt(y+k, 0, h-1)
				sum += kernel[k+radius] * tmp[sy*w+x]
			}
			mean[y*w+x] = sum
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := float64(gray.GrayAt(x, y).Y)
			if v > mean[y*w+x]-bias {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out
}

// gaussianKernel builds a normalized 1D kernel. Sigma follows the usual
// size-derived heuristic 0.3*((size-1)*0.5 - 1) + 0.8.
func gaussianKernel(size int) []float64 {
	sigma := 0.3*(float64(size-1)*0.5-1) + 0.8
	radius := size / 2

	kernel := make([]float64, size)
	var sum float64
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+radius] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
