package detector

import (
	"image"
	"math"

	"github.com/docwarp/docwarp/internal/mempool"
)

// edgeMap derives a binary edge map from the blurred luminance image:
// Sobel gradients, non-maximum suppression, double-threshold hysteresis,
// then a morphological closing to bridge small boundary gaps. The returned
// mask is row-major with length w*h. A mask with no foreground pixels is a
// valid result.
func (d *Detector) edgeMap(gray *image.Gray, w, h int) []bool {
	mag := mempool.GetFloat32(w * h)
	defer mempool.PutFloat32(mag)
	dir := mempool.GetFloat32(w * h)
	defer mempool.PutFloat32(dir)

	sobel(gray, w, h, mag, dir)

	thin := mempool.GetFloat32(w * h)
	defer mempool.PutFloat32(thin)
	suppressNonMaxima(mag, dir, w, h, thin)

	edges := hysteresis(thin, w, h, float32(d.cfg.CannyLow), float32(d.cfg.CannyHigh))

	for range d.cfg.CloseIterations {
		edges = dilateMask(edges, w, h, d.cfg.CloseKernel)
		edges = erodeMask(edges, w, h, d.cfg.CloseKernel)
	}
	return edges
}

// sobel fills mag with raw gradient magnitudes and dir with gradient
// directions in radians. The hysteresis thresholds are calibrated against
// these unnormalized magnitudes.
func sobel(gray *image.Gray, w, h int, mag, dir []float32) {
	at := func(x, y int) float64 {
		if x < 0 {
			x = 0
		}
		if x >= w {
			x = w - 1
		}
		if y < 0 {
			y = 0
		}
		if y >= h {
			y = h - 1
		}
		return float64(gray.GrayAt(x, y).Y)
	}
	for y := range h {
		for x := range w {
			gx := -at(x-1, y-1) + at(x+1, y-1) +
				-2*at(x-1, y) + 2*at(x+1, y) +
				-at(x-1, y+1) + at(x+1, y+1)
			gy := -at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1) +
				at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)
			i := y*w + x
			mag[i] = float32(math.Hypot(gx, gy))
			dir[i] = float32(math.Atan2(gy, gx))
		}
	}
}

// suppressNonMaxima keeps only pixels that are local maxima along their
// gradient direction, thinning edges to single-pixel width.
func suppressNonMaxima(mag, dir []float32, w, h int, out []float32) {
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			angle := float64(dir[i])
			m := mag[i]

			var n1, n2 float32
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1, n2 = mag[i-1], mag[i+1]
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1, n2 = mag[i-w+1], mag[i+w-1]
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1, n2 = mag[i-w], mag[i+w]
			default:
				n1, n2 = mag[i-w-1], mag[i+w+1]
			}

			if m >= n1 && m >= n2 {
				out[i] = m
			}
		}
	}
}

// hysteresis applies double thresholding: pixels above high are strong edges,
// pixels between low and high are kept only when connected (8-neighborhood)
// to a strong edge.
func hysteresis(mag []float32, w, h int, low, high float32) []bool {
	edges := make([]bool, w*h)
	weak := mempool.GetBool(w * h)
	defer mempool.PutBool(weak)

	queue := make([]int, 0, 256)
	for i, m := range mag {
		switch {
		case m >= high:
			edges[i] = true
			queue = append(queue, i)
		case m >= low:
			weak[i] = true
		}
	}

	for len(queue) > 0 {
		i := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		x, y := i%w, i/w
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				ni := ny*w + nx
				if weak[ni] && !edges[ni] {
					edges[ni] = true
					queue = append(queue, ni)
				}
			}
		}
	}
	return edges
}

// dilateMask expands foreground regions with a square kernel.
func dilateMask(mask []bool, w, h, kernel int) []bool {
	if kernel <= 1 {
		return mask
	}
	half := kernel / 2
	out := make([]bool, len(mask))
	for y := range h {
		for x := range w {
			if !mask[y*w+x] {
				continue
			}
			for ky := -half; ky <= half; ky++ {
				for kx := -half; kx <= half; kx++ {
					nx, ny := x+kx, y+ky
					if nx >= 0 && nx < w && ny >= 0 && ny < h {
						out[ny*w+nx] = true
					}
				}
			}
		}
	}
	return out
}

// erodeMask shrinks foreground regions with a square kernel.
func erodeMask(mask []bool, w, h, kernel int) []bool {
	if kernel <= 1 {
		return mask
	}
	half := kernel / 2
	out := make([]bool, len(mask))
	for y := range h {
		for x := range w {
			keep := true
			for ky := -half; ky <= half && keep; ky++ {
				for kx := -half; kx <= half && keep; kx++ {
					nx, ny := x+kx, y+ky
					if nx < 0 || nx >= w || ny < 0 || ny >= h || !mask[ny*w+nx] {
						keep = false
					}
				}
			}
			out[y*w+x] = keep
		}
	}
	return out
}
