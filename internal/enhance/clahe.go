package enhance

import (
	"image"
	"math"
)

const (
	// DefaultCLAHEClipLimit bounds the per-bin histogram height, relative
	// to a uniform distribution over the tile.
	DefaultCLAHEClipLimit = 2.0
	// DefaultCLAHETiles is the tile grid side length.
	DefaultCLAHETiles = 8
)

// CLAHE performs contrast-limited adaptive histogram equalization on a
// grayscale image. The image is divided into a tiles x tiles grid, each tile
// gets a clipped-histogram equalization mapping, and every pixel is
// bilinearly interpolated between the mappings of its four nearest tiles.
func CLAHE(gray *image.Gray, clipLimit float64, tiles int) *image.Gray {
	if tiles < 1 {
		tiles = DefaultCLAHETiles
	}
	if clipLimit <= 0 {
		clipLimit = DefaultCLAHEClipLimit
	}

	w := gray.Rect.Dx()
	h := gray.Rect.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return out
	}
	if tiles > w {
		tiles = w
	}
	if tiles > h {
		tiles = h
	}

	tileW := (w + tiles - 1) / tiles
	tileH := (h + tiles - 1) / tiles

	luts := buildTileLUTs(gray, w, h, tiles, tileW, tileH, clipLimit)

	// Bilinear interpolation between the four surrounding tile mappings,
	// clamped at the grid border.
	for y := 0; y < h; y++ {
		ty := (float64(y)+0.5)/float64(tileH) - 0.5
		ty0 := int(math.Floor(ty))
		fy := ty - float64(ty0)
		ty1 := ty0 + 1
		if ty0 < 0 {
			ty0, ty1, fy = 0, 0, 0
		}
		if ty1 > tiles-1 {
			ty1 = tiles - 1
			if ty0 > tiles-1 {
				ty0, fy = tiles-1, 0
			}
		}

		for x := 0; x < w; x++ {
			tx := (float64(x)+0.5)/float64(tileW) - 0.5
			tx0 := int(math.Floor(tx))
			fx := tx - float64(tx0)
			tx1 := tx0 + 1
			if tx0 < 0 {
				tx0, tx1, fx = 0, 0, 0
			}
			if tx1 > tiles-1 {
				tx1 = tiles - 1
				if tx0 > tiles-1 {
					tx0, fx = tiles-1, 0
				}
			}

			v := int(gray.GrayAt(x, y).Y)
			top := float64(luts[ty0*tiles+tx0][v])*(1-fx) + float64(luts[ty0*tiles+tx1][v])*fx
			bot := float64(luts[ty1*tiles+tx0][v])*(1-fx) + float64(luts[ty1*tiles+tx1][v])*fx
			out.Pix[y*out.Stride+x] = uint8(math.Round(top*(1-fy) + bot*fy))
		}
	}
	return out
}

// buildTileLUTs computes one equalization mapping per tile from its clipped
// histogram. Clipped excess is redistributed uniformly across all bins.
func buildTileLUTs(gray *image.Gray, w, h, tiles, tileW, tileH int, clipLimit float64) [][256]uint8 {
	luts := make([][256]uint8, tiles*tiles)

	for ty := 0; ty < tiles; ty++ {
		for tx := 0; tx < tiles; tx++ {
			x0 := tx * tileW
			y0 := ty * tileH
			x1 := minInt(x0+tileW, w)
			y1 := minInt(y0+tileH, h)
			area := (x1 - x0) * (y1 - y0)

			var hist [256]int
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					hist[gray.GrayAt(x, y).Y]++
				}
			}

			clip := int(clipLimit * float64(area) / 256)
			if clip < 1 {
				clip = 1
			}
			excess := 0
			for i := range hist {
				if hist[i] > clip {
					excess += hist[i] - clip
					hist[i] = clip
				}
			}
			share := excess / 256
			rem := excess % 256
			for i := range hist {
				hist[i] += share
				if i < rem {
					hist[i]++
				}
			}

			scale := 255.0 / float64(area)
			cum := 0
			for i := range hist {
				cum += hist[i]
				luts[ty*tiles+tx][i] = uint8(math.Round(float64(cum) * scale))
			}
		}
	}
	return luts
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
