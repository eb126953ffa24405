package rectify

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"runtime"
	"sync"

	"github.com/docwarp/docwarp/internal/utils"
)

// WarpOptions controls the perspective warp.
type WarpOptions struct {
	// Border is the fill color for destination pixels that map outside the
	// source image. Defaults to white.
	Border color.RGBA
	// Parallel enables row-parallel sampling. The output is numerically
	// identical to the serial path.
	Parallel bool
	// Workers bounds the row-parallel worker count. Zero means one worker
	// per logical CPU.
	Workers int
}

// DefaultWarpOptions returns white-border, parallel warping with one worker
// per CPU.
func DefaultWarpOptions() WarpOptions {
	return WarpOptions{
		Border:   color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Parallel: true,
	}
}

// Warp extracts the region bounded by the corners into an axis-aligned
// rectangle. The output size comes from the corner edge lengths. Sampling
// is inverse-mapped: each destination pixel is projected back into the
// source and bilinearly interpolated.
func Warp(img image.Image, c Corners, opts WarpOptions) (*image.RGBA, error) {
	width, height := c.OutputSize()

	dstCorners := [4]utils.Point{
		{X: 0, Y: 0},
		{X: float64(width - 1), Y: 0},
		{X: float64(width - 1), Y: float64(height - 1)},
		{X: 0, Y: float64(height - 1)},
	}
	srcCorners := [4]utils.Point{c.TL, c.TR, c.BR, c.BL}

	// Destination-to-source transform, so every output pixel has exactly
	// one sample location.
	h, err := ComputeHomography(dstCorners, srcCorners)
	if err != nil {
		return nil, err
	}

	src := toRGBA(img)
	dst := image.NewRGBA(image.Rect(0, 0, width, height))

	if opts.Parallel && height > 1 {
		warpRowsParallel(src, dst, h, opts.Border, opts.Workers)
	} else {
		warpRows(src, dst, h, opts.Border, 0, height)
	}
	return dst, nil
}

func warpRowsParallel(src, dst *image.RGBA, h Homography, border color.RGBA, workers int) {
	height := dst.Rect.Dy()
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > height {
		workers = height
	}

	rowsPer := (height + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < height; start += rowsPer {
		end := start + rowsPer
		if end > height {
			end = height
		}
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			warpRows(src, dst, h, border, y0, y1)
		}(start, end)
	}
	wg.Wait()
}

func warpRows(src, dst *image.RGBA, h Homography, border color.RGBA, y0, y1 int) {
	width := dst.Rect.Dx()
	for y := y0; y < y1; y++ {
		for x := 0; x < width; x++ {
			p := h.Apply(utils.Point{X: float64(x), Y: float64(y)})
			dst.SetRGBA(x, y, bilinearSample(src, p.X, p.Y, border))
		}
	}
}

// bilinearSample interpolates the four pixels surrounding (x, y). Sample
// locations outside the source bounds return the border color.
func bilinearSample(img *image.RGBA, x, y float64, border color.RGBA) color.RGBA {
	b := img.Bounds()
	if x < float64(b.Min.X) || y < float64(b.Min.Y) ||
		x > float64(b.Max.X-1) || y > float64(b.Max.Y-1) {
		return border
	}

	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	x1 := x0 + 1
	y1 := y0 + 1
	if x1 > b.Max.X-1 {
		x1 = b.Max.X - 1
	}
	if y1 > b.Max.Y-1 {
		y1 = b.Max.Y - 1
	}

	fx := x - float64(x0)
	fy := y - float64(y0)

	c00 := img.RGBAAt(x0, y0)
	c10 := img.RGBAAt(x1, y0)
	c01 := img.RGBAAt(x0, y1)
	c11 := img.RGBAAt(x1, y1)

	return color.RGBA{
		R: lerp2(c00.R, c10.R, c01.R, c11.R, fx, fy),
		G: lerp2(c00.G, c10.G, c01.G, c11.G, fx, fy),
		B: lerp2(c00.B, c10.B, c01.B, c11.B, fx, fy),
		A: lerp2(c00.A, c10.A, c01.A, c11.A, fx, fy),
	}
}

func lerp2(c00, c10, c01, c11 uint8, fx, fy float64) uint8 {
	top := float64(c00)*(1-fx) + float64(c10)*fx
	bot := float64(c01)*(1-fx) + float64(c11)*fx
	v := top*(1-fy) + bot*fy
	return uint8(math.Round(v))
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Rect, img, img.Bounds().Min, draw.Src)
	return rgba
}
