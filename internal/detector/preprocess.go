package detector

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Working is the downscaled, denoised single-channel image used for boundary
// detection, together with the factor that maps its coordinates back to the
// original image. Carrying Scale in the type keeps working-resolution and
// original-resolution coordinate spaces from being mixed up.
type Working struct {
	Gray   *image.Gray
	Width  int
	Height int
	// Scale is originalWidth / workingWidth, always >= 1.
	Scale float64
}

// preprocess normalizes img to the working resolution and returns a blurred
// luminance image ready for edge detection.
func (d *Detector) preprocess(img image.Image) Working {
	b := img.Bounds()
	origW := b.Dx()

	working := img
	scale := 1.0
	if origW > d.cfg.WorkingWidth {
		working = imaging.Resize(img, d.cfg.WorkingWidth, 0, imaging.Lanczos)
		scale = float64(origW) / float64(d.cfg.WorkingWidth)
	}

	gray := imaging.Grayscale(working)
	if d.cfg.BlurSigma > 0 {
		gray = imaging.Blur(gray, d.cfg.BlurSigma)
	}

	wb := gray.Bounds()
	w, h := wb.Dx(), wb.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			// Grayscale images have equal channels; any one is the luminance.
			r, _, _, _ := gray.At(wb.Min.X+x, wb.Min.Y+y).RGBA()
			out.SetGray(x, y, color.Gray{Y: uint8(r >> 8)})
		}
	}

	return Working{Gray: out, Width: w, Height: h, Scale: scale}
}
