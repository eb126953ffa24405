package testutil

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DocumentPhotoConfig describes a synthetic photo of a document: a bright
// paper quadrilateral on a darker background, optionally with text on it.
type DocumentPhotoConfig struct {
	Width      int
	Height     int
	Background color.RGBA
	Paper      color.RGBA
	// Corners of the paper in image coordinates, TL, TR, BR, BL.
	Corners [4]image.Point
	Text    string
}

// DefaultDocumentPhotoConfig returns a centered, slightly tilted document
// covering most of a 640x480 frame.
func DefaultDocumentPhotoConfig() DocumentPhotoConfig {
	return DocumentPhotoConfig{
		Width:      640,
		Height:     480,
		Background: color.RGBA{R: 60, G: 60, B: 70, A: 255},
		Paper:      color.RGBA{R: 235, G: 235, B: 230, A: 255},
		Corners: [4]image.Point{
			{X: 110, Y: 60},
			{X: 540, Y: 80},
			{X: 520, Y: 420},
			{X: 90, Y: 400},
		},
		Text: "Sample Document",
	}
}

// LowContrastDocumentPhotoConfig returns a document whose paper barely
// differs from the background, for detection failure scenarios.
func LowContrastDocumentPhotoConfig() DocumentPhotoConfig {
	cfg := DefaultDocumentPhotoConfig()
	cfg.Background = color.RGBA{R: 228, G: 228, B: 224, A: 255}
	cfg.Paper = color.RGBA{R: 232, G: 232, B: 228, A: 255}
	cfg.Text = ""
	return cfg
}

// GenerateDocumentPhoto renders the configured document photo.
func GenerateDocumentPhoto(cfg DocumentPhotoConfig) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{cfg.Background}, image.Point{}, draw.Src)

	fillQuad(img, cfg.Corners, cfg.Paper)

	if cfg.Text != "" {
		drawer := &font.Drawer{
			Dst:  img,
			Src:  &image.Uniform{color.RGBA{R: 30, G: 30, B: 30, A: 255}},
			Face: basicfont.Face7x13,
		}
		// Place text lines inside the paper region.
		cx := (cfg.Corners[0].X + cfg.Corners[2].X) / 2
		cy := (cfg.Corners[0].Y + cfg.Corners[2].Y) / 2
		lineHeight := basicfont.Face7x13.Metrics().Height.Ceil() + 4
		for i := 0; i < 3; i++ {
			textWidth := font.MeasureString(basicfont.Face7x13, cfg.Text).Ceil()
			drawer.Dot = fixed.P(cx-textWidth/2, cy+(i-1)*lineHeight)
			drawer.DrawString(cfg.Text)
		}
	}
	return img
}

// GenerateDocumentOutline renders only the stroked boundary of the
// configured document quadrilateral, leaving its interior at the background
// color. Useful for scenes where the page edge is the sole cue.
func GenerateDocumentOutline(cfg DocumentPhotoConfig, stroke int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{cfg.Background}, image.Point{}, draw.Src)

	for i := 0; i < 4; i++ {
		drawThickLine(img, cfg.Corners[i], cfg.Corners[(i+1)%4], stroke, cfg.Paper)
	}
	return img
}

// drawThickLine stamps a square brush along the segment from p1 to p2.
func drawThickLine(img *image.RGBA, p1, p2 image.Point, stroke int, c color.RGBA) {
	b := img.Bounds()
	dx := float64(p2.X - p1.X)
	dy := float64(p2.Y - p1.Y)
	steps := int(math.Max(math.Abs(dx), math.Abs(dy))) + 1
	r := stroke / 2

	for s := 0; s <= steps; s++ {
		t := float64(s) / float64(steps)
		cx := int(math.Round(float64(p1.X) + t*dx))
		cy := int(math.Round(float64(p1.Y) + t*dy))
		for oy := -r; oy <= r; oy++ {
			for ox := -r; ox <= r; ox++ {
				x, y := cx+ox, cy+oy
				if x >= b.Min.X && x < b.Max.X && y >= b.Min.Y && y < b.Max.Y {
					img.SetRGBA(x, y, c)
				}
			}
		}
	}
}

// fillQuad rasterizes a convex quadrilateral with horizontal scanlines.
func fillQuad(img *image.RGBA, corners [4]image.Point, c color.RGBA) {
	minY, maxY := corners[0].Y, corners[0].Y
	for _, p := range corners[1:] {
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	b := img.Bounds()
	if minY < b.Min.Y {
		minY = b.Min.Y
	}
	if maxY > b.Max.Y-1 {
		maxY = b.Max.Y - 1
	}

	for y := minY; y <= maxY; y++ {
		minX := math.Inf(1)
		maxX := math.Inf(-1)
		for i := 0; i < 4; i++ {
			p1 := corners[i]
			p2 := corners[(i+1)%4]
			if (p1.Y <= y && p2.Y >= y) || (p2.Y <= y && p1.Y >= y) {
				if p1.Y == p2.Y {
					minX = math.Min(minX, float64(min(p1.X, p2.X)))
					maxX = math.Max(maxX, float64(max(p1.X, p2.X)))
					continue
				}
				t := float64(y-p1.Y) / float64(p2.Y-p1.Y)
				x := float64(p1.X) + t*float64(p2.X-p1.X)
				minX = math.Min(minX, x)
				maxX = math.Max(maxX, x)
			}
		}
		if minX > maxX {
			continue
		}
		for x := int(minX); x <= int(maxX); x++ {
			if x >= b.Min.X && x < b.Max.X {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

// CreateTestImage creates a uniform image with the given dimensions and color.
func CreateTestImage(width, height int, backgroundColor color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{backgroundColor}, image.Point{}, draw.Src)
	return img
}

// SaveImage saves an image to the specified path.
func SaveImage(t *testing.T, img image.Image, path string) {
	t.Helper()

	dir := filepath.Dir(path)
	require.NoError(t, EnsureDir(dir), "Failed to create directory %s", dir)

	file, err := os.Create(path) //nolint:gosec // G304: Test file creation with controlled path
	require.NoError(t, err, "Failed to create file %s", path)
	defer func() {
		require.NoError(t, file.Close())
	}()

	err = png.Encode(file, img)
	require.NoError(t, err, "Failed to encode PNG image")
}

// LoadImage loads an image from the specified path.
func LoadImage(t *testing.T, path string) image.Image {
	t.Helper()

	file, err := os.Open(path) //nolint:gosec // G304: Test file reading with controlled path
	require.NoError(t, err, "Failed to open image file %s", path)
	defer func() { _ = file.Close() }()

	img, _, err := image.Decode(file)
	require.NoError(t, err, "Failed to decode image")

	return img
}

// CompareImages compares two images and returns true if their average pixel
// difference is within tolerance (0..1).
func CompareImages(img1, img2 image.Image, tolerance float64) bool {
	bounds1 := img1.Bounds()
	bounds2 := img2.Bounds()

	if bounds1.Dx() != bounds2.Dx() || bounds1.Dy() != bounds2.Dy() {
		return false
	}

	var totalDiff float64
	var pixelCount float64

	for y := 0; y < bounds1.Dy(); y++ {
		for x := 0; x < bounds1.Dx(); x++ {
			r1, g1, b1, a1 := img1.At(bounds1.Min.X+x, bounds1.Min.Y+y).RGBA()
			r2, g2, b2, a2 := img2.At(bounds2.Min.X+x, bounds2.Min.Y+y).RGBA()

			dr := float64(r1) - float64(r2)
			dg := float64(g1) - float64(g2)
			db := float64(b1) - float64(b2)
			da := float64(a1) - float64(a2)

			totalDiff += math.Sqrt(dr*dr + dg*dg + db*db + da*da)
			pixelCount++
		}
	}

	avgDiff := totalDiff / pixelCount
	maxDiff := math.Sqrt(4 * 65535 * 65535)

	return (avgDiff / maxDiff) <= tolerance
}
