package enhance

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	for _, mode := range Modes() {
		parsed, err := ParseMode(string(mode))
		require.NoError(t, err)
		require.Equal(t, mode, parsed)
	}

	_, err := ParseMode("posterize")
	require.Error(t, err)

	_, err = ParseMode("")
	require.Error(t, err)
}

func TestApply_Original(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))

	out, err := Apply(img, ModeOriginal, DefaultParams())
	require.NoError(t, err)
	require.Same(t, image.Image(img), out)
}

func TestApply_NilImage(t *testing.T) {
	_, err := Apply(nil, ModeAdaptive, DefaultParams())
	require.Error(t, err)
}

func TestApply_UnknownMode(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	_, err := Apply(img, Mode("wat"), DefaultParams())
	require.Error(t, err)
}

func TestApply_InvalidParams(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))

	bad := DefaultParams()
	bad.AdaptiveBlockSize = 10
	_, err := Apply(img, ModeAdaptive, bad)
	require.Error(t, err)

	bad = DefaultParams()
	bad.CLAHETiles = 0
	_, err = Apply(img, ModeCLAHE, bad)
	require.Error(t, err)
}

func TestApply_CustomParams(t *testing.T) {
	p := Params{
		AdaptiveBlockSize: 21,
		AdaptiveBias:      5,
		CLAHEClipLimit:    3,
		CLAHETiles:        4,
	}
	require.NoError(t, p.Validate())

	out, err := Apply(documentGray(64, 64), ModeAdaptive, p)
	require.NoError(t, err)
	require.Equal(t, 64, out.Bounds().Dx())
}

func documentGray(w, h int) *image.Gray {
	// Bright paper with dark glyph-like blocks.
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(220)
			if (x/8+y/8)%3 == 0 && x%8 < 4 && y%8 < 4 {
				v = 40
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return img
}

func TestAdaptiveThreshold_StrictlyBinary(t *testing.T) {
	out := AdaptiveThreshold(documentGray(64, 64), DefaultAdaptiveBlockSize, DefaultAdaptiveBias)

	for i, v := range out.Pix {
		require.True(t, v == 0 || v == 255, "pixel %d has value %d", i, v)
	}
}

func TestAdaptiveThreshold_SeparatesInkFromPaper(t *testing.T) {
	out := AdaptiveThreshold(documentGray(64, 64), DefaultAdaptiveBlockSize, DefaultAdaptiveBias)

	var black, white int
	for _, v := range out.Pix {
		if v == 0 {
			black++
		} else {
			white++
		}
	}
	require.Positive(t, black)
	require.Positive(t, white)
	// Paper dominates the page.
	require.Greater(t, white, black)
}

func TestAdaptiveThreshold_UniformImageStaysWhite(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 32, 32))
	for i := range img.Pix {
		img.Pix[i] = 128
	}

	// Every pixel equals its local mean, so value > mean - bias holds.
	out := AdaptiveThreshold(img, DefaultAdaptiveBlockSize, DefaultAdaptiveBias)
	for _, v := range out.Pix {
		require.Equal(t, uint8(255), v)
	}
}

func TestAdaptiveThreshold_EmptyImage(t *testing.T) {
	out := AdaptiveThreshold(image.NewGray(image.Rect(0, 0, 0, 0)), 11, 2)
	require.Zero(t, out.Rect.Dx())
}

func grayStdDev(img *image.Gray) float64 {
	var sum float64
	for _, v := range img.Pix {
		sum += float64(v)
	}
	mean := sum / float64(len(img.Pix))

	var sq float64
	for _, v := range img.Pix {
		d := float64(v) - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(img.Pix)))
}

func TestCLAHE_IncreasesLocalContrast(t *testing.T) {
	// Low-contrast input clustered around mid-gray.
	img := image.NewGray(image.Rect(0, 0, 128, 128))
	for y := 0; y < 128; y++ {
		for x := 0; x < 128; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(118 + (x+y)%20)})
		}
	}

	out := CLAHE(img, DefaultCLAHEClipLimit, DefaultCLAHETiles)
	require.Equal(t, img.Rect, out.Rect)
	require.Greater(t, grayStdDev(out), grayStdDev(img))
}

func TestCLAHE_PreservesUniformImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for i := range img.Pix {
		img.Pix[i] = 200
	}

	out := CLAHE(img, DefaultCLAHEClipLimit, DefaultCLAHETiles)

	// A flat tile histogram maps the single occupied bin near the top of
	// the range; all pixels must still share one value.
	first := out.Pix[0]
	for _, v := range out.Pix {
		require.Equal(t, first, v)
	}
}

func TestCLAHE_SmallImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 5, 5))
	out := CLAHE(img, 2.0, 8)
	require.Equal(t, 5, out.Rect.Dx())
	require.Equal(t, 5, out.Rect.Dy())
}

func TestSharpen_PreservesUniformRegions(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 100, G: 150, B: 200, A: 255})
		}
	}

	out := Sharpen(img)

	// The kernel sums to 1, so flat interior regions are unchanged.
	c := out.RGBAAt(16, 16)
	require.Equal(t, uint8(100), c.R)
	require.Equal(t, uint8(150), c.G)
	require.Equal(t, uint8(200), c.B)
}

func TestSharpen_AmplifiesEdges(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			v := uint8(80)
			if x >= 16 {
				v = 180
			}
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}

	out := Sharpen(img)

	// Overshoot on the bright side of the edge, undershoot on the dark side.
	require.Greater(t, out.RGBAAt(16, 16).R, uint8(180))
	require.Less(t, out.RGBAAt(15, 16).R, uint8(80))
}

func TestToGray_PreservesGrayInput(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	require.Same(t, img, toGray(img))
}
