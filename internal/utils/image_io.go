package utils

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"

	_ "golang.org/x/image/bmp"
)

// ImageIOError represents errors that can occur while reading or writing images.
type ImageIOError struct {
	Operation string
	Err       error
}

func (e *ImageIOError) Error() string {
	return fmt.Sprintf("image io error in %s: %v", e.Operation, e.Err)
}

func (e *ImageIOError) Unwrap() error { return e.Err }

// SupportedImageExtensions lists supported file extensions for loading.
var SupportedImageExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".gif"}

// IsSupportedImage reports whether the path has a supported image extension.
func IsSupportedImage(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedImageExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// DecodeImage decodes raw image bytes, returning the image and its format name.
func DecodeImage(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", &ImageIOError{Operation: "decode", Err: errors.New("empty input")}
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", &ImageIOError{Operation: "decode", Err: err}
	}
	return img, format, nil
}

// EncodeImage writes img to w in the given format ("png" or "jpeg").
func EncodeImage(w io.Writer, img image.Image, format string) error {
	switch strings.ToLower(format) {
	case "", "png":
		if err := png.Encode(w, img); err != nil {
			return &ImageIOError{Operation: "encode", Err: err}
		}
	case "jpg", "jpeg":
		if err := jpeg.Encode(w, img, &jpeg.Options{Quality: 92}); err != nil {
			return &ImageIOError{Operation: "encode", Err: err}
		}
	default:
		return &ImageIOError{Operation: "encode", Err: fmt.Errorf("unsupported format: %s", format)}
	}
	return nil
}

// LoadImage opens and decodes an image file.
func LoadImage(path string) (image.Image, error) {
	if path == "" {
		return nil, &ImageIOError{Operation: "load", Err: errors.New("empty path")}
	}
	if !IsSupportedImage(path) {
		return nil, &ImageIOError{Operation: "load", Err: fmt.Errorf("unsupported format: %s", filepath.Ext(path))}
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304: reading user-provided image path is expected
	if err != nil {
		return nil, &ImageIOError{Operation: "load", Err: err}
	}
	img, _, err := DecodeImage(data)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// SaveImage encodes img into path; the format follows the file extension.
func SaveImage(path string, img image.Image) error {
	f, err := os.Create(path) //nolint:gosec // G304: writing user-provided output path is expected
	if err != nil {
		return &ImageIOError{Operation: "save", Err: err}
	}
	defer func() { _ = f.Close() }()
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return EncodeImage(f, img, format)
}
