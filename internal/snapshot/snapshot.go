// Package snapshot writes render target contents to image files.
package snapshot

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/bmp"
)

// ErrUnknownFormat is returned by Save for unsupported file extensions.
var ErrUnknownFormat = errors.New("snapshot: unknown image format")

// FromGL converts bottom-up RGBA rows as returned by glReadPixels into a
// top-down image.
func FromGL(pixels []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("snapshot: invalid size %dx%d", width, height)
	}
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("snapshot: got %d bytes for %dx%d", len(pixels), width, height)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	stride := width * 4
	for y := range height {
		src := pixels[(height-1-y)*stride : (height-y)*stride]
		copy(img.Pix[y*img.Stride:y*img.Stride+stride], src)
	}
	return img, nil
}

// Save encodes img to path. The format follows the extension: .png or .bmp.
func Save(path string, img image.Image) (err error) {
	var encode func(*os.File, image.Image) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		encode = func(f *os.File, img image.Image) error { return png.Encode(f, img) }
	case ".bmp":
		encode = func(f *os.File, img image.Image) error { return bmp.Encode(f, img) }
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	if err := encode(f, img); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return nil
}

// FileName returns a timestamped file name for a target snapshot,
// e.g. "__WaterReflection1-20260102-150405.bmp".
func FileName(target string, at time.Time, ext string) string {
	return fmt.Sprintf("%s-%s.%s", target, at.Format("20060102-150405"), strings.TrimPrefix(ext, "."))
}
