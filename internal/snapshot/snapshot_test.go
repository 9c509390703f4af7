package snapshot

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/image/bmp"
)

// gl2x2 is a 2x2 image in glReadPixels order: bottom row first.
var gl2x2 = []byte{
	255, 0, 0, 255, 0, 255, 0, 255, // bottom: red, green
	0, 0, 255, 255, 255, 255, 255, 255, // top: blue, white
}

func TestFromGLFlipsRows(t *testing.T) {
	img, err := FromGL(gl2x2, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{0, 0, color.RGBA{0, 0, 255, 255}},
		{1, 0, color.RGBA{255, 255, 255, 255}},
		{0, 1, color.RGBA{255, 0, 0, 255}},
		{1, 1, color.RGBA{0, 255, 0, 255}},
	}
	for _, tt := range tests {
		if got := img.RGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestFromGLRejectsBadInput(t *testing.T) {
	if _, err := FromGL(gl2x2, 3, 2); err == nil {
		t.Error("expected error for short buffer")
	}
	if _, err := FromGL(nil, 0, 0); err == nil {
		t.Error("expected error for zero size")
	}
}

func TestSaveBMP(t *testing.T) {
	img, err := FromGL(gl2x2, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "targets", "reflection.bmp")
	if err := Save(path, img); err != nil {
		t.Fatalf("Save: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	decoded, err := bmp.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Errorf("bounds = %v", decoded.Bounds())
	}
	r, g, b, _ := decoded.At(0, 1).RGBA()
	if r>>8 != 255 || g != 0 || b != 0 {
		t.Errorf("bottom-left = %d,%d,%d, want red", r>>8, g>>8, b>>8)
	}
}

func TestSavePNG(t *testing.T) {
	img, _ := FromGL(gl2x2, 2, 2)
	path := filepath.Join(t.TempDir(), "refraction.PNG")
	if err := Save(path, img); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("stat = %v, %v", fi, err)
	}
}

func TestSaveUnknownFormat(t *testing.T) {
	img, _ := FromGL(gl2x2, 2, 2)
	err := Save(filepath.Join(t.TempDir(), "x.gif"), img)
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("err = %v, want ErrUnknownFormat", err)
	}
}

func TestFileName(t *testing.T) {
	at := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	if got := FileName("__WaterReflection1", at, ".bmp"); got != "__WaterReflection1-20260102-150405.bmp" {
		t.Errorf("FileName = %q", got)
	}
	if got := FileName("t", at, "png"); got != "t-20260102-150405.png" {
		t.Errorf("FileName = %q", got)
	}
}
