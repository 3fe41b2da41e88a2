package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// pngBytes encodes a solid-color image of the given size as PNG.
func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	data := pngBytes(t, 8, 6, color.RGBA{R: 200, G: 100, B: 50, A: 255})
	img, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 6 {
		t.Errorf("bounds: got %v", img.Bounds())
	}
	c := img.NRGBAAt(3, 3)
	if c.R != 200 || c.G != 100 || c.B != 50 {
		t.Errorf("pixel: got %+v", c)
	}
}

func TestDecode_invalidBytes(t *testing.T) {
	if _, err := Decode(strings.NewReader("definitely not an image")); err == nil {
		t.Error("expected decode error for invalid bytes")
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img.png")
	if err := os.WriteFile(path, pngBytes(t, 4, 4, color.White), 0600); err != nil {
		t.Fatal(err)
	}
	img, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 4 {
		t.Errorf("bounds: got %v", img.Bounds())
	}
}

func TestOpenAll_skipsMissingPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img.png")
	if err := os.WriteFile(path, pngBytes(t, 4, 4, color.White), 0600); err != nil {
		t.Fatal(err)
	}

	images, err := OpenAll([]string{filepath.Join(dir, "missing.png"), path})
	if err != nil {
		t.Fatal(err)
	}
	if len(images) != 1 {
		t.Errorf("images: got %d, want 1", len(images))
	}
}

func TestOpenAll_allMissingReturnsEmpty(t *testing.T) {
	images, err := OpenAll([]string{"/no/such/a.png", "/no/such/b.png"})
	if err != nil {
		t.Fatal(err)
	}
	if images == nil {
		t.Fatal("images should be non-nil")
	}
	if len(images) != 0 {
		t.Errorf("images: got %d, want 0", len(images))
	}
}

func TestOpenAll_corruptExistingFileErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corrupt.png")
	if err := os.WriteFile(path, []byte("not an image"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenAll([]string{path}); err == nil {
		t.Error("expected error for corrupt file")
	}
}
