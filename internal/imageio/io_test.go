package imageio

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/lisa"
	"golang.org/x/image/bmp"
)

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	img.SetNRGBA(1, 2, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	img.SetNRGBA(3, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 128})
	return img
}

func TestFromImageDepths(t *testing.T) {
	img := testImage()

	tests := []struct {
		depth int
		want  lisa.Color
	}{
		{3, lisa.RGB(200, 100, 50)},
		{4, lisa.RGB(200, 100, 50)},
	}
	for _, tt := range tests {
		c, err := FromImage(img, tt.depth)
		if err != nil {
			t.Fatalf("FromImage(depth %d) error = %v", tt.depth, err)
		}
		if c.Width() != 4 || c.Height() != 3 || c.Depth() != tt.depth {
			t.Errorf("FromImage(depth %d) = %dx%dx%d", tt.depth, c.Width(), c.Height(), c.Depth())
		}
		if got := c.PixelAt(1, 2); got != tt.want {
			t.Errorf("depth %d: PixelAt(1, 2) = %v, want %v", tt.depth, got, tt.want)
		}
	}

	rgba, _ := FromImage(img, 4)
	if got := rgba.PixelAt(3, 0); got.Opacity < 0.5 || got.Opacity > 0.51 {
		t.Errorf("alpha not kept at depth 4: %v", got)
	}
}

func TestFromImageGray(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 3, 3))
	g.SetGray(1, 1, color.Gray{Y: 77})
	c, err := FromImage(g, 1)
	if err != nil {
		t.Fatalf("FromImage() error = %v", err)
	}
	if got := c.PixelAt(1, 1); got.R != 77 {
		t.Errorf("PixelAt(1, 1) = %v, want gray 77", got)
	}

	// Color sources are converted.
	c, err = FromImage(testImage(), 1)
	if err != nil {
		t.Fatalf("FromImage() error = %v", err)
	}
	if c.Depth() != 1 {
		t.Errorf("Depth() = %d, want 1", c.Depth())
	}
}

func TestFromImageSubImage(t *testing.T) {
	img := testImage().SubImage(image.Rect(1, 1, 4, 3))
	c, err := FromImage(img, 3)
	if err != nil {
		t.Fatalf("FromImage() error = %v", err)
	}
	if c.Width() != 3 || c.Height() != 2 {
		t.Fatalf("size = %dx%d, want 3x2", c.Width(), c.Height())
	}
	if got := c.PixelAt(0, 1); got != lisa.RGB(200, 100, 50) {
		t.Errorf("PixelAt(0, 1) = %v, want rgb(200,100,50)", got)
	}
}

func TestFromImageBadDepth(t *testing.T) {
	if _, err := FromImage(testImage(), 2); !errors.Is(err, lisa.ErrDepth) {
		t.Errorf("FromImage(depth 2) error = %v, want ErrDepth", err)
	}
}

func TestDecodeFormats(t *testing.T) {
	img := testImage()
	img.SetNRGBA(3, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	var pngBuf, bmpBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		t.Fatal(err)
	}
	if err := bmp.Encode(&bmpBuf, img); err != nil {
		t.Fatal(err)
	}

	for name, data := range map[string][]byte{"png": pngBuf.Bytes(), "bmp": bmpBuf.Bytes()} {
		t.Run(name, func(t *testing.T) {
			c, err := DecodeBytes(data, 3)
			if err != nil {
				t.Fatalf("DecodeBytes() error = %v", err)
			}
			if got := c.PixelAt(1, 2); got != lisa.RGB(200, 100, 50) {
				t.Errorf("PixelAt(1, 2) = %v, want rgb(200,100,50)", got)
			}
		})
	}
}

func TestDecodeBytesEmpty(t *testing.T) {
	if _, err := DecodeBytes(nil, 3); !errors.Is(err, ErrEmptyData) {
		t.Errorf("DecodeBytes(nil) error = %v, want ErrEmptyData", err)
	}
	if _, err := DecodeBytes([]byte("not an image"), 3); err == nil {
		t.Error("DecodeBytes(garbage) should fail")
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")

	var l lisa.ShapeList
	l = append(l, lisa.Rect{X: 0.25, Y: 0.25, Width: 0.5, Height: 0.5, Color: lisa.RGB(0, 255, 0)})
	cv := l.Render(8, 8, 3)

	if err := SavePNG(path, cv); err != nil {
		t.Fatalf("SavePNG() error = %v", err)
	}
	got, err := Load(path, 3)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !got.Equal(cv) {
		t.Error("PNG round trip changed the canvas")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.png"), 3)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want ErrNotExist", err)
	}
}

func TestFit(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 400, 200))

	got := Fit(img, 100)
	if b := got.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("Fit(400x200, 100) = %v, want 100x50", b)
	}
	if Fit(img, 0) != image.Image(img) {
		t.Error("Fit with maxSize 0 should return the input")
	}
	if Fit(img, 500) != image.Image(img) {
		t.Error("Fit of an image within bounds should return the input")
	}
}

func TestCaption(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 120, 40))
	out, err := Caption(img, "gen 42")
	if err != nil {
		t.Fatalf("Caption() error = %v", err)
	}
	if out.Bounds() != img.Bounds() {
		t.Errorf("Caption() bounds = %v, want %v", out.Bounds(), img.Bounds())
	}

	lit := 0
	b := out.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if r, _, _, _ := out.At(x, y).RGBA(); r > 0x8000 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("Caption() drew no text")
	}

	same, err := Caption(img, "")
	if err != nil || same != image.Image(img) {
		t.Error("empty caption should return the input")
	}
}
