// Package imageio moves rasters between files and lisa canvases.
//
// Decoding understands JPEG, PNG and GIF from the standard library plus BMP,
// TIFF and WebP from golang.org/x/image. Canvases are written as PNG.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF
	_ "image/jpeg" // register JPEG
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/gogpu/lisa"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"  // register BMP
	_ "golang.org/x/image/tiff" // register TIFF
	_ "golang.org/x/image/webp" // register WebP
)

// ErrEmptyData is returned when image data is empty.
var ErrEmptyData = errors.New("imageio: empty data")

// Load decodes the image at path into a canvas of the given depth.
func Load(path string, depth int) (*lisa.Canvas, error) {
	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	return FromImage(img, depth)
}

// LoadImage decodes the image at path, detecting the format from its content.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("imageio: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("imageio: decode %s: %w", path, err)
	}
	return img, nil
}

// Decode reads an image in any registered format into a canvas of the given depth.
func Decode(r io.Reader, depth int) (*lisa.Canvas, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("imageio: decode: %w", err)
	}
	return FromImage(img, depth)
}

// DecodeBytes is Decode over an in-memory buffer.
func DecodeBytes(data []byte, depth int) (*lisa.Canvas, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	return Decode(bytes.NewReader(data), depth)
}

// FromImage converts img to a canvas. Depth 1 reduces to 8-bit gray, depth 3
// drops alpha and depth 4 keeps straight (non-premultiplied) RGBA.
func FromImage(img image.Image, depth int) (*lisa.Canvas, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	switch depth {
	case 1:
		gray, ok := img.(*image.Gray)
		if !ok || gray.Stride != w || gray.Rect.Min != (image.Point{}) {
			gray = image.NewGray(image.Rect(0, 0, w, h))
			draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
		}
		return lisa.CanvasFrom(w, h, 1, gray.Pix)

	case 3, 4:
		nrgba := toNRGBA(img)
		if depth == 4 {
			return lisa.CanvasFrom(w, h, 4, nrgba.Pix)
		}
		rgb := make([]byte, 0, w*h*3)
		for i := 0; i < len(nrgba.Pix); i += 4 {
			rgb = append(rgb, nrgba.Pix[i], nrgba.Pix[i+1], nrgba.Pix[i+2])
		}
		return lisa.CanvasFrom(w, h, 3, rgb)

	default:
		return nil, fmt.Errorf("imageio: %w: %d", lisa.ErrDepth, depth)
	}
}

// toNRGBA returns img as a tightly packed NRGBA image at the origin.
func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && n.Stride == b.Dx()*4 && n.Rect.Min == (image.Point{}) {
		return n
	}
	n := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(n, n.Bounds(), img, b.Min, draw.Src)
	return n
}

// Fit scales img down so that neither side exceeds maxSize, keeping the
// aspect ratio. Images already within bounds, or a maxSize of 0, are returned
// unchanged.
func Fit(img image.Image, maxSize int) image.Image {
	b := img.Bounds()
	if maxSize <= 0 || (b.Dx() <= maxSize && b.Dy() <= maxSize) {
		return img
	}
	w, h := maxSize, maxSize
	if b.Dx() > b.Dy() {
		h = max(1, b.Dy()*maxSize/b.Dx())
	} else {
		w = max(1, b.Dx()*maxSize/b.Dy())
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("imageio: encode PNG: %w", err)
	}
	return nil
}

// SavePNG writes img to path as PNG, creating or truncating the file.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("imageio: create file: %w", err)
	}

	if err := EncodePNG(f, img); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}
