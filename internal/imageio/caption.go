package imageio

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// CaptionSize is the caption font size in points at 72 DPI.
const CaptionSize = 12

var (
	captionOnce sync.Once
	captionFont *opentype.Font
	captionErr  error
)

func parsedFont() (*opentype.Font, error) {
	captionOnce.Do(func() {
		captionFont, captionErr = opentype.Parse(goregular.TTF)
	})
	return captionFont, captionErr
}

// Caption returns a copy of img with text drawn in white on a black band
// along the bottom edge. An empty text returns img unchanged.
func Caption(img image.Image, text string) (image.Image, error) {
	if text == "" {
		return img, nil
	}
	f, err := parsedFont()
	if err != nil {
		return nil, fmt.Errorf("imageio: parse caption font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    CaptionSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("imageio: caption face: %w", err)
	}
	defer func() {
		_ = face.Close()
	}()

	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)

	m := face.Metrics()
	band := min((m.Ascent + m.Descent).Ceil()+4, b.Dy())
	draw.Draw(dst, image.Rect(0, b.Dy()-band, b.Dx(), b.Dy()), image.Black, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(2), Y: fixed.I(b.Dy()-2) - m.Descent},
	}
	d.DrawString(text)
	return dst, nil
}
