package lisa

import (
	"fmt"
	"image/color"
	"math/rand/v2"
)

// QuantizeScale is the fixed-point factor applied to opacity before it takes
// part in hashing. Values are truncated, so two opacities that differ by less
// than 1/QuantizeScale may share a key; exact equality still decides matches.
const QuantizeScale = 1000

// Mutation step sizes for colors.
const (
	// ChannelStep bounds the signed delta applied to a mutated channel.
	ChannelStep = 256

	// OpacityStep bounds the signed delta applied to a mutated opacity.
	OpacityStep = 0.1
)

// Color is an RGB triple with a straight (non-premultiplied) opacity in [0, 1].
// Color is a comparable value type.
type Color struct {
	R, G, B uint8
	Opacity float64
}

// Common colors.
var (
	// Black is the opaque black sentinel returned for out-of-range pixels.
	Black = Color{R: 0, G: 0, B: 0, Opacity: 1}
	// White is opaque white.
	White = Color{R: 255, G: 255, B: 255, Opacity: 1}
)

// RGB creates an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, Opacity: 1}
}

// RGBA creates a color with the given opacity.
func RGBA(r, g, b uint8, opacity float64) Color {
	return Color{R: r, G: g, B: b, Opacity: opacity}
}

// RandomColor returns a color with every channel drawn uniformly over the
// byte range and a uniform opacity.
func RandomColor(r *rand.Rand) Color {
	return Color{
		R:       uint8(r.IntN(256)),
		G:       uint8(r.IntN(256)),
		B:       uint8(r.IntN(256)),
		Opacity: r.Float64(),
	}
}

// Composite blends incoming onto existing with the given opacity weight and
// clamps the result to the channel range [0, 255].
//
// Opacity 0 leaves existing unchanged; opacity 1 yields incoming.
func Composite(existing, incoming, opacity float32) float32 {
	v := existing*(1-opacity) + incoming*opacity
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// Luma returns the Rec.601 luma of c in [0, 255].
func (c Color) Luma() float32 {
	return 0.299*float32(c.R) + 0.587*float32(c.G) + 0.114*float32(c.B)
}

// Mutate returns a copy of c with exactly one of R, G, B or Opacity nudged.
//
// Channels receive a signed delta below ChannelStep/2 in magnitude and
// saturate at the byte range; opacity moves by less than OpacityStep/2 and is
// clamped to [0, 1].
func (c Color) Mutate(r *rand.Rand) Color {
	switch n := r.IntN(100); {
	case n <= 25:
		c.R = adjustChannel(r, c.R)
	case n <= 50:
		c.G = adjustChannel(r, c.G)
	case n <= 75:
		c.B = adjustChannel(r, c.B)
	default:
		c.Opacity = Adjust(r, c.Opacity, OpacityStep, 0, 1)
	}
	return c
}

// Key returns the quantized representation of c used for hashing.
func (c Color) Key() [4]int64 {
	return [4]int64{int64(c.R), int64(c.G), int64(c.B), Quantize(c.Opacity)}
}

// RGBAString formats c as a CSS rgba() value with four decimal places of opacity.
func (c Color) RGBAString() string {
	return fmt.Sprintf("rgba(%d,%d,%d,%.4f)", c.R, c.G, c.B, c.Opacity)
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return c.RGBAString()
}

// NRGBA converts c to the standard library's non-premultiplied color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(clampf(c.Opacity*255+0.5, 0, 255))}
}

// Quantize truncates v onto the QuantizeScale grid.
func Quantize(v float64) int64 {
	return int64(v * QuantizeScale)
}

// adjustChannel adds a signed random delta to v, saturating at 0 and 255.
func adjustChannel(r *rand.Rand, v uint8) uint8 {
	delta := int((r.Float64() - 0.5) * ChannelStep)
	n := int(v) + delta
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return uint8(n)
}
