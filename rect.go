package lisa

import (
	"fmt"
	"math/rand/v2"
)

// Rect is an axis-aligned filled rectangle with its top-left corner at (X, Y).
type Rect struct {
	X, Y          float64
	Width, Height float64
	Color         Color
}

var _ Shape = Rect{}

// RandomRect returns a rectangle with every attribute drawn uniformly.
func RandomRect(r *rand.Rand) Rect {
	return Rect{
		X:      r.Float64(),
		Y:      r.Float64(),
		Width:  r.Float64(),
		Height: r.Float64(),
		Color:  RandomColor(r),
	}
}

// Kind implements Shape.
func (Rect) Kind() Kind { return KindRect }

// Paint implements Shape.
func (r Rect) Paint() Color { return r.Color }

func (Rect) sealed() {}

// Mutate implements Shape: color 60%, then x, y, width and height 10% each.
func (r Rect) Mutate(rnd *rand.Rand) Shape {
	switch n := rnd.IntN(10); {
	case n < 6:
		r.Color = r.Color.Mutate(rnd)
	case n == 6:
		r.X = Adjust(rnd, r.X, PositionStep, 0, 1)
	case n == 7:
		r.Y = Adjust(rnd, r.Y, PositionStep, 0, 1)
	case n == 8:
		r.Width = Adjust(rnd, r.Width, PositionStep, 0, 1)
	default:
		r.Height = Adjust(rnd, r.Height, PositionStep, 0, 1)
	}
	return r
}

// SVG implements Shape.
func (r Rect) SVG(width, height int) string {
	return fmt.Sprintf("<rect x='%d' y='%d' width='%d' height='%d' fill='%s' />",
		scale(r.X, width), scale(r.Y, height), scale(r.Width, width), scale(r.Height, height),
		r.Color.RGBAString())
}

// String implements Shape.
func (r Rect) String() string {
	return fmt.Sprintf("<R%.6f,%.6f,%.6f,%.6f,%s>", r.X, r.Y, r.Width, r.Height, r.Color.RGBAString())
}

// AppendKey implements Shape.
func (r Rect) AppendKey(dst []byte) []byte {
	dst = append(dst, byte(KindRect))
	dst = appendQuantized(dst, r.X, r.Y, r.Width, r.Height)
	return appendColorKey(dst, r.Color)
}

// DrawOnto composites every pixel of [x0, x1) x [y0, y1), clipped to the canvas.
func (r Rect) DrawOnto(cv *Canvas) {
	x0, y0 := scale(r.X, cv.width), scale(r.Y, cv.height)
	x1, y1 := scale(r.X+r.Width, cv.width), scale(r.Y+r.Height, cv.height)
	for y := max(y0, 0); y < min(y1, cv.height); y++ {
		cv.LineAdd(x0, x1, y, r.Color)
	}
}
