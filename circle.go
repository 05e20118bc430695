package lisa

import (
	"fmt"
	"math/rand/v2"
)

// MinRadius is the smallest normalized radius a circle can take.
const MinRadius = 0.01

// Circle is a filled disc. Rad is scaled by the canvas width on both axes.
type Circle struct {
	X, Y  float64
	Rad   float64
	Color Color
}

var _ Shape = Circle{}

// RandomCircle returns a circle with uniform position, a radius in
// [MinRadius, 1] and a random color.
func RandomCircle(r *rand.Rand) Circle {
	return Circle{
		X:     r.Float64(),
		Y:     r.Float64(),
		Rad:   clampf(r.Float64(), MinRadius, 1),
		Color: RandomColor(r),
	}
}

// Kind implements Shape.
func (Circle) Kind() Kind { return KindCircle }

// Paint implements Shape.
func (c Circle) Paint() Color { return c.Color }

func (Circle) sealed() {}

// Mutate implements Shape: color 40%, x 20%, y 20%, radius 20%.
func (c Circle) Mutate(r *rand.Rand) Shape {
	switch n := r.IntN(10); {
	case n < 4:
		c.Color = c.Color.Mutate(r)
	case n < 6:
		c.X = Adjust(r, c.X, PositionStep, 0, 1)
	case n < 8:
		c.Y = Adjust(r, c.Y, PositionStep, 0, 1)
	default:
		c.Rad = Adjust(r, c.Rad, PositionStep, MinRadius, 1)
	}
	return c
}

// SVG implements Shape.
func (c Circle) SVG(width, height int) string {
	return fmt.Sprintf("<circle cx='%d' cy='%d' r='%d' fill='%s' />",
		scale(c.X, width), scale(c.Y, height), scale(c.Rad, width), c.Color.RGBAString())
}

// String implements Shape.
func (c Circle) String() string {
	return fmt.Sprintf("<C%.6f,%.6f,%.3f,%s>", c.X, c.Y, c.Rad, c.Color.RGBAString())
}

// AppendKey implements Shape.
func (c Circle) AppendKey(dst []byte) []byte {
	dst = append(dst, byte(KindCircle))
	dst = appendQuantized(dst, c.X, c.Y, c.Rad)
	return appendColorKey(dst, c.Color)
}

// DrawOnto fills every pixel (cx+dx, cy+dy) with dx²+dy² < r² exactly once.
//
// The scan walks one octant with an integer error term err = r² - x² - y²
// and emits the eight-way symmetric horizontal spans through Canvas.LineAdd,
// so the cost is O(r) spans. Rows below the octant diagonal are emitted
// when x steps down, with the half width that row reaches.
func (c Circle) DrawOnto(cv *Canvas) {
	rad := scale(c.Rad, cv.width)
	if rad <= 0 {
		return
	}
	cx, cy := scale(c.X, cv.width), scale(c.Y, cv.height)

	x, y := rad-1, 0
	err := rad*rad - x*x
	for y <= x {
		c.spans(cv, cx, cy, y, x)

		err -= 2*y + 1
		nx := x
		for err <= 0 && nx >= 0 {
			err += 2*nx - 1
			nx--
		}
		for d := x; d > nx && d > y; d-- {
			c.spans(cv, cx, cy, d, y)
		}
		x, y = nx, y+1
	}
}

// spans composites the rows cy-dy and cy+dy over [cx-half, cx+half].
func (c Circle) spans(cv *Canvas, cx, cy, dy, half int) {
	cv.LineAdd(cx-half, cx+half+1, cy+dy, c.Color)
	if dy != 0 {
		cv.LineAdd(cx-half, cx+half+1, cy-dy, c.Color)
	}
}

// DrawOntoReference fills the same pixel set as DrawOnto by testing every
// pixel of the bounding box. It is the correctness oracle for the fast path.
func (c Circle) DrawOntoReference(cv *Canvas) {
	rad := scale(c.Rad, cv.width)
	cx, cy := scale(c.X, cv.width), scale(c.Y, cv.height)
	rr := rad * rad
	for dy := -rad + 1; dy < rad; dy++ {
		for dx := -rad + 1; dx < rad; dx++ {
			if dx*dx+dy*dy < rr {
				cv.AddPixel(cx+dx, cy+dy, c.Color)
			}
		}
	}
}
