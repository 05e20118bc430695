package lisa

import (
	"fmt"
	"math/rand/v2"
)

// Triangle is a filled triangle with vertices (X1, Y1), (X2, Y2), (X3, Y3).
type Triangle struct {
	X1, Y1 float64
	X2, Y2 float64
	X3, Y3 float64
	Color  Color
}

var _ Shape = Triangle{}

// RandomTriangle returns a triangle with uniform vertices and a random color.
func RandomTriangle(r *rand.Rand) Triangle {
	return Triangle{
		X1: r.Float64(), Y1: r.Float64(),
		X2: r.Float64(), Y2: r.Float64(),
		X3: r.Float64(), Y3: r.Float64(),
		Color: RandomColor(r),
	}
}

// Kind implements Shape.
func (Triangle) Kind() Kind { return KindTriangle }

// Paint implements Shape.
func (t Triangle) Paint() Color { return t.Color }

func (Triangle) sealed() {}

// Mutate implements Shape: color 40%, each of the six coordinates 10%.
func (t Triangle) Mutate(r *rand.Rand) Shape {
	switch r.IntN(10) {
	case 0, 1, 2, 3:
		t.Color = t.Color.Mutate(r)
	case 4:
		t.X1 = Adjust(r, t.X1, PositionStep, 0, 1)
	case 5:
		t.Y1 = Adjust(r, t.Y1, PositionStep, 0, 1)
	case 6:
		t.X2 = Adjust(r, t.X2, PositionStep, 0, 1)
	case 7:
		t.Y2 = Adjust(r, t.Y2, PositionStep, 0, 1)
	case 8:
		t.X3 = Adjust(r, t.X3, PositionStep, 0, 1)
	default:
		t.Y3 = Adjust(r, t.Y3, PositionStep, 0, 1)
	}
	return t
}

// SVG implements Shape.
func (t Triangle) SVG(width, height int) string {
	return fmt.Sprintf("<polygon points='%d,%d %d,%d %d,%d' fill='%s' />",
		scale(t.X1, width), scale(t.Y1, height),
		scale(t.X2, width), scale(t.Y2, height),
		scale(t.X3, width), scale(t.Y3, height),
		t.Color.RGBAString())
}

// String implements Shape.
func (t Triangle) String() string {
	return fmt.Sprintf("<T%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%s>",
		t.X1, t.Y1, t.X2, t.Y2, t.X3, t.Y3, t.Color.RGBAString())
}

// AppendKey implements Shape.
func (t Triangle) AppendKey(dst []byte) []byte {
	dst = append(dst, byte(KindTriangle))
	dst = appendQuantized(dst, t.X1, t.Y1, t.X2, t.Y2, t.X3, t.Y3)
	return appendColorKey(dst, t.Color)
}

// DrawOnto scans the half-open bounding box [min, max) of the vertices,
// clipped to the canvas, and composites a pixel when the strict sign tests
// place it inside all three edges. A zero cross product counts as negative,
// so whether a pixel exactly on an edge is filled depends on the winding.
// A degenerate (colinear) triangle fills nothing.
func (t Triangle) DrawOnto(cv *Canvas) {
	x1, y1 := scale(t.X1, cv.width), scale(t.Y1, cv.height)
	x2, y2 := scale(t.X2, cv.width), scale(t.Y2, cv.height)
	x3, y3 := scale(t.X3, cv.width), scale(t.Y3, cv.height)

	xmin, xmax := max(min(x1, x2, x3), 0), min(max(x1, x2, x3), cv.width)
	ymin, ymax := max(min(y1, y2, y3), 0), min(max(y1, y2, y3), cv.height)

	for y := ymin; y < ymax; y++ {
		for x := xmin; x < xmax; x++ {
			asx, asy := x-x1, y-y1
			sab := (x2-x1)*asy-(y2-y1)*asx > 0
			if ((x3-x1)*asy-(y3-y1)*asx > 0) == sab {
				continue
			}
			if ((x3-x2)*(y-y2)-(y3-y2)*(x-x2) > 0) != sab {
				continue
			}
			cv.AddPixel(x, y, t.Color)
		}
	}
}
