// Package entropy builds fitness weighting maps that favor busy regions of a
// target image.
package entropy

import (
	"math"

	"github.com/gogpu/lisa"
	"github.com/gogpu/lisa/internal/parallel"
)

// Radius is the neighborhood radius sampled around every pixel.
const Radius = 1

// Divisor scales the summed squared neighbor distance before the square root.
const Divisor = 10

// Weight maps a NeighborsDiffSq sum to a weight in [0, 255].
func Weight(diffSq int64) uint8 {
	return uint8(min(math.Sqrt(float64(diffSq/Divisor)), 255))
}

// Map returns a gray weighting canvas with the dimensions and depth of target.
// Every channel of a pixel holds Weight(target.NeighborsDiffSq(x, y, Radius)),
// so flat areas weigh near zero and edges approach 255. Rows are computed on
// pool; a nil pool computes them serially.
func Map(target *lisa.Canvas, pool *parallel.Pool) *lisa.Canvas {
	w, h := target.Width(), target.Height()
	out := lisa.NewCanvas(w, h, target.Depth())

	row := func(y int) {
		for x := range w {
			v := Weight(target.NeighborsDiffSq(x, y, Radius))
			out.AddPixel(x, y, lisa.RGB(v, v, v))
		}
	}

	if pool == nil {
		for y := range h {
			row(y)
		}
		return out
	}
	// Rows touch disjoint slices of out.
	pool.ForEach(h, row)
	return out
}
