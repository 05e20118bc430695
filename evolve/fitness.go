package evolve

import "github.com/gogpu/lisa"

// ShapePenalty is the relative fitness cost of every shape in a genome.
const ShapePenalty = 0.001

// DefaultWeightScale scales entropy weights in weighted fitness.
const DefaultWeightScale = 0.01

// Target is the image being approximated. Lower fitness is better.
type Target struct {
	Image *lisa.Canvas

	// Weights, when set, switches to weighted fitness. It must match Image in size.
	Weights *lisa.Canvas
	Scale   float64
}

// Fitness scores a rendering of an n-shape genome:
// diff * (1 + ShapePenalty*n), where diff is the plain or weighted squared
// difference against the target.
func (t Target) Fitness(c *lisa.Canvas, n int) float64 {
	var d float64
	if t.Weights != nil {
		d = c.WeightedDiff(t.Image, t.Weights, t.Scale)
	} else {
		d = c.Diff(t.Image)
	}
	return d * (1 + ShapePenalty*float64(n))
}
