package lisa

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
)

// DefaultTailBias is the share of ShapeList.Mutate calls that touch only the
// last shape. The rest pick a shape uniformly. Tail mutations invalidate only
// the newest cache prefix.
const DefaultTailBias = 0.9

// ShapeList is an ordered genome of shapes. Later shapes paint over earlier
// ones, so order is significant and only Swap reorders it.
//
// The zero value is an empty list, which renders to a blank canvas.
type ShapeList []Shape

// Len returns the number of shapes.
func (l ShapeList) Len() int { return len(l) }

// At returns the shape at index i.
func (l ShapeList) At(i int) Shape { return l[i] }

// Slice returns an independent copy of the first k shapes.
func (l ShapeList) Slice(k int) ShapeList {
	out := make(ShapeList, k)
	copy(out, l[:k])
	return out
}

// Clone returns an independent copy of l.
func (l ShapeList) Clone() ShapeList {
	return l.Slice(len(l))
}

// Equal reports whether l and o hold exactly equal shapes in the same order.
func (l ShapeList) Equal(o ShapeList) bool {
	if len(l) != len(o) {
		return false
	}
	for i := range l {
		if l[i] != o[i] {
			return false
		}
	}
	return true
}

// AddRandom appends one random shape of the given kinds (any kind if none).
func (l *ShapeList) AddRandom(r *rand.Rand, kinds ...Kind) {
	*l = append(*l, RandomShape(r, kinds...))
}

// RemoveShape removes a uniformly chosen shape when more than one is present.
func (l *ShapeList) RemoveShape(r *rand.Rand) {
	s := *l
	if len(s) <= 1 {
		return
	}
	i := r.IntN(len(s))
	*l = slices.Concat(s[:i], s[i+1:])
}

// Mutate perturbs one shape using DefaultTailBias.
func (l ShapeList) Mutate(r *rand.Rand) {
	l.MutateBiased(r, DefaultTailBias)
}

// MutateBiased mutates the last shape with probability tailBias and a
// uniformly chosen shape otherwise. An empty list is left alone.
func (l ShapeList) MutateBiased(r *rand.Rand, tailBias float64) {
	if len(l) == 0 {
		return
	}
	i := len(l) - 1
	if r.Float64() >= tailBias {
		i = r.IntN(len(l))
	}
	l[i] = l[i].Mutate(r)
}

// Swap exchanges two distinct random shapes. Lists shorter than two are unchanged.
func (l ShapeList) Swap(r *rand.Rand) {
	if len(l) < 2 {
		return
	}
	i := r.IntN(len(l))
	j := r.IntN(len(l) - 1)
	if j >= i {
		j++
	}
	l[i], l[j] = l[j], l[i]
}

// DrawOnto draws every shape in order onto c without wiping it first.
func (l ShapeList) DrawOnto(c *Canvas) {
	for _, s := range l {
		s.DrawOnto(c)
	}
}

// DrawItemOnto draws the shape at index i onto c. i must be a valid index.
func (l ShapeList) DrawItemOnto(i int, c *Canvas) {
	l[i].DrawOnto(c)
}

// Render draws l onto a fresh blank canvas.
func (l ShapeList) Render(width, height, depth int) *Canvas {
	c := NewCanvas(width, height, depth)
	l.DrawOnto(c)
	return c
}

// String concatenates the canonical tag of every shape.
func (l ShapeList) String() string {
	var b strings.Builder
	for _, s := range l {
		b.WriteString(s.String())
	}
	return b.String()
}

// SVG renders l as a complete SVG document on a black background.
func (l ShapeList) SVG(width, height int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<svg xmlns='http://www.w3.org/2000/svg' style='background-color: #000;' width='%d' height='%d' >",
		width, height)
	for _, s := range l {
		b.WriteString(s.SVG(width, height))
	}
	b.WriteString("</svg>")
	return b.String()
}
