package lisa

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// Kind identifies a Shape variant.
type Kind uint8

// Shape kinds.
const (
	KindCircle Kind = iota + 1
	KindRect
	KindTriangle
)

// AllKinds lists every shape kind in declaration order.
var AllKinds = []Kind{KindCircle, KindRect, KindTriangle}

// String returns the lowercase kind name used in JSON records and configuration.
func (k Kind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindRect:
		return "rect"
	case KindTriangle:
		return "triangle"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for _, k := range AllKinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("lisa: unknown shape kind %q", s)
}

// Shape is one of Circle, Rect or Triangle. The set is closed: the unexported
// method keeps other packages from adding variants.
//
// All positional attributes live in normalized [0, 1] space and are scaled by
// the canvas size only when drawing or exporting. Shapes are values; Mutate
// returns a modified copy.
type Shape interface {
	// Kind reports the variant.
	Kind() Kind

	// Paint returns the fill color.
	Paint() Color

	// Mutate returns a copy with one attribute perturbed.
	Mutate(r *rand.Rand) Shape

	// SVG renders the shape as an SVG element for a width x height document.
	SVG(width, height int) string

	// String returns the canonical fixed-precision tag, e.g.
	// <C0.500000,0.500000,0.300,rgba(255,0,0,1.0000)>.
	String() string

	// DrawOnto composites the shape onto c.
	DrawOnto(c *Canvas)

	// AppendKey appends the quantized representation used for cache hashing.
	AppendKey(dst []byte) []byte

	sealed()
}

// RandomShape returns a random shape of one of the given kinds, chosen
// uniformly. With no kinds every variant is eligible.
func RandomShape(r *rand.Rand, kinds ...Kind) Shape {
	if len(kinds) == 0 {
		kinds = AllKinds
	}
	switch kinds[r.IntN(len(kinds))] {
	case KindRect:
		return RandomRect(r)
	case KindTriangle:
		return RandomTriangle(r)
	default:
		return RandomCircle(r)
	}
}

func appendQuantized(dst []byte, vs ...float64) []byte {
	for _, v := range vs {
		dst = binary.LittleEndian.AppendUint64(dst, uint64(Quantize(v)))
	}
	return dst
}

func appendColorKey(dst []byte, c Color) []byte {
	for _, v := range c.Key() {
		dst = binary.LittleEndian.AppendUint64(dst, uint64(v))
	}
	return dst
}

// scale maps a normalized coordinate onto n pixels, truncating toward zero.
func scale(v float64, n int) int {
	return int(v * float64(n))
}
