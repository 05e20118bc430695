// Package lisa approximates an image with a list of translucent shapes.
//
// # Overview
//
// A ShapeList holds circles, rectangles and triangles whose coordinates are
// relative to the canvas (0 to 1), so the same list renders at any size.
// Shapes are drawn in order onto a Canvas, each one compositing its color
// over what is already there with its own opacity.
//
// # Quick Start
//
//	import "github.com/gogpu/lisa"
//
//	r := lisa.NewRand(1)
//	var shapes lisa.ShapeList
//	for range 50 {
//		shapes.AddRandom(r)
//	}
//	canvas := shapes.Render(200, 300, 3)
//	fitness := canvas.Diff(target)
//
// # Canvas Depth
//
// A Canvas stores one, three or four channels per pixel. Depth 1 draws the
// luma of each color, depth 3 draws RGB, and depth 4 adds an alpha channel
// that composites toward 255. Channels are kept as float32 so repeated
// translucent layers do not accumulate rounding error.
//
// # Incremental Rendering
//
// Rendering a long list from scratch for every candidate is the dominant
// cost of a search. The cache package keeps snapshots of rendered prefixes;
// a list that shares a prefix with a snapshot only draws the shapes after it.
// Snapshots are keyed by the quantized shape values, see Shape.AppendKey.
//
// # Searching
//
// The evolve package runs the mutate and select loop, the checkpoint package
// persists its results, and cmd/lisa ties both to the command line.
//
// # Logging
//
// The package logs through log/slog and is silent by default. Call SetLogger
// to route its messages elsewhere.
package lisa
