package lisa

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
)

// Canvas errors.
var (
	// ErrDepth is returned for a channel depth other than 1, 3 or 4.
	ErrDepth = errors.New("lisa: unsupported canvas depth")

	// ErrBufferSize is returned when a pixel buffer does not hold width*height*depth bytes.
	ErrBufferSize = errors.New("lisa: pixel buffer size mismatch")
)

// Canvas is a row-major, channel-interleaved raster buffer.
//
// Depth selects the channel layout: 1 is grayscale, 3 is RGB, 4 is RGBA.
// Channels accumulate as float32 so that long chains of composites do not
// compound byte rounding; bytes are produced only by Bytes and At.
//
// The buffer length is always Width*Height*Depth and never changes.
// A Canvas is not safe for concurrent mutation.
type Canvas struct {
	width  int
	height int
	depth  int
	pix    []float32
}

// NewCanvas creates a zero-filled canvas.
// It panics if the dimensions are not positive or the depth is unsupported.
func NewCanvas(width, height, depth int) *Canvas {
	if err := checkDims(width, height, depth); err != nil {
		panic(err)
	}
	return &Canvas{
		width:  width,
		height: height,
		depth:  depth,
		pix:    make([]float32, width*height*depth),
	}
}

// CanvasFrom wraps decoded image bytes as a canvas. The bytes are widened to
// the accumulator type unchanged.
func CanvasFrom(width, height, depth int, data []byte) (*Canvas, error) {
	if err := checkDims(width, height, depth); err != nil {
		return nil, err
	}
	if len(data) != width*height*depth {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrBufferSize, len(data), width*height*depth)
	}
	c := &Canvas{
		width:  width,
		height: height,
		depth:  depth,
		pix:    make([]float32, len(data)),
	}
	for i, b := range data {
		c.pix[i] = float32(b)
	}
	return c, nil
}

func checkDims(width, height, depth int) error {
	if depth != 1 && depth != 3 && depth != 4 {
		return fmt.Errorf("%w: %d", ErrDepth, depth)
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("lisa: invalid canvas size %dx%d", width, height)
	}
	return nil
}

// Width returns the width in pixels.
func (c *Canvas) Width() int { return c.width }

// Height returns the height in pixels.
func (c *Canvas) Height() int { return c.height }

// Depth returns the number of channels per pixel.
func (c *Canvas) Depth() int { return c.depth }

// Len returns the number of channel elements in the buffer.
func (c *Canvas) Len() int { return len(c.pix) }

// Clone returns an independent copy of c.
func (c *Canvas) Clone() *Canvas {
	pix := make([]float32, len(c.pix))
	copy(pix, c.pix)
	return &Canvas{width: c.width, height: c.height, depth: c.depth, pix: pix}
}

// Equal reports whether c and o have the same dimensions and identical buffers.
func (c *Canvas) Equal(o *Canvas) bool {
	if c.width != o.width || c.height != o.height || c.depth != o.depth {
		return false
	}
	for i, v := range c.pix {
		if v != o.pix[i] {
			return false
		}
	}
	return true
}

// Wipe resets every element to zero.
func (c *Canvas) Wipe() {
	clear(c.pix)
}

// AddPixel composites col onto the pixel at (x, y) using col's opacity as the
// blend weight. Coordinates outside the canvas are ignored.
func (c *Canvas) AddPixel(x, y int, col Color) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	c.blend((y*c.width+x)*c.depth, 1, col)
}

// LineAdd composites col onto the horizontal run [x1, x2) of row y.
// The run is clipped to the canvas; a row outside the canvas is a no-op.
func (c *Canvas) LineAdd(x1, x2, y int, col Color) {
	if y < 0 || y >= c.height {
		return
	}
	x1 = max(x1, 0)
	x2 = min(x2, c.width)
	if x1 >= x2 {
		return
	}
	c.blend((y*c.width+x1)*c.depth, x2-x1, col)
}

// blend composites col onto n consecutive pixels starting at element i.
func (c *Canvas) blend(i, n int, col Color) {
	o := float32(col.Opacity)
	end := i + n*c.depth
	switch c.depth {
	case 1:
		l := col.Luma()
		for ; i < end; i++ {
			c.pix[i] = Composite(c.pix[i], l, o)
		}
	case 3:
		r, g, b := float32(col.R), float32(col.G), float32(col.B)
		for ; i < end; i += 3 {
			c.pix[i+0] = Composite(c.pix[i+0], r, o)
			c.pix[i+1] = Composite(c.pix[i+1], g, o)
			c.pix[i+2] = Composite(c.pix[i+2], b, o)
		}
	case 4:
		r, g, b := float32(col.R), float32(col.G), float32(col.B)
		for ; i < end; i += 4 {
			c.pix[i+0] = Composite(c.pix[i+0], r, o)
			c.pix[i+1] = Composite(c.pix[i+1], g, o)
			c.pix[i+2] = Composite(c.pix[i+2], b, o)
			c.pix[i+3] = Composite(c.pix[i+3], 255, o)
		}
	}
}

// Diff returns the sum of squared differences between corresponding elements
// of c and o. It panics if the buffers differ in size.
func (c *Canvas) Diff(o *Canvas) float64 {
	mustMatch(c, o)
	var total float64
	for i, v := range c.pix {
		d := float64(v - o.pix[i])
		total += d * d
	}
	return total
}

// WeightedDiff is Diff with every squared term scaled by (1 + weights[i]*scale).
// It panics if the three buffers differ in size.
func (c *Canvas) WeightedDiff(o, weights *Canvas, scale float64) float64 {
	mustMatch(c, o)
	mustMatch(c, weights)
	var total float64
	for i, v := range c.pix {
		d := float64(v - o.pix[i])
		total += d * d * (1 + float64(weights.pix[i])*scale)
	}
	return total
}

func mustMatch(a, b *Canvas) {
	if len(a.pix) != len(b.pix) {
		panic(fmt.Sprintf("lisa: canvas size mismatch: %dx%dx%d vs %dx%dx%d",
			a.width, a.height, a.depth, b.width, b.height, b.depth))
	}
}

// PixelAt returns the color at (x, y). Out-of-range coordinates yield Black.
func (c *Canvas) PixelAt(x, y int) Color {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return Black
	}
	i := (y*c.width + x) * c.depth
	switch c.depth {
	case 1:
		v := toByte(c.pix[i])
		return Color{R: v, G: v, B: v, Opacity: 1}
	case 4:
		return Color{
			R:       toByte(c.pix[i+0]),
			G:       toByte(c.pix[i+1]),
			B:       toByte(c.pix[i+2]),
			Opacity: float64(toByte(c.pix[i+3])) / 255,
		}
	default:
		return Color{R: toByte(c.pix[i+0]), G: toByte(c.pix[i+1]), B: toByte(c.pix[i+2]), Opacity: 1}
	}
}

// NeighborsDiffSq sums the squared RGB distance between (x, y) and every other
// pixel of the square neighborhood of the given radius. Neighbors outside the
// canvas are skipped.
func (c *Canvas) NeighborsDiffSq(x, y, radius int) int64 {
	p := c.PixelAt(x, y)
	var total int64
	for ny := max(y-radius, 0); ny <= min(y+radius, c.height-1); ny++ {
		for nx := max(x-radius, 0); nx <= min(x+radius, c.width-1); nx++ {
			if nx == x && ny == y {
				continue
			}
			q := c.PixelAt(nx, ny)
			dr := int64(p.R) - int64(q.R)
			dg := int64(p.G) - int64(q.G)
			db := int64(p.B) - int64(q.B)
			total += dr*dr + dg*dg + db*db
		}
	}
	return total
}

// Bytes returns the buffer rounded and clamped to bytes.
func (c *Canvas) Bytes() []byte {
	out := make([]byte, len(c.pix))
	for i, v := range c.pix {
		out[i] = toByte(v)
	}
	return out
}

func toByte(v float32) uint8 {
	return uint8(math.Round(float64(max(0, min(v, 255)))))
}

// Bounds implements the image.Image interface.
func (c *Canvas) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.width, c.height)
}

// ColorModel implements the image.Image interface.
func (c *Canvas) ColorModel() color.Model {
	if c.depth == 1 {
		return color.GrayModel
	}
	return color.NRGBAModel
}

// At implements the image.Image interface.
func (c *Canvas) At(x, y int) color.Color {
	p := c.PixelAt(x, y)
	if c.depth == 1 {
		return color.Gray{Y: p.R}
	}
	return p.NRGBA()
}
