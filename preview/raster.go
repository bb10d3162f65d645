package preview

import (
	"image"
	"image/draw"
	"math"
	"sort"

	"github.com/nodewire/flow"
)

// canvas wraps an RGBA image with float-space source-over blending. All
// coordinates are pixels in the supersampled buffer; coverage smoothing
// beyond the one-pixel edge ramps comes from downsampling.
type canvas struct {
	img  *image.RGBA
	w, h int
}

func newCanvas(w, h int) *canvas {
	return &canvas{img: image.NewRGBA(image.Rect(0, 0, w, h)), w: w, h: h}
}

// clear fills the canvas with an opaque color.
func (c *canvas) clear(col flow.RGBA) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(col.WithAlpha(1).Color()), image.Point{}, draw.Src)
}

// blend composites col over the pixel at (x, y) with the given alpha.
// The pixel store is premultiplied, matching image.RGBA.
func (c *canvas) blend(x, y int, col flow.RGBA, a float64) {
	if x < 0 || x >= c.w || y < 0 || y >= c.h || a <= 0 {
		return
	}
	if a > 1 {
		a = 1
	}
	off := y*c.img.Stride + x*4
	p := c.img.Pix
	p[off+0] = blend8(p[off+0], col.R, a)
	p[off+1] = blend8(p[off+1], col.G, a)
	p[off+2] = blend8(p[off+2], col.B, a)
	p[off+3] = blend8(p[off+3], 1, a)
}

func blend8(dst uint8, src, a float64) uint8 {
	v := src*a*255 + float64(dst)*(1-a)
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// strokeSegment draws a line segment of the given width with round caps.
// Coverage falls off over one pixel at the edge.
func (c *canvas) strokeSegment(x0, y0, x1, y1, width float64, col flow.RGBA, alpha float64) {
	hw := width / 2
	if hw < 0.35 {
		hw = 0.35
	}
	minX := int(math.Floor(math.Min(x0, x1) - hw - 1))
	maxX := int(math.Ceil(math.Max(x0, x1) + hw + 1))
	minY := int(math.Floor(math.Min(y0, y1) - hw - 1))
	maxY := int(math.Ceil(math.Max(y0, y1) + hw + 1))
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX > c.w {
		maxX = c.w
	}
	if maxY > c.h {
		maxY = c.h
	}

	dx, dy := x1-x0, y1-y0
	len2 := dx*dx + dy*dy
	for y := minY; y < maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x < maxX; x++ {
			px := float64(x) + 0.5
			t := 0.0
			if len2 > 0 {
				t = ((px-x0)*dx + (py-y0)*dy) / len2
				if t < 0 {
					t = 0
				} else if t > 1 {
					t = 1
				}
			}
			ddx := px - (x0 + t*dx)
			ddy := py - (y0 + t*dy)
			cov := hw - math.Hypot(ddx, ddy) + 0.5
			if cov <= 0 {
				continue
			}
			if cov > 1 {
				cov = 1
			}
			c.blend(x, y, col, alpha*cov)
		}
	}
}

// fillDot draws a solid disc with a one-pixel antialiased edge.
func (c *canvas) fillDot(cx, cy, r float64, col flow.RGBA, alpha float64) {
	c.strokeSegment(cx, cy, cx, cy, 2*r, col, alpha)
}

// glowDot draws a soft disc whose coverage falls off quadratically toward
// the rim, for glow and head markers.
func (c *canvas) glowDot(cx, cy, r float64, col flow.RGBA, alpha float64) {
	if r < 0.5 {
		r = 0.5
	}
	minX := int(math.Floor(cx - r))
	maxX := int(math.Ceil(cx + r))
	minY := int(math.Floor(cy - r))
	maxY := int(math.Ceil(cy + r))
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX > c.w {
		maxX = c.w
	}
	if maxY > c.h {
		maxY = c.h
	}
	for y := minY; y < maxY; y++ {
		for x := minX; x < maxX; x++ {
			d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy)
			if d >= r {
				continue
			}
			f := 1 - d/r
			c.blend(x, y, col, alpha*f*f)
		}
	}
}

// fillQuad scanline-fills a convex quad. Edges are hard; the supersampled
// buffer is downsampled for smoothing.
func (c *canvas) fillQuad(q [4][2]float64, col flow.RGBA, alpha float64) {
	minY := math.Min(math.Min(q[0][1], q[1][1]), math.Min(q[2][1], q[3][1]))
	maxY := math.Max(math.Max(q[0][1], q[1][1]), math.Max(q[2][1], q[3][1]))
	y0 := int(math.Floor(minY))
	y1 := int(math.Ceil(maxY))
	if y0 < 0 {
		y0 = 0
	}
	if y1 > c.h {
		y1 = c.h
	}

	var nodes []float64
	for y := y0; y < y1; y++ {
		fy := float64(y) + 0.5
		nodes = nodes[:0]
		for i := 0; i < 4; i++ {
			a, b := q[i], q[(i+1)%4]
			if (a[1] < fy && b[1] >= fy) || (b[1] < fy && a[1] >= fy) {
				nodes = append(nodes, a[0]+(fy-a[1])/(b[1]-a[1])*(b[0]-a[0]))
			}
		}
		sort.Float64s(nodes)
		for i := 0; i+1 < len(nodes); i += 2 {
			xs := int(math.Round(nodes[i]))
			xe := int(math.Round(nodes[i+1]))
			if xs < 0 {
				xs = 0
			}
			if xe > c.w {
				xe = c.w
			}
			for x := xs; x < xe; x++ {
				c.blend(x, y, col, alpha)
			}
		}
	}
}
