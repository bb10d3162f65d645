// Package preview renders frames to images on the CPU.
//
// The renderer is a reference host: it consumes the same frame data a GPU
// host uploads (strokes, instance streams, tube meshes) and rasterizes it
// with an orthographic orbit camera, supersampling and font-based glyph
// drawing. Output favors inspection over speed; interactive hosts should
// use the render package instead.
package preview

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/nodewire/flow"
	"github.com/nodewire/flow/glyph"
)

// previewFont is the registry name of the built-in glyph font.
const previewFont = "goregular"

// Options configures a Renderer.
type Options struct {
	// Width and Height are the output image size in pixels.
	Width, Height int

	// Supersample is the oversampling factor rendered internally and
	// downsampled for output. Clamped to [1, 4].
	Supersample int

	// Background is the canvas fill color. Alpha is ignored; the output
	// image is opaque.
	Background flow.RGBA

	// Grid draws a one-unit reference grid on the ground plane.
	Grid bool
}

// DefaultOptions returns the options used for zero-value fields.
func DefaultOptions() Options {
	return Options{
		Width:       960,
		Height:      540,
		Supersample: 2,
		Background:  flow.Hex("#0a0d12"),
		Grid:        true,
	}
}

func (o *Options) clamp() {
	def := DefaultOptions()
	if o.Width <= 0 {
		o.Width = def.Width
	}
	if o.Height <= 0 {
		o.Height = def.Height
	}
	if o.Supersample < 1 {
		o.Supersample = def.Supersample
	}
	if o.Supersample > 4 {
		o.Supersample = 4
	}
	if o.Background.IsZero() {
		o.Background = def.Background
	}
}

// Renderer rasterizes frames into RGBA images. The internal buffers and
// the returned image are reused across Render calls, so a Renderer is not
// safe for concurrent use and callers must copy or encode the result
// before rendering the next frame.
type Renderer struct {
	opts   Options
	buf    *canvas
	out    *image.RGBA
	fnt    *opentype.Font
	faces  map[int]font.Face
	shaper *glyph.Shaper
	flat   []flow.Vec3
}

// NewRenderer creates a renderer with the built-in Go Regular glyph font.
func NewRenderer(opts Options) (*Renderer, error) {
	opts.clamp()
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("preview: parse builtin font: %w", err)
	}
	sh := glyph.NewShaper()
	if err := sh.LoadFont(previewFont, goregular.TTF); err != nil {
		return nil, fmt.Errorf("preview: load builtin font: %w", err)
	}
	return &Renderer{
		opts:   opts,
		fnt:    fnt,
		faces:  make(map[int]font.Face),
		shaper: sh,
	}, nil
}

// Render draws the frame as seen by cam. A nil frame yields the bare
// background. The returned image is owned by the renderer and valid until
// the next Render call.
func (r *Renderer) Render(f *flow.Frame, cam Camera) *image.RGBA {
	ss := r.opts.Supersample
	w, h := r.opts.Width*ss, r.opts.Height*ss
	if r.buf == nil || r.buf.w != w || r.buf.h != h {
		r.buf = newCanvas(w, h)
	}
	r.buf.clear(r.opts.Background)

	vp := newViewport(cam, w, h)
	if r.opts.Grid {
		r.drawGrid(vp, cam)
	}
	if f != nil {
		for _, m := range f.Tubes {
			r.drawTube(vp, m)
		}
		for i := range f.Strokes {
			r.drawStroke(vp, &f.Strokes[i])
		}
		for i := range f.Streams {
			r.drawStream(vp, &f.Streams[i])
		}
	}

	if ss == 1 {
		return r.buf.img
	}
	if r.out == nil || r.out.Bounds().Dx() != r.opts.Width || r.out.Bounds().Dy() != r.opts.Height {
		r.out = image.NewRGBA(image.Rect(0, 0, r.opts.Width, r.opts.Height))
	}
	xdraw.CatmullRom.Scale(r.out, r.out.Bounds(), r.buf.img, r.buf.img.Bounds(), xdraw.Src, nil)
	return r.out
}

// WritePNG renders the frame and encodes it as PNG.
func (r *Renderer) WritePNG(w io.Writer, f *flow.Frame, cam Camera) error {
	if err := png.Encode(w, r.Render(f, cam)); err != nil {
		return fmt.Errorf("preview: encode png: %w", err)
	}
	return nil
}

func (r *Renderer) drawGrid(vp viewport, cam Camera) {
	ext := cam.Extent
	if ext <= 0 {
		ext = DefaultExtent
	}
	n := int(math.Ceil(ext))
	fn := float64(n)
	cx := math.Round(cam.Center.X)
	cz := math.Round(cam.Center.Z)
	col := flow.RGBA{R: 0.12, G: 0.14, B: 0.18, A: 1}
	width := float64(r.opts.Supersample)
	for i := -n; i <= n; i++ {
		fi := float64(i)
		r.line(vp, flow.V(cx-fn, 0, cz+fi), flow.V(cx+fn, 0, cz+fi), width, col, 1)
		r.line(vp, flow.V(cx+fi, 0, cz-fn), flow.V(cx+fi, 0, cz+fn), width, col, 1)
	}
}

func (r *Renderer) line(vp viewport, a, b flow.Vec3, width float64, col flow.RGBA, alpha float64) {
	x0, y0 := vp.point(a)
	x1, y1 := vp.point(b)
	r.buf.strokeSegment(x0, y0, x1, y1, width, col, alpha)
}

// drawTube draws the mesh as a thick emissive centerline with the
// traveling head on top. Ring centers are recovered by averaging each
// cross-section ring of the mesh.
func (r *Renderer) drawTube(vp viewport, m *flow.TubeMesh) {
	rings := len(m.Positions) / flow.TubeRingSize
	if rings < 2 {
		return
	}
	c0 := ringCenter(m, 0)
	radius := m.Positions[0].Distance(c0)
	width := 2 * radius * vp.scale
	col := m.Color.Scale(math.Min(m.Emissive, 1.5))
	alpha := m.Color.A

	px, py := vp.point(c0)
	for i := 1; i < rings; i++ {
		qx, qy := vp.point(ringCenter(m, i))
		r.buf.strokeSegment(px, py, qx, qy, width, col, alpha)
		px, py = qx, qy
	}

	if m.HasHead {
		hx, hy := vp.point(m.HeadPosition)
		head := m.Color.Lerp(flow.RGB(1, 1, 1), 0.65)
		r.buf.glowDot(hx, hy, math.Max(width*1.4, 3), head, 0.9)
	}
}

func ringCenter(m *flow.TubeMesh, i int) flow.Vec3 {
	base := i * flow.TubeRingSize
	var s flow.Vec3
	for _, p := range m.Positions[base : base+flow.TubeRingSize] {
		s = s.Add(p)
	}
	return s.Div(flow.TubeRingSize)
}

func (r *Renderer) drawStroke(vp viewport, s *flow.Stroke) {
	q := flow.NewQuadBez(s.Start, s.Control, s.End)
	r.flat = q.Flatten(flattenSteps(q, vp.scale), r.flat[:0])
	width := s.Width * vp.scale
	alpha := s.Color.A * s.Opacity

	if s.Dash.IsDashed() {
		r.drawDashed(vp, r.flat, s.Dash, width, s.Color, alpha)
		return
	}
	px, py := vp.point(r.flat[0])
	for i := 1; i < len(r.flat); i++ {
		qx, qy := vp.point(r.flat[i])
		r.buf.strokeSegment(px, py, qx, qy, width, s.Color, alpha)
		px, py = qx, qy
	}
}

// flattenSteps picks a segment count for roughly six pixels per segment.
func flattenSteps(q flow.QuadBez, scale float64) int {
	n := int(q.Arclen() * scale / 6)
	if n < 8 {
		return 8
	}
	if n > 256 {
		return 256
	}
	return n
}

// drawDashed walks the flattened polyline in world units, splitting
// segments at dash boundaries. The pattern starts at its normalized
// offset, so scrolling offsets animate across frames.
func (r *Renderer) drawDashed(vp viewport, pts []flow.Vec3, pat *flow.DashPattern, width float64, col flow.RGBA, alpha float64) {
	inDash := pat.NormalizedOffset() < pat.Length
	rem := pat.Length - pat.NormalizedOffset()
	if !inDash {
		rem = pat.CycleLength() - pat.NormalizedOffset()
	}
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		segLen := a.Distance(b)
		if segLen <= 0 {
			continue
		}
		done := 0.0
		for done < segLen-1e-9 {
			step := math.Min(rem, segLen-done)
			if inDash {
				x0, y0 := vp.point(a.Lerp(b, done/segLen))
				x1, y1 := vp.point(a.Lerp(b, (done+step)/segLen))
				r.buf.strokeSegment(x0, y0, x1, y1, width, col, alpha)
			}
			done += step
			rem -= step
			if rem <= 1e-9 {
				inDash = !inDash
				rem = pat.Gap
				if inDash {
					rem = pat.Length
				}
			}
		}
	}
}

func (r *Renderer) drawStream(vp viewport, st *flow.Stream) {
	if st.Glyph != 0 {
		for i := range st.Instances {
			r.drawGlyph(vp, &st.Instances[i], st.Glyph)
		}
		return
	}
	for i := range st.Instances {
		in := &st.Instances[i]
		x, y := vp.point(in.Position)
		size := in.Size * vp.scale
		col := in.Color
		alpha := col.A * in.Opacity
		switch st.Shape {
		case flow.ShapeBox:
			h := size / 2
			r.buf.fillQuad([4][2]float64{
				{x - h, y - h}, {x + h, y - h}, {x + h, y + h}, {x - h, y + h},
			}, col, alpha)
		case flow.ShapeOcta:
			h := size * 0.707
			r.buf.fillQuad([4][2]float64{
				{x, y - h}, {x + h, y}, {x, y + h}, {x - h, y},
			}, col, alpha)
		case flow.ShapeSpark:
			dx, dy := vp.dir(in.Tangent)
			if dx == 0 && dy == 0 {
				dx = 1
			}
			lh, sh := size*1.6, size*0.28
			nx, ny := -dy, dx
			r.buf.fillQuad([4][2]float64{
				{x - dx*lh - nx*sh, y - dy*lh - ny*sh},
				{x + dx*lh - nx*sh, y + dy*lh - ny*sh},
				{x + dx*lh + nx*sh, y + dy*lh + ny*sh},
				{x - dx*lh + nx*sh, y - dy*lh + ny*sh},
			}, col, alpha)
		default:
			r.buf.fillDot(x, y, size/2, col, alpha)
		}
	}
}

// drawGlyph rasterizes one icon instance with the built-in font. The
// shaper supplies the advance for horizontal centering; the baseline sits
// half a cap height below the instance center.
func (r *Renderer) drawGlyph(vp viewport, in *flow.Instance, g rune) {
	sizePx := int(math.Round(in.Size * vp.scale))
	if sizePx < 4 {
		sizePx = 4
	}
	if sizePx > 512 {
		sizePx = 512
	}
	face, err := r.face(sizePx)
	if err != nil {
		flow.Logger().Debug("preview: create face", "size", sizePx, "err", err)
		return
	}
	info, err := r.shaper.Shape(previewFont, g, float64(sizePx))
	if err != nil {
		flow.Logger().Debug("preview: shape glyph", "rune", string(g), "err", err)
		return
	}

	x, y := vp.point(in.Position)
	met := face.Metrics()
	half := float64(met.CapHeight) / 64 / 2
	if half <= 0 {
		half = float64(met.Ascent) / 64 * 0.35
	}
	alpha := in.Color.A * in.Opacity
	d := &font.Drawer{
		Dst:  r.buf.img,
		Src:  image.NewUniform(in.Color.WithAlpha(alpha).Color()),
		Face: face,
		Dot: fixed.Point26_6{
			X: floatFixed(x - info.Advance/2 + info.XOffset),
			Y: floatFixed(y + half - info.YOffset),
		},
	}
	d.DrawString(string(g))
}

func (r *Renderer) face(size int) (font.Face, error) {
	if f, ok := r.faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(r.fnt, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	r.faces[size] = f
	return f, nil
}

func floatFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}
