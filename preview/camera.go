package preview

import (
	"math"

	"github.com/nodewire/flow"
)

// DefaultExtent is the world-unit span mapped to the image height when a
// camera has no extent set.
const DefaultExtent = 6.0

// Camera is an orthographic orbit camera. It looks at Center from the
// direction given by Yaw and Pitch; Extent is the world-unit span mapped
// to the image height, so smaller extents zoom in.
type Camera struct {
	// Center is the look-at point.
	Center flow.Vec3

	// Yaw is the orbit angle around the world Y axis, in radians.
	Yaw float64

	// Pitch is the elevation above the horizon, in radians.
	Pitch float64

	// Extent is the world-unit span of the image height. Values at or
	// below zero fall back to DefaultExtent.
	Extent float64
}

// DefaultCamera returns a camera with a gentle three-quarter view of the
// origin.
func DefaultCamera() Camera {
	return Camera{Yaw: 0.6, Pitch: 0.35, Extent: DefaultExtent}
}

// basis returns the screen-right, screen-up and toward-camera axes.
// At zero yaw and pitch the camera sits on +Z looking at -Z, so screen
// right is world X and screen up is world Y.
func (c Camera) basis() (right, up, toward flow.Vec3) {
	toward = flow.V(
		math.Sin(c.Yaw)*math.Cos(c.Pitch),
		math.Sin(c.Pitch),
		math.Cos(c.Yaw)*math.Cos(c.Pitch),
	)
	right = flow.V(0, 1, 0).Cross(toward)
	if right.LengthSquared() < 1e-12 {
		// Looking straight down or up; derive right from yaw alone.
		right = flow.V(math.Cos(c.Yaw), 0, -math.Sin(c.Yaw))
	}
	right = right.Normalize()
	up = toward.Cross(right).Normalize()
	return right, up, toward
}

// Project maps a world point to view-plane coordinates in world units,
// centered on Center with y growing upward. Depth grows toward the
// camera, so larger depths draw in front.
func (c Camera) Project(p flow.Vec3) (x, y, depth float64) {
	right, up, toward := c.basis()
	rel := p.Sub(c.Center)
	return rel.Dot(right), rel.Dot(up), rel.Dot(toward)
}

// FitCamera returns a camera at the given orbit angles framing all frame
// content with a small margin. An empty frame yields DefaultExtent around
// the origin.
func FitCamera(f *flow.Frame, yaw, pitch float64) Camera {
	var lo, hi flow.Vec3
	seen := false
	add := func(p flow.Vec3) {
		if !seen {
			lo, hi = p, p
			seen = true
			return
		}
		lo = flow.V(math.Min(lo.X, p.X), math.Min(lo.Y, p.Y), math.Min(lo.Z, p.Z))
		hi = flow.V(math.Max(hi.X, p.X), math.Max(hi.Y, p.Y), math.Max(hi.Z, p.Z))
	}

	if f != nil {
		for i := range f.Strokes {
			s := &f.Strokes[i]
			add(s.Start)
			add(s.Control)
			add(s.End)
		}
		for i := range f.Streams {
			for j := range f.Streams[i].Instances {
				add(f.Streams[i].Instances[j].Position)
			}
		}
		for _, m := range f.Tubes {
			for _, p := range m.Positions {
				add(p)
			}
			if m.HasHead {
				add(m.HeadPosition)
			}
		}
	}

	cam := Camera{Yaw: yaw, Pitch: pitch, Extent: DefaultExtent}
	if !seen {
		return cam
	}
	cam.Center = lo.Midpoint(hi)
	ext := hi.Sub(lo).Length() * 1.15
	if ext < 1 {
		ext = 1
	}
	cam.Extent = ext
	return cam
}

// viewport folds a camera and an image size into a single pixel mapping,
// computed once per rendered frame.
type viewport struct {
	right, up flow.Vec3
	center    flow.Vec3
	scale     float64
	halfW     float64
	halfH     float64
}

func newViewport(cam Camera, w, h int) viewport {
	right, up, _ := cam.basis()
	ext := cam.Extent
	if ext <= 0 {
		ext = DefaultExtent
	}
	return viewport{
		right:  right,
		up:     up,
		center: cam.Center,
		scale:  float64(h) / ext,
		halfW:  float64(w) / 2,
		halfH:  float64(h) / 2,
	}
}

// point maps a world point to pixel coordinates.
func (vp viewport) point(p flow.Vec3) (x, y float64) {
	rel := p.Sub(vp.center)
	return vp.halfW + rel.Dot(vp.right)*vp.scale,
		vp.halfH - rel.Dot(vp.up)*vp.scale
}

// dir maps a world direction to a unit pixel-space direction. Directions
// perpendicular to the view plane return a zero vector.
func (vp viewport) dir(d flow.Vec3) (x, y float64) {
	x = d.Dot(vp.right)
	y = -d.Dot(vp.up)
	n := math.Hypot(x, y)
	if n < 1e-12 {
		return 0, 0
	}
	return x / n, y / n
}
