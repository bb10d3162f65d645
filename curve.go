package flow

import "math"

// epsZero is the squared length below which a vector is treated as zero
// when deriving directions from degenerate geometry.
const epsZero = 1e-12

// QuadBez is a single quadratic Bézier segment in 3D space.
//
// P0 and P2 are the endpoints; P1 is the control point. Link curves keep
// P0 and P2 glued to the endpoint nodes every frame while P1 carries the
// bend and noise displacement, so a QuadBez is cheap to update in place.
type QuadBez struct {
	P0, P1, P2 Vec3
}

// NewQuadBez creates a quadratic Bézier from its three control points.
func NewQuadBez(p0, p1, p2 Vec3) QuadBez {
	return QuadBez{P0: p0, P1: p1, P2: p2}
}

// Eval evaluates the curve at parameter t.
// t=0 returns P0, t=1 returns P2; t is not clamped.
func (q QuadBez) Eval(t float64) Vec3 {
	mt := 1.0 - t
	a := q.P0.Mul(mt * mt)
	b := q.P1.Mul(mt * 2.0)
	c := q.P2.Mul(t)
	d := b.Add(c)
	return a.Add(d.Mul(t))
}

// Deriv evaluates the derivative of the curve at parameter t.
// The result is unnormalized; its length is the parametric speed.
func (q QuadBez) Deriv(t float64) Vec3 {
	a := q.P1.Sub(q.P0).Mul(2.0 * (1.0 - t))
	b := q.P2.Sub(q.P1).Mul(2.0 * t)
	return a.Add(b)
}

// UnitTangent returns the normalized direction of travel at parameter t.
// Where the derivative vanishes it falls back to the chord direction, and
// for a fully collapsed curve to world X, so callers never receive a zero
// tangent.
func (q QuadBez) UnitTangent(t float64) Vec3 {
	d := q.Deriv(t)
	if d.LengthSquared() > epsZero {
		return d.Normalize()
	}
	chord := q.P2.Sub(q.P0)
	if chord.LengthSquared() > epsZero {
		return chord.Normalize()
	}
	return Vec3{X: 1}
}

// UnitNormal returns a unit vector perpendicular to the tangent at t,
// oriented toward up. Wave displacement for particle streams rides along
// this vector. The same fallback chain as [Perpendicular] keeps the result
// well defined when the tangent is parallel to up.
func (q QuadBez) UnitNormal(t float64, up Vec3) Vec3 {
	return normalFrom(q.UnitTangent(t), up)
}

// normalFrom derives the up-oriented unit normal from an already computed
// unit tangent, saving the tangent recomputation in sampler loops.
func normalFrom(tan, up Vec3) Vec3 {
	side := Perpendicular(tan, up)
	return side.Cross(tan).Normalize()
}

// Subdivide splits the curve at t=0.5 into two halves that together trace
// the same path.
func (q QuadBez) Subdivide() (QuadBez, QuadBez) {
	pm := q.Eval(0.5)
	return QuadBez{P0: q.P0, P1: q.P0.Midpoint(q.P1), P2: pm},
		QuadBez{P0: pm, P1: q.P1.Midpoint(q.P2), P2: q.P2}
}

// Chord returns the straight-line distance between the endpoints.
func (q QuadBez) Chord() float64 {
	return q.P2.Sub(q.P0).Length()
}

// Flatten appends n line segments (n+1 points, evenly spaced in parameter)
// approximating the curve to dst and returns the extended slice.
// n values below 1 are treated as 1.
func (q QuadBez) Flatten(n int, dst []Vec3) []Vec3 {
	if n < 1 {
		n = 1
	}
	for i := 0; i <= n; i++ {
		dst = append(dst, q.Eval(float64(i)/float64(n)))
	}
	return dst
}

// Perpendicular returns a unit vector perpendicular to dir, preferring the
// plane spanned by dir and up. When dir is parallel to up the result is
// derived from world X instead, and for dir parallel to both the world Z
// axis is returned. The chain is deterministic: equal inputs always produce
// equal outputs, so degenerate link geometry stays stable across frames.
func Perpendicular(dir, up Vec3) Vec3 {
	side := dir.Cross(up)
	if side.LengthSquared() > epsZero {
		return side.Normalize()
	}
	side = dir.Cross(Vec3{X: 1})
	if side.LengthSquared() > epsZero {
		return side.Normalize()
	}
	return Vec3{Z: 1}
}

// frac returns the fractional part of x wrapped into [0, 1).
// Negative inputs wrap from the top so phases can run backward.
func frac(x float64) float64 {
	f := x - math.Floor(x)
	if f >= 1.0 { // guard against float rounding at exact integers
		return 0
	}
	return f
}
