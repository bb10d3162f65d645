package flow

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
)

// Arclen computes the arc length of the curve.
//
// Based on the closed-form solution for quadratic Bézier arc length. The
// analytic formula is numerically unstable when the curve is very close to
// a straight line, so that case falls back to a three-point Legendre-Gauss
// quadrature. A fully collapsed curve returns its chord length (zero).
func (q QuadBez) Arclen() float64 {
	d2 := q.P0.Sub(q.P1.Mul(2.0)).Add(q.P2)
	a := d2.LengthSquared()
	d1 := q.P1.Sub(q.P0)
	c := d1.LengthSquared()
	if a <= epsZero && c <= epsZero {
		return q.P2.Sub(q.P0).Length()
	}
	if a < 5e-4*c {
		// Nearly straight Bézier; three-point quadrature is exact enough
		// and avoids the log-term instability below.
		v0 := q.P0.Mul(-0.492943519233745).
			Add(q.P1.Mul(0.430331482911935)).
			Add(q.P2.Mul(0.0626120363218102)).
			Length()
		v1 := q.P2.Sub(q.P0).Mul(0.4444444444444444).Length()
		v2 := q.P0.Mul(-0.0626120363218102).
			Sub(q.P1.Mul(0.430331482911935)).
			Add(q.P2.Mul(0.492943519233745)).
			Length()
		return v0 + v1 + v2
	}
	b := 2.0 * d2.Dot(d1)

	sabc := math.Sqrt(a + b + c)
	a2 := math.Pow(a, -0.5)
	a32 := a2 * a2 * a2
	c2 := 2.0 * math.Sqrt(c)
	baC2 := b*a2 + c2

	v0 := 0.25*a2*a2*b*(2.0*sabc-c2) + sabc
	if baC2 < 1e-13 {
		// Curve with a sharp kink.
		return v0
	}
	return v0 + 0.25*a32*(4.0*c*a-b*b)*math.Log(((2.0*a+b)*a2+2.0*sabc)/baC2)
}

// ArcTable maps arc-length fractions back to curve parameters so samples
// can be placed at uniform distances along a curve instead of uniform
// parameter steps. Parameter speed varies along a quadratic Bézier, so
// uniform t spacing visually bunches samples near strong bends.
type ArcTable struct {
	total      float64
	inv        interp.PiecewiseLinear
	degenerate bool
}

// BuildArcTable samples the curve at n+1 parameters, accumulates segment
// lengths, and fits a piecewise-linear inverse from cumulative length to
// parameter. n values below 2 are raised to 2. The table is only valid for
// the curve geometry it was built from; rebuild after the curve moves.
func BuildArcTable(q QuadBez, n int) *ArcTable {
	if n < 2 {
		n = 2
	}
	ts := make([]float64, n+1)
	seg := make([]float64, n+1)
	prev := q.Eval(0)
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		ts[i] = t
		p := q.Eval(t)
		seg[i] = p.Distance(prev)
		prev = p
	}
	cum := make([]float64, n+1)
	floats.CumSum(cum, seg)

	at := &ArcTable{total: cum[n]}
	if at.total <= epsZero {
		at.degenerate = true
		return at
	}
	if err := at.inv.Fit(cum, ts); err != nil {
		// Zero-length segments break strict monotonicity; parameter
		// spacing is as good as it gets for such geometry.
		at.degenerate = true
	}
	return at
}

// Length returns the total arc length recorded by the table.
func (at *ArcTable) Length() float64 {
	return at.total
}

// ParamAt returns the curve parameter at arc-length fraction f in [0, 1].
// Out-of-range fractions clamp. Degenerate tables return f unchanged.
func (at *ArcTable) ParamAt(f float64) float64 {
	if f <= 0 {
		return 0
	}
	if f >= 1 {
		return 1
	}
	if at.degenerate {
		return f
	}
	return at.inv.Predict(f * at.total)
}

// EvenParams appends n curve parameters spaced at equal arc-length
// intervals (including both endpoints) to dst and returns the extended
// slice.
func (at *ArcTable) EvenParams(n int, dst []float64) []float64 {
	if n < 2 {
		n = 2
	}
	for i := 0; i < n; i++ {
		dst = append(dst, at.ParamAt(float64(i)/float64(n-1)))
	}
	return dst
}
