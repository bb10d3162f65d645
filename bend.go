package flow

// CurveMode selects how the control point of a link curve is displaced
// from the midpoint of its endpoints.
type CurveMode uint8

const (
	// ModeStraight keeps the control point on the midpoint, producing a
	// straight segment.
	ModeStraight CurveMode = iota

	// ModeUp lifts the control point along the world up direction.
	ModeUp

	// ModeSide pushes the control point sideways, perpendicular to both
	// the link direction and up.
	ModeSide

	// ModeArc combines the up and side displacements at reduced strength.
	ModeArc
)

// String returns the mode name.
func (m CurveMode) String() string {
	switch m {
	case ModeStraight:
		return "straight"
	case ModeUp:
		return "up"
	case ModeSide:
		return "side"
	case ModeArc:
		return "arc"
	default:
		return "unknown"
	}
}

// ParseCurveMode maps a mode name to its CurveMode value.
// Unknown names return ModeStraight and false.
func ParseCurveMode(name string) (CurveMode, bool) {
	switch name {
	case "straight", "":
		return ModeStraight, name == "straight"
	case "up":
		return ModeUp, true
	case "side":
		return ModeSide, true
	case "arc":
		return ModeArc, true
	default:
		return ModeStraight, false
	}
}

// DefaultWorldUp is the up direction used when an engine is created
// without [WithWorldUp].
var DefaultWorldUp = Vec3{Y: 1}

// ControlPoint computes the control point of a link curve.
//
// The base position is the midpoint between from and to. A non-straight
// mode displaces it in proportion to the endpoint distance and bend:
// ModeUp lifts along up, ModeSide pushes along the perpendicular of the
// link direction and up, and ModeArc applies both at reduced strength so
// the total sag stays comparable. Degenerate geometry resolves through
// deterministic fallbacks: coincident endpoints return the midpoint, a
// direction parallel to up derives the side vector from world X instead.
//
// bend is expected in [0, 1]; values outside produce proportionally larger
// or inverted displacement. Admission clamping keeps engine-owned links in
// range. A zero up vector falls back to [DefaultWorldUp]; any other up is
// normalized before use.
func ControlPoint(from, to Vec3, mode CurveMode, bend float64, up Vec3) Vec3 {
	m := from.Midpoint(to)
	if mode == ModeStraight || bend == 0 {
		return m
	}
	dir := to.Sub(from)
	if dir.LengthSquared() <= epsZero {
		return m
	}
	dist := dir.Length()
	if up.LengthSquared() <= epsZero {
		up = DefaultWorldUp
	} else {
		up = up.Normalize()
	}
	switch mode {
	case ModeUp:
		return m.Add(up.Mul(dist * bend * 0.6))
	case ModeSide:
		side := Perpendicular(dir, up)
		return m.Add(side.Mul(dist * bend * 0.6))
	case ModeArc:
		side := Perpendicular(dir, up)
		return m.Add(up.Mul(dist * bend * 0.45)).Add(side.Mul(dist * bend * 0.45))
	}
	return m
}
