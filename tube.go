package flow

import "math"

// Tube topology and animation constants. Topology is fixed so vertex and
// index buffers are allocated once per link and updated in place; hosts
// can keep them bound for the lifetime of the link.
const (
	// tubeRadialSegments is the number of vertices in each cross-section
	// ring.
	tubeRadialSegments = 12

	// tubeLengthSegments is the number of segments along the curve.
	tubeLengthSegments = 240

	// headPhaseRate scales the traveling head speed relative to link
	// speed.
	headPhaseRate = 0.12

	// Glow pulse parameters.
	pulseBase = 0.85
	pulseAmp  = 0.15
	pulseRate = 1.7

	// selectedGlowFactor boosts emissive strength on selected links.
	selectedGlowFactor = 1.2
)

// TubeVertexCount and TubeIndexCount follow from the fixed topology.
// TubeRingSize is the vertex count of one cross-section ring; hosts that
// process rings instead of drawing the index list can slice Positions in
// runs of TubeRingSize.
const (
	TubeVertexCount = (tubeLengthSegments + 1) * tubeRadialSegments
	TubeIndexCount  = tubeLengthSegments * tubeRadialSegments * 6
	TubeRingSize    = tubeRadialSegments
)

// ringSin and ringCos hold the cross-section unit circle, computed once.
var ringSin, ringCos [tubeRadialSegments]float64

func init() {
	for j := range ringSin {
		a := 2 * math.Pi * float64(j) / tubeRadialSegments
		ringSin[j] = math.Sin(a)
		ringCos[j] = math.Cos(a)
	}
}

// TubeMesh is the retained geometry of one tube-styled link. The mesh is
// allocated when the link first renders as a tube and mutated in place on
// later frames. Revision counters tell hosts what to re-upload:
// TopoRevision covers Indices, GeomRevision covers Positions and Normals.
// Emissive and the head fields change every animated frame and are meant
// to be cheap uniforms rather than buffer uploads.
type TubeMesh struct {
	// Link identifies the link this mesh belongs to.
	Link LinkID

	// Positions holds (tubeLengthSegments+1) rings of tubeRadialSegments
	// vertices each, ordered ring by ring from curve start to end.
	Positions []Vec3

	// Normals holds the outward unit normal per vertex.
	Normals []Vec3

	// Indices triangulates the surface, two triangles per quad.
	Indices []uint32

	// Color is the tube surface color.
	Color RGBA

	// Emissive is the current glow strength.
	Emissive float64

	// HasHead reports whether the traveling head is present this frame.
	HasHead bool

	// HeadT, HeadPosition and HeadTangent locate and orient the head on
	// the curve.
	HeadT        float64
	HeadPosition Vec3
	HeadTangent  Vec3

	// GeomRevision increments whenever Positions or Normals change.
	GeomRevision uint64

	// TopoRevision increments whenever Indices change.
	TopoRevision uint64

	lastCurve  QuadBez
	lastRadius float64
	lastUp     Vec3
}

// newTubeMesh allocates the mesh buffers and builds the index topology.
func newTubeMesh(id LinkID) *TubeMesh {
	m := &TubeMesh{
		Link:      id,
		Positions: make([]Vec3, TubeVertexCount),
		Normals:   make([]Vec3, TubeVertexCount),
		Indices:   make([]uint32, 0, TubeIndexCount),
	}
	m.buildIndices()
	return m
}

// buildIndices triangulates the fixed ring topology. The segment counts
// never change for the life of a mesh, so this runs once.
func (m *TubeMesh) buildIndices() {
	m.Indices = m.Indices[:0]
	for r := 0; r < tubeLengthSegments; r++ {
		ring := uint32(r * tubeRadialSegments)
		next := ring + tubeRadialSegments
		for j := 0; j < tubeRadialSegments; j++ {
			a := ring + uint32(j)
			b := ring + uint32((j+1)%tubeRadialSegments)
			c := next + uint32(j)
			d := next + uint32((j+1)%tubeRadialSegments)
			m.Indices = append(m.Indices, a, c, b, b, c, d)
		}
	}
	m.TopoRevision++
}

// update refreshes ring geometry for the current curve. Unchanged
// geometry is detected by value comparison and skipped, so a fully static
// link re-uploads nothing.
func (m *TubeMesh) update(q QuadBez, radius float64, up Vec3) {
	if m.lastCurve == q && m.lastRadius == radius && m.lastUp == up {
		return
	}
	for r := 0; r <= tubeLengthSegments; r++ {
		t := float64(r) / tubeLengthSegments
		center := q.Eval(t)
		tan := q.UnitTangent(t)
		side := Perpendicular(tan, up)
		normal := side.Cross(tan).Normalize()
		base := r * tubeRadialSegments
		for j := 0; j < tubeRadialSegments; j++ {
			dir := side.Mul(ringCos[j]).Add(normal.Mul(ringSin[j]))
			m.Normals[base+j] = dir
			m.Positions[base+j] = center.Add(dir.Mul(radius))
		}
	}
	m.lastCurve = q
	m.lastRadius = radius
	m.lastUp = up
	m.GeomRevision++
}

// TubePulse returns the glow pulse factor at the given elapsed time and
// link speed. The factor stays within [pulseBase-pulseAmp,
// pulseBase+pulseAmp]; a non-animating clock substitutes 1.0 instead.
func TubePulse(elapsed, speed float64) float64 {
	return pulseBase + math.Sin(elapsed*speed*pulseRate)*pulseAmp
}

// emitTube appends the tube mesh of one link to the frame, refreshing
// geometry in place and advancing the glow pulse and traveling head.
func (e *Engine) emitTube(st *linkState, clk Clock) {
	cfg := st.link.Tube
	if st.tube == nil {
		st.tube = newTubeMesh(st.link.ID)
	}
	m := st.tube
	m.update(st.curve, cfg.Thickness, e.worldUp)

	color := cfg.Color
	if color.IsZero() {
		color = st.link.Color
	}
	m.Color = color

	pulse := 1.0
	if clk.Animate {
		pulse = TubePulse(clk.Elapsed, st.link.Speed)
	}
	boost := 1.0
	if st.selected {
		boost = selectedGlowFactor
	}
	m.Emissive = cfg.Glow * pulse * boost

	m.HasHead = cfg.Trail
	if cfg.Trail {
		if clk.Animate {
			st.headPhase = frac(st.headPhase + st.link.Speed*headPhaseRate*clk.Delta)
		}
		m.HeadT = st.headPhase
		m.HeadPosition = st.curve.Eval(st.headPhase)
		m.HeadTangent = st.curve.UnitTangent(st.headPhase)
	}
	e.frame.Tubes = append(e.frame.Tubes, m)
}
