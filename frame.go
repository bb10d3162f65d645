package flow

// Stroke is one curve drawn as a line, solid or dashed. Start, Control and
// End describe the quadratic segment in world space; rendering hosts may
// flatten it at whatever tolerance suits their projection.
type Stroke struct {
	// Link identifies the link this stroke came from.
	Link LinkID

	// Start, Control, End are the quadratic Bézier control points.
	Start, Control, End Vec3

	// Color is the stroke color.
	Color RGBA

	// Width is the stroke width in world units.
	Width float64

	// Opacity is the stroke opacity in [0, 1].
	Opacity float64

	// Dash is nil for solid strokes.
	Dash *DashPattern
}

// Instance is one marker or glyph on a stream. Instances are billboarded
// by the host; Tangent gives the direction of travel for oriented markers.
type Instance struct {
	// Position is the instance center in world space.
	Position Vec3

	// Tangent is the unit direction of travel at the instance parameter.
	Tangent Vec3

	// T is the curve parameter the instance currently occupies, in [0, 1).
	T float64

	// Size is the marker size in world units.
	Size float64

	// Color is the instance color.
	Color RGBA

	// Opacity is the instance opacity in [0, 1], including edge fade.
	Opacity float64
}

// Stream is the instance set of one particle, wavy or icon link for the
// current frame. The Instances slice is owned by the link's render state
// and reused across frames; hosts must consume or copy it before the next
// Advance.
type Stream struct {
	// Link identifies the link this stream came from.
	Link LinkID

	// Shape is the marker geometry for particle streams.
	Shape MarkerShape

	// Glyph is the icon rune for icon streams; zero for marker streams.
	Glyph rune

	// Instances holds exactly the configured count of instances.
	Instances []Instance
}

// Frame is the renderable output of one Advance call. The engine owns one
// Frame and refills it every Advance, so slices and tube meshes taken from
// a Frame are valid only until the next Advance.
type Frame struct {
	// Strokes holds solid and dashed curve strokes.
	Strokes []Stroke

	// Streams holds particle and icon instance sets.
	Streams []Stream

	// Tubes holds extruded tube meshes. Each mesh is owned by its link
	// and mutated in place between frames; revision counters on the mesh
	// tell hosts what needs re-upload.
	Tubes []*TubeMesh

	version uint64
}

// Reset clears the frame for reuse without deallocating memory.
func (f *Frame) Reset() {
	f.Strokes = f.Strokes[:0]
	f.Streams = f.Streams[:0]
	f.Tubes = f.Tubes[:0]
	f.version++
}

// Version returns a counter incremented by every Reset. Hosts that cache
// GPU uploads can compare it to detect stale frame references.
func (f *Frame) Version() uint64 {
	return f.version
}
