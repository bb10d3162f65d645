package flow

// NodeID identifies an endpoint node. IDs are host-assigned and opaque to
// the engine.
type NodeID string

// LinkID identifies a link.
type LinkID string

// Node is a host-side endpoint record. The engine itself never stores
// nodes; it reads positions through a [NodeSource] each frame. Node exists
// for scene descriptions and demo hosts.
type Node struct {
	ID       NodeID
	Position Vec3
	Color    RGBA
}

// NodeSource supplies current node positions. The engine queries it once
// per link endpoint per frame, so implementations should be cheap lookups.
// Returning false marks the node as missing; links touching a missing node
// are skipped for that frame without error.
type NodeSource interface {
	Position(id NodeID) (Vec3, bool)
}

// MapSource is a NodeSource backed by a plain map. It is the simplest way
// for a host to feed positions and is what the examples use. Like any map,
// it must not be mutated while Advance is running.
type MapSource map[NodeID]Vec3

// Position implements [NodeSource].
func (m MapSource) Position(id NodeID) (Vec3, bool) {
	p, ok := m[id]
	return p, ok
}

// Set stores a node position.
func (m MapSource) Set(id NodeID, p Vec3) {
	m[id] = p
}

// Delete removes a node.
func (m MapSource) Delete(id NodeID) {
	delete(m, id)
}

// Link is the per-link configuration supplied by the host. The engine
// copies the struct on Add; later changes are applied through Update so
// the engine can re-clamp and adjust derived state.
type Link struct {
	ID   LinkID
	From NodeID
	To   NodeID

	// Style selects the visual representation.
	Style Style

	// Active gates output. An inactive link keeps its animation state but
	// emits nothing.
	Active bool

	// Color is the base link color. The zero value adopts opaque white.
	Color RGBA

	// Speed scales all animation rates for the link. The zero value
	// adopts 1; negative values clamp to zero (static).
	Speed float64

	// Width is the stroke width for solid and dashed styles, in world
	// units.
	Width float64

	Curve     CurveConfig
	Particles ParticleConfig
	Icons     IconConfig
	Dash      DashConfig
	Tube      TubeConfig
}

// Clamp normalizes the whole configuration in place to documented ranges
// and defaults. The engine clamps on admission and again when a link is
// updated, so samplers never observe out-of-range config.
func (l *Link) Clamp() {
	if l.Speed == 0 {
		l.Speed = 1
	}
	if l.Speed < 0 {
		l.Speed = 0
	}
	if l.Width <= 0 {
		l.Width = DefaultWidth
	}
	if l.Color.IsZero() {
		l.Color = RGB(1, 1, 1)
	}
	l.Curve.Clamp()
	l.Particles.Clamp()
	l.Icons.Clamp()
	l.Dash.Clamp()
	l.Tube.Clamp()
}
