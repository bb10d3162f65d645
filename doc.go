// Package flow computes animated link visualizations between moving 3D
// anchor points.
//
// # Overview
//
// flow is the numerical core of a node-link viewer: given two endpoint
// positions and a per-link style, it builds a quadratic curve between them
// and drives a continuously animated representation along it. Supported
// styles are solid and dashed strokes, particle and icon streams, a wavy
// particle variant, and a procedurally extruded glowing tube with a
// traveling head. The package produces renderable descriptions only; it
// owns no window, no GPU device, and no entity lifecycle.
//
// # Quick Start
//
//	import "github.com/nodewire/flow"
//
//	src := flow.MapSource{}
//	src.Set("a", flow.V(0, 0, 0))
//	src.Set("b", flow.V(4, 0, 2))
//
//	eng := flow.NewEngine(src)
//	eng.Add(flow.Link{
//	    ID: "a-b", From: "a", To: "b",
//	    Style: flow.StyleParticles, Active: true,
//	    Speed: 1, Width: 0.05,
//	    Curve: flow.CurveConfig{Mode: flow.ModeUp, Bend: 0.3},
//	})
//
//	// Inside the host frame callback:
//	frame := eng.Advance(flow.Clock{Elapsed: t, Delta: dt, Animate: true})
//	for _, s := range frame.Streams {
//	    // upload s.Instances
//	    _ = s
//	}
//
// # Division of Labor
//
// The host decides which links exist, supplies endpoint positions every
// frame, and renders the output. flow recomputes curves, advances animation
// phases, and fills a reusable [Frame]. Advance is meant to be called from
// a single frame callback; the engine is not safe for concurrent use.
//
// # Coordinate System
//
// Right-handed world space. The default up direction is +Y and can be
// changed with [WithWorldUp]. Curve parameters t are in [0, 1] from the
// "from" endpoint to the "to" endpoint.
package flow

// Version information
const (
	// Version is the current version of the library
	Version = "0.4.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 4

	// VersionPatch is the patch version
	VersionPatch = 0
)
