package flow

import (
	"time"

	"github.com/tidwall/btree"
)

// Clock carries the host time signal for one frame.
type Clock struct {
	// Elapsed is monotonic time since the host started, in seconds.
	Elapsed float64

	// Delta is the time since the previous frame, in seconds. Negative
	// values are treated as zero.
	Delta float64

	// Animate gates all phase advancement. When false, streams, dashes
	// and heads hold position while curves still track their endpoints.
	Animate bool
}

// Engine owns the per-link animation state and produces one Frame per
// Advance call.
//
// The engine is designed to run inside the host's frame callback: Advance
// is single-threaded, allocates only when link topology changes, and
// mutates retained buffers in place. It is not safe for concurrent use.
type Engine struct {
	src      NodeSource
	worldUp  Vec3
	edgeFade bool
	rec      Recorder

	links *btree.BTreeG[*linkState]
	frame Frame
}

// linkState is the per-link render state: the clamped configuration, the
// current curve, and the animation phase accumulators. It is created on
// Add and discarded on Remove; phases survive config updates.
type linkState struct {
	link     Link
	selected bool

	curve QuadBez

	phase      float64
	wavePhase  float64
	dashOffset float64
	headPhase  float64

	instances []Instance
	dash      *DashPattern
	tube      *TubeMesh
}

// ensureInstances returns the reusable instance slice resized to n.
// The backing array is reallocated only when n grows beyond its capacity,
// so a stream with a stable count never reallocates.
func (st *linkState) ensureInstances(n int) []Instance {
	if cap(st.instances) < n {
		st.instances = make([]Instance, n)
	}
	st.instances = st.instances[:n]
	return st.instances
}

// NewEngine creates an engine reading endpoint positions from src.
//
// Example:
//
//	src := flow.MapSource{}
//	eng := flow.NewEngine(src, flow.WithWorldUp(flow.V(0, 0, 1)))
func NewEngine(src NodeSource, opts ...EngineOption) *Engine {
	o := defaultEngineOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Engine{
		src:      src,
		worldUp:  o.worldUp,
		edgeFade: o.edgeFade,
		rec:      o.recorder,
		links: btree.NewBTreeG(func(a, b *linkState) bool {
			return a.link.ID < b.link.ID
		}),
	}
}

// Add admits a link. The configuration is copied and clamped; a link with
// the same ID is replaced and its animation state reset. Use Update to
// change configuration without resetting state.
func (e *Engine) Add(l Link) {
	l.Clamp()
	e.links.Set(&linkState{link: l})
	Logger().Info("link added",
		"link", string(l.ID),
		"style", l.Style.String(),
		"from", string(l.From),
		"to", string(l.To))
}

// Update replaces the configuration of an existing link while preserving
// its animation phases and retained buffers. Returns false when the link
// is unknown.
func (e *Engine) Update(l Link) bool {
	st, ok := e.links.Get(&linkState{link: Link{ID: l.ID}})
	if !ok {
		return false
	}
	l.Clamp()
	st.link = l
	return true
}

// Remove discards a link and all its retained state. Returns false when
// the link is unknown.
func (e *Engine) Remove(id LinkID) bool {
	_, ok := e.links.Delete(&linkState{link: Link{ID: id}})
	if ok {
		Logger().Info("link removed", "link", string(id))
	}
	return ok
}

// SetActive toggles link output without touching its state. Returns false
// when the link is unknown.
func (e *Engine) SetActive(id LinkID, active bool) bool {
	st, ok := e.links.Get(&linkState{link: Link{ID: id}})
	if !ok {
		return false
	}
	st.link.Active = active
	return true
}

// SetSelected marks a link as selected. Selection boosts tube glow; other
// styles are unaffected. Returns false when the link is unknown.
func (e *Engine) SetSelected(id LinkID, selected bool) bool {
	st, ok := e.links.Get(&linkState{link: Link{ID: id}})
	if !ok {
		return false
	}
	st.selected = selected
	return true
}

// Get returns a copy of a link's current (clamped) configuration.
func (e *Engine) Get(id LinkID) (Link, bool) {
	st, ok := e.links.Get(&linkState{link: Link{ID: id}})
	if !ok {
		return Link{}, false
	}
	return st.link, true
}

// Curve returns the most recently computed curve of a link. The curve is
// only meaningful after an Advance that resolved both endpoints.
func (e *Engine) Curve(id LinkID) (QuadBez, bool) {
	st, ok := e.links.Get(&linkState{link: Link{ID: id}})
	if !ok {
		return QuadBez{}, false
	}
	return st.curve, true
}

// Len returns the number of admitted links.
func (e *Engine) Len() int {
	return e.links.Len()
}

// Each calls fn with a copy of every link configuration in ID order,
// stopping early when fn returns false.
func (e *Engine) Each(fn func(Link) bool) {
	e.links.Scan(func(st *linkState) bool {
		return fn(st.link)
	})
}

// Advance computes one frame. Links are visited in ID order; for each
// active link the curve is updated from current endpoint positions before
// its style sampler runs, then exactly one emitter fills the frame. Links
// with a missing endpoint are skipped without error and without touching
// the rest of the frame.
//
// The returned Frame is owned by the engine and valid until the next
// Advance call.
func (e *Engine) Advance(clk Clock) *Frame {
	var start time.Time
	if e.rec != nil {
		start = time.Now()
	}
	if clk.Delta < 0 {
		clk.Delta = 0
	}

	e.frame.Reset()
	e.links.Scan(func(st *linkState) bool {
		if !st.link.Active {
			return true
		}
		from, ok := e.src.Position(st.link.From)
		if !ok {
			e.skip(st, "missing-from")
			return true
		}
		to, ok := e.src.Position(st.link.To)
		if !ok {
			e.skip(st, "missing-to")
			return true
		}

		e.updateCurve(st, from, to, clk)

		switch st.link.Style {
		case StyleDashed:
			e.emitDashed(st, clk)
		case StyleParticles:
			e.emitParticles(st, clk, false)
		case StyleWavy:
			e.emitParticles(st, clk, true)
		case StyleIcons:
			e.emitIcons(st, clk)
		case StyleTube:
			e.emitTube(st, clk)
		default:
			e.emitSolid(st)
		}
		if e.rec != nil {
			e.rec.LinkRendered(st.link.Style)
		}
		return true
	})

	if e.rec != nil {
		instances := 0
		for i := range e.frame.Streams {
			instances += len(e.frame.Streams[i].Instances)
		}
		e.rec.FrameAdvanced(time.Since(start), e.links.Len(), instances)
	}
	return &e.frame
}

// updateCurve refreshes the link curve from the current endpoint
// positions. The control point always lands before any sampler runs, so
// every emitter in the same frame sees the same geometry. Noise applies
// only while the clock is animating; a paused or static link rests at its
// base control point.
func (e *Engine) updateCurve(st *linkState, from, to Vec3, clk Clock) {
	cc := st.link.Curve
	ctrl := ControlPoint(from, to, cc.Mode, cc.Bend, e.worldUp)
	if clk.Animate && cc.NoiseAmp > 0 {
		ctrl = ctrl.Add(NoiseOffset(from, to, clk.Elapsed, cc.NoiseFreq, cc.NoiseAmp))
	}
	st.curve = QuadBez{P0: from, P1: ctrl, P2: to}
}

// emitSolid appends a plain stroke for the link curve.
func (e *Engine) emitSolid(st *linkState) {
	e.frame.Strokes = append(e.frame.Strokes, Stroke{
		Link:    st.link.ID,
		Start:   st.curve.P0,
		Control: st.curve.P1,
		End:     st.curve.P2,
		Color:   st.link.Color,
		Width:   st.link.Width,
		Opacity: 1,
	})
}

// emitDashed appends a dashed stroke, scrolling the dash offset while both
// the engine clock and the link's own dash animation flag allow it.
func (e *Engine) emitDashed(st *linkState, clk Clock) {
	cfg := st.link.Dash
	if clk.Animate && cfg.Animated() {
		st.dashOffset = AdvanceDashOffset(st.dashOffset, st.link.Speed, clk.Delta)
	}
	if st.dash == nil {
		st.dash = &DashPattern{}
	}
	st.dash.Length = cfg.Length
	st.dash.Gap = cfg.Gap
	st.dash.Offset = st.dashOffset

	e.frame.Strokes = append(e.frame.Strokes, Stroke{
		Link:    st.link.ID,
		Start:   st.curve.P0,
		Control: st.curve.P1,
		End:     st.curve.P2,
		Color:   st.link.Color,
		Width:   st.link.Width,
		Opacity: 1,
		Dash:    st.dash,
	})
}

// skip records a link dropped from the current frame.
func (e *Engine) skip(st *linkState, reason string) {
	if e.rec != nil {
		e.rec.LinkSkipped(reason)
	}
	Logger().Debug("link skipped", "link", string(st.link.ID), "reason", reason)
}
