package flow

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp/cmpopts"
)

// testScene builds an engine with two nodes 2 units apart on the X axis.
func testScene() (*Engine, MapSource) {
	src := MapSource{}
	src.Set("a", V(0, 0, 0))
	src.Set("b", V(2, 0, 0))
	return NewEngine(src), src
}

func upLink(id LinkID, style Style) Link {
	return Link{
		ID: id, From: "a", To: "b",
		Style:  style,
		Active: true,
		Speed:  1,
		Curve:  CurveConfig{Mode: ModeUp, Bend: 0.3},
	}
}

func TestEngineAddGetRemove(t *testing.T) {
	eng, _ := testScene()

	eng.Add(upLink("l1", StyleSolid))
	if eng.Len() != 1 {
		t.Fatalf("Len = %d, want 1", eng.Len())
	}

	got, ok := eng.Get("l1")
	if !ok {
		t.Fatal("Get returned false for admitted link")
	}
	// Admission clamps: zero width adopted the default.
	diff(t, DefaultWidth, got.Width)
	diff(t, 1.0, got.Speed)

	if _, ok := eng.Get("missing"); ok {
		t.Error("Get returned true for unknown link")
	}
	if eng.Remove("missing") {
		t.Error("Remove returned true for unknown link")
	}
	if !eng.Remove("l1") {
		t.Error("Remove returned false for admitted link")
	}
	if eng.Len() != 0 {
		t.Errorf("Len after remove = %d, want 0", eng.Len())
	}
}

func TestEngineEachOrder(t *testing.T) {
	eng, _ := testScene()
	for _, id := range []LinkID{"c", "a", "b"} {
		eng.Add(upLink(id, StyleSolid))
	}

	var order []LinkID
	eng.Each(func(l Link) bool {
		order = append(order, l.ID)
		return true
	})
	diff(t, []LinkID{"a", "b", "c"}, order)

	// Early stop.
	n := 0
	eng.Each(func(Link) bool {
		n++
		return false
	})
	diff(t, 1, n)
}

func TestEngineUpdatePreservesPhase(t *testing.T) {
	eng, _ := testScene()
	l := upLink("l1", StyleParticles)
	l.Particles.Count = 4
	eng.Add(l)

	eng.Advance(Clock{Elapsed: 0.25, Delta: 0.25, Animate: true})

	l.Color = RGB(1, 0, 0)
	if !eng.Update(l) {
		t.Fatal("Update returned false for admitted link")
	}

	f := eng.Advance(Clock{Elapsed: 0.25, Delta: 0, Animate: false})
	inst := f.Streams[0].Instances
	// Phase survived the update: first instance still shifted by 0.25.
	diff(t, 0.25, inst[0].T, approx())
	diff(t, RGB(1, 0, 0), inst[0].Color)

	if eng.Update(Link{ID: "nope"}) {
		t.Error("Update returned true for unknown link")
	}
}

func TestAdvanceSolidStroke(t *testing.T) {
	eng, _ := testScene()
	l := upLink("l1", StyleSolid)
	l.Color = RGB(0, 1, 0)
	l.Width = 0.1
	eng.Add(l)

	f := eng.Advance(Clock{Animate: true})
	if len(f.Strokes) != 1 || len(f.Streams) != 0 || len(f.Tubes) != 0 {
		t.Fatalf("frame shape: %d strokes, %d streams, %d tubes",
			len(f.Strokes), len(f.Streams), len(f.Tubes))
	}

	s := f.Strokes[0]
	diff(t, LinkID("l1"), s.Link)
	diff(t, V(0, 0, 0), s.Start)
	diff(t, V(2, 0, 0), s.End)
	// 2 units * bend 0.3 * 0.6 lifts the control point to y=0.36.
	diff(t, V(1, 0.36, 0), s.Control, approx())
	diff(t, RGB(0, 1, 0), s.Color)
	diff(t, 0.1, s.Width)
	if s.Dash != nil {
		t.Error("solid stroke carries a dash pattern")
	}
}

func TestAdvanceOneEmitterPerStyle(t *testing.T) {
	eng, _ := testScene()
	styles := []Style{StyleSolid, StyleDashed, StyleParticles, StyleWavy, StyleIcons, StyleTube}
	for i, st := range styles {
		eng.Add(upLink(LinkID(rune('a'+i)), st))
	}

	f := eng.Advance(Clock{Delta: 0.016, Animate: true})
	diff(t, 2, len(f.Strokes)) // solid + dashed
	diff(t, 3, len(f.Streams)) // particles + wavy + icons
	diff(t, 1, len(f.Tubes))
}

func TestDashedOffsetRate(t *testing.T) {
	eng, _ := testScene()
	l := upLink("l1", StyleDashed)
	l.Speed = 2
	l.Dash = DashConfig{Length: 0.3, Gap: 0.1}
	eng.Add(l)

	f := eng.Advance(Clock{Elapsed: 0.5, Delta: 0.5, Animate: true})
	d := f.Strokes[0].Dash
	if d == nil {
		t.Fatal("dashed stroke missing dash pattern")
	}
	diff(t, 0.3, d.Length)
	diff(t, 0.1, d.Gap)
	// offset -= speed * 0.8 * dt = 2 * 0.8 * 0.5 = 0.8
	diff(t, -0.8, d.Offset, approx())

	// Accumulates across frames.
	f = eng.Advance(Clock{Elapsed: 1.0, Delta: 0.5, Animate: true})
	diff(t, -1.6, f.Strokes[0].Dash.Offset, approx())

	// Frozen while the clock is not animating.
	f = eng.Advance(Clock{Elapsed: 1.5, Delta: 0.5, Animate: false})
	diff(t, -1.6, f.Strokes[0].Dash.Offset, approx())
}

func TestDashedPerLinkAnimateFlag(t *testing.T) {
	eng, _ := testScene()
	off := false
	l := upLink("l1", StyleDashed)
	l.Dash = DashConfig{Length: 0.3, Gap: 0.1, Animate: &off}
	eng.Add(l)

	f := eng.Advance(Clock{Elapsed: 1, Delta: 1, Animate: true})
	diff(t, 0.0, f.Strokes[0].Dash.Offset)
}

func TestInactiveLinkEmitsNothing(t *testing.T) {
	eng, _ := testScene()
	for i, st := range []Style{StyleSolid, StyleParticles, StyleTube} {
		l := upLink(LinkID(rune('a'+i)), st)
		l.Active = false
		eng.Add(l)
	}

	f := eng.Advance(Clock{Delta: 0.016, Animate: true})
	if len(f.Strokes)+len(f.Streams)+len(f.Tubes) != 0 {
		t.Fatalf("inactive links produced output: %d/%d/%d",
			len(f.Strokes), len(f.Streams), len(f.Tubes))
	}

	if !eng.SetActive("a", true) {
		t.Fatal("SetActive returned false")
	}
	f = eng.Advance(Clock{Delta: 0.016, Animate: true})
	diff(t, 1, len(f.Strokes))
}

func TestMissingEndpointSkipsLink(t *testing.T) {
	eng, src := testScene()
	src.Set("c", V(0, 0, 2))
	eng.Add(upLink("ab", StyleSolid))
	l := upLink("ac", StyleSolid)
	l.To = "c"
	eng.Add(l)

	src.Delete("c")
	f := eng.Advance(Clock{Animate: true})

	// The broken link is skipped; the healthy one renders untouched.
	diff(t, 1, len(f.Strokes))
	diff(t, LinkID("ab"), f.Strokes[0].Link)

	// Restoring the node restores the link.
	src.Set("c", V(0, 0, 2))
	f = eng.Advance(Clock{Animate: true})
	diff(t, 2, len(f.Strokes))
}

func TestCurveTracksMovingNodes(t *testing.T) {
	eng, src := testScene()
	eng.Add(upLink("l1", StyleSolid))

	eng.Advance(Clock{Animate: true})
	src.Set("b", V(4, 0, 0))
	f := eng.Advance(Clock{Animate: true})

	diff(t, V(4, 0, 0), f.Strokes[0].End)
	// Displacement scales with the new distance: 4 * 0.3 * 0.6 = 0.72.
	diff(t, V(2, 0.72, 0), f.Strokes[0].Control, approx())

	q, ok := eng.Curve("l1")
	if !ok {
		t.Fatal("Curve returned false")
	}
	diff(t, f.Strokes[0].Control, q.P1)
}

func TestNoiseAppliesOnlyWhileAnimating(t *testing.T) {
	eng, _ := testScene()
	l := upLink("l1", StyleSolid)
	l.Curve.NoiseAmp = 0.2
	l.Curve.NoiseFreq = 2
	eng.Add(l)

	base := V(1, 0.36, 0)

	f := eng.Advance(Clock{Elapsed: 1.3, Animate: false})
	assertNear(t, base, f.Strokes[0].Control, 1e-9)

	f = eng.Advance(Clock{Elapsed: 1.3, Animate: true})
	if f.Strokes[0].Control.NearEq(base, 1e-6) {
		t.Error("noise did not displace the control point while animating")
	}
	off := f.Strokes[0].Control.Sub(base)
	if off.Length() > 0.2*1.8 {
		t.Errorf("noise displacement %v exceeds amplitude bound", off)
	}
}

func TestAdvanceDeterministic(t *testing.T) {
	build := func() (*Engine, MapSource) {
		src := MapSource{}
		src.Set("a", V(0, 1, 0))
		src.Set("b", V(3, 0, -1))
		eng := NewEngine(src)
		l := upLink("l1", StyleParticles)
		l.Curve.NoiseAmp = 0.1
		eng.Add(l)
		eng.Add(upLink("l2", StyleDashed))
		eng.Add(upLink("l3", StyleTube))
		return eng, src
	}

	e1, _ := build()
	e2, _ := build()

	clocks := []Clock{
		{Elapsed: 0.016, Delta: 0.016, Animate: true},
		{Elapsed: 0.048, Delta: 0.032, Animate: true},
		{Elapsed: 0.064, Delta: 0.016, Animate: false},
		{Elapsed: 0.080, Delta: 0.016, Animate: true},
	}

	var f1, f2 *Frame
	for _, clk := range clocks {
		f1 = e1.Advance(clk)
		f2 = e2.Advance(clk)
	}

	diff(t, f1.Strokes, f2.Strokes, approx())
	diff(t, f1.Streams, f2.Streams, approx())
	diff(t, f1.Tubes, f2.Tubes, approx(), cmpopts.IgnoreUnexported(TubeMesh{}))
}

type fakeRecorder struct {
	frames    int
	links     int
	instances int
	styles    map[Style]int
	skips     map[string]int
}

func (r *fakeRecorder) FrameAdvanced(_ time.Duration, links, instances int) {
	r.frames++
	r.links = links
	r.instances = instances
}

func (r *fakeRecorder) LinkRendered(s Style) {
	if r.styles == nil {
		r.styles = map[Style]int{}
	}
	r.styles[s]++
}

func (r *fakeRecorder) LinkSkipped(reason string) {
	if r.skips == nil {
		r.skips = map[string]int{}
	}
	r.skips[reason]++
}

func TestEngineRecorder(t *testing.T) {
	rec := &fakeRecorder{}
	src := MapSource{}
	src.Set("a", V(0, 0, 0))
	src.Set("b", V(2, 0, 0))
	eng := NewEngine(src, WithRecorder(rec))

	p := upLink("p", StyleParticles)
	p.Particles.Count = 5
	eng.Add(p)
	eng.Add(upLink("s", StyleSolid))
	broken := upLink("x", StyleSolid)
	broken.To = "ghost"
	eng.Add(broken)

	eng.Advance(Clock{Delta: 0.016, Animate: true})

	diff(t, 1, rec.frames)
	diff(t, 3, rec.links)
	diff(t, 5, rec.instances)
	diff(t, map[Style]int{StyleParticles: 1, StyleSolid: 1}, rec.styles)
	diff(t, map[string]int{"missing-to": 1}, rec.skips)
}

func TestWorldUpChangesBendDirection(t *testing.T) {
	src := MapSource{}
	src.Set("a", V(0, 0, 0))
	src.Set("b", V(2, 0, 0))
	eng := NewEngine(src, WithWorldUp(V(0, 0, 5)))
	eng.Add(upLink("l1", StyleSolid))

	f := eng.Advance(Clock{Animate: true})
	// A +Z up lifts the control point along Z instead of Y.
	diff(t, V(1, 0, 0.36), f.Strokes[0].Control, approx())
}

func TestSetSelectedUnknownLink(t *testing.T) {
	eng, _ := testScene()
	if eng.SetSelected("ghost", true) {
		t.Error("SetSelected returned true for unknown link")
	}
	if eng.SetActive("ghost", true) {
		t.Error("SetActive returned true for unknown link")
	}
}

func TestNegativeDeltaTreatedAsZero(t *testing.T) {
	eng, _ := testScene()
	l := upLink("l1", StyleDashed)
	eng.Add(l)

	f := eng.Advance(Clock{Elapsed: 1, Delta: -5, Animate: true})
	diff(t, 0.0, f.Strokes[0].Dash.Offset)
}
