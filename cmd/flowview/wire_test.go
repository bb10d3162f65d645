package main

import (
	"testing"

	"github.com/nodewire/flow"
)

func testEngine(t *testing.T, l flow.Link) *flow.Engine {
	t.Helper()
	src := flow.MapSource{}
	src.Set("a", flow.V(-2, 0, 0))
	src.Set("b", flow.V(2, 0, 0))
	eng := flow.NewEngine(src)
	eng.Add(l)
	return eng
}

func TestWireEncoderSendsStaticGeometryOnce(t *testing.T) {
	eng := testEngine(t, flow.Link{
		ID: "pipe", From: "a", To: "b", Style: flow.StyleTube,
		Active: true,
		Tube:   flow.TubeConfig{Thickness: 0.1},
	})

	var enc wireEncoder
	f := eng.Advance(flow.Clock{Delta: 0.016, Animate: true})
	first := enc.frame(f, 0.016)
	if len(first.Tubes) != 1 {
		t.Fatalf("tubes = %d, want 1", len(first.Tubes))
	}
	if len(first.Tubes[0].Positions) != flow.TubeVertexCount {
		t.Fatalf("positions = %d, want %d", len(first.Tubes[0].Positions), flow.TubeVertexCount)
	}
	if len(first.Tubes[0].Indices) != flow.TubeIndexCount {
		t.Fatalf("indices = %d, want %d", len(first.Tubes[0].Indices), flow.TubeIndexCount)
	}

	f = eng.Advance(flow.Clock{Elapsed: 0.032, Delta: 0.016, Animate: true})
	second := enc.frame(f, 0.032)
	if len(second.Tubes[0].Positions) != 0 || len(second.Tubes[0].Indices) != 0 {
		t.Fatal("static tube geometry was resent")
	}
	if second.Tubes[0].GeomRevision != first.Tubes[0].GeomRevision {
		t.Fatal("geometry revision moved on a static tube")
	}
}

func TestWireEncoderDashOffset(t *testing.T) {
	eng := testEngine(t, flow.Link{
		ID: "retry", From: "a", To: "b", Style: flow.StyleDashed,
		Active: true,
		Dash:   flow.DashConfig{Length: 0.3, Gap: 0.2},
	})

	var enc wireEncoder
	f := eng.Advance(flow.Clock{Delta: 0.5, Elapsed: 0.5, Animate: true})
	wf := enc.frame(f, 0.5)
	if len(wf.Strokes) != 1 {
		t.Fatalf("strokes = %d, want 1", len(wf.Strokes))
	}
	d := wf.Strokes[0].Dash
	if d == nil {
		t.Fatal("dashed stroke lost its pattern")
	}
	if d.Offset < 0 || d.Offset >= d.Length+d.Gap {
		t.Fatalf("offset %v outside cycle [0,%v)", d.Offset, d.Length+d.Gap)
	}
	if d.Offset == 0 {
		t.Fatal("animated dash did not scroll")
	}
}

func TestWireEncoderGlyphStream(t *testing.T) {
	eng := testEngine(t, flow.Link{
		ID: "mail", From: "a", To: "b", Style: flow.StyleIcons,
		Active: true,
		Icons:  flow.IconConfig{Glyph: "✉", Count: 3},
	})

	var enc wireEncoder
	f := eng.Advance(flow.Clock{Delta: 0.016, Animate: true})
	wf := enc.frame(f, 0.016)
	if len(wf.Streams) != 1 {
		t.Fatalf("streams = %d, want 1", len(wf.Streams))
	}
	st := wf.Streams[0]
	if st.Glyph != "✉" {
		t.Errorf("glyph = %q, want ✉", st.Glyph)
	}
	if len(st.Instances) != 3 {
		t.Fatalf("instances = %d, want 3", len(st.Instances))
	}
	for i, in := range st.Instances {
		if in.T < 0 || in.T > 1 {
			t.Errorf("instance %d: t = %v outside [0,1]", i, in.T)
		}
	}
}
