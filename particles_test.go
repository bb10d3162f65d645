package flow

import (
	"math"
	"testing"
)

func TestParticleCountExact(t *testing.T) {
	clocks := []Clock{
		{},
		{Delta: 0.016, Animate: true},
		{Elapsed: 100, Delta: 10, Animate: true},
		{Elapsed: 5, Delta: 0.25, Animate: false},
	}

	for _, count := range []int{1, 2, 7, 64} {
		eng, _ := testScene()
		l := upLink("l1", StyleParticles)
		l.Particles.Count = count
		eng.Add(l)

		for _, clk := range clocks {
			f := eng.Advance(clk)
			if len(f.Streams) != 1 {
				t.Fatalf("count=%d: got %d streams", count, len(f.Streams))
			}
			if got := len(f.Streams[0].Instances); got != count {
				t.Fatalf("count=%d clk=%+v: got %d instances", count, clk, got)
			}
		}
	}
}

func TestParticleSpacingEven(t *testing.T) {
	const count = 8
	eng, _ := testScene()
	l := upLink("l1", StyleParticles)
	l.Particles.Count = count
	eng.Add(l)

	// Run a few frames so the phase is mid-cycle.
	var inst []Instance
	for i := 0; i < 5; i++ {
		f := eng.Advance(Clock{Elapsed: float64(i) * 0.1, Delta: 0.1, Animate: true})
		inst = f.Streams[0].Instances
	}

	for i := 1; i < count; i++ {
		gap := math.Mod(inst[i].T-inst[i-1].T+1, 1)
		if math.Abs(gap-1.0/count) > 1e-9 {
			t.Errorf("gap %d = %g, want %g", i, gap, 1.0/count)
		}
	}
}

func TestParticlePhaseAdvance(t *testing.T) {
	eng, _ := testScene()
	l := upLink("l1", StyleParticles)
	l.Particles.Count = 4
	l.Speed = 1
	eng.Add(l)

	f := eng.Advance(Clock{Elapsed: 0.25, Delta: 0.25, Animate: true})
	diff(t, 0.25, f.Streams[0].Instances[0].T, approx())

	// Phase accumulates and wraps at 1.
	f = eng.Advance(Clock{Elapsed: 1.15, Delta: 0.9, Animate: true})
	diff(t, 0.15, f.Streams[0].Instances[0].T, approx())
}

func TestParticleFreezeWhileNotAnimating(t *testing.T) {
	eng, _ := testScene()
	l := upLink("l1", StyleParticles)
	l.Particles.Count = 3
	eng.Add(l)

	f := eng.Advance(Clock{Elapsed: 0.4, Delta: 0.4, Animate: true})
	want := append([]Instance(nil), f.Streams[0].Instances...)

	// Time passes but nothing may move.
	f = eng.Advance(Clock{Elapsed: 9.4, Delta: 9, Animate: false})
	diff(t, want, f.Streams[0].Instances, approx())
}

func TestParticleInstancesOnCurveWithoutWave(t *testing.T) {
	eng, _ := testScene()
	l := upLink("l1", StyleParticles)
	l.Particles.Count = 6
	l.Particles.WaveAmp = 0
	eng.Add(l)

	f := eng.Advance(Clock{Delta: 0.1, Animate: true})
	q, _ := eng.Curve("l1")
	for _, in := range f.Streams[0].Instances {
		assertNear(t, q.Eval(in.T), in.Position, 1e-9)
	}
}

func TestParticleWaveDisplacement(t *testing.T) {
	eng, _ := testScene()
	l := upLink("l1", StyleParticles)
	l.Particles.Count = 6
	l.Particles.WaveAmp = 0.3
	l.Particles.WaveFreq = 2
	eng.Add(l)

	f := eng.Advance(Clock{Elapsed: 0.3, Delta: 0.3, Animate: true})
	q, _ := eng.Curve("l1")

	displaced := 0
	for _, in := range f.Streams[0].Instances {
		d := in.Position.Distance(q.Eval(in.T))
		if d > 0.3+1e-9 {
			t.Fatalf("wave displacement %g exceeds amplitude", d)
		}
		if d > 1e-6 {
			displaced++
		}
	}
	if displaced == 0 {
		t.Error("no instance displaced by wave")
	}
}

func TestWavyFasterThanParticles(t *testing.T) {
	eng, _ := testScene()
	p := upLink("p", StyleParticles)
	p.Particles.Count = 2
	eng.Add(p)
	w := upLink("w", StyleWavy)
	w.Particles.Count = 2
	eng.Add(w)

	f := eng.Advance(Clock{Elapsed: 0.5, Delta: 0.5, Animate: true})

	var pT, wT float64
	for _, s := range f.Streams {
		switch s.Link {
		case "p":
			pT = s.Instances[0].T
		case "w":
			wT = s.Instances[0].T
		}
	}
	diff(t, 0.5, pT, approx())
	// Wavy advances at 1.1x the configured speed.
	diff(t, 0.55, wT, approx())
}

func TestWavyDefaultWaveAmp(t *testing.T) {
	eng, _ := testScene()
	w := upLink("w", StyleWavy)
	w.Particles.Count = 8
	eng.Add(w)

	f := eng.Advance(Clock{Elapsed: 0.2, Delta: 0.2, Animate: true})
	q, _ := eng.Curve("w")

	displaced := 0
	for _, in := range f.Streams[0].Instances {
		if in.Position.Distance(q.Eval(in.T)) > 1e-6 {
			displaced++
		}
	}
	if displaced == 0 {
		t.Error("wavy stream without explicit amplitude shows no wave")
	}
}

func TestEdgeFade(t *testing.T) {
	eng, _ := testScene()
	l := upLink("l1", StyleParticles)
	l.Particles.Count = 50
	l.Particles.Opacity = 1
	eng.Add(l)

	f := eng.Advance(Clock{})
	sawFaded, sawFull := false, false
	for _, in := range f.Streams[0].Instances {
		switch {
		case in.T < edgeFadeBand || in.T > 1-edgeFadeBand:
			if in.Opacity < 1 {
				sawFaded = true
			}
		default:
			if in.Opacity == 1 {
				sawFull = true
			}
		}
	}
	if !sawFaded || !sawFull {
		t.Errorf("fade profile wrong: faded=%v full=%v", sawFaded, sawFull)
	}
}

func TestEdgeFadeDisabled(t *testing.T) {
	src := MapSource{}
	src.Set("a", V(0, 0, 0))
	src.Set("b", V(2, 0, 0))
	eng := NewEngine(src, WithEdgeFade(false))
	l := upLink("l1", StyleParticles)
	l.Particles.Count = 50
	l.Particles.Opacity = 0.8
	eng.Add(l)

	f := eng.Advance(Clock{})
	for _, in := range f.Streams[0].Instances {
		diff(t, 0.8, in.Opacity, approx())
	}
}

func TestInstanceStorageReused(t *testing.T) {
	eng, _ := testScene()
	l := upLink("l1", StyleParticles)
	l.Particles.Count = 16
	eng.Add(l)

	f := eng.Advance(Clock{Delta: 0.016, Animate: true})
	p1 := &f.Streams[0].Instances[0]
	f = eng.Advance(Clock{Delta: 0.016, Animate: true})
	p2 := &f.Streams[0].Instances[0]

	if p1 != p2 {
		t.Error("instance backing array reallocated between frames")
	}
}

func TestEdgeFadeRamp(t *testing.T) {
	diff(t, 0.0, edgeFade(0))
	diff(t, 0.5, edgeFade(edgeFadeBand/2), approx())
	diff(t, 1.0, edgeFade(0.5))
	diff(t, 0.5, edgeFade(1-edgeFadeBand/2), approx())
}
