package flow

import "math"

const (
	// wavySpeedFactor raises the travel speed of StyleWavy streams
	// relative to plain particle streams.
	wavySpeedFactor = 1.1

	// waveCycleRate is the temporal wave phase advance per second at link
	// speed one, in radians.
	waveCycleRate = 2 * math.Pi

	// edgeFadeBand is the parameter-space width of the opacity ramp at
	// each end of a stream.
	edgeFadeBand = 0.08
)

// emitParticles appends the particle stream of one link to the frame.
// StyleWavy shares this sampler with a default wave amplitude and the
// wavySpeedFactor applied on top of the link speed.
//
// Instances are spaced evenly in parameter space, offset by the stream
// phase, and wrapped at 1 so the stream is a continuous loop. The phase
// advances only while the clock is animating; a paused clock holds every
// instance in place.
func (e *Engine) emitParticles(st *linkState, clk Clock, wavy bool) {
	cfg := st.link.Particles
	speed := st.link.Speed
	waveAmp := cfg.WaveAmp
	if wavy {
		speed *= wavySpeedFactor
		if waveAmp == 0 {
			waveAmp = DefaultWaveAmp
		}
	}
	if clk.Animate {
		st.phase = frac(st.phase + speed*clk.Delta)
		st.wavePhase += speed * waveCycleRate * clk.Delta
	}

	count := cfg.Count
	if count < 1 {
		count = 1
	}
	inst := st.ensureInstances(count)
	for i := range inst {
		ti := frac(float64(i)/float64(count) + st.phase)
		pos := st.curve.Eval(ti)
		tan := st.curve.UnitTangent(ti)
		if waveAmp != 0 {
			n := normalFrom(tan, e.worldUp)
			w := math.Sin(ti*cfg.WaveFreq*2*math.Pi+st.wavePhase) * waveAmp
			pos = pos.Add(n.Mul(w))
		}
		opacity := cfg.Opacity
		if e.edgeFade {
			opacity *= edgeFade(ti)
		}
		inst[i] = Instance{
			Position: pos,
			Tangent:  tan,
			T:        ti,
			Size:     cfg.Size,
			Color:    st.link.Color,
			Opacity:  opacity,
		}
	}
	e.frame.Streams = append(e.frame.Streams, Stream{
		Link:      st.link.ID,
		Shape:     cfg.Shape,
		Instances: inst,
	})
}

// edgeFade returns the opacity multiplier for a stream instance at
// parameter t: a linear ramp from zero at each endpoint over the first and
// last edgeFadeBand of the curve. Instances pop into existence at the
// endpoints otherwise.
func edgeFade(t float64) float64 {
	switch {
	case t < edgeFadeBand:
		return t / edgeFadeBand
	case t > 1-edgeFadeBand:
		return (1 - t) / edgeFadeBand
	default:
		return 1
	}
}
