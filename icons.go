package flow

import "golang.org/x/text/unicode/norm"

// emitIcons appends the icon stream of one link to the frame. Icons share
// the particle spacing and phase behavior but carry no wave displacement;
// hosts billboard the glyph at each instance, oriented by Tangent if the
// glyph should face its direction of travel.
func (e *Engine) emitIcons(st *linkState, clk Clock) {
	cfg := st.link.Icons
	if clk.Animate {
		st.phase = frac(st.phase + st.link.Speed*clk.Delta)
	}
	color := cfg.Color
	if color.IsZero() {
		color = st.link.Color
	}

	count := cfg.Count
	if count < 1 {
		count = 1
	}
	inst := st.ensureInstances(count)
	for i := range inst {
		ti := frac(float64(i)/float64(count) + st.phase)
		opacity := 1.0
		if e.edgeFade {
			opacity = edgeFade(ti)
		}
		inst[i] = Instance{
			Position: st.curve.Eval(ti),
			Tangent:  st.curve.UnitTangent(ti),
			T:        ti,
			Size:     cfg.Size,
			Color:    color,
			Opacity:  opacity,
		}
	}
	e.frame.Streams = append(e.frame.Streams, Stream{
		Link:      st.link.ID,
		Glyph:     iconRune(cfg.Glyph),
		Instances: inst,
	})
}

// iconRune returns the first rune of the NFC-normalized glyph string.
// Normalizing first collapses combining sequences to their precomposed
// form, so "e" followed by U+0301 yields "é" rather than a bare "e".
func iconRune(s string) rune {
	s = norm.NFC.String(s)
	for _, r := range s {
		return r
	}
	return '●'
}
