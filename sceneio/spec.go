package sceneio

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/nodewire/flow"
)

// NodeSpec declares one node. An orbit makes the node circle its declared
// position so demo scenes have moving endpoints.
type NodeSpec struct {
	ID       string     `yaml:"id" toml:"id"`
	Position [3]float64 `yaml:"position" toml:"position"`
	Color    string     `yaml:"color,omitempty" toml:"color,omitempty"`
	Orbit    *OrbitSpec `yaml:"orbit,omitempty" toml:"orbit,omitempty"`
}

// OrbitSpec circles a node around its declared position on the ground
// plane. Radius is in world units, Speed in radians per second (zero
// means 1), Phase offsets the start angle.
type OrbitSpec struct {
	Radius float64 `yaml:"radius" toml:"radius"`
	Speed  float64 `yaml:"speed,omitempty" toml:"speed,omitempty"`
	Phase  float64 `yaml:"phase,omitempty" toml:"phase,omitempty"`
}

// LinkSpec declares one link. Sections that do not apply to the chosen
// style may be omitted; a nil Active means active.
type LinkSpec struct {
	ID     string  `yaml:"id,omitempty" toml:"id,omitempty"`
	From   string  `yaml:"from" toml:"from"`
	To     string  `yaml:"to" toml:"to"`
	Style  string  `yaml:"style,omitempty" toml:"style,omitempty"`
	Active *bool   `yaml:"active,omitempty" toml:"active,omitempty"`
	Color  string  `yaml:"color,omitempty" toml:"color,omitempty"`
	Speed  float64 `yaml:"speed,omitempty" toml:"speed,omitempty"`
	Width  float64 `yaml:"width,omitempty" toml:"width,omitempty"`

	Curve     *CurveSpec    `yaml:"curve,omitempty" toml:"curve,omitempty"`
	Particles *ParticleSpec `yaml:"particles,omitempty" toml:"particles,omitempty"`
	Icons     *IconSpec     `yaml:"icons,omitempty" toml:"icons,omitempty"`
	Dash      *DashSpec     `yaml:"dash,omitempty" toml:"dash,omitempty"`
	Tube      *TubeSpec     `yaml:"tube,omitempty" toml:"tube,omitempty"`
}

// CurveSpec mirrors [flow.CurveConfig].
type CurveSpec struct {
	Mode      string  `yaml:"mode,omitempty" toml:"mode,omitempty"`
	Bend      float64 `yaml:"bend,omitempty" toml:"bend,omitempty"`
	NoiseAmp  float64 `yaml:"noise_amp,omitempty" toml:"noise_amp,omitempty"`
	NoiseFreq float64 `yaml:"noise_freq,omitempty" toml:"noise_freq,omitempty"`
}

// ParticleSpec mirrors [flow.ParticleConfig].
type ParticleSpec struct {
	Count    int     `yaml:"count,omitempty" toml:"count,omitempty"`
	Size     float64 `yaml:"size,omitempty" toml:"size,omitempty"`
	Opacity  float64 `yaml:"opacity,omitempty" toml:"opacity,omitempty"`
	WaveAmp  float64 `yaml:"wave_amp,omitempty" toml:"wave_amp,omitempty"`
	WaveFreq float64 `yaml:"wave_freq,omitempty" toml:"wave_freq,omitempty"`
	Shape    string  `yaml:"shape,omitempty" toml:"shape,omitempty"`
}

// IconSpec mirrors [flow.IconConfig].
type IconSpec struct {
	Glyph string  `yaml:"glyph,omitempty" toml:"glyph,omitempty"`
	Count int     `yaml:"count,omitempty" toml:"count,omitempty"`
	Size  float64 `yaml:"size,omitempty" toml:"size,omitempty"`
	Color string  `yaml:"color,omitempty" toml:"color,omitempty"`
}

// DashSpec mirrors [flow.DashConfig].
type DashSpec struct {
	Length  float64 `yaml:"length,omitempty" toml:"length,omitempty"`
	Gap     float64 `yaml:"gap,omitempty" toml:"gap,omitempty"`
	Animate *bool   `yaml:"animate,omitempty" toml:"animate,omitempty"`
}

// TubeSpec mirrors [flow.TubeConfig].
type TubeSpec struct {
	Thickness float64 `yaml:"thickness,omitempty" toml:"thickness,omitempty"`
	Glow      float64 `yaml:"glow,omitempty" toml:"glow,omitempty"`
	Color     string  `yaml:"color,omitempty" toml:"color,omitempty"`
	Trail     bool    `yaml:"trail,omitempty" toml:"trail,omitempty"`
}

// Build converts the scene into an endpoint source and link list. Links
// without an id are assigned a fresh UUID. The scene is validated first.
func (s *Scene) Build() (flow.MapSource, []flow.Link, error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}
	src := flow.MapSource{}
	for _, n := range s.Nodes {
		src.Set(flow.NodeID(n.ID), flow.V(n.Position[0], n.Position[1], n.Position[2]))
	}
	links := make([]flow.Link, 0, len(s.Links))
	for _, l := range s.Links {
		links = append(links, l.link())
	}
	return src, links, nil
}

// Engine builds a ready engine from the scene.
func (s *Scene) Engine(opts ...flow.EngineOption) (*flow.Engine, flow.MapSource, error) {
	src, links, err := s.Build()
	if err != nil {
		return nil, nil, err
	}
	eng := flow.NewEngine(src, opts...)
	for _, l := range links {
		eng.Add(l)
	}
	return eng, src, nil
}

// Animate moves orbiting nodes to their angle at the given elapsed time.
// Nodes without an orbit keep their declared position; call it before
// each Advance when the scene declares orbits.
func (s *Scene) Animate(src flow.MapSource, elapsed float64) {
	for _, n := range s.Nodes {
		o := n.Orbit
		if o == nil || o.Radius <= 0 {
			continue
		}
		speed := o.Speed
		if speed == 0 {
			speed = 1
		}
		a := elapsed*speed + o.Phase
		src.Set(flow.NodeID(n.ID), flow.V(
			n.Position[0]+math.Cos(a)*o.Radius,
			n.Position[1],
			n.Position[2]+math.Sin(a)*o.Radius,
		))
	}
}

// Snapshot captures the current engine contents as a scene document.
// Nodes are emitted in ID order at their current positions (orbits are
// not recoverable from engine state); link configurations are the
// clamped values the engine holds, so a save and reload reproduces the
// engine exactly.
func Snapshot(eng *flow.Engine, src flow.MapSource) *Scene {
	s := &Scene{}
	ids := make([]string, 0, len(src))
	for id := range src {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)
	for _, id := range ids {
		p := src[flow.NodeID(id)]
		s.Nodes = append(s.Nodes, NodeSpec{ID: id, Position: [3]float64{p.X, p.Y, p.Z}})
	}
	eng.Each(func(l flow.Link) bool {
		s.Links = append(s.Links, linkSpec(l))
		return true
	})
	return s
}

func (l LinkSpec) link() flow.Link {
	id := l.ID
	if id == "" {
		id = uuid.New().String()
	}
	style, _ := flow.ParseStyle(l.Style)
	out := flow.Link{
		ID:     flow.LinkID(id),
		From:   flow.NodeID(l.From),
		To:     flow.NodeID(l.To),
		Style:  style,
		Active: l.Active == nil || *l.Active,
		Color:  specColor(l.Color),
		Speed:  l.Speed,
		Width:  l.Width,
	}
	if c := l.Curve; c != nil {
		mode, _ := flow.ParseCurveMode(c.Mode)
		out.Curve = flow.CurveConfig{
			Mode:      mode,
			Bend:      c.Bend,
			NoiseAmp:  c.NoiseAmp,
			NoiseFreq: c.NoiseFreq,
		}
	}
	if p := l.Particles; p != nil {
		shape, _ := flow.ParseMarkerShape(p.Shape)
		out.Particles = flow.ParticleConfig{
			Count:    p.Count,
			Size:     p.Size,
			Opacity:  p.Opacity,
			WaveAmp:  p.WaveAmp,
			WaveFreq: p.WaveFreq,
			Shape:    shape,
		}
	}
	if ic := l.Icons; ic != nil {
		out.Icons = flow.IconConfig{
			Glyph: ic.Glyph,
			Count: ic.Count,
			Size:  ic.Size,
			Color: specColor(ic.Color),
		}
	}
	if d := l.Dash; d != nil {
		out.Dash = flow.DashConfig{Length: d.Length, Gap: d.Gap}
		if d.Animate != nil {
			v := *d.Animate
			out.Dash.Animate = &v
		}
	}
	if tb := l.Tube; tb != nil {
		out.Tube = flow.TubeConfig{
			Thickness: tb.Thickness,
			Glow:      tb.Glow,
			Color:     specColor(tb.Color),
			Trail:     tb.Trail,
		}
	}
	return out
}

func linkSpec(l flow.Link) LinkSpec {
	spec := LinkSpec{
		ID:    string(l.ID),
		From:  string(l.From),
		To:    string(l.To),
		Style: l.Style.String(),
		Color: colorSpec(l.Color),
		Speed: l.Speed,
		Width: l.Width,
	}
	if !l.Active {
		f := false
		spec.Active = &f
	}
	if l.Curve != (flow.CurveConfig{}) {
		spec.Curve = &CurveSpec{
			Mode:      l.Curve.Mode.String(),
			Bend:      l.Curve.Bend,
			NoiseAmp:  l.Curve.NoiseAmp,
			NoiseFreq: l.Curve.NoiseFreq,
		}
	}
	switch l.Style {
	case flow.StyleParticles, flow.StyleWavy:
		spec.Particles = &ParticleSpec{
			Count:    l.Particles.Count,
			Size:     l.Particles.Size,
			Opacity:  l.Particles.Opacity,
			WaveAmp:  l.Particles.WaveAmp,
			WaveFreq: l.Particles.WaveFreq,
			Shape:    l.Particles.Shape.String(),
		}
	case flow.StyleIcons:
		spec.Icons = &IconSpec{
			Glyph: l.Icons.Glyph,
			Count: l.Icons.Count,
			Size:  l.Icons.Size,
			Color: colorSpec(l.Icons.Color),
		}
	case flow.StyleDashed:
		d := &DashSpec{Length: l.Dash.Length, Gap: l.Dash.Gap}
		if l.Dash.Animate != nil {
			v := *l.Dash.Animate
			d.Animate = &v
		}
		spec.Dash = d
	case flow.StyleTube:
		spec.Tube = &TubeSpec{
			Thickness: l.Tube.Thickness,
			Glow:      l.Tube.Glow,
			Color:     colorSpec(l.Tube.Color),
			Trail:     l.Tube.Trail,
		}
	}
	return spec
}

func specColor(s string) flow.RGBA {
	if s == "" {
		return flow.RGBA{}
	}
	return flow.Hex(s)
}

func colorSpec(c flow.RGBA) string {
	if c.IsZero() {
		return ""
	}
	return c.HexString()
}
