package flow

import "testing"

func TestStyleString(t *testing.T) {
	tests := []struct {
		style Style
		want  string
	}{
		{StyleSolid, "solid"},
		{StyleDashed, "dashed"},
		{StyleParticles, "particles"},
		{StyleWavy, "wavy"},
		{StyleIcons, "icons"},
		{StyleTube, "tube"},
		{Style(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.style.String(); got != tt.want {
			t.Errorf("Style(%d).String() = %q, want %q", tt.style, got, tt.want)
		}
	}
}

func TestParseStyle(t *testing.T) {
	for _, s := range []Style{StyleSolid, StyleDashed, StyleParticles, StyleWavy, StyleIcons, StyleTube} {
		got, ok := ParseStyle(s.String())
		if !ok || got != s {
			t.Errorf("ParseStyle(%q) = %v, %v", s.String(), got, ok)
		}
	}

	got, ok := ParseStyle("laser")
	if ok || got != StyleSolid {
		t.Errorf("ParseStyle(unknown) = %v, %v; want StyleSolid, false", got, ok)
	}
	if _, ok := ParseStyle(""); ok {
		t.Error("empty style name reported as known")
	}
}

func TestParseMarkerShape(t *testing.T) {
	for _, s := range []MarkerShape{ShapeSphere, ShapeBox, ShapeOcta, ShapeSpark} {
		got, ok := ParseMarkerShape(s.String())
		if !ok || got != s {
			t.Errorf("ParseMarkerShape(%q) = %v, %v", s.String(), got, ok)
		}
	}
	if _, ok := ParseMarkerShape("blob"); ok {
		t.Error("unknown shape reported as known")
	}
}

func TestParticleConfigClamp(t *testing.T) {
	tests := []struct {
		name string
		in   ParticleConfig
		want ParticleConfig
	}{
		{
			name: "zero adopts defaults",
			in:   ParticleConfig{},
			want: ParticleConfig{
				Count:    DefaultParticleCount,
				Size:     DefaultParticleSize,
				Opacity:  DefaultOpacity,
				WaveFreq: DefaultWaveFreq,
			},
		},
		{
			name: "negative count raises to one",
			in:   ParticleConfig{Count: -3, Size: 0.1, Opacity: 0.5, WaveFreq: 2},
			want: ParticleConfig{Count: 1, Size: 0.1, Opacity: 0.5, WaveFreq: 2},
		},
		{
			name: "excessive count capped",
			in:   ParticleConfig{Count: 1 << 20, Size: 0.1, Opacity: 0.5, WaveFreq: 2},
			want: ParticleConfig{Count: MaxStreamCount, Size: 0.1, Opacity: 0.5, WaveFreq: 2},
		},
		{
			name: "opacity clamped to one",
			in:   ParticleConfig{Count: 4, Size: 0.1, Opacity: 3, WaveFreq: 2},
			want: ParticleConfig{Count: 4, Size: 0.1, Opacity: 1, WaveFreq: 2},
		},
		{
			name: "negative wave amp zeroed",
			in:   ParticleConfig{Count: 4, Size: 0.1, Opacity: 0.5, WaveAmp: -1, WaveFreq: 2},
			want: ParticleConfig{Count: 4, Size: 0.1, Opacity: 0.5, WaveFreq: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in
			got.Clamp()
			diff(t, tt.want, got)
		})
	}
}

func TestCurveConfigClamp(t *testing.T) {
	c := CurveConfig{Mode: ModeUp, Bend: 1.7, NoiseAmp: -2, NoiseFreq: -1}
	c.Clamp()
	diff(t, CurveConfig{Mode: ModeUp, Bend: 1}, c)

	// A positive amplitude without a frequency gets a usable frequency.
	c = CurveConfig{NoiseAmp: 0.5}
	c.Clamp()
	diff(t, CurveConfig{NoiseAmp: 0.5, NoiseFreq: 1}, c)
}

func TestDashConfigClamp(t *testing.T) {
	c := DashConfig{}
	c.Clamp()
	diff(t, DefaultDashLength, c.Length)
	diff(t, DefaultDashGap, c.Gap)

	c = DashConfig{Length: -1, Gap: 2}
	c.Clamp()
	diff(t, DefaultDashLength, c.Length)
	diff(t, 2.0, c.Gap)
}

func TestDashConfigAnimated(t *testing.T) {
	on := true
	off := false

	if !(DashConfig{}).Animated() {
		t.Error("nil Animate should animate")
	}
	if !(DashConfig{Animate: &on}).Animated() {
		t.Error("explicit true should animate")
	}
	if (DashConfig{Animate: &off}).Animated() {
		t.Error("explicit false should not animate")
	}
}

func TestIconConfigClamp(t *testing.T) {
	c := IconConfig{}
	c.Clamp()
	if c.Count != DefaultIconCount || c.Size != DefaultIconSize || c.Glyph == "" {
		t.Errorf("zero icon config not defaulted: %+v", c)
	}
}

func TestTubeConfigClamp(t *testing.T) {
	c := TubeConfig{Thickness: -0.5}
	c.Clamp()
	diff(t, DefaultTubeThickness, c.Thickness)
	diff(t, DefaultTubeGlow, c.Glow)

	c = TubeConfig{Thickness: 0.2, Glow: 2.5}
	c.Clamp()
	diff(t, 0.2, c.Thickness)
	diff(t, 2.5, c.Glow)
}

func TestLinkClamp(t *testing.T) {
	l := Link{ID: "l", From: "a", To: "b", Style: StyleParticles}
	l.Clamp()

	diff(t, 1.0, l.Speed)
	diff(t, DefaultWidth, l.Width)
	diff(t, RGB(1, 1, 1), l.Color)
	if l.Particles.Count != DefaultParticleCount {
		t.Errorf("nested config not clamped: %+v", l.Particles)
	}

	l = Link{ID: "l", Speed: -5, Width: 0.3, Color: RGB(1, 0, 0)}
	l.Clamp()
	diff(t, 0.0, l.Speed)
	diff(t, 0.3, l.Width)
	diff(t, RGB(1, 0, 0), l.Color)
}
