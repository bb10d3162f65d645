package flow

// Style selects the visual representation of a link. Exactly one style is
// active per link; dispatch is a tagged switch, not string comparison, so
// an unknown value degrades to StyleSolid instead of silently rendering
// nothing.
type Style uint8

const (
	// StyleSolid draws the curve as a plain stroke.
	StyleSolid Style = iota

	// StyleDashed draws the curve as an animated dashed stroke.
	StyleDashed

	// StyleParticles emits a stream of markers traveling along the curve.
	StyleParticles

	// StyleWavy is a particle stream with a transverse wave and slightly
	// raised speed.
	StyleWavy

	// StyleIcons emits evenly spaced billboarded glyphs along the curve.
	StyleIcons

	// StyleTube extrudes a glowing tube around the curve with a traveling
	// head.
	StyleTube
)

// String returns the style name.
func (s Style) String() string {
	switch s {
	case StyleSolid:
		return "solid"
	case StyleDashed:
		return "dashed"
	case StyleParticles:
		return "particles"
	case StyleWavy:
		return "wavy"
	case StyleIcons:
		return "icons"
	case StyleTube:
		return "tube"
	default:
		return "unknown"
	}
}

// ParseStyle maps a style name to its Style value.
// Unknown names return StyleSolid and false.
func ParseStyle(name string) (Style, bool) {
	switch name {
	case "solid", "":
		return StyleSolid, name == "solid"
	case "dashed":
		return StyleDashed, true
	case "particles":
		return StyleParticles, true
	case "wavy":
		return StyleWavy, true
	case "icons":
		return StyleIcons, true
	case "tube":
		return StyleTube, true
	default:
		return StyleSolid, false
	}
}

// MarkerShape selects the marker drawn for each particle instance.
type MarkerShape uint8

const (
	// ShapeSphere is the default round marker.
	ShapeSphere MarkerShape = iota

	// ShapeBox is a cube marker, axis aligned.
	ShapeBox

	// ShapeOcta is an octahedral marker.
	ShapeOcta

	// ShapeSpark is an elongated marker stretched along the tangent.
	ShapeSpark
)

// String returns the shape name.
func (m MarkerShape) String() string {
	switch m {
	case ShapeSphere:
		return "sphere"
	case ShapeBox:
		return "box"
	case ShapeOcta:
		return "octa"
	case ShapeSpark:
		return "spark"
	default:
		return "unknown"
	}
}

// ParseMarkerShape maps a shape name to its MarkerShape value.
// Unknown names return ShapeSphere and false.
func ParseMarkerShape(name string) (MarkerShape, bool) {
	switch name {
	case "sphere", "":
		return ShapeSphere, name == "sphere"
	case "box":
		return ShapeBox, true
	case "octa":
		return ShapeOcta, true
	case "spark":
		return ShapeSpark, true
	default:
		return ShapeSphere, false
	}
}

// Defaults adopted by Clamp when a config field is left at its zero value.
const (
	DefaultWidth         = 0.02
	DefaultParticleCount = 12
	DefaultParticleSize  = 0.08
	DefaultOpacity       = 0.9
	DefaultWaveFreq      = 3.0
	DefaultWaveAmp       = 0.12
	DefaultIconCount     = 3
	DefaultIconSize      = 0.3
	DefaultDashLength    = 0.25
	DefaultDashGap       = 0.15
	DefaultTubeThickness = 0.05
	DefaultTubeGlow      = 1.0

	// MaxStreamCount bounds per-link instance counts so a bad config
	// cannot balloon frame output.
	MaxStreamCount = 4096
)

// CurveConfig controls the shape of a link curve.
type CurveConfig struct {
	// Mode selects the control point displacement.
	Mode CurveMode

	// Bend is the displacement strength in [0, 1].
	Bend float64

	// NoiseAmp is the amplitude of the control point wobble, in world
	// units. Zero disables the wobble.
	NoiseAmp float64

	// NoiseFreq scales the wobble speed.
	NoiseFreq float64
}

// Clamp normalizes the config in place to its documented ranges.
func (c *CurveConfig) Clamp() {
	c.Bend = clamp01(c.Bend)
	if c.NoiseAmp < 0 {
		c.NoiseAmp = 0
	}
	if c.NoiseFreq < 0 {
		c.NoiseFreq = 0
	}
	if c.NoiseAmp > 0 && c.NoiseFreq == 0 {
		c.NoiseFreq = 1
	}
}

// ParticleConfig controls particle and wavy streams.
type ParticleConfig struct {
	// Count is the number of simultaneous instances on the curve.
	Count int

	// Size is the marker size in world units.
	Size float64

	// Opacity is the base instance opacity in [0, 1].
	Opacity float64

	// WaveAmp is the transverse wave amplitude. StyleParticles uses it as
	// given; StyleWavy substitutes DefaultWaveAmp when zero.
	WaveAmp float64

	// WaveFreq is the number of wave periods along the curve.
	WaveFreq float64

	// Shape selects the marker geometry.
	Shape MarkerShape
}

// Clamp normalizes the config in place to its documented ranges.
// A zero Count adopts DefaultParticleCount; anything below one instance is
// raised to one and counts above MaxStreamCount are capped.
func (c *ParticleConfig) Clamp() {
	if c.Count == 0 {
		c.Count = DefaultParticleCount
	}
	if c.Count < 1 {
		c.Count = 1
	}
	if c.Count > MaxStreamCount {
		c.Count = MaxStreamCount
	}
	if c.Size <= 0 {
		c.Size = DefaultParticleSize
	}
	if c.Opacity <= 0 {
		c.Opacity = DefaultOpacity
	}
	c.Opacity = clamp01(c.Opacity)
	if c.WaveAmp < 0 {
		c.WaveAmp = 0
	}
	if c.WaveFreq <= 0 {
		c.WaveFreq = DefaultWaveFreq
	}
}

// IconConfig controls icon streams.
type IconConfig struct {
	// Glyph is the icon text; the first rune after Unicode NFC
	// normalization is rendered.
	Glyph string

	// Count is the number of simultaneous glyphs on the curve.
	Count int

	// Size is the glyph size in world units.
	Size float64

	// Color overrides the link color when non-zero.
	Color RGBA
}

// Clamp normalizes the config in place to its documented ranges.
func (c *IconConfig) Clamp() {
	if c.Count == 0 {
		c.Count = DefaultIconCount
	}
	if c.Count < 1 {
		c.Count = 1
	}
	if c.Count > MaxStreamCount {
		c.Count = MaxStreamCount
	}
	if c.Size <= 0 {
		c.Size = DefaultIconSize
	}
	if c.Glyph == "" {
		c.Glyph = "●"
	}
}

// DashConfig controls dashed strokes.
type DashConfig struct {
	// Length is the dash length in world units.
	Length float64

	// Gap is the gap length in world units.
	Gap float64

	// Animate controls the scrolling animation. nil means animate; an
	// explicit false freezes the pattern even while the engine clock is
	// animating.
	Animate *bool
}

// Clamp normalizes the config in place to its documented ranges.
func (c *DashConfig) Clamp() {
	if c.Length <= 0 {
		c.Length = DefaultDashLength
	}
	if c.Gap <= 0 {
		c.Gap = DefaultDashGap
	}
}

// Animated reports whether the dash pattern should scroll while the
// engine clock is animating.
func (c DashConfig) Animated() bool {
	return c.Animate == nil || *c.Animate
}

// TubeConfig controls tube extrusion.
type TubeConfig struct {
	// Thickness is the tube radius in world units.
	Thickness float64

	// Glow is the base emissive strength. Values above one overdrive.
	Glow float64

	// Color overrides the link color when non-zero.
	Color RGBA

	// Trail enables the traveling head marker.
	Trail bool
}

// Clamp normalizes the config in place to its documented ranges.
func (c *TubeConfig) Clamp() {
	if c.Thickness <= 0 {
		c.Thickness = DefaultTubeThickness
	}
	if c.Glow <= 0 {
		c.Glow = DefaultTubeGlow
	}
}

// clamp01 clamps a value to [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
