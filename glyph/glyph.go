// Package glyph resolves icon glyphs to font glyph IDs for rendering.
//
// Icon streams carry a rune; a rendering host needs the glyph index,
// advance and positioning of that rune in a concrete font to build its
// glyph atlas or draw calls. Shaper wraps go-text/typesetting's HarfBuzz
// shaper with a font registry and a result cache, so the per-frame lookup
// is a map read after the first frame.
package glyph

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"
)

// Info describes one shaped glyph at a fixed size.
type Info struct {
	// GID is the glyph index in the font. Zero is the font's .notdef
	// glyph, which shaping substitutes for runes the font does not cover.
	GID font.GID

	// Advance is the horizontal advance in pixels.
	Advance float64

	// XOffset and YOffset are fine positioning adjustments in pixels,
	// applied on top of the pen position.
	XOffset, YOffset float64
}

type cacheKey struct {
	font string
	r    rune
	size fixed.Int26_6
}

// Shaper shapes single runes against registered fonts.
//
// Shaper is safe for concurrent use: parsed font.Font values are
// read-only, font.Face instances are created per call (font.Face is not
// concurrent-safe), and HarfbuzzShaper instances are pooled since they
// carry internal buffers.
type Shaper struct {
	pool sync.Pool

	mu    sync.RWMutex
	fonts map[string]*font.Font
	cache map[cacheKey]Info
}

// NewShaper creates an empty shaper. Register fonts with LoadFont before
// shaping.
func NewShaper() *Shaper {
	return &Shaper{
		pool: sync.Pool{
			New: func() any {
				return &shaping.HarfbuzzShaper{}
			},
		},
		fonts: make(map[string]*font.Font),
		cache: make(map[cacheKey]Info),
	}
}

// LoadFont parses TTF or OTF data and registers it under name. Loading
// the same name again replaces the font and drops its cached lookups.
func (s *Shaper) LoadFont(name string, data []byte) error {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parse font %q: %w", name, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fonts[name] = face.Font
	for k := range s.cache {
		if k.font == name {
			delete(s.cache, k)
		}
	}
	return nil
}

// Fonts returns the registered font names.
func (s *Shaper) Fonts() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.fonts))
	for name := range s.fonts {
		names = append(names, name)
	}
	return names
}

// Shape returns the glyph info of r in the named font at size pixels.
// Results are cached per (font, rune, size).
func (s *Shaper) Shape(fontName string, r rune, size float64) (Info, error) {
	key := cacheKey{font: fontName, r: r, size: floatToFixed(size)}
	s.mu.RLock()
	info, hit := s.cache[key]
	fnt := s.fonts[fontName]
	s.mu.RUnlock()
	if hit {
		return info, nil
	}
	if fnt == nil {
		return Info{}, fmt.Errorf("font %q not loaded", fontName)
	}

	input := shaping.Input{
		Text:      []rune{r},
		RunStart:  0,
		RunEnd:    1,
		Direction: di.DirectionLTR,
		Face:      font.NewFace(fnt),
		Size:      key.size,
		Script:    language.LookupScript(r),
		Language:  language.NewLanguage("en"),
	}
	hb := s.pool.Get().(*shaping.HarfbuzzShaper)
	out := hb.Shape(input)
	s.pool.Put(hb)

	if len(out.Glyphs) == 0 {
		return Info{}, fmt.Errorf("font %q: no glyph output for %q", fontName, r)
	}
	g := out.Glyphs[0]
	info = Info{
		GID:     g.GlyphID,
		Advance: fixedToFloat(g.Advance),
		XOffset: fixedToFloat(g.XOffset),
		YOffset: fixedToFloat(g.YOffset),
	}
	s.mu.Lock()
	s.cache[key] = info
	s.mu.Unlock()
	return info, nil
}

// FirstRune returns the first rune of s after Unicode NFC normalization,
// or fallback when s is empty. It matches how the engine picks the
// rendered rune from an icon glyph string.
func FirstRune(s string, fallback rune) rune {
	for _, r := range norm.NFC.String(s) {
		return r
	}
	return fallback
}

// floatToFixed converts a float64 pixel size to fixed.Int26_6.
func floatToFixed(size float64) fixed.Int26_6 {
	return fixed.Int26_6(size * 64)
}

// fixedToFloat converts a fixed.Int26_6 value to float64.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}
