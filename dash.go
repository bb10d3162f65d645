package flow

import "math"

// dashScrollRate converts link speed into dash offset units per second.
// The offset scrolls negative so dashes travel from the start of the
// stroke toward the end.
const dashScrollRate = 0.8

// DashPattern describes the dash cycle of a dashed stroke. A pattern is
// one dash of Length followed by one gap of Gap, repeating, shifted by
// Offset. Lengths are in world units along the flattened stroke.
type DashPattern struct {
	// Length is the dash length.
	Length float64

	// Gap is the gap length.
	Gap float64

	// Offset is the starting offset into the pattern cycle.
	Offset float64
}

// NewDashPattern creates a dash pattern from dash and gap lengths.
// Negative lengths are folded to their absolute values. Returns nil when
// both lengths are zero, which callers treat as a solid stroke.
func NewDashPattern(length, gap float64) *DashPattern {
	length = math.Abs(length)
	gap = math.Abs(gap)
	if length == 0 && gap == 0 {
		return nil
	}
	return &DashPattern{Length: length, Gap: gap}
}

// CycleLength returns the total length of one dash+gap cycle.
func (d *DashPattern) CycleLength() float64 {
	if d == nil {
		return 0
	}
	return d.Length + d.Gap
}

// IsDashed reports whether the pattern produces visible dashing.
// Returns false for nil patterns and patterns without a positive dash or
// gap length.
func (d *DashPattern) IsDashed() bool {
	return d != nil && d.Length > 0 && d.Gap > 0
}

// NormalizedOffset returns the offset wrapped into one pattern cycle.
// Segmenting a flattened stroke starts at this point in the cycle.
func (d *DashPattern) NormalizedOffset() float64 {
	if d == nil {
		return 0
	}
	cycle := d.CycleLength()
	if cycle <= 0 {
		return 0
	}
	offset := math.Mod(d.Offset, cycle)
	if offset < 0 {
		offset += cycle
	}
	return offset
}

// Clone creates a copy of the pattern.
func (d *DashPattern) Clone() *DashPattern {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

// AdvanceDashOffset returns the dash offset after dt seconds at the given
// link speed. The scroll rate is dashScrollRate of the link speed; callers
// freeze the offset by not calling this while animation is off.
func AdvanceDashOffset(offset, speed, dt float64) float64 {
	return offset - speed*dashScrollRate*dt
}
