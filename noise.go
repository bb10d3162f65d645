package flow

import "math"

// NoiseOffset returns the pseudo-random displacement applied to a link
// curve's control point at time t.
//
// The offset combines three sine waves at incommensurate frequency ratios,
// phase-seeded by the endpoint coordinates. Two links sharing a node still
// wobble differently, while any given link is a pure function of its
// endpoints and t. freq scales the time axis, amp the displacement.
func NoiseOffset(from, to Vec3, t, freq, amp float64) Vec3 {
	if amp == 0 {
		return Vec3{}
	}
	return Vec3{
		X: math.Sin(t*freq*1.13+from.X) * amp,
		Y: math.Cos(t*freq*0.87+to.Y) * amp,
		Z: math.Sin(t*freq*1.41+from.Z) * amp,
	}
}
