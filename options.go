package flow

import "time"

// Recorder receives engine instrumentation events. The metrics package
// provides a Prometheus-backed implementation; an engine built without
// [WithRecorder] skips instrumentation entirely.
type Recorder interface {
	// FrameAdvanced records one completed Advance call.
	FrameAdvanced(duration time.Duration, links, instances int)

	// LinkRendered records one link emitted with the given style.
	LinkRendered(style Style)

	// LinkSkipped records one link skipped for the given reason.
	LinkSkipped(reason string)
}

// EngineOption configures an Engine during creation.
// Use functional options to customize engine behavior.
//
// Example:
//
//	// Default engine
//	eng := flow.NewEngine(src)
//
//	// Z-up world with Prometheus instrumentation
//	eng := flow.NewEngine(src,
//	    flow.WithWorldUp(flow.V(0, 0, 1)),
//	    flow.WithRecorder(metrics.New()),
//	)
type EngineOption func(*engineOptions)

// engineOptions holds optional configuration for Engine creation.
type engineOptions struct {
	worldUp  Vec3
	edgeFade bool
	recorder Recorder
}

// defaultEngineOptions returns the default engine options.
func defaultEngineOptions() engineOptions {
	return engineOptions{
		worldUp:  DefaultWorldUp,
		edgeFade: true,
	}
}

// WithWorldUp sets the world up direction used for curve bending and
// stream wave displacement. The vector is normalized; a zero vector is
// ignored and the default (+Y) kept.
func WithWorldUp(up Vec3) EngineOption {
	return func(o *engineOptions) {
		if up.LengthSquared() > epsZero {
			o.worldUp = up.Normalize()
		}
	}
}

// WithEdgeFade controls the opacity ramp applied to stream instances near
// the curve endpoints. Enabled by default; disable it when the host
// applies its own fade.
func WithEdgeFade(enabled bool) EngineOption {
	return func(o *engineOptions) {
		o.edgeFade = enabled
	}
}

// WithRecorder attaches an instrumentation recorder to the engine.
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	eng := flow.NewEngine(src, flow.WithRecorder(metrics.NewWith(reg)))
func WithRecorder(r Recorder) EngineOption {
	return func(o *engineOptions) {
		o.recorder = r
	}
}
