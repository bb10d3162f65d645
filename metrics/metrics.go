// Package metrics provides a Prometheus-backed [flow.Recorder].
//
// Attach a collector to an engine to export frame timing, link counts and
// per-style render counters:
//
//	eng := flow.NewEngine(src, flow.WithRecorder(metrics.New()))
//	http.Handle("/metrics", promhttp.Handler())
//
// All metrics carry the flow_ prefix.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/nodewire/flow"
)

// Collector implements [flow.Recorder] on top of Prometheus metrics.
type Collector struct {
	frames        prometheus.Counter
	frameDuration prometheus.Histogram
	links         prometheus.Gauge
	instances     prometheus.Gauge
	rendered      *prometheus.CounterVec
	skipped       *prometheus.CounterVec
}

// New creates a collector registered with the default Prometheus
// registerer.
func New() *Collector {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates a collector registered with reg. Use a dedicated
// registry in tests or when embedding several engines in one process.
func NewWith(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		frames: f.NewCounter(prometheus.CounterOpts{
			Name: "flow_frames_total",
			Help: "Total number of completed Advance calls",
		}),
		frameDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name: "flow_frame_duration_seconds",
			Help: "Duration of one Advance call in seconds",
			// Frame budget at 60 fps is 16.6 ms; Advance should sit well
			// under it, so the buckets start in the microseconds.
			Buckets: []float64{0.00001, 0.000025, 0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.0166},
		}),
		links: f.NewGauge(prometheus.GaugeOpts{
			Name: "flow_links",
			Help: "Number of links admitted to the engine",
		}),
		instances: f.NewGauge(prometheus.GaugeOpts{
			Name: "flow_stream_instances",
			Help: "Stream instances emitted in the most recent frame",
		}),
		rendered: f.NewCounterVec(prometheus.CounterOpts{
			Name: "flow_links_rendered_total",
			Help: "Total links rendered, labeled by style",
		}, []string{"style"}),
		skipped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "flow_links_skipped_total",
			Help: "Total links skipped, labeled by reason",
		}, []string{"reason"}),
	}
}

// FrameAdvanced implements [flow.Recorder].
func (c *Collector) FrameAdvanced(d time.Duration, links, instances int) {
	c.frames.Inc()
	c.frameDuration.Observe(d.Seconds())
	c.links.Set(float64(links))
	c.instances.Set(float64(instances))
}

// LinkRendered implements [flow.Recorder].
func (c *Collector) LinkRendered(style flow.Style) {
	c.rendered.WithLabelValues(style.String()).Inc()
}

// LinkSkipped implements [flow.Recorder].
func (c *Collector) LinkSkipped(reason string) {
	c.skipped.WithLabelValues(reason).Inc()
}

var _ flow.Recorder = (*Collector)(nil)
