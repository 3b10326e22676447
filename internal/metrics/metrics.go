// Package metrics exports pipeline progress as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"bgs-showcase/internal/pipeline"
)

const namespace = "bgs"

// Collector implements pipeline.Observer on top of its own registry, so
// several collectors can live in one process (and in tests) without
// clashing on the default registerer.
type Collector struct {
	registry *prometheus.Registry

	frames    *prometheus.CounterVec
	runs      *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	remaining *prometheus.GaugeVec
}

var _ pipeline.Observer = (*Collector)(nil)

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),

		frames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_processed_total",
			Help:      "Frames fully processed, per algorithm",
		}, []string{"algorithm"}),

		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Finished runs by algorithm and reason",
		}, []string{"algorithm", "reason"}),

		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_duration_seconds",
			Help:      "Wall time of one pipeline step",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"algorithm"}),

		remaining: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "frames_remaining",
			Help:      "Frames left in the current run; -1 when unknown",
		}, []string{"algorithm"}),
	}

	c.registry.MustRegister(
		c.frames, c.runs, c.duration, c.remaining,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) RunStarted(algorithm string) {
	c.frames.WithLabelValues(algorithm).Add(0)
	c.remaining.WithLabelValues(algorithm).Set(-1)
}

func (c *Collector) FrameProcessed(algorithm string, _ int, elapsed time.Duration, remaining int) {
	c.frames.WithLabelValues(algorithm).Inc()
	c.duration.WithLabelValues(algorithm).Observe(elapsed.Seconds())
	c.remaining.WithLabelValues(algorithm).Set(float64(remaining))
}

func (c *Collector) RunFinished(algorithm string, outcome pipeline.Outcome) {
	c.runs.WithLabelValues(algorithm, outcome.Reason.String()).Inc()
	c.remaining.DeleteLabelValues(algorithm)
}
