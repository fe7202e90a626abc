// Package metrics exposes Prometheus collectors for view history and
// replay verification activity.
//
// A nil *Collectors is valid and records nothing, so instrumented code does
// not need to check whether metrics are enabled.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pixhist"

// Collectors groups the metrics recorded by the resource table.
type Collectors struct {
	ViewsOpened     prometheus.Counter
	ViewsClosed     prometheus.Counter
	SnapshotsPushed prometheus.Counter
	SnapshotsPruned prometheus.Counter
	Undos           prometheus.Counter
	Redos           prometheus.Counter
	HistoryBytes    prometheus.Gauge
	ReplayOutcomes  *prometheus.CounterVec
	FramesRecorded  prometheus.Counter
}

// New creates the collectors and registers them with reg. A nil reg
// leaves them unregistered, which is convenient in tests.
func New(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		ViewsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "views_opened_total",
			Help:      "Number of views added to the resource table.",
		}),
		ViewsClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "views_closed_total",
			Help:      "Number of views removed from the resource table.",
		}),
		SnapshotsPushed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_pushed_total",
			Help:      "Number of snapshots pushed onto view histories.",
		}),
		SnapshotsPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_pruned_total",
			Help:      "Number of undone snapshots discarded by a later push.",
		}),
		Undos: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "undo_total",
			Help:      "Number of successful undo operations.",
		}),
		Redos: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "redo_total",
			Help:      "Number of successful redo operations.",
		}),
		HistoryBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "history_compressed_bytes",
			Help:      "Compressed bytes held by all view histories.",
		}),
		ReplayOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replay_outcomes_total",
			Help:      "Verified frames by outcome.",
		}, []string{"outcome"}),
		FramesRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replay_frames_recorded_total",
			Help:      "Frame hashes appended to the expected queue.",
		}),
	}
	if reg != nil {
		reg.MustRegister(
			c.ViewsOpened, c.ViewsClosed,
			c.SnapshotsPushed, c.SnapshotsPruned,
			c.Undos, c.Redos, c.HistoryBytes,
			c.ReplayOutcomes, c.FramesRecorded,
		)
	}
	return c
}

// ViewOpened records a new view holding bytes of compressed history.
func (c *Collectors) ViewOpened(bytes int) {
	if c == nil {
		return
	}
	c.ViewsOpened.Inc()
	c.HistoryBytes.Add(float64(bytes))
}

// ViewClosed records a removed view that held bytes of compressed history.
func (c *Collectors) ViewClosed(bytes int) {
	if c == nil {
		return
	}
	c.ViewsClosed.Inc()
	c.HistoryBytes.Sub(float64(bytes))
}

// Pushed records a push that changed the history size by delta bytes and
// discarded pruned snapshots.
func (c *Collectors) Pushed(delta, pruned int) {
	if c == nil {
		return
	}
	c.SnapshotsPushed.Inc()
	c.SnapshotsPruned.Add(float64(pruned))
	c.HistoryBytes.Add(float64(delta))
}

// Undone records a successful undo.
func (c *Collectors) Undone() {
	if c == nil {
		return
	}
	c.Undos.Inc()
}

// Redone records a successful redo.
func (c *Collectors) Redone() {
	if c == nil {
		return
	}
	c.Redos.Inc()
}

// Recorded records a frame hash appended in record mode.
func (c *Collectors) Recorded() {
	if c == nil {
		return
	}
	c.FramesRecorded.Inc()
}

// Verified records a verify outcome under its kind label.
func (c *Collectors) Verified(kind string) {
	if c == nil {
		return
	}
	c.ReplayOutcomes.WithLabelValues(kind).Inc()
}
