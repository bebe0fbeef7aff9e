// Package metrics records what a sync run did as Prometheus metrics.
//
// fplsync is not a long-running service, so instead of serving /metrics the
// recorder writes its registry to a file for node_exporter's textfile
// collector:
//
//	rec := metrics.New()
//	// ... run ...
//	err := rec.WriteTextfile("/var/lib/node_exporter/fplsync.prom")
//
// A nil *Recorder is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Rejection kinds used as the "kind" label.
const (
	KindSong     = "song"
	KindPlaylist = "playlist"
)

// Transfer steps used as the "step" label.
const (
	StepPlaylists = "playlists"
	StepSongs     = "songs"
)

// Recorder holds the metrics of one run in a private registry.
type Recorder struct {
	registry *prometheus.Registry

	BudgetBytes      prometheus.Gauge
	SelectedBytes    prometheus.Gauge
	SongsAdmitted    prometheus.Counter
	Rejections       *prometheus.CounterVec
	PlaylistsStaged  prometheus.Gauge
	RsyncExitCode    *prometheus.GaugeVec
	RsyncDuration    *prometheus.GaugeVec
	LastRunTimestamp prometheus.Gauge
}

// New creates a Recorder with all metrics registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		BudgetBytes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "fplsync_budget_bytes",
				Help: "Bytes available for playlists and songs on the destination",
			},
		),
		SelectedBytes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "fplsync_selected_bytes",
				Help: "Bytes of playlists and songs selected for transfer",
			},
		),
		SongsAdmitted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "fplsync_songs_admitted_total",
				Help: "Total number of distinct songs selected for transfer",
			},
		),
		Rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fplsync_admission_rejections_total",
				Help: "Total number of items rejected for lack of space",
			},
			[]string{"kind"},
		),
		PlaylistsStaged: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "fplsync_playlists_staged",
				Help: "Number of playlists rendered for transfer",
			},
		),
		RsyncExitCode: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fplsync_rsync_exit_code",
				Help: "Exit code of the last rsync invocation per step",
			},
			[]string{"step"},
		),
		RsyncDuration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fplsync_rsync_duration_seconds",
				Help: "Wall time of the last rsync invocation per step",
			},
			[]string{"step"},
		),
		LastRunTimestamp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "fplsync_last_run_timestamp_seconds",
				Help: "Unix time the last run finished",
			},
		),
	}

	r.registry.MustRegister(
		r.BudgetBytes,
		r.SelectedBytes,
		r.SongsAdmitted,
		r.Rejections,
		r.PlaylistsStaged,
		r.RsyncExitCode,
		r.RsyncDuration,
		r.LastRunTimestamp,
	)

	return r
}

// Registry returns the registry holding the run's metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// SetBudget records the computed budget.
func (r *Recorder) SetBudget(bytes int64) {
	if r == nil {
		return
	}
	r.BudgetBytes.Set(float64(bytes))
}

// Selected records the cumulative selection size.
func (r *Recorder) Selected(bytes int64) {
	if r == nil {
		return
	}
	r.SelectedBytes.Set(float64(bytes))
}

// SongAdmitted counts one admitted song.
func (r *Recorder) SongAdmitted() {
	if r == nil {
		return
	}
	r.SongsAdmitted.Inc()
}

// PlaylistStaged counts one rendered playlist.
func (r *Recorder) PlaylistStaged() {
	if r == nil {
		return
	}
	r.PlaylistsStaged.Inc()
}

// Rejected counts a rejection of the given kind.
func (r *Recorder) Rejected(kind string) {
	if r == nil {
		return
	}
	r.Rejections.WithLabelValues(kind).Inc()
}

// Rsync records the outcome of one rsync step.
func (r *Recorder) Rsync(step string, exitCode int, d time.Duration) {
	if r == nil {
		return
	}
	r.RsyncExitCode.WithLabelValues(step).Set(float64(exitCode))
	r.RsyncDuration.WithLabelValues(step).Set(d.Seconds())
}

// WriteTextfile stamps the run time and writes all metrics to path in the
// Prometheus text format. The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	r.LastRunTimestamp.SetToCurrentTime()
	return prometheus.WriteToTextfile(path, r.registry)
}
