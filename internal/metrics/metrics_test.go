package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder(t *testing.T) {
	r := New()

	r.SetBudget(12000)
	r.Selected(3000)
	r.SongAdmitted()
	r.SongAdmitted()
	r.PlaylistStaged()
	r.Rejected(KindSong)
	r.Rsync(StepSongs, 23, 1500*time.Millisecond)

	if got := testutil.ToFloat64(r.BudgetBytes); got != 12000 {
		t.Errorf("budget = %v, want 12000", got)
	}
	if got := testutil.ToFloat64(r.SelectedBytes); got != 3000 {
		t.Errorf("selected = %v, want 3000", got)
	}
	if got := testutil.ToFloat64(r.SongsAdmitted); got != 2 {
		t.Errorf("songs admitted = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.Rejections.WithLabelValues(KindSong)); got != 1 {
		t.Errorf("song rejections = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.RsyncExitCode.WithLabelValues(StepSongs)); got != 23 {
		t.Errorf("rsync exit code = %v, want 23", got)
	}
	if got := testutil.ToFloat64(r.RsyncDuration.WithLabelValues(StepSongs)); got != 1.5 {
		t.Errorf("rsync duration = %v, want 1.5", got)
	}
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := New()
	r.SetBudget(1 << 20)

	path := filepath.Join(t.TempDir(), "fplsync.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"fplsync_budget_bytes 1.048576e+06", "fplsync_last_run_timestamp_seconds"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("textfile missing %q:\n%s", want, data)
		}
	}
}

func TestRecorder_Nil(t *testing.T) {
	var r *Recorder
	r.SetBudget(1)
	r.Selected(1)
	r.SongAdmitted()
	r.PlaylistStaged()
	r.Rejected(KindPlaylist)
	r.Rsync(StepPlaylists, 0, time.Second)
	if err := r.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")); err != nil {
		t.Errorf("WriteTextfile() on nil recorder error = %v", err)
	}
	if r.Registry() != nil {
		t.Error("Registry() on nil recorder should be nil")
	}
}
