package rsync

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"
)

func TestPlaylistArgs(t *testing.T) {
	sep := string(filepath.Separator)
	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{
			name: "default",
			opts: Options{},
			want: []string{"rsync", "-r", "--delete", "--size-only", "/tmp/s/playlists" + sep, "/media/phone/Playlists"},
		},
		{
			name: "dry run with custom binary",
			opts: Options{Binary: "/opt/bin/rsync", DryRun: true},
			want: []string{"/opt/bin/rsync", "-r", "--delete", "--size-only", "-n", "/tmp/s/playlists" + sep, "/media/phone/Playlists"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlaylistArgs(tt.opts, filepath.FromSlash("/tmp/s/playlists/"), filepath.FromSlash("/media/phone/Playlists/"))
			for i := range tt.want {
				tt.want[i] = filepath.FromSlash(tt.want[i])
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PlaylistArgs() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSongArgs(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("paths below are POSIX")
	}

	got := SongArgs(Options{DryRun: true}, "/tmp/s/include.txt", "/media/music", "/media/phone/Music")
	want := []string{
		"rsync", "-mrltD", "--delete-before", "--modify-window=1", "--delete-excluded",
		"--include-from=/tmp/s/include.txt", "--exclude=*", "-n",
		"/media/music/", "/media/phone/Music",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SongArgs() = %q, want %q", got, want)
	}

	got = SongArgs(Options{}, "/i", "/", "/d")
	if got[len(got)-3] != "--exclude=*" || got[len(got)-2] != "/" {
		t.Errorf("SongArgs() without dry run = %q", got)
	}
}

func TestExecRunner(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	var stdout, stderr bytes.Buffer
	runner := NewExecRunner(&stdout, &stderr)

	res := runner.Run(context.Background(), []string{"sh", "-c", "echo out; echo err >&2; exit 23"})
	if res.ExitCode != 23 || res.Err != nil {
		t.Errorf("Run() = %+v, want exit code 23", res)
	}
	if !res.Failed() {
		t.Error("Failed() = false for exit code 23")
	}
	if res.Stderr != "err\n" || stderr.String() != "err\n" {
		t.Errorf("stderr = %q / %q", res.Stderr, stderr.String())
	}
	if stdout.String() != "out\n" {
		t.Errorf("stdout = %q", stdout.String())
	}

	ok := runner.Run(context.Background(), []string{"sh", "-c", "exit 0"})
	if ok.Failed() {
		t.Errorf("Run() = %+v, want success", ok)
	}
}

func TestExecRunner_NotStarted(t *testing.T) {
	res := NewExecRunner(nil, nil).Run(context.Background(), []string{filepath.Join(t.TempDir(), "no-such-rsync")})
	if res.ExitCode != -1 || res.Err == nil || !res.Failed() {
		t.Errorf("Run() = %+v, want start failure", res)
	}

	if res := (&ExecRunner{}).Run(context.Background(), nil); res.Err == nil {
		t.Error("Run() with empty command line should fail")
	}
}

func TestCheck_NotFound(t *testing.T) {
	_, err := Check(filepath.Join(t.TempDir(), "no-such-rsync"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Check() error = %v, want ErrNotFound", err)
	}
}
