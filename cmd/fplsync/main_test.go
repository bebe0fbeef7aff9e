package main

import (
	"errors"
	"testing"

	"github.com/handiism/fplsync/internal/config"
)

func TestRootCommand_RequiresPlaylists(t *testing.T) {
	if err := rootCmd.Args(rootCmd, nil); err == nil {
		t.Error("Args(no playlists) error = nil, want an error")
	}
	if err := rootCmd.Args(rootCmd, []string{"Mix"}); err != nil {
		t.Errorf("Args(Mix) error = %v", err)
	}

	if err := runSync(rootCmd, nil); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("runSync() error = %v, want config.ErrInvalid", err)
	}
}

func TestRootCommand_SubcommandsWithoutPlaylists(t *testing.T) {
	for _, name := range []string{"list", "show"} {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("Find(%q) = %v, %v", name, cmd, err)
		}
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
		{3 << 30, "3.0 GiB"},
		{2 << 40, "2.0 TiB"},
	}

	for _, tt := range tests {
		if got := formatSize(tt.in); got != tt.want {
			t.Errorf("formatSize(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
