package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"0", 0},
		{"1234", 1234},
		{"-1234", -1234},
		{"+42", 42},
		{"1k", 1024},
		{"1K", 1024},
		{"20M", 20 << 20},
		{"20m", 20 << 20},
		{"3g", 3 << 30},
		{"2T", 2 << 40},
		{"1.5k", 1536},
		{"1.5T", 3 << 39},
		{"-500m", -500 << 20},
		{" 7k ", 7 << 10},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSize(tt.in)
			if err != nil {
				t.Fatalf("ParseSize(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseSize(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseSize_Invalid(t *testing.T) {
	for _, in := range []string{"", "k", "12p", "1.5", "abc", "12kb", "NaNk", "1e30t"} {
		t.Run(in, func(t *testing.T) {
			if _, err := ParseSize(in); !errors.Is(err, ErrInvalidSize) {
				t.Errorf("ParseSize(%q) error = %v, want ErrInvalidSize", in, err)
			}
		})
	}
}

func newDirs(t *testing.T) *Settings {
	t.Helper()
	root := t.TempDir()
	s := DefaultSettings()
	s.PlaylistSource = filepath.Join(root, "playlists")
	s.Source = filepath.Join(root, "music")
	s.Dest = filepath.Join(root, "dest")
	for _, dir := range []string{s.PlaylistSource, s.Source, s.Dest} {
		if err := os.Mkdir(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func TestResolve(t *testing.T) {
	s := newDirs(t)
	s.SourceMapping = `f:/Music`
	s.MaxSize = "-1g"
	s.MinFree = "10m"
	s.Playlists = []string{"Mix"}

	cfg, err := s.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if cfg.SourceMapping != `F:\Music\` {
		t.Errorf("SourceMapping = %q, want %q", cfg.SourceMapping, `F:\Music\`)
	}
	if cfg.MaxSize == nil || *cfg.MaxSize != -1<<30 {
		t.Errorf("MaxSize = %v", cfg.MaxSize)
	}
	if cfg.MinFree == nil || *cfg.MinFree != 10<<20 {
		t.Errorf("MinFree = %v", cfg.MinFree)
	}
	if cfg.PlaylistDest != "" {
		t.Errorf("PlaylistDest = %q, want empty", cfg.PlaylistDest)
	}
	if cfg.RsyncPath != "rsync" {
		t.Errorf("RsyncPath = %q", cfg.RsyncPath)
	}

	s.Playlists[0] = "changed"
	if cfg.Playlists[0] != "Mix" {
		t.Error("Config should not share the playlist slice with Settings")
	}

	pc := cfg.PathConfig()
	if pc.Source != cfg.Source || pc.SourceMapping != cfg.SourceMapping {
		t.Errorf("PathConfig() = %+v", pc)
	}
}

func TestResolve_RelativeDirsMadeAbsolute(t *testing.T) {
	s := newDirs(t)
	t.Chdir(filepath.Dir(s.Source))
	s.Source = "music"

	cfg, err := s.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !filepath.IsAbs(cfg.Source) {
		t.Errorf("Source = %q, want absolute", cfg.Source)
	}
}

func TestResolve_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		modify func(s *Settings)
	}{
		{"missing source", func(s *Settings) { s.Source = "" }},
		{"nonexistent dest", func(s *Settings) { s.Dest = filepath.Join(s.Dest, "nope") }},
		{"playlist dest is a file", func(s *Settings) {
			file := filepath.Join(s.Dest, "file")
			_ = os.WriteFile(file, nil, 0644)
			s.PlaylistDest = file
		}},
		{"relative mapping", func(s *Settings) { s.SourceMapping = `Music\` }},
		{"drive-relative mapping", func(s *Settings) { s.SourceMapping = `F:Music` }},
		{"tiny max size", func(s *Settings) { s.MaxSize = "1000" }},
		{"bad max size", func(s *Settings) { s.MaxSize = "10x" }},
		{"negative min free", func(s *Settings) { s.MinFree = "-1m" }},
		{"playlist dest equals dest", func(s *Settings) { s.PlaylistDest = s.Dest }},
		{"playlist dest inside dest", func(s *Settings) {
			s.PlaylistDest = filepath.Join(s.Dest, "Playlists")
			_ = os.Mkdir(s.PlaylistDest, 0755)
		}},
		{"dest inside playlist dest", func(s *Settings) {
			s.PlaylistDest = s.Dest
			s.Dest = filepath.Join(s.Dest, "Music")
			_ = os.Mkdir(s.Dest, 0755)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newDirs(t)
			tt.modify(s)
			if _, err := s.Resolve(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Resolve() error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestResolve_SmallNegativeMaxSizeAllowed(t *testing.T) {
	s := newDirs(t)
	s.MaxSize = "-100"
	if _, err := s.Resolve(); err != nil {
		t.Errorf("Resolve() error = %v", err)
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() of missing file error = %v", err)
	}
	if s.RsyncPath != "rsync" {
		t.Errorf("Load() of missing file should return defaults, got %+v", s)
	}

	s.Source = "/media/music"
	s.Playlists = []string{"A", "B"}
	s.MaxSize = "-1g"
	if err := s.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Source != s.Source || loaded.MaxSize != s.MaxSize || len(loaded.Playlists) != 2 {
		t.Errorf("Load() = %+v, want %+v", loaded, s)
	}
}

func TestResolveLibrary(t *testing.T) {
	s := &Settings{
		PlaylistSource: t.TempDir(),
		Source:         t.TempDir(),
		SourceMapping:  `f:/Music`,
	}

	cfg, err := s.ResolveLibrary()
	if err != nil {
		t.Fatalf("ResolveLibrary() error = %v", err)
	}
	if cfg.SourceMapping != `F:\Music\` {
		t.Errorf("SourceMapping = %q", cfg.SourceMapping)
	}
	if cfg.Dest != "" {
		t.Errorf("Dest = %q, want empty", cfg.Dest)
	}

	s.Source = ""
	if _, err := s.ResolveLibrary(); !errors.Is(err, ErrInvalid) {
		t.Errorf("ResolveLibrary() without source error = %v, want ErrInvalid", err)
	}
}

func TestResolve_SiblingDestinations(t *testing.T) {
	s := newDirs(t)
	s.PlaylistDest = filepath.Join(filepath.Dir(s.Dest), "dest-playlists")
	if err := os.Mkdir(s.PlaylistDest, 0755); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Resolve(); err != nil {
		t.Errorf("Resolve() error = %v", err)
	}
}
