package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/handiism/fplsync/internal/model"
	"github.com/handiism/fplsync/internal/ntpath"
)

// ErrInvalid is wrapped by every error returned from Resolve.
var ErrInvalid = errors.New("invalid configuration")

// MinMaxSize is the smallest positive max-size accepted. Anything below is
// almost certainly a missing unit suffix.
const MinMaxSize = 1024

// Settings holds all configuration options in their raw form, as read from
// flags, the environment, a config file or the TUI's settings JSON.
type Settings struct {
	// Directories
	PlaylistSource string `json:"playlist-source"`
	Source         string `json:"source"`
	Dest           string `json:"dest"`
	PlaylistDest   string `json:"playlist-dest,omitempty"`
	SourceMapping  string `json:"source-mapping,omitempty"`

	// Selection
	Playlists []string `json:"playlists,omitempty"`
	MaxSize   string   `json:"max-size,omitempty"`
	MinFree   string   `json:"min-free,omitempty"`
	Shuffle   bool     `json:"shuffle"`
	Seed      int64    `json:"seed,omitempty"`

	// Transfer
	DryRun      bool   `json:"dry-run"`
	KeepTemp    bool   `json:"keep-temp,omitempty"`
	RsyncPath   string `json:"rsync"`
	MetricsFile string `json:"metrics-file,omitempty"`
	AssumeYes   bool   `json:"yes,omitempty"`

	LogLevel string `json:"log-level"`
}

// Config is the validated form of Settings. It is not modified after Resolve
// returns it.
type Config struct {
	PlaylistSource string
	Source         string
	Dest           string
	PlaylistDest   string
	SourceMapping  string

	Playlists []string
	MaxSize   *int64
	MinFree   *int64
	Shuffle   bool
	Seed      int64

	DryRun      bool
	KeepTemp    bool
	RsyncPath   string
	MetricsFile string
	AssumeYes   bool

	LogLevel string
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		RsyncPath: "rsync",
		LogLevel:  "info",
	}
}

// DefaultSettingsPath returns the settings file used by the TUI.
func DefaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "fplsync", "settings.json")
}

// Load reads settings from a JSON file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Resolve validates the settings and returns the resulting Config.
//
// Directories must exist; they are made absolute and cleaned. A source
// mapping must be an absolute Windows path and is terminated with a
// backslash. Errors wrap ErrInvalid, and ErrInvalidSize for size strings.
func (s *Settings) Resolve() (*Config, error) {
	cfg := &Config{
		Playlists:   append([]string(nil), s.Playlists...),
		Shuffle:     s.Shuffle,
		Seed:        s.Seed,
		DryRun:      s.DryRun,
		KeepTemp:    s.KeepTemp,
		RsyncPath:   s.RsyncPath,
		MetricsFile: s.MetricsFile,
		AssumeYes:   s.AssumeYes,
		LogLevel:    s.LogLevel,
	}
	if cfg.RsyncPath == "" {
		cfg.RsyncPath = "rsync"
	}

	if err := s.resolveLibrary(cfg); err != nil {
		return nil, err
	}

	var err error
	if cfg.Dest, err = directory("dest", s.Dest, true); err != nil {
		return nil, err
	}
	if cfg.PlaylistDest, err = directory("playlist-dest", s.PlaylistDest, false); err != nil {
		return nil, err
	}
	if cfg.PlaylistDest != "" && (within(cfg.PlaylistDest, cfg.Dest) || within(cfg.Dest, cfg.PlaylistDest)) {
		return nil, fmt.Errorf("%w: dest %q and playlist-dest %q must not contain each other", ErrInvalid, cfg.Dest, cfg.PlaylistDest)
	}

	if s.MaxSize != "" {
		size, err := ParseSize(s.MaxSize)
		if err != nil {
			return nil, fmt.Errorf("%w: max-size: %w", ErrInvalid, err)
		}
		if size > 0 && size < MinMaxSize {
			return nil, fmt.Errorf("%w: max-size of %d bytes is probably missing a unit suffix", ErrInvalid, size)
		}
		cfg.MaxSize = &size
	}

	if s.MinFree != "" {
		size, err := ParseSize(s.MinFree)
		if err != nil {
			return nil, fmt.Errorf("%w: min-free: %w", ErrInvalid, err)
		}
		if size < 0 {
			return nil, fmt.Errorf("%w: min-free must not be negative", ErrInvalid)
		}
		cfg.MinFree = &size
	}

	return cfg, nil
}

// ResolveLibrary validates only what is needed to read playlists: the
// playlist source, the source directory and the source mapping. The
// returned Config has no destinations and is not usable for transfers.
func (s *Settings) ResolveLibrary() (*Config, error) {
	cfg := &Config{LogLevel: s.LogLevel}
	if err := s.resolveLibrary(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *Settings) resolveLibrary(cfg *Config) error {
	var err error
	if cfg.PlaylistSource, err = directory("playlist-source", s.PlaylistSource, true); err != nil {
		return err
	}
	if cfg.Source, err = directory("source", s.Source, true); err != nil {
		return err
	}

	if s.SourceMapping != "" {
		if !ntpath.IsAbs(s.SourceMapping) {
			return fmt.Errorf("%w: source-mapping %q must be an absolute Windows path", ErrInvalid, s.SourceMapping)
		}
		cfg.SourceMapping = ntpath.WithTrailingSep(ntpath.Clean(s.SourceMapping))
	}
	return nil
}

// PathConfig returns the directories needed to resolve songs.
func (c *Config) PathConfig() *model.PathConfig {
	return &model.PathConfig{
		Source:        c.Source,
		Dest:          c.Dest,
		PlaylistDest:  c.PlaylistDest,
		SourceMapping: c.SourceMapping,
	}
}

func directory(name, path string, required bool) (string, error) {
	if path == "" {
		if required {
			return "", fmt.Errorf("%w: %s directory is required", ErrInvalid, name)
		}
		return "", nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInvalid, name, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInvalid, name, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s %q is not a directory", ErrInvalid, name, abs)
	}

	return abs, nil
}

// within reports whether path is dir or lies below it.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
