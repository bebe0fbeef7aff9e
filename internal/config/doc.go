// Package config provides configuration management for fplsync.
//
// This package handles:
//   - Raw Settings as read from flags, environment, config files or JSON
//   - Validation into an immutable Config
//   - IEC size strings ("20M", "1.5t", "-2g")
//
// # Resolving Settings
//
//	settings := config.DefaultSettings()
//	settings.PlaylistSource = "/mnt/c/Users/me/AppData/Roaming/foobar2000/playlists-v1.4"
//	settings.Source = "/media/music"
//	settings.Dest = "/media/phone/Music"
//	settings.MaxSize = "-500m" // leave 500 MiB free
//
//	cfg, err := settings.Resolve()
//	if errors.Is(err, config.ErrInvalid) {
//	    // missing directory, bad size, relative mapping, ...
//	}
//
// # Loading from File
//
// The TUI keeps its settings between runs:
//
//	settings, err := config.Load(config.DefaultSettingsPath())
//	// Uses defaults if the file doesn't exist
//
//	err = settings.Save(config.DefaultSettingsPath())
package config
