package model

import (
	"path/filepath"
	"strings"

	"github.com/handiism/fplsync/internal/ntpath"
)

// PathConfig holds the directories needed to resolve songs.
//
// All local directories must be absolute and clean. SourceMapping, when set,
// is an absolute Windows path ending in a backslash; it names the directory
// foobar2000 knows as Source. When SourceMapping is empty the playlists are
// assumed to reference files with local paths directly under Source.
type PathConfig struct {
	// Source is the local directory holding the music library.
	Source string

	// Dest is the local directory songs are mirrored into.
	Dest string

	// PlaylistDest is the local directory playlists are mirrored into.
	// Empty when playlists are not transferred.
	PlaylistDest string

	// SourceMapping is the foobar2000 view of Source, e.g. `F:\Music\`.
	SourceMapping string
}

// Canonical normalizes a path as written in a playlist into the lookup key
// used for song identity. Windows syntax is used when a source mapping is
// configured, local syntax otherwise.
func (c *PathConfig) Canonical(nativePath string) string {
	if c.SourceMapping != "" {
		return ntpath.Clean(nativePath)
	}
	return filepath.Clean(nativePath)
}

// within reports whether path lies inside dir. Both must be clean.
func within(path, dir string) bool {
	if path == dir {
		return false
	}
	if strings.HasSuffix(dir, string(filepath.Separator)) {
		return strings.HasPrefix(path, dir)
	}
	return strings.HasPrefix(path, dir+string(filepath.Separator))
}
