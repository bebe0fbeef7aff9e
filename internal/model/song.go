package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/handiism/fplsync/internal/ntpath"
)

const (
	reasonNotMapped = "not under source mapping"
	reasonOutside   = "not within source"
)

// PathMappingError reports a playlist entry that cannot be placed inside the
// source directory.
type PathMappingError struct {
	// Path is the canonical native path of the entry.
	Path string

	// Reason describes which check failed.
	Reason string
}

func (e *PathMappingError) Error() string {
	return fmt.Sprintf("song %s is %s", e.Path, e.Reason)
}

// Song represents a single track file referenced by one or more playlists.
//
// All paths are computed by NewSong and never change afterwards. The file
// size is looked up on the first call to Size and cached.
type Song struct {
	// NativePath is the canonical path as foobar2000 knows it. It is the
	// identity of the song.
	NativePath string

	// SourcePath is the local path of the file inside the source directory.
	SourcePath string

	// RelativePath is SourcePath relative to the source directory, in local
	// syntax. It is also the song's location relative to the destination.
	RelativePath string

	// PlaylistPath is where the song will be, relative to the playlist
	// destination, once mirrored. Empty without a playlist destination.
	PlaylistPath string

	size  int64
	sized bool
}

// NewSong resolves a canonical native path into a Song.
//
// With cfg.SourceMapping set, nativePath must start with the mapping; the
// remainder is converted to local syntax and joined onto cfg.Source.
// Otherwise nativePath must already lie within cfg.Source.
//
// Returns a *PathMappingError when neither rule places the song in the source
// directory.
func NewSong(nativePath string, cfg *PathConfig) (*Song, error) {
	song := &Song{NativePath: nativePath}

	if cfg.SourceMapping != "" {
		if !strings.HasPrefix(nativePath, cfg.SourceMapping) {
			return nil, &PathMappingError{Path: nativePath, Reason: reasonNotMapped}
		}
		rest := strings.TrimPrefix(nativePath, cfg.SourceMapping)
		song.SourcePath = filepath.Join(cfg.Source, ntpath.ToLocal(rest))
	} else {
		if !within(nativePath, cfg.Source) {
			return nil, &PathMappingError{Path: nativePath, Reason: reasonOutside}
		}
		song.SourcePath = nativePath
	}

	rel, err := filepath.Rel(cfg.Source, song.SourcePath)
	if err != nil {
		return nil, err
	}
	song.RelativePath = rel

	if cfg.PlaylistDest != "" {
		playlistPath, err := filepath.Rel(cfg.PlaylistDest, filepath.Join(cfg.Dest, rel))
		if err != nil {
			return nil, err
		}
		song.PlaylistPath = playlistPath
	}

	return song, nil
}

// Size returns the size of the source file in bytes. The file is stat'ed once;
// later calls return the cached value. Errors wrap fs.ErrNotExist when the
// file is missing.
func (s *Song) Size() (int64, error) {
	if !s.sized {
		info, err := os.Stat(s.SourcePath)
		if err != nil {
			return 0, err
		}
		s.size = info.Size()
		s.sized = true
	}
	return s.size, nil
}

// Equal reports whether both songs refer to the same canonical path.
func (s *Song) Equal(other *Song) bool {
	return other != nil && s.NativePath == other.NativePath
}

func (s *Song) String() string {
	return "song at " + s.NativePath
}
