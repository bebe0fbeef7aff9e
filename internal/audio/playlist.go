package audio

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/handiism/fplsync/internal/model"
	ioutils "github.com/handiism/fplsync/internal/io"
)

// PlaylistExt is the extension of rendered playlists.
const PlaylistExt = ".m3u8"

// PlaylistCreator renders playlists as plain UTF-8 m3u8 files.
//
// Each entry is written as the song's path relative to the playlist
// destination, so the file works once both the playlist and the songs have
// been mirrored onto the device.
//
// Example:
//
//	creator := NewPlaylistCreator()
//	content := creator.CreatePlaylist(p)
//
//	// Result:
//	// ../Music/Artist/Album/01 Song.mp3
//	// ../Music/Artist/Album/02 Other.mp3
type PlaylistCreator struct{}

// NewPlaylistCreator creates a new PlaylistCreator.
func NewPlaylistCreator() *PlaylistCreator {
	return &PlaylistCreator{}
}

// CreatePlaylist generates m3u8 content for a playlist. Repeated songs are
// written once per occurrence. There is no #EXTM3U header.
func (c *PlaylistCreator) CreatePlaylist(p *model.Playlist) string {
	var sb strings.Builder
	for _, song := range p.Songs {
		sb.WriteString(song.PlaylistPath)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FileName returns the FAT32-safe file name for a playlist.
func (c *PlaylistCreator) FileName(p *model.Playlist) string {
	return ioutils.SanitizeFileName(p.Name) + PlaylistExt
}

// WritePlaylist renders p into dir and returns the written file and its size.
func (c *PlaylistCreator) WritePlaylist(ctx context.Context, dir string, p *model.Playlist) (string, int64, error) {
	content := c.CreatePlaylist(p)
	path := filepath.Join(dir, c.FileName(p))

	if err := ioutils.WriteFile(ctx, path, []byte(content)); err != nil {
		return "", 0, err
	}
	return path, int64(len(content)), nil
}
