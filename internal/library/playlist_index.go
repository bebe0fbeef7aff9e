package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/handiism/fplsync/internal/fpl"
	"github.com/handiism/fplsync/internal/model"
)

// IndexFileName is the name of the playlist index inside the playlists
// directory.
const IndexFileName = "index.dat"

// ErrPlaylistNotFound is returned when a name is missing from the index.
var ErrPlaylistNotFound = errors.New("playlist not found")

// PlaylistIndex maps playlist names to their FPL files and parses each
// playlist the first time it is requested.
type PlaylistIndex struct {
	dir    string
	songs  *SongIndex
	logger *zap.Logger

	names     []string
	entries   map[string]fpl.Entry
	playlists map[string]*model.Playlist
}

// Open reads index.dat from dir. Songs referenced by playlists are resolved
// through songs. When the index lists a name more than once, the first record
// wins and the rest are logged.
func Open(dir string, songs *SongIndex, logger *zap.Logger) (*PlaylistIndex, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	path := filepath.Join(dir, IndexFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read playlist index: %w", err)
	}

	entries, err := fpl.ParseIndex(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	idx := &PlaylistIndex{
		dir:       dir,
		songs:     songs,
		logger:    logger,
		entries:   make(map[string]fpl.Entry, len(entries)),
		playlists: make(map[string]*model.Playlist),
	}

	for _, e := range entries {
		key := norm.NFC.String(e.Name)
		if prev, ok := idx.entries[key]; ok {
			logger.Warn("Duplicate playlist name in index, keeping first",
				zap.String("name", e.Name),
				zap.String("kept", prev.File),
				zap.String("ignored", e.File))
			continue
		}
		idx.entries[key] = e
		idx.names = append(idx.names, e.Name)
	}

	logger.Debug("Opened playlist index",
		zap.String("path", path),
		zap.Int("playlists", len(idx.names)))

	return idx, nil
}

// Names returns the playlist names in index order.
func (i *PlaylistIndex) Names() []string {
	names := make([]string, len(i.names))
	copy(names, i.names)
	return names
}

// Songs returns the song index shared by all playlists.
func (i *PlaylistIndex) Songs() *SongIndex {
	return i.songs
}

// Playlist returns the named playlist, parsing its FPL file on first use.
//
// Every entry must resolve to a song; a single bad entry fails the whole
// playlist and nothing is cached.
func (i *PlaylistIndex) Playlist(name string) (*model.Playlist, error) {
	key := norm.NFC.String(name)
	if p, ok := i.playlists[key]; ok {
		return p, nil
	}

	entry, ok := i.entries[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPlaylistNotFound, name)
	}
	name = entry.Name
	file := filepath.Join(i.dir, entry.File)

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read playlist %q: %w", name, err)
	}

	paths, err := fpl.ParsePlaylist(data)
	if err != nil {
		return nil, fmt.Errorf("parse playlist %q: %w", name, err)
	}

	p := &model.Playlist{
		Name:  name,
		Path:  file,
		Songs: make([]*model.Song, 0, len(paths)),
	}
	for _, raw := range paths {
		song, err := i.songs.Song(raw)
		if err != nil {
			return nil, fmt.Errorf("playlist %q: %w", name, err)
		}
		p.Songs = append(p.Songs, song)
	}

	i.logger.Debug("Parsed playlist",
		zap.String("name", name),
		zap.String("file", filepath.Base(file)),
		zap.Int("songs", len(p.Songs)))

	i.playlists[key] = p
	return p, nil
}
