package library

import (
	"github.com/handiism/fplsync/internal/model"
)

// SongIndex hands out at most one *model.Song per canonical native path.
//
// Songs are compared by pointer once they leave the index, so two playlists
// that reference the same file share a single Song and its cached size.
type SongIndex struct {
	cfg   *model.PathConfig
	songs map[string]*model.Song
}

// NewSongIndex creates an empty index resolving paths against cfg.
func NewSongIndex(cfg *model.PathConfig) *SongIndex {
	return &SongIndex{
		cfg:   cfg,
		songs: make(map[string]*model.Song),
	}
}

// Song returns the song for a path as written in a playlist, creating it on
// first use. Failed resolutions are not cached.
func (i *SongIndex) Song(nativePath string) (*model.Song, error) {
	key := i.cfg.Canonical(nativePath)
	if song, ok := i.songs[key]; ok {
		return song, nil
	}

	song, err := model.NewSong(key, i.cfg)
	if err != nil {
		return nil, err
	}
	i.songs[key] = song
	return song, nil
}

// Len returns the number of distinct songs resolved so far.
func (i *SongIndex) Len() int {
	return len(i.songs)
}
