// Package library resolves foobar2000 playlists into songs on disk.
//
// A PlaylistIndex is opened once per playlists directory and parses each
// requested playlist lazily. All playlists share a SongIndex, so a file
// referenced several times, in one playlist or across many, is represented by
// a single *model.Song:
//
//	songs := library.NewSongIndex(cfg.PathConfig())
//	idx, err := library.Open(cfg.PlaylistSource, songs, logger)
//	if err != nil {
//	    return err
//	}
//	p, err := idx.Playlist("Road Trip")
package library
