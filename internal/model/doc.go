// Package model defines the core data structures used throughout fplsync.
//
// # Song
//
// Song is one track referenced by a foobar2000 playlist. Its identity is the
// canonical native path; every other path is derived from the PathConfig when
// the song is created:
//
//	cfg := &model.PathConfig{
//	    Source:        "/media/music",
//	    Dest:          "/media/phone/Music",
//	    PlaylistDest:  "/media/phone/Playlists",
//	    SourceMapping: `F:\Music\`,
//	}
//	song, err := model.NewSong(`F:\Music\Artist\Song.mp3`, cfg)
//	fmt.Println(song.SourcePath)   // /media/music/Artist/Song.mp3
//	fmt.Println(song.RelativePath) // Artist/Song.mp3
//	fmt.Println(song.PlaylistPath) // ../Music/Artist/Song.mp3
//
// Songs should be obtained through library.SongIndex so that repeated
// references share one instance.
//
// # Playlist
//
// Playlist is a named, ordered list of songs parsed from one FPL file.
// The same song may appear more than once.
package model
