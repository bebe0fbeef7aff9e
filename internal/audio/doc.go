// Package audio provides audio file services including playlist rendering
// and tag reading.
//
// # Playlist Generation
//
// Playlists are rendered as m3u8 files whose entries point at where each song
// will be on the device:
//
//	creator := audio.NewPlaylistCreator()
//	path, size, err := creator.WritePlaylist(ctx, scratchDir, playlist)
//
// The file name is the playlist name made safe for FAT32 ("My:Mix" becomes
// "My_Mix.m3u8").
//
// # Tag Reading
//
// Use the TagReader to show what a playlist contains:
//
//	reader := audio.NewTagReader()
//	info, err := reader.Read(song.SourcePath)
//
// MP3 files are read with bogem/id3v2; other formats with dhowden/tag.
package audio
