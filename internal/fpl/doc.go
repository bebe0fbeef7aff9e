// Package fpl reads the binary files foobar2000 keeps in its playlists
// directory.
//
// # Playlist Index
//
// index.dat maps playlist display names to numbered FPL files. Each record is
// laid out as:
//
//	00 00 | "<digits>.fpl" | uint16 little-endian name length L | 00 00 | L bytes UTF-8 name
//
// Records are found by scanning forward from the end of the previous name:
//
//	entries, err := fpl.ParseIndex(data)
//	for _, e := range entries {
//	    fmt.Println(e.Name, "->", e.File) // "Road Trip -> 00000003.fpl"
//	}
//
// # FPL Playlists
//
// Only the track locations are read from an FPL file. They are stored as
// null-terminated "file://" URIs:
//
//	paths, err := fpl.ParsePlaylist(data)
//	// []string{`F:\Music\a.mp3`, `F:\Music\b.mp3`, `F:\Music\a.mp3`}
//
// Both parsers return a *FormatError when the data is malformed.
package fpl
