package model

import "fmt"

// Playlist is a named list of songs read from a foobar2000 FPL file.
type Playlist struct {
	// Name is the display name from the playlist index. It may contain
	// characters that are not valid in file names.
	Name string

	// Path is the FPL file the playlist was parsed from.
	Path string

	// Songs holds the entries in playlist order, duplicates included.
	Songs []*Song
}

// Len returns the number of entries, counting duplicates.
func (p *Playlist) Len() int {
	return len(p.Songs)
}

func (p *Playlist) String() string {
	return fmt.Sprintf("playlist %q with %d songs", p.Name, len(p.Songs))
}
