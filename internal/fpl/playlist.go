package fpl

import (
	"bytes"
	"unicode/utf8"
)

var fileMarker = []byte("\x00file://")

// ParsePlaylist returns every track location stored in FPL data, in order of
// appearance and including duplicates. A location is the byte run between a
// "\x00file://" marker and the next null byte; a run with no terminating null
// is ignored.
func ParsePlaylist(data []byte) ([]string, error) {
	var paths []string

	pos := 0
	for {
		i := bytes.Index(data[pos:], fileMarker)
		if i < 0 {
			return paths, nil
		}
		start := pos + i + len(fileMarker)

		n := bytes.IndexByte(data[start:], 0)
		if n < 0 {
			return paths, nil
		}

		raw := data[start : start+n]
		if !utf8.Valid(raw) {
			return nil, &FormatError{Offset: start, Reason: "track location is not valid UTF-8"}
		}
		paths = append(paths, string(raw))

		// The terminator may open the next marker.
		pos = start + n
	}
}
