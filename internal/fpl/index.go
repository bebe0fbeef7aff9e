package fpl

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// FormatError reports malformed index or playlist data.
type FormatError struct {
	// Offset is the byte position where the problem was detected.
	Offset int

	// Reason describes the problem.
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed data at byte %d: %s", e.Offset, e.Reason)
}

// Entry associates a playlist display name with its FPL file name.
type Entry struct {
	// Name is the playlist name shown in foobar2000.
	Name string

	// File is the FPL file name relative to the playlists directory.
	File string
}

var fplSuffix = []byte(".fpl")

// ParseIndex extracts all playlist records from index.dat contents, in file
// order. Duplicate names are returned as found; resolving them is up to the
// caller.
func ParseIndex(data []byte) ([]Entry, error) {
	var entries []Entry

	pos := 0
	for {
		start, end, ok := nextRecord(data, pos)
		if !ok {
			return entries, nil
		}

		// The length field sits between ".fpl" and the closing null pair.
		length := int(binary.LittleEndian.Uint16(data[end-4 : end-2]))
		if length == 0 {
			return nil, &FormatError{Offset: end - 4, Reason: "playlist name length must be > 0"}
		}

		nameEnd := end + length
		if nameEnd > len(data) {
			return nil, &FormatError{
				Offset: end,
				Reason: fmt.Sprintf("name needs %d bytes, only %d left", length, len(data)-end),
			}
		}

		name := data[end:nameEnd]
		if !utf8.Valid(name) {
			return nil, &FormatError{Offset: end, Reason: "playlist name is not valid UTF-8"}
		}

		entries = append(entries, Entry{
			Name: string(name),
			File: string(data[start : end-4]),
		})
		pos = nameEnd
	}
}

// nextRecord finds the first record header at or after pos. start is the
// offset of the FPL file name and end the offset just past the header, where
// the display name begins.
func nextRecord(data []byte, pos int) (start, end int, ok bool) {
	for pos < len(data) {
		i := bytes.Index(data[pos:], fplSuffix)
		if i < 0 {
			return 0, 0, false
		}
		suffix := pos + i

		start = suffix
		for start > pos && isDigit(data[start-1]) {
			start--
		}

		end = suffix + len(fplSuffix) + 4
		if start < suffix && start >= 2 &&
			data[start-1] == 0 && data[start-2] == 0 &&
			end <= len(data) && data[end-2] == 0 && data[end-1] == 0 {
			return start, end, true
		}

		pos = suffix + 1
	}
	return 0, 0, false
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
