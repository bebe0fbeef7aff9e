package audio

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/dhowden/tag"
)

// TrackInfo holds the tags shown next to a song in listings.
type TrackInfo struct {
	Artist string
	Title  string
	Album  string
	Track  int
}

// Empty reports whether no tag was found.
func (i TrackInfo) Empty() bool {
	return i == TrackInfo{}
}

// TagReader reads basic metadata from audio files.
//
// MP3 files are read with the id3v2 library, which only parses the frames
// that are needed. Everything else (FLAC, MP4/M4A, OGG) and MP3 files
// without an ID3v2 tag go through dhowden/tag.
//
// Example:
//
//	reader := NewTagReader()
//	info, err := reader.Read(song.SourcePath)
//	fmt.Printf("%02d %s - %s\n", info.Track, info.Artist, info.Title)
type TagReader struct{}

// NewTagReader creates a new TagReader.
func NewTagReader() *TagReader {
	return &TagReader{}
}

// Read returns the tags of the file at path. A file without any recognised
// tag yields an empty TrackInfo and no error.
func (r *TagReader) Read(path string) (TrackInfo, error) {
	if strings.EqualFold(filepath.Ext(path), ".mp3") {
		info, err := r.readID3v2(path)
		if err != nil {
			return TrackInfo{}, err
		}
		if !info.Empty() {
			return info, nil
		}
	}
	return r.readGeneric(path)
}

var id3Frames = []string{"Artist", "Title", "Album", "Track number/Position in set"}

func (r *TagReader) readID3v2(path string) (TrackInfo, error) {
	t, err := id3v2.Open(path, id3v2.Options{Parse: true, ParseFrames: id3Frames})
	if err != nil {
		return TrackInfo{}, err
	}
	defer t.Close()

	info := TrackInfo{
		Artist: t.Artist(),
		Title:  t.Title(),
		Album:  t.Album(),
	}
	if f := t.GetTextFrame(t.CommonID("Track number/Position in set")); f.Text != "" {
		info.Track = trackNumber(f.Text)
	}
	return info, nil
}

func (r *TagReader) readGeneric(path string) (TrackInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return TrackInfo{}, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		if errors.Is(err, tag.ErrNoTagsFound) {
			return TrackInfo{}, nil
		}
		return TrackInfo{}, err
	}

	track, _ := m.Track()
	return TrackInfo{
		Artist: m.Artist(),
		Title:  m.Title(),
		Album:  m.Album(),
		Track:  track,
	}, nil
}

// trackNumber parses "7" or "7/12".
func trackNumber(s string) int {
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
