package audio

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"
)

func TestTagReader_ID3v2(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.mp3")
	if err := os.WriteFile(path, []byte{0xff, 0xfb, 0x90, 0x00}, 0644); err != nil {
		t.Fatal(err)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatal(err)
	}
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetArtist("Trucker's Atlas")
	tag.SetTitle("Road")
	tag.SetAlbum("Miles")
	tag.AddTextFrame(tag.CommonID("Track number/Position in set"), id3v2.EncodingUTF8, "7/12")
	if err := tag.Save(); err != nil {
		t.Fatal(err)
	}
	tag.Close()

	info, err := NewTagReader().Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	want := TrackInfo{Artist: "Trucker's Atlas", Title: "Road", Album: "Miles", Track: 7}
	if info != want {
		t.Errorf("Read() = %+v, want %+v", info, want)
	}
}

func TestTagReader_NoTags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.flac")
	if err := os.WriteFile(path, bytes.Repeat([]byte("not really audio"), 16), 0644); err != nil {
		t.Fatal(err)
	}

	info, err := NewTagReader().Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !info.Empty() {
		t.Errorf("Read() = %+v, want empty", info)
	}
}

func TestTagReader_Missing(t *testing.T) {
	if _, err := NewTagReader().Read(filepath.Join(t.TempDir(), "gone.ogg")); err == nil {
		t.Error("Read() of a missing file should fail")
	}
}

func TestTrackNumber(t *testing.T) {
	tests := map[string]int{"7": 7, "7/12": 7, " 3 ": 3, "x": 0, "": 0}
	for in, want := range tests {
		if got := trackNumber(in); got != want {
			t.Errorf("trackNumber(%q) = %d, want %d", in, got, want)
		}
	}
}
