package scan

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dhowden/tag"
)

type stubMetadata struct {
	artist string
	title  string
	album  string
	genre  string
	year   int
}

func (s stubMetadata) Format() tag.Format          { return tag.ID3v2_4 }
func (s stubMetadata) FileType() tag.FileType      { return tag.MP3 }
func (s stubMetadata) Title() string               { return s.title }
func (s stubMetadata) Album() string               { return s.album }
func (s stubMetadata) Artist() string              { return s.artist }
func (s stubMetadata) AlbumArtist() string         { return "" }
func (s stubMetadata) Composer() string            { return "" }
func (s stubMetadata) Genre() string               { return s.genre }
func (s stubMetadata) Year() int                   { return s.year }
func (s stubMetadata) Track() (int, int)           { return 0, 0 }
func (s stubMetadata) Disc() (int, int)            { return 0, 0 }
func (s stubMetadata) Picture() *tag.Picture       { return nil }
func (s stubMetadata) Lyrics() string              { return "" }
func (s stubMetadata) Comment() string             { return "" }
func (s stubMetadata) Raw() map[string]interface{} { return nil }

type stubReader struct {
	byPath map[string]stubMetadata
}

func (r stubReader) Read(path string) (tag.Metadata, error) {
	metadata, ok := r.byPath[filepath.Base(path)]
	if !ok {
		return nil, errors.New("no tags")
	}
	return metadata, nil
}

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestScanBuildsCatalog(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "bowie/heroes.mp3", "bowie/notes.txt", "misc/unknown.flac")

	reader := stubReader{byPath: map[string]stubMetadata{
		"heroes.mp3": {artist: "David Bowie", title: "Heroes", album: "Heroes", genre: "Rock", year: 1977},
	}}
	scanner := New(reader, nil)

	collection, err := scanner.Scan(root)
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if collection.Len() != 2 {
		t.Fatalf("got %d tracks, want 2 (non-audio files skipped)", collection.Len())
	}

	var heroes, unknown *struct {
		artist string
		id     string
	}
	for _, entry := range collection.Entries {
		track := entry.Track
		if track.ID == "" {
			t.Fatalf("track %q has no id", entry.Key)
		}
		switch track.OriginalFilename {
		case "heroes.mp3":
			heroes = &struct {
				artist string
				id     string
			}{track.Artist, track.ID}
			if track.Title != "Heroes" || track.Album != "Heroes" || track.Year != 1977 {
				t.Fatalf("unexpected tags: %#v", track)
			}
		case "unknown.flac":
			unknown = &struct {
				artist string
				id     string
			}{track.Artist, track.ID}
			if track.Artist != "" || track.Title != "" {
				t.Fatalf("unreadable tags should yield empty metadata: %#v", track)
			}
		}
	}
	if heroes == nil || unknown == nil {
		t.Fatal("expected both audio files in the catalog")
	}
	if heroes.id == unknown.id {
		t.Fatal("track ids must be unique")
	}
}

func TestScanEmptyDirectory(t *testing.T) {
	scanner := New(stubReader{}, nil)
	collection, err := scanner.Scan(t.TempDir())
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if collection.Len() != 0 {
		t.Fatalf("got %d tracks, want 0", collection.Len())
	}
}
