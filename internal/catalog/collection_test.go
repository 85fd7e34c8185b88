package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDictShape(t *testing.T) {
	path := writeFile(t, t.TempDir(), "metadata_base.json", `{
		"version": 2,
		"tracks": {
			"music/a.mp3": {"id": "t1", "artist": "David Bowie", "title": "Heroes"},
			"music/b.mp3": {"id": "t2", "artist": "Prince", "title": "Kiss"}
		}
	}`)

	collection, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if collection.Shape != ShapeDict {
		t.Errorf("shape = %q, want %q", collection.Shape, ShapeDict)
	}
	if collection.Len() != 2 {
		t.Fatalf("len = %d, want 2", collection.Len())
	}
	first := collection.Entries[0]
	if first.Key != "music/a.mp3" {
		t.Errorf("first key = %q", first.Key)
	}
	if first.Track.OriginalFilename != "a.mp3" {
		t.Errorf("original filename = %q, want a.mp3", first.Track.OriginalFilename)
	}
	if _, ok := collection.Extra["version"]; !ok {
		t.Error("top-level extra field was dropped")
	}
}

func TestLoadListShape(t *testing.T) {
	path := writeFile(t, t.TempDir(), "manifest.json", `{
		"tracks": [
			{"id": "t1", "path": "music/a.mp3", "artist": "David Bowie"},
			{"id": "t2", "artist": "Prince"}
		]
	}`)

	collection, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if collection.Shape != ShapeList {
		t.Errorf("shape = %q, want %q", collection.Shape, ShapeList)
	}
	if collection.Entries[0].Key != "music/a.mp3" {
		t.Errorf("path-keyed entry key = %q", collection.Entries[0].Key)
	}
	if collection.Entries[1].Key != "t2" {
		t.Errorf("id-keyed entry key = %q", collection.Entries[1].Key)
	}
}

func TestSaveRoundTripDict(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "metadata_base.json", `{
		"tracks": {"a.mp3": {"id": "t1", "artist": "Bowie"}}
	}`)
	collection, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	collection.Entries[0].Track.Album = "Heroes"
	out := filepath.Join(dir, "metadata_enriched.json")
	if err := collection.Save(out); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := Load(out)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Shape != ShapeDict {
		t.Errorf("shape changed to %q", reloaded.Shape)
	}
	if reloaded.Entries[0].Track.Album != "Heroes" {
		t.Errorf("album = %q, want Heroes", reloaded.Entries[0].Track.Album)
	}
}

func TestSaveListShapeAddsGenerated(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "manifest.json", `{"tracks": [{"id": "t1"}]}`)
	collection, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	out := filepath.Join(dir, "out.json")
	if err := collection.Save(out); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, ok := doc["generated"]; !ok {
		t.Error("list-shaped output missing generated timestamp")
	}
	var tracks []*Track
	if err := json.Unmarshal(doc["tracks"], &tracks); err != nil {
		t.Fatalf("tracks not a list: %v", err)
	}
}

func TestSetFieldCoercion(t *testing.T) {
	track := &Track{ID: "t1"}
	if err := track.SetField("year", float64(1977)); err != nil {
		t.Fatalf("SetField year: %v", err)
	}
	if track.Year != 1977 {
		t.Errorf("year = %d, want 1977", track.Year)
	}
	if err := track.SetField("artist", "Bowie"); err != nil {
		t.Fatalf("SetField artist: %v", err)
	}
	if err := track.SetField("bogus", 1); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestFieldAbsent(t *testing.T) {
	track := &Track{ID: "t1", Artist: "Bowie"}
	if got := track.Field("artist"); got != "Bowie" {
		t.Errorf("artist = %v", got)
	}
	if got := track.Field("year"); got != nil {
		t.Errorf("zero year should be absent, got %v", got)
	}
	if got := track.Field("album"); got != nil {
		t.Errorf("empty album should be absent, got %v", got)
	}
}

func TestDryRunCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DryRunReportFile)

	entries := []*DryRunEntry{{
		TrackID:         "t1",
		Enrichment:      &Enrichment{Status: StatusAutoAccepted, MatchConfidence: 0.91},
		ProposedUpdates: map[string]any{"year": 1977},
	}}
	if err := WriteDryRunReport(path, entries); err != nil {
		t.Fatalf("WriteDryRunReport: %v", err)
	}

	cache := LoadDryRunCache(path)
	if len(cache) != 1 {
		t.Fatalf("cache size = %d, want 1", len(cache))
	}
	entry := cache["t1"]
	if entry == nil || entry.Enrichment.Status != StatusAutoAccepted {
		t.Errorf("cached entry = %+v", entry)
	}
}

func TestDryRunCacheCorrupt(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, DryRunReportFile, "{ not json")
	if cache := LoadDryRunCache(path); cache != nil {
		t.Errorf("corrupt report should yield nil cache, got %v", cache)
	}
	if cache := LoadDryRunCache(filepath.Join(dir, "missing.json")); cache != nil {
		t.Errorf("missing report should yield nil cache, got %v", cache)
	}
}

func TestReviewQueueWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ReviewQueueFile)
	items := []*ReviewEntry{{ID: "r1", TrackID: "t1", Reasons: []string{"likely_correction:artist"}}}
	if err := WriteReviewQueue(path, items); err != nil {
		t.Fatalf("WriteReviewQueue: %v", err)
	}
	queue, err := LoadReviewQueue(path)
	if err != nil {
		t.Fatalf("LoadReviewQueue: %v", err)
	}
	if queue.Version != 1 || len(queue.Items) != 1 {
		t.Errorf("queue = %+v", queue)
	}
}
