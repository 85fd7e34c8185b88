package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Shape identifies the on-disk layout of the tracks container.
type Shape string

const (
	// ShapeDict is the metadata_base.json layout: tracks keyed by file path.
	ShapeDict Shape = "metadata_base"
	// ShapeList is the manifest.json layout: tracks as an ordered array.
	ShapeList Shape = "manifest"
)

// Entry pairs a track with its catalog key.
type Entry struct {
	Key   string
	Track *Track
}

// Collection is the canonical in-memory catalog: an ordered sequence of
// (key, track) entries plus whatever top-level fields the source document
// carried. The core only ever reasons about this shape; Load and Save adapt
// to and from the two supported file layouts.
type Collection struct {
	Shape   Shape
	Extra   map[string]json.RawMessage
	Entries []*Entry
}

// Load reads a catalog file, accepting both supported track container shapes.
func Load(path string) (*Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	tracksRaw, ok := raw["tracks"]
	if !ok {
		tracksRaw = json.RawMessage("{}")
	}
	delete(raw, "tracks")

	collection := &Collection{Extra: raw}

	var dict map[string]*Track
	if err := json.Unmarshal(tracksRaw, &dict); err == nil {
		collection.Shape = ShapeDict
		keys := make([]string, 0, len(dict))
		for key := range dict {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			track := dict[key]
			if track == nil {
				continue
			}
			fillDefaults(key, track)
			collection.Entries = append(collection.Entries, &Entry{Key: key, Track: track})
		}
		return collection, nil
	}

	var list []*Track
	if err := json.Unmarshal(tracksRaw, &list); err != nil {
		return nil, fmt.Errorf("parse catalog %s: tracks is neither object nor array: %w", path, err)
	}
	collection.Shape = ShapeList
	for _, track := range list {
		if track == nil {
			continue
		}
		key := track.Path
		if key == "" {
			key = track.ID
		}
		fillDefaults(key, track)
		collection.Entries = append(collection.Entries, &Entry{Key: key, Track: track})
	}
	return collection, nil
}

func fillDefaults(key string, track *Track) {
	if track.OriginalFilename == "" && key != "" {
		track.OriginalFilename = filepath.Base(key)
	}
}

// Len returns the number of tracks in the collection.
func (c *Collection) Len() int {
	return len(c.Entries)
}

// Save writes the collection back in its original shape. The write is
// atomic (temp file plus rename) so an interrupted checkpoint never leaves a
// truncated catalog behind.
func (c *Collection) Save(path string) error {
	doc := make(map[string]any, len(c.Extra)+2)
	for key, value := range c.Extra {
		doc[key] = value
	}

	switch c.Shape {
	case ShapeList:
		tracks := make([]*Track, 0, len(c.Entries))
		for _, entry := range c.Entries {
			tracks = append(tracks, entry.Track)
		}
		doc["tracks"] = tracks
		doc["generated"] = Timestamp()
	default:
		tracks := make(map[string]*Track, len(c.Entries))
		for _, entry := range c.Entries {
			tracks[entry.Key] = entry.Track
		}
		doc["tracks"] = tracks
	}

	return writeJSON(path, doc)
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
