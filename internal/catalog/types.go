package catalog

import (
	"fmt"
	"time"
)

// Status describes the outcome of enriching one track.
type Status string

const (
	StatusAutoAccepted   Status = "auto_accepted"
	StatusReviewNeeded   Status = "review_needed"
	StatusBelowThreshold Status = "below_threshold"
	StatusNoMatch        Status = "no_match"
	StatusNoMetadata     Status = "no_metadata"
	StatusError          Status = "error"
	StatusSkipped        Status = "skipped"
)

// Track is one catalog record. The engine reads existing fields and proposes
// mutations; it never removes a field.
type Track struct {
	ID               string      `json:"id"`
	Path             string      `json:"path,omitempty"`
	OriginalFilename string      `json:"original_filename,omitempty"`
	Artist           string      `json:"artist,omitempty"`
	Title            string      `json:"title,omitempty"`
	Album            string      `json:"album,omitempty"`
	Genre            string      `json:"genre,omitempty"`
	Year             int         `json:"year,omitempty"`
	Duration         int         `json:"duration,omitempty"`
	ArtworkPath      string      `json:"artwork_path,omitempty"`
	Enrichment       *Enrichment `json:"enrichment,omitempty"`
}

// Field returns the value of a named metadata field, or nil when the field is
// absent. Integer fields treat zero as absent.
func (t *Track) Field(name string) any {
	switch name {
	case "artist":
		if t.Artist != "" {
			return t.Artist
		}
	case "title":
		if t.Title != "" {
			return t.Title
		}
	case "album":
		if t.Album != "" {
			return t.Album
		}
	case "genre":
		if t.Genre != "" {
			return t.Genre
		}
	case "year":
		if t.Year > 0 {
			return t.Year
		}
	case "duration":
		if t.Duration > 0 {
			return t.Duration
		}
	}
	return nil
}

// SetField applies a proposed update to the named field. Numeric values may
// arrive as float64 after a JSON round trip through the dry-run report.
func (t *Track) SetField(name string, value any) error {
	switch name {
	case "artist":
		t.Artist = fmt.Sprint(value)
	case "title":
		t.Title = fmt.Sprint(value)
	case "album":
		t.Album = fmt.Sprint(value)
	case "genre":
		t.Genre = fmt.Sprint(value)
	case "artwork_path":
		t.ArtworkPath = fmt.Sprint(value)
	case "year":
		n, err := toInt(value)
		if err != nil {
			return fmt.Errorf("year: %w", err)
		}
		t.Year = n
	case "duration":
		n, err := toInt(value)
		if err != nil {
			return fmt.Errorf("duration: %w", err)
		}
		t.Duration = n
	default:
		return fmt.Errorf("unknown track field %q", name)
	}
	return nil
}

func toInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("unsupported numeric value %T", value)
	}
}

// Candidate is a reference-lookup result for one track query, carrying the
// same field vocabulary as Track plus provenance. Zero-valued integers mean
// the field was absent in the lookup response.
type Candidate struct {
	Artist      string
	Title       string
	Album       string
	Genre       string
	Year        int
	Duration    int
	RecordingID string
	ReleaseID   string
	RawScore    int
	Source      string
}

// Field mirrors Track.Field for candidate records.
func (c Candidate) Field(name string) any {
	switch name {
	case "artist":
		if c.Artist != "" {
			return c.Artist
		}
	case "title":
		if c.Title != "" {
			return c.Title
		}
	case "album":
		if c.Album != "" {
			return c.Album
		}
	case "genre":
		if c.Genre != "" {
			return c.Genre
		}
	case "year":
		if c.Year > 0 {
			return c.Year
		}
	case "duration":
		if c.Duration > 0 {
			return c.Duration
		}
	}
	return nil
}

// ArtworkInfo describes one piece of cover art offered by an artwork
// collaborator.
type ArtworkInfo struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Type   string `json:"type"`
	Format string `json:"format"`
	Source string `json:"source"`
}

// ArtworkDecision records the scoring behind an artwork upgrade decision.
type ArtworkDecision struct {
	Available     bool   `json:"available"`
	NewScore      int    `json:"new_score"`
	ExistingScore int    `json:"existing_score"`
	Upgrade       bool   `json:"upgrade"`
	Source        string `json:"source"`
}

// Conflict records a per-field disagreement between the existing record and
// the winning candidate.
type Conflict struct {
	Field       string  `json:"field"`
	Existing    any     `json:"existing,omitempty"`
	Suggested   any     `json:"suggested,omitempty"`
	Alternative any     `json:"alternative,omitempty"`
	Similarity  float64 `json:"similarity,omitempty"`
}

// Enrichment is the per-track result block attached to the catalog.
type Enrichment struct {
	Status          Status           `json:"status"`
	Timestamp       string           `json:"timestamp"`
	Reason          string           `json:"reason,omitempty"`
	MatchConfidence float64          `json:"match_confidence"`
	Source          string           `json:"source,omitempty"`
	FieldsUpdated   []string         `json:"fields_updated,omitempty"`
	FieldsConfirmed []string         `json:"fields_confirmed,omitempty"`
	Conflicts       []Conflict       `json:"conflicts,omitempty"`
	RecordingID     string           `json:"mb_recording_id,omitempty"`
	ReleaseID       string           `json:"mb_release_id,omitempty"`
	Artwork         *ArtworkDecision `json:"artwork,omitempty"`
	Error           string           `json:"error,omitempty"`
}

// Suggestion is one ranked candidate offered to the human reviewer.
type Suggestion struct {
	Source     string         `json:"source"`
	Confidence float64        `json:"confidence"`
	Fields     map[string]any `json:"fields"`
}

// ReviewEntry is one item in the human review queue.
type ReviewEntry struct {
	ID          string         `json:"id"`
	TrackID     string         `json:"track_id"`
	Filename    string         `json:"filename,omitempty"`
	Reasons     []string       `json:"reason"`
	Existing    map[string]any `json:"existing"`
	Suggestions []Suggestion   `json:"suggestions"`
	Conflicts   []Conflict     `json:"conflicts,omitempty"`
}

// Outcome is the full decision for one track: the enrichment block, the
// proposed field updates, and an optional review entry.
type Outcome struct {
	Enrichment *Enrichment
	Updates    map[string]any
	Review     *ReviewEntry
}

// Timestamp returns the current UTC time in the RFC3339 form used by every
// artifact this tool writes.
func Timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
