package catalog

import (
	"encoding/json"
	"os"
)

// Artifact file names within the output directory.
const (
	EnrichedFile     = "metadata_enriched.json"
	ReviewQueueFile  = "review_queue.json"
	DryRunReportFile = "dry_run_report.json"
)

// ReviewQueue is the review artifact written wholesale at each checkpoint.
type ReviewQueue struct {
	Version   int            `json:"version"`
	Generated string         `json:"generated"`
	Items     []*ReviewEntry `json:"items"`
}

// WriteReviewQueue replaces the review queue artifact with the given items.
func WriteReviewQueue(path string, items []*ReviewEntry) error {
	queue := ReviewQueue{Version: 1, Generated: Timestamp(), Items: items}
	return writeJSON(path, queue)
}

// LoadReviewQueue reads a review queue artifact.
func LoadReviewQueue(path string) (*ReviewQueue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var queue ReviewQueue
	if err := json.Unmarshal(data, &queue); err != nil {
		return nil, err
	}
	return &queue, nil
}

// DryRunEntry is the replayable record of one track's dry-run decision.
type DryRunEntry struct {
	TrackID         string         `json:"track_id"`
	Filename        string         `json:"filename,omitempty"`
	Enrichment      *Enrichment    `json:"enrichment"`
	ProposedUpdates map[string]any `json:"proposed_updates"`
	Review          *ReviewEntry   `json:"review,omitempty"`
}

// DryRunSummary aggregates a dry-run report for a quick read.
type DryRunSummary struct {
	Total         int `json:"total"`
	AutoAccept    int `json:"auto_accept"`
	ReviewNeeded  int `json:"review_needed"`
	WithUpdates   int `json:"with_updates"`
	WithConflicts int `json:"with_conflicts"`
}

// DryRunReport is the full dry-run artifact.
type DryRunReport struct {
	Version   int            `json:"version"`
	Generated string         `json:"generated"`
	Mode      string         `json:"mode"`
	Summary   DryRunSummary  `json:"summary"`
	Tracks    []*DryRunEntry `json:"tracks"`
}

// WriteDryRunReport writes the dry-run report with computed summary counts.
func WriteDryRunReport(path string, entries []*DryRunEntry) error {
	report := DryRunReport{
		Version:   1,
		Generated: Timestamp(),
		Mode:      "dry_run",
		Tracks:    entries,
	}
	report.Summary.Total = len(entries)
	for _, entry := range entries {
		if entry.Enrichment == nil {
			continue
		}
		switch entry.Enrichment.Status {
		case StatusAutoAccepted:
			report.Summary.AutoAccept++
		case StatusReviewNeeded:
			report.Summary.ReviewNeeded++
		}
		if len(entry.ProposedUpdates) > 0 {
			report.Summary.WithUpdates++
		}
		if len(entry.Enrichment.Conflicts) > 0 {
			report.Summary.WithConflicts++
		}
	}
	return writeJSON(path, report)
}

// LoadDryRunCache reads a prior dry-run report keyed by track id. Absent,
// malformed, or wrong-mode reports yield an empty cache: stale state is never
// fatal.
func LoadDryRunCache(path string) map[string]*DryRunEntry {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var report DryRunReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil
	}
	if report.Mode != "dry_run" {
		return nil
	}
	cache := make(map[string]*DryRunEntry, len(report.Tracks))
	for _, entry := range report.Tracks {
		if entry != nil && entry.TrackID != "" {
			cache[entry.TrackID] = entry
		}
	}
	return cache
}
