// Package batch runs the enrichment engine over a whole catalog with
// checkpointing, resume, dry-run replay, and an offline fallback.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"crate/internal/catalog"
	"crate/internal/enrich"
	"crate/internal/logging"
	"crate/internal/services"
	"crate/internal/state"
)

// lockFile guards the output directory against concurrent runs.
const lockFile = ".crate.lock"

// defaultCheckpointInterval is how many tracks are processed between
// catalog checkpoints when the caller does not set one.
const defaultCheckpointInterval = 25

// Pinger checks reachability of the reference lookup service before a run.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options controls a single batch run.
type Options struct {
	InputPath          string
	OutputDir          string
	Resume             bool
	DryRun             bool
	Limit              int
	CheckpointInterval int
}

// Summary reports what a run did.
type Summary struct {
	Total        int
	Processed    int
	FromCache    int
	Skipped      int
	AutoAccepted int
	Flagged      int
	NoMatch      int
	Errors       int
	Offline      bool
	DryRun       bool
}

// Runner drives per-track enrichment across a catalog.
type Runner struct {
	enricher *enrich.Enricher
	pinger   Pinger
	store    *state.Store
	logger   *slog.Logger
}

// New builds a Runner. A nil pinger skips the connectivity check.
func New(enricher *enrich.Enricher, pinger Pinger, store *state.Store, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{enricher: enricher, pinger: pinger, store: store, logger: logger}
}

// Run enriches every track in the input catalog and writes the enriched
// catalog, review queue, and state into the output directory. Resume skips
// tracks already recorded in the state store and prefers the previously
// enriched output over the raw input. When the lookup service is
// unreachable the whole catalog is written through with skipped status
// instead of failing the run.
func (r *Runner) Run(ctx context.Context, opts Options) (*Summary, error) {
	if opts.CheckpointInterval <= 0 {
		opts.CheckpointInterval = defaultCheckpointInterval
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	lock := flock.New(filepath.Join(opts.OutputDir, lockFile))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return nil, errors.New("another enrichment run is already using this output directory")
	}
	defer func() { _ = lock.Unlock() }()

	collection, err := r.loadCatalog(opts)
	if err != nil {
		return nil, err
	}

	if r.pinger != nil {
		if err := r.pinger.Ping(ctx); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if !services.IsUnreachable(err) {
				return nil, fmt.Errorf("connectivity check: %w", err)
			}
			r.logger.Warn("lookup service unreachable, falling back to offline mode", logging.Error(err))
			return r.runOffline(opts)
		}
	}

	var cache map[string]*catalog.DryRunEntry
	reportPath := filepath.Join(opts.OutputDir, catalog.DryRunReportFile)
	if !opts.DryRun {
		cache = catalog.LoadDryRunCache(reportPath)
		if len(cache) > 0 {
			r.logger.Info("loaded dry-run report", logging.Int("cached_tracks", len(cache)))
		}
	}

	entries := collection.Entries
	if opts.Limit > 0 && opts.Limit < len(entries) {
		entries = entries[:opts.Limit]
	}

	summary := &Summary{Total: len(entries), DryRun: opts.DryRun}
	var reviewItems []*catalog.ReviewEntry
	var dryRunEntries []*catalog.DryRunEntry

	for _, entry := range entries {
		track := entry.Track

		if opts.Resume {
			done, err := r.store.IsProcessed(ctx, track.ID)
			if err != nil {
				return nil, fmt.Errorf("check processed state: %w", err)
			}
			if done {
				summary.Skipped++
				continue
			}
		}

		var outcome *catalog.Outcome
		if cached, ok := cache[track.ID]; ok && cached.Enrichment != nil {
			outcome = r.replayCached(ctx, track, cached)
			summary.FromCache++
		} else {
			outcome, err = r.enricher.EnrichTrack(ctx, track, opts.DryRun)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				r.logger.Error("track enrichment failed",
					logging.String("track_id", track.ID),
					logging.Error(err))
				track.Enrichment = &catalog.Enrichment{
					Status:    catalog.StatusError,
					Error:     err.Error(),
					Timestamp: catalog.Timestamp(),
				}
				summary.Errors++
				if err := r.store.MarkProcessed(ctx, track.ID, string(catalog.StatusError)); err != nil {
					return nil, fmt.Errorf("mark processed: %w", err)
				}
				continue
			}
		}

		track.Enrichment = outcome.Enrichment
		if !opts.DryRun {
			for field, value := range outcome.Updates {
				if err := track.SetField(field, value); err != nil {
					r.logger.Warn("skipping unusable update",
						logging.String("track_id", track.ID),
						logging.String("field", field),
						logging.Error(err))
				}
			}
		}

		if opts.DryRun {
			dryRunEntries = append(dryRunEntries, &catalog.DryRunEntry{
				TrackID:         track.ID,
				Filename:        track.OriginalFilename,
				Enrichment:      outcome.Enrichment,
				ProposedUpdates: outcome.Updates,
				Review:          outcome.Review,
			})
		}

		if outcome.Review != nil {
			reviewItems = append(reviewItems, outcome.Review)
			summary.Flagged++
		}

		switch outcome.Enrichment.Status {
		case catalog.StatusAutoAccepted:
			summary.AutoAccepted++
		case catalog.StatusNoMatch, catalog.StatusBelowThreshold:
			summary.NoMatch++
		}

		if err := r.store.MarkProcessed(ctx, track.ID, string(outcome.Enrichment.Status)); err != nil {
			return nil, fmt.Errorf("mark processed: %w", err)
		}
		summary.Processed++

		r.logger.Info("track processed",
			logging.String("track_id", track.ID),
			logging.String("status", string(outcome.Enrichment.Status)),
			logging.Float64("confidence", outcome.Enrichment.MatchConfidence))

		if summary.Processed%opts.CheckpointInterval == 0 {
			if err := r.checkpoint(opts, collection, reviewItems, dryRunEntries); err != nil {
				return nil, err
			}
			r.logger.Info("checkpoint saved", logging.Int("processed", summary.Processed))
		}
	}

	if err := r.checkpoint(opts, collection, reviewItems, dryRunEntries); err != nil {
		return nil, err
	}

	if !opts.DryRun {
		if err := os.Remove(reportPath); err == nil {
			r.logger.Info("dry-run report consumed and removed")
		} else if !errors.Is(err, os.ErrNotExist) {
			r.logger.Warn("could not remove dry-run report", logging.Error(err))
		}
	}

	return summary, nil
}

// loadCatalog picks the run's starting catalog. A resumed run continues from
// the enriched output when it exists so prior work is preserved.
func (r *Runner) loadCatalog(opts Options) (*catalog.Collection, error) {
	enrichedPath := filepath.Join(opts.OutputDir, catalog.EnrichedFile)
	if opts.Resume {
		if _, err := os.Stat(enrichedPath); err == nil {
			r.logger.Info("resuming from enriched output", logging.String("path", enrichedPath))
			return catalog.Load(enrichedPath)
		}
	}
	return catalog.Load(opts.InputPath)
}

// replayCached converts a dry-run report entry back into an outcome,
// completing the artwork download the dry run deferred.
func (r *Runner) replayCached(ctx context.Context, track *catalog.Track, cached *catalog.DryRunEntry) *catalog.Outcome {
	enrichment := cached.Enrichment
	enrichment.Timestamp = catalog.Timestamp()

	updates := make(map[string]any, len(cached.ProposedUpdates))
	for field, value := range cached.ProposedUpdates {
		updates[field] = value
	}

	_, hasArtwork := updates["artwork_path"]
	wantsArtwork := enrichment.Artwork != nil && enrichment.Artwork.Upgrade && enrichment.ReleaseID != ""
	if !r.enricher.SkipArtwork() && wantsArtwork && !hasArtwork {
		if art := r.enricher.ReleaseArtworkInfo(ctx, enrichment.ReleaseID); art != nil {
			if destination, err := r.enricher.DownloadArtwork(ctx, track.ID, art); err != nil {
				r.logger.Warn("deferred artwork download failed",
					logging.String("track_id", track.ID),
					logging.Error(err))
			} else {
				updates["artwork_path"] = destination
				enrichment.FieldsUpdated = append(enrichment.FieldsUpdated, "artwork")
			}
		}
	}

	return &catalog.Outcome{Enrichment: enrichment, Updates: updates, Review: cached.Review}
}

func (r *Runner) checkpoint(opts Options, collection *catalog.Collection, reviewItems []*catalog.ReviewEntry, dryRunEntries []*catalog.DryRunEntry) error {
	if opts.DryRun {
		reportPath := filepath.Join(opts.OutputDir, catalog.DryRunReportFile)
		if err := catalog.WriteDryRunReport(reportPath, dryRunEntries); err != nil {
			return fmt.Errorf("write dry-run report: %w", err)
		}
		return nil
	}

	enrichedPath := filepath.Join(opts.OutputDir, catalog.EnrichedFile)
	if err := collection.Save(enrichedPath); err != nil {
		return fmt.Errorf("save enriched catalog: %w", err)
	}
	if len(reviewItems) > 0 {
		reviewPath := filepath.Join(opts.OutputDir, catalog.ReviewQueueFile)
		if err := catalog.WriteReviewQueue(reviewPath, reviewItems); err != nil {
			return fmt.Errorf("write review queue: %w", err)
		}
	}
	return nil
}

// runOffline writes the input catalog through with every track marked
// skipped, so downstream consumers still get a complete enriched artifact.
func (r *Runner) runOffline(opts Options) (*Summary, error) {
	collection, err := catalog.Load(opts.InputPath)
	if err != nil {
		return nil, err
	}

	for _, entry := range collection.Entries {
		entry.Track.Enrichment = &catalog.Enrichment{
			Status:    catalog.StatusSkipped,
			Reason:    "offline",
			Timestamp: catalog.Timestamp(),
		}
	}

	enrichedPath := filepath.Join(opts.OutputDir, catalog.EnrichedFile)
	if err := collection.Save(enrichedPath); err != nil {
		return nil, fmt.Errorf("save offline catalog: %w", err)
	}

	r.logger.Info("offline fallback written",
		logging.String("path", enrichedPath),
		logging.Int("tracks", collection.Len()))

	return &Summary{Total: collection.Len(), Offline: true, DryRun: opts.DryRun}, nil
}
