package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/google/uuid"

	"crate/internal/catalog"
	"crate/internal/logging"
	"crate/internal/textutil"
)

// SearchClient is the reference-lookup collaborator. Search applies its own
// query fallback strategy and returns candidates in lookup rank order.
type SearchClient interface {
	Search(ctx context.Context, artist, title, album string) ([]catalog.Candidate, error)
}

// ReleaseArtworkClient is the primary artwork collaborator, keyed by the
// release identifier of the winning candidate.
type ReleaseArtworkClient interface {
	ReleaseArtwork(ctx context.Context, releaseID string) (*catalog.ArtworkInfo, error)
	Download(ctx context.Context, url, destination string) error
}

// ArtworkSearchClient is the secondary artwork collaborator, keyed by artist
// and title.
type ArtworkSearchClient interface {
	SearchArtwork(ctx context.Context, artist, title string) (*catalog.ArtworkInfo, error)
	Download(ctx context.Context, url, destination string) error
}

// Config tunes the enrichment decision engine.
type Config struct {
	AutoAcceptThreshold float64
	ReviewThreshold     float64
	ArtworkDir          string
	SkipArtwork         bool
}

func (c Config) withDefaults() Config {
	if c.AutoAcceptThreshold <= 0 {
		c.AutoAcceptThreshold = AutoAcceptThreshold
	}
	if c.ReviewThreshold <= 0 {
		c.ReviewThreshold = ReviewThreshold
	}
	return c
}

// resolvedFields are the fields the conflict resolver examines per track.
var resolvedFields = []string{"artist", "title", "album", "year", "genre"}

// suggestionFields are the candidate fields included in review suggestions.
var suggestionFields = []string{"artist", "title", "album", "year", "duration"}

// Enricher orchestrates the enrichment decision for one track at a time.
type Enricher struct {
	lookup     SearchClient
	releaseArt ReleaseArtworkClient
	searchArt  ArtworkSearchClient
	scorer     Scorer
	resolver   Resolver
	selector   Selector
	cfg        Config
	logger     *slog.Logger
}

// New builds an Enricher. The artwork clients may be nil when artwork
// enrichment is disabled.
func New(lookup SearchClient, releaseArt ReleaseArtworkClient, searchArt ArtworkSearchClient, cfg Config, logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Enricher{
		lookup:     lookup,
		releaseArt: releaseArt,
		searchArt:  searchArt,
		cfg:        cfg.withDefaults(),
		logger:     logger,
	}
}

type scoredCandidate struct {
	score     float64
	sources   int
	candidate catalog.Candidate
}

// EnrichTrack computes the full enrichment decision for one track. The
// decision (enrichment block, proposed updates, review entry) is identical in
// dry-run and real mode; dryRun only defers the artwork download.
func (e *Enricher) EnrichTrack(ctx context.Context, track *catalog.Track, dryRun bool) (*catalog.Outcome, error) {
	enrichment := &catalog.Enrichment{Timestamp: catalog.Timestamp()}
	outcome := &catalog.Outcome{Enrichment: enrichment, Updates: map[string]any{}}
	var reviewReasons []string

	if track.Artist == "" && track.Title == "" {
		enrichment.Status = catalog.StatusNoMetadata
		outcome.Review = &catalog.ReviewEntry{
			ID:          uuid.NewString(),
			TrackID:     track.ID,
			Filename:    track.OriginalFilename,
			Reasons:     []string{"no_artist_or_title"},
			Existing:    trackFields(track, suggestionFields),
			Suggestions: []catalog.Suggestion{},
		}
		return outcome, nil
	}

	candidates, err := e.lookup.Search(ctx, track.Artist, track.Title, track.Album)
	if err != nil {
		return nil, fmt.Errorf("search candidates: %w", err)
	}
	if len(candidates) == 0 {
		enrichment.Status = catalog.StatusNoMatch
		return outcome, nil
	}

	scored := e.scoreCandidates(track, candidates)
	best := scored[0]
	enrichment.MatchConfidence = best.score
	enrichment.Source = best.candidate.Source

	if len(scored) >= 2 {
		second := scored[1]
		closeScores := second.score >= e.cfg.ReviewThreshold && best.score-second.score < 0.10
		if closeScores && textutil.Normalize(best.candidate.Title) != textutil.Normalize(second.candidate.Title) {
			reviewReasons = append(reviewReasons, "multiple_high_confidence_disagree")
		}
	}

	switch {
	case best.score >= e.cfg.AutoAcceptThreshold:
		enrichment.Status = catalog.StatusAutoAccepted
	case best.score >= e.cfg.ReviewThreshold:
		enrichment.Status = catalog.StatusReviewNeeded
		reviewReasons = append(reviewReasons, fmt.Sprintf("confidence_between_%.2f_and_%.2f", e.cfg.ReviewThreshold, e.cfg.AutoAcceptThreshold))
	default:
		enrichment.Status = catalog.StatusBelowThreshold
		return outcome, nil
	}

	reviewReasons = append(reviewReasons, e.resolveFields(track, best, enrichment, outcome.Updates)...)

	enrichment.RecordingID = best.candidate.RecordingID
	enrichment.ReleaseID = best.candidate.ReleaseID

	artReason := e.enrichArtwork(ctx, track, best.candidate, enrichment, outcome.Updates, dryRun)
	if artReason != "" {
		reviewReasons = append(reviewReasons, artReason)
	}

	if len(reviewReasons) > 0 {
		outcome.Review = e.buildReview(track, scored, reviewReasons, enrichment)
		e.logger.Warn("track flagged for review",
			logging.String("track_id", track.ID),
			logging.Float64("confidence", best.score),
			logging.Any("reasons", reviewReasons))
	}

	return outcome, nil
}

// scoreCandidates scores every candidate and ranks them descending. The sort
// is stable so equal scores keep lookup order.
func (e *Enricher) scoreCandidates(track *catalog.Track, candidates []catalog.Candidate) []scoredCandidate {
	agreement := sourceAgreement(candidates)

	scored := make([]scoredCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		sources := agreement[identityKey(candidate)]
		score := e.scorer.Score(track, candidate, sources)
		scored = append(scored, scoredCandidate{score: score, sources: sources, candidate: candidate})
		e.logger.Debug("scored candidate",
			logging.String("track_id", track.ID),
			logging.String("candidate_title", candidate.Title),
			logging.String("source", candidate.Source),
			logging.Int("agreeing_sources", sources),
			logging.Float64("score", score))
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	return scored
}

// sourceAgreement counts, per candidate identity (normalized artist+title),
// how many distinct sources offered it.
func sourceAgreement(candidates []catalog.Candidate) map[string]int {
	sources := make(map[string]map[string]struct{})
	for _, candidate := range candidates {
		key := identityKey(candidate)
		if sources[key] == nil {
			sources[key] = make(map[string]struct{})
		}
		sources[key][candidate.Source] = struct{}{}
	}
	counts := make(map[string]int, len(sources))
	for key, set := range sources {
		counts[key] = len(set)
	}
	return counts
}

func identityKey(candidate catalog.Candidate) string {
	return textutil.Normalize(candidate.Artist) + "\x00" + textutil.Normalize(candidate.Title)
}

// resolveFields runs the conflict resolver over each metadata field and
// returns any review reasons it raised. Supplement updates are gated on the
// overall confidence clearing the review threshold; the gate applies
// uniformly in the auto-accept and review-needed paths.
func (e *Enricher) resolveFields(track *catalog.Track, best scoredCandidate, enrichment *catalog.Enrichment, updates map[string]any) []string {
	var reasons []string
	for _, field := range resolvedFields {
		existingValue := trackFieldString(track, field)
		candidateValue := candidateFieldString(best.candidate, field)

		resolution := e.resolver.Resolve(field, existingValue, candidateValue, best.sources)
		switch resolution.Classification {
		case ClassificationConfirmed:
			enrichment.FieldsConfirmed = append(enrichment.FieldsConfirmed, field)
		case ClassificationSupplement:
			if best.score >= e.cfg.ReviewThreshold {
				updates[field] = candidateFieldValue(best.candidate, field)
				enrichment.FieldsUpdated = append(enrichment.FieldsUpdated, field)
			}
		case ClassificationLikelyCorrection:
			enrichment.Conflicts = append(enrichment.Conflicts, catalog.Conflict{
				Field:      field,
				Existing:   resolution.Existing,
				Suggested:  resolution.Suggested,
				Similarity: resolution.Similarity,
			})
			reasons = append(reasons, "likely_correction:"+field)
		case ClassificationAlternative:
			enrichment.Conflicts = append(enrichment.Conflicts, catalog.Conflict{
				Field:       field,
				Existing:    existingValue,
				Alternative: resolution.Alternative,
			})
		}
	}
	return reasons
}

// enrichArtwork looks up candidate artwork, scores it against the existing
// baseline, and records the upgrade decision. The download itself is skipped
// in dry-run mode; replacing existing artwork returns a review reason.
func (e *Enricher) enrichArtwork(ctx context.Context, track *catalog.Track, winner catalog.Candidate, enrichment *catalog.Enrichment, updates map[string]any, dryRun bool) string {
	if e.cfg.SkipArtwork {
		return ""
	}

	var art *catalog.ArtworkInfo
	if winner.ReleaseID != "" && e.releaseArt != nil {
		found, err := e.releaseArt.ReleaseArtwork(ctx, winner.ReleaseID)
		if err != nil {
			e.logger.Debug("release artwork lookup failed", logging.String("release_id", winner.ReleaseID), logging.Error(err))
		} else {
			art = found
		}
	}
	if art == nil && e.searchArt != nil && track.Artist != "" && track.Title != "" {
		found, err := e.searchArt.SearchArtwork(ctx, track.Artist, track.Title)
		if err != nil {
			e.logger.Debug("artwork search failed", logging.String("track_id", track.ID), logging.Error(err))
		} else {
			art = found
		}
	}
	if art == nil {
		return ""
	}

	newScore := e.selector.ScoreArtwork(art.Width, art.Source, art.Type, art.Format)
	existingScore := 0
	if track.ArtworkPath != "" {
		existingScore = e.selector.ExistingBaseline()
	}
	upgrade := e.selector.ShouldUpgrade(existingScore, newScore)

	enrichment.Artwork = &catalog.ArtworkDecision{
		Available:     true,
		NewScore:      newScore,
		ExistingScore: existingScore,
		Upgrade:       upgrade,
		Source:        art.Source,
	}

	reason := ""
	if upgrade && track.ArtworkPath != "" {
		reason = "artwork_upgrade_with_existing"
	}

	if upgrade && !dryRun {
		if destination, err := e.DownloadArtwork(ctx, track.ID, art); err != nil {
			e.logger.Warn("artwork download failed", logging.String("track_id", track.ID), logging.Error(err))
		} else {
			updates["artwork_path"] = destination
			enrichment.FieldsUpdated = append(enrichment.FieldsUpdated, "artwork")
		}
	}

	return reason
}

// DownloadArtwork fetches artwork through the collaborator matching its
// source and returns the destination path. The batch runner also calls this
// when applying a cached dry-run decision whose download was deferred.
func (e *Enricher) DownloadArtwork(ctx context.Context, trackID string, art *catalog.ArtworkInfo) (string, error) {
	ext := "png"
	if art.Format == "jpeg" || art.Format == "jpg" {
		ext = "jpg"
	}
	destination := filepath.Join(e.cfg.ArtworkDir, trackID+"_enriched."+ext)

	var err error
	if art.Source == "itunes" && e.searchArt != nil {
		err = e.searchArt.Download(ctx, art.URL, destination)
	} else if e.releaseArt != nil {
		err = e.releaseArt.Download(ctx, art.URL, destination)
	} else {
		err = fmt.Errorf("no artwork client for source %q", art.Source)
	}
	if err != nil {
		return "", err
	}
	return destination, nil
}

// ReleaseArtworkInfo exposes a release-keyed artwork lookup for dry-run
// replay, where the cached decision flags an upgrade but the image was not
// downloaded yet.
func (e *Enricher) ReleaseArtworkInfo(ctx context.Context, releaseID string) *catalog.ArtworkInfo {
	if e.releaseArt == nil || releaseID == "" {
		return nil
	}
	art, err := e.releaseArt.ReleaseArtwork(ctx, releaseID)
	if err != nil {
		e.logger.Debug("release artwork lookup failed", logging.String("release_id", releaseID), logging.Error(err))
		return nil
	}
	return art
}

// SkipArtwork reports whether artwork enrichment is disabled.
func (e *Enricher) SkipArtwork() bool {
	return e.cfg.SkipArtwork
}

func (e *Enricher) buildReview(track *catalog.Track, scored []scoredCandidate, reasons []string, enrichment *catalog.Enrichment) *catalog.ReviewEntry {
	suggestions := []catalog.Suggestion{{
		Source:     scored[0].candidate.Source,
		Confidence: scored[0].score,
		Fields:     candidateFields(scored[0].candidate, suggestionFields),
	}}
	if len(scored) >= 2 && scored[1].score >= e.cfg.ReviewThreshold {
		suggestions = append(suggestions, catalog.Suggestion{
			Source:     scored[1].candidate.Source,
			Confidence: scored[1].score,
			Fields:     candidateFields(scored[1].candidate, suggestionFields),
		})
	}

	return &catalog.ReviewEntry{
		ID:          uuid.NewString(),
		TrackID:     track.ID,
		Filename:    track.OriginalFilename,
		Reasons:     reasons,
		Existing:    trackFields(track, resolvedFields),
		Suggestions: suggestions,
		Conflicts:   enrichment.Conflicts,
	}
}

func trackFields(track *catalog.Track, fields []string) map[string]any {
	values := make(map[string]any, len(fields))
	for _, field := range fields {
		values[field] = track.Field(field)
	}
	return values
}

func candidateFields(candidate catalog.Candidate, fields []string) map[string]any {
	values := make(map[string]any, len(fields))
	for _, field := range fields {
		values[field] = candidate.Field(field)
	}
	return values
}

func trackFieldString(track *catalog.Track, field string) string {
	switch field {
	case "year":
		if track.Year > 0 {
			return strconv.Itoa(track.Year)
		}
		return ""
	default:
		value, _ := track.Field(field).(string)
		return value
	}
}

func candidateFieldString(candidate catalog.Candidate, field string) string {
	switch field {
	case "year":
		if candidate.Year > 0 {
			return strconv.Itoa(candidate.Year)
		}
		return ""
	case "genre":
		return CanonicalGenre(candidate.Genre)
	default:
		value, _ := candidate.Field(field).(string)
		return value
	}
}

// candidateFieldValue returns the typed value applied to the catalog for a
// supplement update.
func candidateFieldValue(candidate catalog.Candidate, field string) any {
	switch field {
	case "year":
		return candidate.Year
	case "genre":
		return CanonicalGenre(candidate.Genre)
	default:
		return candidate.Field(field)
	}
}
