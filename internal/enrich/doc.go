// Package enrich implements the enrichment decision engine: candidate match
// scoring, per-field conflict resolution, artwork quality selection, and the
// per-track orchestration that combines them into an enrichment outcome.
package enrich
