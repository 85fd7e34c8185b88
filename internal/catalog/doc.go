// Package catalog owns the track metadata model and the JSON artifacts the
// enrichment run reads and writes: the catalog itself (in either its
// dict-keyed or list-keyed shape), the review queue, and the dry-run report.
package catalog
