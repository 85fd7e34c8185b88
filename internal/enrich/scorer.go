package enrich

import (
	"math"

	"crate/internal/catalog"
	"crate/internal/textutil"
)

// Decision thresholds over the weighted match score.
const (
	AutoAcceptThreshold = 0.85
	ReviewThreshold     = 0.50
)

// fieldWeights is the fixed scoring model. Weights sum to 1.0; the slice is
// ordered so float accumulation is deterministic.
var fieldWeights = []struct {
	field  string
	weight float64
}{
	{"artist", 0.35},
	{"title", 0.35},
	{"album", 0.15},
	{"year", 0.10},
	{"duration", 0.05},
}

// Scorer computes weighted match confidence between an existing track record
// and a lookup candidate.
type Scorer struct{}

// Score returns the match confidence in [0, 1], rounded to four decimal
// places. sourceCount is the number of independent sources agreeing on the
// candidate; two sources add 0.05, three or more add 0.10.
func (Scorer) Score(existing *catalog.Track, candidate catalog.Candidate, sourceCount int) float64 {
	total := 0.0
	for _, fw := range fieldWeights {
		switch fw.field {
		case "artist":
			total += fw.weight * textutil.Similarity(existing.Artist, candidate.Artist)
		case "title":
			total += fw.weight * textutil.Similarity(existing.Title, candidate.Title)
		case "album":
			total += fw.weight * textutil.Similarity(existing.Album, candidate.Album)
		case "year":
			total += fw.weight * yearSimilarity(existing.Year, candidate.Year)
		case "duration":
			total += fw.weight * durationSimilarity(existing.Duration, candidate.Duration)
		}
	}

	switch {
	case sourceCount >= 3:
		total = math.Min(1, total+0.10)
	case sourceCount == 2:
		total = math.Min(1, total+0.05)
	}

	return round4(total)
}

// yearSimilarity credits near misses: release year disagreements of a single
// year are common across reissues. Zero means the field is absent.
func yearSimilarity(a, b int) float64 {
	if a <= 0 || b <= 0 {
		return 0
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff == 0:
		return 1
	case diff == 1:
		return 0.8
	case diff <= 3:
		return 0.4
	default:
		return 0
	}
}

// durationSimilarity tolerates small encoding differences in track length.
func durationSimilarity(a, b int) float64 {
	if a <= 0 || b <= 0 {
		return 0
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff <= 2:
		return 1
	case diff <= 5:
		return 0.7
	case diff <= 10:
		return 0.3
	default:
		return 0
	}
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
