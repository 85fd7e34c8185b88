package enrich

import "strings"

// Artwork scoring tables. Resolution contributes up to 40 points, source up
// to 30, type up to 20, format up to 10.
var artResolutionScores = []struct {
	width  int
	points int
}{
	{1200, 40},
	{1000, 35},
	{500, 20},
	{250, 10},
}

var artSourceScores = map[string]int{
	"coverartarchive": 30,
	"itunes":          25,
	"discogs":         20,
	"existing":        15,
}

var artTypeScores = map[string]int{
	"front":   20,
	"unknown": 10,
}

var artFormatScores = map[string]int{
	"jpeg": 10,
	"jpg":  10,
	"png":  7,
}

// artUpgradeMargin is the hysteresis that keeps marginally better artwork
// from churning the catalog.
const artUpgradeMargin = 10

// Selector scores artwork descriptors and decides upgrade-worthiness.
type Selector struct{}

// ScoreArtwork rates an artwork descriptor on a 0-100 scale.
func (Selector) ScoreArtwork(width int, source, artType, format string) int {
	score := 0
	for _, rs := range artResolutionScores {
		if width >= rs.width {
			score += rs.points
			break
		}
	}
	score += artSourceScores[source]
	score += artTypeScores[artType]
	score += artFormatScores[strings.ToLower(format)]
	return score
}

// ShouldUpgrade reports whether new artwork beats the existing artwork by
// more than the hysteresis margin.
func (Selector) ShouldUpgrade(existingScore, newScore int) bool {
	return newScore > existingScore+artUpgradeMargin
}

// ExistingBaseline scores the fixed proxy used for artwork already in the
// catalog (true quality metadata for existing art is not tracked).
func (s Selector) ExistingBaseline() int {
	return s.ScoreArtwork(500, "existing", "front", "jpeg")
}
