package enrich

import "testing"

func TestScoreArtworkTable(t *testing.T) {
	var selector Selector
	cases := []struct {
		name    string
		width   int
		source  string
		artType string
		format  string
		want    int
	}{
		{"best possible", 1200, "coverartarchive", "front", "jpeg", 100},
		{"itunes front jpeg", 1200, "itunes", "front", "jpeg", 95},
		{"large thumbnail png", 500, "coverartarchive", "front", "png", 77},
		{"existing baseline", 500, "existing", "front", "jpeg", 65},
		{"tiny unknown art", 250, "discogs", "unknown", "png", 47},
		{"below resolution table", 100, "itunes", "front", "jpeg", 55},
		{"unknown source and format", 1000, "bandcamp", "front", "webp", 55},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := selector.ScoreArtwork(tc.width, tc.source, tc.artType, tc.format)
			if got != tc.want {
				t.Fatalf("ScoreArtwork = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestShouldUpgradeRequiresMargin(t *testing.T) {
	var selector Selector
	if selector.ShouldUpgrade(50, 60) {
		t.Fatal("score equal to the margin should not upgrade")
	}
	if !selector.ShouldUpgrade(50, 61) {
		t.Fatal("score beyond the margin should upgrade")
	}
	if selector.ShouldUpgrade(50, 50) {
		t.Fatal("equal scores should not upgrade")
	}
}

func TestExistingBaseline(t *testing.T) {
	var selector Selector
	if got := selector.ExistingBaseline(); got != 65 {
		t.Fatalf("ExistingBaseline = %d, want 65", got)
	}
}
