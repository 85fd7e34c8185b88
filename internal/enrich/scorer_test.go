package enrich

import (
	"testing"

	"crate/internal/catalog"
)

func TestScoreExactMatch(t *testing.T) {
	track := &catalog.Track{
		Artist:   "David Bowie",
		Title:    "Heroes",
		Album:    "Heroes",
		Year:     1977,
		Duration: 371,
	}
	candidate := catalog.Candidate{
		Artist:   "David Bowie",
		Title:    "Heroes",
		Album:    "Heroes",
		Year:     1977,
		Duration: 371,
	}

	var scorer Scorer
	if got := scorer.Score(track, candidate, 1); got != 1.0 {
		t.Fatalf("Score = %v, want 1.0", got)
	}
}

func TestScoreMissingFieldsContributeNothing(t *testing.T) {
	track := &catalog.Track{Artist: "David Bowie", Title: "Heroes"}
	candidate := catalog.Candidate{
		Artist:   "David Bowie",
		Title:    "Heroes",
		Album:    "Heroes",
		Year:     1977,
		Duration: 371,
	}

	var scorer Scorer
	if got := scorer.Score(track, candidate, 1); got != 0.70 {
		t.Fatalf("Score = %v, want 0.70", got)
	}
}

func TestScoreYearNearMiss(t *testing.T) {
	track := &catalog.Track{
		Artist:   "David Bowie",
		Title:    "Heroes",
		Album:    "Heroes",
		Year:     1978,
		Duration: 371,
	}
	candidate := catalog.Candidate{
		Artist:   "David Bowie",
		Title:    "Heroes",
		Album:    "Heroes",
		Year:     1977,
		Duration: 371,
	}

	var scorer Scorer
	if got := scorer.Score(track, candidate, 1); got != 0.98 {
		t.Fatalf("Score = %v, want 0.98", got)
	}
}

func TestScoreDurationTolerance(t *testing.T) {
	cases := []struct {
		name     string
		duration int
		want     float64
	}{
		{"within two seconds", 370, 1.0},
		{"within five seconds", 367, 0.985},
		{"within ten seconds", 362, 0.965},
		{"beyond ten seconds", 340, 0.95},
	}

	var scorer Scorer
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			track := &catalog.Track{
				Artist:   "David Bowie",
				Title:    "Heroes",
				Album:    "Heroes",
				Year:     1977,
				Duration: tc.duration,
			}
			candidate := catalog.Candidate{
				Artist:   "David Bowie",
				Title:    "Heroes",
				Album:    "Heroes",
				Year:     1977,
				Duration: 371,
			}
			if got := scorer.Score(track, candidate, 1); got != tc.want {
				t.Fatalf("Score = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestScoreCorroborationBonus(t *testing.T) {
	track := &catalog.Track{Artist: "David Bowie", Title: "Heroes"}
	candidate := catalog.Candidate{Artist: "David Bowie", Title: "Heroes"}

	var scorer Scorer
	if got := scorer.Score(track, candidate, 2); got != 0.75 {
		t.Fatalf("two-source Score = %v, want 0.75", got)
	}
	if got := scorer.Score(track, candidate, 3); got != 0.80 {
		t.Fatalf("three-source Score = %v, want 0.80", got)
	}
}

func TestScoreBonusClampedToOne(t *testing.T) {
	track := &catalog.Track{
		Artist:   "David Bowie",
		Title:    "Heroes",
		Album:    "Heroes",
		Year:     1977,
		Duration: 371,
	}
	candidate := catalog.Candidate{
		Artist:   "David Bowie",
		Title:    "Heroes",
		Album:    "Heroes",
		Year:     1977,
		Duration: 371,
	}

	var scorer Scorer
	if got := scorer.Score(track, candidate, 3); got != 1.0 {
		t.Fatalf("Score = %v, want 1.0", got)
	}
}

func TestYearSimilarityCurve(t *testing.T) {
	cases := []struct {
		a, b int
		want float64
	}{
		{1977, 1977, 1.0},
		{1977, 1978, 0.8},
		{1977, 1980, 0.4},
		{1977, 1985, 0},
		{0, 1977, 0},
		{1977, 0, 0},
	}
	for _, tc := range cases {
		if got := yearSimilarity(tc.a, tc.b); got != tc.want {
			t.Fatalf("yearSimilarity(%d, %d) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestDurationSimilarityCurve(t *testing.T) {
	cases := []struct {
		a, b int
		want float64
	}{
		{200, 200, 1.0},
		{200, 202, 1.0},
		{200, 205, 0.7},
		{200, 210, 0.3},
		{200, 230, 0},
		{0, 200, 0},
	}
	for _, tc := range cases {
		if got := durationSimilarity(tc.a, tc.b); got != tc.want {
			t.Fatalf("durationSimilarity(%d, %d) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}
