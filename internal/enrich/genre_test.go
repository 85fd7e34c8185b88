package enrich

import "testing"

func TestCanonicalGenre(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"indie rock", "Rock"},
		{"Synth-Pop", "Pop"},
		{"rap", "Hip-Hop"},
		{"neo soul", "R&B"},
		{"Drum And Bass", "Electronic"},
		{"Shoegaze", "Shoegaze"},
		{"  jazz  ", "Jazz"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := CanonicalGenre(tc.in); got != tc.want {
			t.Fatalf("CanonicalGenre(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
