package enrich

import "strings"

// genreMap folds sub-genre spellings from lookup sources into the catalog's
// canonical genre vocabulary, so "indie rock" confirms an existing "Rock"
// instead of raising a conflict.
var genreMap = map[string]string{
	"rock":             "Rock",
	"alternative rock": "Rock",
	"indie rock":       "Rock",
	"hard rock":        "Rock",
	"punk":             "Rock",
	"punk rock":        "Rock",
	"garage rock":      "Rock",
	"grunge":           "Rock",
	"soft rock":        "Rock",
	"metal":            "Metal",
	"heavy metal":      "Metal",
	"death metal":      "Metal",
	"black metal":      "Metal",
	"thrash metal":     "Metal",
	"metalcore":        "Metal",
	"pop":              "Pop",
	"indie pop":        "Pop",
	"synthpop":         "Pop",
	"synth-pop":        "Pop",
	"dance pop":        "Pop",
	"electropop":       "Pop",
	"hip hop":          "Hip-Hop",
	"rap":              "Hip-Hop",
	"trap":             "Hip-Hop",
	"boom bap":         "Hip-Hop",
	"r&b":              "R&B",
	"rnb":              "R&B",
	"contemporary r&b": "R&B",
	"soul":             "R&B",
	"neo soul":         "R&B",
	"funk":             "R&B",
	"electronic":       "Electronic",
	"edm":              "Electronic",
	"house":            "Electronic",
	"techno":           "Electronic",
	"trance":           "Electronic",
	"dubstep":          "Electronic",
	"drum and bass":    "Electronic",
	"trip hop":         "Electronic",
	"electronica":      "Electronic",
	"latin":            "Latin",
	"reggaeton":        "Latin",
	"salsa":            "Latin",
	"bachata":          "Latin",
	"cumbia":           "Latin",
	"country":          "Country",
	"americana":        "Country",
	"alt-country":      "Country",
	"jazz":             "Jazz",
	"smooth jazz":      "Jazz",
	"bebop":            "Jazz",
	"classical":        "Classical",
	"opera":            "Classical",
	"baroque":          "Classical",
	"orchestral":       "Classical",
	"folk":             "Folk",
	"indie folk":       "Folk",
	"acoustic":         "Folk",
	"reggae":           "Reggae",
	"dancehall":        "Reggae",
	"ska":              "Reggae",
	"blues":            "Blues",
	"soundtrack":       "Soundtrack",
	"film score":       "Soundtrack",
}

// CanonicalGenre maps a lookup genre onto the canonical vocabulary. Unknown
// genres pass through unchanged.
func CanonicalGenre(genre string) string {
	trimmed := strings.TrimSpace(genre)
	if trimmed == "" {
		return ""
	}
	if canonical, ok := genreMap[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return trimmed
}
