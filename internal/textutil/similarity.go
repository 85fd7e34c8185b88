package textutil

// Similarity scores two strings in [0, 1]. Empty input on either side yields
// 0. Equal normalized forms yield 1. Otherwise the score is the Jaccard
// overlap of the token sets (intersection over union). Symmetric by
// construction.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	na, nb := Normalize(a), Normalize(b)
	if na != "" && na == nb {
		return 1
	}
	ta, tb := TokenSet(a), TokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	intersection := 0
	for token := range ta {
		if _, ok := tb[token]; ok {
			intersection++
		}
	}
	union := len(ta) + len(tb) - intersection
	return float64(intersection) / float64(union)
}
