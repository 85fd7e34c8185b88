package enrich

import (
	"strings"

	"crate/internal/textutil"
)

// Classification labels a per-field comparison between existing and candidate
// values.
type Classification string

const (
	ClassificationNoData           Classification = "no_data"
	ClassificationSupplement       Classification = "supplement"
	ClassificationConfirmed        Classification = "confirmed"
	ClassificationLikelyCorrection Classification = "likely_correction"
	ClassificationAlternative      Classification = "alternative"
)

// Action is what the engine does with a classified field.
type Action string

const (
	ActionKeep       Action = "keep"
	ActionAutoFill   Action = "auto_fill"
	ActionFlagReview Action = "flag_review"
)

// confirmSimilarity is the normalized similarity above which two present
// values count as agreeing.
const confirmSimilarity = 0.9

// Resolution is the outcome of resolving one field.
type Resolution struct {
	Classification Classification
	Action         Action
	Value          string
	Existing       string
	Suggested      string
	Alternative    string
	Similarity     float64
}

// Resolver classifies per-field disagreements between the existing record and
// a candidate.
type Resolver struct{}

// Resolve applies the conflict rules in order: absent candidate keeps the
// existing value; an absent existing value is supplemented from the candidate;
// agreeing values confirm; corroborated disagreement (two or more independent
// sources) is flagged for review rather than applied; a single-source
// disagreement keeps the existing value and records the candidate as an
// alternative.
func (Resolver) Resolve(field, existingValue, candidateValue string, sourceCount int) Resolution {
	hasExisting := strings.TrimSpace(existingValue) != ""
	hasCandidate := strings.TrimSpace(candidateValue) != ""

	if !hasCandidate {
		return Resolution{Classification: ClassificationNoData, Action: ActionKeep}
	}

	if !hasExisting {
		return Resolution{
			Classification: ClassificationSupplement,
			Action:         ActionAutoFill,
			Value:          candidateValue,
		}
	}

	similarity := textutil.Similarity(existingValue, candidateValue)
	if similarity >= confirmSimilarity {
		return Resolution{Classification: ClassificationConfirmed, Action: ActionKeep}
	}

	if sourceCount >= 2 {
		return Resolution{
			Classification: ClassificationLikelyCorrection,
			Action:         ActionFlagReview,
			Existing:       existingValue,
			Suggested:      candidateValue,
			Similarity:     round3(similarity),
		}
	}

	return Resolution{
		Classification: ClassificationAlternative,
		Action:         ActionKeep,
		Alternative:    candidateValue,
	}
}
