package valueobject

import "github.com/mycfo/backend/internal/domain/entity"

// SuggestionLevel is the coarse bucket summarizing a match score.
type SuggestionLevel string

const (
	SuggestionLevelHigh   SuggestionLevel = "HIGH"
	SuggestionLevelMedium SuggestionLevel = "MEDIUM"
	SuggestionLevelLow    SuggestionLevel = "LOW"
)

// Human-readable reasons attached to a match candidate, in evaluation order.
// The near-amount reason depends on the configured tolerance, see
// MatchingConfig.NearAmountReason.
const (
	ReasonAmountExact      = "amount matches exactly"
	ReasonTaxID            = "tax id matches"
	ReasonCounterpartyName = "counterparty name matches"
	ReasonCategory         = "category matches"
)

// MatchCandidate is a scored document proposed for a movement. Never persisted.
type MatchCandidate struct {
	Document  *entity.Document
	Score     int
	Level     SuggestionLevel
	Reasons   []string
	DaysApart int
}

// ClassifyScore maps a score to its suggestion level.
// The second return value is false for a zero score, which is never suggested.
func ClassifyScore(config MatchingConfig, score int) (SuggestionLevel, bool) {
	switch {
	case score <= 0:
		return "", false
	case score >= config.HighThreshold:
		return SuggestionLevelHigh, true
	case score >= config.MediumThreshold:
		return SuggestionLevelMedium, true
	default:
		return SuggestionLevelLow, true
	}
}
