// Package matcher proposes commercial documents a movement could settle.
//
// Each candidate document is scored against the movement on independent signals
// (amount, tax id, counterparty name, date proximity, category). Scores are summed,
// capped, bucketed into suggestion levels, and returned highest first:
//
//	m := matcher.NewMatcher(valueobject.DefaultMatchingConfig())
//	candidates, err := m.Suggest(movement, unlinkedDocuments, matcher.SuggestOptions{})
//
// The matcher is a pure function of its inputs and is safe for concurrent use.
package matcher

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mycfo/backend/internal/domain/entity"
	domainerror "github.com/mycfo/backend/internal/domain/error"
	"github.com/mycfo/backend/internal/domain/valueobject"
)

// SuggestOptions tunes a single Suggest call.
type SuggestOptions struct {
	// AllowLinked permits suggesting for a movement that is already linked (re-suggest mode).
	AllowLinked bool
}

// Matcher scores documents against movements.
type Matcher struct {
	config valueobject.MatchingConfig
}

// NewMatcher creates a new matcher with the given config.
func NewMatcher(config valueobject.MatchingConfig) *Matcher {
	return &Matcher{
		config: config,
	}
}

// Suggest returns the ranked match candidates for a movement.
// Documents scoring zero, and documents from another organization, are left out.
func (m *Matcher) Suggest(
	movement *entity.Movement,
	pool []*entity.Document,
	opts SuggestOptions,
) ([]valueobject.MatchCandidate, error) {
	if movement == nil {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeMissingMovement,
			"movement is required",
			domainerror.ErrInvalidInput,
		)
	}
	if movement.OrganizationID == uuid.Nil {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeMissingOrganization,
			"movement has no organization",
			domainerror.ErrInvalidInput,
		)
	}
	if movement.IsLinked() && !opts.AllowLinked {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeLinkedMovement,
			"movement is already linked, unlink it or request re-suggestion",
			domainerror.ErrInvalidInput,
		)
	}

	candidates := make([]valueobject.MatchCandidate, 0, len(pool))

	for _, doc := range pool {
		if doc == nil || doc.OrganizationID != movement.OrganizationID {
			continue
		}

		score, reasons, daysApart := m.Score(movement, doc)

		level, ok := valueobject.ClassifyScore(m.config, score)
		if !ok {
			continue
		}

		candidates = append(candidates, valueobject.MatchCandidate{
			Document:  doc,
			Score:     score,
			Level:     level,
			Reasons:   reasons,
			DaysApart: daysApart,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.DaysApart != b.DaysApart {
			return a.DaysApart < b.DaysApart
		}
		return a.Document.ID.String() < b.Document.ID.String()
	})

	return candidates, nil
}

// Score computes the capped score of a document against a movement, the reasons
// that fired in evaluation order, and the absolute distance in days between both dates.
func (m *Matcher) Score(movement *entity.Movement, doc *entity.Document) (int, []string, int) {
	score := 0
	reasons := make([]string, 0, 5)

	// Amount
	if currenciesAgree(movement.Currency, doc.Currency) {
		amount := movement.Amount.Abs()
		total := doc.TotalAmount.Abs()
		minorUnits := doc.Currency.MinorUnits()
		if doc.Currency == "" {
			minorUnits = movement.Currency.MinorUnits()
		}

		switch {
		case m.config.IsExactAmount(amount, total, minorUnits):
			score += m.config.ExactAmountPoints
			reasons = append(reasons, valueobject.ReasonAmountExact)
		case m.config.IsWithinTolerance(amount, total):
			score += m.config.NearAmountPoints
			reasons = append(reasons, m.config.NearAmountReason())
		}
	}

	// Parties
	party := doc.RelatedParty()
	if taxIDsMatch(movement.CounterpartyTaxID, party.TaxID) {
		score += m.config.TaxIDPoints
		reasons = append(reasons, valueobject.ReasonTaxID)
	}
	if namesMatch(movement.CounterpartyName, party.Name, m.config.NameMaxEditDistance) {
		score += m.config.CounterpartyNamePoints
		reasons = append(reasons, valueobject.ReasonCounterpartyName)
	}

	// Dates
	daysApart := daysBetween(movement.IssueDate, doc.IssueDate)
	switch {
	case daysApart == 0:
		score += m.config.SameDayPoints
		reasons = append(reasons, dateReason(0))
	case daysApart <= m.config.NearDateDays:
		score += m.config.NearDatePoints
		reasons = append(reasons, dateReason(m.config.NearDateDays))
	case daysApart <= m.config.WeekDateDays:
		score += m.config.WeekDatePoints
		reasons = append(reasons, dateReason(m.config.WeekDateDays))
	}

	if categoriesMatch(movement.Category, doc.Category) {
		score += m.config.CategoryPoints
		reasons = append(reasons, valueobject.ReasonCategory)
	}

	if score > m.config.MaxScore {
		score = m.config.MaxScore
	}

	return score, reasons, daysApart
}

func dateReason(days int) string {
	return fmt.Sprintf("dates within %d days", days)
}

func currenciesAgree(a, b entity.Currency) bool {
	return a == "" || b == "" || a == b
}

// daysBetween returns the absolute number of calendar days between two dates.
func daysBetween(a, b time.Time) int {
	dayA := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	dayB := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)

	diff := dayA.Sub(dayB)
	if diff < 0 {
		diff = -diff
	}
	return int(diff.Hours() / 24)
}
