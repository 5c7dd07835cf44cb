// Package valueobject contains domain value objects for the myCFO backend.
package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MatchingConfig contains the weights and tolerances for movement-to-document matching.
type MatchingConfig struct {
	// Amount signals
	ExactAmountPoints      int
	NearAmountPoints       int
	AmountTolerancePercent decimal.Decimal // 0.05 = 5%

	// Party signals
	TaxIDPoints            int
	CounterpartyNamePoints int
	NameMaxEditDistance    decimal.Decimal // 0.10 = 10% of the longer name

	// Date signals
	SameDayPoints  int
	NearDatePoints int // within NearDateDays
	NearDateDays   int
	WeekDatePoints int // within WeekDateDays
	WeekDateDays   int

	CategoryPoints int

	MaxScore int

	// Suggestion level thresholds
	HighThreshold   int
	MediumThreshold int
}

// DefaultMatchingConfig returns the default matching configuration.
func DefaultMatchingConfig() MatchingConfig {
	return MatchingConfig{
		ExactAmountPoints:      40,
		NearAmountPoints:       20,
		AmountTolerancePercent: decimal.NewFromFloat(0.05),
		TaxIDPoints:            30,
		CounterpartyNamePoints: 15,
		NameMaxEditDistance:    decimal.NewFromFloat(0.10),
		SameDayPoints:          15,
		NearDatePoints:         8,
		NearDateDays:           3,
		WeekDatePoints:         3,
		WeekDateDays:           7,
		CategoryPoints:         5,
		MaxScore:               100,
		HighThreshold:          80,
		MediumThreshold:        50,
	}
}

// AmountEpsilon returns the exact-match tolerance for a currency with the given minor units.
func AmountEpsilon(minorUnits int32) decimal.Decimal {
	return decimal.New(1, -minorUnits)
}

// IsExactAmount checks whether two amounts are equal within the currency epsilon.
func (c MatchingConfig) IsExactAmount(a, b decimal.Decimal, minorUnits int32) bool {
	return a.Sub(b).Abs().LessThanOrEqual(AmountEpsilon(minorUnits))
}

// IsWithinTolerance checks if the amount difference is within the percentage tolerance
// of the reference amount.
func (c MatchingConfig) IsWithinTolerance(amount, reference decimal.Decimal) bool {
	if reference.IsZero() {
		return false
	}
	diff := amount.Sub(reference).Abs()
	percentDiff := diff.Div(reference.Abs())
	return percentDiff.LessThanOrEqual(c.AmountTolerancePercent)
}

// NearAmountReason describes a within-tolerance amount, e.g. "amount within 5% tolerance".
func (c MatchingConfig) NearAmountReason() string {
	percent := c.AmountTolerancePercent.Mul(decimal.NewFromInt(100))
	return fmt.Sprintf("amount within %s%% tolerance", percent.String())
}

// WithTolerance returns a copy using the given near-amount tolerance.
// Values outside (0, 1) keep the current tolerance.
func (c MatchingConfig) WithTolerance(tolerance float64) MatchingConfig {
	if tolerance > 0 && tolerance < 1 {
		c.AmountTolerancePercent = decimal.NewFromFloat(tolerance)
	}
	return c
}

// WithThresholds returns a copy using the given level thresholds.
// Thresholds must satisfy 0 < medium < high <= MaxScore, otherwise they are ignored.
func (c MatchingConfig) WithThresholds(high, medium int) MatchingConfig {
	if medium > 0 && medium < high && high <= c.MaxScore {
		c.HighThreshold = high
		c.MediumThreshold = medium
	}
	return c
}
