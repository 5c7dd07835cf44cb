package valueobject

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mycfo/backend/internal/domain/entity"
)

// Duplicate detection reasons.
const (
	ReasonDuplicateExternalID = "payment already imported by external id"
	ReasonDuplicateContent    = "movement with same date, amount and description already exists"
)

// DayLayout is the layout used for day-truncated dates in keys and lookups.
const DayLayout = "2006-01-02"

// keyMinorUnits is the rounding applied to amounts in duplicate keys.
const keyMinorUnits = 2

// absent marks a missing key component. It cannot collide with a formatted
// date, a decimal string, or a trimmed lower-cased text.
const absent = "\x00"

// DuplicateKey is the content identity of a payment or movement, used when
// an external payment id is unavailable or unseen. Comparable, usable as a map key.
type DuplicateKey struct {
	Day          string
	Amount       string
	Description  string
	Counterparty string
}

// NewDuplicateKey builds a key from optional components. A nil date or amount is
// encoded as absent so it only ever equals another absent value, and so is an amount
// outside the storable range. Description and
// counterparty normalize nil and blank to the same empty value.
func NewDuplicateKey(date *time.Time, amount *decimal.Decimal, description, counterparty *string) DuplicateKey {
	key := DuplicateKey{
		Day:          absent,
		Amount:       absent,
		Description:  normalizeKeyText(description),
		Counterparty: normalizeKeyText(counterparty),
	}
	if date != nil {
		key.Day = FormatDay(*date)
	}
	if amount != nil && IsStorableAmount(*amount) {
		key.Amount = amount.Round(keyMinorUnits).StringFixed(keyMinorUnits)
	}
	return key
}

// KeyForRecord derives the duplicate key of an imported payment record.
func KeyForRecord(record entity.ImportedPaymentRecord) DuplicateKey {
	return NewDuplicateKey(record.IssueDate, record.Amount, record.Description, record.Counterparty)
}

// KeyForMovement derives the duplicate key of a stored movement.
func KeyForMovement(movement *entity.Movement) DuplicateKey {
	date := movement.IssueDate
	amount := movement.Amount
	description := movement.Description
	counterparty := movement.CounterpartyName
	return NewDuplicateKey(&date, &amount, &description, &counterparty)
}

// FormatDay truncates a date to its calendar day.
func FormatDay(t time.Time) string {
	return t.Format(DayLayout)
}

func normalizeKeyText(s *string) string {
	if s == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(*s))
}

// DuplicateResult is the detection verdict for one imported record.
type DuplicateResult struct {
	Index       int
	Record      entity.ImportedPaymentRecord
	IsDuplicate bool
	Reason      string
}
