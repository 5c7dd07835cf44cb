package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ImportedPaymentRecord is a normalized payment coming from an import source
// (payment provider, spreadsheet, manual batch) before it becomes a Movement.
// Any field may be missing; missing values are nil or empty.
type ImportedPaymentRecord struct {
	ExternalPaymentID string
	Amount            *decimal.Decimal
	IssueDate         *time.Time
	Description       *string
	Counterparty      *string
	PaymentMethod     string
}

// HasExternalID reports whether the record carries a provider payment id.
func (r ImportedPaymentRecord) HasExternalID() bool {
	return r.ExternalPaymentID != ""
}
