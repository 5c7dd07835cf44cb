// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// PartyDTO is a named legal party on a document.
type PartyDTO struct {
	Name  string `json:"name"`
	TaxID string `json:"tax_id"`
}

// parseDate accepts a plain date or an RFC 3339 timestamp.
func parseDate(value string) (time.Time, bool) {
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

func formatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
