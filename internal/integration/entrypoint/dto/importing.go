package dto

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mycfo/backend/internal/application/usecase/importing"
	"github.com/mycfo/backend/internal/domain/entity"
	"github.com/mycfo/backend/internal/domain/valueobject"
)

// ImportedPaymentRecordDTO is one already-parsed payment from a provider export.
// Amount may be a JSON number or a numeric string; malformed amounts and dates
// are treated as absent, as are amounts too large for a money column.
type ImportedPaymentRecordDTO struct {
	ExternalPaymentID string          `json:"external_payment_id"`
	Amount            json.RawMessage `json:"amount"`
	IssueDate         *string         `json:"issue_date"`
	Description       *string         `json:"description"`
	Counterparty      *string         `json:"counterparty"`
	PaymentMethod     string          `json:"payment_method"`
}

// CheckPaymentsRequest represents the request body for duplicate detection.
type CheckPaymentsRequest struct {
	Provider string                     `json:"provider"`
	Records  []ImportedPaymentRecordDTO `json:"records"`
}

// DuplicateResultResponse is the verdict for one record.
type DuplicateResultResponse struct {
	Index             int    `json:"index"`
	ExternalPaymentID string `json:"external_payment_id,omitempty"`
	IsDuplicate       bool   `json:"is_duplicate"`
	Reason            string `json:"reason,omitempty"`
}

// CheckPaymentsResponse represents the detection verdicts, in request order.
type CheckPaymentsResponse struct {
	Results        []DuplicateResultResponse `json:"results"`
	DuplicateCount int                       `json:"duplicate_count"`
}

// ImportPaymentsRequest represents the request body for a payment import.
type ImportPaymentsRequest struct {
	Provider          string                     `json:"provider"`
	Currency          string                     `json:"currency"`
	IncludeDuplicates bool                       `json:"include_duplicates"`
	Records           []ImportedPaymentRecordDTO `json:"records"`
}

// ImportOutcomeResponse is the import result for one record.
type ImportOutcomeResponse struct {
	Index       int     `json:"index"`
	Imported    bool    `json:"imported"`
	MovementID  *string `json:"movement_id,omitempty"`
	IsDuplicate bool    `json:"is_duplicate"`
	Reason      string  `json:"reason,omitempty"`
}

// ImportPaymentsResponse represents the result of a payment import.
type ImportPaymentsResponse struct {
	Outcomes       []ImportOutcomeResponse `json:"outcomes"`
	ImportedCount  int                     `json:"imported_count"`
	DuplicateCount int                     `json:"duplicate_count"`
	SkippedCount   int                     `json:"skipped_count"`
}

// ToEntity converts the record, dropping malformed optional values.
func (r ImportedPaymentRecordDTO) ToEntity() entity.ImportedPaymentRecord {
	record := entity.ImportedPaymentRecord{
		ExternalPaymentID: strings.TrimSpace(r.ExternalPaymentID),
		Description:       r.Description,
		Counterparty:      r.Counterparty,
		PaymentMethod:     r.PaymentMethod,
	}
	if amount, ok := parseAmount(r.Amount); ok {
		record.Amount = &amount
	}
	if r.IssueDate != nil {
		if date, ok := parseDate(strings.TrimSpace(*r.IssueDate)); ok {
			record.IssueDate = &date
		}
	}
	return record
}

// RecordsToEntity converts a batch of records, preserving order.
func RecordsToEntity(records []ImportedPaymentRecordDTO) []entity.ImportedPaymentRecord {
	result := make([]entity.ImportedPaymentRecord, len(records))
	for i, r := range records {
		result[i] = r.ToEntity()
	}
	return result
}

// ToCheckPaymentsResponse converts detection results to a response DTO.
func ToCheckPaymentsResponse(results []valueobject.DuplicateResult, duplicateCount int) CheckPaymentsResponse {
	response := CheckPaymentsResponse{
		Results:        make([]DuplicateResultResponse, len(results)),
		DuplicateCount: duplicateCount,
	}
	for i, result := range results {
		response.Results[i] = DuplicateResultResponse{
			Index:             result.Index,
			ExternalPaymentID: result.Record.ExternalPaymentID,
			IsDuplicate:       result.IsDuplicate,
			Reason:            result.Reason,
		}
	}
	return response
}

// ToImportPaymentsResponse converts an import output to a response DTO.
func ToImportPaymentsResponse(output *importing.ImportPaymentsOutput) ImportPaymentsResponse {
	response := ImportPaymentsResponse{
		Outcomes:       make([]ImportOutcomeResponse, len(output.Outcomes)),
		ImportedCount:  output.ImportedCount,
		DuplicateCount: output.DuplicateCount,
		SkippedCount:   output.SkippedCount,
	}
	for i, outcome := range output.Outcomes {
		item := ImportOutcomeResponse{
			Index:       outcome.Index,
			Imported:    outcome.Imported,
			IsDuplicate: outcome.IsDuplicate,
			Reason:      outcome.Reason,
		}
		if outcome.MovementID != nil {
			id := outcome.MovementID.String()
			item.MovementID = &id
		}
		response.Outcomes[i] = item
	}
	return response
}

func parseAmount(raw json.RawMessage) (decimal.Decimal, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Decimal{}, false
	}

	text := string(raw)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Decimal{}, false
		}
		text = strings.TrimSpace(s)
	}

	amount, err := decimal.NewFromString(text)
	if err != nil || !valueobject.IsStorableAmount(amount) {
		return decimal.Decimal{}, false
	}
	return amount, true
}
