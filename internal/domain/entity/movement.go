// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType represents the kind of cash-flow event a movement records.
type MovementType string

const (
	MovementTypeIncome     MovementType = "INCOME"
	MovementTypeExpense    MovementType = "EXPENSE"
	MovementTypeDebt       MovementType = "DEBT"
	MovementTypeReceivable MovementType = "RECEIVABLE"
)

// IsValid reports whether the movement type is one of the known values.
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeIncome, MovementTypeExpense, MovementTypeDebt, MovementTypeReceivable:
		return true
	}
	return false
}

// Currency is an ISO 4217 currency code supported by the platform.
type Currency string

const (
	CurrencyARS Currency = "ARS"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

// IsValid reports whether the currency is supported.
func (c Currency) IsValid() bool {
	switch c {
	case CurrencyARS, CurrencyUSD, CurrencyEUR:
		return true
	}
	return false
}

// MinorUnits returns the number of decimal places used by the currency.
func (c Currency) MinorUnits() int32 {
	// All supported currencies use cents.
	return 2
}

// ReconciliationState tracks whether a movement is linked to a document.
type ReconciliationState string

const (
	ReconciliationStateUnlinked ReconciliationState = "UNLINKED"
	ReconciliationStateLinked   ReconciliationState = "LINKED"
)

// Movement represents a single cash-flow event (bank transaction, payment, manual entry).
type Movement struct {
	ID                  uuid.UUID
	OrganizationID      uuid.UUID
	UserID              uuid.UUID
	Type                MovementType
	Amount              decimal.Decimal // Signed: negative for outflows
	IssueDate           time.Time
	Category            string
	Description         string
	CounterpartyName    string
	CounterpartyTaxID   string
	PaymentMethod       string
	Currency            Currency
	Source              string // manual, excel, mercadopago...
	LinkedDocumentID    *uuid.UUID
	ReconciliationState ReconciliationState
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewMovement creates a new unlinked Movement entity.
func NewMovement(
	organizationID uuid.UUID,
	userID uuid.UUID,
	movementType MovementType,
	amount decimal.Decimal,
	issueDate time.Time,
	description string,
	currency Currency,
) *Movement {
	now := time.Now().UTC()

	return &Movement{
		ID:                  uuid.New(),
		OrganizationID:      organizationID,
		UserID:              userID,
		Type:                movementType,
		Amount:              amount,
		IssueDate:           issueDate,
		Description:         description,
		Currency:            currency,
		ReconciliationState: ReconciliationStateUnlinked,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// IsLinked reports whether the movement is reconciled against a document.
func (m *Movement) IsLinked() bool {
	return m.ReconciliationState == ReconciliationStateLinked && m.LinkedDocumentID != nil
}

// LinkTo marks the movement as reconciled against the given document.
func (m *Movement) LinkTo(documentID uuid.UUID) {
	id := documentID
	m.LinkedDocumentID = &id
	m.ReconciliationState = ReconciliationStateLinked
	m.UpdatedAt = time.Now().UTC()
}

// Unlink clears the reconciliation link. Unlinking an unlinked movement is a no-op.
func (m *Movement) Unlink() {
	if !m.IsLinked() {
		return
	}
	m.LinkedDocumentID = nil
	m.ReconciliationState = ReconciliationStateUnlinked
	m.UpdatedAt = time.Now().UTC()
}
