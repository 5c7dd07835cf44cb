package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentType identifies the commercial document variant.
type DocumentType string

const (
	DocumentTypeInvoice        DocumentType = "INVOICE"
	DocumentTypePromissoryNote DocumentType = "PROMISSORY_NOTE"
	DocumentTypeReceipt        DocumentType = "RECEIPT"
)

// IsValid reports whether the document type is known.
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypeInvoice, DocumentTypePromissoryNote, DocumentTypeReceipt:
		return true
	}
	return false
}

// DocumentFlow tells which way money moves for the organization holding the document.
type DocumentFlow string

const (
	// DocumentFlowIncoming means the organization collects (sale invoice, note in its favour).
	DocumentFlowIncoming DocumentFlow = "INCOMING"
	// DocumentFlowOutgoing means the organization pays.
	DocumentFlowOutgoing DocumentFlow = "OUTGOING"
)

// Party is a named legal party on a document.
type Party struct {
	Name  string
	TaxID string
}

// InvoiceDetails holds the invoice-specific parties.
type InvoiceDetails struct {
	Seller Party
	Buyer  Party
}

// PromissoryNoteDetails holds the promissory-note-specific parties.
type PromissoryNoteDetails struct {
	Beneficiary Party
	Debtor      Party
	DueDate     *time.Time
}

// ReceiptDetails holds the receipt-specific parties.
type ReceiptDetails struct {
	Issuer   Party
	Receiver Party
}

// Document is a commercial document a movement may settle.
// Exactly one of Invoice, PromissoryNote or Receipt is set, matching Type.
type Document struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	UserID         uuid.UUID
	Type           DocumentType
	Flow           DocumentFlow
	Number         string
	IssueDate      time.Time
	TotalAmount    decimal.Decimal
	Currency       Currency
	Category       string
	Invoice        *InvoiceDetails
	PromissoryNote *PromissoryNoteDetails
	Receipt        *ReceiptDetails
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewDocument creates a new Document entity without a variant payload.
func NewDocument(
	organizationID uuid.UUID,
	userID uuid.UUID,
	documentType DocumentType,
	flow DocumentFlow,
	number string,
	issueDate time.Time,
	totalAmount decimal.Decimal,
	currency Currency,
) *Document {
	now := time.Now().UTC()

	return &Document{
		ID:             uuid.New(),
		OrganizationID: organizationID,
		UserID:         userID,
		Type:           documentType,
		Flow:           flow,
		Number:         number,
		IssueDate:      issueDate,
		TotalAmount:    totalAmount,
		Currency:       currency,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// IsValid reports whether the flow is known.
func (f DocumentFlow) IsValid() bool {
	return f == DocumentFlowIncoming || f == DocumentFlowOutgoing
}

// RelatedParty returns the party on the other side of the document,
// resolved from the variant payload and the document flow.
func (d *Document) RelatedParty() Party {
	incoming := d.Flow != DocumentFlowOutgoing

	switch d.Type {
	case DocumentTypeInvoice:
		if d.Invoice == nil {
			return Party{}
		}
		if incoming {
			return d.Invoice.Buyer
		}
		return d.Invoice.Seller
	case DocumentTypePromissoryNote:
		if d.PromissoryNote == nil {
			return Party{}
		}
		if incoming {
			return d.PromissoryNote.Debtor
		}
		return d.PromissoryNote.Beneficiary
	case DocumentTypeReceipt:
		if d.Receipt == nil {
			return Party{}
		}
		if incoming {
			return d.Receipt.Receiver
		}
		return d.Receipt.Issuer
	}
	return Party{}
}

// RelatedPartyName is a shortcut for RelatedParty().Name.
func (d *Document) RelatedPartyName() string {
	return d.RelatedParty().Name
}

// RelatedPartyTaxID is a shortcut for RelatedParty().TaxID.
func (d *Document) RelatedPartyTaxID() string {
	return d.RelatedParty().TaxID
}

// HasVariantPayload reports whether the payload matching Type is present.
func (d *Document) HasVariantPayload() bool {
	switch d.Type {
	case DocumentTypeInvoice:
		return d.Invoice != nil
	case DocumentTypePromissoryNote:
		return d.PromissoryNote != nil
	case DocumentTypeReceipt:
		return d.Receipt != nil
	}
	return false
}
