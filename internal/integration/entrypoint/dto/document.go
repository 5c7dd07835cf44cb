package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mycfo/backend/internal/domain/entity"
)

// InvoicePartiesDTO holds the invoice parties.
type InvoicePartiesDTO struct {
	Seller PartyDTO `json:"seller"`
	Buyer  PartyDTO `json:"buyer"`
}

// PromissoryNotePartiesDTO holds the promissory note parties.
type PromissoryNotePartiesDTO struct {
	Beneficiary PartyDTO `json:"beneficiary"`
	Debtor      PartyDTO `json:"debtor"`
	DueDate     *string  `json:"due_date,omitempty"`
}

// ReceiptPartiesDTO holds the receipt parties.
type ReceiptPartiesDTO struct {
	Issuer   PartyDTO `json:"issuer"`
	Receiver PartyDTO `json:"receiver"`
}

// CreateDocumentRequest represents the request body for registering a document.
type CreateDocumentRequest struct {
	DocumentType   string                    `json:"document_type" binding:"required"`
	Flow           string                    `json:"flow"`
	DocumentNumber string                    `json:"document_number" binding:"required"`
	IssueDate      string                    `json:"issue_date" binding:"required"`
	TotalAmount    decimal.Decimal           `json:"total_amount"`
	Currency       string                    `json:"currency" binding:"required"`
	Category       string                    `json:"category"`
	Invoice        *InvoicePartiesDTO        `json:"invoice,omitempty"`
	PromissoryNote *PromissoryNotePartiesDTO `json:"promissory_note,omitempty"`
	Receipt        *ReceiptPartiesDTO        `json:"receipt,omitempty"`
}

// DocumentResponse represents a document in API responses.
type DocumentResponse struct {
	ID                string                    `json:"id"`
	DocumentType      string                    `json:"document_type"`
	Flow              string                    `json:"flow"`
	DocumentNumber    string                    `json:"document_number"`
	IssueDate         string                    `json:"issue_date"`
	TotalAmount       string                    `json:"total_amount"`
	Currency          string                    `json:"currency"`
	Category          string                    `json:"category,omitempty"`
	RelatedPartyName  string                    `json:"related_party_name,omitempty"`
	RelatedPartyTaxID string                    `json:"related_party_tax_id,omitempty"`
	Invoice           *InvoicePartiesDTO        `json:"invoice,omitempty"`
	PromissoryNote    *PromissoryNotePartiesDTO `json:"promissory_note,omitempty"`
	Receipt           *ReceiptPartiesDTO        `json:"receipt,omitempty"`
	CreatedAt         time.Time                 `json:"created_at"`
}

// ParseIssueDate returns the request issue date, or false when malformed.
func (r CreateDocumentRequest) ParseIssueDate() (time.Time, bool) {
	return parseDate(r.IssueDate)
}

// PartiesToEntity converts the variant payloads to their entity form.
// A malformed promissory note due date is dropped.
func (r CreateDocumentRequest) PartiesToEntity() (*entity.InvoiceDetails, *entity.PromissoryNoteDetails, *entity.ReceiptDetails) {
	var (
		invoice *entity.InvoiceDetails
		note    *entity.PromissoryNoteDetails
		receipt *entity.ReceiptDetails
	)
	if r.Invoice != nil {
		invoice = &entity.InvoiceDetails{
			Seller: partyToEntity(r.Invoice.Seller),
			Buyer:  partyToEntity(r.Invoice.Buyer),
		}
	}
	if r.PromissoryNote != nil {
		note = &entity.PromissoryNoteDetails{
			Beneficiary: partyToEntity(r.PromissoryNote.Beneficiary),
			Debtor:      partyToEntity(r.PromissoryNote.Debtor),
		}
		if r.PromissoryNote.DueDate != nil {
			if due, ok := parseDate(*r.PromissoryNote.DueDate); ok {
				note.DueDate = &due
			}
		}
	}
	if r.Receipt != nil {
		receipt = &entity.ReceiptDetails{
			Issuer:   partyToEntity(r.Receipt.Issuer),
			Receiver: partyToEntity(r.Receipt.Receiver),
		}
	}
	return invoice, note, receipt
}

// ToDocumentResponse converts a domain Document entity to a DocumentResponse DTO.
func ToDocumentResponse(doc *entity.Document) DocumentResponse {
	if doc == nil {
		return DocumentResponse{}
	}

	related := doc.RelatedParty()
	response := DocumentResponse{
		ID:                doc.ID.String(),
		DocumentType:      string(doc.Type),
		Flow:              string(doc.Flow),
		DocumentNumber:    doc.Number,
		IssueDate:         doc.IssueDate.Format(DateLayout),
		TotalAmount:       formatAmount(doc.TotalAmount),
		Currency:          string(doc.Currency),
		Category:          doc.Category,
		RelatedPartyName:  related.Name,
		RelatedPartyTaxID: related.TaxID,
		CreatedAt:         doc.CreatedAt,
	}

	switch {
	case doc.Invoice != nil:
		response.Invoice = &InvoicePartiesDTO{
			Seller: partyFromEntity(doc.Invoice.Seller),
			Buyer:  partyFromEntity(doc.Invoice.Buyer),
		}
	case doc.PromissoryNote != nil:
		response.PromissoryNote = &PromissoryNotePartiesDTO{
			Beneficiary: partyFromEntity(doc.PromissoryNote.Beneficiary),
			Debtor:      partyFromEntity(doc.PromissoryNote.Debtor),
		}
		if doc.PromissoryNote.DueDate != nil {
			due := doc.PromissoryNote.DueDate.Format(DateLayout)
			response.PromissoryNote.DueDate = &due
		}
	case doc.Receipt != nil:
		response.Receipt = &ReceiptPartiesDTO{
			Issuer:   partyFromEntity(doc.Receipt.Issuer),
			Receiver: partyFromEntity(doc.Receipt.Receiver),
		}
	}

	return response
}

func partyToEntity(p PartyDTO) entity.Party {
	return entity.Party{Name: p.Name, TaxID: p.TaxID}
}

func partyFromEntity(p entity.Party) PartyDTO {
	return PartyDTO{Name: p.Name, TaxID: p.TaxID}
}
