// Package document contains commercial document use cases.
package document

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mycfo/backend/internal/application/adapter"
	"github.com/mycfo/backend/internal/domain/entity"
	domainerror "github.com/mycfo/backend/internal/domain/error"
)

// CreateDocumentInput represents the input for document registration.
// Only the payload matching Type is read.
type CreateDocumentInput struct {
	OrganizationID uuid.UUID
	UserID         uuid.UUID
	Type           entity.DocumentType
	Flow           entity.DocumentFlow // Optional, defaults to INCOMING
	Number         string
	IssueDate      time.Time
	TotalAmount    decimal.Decimal
	Currency       entity.Currency
	Category       string
	Invoice        *entity.InvoiceDetails
	PromissoryNote *entity.PromissoryNoteDetails
	Receipt        *entity.ReceiptDetails
}

// CreateDocumentOutput represents the output of document registration.
type CreateDocumentOutput struct {
	Document *entity.Document
}

// CreateDocumentUseCase handles document registration logic.
type CreateDocumentUseCase struct {
	documentRepo adapter.DocumentRepository
}

// NewCreateDocumentUseCase creates a new CreateDocumentUseCase instance.
func NewCreateDocumentUseCase(documentRepo adapter.DocumentRepository) *CreateDocumentUseCase {
	return &CreateDocumentUseCase{
		documentRepo: documentRepo,
	}
}

// Execute performs the document registration.
func (uc *CreateDocumentUseCase) Execute(ctx context.Context, input CreateDocumentInput) (*CreateDocumentOutput, error) {
	if err := validateDocumentInput(&input); err != nil {
		return nil, err
	}

	document := entity.NewDocument(
		input.OrganizationID,
		input.UserID,
		input.Type,
		input.Flow,
		input.Number,
		input.IssueDate,
		input.TotalAmount,
		input.Currency,
	)
	document.Category = strings.TrimSpace(input.Category)

	switch input.Type {
	case entity.DocumentTypeInvoice:
		document.Invoice = input.Invoice
	case entity.DocumentTypePromissoryNote:
		document.PromissoryNote = input.PromissoryNote
	case entity.DocumentTypeReceipt:
		document.Receipt = input.Receipt
	}

	if !document.HasVariantPayload() {
		return nil, domainerror.NewDocumentError(
			domainerror.ErrCodeMissingDocumentParties,
			"parties for the document type are required",
			domainerror.ErrMissingDocumentParties,
		)
	}

	// Check the number is free in the organization
	exists, err := uc.documentRepo.ExistsByNumber(ctx, input.OrganizationID, input.Number)
	if err != nil {
		return nil, fmt.Errorf("failed to check document number: %w", err)
	}
	if exists {
		return nil, numberTaken()
	}

	if err := uc.documentRepo.Create(ctx, document); err != nil {
		// Lost a race against a concurrent registration of the same number
		if errors.Is(err, domainerror.ErrDocumentNumberExists) {
			return nil, numberTaken()
		}
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	return &CreateDocumentOutput{
		Document: document,
	}, nil
}

// validateDocumentInput checks required fields and applies defaults in place.
func validateDocumentInput(input *CreateDocumentInput) error {
	if input.OrganizationID == uuid.Nil {
		return domainerror.NewDocumentError(
			domainerror.ErrCodeDocumentMissingOrg,
			"organization id is required",
			domainerror.ErrInvalidInput,
		)
	}

	if !input.Type.IsValid() {
		return domainerror.NewDocumentError(
			domainerror.ErrCodeInvalidDocumentType,
			"type must be 'INVOICE', 'PROMISSORY_NOTE', or 'RECEIPT'",
			domainerror.ErrInvalidDocumentType,
		)
	}

	if input.Flow == "" {
		input.Flow = entity.DocumentFlowIncoming
	}
	if !input.Flow.IsValid() {
		return domainerror.NewDocumentError(
			domainerror.ErrCodeInvalidDocumentFlow,
			"flow must be 'INCOMING' or 'OUTGOING'",
			domainerror.ErrInvalidInput,
		)
	}

	input.Number = strings.TrimSpace(input.Number)
	if input.Number == "" {
		return domainerror.NewDocumentError(
			domainerror.ErrCodeMissingDocumentNumber,
			"document number is required",
			domainerror.ErrMissingDocumentNumber,
		)
	}

	if !input.TotalAmount.IsPositive() {
		return domainerror.NewDocumentError(
			domainerror.ErrCodeInvalidDocumentAmount,
			"total amount must be greater than zero",
			domainerror.ErrInvalidDocumentAmount,
		)
	}

	if !input.Currency.IsValid() {
		return domainerror.NewDocumentError(
			domainerror.ErrCodeInvalidDocumentCurr,
			"currency must be one of ARS, USD, EUR",
			domainerror.ErrInvalidInput,
		)
	}

	return nil
}

func numberTaken() error {
	return domainerror.NewDocumentError(
		domainerror.ErrCodeDocumentNumberExists,
		"a document with this number already exists",
		domainerror.ErrDocumentNumberExists,
	)
}
