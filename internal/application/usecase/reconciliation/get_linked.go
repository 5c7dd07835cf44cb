package reconciliation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mycfo/backend/internal/application/adapter"
	"github.com/mycfo/backend/internal/domain/entity"
	"github.com/mycfo/backend/internal/domain/valueobject"
)

// GetLinkedInput represents the input for listing committed links.
type GetLinkedInput struct {
	OrganizationID uuid.UUID
	Limit          int
	Offset         int
}

// LinkedPairOutput is a committed movement-document link.
type LinkedPairOutput struct {
	Movement         *entity.Movement
	Document         *entity.Document
	LinkedAt         time.Time
	AmountDifference decimal.Decimal // |movement amount| - document total
	HasMismatch      bool            // The amounts differ beyond the near-amount tolerance
}

// GetLinkedOutput represents a page of committed links.
type GetLinkedOutput struct {
	LinkedPairs []LinkedPairOutput
	Summary     GetSummaryOutput
}

// GetLinkedUseCase handles listing committed links.
type GetLinkedUseCase struct {
	reconciliationRepo adapter.ReconciliationRepository
	config             valueobject.MatchingConfig
}

// NewGetLinkedUseCase creates a new GetLinkedUseCase instance.
func NewGetLinkedUseCase(
	reconciliationRepo adapter.ReconciliationRepository,
	config valueobject.MatchingConfig,
) *GetLinkedUseCase {
	return &GetLinkedUseCase{
		reconciliationRepo: reconciliationRepo,
		config:             config,
	}
}

// Execute retrieves a page of links, newest first, and flags amount mismatches.
func (uc *GetLinkedUseCase) Execute(ctx context.Context, input GetLinkedInput) (*GetLinkedOutput, error) {
	if err := requireOrganization(input.OrganizationID); err != nil {
		return nil, err
	}
	limit, offset := pageBounds(input.Limit, input.Offset)

	pairs, err := uc.reconciliationRepo.ListLinks(ctx, input.OrganizationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	linked := make([]LinkedPairOutput, 0, len(pairs))
	for _, pair := range pairs {
		amount := pair.Movement.Amount.Abs()
		total := pair.Document.TotalAmount.Abs()

		linked = append(linked, LinkedPairOutput{
			Movement:         pair.Movement,
			Document:         pair.Document,
			LinkedAt:         pair.LinkedAt,
			AmountDifference: amount.Sub(total),
			HasMismatch:      !uc.config.IsWithinTolerance(amount, total),
		})
	}

	summary, err := loadSummary(ctx, uc.reconciliationRepo, input.OrganizationID)
	if err != nil {
		return nil, err
	}

	return &GetLinkedOutput{
		LinkedPairs: linked,
		Summary:     *summary,
	}, nil
}
