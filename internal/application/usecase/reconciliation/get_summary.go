package reconciliation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mycfo/backend/internal/application/adapter"
)

// GetSummaryInput represents the input for getting reconciliation summary.
type GetSummaryInput struct {
	OrganizationID uuid.UUID
}

// GetSummaryOutput represents the output for getting reconciliation summary.
type GetSummaryOutput struct {
	LinkedMovements   int64
	UnlinkedMovements int64
	UnlinkedDocuments int64
}

// GetSummaryUseCase handles getting reconciliation summary.
type GetSummaryUseCase struct {
	reconciliationRepo adapter.ReconciliationRepository
}

// NewGetSummaryUseCase creates a new GetSummaryUseCase instance.
func NewGetSummaryUseCase(reconciliationRepo adapter.ReconciliationRepository) *GetSummaryUseCase {
	return &GetSummaryUseCase{
		reconciliationRepo: reconciliationRepo,
	}
}

// Execute retrieves reconciliation summary statistics.
func (uc *GetSummaryUseCase) Execute(ctx context.Context, input GetSummaryInput) (*GetSummaryOutput, error) {
	if err := requireOrganization(input.OrganizationID); err != nil {
		return nil, err
	}
	return loadSummary(ctx, uc.reconciliationRepo, input.OrganizationID)
}

// loadSummary reads the organization's counters; the listings attach them too.
func loadSummary(ctx context.Context, repo adapter.ReconciliationRepository, organizationID uuid.UUID) (*GetSummaryOutput, error) {
	summary, err := repo.GetReconciliationSummary(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reconciliation summary: %w", err)
	}

	return &GetSummaryOutput{
		LinkedMovements:   summary.LinkedMovements,
		UnlinkedMovements: summary.UnlinkedMovements,
		UnlinkedDocuments: summary.UnlinkedDocuments,
	}, nil
}
