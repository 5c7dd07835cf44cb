package reconciliation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mycfo/backend/internal/application/adapter"
	"github.com/mycfo/backend/internal/domain/entity"
	"github.com/mycfo/backend/internal/domain/matcher"
	"github.com/mycfo/backend/internal/domain/valueobject"
)

// GetPendingInput represents the input for listing movements awaiting a document.
type GetPendingInput struct {
	OrganizationID uuid.UUID
	Limit          int
	Offset         int
}

// PendingMovementOutput is an unlinked movement with its best-ranked document, if any.
type PendingMovementOutput struct {
	Movement       *entity.Movement
	BestCandidate  *valueobject.MatchCandidate
	CandidateCount int
}

// GetPendingOutput represents a page of pending movements.
type GetPendingOutput struct {
	PendingMovements []PendingMovementOutput
	Summary          GetSummaryOutput
}

// GetPendingUseCase handles listing unlinked movements with their top suggestion.
type GetPendingUseCase struct {
	movementRepo       adapter.MovementRepository
	documentRepo       adapter.DocumentRepository
	reconciliationRepo adapter.ReconciliationRepository
	matcher            *matcher.Matcher
}

// NewGetPendingUseCase creates a new GetPendingUseCase instance.
func NewGetPendingUseCase(
	movementRepo adapter.MovementRepository,
	documentRepo adapter.DocumentRepository,
	reconciliationRepo adapter.ReconciliationRepository,
	config valueobject.MatchingConfig,
) *GetPendingUseCase {
	return &GetPendingUseCase{
		movementRepo:       movementRepo,
		documentRepo:       documentRepo,
		reconciliationRepo: reconciliationRepo,
		matcher:            matcher.NewMatcher(config),
	}
}

// Execute lists a page of unlinked movements and scores each against the
// organization's unlinked documents.
func (uc *GetPendingUseCase) Execute(ctx context.Context, input GetPendingInput) (*GetPendingOutput, error) {
	if err := requireOrganization(input.OrganizationID); err != nil {
		return nil, err
	}
	limit, offset := pageBounds(input.Limit, input.Offset)

	movements, err := uc.movementRepo.ListUnlinked(ctx, input.OrganizationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list unlinked movements: %w", err)
	}

	// One pool serves the whole page
	var pool []*entity.Document
	if len(movements) > 0 {
		pool, err = uc.documentRepo.ListUnlinked(ctx, input.OrganizationID)
		if err != nil {
			return nil, fmt.Errorf("failed to list unlinked documents: %w", err)
		}
	}

	pending := make([]PendingMovementOutput, 0, len(movements))
	for _, movement := range movements {
		candidates, err := uc.matcher.Suggest(movement, pool, matcher.SuggestOptions{})
		if err != nil {
			return nil, err
		}

		item := PendingMovementOutput{
			Movement:       movement,
			CandidateCount: len(candidates),
		}
		if len(candidates) > 0 {
			best := candidates[0]
			item.BestCandidate = &best
		}
		pending = append(pending, item)
	}

	summary, err := loadSummary(ctx, uc.reconciliationRepo, input.OrganizationID)
	if err != nil {
		return nil, err
	}

	return &GetPendingOutput{
		PendingMovements: pending,
		Summary:          *summary,
	}, nil
}
