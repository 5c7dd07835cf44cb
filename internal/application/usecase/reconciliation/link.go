package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mycfo/backend/internal/application/adapter"
	"github.com/mycfo/backend/internal/domain/entity"
	domainerror "github.com/mycfo/backend/internal/domain/error"
)

// LinkInput represents the input for linking a movement to a document.
type LinkInput struct {
	OrganizationID uuid.UUID
	MovementID     uuid.UUID
	DocumentID     uuid.UUID
}

// LinkOutput represents the result of linking.
type LinkOutput struct {
	MovementID          uuid.UUID
	DocumentID          uuid.UUID
	AlreadyLinked       bool // The movement already held this document; nothing was written
	ReconciliationState entity.ReconciliationState
}

// LinkUseCase handles reconciling a movement against a document.
type LinkUseCase struct {
	movementRepo       adapter.MovementRepository
	documentRepo       adapter.DocumentRepository
	reconciliationRepo adapter.ReconciliationRepository
	metrics            adapter.MetricsRecorder
}

// NewLinkUseCase creates a new LinkUseCase instance.
func NewLinkUseCase(
	movementRepo adapter.MovementRepository,
	documentRepo adapter.DocumentRepository,
	reconciliationRepo adapter.ReconciliationRepository,
	metrics adapter.MetricsRecorder,
) *LinkUseCase {
	return &LinkUseCase{
		movementRepo:       movementRepo,
		documentRepo:       documentRepo,
		reconciliationRepo: reconciliationRepo,
		metrics:            metrics,
	}
}

// Execute performs the linking operation.
func (uc *LinkUseCase) Execute(ctx context.Context, input LinkInput) (*LinkOutput, error) {
	if err := validateScope(input.OrganizationID, input.MovementID); err != nil {
		return nil, err
	}
	if input.DocumentID == uuid.Nil {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeInvalidDocumentID,
			"document id is required",
			domainerror.ErrInvalidInput,
		)
	}

	movement, err := uc.movementRepo.FindByID(ctx, input.OrganizationID, input.MovementID)
	if err != nil {
		if errors.Is(err, domainerror.ErrMovementNotFound) {
			return nil, movementNotFound()
		}
		return nil, fmt.Errorf("failed to load movement: %w", err)
	}

	if _, err := uc.documentRepo.FindByID(ctx, input.OrganizationID, input.DocumentID); err != nil {
		if errors.Is(err, domainerror.ErrDocumentNotFound) {
			return nil, documentNotFound()
		}
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	output := &LinkOutput{MovementID: input.MovementID, DocumentID: input.DocumentID}

	if movement.IsLinked() {
		if *movement.LinkedDocumentID == input.DocumentID {
			output.AlreadyLinked = true
			output.ReconciliationState = movement.ReconciliationState
			return output, nil
		}
		uc.metrics.IncrLinkConflict()
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeMovementLinkedElsewhere,
			"movement is already linked to another document",
			domainerror.ErrMovementAlreadyLinked,
		)
	}

	if err := uc.reconciliationRepo.Link(ctx, input.OrganizationID, input.MovementID, input.DocumentID); err != nil {
		if conflict := conflictError(err); conflict != nil {
			uc.metrics.IncrLinkConflict()
			slog.Warn("link rejected",
				"organization_id", input.OrganizationID,
				"movement_id", input.MovementID,
				"document_id", input.DocumentID,
				"error", err,
			)
			return nil, conflict
		}
		return nil, fmt.Errorf("failed to link movement: %w", err)
	}

	movement.LinkTo(input.DocumentID)
	output.ReconciliationState = movement.ReconciliationState
	return output, nil
}

// conflictError maps a repository uniqueness failure to its coded conflict, or nil.
func conflictError(err error) error {
	switch {
	case errors.Is(err, domainerror.ErrMovementAlreadyLinked):
		return domainerror.NewReconciliationError(
			domainerror.ErrCodeMovementLinkedElsewhere,
			"movement is already linked to another document",
			domainerror.ErrMovementAlreadyLinked,
		)
	case errors.Is(err, domainerror.ErrDocumentAlreadyLinked):
		return domainerror.NewReconciliationError(
			domainerror.ErrCodeDocumentLinkedElsewhere,
			"document is already linked to another movement",
			domainerror.ErrDocumentAlreadyLinked,
		)
	case errors.Is(err, domainerror.ErrLinkConflict):
		return domainerror.NewReconciliationError(
			domainerror.ErrCodeLinkRace,
			"link was claimed concurrently, retry",
			domainerror.ErrLinkConflict,
		)
	}
	return nil
}
