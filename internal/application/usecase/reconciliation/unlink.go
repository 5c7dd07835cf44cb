package reconciliation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mycfo/backend/internal/application/adapter"
	"github.com/mycfo/backend/internal/domain/entity"
	domainerror "github.com/mycfo/backend/internal/domain/error"
)

// UnlinkInput represents the input for unlinking a movement from its document.
type UnlinkInput struct {
	OrganizationID uuid.UUID
	MovementID     uuid.UUID
}

// UnlinkOutput represents the result of unlinking.
type UnlinkOutput struct {
	MovementID          uuid.UUID
	WasLinked           bool
	ReconciliationState entity.ReconciliationState
}

// UnlinkUseCase handles clearing a movement's reconciliation link.
type UnlinkUseCase struct {
	movementRepo       adapter.MovementRepository
	reconciliationRepo adapter.ReconciliationRepository
}

// NewUnlinkUseCase creates a new UnlinkUseCase instance.
func NewUnlinkUseCase(
	movementRepo adapter.MovementRepository,
	reconciliationRepo adapter.ReconciliationRepository,
) *UnlinkUseCase {
	return &UnlinkUseCase{
		movementRepo:       movementRepo,
		reconciliationRepo: reconciliationRepo,
	}
}

// Execute performs the unlinking operation. Unlinking an unlinked movement succeeds.
func (uc *UnlinkUseCase) Execute(ctx context.Context, input UnlinkInput) (*UnlinkOutput, error) {
	if err := validateScope(input.OrganizationID, input.MovementID); err != nil {
		return nil, err
	}

	movement, err := uc.movementRepo.FindByID(ctx, input.OrganizationID, input.MovementID)
	if err != nil {
		if errors.Is(err, domainerror.ErrMovementNotFound) {
			return nil, movementNotFound()
		}
		return nil, fmt.Errorf("failed to load movement: %w", err)
	}

	if err := uc.reconciliationRepo.Unlink(ctx, input.OrganizationID, input.MovementID); err != nil {
		return nil, fmt.Errorf("failed to unlink movement: %w", err)
	}

	wasLinked := movement.IsLinked()
	movement.Unlink()

	return &UnlinkOutput{
		MovementID:          input.MovementID,
		WasLinked:           wasLinked,
		ReconciliationState: movement.ReconciliationState,
	}, nil
}
