package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/mycfo/backend/internal/domain/entity"
)

// MovementRepository defines the interface for movement persistence operations.
type MovementRepository interface {
	// Create creates a new movement in the database.
	Create(ctx context.Context, movement *entity.Movement) error

	// FindByID retrieves a movement scoped to the organization.
	// Returns ErrMovementNotFound when it does not exist there.
	FindByID(ctx context.Context, organizationID, id uuid.UUID) (*entity.Movement, error)

	// ListByIssueDays retrieves the organization's movements whose issue date falls on
	// one of the given days (YYYY-MM-DD). An empty day set returns no movements.
	ListByIssueDays(ctx context.Context, organizationID uuid.UUID, days []string) ([]*entity.Movement, error)

	// ListUnlinked retrieves a page of the organization's UNLINKED movements,
	// oldest issue date first.
	ListUnlinked(ctx context.Context, organizationID uuid.UUID, limit, offset int) ([]*entity.Movement, error)
}
